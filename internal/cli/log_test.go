package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("cache hit", "key", "design") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("cache hit", "key", "design") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("cache hit", "key", "design") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("cache hit", "key", "design") }, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.logFunc(newLogger(&buf, tt.level))
		if got := buf.Len() > 0; got != tt.wantLog {
			t.Errorf("level %s: logged = %v, want %v", tt.level, got, tt.wantLog)
		}
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Warn("duplicate pid", "pid", "p-3", "count", 2)

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("line %q does not start with an HH:MM:SS.ms timestamp", line)
	}
	if !strings.Contains(line, "pid=p-3") || !strings.Contains(line, "count=2") {
		t.Errorf("line %q lacks key/value pairs", line)
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Generated 12 patches")

	if !regexp.MustCompile(`Generated 12 patches \(\d+(\.\d+)?[µnm]?s\)`).MatchString(buf.String()) {
		t.Errorf("progress line = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestRenderLogsProgress(t *testing.T) {
	_, cfgPath := testCLI(t)
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	out := filepath.Join(t.TempDir(), "grid")
	execute(t, c, "--config", cfgPath, "render", "--generate", "--seed", "3",
		"--columns", "3", "--rows", "2", "-f", "json", "-o", out)

	logs := buf.String()
	if !strings.Contains(logs, "Rendering layout") {
		t.Errorf("logs lack the render start line:\n%s", logs)
	}
	if !regexp.MustCompile(`Rendered 6 patches \(`).MatchString(logs) {
		t.Errorf("logs lack the progress line:\n%s", logs)
	}
}
