package session

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/flickergrid/flickergrid/pkg/errors"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"layout-a", "layout-a", false},
		{"  layout-a  ", "layout-a", false},
		{"layout-a.csv", "layout-a", false},
		{" layout-a.csv ", "layout-a", false},
		{"", "", false},
		{"   ", "", false},
		{".csv", "", false},
		{"../etc/passwd", "", true},
		{"a/b", "", true},
		{`a\b`, "", true},
		{".hidden", "", true},
		{"tab\there", "", true},
		{strings.Repeat("x", 201), "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidSessionName) {
			t.Errorf("NormalizeName(%q) code = %q", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAutoName(t *testing.T) {
	now := time.Date(2024, 6, 4, 15, 30, 12, 0, time.UTC)
	name := AutoName(now, 12)

	if !regexp.MustCompile(`^20240604-153012-12-[0-9a-f]{8}$`).MatchString(name) {
		t.Errorf("AutoName() = %q", name)
	}
	if _, err := NormalizeName(name); err != nil {
		t.Errorf("AutoName() should be a valid name: %v", err)
	}
	if name == AutoName(now, 12) {
		t.Error("AutoName() should differ between calls")
	}
}
