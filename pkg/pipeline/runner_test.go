package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flickergrid/flickergrid/pkg/display"
)

// memCache is an in-memory Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func gridOptions(cols, rows int) display.Options {
	o := display.Defaults()
	o.GridColumns, o.GridRows = cols, rows
	return o
}

func TestExecuteGeneratesAndRenders(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Display: gridOptions(2, 1),
		Seed:    7,
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(res.Patches) != 2 || res.Patches[0].PID != "p-1" || res.Patches[1].PID != "p-2" {
		t.Fatalf("Patches = %+v", res.Patches)
	}
	if res.Patches[0].X != 720 || res.Patches[1].X != 1200 || res.Patches[0].Y != 540 {
		t.Errorf("unexpected geometry: %+v", res.Patches)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("missing SVG artifact")
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"cues"`)) {
		t.Error("missing JSON artifact")
	}
	if res.Stats.PatchCount != 2 || res.Stats.Duplicates != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if got := strings.Join(res.Report.Cues, ","); got != "!Random,!NoCue,p-1,p-2" {
		t.Errorf("Cues = %s", got)
	}
}

func TestExecuteSeededIsReproducible(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Display: gridOptions(3, 2), Seed: 42}

	a, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.Execute(ctx, opts)
	if a.DesignText != b.DesignText {
		t.Error("same seed should give the same design text")
	}

	opts.Seed = 43
	c, _ := r.Execute(ctx, opts)
	if a.DesignText == c.DesignText {
		t.Error("different seeds should change omega/phi")
	}
}

func TestExecuteCaches(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Display: gridOptions(2, 2), Seed: 1, Formats: []string{FormatSVG, FormatPNG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.GenerateHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if mc.sets != 3 {
		t.Errorf("cache writes = %d, want 3 (design, svg, png)", mc.sets)
	}

	second, _ := r.Execute(ctx, opts)
	if !second.CacheInfo.GenerateHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatPNG], second.Artifacts[FormatPNG]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, _ := r.Execute(ctx, opts)
	if third.CacheInfo.GenerateHit || third.CacheInfo.RenderHit {
		t.Error("Refresh should bypass cache reads")
	}
}

func TestUnseededGenerateNotCached(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	if _, err := r.Generate(context.Background(), Options{Display: gridOptions(2, 2)}); err != nil {
		t.Fatal(err)
	}
	if mc.sets != 0 {
		t.Errorf("unseeded layout should not be cached, got %d writes", mc.sets)
	}
}

func TestRenderWarnsOnDuplicates(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(nil, nil, log.NewWithOptions(&buf, log.Options{}))
	text := "0,p-1,100,100,50,50,10,0;1,p-1,300,300,50,50,10,0;2,p-2,500,500,x,50,10,0"

	artifacts, report, err := r.Render(context.Background(), Options{Display: display.Defaults(), DesignText: text})
	if err != nil {
		t.Fatalf("duplicates must not fail the render: %v", err)
	}
	if len(artifacts[FormatSVG]) == 0 {
		t.Error("missing SVG")
	}
	if len(report.Duplicates) != 1 || report.Duplicates[0].Count != 2 {
		t.Errorf("Duplicates = %+v", report.Duplicates)
	}

	out := buf.String()
	for _, want := range []string{"duplicate patch id", "pid=p-1", "count=2", "malformed", "pid=p-2"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestExecuteUsesGivenText(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	text := "0,a,10,10,4,4,10,0"
	res, err := r.Execute(context.Background(), Options{Display: display.Defaults(), DesignText: text})
	if err != nil {
		t.Fatal(err)
	}
	if res.DesignText != text || res.Patches != nil {
		t.Errorf("given text should be rendered as is: %+v", res)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(context.Background(), Options{Display: display.Defaults(), Formats: []string{"gif"}})
	if err == nil {
		t.Error("unknown format should fail")
	}
}
