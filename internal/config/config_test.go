package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flickergrid/flickergrid/pkg/cache"
	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/session"
)

func TestDecodeOverlaysDefaults(t *testing.T) {
	doc := `
[display]
resolution_x = 1280
resolution_y = 720
grid_columns = 2

[render]
formats = ["svg", "png"]
seed = 7

[server]
addr = ":8080"
`
	c, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Display.ResolutionX != 1280 || c.Display.ResolutionY != 720 || c.Display.GridColumns != 2 {
		t.Errorf("display = %+v", c.Display)
	}
	if c.Display.GridRows != Default().Display.GridRows {
		t.Errorf("GridRows = %d, want default", c.Display.GridRows)
	}
	if got := strings.Join(c.Render.Formats, ","); got != "svg,png" {
		t.Errorf("formats = %s", got)
	}
	if c.Render.Seed != 7 || c.Server.Addr != ":8080" {
		t.Errorf("render/server = %+v %+v", c.Render, c.Server)
	}
	if c.Session.Backend != BackendFile || !c.Server.Gzip {
		t.Errorf("defaults lost: %+v %+v", c.Session, c.Server)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "[display\n", ""},
		{"unknown key", "[server]\nport = 1\n", "server.port"},
		{"bad format", "[render]\nformats = [\"gif\"]\n", "gif"},
		{"bad backend", "[session]\nbackend = \"s3\"\n", "s3"},
		{"redis without addr", "[session]\nbackend = \"redis\"\n", "redis_addr"},
		{"mongo without uri", "[session]\nbackend = \"mongo\"\n", "mongo_uri"},
		{"negative height", "[render]\nheight = -1\n", "height"},
		{"negative speed", "[server]\ndisplay_speed = -2\n", "display_speed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	c := Default()
	c.Display.GridColumns = 6
	c.Session.Backend = BackendMemory

	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, buf.String())
	}
	if got.Display.GridColumns != 6 || got.Session.Backend != BackendMemory {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing default file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		c, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if c.Server.Addr != Default().Server.Addr {
			t.Errorf("Addr = %q", c.Server.Addr)
		}
	})

	t.Run("default file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		dir := filepath.Join(home, "flickergrid")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[cache]\nsize = 3\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		c, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if c.Cache.Size != 3 {
			t.Errorf("Size = %d", c.Cache.Size)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, errors.ErrCodeInvalidOptions) {
			t.Errorf("err = %v, want INVALID_OPTIONS", err)
		}
	})
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	p, err := DefaultPath()
	if err != nil || p != "/tmp/cfg/flickergrid/config.toml" {
		t.Errorf("DefaultPath = %q, %v", p, err)
	}
	d, err := CacheDir()
	if err != nil || d != "/tmp/cache/flickergrid" {
		t.Errorf("CacheDir = %q, %v", d, err)
	}
}

func TestOpenSessionStore(t *testing.T) {
	ctx := context.Background()

	c := Default()
	c.Session.Backend = BackendMemory
	s, err := c.OpenSessionStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*session.MemoryStore); !ok {
		t.Errorf("memory backend gave %T", s)
	}
	s.Close()

	c.Session.Backend = BackendFile
	c.Session.Dir = t.TempDir()
	s, err = c.OpenSessionStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*session.FileStore); !ok {
		t.Errorf("file backend gave %T", s)
	}
	s.Close()
}

func TestOpenCaches(t *testing.T) {
	c := Default()
	c.Cache.Dir = t.TempDir()

	cli, err := c.OpenCLICache()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cli.(*cache.FileCache); !ok {
		t.Errorf("CLI cache = %T", cli)
	}

	srv, err := c.OpenServerCache(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := srv.(*cache.LRUCache); !ok {
		t.Errorf("server cache = %T", srv)
	}

	c.Cache.Disabled = true
	cli, _ = c.OpenCLICache()
	srv, _ = c.OpenServerCache(context.Background())
	if _, ok := cli.(*cache.NullCache); !ok {
		t.Errorf("disabled CLI cache = %T", cli)
	}
	if _, ok := srv.(*cache.NullCache); !ok {
		t.Errorf("disabled server cache = %T", srv)
	}
}

func TestPipelineOptions(t *testing.T) {
	c := Default()
	c.Render.Seed = 42
	o := c.PipelineOptions()
	if o.Seed != 42 || o.Display != c.Display || o.Height != c.Render.Height {
		t.Errorf("PipelineOptions = %+v", o)
	}
	o.Formats[0] = "png"
	if c.Render.Formats[0] != "svg" {
		t.Error("PipelineOptions shares the formats slice")
	}
}
