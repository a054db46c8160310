// Package config loads the flickergrid configuration file.
//
// The file is TOML with one table per concern:
//
//	[display]   # monitor, viewing distance and patch grid (display.Options)
//	[render]    # preview height, formats, seed
//	[session]   # where named designs are stored
//	[cache]     # where rendered previews are cached
//	[server]    # HTTP listener and run queue
//
// Missing tables and keys keep their defaults. CLI flags override file values.
package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/flickergrid/flickergrid/pkg/cache"
	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/pipeline"
	"github.com/flickergrid/flickergrid/pkg/session"
)

const appName = "flickergrid"

// Session backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the whole configuration file.
type Config struct {
	Display display.Options `toml:"display"`
	Render  Render          `toml:"render"`
	Session Session         `toml:"session"`
	Cache   Cache           `toml:"cache"`
	Server  Server          `toml:"server"`
}

type Render struct {
	Height  float64  `toml:"height"`
	Formats []string `toml:"formats"`
	// Seed makes generated layouts reproducible. Zero means unseeded.
	Seed   uint64 `toml:"seed"`
	Strict bool   `toml:"strict"`
}

type Session struct {
	Backend string `toml:"backend"`
	// Dir is the file backend's directory. Empty means
	// ~/.config/flickergrid/sessions.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisKey      string `toml:"redis_key"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type Cache struct {
	Disabled bool `toml:"disabled"`
	// Dir is the CLI cache directory. Empty means ~/.cache/flickergrid.
	Dir string `toml:"dir"`
	// RedisAddr, when set, makes the server share previews through Redis.
	RedisAddr string `toml:"redis_addr"`
	// Size bounds the server's in-memory cache.
	Size int `toml:"size"`
}

type Server struct {
	Addr string `toml:"addr"`
	// Gzip compresses responses for clients that accept it.
	Gzip bool `toml:"gzip"`
	// SimulateDisplay drains the run queue on a timer, for setups without
	// a stimulus display attached.
	SimulateDisplay bool    `toml:"simulate_display"`
	DisplaySpeed    float64 `toml:"display_speed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Display: display.Defaults(),
		Render: Render{
			Height:  pipeline.DefaultHeight,
			Formats: []string{pipeline.FormatSVG},
		},
		Session: Session{Backend: BackendFile},
		Cache:   Cache{Size: cache.DefaultLRUSize},
		Server: Server{
			Addr:         "127.0.0.1:23333",
			Gzip:         true,
			DisplaySpeed: 1,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/flickergrid/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func configDir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns $XDG_CACHE_HOME/flickergrid, falling back to ~/.cache.
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads path over [Default]. An empty path loads [DefaultPath] and
// tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidOptions, err, "open config")
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidOptions, err, "load %s", path)
	}
	return c, nil
}

// Decode reads a TOML document over [Default] and validates it.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Default(), err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), errors.New(errors.ErrCodeInvalidOptions, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Default(), err
	}
	return c, nil
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the non-display tables. Display options are checked by
// strict renders only, so a half-edited layout can still be previewed.
func (c Config) Validate() error {
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "render.height must not be negative, got %g", c.Render.Height)
	}
	switch c.Session.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Session.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidOptions, "session.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Session.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidOptions, "session.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidOptions, "session.backend must be one of file, memory, redis, mongo; got %q", c.Session.Backend)
	}
	if c.Server.DisplaySpeed < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "server.display_speed must not be negative")
	}
	return nil
}

// OpenSessionStore connects the configured session backend.
func (c Config) OpenSessionStore(ctx context.Context) (session.Store, error) {
	s := c.Session
	switch s.Backend {
	case BackendMemory:
		return session.NewMemoryStore(), nil
	case BackendRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Key:      s.RedisKey,
		})
	case BackendMongo:
		return session.NewMongoStore(ctx, session.MongoConfig{
			URI:        s.MongoURI,
			Database:   s.MongoDatabase,
			Collection: s.MongoCollection,
		})
	default:
		return session.NewFileStore(s.Dir)
	}
}

// OpenCLICache returns the cache used by CLI commands: a file cache, or a
// null cache when disabled.
func (c Config) OpenCLICache() (cache.Cache, error) {
	if c.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// OpenServerCache returns the cache used by the server: Redis when an
// address is configured, an in-memory LRU otherwise.
func (c Config) OpenServerCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.Cache.Disabled:
		return cache.NewNullCache(), nil
	case c.Cache.RedisAddr != "":
		return cache.NewRedisCache(ctx, c.Cache.RedisAddr, appName+":cache:")
	default:
		return cache.NewLRUCache(c.Cache.Size)
	}
}

// PipelineOptions returns pipeline options for the [display] and [render]
// tables.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Display: c.Display,
		Seed:    c.Render.Seed,
		Strict:  c.Render.Strict,
		Height:  c.Render.Height,
		Formats: append([]string(nil), c.Render.Formats...),
	}
}
