// Package cli implements the flickergrid command-line interface.
package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flickergrid/flickergrid/internal/config"
	"github.com/flickergrid/flickergrid/pkg/buildinfo"
	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/pipeline"
	"github.com/flickergrid/flickergrid/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flickergrid"

	// defaultServerURL is where submit and status look for the display server.
	defaultServerURL = "http://127.0.0.1:23333"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "flickergrid",
		Short: "Flickergrid lays out SSVEP flicker patches on a display",
		Long: `Flickergrid generates grids of flickering patches sized by visual angle,
previews them, stores named designs, and submits runs to a stimulus display.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flickergrid/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cuesCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Backends
// =============================================================================

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.config != nil {
		return *c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.config = &cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "session", cfg.Session.Backend)
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if noCache {
		cfg.Cache.Disabled = true
	}
	store, err := cfg.OpenCLICache()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// openSessions opens the configured session store.
func (c *CLI) openSessions(ctx context.Context) (session.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.OpenSessionStore(ctx)
}

// cacheDir returns the CLI cache directory: the configured one, or
// ~/.cache/flickergrid.
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// displayFlags are the layout flags shared by generate, render and submit.
type displayFlags struct {
	set     map[string]string
	columns int
	rows    int
	seed    uint64
	strict  bool
}

func (f *displayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringToStringVar(&f.set, "set", nil, "display option overrides, e.g. --set resolutionX=2560,rulerToggle=false")
	cmd.Flags().IntVar(&f.columns, "columns", 0, "grid columns (overrides config)")
	cmd.Flags().IntVar(&f.rows, "rows", 0, "grid rows (overrides config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for reproducible frequencies and phases (0 = random)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject display options that give a degenerate layout")
}

// apply overlays the flags on the configured options. Values that do not
// parse are coerced and reported as warnings.
func (f *displayFlags) apply(logger *log.Logger, cfg config.Config) pipeline.Options {
	opts := cfg.PipelineOptions()
	if f.seed != 0 {
		opts.Seed = f.seed
	}
	if f.strict {
		opts.Strict = true
	}

	d, coercion := display.FromValues(f.set, opts.Display)
	for _, key := range coercion.Invalid {
		logger.Warn("option did not parse, using zero value", "key", key, "value", f.set[key])
	}
	if f.columns > 0 {
		d.GridColumns = f.columns
	}
	if f.rows > 0 {
		d.GridRows = f.rows
	}
	opts.Display = d
	opts.Logger = logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// =============================================================================
// Input Helpers
// =============================================================================

// readDesign returns design text from a session, a file, or stdin ("-" or
// no argument). Session CSV files are accepted as well as plain design text.
func (c *CLI) readDesign(ctx context.Context, args []string, sessionName string) (text, source string, err error) {
	if sessionName != "" {
		store, err := c.openSessions(ctx)
		if err != nil {
			return "", "", err
		}
		defer store.Close()
		text, err := store.Get(ctx, sessionName)
		return text, sessionName, err
	}

	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		source = "stdin"
	} else {
		data, err = os.ReadFile(path)
		source = path
	}
	if err != nil {
		return "", "", fmt.Errorf("read design: %w", err)
	}

	if strings.HasPrefix(string(data), "i,name,") {
		patches, err := session.ReadCSV(strings.NewReader(string(data)))
		if err != nil {
			return "", "", err
		}
		return design.Serialize(patches), source, nil
	}
	return strings.TrimSpace(string(data)), source, nil
}

// readBackground turns an image file into the data URL the renderer and
// run submission accept.
func readBackground(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read background: %w", err)
	}
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(typ, "image/") {
		return "", errors.New(errors.ErrCodeInvalidInput, "background %s is not an image", path)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// openOutput returns stdout for an empty path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
