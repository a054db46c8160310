package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flickergrid/flickergrid/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	display    displayFlags
	session    string
	output     string
	formats    string
	height     float64
	background string
	generate   bool
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [design-file|-]",
		Short: "Draw a design as SVG, PNG, PDF or JSON",
		Long: `Render draws design text the way the stimulus display will show it: the
screen color, the optional ruler, and every patch with its id and frequency.
The design is read from a file, stdin, a saved session (--session), or
generated on the fly (--generate).

Duplicate patch ids and malformed records are reported but still drawn.`,
		Example: `  flickergrid render layout.txt -f svg,png
  flickergrid render --session pilot -o pilot.png
  flickergrid generate | flickergrid render - --background photo.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, &opts)
		},
	}

	opts.display.register(cmd)
	cmd.Flags().StringVar(&opts.session, "session", "", "render a saved session")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "preview height in pixels (default from config)")
	cmd.Flags().StringVar(&opts.background, "background", "", "image file drawn behind the patches")
	cmd.Flags().BoolVar(&opts.generate, "generate", false, "render a freshly generated layout instead of reading one")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, args []string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := opts.display.apply(logger, cfg)
	popts.Formats = parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	if opts.height > 0 {
		popts.Height = opts.height
	}
	popts.Refresh = opts.refresh
	if popts.Background, err = readBackground(opts.background); err != nil {
		return err
	}

	source := "layout"
	if !opts.generate {
		popts.DesignText, source, err = c.readDesign(ctx, args, opts.session)
		if err != nil {
			return err
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger.Infof("Rendering %s", source)
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d patches", result.Stats.PatchCount))

	paths, err := writeArtifacts(result.Artifacts, opts.output, source)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d patches", result.Stats.PatchCount)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.PatchCount, result.Stats.Duplicates, result.CacheInfo.RenderHit)
	for _, d := range result.Report.Duplicates {
		printWarning("patch id %s occurs %d times", d.PID, d.Count)
	}
	if len(result.Report.Malformed) > 0 {
		printWarning("malformed geometry drawn at 0: %s", strings.Join(result.Report.Malformed, ", "))
	}
	return nil
}

// writeArtifacts writes every rendered format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, output, source string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	var paths []string
	for _, format := range formats {
		path := output
		if len(formats) > 1 || path == "" {
			path = basePath(output, source) + "." + format
		}
		out, err := openOutput(path)
		if err != nil {
			return nil, err
		}
		_, err = out.Write(artifacts[format])
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path. An output with a format extension
// loses it; without an output, the source's file name minus extension is
// used, and stdin renders to "design".
func basePath(output, source string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if source == "" || source == "stdin" {
		return "design"
	}
	return strings.TrimSuffix(source, filepath.Ext(source))
}
