// Package pipeline provides the generate → render pipeline behind every entry
// point.
//
// The CLI and the HTTP server both turn display options into design text and
// design text into previews. This package does both in one place so the two
// front ends behave the same way and share one cache.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Generate: lay out a patch grid for the display options and serialize it
//     to design text. Skipped when the caller already has design text.
//  2. Render: draw the design text in each requested format (SVG, PNG, PDF,
//     JSON).
//
// Design text is the only thing passed between the stages, so a preview of
// hand-edited text goes through exactly the same code as a fresh layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Display: display.Defaults(),
//	    Seed:    7,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Generation is cached only when a seed is given; an unseeded layout draws
// fresh frequencies and phases every time.
package pipeline

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flickergrid/flickergrid/pkg/cache"
	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/render"
	"github.com/flickergrid/flickergrid/pkg/render/sink"
)

// DefaultHeight is the default preview height in pixels. With the default
// 16:9 resolution it gives a 960×540 canvas.
const DefaultHeight = 540.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Display describes the target monitor and patch grid.
	Display display.Options `json:"display"`

	// Seed makes omega and phi reproducible. Zero means unseeded.
	Seed uint64 `json:"seed,omitempty"`

	// DesignText, when set, is rendered as is and generation is skipped.
	DesignText string `json:"design_text,omitempty"`

	// Strict rejects display options that would give a degenerate layout
	// instead of drawing it.
	Strict bool `json:"strict,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Height  float64  `json:"height,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Background is an optional image data URL drawn behind the patches of
	// SVG and PNG previews.
	Background string `json:"background,omitempty"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool

	background image.Image
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DesignText is the text that was rendered.
	DesignText string

	// Patches holds the generated patches as they read back from
	// DesignText, with omega and phi rounded to two decimals. It is nil when
	// the caller supplied the text.
	Patches []design.Patch

	// Report describes the rendered design: cues, duplicates and malformed
	// records.
	Report render.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PatchCount   int
	Duplicates   int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // layout came from cache
	RenderHit   bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options for a full run and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.DesignText == "" {
		if err := o.ValidateForGenerate(); err != nil {
			return err
		}
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the options for layout generation.
func (o *Options) ValidateForGenerate() error {
	o.setLogger()
	if o.Strict {
		if err := o.Display.Validate(); err != nil {
			return err
		}
	}
	return o.Display.CheckLimits()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "height must not be negative, got %g", o.Height)
	}
	if o.Strict {
		if err := o.Display.Validate(); err != nil {
			return err
		}
	}
	if err := display.CheckCanvas(render.CanvasSize(o.Height, o.Display)); err != nil {
		return err
	}
	if o.Background != "" && o.background == nil {
		img, err := display.DecodeBackground(o.Background)
		if err != nil {
			return err
		}
		o.background = img
	}
	return ValidateFormats(o.Formats)
}

// sinkOptions returns the sink options for the decoded background, if any.
func (o *Options) sinkOptions() []sink.Option {
	if o.background == nil {
		return nil
	}
	return []sink.Option{sink.WithBackground(o.background)}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:  format,
		Height:  o.Height,
		Display: o.Display,
	}
	if o.Background != "" {
		opts.Background = cache.Hash([]byte(o.Background))
	}
	return opts
}

// String summarizes the run for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%dx%d grid on %dx%d, formats %v",
		o.Display.GridColumns, o.Display.GridRows, o.Display.ResolutionX, o.Display.ResolutionY, o.Formats)
}
