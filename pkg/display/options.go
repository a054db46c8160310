package display

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/flickergrid/flickergrid/pkg/errors"
)

// Patch shapes understood by the presentation side. The value is forwarded to
// run submission untouched.
const (
	ShapeRectangle = "rectangle"
	ShapeEllipse   = "ellipse"
)

// Fallback colors for option values that are not valid hex colors.
var (
	DefaultScreenColor color.Color = color.RGBA{R: 0x76, G: 0x57, B: 0x65, A: 0xff}
	DefaultRulerColor  color.Color = color.White
	DefaultPatchColor  color.Color = color.White
)

// Options describes the target display and the requested patch grid.
type Options struct {
	ResolutionX       int     `toml:"resolution_x" json:"resolutionX"`
	ResolutionY       int     `toml:"resolution_y" json:"resolutionY"`
	MonitorSizeInches float64 `toml:"monitor_size_inches" json:"monitorSizeInches"`
	ViewingDistance   float64 `toml:"viewing_distance_cm" json:"viewingDistance"`

	RectCenterX float64 `toml:"rect_center_x" json:"rectCenterX"`
	RectCenterY float64 `toml:"rect_center_y" json:"rectCenterY"`
	RectWidth   float64 `toml:"rect_width" json:"rectWidth"`
	RectHeight  float64 `toml:"rect_height" json:"rectHeight"`

	GridColumns  int     `toml:"grid_columns" json:"gridColumns"`
	GridRows     int     `toml:"grid_rows" json:"gridRows"`
	PatchExtentX float64 `toml:"patch_extent_x" json:"patchExtentX"`
	PatchExtentY float64 `toml:"patch_extent_y" json:"patchExtentY"`

	ScreenColor string `toml:"screen_color" json:"screenColor"`
	RulerColor  string `toml:"ruler_color" json:"rulerColor"`
	PatchColor  string `toml:"patch_color" json:"patchColor"`
	RulerToggle bool   `toml:"ruler" json:"rulerToggle"`
	PatchShape  string `toml:"patch_shape" json:"patchShape"`
}

// Defaults returns the options used when nothing else is configured: a 24"
// full-HD monitor viewed from 60 cm with a 4×3 grid in the central quarter.
func Defaults() Options {
	return Options{
		ResolutionX:       1920,
		ResolutionY:       1080,
		MonitorSizeInches: 24,
		ViewingDistance:   60,
		RectCenterX:       0.5,
		RectCenterY:       0.5,
		RectWidth:         0.5,
		RectHeight:        0.5,
		GridColumns:       4,
		GridRows:          3,
		PatchExtentX:      0.8,
		PatchExtentY:      0.8,
		ScreenColor:       "#765765",
		RulerColor:        "#ffffff",
		PatchColor:        "#ffffff",
		RulerToggle:       true,
		PatchShape:        ShapeRectangle,
	}
}

// AspectRatio returns ResolutionX / ResolutionY, or 0 when the vertical
// resolution is not positive.
func (o Options) AspectRatio() float64 {
	if o.ResolutionY <= 0 {
		return 0
	}
	return float64(o.ResolutionX) / float64(o.ResolutionY)
}

// PatchCount returns the number of grid cells, or 0 for a degenerate grid.
func (o Options) PatchCount() int {
	if o.GridColumns <= 0 || o.GridRows <= 0 {
		return 0
	}
	return o.GridColumns * o.GridRows
}

// Validate checks that o describes a drawable layout. Rendering never calls
// it; strict entry points (config files, CLI flags) do.
func (o Options) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if o.ResolutionX <= 0 || o.ResolutionY <= 0 {
		add("resolution must be positive, got %dx%d", o.ResolutionX, o.ResolutionY)
	}
	if o.MonitorSizeInches <= 0 {
		add("monitor size must be positive, got %g", o.MonitorSizeInches)
	}
	if o.ViewingDistance <= 0 {
		add("viewing distance must be positive, got %g", o.ViewingDistance)
	}
	if !inUnit(o.RectCenterX, true) || !inUnit(o.RectCenterY, true) {
		add("rect center must be within [0,1], got (%g, %g)", o.RectCenterX, o.RectCenterY)
	}
	if !inUnit(o.RectWidth, false) || !inUnit(o.RectHeight, false) {
		add("rect size must be within (0,1], got %gx%g", o.RectWidth, o.RectHeight)
	}
	if o.GridColumns <= 0 || o.GridRows <= 0 {
		add("grid must have positive columns and rows, got %dx%d", o.GridColumns, o.GridRows)
	}
	if !inUnit(o.PatchExtentX, false) || !inUnit(o.PatchExtentY, false) {
		add("patch extent must be within (0,1], got %gx%g", o.PatchExtentX, o.PatchExtentY)
	}
	if o.PatchShape != "" && o.PatchShape != ShapeRectangle && o.PatchShape != ShapeEllipse {
		add("patch shape must be %q or %q, got %q", ShapeRectangle, ShapeEllipse, o.PatchShape)
	}
	for _, c := range []struct{ name, value string }{
		{"screen", o.ScreenColor},
		{"ruler", o.RulerColor},
		{"patch", o.PatchColor},
	} {
		if _, err := colorful.Hex(c.value); err != nil {
			add("%s color must be #rgb or #rrggbb, got %q", c.name, c.value)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidOptions, "%s", strings.Join(problems, "; "))
}

func inUnit(v float64, closedBelow bool) bool {
	if closedBelow {
		return v >= 0 && v <= 1
	}
	return v > 0 && v <= 1
}

// fileConfig mirrors the [display] table of a config file.
type fileConfig struct {
	Display Options `toml:"display"`
}

// Decode reads a TOML document and overlays its [display] table on base.
// Keys missing from the document keep base's values.
func Decode(r io.Reader, base Options) (Options, error) {
	cfg := fileConfig{Display: base}
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidOptions, err, "decode display options")
	}
	return cfg.Display, nil
}

// LoadFile reads the [display] table of a TOML file over [Defaults].
func LoadFile(path string) (Options, error) {
	cfg := fileConfig{Display: Defaults()}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Defaults(), errors.Wrap(errors.ErrCodeInvalidOptions, err, "load %s", path)
	}
	return cfg.Display, nil
}

// Encode writes o as a TOML document with a [display] table.
func Encode(w io.Writer, o Options) error {
	return toml.NewEncoder(w).Encode(fileConfig{Display: o})
}

// Color parses a #rgb or #rrggbb string. Unparsable values yield fallback.
func Color(s string, fallback color.Color) color.Color {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// formatFloat renders f without trailing zeros, for form round trips.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
