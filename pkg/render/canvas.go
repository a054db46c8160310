package render

import (
	"image"
	"math"
	"strconv"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/geometry"
)

const (
	// MarkerRadius is the radius of center markers. Ruler markers are in
	// canvas pixels, patch markers in resolution-space pixels.
	MarkerRadius = 5.0

	// RulerFontSize is the ruler label size in canvas pixels.
	RulerFontSize = 12.0

	// rulerLabelGap is the horizontal gap between a ruler circle and its label.
	rulerLabelGap = 8.0
)

// RulerAngles are the visual angles, in degrees, the ruler draws circles for.
var RulerAngles = []float64{5, 10}

// Report describes what [Render] found in the design text.
type Report struct {
	// Design is the parsed design that was drawn.
	Design design.Design `json:"design"`
	// Duplicates lists pids that occur more than once.
	Duplicates []design.Duplicate `json:"duplicates,omitempty"`
	// Cues is the cue list derived from Design.
	Cues []string `json:"cues"`
	// Malformed lists pids whose geometry needed coercion.
	Malformed []string `json:"malformed,omitempty"`
}

// CanvasSize returns the canvas size for a preview of the given height: the
// width follows the resolution's aspect ratio.
func CanvasSize(height float64, opts display.Options) (w, h float64) {
	if opts.ResolutionY <= 0 {
		return 0, height
	}
	return height * float64(opts.ResolutionX) / float64(opts.ResolutionY), height
}

// Option configures [Render].
type Option func(*config)

type config struct {
	background image.Image
}

// WithBackground draws img over the screen color, before the ruler and the
// patches. Surfaces that do not implement [ImageSurface] ignore it.
func WithBackground(img image.Image) Option {
	return func(c *config) { c.background = img }
}

// Render paints text, read with [design.Parse], onto s using opts. It never
// fails; see the package documentation for how degenerate input is drawn.
func Render(s Surface, text string, opts display.Options, options ...Option) Report {
	var cfg config
	for _, o := range options {
		o(&cfg)
	}
	cw, ch := s.Size()

	s.SetFillColor(display.Color(opts.ScreenColor, display.DefaultScreenColor))
	s.FillRect(0, 0, cw, ch)
	if is, ok := s.(ImageSurface); ok && cfg.background != nil && cw > 0 && ch > 0 {
		is.DrawImage(cfg.background, 0, 0, cw, ch)
	}

	if opts.RulerToggle {
		drawRuler(s, cw, ch, opts)
	}

	report, boxes := inspect(text)
	d := report.Design

	if cw <= 0 || ch <= 0 || opts.ResolutionX <= 0 || opts.ResolutionY <= 0 {
		return report
	}

	patch := display.Color(opts.PatchColor, display.DefaultPatchColor)
	s.Push()
	defer s.Pop()
	s.SetFillColor(patch)
	s.SetStrokeColor(patch)
	s.Scale(cw/float64(opts.ResolutionX), ch/float64(opts.ResolutionY))

	for i, b := range boxes {
		s.FillCircle(b.X, b.Y, MarkerRadius)
		s.StrokeRect(b.X-b.W/2, b.Y-b.H/2, b.W, b.H)
		if size := LabelSize(b.W, b.H); size > 0 {
			s.FillText(d[i].PID, b.X, b.Y, size, AnchorCenter)
		}
	}
	return report
}

// Inspect parses text and reports on it without drawing.
func Inspect(text string) Report {
	report, _ := inspect(text)
	return report
}

func inspect(text string) (Report, []design.Box) {
	d := design.Parse(text)
	report := Report{
		Design:     d,
		Duplicates: design.ValidateUnique(d),
		Cues:       design.Cues(d),
	}

	boxes := make([]design.Box, len(d))
	for i, r := range d {
		b, ok := r.Box()
		if !ok {
			report.Malformed = append(report.Malformed, r.PID)
		}
		boxes[i] = b
	}
	return report, boxes
}

// LabelSize returns the font size of a patch label, floor(min(w/4, h/2)).
// Sizes below one are returned as 0.
func LabelSize(w, h float64) float64 {
	size := math.Floor(math.Min(w/4, h/2))
	if size < 1 || math.IsNaN(size) {
		return 0
	}
	return size
}

func drawRuler(s Surface, cw, ch float64, opts display.Options) {
	ruler := display.Color(opts.RulerColor, display.DefaultRulerColor)
	s.SetFillColor(ruler)
	s.SetStrokeColor(ruler)

	rect := geometry.BoundingRect(cw, ch, opts.RectCenterX, opts.RectCenterY, opts.RectWidth, opts.RectHeight)
	s.FillCircle(rect.CX, rect.CY, MarkerRadius)
	s.StrokeRect(rect.Left(), rect.Top(), rect.Width, rect.Height)

	ppc := geometry.PixelsPerCentimeter(cw, ch, opts.MonitorSizeInches)
	for _, deg := range RulerAngles {
		r := geometry.PixelsForVisualAngle(ppc, deg, opts.ViewingDistance)
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			continue
		}
		s.StrokeCircle(rect.CX, rect.CY, r)
		x, y := rect.Diagonal45(r)
		s.FillText(RulerLabel(deg), x+rulerLabelGap, y, RulerFontSize, AnchorStart)
	}
}

// RulerLabel returns the label drawn next to the circle for deg.
func RulerLabel(deg float64) string {
	return strconv.FormatFloat(deg, 'f', -1, 64) + " deg"
}
