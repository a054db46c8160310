package render

import (
	"fmt"
	"image"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/display"
)

// recorder is a Surface that logs every call.
type recorder struct {
	w, h  float64
	calls []string
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }
func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}
func (r *recorder) SetFillColor(c color.Color)       { r.log("fill %s", hex(c)) }
func (r *recorder) SetStrokeColor(c color.Color)     { r.log("stroke %s", hex(c)) }
func (r *recorder) FillRect(x, y, w, h float64)      { r.log("fillRect %g %g %g %g", x, y, w, h) }
func (r *recorder) StrokeRect(x, y, w, h float64)    { r.log("strokeRect %g %g %g %g", x, y, w, h) }
func (r *recorder) FillCircle(cx, cy, rad float64)   { r.log("fillCircle %g %g %g", cx, cy, rad) }
func (r *recorder) StrokeCircle(cx, cy, rad float64) { r.log("strokeCircle %g %g %.2f", cx, cy, rad) }
func (r *recorder) Push()                            { r.log("push") }
func (r *recorder) Pop()                             { r.log("pop") }
func (r *recorder) Scale(sx, sy float64)             { r.log("scale %g %g", sx, sy) }
func (r *recorder) FillText(s string, x, y, size float64, a Anchor) {
	r.log("text %q %.2f %.2f %g %d", s, x, y, size, a)
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func previewOptions() display.Options {
	o := display.Defaults()
	o.GridColumns, o.GridRows = 2, 1
	o.RulerToggle = false
	return o
}

const twoPatches = "0,p-1,720,540,384,432,12.00,1.00;\n1,p-2,1200,540,384,432,15.00,2.00"

func TestRenderPatches(t *testing.T) {
	s := &recorder{w: 960, h: 540}
	report := Render(s, twoPatches, previewOptions())

	want := []string{
		"fill #765765",
		"fillRect 0 0 960 540",
		"push",
		"fill #ffffff",
		"stroke #ffffff",
		"scale 0.5 0.5",
		"fillCircle 720 540 5",
		"strokeRect 528 324 384 432",
		`text "p-1" 720.00 540.00 96 1`,
		"fillCircle 1200 540 5",
		"strokeRect 1008 324 384 432",
		`text "p-2" 1200.00 540.00 96 1`,
		"pop",
	}
	if !reflect.DeepEqual(s.calls, want) {
		t.Errorf("calls =\n%s\nwant\n%s", strings.Join(s.calls, "\n"), strings.Join(want, "\n"))
	}

	if !reflect.DeepEqual(report.Cues, []string{"!Random", "!NoCue", "p-1", "p-2"}) {
		t.Errorf("Cues = %v", report.Cues)
	}
	if report.Duplicates != nil || report.Malformed != nil {
		t.Errorf("unexpected warnings: %+v", report)
	}
}

func TestRenderRuler(t *testing.T) {
	o := previewOptions()
	o.RulerToggle = true
	o.RulerColor = "#ff0000"
	s := &recorder{w: 960, h: 540}
	Render(s, "", o)

	if s.calls[2] != "fill #ff0000" || s.calls[3] != "stroke #ff0000" {
		t.Errorf("ruler colors = %v", s.calls[2:4])
	}
	if s.calls[4] != "fillCircle 480 270 5" {
		t.Errorf("center marker = %q", s.calls[4])
	}
	if s.calls[5] != "strokeRect 240 135 480 270" {
		t.Errorf("boundary = %q", s.calls[5])
	}
	if n := s.count("strokeCircle"); n != len(RulerAngles) {
		t.Fatalf("ruler circles = %d, want %d", n, len(RulerAngles))
	}
	if !strings.HasPrefix(s.calls[7], `text "5 deg"`) || !strings.HasPrefix(s.calls[9], `text "10 deg"`) {
		t.Errorf("ruler labels = %q, %q", s.calls[7], s.calls[9])
	}
	if !strings.HasSuffix(s.calls[7], " 12 0") {
		t.Errorf("ruler label should use 12px start-anchored text: %q", s.calls[7])
	}
}

func TestRenderRulerRadiusGrows(t *testing.T) {
	o := previewOptions()
	o.RulerToggle = true
	s := &recorder{w: 1920, h: 1080}
	Render(s, "", o)

	var radii []float64
	for _, c := range s.calls {
		var x, y, r float64
		if _, err := fmt.Sscanf(c, "strokeCircle %g %g %g", &x, &y, &r); err == nil {
			radii = append(radii, r)
		}
	}
	if len(radii) != 2 || !(radii[0] > 0 && radii[0] < radii[1]) {
		t.Errorf("radii = %v, want 0 < r5 < r10", radii)
	}
}

func TestRenderDuplicatesStillDrawn(t *testing.T) {
	s := &recorder{w: 960, h: 540}
	text := "0,p-1,100,100,40,40,10,0;1,p-1,200,200,40,40,10,0;2,p-2,300,300,40,40,10,0"
	report := Render(s, text, previewOptions())

	want := []design.Duplicate{{PID: "p-1", Count: 2}}
	if !reflect.DeepEqual(report.Duplicates, want) {
		t.Errorf("Duplicates = %v, want %v", report.Duplicates, want)
	}
	if n := s.count("strokeRect"); n != 3 {
		t.Errorf("drawn patches = %d, want 3", n)
	}
}

func TestRenderMalformed(t *testing.T) {
	s := &recorder{w: 960, h: 540}
	report := Render(s, "0,p-1,abc,100;1,p-2,10,10,8,8", previewOptions())

	if !reflect.DeepEqual(report.Malformed, []string{"p-1"}) {
		t.Errorf("Malformed = %v", report.Malformed)
	}
	if s.calls[6] != "fillCircle 0 100 5" {
		t.Errorf("malformed geometry should coerce to 0: %q", s.calls[6])
	}
	if n := s.count("text"); n != 1 {
		t.Errorf("labels = %d, want 1 (zero-size patch has no label)", n)
	}
}

func TestRenderDegenerate(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		opts func(*display.Options)
		text string
	}{
		{"empty design", 960, 540, nil, ""},
		{"zero canvas", 0, 0, nil, twoPatches},
		{"zero resolution", 960, 540, func(o *display.Options) { o.ResolutionX, o.ResolutionY = 0, 0 }, twoPatches},
		{"zero grid with ruler", 960, 540, func(o *display.Options) {
			o.GridColumns, o.GridRows = 0, 0
			o.RulerToggle = true
			o.MonitorSizeInches = 0
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := previewOptions()
			if tt.opts != nil {
				tt.opts(&o)
			}
			s := &recorder{w: tt.w, h: tt.h}
			report := Render(s, tt.text, o)
			if len(report.Cues) < 2 {
				t.Errorf("Cues = %v, want sentinels at least", report.Cues)
			}
			if s.count("push") != s.count("pop") {
				t.Error("unbalanced Push/Pop")
			}
		})
	}
}

func TestCanvasSize(t *testing.T) {
	w, h := CanvasSize(540, display.Defaults())
	if w != 960 || h != 540 {
		t.Errorf("CanvasSize(540) = %g×%g, want 960×540", w, h)
	}

	o := display.Defaults()
	o.ResolutionY = 0
	if w, _ := CanvasSize(540, o); w != 0 {
		t.Errorf("CanvasSize with zero height resolution = %g, want 0", w)
	}
}

func TestLabelSize(t *testing.T) {
	tests := []struct {
		w, h, want float64
	}{
		{384, 432, 96},
		{100, 20, 10},
		{50, 50, 12},
		{3, 100, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := LabelSize(tt.w, tt.h); got != tt.want {
			t.Errorf("LabelSize(%g, %g) = %g, want %g", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRulerLabel(t *testing.T) {
	if got := RulerLabel(5); got != "5 deg" {
		t.Errorf("RulerLabel(5) = %q", got)
	}
	if got := RulerLabel(2.5); got != "2.5 deg" {
		t.Errorf("RulerLabel(2.5) = %q", got)
	}
}

func TestInspectMatchesRender(t *testing.T) {
	text := "0,p-1,1,1,1,1;1,p-1,x,2,2,2"
	drawn := Render(&recorder{w: 10, h: 10}, text, previewOptions())
	if got := Inspect(text); !reflect.DeepEqual(got, drawn) {
		t.Errorf("Inspect() = %+v, want %+v", got, drawn)
	}
}

type imageRecorder struct {
	recorder
	images int
}

func (r *imageRecorder) DrawImage(img image.Image, x, y, w, h float64) {
	r.images++
	r.log("image %g %g %g %g", x, y, w, h)
}

func TestRenderBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 2, 2))

	rec := &imageRecorder{recorder: recorder{w: 960, h: 540}}
	Render(rec, "", previewOptions(), WithBackground(bg))
	if rec.images != 1 || rec.calls[2] != "image 0 0 960 540" {
		t.Errorf("calls = %v", rec.calls)
	}

	none := &imageRecorder{recorder: recorder{w: 960, h: 540}}
	Render(none, "", previewOptions())
	if none.images != 0 {
		t.Error("no background option should draw no image")
	}

	// Surfaces without image support still render.
	plain := &recorder{w: 960, h: 540}
	Render(plain, twoPatches, previewOptions(), WithBackground(bg))
	if plain.count("strokeRect") != 2 {
		t.Errorf("calls = %v", plain.calls)
	}
}
