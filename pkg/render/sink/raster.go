package sink

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/fonts"
	"github.com/flickergrid/flickergrid/pkg/render"
)

type rasterState struct {
	fill, stroke color.Color
	sx, sy       float64
}

// Raster is a [render.Surface] backed by a fogleman/gg context.
//
// Text is drawn in device space with a face sized for the current vertical
// scale, so labels stay sharp on small previews.
type Raster struct {
	dc    *gg.Context
	cur   rasterState
	stack []rasterState
	faces map[float64]font.Face
	err   error
}

// NewRaster returns a w×h raster surface. Sizes are rounded to whole pixels
// and are at least one pixel, since PNG cannot encode an empty image.
func NewRaster(w, h float64) *Raster {
	dc := gg.NewContext(pixels(w), pixels(h))
	dc.SetLineWidth(1)
	return &Raster{
		dc:    dc,
		cur:   rasterState{fill: color.Black, stroke: color.Black, sx: 1, sy: 1},
		faces: map[float64]font.Face{},
	}
}

func pixels(f float64) int {
	if f < 1 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	return int(math.Round(f))
}

func (r *Raster) Size() (float64, float64) {
	return float64(r.dc.Width()), float64(r.dc.Height())
}

func (r *Raster) SetFillColor(c color.Color)   { r.cur.fill = c }
func (r *Raster) SetStrokeColor(c color.Color) { r.cur.stroke = c }

func (r *Raster) FillRect(x, y, w, h float64) {
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.SetColor(r.cur.fill)
	r.dc.Fill()
}

func (r *Raster) StrokeRect(x, y, w, h float64) {
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.SetColor(r.cur.stroke)
	r.dc.Stroke()
}

func (r *Raster) FillCircle(cx, cy, rad float64) {
	r.dc.DrawCircle(cx, cy, rad)
	r.dc.SetColor(r.cur.fill)
	r.dc.Fill()
}

func (r *Raster) StrokeCircle(cx, cy, rad float64) {
	r.dc.DrawCircle(cx, cy, rad)
	r.dc.SetColor(r.cur.stroke)
	r.dc.Stroke()
}

func (r *Raster) FillText(s string, x, y, size float64, anchor render.Anchor) {
	px := size * r.cur.sy
	if px < 1 || math.IsInf(px, 0) || math.IsNaN(px) {
		return
	}
	// Glyph masks are sized by the face; no label needs to outgrow the canvas.
	px = math.Min(px, float64(r.dc.Height()))
	face, err := r.face(px)
	if err != nil {
		r.err = err
		return
	}

	dx, dy := r.dc.TransformPoint(x, y)
	r.dc.Push()
	defer r.dc.Pop()
	r.dc.Identity()
	r.dc.SetFontFace(face)
	r.dc.SetColor(r.cur.fill)
	if anchor == render.AnchorCenter {
		r.dc.DrawStringAnchored(s, dx, dy, 0.5, 0.5)
		return
	}
	r.dc.DrawString(s, dx, dy)
}

func (r *Raster) face(size float64) (font.Face, error) {
	size = math.Round(size)
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := fonts.Face(size)
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

func (r *Raster) Push() {
	r.stack = append(r.stack, r.cur)
	r.dc.Push()
}

func (r *Raster) Pop() {
	n := len(r.stack)
	if n == 0 {
		return
	}
	r.cur = r.stack[n-1]
	r.stack = r.stack[:n-1]
	r.dc.Pop()
}

func (r *Raster) Scale(sx, sy float64) {
	r.cur.sx *= sx
	r.cur.sy *= sy
	r.dc.Scale(sx, sy)
}

// DrawImage scales img to cover the box and draws it in device space.
func (r *Raster) DrawImage(img image.Image, x, y, w, h float64) {
	x0, y0 := r.dc.TransformPoint(x, y)
	x1, y1 := r.dc.TransformPoint(x+w, y+h)
	fit := display.FitBackground(img, pixels(x1-x0), pixels(y1-y0))
	if fit == nil {
		return
	}
	r.dc.Push()
	defer r.dc.Pop()
	r.dc.Identity()
	r.dc.DrawImage(fit, int(math.Round(x0)), int(math.Round(y0)))
}

// Image returns the rendered image.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// Err returns the first error met while drawing text.
func (r *Raster) Err() error { return r.err }

// PNG encodes the surface as PNG.
func (r *Raster) PNG() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ render.ImageSurface = (*Raster)(nil)

// RenderPNG draws text at the given preview height and returns PNG bytes.
func RenderPNG(text string, o display.Options, height float64, opts ...Option) ([]byte, render.Report, error) {
	c := newConfig(opts)
	w, h := render.CanvasSize(height, o)
	r := NewRaster(w, h)
	report := render.Render(r, text, o, c.renderOptions()...)
	out, err := r.PNG()
	return out, report, err
}
