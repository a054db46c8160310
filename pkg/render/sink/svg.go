package sink

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/fonts"
	"github.com/flickergrid/flickergrid/pkg/render"
)

// Option configures a sink. Options that do not apply to a format are
// ignored.
type Option func(*config)

type config struct {
	fontFamily string
	title      string
	background image.Image
}

func newConfig(opts []Option) config {
	c := config{fontFamily: fonts.FontFamily}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithFontFamily sets the CSS font-family of SVG text elements.
func WithFontFamily(family string) Option { return func(c *config) { c.fontFamily = family } }

// WithTitle adds a <title> element to SVG output, shown by browsers as a
// tooltip.
func WithTitle(title string) Option { return func(c *config) { c.title = title } }

// WithBackground draws img behind the ruler and the patches.
func WithBackground(img image.Image) Option { return func(c *config) { c.background = img } }

func (c config) renderOptions() []render.Option {
	if c.background == nil {
		return nil
	}
	return []render.Option{render.WithBackground(c.background)}
}

type svgState struct {
	fill, stroke string
	groups       int
}

// SVG is a [render.Surface] that writes SVG elements. Scale opens a group
// with a scale transform; Pop closes the groups opened since the matching
// Push.
type SVG struct {
	w, h       float64
	fontFamily string
	title      string

	buf   bytes.Buffer
	cur   svgState
	stack []svgState
}

// NewSVG returns an empty SVG surface of w×h pixels.
func NewSVG(w, h float64, opts ...Option) *SVG {
	c := newConfig(opts)
	s := &SVG{
		w:          w,
		h:          h,
		fontFamily: c.fontFamily,
		title:      c.title,
		cur:        svgState{fill: "#000000", stroke: "#000000"},
	}
	if s.title != "" {
		fmt.Fprintf(&s.buf, "  <title>%s</title>\n", escapeXML(s.title))
	}
	return s
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func (s *SVG) SetFillColor(c color.Color)   { s.cur.fill = hexColor(c) }
func (s *SVG) SetStrokeColor(c color.Color) { s.cur.stroke = hexColor(c) }

func (s *SVG) FillRect(x, y, w, h float64) {
	fmt.Fprintf(&s.buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(x), num(y), num(w), num(h), s.cur.fill)
}

func (s *SVG) StrokeRect(x, y, w, h float64) {
	fmt.Fprintf(&s.buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		num(x), num(y), num(w), num(h), s.cur.stroke)
}

func (s *SVG) FillCircle(cx, cy, r float64) {
	fmt.Fprintf(&s.buf, `  <circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", num(cx), num(cy), num(r), s.cur.fill)
}

func (s *SVG) StrokeCircle(cx, cy, r float64) {
	fmt.Fprintf(&s.buf, `  <circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		num(cx), num(cy), num(r), s.cur.stroke)
}

func (s *SVG) FillText(text string, x, y, size float64, anchor render.Anchor) {
	align := ""
	if anchor == render.AnchorCenter {
		align = ` text-anchor="middle" dominant-baseline="central"`
	}
	fmt.Fprintf(&s.buf, `  <text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s"%s>%s</text>`+"\n",
		num(x), num(y), escapeXML(s.fontFamily), num(size), s.cur.fill, align, escapeXML(text))
}

func (s *SVG) Push() {
	s.stack = append(s.stack, s.cur)
	s.cur.groups = 0
}

func (s *SVG) Pop() {
	s.closeGroups()
	if n := len(s.stack); n > 0 {
		s.cur = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *SVG) Scale(sx, sy float64) {
	fmt.Fprintf(&s.buf, `  <g transform="scale(%s %s)">`+"\n", num(sx), num(sy))
	s.cur.groups++
}

func (s *SVG) closeGroups() {
	for ; s.cur.groups > 0; s.cur.groups-- {
		s.buf.WriteString("  </g>\n")
	}
}

// Bytes returns the complete document. Groups left open by unbalanced
// Push/Scale calls are closed.
func (s *SVG) Bytes() []byte {
	for len(s.stack) > 0 {
		s.Pop()
	}
	s.closeGroups()

	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(s.w), num(s.h), s.w, s.h)
	out.Write(s.buf.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}

// DrawImage embeds img as a PNG data URL, cropped to cover the box.
func (s *SVG) DrawImage(img image.Image, x, y, w, h float64) {
	fit := display.FitBackground(img, pixels(w), pixels(h))
	if fit == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, fit); err != nil {
		return
	}
	fmt.Fprintf(&s.buf, `  <image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice" href="data:image/png;base64,%s"/>`+"\n",
		num(x), num(y), num(w), num(h), base64.StdEncoding.EncodeToString(buf.Bytes()))
}

var _ render.ImageSurface = (*SVG)(nil)

// RenderSVG draws text at the given preview height and returns the SVG
// document.
func RenderSVG(text string, o display.Options, height float64, opts ...Option) ([]byte, render.Report) {
	c := newConfig(opts)
	w, h := render.CanvasSize(height, o)
	s := NewSVG(w, h, opts...)
	report := render.Render(s, text, o, c.renderOptions()...)
	return s.Bytes(), report
}

func num(f float64) string {
	return fmt.Sprintf("%.6g", f)
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
