package render

import (
	"image"
	"image/color"
)

// Anchor positions text relative to the point it is drawn at.
type Anchor int

const (
	// AnchorStart puts the baseline's left end on the point.
	AnchorStart Anchor = iota
	// AnchorCenter centers the text horizontally and vertically on the point.
	AnchorCenter
)

// Surface is the subset of a 2D canvas context the renderer draws with.
// Coordinates are in the surface's current user space, which starts as
// device pixels and is changed by Scale. Push and Pop save and restore the
// transform and colors.
type Surface interface {
	// Size returns the surface size in device pixels.
	Size() (w, h float64)

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillCircle(cx, cy, r float64)
	StrokeCircle(cx, cy, r float64)

	// FillText draws s with the given font size in user-space units.
	FillText(s string, x, y, size float64, anchor Anchor)

	Push()
	Pop()
	Scale(sx, sy float64)
}

// ImageSurface is a Surface that can also draw raster images. Background
// images are only drawn on surfaces that implement it.
type ImageSurface interface {
	Surface
	// DrawImage draws img scaled to cover the w×h box at (x, y), cropping
	// what does not fit.
	DrawImage(img image.Image, x, y, w, h float64)
}
