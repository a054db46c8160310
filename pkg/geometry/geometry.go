package geometry

import "math"

// CentimetersPerInch is the exact inch length in centimeters.
const CentimetersPerInch = 2.54

// InchesToCentimeters converts a length in inches to centimeters.
func InchesToCentimeters(inch float64) float64 {
	return CentimetersPerInch * inch
}

// PixelsForVisualAngle returns the pixel length subtending degrees of visual
// angle at distanceCm from the screen.
//
// The tangent diverges as degrees approaches 90; callers must keep the angle
// well below that.
func PixelsForVisualAngle(pixelsPerCentimeter, degrees, distanceCm float64) float64 {
	return pixelsPerCentimeter * math.Tan(degrees*math.Pi/180) * distanceCm
}

// PixelsPerCentimeter returns the pixel density of a surface widthPx×heightPx
// shown on a monitor with the given diagonal. A zero diagonal yields +Inf.
func PixelsPerCentimeter(widthPx, heightPx, monitorSizeInches float64) float64 {
	return math.Hypot(widthPx, heightPx) / InchesToCentimeters(monitorSizeInches)
}

// Rect is an axis-aligned rectangle given by its center and size.
type Rect struct {
	CX, CY        float64
	Width, Height float64
}

// BoundingRect scales a rectangle given as fractions of a surface (center and
// size in [0,1]) to that surface's pixel space.
func BoundingRect(surfaceW, surfaceH, centerX, centerY, width, height float64) Rect {
	return Rect{
		CX:     surfaceW * centerX,
		CY:     surfaceH * centerY,
		Width:  surfaceW * width,
		Height: surfaceH * height,
	}
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.CX - r.Width/2 }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.CY - r.Height/2 }

// Diagonal45 returns the point offset by dist along
// the down-right 45° diagonal from the rectangle center.
func (r Rect) Diagonal45(dist float64) (x, y float64) {
	k := math.Sqrt2 / 2
	return r.CX + k*dist, r.CY + k*dist
}
