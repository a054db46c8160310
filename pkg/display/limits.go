package display

import (
	"math"

	"github.com/flickergrid/flickergrid/pkg/errors"
)

// Upper bounds on what a single layout or preview may allocate. They hold in
// non-strict mode too, since the values arrive from forms and flags.
const (
	MaxPatches      = 10_000
	MaxCanvasPixels = 64_000_000
)

// CheckLimits rejects grids with more than [MaxPatches] cells. Degenerate
// grids pass; they produce no patches.
func (o Options) CheckLimits() error {
	c, r := o.GridColumns, o.GridRows
	if c <= 0 || r <= 0 {
		return nil
	}
	if c > MaxPatches || r > MaxPatches || c*r > MaxPatches {
		return errors.New(errors.ErrCodeInvalidOptions,
			"grid of %dx%d exceeds the limit of %d patches", c, r, MaxPatches)
	}
	return nil
}

// CheckCanvas rejects a w×h canvas larger than [MaxCanvasPixels].
func CheckCanvas(w, h float64) error {
	area := w * h
	if math.IsNaN(area) || math.IsInf(area, 0) || area > MaxCanvasPixels {
		return errors.New(errors.ErrCodeInvalidOptions,
			"canvas of %gx%g exceeds the limit of %d pixels", w, h, MaxCanvasPixels)
	}
	return nil
}
