// Package geometry converts between the coordinate spaces used when laying out
// flicker patches on a physical display.
//
// Three spaces are involved:
//
//   - Normalized fractions in [0,1] of the display (rectangle center and size)
//   - Pixel space, either the monitor's native resolution or a preview canvas
//   - Visual angle, degrees subtended at the viewer's eye at a given distance
//
// All functions are pure and never fail; degenerate inputs (zero monitor size,
// angles at or near 90°) produce Inf or NaN, which callers must avoid.
//
// # Visual angle
//
// A ruler of d degrees seen from distance D (cm) on a monitor with density ppc
// (pixels per centimeter) spans
//
//	r = ppc * tan(d * π/180) * D
//
// pixels. [PixelsPerCentimeter] derives ppc from a pixel size and the monitor's
// diagonal in inches.
package geometry
