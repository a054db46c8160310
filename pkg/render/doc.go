// Package render paints a flicker-patch design onto a drawing surface.
//
// # Overview
//
// [Render] is the preview stage of the tool. It takes the design text as the
// operator last saw it, together with the display options it was laid out
// for, and draws:
//
//   - the screen background, optionally covered by an image
//   - an optional calibration ruler (center marker, bounding rectangle and
//     5° and 10° visual-angle circles)
//   - every patch, as a center marker, an outline and its id
//
// Patch geometry lives in resolution space. Render applies one uniform
// scale transform so a 1920×1080 design previews correctly on a canvas of
// any size with the same aspect ratio.
//
// # Surfaces
//
// Drawing goes through the [Surface] interface, a small subset of a 2D
// canvas context. The [sink] subpackage provides an SVG surface and a
// raster surface backed by fogleman/gg; tests use a recording surface.
//
//	w, h := render.CanvasSize(540, opts)
//	svg := sink.NewSVG(w, h)
//	report := render.Render(svg, text, opts)
//	out := svg.Bytes()
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG output with the external rsvg-convert
// tool (from librsvg). Without it, ToPNG falls back to [RasterizeSVG], a
// pure Go rasterizer that draws shapes only: text and images are dropped.
//
// # Degenerate Input
//
// Render never fails. Records with missing or non-numeric geometry are
// coerced to 0 and listed in [Report.Malformed]; a zero canvas or a zero
// resolution skips the patch layer. Duplicate ids are reported in
// [Report.Duplicates] and still drawn.
package render
