// Package sink provides the surfaces and output formats for design previews.
//
// # Overview
//
// A "sink" turns design text and display options into a finished artifact:
//
//   - SVG: vector preview, drawn on the [SVG] surface
//   - PNG: raster preview, drawn on the [Raster] surface (fogleman/gg)
//   - PDF: print-ready output (SVG converted by rsvg-convert)
//   - JSON: the render report together with canvas and resolution sizes
//
// Each Render function returns the [render.Report] alongside the bytes so
// callers can surface duplicate ids and malformed records to the operator.
//
// SVG and PNG accept [WithBackground] to draw an uploaded image behind the
// patches.
//
//	svg, report := sink.RenderSVG(text, opts, 540)
//	png, report, err := sink.RenderPNG(text, opts, 540)
package sink
