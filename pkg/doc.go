// Package pkg provides the libraries behind flickergrid, a layout tool for
// SSVEP (steady-state visually evoked potential) flicker patches.
//
// # Overview
//
// A design is a list of rectangular patches on a display, each flickering at
// its own frequency (omega, Hz) and phase (phi, rad). The pkg directory is
// organized by concern:
//
//  1. [geometry], [display], [layout] - sizing patches by visual angle and
//     placing them on a grid
//  2. [design] - the text codec for designs and their cue lists
//  3. [render] and [render/sink] - drawing designs to SVG, PNG, PDF or JSON
//  4. [pipeline] - cached generate and render runs
//  5. [session], [run], [analysis] - named designs, run submission, and
//     waveform similarity
//  6. [cache], [errors], [observability], [buildinfo] - infrastructure
//
// # Data Flow
//
//	display.Options (monitor, viewing distance, grid)
//	         ↓
//	    [layout] Generate
//	         ↓
//	    []design.Patch → design.Serialize → design text
//	         ↓
//	    [render] Render onto a sink.SVG or sink.Raster surface
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/flickergrid/flickergrid/pkg/design"
//	    "github.com/flickergrid/flickergrid/pkg/display"
//	    "github.com/flickergrid/flickergrid/pkg/layout"
//	    "github.com/flickergrid/flickergrid/pkg/render/sink"
//	)
//
//	opts := display.Defaults()
//	patches := layout.Generate(opts, layout.WithSeed(7))
//	text := design.Serialize(patches)
//	svg, report := sink.RenderSVG(text, opts, 540)
//	// report.Cues: [!Random !NoCue p-1 p-2 ...]
package pkg
