// Package layout fills a rectangular region of the display with a grid of
// flicker patches.
//
// The region is given in [display.Options] as fractions of the monitor
// resolution. It is cut into GridColumns × GridRows equal cells; each cell
// receives one patch centered in the cell and scaled by PatchExtentX/Y. Cells
// are visited column by column, top to bottom, and patches are numbered
// p-1, p-2, ... in that order:
//
//	p-1  p-4  p-7
//	p-2  p-5  p-8
//	p-3  p-6  p-9
//
// Each patch also draws a flicker frequency uniformly from [10, 20) Hz and a
// phase uniformly from [0, 2π).
//
// Generate performs no validation. Non-positive grid sizes produce no patches
// and other degenerate options produce degenerate geometry.
package layout
