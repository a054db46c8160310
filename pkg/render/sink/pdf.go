package sink

import (
	"context"

	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/render"
)

// RenderPDF renders the SVG preview and converts it to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, text string, o display.Options, height float64, opts ...Option) ([]byte, render.Report, error) {
	svg, report := RenderSVG(text, o, height, opts...)
	pdf, err := render.ToPDF(ctx, svg)
	return pdf, report, err
}
