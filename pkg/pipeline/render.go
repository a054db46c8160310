package pipeline

import (
	"context"
	"fmt"

	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/render"
	"github.com/flickergrid/flickergrid/pkg/render/sink"
)

// RenderFormat draws text in a single format at the given preview height.
func RenderFormat(ctx context.Context, text string, o display.Options, height float64, format string, opts ...sink.Option) ([]byte, render.Report, error) {
	switch format {
	case FormatSVG:
		svg, report := sink.RenderSVG(text, o, height, opts...)
		return svg, report, nil
	case FormatPNG:
		return sink.RenderPNG(text, o, height, opts...)
	case FormatPDF:
		return sink.RenderPDF(ctx, text, o, height, opts...)
	case FormatJSON:
		return sink.RenderJSON(text, o, height)
	default:
		return nil, render.Report{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

// Render draws text in every format of opts without caching. The report is
// the same for all formats and is returned once.
func Render(ctx context.Context, text string, opts Options) (map[string][]byte, render.Report, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, render.Report{}, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	report := render.Inspect(text)
	for _, format := range opts.Formats {
		data, _, err := RenderFormat(ctx, text, opts.Display, opts.Height, format, opts.sinkOptions()...)
		if err != nil {
			return nil, report, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, report, nil
}
