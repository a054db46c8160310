package sink

import (
	"encoding/json"

	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/render"
)

type jsonOutput struct {
	ResolutionX int     `json:"resolution_x"`
	ResolutionY int     `json:"resolution_y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Shape       string  `json:"patch_shape,omitempty"`
	render.Report
}

// RenderJSON returns the render report for text as JSON. Nothing is drawn.
func RenderJSON(text string, o display.Options, height float64) ([]byte, render.Report, error) {
	w, h := render.CanvasSize(height, o)
	report := render.Inspect(text)
	out, err := json.MarshalIndent(jsonOutput{
		ResolutionX: o.ResolutionX,
		ResolutionY: o.ResolutionY,
		Width:       w,
		Height:      h,
		Shape:       o.PatchShape,
		Report:      report,
	}, "", "  ")
	return out, report, err
}
