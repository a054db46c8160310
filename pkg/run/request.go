package run

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/errors"
)

// Form field names.
const (
	FieldDesignText      = "designText"
	FieldResolutionX     = "resolutionX"
	FieldResolutionY     = "resolutionY"
	FieldTrialBodyLength = "trialBodyLength"
	FieldTrialHeadLength = "trialHeadLength"
	FieldTrialTailLength = "trialTailLength"
	FieldTrialRepeats    = "trialRepeats"
	FieldCue             = "cue"
	FieldBackground      = "backgroundImageDataUrl"
	FieldPatchShape      = "patchShape"
)

// MaxTrialRepeats bounds the trials of one run.
const MaxTrialRepeats = 10_000

// Request is one run submission. Lengths are in seconds.
type Request struct {
	DesignText             string  `json:"designText"`
	ResolutionX            int     `json:"resolutionX"`
	ResolutionY            int     `json:"resolutionY"`
	TrialBodyLength        float64 `json:"trialBodyLength"`
	TrialHeadLength        float64 `json:"trialHeadLength"`
	TrialTailLength        float64 `json:"trialTailLength"`
	TrialRepeats           int     `json:"trialRepeats"`
	Cue                    string  `json:"cue"`
	BackgroundImageDataURL string  `json:"backgroundImageDataUrl,omitempty"`
	PatchShape             string  `json:"patchShape"`
}

// TrialLength is the duration of one trial.
func (r Request) TrialLength() float64 {
	return r.TrialHeadLength + r.TrialBodyLength + r.TrialTailLength
}

// TotalLength is the duration of the whole run.
func (r Request) TotalLength() float64 {
	return r.TrialLength() * float64(r.TrialRepeats)
}

// Form encodes r with the submission field names.
func (r Request) Form() url.Values {
	v := url.Values{}
	v.Set(FieldDesignText, r.DesignText)
	v.Set(FieldResolutionX, strconv.Itoa(r.ResolutionX))
	v.Set(FieldResolutionY, strconv.Itoa(r.ResolutionY))
	v.Set(FieldTrialBodyLength, formatSeconds(r.TrialBodyLength))
	v.Set(FieldTrialHeadLength, formatSeconds(r.TrialHeadLength))
	v.Set(FieldTrialTailLength, formatSeconds(r.TrialTailLength))
	v.Set(FieldTrialRepeats, strconv.Itoa(r.TrialRepeats))
	v.Set(FieldCue, r.Cue)
	v.Set(FieldBackground, r.BackgroundImageDataURL)
	v.Set(FieldPatchShape, r.PatchShape)
	return v
}

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FromForm decodes a submission. Numeric fields that are missing or do not
// parse are reported in the returned map and left at zero.
func FromForm(v url.Values) (Request, errors.FieldErrors) {
	fe := errors.FieldErrors{}
	r := Request{
		DesignText:             v.Get(FieldDesignText),
		Cue:                    strings.TrimSpace(v.Get(FieldCue)),
		BackgroundImageDataURL: strings.TrimSpace(v.Get(FieldBackground)),
		PatchShape:             strings.TrimSpace(v.Get(FieldPatchShape)),
	}

	ints := []struct {
		field string
		dst   *int
	}{
		{FieldResolutionX, &r.ResolutionX},
		{FieldResolutionY, &r.ResolutionY},
		{FieldTrialRepeats, &r.TrialRepeats},
	}
	for _, f := range ints {
		s := strings.TrimSpace(v.Get(f.field))
		if s == "" {
			fe.Add(f.field, "is required")
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			fe.Add(f.field, "must be an integer, got %q", s)
			continue
		}
		*f.dst = n
	}

	floats := []struct {
		field string
		dst   *float64
	}{
		{FieldTrialBodyLength, &r.TrialBodyLength},
		{FieldTrialHeadLength, &r.TrialHeadLength},
		{FieldTrialTailLength, &r.TrialTailLength},
	}
	for _, f := range floats {
		s := strings.TrimSpace(v.Get(f.field))
		if s == "" {
			fe.Add(f.field, "is required")
			continue
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			fe.Add(f.field, "must be a number, got %q", s)
			continue
		}
		*f.dst = x
	}
	return r, fe
}

// Validate reports every field that would keep r from running. The cue must
// be one of the cues of r's own design.
func (r Request) Validate() errors.FieldErrors {
	fe := errors.FieldErrors{}

	if patches, err := design.ParseSpectral(r.DesignText); err != nil {
		fe.Add(FieldDesignText, "%s", errors.UserMessage(err))
	} else if len(patches) == 0 {
		fe.Add(FieldDesignText, "design has no patches")
	} else if len(patches) > display.MaxPatches {
		fe.Add(FieldDesignText, "design has %d patches, the limit is %d", len(patches), display.MaxPatches)
	} else if dups := design.ValidateUnique(design.Parse(r.DesignText)); len(dups) > 0 {
		fe.Add(FieldDesignText, "duplicate pid %q (%d times)", dups[0].PID, dups[0].Count)
	}

	if r.ResolutionX <= 0 {
		fe.Add(FieldResolutionX, "must be positive, got %d", r.ResolutionX)
	}
	if r.ResolutionY <= 0 {
		fe.Add(FieldResolutionY, "must be positive, got %d", r.ResolutionY)
	}
	if r.ResolutionX > 0 && r.ResolutionY > 0 {
		if err := display.CheckCanvas(float64(r.ResolutionX), float64(r.ResolutionY)); err != nil {
			fe.Add(FieldResolutionX, "%dx%d exceeds the limit of %d pixels", r.ResolutionX, r.ResolutionY, display.MaxCanvasPixels)
		}
	}
	if r.TrialBodyLength <= 0 {
		fe.Add(FieldTrialBodyLength, "must be positive, got %g", r.TrialBodyLength)
	}
	if r.TrialHeadLength < 0 {
		fe.Add(FieldTrialHeadLength, "must not be negative, got %g", r.TrialHeadLength)
	}
	if r.TrialTailLength < 0 {
		fe.Add(FieldTrialTailLength, "must not be negative, got %g", r.TrialTailLength)
	}
	if r.TrialRepeats <= 0 {
		fe.Add(FieldTrialRepeats, "must be positive, got %d", r.TrialRepeats)
	} else if r.TrialRepeats > MaxTrialRepeats {
		fe.Add(FieldTrialRepeats, "must be at most %d, got %d", MaxTrialRepeats, r.TrialRepeats)
	}

	if !design.IsCue(design.Parse(r.DesignText), r.Cue) {
		fe.Add(FieldCue, "%q is not a patch of this design", r.Cue)
	}

	if r.BackgroundImageDataURL != "" {
		if _, err := display.DecodeBackground(r.BackgroundImageDataURL); err != nil {
			fe.Add(FieldBackground, "%s", errors.UserMessage(err))
		}
	}

	switch r.PatchShape {
	case "", display.ShapeRectangle, display.ShapeEllipse:
	default:
		fe.Add(FieldPatchShape, "must be %q or %q, got %q", display.ShapeRectangle, display.ShapeEllipse, r.PatchShape)
	}
	return fe
}
