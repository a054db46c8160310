package display

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Form keys for each option. Legacy aliases are the element ids used by the
// original browser form and are accepted on input only.
const (
	KeyResolutionX       = "resolutionX"
	KeyResolutionY       = "resolutionY"
	KeyMonitorSizeInches = "monitorSizeInches"
	KeyViewingDistance   = "viewingDistance"
	KeyRectCenterX       = "rectCenterX"
	KeyRectCenterY       = "rectCenterY"
	KeyRectWidth         = "rectWidth"
	KeyRectHeight        = "rectHeight"
	KeyGridColumns       = "gridColumns"
	KeyGridRows          = "gridRows"
	KeyPatchExtentX      = "patchExtentX"
	KeyPatchExtentY      = "patchExtentY"
	KeyScreenColor       = "screenColor"
	KeyRulerColor        = "rulerColor"
	KeyPatchColor        = "patchColor"
	KeyRulerToggle       = "rulerToggle"
	KeyPatchShape        = "patchShape"
)

var legacyKeys = map[string]string{
	"inputMonitorResolutionX": KeyResolutionX,
	"inputMonitorResolutionY": KeyResolutionY,
	"inputMonitorSize":        KeyMonitorSizeInches,
	"inputDistance":           KeyViewingDistance,
	"inputRectCenterX":        KeyRectCenterX,
	"inputRectCenterY":        KeyRectCenterY,
	"inputRectWidth":          KeyRectWidth,
	"inputRectHeight":         KeyRectHeight,
	"inputPatchesGridColumns": KeyGridColumns,
	"inputPatchesGridRows":    KeyGridRows,
	"inputPatchExtentX":       KeyPatchExtentX,
	"inputPatchExtentY":       KeyPatchExtentY,
	"inputScreenColor":        KeyScreenColor,
	"inputRulerColor":         KeyRulerColor,
	"inputPatchColor":         KeyPatchColor,
	"inputRulerToggle":        KeyRulerToggle,
	"selectPatchShape":        KeyPatchShape,
}

// Coercion lists the keys whose values could not be converted and were
// replaced by a zero value.
type Coercion struct {
	Invalid []string
}

// OK reports whether every supplied value converted cleanly.
func (c Coercion) OK() bool { return len(c.Invalid) == 0 }

// FromValues overlays string values on base. Keys absent from values keep
// base's settings. Present but unparsable numbers become 0, and booleans
// other than true/on/1/checked become false; every such key is reported.
func FromValues(values map[string]string, base Options) (Options, Coercion) {
	o := base
	var c Coercion

	norm := make(map[string]string, len(values))
	for k, v := range values {
		if canonical, ok := legacyKeys[k]; ok {
			k = canonical
		}
		norm[k] = strings.TrimSpace(v)
	}

	intField := func(key string, dst *int) {
		v, ok := norm[key]
		if !ok {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			// Accept "1920.0" the way a number input may send it.
			f, ferr := parseFinite(v)
			if ferr != nil || f < math.MinInt || f >= math.MaxInt {
				*dst = 0
				c.Invalid = append(c.Invalid, key)
				return
			}
			n = int(f)
		}
		*dst = n
	}
	floatField := func(key string, dst *float64) {
		v, ok := norm[key]
		if !ok {
			return
		}
		f, err := parseFinite(v)
		if err != nil {
			*dst = 0
			c.Invalid = append(c.Invalid, key)
			return
		}
		*dst = f
	}
	stringField := func(key string, dst *string) {
		if v, ok := norm[key]; ok {
			*dst = v
		}
	}

	intField(KeyResolutionX, &o.ResolutionX)
	intField(KeyResolutionY, &o.ResolutionY)
	floatField(KeyMonitorSizeInches, &o.MonitorSizeInches)
	floatField(KeyViewingDistance, &o.ViewingDistance)
	floatField(KeyRectCenterX, &o.RectCenterX)
	floatField(KeyRectCenterY, &o.RectCenterY)
	floatField(KeyRectWidth, &o.RectWidth)
	floatField(KeyRectHeight, &o.RectHeight)
	intField(KeyGridColumns, &o.GridColumns)
	intField(KeyGridRows, &o.GridRows)
	floatField(KeyPatchExtentX, &o.PatchExtentX)
	floatField(KeyPatchExtentY, &o.PatchExtentY)
	stringField(KeyScreenColor, &o.ScreenColor)
	stringField(KeyRulerColor, &o.RulerColor)
	stringField(KeyPatchColor, &o.PatchColor)
	stringField(KeyPatchShape, &o.PatchShape)

	if v, ok := norm[KeyRulerToggle]; ok {
		switch strings.ToLower(v) {
		case "true", "on", "1", "checked", "yes":
			o.RulerToggle = true
		case "false", "off", "0", "":
			o.RulerToggle = false
		default:
			o.RulerToggle = false
			c.Invalid = append(c.Invalid, KeyRulerToggle)
		}
	}

	sort.Strings(c.Invalid)
	return o, c
}

// FromForm is [FromValues] for url.Values, using the first value of each key.
//
// Browsers omit unchecked checkboxes, so a form that carries any display key
// but no rulerToggle turns the ruler off.
func FromForm(form url.Values, base Options) (Options, Coercion) {
	values := make(map[string]string, len(form))
	sent, ruler := false, false
	for k, v := range form {
		if len(v) > 0 {
			values[k] = v[0]
		}
		canonical := k
		if c, ok := legacyKeys[k]; ok {
			canonical = c
		}
		if canonical == KeyRulerToggle {
			ruler = true
		} else if formKeys[canonical] {
			sent = true
		}
	}
	if sent && !ruler {
		values[KeyRulerToggle] = "false"
	}
	return FromValues(values, base)
}

var formKeys = map[string]bool{
	KeyResolutionX: true, KeyResolutionY: true, KeyMonitorSizeInches: true, KeyViewingDistance: true,
	KeyRectCenterX: true, KeyRectCenterY: true, KeyRectWidth: true, KeyRectHeight: true,
	KeyGridColumns: true, KeyGridRows: true, KeyPatchExtentX: true, KeyPatchExtentY: true,
	KeyScreenColor: true, KeyRulerColor: true, KeyPatchColor: true, KeyRulerToggle: true,
	KeyPatchShape: true,
}

// Values renders o as canonical form values; FromValues(o.Values(), x)
// reproduces o for any x.
func (o Options) Values() map[string]string {
	return map[string]string{
		KeyResolutionX:       strconv.Itoa(o.ResolutionX),
		KeyResolutionY:       strconv.Itoa(o.ResolutionY),
		KeyMonitorSizeInches: formatFloat(o.MonitorSizeInches),
		KeyViewingDistance:   formatFloat(o.ViewingDistance),
		KeyRectCenterX:       formatFloat(o.RectCenterX),
		KeyRectCenterY:       formatFloat(o.RectCenterY),
		KeyRectWidth:         formatFloat(o.RectWidth),
		KeyRectHeight:        formatFloat(o.RectHeight),
		KeyGridColumns:       strconv.Itoa(o.GridColumns),
		KeyGridRows:          strconv.Itoa(o.GridRows),
		KeyPatchExtentX:      formatFloat(o.PatchExtentX),
		KeyPatchExtentY:      formatFloat(o.PatchExtentY),
		KeyScreenColor:       o.ScreenColor,
		KeyRulerColor:        o.RulerColor,
		KeyPatchColor:        o.PatchColor,
		KeyRulerToggle:       strconv.FormatBool(o.RulerToggle),
		KeyPatchShape:        o.PatchShape,
	}
}

// Form is [Options.Values] as url.Values.
func (o Options) Form() url.Values {
	form := url.Values{}
	for k, v := range o.Values() {
		form.Set(k, v)
	}
	return form
}

// parseFinite parses a float and rejects NaN and infinities, which
// strconv accepts but no geometry can use.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}
