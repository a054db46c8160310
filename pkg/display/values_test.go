package display

import (
	"net/url"
	"reflect"
	"testing"
)

func TestFromValues(t *testing.T) {
	o, c := FromValues(map[string]string{
		KeyResolutionX:  "2560",
		KeyResolutionY:  " 1440 ",
		KeyGridColumns:  "3",
		KeyRectWidth:    "0.25",
		KeyRulerToggle:  "on",
		KeyPatchShape:   ShapeEllipse,
		KeyScreenColor:  "#101010",
		KeyPatchExtentX: "1",
	}, Defaults())

	if !c.OK() {
		t.Fatalf("unexpected coercion failures: %v", c.Invalid)
	}
	if o.ResolutionX != 2560 || o.ResolutionY != 1440 {
		t.Errorf("resolution = %dx%d", o.ResolutionX, o.ResolutionY)
	}
	if o.GridColumns != 3 || o.GridRows != 3 {
		t.Errorf("grid = %dx%d, want 3x3", o.GridColumns, o.GridRows)
	}
	if o.RectWidth != 0.25 || o.PatchExtentX != 1 {
		t.Errorf("RectWidth=%v PatchExtentX=%v", o.RectWidth, o.PatchExtentX)
	}
	if !o.RulerToggle || o.PatchShape != ShapeEllipse || o.ScreenColor != "#101010" {
		t.Errorf("unexpected options %+v", o)
	}
}

func TestFromValuesCoercesExplicitly(t *testing.T) {
	o, c := FromValues(map[string]string{
		KeyResolutionX:     "wide",
		KeyGridRows:        "",
		KeyRectCenterX:     "NaN",
		KeyViewingDistance: "Inf",
		KeyRulerToggle:     "maybe",
		KeyGridColumns:     "4.0",
	}, Defaults())

	want := []string{KeyGridRows, KeyRectCenterX, KeyResolutionX, KeyRulerToggle, KeyViewingDistance}
	if !reflect.DeepEqual(c.Invalid, want) {
		t.Errorf("Invalid = %v, want %v", c.Invalid, want)
	}
	if o.ResolutionX != 0 || o.GridRows != 0 || o.RectCenterX != 0 || o.ViewingDistance != 0 || o.RulerToggle {
		t.Errorf("invalid values should fall back to zero, got %+v", o)
	}
	if o.GridColumns != 4 {
		t.Errorf("GridColumns = %d, want 4", o.GridColumns)
	}
}

func TestFromValuesLegacyKeys(t *testing.T) {
	o, c := FromValues(map[string]string{
		"inputMonitorResolutionX": "800",
		"inputPatchesGridRows":    "7",
		"inputRulerToggle":        "false",
		"selectPatchShape":        ShapeEllipse,
	}, Defaults())

	if !c.OK() {
		t.Fatalf("unexpected coercion failures: %v", c.Invalid)
	}
	if o.ResolutionX != 800 || o.GridRows != 7 || o.RulerToggle || o.PatchShape != ShapeEllipse {
		t.Errorf("legacy keys not applied: %+v", o)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	want := Defaults()
	want.RectCenterX = 0.3
	want.MonitorSizeInches = 27.5
	want.RulerToggle = false

	got, c := FromValues(want.Values(), Options{})
	if !c.OK() {
		t.Fatalf("unexpected coercion failures: %v", c.Invalid)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}

	form := url.Values{}
	form.Set(KeyGridColumns, "9")
	form.Add(KeyGridColumns, "10")
	fromForm, _ := FromForm(form, want)
	if fromForm.GridColumns != 9 {
		t.Errorf("FromForm GridColumns = %d, want first value 9", fromForm.GridColumns)
	}
	if got := want.Form().Get(KeyMonitorSizeInches); got != "27.5" {
		t.Errorf("Form() monitor size = %q, want 27.5", got)
	}
}

func TestFromFormUncheckedRuler(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want bool
	}{
		{"no display keys keeps base", url.Values{"designText": {"x"}}, true},
		{"display keys without checkbox", url.Values{KeyGridColumns: {"2"}}, false},
		{"legacy keys without checkbox", url.Values{"inputMonitorSize": {"27"}}, false},
		{"checked", url.Values{KeyGridColumns: {"2"}, KeyRulerToggle: {"on"}}, true},
		{"legacy checked", url.Values{KeyGridColumns: {"2"}, "inputRulerToggle": {"on"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, c := FromForm(tt.form, Defaults())
			if !c.OK() {
				t.Fatalf("unexpected coercion failures: %v", c.Invalid)
			}
			if o.RulerToggle != tt.want {
				t.Errorf("RulerToggle = %v, want %v", o.RulerToggle, tt.want)
			}
		})
	}
}

func TestFromValuesIntRange(t *testing.T) {
	o, c := FromValues(map[string]string{
		KeyGridColumns: "1e300",
		KeyResolutionX: "-1e19",
		KeyResolutionY: "1080.0",
	}, Defaults())

	want := []string{KeyGridColumns, KeyResolutionX}
	if !reflect.DeepEqual(c.Invalid, want) {
		t.Errorf("Invalid = %v, want %v", c.Invalid, want)
	}
	if o.GridColumns != 0 || o.ResolutionX != 0 || o.ResolutionY != 1080 {
		t.Errorf("got %dx%d grid columns %d", o.ResolutionX, o.ResolutionY, o.GridColumns)
	}
}
