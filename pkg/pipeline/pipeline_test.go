package pipeline

import (
	"testing"

	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %q", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Display: display.Defaults()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height = %g, want %g", opts.Height, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsStrict(t *testing.T) {
	bad := display.Defaults()
	bad.GridColumns = 0

	lenient := Options{Display: bad}
	if err := lenient.ValidateAndSetDefaults(); err != nil {
		t.Errorf("lenient options should accept a degenerate grid: %v", err)
	}

	strict := Options{Display: bad, Strict: true}
	err := strict.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Errorf("strict options error = %v, want INVALID_OPTIONS", err)
	}
}

func TestOptionsNegativeHeight(t *testing.T) {
	opts := Options{Display: display.Defaults(), Height: -1}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("negative height should fail")
	}
}

func TestOptionsLimits(t *testing.T) {
	huge := display.Defaults()
	huge.GridColumns, huge.GridRows = 100000, 100000
	wide := display.Defaults()
	wide.ResolutionX, wide.ResolutionY = 2000000, 1

	tests := []struct {
		name string
		opts Options
	}{
		{"grid", Options{Display: huge}},
		{"wide canvas", Options{Display: wide, DesignText: "0,p-1,1,1,1,1"}},
		{"tall canvas", Options{Display: display.Defaults(), DesignText: "0,p-1,1,1,1,1", Height: 1e6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidOptions) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want INVALID_OPTIONS", err)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Display: display.Defaults(), Height: 270}
	k := opts.ArtifactKeyOpts("png")
	if k.Format != "png" || k.Height != 270 || k.Display != opts.Display {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
}
