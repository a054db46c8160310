// Package fonts provides the font used for raster previews.
//
// The Go Regular TrueType font is compiled into the binary, so PNG previews
// render the same labels on every machine without a system font lookup.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family used for SVG previews. Browsers resolve
// it locally; the raster preview uses the embedded Go Regular face instead.
const FontFamily = "Arial, Helvetica, sans-serif"

var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a new face of the given pixel size at 72 DPI. A face keeps
// glyph caches and must not be used from more than one goroutine.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}
