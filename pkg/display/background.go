package display

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/flickergrid/flickergrid/pkg/errors"
)

// DataURLPrefix starts every accepted background image data URL.
const DataURLPrefix = "data:image/"

// DecodeBackground decodes a base64 image data URL such as the one a browser
// produces for an uploaded file. Escaped newlines inside the payload are
// ignored.
func DecodeBackground(dataURL string) (image.Image, error) {
	dataURL = strings.TrimSpace(dataURL)
	if !strings.HasPrefix(dataURL, DataURLPrefix) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "background must be a %s... data URL", DataURLPrefix)
	}
	_, payload, ok := strings.Cut(dataURL, "base64,")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "background data URL is not base64 encoded")
	}
	payload = strings.NewReplacer(`\n`, "", "\n", "", "\r", "").Replace(payload)

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode background data URL")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode background image")
	}
	if err := CheckCanvas(float64(cfg.Width), float64(cfg.Height)); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "background image of %dx%d exceeds the limit of %d pixels",
			cfg.Width, cfg.Height, MaxCanvasPixels)
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode background image")
	}
	return img, nil
}

// FitBackground scales and crops img to fill a w×h canvas.
func FitBackground(img image.Image, w, h int) image.Image {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}
