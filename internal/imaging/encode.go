package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// HueResult contains a hue-rotated image encoded for transport.
type HueResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AngleDeg    float64 `json:"angle_degrees"`
	Space       string  `json:"space"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG, optionally resized by scale.
// A scale of 0 or 1 keeps the original size.
func EncodePNG(img image.Image, scale float64) (*HueResult, error) {
	img, err := scaled(img, scale)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &HueResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save writes img to path, optionally resized by scale. The output format
// follows the file extension (png, jpg, gif, bmp, tif).
func Save(img image.Image, path string, scale float64) error {
	img, err := scaled(img, scale)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func scaled(img image.Image, scale float64) (image.Image, error) {
	if scale < 0 {
		return nil, fmt.Errorf("invalid scale %g: must not be negative", scale)
	}
	if scale == 0 || scale == 1.0 {
		return img, nil
	}
	newWidth := int(float64(img.Bounds().Dx()) * scale)
	newHeight := int(float64(img.Bounds().Dy()) * scale)
	if newWidth < 1 || newHeight < 1 {
		return nil, fmt.Errorf("scale %g shrinks %dx%d image to nothing", scale, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos), nil
}
