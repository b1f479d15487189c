// Package colorspace converts 8-bit pixel buffers between sRGB and CIE L*a*b*.
//
// The Lab math (D65 white, exact sRGB transfer curve) comes from go-colorful
// and runs in double precision per pixel; only the final store is quantized
// to 8 bits. Lab pixels are stored the way 8-bit Lab images usually are:
// L* 0..100 scaled onto 0..255, a* and b* rounded and offset by 128.
package colorspace

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
)

var (
	// ErrUnsupportedFormat reports that no conversion path joins two formats.
	ErrUnsupportedFormat = errors.New("unsupported pixel format conversion")

	// ErrConversion reports buffers that do not fit a converter.
	ErrConversion = errors.New("conversion failed")
)

type direction int

const (
	rgbToLab direction = iota
	labToRGB
)

// Converter is an immutable, reusable conversion between two formats.
type Converter struct {
	src buffer.Format
	dst buffer.Format
	dir direction
}

// Build validates that a conversion path exists from src to dst.
//
// Supported paths are 8-bit RGB (with or without alpha, first or last) to
// FormatLab888, and FormatLab888 back to any such RGB format. Anything else
// fails with ErrUnsupportedFormat and no converter is returned.
func Build(src, dst buffer.Format) (*Converter, error) {
	switch {
	case isRGB8(src) && isLab8(dst):
		return &Converter{src: src, dst: dst, dir: rgbToLab}, nil
	case isLab8(src) && isRGB8(dst):
		return &Converter{src: src, dst: dst, dir: labToRGB}, nil
	default:
		return nil, fmt.Errorf("%w: %s to %s", ErrUnsupportedFormat, src, dst)
	}
}

// Source returns the format Convert expects to read.
func (c *Converter) Source() buffer.Format { return c.src }

// Destination returns the format Convert writes.
func (c *Converter) Destination() buffer.Format { return c.dst }

// Convert transforms every pixel of src into dst.
//
// src must have the converter's source format and dst its destination format;
// both must have the same width and height. Mismatches fail with
// ErrConversion and leave dst untouched. When converting to an RGB format
// with alpha, the alpha component is written as fully opaque.
func (c *Converter) Convert(src, dst *buffer.Buffer) error {
	if src.Format != c.src {
		return fmt.Errorf("%w: source is %s, converter expects %s", ErrConversion, src.Format, c.src)
	}
	if dst.Format != c.dst {
		return fmt.Errorf("%w: destination is %s, converter expects %s", ErrConversion, dst.Format, c.dst)
	}
	if !src.SameSize(dst) {
		return fmt.Errorf("%w: source %dx%d, destination %dx%d", ErrConversion, src.Width, src.Height, dst.Width, dst.Height)
	}
	sp, err := src.Bytes()
	if err != nil {
		return fmt.Errorf("%w: source: %v", ErrConversion, err)
	}
	dp, err := dst.Bytes()
	if err != nil {
		return fmt.Errorf("%w: destination: %v", ErrConversion, err)
	}

	sbpp := c.src.BytesPerPixel()
	dbpp := c.dst.BytesPerPixel()
	for y := 0; y < src.Height; y++ {
		srow := sp[y*src.Stride:]
		drow := dp[y*dst.Stride:]
		for x := 0; x < src.Width; x++ {
			s := srow[x*sbpp : x*sbpp+sbpp]
			d := drow[x*dbpp : x*dbpp+dbpp]
			if c.dir == rgbToLab {
				c.pixelToLab(s, d)
			} else {
				c.pixelToRGB(s, d)
			}
		}
	}
	return nil
}

func (c *Converter) pixelToLab(s, d []byte) {
	f := c.src
	col := colorful.Color{
		R: float64(s[f.ColorOffset(0)]) / 255,
		G: float64(s[f.ColorOffset(1)]) / 255,
		B: float64(s[f.ColorOffset(2)]) / 255,
	}
	l, a, b := col.Lab()
	d[0], d[1], d[2] = EncodeLab8(l*100, a*100, b*100)
}

func (c *Converter) pixelToRGB(s, d []byte) {
	l, a, b := DecodeLab8(s[0], s[1], s[2])
	r, g, bl := colorful.Lab(l/100, a/100, b/100).Clamped().RGB255()

	f := c.dst
	d[f.ColorOffset(0)] = r
	d[f.ColorOffset(1)] = g
	d[f.ColorOffset(2)] = bl
	if off := f.AlphaOffset(); off >= 0 {
		d[off] = 0xFF
	}
}

// EncodeLab8 quantizes L* (0..100) and a*, b* (-128..127) into stored bytes.
func EncodeLab8(l, a, b float64) (uint8, uint8, uint8) {
	return clamp8(math.Round(l * 255 / 100)), clamp8(math.Round(a) + 128), clamp8(math.Round(b) + 128)
}

// DecodeLab8 is the inverse of EncodeLab8.
func DecodeLab8(l8, a8, b8 uint8) (l, a, b float64) {
	return float64(l8) * 100 / 255, float64(a8) - 128, float64(b8) - 128
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func isRGB8(f buffer.Format) bool {
	return f.Space == buffer.ColorSpaceRGB && f.Channels == 3 && f.BitsPerComponent == 8 && f.Validate() == nil
}

func isLab8(f buffer.Format) bool {
	return f == buffer.FormatLab888
}
