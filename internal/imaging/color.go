package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/lab-hue-mcp/internal/colorspace"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// HSL is often more intuitive for color manipulation than RGB:
//   - Hue represents the color type (red, green, blue, etc.)
//   - Saturation represents color intensity (gray to vivid)
//   - Lightness represents brightness (black to white)
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// LabColor represents a color in CIE L*a*b* (D65).
//
// Hue rotation in this server happens in Lab: lightness stays on L while the
// (a, b) vector is rotated. The Encoded triple is the exact 8-bit value the
// hue pipeline stores for this color (L scaled to 0-255, a and b offset by 128).
type LabColor struct {
	L       float64  `json:"l"`       // Lightness: 0-100
	A       float64  `json:"a"`       // Green (-) to red (+)
	B       float64  `json:"b"`       // Blue (-) to yellow (+)
	Chroma  float64  `json:"chroma"`  // Length of the (a, b) vector
	Hue     float64  `json:"hue"`     // Angle of the (a, b) vector in degrees, 0-360
	Encoded [3]uint8 `json:"encoded"` // 8-bit stored L, a, b
}

// ColorResult contains a color value in multiple representations.
//
// This struct provides the same color in five formats to suit different use cases:
//   - Hex: Compact string format for CSS/web usage
//   - RGB: Standard 8-bit components without alpha
//   - RGBA: 8-bit components with alpha for transparency
//   - HSL: Cylindrical color space for intuitive color operations
//   - Lab: Perceptual color space used by the hue rotation tools
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
	Lab  LabColor  `json:"lab"`  // CIE L*a*b* representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// # Color Conversion
//
// The function reads the native color from the image and converts it to
// non-premultiplied 8-bit components, so a half-transparent red still reports
// R=255. HSL and Lab are computed from those 8-bit components with
// go-colorful. The Hex format excludes alpha; use RGBA.A to get transparency
// information.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r8, g8, b8, a8 := nrgbaAt(img, x, y)
	c := colorful.Color{R: float64(r8) / 255, G: float64(g8) / 255, B: float64(b8) / 255}

	return &ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB:  RGBColor{R: r8, G: g8, B: b8},
		RGBA: RGBAColor{R: r8, G: g8, B: b8, A: a8},
		HSL:  toHSL(c),
		Lab:  toLab(c),
	}, nil
}

// nrgbaAt returns the non-premultiplied 8-bit color at (x, y).
func nrgbaAt(img image.Image, x, y int) (r, g, b, a uint8) {
	if n, ok := img.(*image.NRGBA); ok {
		c := n.NRGBAAt(x, y)
		return c.R, c.G, c.B, c.A
	}
	pr, pg, pb, pa := img.At(x, y).RGBA()
	if pa == 0 {
		return 0, 0, 0, 0
	}
	// Undo alpha premultiplication, then drop to 8 bits.
	r = uint8((pr * 0xffff / pa) >> 8)
	g = uint8((pg * 0xffff / pa) >> 8)
	b = uint8((pb * 0xffff / pa) >> 8)
	return r, g, b, uint8(pa >> 8)
}

func toHSL(c colorful.Color) HSLColor {
	h, s, l := c.Hsl()
	return HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)}
}

func toLab(c colorful.Color) LabColor {
	l, a, b := c.Lab()
	l, a, b = l*100, a*100, b*100
	el, ea, eb := colorspace.EncodeLab8(l, a, b)

	hue := math.Atan2(b, a) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	return LabColor{
		L:       round2(l),
		A:       round2(a),
		B:       round2(b),
		Chroma:  round2(math.Hypot(a, b)),
		Hue:     round2(hue),
		Encoded: [3]uint8{el, ea, eb},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
