package buffer

import "fmt"

// ColorSpace identifies the meaning of a format's color channels.
type ColorSpace int

const (
	// ColorSpaceUnknown is the zero value and never has a conversion path.
	ColorSpaceUnknown ColorSpace = iota
	// ColorSpaceRGB is gamma-encoded sRGB.
	ColorSpaceRGB
	// ColorSpaceLab is CIE L*a*b* (D65), 8-bit encoded: L 0..100 scaled to
	// 0..255, a and b stored with a +128 offset.
	ColorSpaceLab
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceRGB:
		return "rgb"
	case ColorSpaceLab:
		return "lab"
	default:
		return fmt.Sprintf("colorspace(%d)", int(c))
	}
}

// AlphaPosition says where the alpha component sits within a pixel.
type AlphaPosition int

const (
	AlphaNone AlphaPosition = iota
	AlphaFirst
	AlphaLast
)

func (a AlphaPosition) String() string {
	switch a {
	case AlphaNone:
		return "none"
	case AlphaFirst:
		return "first"
	case AlphaLast:
		return "last"
	default:
		return fmt.Sprintf("alpha(%d)", int(a))
	}
}

// Format describes the pixel layout of a Buffer.
//
// Channels counts color channels only; an alpha component, if present, is
// extra. BitsPerPixel therefore is Channels*BitsPerComponent without alpha
// and (Channels+1)*BitsPerComponent with it.
type Format struct {
	Channels         int
	BitsPerComponent int
	Space            ColorSpace
	Alpha            AlphaPosition
}

// Common formats.
var (
	FormatRGB888   = Format{Channels: 3, BitsPerComponent: 8, Space: ColorSpaceRGB}
	FormatRGBA8888 = Format{Channels: 3, BitsPerComponent: 8, Space: ColorSpaceRGB, Alpha: AlphaLast}
	FormatARGB8888 = Format{Channels: 3, BitsPerComponent: 8, Space: ColorSpaceRGB, Alpha: AlphaFirst}
	FormatLab888   = Format{Channels: 3, BitsPerComponent: 8, Space: ColorSpaceLab}

	// FormatPlanar8 holds one Lab component per pixel.
	FormatPlanar8 = Format{Channels: 1, BitsPerComponent: 8, Space: ColorSpaceLab}
)

// HasAlpha reports whether pixels carry an alpha component.
func (f Format) HasAlpha() bool {
	return f.Alpha != AlphaNone
}

// Components returns the number of stored components per pixel, alpha included.
func (f Format) Components() int {
	if f.HasAlpha() {
		return f.Channels + 1
	}
	return f.Channels
}

// BitsPerPixel returns Components()*BitsPerComponent.
func (f Format) BitsPerPixel() int {
	return f.Components() * f.BitsPerComponent
}

// BytesPerPixel returns BitsPerPixel rounded up to whole bytes.
func (f Format) BytesPerPixel() int {
	return (f.BitsPerPixel() + 7) / 8
}

// ColorOffset returns the byte offset of color channel i inside a pixel.
// Only meaningful for 8-bit components.
func (f Format) ColorOffset(i int) int {
	if f.Alpha == AlphaFirst {
		return i + 1
	}
	return i
}

// AlphaOffset returns the byte offset of the alpha component inside a pixel,
// or -1 when the format has none.
func (f Format) AlphaOffset() int {
	switch f.Alpha {
	case AlphaFirst:
		return 0
	case AlphaLast:
		return f.Channels
	default:
		return -1
	}
}

// Validate checks that the format describes a layout this package can store.
func (f Format) Validate() error {
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count %d", f.Channels)
	}
	if f.BitsPerComponent <= 0 || f.BitsPerComponent%8 != 0 {
		return fmt.Errorf("invalid bits per component %d", f.BitsPerComponent)
	}
	if f.Alpha < AlphaNone || f.Alpha > AlphaLast {
		return fmt.Errorf("invalid alpha position %d", int(f.Alpha))
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%s/%dx%d/alpha=%s", f.Space, f.Channels, f.BitsPerComponent, f.Alpha)
}
