package colorspace

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
)

// rgbBuffer builds a one-row buffer from packed pixels in the given format.
func rgbBuffer(t *testing.T, format buffer.Format, pixels ...[]byte) *buffer.Buffer {
	t.Helper()
	bpp := format.BytesPerPixel()
	pix := make([]byte, 0, len(pixels)*bpp)
	for _, p := range pixels {
		if len(p) != bpp {
			t.Fatalf("pixel %v does not match %d bytes per pixel", p, bpp)
		}
		pix = append(pix, p...)
	}
	b, err := buffer.Wrap(pix, len(pixels), 1, len(pix), format)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	return b
}

func pixelAt(t *testing.T, b *buffer.Buffer, x, y int) []byte {
	t.Helper()
	pix, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	bpp := b.Format.BytesPerPixel()
	off := y*b.Stride + x*bpp
	return pix[off : off+bpp]
}

// referenceLab is an independent double-precision sRGB -> Lab (D65).
func referenceLab(r, g, b uint8) (float64, float64, float64) {
	lin := func(v uint8) float64 {
		c := float64(v) / 255
		if c <= 0.04045 {
			return c / 12.92
		}
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	rl, gl, bl := lin(r), lin(g), lin(b)
	x := (0.4124564*rl + 0.3575761*gl + 0.1804375*bl) / 0.95047
	y := 0.2126729*rl + 0.7151522*gl + 0.0721750*bl
	z := (0.0193339*rl + 0.1191920*gl + 0.9503041*bl) / 1.08883
	f := func(t float64) float64 {
		if t > 216.0/24389.0 {
			return math.Cbrt(t)
		}
		return (24389.0/27.0*t + 16) / 116
	}
	fx, fy, fz := f(x), f(y), f(z)
	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		src  buffer.Format
		dst  buffer.Format
	}{
		{"rgb to lab", buffer.FormatRGB888, buffer.FormatLab888},
		{"rgba to lab", buffer.FormatRGBA8888, buffer.FormatLab888},
		{"argb to lab", buffer.FormatARGB8888, buffer.FormatLab888},
		{"lab to rgb", buffer.FormatLab888, buffer.FormatRGB888},
		{"lab to rgba", buffer.FormatLab888, buffer.FormatRGBA8888},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Build(tt.src, tt.dst)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if c.Source() != tt.src || c.Destination() != tt.dst {
				t.Errorf("formats: got %s -> %s", c.Source(), c.Destination())
			}
		})
	}
}

func TestBuild_Unsupported(t *testing.T) {
	unknown := buffer.FormatLab888
	unknown.Space = buffer.ColorSpaceUnknown

	tests := []struct {
		name string
		src  buffer.Format
		dst  buffer.Format
	}{
		{"unknown destination space", buffer.FormatRGB888, unknown},
		{"rgb to rgb", buffer.FormatRGB888, buffer.FormatRGBA8888},
		{"lab to lab", buffer.FormatLab888, buffer.FormatLab888},
		{"planar source", buffer.FormatPlanar8, buffer.FormatRGB888},
		{"16-bit rgb", buffer.Format{Channels: 3, BitsPerComponent: 16, Space: buffer.ColorSpaceRGB}, buffer.FormatLab888},
		{"lab with alpha", buffer.FormatRGB888, buffer.Format{Channels: 3, BitsPerComponent: 8, Space: buffer.ColorSpaceLab, Alpha: buffer.AlphaLast}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Build(tt.src, tt.dst)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("got %v, want ErrUnsupportedFormat", err)
			}
			if c != nil {
				t.Error("Build returned a converter alongside the error")
			}
		})
	}
}

func TestConvert_KnownColors(t *testing.T) {
	tests := []struct {
		name string
		rgb  []byte
		lab  []byte
	}{
		{"white", []byte{255, 255, 255}, []byte{255, 128, 128}},
		{"black", []byte{0, 0, 0}, []byte{0, 128, 128}},
		{"mid gray", []byte{128, 128, 128}, []byte{137, 128, 128}},
		{"red", []byte{255, 0, 0}, []byte{136, 208, 195}},
		{"blue", []byte{0, 0, 255}, []byte{82, 207, 20}},
		{"orange", []byte{200, 100, 50}, []byte{137, 164, 173}},
	}

	toLab, err := Build(buffer.FormatRGB888, buffer.FormatLab888)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	a := buffer.NewAllocator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := rgbBuffer(t, buffer.FormatRGB888, tt.rgb)
			dst, err := a.Allocate(1, 1, buffer.FormatLab888)
			if err != nil {
				t.Fatalf("Allocate failed: %v", err)
			}
			defer a.Release(dst)

			if err := toLab.Convert(src, dst); err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			got := pixelAt(t, dst, 0, 0)
			for i := range tt.lab {
				if got[i] != tt.lab[i] {
					t.Errorf("Lab: got %v, want %v", got, tt.lab)
					break
				}
			}
		})
	}
}

func TestConvert_MatchesReference(t *testing.T) {
	var pixels [][]byte
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 51 {
			for b := 0; b < 256; b += 85 {
				pixels = append(pixels, []byte{byte(r), byte(g), byte(b)})
			}
		}
	}
	src := rgbBuffer(t, buffer.FormatRGB888, pixels...)

	toLab, _ := Build(buffer.FormatRGB888, buffer.FormatLab888)
	a := buffer.NewAllocator()
	dst, _ := a.Allocate(src.Width, 1, buffer.FormatLab888)
	if err := toLab.Convert(src, dst); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	for x, p := range pixels {
		l, aa, bb := referenceLab(p[0], p[1], p[2])
		want := []float64{l * 255 / 100, aa + 128, bb + 128}
		got := pixelAt(t, dst, x, 0)
		for i := 0; i < 3; i++ {
			w := math.Max(0, math.Min(255, want[i]))
			if math.Abs(float64(got[i])-w) > 1 {
				t.Errorf("rgb %v component %d: got %d, reference %.3f", p, i, got[i], w)
			}
		}
	}
}

func TestConvert_AlphaLayouts(t *testing.T) {
	toLabRGBA, _ := Build(buffer.FormatRGBA8888, buffer.FormatLab888)
	toLabARGB, _ := Build(buffer.FormatARGB8888, buffer.FormatLab888)
	a := buffer.NewAllocator()

	rgba := rgbBuffer(t, buffer.FormatRGBA8888, []byte{200, 100, 50, 10})
	argb := rgbBuffer(t, buffer.FormatARGB8888, []byte{10, 200, 100, 50})
	out1, _ := a.Allocate(1, 1, buffer.FormatLab888)
	out2, _ := a.Allocate(1, 1, buffer.FormatLab888)

	if err := toLabRGBA.Convert(rgba, out1); err != nil {
		t.Fatalf("RGBA Convert failed: %v", err)
	}
	if err := toLabARGB.Convert(argb, out2); err != nil {
		t.Fatalf("ARGB Convert failed: %v", err)
	}
	p1, p2 := pixelAt(t, out1, 0, 0), pixelAt(t, out2, 0, 0)
	if p1[0] != p2[0] || p1[1] != p2[1] || p1[2] != p2[2] {
		t.Errorf("alpha position changed the color: %v vs %v", p1, p2)
	}
}

func TestConvert_ToRGBWritesOpaqueAlpha(t *testing.T) {
	toRGB, _ := Build(buffer.FormatLab888, buffer.FormatARGB8888)
	a := buffer.NewAllocator()
	dst, _ := a.Allocate(1, 1, buffer.FormatARGB8888)

	if err := toRGB.Convert(rgbBuffer(t, buffer.FormatLab888, []byte{255, 128, 128}), dst); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	got := pixelAt(t, dst, 0, 0)
	want := []byte{255, 255, 255, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ARGB: got %v, want %v", got, want)
		}
	}
}

func TestConvert_RoundTripNeutrals(t *testing.T) {
	toLab, _ := Build(buffer.FormatRGB888, buffer.FormatLab888)
	toRGB, _ := Build(buffer.FormatLab888, buffer.FormatRGB888)
	a := buffer.NewAllocator()

	var pixels [][]byte
	for v := 0; v < 256; v++ {
		pixels = append(pixels, []byte{byte(v), byte(v), byte(v)})
	}
	src := rgbBuffer(t, buffer.FormatRGB888, pixels...)
	lab, _ := a.Allocate(256, 1, buffer.FormatLab888)
	out, _ := a.Allocate(256, 1, buffer.FormatRGB888)

	if err := toLab.Convert(src, lab); err != nil {
		t.Fatalf("to Lab failed: %v", err)
	}
	if err := toRGB.Convert(lab, out); err != nil {
		t.Fatalf("to RGB failed: %v", err)
	}
	for x := 0; x < 256; x++ {
		got := pixelAt(t, out, x, 0)
		for i := 0; i < 3; i++ {
			if d := int(got[i]) - x; d < -1 || d > 1 {
				t.Errorf("gray %d: got %v", x, got)
				break
			}
		}
	}
}

func TestConvert_Mismatch(t *testing.T) {
	toLab, _ := Build(buffer.FormatRGB888, buffer.FormatLab888)
	a := buffer.NewAllocator()

	src := rgbBuffer(t, buffer.FormatRGB888, []byte{1, 2, 3}, []byte{4, 5, 6})
	wrongSize, _ := a.Allocate(1, 1, buffer.FormatLab888)
	wrongFormat, _ := a.Allocate(2, 1, buffer.FormatRGB888)
	labSrc, _ := a.Allocate(2, 1, buffer.FormatLab888)
	released, _ := a.Allocate(2, 1, buffer.FormatLab888)
	_ = a.Release(released)

	tests := []struct {
		name string
		src  *buffer.Buffer
		dst  *buffer.Buffer
	}{
		{"size", src, wrongSize},
		{"destination format", src, wrongFormat},
		{"source format", labSrc, released},
		{"released destination", src, released},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := toLab.Convert(tt.src, tt.dst); !errors.Is(err, ErrConversion) {
				t.Errorf("got %v, want ErrConversion", err)
			}
		})
	}
}

func TestEncodeLab8(t *testing.T) {
	tests := []struct {
		l, a, b    float64
		wl, wa, wb uint8
	}{
		{0, 0, 0, 0, 128, 128},
		{100, 0, 0, 255, 128, 128},
		{50, 10, -10, 128, 138, 118},
		{120, 200, -200, 255, 255, 0},
	}
	for _, tt := range tests {
		l, a, b := EncodeLab8(tt.l, tt.a, tt.b)
		if l != tt.wl || a != tt.wa || b != tt.wb {
			t.Errorf("EncodeLab8(%v,%v,%v) = %d,%d,%d, want %d,%d,%d", tt.l, tt.a, tt.b, l, a, b, tt.wl, tt.wa, tt.wb)
		}
	}

	l, a, b := DecodeLab8(255, 138, 118)
	if l != 100 || a != 10 || b != -10 {
		t.Errorf("DecodeLab8 = %v,%v,%v, want 100,10,-10", l, a, b)
	}
}
