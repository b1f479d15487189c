// Package planar moves 8-bit pixels between interleaved and planar layouts.
//
// Nothing here changes a value; every function is a byte scatter or gather
// that honours the stride of each buffer independently.
package planar

import (
	"errors"
	"fmt"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
)

// ErrLayout reports a buffer whose pixel layout the operation cannot handle.
var ErrLayout = errors.New("unsupported pixel layout")

// Triple holds the three single-channel planes of a 3-channel image:
// lightness and the two chroma axes.
type Triple struct {
	L *buffer.Buffer
	A *buffer.Buffer
	B *buffer.Buffer
}

// Planes returns the planes in interleaved channel order.
func (t Triple) Planes() [3]*buffer.Buffer {
	return [3]*buffer.Buffer{t.L, t.A, t.B}
}

// Validate checks that all three planes exist, are single-channel 8-bit and
// share one size. Size disagreements fail with buffer.ErrDimensionMismatch.
func (t Triple) Validate() error {
	for i, p := range t.Planes() {
		if p == nil {
			return fmt.Errorf("%w: plane %d missing", buffer.ErrDimensionMismatch, i)
		}
		if p.Format.Components() != 1 || p.Format.BitsPerComponent != 8 {
			return fmt.Errorf("%w: plane %d is %s", ErrLayout, i, p.Format)
		}
	}
	return t.L.CheckSize(t.A, t.B)
}

// Width returns the shared plane width.
func (t Triple) Width() int { return t.L.Width }

// Height returns the shared plane height.
func (t Triple) Height() int { return t.L.Height }

// Split allocates three FormatPlanar8 planes in s and scatters src's
// channels into them. src must be an interleaved 8-bit Lab buffer.
// On failure any planes already allocated stay owned by s.
func Split(s *buffer.Scope, src *buffer.Buffer) (Triple, error) {
	if err := checkInterleaved(src); err != nil {
		return Triple{}, err
	}
	if src.Format.Space != buffer.ColorSpaceLab {
		return Triple{}, fmt.Errorf("%w: split wants Lab, got %s", ErrLayout, src.Format)
	}

	var planes [3]*buffer.Buffer
	for i := range planes {
		p, err := s.Allocate(src.Width, src.Height, buffer.FormatPlanar8)
		if err != nil {
			return Triple{}, fmt.Errorf("allocating plane %d: %w", i, err)
		}
		planes[i] = p
	}
	t := Triple{L: planes[0], A: planes[1], B: planes[2]}
	if err := SplitInto(src, t); err != nil {
		return Triple{}, err
	}
	return t, nil
}

// SplitInto scatters src's three interleaved channels into t's planes.
func SplitInto(src *buffer.Buffer, t Triple) error {
	if err := checkInterleaved(src); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := src.CheckSize(t.L); err != nil {
		return err
	}
	sp, err := src.Bytes()
	if err != nil {
		return err
	}
	lp, ap, bp, err := planeBytes(t)
	if err != nil {
		return err
	}

	for y := 0; y < src.Height; y++ {
		srow := sp[y*src.Stride:]
		lrow := lp[y*t.L.Stride:]
		arow := ap[y*t.A.Stride:]
		brow := bp[y*t.B.Stride:]
		for x := 0; x < src.Width; x++ {
			i := x * 3
			lrow[x] = srow[i]
			arow[x] = srow[i+1]
			brow[x] = srow[i+2]
		}
	}
	return nil
}

// Merge allocates an interleaved buffer of the given format in s and gathers
// t's planes into it.
func Merge(s *buffer.Scope, t Triple, format buffer.Format) (*buffer.Buffer, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	dst, err := s.Allocate(t.Width(), t.Height(), format)
	if err != nil {
		return nil, err
	}
	if err := MergeInto(t, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// MergeInto gathers one byte from each plane per pixel and writes them
// contiguously into dst, which must be an interleaved 3-component buffer of
// the planes' size.
func MergeInto(t Triple, dst *buffer.Buffer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := checkInterleaved(dst); err != nil {
		return err
	}
	if err := t.L.CheckSize(dst); err != nil {
		return err
	}
	dp, err := dst.Bytes()
	if err != nil {
		return err
	}
	lp, ap, bp, err := planeBytes(t)
	if err != nil {
		return err
	}

	for y := 0; y < dst.Height; y++ {
		drow := dp[y*dst.Stride:]
		lrow := lp[y*t.L.Stride:]
		arow := ap[y*t.A.Stride:]
		brow := bp[y*t.B.Stride:]
		for x := 0; x < dst.Width; x++ {
			i := x * 3
			drow[i] = lrow[x]
			drow[i+1] = arow[x]
			drow[i+2] = brow[x]
		}
	}
	return nil
}

// ExtractChannel copies the component at byte offset off of every pixel in
// src into the single-channel buffer dst.
func ExtractChannel(src *buffer.Buffer, off int, dst *buffer.Buffer) error {
	bpp, err := channelGeometry(src, off, dst)
	if err != nil {
		return err
	}
	sp, err := src.Bytes()
	if err != nil {
		return err
	}
	dp, err := dst.Bytes()
	if err != nil {
		return err
	}
	for y := 0; y < src.Height; y++ {
		srow := sp[y*src.Stride:]
		drow := dp[y*dst.Stride:]
		for x := 0; x < src.Width; x++ {
			drow[x] = srow[x*bpp+off]
		}
	}
	return nil
}

// InsertChannel writes the single-channel buffer src into the component at
// byte offset off of every pixel in dst.
func InsertChannel(src *buffer.Buffer, dst *buffer.Buffer, off int) error {
	bpp, err := channelGeometry(dst, off, src)
	if err != nil {
		return err
	}
	sp, err := src.Bytes()
	if err != nil {
		return err
	}
	dp, err := dst.Bytes()
	if err != nil {
		return err
	}
	for y := 0; y < dst.Height; y++ {
		srow := sp[y*src.Stride:]
		drow := dp[y*dst.Stride:]
		for x := 0; x < dst.Width; x++ {
			drow[x*bpp+off] = srow[x]
		}
	}
	return nil
}

func channelGeometry(interleaved *buffer.Buffer, off int, plane *buffer.Buffer) (int, error) {
	if interleaved.Format.BitsPerComponent != 8 || plane.Format.BitsPerComponent != 8 {
		return 0, fmt.Errorf("%w: only 8-bit components are supported", ErrLayout)
	}
	if plane.Format.Components() != 1 {
		return 0, fmt.Errorf("%w: %s is not single-channel", ErrLayout, plane.Format)
	}
	bpp := interleaved.Format.BytesPerPixel()
	if off < 0 || off >= bpp {
		return 0, fmt.Errorf("%w: channel offset %d outside %d-byte pixel", ErrLayout, off, bpp)
	}
	if err := interleaved.CheckSize(plane); err != nil {
		return 0, err
	}
	return bpp, nil
}

func checkInterleaved(b *buffer.Buffer) error {
	if b.Format.Components() != 3 || b.Format.BitsPerComponent != 8 {
		return fmt.Errorf("%w: want 3 interleaved 8-bit components, got %s", ErrLayout, b.Format)
	}
	return nil
}

func planeBytes(t Triple) (l, a, b []byte, err error) {
	if l, err = t.L.Bytes(); err != nil {
		return nil, nil, nil, err
	}
	if a, err = t.A.Bytes(); err != nil {
		return nil, nil, nil, err
	}
	if b, err = t.B.Bytes(); err != nil {
		return nil, nil, nil, err
	}
	return l, a, b, nil
}
