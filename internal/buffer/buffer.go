package buffer

import (
	"errors"
	"fmt"
)

// RowAlignment is the byte multiple every allocated row stride is padded to.
const RowAlignment = 16

var (
	// ErrAllocation reports that a buffer could not be created.
	ErrAllocation = errors.New("buffer allocation failed")

	// ErrReleased reports access to, or a second release of, released storage.
	ErrReleased = errors.New("buffer already released")

	// ErrNotOwned reports a release of storage the caller does not own.
	ErrNotOwned = errors.New("buffer not owned by caller")

	// ErrDimensionMismatch reports buffers that disagree in width or height.
	ErrDimensionMismatch = errors.New("buffer dimension mismatch")
)

// Buffer is a rectangle of pixels with an explicit row stride.
type Buffer struct {
	Width  int
	Height int
	Stride int // bytes between the starts of consecutive rows
	Format Format

	pix      []byte
	owner    *Allocator
	scoped   bool
	released bool
}

// Wrap builds a Buffer over caller-owned pixel memory without copying it.
//
// The returned buffer never frees pix. Wrap fails with ErrAllocation when the
// geometry is invalid or pix is too short for it.
func Wrap(pix []byte, width, height, stride int, format Format) (*Buffer, error) {
	if err := checkGeometry(width, height, format); err != nil {
		return nil, err
	}
	rowBytes := width * format.BytesPerPixel()
	if stride < rowBytes {
		return nil, fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrAllocation, stride, rowBytes)
	}
	need := stride*(height-1) + rowBytes
	if len(pix) < need {
		return nil, fmt.Errorf("%w: %d bytes supplied, %dx%d %s needs %d", ErrAllocation, len(pix), width, height, format, need)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		pix:    pix,
	}, nil
}

// Bytes returns the backing storage. It fails with ErrReleased once the
// buffer has been released.
func (b *Buffer) Bytes() ([]byte, error) {
	if b.released {
		return nil, ErrReleased
	}
	return b.pix, nil
}

// Released reports whether the buffer's storage has been given back.
func (b *Buffer) Released() bool {
	return b.released
}

// Owned reports whether the buffer's storage came from an Allocator.
func (b *Buffer) Owned() bool {
	return b.owner != nil
}

// RowBytes is the number of meaningful bytes in each row.
func (b *Buffer) RowBytes() int {
	return b.Width * b.Format.BytesPerPixel()
}

// SameSize reports whether b and o share width and height.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// CheckSize returns ErrDimensionMismatch unless every buffer matches b's
// width and height.
func (b *Buffer) CheckSize(others ...*Buffer) error {
	for _, o := range others {
		if o == nil {
			return fmt.Errorf("%w: missing buffer", ErrDimensionMismatch)
		}
		if !b.SameSize(o) {
			return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, b.Width, b.Height, o.Width, o.Height)
		}
	}
	return nil
}

// CopyInto copies src's pixel rows into dst. Both buffers must share size and
// bytes per pixel; strides may differ.
func CopyInto(dst, src *Buffer) error {
	if err := src.CheckSize(dst); err != nil {
		return err
	}
	if src.Format.BytesPerPixel() != dst.Format.BytesPerPixel() {
		return fmt.Errorf("%w: %s into %s", ErrDimensionMismatch, src.Format, dst.Format)
	}
	sp, err := src.Bytes()
	if err != nil {
		return err
	}
	dp, err := dst.Bytes()
	if err != nil {
		return err
	}
	n := src.RowBytes()
	for y := 0; y < src.Height; y++ {
		copy(dp[y*dst.Stride:y*dst.Stride+n], sp[y*src.Stride:y*src.Stride+n])
	}
	return nil
}

func checkGeometry(width, height int, format Format) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrAllocation, width, height)
	}
	if err := format.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	return nil
}

func alignedStride(width int, format Format) int {
	n := width * format.BytesPerPixel()
	return (n + RowAlignment - 1) / RowAlignment * RowAlignment
}
