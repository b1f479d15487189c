// Package hue rotates the chroma planes of a planar Lab image.
//
// The rotation is done in integer fixed point: coefficients are scaled by a
// power-of-two divisor and every multiply-accumulate stays in int32, so the
// result does not depend on floating-point rounding modes. Chroma bytes hold
// signed values offset by 128; a pre-bias removes the offset before the
// multiply and a post-bias (scaled by the divisor) restores it afterwards.
package hue

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
)

const (
	// DefaultDivisor is the fixed-point scale used when none is given.
	DefaultDivisor int32 = 4096

	// MaxDivisor keeps 3*128*MaxDivisor inside int32.
	MaxDivisor int32 = 1 << 20

	chromaBias = 128
)

// ErrDivisor reports a divisor that is not a positive power of two within
// MaxDivisor.
var ErrDivisor = errors.New("invalid fixed-point divisor")

// ErrAngle reports a rotation angle that is NaN or infinite.
var ErrAngle = errors.New("rotation angle is not finite")

// Matrix is a 2x2 fixed-point transform with pre- and post-bias.
//
//	out0 = round((M00*(in0+PreBias[0]) + M01*(in1+PreBias[1]) + PostBias[0]) / Divisor)
//	out1 = round((M10*(in0+PreBias[0]) + M11*(in1+PreBias[1]) + PostBias[1]) / Divisor)
//
// Results are clamped to 0..255.
type Matrix struct {
	M00, M01 int32
	M10, M11 int32

	Divisor  int32
	PreBias  [2]int32
	PostBias [2]int32
}

// ValidDivisor reports whether d is usable as a Matrix divisor.
func ValidDivisor(d int32) bool {
	return d > 0 && d <= MaxDivisor && d&(d-1) == 0
}

// NewRotation builds the matrix rotating (a*, b*) by theta radians.
//
// theta is reduced into [-pi, pi] first, so theta and theta+2*pi produce the
// same coefficients. A zero angle yields the exact identity. NaN and
// infinite angles fail with ErrAngle.
func NewRotation(theta float64, divisor int32) (Matrix, error) {
	if !ValidDivisor(divisor) {
		return Matrix{}, fmt.Errorf("%w: %d", ErrDivisor, divisor)
	}
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return Matrix{}, fmt.Errorf("%w: %v", ErrAngle, theta)
	}
	theta = math.Remainder(theta, 2*math.Pi)
	sin, cos := math.Sincos(theta)
	d := float64(divisor)

	return Matrix{
		M00:      int32(math.Round(cos * d)),
		M01:      int32(math.Round(-sin * d)),
		M10:      int32(math.Round(sin * d)),
		M11:      int32(math.Round(cos * d)),
		Divisor:  divisor,
		PreBias:  [2]int32{-chromaBias, -chromaBias},
		PostBias: [2]int32{chromaBias * divisor, chromaBias * divisor},
	}, nil
}

// IsIdentity reports whether m leaves every input unchanged.
func (m Matrix) IsIdentity() bool {
	return m.M00 == m.Divisor && m.M11 == m.Divisor && m.M01 == 0 && m.M10 == 0 &&
		m.PostBias[0] == -m.PreBias[0]*m.Divisor && m.PostBias[1] == -m.PreBias[1]*m.Divisor
}

// Apply transforms a single pair of stored chroma bytes.
func (m Matrix) Apply(a, b uint8) (uint8, uint8) {
	x := int32(a) + m.PreBias[0]
	y := int32(b) + m.PreBias[1]
	outA := m.M00*x + m.M01*y + m.PostBias[0]
	outB := m.M10*x + m.M11*y + m.PostBias[1]
	return clampByte(divRound(outA, m.Divisor)), clampByte(divRound(outB, m.Divisor))
}

// Rotate applies m in place to every pixel of the two planes. planes[0] is
// the first input and output axis (a*), planes[1] the second (b*).
//
// Both planes must be single-channel 8-bit buffers of one size; otherwise
// Rotate fails with buffer.ErrDimensionMismatch and writes nothing.
func Rotate(m Matrix, planes [2]*buffer.Buffer) error {
	if !ValidDivisor(m.Divisor) {
		return fmt.Errorf("%w: %d", ErrDivisor, m.Divisor)
	}
	pa, pb := planes[0], planes[1]
	if pa == nil || pb == nil {
		return fmt.Errorf("%w: missing chroma plane", buffer.ErrDimensionMismatch)
	}
	for _, p := range planes {
		if p.Format.Components() != 1 || p.Format.BitsPerComponent != 8 {
			return fmt.Errorf("%w: chroma plane is %s", buffer.ErrDimensionMismatch, p.Format)
		}
	}
	if err := pa.CheckSize(pb); err != nil {
		return err
	}
	ap, err := pa.Bytes()
	if err != nil {
		return err
	}
	bp, err := pb.Bytes()
	if err != nil {
		return err
	}

	if m.IsIdentity() {
		return nil
	}
	for y := 0; y < pa.Height; y++ {
		arow := ap[y*pa.Stride : y*pa.Stride+pa.Width]
		brow := bp[y*pb.Stride : y*pb.Stride+pb.Width]
		for x := range arow {
			arow[x], brow[x] = m.Apply(arow[x], brow[x])
		}
	}
	return nil
}

// RotateAngle builds the rotation for theta and applies it to planes.
func RotateAngle(theta float64, divisor int32, planes [2]*buffer.Buffer) error {
	m, err := NewRotation(theta, divisor)
	if err != nil {
		return err
	}
	return Rotate(m, planes)
}

// divRound divides by a positive d, rounding halves away from zero.
func divRound(v, d int32) int32 {
	if v >= 0 {
		return (v + d/2) / d
	}
	return -((-v + d/2) / d)
}

func clampByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
