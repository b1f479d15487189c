package imaging

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/adjust"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
	"github.com/ironsheep/lab-hue-mcp/internal/pipeline"
)

// HueSession keeps one image decomposed into Lab planes so that repeated
// rotations skip the forward conversion.
//
// The session owns a pipeline built for the image's RGBA layout. The first
// Rotate decomposes the source; every Rotate then applies the angle and
// converts the planes back into a fresh image. The source pixels are only
// read.
//
// HueSession is safe for concurrent use.
type HueSession struct {
	mu     sync.Mutex
	src    *buffer.Buffer
	pipe   *pipeline.Pipeline
	closed bool
}

// NewHueSession copies img and builds a pipeline for it. Options are passed
// to pipeline.New.
func NewHueSession(img image.Image, opts ...pipeline.Option) (*HueSession, error) {
	_, in, err := ToBuffer(img)
	if err != nil {
		return nil, err
	}
	return newHueSession(in, opts...)
}

// NewPictureSession builds a session that reads p's pixels in place.
func NewPictureSession(p *Picture, opts ...pipeline.Option) (*HueSession, error) {
	return newHueSession(p.Buffer, opts...)
}

func newHueSession(in *buffer.Buffer, opts ...pipeline.Option) (*HueSession, error) {
	pipe, err := pipeline.New(in.Format, opts...)
	if err != nil {
		return nil, err
	}
	return &HueSession{src: in, pipe: pipe}, nil
}

// Rotate applies angle, in radians, and returns the converted image.
//
// In absolute mode the result is the source rotated by angle. Otherwise angle
// is added to the rotation already carried by the session.
func (s *HueSession) Rotate(angle float64) (*image.NRGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, pipeline.ErrClosed
	}
	if s.pipe.State() == pipeline.StateEmpty {
		if err := s.pipe.ForwardConvert(s.src); err != nil {
			return nil, err
		}
	}
	if err := s.pipe.ApplyHue(angle); err != nil {
		return nil, err
	}

	out, outBuf, err := newOutput(s.src.Width, s.src.Height)
	if err != nil {
		return nil, err
	}
	if err := s.pipe.InverseConvert(outBuf); err != nil {
		return nil, err
	}
	return out, nil
}

// Angle returns the net rotation in radians carried by the session.
func (s *HueSession) Angle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipe.Angle()
}

// Absolute reports whether Rotate angles are absolute.
func (s *HueSession) Absolute() bool {
	return s.pipe.Absolute()
}

// Close releases the session's planes. Further Rotate calls fail.
func (s *HueSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.pipe.Close()
}

// RotateHue rotates the hue of img by angle radians in CIE L*a*b*.
//
// Lightness is untouched and alpha is carried over unchanged. This is a
// one-shot pass; use HueSession for repeated rotations of one image.
func RotateHue(img image.Image, angle float64, opts ...pipeline.Option) (*image.NRGBA, error) {
	_, in, err := ToBuffer(img)
	if err != nil {
		return nil, err
	}
	out, outBuf, err := newOutput(in.Width, in.Height)
	if err != nil {
		return nil, err
	}
	if err := pipeline.Rotate(in, outBuf, angle, opts...); err != nil {
		return nil, fmt.Errorf("rotating hue: %w", err)
	}
	return out, nil
}

// ShiftHueHSL shifts the hue of img by the given number of degrees in HSL.
//
// It is the naive comparison for RotateHue: HSL hue shifts change perceived
// lightness, the Lab rotation does not.
func ShiftHueHSL(img image.Image, degrees int) image.Image {
	return adjust.Hue(img, (degrees%360+360)%360)
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
