// Package pipeline sequences the Lab hue rotation of an RGB image.
//
// A Pipeline is built once per source format and then driven through three
// operations:
//
//	ForwardConvert(src)  RGB -> interleaved Lab -> L, a*, b* planes
//	ApplyHue(angle)      rotate the a*/b* planes in place
//	InverseConvert(dst)  planes -> interleaved Lab -> RGB
//
// Rotations compound by default: ApplyHue(t1) followed by ApplyHue(t2) is a
// net rotation of t1+t2, because each call works on the planes the previous
// one left behind. WithAbsoluteAngle keeps a copy of the unrotated planes so
// every call rotates from the source instead.
//
// A Pipeline is not safe for concurrent use. Independent pipelines share
// nothing but, optionally, an Allocator.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
	"github.com/ironsheep/lab-hue-mcp/internal/colorspace"
	"github.com/ironsheep/lab-hue-mcp/internal/hue"
	"github.com/ironsheep/lab-hue-mcp/internal/planar"
)

var (
	// ErrNoPlanes reports an operation that needs decomposed planes on an
	// empty pipeline.
	ErrNoPlanes = errors.New("no decomposed planes; call ForwardConvert first")

	// ErrClosed reports use of a pipeline after Close.
	ErrClosed = errors.New("pipeline closed")
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDivisor sets the fixed-point divisor of the hue rotation.
func WithDivisor(d int32) Option {
	return func(p *Pipeline) { p.divisor = d }
}

// WithAbsoluteAngle makes every ApplyHue rotate from the unrotated planes,
// so the angle is absolute rather than added to earlier calls.
func WithAbsoluteAngle() Option {
	return func(p *Pipeline) { p.absolute = true }
}

// WithAllocator sets the allocator plane storage comes from.
func WithAllocator(a *buffer.Allocator) Option {
	return func(p *Pipeline) { p.alloc = a }
}

// Pipeline owns the converters and planes for one image at a time.
type Pipeline struct {
	format   buffer.Format
	alloc    *buffer.Allocator
	toLab    *colorspace.Converter
	toRGB    *colorspace.Converter
	divisor  int32
	absolute bool

	state  state
	closed bool
}

// New builds a pipeline for source images in format.
//
// Both converters are built here, so an unsupported format fails now with
// colorspace.ErrUnsupportedFormat; an invalid divisor fails with
// hue.ErrDivisor.
func New(format buffer.Format, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		format:  format,
		divisor: hue.DefaultDivisor,
		state:   emptyState{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.alloc == nil {
		p.alloc = buffer.NewAllocator()
	}
	if !hue.ValidDivisor(p.divisor) {
		return nil, fmt.Errorf("%w: %d", hue.ErrDivisor, p.divisor)
	}

	var err error
	if p.toLab, err = colorspace.Build(format, buffer.FormatLab888); err != nil {
		return nil, fmt.Errorf("building forward converter: %w", err)
	}
	if p.toRGB, err = colorspace.Build(buffer.FormatLab888, format); err != nil {
		return nil, fmt.Errorf("building inverse converter: %w", err)
	}
	return p, nil
}

// Format returns the RGB format the pipeline reads and writes.
func (p *Pipeline) Format() buffer.Format { return p.format }

// Absolute reports whether ApplyHue angles are absolute.
func (p *Pipeline) Absolute() bool { return p.absolute }

// State returns the current stage.
func (p *Pipeline) State() StateKind { return p.state.kind() }

// Angle returns the net rotation, in radians, carried by the current planes.
func (p *Pipeline) Angle() float64 {
	_, angle := planesOf(p.state)
	return angle
}

// Planes returns the current L, a*, b* planes. The buffers stay owned by the
// pipeline and are invalid after the next ForwardConvert, Reset or Close.
func (p *Pipeline) Planes() (planar.Triple, error) {
	set, _ := planesOf(p.state)
	if set == nil {
		return planar.Triple{}, ErrNoPlanes
	}
	return set.lab, nil
}

// ForwardConvert converts src to Lab and splits it into planes, replacing
// any planes from an earlier call.
//
// Earlier planes are released before anything new is allocated. On failure
// the pipeline is left empty with nothing allocated, and a later call can
// succeed.
func (p *Pipeline) ForwardConvert(src *buffer.Buffer) error {
	if p.closed {
		return ErrClosed
	}
	p.Reset()

	set, err := p.decompose(src)
	if err != nil {
		return fmt.Errorf("forward convert: %w", err)
	}
	p.state = labDecomposed{set: set}
	return nil
}

func (p *Pipeline) decompose(src *buffer.Buffer) (_ *planeSet, err error) {
	scope := p.alloc.NewScope()
	defer func() {
		if err != nil {
			scope.Close()
		}
	}()

	tmp := p.alloc.NewScope()
	defer tmp.Close()

	lab, err := tmp.Allocate(src.Width, src.Height, buffer.FormatLab888)
	if err != nil {
		return nil, err
	}
	if err := p.toLab.Convert(src, lab); err != nil {
		return nil, err
	}

	set := &planeSet{scope: scope}
	if set.lab, err = planar.Split(scope, lab); err != nil {
		return nil, err
	}

	if p.format.HasAlpha() {
		alphaFormat := buffer.Format{Channels: 1, BitsPerComponent: 8, Space: buffer.ColorSpaceRGB}
		if set.alpha, err = scope.Allocate(src.Width, src.Height, alphaFormat); err != nil {
			return nil, err
		}
		if err := planar.ExtractChannel(src, p.format.AlphaOffset(), set.alpha); err != nil {
			return nil, err
		}
	}

	if p.absolute {
		for i, plane := range set.chroma() {
			if set.original[i], err = scope.Allocate(plane.Width, plane.Height, plane.Format); err != nil {
				return nil, err
			}
			if err := buffer.CopyInto(set.original[i], plane); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// ApplyHue rotates the chroma planes by angle radians.
//
// Without WithAbsoluteAngle the rotation is applied to the already rotated
// planes and compounds with earlier calls. Fails with ErrNoPlanes when the
// pipeline is empty; a NaN or infinite angle fails with hue.ErrAngle and
// leaves the planes and state as they were.
func (p *Pipeline) ApplyHue(angle float64) error {
	if p.closed {
		return ErrClosed
	}
	set, prev := planesOf(p.state)
	if set == nil {
		return fmt.Errorf("apply hue: %w", ErrNoPlanes)
	}

	m, err := hue.NewRotation(angle, p.divisor)
	if err != nil {
		return fmt.Errorf("apply hue: %w", err)
	}

	net := prev + angle
	if p.absolute {
		for i, plane := range set.chroma() {
			if err := buffer.CopyInto(plane, set.original[i]); err != nil {
				return fmt.Errorf("apply hue: restoring chroma: %w", err)
			}
		}
		net = angle
	}

	if err := hue.Rotate(m, set.chroma()); err != nil {
		return fmt.Errorf("apply hue: %w", err)
	}
	p.state = hueApplied{set: set, angle: net}
	return nil
}

// InverseConvert recombines the planes and converts them back into dst,
// which must have the pipeline's format and the source image's size. The
// source alpha channel, if any, is restored. The state does not change.
func (p *Pipeline) InverseConvert(dst *buffer.Buffer) error {
	if p.closed {
		return ErrClosed
	}
	set, _ := planesOf(p.state)
	if set == nil {
		return fmt.Errorf("inverse convert: %w", ErrNoPlanes)
	}

	tmp := p.alloc.NewScope()
	defer tmp.Close()

	lab, err := planar.Merge(tmp, set.lab, buffer.FormatLab888)
	if err != nil {
		return fmt.Errorf("inverse convert: %w", err)
	}
	if err := p.toRGB.Convert(lab, dst); err != nil {
		return fmt.Errorf("inverse convert: %w", err)
	}
	if set.alpha != nil {
		if err := planar.InsertChannel(set.alpha, dst, p.format.AlphaOffset()); err != nil {
			return fmt.Errorf("inverse convert: restoring alpha: %w", err)
		}
	}
	return nil
}

// Reset releases every plane and returns the pipeline to StateEmpty.
func (p *Pipeline) Reset() {
	if set, _ := planesOf(p.state); set != nil {
		set.release()
	}
	p.state = emptyState{}
}

// Close resets the pipeline and makes further operations fail with ErrClosed.
func (p *Pipeline) Close() error {
	p.Reset()
	p.closed = true
	return nil
}

// Rotate runs one forward, rotate, inverse pass from src into dst. Both
// buffers must share a format and size.
func Rotate(src, dst *buffer.Buffer, angle float64, opts ...Option) error {
	p, err := New(src.Format, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.ForwardConvert(src); err != nil {
		return err
	}
	if err := p.ApplyHue(angle); err != nil {
		return err
	}
	return p.InverseConvert(dst)
}
