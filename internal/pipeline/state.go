package pipeline

import (
	"fmt"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
	"github.com/ironsheep/lab-hue-mcp/internal/planar"
)

// StateKind names the pipeline's current stage.
type StateKind int

const (
	// StateEmpty holds no planes; only ForwardConvert is allowed.
	StateEmpty StateKind = iota
	// StateLabDecomposed holds unrotated Lab planes.
	StateLabDecomposed
	// StateHueApplied holds Lab planes with at least one rotation applied.
	StateHueApplied
)

func (k StateKind) String() string {
	switch k {
	case StateEmpty:
		return "empty"
	case StateLabDecomposed:
		return "lab-decomposed"
	case StateHueApplied:
		return "hue-applied"
	default:
		return fmt.Sprintf("state(%d)", int(k))
	}
}

type state interface {
	kind() StateKind
}

type emptyState struct{}

type labDecomposed struct {
	set *planeSet
}

type hueApplied struct {
	set   *planeSet
	angle float64 // net rotation since the planes were decomposed
}

func (emptyState) kind() StateKind    { return StateEmpty }
func (labDecomposed) kind() StateKind { return StateLabDecomposed }
func (hueApplied) kind() StateKind    { return StateHueApplied }

// planeSet is everything one ForwardConvert leaves behind. All of its
// buffers belong to scope and go away together.
type planeSet struct {
	scope *buffer.Scope
	lab   planar.Triple

	// alpha is the source alpha channel, nil for opaque formats.
	alpha *buffer.Buffer

	// original holds unrotated copies of lab.A and lab.B in absolute mode.
	original [2]*buffer.Buffer
}

func (ps *planeSet) chroma() [2]*buffer.Buffer {
	return [2]*buffer.Buffer{ps.lab.A, ps.lab.B}
}

func (ps *planeSet) release() {
	ps.scope.Close()
}

// planesOf returns the plane set held by st, or nil when st is empty.
func planesOf(st state) (*planeSet, float64) {
	switch s := st.(type) {
	case labDecomposed:
		return s.set, 0
	case hueApplied:
		return s.set, s.angle
	default:
		return nil, 0
	}
}
