// Package motion applies per-frame procedural transforms to a model node.
package motion

import (
	"errors"
	"fmt"

	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Motion errors.
var (
	ErrUnknownMode = errors.New("unknown motion mode")
	ErrNonFinite   = errors.New("motion setting must be finite")
)

// Frame is the per-tick input to an Updater. Pointer is the snapshot taken at
// the start of the tick, normalized to [-1,1] with +Y up.
type Frame struct {
	Delta   float32 // seconds since the previous tick
	Elapsed float32 // seconds since the loop started
	Pointer math.Vec2
}

// Updater moves a node once per frame. A nil node is a no-op.
type Updater interface {
	Update(node *model.Node, f Frame)
}

// Mode names the active updater.
type Mode string

const (
	ModePointer Mode = "pointer"
	ModeFlight  Mode = "flight"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	return m == ModePointer || m == ModeFlight
}

// Nop is an Updater that does nothing.
type Nop struct{}

func (Nop) Update(*model.Node, Frame) {}

// New builds the updater for mode.
func New(mode Mode, follow FollowConfig, flight FlightConfig) (Updater, error) {
	switch mode {
	case ModePointer:
		if err := follow.Validate(); err != nil {
			return nil, err
		}
		return NewPointerFollow(follow), nil
	case ModeFlight:
		f, err := NewFlight(flight)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
