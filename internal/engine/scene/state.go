package scene

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a lifecycle call does not fit the
// composer's current state.
var ErrInvalidTransition = errors.New("invalid scene state transition")

// State is the composer lifecycle state.
type State int

const (
	Uninitialized State = iota
	Loading             // asset requested, lights-only frames
	Ready               // load finished; model attached unless it failed
	Disposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// canTransition reports whether from -> to is allowed. Ready may re-enter
// itself when the breakpoint changes; everything else moves forward.
func canTransition(from, to State) bool {
	switch to {
	case Loading:
		return from == Uninitialized
	case Ready:
		return from == Loading || from == Ready
	case Disposed:
		return from != Disposed
	default:
		return false
	}
}
