// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/quiet-measure/pkg/math"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventPointerMove
)

// Event represents a processed input event.
type Event struct {
	Type    EventType
	Key     sdl.Scancode
	Width   int
	Height  int
	Pointer math.Vec2
}

// Input turns SDL events into events and tracks the pointer. It implements
// scene.PointerSource.
type Input struct {
	events        []Event
	pointer       math.Vec2
	width, height int
}

// New creates a new input handler for a window of the given size.
func New(width, height int) *Input {
	return &Input{
		events: make([]Event, 0, 16),
		width:  width,
		height: height,
	}
}

// Normalize maps window coordinates to [-1,1] on both axes with y up, the
// way the cursor is reported to the frame updater.
func Normalize(x, y float32, width, height int) math.Vec2 {
	if width <= 0 || height <= 0 {
		return math.Vec2{}
	}
	p := math.Vec2{
		X: x/float32(width)*2 - 1,
		Y: -(y/float32(height)*2 - 1),
	}
	return p.Clamp(-1, 1)
}

// Update polls SDL events. Pointer updates are applied in arrival order, so
// the frame that follows reads the latest one. Returns true if the
// application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.SetSize(int(e.Data1), int(e.Data2))
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				return true
			}
		}

	case *sdl.MouseMotionEvent:
		i.Move(float32(e.X), float32(e.Y))

	case *sdl.TouchFingerEvent:
		// Finger coordinates are already normalized to [0,1].
		if e.Type == sdl.FINGERMOTION || e.Type == sdl.FINGERDOWN {
			i.setPointer(math.Vec2{X: e.X*2 - 1, Y: -(e.Y*2 - 1)}.Clamp(-1, 1))
		}
	}
	return false
}

// Move records a cursor position in window coordinates.
func (i *Input) Move(x, y float32) {
	i.setPointer(Normalize(x, y, i.width, i.height))
}

func (i *Input) setPointer(p math.Vec2) {
	i.pointer = p
	i.events = append(i.events, Event{Type: EventPointerMove, Pointer: p})
}

// SetSize updates the window size used to normalize cursor positions.
func (i *Input) SetSize(width, height int) {
	if width > 0 && height > 0 {
		i.width, i.height = width, height
	}
}

// Pointer returns the last normalized pointer position. It is centered until
// the first move.
func (i *Input) Pointer() math.Vec2 {
	return i.pointer
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
