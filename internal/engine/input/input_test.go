package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/quiet-measure/pkg/math"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		x, y float32
		want math.Vec2
	}{
		{"center", 400, 300, math.Vec2{}},
		{"top left", 0, 0, math.Vec2{X: -1, Y: 1}},
		{"bottom right", 800, 600, math.Vec2{X: 1, Y: -1}},
		{"outside clamps", -100, 900, math.Vec2{X: -1, Y: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.x, tt.y, 800, 600)
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
		})
	}

	assert.Equal(t, math.Vec2{}, Normalize(10, 10, 0, 600))
}

func TestPointerFollowsEventsInOrder(t *testing.T) {
	in := New(800, 600)
	assert.Equal(t, math.Vec2{}, in.Pointer())

	in.handle(&sdl.MouseMotionEvent{X: 800, Y: 0})
	in.handle(&sdl.MouseMotionEvent{X: 600, Y: 450})

	assert.InDelta(t, 0.5, in.Pointer().X, 1e-6)
	assert.InDelta(t, -0.5, in.Pointer().Y, 1e-6)
	assert.Len(t, in.Events(), 2)
}

func TestResizeRenormalizes(t *testing.T) {
	in := New(800, 600)
	in.handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1600, Data2: 1200})
	in.Move(1600, 600)

	assert.InDelta(t, 1, in.Pointer().X, 1e-6)
	assert.InDelta(t, 0, in.Pointer().Y, 1e-6)
	assert.Equal(t, EventWindowResize, in.Events()[0].Type)
}

func TestTouch(t *testing.T) {
	in := New(800, 600)
	in.handle(&sdl.TouchFingerEvent{Type: sdl.FINGERMOTION, X: 0.75, Y: 0.25})
	assert.InDelta(t, 0.5, in.Pointer().X, 1e-6)
	assert.InDelta(t, 0.5, in.Pointer().Y, 1e-6)
}

func TestQuitAndEscape(t *testing.T) {
	in := New(800, 600)
	assert.True(t, in.handle(&sdl.QuitEvent{}))

	esc := &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_ESCAPE}}
	assert.True(t, in.handle(esc))
	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_ESCAPE))
	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_SPACE))
}
