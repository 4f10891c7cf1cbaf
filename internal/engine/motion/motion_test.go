package motion

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/quiet-measure/internal/engine/easing"
	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

const eps = 1e-4

func assertVec3(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestPointerFollowConvergesWithoutOvershoot(t *testing.T) {
	u := NewPointerFollow(DefaultFollowConfig())
	node := model.NewNode("group")
	f := Frame{Delta: 1.0 / 60, Pointer: math.Vec2{X: 1, Y: -1}}

	targetYaw, targetPitch := u.Target(f.Pointer)
	assert.InDelta(t, 0.5, targetYaw, eps)
	assert.InDelta(t, -0.3, targetPitch, eps)

	prevYawGap := targetYaw - node.Euler.Y
	prevPitchGap := node.Euler.X - targetPitch
	for i := 0; i < 200; i++ {
		u.Update(node, f)
		yawGap := targetYaw - node.Euler.Y
		pitchGap := node.Euler.X - targetPitch
		require.GreaterOrEqual(t, yawGap, float32(0), "yaw overshot at frame %d", i)
		require.GreaterOrEqual(t, pitchGap, float32(0), "pitch overshot at frame %d", i)
		require.LessOrEqual(t, yawGap, prevYawGap)
		require.LessOrEqual(t, pitchGap, prevPitchGap)
		prevYawGap, prevPitchGap = yawGap, pitchGap
	}
	assert.InDelta(t, targetYaw, node.Euler.Y, 1e-3)
	assert.InDelta(t, targetPitch, node.Euler.X, 1e-3)
}

func TestPointerFollowFirstStep(t *testing.T) {
	u := NewPointerFollow(DefaultFollowConfig())
	node := model.NewNode("group")

	u.Update(node, Frame{Pointer: math.Vec2{X: 0.5, Y: 0.5}})
	// 0.1 of the way to (0.25 yaw, 0.15 pitch).
	assert.InDelta(t, 0.025, node.Euler.Y, eps)
	assert.InDelta(t, 0.015, node.Euler.X, eps)
}

func TestPointerFollowSanitizesPointer(t *testing.T) {
	u := NewPointerFollow(DefaultFollowConfig())
	yaw, pitch := u.Target(math.Vec2{X: 4, Y: float32(stdmath.NaN())})
	assert.InDelta(t, 0.5, yaw, eps)
	assert.Zero(t, pitch)
}

func TestPointerFollowClampsSmoothing(t *testing.T) {
	u := NewPointerFollow(FollowConfig{YawFactor: 1, PitchFactor: 1, Smoothing: 3})
	node := model.NewNode("group")
	u.Update(node, Frame{Pointer: math.Vec2{X: 1}})
	assert.InDelta(t, 1, node.Euler.Y, eps)
}

func TestUpdatersIgnoreNilNode(t *testing.T) {
	flight, err := NewFlight(DefaultFlightConfig())
	require.NoError(t, err)

	for _, u := range []Updater{NewPointerFollow(DefaultFollowConfig()), flight, Nop{}} {
		assert.NotPanics(t, func() {
			u.Update(nil, Frame{Delta: 0.1, Pointer: math.Vec2{X: 1, Y: 1}})
		})
	}
	assert.Zero(t, flight.Timeline().Time(), "clock waits for a node")
}

func TestFlightPath(t *testing.T) {
	u, err := NewFlight(DefaultFlightConfig())
	require.NoError(t, err)

	assertVec3(t, math.Vec3{X: -15, Y: -1}, u.PositionAt(0))
	assertVec3(t, math.Vec3{X: 15, Y: 1}, u.PositionAt(5))
	assertVec3(t, math.Vec3{X: 0, Y: 0}, u.PositionAt(2.5))
	assertVec3(t, math.Vec3{X: -9, Y: -0.6}, u.PositionAt(1))

	// Linear: equal time steps give equal displacement.
	d1 := u.PositionAt(2).Sub(u.PositionAt(1))
	d2 := u.PositionAt(4).Sub(u.PositionAt(3))
	assertVec3(t, d1, d2)
}

func TestFlightLoopsWithoutGap(t *testing.T) {
	u, err := NewFlight(DefaultFlightConfig())
	require.NoError(t, err)
	node := model.NewNode("group")

	u.Update(node, Frame{Delta: 0})
	assertVec3(t, math.Vec3{X: -15, Y: -1}, node.Translation)
	assert.InDelta(t, stdmath.Pi/2, node.Euler.Y, eps)

	u.Update(node, Frame{Delta: 4.9})
	assert.InDelta(t, 14.4, node.Translation.X, 1e-3)

	// Crossing t = 5 restarts immediately and carries the overshoot.
	u.Update(node, Frame{Delta: 0.2})
	assert.InDelta(t, 0.1, u.Timeline().Time(), eps)
	assert.InDelta(t, -14.4, node.Translation.X, 1e-3)

	u.Timeline().Seek(0)
	u.Update(node, Frame{Delta: 5})
	assert.Zero(t, u.Timeline().Time())
	assertVec3(t, math.Vec3{X: -15, Y: -1}, node.Translation)
}

func TestFlightStop(t *testing.T) {
	u, err := NewFlight(DefaultFlightConfig())
	require.NoError(t, err)
	node := model.NewNode("group")

	u.Update(node, Frame{Delta: 1})
	u.Stop()
	assert.True(t, u.Timeline().Stopped())
	u.Update(node, Frame{Delta: 1})
	assert.InDelta(t, 1, u.Timeline().Time(), eps)
}

func TestFlightEasedCurve(t *testing.T) {
	cfg := DefaultFlightConfig()
	cfg.Ease = "in-quad"
	u, err := NewFlight(cfg)
	require.NoError(t, err)
	// Quarter progress at half time.
	assert.InDelta(t, -7.5, u.PositionAt(2.5).X, eps)
}

func TestNewFlightRejectsBadConfig(t *testing.T) {
	cfg := DefaultFlightConfig()
	cfg.Duration = 0
	_, err := NewFlight(cfg)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	cfg = DefaultFlightConfig()
	cfg.Ease = "wobble"
	_, err = NewFlight(cfg)
	assert.ErrorIs(t, err, easing.ErrUnknownCurve)
}

func TestTimelineIgnoresBadDelta(t *testing.T) {
	tl, err := NewTimeline(5)
	require.NoError(t, err)
	tl.Advance(1)
	for _, dt := range []float64{stdmath.NaN(), stdmath.Inf(1), -2} {
		tl.Advance(float32(dt))
	}
	assert.InDelta(t, 0.2, tl.Progress(), eps)
}

func TestNew(t *testing.T) {
	u, err := New(ModePointer, DefaultFollowConfig(), DefaultFlightConfig())
	require.NoError(t, err)
	assert.IsType(t, &PointerFollow{}, u)

	u, err = New(ModeFlight, DefaultFollowConfig(), DefaultFlightConfig())
	require.NoError(t, err)
	assert.IsType(t, &Flight{}, u)

	_, err = New("orbit", DefaultFollowConfig(), DefaultFlightConfig())
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.False(t, Mode("orbit").Valid())

	bad := DefaultFlightConfig()
	bad.Duration = -1
	u, err = New(ModeFlight, DefaultFollowConfig(), bad)
	assert.Error(t, err)
	assert.Nil(t, u)
}

func TestNonFiniteFollowFactors(t *testing.T) {
	nan := float32(stdmath.NaN())
	inf := float32(stdmath.Inf(1))

	for _, cfg := range []FollowConfig{
		{YawFactor: inf, PitchFactor: 0.3, Smoothing: 0.1},
		{YawFactor: 0.5, PitchFactor: nan, Smoothing: 0.1},
		{YawFactor: 0.5, PitchFactor: 0.3, Smoothing: nan},
	} {
		assert.ErrorIs(t, cfg.Validate(), ErrNonFinite)
		_, err := New(ModePointer, cfg, DefaultFlightConfig())
		assert.ErrorIs(t, err, ErrNonFinite)

		node := model.NewNode("bird")
		NewPointerFollow(cfg).Update(node, Frame{Delta: 0.016, Pointer: math.Vec2{X: 1, Y: 1}})
		assert.True(t, node.Euler.IsFinite(), "euler %v", node.Euler)
	}
	assert.NoError(t, DefaultFollowConfig().Validate())
}

func TestNewFlightRejectsNonFinitePath(t *testing.T) {
	cfg := DefaultFlightConfig()
	cfg.To.X = float32(stdmath.NaN())
	_, err := NewFlight(cfg)
	assert.ErrorIs(t, err, ErrNonFinite)

	cfg = DefaultFlightConfig()
	cfg.From.Y = float32(stdmath.Inf(-1))
	_, err = New(ModeFlight, DefaultFollowConfig(), cfg)
	assert.ErrorIs(t, err, ErrNonFinite)
}
