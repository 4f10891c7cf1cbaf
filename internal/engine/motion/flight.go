package motion

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/quiet-measure/internal/engine/easing"
	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// ErrInvalidDuration is returned for timelines without a positive, finite length.
var ErrInvalidDuration = errors.New("timeline duration must be positive")

// Timeline is a looping clock over [0, Duration). Reaching Duration restarts
// it at 0 in the same step, carrying any overshoot.
type Timeline struct {
	duration float32
	t        float32
	stopped  bool
}

// NewTimeline creates a looping timeline of the given length in seconds.
func NewTimeline(duration float32) (*Timeline, error) {
	if !math.IsFinite(float64(duration)) || duration <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	return &Timeline{duration: duration}, nil
}

// Duration returns the loop length in seconds.
func (tl *Timeline) Duration() float32 {
	return tl.duration
}

// Time returns the position within the loop in seconds.
func (tl *Timeline) Time() float32 {
	return tl.t
}

// Progress returns Time/Duration in [0,1).
func (tl *Timeline) Progress() float32 {
	return tl.t / tl.duration
}

// Advance moves the timeline forward by dt seconds and returns the new
// progress. Stopped timelines and non-finite or negative dt do not move.
func (tl *Timeline) Advance(dt float32) float32 {
	if tl.stopped || !math.IsFinite(float64(dt)) || dt < 0 {
		return tl.Progress()
	}
	tl.t = wrap(tl.t+dt, tl.duration)
	return tl.Progress()
}

// Seek jumps to t seconds, wrapped into the loop.
func (tl *Timeline) Seek(t float32) {
	if math.IsFinite(float64(t)) {
		tl.t = wrap(t, tl.duration)
	}
}

// Stop freezes the timeline.
func (tl *Timeline) Stop() {
	tl.stopped = true
}

// Stopped reports whether Stop was called.
func (tl *Timeline) Stopped() bool {
	return tl.stopped
}

func wrap(t, d float32) float32 {
	w := float32(stdmath.Mod(float64(t), float64(d)))
	if w < 0 {
		w += d
	}
	if w >= d {
		w = 0
	}
	return w
}

// FlightConfig describes the scripted flight path.
type FlightConfig struct {
	From     math.Vec3
	To       math.Vec3
	Duration float32 // seconds per pass
	Yaw      float32 // fixed heading in radians
	Ease     string  // easing curve name, empty for linear
}

// DefaultFlightConfig returns the shipped path: left to right across the
// view in five seconds, heading along +X.
func DefaultFlightConfig() FlightConfig {
	return FlightConfig{
		From:     math.Vec3{X: -15, Y: -1, Z: 0},
		To:       math.Vec3{X: 15, Y: 1, Z: 0},
		Duration: 5,
		Yaw:      stdmath.Pi / 2,
		Ease:     "linear",
	}
}

// Flight moves a node along a straight path on a looping timeline.
type Flight struct {
	cfg      FlightConfig
	curve    easing.Func
	timeline *Timeline
}

// NewFlight validates cfg and creates a flight updater at the start of its path.
func NewFlight(cfg FlightConfig) (*Flight, error) {
	tl, err := NewTimeline(cfg.Duration)
	if err != nil {
		return nil, err
	}
	if !cfg.From.IsFinite() || !cfg.To.IsFinite() || !math.IsFinite(float64(cfg.Yaw)) {
		return nil, fmt.Errorf("%w: flight from %v to %v yaw %v", ErrNonFinite, cfg.From, cfg.To, cfg.Yaw)
	}
	curve, err := easing.Lookup(cfg.Ease)
	if err != nil {
		return nil, err
	}
	return &Flight{cfg: cfg, curve: curve, timeline: tl}, nil
}

// Timeline returns the flight's clock.
func (u *Flight) Timeline() *Timeline {
	return u.timeline
}

// PositionAt returns the position t seconds into a pass. t is clamped to
// [0, Duration], so PositionAt(Duration) is the end of the path.
func (u *Flight) PositionAt(t float32) math.Vec3 {
	p := math.Clamp(t/u.cfg.Duration, 0, 1)
	return u.cfg.From.Lerp(u.cfg.To, float32(u.curve(float64(p))))
}

// Update advances the timeline by f.Delta and places node on the path.
// The clock only runs while there is a node to move.
func (u *Flight) Update(node *model.Node, f Frame) {
	if node == nil {
		return
	}
	u.timeline.Advance(f.Delta)
	node.Translation = u.PositionAt(u.timeline.Time())
	node.Euler.Y = u.cfg.Yaw
}

// Stop freezes the flight timeline.
func (u *Flight) Stop() {
	u.timeline.Stop()
}
