package app

import "time"

// maxDelta caps the step after a stall (window drag, debugger pause) so
// animation does not jump.
const maxDelta = 0.25

// frameClock measures the time between presented frames.
type frameClock struct {
	last    time.Time
	started bool
}

// Next returns seconds since the previous call. The first call returns 0.
func (c *frameClock) Next(now time.Time) float32 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	switch {
	case dt < 0:
		return 0
	case dt > maxDelta:
		return maxDelta
	}
	return float32(dt)
}

// fpsCounter reports frames per second once a second.
type fpsCounter struct {
	frames int
	since  time.Time
}

// Frame counts one frame and returns the rate when a second has passed.
func (f *fpsCounter) Frame(now time.Time) (fps int, ok bool) {
	if f.since.IsZero() {
		f.since = now
	}
	f.frames++
	if now.Sub(f.since) < time.Second {
		return 0, false
	}
	fps = f.frames
	f.frames = 0
	f.since = now
	return fps, true
}
