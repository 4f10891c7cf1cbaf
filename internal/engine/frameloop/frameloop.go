// Package frameloop dispatches the host's per-frame tick to subscribers.
package frameloop

import "github.com/Faultbox/quiet-measure/pkg/math"

// Func is called once per presented frame with the frame's delta and the
// total elapsed time, both in seconds.
type Func func(dt, elapsed float32)

// Subscription is a handle to one registered Func.
type Subscription struct {
	loop *Loop
	fn   Func
	live bool
}

// Cancel removes the subscription. Calling it more than once is harmless.
func (s *Subscription) Cancel() {
	if s == nil || !s.live {
		return
	}
	s.live = false
	s.loop.remove(s)
}

// Active reports whether the subscription still receives ticks.
func (s *Subscription) Active() bool {
	return s != nil && s.live
}

// Loop fans a tick out to subscribers in subscription order. It has no timer
// of its own; the application calls Tick once per swapped frame.
type Loop struct {
	subs    []*Subscription
	elapsed float32
	frames  uint64
	closed  bool
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{}
}

// Subscribe registers fn. Subscribing to a closed loop returns an inactive
// subscription.
func (l *Loop) Subscribe(fn Func) *Subscription {
	s := &Subscription{loop: l, fn: fn}
	if l.closed || fn == nil {
		return s
	}
	s.live = true
	l.subs = append(l.subs, s)
	return s
}

func (l *Loop) remove(s *Subscription) {
	for i, sub := range l.subs {
		if sub == s {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// Tick advances elapsed time and calls every live subscriber. Subscribers
// added during a tick first run on the next one; subscribers cancelled
// during a tick are skipped if they have not run yet. A non-finite or
// negative dt is dispatched as 0.
func (l *Loop) Tick(dt float32) {
	if l.closed {
		return
	}
	if !math.IsFinite(float64(dt)) || dt < 0 {
		dt = 0
	}
	l.elapsed += dt
	l.frames++

	subs := l.subs
	for _, s := range subs {
		if s.live {
			s.fn(dt, l.elapsed)
		}
	}
}

// Elapsed returns the summed tick time in seconds.
func (l *Loop) Elapsed() float32 {
	return l.elapsed
}

// Frames returns the number of ticks dispatched.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Len returns the number of live subscriptions.
func (l *Loop) Len() int {
	return len(l.subs)
}

// Close cancels every subscription and stops dispatching.
func (l *Loop) Close() {
	for _, s := range l.subs {
		s.live = false
	}
	l.subs = nil
	l.closed = true
}
