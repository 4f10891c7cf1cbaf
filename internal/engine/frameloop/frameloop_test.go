package frameloop

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickOrderAndElapsed(t *testing.T) {
	l := New()
	var calls []string
	l.Subscribe(func(dt, elapsed float32) { calls = append(calls, "a") })
	l.Subscribe(func(dt, elapsed float32) { calls = append(calls, "b") })

	var lastElapsed float32
	l.Subscribe(func(dt, elapsed float32) { lastElapsed = elapsed })

	l.Tick(0.5)
	l.Tick(0.25)

	assert.Equal(t, []string{"a", "b", "a", "b"}, calls)
	assert.InDelta(t, 0.75, lastElapsed, 1e-6)
	assert.Equal(t, uint64(2), l.Frames())
}

func TestCancelIsIdempotent(t *testing.T) {
	l := New()
	n := 0
	s := l.Subscribe(func(float32, float32) { n++ })
	other := l.Subscribe(func(float32, float32) {})

	s.Cancel()
	s.Cancel()
	assert.False(t, s.Active())
	assert.True(t, other.Active())
	assert.Equal(t, 1, l.Len())

	l.Tick(0.1)
	assert.Zero(t, n)

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Cancel)
}

func TestCancelDuringTick(t *testing.T) {
	l := New()
	var second *Subscription
	ran := false
	l.Subscribe(func(float32, float32) { second.Cancel() })
	second = l.Subscribe(func(float32, float32) { ran = true })

	l.Tick(0.1)
	assert.False(t, ran, "cancelled before its turn")
}

func TestSubscribeDuringTickRunsNextFrame(t *testing.T) {
	l := New()
	n := 0
	added := false
	l.Subscribe(func(float32, float32) {
		if !added {
			added = true
			l.Subscribe(func(float32, float32) { n++ })
		}
	})

	l.Tick(0.1)
	assert.Zero(t, n)
	l.Tick(0.1)
	assert.Equal(t, 1, n)
}

func TestCloseCancelsEverything(t *testing.T) {
	l := New()
	n := 0
	s := l.Subscribe(func(float32, float32) { n++ })

	l.Close()
	assert.False(t, s.Active())
	l.Tick(0.1)
	assert.Zero(t, n)

	late := l.Subscribe(func(float32, float32) { n++ })
	assert.False(t, late.Active())
	l.Tick(0.1)
	assert.Zero(t, n)
}

func TestTickSanitizesDelta(t *testing.T) {
	l := New()
	var got []float32
	l.Subscribe(func(dt, _ float32) { got = append(got, dt) })

	l.Tick(float32(stdmath.NaN()))
	l.Tick(-1)
	l.Tick(0.016)

	assert.Equal(t, []float32{0, 0, 0.016}, got)
	assert.InDelta(t, 0.016, l.Elapsed(), 1e-6)
}
