package model

// findKeys locates the keyframes surrounding t in sorted times and returns
// their indices and the blend factor between them. Before the first key it
// clamps to the first, after the last it clamps to the last.
func findKeys(times []float32, t float32, interp Interpolation) (prev, next int, f float32) {
	if len(times) == 0 {
		return -1, -1, 0
	}
	if len(times) == 1 || t <= times[0] {
		return 0, 0, 0
	}

	for i := range times {
		if times[i] > t {
			next = i
			break
		}
		prev = i
		next = i
	}

	// At or past last frame
	if prev == next {
		return prev, prev, 0
	}
	if interp == InterpolateStep {
		return prev, prev, 0
	}

	t0, t1 := times[prev], times[next]
	if t1 != t0 {
		f = (t - t0) / (t1 - t0)
	}
	return prev, next, f
}

// HasAnimation reports whether any clip has at least one channel with more than
// one keyframe. Single-key clips are static poses.
func HasAnimation(clips []*Clip) bool {
	for _, c := range clips {
		if c == nil || c.Duration <= 0 {
			continue
		}
		for i := range c.Channels {
			if len(c.Channels[i].Times) > 1 {
				return true
			}
		}
	}
	return false
}
