package model

import (
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Path identifies the node property a channel animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// String returns the glTF name of the path.
func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpolateLinear Interpolation = iota
	InterpolateStep
)

// Channel animates one property of one node. Target indexes Model.Nodes, so
// the clip stays valid for any graph built from the same asset.
type Channel struct {
	Target        int
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Vectors       []math.Vec3 // translation and scale keys
	Rotations     []math.Quat // rotation keys
}

// Clip is a named, time-indexed set of channels. Clips are immutable after
// loading and are shared by reference.
type Clip struct {
	Name     string
	Duration float32 // seconds
	Channels []Channel
}

// SampleVector returns the channel's translation or scale at time t (seconds).
func (ch *Channel) SampleVector(t float32) math.Vec3 {
	prev, next, f := findKeys(ch.Times, t, ch.Interpolation)
	if prev < 0 || prev >= len(ch.Vectors) {
		return math.Vec3{}
	}
	if next >= len(ch.Vectors) {
		next = prev
	}
	return ch.Vectors[prev].Lerp(ch.Vectors[next], f)
}

// SampleRotation returns the channel's rotation at time t (seconds).
func (ch *Channel) SampleRotation(t float32) math.Quat {
	prev, next, f := findKeys(ch.Times, t, ch.Interpolation)
	if prev < 0 || prev >= len(ch.Rotations) {
		return math.QuatIdentity()
	}
	if next >= len(ch.Rotations) {
		next = prev
	}
	return ch.Rotations[prev].Slerp(ch.Rotations[next], f)
}
