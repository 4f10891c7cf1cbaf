package motion

import (
	"fmt"

	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// FollowConfig holds the pointer-follow factors.
type FollowConfig struct {
	YawFactor   float32 // radians of yaw at pointer x = 1
	PitchFactor float32 // radians of pitch at pointer y = 1
	Smoothing   float32 // fraction of the remaining distance covered per frame
}

// DefaultFollowConfig returns the shipped factors.
func DefaultFollowConfig() FollowConfig {
	return FollowConfig{
		YawFactor:   0.5,
		PitchFactor: 0.3,
		Smoothing:   0.1,
	}
}

// Validate rejects NaN or infinite factors.
func (c FollowConfig) Validate() error {
	for _, v := range []float32{c.YawFactor, c.PitchFactor, c.Smoothing} {
		if !math.IsFinite(float64(v)) {
			return fmt.Errorf("%w: follow %+v", ErrNonFinite, c)
		}
	}
	return nil
}

// PointerFollow turns a node toward the pointer, closing a fixed fraction of
// the gap every frame. The step does not depend on frame time.
type PointerFollow struct {
	cfg FollowConfig
}

// NewPointerFollow creates a pointer-follow updater. Smoothing is clamped to
// [0,1] so the rotation never overshoots its target; non-finite factors
// become 0 and leave the node still.
func NewPointerFollow(cfg FollowConfig) *PointerFollow {
	cfg.YawFactor = finiteOrZero(cfg.YawFactor)
	cfg.PitchFactor = finiteOrZero(cfg.PitchFactor)
	cfg.Smoothing = math.Clamp(finiteOrZero(cfg.Smoothing), 0, 1)
	return &PointerFollow{cfg: cfg}
}

// Target returns the yaw and pitch the node is easing toward for pointer p.
func (u *PointerFollow) Target(p math.Vec2) (yaw, pitch float32) {
	p = sanitize(p)
	return p.X * u.cfg.YawFactor, p.Y * u.cfg.PitchFactor
}

// Update moves node.Euler one smoothing step toward the pointer target.
func (u *PointerFollow) Update(node *model.Node, f Frame) {
	if node == nil {
		return
	}
	yaw, pitch := u.Target(f.Pointer)
	node.Euler.Y += (yaw - node.Euler.Y) * u.cfg.Smoothing
	node.Euler.X += (pitch - node.Euler.X) * u.cfg.Smoothing
}

func finiteOrZero(v float32) float32 {
	if !math.IsFinite(float64(v)) {
		return 0
	}
	return v
}

// sanitize clamps the pointer into [-1,1] and maps non-finite components to 0.
func sanitize(p math.Vec2) math.Vec2 {
	if !math.IsFinite(float64(p.X)) {
		p.X = 0
	}
	if !math.IsFinite(float64(p.Y)) {
		p.Y = 0
	}
	return p.Clamp(-1, 1)
}
