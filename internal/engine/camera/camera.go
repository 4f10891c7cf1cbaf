// Package camera provides the perspective camera used to frame the model.
package camera

import (
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Config holds the camera settings.
type Config struct {
	FOV      float32 // vertical field of view, degrees
	Near     float32
	Far      float32
	Position math.Vec3
	Target   math.Vec3
}

// DefaultConfig returns a 75 degree camera 13 units back on +Z, looking at
// the origin.
func DefaultConfig() Config {
	return Config{
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Position: math.Vec3{X: 0, Y: 0, Z: 13},
	}
}

// PerspectiveCamera is a fixed camera whose projection follows the viewport
// aspect ratio.
type PerspectiveCamera struct {
	FOV      float32
	Near     float32
	Far      float32
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	aspect     float32
	projection math.Mat4
}

// NewPerspectiveCamera creates a camera with a square aspect until the first
// SetViewport.
func NewPerspectiveCamera(cfg Config) *PerspectiveCamera {
	c := &PerspectiveCamera{
		FOV:      cfg.FOV,
		Near:     cfg.Near,
		Far:      cfg.Far,
		Position: cfg.Position,
		Target:   cfg.Target,
		Up:       math.Vec3{X: 0, Y: 1, Z: 0},
		aspect:   1,
	}
	c.UpdateProjection()
	return c
}

// Aspect returns the current width/height ratio.
func (c *PerspectiveCamera) Aspect() float32 {
	return c.aspect
}

// SetViewport recomputes the aspect ratio and projection for a viewport of
// width x height pixels. Degenerate sizes (a minimized window) are ignored.
func (c *PerspectiveCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.UpdateProjection()
}

// UpdateProjection rebuilds the projection after FOV, Near or Far change.
func (c *PerspectiveCamera) UpdateProjection() {
	c.projection = math.Perspective(math.Radians(c.FOV), c.aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the cached projection.
func (c *PerspectiveCamera) ProjectionMatrix() math.Mat4 {
	return c.projection
}

// ViewMatrix returns the view matrix for this camera.
func (c *PerspectiveCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// ViewProjection returns projection * view.
func (c *PerspectiveCamera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.ViewMatrix())
}
