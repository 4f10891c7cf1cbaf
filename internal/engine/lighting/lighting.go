// Package lighting provides the ambient and directional lights of the scene.
package lighting

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Config holds light settings. Colors are "#rrggbb" or "#rgb" strings.
type Config struct {
	AmbientColor         string
	AmbientIntensity     float32
	DirectionalColor     string
	DirectionalIntensity float32
	DirectionalPosition  math.Vec3
}

// DefaultConfig returns white ambient light at 1.5 and a white directional
// light at intensity 1 shining from (10, 10, 5).
func DefaultConfig() Config {
	return Config{
		AmbientColor:         "#ffffff",
		AmbientIntensity:     1.5,
		DirectionalColor:     "#ffffff",
		DirectionalIntensity: 1,
		DirectionalPosition:  math.Vec3{X: 10, Y: 10, Z: 5},
	}
}

// Ambient lights every surface equally.
type Ambient struct {
	Color     colorful.Color
	Intensity float32
}

// Radiance returns color * intensity for shader upload.
func (a Ambient) Radiance() [3]float32 {
	return radiance(a.Color, a.Intensity)
}

// Directional is a light infinitely far away in the direction of Position,
// shining toward Target.
type Directional struct {
	Position  math.Vec3
	Target    math.Vec3
	Color     colorful.Color
	Intensity float32
}

// Radiance returns color * intensity for shader upload.
func (d Directional) Radiance() [3]float32 {
	return radiance(d.Color, d.Intensity)
}

// Direction returns the unit vector from the target toward the light.
func (d Directional) Direction() math.Vec3 {
	dir := d.Position.Sub(d.Target)
	if dir.Length() == 0 {
		return math.Vec3{Y: 1}
	}
	return dir.Normalize()
}

// Rig is the fixed pair of scene lights.
type Rig struct {
	Ambient     Ambient
	Directional Directional
}

// NewRig parses cfg into lights.
func NewRig(cfg Config) (Rig, error) {
	ambient, err := ParseColor(cfg.AmbientColor)
	if err != nil {
		return Rig{}, fmt.Errorf("ambient light: %w", err)
	}
	directional, err := ParseColor(cfg.DirectionalColor)
	if err != nil {
		return Rig{}, fmt.Errorf("directional light: %w", err)
	}
	if !validIntensity(cfg.AmbientIntensity) || !validIntensity(cfg.DirectionalIntensity) {
		return Rig{}, fmt.Errorf("light intensity %v/%v must be finite and non-negative", cfg.AmbientIntensity, cfg.DirectionalIntensity)
	}
	if !cfg.DirectionalPosition.IsFinite() {
		return Rig{}, fmt.Errorf("directional light position %v is not finite", cfg.DirectionalPosition)
	}
	return Rig{
		Ambient: Ambient{Color: ambient, Intensity: cfg.AmbientIntensity},
		Directional: Directional{
			Position:  cfg.DirectionalPosition,
			Color:     directional,
			Intensity: cfg.DirectionalIntensity,
		},
	}, nil
}

func validIntensity(v float32) bool {
	return v >= 0 && math.IsFinite(float64(v))
}

// ParseColor parses a hex color string.
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

// RGBA converts a color to floats with the given alpha.
func RGBA(c colorful.Color, alpha float32) [4]float32 {
	c = c.Clamped()
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), alpha}
}

func radiance(c colorful.Color, intensity float32) [3]float32 {
	c = c.Clamped()
	return [3]float32{
		float32(c.R) * intensity,
		float32(c.G) * intensity,
		float32(c.B) * intensity,
	}
}
