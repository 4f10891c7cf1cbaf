package config

import (
	stdmath "math"

	"github.com/Faultbox/quiet-measure/internal/engine/animation"
	"github.com/Faultbox/quiet-measure/internal/engine/camera"
	"github.com/Faultbox/quiet-measure/internal/engine/easing"
	"github.com/Faultbox/quiet-measure/internal/engine/layout"
	"github.com/Faultbox/quiet-measure/internal/engine/lighting"
	"github.com/Faultbox/quiet-measure/internal/engine/motion"
	"github.com/Faultbox/quiet-measure/internal/engine/scene"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

func (v Vec3) vec() math.Vec3 {
	return math.Vec3From([3]float32(v))
}

// CameraConfig returns the camera settings.
func (c *Config) CameraConfig() camera.Config {
	return camera.Config{
		FOV:      c.Scene.FOV,
		Near:     c.Scene.Near,
		Far:      c.Scene.Far,
		Position: c.Scene.CameraPosition.vec(),
		Target:   c.Scene.CameraTarget.vec(),
	}
}

// LightingConfig returns the light settings.
func (c *Config) LightingConfig() lighting.Config {
	return lighting.Config{
		AmbientColor:         c.Lights.AmbientColor,
		AmbientIntensity:     c.Lights.AmbientIntensity,
		DirectionalColor:     c.Lights.DirectionalColor,
		DirectionalIntensity: c.Lights.DirectionalIntensity,
		DirectionalPosition:  c.Lights.DirectionalPosition.vec(),
	}
}

// LayoutTable returns the breakpoint table.
func (c *Config) LayoutTable() layout.Table {
	t := make(layout.Table, 0, len(c.Layout))
	for _, bp := range c.Layout {
		t = append(t, layout.Breakpoint{
			Band:     layout.Band(bp.Band),
			MaxWidth: bp.MaxWidth,
			Placement: layout.Placement{
				Position: bp.Position.vec(),
				Scale:    bp.Scale,
			},
		})
	}
	return t
}

// PlayOptions returns the clip playback options.
func (c *Config) PlayOptions() (animation.PlayOptions, error) {
	curve, err := easing.Lookup(c.Animation.FadeCurve)
	if err != nil {
		return animation.PlayOptions{}, err
	}
	return animation.PlayOptions{
		Policy:    animation.ParsePolicy(c.Animation.Clip),
		FadeIn:    c.Animation.FadeIn,
		TimeScale: c.Animation.TimeScale,
		FadeCurve: curve,
	}, nil
}

// SceneConfig returns the composer settings.
func (c *Config) SceneConfig() (scene.Config, error) {
	play, err := c.PlayOptions()
	if err != nil {
		return scene.Config{}, err
	}
	return scene.Config{
		ModelPath: c.Scene.Model,
		Camera:    c.CameraConfig(),
		Lights:    c.LightingConfig(),
		Layout:    c.LayoutTable(),
		Play:      play,
	}, nil
}

// Updater builds the configured motion updater. Flight always heads along +X.
func (c *Config) Updater() (motion.Updater, error) {
	m := c.Motion
	follow := motion.FollowConfig{
		YawFactor:   m.Follow.YawFactor,
		PitchFactor: m.Follow.PitchFactor,
		Smoothing:   m.Follow.Smoothing,
	}
	flight := motion.FlightConfig{
		From:     m.Flight.From.vec(),
		To:       m.Flight.To.vec(),
		Duration: m.Flight.Duration,
		Yaw:      stdmath.Pi / 2,
		Ease:     m.Flight.Ease,
	}
	return motion.New(motion.Mode(m.Mode), follow, flight)
}
