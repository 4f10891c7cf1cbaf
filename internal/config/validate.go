package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/quiet-measure/internal/engine/capture"
	"github.com/Faultbox/quiet-measure/internal/engine/easing"
	"github.com/Faultbox/quiet-measure/internal/engine/lighting"
	"github.com/Faultbox/quiet-measure/internal/engine/motion"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := lighting.ParseColor(c.Window.Background); err != nil {
		return invalid("window background: %v", err)
	}
	if _, err := capture.New(c.Window.ScreenshotDir, "", c.Window.ScreenshotFormat); err != nil {
		return invalid("window screenshot_format: %v", err)
	}

	s := c.Scene
	if s.Model == "" {
		return invalid("scene model path is empty")
	}
	if !(s.FOV > 0 && s.FOV < 180) {
		return invalid("scene fov %v must be in (0, 180)", s.FOV)
	}
	if !(s.Near > 0 && s.Far > s.Near) || !math.IsFinite(float64(s.Far)) {
		return invalid("scene clip planes near %v far %v", s.Near, s.Far)
	}
	if !s.CameraPosition.finite() || !s.CameraTarget.finite() {
		return invalid("scene camera position %v target %v", s.CameraPosition, s.CameraTarget)
	}

	a := c.Animation
	if !finiteNonNegative(a.FadeIn) || !finiteNonNegative(a.TimeScale) {
		return invalid("animation fade_in %v time_scale %v", a.FadeIn, a.TimeScale)
	}
	if _, err := easing.Lookup(a.FadeCurve); err != nil {
		return invalid("animation fade_curve: %v", err)
	}

	m := c.Motion
	if !motion.Mode(m.Mode).Valid() {
		return invalid("motion mode %q (want pointer or flight)", m.Mode)
	}
	if !finite(m.Follow.YawFactor) || !finite(m.Follow.PitchFactor) {
		return invalid("motion follow yaw_factor %v pitch_factor %v", m.Follow.YawFactor, m.Follow.PitchFactor)
	}
	if !(m.Follow.Smoothing >= 0 && m.Follow.Smoothing <= 1) {
		return invalid("motion follow smoothing %v must be in [0, 1]", m.Follow.Smoothing)
	}
	if !m.Flight.From.finite() || !m.Flight.To.finite() {
		return invalid("motion flight from %v to %v", m.Flight.From, m.Flight.To)
	}
	if !(m.Flight.Duration > 0) || !math.IsFinite(float64(m.Flight.Duration)) {
		return invalid("motion flight duration %v", m.Flight.Duration)
	}
	if _, err := easing.Lookup(m.Flight.Ease); err != nil {
		return invalid("motion flight ease: %v", err)
	}

	if _, err := lighting.NewRig(c.LightingConfig()); err != nil {
		return invalid("lights: %v", err)
	}
	if err := c.LayoutTable().Validate(); err != nil {
		return invalid("%v", err)
	}
	if c.Assets.Dir == "" {
		return invalid("assets dir is empty")
	}
	return nil
}

func finite(v float32) bool {
	return math.IsFinite(float64(v))
}

func finiteNonNegative(v float32) bool {
	return v >= 0 && finite(v)
}

func (v Vec3) finite() bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
