package lighting

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/quiet-measure/pkg/math"
)

func TestDefaultRig(t *testing.T) {
	rig, err := NewRig(DefaultConfig())
	if err != nil {
		t.Fatalf("NewRig: %v", err)
	}

	if got := rig.Ambient.Radiance(); got != [3]float32{1.5, 1.5, 1.5} {
		t.Errorf("expected ambient radiance 1.5, got %v", got)
	}
	if got := rig.Directional.Radiance(); got != [3]float32{1, 1, 1} {
		t.Errorf("expected directional radiance 1, got %v", got)
	}

	dir := rig.Directional.Direction()
	l := float32(stdmath.Sqrt(225))
	want := math.Vec3{X: 10 / l, Y: 10 / l, Z: 5 / l}
	if stdmath.Abs(float64(dir.X-want.X)) > 1e-5 || stdmath.Abs(float64(dir.Z-want.Z)) > 1e-5 {
		t.Errorf("expected direction %v, got %v", want, dir)
	}
}

func TestDirectionDegenerate(t *testing.T) {
	d := Directional{Position: math.Vec3{X: 1}, Target: math.Vec3{X: 1}}
	if got := d.Direction(); got != (math.Vec3{Y: 1}) {
		t.Errorf("expected +Y fallback, got %v", got)
	}
}

func TestNewRigRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad ambient color", func(c *Config) { c.AmbientColor = "white" }},
		{"bad directional color", func(c *Config) { c.DirectionalColor = "#12" }},
		{"negative intensity", func(c *Config) { c.AmbientIntensity = -1 }},
		{"nan intensity", func(c *Config) { c.DirectionalIntensity = float32(stdmath.NaN()) }},
		{"infinite intensity", func(c *Config) { c.AmbientIntensity = float32(stdmath.Inf(1)) }},
		{"infinite position", func(c *Config) { c.DirectionalPosition.Z = float32(stdmath.Inf(-1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewRig(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRGBA(t *testing.T) {
	c, err := ParseColor("#f00")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if got := RGBA(c, 0.5); got != [4]float32{1, 0, 0, 0.5} {
		t.Errorf("unexpected rgba %v", got)
	}
}
