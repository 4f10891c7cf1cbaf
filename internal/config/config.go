// Package config handles showcase configuration loading and management.
package config

// Config holds all showcase settings.
type Config struct {
	Window    WindowConfig       `yaml:"window"`
	Scene     SceneConfig        `yaml:"scene"`
	Animation AnimationConfig    `yaml:"animation"`
	Motion    MotionConfig       `yaml:"motion"`
	Lights    LightsConfig       `yaml:"lights"`
	Layout    []BreakpointConfig `yaml:"layout"`
	Assets    AssetsConfig       `yaml:"assets"`
	Logging   LoggingConfig      `yaml:"logging"`
}

// Vec3 is an x, y, z triple written as a YAML flow sequence.
type Vec3 [3]float32

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Background string `yaml:"background"` // hex clear color

	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png or bmp
}

// SceneConfig holds the model path and camera.
type SceneConfig struct {
	Model          string  `yaml:"model"`
	FOV            float32 `yaml:"fov"`
	Near           float32 `yaml:"near"`
	Far            float32 `yaml:"far"`
	CameraPosition Vec3    `yaml:"camera_position,flow"`
	CameraTarget   Vec3    `yaml:"camera_target,flow"`
}

// AnimationConfig selects and paces the playing clip.
type AnimationConfig struct {
	Clip      string  `yaml:"clip"` // index or name; empty means the first clip
	FadeIn    float32 `yaml:"fade_in"`
	TimeScale float32 `yaml:"time_scale"`
	FadeCurve string  `yaml:"fade_curve"`
}

// MotionConfig selects the procedural motion mode.
type MotionConfig struct {
	Mode   string       `yaml:"mode"` // pointer or flight
	Follow FollowConfig `yaml:"follow"`
	Flight FlightConfig `yaml:"flight"`
}

// FollowConfig holds pointer-follow factors.
type FollowConfig struct {
	YawFactor   float32 `yaml:"yaw_factor"`
	PitchFactor float32 `yaml:"pitch_factor"`
	Smoothing   float32 `yaml:"smoothing"`
}

// FlightConfig holds the scripted flight path.
type FlightConfig struct {
	From     Vec3    `yaml:"from,flow"`
	To       Vec3    `yaml:"to,flow"`
	Duration float32 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
}

// LightsConfig holds the ambient and directional lights.
type LightsConfig struct {
	AmbientColor         string  `yaml:"ambient_color"`
	AmbientIntensity     float32 `yaml:"ambient_intensity"`
	DirectionalColor     string  `yaml:"directional_color"`
	DirectionalIntensity float32 `yaml:"directional_intensity"`
	DirectionalPosition  Vec3    `yaml:"directional_position,flow"`
}

// BreakpointConfig places the model for widths below MaxWidth. The last
// entry leaves MaxWidth at 0.
type BreakpointConfig struct {
	Band     string  `yaml:"band"`
	MaxWidth int     `yaml:"max_width,omitempty"`
	Position Vec3    `yaml:"position,flow"`
	Scale    float32 `yaml:"scale"`
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the shipped values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "A Quiet Measure of Days",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Background: "#0b0b12",

			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Scene: SceneConfig{
			Model:          "/phoenix_bird.glb",
			FOV:            75,
			Near:           0.1,
			Far:            1000,
			CameraPosition: Vec3{0, 0, 13},
		},
		Animation: AnimationConfig{
			Clip:      "0",
			FadeIn:    0.5,
			TimeScale: 1.5,
			FadeCurve: "linear",
		},
		Motion: MotionConfig{
			Mode: "pointer",
			Follow: FollowConfig{
				YawFactor:   0.5,
				PitchFactor: 0.3,
				Smoothing:   0.1,
			},
			Flight: FlightConfig{
				From:     Vec3{-15, -1, 0},
				To:       Vec3{15, 1, 0},
				Duration: 5,
				Ease:     "linear",
			},
		},
		Lights: LightsConfig{
			AmbientColor:         "#ffffff",
			AmbientIntensity:     1.5,
			DirectionalColor:     "#ffffff",
			DirectionalIntensity: 1,
			DirectionalPosition:  Vec3{10, 10, 5},
		},
		Layout: []BreakpointConfig{
			{Band: "small", MaxWidth: 768, Position: Vec3{0, -1.5, 0}, Scale: 0.6},
			{Band: "medium", MaxWidth: 1200, Position: Vec3{0, -2, 0}, Scale: 0.8},
			{Band: "large", Position: Vec3{0, -2, 0}, Scale: 1},
		},
		Assets: AssetsConfig{
			Dir: "./public",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
