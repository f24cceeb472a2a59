// Package config handles loading and managing the demo configuration.
package config

import (
	"fmt"
	"strings"
)

// Start scenes.
const (
	SceneIntro = "intro"
	SceneRoad  = "road"
)

// Config holds all settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Scene      SceneConfig      `yaml:"scene"`
	Camera     CameraConfig     `yaml:"camera"`
	Audio      AudioConfig      `yaml:"audio"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and projection settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FOVDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

// SceneConfig holds where the models live and how the demo starts.
type SceneConfig struct {
	ModelsDir  string `yaml:"models_dir"`
	StartScene string `yaml:"start_scene"` // intro or road
	Autopilot  bool   `yaml:"autopilot"`

	CarPosition       [3]float32 `yaml:"car_position"`
	CarHeadingDegrees float32    `yaml:"car_heading_degrees"`
}

// CameraConfig holds the fly camera's start pose and speeds.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	PitchDegrees     float32    `yaml:"pitch_degrees"`
	YawDegrees       float32    `yaml:"yaw_degrees"`
	MoveSpeed        float32    `yaml:"move_speed"`
	LookSpeed        float32    `yaml:"look_speed"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
	Muted   bool    `yaml:"muted"`
	// ClickSample is an optional WAV file replacing the synthesized
	// blinker click.
	ClickSample string `yaml:"click_sample"`
}

// ScreenshotConfig holds where F12 captures go.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOVDegrees: 70,
			Near:       0.1,
			Far:        300,
			ClearColor: [3]float32{0.5, 0.5, 0.5},
		},
		Scene: SceneConfig{
			ModelsDir:         "models",
			StartScene:        SceneIntro,
			Autopilot:         true,
			CarPosition:       [3]float32{0, 0, 15},
			CarHeadingDegrees: 180,
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 10, 30},
			PitchDegrees:     -15,
			MoveSpeed:        10,
			LookSpeed:        1.5,
			MouseSensitivity: 0.1,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects settings the renderer cannot work with.
func (c *Config) Validate() error {
	g := c.Graphics
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", g.Width, g.Height)
	}
	if g.FOVDegrees <= 0 || g.FOVDegrees >= 180 {
		return fmt.Errorf("graphics: fov_degrees %g out of range (0, 180)", g.FOVDegrees)
	}
	if g.Near <= 0 || g.Far <= g.Near {
		return fmt.Errorf("graphics: need 0 < near < far, got near=%g far=%g", g.Near, g.Far)
	}

	switch strings.ToLower(c.Scene.StartScene) {
	case SceneIntro, SceneRoad:
	default:
		return fmt.Errorf("scene: unknown start_scene %q", c.Scene.StartScene)
	}
	if c.Scene.ModelsDir == "" {
		return fmt.Errorf("scene: models_dir is empty")
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio: volume %g out of range [0, 1]", c.Audio.Volume)
	}

	switch strings.ToLower(c.Screenshot.Format) {
	case "png", "bmp":
	default:
		return fmt.Errorf("screenshot: unknown format %q", c.Screenshot.Format)
	}
	return nil
}

// StartIndex returns the scene selector index of the start scene.
func (c *Config) StartIndex() int {
	if strings.EqualFold(c.Scene.StartScene, SceneRoad) {
		return 1
	}
	return 0
}
