package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Session is the part of a running demo that "Save settings" persists.
type Session struct {
	Scene              string
	Autopilot          bool
	CameraPosition     [3]float32
	CameraPitchDegrees float32
	CameraYawDegrees   float32
	Muted              bool
}

// SceneName returns the config name of the scene selector index i.
func SceneName(i int) string {
	if i == 1 {
		return SceneRoad
	}
	return SceneIntro
}

// SavePath returns where settings are written: the -config file when
// given, else the file Load would find, else config.yaml in ConfigDir.
func SavePath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := findConfigFile(); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SaveSession merges s into the config file at path. Everything else keeps
// the file's value, so command-line overrides never end up on disk.
func SaveSession(path string, s Session) error {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.Scene.StartScene = s.Scene
	cfg.Scene.Autopilot = s.Autopilot
	cfg.Camera.Position = s.CameraPosition
	cfg.Camera.PitchDegrees = s.CameraPitchDegrees
	cfg.Camera.YawDegrees = s.CameraYawDegrees
	cfg.Audio.Muted = s.Muted

	return cfg.SaveTo(path)
}

// SaveTo validates the config and writes it to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
