package game

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Faultbox/roadloop/internal/config"
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/model"
	"github.com/Faultbox/roadloop/pkg/math"
)

func TestSceneConfig(t *testing.T) {
	g := config.Default().Graphics
	g.ClearColor = [3]float32{0.1, 0.2, 0.3}

	sc := SceneConfig(g, true)
	if sc.Width != 1280 || sc.Height != 720 {
		t.Errorf("size = %dx%d", sc.Width, sc.Height)
	}
	if sc.FOVDegrees != 70 || sc.Near != 0.1 || sc.Far != 300 {
		t.Errorf("projection = %+v", sc)
	}
	if sc.ClearColor != (math.Vec3{X: 0.1, Y: 0.2, Z: 0.3}) {
		t.Errorf("clear color = %+v", sc.ClearColor)
	}
	if !sc.Offscreen {
		t.Error("offscreen flag lost")
	}
}

func TestCameraFromConfig(t *testing.T) {
	c := config.Default().Camera
	cam := CameraFromConfig(c)

	if cam.Position != (math.Vec3{X: 0, Y: 10, Z: 30}) {
		t.Errorf("position = %+v", cam.Position)
	}
	if cam.Pitch != math.Radians(-15) || cam.Yaw != 0 {
		t.Errorf("pitch = %f yaw = %f", cam.Pitch, cam.Yaw)
	}
	if cam.MoveSpeed != 10 || cam.LookSpeed != 1.5 || cam.MouseSensitivity != 0.1 {
		t.Errorf("speeds = %f %f %f", cam.MoveSpeed, cam.LookSpeed, cam.MouseSensitivity)
	}

	// Zero speeds keep the camera's own defaults.
	c.MoveSpeed, c.LookSpeed, c.MouseSensitivity = 0, 0, 0
	cam = CameraFromConfig(c)
	if cam.MoveSpeed != 10 || cam.LookSpeed != 1.5 || cam.MouseSensitivity != 0.1 {
		t.Errorf("zero speeds overrode defaults: %+v", cam)
	}
}

func TestSessionOf(t *testing.T) {
	c := config.Default().Camera
	c.Position = [3]float32{3, 4, 5}
	c.PitchDegrees = -20
	c.YawDegrees = 90
	cam := CameraFromConfig(c)

	s := SessionOf(1, cam, false, true)
	if s.Scene != config.SceneRoad {
		t.Errorf("scene = %q", s.Scene)
	}
	if s.Autopilot || !s.Muted {
		t.Errorf("autopilot = %v muted = %v", s.Autopilot, s.Muted)
	}
	if s.CameraPosition != c.Position {
		t.Errorf("camera position = %v", s.CameraPosition)
	}
	if absDiff(s.CameraPitchDegrees, -20) > 1e-4 || absDiff(s.CameraYawDegrees, 90) > 1e-4 {
		t.Errorf("pitch = %f yaw = %f", s.CameraPitchDegrees, s.CameraYawDegrees)
	}

	// The saved session reloads into the same camera pose.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.SaveSession(path, s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if SessionOf(0, cam, true, false).Scene != config.SceneIntro {
		t.Error("index 0 should map to the intro scene")
	}
}

func absDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestRoadConfig(t *testing.T) {
	s := config.Default().Scene
	rc := RoadConfig(s)

	if rc.CarPosition != (math.Vec3{Z: 15}) {
		t.Errorf("car position = %+v", rc.CarPosition)
	}
	if rc.CarHeading != math.Radians(180) {
		t.Errorf("car heading = %f", rc.CarHeading)
	}
	if !rc.Autopilot {
		t.Error("autopilot off")
	}
}

func TestNew_MissingModels(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.ModelsDir = t.TempDir()
	cfg.Audio.Enabled = false

	g, err := New(cfg, Frontend{Bindings: input.LiteBindings()})
	if g != nil {
		t.Fatal("game created without models")
	}
	if !errors.Is(err, model.ErrMeshLoad) {
		t.Errorf("err = %v, want mesh load failure", err)
	}
}

func TestNew_BadScreenshotFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Screenshot.Format = "tiff"
	cfg.Audio.Enabled = false

	if _, err := New(cfg, Frontend{}); err == nil {
		t.Error("expected error for unsupported screenshot format")
	}
}
