// Package game ties the scenes, the renderer and the sound together. It does
// not own the window: the desktop and keyboard-only clients create one and
// drive Frame from their own loops.
package game

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roadloop/internal/assets"
	"github.com/Faultbox/roadloop/internal/config"
	"github.com/Faultbox/roadloop/internal/engine/audio"
	"github.com/Faultbox/roadloop/internal/engine/camera"
	"github.com/Faultbox/roadloop/internal/engine/debug"
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/scene"
	"github.com/Faultbox/roadloop/internal/game/states"
	"github.com/Faultbox/roadloop/internal/logger"
	"github.com/Faultbox/roadloop/pkg/math"
)

// maxFrameTime caps dt after a stall (window drag, breakpoint) so the car
// does not jump.
const maxFrameTime = 0.25

// Frontend describes what the hosting client provides.
type Frontend struct {
	// Keys is fed by the client. Nil allocates a fresh state.
	Keys     *input.Keys
	Bindings input.Bindings
	// Offscreen renders the scene into a texture for the UI to show.
	Offscreen bool
	Pointer   states.Pointer
	MouseLook func(enabled bool)
}

// Game is the main game instance.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	keys     *input.Keys
	controls *input.Controls

	assets      *assets.Manager
	scene       *scene.Scene
	camera      *camera.FlyCamera
	audio       *audio.Manager
	screenshots *debug.ScreenshotCapture

	states *states.Manager
	intro  *states.IntroState
	road   *states.RoadState

	quit      bool
	lastTime  time.Time
	frameTime float64
}

// New loads every model, then creates the renderer. A GL context must be
// current. Model failures wrap model.ErrMeshLoad.
func New(cfg *config.Config, fe Frontend) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		log:    logger.Named("game"),
		keys:   fe.Keys,
		assets: assets.NewManager(cfg.Scene.ModelsDir),
		camera: CameraFromConfig(cfg.Camera),
	}
	if g.keys == nil {
		g.keys = &input.Keys{}
	}
	g.controls = input.NewControls(g.keys, fe.Bindings)

	format, err := debug.ParseFormat(cfg.Screenshot.Format)
	if err != nil {
		return nil, err
	}
	g.screenshots = debug.NewScreenshotCapture(cfg.Screenshot.Dir, "roadloop", format)

	if cfg.Audio.Enabled {
		g.audio = newAudio(cfg.Audio, g.log)
	}

	ctx := &states.Context{
		Assets:    g.assets,
		Camera:    g.camera,
		Controls:  g.controls,
		Pointer:   fe.Pointer,
		Audio:     g.audio,
		MouseLook: fe.MouseLook,
	}
	g.intro = states.NewIntroState(ctx)
	g.road = states.NewRoadState(ctx, RoadConfig(cfg.Scene))

	// Models are read once, before any window content appears.
	start := time.Now()
	if _, err := g.assets.LoadAll(g.road.Models()); err != nil {
		g.closeAudio()
		return nil, err
	}
	g.log.Info("models loaded",
		zap.String("dir", g.assets.Dir()),
		zap.Int("count", len(g.road.Models())),
		zap.Duration("took", time.Since(start)))

	g.scene, err = scene.New(SceneConfig(cfg.Graphics, fe.Offscreen))
	if err != nil {
		g.closeAudio()
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	ctx.Scene = g.scene

	g.states = states.NewManager(g.intro, g.road)
	if err := g.states.Select(cfg.StartIndex()); err != nil {
		g.Close()
		return nil, err
	}

	g.log.Info("game initialized", zap.String("start_scene", cfg.Scene.StartScene))
	return g, nil
}

func newAudio(cfg config.AudioConfig, log *zap.Logger) *audio.Manager {
	m := audio.New(cfg.Volume)
	m.SetMuted(cfg.Muted)
	if err := m.Init(); err != nil {
		// Clicks become no-ops; the demo runs silent.
		log.Warn("audio unavailable", zap.Error(err))
		return m
	}
	if cfg.ClickSample != "" {
		data, err := os.ReadFile(cfg.ClickSample)
		if err == nil {
			err = m.LoadClickWAV(data)
		}
		if err != nil {
			log.Warn("click sample ignored", zap.String("path", cfg.ClickSample), zap.Error(err))
		}
	}
	return m
}

// SceneConfig converts the graphics settings.
func SceneConfig(g config.GraphicsConfig, offscreen bool) scene.Config {
	return scene.Config{
		Width:      int32(g.Width),
		Height:     int32(g.Height),
		FOVDegrees: g.FOVDegrees,
		Near:       g.Near,
		Far:        g.Far,
		ClearColor: math.Vec3{X: g.ClearColor[0], Y: g.ClearColor[1], Z: g.ClearColor[2]},
		Offscreen:  offscreen,
	}
}

// CameraFromConfig builds the fly camera at its configured start pose.
func CameraFromConfig(c config.CameraConfig) *camera.FlyCamera {
	cam := camera.NewFlyCamera()
	cam.Position = math.Vec3{X: c.Position[0], Y: c.Position[1], Z: c.Position[2]}
	cam.Pitch = math.Radians(c.PitchDegrees)
	cam.Yaw = math.Radians(c.YawDegrees)
	if c.MoveSpeed > 0 {
		cam.MoveSpeed = c.MoveSpeed
	}
	if c.LookSpeed > 0 {
		cam.LookSpeed = c.LookSpeed
	}
	if c.MouseSensitivity > 0 {
		cam.MouseSensitivity = c.MouseSensitivity
	}
	return cam
}

// RoadConfig converts the car spawn settings.
func RoadConfig(s config.SceneConfig) states.RoadStateConfig {
	return states.RoadStateConfig{
		CarPosition: math.Vec3{X: s.CarPosition[0], Y: s.CarPosition[1], Z: s.CarPosition[2]},
		CarHeading:  math.Radians(s.CarHeadingDegrees),
		Autopilot:   s.Autopilot,
	}
}

// SessionOf captures what "Save settings" keeps: the scene, the camera
// pose, the autopilot switch and mute.
func SessionOf(sceneIndex int, cam *camera.FlyCamera, autopilot, muted bool) config.Session {
	return config.Session{
		Scene:              config.SceneName(sceneIndex),
		Autopilot:          autopilot,
		CameraPosition:     [3]float32{cam.Position.X, cam.Position.Y, cam.Position.Z},
		CameraPitchDegrees: math.Degrees(cam.Pitch),
		CameraYawDegrees:   math.Degrees(cam.Yaw),
		Muted:              muted,
	}
}

// Session returns the current session settings.
func (g *Game) Session() config.Session {
	muted := g.cfg.Audio.Muted
	if g.audio != nil {
		muted = g.audio.Muted()
	}
	return SessionOf(g.states.Index(), g.camera, g.road.Autopilot, muted)
}

// SaveSettings writes the current session to path.
func (g *Game) SaveSettings(path string) error {
	if err := config.SaveSession(path, g.Session()); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	g.log.Info("settings saved", zap.String("path", path))
	return nil
}

// Keys returns the key state the frontend feeds.
func (g *Game) Keys() *input.Keys { return g.keys }

// States returns the scene manager.
func (g *Game) States() *states.Manager { return g.states }

// Intro returns the polygon scene.
func (g *Game) Intro() *states.IntroState { return g.intro }

// Road returns the road loop scene.
func (g *Game) Road() *states.RoadState { return g.road }

// Scene returns the renderer.
func (g *Game) Scene() *scene.Scene { return g.scene }

// Assets returns the model manager.
func (g *Game) Assets() *assets.Manager { return g.assets }

// FrameTime returns the last frame's dt in seconds.
func (g *Game) FrameTime() float64 { return g.frameTime }

// ShouldQuit reports whether Quit was pressed.
func (g *Game) ShouldQuit() bool { return g.quit }

// Frame measures dt, matches the render target to the drawable size, then
// updates and draws the current scene.
func (g *Game) Frame(width, height int32) error {
	now := time.Now()
	dt := 0.0
	if !g.lastTime.IsZero() {
		dt = min(now.Sub(g.lastTime).Seconds(), maxFrameTime)
	}
	g.lastTime = now
	g.frameTime = dt

	if width > 0 && height > 0 {
		g.scene.Resize(width, height)
	}
	return g.Step(dt)
}

// Step runs one frame with a fixed dt.
func (g *Game) Step(dt float64) error {
	if g.controls.Pressed(input.Quit) {
		g.quit = true
	}
	if g.controls.Pressed(input.NextScene) {
		g.states.Next()
	}

	if err := g.states.Update(dt); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := g.states.Render(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if g.controls.Pressed(input.Screenshot) {
		g.Screenshot()
	}
	return nil
}

// Screenshot writes the last rendered frame to the screenshot directory.
func (g *Game) Screenshot() {
	pixels, w, h := g.scene.ReadPixels()
	path, err := g.screenshots.CaptureFromPixels(pixels, int(w), int(h))
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the scenes, the renderer and the speaker.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.states != nil {
		if err := g.states.Close(); err != nil {
			g.log.Warn("leaving scene", zap.Error(err))
		}
	}
	if g.scene != nil {
		g.scene.Destroy()
	}
	g.closeAudio()
}

func (g *Game) closeAudio() {
	if g.audio != nil {
		g.audio.Close()
	}
}
