package states

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/roadloop/internal/assets"
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/model"
	"github.com/Faultbox/roadloop/internal/engine/scene"
	"github.com/Faultbox/roadloop/internal/game/track"
	"github.com/Faultbox/roadloop/internal/game/vehicle"
	"github.com/Faultbox/roadloop/internal/game/world"
	"github.com/Faultbox/roadloop/internal/logger"
	"github.com/Faultbox/roadloop/pkg/math"
)

// Car control limits and rates for keyboard driving.
const (
	MaxSpeed     = 10.0 // m/s, either direction
	Acceleration = 4.0  // m/s²
	SteerRate    = 45.0 // degrees per second
)

// RoadStateConfig contains the car's spawn and driving mode.
type RoadStateConfig struct {
	CarPosition math.Vec3
	CarHeading  float32 // radians
	Autopilot   bool
}

// DefaultRoadStateConfig parks the car at the middle of the near edge,
// facing along the loop, with the autopilot on.
func DefaultRoadStateConfig() RoadStateConfig {
	return RoadStateConfig{
		CarPosition: math.Vec3{Z: track.HalfLength},
		CarHeading:  math.Radians(180),
		Autopilot:   true,
	}
}

// gpuMesh is an uploaded mesh.
type gpuMesh interface {
	scene.Drawable
	Delete()
}

// RoadState is the road loop with the car, the fly camera and the static
// scenery.
type RoadState struct {
	ctx    *Context
	config RoadStateConfig
	log    *zap.Logger

	Car       *vehicle.State
	Follower  *track.Follower
	Autopilot bool
	MouseLook bool

	layout *world.Layout
	meshes map[string]gpuMesh
	upload func(*model.Mesh) (gpuMesh, error)
}

// NewRoadState creates the road scene. Meshes are uploaded on Enter.
func NewRoadState(ctx *Context, cfg RoadStateConfig) *RoadState {
	return &RoadState{
		ctx:       ctx,
		config:    cfg,
		log:       logger.Named("road"),
		Car:       vehicle.New(cfg.CarPosition, cfg.CarHeading),
		Follower:  track.NewFollower(),
		Autopilot: cfg.Autopilot,
		layout:    world.Build(),
		meshes:    make(map[string]gpuMesh),
		upload: func(m *model.Mesh) (gpuMesh, error) {
			return model.Upload(m)
		},
	}
}

// Name implements State.
func (s *RoadState) Name() string { return "3D Model & transformation" }

// Models lists every model the scene draws.
func (s *RoadState) Models() []string {
	names := s.layout.Models()
	return append(names, assets.Frame, assets.Wheel, assets.Light, assets.Blinker)
}

// Enter uploads every mesh the scene needs. A missing or malformed model
// fails the whole scene.
func (s *RoadState) Enter() error {
	if s.ctx.Assets == nil {
		return errors.New("no asset manager")
	}

	for _, name := range s.Models() {
		if _, ok := s.meshes[name]; ok {
			continue
		}
		mesh, err := s.ctx.Assets.Mesh(name)
		if err != nil {
			s.release()
			return err
		}
		gpu, err := s.upload(mesh)
		if err != nil {
			s.release()
			return fmt.Errorf("uploading %s: %w", name, err)
		}
		s.meshes[name] = gpu
	}

	s.log.Info("road scene ready",
		zap.Int("meshes", len(s.meshes)),
		zap.Int("instances", len(s.layout.Instances())))
	return nil
}

// Exit releases the GPU meshes.
func (s *RoadState) Exit() error {
	s.setMouseLook(false)
	s.release()
	return nil
}

func (s *RoadState) release() {
	for name, m := range s.meshes {
		m.Delete()
		delete(s.meshes, name)
	}
}

// Update reads the controls, then advances the car and, when engaged, the
// autopilot.
func (s *RoadState) Update(dt float64) error {
	step := float32(dt)

	s.handleCamera(step)
	s.handleCar(step)

	if s.Car.Update(step) && s.ctx.Audio != nil {
		s.ctx.Audio.PlayClick(s.Car.BlinkerOn)
	}
	if s.Autopilot {
		s.Follower.Step(s.Car, step)
	}
	return nil
}

func (s *RoadState) handleCamera(dt float32) {
	c, cam := s.ctx.Controls, s.ctx.Camera
	if c == nil || cam == nil {
		return
	}

	if c.Pressed(input.ToggleMouseLook) {
		s.setMouseLook(!s.MouseLook)
	}

	cam.HandleMovement(
		c.Axis(input.MoveForward, input.MoveBack),
		c.Axis(input.MoveRight, input.MoveLeft),
		c.Axis(input.MoveUp, input.MoveDown),
		dt)
	cam.HandleLook(
		c.Axis(input.LookUp, input.LookDown),
		c.Axis(input.LookLeft, input.LookRight),
		dt)

	if s.MouseLook && s.ctx.Pointer != nil {
		dx, dy := s.ctx.Pointer.MouseDelta()
		cam.HandleMouse(dx, dy, dt)
	}
}

// handleCar applies the keyboard car controls. Limits are enforced here;
// the kinematics take whatever they are given.
func (s *RoadState) handleCar(dt float32) {
	c := s.ctx.Controls
	if c == nil {
		return
	}
	car := s.Car

	car.Speed = clampf(car.Speed+c.Axis(input.SpeedUp, input.SpeedDown)*Acceleration*dt, -MaxSpeed, MaxSpeed)
	car.SteeringAngle = ClampSteering(car.SteeringAngle + c.Axis(input.SteerRight, input.SteerLeft)*SteerRate*dt)

	if c.Pressed(input.ToggleHeadlight) {
		car.Headlight = !car.Headlight
	}
	if c.Pressed(input.ToggleLeftBlinker) {
		car.LeftBlinker = !car.LeftBlinker
	}
	if c.Pressed(input.ToggleRightBlinker) {
		car.RightBlinker = !car.RightBlinker
	}
	if c.Pressed(input.ToggleBrake) {
		car.Braking = !car.Braking
	}
	if c.Pressed(input.ToggleAutopilot) {
		s.Autopilot = !s.Autopilot
	}
}

func (s *RoadState) setMouseLook(enabled bool) {
	if s.MouseLook == enabled {
		return
	}
	s.MouseLook = enabled
	if s.ctx.MouseLook != nil {
		s.ctx.MouseLook(enabled)
	}
}

// Reset puts the car back at its spawn point.
func (s *RoadState) Reset() {
	*s.Car = *vehicle.New(s.config.CarPosition, s.config.CarHeading)
	s.Follower.Distance = 0
	s.Autopilot = s.config.Autopilot
}

// Render draws the scenery, then the car.
func (s *RoadState) Render() error {
	restore := s.ctx.Scene.Begin(s.ctx.Camera.ViewMatrix())
	defer restore()

	r := s.ctx.Scene.Renderer
	for _, inst := range s.layout.Instances() {
		mesh, ok := s.meshes[inst.Model]
		if !ok {
			continue
		}
		if inst.NoCull {
			r.DrawNoCull(mesh, inst.Transform)
		} else {
			r.DrawStatic(mesh, inst.Transform)
		}
	}

	pose := s.Car.Pose()
	for _, part := range pose.Parts() {
		mesh, ok := s.meshes[partModel(part.Kind)]
		if !ok {
			continue
		}
		r.Draw(mesh, part.Model, part.Color)
	}
	return nil
}

func partModel(k vehicle.Kind) string {
	switch k {
	case vehicle.KindFrame:
		return assets.Frame
	case vehicle.KindWheel:
		return assets.Wheel
	case vehicle.KindLight:
		return assets.Light
	case vehicle.KindBlinker:
		return assets.Blinker
	default:
		return ""
	}
}

// ClampSteering limits a steering angle to the car's mechanical range.
func ClampSteering(deg float32) float32 {
	return clampf(deg, -vehicle.MaxSteeringDegrees, vehicle.MaxSteeringDegrees)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
