// Package vehicle implements the car's per-frame kinematics and the
// hierarchical transforms of its parts.
package vehicle

import (
	gomath "math"

	"github.com/Faultbox/roadloop/pkg/math"
)

// Kinematic constants.
const (
	Wheelbase   = 2.7 // distance between axles, bicycle model
	WheelRadius = 0.2

	BrakingForce          = 4.0  // speed units per second
	LowSpeedThreshold     = 0.1  // speeds below this snap to zero when braking
	BrakeAppliedThreshold = 0.01 // braking only acts above this magnitude
	BlinkerHalfPeriod     = 0.5  // seconds between blinker phase flips
	MaxSteeringDegrees    = 30   // enforced by the controls, not by Update
)

// State is the car's physical and signaling state. Controls write the
// speed, steering and flag fields directly; Update advances the rest.
type State struct {
	Position math.Vec3
	Heading  float32 // yaw around +Y, radians

	Speed         float32 // signed; positive moves along local -X
	SteeringAngle float32 // degrees
	WheelRoll     float32 // radians, kept in (-pi, pi]

	Braking      bool
	Headlight    bool
	LeftBlinker  bool
	RightBlinker bool
	BlinkerOn    bool
	BlinkerTimer float32
}

// New returns a stopped car at position facing heading.
func New(position math.Vec3, heading float32) *State {
	return &State{
		Position:  position,
		Heading:   heading,
		BlinkerOn: true,
	}
}

// Blinking reports whether either blinker is requested.
func (s *State) Blinking() bool {
	return s.LeftBlinker || s.RightBlinker
}

// Update advances the car by dt seconds and reports whether the blinker
// phase flipped during the step. dt <= 0 leaves the state untouched.
func (s *State) Update(dt float32) (flipped bool) {
	if dt <= 0 {
		return false
	}

	s.applyBrakes(dt)

	angularSpeed := s.Speed * sinf(-math.Radians(s.SteeringAngle)) / Wheelbase
	s.Heading += angularSpeed * dt

	// Forward is local -X.
	forward := math.RotateY(s.Heading).TransformDirection(math.Vec3{X: -s.Speed})
	s.Position = s.Position.Add(forward.Scale(dt))

	s.WheelRoll = wrapAngle(s.WheelRoll + s.Speed/(2*gomath.Pi*WheelRadius)*dt)

	return s.updateBlinker(dt)
}

// applyBrakes decelerates toward zero. A step larger than the remaining
// speed overshoots past zero; the next step pulls it back.
func (s *State) applyBrakes(dt float32) {
	if !s.Braking {
		return
	}
	if absf(s.Speed) < LowSpeedThreshold {
		s.Speed = 0
	}
	switch {
	case s.Speed > BrakeAppliedThreshold:
		s.Speed -= BrakingForce * dt
	case s.Speed < -BrakeAppliedThreshold:
		s.Speed += BrakingForce * dt
	}
}

// updateBlinker runs a free-running square wave while a blinker is
// requested. With no request the phase rests at on so the next request
// starts lit.
func (s *State) updateBlinker(dt float32) bool {
	if !s.Blinking() {
		s.BlinkerOn = true
		s.BlinkerTimer = 0
		return false
	}

	flipped := false
	s.BlinkerTimer += dt
	for s.BlinkerTimer >= BlinkerHalfPeriod {
		s.BlinkerTimer -= BlinkerHalfPeriod
		s.BlinkerOn = !s.BlinkerOn
		flipped = !flipped
	}
	return flipped
}

// wrapAngle folds a into (-pi, pi] with a single 2pi correction.
func wrapAngle(a float32) float32 {
	const pi = float32(gomath.Pi)
	if a > pi {
		a -= 2 * pi
	} else if a <= -pi {
		a += 2 * pi
	}
	return a
}

func sinf(x float32) float32 {
	return float32(gomath.Sin(float64(x)))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
