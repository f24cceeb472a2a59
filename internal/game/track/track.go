// Package track drives the car around the closed road loop on autopilot.
package track

import (
	gomath "math"

	"github.com/Faultbox/roadloop/internal/game/vehicle"
	"github.com/Faultbox/roadloop/pkg/math"
)

// Loop geometry. The road is a square centered on the origin.
const (
	HalfLength    = 15.0
	SegmentLength = 2 * HalfLength
	Perimeter     = 4 * SegmentLength
)

// Follower tracks the distance traveled along the loop.
type Follower struct {
	Distance float32 // always in [0, Perimeter)
}

// NewFollower returns a follower at the start of the loop.
func NewFollower() *Follower {
	return &Follower{}
}

// Advance moves the follower by speed*dt and wraps the distance.
func (f *Follower) Advance(speed, dt float32) {
	f.Distance = Wrap(f.Distance + speed*dt)
}

// Apply writes the follower's position and heading into the car. It
// replaces any heading change the steering produced this frame.
func (f *Follower) Apply(s *vehicle.State) {
	s.Position, s.Heading = PositionAt(f.Distance)
}

// Step advances by the car's speed and applies the result.
func (f *Follower) Step(s *vehicle.State, dt float32) {
	f.Advance(s.Speed, dt)
	f.Apply(s)
}

// Wrap folds d into [0, Perimeter) with a floored modulo.
func Wrap(d float32) float32 {
	w := float32(gomath.Mod(float64(d), Perimeter))
	if w < 0 {
		w += Perimeter
	}
	// float32 rounding of a tiny negative remainder can land on the period.
	if w >= Perimeter {
		w = 0
	}
	return w
}

// PositionAt returns the point on the loop at distance d and the heading
// of the edge it lies on. Headings snap at the corners and point the car's
// local -X along the direction of travel.
func PositionAt(d float32) (math.Vec3, float32) {
	d = Wrap(d)
	switch {
	case d < SegmentLength:
		return math.Vec3{X: -HalfLength + d, Z: HalfLength}, math.Radians(180)
	case d < 2*SegmentLength:
		d -= SegmentLength
		return math.Vec3{X: HalfLength, Z: HalfLength - d}, math.Radians(-90)
	case d < 3*SegmentLength:
		d -= 2 * SegmentLength
		return math.Vec3{X: HalfLength - d, Z: -HalfLength}, 0
	default:
		d -= 3 * SegmentLength
		return math.Vec3{X: -HalfLength, Z: -HalfLength + d}, math.Radians(90)
	}
}
