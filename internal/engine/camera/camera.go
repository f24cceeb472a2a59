// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/Faultbox/roadloop/pkg/math"
)

// FlyCamera is a free-flying first-person camera. Pitch and yaw are in
// radians; yaw turns around +Y, pitch around the camera's X axis.
type FlyCamera struct {
	Position math.Vec3
	Pitch    float32
	Yaw      float32

	// Sensitivity
	MoveSpeed        float32 // units per second
	LookSpeed        float32 // radians per second for keyboard look
	MouseSensitivity float32 // radians per pixel per second
}

// NewFlyCamera creates a camera above and behind the track, looking down 15°.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Position:         math.Vec3{X: 0, Y: 10, Z: 30},
		Pitch:            math.Radians(-15),
		MoveSpeed:        10,
		LookSpeed:        1.5,
		MouseSensitivity: 0.1,
	}
}

// ViewMatrix returns RotX(-pitch) * RotY(-yaw) * T(-position).
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.RotateX(-c.Pitch).
		Mul(math.RotateY(-c.Yaw)).
		Mul(math.TranslateVec(c.Position.Negate()))
}

// Forward returns the unit direction the camera looks along.
func (c *FlyCamera) Forward() math.Vec3 {
	orient := math.RotateY(c.Yaw).Mul(math.RotateX(c.Pitch))
	return orient.TransformDirection(math.Vec3{Z: -1})
}

// HandleMovement moves the camera in its yaw frame. forward, right and up
// are direction factors, usually -1, 0 or 1. Pitch does not tilt movement.
func (c *FlyCamera) HandleMovement(forward, right, up, dt float32) {
	local := math.Vec3{X: right, Y: up, Z: -forward}.Scale(c.MoveSpeed)
	offset := math.RotateY(c.Yaw).TransformDirection(local)
	c.Position = c.Position.Add(offset.Scale(dt))
}

// HandleLook turns the camera from keyboard input: up raises the pitch,
// left increases the yaw.
func (c *FlyCamera) HandleLook(up, left, dt float32) {
	c.Pitch += up * c.LookSpeed * dt
	c.Yaw += left * c.LookSpeed * dt
}

// HandleMouse turns the camera from a mouse delta in pixels.
func (c *FlyCamera) HandleMouse(deltaX, deltaY, dt float32) {
	c.Yaw -= deltaX * c.MouseSensitivity * dt
	c.Pitch -= deltaY * c.MouseSensitivity * dt
}
