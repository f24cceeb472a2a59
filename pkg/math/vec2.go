// Package math provides the vector and matrix types used by the renderer
// and the vehicle simulation.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Polar returns the point at the given radius and angle (radians) from the origin.
func Polar(radius, angle float32) Vec2 {
	return Vec2{
		X: radius * float32(math.Cos(float64(angle))),
		Y: radius * float32(math.Sin(float64(angle))),
	}
}
