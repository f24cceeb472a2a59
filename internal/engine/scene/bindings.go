package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/roadloop/pkg/math"
)

// ErrMissingUniform is returned when a program lacks a uniform the
// renderer uploads.
var ErrMissingUniform = errors.New("missing shader uniform")

// Bindings holds the uniform locations of the transform program. Components
// that draw receive it explicitly at setup.
type Bindings struct {
	MVP      int32
	ColorMod int32
}

// LookupBindings reads the transform program's uniform locations.
func LookupBindings(uniform func(name string) int32) Bindings {
	return Bindings{
		MVP:      uniform("uMVP"),
		ColorMod: uniform("uColorMod"),
	}
}

// Validate reports uniforms the program does not expose. GL returns -1 for
// a name it does not know, including uniforms the compiler optimized out.
func (b Bindings) Validate() error {
	if b.MVP < 0 {
		return fmt.Errorf("%w: uMVP", ErrMissingUniform)
	}
	if b.ColorMod < 0 {
		return fmt.Errorf("%w: uColorMod", ErrMissingUniform)
	}
	return nil
}

// unsetColor is never a valid color, so the first Set always uploads.
var unsetColor = math.Vec3{X: -1, Y: -1, Z: -1}

// ColorCache remembers the last color modifier sent to the GPU.
type ColorCache struct {
	last    math.Vec3
	uploads int
}

// NewColorCache returns a cache that has not seen any color yet.
func NewColorCache() *ColorCache {
	return &ColorCache{last: unsetColor}
}

// Set records c and reports whether it differs from the previous value,
// i.e. whether the uniform must be uploaded.
func (c *ColorCache) Set(color math.Vec3) bool {
	if color == c.last {
		return false
	}
	c.last = color
	c.uploads++
	return true
}

// Reset forgets the last color. Call it whenever the program is rebound.
func (c *ColorCache) Reset() {
	c.last = unsetColor
}

// Uploads returns how many times Set asked for an upload.
func (c *ColorCache) Uploads() int {
	return c.uploads
}
