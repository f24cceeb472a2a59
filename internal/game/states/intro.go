package states

import (
	"github.com/Faultbox/roadloop/internal/engine/input"
	"github.com/Faultbox/roadloop/internal/engine/shape"
)

// IntroState draws the rainbow polygon.
type IntroState struct {
	ctx *Context

	// Sides is written by the parameter panel or the keyboard.
	Sides int
}

// NewIntroState creates the intro scene with the smallest polygon.
func NewIntroState(ctx *Context) *IntroState {
	return &IntroState{ctx: ctx, Sides: shape.MinSides}
}

// Name implements State.
func (s *IntroState) Name() string { return "Introduction" }

// Enter implements State.
func (s *IntroState) Enter() error {
	s.Sides = shape.ClampSides(s.Sides)
	return nil
}

// Exit implements State.
func (s *IntroState) Exit() error { return nil }

// Update applies keyboard side changes.
func (s *IntroState) Update(dt float64) error {
	if c := s.ctx.Controls; c != nil {
		if c.Pressed(input.SpeedUp) {
			s.Sides++
		}
		if c.Pressed(input.SpeedDown) {
			s.Sides--
		}
	}
	s.Sides = shape.ClampSides(s.Sides)
	return nil
}

// Render draws the polygon.
func (s *IntroState) Render() error {
	restore := s.ctx.Scene.DrawIntro(s.Sides)
	restore()
	return nil
}
