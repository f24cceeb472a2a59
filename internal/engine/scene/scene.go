// Package scene renders the 3D road scene and the 2D intro polygon, either
// into an offscreen framebuffer or straight to the window.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/roadloop/internal/engine/framebuffer"
	"github.com/Faultbox/roadloop/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	Width      int32
	Height     int32
	FOVDegrees float32
	Near       float32
	Far        float32
	ClearColor math.Vec3
	// Offscreen renders into a framebuffer whose color texture is shown by
	// the UI. When false the default framebuffer is used.
	Offscreen bool
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:      1280,
		Height:     720,
		FOVDegrees: 70,
		Near:       0.1,
		Far:        300,
		ClearColor: math.Splat(0.5),
		Offscreen:  true,
	}
}

// Scene owns the render target and the renderers drawing into it.
type Scene struct {
	config      Config
	framebuffer *framebuffer.Framebuffer

	Renderer *Renderer
	Ngon     *NgonRenderer
}

// New creates a new scene with the given configuration.
func New(cfg Config) (*Scene, error) {
	s := &Scene{config: cfg}

	var err error
	if cfg.Offscreen {
		s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
		if err != nil {
			return nil, fmt.Errorf("creating framebuffer: %w", err)
		}
	}

	program, err := NewTransformProgram()
	if err != nil {
		s.Destroy()
		return nil, err
	}
	if s.Renderer, err = NewRenderer(program, LookupBindings(program.Uniform)); err != nil {
		program.Delete()
		s.Destroy()
		return nil, err
	}
	if s.Ngon, err = NewNgonRenderer(); err != nil {
		s.Destroy()
		return nil, err
	}

	return s, nil
}

// Projection returns the perspective matrix for the current size.
func (s *Scene) Projection() math.Mat4 {
	aspect := float32(s.config.Width) / float32(max(s.config.Height, 1))
	return math.Perspective(math.Radians(s.config.FOVDegrees), aspect, s.config.Near, s.config.Far)
}

// Begin binds the target, clears it and prepares the renderer for a frame
// seen through view. The returned function restores the previous target.
func (s *Scene) Begin(view math.Mat4) func() {
	restore := func() {}
	if s.framebuffer != nil {
		restore = s.framebuffer.BindWithViewport()
	} else {
		gl.Viewport(0, 0, s.config.Width, s.config.Height)
	}

	c := s.config.ClearColor
	gl.ClearColor(c.X, c.Y, c.Z, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)

	s.Renderer.Begin(s.Projection().Mul(view))
	return restore
}

// DrawIntro clears the target and draws the n-gon.
func (s *Scene) DrawIntro(sides int) func() {
	restore := func() {}
	if s.framebuffer != nil {
		restore = s.framebuffer.BindWithViewport()
	} else {
		gl.Viewport(0, 0, s.config.Width, s.config.Height)
	}

	c := s.config.ClearColor
	gl.ClearColor(c.X, c.Y, c.Z, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	s.Ngon.Draw(sides)
	return restore
}

// Resize updates the scene dimensions.
func (s *Scene) Resize(width, height int32) {
	if width == s.config.Width && height == s.config.Height {
		return
	}
	s.config.Width = width
	s.config.Height = height
	if s.framebuffer != nil {
		s.framebuffer.Resize(width, height)
	}
}

// Size returns the render target size.
func (s *Scene) Size() (width, height int32) {
	return s.config.Width, s.config.Height
}

// ColorTexture returns the rendered color texture, or 0 when drawing to the window.
func (s *Scene) ColorTexture() uint32 {
	if s.framebuffer == nil {
		return 0
	}
	return s.framebuffer.ColorTexture()
}

// ReadPixels returns the bottom-up RGBA pixels of the last frame.
func (s *Scene) ReadPixels() ([]byte, int32, int32) {
	if s.framebuffer != nil {
		w, h := s.framebuffer.Size()
		return s.framebuffer.ReadPixels(), w, h
	}
	w, h := s.config.Width, s.config.Height
	pixels := make([]byte, int(w)*int(h)*4)
	gl.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Destroy releases all resources.
func (s *Scene) Destroy() {
	if s.Renderer != nil {
		s.Renderer.Destroy()
	}
	if s.Ngon != nil {
		s.Ngon.Destroy()
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
	}
}
