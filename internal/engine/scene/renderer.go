package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/roadloop/internal/engine/scene/shaders"
	"github.com/Faultbox/roadloop/internal/engine/shader"
	"github.com/Faultbox/roadloop/pkg/math"
)

// Drawable is anything that can issue its own draw call, such as a GPU mesh.
type Drawable interface {
	Draw()
}

// White leaves vertex colors unchanged.
var White = math.Splat(1)

// Renderer draws meshes with the transform program. Each draw uploads the
// MVP matrix and, when it changed, the color modifier.
type Renderer struct {
	program  *shader.Program
	bindings Bindings
	colors   *ColorCache
	projView math.Mat4
}

// NewTransformProgram compiles the program Renderer draws with.
func NewTransformProgram() (*shader.Program, error) {
	program, err := shader.New(shaders.TransformVertexShader, shaders.TransformFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("transform shader: %w", err)
	}
	return program, nil
}

// NewRenderer draws with program, whose uniform locations the caller looked
// up into bindings. The renderer takes ownership of program.
func NewRenderer(program *shader.Program, bindings Bindings) (*Renderer, error) {
	if err := bindings.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		program:  program,
		bindings: bindings,
		colors:   NewColorCache(),
		projView: math.Identity(),
	}, nil
}

// Begin binds the program for a frame drawn with projView.
func (r *Renderer) Begin(projView math.Mat4) {
	r.program.Use()
	r.colors.Reset()
	r.projView = projView
}

// Draw draws d with the given model matrix and color modifier.
func (r *Renderer) Draw(d Drawable, model math.Mat4, color math.Vec3) {
	mvp := r.projView.Mul(model)
	gl.UniformMatrix4fv(r.bindings.MVP, 1, false, mvp.Ptr())
	if r.colors.Set(color) {
		gl.Uniform3f(r.bindings.ColorMod, color.X, color.Y, color.Z)
	}
	d.Draw()
}

// DrawStatic draws d with its own vertex colors.
func (r *Renderer) DrawStatic(d Drawable, model math.Mat4) {
	r.Draw(d, model, White)
}

// DrawNoCull draws d with face culling disabled, for meshes whose faces are
// not consistently wound.
func (r *Renderer) DrawNoCull(d Drawable, model math.Mat4) {
	gl.Disable(gl.CULL_FACE)
	r.DrawStatic(d, model)
	gl.Enable(gl.CULL_FACE)
}

// ColorUploads returns how many color uniform uploads were issued.
func (r *Renderer) ColorUploads() int {
	return r.colors.Uploads()
}

// Destroy releases the program.
func (r *Renderer) Destroy() {
	r.program.Delete()
}
