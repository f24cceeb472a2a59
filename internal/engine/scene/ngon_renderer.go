package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/roadloop/internal/engine/scene/shaders"
	"github.com/Faultbox/roadloop/internal/engine/shader"
	"github.com/Faultbox/roadloop/internal/engine/shape"
)

// NgonRenderer draws the intro polygon from dynamic buffers sized for the
// largest polygon. Geometry is regenerated only when the side count changes.
type NgonRenderer struct {
	program    *shader.Program
	vao        uint32
	vbo        uint32
	ebo        uint32
	sides      int
	indexCount int32
}

// NewNgonRenderer compiles the basic program and allocates the buffers.
func NewNgonRenderer() (*NgonRenderer, error) {
	program, err := shader.New(shaders.BasicVertexShader, shaders.BasicFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("basic shader: %w", err)
	}
	nr := &NgonRenderer{program: program}

	vertexSize := int(unsafe.Sizeof(shape.Vertex2D{}))

	gl.GenVertexArrays(1, &nr.vao)
	gl.BindVertexArray(nr.vao)

	gl.GenBuffers(1, &nr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, nr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, (shape.MaxSides+1)*vertexSize, nil, gl.DYNAMIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Color
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 2*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &nr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, nr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, shape.MaxSides*3*4, nil, gl.DYNAMIC_DRAW)

	gl.BindVertexArray(0)
	return nr, nil
}

// Draw renders a polygon with the given number of sides.
func (nr *NgonRenderer) Draw(sides int) {
	sides = shape.ClampSides(sides)

	gl.BindVertexArray(nr.vao)
	if sides != nr.sides {
		vertices, indices := shape.Ngon(sides)
		gl.BindBuffer(gl.ARRAY_BUFFER, nr.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*int(unsafe.Sizeof(vertices[0])), unsafe.Pointer(&vertices[0]))
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*4, unsafe.Pointer(&indices[0]))
		nr.sides = sides
		nr.indexCount = int32(len(indices))
	}

	nr.program.Use()
	gl.DrawElements(gl.TRIANGLES, nr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases the buffers and program.
func (nr *NgonRenderer) Destroy() {
	if nr.vao != 0 {
		gl.DeleteVertexArrays(1, &nr.vao)
	}
	if nr.vbo != 0 {
		gl.DeleteBuffers(1, &nr.vbo)
	}
	if nr.ebo != 0 {
		gl.DeleteBuffers(1, &nr.ebo)
	}
	nr.program.Delete()
}
