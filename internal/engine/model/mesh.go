package model

import (
	"fmt"

	"github.com/Faultbox/roadloop/pkg/formats"
)

// BuildMesh converts a parsed PLY into a mesh. Positions come from the float
// x/y/z vertex properties, colors from uchar red/green/blue divided by 255,
// and every face must be a triangle referencing an existing vertex.
func BuildMesh(ply *formats.PLY) (*Mesh, error) {
	vertex, err := ply.Element("vertex")
	if err != nil {
		return nil, &LoadError{Kind: MissingProperty, Err: err}
	}

	var pos [3][]float32
	for i, name := range [3]string{"x", "y", "z"} {
		if pos[i], err = vertex.Float32Property(name); err != nil {
			return nil, &LoadError{Kind: MissingProperty, Err: err}
		}
	}
	var col [3][]uint8
	for i, name := range [3]string{"red", "green", "blue"} {
		if col[i], err = vertex.Uint8Property(name); err != nil {
			return nil, &LoadError{Kind: MissingProperty, Err: err}
		}
	}

	faces, err := ply.FaceIndices()
	if err != nil {
		return nil, &LoadError{Kind: MissingProperty, Err: err}
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, vertex.Count),
		Indices:  make([]uint32, 0, len(faces)*3),
	}
	for i := range mesh.Vertices {
		mesh.Vertices[i] = Vertex{
			Position: [3]float32{pos[0][i], pos[1][i], pos[2][i]},
			Color: [3]float32{
				float32(col[0][i]) / 255,
				float32(col[1][i]) / 255,
				float32(col[2][i]) / 255,
			},
		}
	}

	for f, face := range faces {
		if len(face) != 3 {
			return nil, &LoadError{Kind: MalformedFace, Err: fmt.Errorf("face %d has %d vertices, want 3", f, len(face))}
		}
		for _, idx := range face {
			if idx < 0 || idx >= int64(len(mesh.Vertices)) {
				return nil, &LoadError{Kind: MalformedFace, Err: fmt.Errorf("face %d references vertex %d of %d", f, idx, len(mesh.Vertices))}
			}
			mesh.Indices = append(mesh.Indices, uint32(idx))
		}
	}

	mesh.Bounds = computeBounds(mesh.Vertices)
	return mesh, nil
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		updateBounds(&b, v.Position)
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
