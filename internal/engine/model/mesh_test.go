package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/roadloop/pkg/formats"
)

const quadPLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 2
property list uchar int vertex_indices
end_header
0 0 0 255 0 0
1 0 0 0 255 0
1 1 0 0 0 255
0 1 -2 51 102 204
3 0 1 2
3 0 2 3
`

func mustParse(t *testing.T, src string) *formats.PLY {
	t.Helper()
	ply, err := formats.ParsePLY([]byte(src))
	if err != nil {
		t.Fatalf("ParsePLY: %v", err)
	}
	return ply
}

func TestBuildMesh(t *testing.T) {
	mesh, err := BuildMesh(mustParse(t, quadPLY))
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}

	if len(mesh.Vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(mesh.Vertices))
	}
	wantIdx := []uint32{0, 1, 2, 0, 2, 3}
	if len(mesh.Indices) != len(wantIdx) {
		t.Fatalf("indices = %v, want %v", mesh.Indices, wantIdx)
	}
	for i := range wantIdx {
		if mesh.Indices[i] != wantIdx[i] {
			t.Errorf("index %d = %d, want %d", i, mesh.Indices[i], wantIdx[i])
		}
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}

	v := mesh.Vertices[3]
	if v.Position != [3]float32{0, 1, -2} {
		t.Errorf("position = %v", v.Position)
	}
	if v.Color != [3]float32{0.2, 0.4, 0.8} {
		t.Errorf("color = %v, want [0.2 0.4 0.8]", v.Color)
	}
	if mesh.Vertices[0].Color != [3]float32{1, 0, 0} {
		t.Errorf("color = %v, want red", mesh.Vertices[0].Color)
	}

	if mesh.Bounds.Min != [3]float32{0, 0, -2} || mesh.Bounds.Max != [3]float32{1, 1, 0} {
		t.Errorf("bounds = %+v", mesh.Bounds)
	}
	if mesh.Bounds.Center() != [3]float32{0.5, 0.5, -1} {
		t.Errorf("center = %v", mesh.Bounds.Center())
	}
}

func TestBuildMesh_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind LoadErrorKind
	}{
		{
			name: "missing color",
			src: `ply
format ascii 1.0
element vertex 1
property float x
property float y
property float z
element face 0
property list uchar int vertex_indices
end_header
0 0 0
`,
			kind: MissingProperty,
		},
		{
			name: "missing faces",
			src: `ply
format ascii 1.0
element vertex 1
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
end_header
0 0 0 1 2 3
`,
			kind: MissingProperty,
		},
		{
			name: "index out of range",
			src: `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 1
property list uchar int vertex_indices
end_header
0 0 0 0 0 0
1 0 0 0 0 0
0 1 0 0 0 0
3 0 1 3
`,
			kind: MalformedFace,
		},
		{
			name: "negative index",
			src: `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 1
property list uchar int vertex_indices
end_header
0 0 0 0 0 0
1 0 0 0 0 0
0 1 0 0 0 0
3 0 -1 2
`,
			kind: MalformedFace,
		},
		{
			name: "quad face",
			src: `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 1
property list uchar int vertex_indices
end_header
0 0 0 0 0 0
1 0 0 0 0 0
1 1 0 0 0 0
0 1 0 0 0 0
4 0 1 2 3
`,
			kind: MalformedFace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildMesh(mustParse(t, tt.src))
			if !errors.Is(err, ErrMeshLoad) {
				t.Fatalf("error %v does not match ErrMeshLoad", err)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not *LoadError", err)
			}
			if le.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", le.Kind, tt.kind)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "quad.ply")
	bad := filepath.Join(dir, "bad.ply")
	if err := os.WriteFile(good, []byte(quadPLY), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("not a ply file"), 0o644); err != nil {
		t.Fatal(err)
	}
	hugeFace := filepath.Join(dir, "huge_face.ply")
	src := strings.Replace(quadPLY, "3 0 2 3", "250 0 2 3", 1)
	if err := os.WriteFile(hugeFace, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := Load(good)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(mesh.Indices) != 6 {
		t.Errorf("indices = %d, want 6", len(mesh.Indices))
	}

	tests := []struct {
		name string
		path string
		kind LoadErrorKind
	}{
		{"missing file", filepath.Join(dir, "nope.ply"), MissingFile},
		{"malformed file", bad, MalformedFile},
		{"face list past end of data", hugeFace, MalformedFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %v is not *LoadError", err)
			}
			if le.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", le.Kind, tt.kind)
			}
			if le.Path != tt.path {
				t.Errorf("path = %q, want %q", le.Path, tt.path)
			}
			if !errors.Is(err, ErrMeshLoad) {
				t.Errorf("error does not match ErrMeshLoad")
			}
		})
	}
}
