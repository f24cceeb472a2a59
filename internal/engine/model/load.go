package model

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Faultbox/roadloop/pkg/formats"
)

// ErrMeshLoad matches every failure returned by Load and BuildMesh.
var ErrMeshLoad = errors.New("mesh load failed")

// LoadErrorKind classifies a mesh load failure.
type LoadErrorKind int

const (
	MissingFile LoadErrorKind = iota
	MalformedFile
	MissingProperty
	MalformedFace
)

func (k LoadErrorKind) String() string {
	switch k {
	case MissingFile:
		return "missing file"
	case MalformedFile:
		return "malformed file"
	case MissingProperty:
		return "missing property"
	case MalformedFace:
		return "malformed face"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", int(k))
	}
}

// LoadError describes why a mesh file could not be turned into a mesh.
type LoadError struct {
	Path string
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMeshLoad) match any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrMeshLoad }

// Load reads a PLY file and builds its mesh.
func Load(path string) (*Mesh, error) {
	ply, err := formats.LoadPLY(path)
	if err != nil {
		kind := MalformedFile
		if errors.Is(err, fs.ErrNotExist) {
			kind = MissingFile
		}
		return nil, &LoadError{Path: path, Kind: kind, Err: err}
	}

	mesh, err := BuildMesh(ply)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return mesh, nil
}
