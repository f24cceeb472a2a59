// plytool is a CLI utility for inspecting and checking the PLY models the
// road scene loads.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/roadloop/internal/assets"
	"github.com/Faultbox/roadloop/internal/engine/model"
	"github.com/Faultbox/roadloop/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "validate", "check":
		err = cmdValidate(os.Stdout, args)
	case "stats":
		err = cmdStats(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`plytool - PLY model utility

Usage:
  plytool <command> [options]

Commands:
  info <file.ply>                    Show header: format, elements, properties
  validate [-scene] <file|dir>...    Build meshes and report load failures
  stats <file.ply>                   Show vertex, triangle and bounds figures

Examples:
  plytool info models/frame.ply
  plytool validate models/wheel.ply models/light.ply
  plytool validate -scene models
  plytool stats models/pine.ply`)
}

func cmdInfo(w io.Writer, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: plytool info <file.ply>")
	}

	ply, err := formats.LoadPLY(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:    %s\n", args[0])
	fmt.Fprintf(w, "Format:  %s %s\n", ply.Format, ply.Version)
	for _, c := range ply.Comments {
		fmt.Fprintf(w, "Comment: %s\n", c)
	}
	for _, o := range ply.ObjInfo {
		fmt.Fprintf(w, "ObjInfo: %s\n", o)
	}
	fmt.Fprintln(w)

	for _, e := range ply.Elements {
		fmt.Fprintf(w, "element %s (%d)\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.IsList {
				fmt.Fprintf(w, "  %-16s list %s %s\n", p.Name, p.CountType, p.Type)
			} else {
				fmt.Fprintf(w, "  %-16s %s\n", p.Name, p.Type)
			}
		}
	}
	return nil
}

// cmdValidate loads every file (or every .ply in each directory) the way
// the scene does. With -scene, directories must also hold every model the
// road scene draws.
func cmdValidate(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	scene := fs.Bool("scene", false, "Require every road scene model in each directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: plytool validate [-scene] <file|dir>...")
	}

	var paths []string
	for _, arg := range fs.Args() {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		mgr := assets.NewManager(arg)
		names, err := mgr.Available()
		if err != nil {
			return err
		}
		if *scene {
			names = assets.SceneModels
		}
		for _, name := range names {
			paths = append(paths, mgr.Path(name))
		}
	}

	failed := 0
	for _, path := range paths {
		mesh, err := model.Load(path)
		if err != nil {
			failed++
			var loadErr *model.LoadError
			if errors.As(err, &loadErr) {
				fmt.Fprintf(w, "FAIL %s: %s: %v\n", path, loadErr.Kind, loadErr.Err)
			} else {
				fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
			}
			continue
		}
		fmt.Fprintf(w, "ok   %s (%d vertices, %d triangles)\n", path, len(mesh.Vertices), mesh.TriangleCount())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d models failed", failed, len(paths))
	}
	return nil
}

func cmdStats(w io.Writer, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: plytool stats <file.ply>")
	}

	mesh, err := model.Load(args[0])
	if err != nil {
		return err
	}

	size, center := mesh.Bounds.Size(), mesh.Bounds.Center()
	fmt.Fprintf(w, "Model:     %s\n", strings.TrimSuffix(filepath.Base(args[0]), ".ply"))
	fmt.Fprintf(w, "Vertices:  %d\n", len(mesh.Vertices))
	fmt.Fprintf(w, "Triangles: %d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Size:      %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
	fmt.Fprintf(w, "Center:    %.3f, %.3f, %.3f\n", center[0], center[1], center[2])

	lo, hi := colorRange(mesh.Vertices)
	fmt.Fprintf(w, "Colors:    (%.2f, %.2f, %.2f) .. (%.2f, %.2f, %.2f)\n",
		lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	return nil
}

// colorRange returns the per-channel minimum and maximum vertex color.
func colorRange(vertices []model.Vertex) (lo, hi [3]float32) {
	if len(vertices) == 0 {
		return lo, hi
	}
	lo, hi = vertices[0].Color, vertices[0].Color
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Color[i])
			hi[i] = max(hi[i], v.Color[i])
		}
	}
	return lo, hi
}
