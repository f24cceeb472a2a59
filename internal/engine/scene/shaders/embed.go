// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BasicVertexShader passes 2D positions and vertex colors through unchanged.
//
//go:embed basic.vert
var BasicVertexShader string

// BasicFragmentShader outputs the interpolated vertex color.
//
//go:embed basic.frag
var BasicFragmentShader string

// TransformVertexShader applies uMVP to model-space positions.
//
//go:embed transform.vert
var TransformVertexShader string

// TransformFragmentShader multiplies the vertex color by uColorMod.
//
//go:embed transform.frag
var TransformFragmentShader string
