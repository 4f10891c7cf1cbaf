// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BirdVertexShader transforms mesh vertices into clip space.
//
//go:embed bird.vert
var BirdVertexShader string

// BirdFragmentShader shades with one ambient and one directional light.
//
//go:embed bird.frag
var BirdFragmentShader string
