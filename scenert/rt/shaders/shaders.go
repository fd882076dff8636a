package shaders

import (
	_ "embed"
)

//go:embed scene.vert.glsl
var SceneVertexGLSL string

//go:embed scene.frag.glsl
var SceneFragmentGLSL string

//go:embed scene.wgsl
var SceneWGSL string
