package deskscene

import (
	"fmt"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/gpu"
	"github.com/gekko3d/deskscene/scenert/rt/opengl"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererName identifies a concrete backend.
type RendererName string

const (
	RendererGL   RendererName = "gl"
	RendererWGPU RendererName = "wgpu"
)

func ParseRendererName(s string) (RendererName, error) {
	switch RendererName(s) {
	case RendererGL, RendererWGPU:
		return RendererName(s), nil
	}
	return "", fmt.Errorf("unknown renderer %q (want %s or %s)", s, RendererGL, RendererWGPU)
}

func (n RendererName) windowAPI() WindowAPI {
	if n == RendererWGPU {
		return WindowNoAPI
	}
	return WindowOpenGL
}

// Backend is what the scene needs from a graphics API: a uniform sink, a
// texture device and a mesh drawer, plus frame bracketing.
type Backend interface {
	Shader() core.Shader
	Textures() core.TextureDevice
	NewMeshes() (core.Meshes, error)
	BeginFrame(width, height int, clearColor mgl32.Vec4) error
	EndFrame() error
	Close() error
}

var (
	_ Backend = (*opengl.Renderer)(nil)
	_ Backend = (*gpu.Renderer)(nil)
)

// openBackend creates the backend for an already created window. GL needs
// the window's context to be current.
func openBackend(name RendererName, ws *WindowState, names core.UniformTable, log Logger) (Backend, error) {
	switch name {
	case RendererGL:
		r, err := opengl.NewRenderer(log)
		if err != nil {
			return nil, err
		}
		return r, nil
	case RendererWGPU:
		r, err := gpu.NewRenderer(ws.Window(), names, log)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown renderer %q", name)
}
