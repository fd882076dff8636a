package opengl

import (
	"fmt"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/shaders"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer owns the GL scene program. The window's context must be current
// when NewRenderer is called.
type Renderer struct {
	Program  *Program
	textures *Textures
	log      core.Logger
}

func NewRenderer(log core.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}
	if log == nil {
		log = nopLogger{}
	}
	log.Infof("OpenGL %s, GLSL %s, %s",
		gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		gl.GoStr(gl.GetString(gl.RENDERER)))

	var units int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &units)
	if units < core.MaxTextureSlots {
		log.Warnf("driver exposes %d texture units, fewer than %d", units, core.MaxTextureSlots)
	}

	program, err := NewProgram(shaders.SceneVertexGLSL, shaders.SceneFragmentGLSL, log)
	if err != nil {
		return nil, err
	}
	program.Use()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &Renderer{Program: program, textures: NewTextures(), log: log}, nil
}

func (r *Renderer) Shader() core.Shader {
	return r.Program
}

func (r *Renderer) Textures() core.TextureDevice {
	return r.textures
}

func (r *Renderer) NewMeshes() (core.Meshes, error) {
	m, err := NewMeshes()
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Renderer) BeginFrame(width, height int, clearColor mgl32.Vec4) error {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.Program.Use()
	return nil
}

// EndFrame reports the first pending GL error. Presenting is left to the
// window, which swaps buffers.
func (r *Renderer) EndFrame() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("frame: %s", glErrorString(code))
	}
	return nil
}

func (r *Renderer) Close() error {
	r.Program.Delete()
	if n := r.textures.Len(); n > 0 {
		r.log.Warnf("%d textures still alive at renderer shutdown", n)
	}
	return nil
}
