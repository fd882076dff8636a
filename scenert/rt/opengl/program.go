// Package opengl drives the scene through an OpenGL 4.1 core context. Every
// call must be made on the goroutine that owns the current context.
package opengl

import (
	"fmt"
	"strings"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked vertex+fragment program that implements core.Shader.
// Uniform locations are looked up once per name and cached, including
// misses, which the driver reports as -1 and which GL silently ignores.
type Program struct {
	handle    uint32
	locations map[string]int32
	log       core.Logger
}

func compileShader(src string, typ uint32) (uint32, error) {
	handle := gl.CreateShader(typ)

	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)

		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("compile %s shader: %s", shaderKind(typ), strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

func shaderKind(typ uint32) string {
	switch typ {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%x", typ)
}

func NewProgram(vertexSrc, fragmentSrc string, log core.Logger) (*Program, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)

		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("link program: %s", strings.TrimRight(msg, "\x00"))
	}

	if log == nil {
		log = nopLogger{}
	}
	return &Program{handle: handle, locations: make(map[string]int32), log: log}, nil
}

func (p *Program) Use() {
	gl.UseProgram(p.handle)
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
	if loc < 0 {
		p.log.Debugf("uniform %q is not active in the scene program", name)
	}
	p.locations[name] = loc
	return loc
}

func (p *Program) SetMat4(name string, v mgl32.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &v[0])
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4f(p.location(name), v[0], v[1], v[2], v[3])
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.location(name), v[0], v[1], v[2])
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	gl.Uniform2f(p.location(name), v[0], v[1])
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.location(name), v)
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.location(name), v)
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(p.location(name), i)
}

func (p *Program) SetSampler2D(name string, unit int32) {
	gl.Uniform1i(p.location(name), unit)
}

func (p *Program) Delete() {
	if p.handle == 0 {
		return
	}
	gl.DeleteProgram(p.handle)
	p.handle = 0
	clear(p.locations)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
