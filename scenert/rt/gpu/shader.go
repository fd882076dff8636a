package gpu

import (
	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformRecorder implements core.Shader by writing into a CPU-side block.
// Each draw snapshots the block, so later writes never affect earlier draws.
type UniformRecorder struct {
	layout  UniformLayout
	block   Block
	unit    int32
	log     core.Logger
	unknown map[string]struct{}
}

func NewUniformRecorder(names core.UniformTable, log core.Logger) *UniformRecorder {
	if log == nil {
		log = nopLogger{}
	}
	return &UniformRecorder{
		layout:  NewUniformLayout(names),
		log:     log,
		unknown: make(map[string]struct{}),
	}
}

func (u *UniformRecorder) lookup(name string, kind fieldKind) (field, bool) {
	f, ok := u.layout[name]
	if !ok || f.kind != kind {
		if _, seen := u.unknown[name]; !seen {
			u.unknown[name] = struct{}{}
			u.log.Debugf("uniform %q has no slot in the scene block", name)
		}
		return field{}, false
	}
	return f, true
}

func (u *UniformRecorder) SetMat4(name string, v mgl32.Mat4) {
	if f, ok := u.lookup(name, kindMat4); ok {
		u.block.putFloats(f.offset, v[:])
	}
}

func (u *UniformRecorder) SetVec4(name string, v mgl32.Vec4) {
	if f, ok := u.lookup(name, kindVec4); ok {
		u.block.putFloats(f.offset, v[:])
	}
}

func (u *UniformRecorder) SetVec3(name string, v mgl32.Vec3) {
	if f, ok := u.lookup(name, kindVec3); ok {
		u.block.putFloats(f.offset, v[:])
	}
}

func (u *UniformRecorder) SetVec2(name string, v mgl32.Vec2) {
	if f, ok := u.lookup(name, kindVec2); ok {
		u.block.putFloats(f.offset, v[:])
	}
}

func (u *UniformRecorder) SetFloat(name string, v float32) {
	if f, ok := u.lookup(name, kindFloat); ok {
		u.block.putFloat(f.offset, v)
	}
}

// SetInt only addresses boolean flags; the block has no integer fields.
func (u *UniformRecorder) SetInt(name string, v int32) {
	if f, ok := u.lookup(name, kindBool); ok {
		u.block.putUint(f.offset, uint32(v))
	}
}

func (u *UniformRecorder) SetBool(name string, v bool) {
	if f, ok := u.lookup(name, kindBool); ok {
		var x uint32
		if v {
			x = 1
		}
		u.block.putUint(f.offset, x)
	}
}

func (u *UniformRecorder) SetSampler2D(name string, unit int32) {
	if _, ok := u.lookup(name, kindSampler); ok {
		u.unit = unit
	}
}

// Snapshot returns the current block and the selected texture unit. The
// unit is -1 when the block does not sample a texture.
func (u *UniformRecorder) Snapshot() (Block, int32) {
	if u.block.Uint(offUseTexture) == 0 {
		return u.block, -1
	}
	return u.block, u.unit
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
