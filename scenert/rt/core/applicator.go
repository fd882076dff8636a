package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultFallbackColor is drawn in place of a texture whose tag cannot be resolved.
var DefaultFallbackColor = mgl32.Vec4{1, 0, 1, 1}

// DrawState pushes per-draw shader state. The shader does not snapshot it per
// object, so for every instance the calls must run transform, color or
// texture, UV scale, material, then the draw itself.
type DrawState struct {
	shader    Shader
	names     UniformTable
	textures  *TextureRegistry
	materials *MaterialLibrary
	fallback  mgl32.Vec4
	log       Logger

	scratch  Material
	reported map[string]struct{}
}

func NewDrawState(shader Shader, names UniformTable, textures *TextureRegistry, materials *MaterialLibrary, log Logger) *DrawState {
	return &DrawState{
		shader:    shader,
		names:     names,
		textures:  textures,
		materials: materials,
		fallback:  DefaultFallbackColor,
		log:       orNop(log),
		reported:  make(map[string]struct{}),
	}
}

func (d *DrawState) SetFallbackColor(c mgl32.Vec4) {
	d.fallback = c
}

func (d *DrawState) SetTransform(scale mgl32.Vec3, rotX, rotY, rotZ float32, position mgl32.Vec3) {
	d.shader.SetMat4(d.names.Name(UniformModel), ModelMatrix(scale, rotX, rotY, rotZ, position))
}

func (d *DrawState) SetColor(r, g, b, a float32) {
	d.shader.SetBool(d.names.Name(UniformUseTexture), false)
	d.shader.SetVec4(d.names.Name(UniformObjectColor), mgl32.Vec4{r, g, b, a})
}

// SetTexture selects the texture unit registered under tag. An unknown tag
// is reported once and the object falls back to a flat color instead of
// sampling whatever unit the previous draw selected.
func (d *DrawState) SetTexture(tag string) error {
	slot, ok := d.textures.FindSlot(tag)
	if !ok {
		err := fmt.Errorf("set texture: %w: %q", ErrTextureNotFound, tag)
		d.reportOnce("texture:"+tag, err)
		d.SetColor(d.fallback[0], d.fallback[1], d.fallback[2], d.fallback[3])
		return err
	}
	d.shader.SetBool(d.names.Name(UniformUseTexture), true)
	d.shader.SetSampler2D(d.names.Name(UniformObjectTexture), int32(slot))
	return nil
}

func (d *DrawState) SetUVScale(u, v float32) {
	d.shader.SetVec2(d.names.Name(UniformUVScale), mgl32.Vec2{u, v})
}

// SetMaterial pushes the material defined under tag. With no materials
// defined it does nothing; an unknown tag is reported once and leaves the
// previous material in place.
func (d *DrawState) SetMaterial(tag string) error {
	if d.materials.Len() == 0 {
		return nil
	}
	if !d.materials.Find(tag, &d.scratch) {
		err := fmt.Errorf("set material: %w: %q", ErrMaterialNotFound, tag)
		d.reportOnce("material:"+tag, err)
		return err
	}
	m := d.scratch
	d.shader.SetVec3(d.names.Name(UniformMaterialAmbientColor), m.AmbientColor)
	d.shader.SetFloat(d.names.Name(UniformMaterialAmbientStrength), m.AmbientStrength)
	d.shader.SetVec3(d.names.Name(UniformMaterialDiffuseColor), m.DiffuseColor)
	d.shader.SetVec3(d.names.Name(UniformMaterialSpecularColor), m.SpecularColor)
	d.shader.SetFloat(d.names.Name(UniformMaterialShininess), m.Shininess)
	return nil
}

// ResetReports lets previously reported tags be logged again, e.g. after a
// layout reload.
func (d *DrawState) ResetReports() {
	clear(d.reported)
}

func (d *DrawState) reportOnce(key string, err error) {
	if _, seen := d.reported[key]; seen {
		return
	}
	d.reported[key] = struct{}{}
	d.log.Errorf("%v", err)
}
