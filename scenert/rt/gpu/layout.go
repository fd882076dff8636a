package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Byte layout of the Uniforms struct in scene.wgsl under WGSL uniform
// address space rules.
const (
	offModel       = 0
	offView        = 64
	offProjection  = 128
	offObjectColor = 192
	offViewPos     = 208
	offUseTexture  = 220
	offUVScale     = 224
	offUseLighting = 232
	offMaterial    = 240
	offLights      = 288

	lightStride = 64

	UniformBlockSize = offLights + core.MaxLights*lightStride

	// UniformStride is the block size rounded up to the dynamic offset
	// alignment every adapter supports.
	UniformStride = (UniformBlockSize + 255) &^ 255
)

type fieldKind uint8

const (
	kindMat4 fieldKind = iota
	kindVec4
	kindVec3
	kindVec2
	kindFloat
	kindBool
	kindSampler
)

type field struct {
	offset uint32
	kind   fieldKind
}

var roleFields = map[core.UniformRole]field{
	core.UniformModel:                   {offModel, kindMat4},
	core.UniformView:                    {offView, kindMat4},
	core.UniformProjection:              {offProjection, kindMat4},
	core.UniformObjectColor:             {offObjectColor, kindVec4},
	core.UniformViewPosition:            {offViewPos, kindVec3},
	core.UniformUseTexture:              {offUseTexture, kindBool},
	core.UniformUVScale:                 {offUVScale, kindVec2},
	core.UniformUseLighting:             {offUseLighting, kindBool},
	core.UniformObjectTexture:           {0, kindSampler},
	core.UniformMaterialAmbientColor:    {offMaterial + 0, kindVec3},
	core.UniformMaterialAmbientStrength: {offMaterial + 12, kindFloat},
	core.UniformMaterialDiffuseColor:    {offMaterial + 16, kindVec3},
	core.UniformMaterialSpecularColor:   {offMaterial + 32, kindVec3},
	core.UniformMaterialShininess:       {offMaterial + 44, kindFloat},
}

// Offsets inside one LightSource element.
var lightFields = map[core.UniformRole]field{
	core.UniformLightPosition:          {0, kindVec3},
	core.UniformLightFocalStrength:     {12, kindFloat},
	core.UniformLightAmbientColor:      {16, kindVec3},
	core.UniformLightSpecularIntensity: {28, kindFloat},
	core.UniformLightDiffuseColor:      {32, kindVec3},
	core.UniformLightSpecularColor:     {48, kindVec3},
}

// UniformLayout resolves uniform names from a core.UniformTable to their
// place in the block.
type UniformLayout map[string]field

func NewUniformLayout(names core.UniformTable) UniformLayout {
	l := make(UniformLayout, len(roleFields)+len(lightFields)*core.MaxLights)
	for role, f := range roleFields {
		l[names.Name(role)] = f
	}
	for role, f := range lightFields {
		for i := 0; i < core.MaxLights; i++ {
			l[names.Light(role, i)] = field{offset: offLights + uint32(i)*lightStride + f.offset, kind: f.kind}
		}
	}
	return l
}

// Block is the CPU copy of one draw's Uniforms struct.
type Block [UniformBlockSize]byte

func (b *Block) putFloat(off uint32, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func (b *Block) putFloats(off uint32, vs []float32) {
	for i, v := range vs {
		b.putFloat(off+uint32(i)*4, v)
	}
}

func (b *Block) putUint(off uint32, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

func (b *Block) Float(off uint32) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func (b *Block) Uint(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func (b *Block) Mat4(off uint32) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = b.Float(off + uint32(i)*4)
	}
	return m
}
