package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights matches the size of the lightSources array in the scene shaders.
const MaxLights = 4

type LightSource struct {
	Position          mgl32.Vec3
	AmbientColor      mgl32.Vec3
	DiffuseColor      mgl32.Vec3
	SpecularColor     mgl32.Vec3
	FocalStrength     float32
	SpecularIntensity float32
}

type LightRig struct {
	lights []LightSource
}

func (r *LightRig) Add(l LightSource) error {
	if len(r.lights) >= MaxLights {
		return fmt.Errorf("add light %d: %w (max %d)", len(r.lights), ErrTooManyLights, MaxLights)
	}
	r.lights = append(r.lights, l)
	return nil
}

func (r *LightRig) Len() int {
	return len(r.lights)
}

// Apply enables custom lighting when at least one light exists and pushes
// every light's fields. Unused light slots are zeroed.
func (r *LightRig) Apply(shader Shader, names UniformTable) {
	shader.SetBool(names.Name(UniformUseLighting), len(r.lights) > 0)
	for i := 0; i < MaxLights; i++ {
		var l LightSource
		if i < len(r.lights) {
			l = r.lights[i]
		}
		shader.SetVec3(names.Light(UniformLightPosition, i), l.Position)
		shader.SetVec3(names.Light(UniformLightAmbientColor, i), l.AmbientColor)
		shader.SetVec3(names.Light(UniformLightDiffuseColor, i), l.DiffuseColor)
		shader.SetVec3(names.Light(UniformLightSpecularColor, i), l.SpecularColor)
		shader.SetFloat(names.Light(UniformLightFocalStrength, i), l.FocalStrength)
		shader.SetFloat(names.Light(UniformLightSpecularIntensity, i), l.SpecularIntensity)
	}
}
