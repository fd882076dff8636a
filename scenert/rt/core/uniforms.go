package core

import (
	"fmt"
	"strings"
)

// UniformRole is a logical shader input. The shader-side name for each role
// comes from a UniformTable so programs with different naming can be driven
// by the same draw code.
type UniformRole uint8

const (
	UniformModel UniformRole = iota
	UniformView
	UniformProjection
	UniformViewPosition
	UniformObjectColor
	UniformObjectTexture
	UniformUseTexture
	UniformUseLighting
	UniformUVScale
	UniformMaterialAmbientColor
	UniformMaterialAmbientStrength
	UniformMaterialDiffuseColor
	UniformMaterialSpecularColor
	UniformMaterialShininess
	// Light roles are templates with a single %d for the light index.
	UniformLightPosition
	UniformLightAmbientColor
	UniformLightDiffuseColor
	UniformLightSpecularColor
	UniformLightFocalStrength
	UniformLightSpecularIntensity

	uniformRoleCount
)

var uniformRoleKeys = [uniformRoleCount]string{
	UniformModel:                   "model",
	UniformView:                    "view",
	UniformProjection:              "projection",
	UniformViewPosition:            "view_position",
	UniformObjectColor:             "object_color",
	UniformObjectTexture:           "object_texture",
	UniformUseTexture:              "use_texture",
	UniformUseLighting:             "use_lighting",
	UniformUVScale:                 "uv_scale",
	UniformMaterialAmbientColor:    "material_ambient_color",
	UniformMaterialAmbientStrength: "material_ambient_strength",
	UniformMaterialDiffuseColor:    "material_diffuse_color",
	UniformMaterialSpecularColor:   "material_specular_color",
	UniformMaterialShininess:       "material_shininess",
	UniformLightPosition:           "light_position",
	UniformLightAmbientColor:       "light_ambient_color",
	UniformLightDiffuseColor:       "light_diffuse_color",
	UniformLightSpecularColor:      "light_specular_color",
	UniformLightFocalStrength:      "light_focal_strength",
	UniformLightSpecularIntensity:  "light_specular_intensity",
}

func (r UniformRole) String() string {
	if r < uniformRoleCount {
		return uniformRoleKeys[r]
	}
	return fmt.Sprintf("UniformRole(%d)", r)
}

func (r UniformRole) isLight() bool {
	return r >= UniformLightPosition && r <= UniformLightSpecularIntensity
}

// ParseUniformRole maps a configuration key such as "object_color" to its role.
func ParseUniformRole(key string) (UniformRole, bool) {
	for i, k := range uniformRoleKeys {
		if k == key {
			return UniformRole(i), true
		}
	}
	return 0, false
}

type UniformTable [uniformRoleCount]string

func DefaultUniformTable() UniformTable {
	return UniformTable{
		UniformModel:                   "model",
		UniformView:                    "view",
		UniformProjection:              "projection",
		UniformViewPosition:            "viewPosition",
		UniformObjectColor:             "objectColor",
		UniformObjectTexture:           "objectTexture",
		UniformUseTexture:              "bUseTexture",
		UniformUseLighting:             "bUseLighting",
		UniformUVScale:                 "UVscale",
		UniformMaterialAmbientColor:    "material.ambientColor",
		UniformMaterialAmbientStrength: "material.ambientStrength",
		UniformMaterialDiffuseColor:    "material.diffuseColor",
		UniformMaterialSpecularColor:   "material.specularColor",
		UniformMaterialShininess:       "material.shininess",
		UniformLightPosition:           "lightSources[%d].position",
		UniformLightAmbientColor:       "lightSources[%d].ambientColor",
		UniformLightDiffuseColor:       "lightSources[%d].diffuseColor",
		UniformLightSpecularColor:      "lightSources[%d].specularColor",
		UniformLightFocalStrength:      "lightSources[%d].focalStrength",
		UniformLightSpecularIntensity:  "lightSources[%d].specularIntensity",
	}
}

func (t UniformTable) Name(r UniformRole) string {
	return t[r]
}

// Light returns the name of a per-light role for light i.
func (t UniformTable) Light(r UniformRole, i int) string {
	return fmt.Sprintf(t[r], i)
}

// WithOverrides returns a copy of t with the given configuration keys replaced.
func (t UniformTable) WithOverrides(overrides map[string]string) (UniformTable, error) {
	out := t
	for key, name := range overrides {
		role, ok := ParseUniformRole(key)
		if !ok {
			return t, fmt.Errorf("unknown uniform role %q", key)
		}
		if name == "" {
			return t, fmt.Errorf("uniform role %q: empty name", key)
		}
		if role.isLight() && strings.Count(name, "%d") != 1 {
			return t, fmt.Errorf("uniform role %q: light name %q needs exactly one %%d", key, name)
		}
		out[role] = name
	}
	return out, nil
}
