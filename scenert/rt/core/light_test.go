package core

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightRig_Apply(t *testing.T) {
	rig := &LightRig{}
	require.NoError(t, rig.Add(LightSource{
		Position:          mgl32.Vec3{0, -6, -12},
		AmbientColor:      mgl32.Vec3{0.1, 0.1, 0.1},
		FocalStrength:     0.0001,
		SpecularIntensity: 0.4,
	}))

	shader := newRecordingShader()
	rig.Apply(shader, DefaultUniformTable())

	assert.Equal(t, true, shader.last["bUseLighting"])
	assert.Equal(t, mgl32.Vec3{0, -6, -12}, shader.last["lightSources[0].position"])
	assert.Equal(t, float32(0.4), shader.last["lightSources[0].specularIntensity"])
	assert.Equal(t, mgl32.Vec3{}, shader.last["lightSources[3].position"])
	assert.Equal(t, float32(0), shader.last["lightSources[3].focalStrength"])
	assert.Len(t, shader.calls, 1+6*MaxLights)
}

func TestLightRig_NoLightsDisablesLighting(t *testing.T) {
	shader := newRecordingShader()
	(&LightRig{}).Apply(shader, DefaultUniformTable())
	assert.Equal(t, false, shader.last["bUseLighting"])
}

func TestLightRig_TooMany(t *testing.T) {
	rig := &LightRig{}
	for i := 0; i < MaxLights; i++ {
		require.NoError(t, rig.Add(LightSource{}))
	}
	err := rig.Add(LightSource{})
	assert.True(t, errors.Is(err, ErrTooManyLights))
	assert.Equal(t, MaxLights, rig.Len())
}
