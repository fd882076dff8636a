package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCamera_ForwardDefaults(t *testing.T) {
	c := &CameraState{}
	f := c.Forward()
	assert.InDelta(t, 0, f.X(), 1e-6)
	assert.InDelta(t, 0, f.Y(), 1e-6)
	assert.InDelta(t, -1, f.Z(), 1e-6)

	r := c.Right()
	assert.InDelta(t, 1, r.X(), 1e-6)
}

func TestCamera_LookClampsPitch(t *testing.T) {
	c := NewCameraState()
	c.Look(0, -100000)
	assert.Equal(t, float32(89), c.Pitch)
	c.Look(0, 100000)
	assert.Equal(t, float32(-89), c.Pitch)
}

func TestCamera_Move(t *testing.T) {
	c := &CameraState{Speed: 2}
	c.Move(mgl32.Vec3{0, 0, 1}, 0.5)
	assert.InDelta(t, -1, c.Position.Z(), 1e-5)

	c.Move(mgl32.Vec3{}, 1)
	assert.InDelta(t, -1, c.Position.Z(), 1e-5)
}

func TestCamera_Apply(t *testing.T) {
	c := NewCameraState()
	shader := newRecordingShader()
	c.Apply(shader, DefaultUniformTable(), 16.0/9.0)

	assert.Equal(t, []string{"view", "projection", "viewPosition"}, shader.names())
	assert.Equal(t, c.Position, shader.last["viewPosition"])
	assert.Equal(t, c.ProjectionMatrix(16.0/9.0), shader.last["projection"])
}

func TestCamera_Orthographic(t *testing.T) {
	c := NewCameraState()
	c.Orthographic = true
	c.OrthoHeight = 10
	p := c.ProjectionMatrix(2)
	assert.Equal(t, mgl32.Ortho(-10, 10, -5, 5, c.Near, c.Far), p)
}
