package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type CameraState struct {
	Position     mgl32.Vec3
	Yaw          float32 // degrees, 0 looks down -Z
	Pitch        float32 // degrees
	Speed        float32
	Sensitivity  float32
	FOV          float32 // degrees, perspective only
	Near         float32
	Far          float32
	Orthographic bool
	OrthoHeight  float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{0, 5, 12},
		Pitch:       -14,
		Speed:       10.0,
		Sensitivity: 0.1,
		FOV:         80,
		Near:        0.1,
		Far:         100,
		OrthoHeight: 20,
	}
}

func (c *CameraState) Forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}.Normalize()
}

func (c *CameraState) Right() mgl32.Vec3 {
	return c.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (c *CameraState) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

func (c *CameraState) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	if c.Orthographic {
		h := c.OrthoHeight / 2
		w := h * aspect
		return mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Look turns the camera by a mouse delta in pixels. Pitch is clamped so the
// view never flips over the vertical.
func (c *CameraState) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}

// Move translates the camera by a direction in camera space
// (x right, y up, z forward) scaled by Speed and dt seconds.
func (c *CameraState) Move(dir mgl32.Vec3, dt float32) {
	if dir.Len() == 0 || dt <= 0 {
		return
	}
	up := mgl32.Vec3{0, 1, 0}
	world := c.Right().Mul(dir.X()).Add(up.Mul(dir.Y())).Add(c.Forward().Mul(dir.Z()))
	c.Position = c.Position.Add(world.Normalize().Mul(c.Speed * dt))
}

// Apply pushes view, projection and eye position for the coming frame.
func (c *CameraState) Apply(shader Shader, names UniformTable, aspect float32) {
	shader.SetMat4(names.Name(UniformView), c.ViewMatrix())
	shader.SetMat4(names.Name(UniformProjection), c.ProjectionMatrix(aspect))
	shader.SetVec3(names.Name(UniformViewPosition), c.Position)
}
