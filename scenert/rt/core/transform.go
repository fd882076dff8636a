package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places one scene instance. Rotation holds degrees about X, Y and Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func (t Transform) ObjectToWorld() mgl32.Mat4 {
	return ModelMatrix(t.Scale, t.Rotation.X(), t.Rotation.Y(), t.Rotation.Z(), t.Position)
}

// ModelMatrix composes M = T * Rx * Ry * Rz * S. Scene layouts are authored
// against this exact order.
func ModelMatrix(scale mgl32.Vec3, rotX, rotY, rotZ float32, position mgl32.Vec3) mgl32.Mat4 {
	translate := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(rotX))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(rotY))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(rotZ))
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())

	return translate.Mul4(rx).Mul4(ry).Mul4(rz).Mul4(s)
}
