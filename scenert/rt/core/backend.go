package core

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader is the active shader program. Setters are keyed by uniform name
// and take effect for every draw issued after them.
type Shader interface {
	SetMat4(name string, v mgl32.Mat4)
	SetVec4(name string, v mgl32.Vec4)
	SetVec3(name string, v mgl32.Vec3)
	SetVec2(name string, v mgl32.Vec2)
	SetFloat(name string, v float32)
	SetInt(name string, v int32)
	SetBool(name string, v bool)
	SetSampler2D(name string, unit int32)
}

// Image is a decoded bitmap with tightly packed rows of Channels bytes per pixel.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

type ImageLoader interface {
	Load(path string) (*Image, error)
}

// TextureDevice owns GPU texture objects. Handles are only valid until
// DeleteTexture is called on them.
type TextureDevice interface {
	CreateTexture(img *Image) (TextureHandle, error)
	BindTexture(unit int, h TextureHandle) error
	DeleteTexture(h TextureHandle) error
}

type MeshKind uint8

const (
	MeshPlane MeshKind = iota
	MeshBox
	MeshCylinder
	MeshCone
	MeshSphere
	MeshHalfSphere
)

var meshKindNames = [...]string{
	MeshPlane:      "plane",
	MeshBox:        "box",
	MeshCylinder:   "cylinder",
	MeshCone:       "cone",
	MeshSphere:     "sphere",
	MeshHalfSphere: "half_sphere",
}

// MeshKinds lists every primitive the mesh library can produce.
func MeshKinds() []MeshKind {
	return []MeshKind{MeshPlane, MeshBox, MeshCylinder, MeshCone, MeshSphere, MeshHalfSphere}
}

func (k MeshKind) String() string {
	if int(k) < len(meshKindNames) {
		return meshKindNames[k]
	}
	return fmt.Sprintf("MeshKind(%d)", k)
}

func ParseMeshKind(s string) (MeshKind, error) {
	for i, name := range meshKindNames {
		if name == s {
			return MeshKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMesh, s)
}

// Meshes is a loaded set of primitive meshes. Closing it releases the
// vertex data uploaded at construction.
type Meshes interface {
	DrawMesh(kind MeshKind) error
	io.Closer
}
