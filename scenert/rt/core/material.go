package core

import "github.com/go-gl/mathgl/mgl32"

type Material struct {
	Tag             string
	AmbientColor    mgl32.Vec3
	AmbientStrength float32
	DiffuseColor    mgl32.Vec3
	SpecularColor   mgl32.Vec3
	Shininess       float32
}

// MaterialLibrary is an append-only list of materials searched in definition order.
type MaterialLibrary struct {
	materials []Material
}

func NewMaterialLibrary() *MaterialLibrary {
	return &MaterialLibrary{}
}

func (l *MaterialLibrary) Define(m Material) {
	l.materials = append(l.materials, m)
}

// Lookup returns the first material defined under tag.
func (l *MaterialLibrary) Lookup(tag string) (Material, bool) {
	for _, m := range l.materials {
		if m.Tag == tag {
			return m, true
		}
	}
	return Material{}, false
}

// Find copies the material for tag into out. On a miss out is left untouched.
func (l *MaterialLibrary) Find(tag string, out *Material) bool {
	m, ok := l.Lookup(tag)
	if ok {
		*out = m
	}
	return ok
}

func (l *MaterialLibrary) Len() int {
	return len(l.materials)
}

func (l *MaterialLibrary) Tags() []string {
	tags := make([]string, len(l.materials))
	for i, m := range l.materials {
		tags[i] = m.Tag
	}
	return tags
}
