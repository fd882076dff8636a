// Package mesh generates the indexed primitive shapes every scene instance
// is drawn with. All shapes wind counter-clockwise seen from outside.
package mesh

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/deskscene/scenert/rt/core"
)

// Segments is the tessellation used around round shapes.
const Segments = 36

// Stacks is the latitude tessellation of the sphere.
const Stacks = 18

type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// VertexStride is the byte size of one Vertex in a vertex buffer.
const VertexStride = 32

type Mesh struct {
	Kind     core.MeshKind
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) add(pos, normal [3]float32, u, v float32) uint32 {
	m.Vertices = append(m.Vertices, Vertex{Position: pos, Normal: normal, UV: [2]float32{u, v}})
	return uint32(len(m.Vertices) - 1)
}

func (m *Mesh) tri(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// quad adds a-b-c-d given counter-clockwise.
func (m *Mesh) quad(a, b, c, d uint32) {
	m.tri(a, b, c)
	m.tri(a, c, d)
}

func Generate(kind core.MeshKind) (*Mesh, error) {
	switch kind {
	case core.MeshPlane:
		return Plane(), nil
	case core.MeshBox:
		return Box(), nil
	case core.MeshCylinder:
		return Cylinder(Segments), nil
	case core.MeshCone:
		return Cone(Segments), nil
	case core.MeshSphere:
		return Sphere(Segments, Stacks), nil
	case core.MeshHalfSphere:
		return HalfSphere(Segments, Stacks/2), nil
	}
	return nil, core.ErrUnknownMesh
}

// Plane spans -1..1 in X and Z at y=0, facing +Y.
func Plane() *Mesh {
	m := &Mesh{Kind: core.MeshPlane}
	up := [3]float32{0, 1, 0}
	a := m.add([3]float32{-1, 0, 1}, up, 0, 0)
	b := m.add([3]float32{1, 0, 1}, up, 1, 0)
	c := m.add([3]float32{1, 0, -1}, up, 1, 1)
	d := m.add([3]float32{-1, 0, -1}, up, 0, 1)
	m.quad(a, b, c, d)
	return m
}

// Box is a unit cube centered on the origin with per-face normals and UVs.
func Box() *Mesh {
	m := &Mesh{Kind: core.MeshBox}
	faces := []struct {
		n, u, v [3]float32
	}{
		{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	}
	for _, f := range faces {
		corner := func(su, sv float32) [3]float32 {
			var p [3]float32
			for i := 0; i < 3; i++ {
				p[i] = 0.5*f.n[i] + 0.5*su*f.u[i] + 0.5*sv*f.v[i]
			}
			return p
		}
		a := m.add(corner(-1, -1), f.n, 0, 0)
		b := m.add(corner(1, -1), f.n, 1, 0)
		c := m.add(corner(1, 1), f.n, 1, 1)
		d := m.add(corner(-1, 1), f.n, 0, 1)
		m.quad(a, b, c, d)
	}
	return m
}

func ring(i, segments int) (float32, float32, float32) {
	u := float32(i) / float32(segments)
	a := u * 2 * math32.Pi
	return math32.Cos(a), math32.Sin(a), u
}

// disc adds a flat cap of radius 1 at height y facing up or down.
func (m *Mesh) disc(y float32, up bool, segments int) {
	n := [3]float32{0, -1, 0}
	if up {
		n = [3]float32{0, 1, 0}
	}
	center := m.add([3]float32{0, y, 0}, n, 0.5, 0.5)
	first := uint32(len(m.Vertices))
	for i := 0; i <= segments; i++ {
		x, z, _ := ring(i, segments)
		m.add([3]float32{x, y, z}, n, 0.5+0.5*x, 0.5-0.5*z)
	}
	for i := 0; i < segments; i++ {
		a, b := first+uint32(i), first+uint32(i+1)
		// Angle grows from +X toward +Z, which is clockwise seen from above.
		if up {
			m.tri(center, b, a)
		} else {
			m.tri(center, a, b)
		}
	}
}

// Cylinder has radius 1 and runs from y=0 to y=1, capped at both ends.
func Cylinder(segments int) *Mesh {
	m := &Mesh{Kind: core.MeshCylinder}
	first := uint32(len(m.Vertices))
	for i := 0; i <= segments; i++ {
		x, z, u := ring(i, segments)
		n := [3]float32{x, 0, z}
		m.add([3]float32{x, 0, z}, n, u, 0)
		m.add([3]float32{x, 1, z}, n, u, 1)
	}
	for i := 0; i < segments; i++ {
		b0 := first + uint32(2*i)
		t0 := b0 + 1
		b1 := b0 + 2
		t1 := b0 + 3
		m.quad(b0, t0, t1, b1)
	}
	m.disc(1, true, segments)
	m.disc(0, false, segments)
	return m
}

// Cone has a base of radius 1 at y=0 and its tip at y=1.
func Cone(segments int) *Mesh {
	m := &Mesh{Kind: core.MeshCone}
	// Slant normal for a 45 degree side.
	k := 1 / math32.Sqrt(2)
	for i := 0; i < segments; i++ {
		x0, z0, u0 := ring(i, segments)
		x1, z1, u1 := ring(i+1, segments)
		xm, zm, _ := ring(2*i+1, 2*segments)
		base0 := m.add([3]float32{x0, 0, z0}, [3]float32{x0 * k, k, z0 * k}, u0, 0)
		base1 := m.add([3]float32{x1, 0, z1}, [3]float32{x1 * k, k, z1 * k}, u1, 0)
		tip := m.add([3]float32{0, 1, 0}, [3]float32{xm * k, k, zm * k}, (u0+u1)/2, 1)
		m.tri(base0, tip, base1)
	}
	m.disc(0, false, segments)
	return m
}

// Sphere has radius 1 and is centered on the origin.
func Sphere(segments, stacks int) *Mesh {
	m := &Mesh{Kind: core.MeshSphere}
	m.latLong(segments, stacks, math32.Pi)
	return m
}

// HalfSphere is the upper hemisphere of the unit sphere closed by a disc at y=0.
func HalfSphere(segments, stacks int) *Mesh {
	m := &Mesh{Kind: core.MeshHalfSphere}
	m.latLong(segments, stacks, math32.Pi/2)
	m.disc(0, false, segments)
	return m
}

// latLong emits a lat-long grid from the north pole down to polar angle maxTheta.
func (m *Mesh) latLong(segments, stacks int, maxTheta float32) {
	first := uint32(len(m.Vertices))
	for j := 0; j <= stacks; j++ {
		v := float32(j) / float32(stacks)
		theta := v * maxTheta
		st, ct := math32.Sin(theta), math32.Cos(theta)
		if j == stacks && maxTheta == math32.Pi/2 {
			// Share y=0 exactly with the closing disc.
			ct = 0
		}
		for i := 0; i <= segments; i++ {
			x, z, u := ring(i, segments)
			p := [3]float32{x * st, ct, z * st}
			m.add(p, p, u, 1-v)
		}
	}
	row := uint32(segments + 1)
	for j := 0; j < stacks; j++ {
		for i := 0; i < segments; i++ {
			a := first + uint32(j)*row + uint32(i)
			b := a + 1
			c := a + row
			d := c + 1
			m.quad(a, b, d, c)
		}
	}
}
