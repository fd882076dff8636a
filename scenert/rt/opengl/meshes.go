package opengl

import (
	"errors"
	"fmt"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/mesh"
	"github.com/go-gl/gl/v4.1-core/gl"
)

type glMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Meshes holds one vertex array per primitive kind.
type Meshes struct {
	meshes map[core.MeshKind]*glMesh
	closed bool
}

func NewMeshes() (*Meshes, error) {
	m := &Meshes{meshes: make(map[core.MeshKind]*glMesh)}
	for _, kind := range core.MeshKinds() {
		data, err := mesh.Generate(kind)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.meshes[kind] = upload(data)
	}
	return m, nil
}

func upload(data *mesh.Mesh) *glMesh {
	g := &glMesh{count: int32(len(data.Indices))}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*mesh.VertexStride, gl.Ptr(data.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, mesh.VertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, mesh.VertexStride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, mesh.VertexStride, gl.PtrOffset(24))

	gl.BindVertexArray(0)
	return g
}

func (m *Meshes) DrawMesh(kind core.MeshKind) error {
	g, ok := m.meshes[kind]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownMesh, kind)
	}
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	return nil
}

func (m *Meshes) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	for kind, g := range m.meshes {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
		delete(m.meshes, kind)
	}
	if err := gl.GetError(); err != gl.NO_ERROR {
		return errors.New(glErrorString(err))
	}
	return nil
}

func glErrorString(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("GL error 0x%x", code)
}
