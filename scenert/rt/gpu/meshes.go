package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/mesh"
)

type gpuMesh struct {
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
	count    uint32
}

// Meshes holds vertex and index buffers per primitive. DrawMesh records a
// draw with the renderer's current uniform state; nothing is submitted
// until EndFrame.
type Meshes struct {
	r      *Renderer
	meshes map[core.MeshKind]*gpuMesh
	closed bool
}

func newMeshes(r *Renderer) (*Meshes, error) {
	m := &Meshes{r: r, meshes: make(map[core.MeshKind]*gpuMesh)}
	for _, kind := range core.MeshKinds() {
		data, err := mesh.Generate(kind)
		if err != nil {
			m.Close()
			return nil, err
		}
		vb, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    kind.String() + " vertices",
			Contents: wgpu.ToBytes(data.Vertices),
			Usage:    wgpu.BufferUsageVertex,
		})
		if err != nil {
			m.Close()
			return nil, err
		}
		ib, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    kind.String() + " indices",
			Contents: wgpu.ToBytes(data.Indices),
			Usage:    wgpu.BufferUsageIndex,
		})
		if err != nil {
			vb.Release()
			m.Close()
			return nil, err
		}
		m.meshes[kind] = &gpuMesh{vertices: vb, indices: ib, count: uint32(len(data.Indices))}
	}
	return m, nil
}

func (m *Meshes) DrawMesh(kind core.MeshKind) error {
	g, ok := m.meshes[kind]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownMesh, kind)
	}
	block, unit := m.r.uniforms.Snapshot()
	m.r.draws = append(m.r.draws, draw{mesh: g, block: block, unit: unit})
	return nil
}

func (m *Meshes) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	for kind, g := range m.meshes {
		g.vertices.Release()
		g.indices.Release()
		delete(m.meshes, kind)
	}
	return nil
}
