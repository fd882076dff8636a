package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopShader struct{ calls int }

func (s *nopShader) SetMat4(string, mgl32.Mat4) { s.calls++ }
func (s *nopShader) SetVec4(string, mgl32.Vec4) { s.calls++ }
func (s *nopShader) SetVec3(string, mgl32.Vec3) { s.calls++ }
func (s *nopShader) SetVec2(string, mgl32.Vec2) { s.calls++ }
func (s *nopShader) SetFloat(string, float32)   { s.calls++ }
func (s *nopShader) SetInt(string, int32)       { s.calls++ }
func (s *nopShader) SetBool(string, bool)       { s.calls++ }
func (s *nopShader) SetSampler2D(string, int32) { s.calls++ }

type countingDevice struct{ created int }

func (d *countingDevice) CreateTexture(*core.Image) (core.TextureHandle, error) {
	d.created++
	return core.NewTextureHandle(), nil
}
func (d *countingDevice) BindTexture(int, core.TextureHandle) error { return nil }
func (d *countingDevice) DeleteTexture(core.TextureHandle) error    { return nil }

type solidLoader struct{}

func (solidLoader) Load(string) (*core.Image, error) {
	return &core.Image{Width: 1, Height: 1, Channels: 3, Pix: []byte{1, 2, 3}}, nil
}

type countingMeshes struct{ drawn map[core.MeshKind]int }

func (m *countingMeshes) DrawMesh(kind core.MeshKind) error {
	m.drawn[kind]++
	return nil
}
func (m *countingMeshes) Close() error { return nil }

func TestDesk_Contents(t *testing.T) {
	doc := Desk()
	assert.Len(t, doc.Textures, 17)
	assert.Len(t, doc.Materials, 17)
	assert.Len(t, doc.Lights, 4)
	assert.Len(t, doc.Instances, 44)

	spec, err := doc.SceneSpec("textures")
	require.NoError(t, err)
	assert.Len(t, spec.Instances, 44)
	assert.Equal(t, filepath.Join("textures", doc.Textures[0].Path), spec.Textures[0].Path)
	for _, in := range spec.Instances {
		assert.NotEmpty(t, in.Texture, in.Name)
		assert.NotEqual(t, mgl32.Vec2{}, in.UVScale, in.Name)
	}
}

func TestDesk_Prepare(t *testing.T) {
	spec, err := Desk().SceneSpec("")
	require.NoError(t, err)

	device := &countingDevice{}
	meshes := &countingMeshes{drawn: map[core.MeshKind]int{}}
	var failed []string
	scene := core.NewScene(core.SceneConfig{
		Shader:   &nopShader{},
		Textures: device,
		Loader:   solidLoader{},
		Meshes:   meshes,
		Uniforms: core.DefaultUniformTable(),
		OnTexture: func(ts core.TextureSpec, err error) {
			if err != nil {
				failed = append(failed, ts.Tag)
			}
		},
	})

	err = scene.Prepare(spec)
	assert.ErrorIs(t, err, core.ErrCapacityExceeded)
	assert.Equal(t, []string{"salt1"}, failed)
	assert.Equal(t, core.MaxTextureSlots, device.created)
	assert.Equal(t, 4, scene.Lights.Len())

	// The salt shaker's texture never loaded; it still draws, in the fallback color.
	err = scene.Render()
	assert.ErrorIs(t, err, core.ErrTextureNotFound)
	total := 0
	for _, n := range meshes.drawn {
		total += n
	}
	assert.Equal(t, 44, total)
	require.NoError(t, scene.Close())
}

func TestSceneSpec_Defaults(t *testing.T) {
	doc, err := Parse([]byte(`
instances:
  - name: ball
    mesh: sphere
    color: [1, 0, 0]
`))
	require.NoError(t, err)
	spec, err := doc.SceneSpec("")
	require.NoError(t, err)
	require.Len(t, spec.Instances, 1)
	in := spec.Instances[0]
	assert.Equal(t, core.MeshSphere, in.Mesh)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, in.Scale)
	assert.Equal(t, mgl32.Vec2{1, 1}, in.UVScale)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, in.Color)
}

func TestSceneSpec_Invalid(t *testing.T) {
	doc, err := Parse([]byte(`
textures:
  - tag: wood
materials:
  - tag: m
    diffuse_color: [1, 2]
instances:
  - name: a
    mesh: torus
  - name: b
    mesh: box
    position: [1, 2, 3, 4]
`))
	require.NoError(t, err)
	spec, err := doc.SceneSpec("")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownMesh)
	assert.Contains(t, err.Error(), "tag and path are required")
	assert.Contains(t, err.Error(), "diffuse_color")
	assert.Contains(t, err.Error(), "position")
	assert.Len(t, spec.Instances, 1)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("instances: {"))
	assert.Error(t, err)
}

func TestApplyCamera(t *testing.T) {
	doc, err := Parse([]byte(`
camera:
  position: [1, 2, 3]
  fov: 60
  orthographic: true
`))
	require.NoError(t, err)
	cam := core.NewCameraState()
	pitch := cam.Pitch
	require.NoError(t, doc.ApplyCamera(cam))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Position)
	assert.Equal(t, float32(60), cam.FOV)
	assert.True(t, cam.Orthographic)
	assert.Equal(t, pitch, cam.Pitch)

	doc.Camera.Position = []float32{1}
	assert.Error(t, doc.ApplyCamera(cam))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instances:\n  - name: a\n    mesh: box\n"), 0o644))
	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Instances, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
