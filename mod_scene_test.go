package deskscene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/layout"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mat4Shader struct{ mat4 map[string]mgl32.Mat4 }

func (s *mat4Shader) SetMat4(name string, m mgl32.Mat4) { s.mat4[name] = m }
func (s *mat4Shader) SetVec4(string, mgl32.Vec4)        {}
func (s *mat4Shader) SetVec3(string, mgl32.Vec3)        {}
func (s *mat4Shader) SetVec2(string, mgl32.Vec2)        {}
func (s *mat4Shader) SetFloat(string, float32)          {}
func (s *mat4Shader) SetInt(string, int32)              {}
func (s *mat4Shader) SetBool(string, bool)              {}
func (s *mat4Shader) SetSampler2D(string, int32)        {}

type fakeBackend struct {
	shader  *mat4Shader
	created int
	deleted int
	drawn   int
	closed  int
	meshErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{shader: &mat4Shader{mat4: map[string]mgl32.Mat4{}}}
}

func (b *fakeBackend) Shader() core.Shader          { return b.shader }
func (b *fakeBackend) Textures() core.TextureDevice { return b }
func (b *fakeBackend) NewMeshes() (core.Meshes, error) {
	if b.meshErr != nil {
		return nil, b.meshErr
	}
	return fakeMeshes{b}, nil
}
func (b *fakeBackend) BeginFrame(int, int, mgl32.Vec4) error { return nil }
func (b *fakeBackend) EndFrame() error                       { return nil }
func (b *fakeBackend) Close() error                          { return nil }

func (b *fakeBackend) CreateTexture(*core.Image) (core.TextureHandle, error) {
	b.created++
	return core.NewTextureHandle(), nil
}
func (b *fakeBackend) BindTexture(int, core.TextureHandle) error { return nil }
func (b *fakeBackend) DeleteTexture(core.TextureHandle) error {
	b.deleted++
	return nil
}

type fakeMeshes struct{ b *fakeBackend }

func (m fakeMeshes) DrawMesh(core.MeshKind) error {
	m.b.drawn++
	return nil
}
func (m fakeMeshes) Close() error {
	m.b.closed++
	return nil
}

type solidLoader struct{}

func (solidLoader) Load(path string) (*core.Image, error) {
	if filepath.Base(path) == "missing.png" {
		return nil, errors.New("no such file")
	}
	return &core.Image{Width: 2, Height: 2, Channels: 4, Pix: make([]byte, 16)}, nil
}

func newSceneApp(t *testing.T, mod SceneModule, backend *fakeBackend) *App {
	t.Helper()
	mod.Loader = solidLoader{}
	app := NewAppBuilder().
		UseStates(StateLoading, StateShutdown).
		UseModule(TimeModule{}, CameraModule{}, mod).
		Build()
	app.addResources(&Input{}, &RendererState{
		Name:     RendererGL,
		Backend:  backend,
		Uniforms: core.DefaultUniformTable(),
		Width:    800,
		Height:   600,
		Drawing:  true,
	})
	return app
}

func TestSceneModule_DeskLifecycle(t *testing.T) {
	backend := newFakeBackend()
	app := newSceneApp(t, SceneModule{}, backend)

	app.start()
	require.Equal(t, StateRunning, app.State())
	st := Resource[SceneState](app)
	require.NotNil(t, st.Scene)
	assert.Equal(t, core.MaxTextureSlots, backend.created)

	app.Step()
	assert.Equal(t, 44, backend.drawn)
	names := core.DefaultUniformTable()
	assert.Contains(t, backend.shader.mat4, names.Name(core.UniformView))
	assert.Contains(t, backend.shader.mat4, names.Name(core.UniformProjection))

	app.Commands().ChangeState(StateShutdown)
	app.applyStateChange()
	assert.Equal(t, core.MaxTextureSlots, backend.deleted)
	assert.Equal(t, 1, backend.closed)

	// Closing twice releases nothing further.
	sceneCloseSystem(st, app.Commands())
	assert.Equal(t, 1, backend.closed)
}

func TestSceneModule_SkipsMinimizedFrames(t *testing.T) {
	backend := newFakeBackend()
	app := newSceneApp(t, SceneModule{}, backend)
	app.start()

	Resource[RendererState](app).Drawing = false
	app.Step()
	assert.Zero(t, backend.drawn)
}

func TestSceneModule_MeshFailureShutsDown(t *testing.T) {
	backend := newFakeBackend()
	backend.meshErr = errors.New("out of memory")
	app := newSceneApp(t, SceneModule{}, backend)

	app.start()
	assert.Equal(t, StateShutdown, app.State())
	assert.Zero(t, backend.created)
}

func TestSceneModule_MissingLayoutShutsDown(t *testing.T) {
	app := newSceneApp(t, SceneModule{LayoutPath: filepath.Join(t.TempDir(), "none.yaml")}, newFakeBackend())
	app.start()
	assert.Equal(t, StateShutdown, app.State())
}

func TestSceneModule_LayoutFileAndManualReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
textures:
  - tag: wood
    path: wood.png
  - tag: gone
    path: missing.png
camera:
  position: [0, 1, 2]
instances:
  - name: table
    mesh: box
    texture: wood
`), 0o644))

	backend := newFakeBackend()
	app := newSceneApp(t, SceneModule{LayoutPath: path}, backend)
	app.start()
	require.Equal(t, StateRunning, app.State())
	assert.Equal(t, 1, backend.created)
	assert.Equal(t, mgl32.Vec3{0, 1, 2}, Resource[Camera](app).Position)

	app.Step()
	assert.Equal(t, 1, backend.drawn)

	require.NoError(t, os.WriteFile(path, []byte(`
instances:
  - name: table
    mesh: box
    texture: wood
  - name: ball
    mesh: sphere
    color: [1, 0, 0]
`), 0o644))
	input := Resource[Input](app)
	input.JustPressed[KeyR] = true
	sceneReloadSystem(Resource[SceneState](app), input, app.Commands())
	input.JustPressed[KeyR] = false

	backend.drawn = 0
	app.Step()
	assert.Equal(t, 2, backend.drawn)
	// Reload never loads textures.
	assert.Equal(t, 1, backend.created)
}

func TestSceneModule_CustomDocument(t *testing.T) {
	doc, err := layout.Parse([]byte("instances:\n  - name: a\n    mesh: cone\n"))
	require.NoError(t, err)

	backend := newFakeBackend()
	app := newSceneApp(t, SceneModule{Layout: doc}, backend)
	app.start()
	app.Step()
	assert.Equal(t, 1, backend.drawn)
	assert.Same(t, doc, Resource[SceneState](app).Document)
}
