package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type TextureSpec struct {
	Tag  string
	Path string
}

// Instance is one positioned, textured and shaded draw of a primitive mesh.
// Texture wins over Color when both are set.
type Instance struct {
	Name     string
	Mesh     MeshKind
	Scale    mgl32.Vec3
	Rotation mgl32.Vec3
	Position mgl32.Vec3
	Texture  string
	Color    mgl32.Vec4
	UVScale  mgl32.Vec2
	Material string
}

type SceneSpec struct {
	Textures  []TextureSpec
	Materials []Material
	Lights    []LightSource
	Instances []Instance
}

type SceneConfig struct {
	Shader   Shader
	Textures TextureDevice
	Loader   ImageLoader
	Meshes   Meshes
	Uniforms UniformTable
	Logger   Logger

	// TextureSlots caps the registry; zero means MaxTextureSlots.
	TextureSlots int
	// FallbackColor replaces textures whose tag is unknown; zero means DefaultFallbackColor.
	FallbackColor mgl32.Vec4
	// OnTexture is called after each texture registration attempt.
	OnTexture func(spec TextureSpec, err error)
}

// Scene owns the texture registry, material library, lights and meshes of
// one layout and replays its instances every frame.
type Scene struct {
	Textures  *TextureRegistry
	Materials *MaterialLibrary
	Lights    *LightRig
	State     *DrawState

	shader    Shader
	names     UniformTable
	meshes    Meshes
	onTexture func(TextureSpec, error)
	instances []Instance
	log       Logger
	closed    bool
}

// NewScene takes ownership of cfg.Meshes; Close releases them.
func NewScene(cfg SceneConfig) *Scene {
	log := orNop(cfg.Logger)
	textures := NewTextureRegistry(cfg.Textures, cfg.Loader, cfg.TextureSlots, log)
	materials := NewMaterialLibrary()
	state := NewDrawState(cfg.Shader, cfg.Uniforms, textures, materials, log)
	if cfg.FallbackColor != (mgl32.Vec4{}) {
		state.SetFallbackColor(cfg.FallbackColor)
	}
	return &Scene{
		Textures:  textures,
		Materials: materials,
		Lights:    &LightRig{},
		State:     state,
		shader:    cfg.Shader,
		names:     cfg.Uniforms,
		meshes:    cfg.Meshes,
		onTexture: cfg.OnTexture,
		log:       log,
	}
}

// Prepare runs the load phase: textures, texture units, materials, lights.
// Individual failures do not stop the load; they are returned joined so the
// caller can summarize them.
func (s *Scene) Prepare(spec SceneSpec) error {
	var errs []error

	for _, ts := range spec.Textures {
		err := s.Textures.Register(ts.Path, ts.Tag)
		if s.onTexture != nil {
			s.onTexture(ts, err)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.Textures.BindAll(); err != nil {
		s.log.Errorf("%v", err)
		errs = append(errs, err)
	}

	for _, m := range spec.Materials {
		s.Materials.Define(m)
	}

	for _, l := range spec.Lights {
		if err := s.Lights.Add(l); err != nil {
			s.log.Errorf("%v", err)
			errs = append(errs, err)
		}
	}
	s.Lights.Apply(s.shader, s.names)

	s.instances = slices.Clone(spec.Instances)
	s.log.Infof("scene prepared: %d textures, %d materials, %d lights, %d instances",
		s.Textures.Len(), s.Materials.Len(), s.Lights.Len(), len(s.instances))
	return errors.Join(errs...)
}

// Reload replaces the instance list. Textures, materials and lights stay as
// loaded; tags that changed are only reported.
func (s *Scene) Reload(spec SceneSpec) {
	for _, ts := range spec.Textures {
		if _, ok := s.Textures.FindSlot(ts.Tag); !ok {
			s.log.Warnf("reload: texture %q is new and needs a restart to load", ts.Tag)
		}
	}
	for _, m := range spec.Materials {
		if cur, ok := s.Materials.Lookup(m.Tag); !ok || cur != m {
			s.log.Warnf("reload: material %q changed and needs a restart to apply", m.Tag)
		}
	}
	s.instances = slices.Clone(spec.Instances)
	s.State.ResetReports()
	s.log.Infof("scene reloaded: %d instances", len(s.instances))
}

func (s *Scene) Instances() []Instance {
	return s.instances
}

// Render draws every instance in layout order.
func (s *Scene) Render() error {
	if s.closed {
		return nil
	}
	var errs []error
	for i := range s.instances {
		if err := s.draw(&s.instances[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) draw(in *Instance) error {
	st := s.State
	st.SetTransform(in.Scale, in.Rotation.X(), in.Rotation.Y(), in.Rotation.Z(), in.Position)

	var err error
	if in.Texture != "" {
		err = st.SetTexture(in.Texture)
	} else {
		st.SetColor(in.Color[0], in.Color[1], in.Color[2], in.Color[3])
	}

	uv := in.UVScale
	if uv == (mgl32.Vec2{}) {
		uv = mgl32.Vec2{1, 1}
	}
	st.SetUVScale(uv.X(), uv.Y())

	if in.Material != "" {
		err = errors.Join(err, st.SetMaterial(in.Material))
	}

	if drawErr := s.meshes.DrawMesh(in.Mesh); drawErr != nil {
		err = errors.Join(err, fmt.Errorf("draw %s (%s): %w", in.Name, in.Mesh, drawErr))
	}
	return err
}

// Close releases textures and meshes. It is safe to call more than once.
func (s *Scene) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.Textures.ReleaseAll()
	if s.meshes != nil {
		err = errors.Join(err, s.meshes.Close())
	}
	return err
}
