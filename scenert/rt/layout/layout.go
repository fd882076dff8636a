// Package layout reads scene descriptions: the textures to load, the
// materials and lights to define, the starting camera and the instances to
// draw every frame.
package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed desk.yaml
var deskYAML []byte

type Texture struct {
	Tag  string `yaml:"tag"`
	Path string `yaml:"path"`
}

type Material struct {
	Tag             string    `yaml:"tag"`
	AmbientColor    []float32 `yaml:"ambient_color"`
	AmbientStrength float32   `yaml:"ambient_strength"`
	DiffuseColor    []float32 `yaml:"diffuse_color"`
	SpecularColor   []float32 `yaml:"specular_color"`
	Shininess       float32   `yaml:"shininess"`
}

type Light struct {
	Position          []float32 `yaml:"position"`
	AmbientColor      []float32 `yaml:"ambient_color"`
	DiffuseColor      []float32 `yaml:"diffuse_color"`
	SpecularColor     []float32 `yaml:"specular_color"`
	FocalStrength     float32   `yaml:"focal_strength"`
	SpecularIntensity float32   `yaml:"specular_intensity"`
}

// Camera fields left out of the file keep the camera's defaults.
type Camera struct {
	Position     []float32 `yaml:"position"`
	Yaw          *float32  `yaml:"yaw"`
	Pitch        *float32  `yaml:"pitch"`
	FOV          *float32  `yaml:"fov"`
	Near         *float32  `yaml:"near"`
	Far          *float32  `yaml:"far"`
	Speed        *float32  `yaml:"speed"`
	Sensitivity  *float32  `yaml:"sensitivity"`
	Orthographic *bool     `yaml:"orthographic"`
	OrthoHeight  *float32  `yaml:"ortho_height"`
}

type Instance struct {
	Name     string    `yaml:"name"`
	Mesh     string    `yaml:"mesh"`
	Scale    []float32 `yaml:"scale"`
	Rotation []float32 `yaml:"rotation"`
	Position []float32 `yaml:"position"`
	Texture  string    `yaml:"texture"`
	Color    []float32 `yaml:"color"`
	UVScale  []float32 `yaml:"uv_scale"`
	Material string    `yaml:"material"`
}

type Document struct {
	Textures  []Texture  `yaml:"textures"`
	Materials []Material `yaml:"materials"`
	Lights    []Light    `yaml:"lights"`
	Camera    Camera     `yaml:"camera"`
	Instances []Instance `yaml:"instances"`
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Desk returns the built-in desk scene.
func Desk() *Document {
	doc, err := Parse(deskYAML)
	if err != nil {
		panic(err)
	}
	return doc
}

func vec3(what string, v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return def, fmt.Errorf("%s: want 3 components, got %d", what, len(v))
}

func vec2(what string, v []float32, def mgl32.Vec2) (mgl32.Vec2, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		return mgl32.Vec2{v[0], v[1]}, nil
	}
	return def, fmt.Errorf("%s: want 2 components, got %d", what, len(v))
}

// color accepts RGB (alpha 1) or RGBA.
func color(what string, v []float32) (mgl32.Vec4, error) {
	switch len(v) {
	case 0:
		return mgl32.Vec4{1, 1, 1, 1}, nil
	case 3:
		return mgl32.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
	}
	return mgl32.Vec4{}, fmt.Errorf("%s: want 3 or 4 components, got %d", what, len(v))
}

// SceneSpec converts the document for core.Scene. Relative texture paths
// are resolved against textureDir. All malformed entries are reported
// together.
func (d *Document) SceneSpec(textureDir string) (core.SceneSpec, error) {
	var spec core.SceneSpec
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	for i, t := range d.Textures {
		if t.Tag == "" || t.Path == "" {
			errs = append(errs, fmt.Errorf("textures[%d]: tag and path are required", i))
			continue
		}
		path := t.Path
		if textureDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(textureDir, path)
		}
		spec.Textures = append(spec.Textures, core.TextureSpec{Tag: t.Tag, Path: path})
	}

	for i, m := range d.Materials {
		what := fmt.Sprintf("materials[%d] %s", i, m.Tag)
		out := core.Material{Tag: m.Tag, AmbientStrength: m.AmbientStrength, Shininess: m.Shininess}
		var err error
		out.AmbientColor, err = vec3(what+" ambient_color", m.AmbientColor, mgl32.Vec3{})
		check(err)
		out.DiffuseColor, err = vec3(what+" diffuse_color", m.DiffuseColor, mgl32.Vec3{})
		check(err)
		out.SpecularColor, err = vec3(what+" specular_color", m.SpecularColor, mgl32.Vec3{})
		check(err)
		spec.Materials = append(spec.Materials, out)
	}

	for i, l := range d.Lights {
		what := fmt.Sprintf("lights[%d]", i)
		out := core.LightSource{FocalStrength: l.FocalStrength, SpecularIntensity: l.SpecularIntensity}
		var err error
		out.Position, err = vec3(what+" position", l.Position, mgl32.Vec3{})
		check(err)
		out.AmbientColor, err = vec3(what+" ambient_color", l.AmbientColor, mgl32.Vec3{})
		check(err)
		out.DiffuseColor, err = vec3(what+" diffuse_color", l.DiffuseColor, mgl32.Vec3{})
		check(err)
		out.SpecularColor, err = vec3(what+" specular_color", l.SpecularColor, mgl32.Vec3{})
		check(err)
		spec.Lights = append(spec.Lights, out)
	}

	for i, in := range d.Instances {
		what := fmt.Sprintf("instances[%d] %s", i, in.Name)
		kind, err := core.ParseMeshKind(in.Mesh)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", what, err))
			continue
		}
		out := core.Instance{Name: in.Name, Mesh: kind, Texture: in.Texture, Material: in.Material}
		out.Scale, err = vec3(what+" scale", in.Scale, mgl32.Vec3{1, 1, 1})
		check(err)
		out.Rotation, err = vec3(what+" rotation", in.Rotation, mgl32.Vec3{})
		check(err)
		out.Position, err = vec3(what+" position", in.Position, mgl32.Vec3{})
		check(err)
		out.UVScale, err = vec2(what+" uv_scale", in.UVScale, mgl32.Vec2{1, 1})
		check(err)
		out.Color, err = color(what+" color", in.Color)
		check(err)
		spec.Instances = append(spec.Instances, out)
	}

	return spec, errors.Join(errs...)
}

// ApplyCamera overlays the document's camera settings on c.
func (d *Document) ApplyCamera(c *core.CameraState) error {
	cam := d.Camera
	pos, err := vec3("camera position", cam.Position, c.Position)
	if err != nil {
		return err
	}
	c.Position = pos
	setFloat := func(dst *float32, src *float32) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat(&c.Yaw, cam.Yaw)
	setFloat(&c.Pitch, cam.Pitch)
	setFloat(&c.FOV, cam.FOV)
	setFloat(&c.Near, cam.Near)
	setFloat(&c.Far, cam.Far)
	setFloat(&c.Speed, cam.Speed)
	setFloat(&c.Sensitivity, cam.Sensitivity)
	setFloat(&c.OrthoHeight, cam.OrthoHeight)
	if cam.Orthographic != nil {
		c.Orthographic = *cam.Orthographic
	}
	return nil
}
