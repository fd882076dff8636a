package deskscene

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Config is built from defaults, then an optional YAML file, then flags.
type Config struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	Renderer string `yaml:"renderer"`

	// Layout is a scene layout file; empty selects the built-in desk.
	Layout       string `yaml:"layout"`
	TextureDir   string `yaml:"texture_dir"`
	TextureSlots int    `yaml:"texture_slots"`
	HotReload    bool   `yaml:"hot_reload"`

	Debug    bool `yaml:"debug"`
	Progress bool `yaml:"progress"`

	// FallbackColor is RGB or RGBA for objects whose texture never loaded.
	FallbackColor []float32 `yaml:"fallback_color"`
	// Uniforms renames shader uniforms by role, e.g. object_color: uColor.
	Uniforms map[string]string `yaml:"uniforms"`
}

func DefaultConfig() Config {
	fb := core.DefaultFallbackColor
	return Config{
		Width:         1280,
		Height:        720,
		Title:         "Desk",
		Renderer:      string(RendererGL),
		TextureDir:    "textures",
		TextureSlots:  core.MaxTextureSlots,
		Progress:      true,
		FallbackColor: []float32{fb[0], fb[1], fb[2], fb[3]},
	}
}

// LoadConfigFile overlays the YAML file at path on cfg. Unknown keys are errors.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type colorValue struct{ c *[]float32 }

func (v colorValue) String() string {
	if v.c == nil {
		return ""
	}
	parts := make([]string, len(*v.c))
	for i, f := range *v.c {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

func (v colorValue) Set(s string) error {
	fields := strings.Split(s, ",")
	out := make([]float32, 0, len(fields))
	for _, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return err
		}
		out = append(out, float32(x))
	}
	*v.c = out
	return nil
}

func newFlagSet(cfg *Config, configPath *string) *flag.FlagSet {
	fs := flag.NewFlagSet("deskscene", flag.ContinueOnError)
	fs.StringVar(configPath, "config", *configPath, "YAML configuration file")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	fs.StringVar(&cfg.Renderer, "renderer", cfg.Renderer, "graphics backend: gl or wgpu")
	fs.StringVar(&cfg.Layout, "layout", cfg.Layout, "scene layout file (default: built-in desk)")
	fs.StringVar(&cfg.TextureDir, "textures", cfg.TextureDir, "directory texture paths are relative to")
	fs.IntVar(&cfg.TextureSlots, "texture-slots", cfg.TextureSlots, "texture registry capacity")
	fs.BoolVar(&cfg.HotReload, "watch", cfg.HotReload, "reload the layout file when it changes")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging")
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "show a progress bar while loading textures")
	fs.Var(colorValue{&cfg.FallbackColor}, "fallback-color", "r,g,b[,a] drawn where a texture is missing")
	return fs
}

// ParseConfig reads flags from args. A -config file is applied first so
// that explicit flags win over it.
func ParseConfig(args []string) (Config, error) {
	var configPath string
	probe := DefaultConfig()
	fs := newFlagSet(&probe, &configPath)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		// Report usage through the real flag set below.
		cfg := DefaultConfig()
		return cfg, newFlagSet(&cfg, &configPath).Parse(args)
	}

	cfg := DefaultConfig()
	if configPath != "" {
		if err := LoadConfigFile(configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := newFlagSet(&cfg, &configPath).Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if _, err := ParseRendererName(c.Renderer); err != nil {
		errs = append(errs, err)
	}
	if c.TextureSlots < 1 {
		errs = append(errs, fmt.Errorf("texture_slots must be positive, got %d", c.TextureSlots))
	}
	if _, err := c.Fallback(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.UniformTable(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) Fallback() (mgl32.Vec4, error) {
	switch v := c.FallbackColor; len(v) {
	case 3:
		return mgl32.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
	}
	return mgl32.Vec4{}, fmt.Errorf("fallback_color: want 3 or 4 components, got %d", len(c.FallbackColor))
}

func (c Config) UniformTable() (core.UniformTable, error) {
	return core.DefaultUniformTable().WithOverrides(c.Uniforms)
}

// Modules assembles the application described by c.
func (c Config) Modules() ([]Module, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	name, _ := ParseRendererName(c.Renderer)
	names, _ := c.UniformTable()
	fallback, _ := c.Fallback()

	return []Module{
		LoggingModule{Prefix: "desk", Debug: c.Debug},
		TimeModule{},
		RendererModule{
			Name:         name,
			WindowWidth:  c.Width,
			WindowHeight: c.Height,
			WindowTitle:  c.Title,
			Uniforms:     names,
		},
		InputModule{},
		CameraModule{},
		SceneModule{
			LayoutPath:    c.Layout,
			TextureDir:    c.TextureDir,
			TextureSlots:  c.TextureSlots,
			FallbackColor: fallback,
			HotReload:     c.HotReload,
			Progress:      c.Progress,
		},
	}, nil
}
