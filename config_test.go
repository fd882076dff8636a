package deskscene

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	fb, err := cfg.Fallback()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultFallbackColor, fb)
}

func TestParseConfig_FileThenFlags(t *testing.T) {
	path := writeConfig(t, `
width: 800
renderer: wgpu
texture_slots: 8
fallback_color: [0, 1, 0]
uniforms:
  object_color: uColor
`)
	cfg, err := ParseConfig([]string{"-config", path, "-width", "1024", "-fallback-color", "1,0,0,0.5"})
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, "wgpu", cfg.Renderer)
	assert.Equal(t, 8, cfg.TextureSlots)

	fb, err := cfg.Fallback()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 0.5}, fb)

	names, err := cfg.UniformTable()
	require.NoError(t, err)
	assert.Equal(t, "uColor", names.Name(core.UniformObjectColor))
}

func TestParseConfig_Errors(t *testing.T) {
	_, err := ParseConfig([]string{"-renderer", "vulkan"})
	assert.ErrorContains(t, err, "unknown renderer")

	_, err = ParseConfig([]string{"-texture-slots", "0"})
	assert.ErrorContains(t, err, "texture_slots")

	_, err = ParseConfig([]string{"-fallback-color", "1,2"})
	assert.ErrorContains(t, err, "fallback_color")

	_, err = ParseConfig([]string{"-fallback-color", "red"})
	assert.Error(t, err)

	_, err = ParseConfig([]string{"-config", writeConfig(t, "colour: red\n")})
	assert.Error(t, err)

	_, err = ParseConfig([]string{"-config", writeConfig(t, "uniforms:\n  nonsense: x\n")})
	assert.ErrorContains(t, err, "nonsense")

	_, err = ParseConfig([]string{"-no-such-flag"})
	assert.Error(t, err)

	_, err = ParseConfig([]string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestConfig_Modules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = "scene.yaml"
	cfg.HotReload = true
	modules, err := cfg.Modules()
	require.NoError(t, err)

	var scene SceneModule
	var renderer RendererModule
	for _, m := range modules {
		switch m := m.(type) {
		case SceneModule:
			scene = m
		case RendererModule:
			renderer = m
		}
	}
	assert.Equal(t, "scene.yaml", scene.LayoutPath)
	assert.True(t, scene.HotReload)
	assert.Equal(t, core.DefaultFallbackColor, scene.FallbackColor)
	assert.Equal(t, RendererGL, renderer.Name)
	assert.Equal(t, core.DefaultUniformTable(), renderer.Uniforms)

	cfg.Renderer = "dx12"
	_, err = cfg.Modules()
	assert.Error(t, err)
}

func TestEmptyConfigFile(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, LoadConfigFile(writeConfig(t, ""), &cfg))
	assert.Equal(t, DefaultConfig(), cfg)
}
