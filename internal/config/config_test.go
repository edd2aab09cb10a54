package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/sketch-classifier/internal/classify"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 400, cfg.Canvas.Width)
	assert.Equal(t, 400, cfg.Canvas.Height)
	assert.Equal(t, 15.0, cfg.StrokeLength)
	assert.True(t, cfg.RescalerOn)
	assert.False(t, cfg.SmoothingOn)
	assert.Equal(t, classify.Basic, cfg.StartMode())

	cat := cfg.Catalog()
	assert.Len(t, cat[classify.Basic].Labels, 10)
	assert.Len(t, cat[classify.Advanced].Labels, 21)
}

func TestDefault_CatalogResolvesWithDefaultLoader(t *testing.T) {
	loader := classify.NewDefaultLoader()
	for mode, spec := range Default().Catalog() {
		_, err := loader.Resolve(spec.Path)
		assert.NoError(t, err, "%s model path %q", mode, spec.Path)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.yaml")
	data := `
canvas:
  width: 200
  background: "#102030"
stroke_length: 8
smoothing_on: true
mode: advanced
models:
  advanced:
    path: ws://localhost:9000/advanced
    labels: [cat, dog]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 200, cfg.Canvas.Width)
	assert.Equal(t, 400, cfg.Canvas.Height, "unset keys keep their defaults")
	assert.Equal(t, 8.0, cfg.StrokeLength)
	assert.True(t, cfg.SmoothingOn)
	assert.True(t, cfg.RescalerOn)
	assert.Equal(t, classify.Advanced, cfg.StartMode())

	adv := cfg.Catalog()[classify.Advanced]
	assert.Equal(t, "ws://localhost:9000/advanced", adv.Path)
	assert.Equal(t, classify.LabelSet{"cat", "dog"}, adv.Labels)
	assert.Equal(t, classify.DefaultResolution, adv.Resolution)

	opts := cfg.CanvasOptions()
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, opts.Background)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas: [1, 2"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		EnvStrokeLength: "20",
		EnvRescaler:     "false",
		EnvSmoothing:    "1",
		EnvMode:         "Advanced",
	}))
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.StrokeLength)
	assert.False(t, cfg.RescalerOn)
	assert.True(t, cfg.SmoothingOn)
	assert.Equal(t, classify.Advanced, cfg.StartMode())
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		EnvStrokeLength: "long",
		EnvRescaler:     "maybe",
		EnvSmoothing:    "sometimes",
	}
	for key, val := range tests {
		cfg := Default()
		err := cfg.applyEnv(envMap(map[string]string{key: val}))
		assert.Error(t, err, key)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }},
		{"negative line width", func(c *Config) { c.Canvas.LineWidth = -1 }},
		{"zero stroke length", func(c *Config) { c.StrokeLength = 0 }},
		{"bad ink", func(c *Config) { c.Canvas.InkColor = "black" }},
		{"bad background", func(c *Config) { c.Canvas.Background = "#12" }},
		{"unknown mode", func(c *Config) { c.Mode = "expert" }},
		{"empty labels", func(c *Config) { c.Models.Basic.Labels = nil }},
		{"zero resolution", func(c *Config) { c.Models.Advanced.Resolution = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: advanced\nstroke_length: 12\n"), 0o644))

	cfg, err := fromEnv(envMap(map[string]string{
		EnvConfigFile:   path,
		EnvStrokeLength: "20",
	}))
	require.NoError(t, err)
	assert.Equal(t, "advanced", cfg.Mode)
	assert.Equal(t, 20.0, cfg.StrokeLength)

	cfg, err = fromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = fromEnv(envMap(map[string]string{EnvMode: "expert"}))
	assert.Error(t, err)
}
