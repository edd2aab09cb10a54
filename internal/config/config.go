// Package config loads sketch classifier settings from YAML and the
// environment.
package config

import (
	"image/color"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/ironsheep/sketch-classifier/internal/canvas"
	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/log"
	"github.com/ironsheep/sketch-classifier/internal/stroke"
)

// Environment overrides applied by ApplyEnv.
const (
	EnvConfigFile   = "SKETCH_CONFIG"
	EnvStrokeLength = "SKETCH_STROKE_LENGTH"
	EnvRescaler     = "SKETCH_RESCALER"
	EnvSmoothing    = "SKETCH_SMOOTHING"
	EnvMode         = "SKETCH_MODE"
)

// Config is the full set of tunables for a session.
type Config struct {
	Canvas       CanvasConfig `yaml:"canvas"`
	StrokeLength float64      `yaml:"stroke_length"`
	RescalerOn   bool         `yaml:"rescaler_on"`
	SmoothingOn  bool         `yaml:"smoothing_on"`
	Mode         string       `yaml:"mode"`
	Models       ModelsConfig `yaml:"models"`
}

type CanvasConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	LineWidth  float64 `yaml:"line_width"`
	InkColor   string  `yaml:"ink_color"`
	Background string  `yaml:"background"`
}

type ModelsConfig struct {
	Basic    ModelConfig `yaml:"basic"`
	Advanced ModelConfig `yaml:"advanced"`
}

type ModelConfig struct {
	Path       string   `yaml:"path"`
	Resolution int      `yaml:"resolution"`
	Labels     []string `yaml:"labels"`
}

// Default returns the built-in configuration.
func Default() Config {
	cat := classify.DefaultCatalog()
	return Config{
		Canvas: CanvasConfig{
			Width:      400,
			Height:     400,
			LineWidth:  2,
			InkColor:   "#000000",
			Background: "#FFFFFF",
		},
		StrokeLength: stroke.DefaultStrokeLength,
		RescalerOn:   true,
		SmoothingOn:  false,
		Mode:         classify.Basic.String(),
		Models: ModelsConfig{
			Basic:    fromSpec(cat[classify.Basic]),
			Advanced: fromSpec(cat[classify.Advanced]),
		},
	}
}

func fromSpec(s classify.ModelSpec) ModelConfig {
	return ModelConfig{
		Path:       s.Path,
		Resolution: s.Resolution,
		Labels:     append([]string(nil), s.Labels...),
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// an empty path does too.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Trace.Printf("config file %s not found, using defaults", path)
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	log.Trace.Printf("loaded config from %s", path)
	return cfg, nil
}

// FromEnv loads the file named by SKETCH_CONFIG, overlays the other
// SKETCH_* variables and validates the result.
func FromEnv() (Config, error) {
	return fromEnv(os.LookupEnv)
}

func fromEnv(lookup func(string) (string, bool)) (Config, error) {
	path, _ := lookup(EnvConfigFile)
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overlays the SKETCH_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvStrokeLength); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvStrokeLength)
		}
		c.StrokeLength = f
	}
	if v, ok := lookup(EnvRescaler); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvRescaler)
		}
		c.RescalerOn = b
	}
	if v, ok := lookup(EnvSmoothing); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvSmoothing)
		}
		c.SmoothingOn = b
	}
	if v, ok := lookup(EnvMode); ok {
		c.Mode = strings.TrimSpace(v)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.Errorf("invalid canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.LineWidth <= 0 {
		return errors.Errorf("invalid line width %v", c.Canvas.LineWidth)
	}
	if c.StrokeLength <= 0 {
		return errors.Errorf("invalid stroke length %v", c.StrokeLength)
	}
	if _, err := parseColor(c.Canvas.InkColor); err != nil {
		return errors.Wrap(err, "ink_color")
	}
	if _, err := parseColor(c.Canvas.Background); err != nil {
		return errors.Wrap(err, "background")
	}
	if _, err := classify.ParseMode(c.Mode); err != nil {
		return err
	}
	for mode, spec := range c.Catalog() {
		if err := spec.Validate(); err != nil {
			return errors.Wrapf(err, "models.%s", mode)
		}
	}
	return nil
}

// CanvasOptions converts the canvas settings. Call Validate first; colors
// that fail to parse fall back to the canvas defaults.
func (c Config) CanvasOptions() canvas.Options {
	opts := canvas.DefaultOptions()
	opts.Width = c.Canvas.Width
	opts.Height = c.Canvas.Height
	opts.LineWidth = c.Canvas.LineWidth
	if ink, err := parseColor(c.Canvas.InkColor); err == nil {
		opts.Ink = ink
	}
	if bg, err := parseColor(c.Canvas.Background); err == nil {
		opts.Background = bg
	}
	return opts
}

// Catalog converts the model settings.
func (c Config) Catalog() classify.Catalog {
	return classify.Catalog{
		classify.Basic:    c.Models.Basic.spec(classify.Basic),
		classify.Advanced: c.Models.Advanced.spec(classify.Advanced),
	}
}

// StartMode returns the configured initial mode, Basic if unparsable.
func (c Config) StartMode() classify.Mode {
	m, err := classify.ParseMode(c.Mode)
	if err != nil {
		return classify.Basic
	}
	return m
}

func (m ModelConfig) spec(mode classify.Mode) classify.ModelSpec {
	return classify.ModelSpec{
		Mode:       mode,
		Path:       m.Path,
		Resolution: m.Resolution,
		Labels:     classify.LabelSet(m.Labels),
	}
}

func parseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid color %q", hex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
