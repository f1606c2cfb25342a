// Package config reads engine settings from a TOML or YAML file and turns them into builder options
// for the renderer, loader and engine constructors. window.OptionsFromConfig converts the window
// section.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// ErrUnknownFormat is returned for files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("config: unknown format")

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFor picks the format from a file extension.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Format: the syntax for the extension
//   - error: ErrUnknownFormat for anything but .toml, .yaml and .yml
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Config is the whole settings file. Zero and absent fields keep each constructor's defaults.
type Config struct {
	Window   Window   `toml:"window" yaml:"window"`
	Renderer Renderer `toml:"renderer" yaml:"renderer"`
	Loader   Loader   `toml:"loader" yaml:"loader"`
	Engine   Engine   `toml:"engine" yaml:"engine"`
	Log      Log      `toml:"log" yaml:"log"`
}

// Window holds window settings.
type Window struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	MinWidth  int    `toml:"min_width" yaml:"min_width"`
	MinHeight int    `toml:"min_height" yaml:"min_height"`
	MaxWidth  int    `toml:"max_width" yaml:"max_width"`
	MaxHeight int    `toml:"max_height" yaml:"max_height"`
	VSync     *bool  `toml:"vsync" yaml:"vsync"`
}

// Renderer holds renderer settings.
type Renderer struct {
	// ClearColor is an RGB triple, or RGBA when a fourth value is given.
	ClearColor       []float32 `toml:"clear_color" yaml:"clear_color"`
	AutoClear        *bool     `toml:"auto_clear" yaml:"auto_clear"`
	LightCeiling     int       `toml:"light_ceiling" yaml:"light_ceiling"`
	DedupedWireframe bool      `toml:"deduped_wireframe" yaml:"deduped_wireframe"`
}

// Loader holds loader settings.
type Loader struct {
	Workers   int `toml:"workers" yaml:"workers"`
	QueueSize int `toml:"queue_size" yaml:"queue_size"`
}

// Engine holds frame loop settings.
type Engine struct {
	TickRate   float64 `toml:"tick_rate" yaml:"tick_rate"`
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`
	Profiling  bool    `toml:"profiling" yaml:"profiling"`
	// ProfilerInterval is a Go duration string such as "2s".
	ProfilerInterval string `toml:"profiler_interval" yaml:"profiler_interval"`
}

// Log holds logging settings.
type Log struct {
	// Level enables logging to stderr at the given level. Empty keeps the library silent.
	Level Level `toml:"level" yaml:"level"`
	// JSON selects the JSON handler instead of the text handler.
	JSON bool `toml:"json" yaml:"json"`
}

// Load reads and validates a config file, picking the syntax from its extension.
//
// Parameters:
//   - path: the .toml, .yaml or .yml file
//
// Returns:
//   - *Config: the decoded settings
//   - error: ErrUnknownFormat, a read or decode error, or a validation error
func Load(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates config data. Unknown keys are errors.
//
// Parameters:
//   - data: the file contents
//   - format: the syntax of data
//
// Returns:
//   - *Config: the decoded settings
//   - error: a decode or validation error
func Parse(data []byte, format Format) (*Config, error) {
	cfg := &Config{}
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if n := len(c.Renderer.ClearColor); n != 0 && n != 3 && n != 4 {
		errs = append(errs, fmt.Errorf("renderer.clear_color needs 3 or 4 values, got %d", n))
	}
	for name, v := range map[string]int{
		"window.width":           c.Window.Width,
		"window.height":          c.Window.Height,
		"renderer.light_ceiling": c.Renderer.LightCeiling,
		"loader.workers":         c.Loader.Workers,
		"loader.queue_size":      c.Loader.QueueSize,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if c.Engine.TickRate < 0 || c.Engine.FrameLimit < 0 {
		errs = append(errs, errors.New("engine rates must not be negative"))
	}
	if _, err := c.Engine.profilerInterval(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (e Engine) profilerInterval() (time.Duration, error) {
	if e.ProfilerInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.ProfilerInterval)
	if err != nil {
		return 0, fmt.Errorf("engine.profiler_interval: %w", err)
	}
	return d, nil
}

// RendererOptions converts the renderer section.
func (c *Config) RendererOptions() []renderer.RendererBuilderOption {
	r := c.Renderer
	var opts []renderer.RendererBuilderOption
	if len(r.ClearColor) >= 3 {
		alpha := float32(1)
		if len(r.ClearColor) == 4 {
			alpha = r.ClearColor[3]
		}
		opts = append(opts, renderer.WithClearColor([3]float32{r.ClearColor[0], r.ClearColor[1], r.ClearColor[2]}, alpha))
	}
	if r.AutoClear != nil {
		opts = append(opts, renderer.WithAutoClear(*r.AutoClear))
	}
	if r.LightCeiling > 0 {
		opts = append(opts, renderer.WithLightCeiling(r.LightCeiling))
	}
	if r.DedupedWireframe {
		opts = append(opts, renderer.WithDedupedWireframe(true))
	}
	return opts
}

// LoaderOptions converts the loader section.
func (c *Config) LoaderOptions() []loader.LoaderBuilderOption {
	var opts []loader.LoaderBuilderOption
	if c.Loader.Workers > 0 {
		opts = append(opts, loader.WithWorkers(c.Loader.Workers))
	}
	if c.Loader.QueueSize > 0 {
		opts = append(opts, loader.WithQueueSize(c.Loader.QueueSize))
	}
	return opts
}

// EngineOptions converts the engine section.
func (c *Config) EngineOptions() []engine.EngineBuilderOption {
	e := c.Engine
	var opts []engine.EngineBuilderOption
	if e.TickRate > 0 {
		opts = append(opts, engine.WithTickRate(e.TickRate))
	}
	if e.FrameLimit > 0 {
		opts = append(opts, engine.WithRenderFrameLimit(e.FrameLimit))
	}
	if e.Profiling {
		opts = append(opts, engine.WithProfiling(true))
	}
	if d, _ := e.profilerInterval(); d > 0 {
		opts = append(opts, engine.WithProfilerInterval(d))
	}
	return opts
}

// Logger builds a stderr logger for the log section, or returns nil when no level is set.
func (c *Config) Logger() *slog.Logger {
	if !c.Log.Level.set {
		return nil
	}
	handlerOpts := &slog.HandlerOptions{Level: c.Log.Level.level}
	if c.Log.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}
