// Package config loads the demo configuration from TOML and clamps it to supported values.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/pelletier/go-toml/v2"
)

// Depth limits mirrored from the fractal package. Duplicated here so config stays free of engine imports.
const (
	MinDepth = 1
	MaxDepth = 8
)

const defaultTitle = "oxy-fractal"

// Config is the full demo configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Engine    EngineConfig    `toml:"engine"`
	Fractal   FractalConfig   `toml:"fractal"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// WindowConfig controls the window and the presentation surface.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
	// MSAA is the sample count, one of 1, 4, 8 or 16.
	MSAA int `toml:"msaa"`
	// FrameLimit caps the render loop in frames per second; 0 is uncapped.
	FrameLimit float64 `toml:"frame_limit"`
	// SoftwareRenderer forces the fallback adapter.
	SoftwareRenderer bool `toml:"software_renderer"`
}

// EngineConfig controls the engine loops and diagnostics.
type EngineConfig struct {
	TickRate  float64 `toml:"tick_rate"`
	Profiling bool    `toml:"profiling"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`
}

// FractalConfig describes the fractal and its owner placement.
type FractalConfig struct {
	Depth int `toml:"depth"`
	// Mesh selects the part geometry: "cube" or "sphere".
	Mesh          string     `toml:"mesh"`
	Scale         float32    `toml:"scale"`
	Position      [3]float32 `toml:"position"`
	RotationSpeed [3]float32 `toml:"rotation_speed"`
	BaseColor     [4]float32 `toml:"base_color"`
	// TipColor enables a per-level gradient from BaseColor when set.
	TipColor []float32 `toml:"tip_color"`
}

// SchedulerConfig sizes the level scheduler's worker pool.
type SchedulerConfig struct {
	Workers   int `toml:"workers"`
	BatchSize int `toml:"batch_size"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  defaultTitle,
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Engine: EngineConfig{
			TickRate: 60,
			LogLevel: "info",
		},
		Fractal: FractalConfig{
			Depth:     4,
			Mesh:      "cube",
			Scale:     1,
			BaseColor: [4]float32{0.9, 0.55, 0.2, 1},
			TipColor:  []float32{0.2, 0.6, 1, 1},
		},
		Scheduler: SchedulerConfig{
			Workers:   max(runtime.NumCPU()-1, 1),
			BatchSize: 5,
		},
	}
}

// Load reads a TOML file over the defaults and clamps the result. Keys absent from the file
// keep their default values.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the loaded configuration
//   - error: an error if the file cannot be read or decoded
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and clamps the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the decoded configuration
//   - error: an error if the document is malformed or holds unknown keys
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode TOML: %w", err)
	}
	cfg.Clamp()
	return cfg, nil
}

// Clamp forces every field into its supported range.
func (c *Config) Clamp() {
	c.Fractal.Depth = common.Clamp(c.Fractal.Depth, MinDepth, MaxDepth)
	if c.Fractal.Scale <= 0 {
		c.Fractal.Scale = 1
	}
	switch c.Fractal.Mesh {
	case "cube", "sphere":
	default:
		c.Fractal.Mesh = "cube"
	}
	if len(c.Fractal.TipColor) != 0 && len(c.Fractal.TipColor) != 4 {
		c.Fractal.TipColor = nil
	}

	c.Scheduler.Workers = max(c.Scheduler.Workers, 1)
	c.Scheduler.BatchSize = max(c.Scheduler.BatchSize, 1)

	c.Window.Title = common.Coalesce(c.Window.Title, defaultTitle)
	c.Window.Width = max(c.Window.Width, 1)
	c.Window.Height = max(c.Window.Height, 1)
	c.Window.MSAA = clampMSAA(c.Window.MSAA)
	c.Window.FrameLimit = max(c.Window.FrameLimit, 0)

	if c.Engine.TickRate <= 0 {
		c.Engine.TickRate = 60
	}
	if _, err := parseLevel(c.Engine.LogLevel); err != nil {
		c.Engine.LogLevel = "info"
	}
}

// Tip returns the gradient tip color.
//
// Returns:
//   - [4]float32: the tip color
//   - bool: false if no gradient is configured
func (f FractalConfig) Tip() ([4]float32, bool) {
	if len(f.TipColor) != 4 {
		return [4]float32{}, false
	}
	return [4]float32(f.TipColor), true
}

// SlogLevel returns the configured log level.
//
// Returns:
//   - slog.Level: the level, Info if unparsable
func (e EngineConfig) SlogLevel() slog.Level {
	l, err := parseLevel(e.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// clampMSAA rounds down to the nearest supported sample count.
func clampMSAA(n int) int {
	switch {
	case n >= 16:
		return 16
	case n >= 8:
		return 8
	case n >= 4:
		return 4
	default:
		return 1
	}
}
