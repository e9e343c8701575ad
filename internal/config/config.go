// Package config handles viewer and generator configuration.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/terrain-mesh/internal/engine/terrain"
	"github.com/Faultbox/terrain-mesh/internal/pipeline"
)

// Limits exposed by the parameter controls.
const (
	MaxImageHeightLimit = 100.0
	ErrorThresholdLimit = 1.0
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all settings.
type Config struct {
	Terrain  TerrainConfig  `yaml:"terrain"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TerrainConfig holds the heightmap source and mesh load parameters.
type TerrainConfig struct {
	ImagePath       string  `yaml:"image_path"`
	MaxImageHeight  float32 `yaml:"max_image_height"`  // [0, 100]
	PixelSideLength float32 `yaml:"pixel_side_length"` // > 0
	ErrorThreshold  float32 `yaml:"error_threshold"`   // [0, 1], for the simplifier
	MeshStyle       string  `yaml:"mesh_style"`        // shaded | wireframe
	AutoGenerate    bool    `yaml:"auto_generate"`     // rebuild on every parameter change
}

// GraphicsConfig holds display settings for the viewer.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	BaseColor  [3]float32 `yaml:"base_color,flow"`
	Background [3]float32 `yaml:"background,flow"`
	CaptureDir string     `yaml:"capture_dir"` // F12 frame captures
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	load := terrain.DefaultLoadOptions()
	params := pipeline.DefaultParams()
	return &Config{
		Terrain: TerrainConfig{
			ImagePath:       pipeline.DefaultImagePath,
			MaxImageHeight:  load.MaxImageHeight,
			PixelSideLength: load.PixelSideLength,
			ErrorThreshold:  params.ErrorThreshold,
			MeshStyle:       terrain.DefaultStyle.String(),
			AutoGenerate:    true,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			BaseColor:  [3]float32{1, 1, 1},
			Background: [3]float32{0.1, 0.1, 0.12},
			CaptureDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks every bounded value.
func (c *Config) Validate() error {
	t := c.Terrain
	if t.ImagePath == "" {
		return fmt.Errorf("%w: terrain.image_path is empty", ErrInvalid)
	}
	if !inRange(t.MaxImageHeight, 0, MaxImageHeightLimit) {
		return fmt.Errorf("%w: terrain.max_image_height %v not in [0, %v]", ErrInvalid, t.MaxImageHeight, MaxImageHeightLimit)
	}
	if !inRange(t.PixelSideLength, 0, math.MaxFloat32) || t.PixelSideLength == 0 {
		return fmt.Errorf("%w: terrain.pixel_side_length %v must be positive", ErrInvalid, t.PixelSideLength)
	}
	if !inRange(t.ErrorThreshold, 0, ErrorThresholdLimit) {
		return fmt.Errorf("%w: terrain.error_threshold %v not in [0, %v]", ErrInvalid, t.ErrorThreshold, ErrorThresholdLimit)
	}
	if _, err := terrain.ParseStyle(t.MeshStyle); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: graphics size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}

// inRange reports lo <= v <= hi; NaN is never in range.
func inRange(v float32, lo, hi float64) bool {
	f := float64(v)
	return f >= lo && f <= hi
}

// Style returns the configured mesh style.
func (c *Config) Style() terrain.Style {
	s, err := terrain.ParseStyle(c.Terrain.MeshStyle)
	if err != nil {
		return terrain.DefaultStyle
	}
	return s
}

// Params converts the terrain section to regeneration parameters.
func (c *Config) Params() pipeline.Params {
	return pipeline.Params{
		ImagePath: c.Terrain.ImagePath,
		Load: terrain.LoadOptions{
			MaxImageHeight:  c.Terrain.MaxImageHeight,
			PixelSideLength: c.Terrain.PixelSideLength,
		},
		ErrorThreshold: c.Terrain.ErrorThreshold,
	}
}
