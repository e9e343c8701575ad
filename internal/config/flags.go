package config

import "flag"

var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagDebug          = flag.Bool("debug", false, "Enable debug logging")
	flagImage          = flag.String("image", "", "Heightmap image (16-bit grayscale PNG or TIFF)")
	flagMaxHeight      = flag.Float64("max-height", -1, "World height of a full-scale sample [0, 100]")
	flagSpacing        = flag.Float64("spacing", -1, "Horizontal distance between vertices")
	flagErrorThreshold = flag.Float64("error-threshold", -1, "Simplifier error threshold [0, 1]")
	flagStyle          = flag.String("style", "", "Mesh style: shaded or wireframe")
	flagWindowed       = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen     = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth          = flag.Int("width", 0, "Window width")
	flagHeight         = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
// Negative numeric flags mean "not set".
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagImage != "" {
		cfg.Terrain.ImagePath = *flagImage
	}
	if *flagMaxHeight >= 0 {
		cfg.Terrain.MaxImageHeight = float32(*flagMaxHeight)
	}
	if *flagSpacing >= 0 {
		cfg.Terrain.PixelSideLength = float32(*flagSpacing)
	}
	if *flagErrorThreshold >= 0 {
		cfg.Terrain.ErrorThreshold = float32(*flagErrorThreshold)
	}
	if *flagStyle != "" {
		cfg.Terrain.MeshStyle = *flagStyle
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
