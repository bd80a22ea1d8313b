// Package render turns averaged grids into presentation artifacts: still
// PNGs, MP4 sequences and GIF conversions. Encoding is delegated to
// ffmpeg through a narrow command-line interface.
package render

import "errors"

// Static errors for configuration validation
var (
	ErrInvalidTargetSeconds = errors.New("target video duration must be positive")
	ErrInvalidDPI           = errors.New("print DPI must be positive")
)

// GIFConfig holds GIF conversion settings
type GIFConfig struct {
	FPS   int `yaml:"fps" default:"10"`
	Scale int `yaml:"scale" default:"512"`
}

// Config holds presentation settings
type Config struct {
	// TargetSeconds is the approximate duration of generated videos;
	// the frame rate is derived as frameCount / TargetSeconds.
	TargetSeconds float64 `yaml:"targetSeconds" default:"6"`
	// DPI is the print resolution stamped into still images.
	DPI       int       `yaml:"dpi" default:"300"`
	FFmpegBin string    `yaml:"ffmpegBin" default:"ffmpeg"`
	GIF       GIFConfig `yaml:"gif"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TargetSeconds <= 0 {
		return ErrInvalidTargetSeconds
	}

	if c.DPI <= 0 {
		return ErrInvalidDPI
	}

	return nil
}
