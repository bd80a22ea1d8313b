package fetch

import (
	"errors"
	"os"
	"time"
)

// Static errors for configuration validation
var (
	ErrScratchRootRequired = errors.New("scratch root directory is required")
	ErrInvalidTimeout      = errors.New("fetch timeout must be positive")
)

// Config holds fetch isolation settings
type Config struct {
	// BinPath is the binary re-executed for each fetch. Empty means the
	// current executable.
	BinPath string `yaml:"binPath"`
	// BinArgs are the arguments handed to BinPath; empty means the
	// hidden fetch-sample subcommand.
	BinArgs []string `yaml:"binArgs"`
	// Timeout bounds one fetch child; a hung child is killed and the
	// timestamp counted as skipped.
	Timeout time.Duration `yaml:"timeout" default:"5m"`
	// ScratchRoot is where per-fetch scratch directories and handoff
	// files live.
	ScratchRoot string `yaml:"scratchRoot"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ScratchRoot == "" {
		return ErrScratchRootRequired
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// binary resolves the executable to spawn.
func (c *Config) binary() (string, error) {
	if c.BinPath != "" {
		return c.BinPath, nil
	}

	return os.Executable()
}

// args resolves the argument vector for the child.
func (c *Config) args() []string {
	if len(c.BinArgs) > 0 {
		return c.BinArgs
	}

	return []string{"fetch-sample"}
}
