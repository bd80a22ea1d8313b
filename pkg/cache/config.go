// Package cache provides the file-backed sample store
package cache

import "errors"

// Static errors for configuration validation
var (
	ErrDirectoryRequired = errors.New("cache directory is required")
)

// Config holds cache store settings
type Config struct {
	Directory string `yaml:"directory" default:"goes_cache"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Directory == "" {
		return ErrDirectoryRequired
	}

	return nil
}
