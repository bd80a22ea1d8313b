// Package worker runs the asynq server that executes cache warming tasks
package worker

import (
	"errors"
)

var (
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)

// Config contains worker-specific settings
type Config struct {
	// Concurrency defaults to 1 so at most one upstream fetch runs at a
	// time; the CDN is a shared public service.
	Concurrency     int    `yaml:"concurrency" default:"1"`
	HealthCheckAddr string `yaml:"healthCheckAddr" default:":8090"`
	MetricsAddr     string `yaml:"metricsAddr" default:":9090"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
