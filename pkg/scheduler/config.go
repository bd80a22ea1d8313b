// Package scheduler periodically enqueues cache warming tasks so recent
// imagery is already local when a rendering run asks for it.
package scheduler

import (
	"errors"
	"time"
)

var (
	// ErrInvalidLookback is returned when the lookback window is not positive
	ErrInvalidLookback = errors.New("lookback must be positive")
	// ErrNoHours is returned when no hours are configured
	ErrNoHours = errors.New("at least one hour is required")
	// ErrInvalidHour is returned when an hour is outside 0-23
	ErrInvalidHour = errors.New("hour must be between 0 and 23")
	// ErrInvalidMinute is returned when a minute is outside 0-59
	ErrInvalidMinute = errors.New("minute must be between 0 and 59")
	// ErrInvalidFactor is returned when the reduction factor is not positive
	ErrInvalidFactor = errors.New("factor must be positive")
)

// Config defines scheduler configuration
type Config struct {
	// Schedule is a cron expression; "@every 6h" style intervals are
	// supported alongside standard five-field expressions.
	Schedule string `yaml:"schedule" default:"@every 6h"`
	// Lookback is how far back from now warm targets are generated.
	Lookback time.Duration `yaml:"lookback" default:"48h"`
	Hours    []int         `yaml:"hours" default:"[17]"`
	Minutes  []int         `yaml:"minutes" default:"[0]"`
	Factor   int           `yaml:"factor" default:"2"`
}

// Validate checks if the scheduler configuration is valid
func (c *Config) Validate() error {
	if c.Lookback <= 0 {
		return ErrInvalidLookback
	}

	if len(c.Hours) == 0 {
		return ErrNoHours
	}

	for _, h := range c.Hours {
		if h < 0 || h > 23 {
			return ErrInvalidHour
		}
	}

	for _, m := range c.Minutes {
		if m < 0 || m > 59 {
			return ErrInvalidMinute
		}
	}

	if c.Factor < 1 {
		return ErrInvalidFactor
	}

	return nil
}

// minutes returns the configured minutes, defaulting to the top of the hour.
func (c *Config) minutes() []int {
	if len(c.Minutes) == 0 {
		return []int{0}
	}

	return c.Minutes
}
