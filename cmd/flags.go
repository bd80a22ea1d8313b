package cmd

import (
	"errors"
	"fmt"
	"time"
)

// Static errors for flag validation
var (
	ErrMonthOutOfRange  = errors.New("month must be between 1 and 12")
	ErrDayOutOfRange    = errors.New("day must be between 1 and 31")
	ErrHourOutOfRange   = errors.New("hour must be between 0 and 23")
	ErrMinuteOutOfRange = errors.New("minute must be between 0 and 59")
)

// validateMonthDayFlags range-checks calendar flags before any work
// starts; a typo'd --days 32 should fail fast, not after an hour of
// fetching.
func validateMonthDayFlags(months, days, hours, minutes []int) error {
	for _, m := range months {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: %d", ErrMonthOutOfRange, m)
		}
	}

	for _, d := range days {
		if d < 1 || d > 31 {
			return fmt.Errorf("%w: %d", ErrDayOutOfRange, d)
		}
	}

	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
		}
	}

	for _, m := range minutes {
		if m < 0 || m > 59 {
			return fmt.Errorf("%w: %d", ErrMinuteOutOfRange, m)
		}
	}

	return nil
}

// monthsOf converts validated month numbers to time.Month values.
func monthsOf(months []int) []time.Month {
	out := make([]time.Month, len(months))
	for i, m := range months {
		out[i] = time.Month(m)
	}

	return out
}
