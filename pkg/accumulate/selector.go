// Package accumulate implements the running-sum reduction that turns many
// satellite samples into one averaged image.
package accumulate

import (
	"errors"
	"fmt"
	"time"
)

// Static errors for selector validation
var (
	ErrHourOutOfRange   = errors.New("hour must be between 0 and 23")
	ErrMinuteOutOfRange = errors.New("minute must be between 0 and 59")
	ErrEmptySelector    = errors.New("selector needs at least one hour and one minute")
)

// Selector names a set of target timestamps on one date: the cartesian
// product of the date with its hour and minute lists.
type Selector struct {
	Date    time.Time
	Hours   []int
	Minutes []int
}

// Validate checks the hour and minute lists.
func (s Selector) Validate() error {
	if len(s.Hours) == 0 || len(s.Minutes) == 0 {
		return ErrEmptySelector
	}

	for _, h := range s.Hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
		}
	}

	for _, m := range s.Minutes {
		if m < 0 || m > 59 {
			return fmt.Errorf("%w: %d", ErrMinuteOutOfRange, m)
		}
	}

	return nil
}

// Expand produces the full ordered set of target timestamps: dates outer,
// hours middle, minutes inner, exactly in input order.
func Expand(selectors []Selector) ([]time.Time, error) {
	var out []time.Time

	for _, sel := range selectors {
		if err := sel.Validate(); err != nil {
			return nil, err
		}

		d := sel.Date.UTC()
		for _, h := range sel.Hours {
			for _, m := range sel.Minutes {
				out = append(out, time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, time.UTC))
			}
		}
	}

	return out, nil
}
