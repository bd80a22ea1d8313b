// Package sequence builds the ordered date subsets that become output
// frames. Every sequencer is a pure function from a spec to a frame list;
// the accumulator is invoked once per frame by the pipeline.
package sequence

import (
	"errors"
	"time"

	"github.com/goesviz/goesviz/pkg/accumulate"
)

// Static errors for sequencer validation
var (
	ErrNoYears          = errors.New("at least one year is required")
	ErrNoDays           = errors.New("at least one day is required")
	ErrMonthOutOfRange  = errors.New("month must be between 1 and 12")
	ErrDayOutOfRange    = errors.New("day must be between 1 and 31")
	ErrInvalidWindow    = errors.New("window size must be positive")
	ErrNoDates          = errors.New("at least one date is required")
	ErrInvalidPerMonth  = errors.New("images per month must be positive")
	ErrNoMonths         = errors.New("at least one month is required")
	ErrNoHours          = errors.New("at least one hour is required")
)

// Frame names one output frame: a label used in filenames and logs, and
// the selectors whose timestamps are averaged into the frame.
type Frame struct {
	Label     string
	Selectors []accumulate.Selector
}

// Years expands an inclusive year range.
func Years(first, last int) []int {
	if last < first {
		return nil
	}

	out := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		out = append(out, y)
	}

	return out
}

// HoursRange expands an inclusive hour range, e.g. HoursRange(0, 23).
func HoursRange(first, last int) []int {
	return Years(first, last)
}

func validateDays(days []int) error {
	if len(days) == 0 {
		return ErrNoDays
	}

	for _, d := range days {
		if d < 1 || d > 31 {
			return ErrDayOutOfRange
		}
	}

	return nil
}

func dateOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func selector(date time.Time, hours, minutes []int) accumulate.Selector {
	return accumulate.Selector{Date: date, Hours: hours, Minutes: minutes}
}
