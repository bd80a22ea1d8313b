package sequence

import (
	"fmt"
	"time"
)

// HourlySpec configures the average-day progression: one frame per hour,
// each averaging that hour across every (year, day) combination of one
// month.
type HourlySpec struct {
	Month   time.Month
	Days    []int
	Years   []int
	Hours   []int
	Minutes []int
}

// Hourly builds the hourly progression frames in hour order.
func Hourly(spec HourlySpec) ([]Frame, error) {
	if spec.Month < time.January || spec.Month > time.December {
		return nil, ErrMonthOutOfRange
	}
	if err := validateDays(spec.Days); err != nil {
		return nil, err
	}
	if len(spec.Years) == 0 {
		return nil, ErrNoYears
	}
	if len(spec.Hours) == 0 {
		return nil, ErrNoHours
	}

	minutes := spec.Minutes
	if len(minutes) == 0 {
		minutes = []int{0}
	}

	frames := make([]Frame, 0, len(spec.Hours))
	for _, hour := range spec.Hours {
		frame := Frame{Label: fmt.Sprintf("hour_%02dZ", hour)}

		for _, year := range spec.Years {
			for _, day := range spec.Days {
				frame.Selectors = append(frame.Selectors, selector(dateOf(year, spec.Month, day), []int{hour}, minutes))
			}
		}

		frames = append(frames, frame)
	}

	return frames, nil
}
