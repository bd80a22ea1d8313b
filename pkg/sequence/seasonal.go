package sequence

import (
	"fmt"
	"time"
)

// referenceYear anchors the position axis. A leap year, so February
// contributes its full set of odd days in every sampled year.
const referenceYear = 2020

// defaultFrameTarget sizes the automatic stride to roughly this many
// frames across the year.
const defaultFrameTarget = 40

// SeasonalSpec configures the seasonal sliding-window progression: the
// position axis is every odd day of the year, each frame averages a
// window of consecutive positions across all years, and consecutive
// frames advance by Stride positions. Windows wrap circularly so the
// last frames blend December back into January.
type SeasonalSpec struct {
	Years      []int
	WindowSize int
	// Stride is the position advance between frames; 0 picks one
	// aiming for about 40 frames.
	Stride  int
	Hours   []int
	Minutes []int
}

type position struct {
	month time.Month
	day   int
}

// oddDayPositions builds the fixed position axis from the reference year.
func oddDayPositions() []position {
	var out []position

	for month := time.January; month <= time.December; month++ {
		days := daysInMonth(referenceYear, month)
		for day := 1; day <= days; day += 2 {
			out = append(out, position{month: month, day: day})
		}
	}

	return out
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Seasonal builds the sliding-window frames. Every frame covers exactly
// WindowSize positions, including across the wrap boundary.
func Seasonal(spec SeasonalSpec) ([]Frame, error) {
	if len(spec.Years) == 0 {
		return nil, ErrNoYears
	}
	if spec.WindowSize <= 0 {
		return nil, ErrInvalidWindow
	}
	if len(spec.Hours) == 0 {
		return nil, ErrNoHours
	}

	minutes := spec.Minutes
	if len(minutes) == 0 {
		minutes = []int{0}
	}

	axis := oddDayPositions()
	total := len(axis)

	stride := spec.Stride
	if stride <= 0 {
		stride = total / defaultFrameTarget
		if stride < 1 {
			stride = 1
		}
	}

	var frames []Frame
	for start := 0; start < total; start += stride {
		window := make([]position, 0, spec.WindowSize)
		for i := 0; i < spec.WindowSize; i++ {
			window = append(window, axis[(start+i)%total])
		}

		first := window[0]
		last := window[len(window)-1]
		frame := Frame{
			Label: fmt.Sprintf("window_%02d%02d_to_%02d%02d", first.month, first.day, last.month, last.day),
		}

		for _, pos := range window {
			for _, year := range spec.Years {
				// The Feb 29 position only exists in leap years
				if pos.day > daysInMonth(year, pos.month) {
					continue
				}
				frame.Selectors = append(frame.Selectors, selector(dateOf(year, pos.month, pos.day), spec.Hours, minutes))
			}
		}

		frames = append(frames, frame)
	}

	return frames, nil
}
