package sequence

import (
	"fmt"
	"math/rand"
	"time"
)

// ProgressiveSpec configures the progressive-averaging video: the dates
// are shuffled with a fixed seed, then frame k averages the first 1, 2,
// 4, 8, ... dates until the whole set is covered.
type ProgressiveSpec struct {
	Dates   []time.Time
	Hours   []int
	Minutes []int
	Seed    int64
}

// Progressive builds the exponential schedule. Counts double from 1; if
// the doubling overshoots the set size, one final frame with the full set
// is appended.
func Progressive(spec ProgressiveSpec) ([]Frame, error) {
	if len(spec.Dates) == 0 {
		return nil, ErrNoDates
	}
	if len(spec.Hours) == 0 {
		return nil, ErrNoHours
	}

	minutes := spec.Minutes
	if len(minutes) == 0 {
		minutes = []int{0}
	}

	dates := make([]time.Time, len(spec.Dates))
	copy(dates, spec.Dates)

	rng := rand.New(rand.NewSource(spec.Seed)) //nolint:gosec // deterministic shuffle, not crypto
	rng.Shuffle(len(dates), func(i, j int) {
		dates[i], dates[j] = dates[j], dates[i]
	})

	counts := []int{}
	for n := 1; n <= len(dates); n *= 2 {
		counts = append(counts, n)
	}
	if counts[len(counts)-1] < len(dates) {
		counts = append(counts, len(dates))
	}

	frames := make([]Frame, 0, len(counts))
	for _, count := range counts {
		frame := Frame{Label: fmt.Sprintf("avg_%04d", count)}
		for _, date := range dates[:count] {
			frame.Selectors = append(frame.Selectors, selector(date, spec.Hours, minutes))
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

// MonthlyDates builds the date universe used by the progressive and
// stills sequencers: the given days of every month across the years.
func MonthlyDates(years []int, days []int) []time.Time {
	var out []time.Time

	for _, year := range years {
		for month := time.January; month <= time.December; month++ {
			for _, day := range days {
				if day > daysInMonth(year, month) {
					continue
				}
				out = append(out, dateOf(year, month, day))
			}
		}
	}

	return out
}
