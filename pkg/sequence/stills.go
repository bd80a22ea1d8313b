package sequence

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/goesviz/goesviz/pkg/accumulate"
)

// StillsSpec configures the random seasonal stills: for each listed month,
// PerMonth single-date frames drawn without replacement from that month's
// sampled days across the years, with a fixed seed.
type StillsSpec struct {
	Months   []time.Month
	PerMonth int
	Years    []int
	Days     []int
	Hours    []int
	Minutes  []int
	Seed     int64
}

// RandomStills builds one frame per selected date.
func RandomStills(spec StillsSpec) ([]Frame, error) {
	if len(spec.Months) == 0 {
		return nil, ErrNoMonths
	}
	if spec.PerMonth <= 0 {
		return nil, ErrInvalidPerMonth
	}
	if len(spec.Years) == 0 {
		return nil, ErrNoYears
	}
	if err := validateDays(spec.Days); err != nil {
		return nil, err
	}
	if len(spec.Hours) == 0 {
		return nil, ErrNoHours
	}

	minutes := spec.Minutes
	if len(minutes) == 0 {
		minutes = []int{0}
	}

	rng := rand.New(rand.NewSource(spec.Seed)) //nolint:gosec // deterministic selection, not crypto

	var frames []Frame
	for _, month := range spec.Months {
		var dates []time.Time
		for _, year := range spec.Years {
			for _, day := range spec.Days {
				if day > daysInMonth(year, month) {
					continue
				}
				dates = append(dates, dateOf(year, month, day))
			}
		}

		rng.Shuffle(len(dates), func(i, j int) {
			dates[i], dates[j] = dates[j], dates[i]
		})

		count := spec.PerMonth
		if count > len(dates) {
			count = len(dates)
		}

		for _, date := range dates[:count] {
			frames = append(frames, Frame{
				Label:     fmt.Sprintf("%s_%s", strings.ToLower(month.String()), date.Format("20060102")),
				Selectors: []accumulate.Selector{selector(date, spec.Hours, minutes)},
			})
		}
	}

	return frames, nil
}
