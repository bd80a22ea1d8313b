package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/accumulate"
	"github.com/goesviz/goesviz/pkg/pipeline"
	"github.com/goesviz/goesviz/pkg/render"
	"github.com/goesviz/goesviz/pkg/sequence"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var climatologyFlags struct {
	firstYear int
	lastYear  int
	days      []int
	hours     []int
	minutes   []int
	factor    int
	template  string
}

//nolint:gochecknoglobals // Cobra commands are typically global
var climatologyCmd = &cobra.Command{
	Use:   "climatology",
	Short: "Render a noon climatology still averaged across years",
	Long: `Averages imagery from the given days of every month across a year
range at the given hours (default 17:00 UTC, local noon at the GOES-East
nadir) into a single climatology PNG.`,
	RunE: runClimatology,
}

func init() {
	rootCmd.AddCommand(climatologyCmd)

	climatologyCmd.Flags().IntVar(&climatologyFlags.firstYear, "first-year", 2018, "first year of the range")
	climatologyCmd.Flags().IntVar(&climatologyFlags.lastYear, "last-year", 2024, "last year of the range")
	climatologyCmd.Flags().IntSliceVar(&climatologyFlags.days, "days", []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23, 25, 27}, "days of month to sample")
	climatologyCmd.Flags().IntSliceVar(&climatologyFlags.hours, "hours", []int{17}, "UTC hours to sample")
	climatologyCmd.Flags().IntSliceVar(&climatologyFlags.minutes, "minutes", []int{0}, "minutes to sample")
	climatologyCmd.Flags().IntVar(&climatologyFlags.factor, "factor", 2, "block averaging reduction factor")
	climatologyCmd.Flags().StringVar(&climatologyFlags.template, "name", "goes_{{ .Satellite }}_noon_climatology_{{ .Count }}imgs.png", "output filename template")
}

func runClimatology(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := validateMonthDayFlags(nil, climatologyFlags.days, climatologyFlags.hours, climatologyFlags.minutes); err != nil {
		return err
	}

	years := sequence.Years(climatologyFlags.firstYear, climatologyFlags.lastYear)
	dates := sequence.MonthlyDates(years, climatologyFlags.days)

	selectors := make([]accumulate.Selector, 0, len(dates))
	for _, date := range dates {
		selectors = append(selectors, accumulate.Selector{
			Date:    date,
			Hours:   climatologyFlags.hours,
			Minutes: climatologyFlags.minutes,
		})
	}

	accumulator, err := buildAccumulator(logger, config, climatologyFlags.factor)
	if err != nil {
		return err
	}

	outcome, err := accumulator.Average(cmd.Context(), selectors)
	if err != nil {
		return err
	}

	name, err := render.Filename(climatologyFlags.template, map[string]any{
		"Satellite": config.Source.Satellite,
		"Domain":    config.Source.Domain,
		"Count":     outcome.Used,
	})
	if err != nil {
		return err
	}

	frame := pipeline.RenderedFrame{
		Label:     "climatology",
		Image:     outcome.Image,
		Used:      outcome.Used,
		Requested: outcome.Requested,
	}

	if err := writeStill(config, frame, name); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d of %d samples)\n", name, outcome.Used, outcome.Requested)

	return nil
}
