package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/render"
	"github.com/goesviz/goesviz/pkg/sequence"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var progressiveFlags struct {
	firstYear int
	lastYear  int
	days      []int
	hours     []int
	minutes   []int
	factor    int
	seed      int64
	template  string
}

//nolint:gochecknoglobals // Cobra commands are typically global
var progressiveCmd = &cobra.Command{
	Use:   "progressive",
	Short: "Render a progressive-averaging video",
	Long: `Shuffles the date universe with a fixed seed and renders frames
averaging 1, 2, 4, 8, ... dates, doubling until the full set is reached,
so the video shows noise converging to the climatological mean.`,
	RunE: runProgressive,
}

func init() {
	rootCmd.AddCommand(progressiveCmd)

	progressiveCmd.Flags().IntVar(&progressiveFlags.firstYear, "first-year", 2018, "first year of the range")
	progressiveCmd.Flags().IntVar(&progressiveFlags.lastYear, "last-year", 2024, "last year of the range")
	progressiveCmd.Flags().IntSliceVar(&progressiveFlags.days, "days", []int{5, 15, 25}, "days of month to sample")
	progressiveCmd.Flags().IntSliceVar(&progressiveFlags.hours, "hours", []int{17}, "UTC hours to sample")
	progressiveCmd.Flags().IntSliceVar(&progressiveFlags.minutes, "minutes", []int{0}, "minutes to sample")
	progressiveCmd.Flags().IntVar(&progressiveFlags.factor, "factor", 2, "block averaging reduction factor")
	progressiveCmd.Flags().Int64Var(&progressiveFlags.seed, "seed", 42, "shuffle seed")
	progressiveCmd.Flags().StringVar(&progressiveFlags.template, "name", "goes_{{ .Satellite }}_progressive.mp4", "output filename template")
}

func runProgressive(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := validateMonthDayFlags(nil, progressiveFlags.days, progressiveFlags.hours, progressiveFlags.minutes); err != nil {
		return err
	}

	dates := sequence.MonthlyDates(
		sequence.Years(progressiveFlags.firstYear, progressiveFlags.lastYear),
		progressiveFlags.days,
	)

	frames, err := sequence.Progressive(sequence.ProgressiveSpec{
		Dates:   dates,
		Hours:   progressiveFlags.hours,
		Minutes: progressiveFlags.minutes,
		Seed:    progressiveFlags.seed,
	})
	if err != nil {
		return err
	}

	name, err := render.Filename(progressiveFlags.template, map[string]any{
		"Satellite": config.Source.Satellite,
		"Domain":    config.Source.Domain,
	})
	if err != nil {
		return err
	}

	return renderVideo(cmd.Context(), logger, config, frames, progressiveFlags.factor, name)
}
