package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/render"
	"github.com/goesviz/goesviz/pkg/sequence"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var yearvideoFlags struct {
	window    int
	stride    int
	firstYear int
	lastYear  int
	hours     []int
	minutes   []int
	factor    int
	template  string
}

//nolint:gochecknoglobals // Cobra commands are typically global
var yearvideoCmd = &cobra.Command{
	Use:   "yearvideo",
	Short: "Render a seasonal sliding-window video across the year",
	Long: `Slides a window over the odd days of the calendar year, averaging
each window across all configured years at fixed hours, and assembles
the windows into an MP4 that sweeps through the seasons. Windows that
run past December wrap into January.`,
	RunE: runYearvideo,
}

func init() {
	rootCmd.AddCommand(yearvideoCmd)

	yearvideoCmd.Flags().IntVar(&yearvideoFlags.window, "window", 6, "window size in odd-day positions")
	yearvideoCmd.Flags().IntVar(&yearvideoFlags.stride, "stride", 0, "positions to advance per frame (0 targets about 40 frames)")
	yearvideoCmd.Flags().IntVar(&yearvideoFlags.firstYear, "first-year", 2018, "first year of the range")
	yearvideoCmd.Flags().IntVar(&yearvideoFlags.lastYear, "last-year", 2024, "last year of the range")
	yearvideoCmd.Flags().IntSliceVar(&yearvideoFlags.hours, "hours", []int{17}, "UTC hours to sample")
	yearvideoCmd.Flags().IntSliceVar(&yearvideoFlags.minutes, "minutes", []int{0}, "minutes to sample")
	yearvideoCmd.Flags().IntVar(&yearvideoFlags.factor, "factor", 2, "block averaging reduction factor")
	yearvideoCmd.Flags().StringVar(&yearvideoFlags.template, "name", "goes_{{ .Satellite }}_seasonal_w{{ .Window }}.mp4", "output filename template")
}

func runYearvideo(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := validateMonthDayFlags(nil, nil, yearvideoFlags.hours, yearvideoFlags.minutes); err != nil {
		return err
	}

	frames, err := sequence.Seasonal(sequence.SeasonalSpec{
		Years:      sequence.Years(yearvideoFlags.firstYear, yearvideoFlags.lastYear),
		WindowSize: yearvideoFlags.window,
		Stride:     yearvideoFlags.stride,
		Hours:      yearvideoFlags.hours,
		Minutes:    yearvideoFlags.minutes,
	})
	if err != nil {
		return err
	}

	name, err := render.Filename(yearvideoFlags.template, map[string]any{
		"Satellite": config.Source.Satellite,
		"Domain":    config.Source.Domain,
		"Window":    yearvideoFlags.window,
	})
	if err != nil {
		return err
	}

	return renderVideo(cmd.Context(), logger, config, frames, yearvideoFlags.factor, name)
}
