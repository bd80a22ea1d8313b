package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/render"
	"github.com/goesviz/goesviz/pkg/sequence"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var dayvideoFlags struct {
	month     int
	days      []int
	firstYear int
	lastYear  int
	minutes   []int
	factor    int
	template  string
}

//nolint:gochecknoglobals // Cobra commands are typically global
var dayvideoCmd = &cobra.Command{
	Use:   "dayvideo",
	Short: "Render an average-day video for one month",
	Long: `Builds 24 hourly frames, each averaging that hour of day across the
selected days and years of one month, and assembles them into an MP4
showing the "average day" progressing from midnight to midnight.`,
	RunE: runDayvideo,
}

func init() {
	rootCmd.AddCommand(dayvideoCmd)

	dayvideoCmd.Flags().IntVar(&dayvideoFlags.month, "month", int(time.March), "month to average (1-12)")
	dayvideoCmd.Flags().IntSliceVar(&dayvideoFlags.days, "days", []int{5, 15, 25}, "days of month to sample")
	dayvideoCmd.Flags().IntVar(&dayvideoFlags.firstYear, "first-year", 2018, "first year of the range")
	dayvideoCmd.Flags().IntVar(&dayvideoFlags.lastYear, "last-year", 2024, "last year of the range")
	dayvideoCmd.Flags().IntSliceVar(&dayvideoFlags.minutes, "minutes", []int{0}, "minutes to sample")
	dayvideoCmd.Flags().IntVar(&dayvideoFlags.factor, "factor", 2, "block averaging reduction factor")
	dayvideoCmd.Flags().StringVar(&dayvideoFlags.template, "name", "goes_{{ .Satellite }}_average_day_{{ .Month | lower }}.mp4", "output filename template")
}

func runDayvideo(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := validateMonthDayFlags([]int{dayvideoFlags.month}, dayvideoFlags.days, nil, dayvideoFlags.minutes); err != nil {
		return err
	}

	month := time.Month(dayvideoFlags.month)

	frames, err := sequence.Hourly(sequence.HourlySpec{
		Month:   month,
		Days:    dayvideoFlags.days,
		Years:   sequence.Years(dayvideoFlags.firstYear, dayvideoFlags.lastYear),
		Hours:   sequence.HoursRange(0, 23),
		Minutes: dayvideoFlags.minutes,
	})
	if err != nil {
		return err
	}

	name, err := render.Filename(dayvideoFlags.template, map[string]any{
		"Satellite": config.Source.Satellite,
		"Domain":    config.Source.Domain,
		"Month":     month.String(),
	})
	if err != nil {
		return err
	}

	return renderVideo(cmd.Context(), logger, config, frames, dayvideoFlags.factor, name)
}
