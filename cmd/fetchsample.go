package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/fetch"
)

// fetchSampleCmd is the hidden child end of the fetch isolation boundary:
// the runner re-executes this binary with this subcommand, writes one
// JSON request to stdin and reads one JSON result from stdout. Decoder
// crashes take down this process, never the parent.
//
//nolint:gochecknoglobals // Cobra commands are typically global
var fetchSampleCmd = &cobra.Command{
	Use:    "fetch-sample",
	Hidden: true,
	Short:  "Fetch one sample (internal)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		return fetch.RunChild(cmd.Context(), logger, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(fetchSampleCmd)
}
