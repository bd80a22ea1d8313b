package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/render"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var gifFlags struct {
	dir   string
	force bool
}

//nolint:gochecknoglobals // Cobra commands are typically global
var gifCmd = &cobra.Command{
	Use:   "gif",
	Short: "Convert rendered MP4s to GIFs",
	Long: `Walks a directory tree (default: the output directory), finds every
MP4 and writes a sibling GIF using ffmpeg's two-pass palette filter.
Existing GIFs are skipped unless --force is given.`,
	RunE: runGif,
}

func init() {
	rootCmd.AddCommand(gifCmd)

	gifCmd.Flags().StringVar(&gifFlags.dir, "dir", "", "directory to scan (default: output directory)")
	gifCmd.Flags().BoolVar(&gifFlags.force, "force", false, "re-convert even if the GIF already exists")
}

func runGif(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	dir := gifFlags.dir
	if dir == "" {
		dir = config.OutputDir
	}

	videos, err := render.FindVideos(dir)
	if err != nil {
		return err
	}

	if len(videos) == 0 {
		fmt.Printf("No videos found under %s\n", dir)

		return nil
	}

	writer, err := render.NewVideoWriter(logger, &config.Render)
	if err != nil {
		return err
	}

	for _, video := range videos {
		gifPath := render.GIFPath(video)

		if !gifFlags.force {
			if _, statErr := os.Stat(gifPath); statErr == nil {
				logger.WithField("gif", gifPath).Debug("GIF exists, skipping")

				continue
			}
		}

		if err := writer.ConvertGIF(cmd.Context(), video, gifPath); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", gifPath)
	}

	return nil
}
