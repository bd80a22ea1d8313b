package cmd

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/render"
)

// ErrTooFewInputs is returned when fewer than two inputs are given
var ErrTooFewInputs = errors.New("at least two --inputs are required")

//nolint:gochecknoglobals // Cobra flags are typically global
var compareFlags struct {
	inputs []string
	layout string
	output string
}

//nolint:gochecknoglobals // Cobra commands are typically global
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compose images into a side-by-side comparison",
	Long: `Loads PNG or JPEG images and composes them into one comparison
image, either in a single row (horizontal) or a 2x2 grid (grid, exactly
four inputs).`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringSliceVar(&compareFlags.inputs, "inputs", nil, "input image paths")
	compareCmd.Flags().StringVar(&compareFlags.layout, "layout", string(render.LayoutHorizontal), "layout: horizontal or grid")
	compareCmd.Flags().StringVar(&compareFlags.output, "output", "comparison.png", "output image name")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	if len(compareFlags.inputs) < 2 {
		return ErrTooFewInputs
	}

	images := make([]image.Image, 0, len(compareFlags.inputs))
	for _, path := range compareFlags.inputs {
		img, err := render.LoadImage(path)
		if err != nil {
			return err
		}

		images = append(images, img)
	}

	composed, err := render.Compose(images, render.Layout(compareFlags.layout))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return err
	}

	out := filepath.Join(config.OutputDir, compareFlags.output)
	if err := render.WriteImagePNG(out, composed, config.Render.DPI); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", out)

	return nil
}
