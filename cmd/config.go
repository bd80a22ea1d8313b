package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goesviz/goesviz/pkg/accumulate"
	"github.com/goesviz/goesviz/pkg/cache"
	"github.com/goesviz/goesviz/pkg/fetch"
	"github.com/goesviz/goesviz/pkg/goes"
	"github.com/goesviz/goesviz/pkg/observability"
	"github.com/goesviz/goesviz/pkg/pipeline"
	"github.com/goesviz/goesviz/pkg/redis"
	"github.com/goesviz/goesviz/pkg/render"
	"github.com/goesviz/goesviz/pkg/scheduler"
	"github.com/goesviz/goesviz/pkg/sequence"
	"github.com/goesviz/goesviz/pkg/worker"
)

// Config is the shared application configuration loaded from YAML
type Config struct {
	// OutputDir is where stills, videos and GIFs are written
	OutputDir string `yaml:"outputDir" default:"output"`
	// MetricsAddr starts the prometheus endpoint when set
	MetricsAddr string `yaml:"metricsAddr"`

	Source    goes.Config      `yaml:"source"`
	Cache     cache.Config     `yaml:"cache"`
	Fetch     fetch.Config     `yaml:"fetch"`
	Render    render.Config    `yaml:"render"`
	Redis     redis.Config     `yaml:"redis"`
	Worker    worker.Config    `yaml:"worker"`
	Scheduler scheduler.Config `yaml:"scheduler"`
}

// loadConfig reads the shared configuration, applying defaults first. A
// missing file is not an error; everything has a workable default.
func loadConfig(path string) (*Config, error) {
	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if os.IsNotExist(err) {
			return config, applyDerivedDefaults(config)
		}

		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, applyDerivedDefaults(config)
}

// applyDerivedDefaults fills settings whose defaults depend on the
// environment rather than a struct tag.
func applyDerivedDefaults(config *Config) error {
	if config.Fetch.ScratchRoot == "" {
		config.Fetch.ScratchRoot = filepath.Join(os.TempDir(), "goesviz")
	}

	return config.Source.Validate()
}

// setup is the common RunE preamble: silence cobra's usage echo, load
// the shared configuration and start the metrics endpoint if configured.
func setup(cmd *cobra.Command) (*Config, error) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	config, err := loadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if config.MetricsAddr != "" {
		observability.StartMetricsServer(config.MetricsAddr)
	}

	return config, nil
}

// buildAccumulator wires the cache store and the isolated fetch runner
// into an accumulator for the given reduction factor.
func buildAccumulator(log logrus.FieldLogger, config *Config, factor int) (*accumulate.Accumulator, error) {
	store, err := cache.NewStore(log, &config.Cache)
	if err != nil {
		return nil, err
	}

	runner, err := fetch.NewRunner(log, &config.Fetch, config.Source)
	if err != nil {
		return nil, err
	}

	satellite, err := goes.SatelliteNumber(config.Source.Satellite)
	if err != nil {
		return nil, err
	}

	params := accumulate.Params{
		Satellite: satellite,
		Domain:    config.Source.Domain,
		Factor:    factor,
	}

	return accumulate.New(log, store, runner, params), nil
}

// renderVideo runs a frame sequence through the pipeline and encodes the
// surviving frames into an MP4 under the output directory.
func renderVideo(ctx context.Context, log logrus.FieldLogger, config *Config, frames []sequence.Frame, factor int, name string) error {
	accumulator, err := buildAccumulator(log, config, factor)
	if err != nil {
		return err
	}

	rendered, err := pipeline.New(log, accumulator).Render(ctx, frames)
	if err != nil {
		return err
	}

	writer, err := render.NewVideoWriter(log, &config.Render)
	if err != nil {
		return err
	}

	return writer.Write(ctx, pipeline.Images(rendered), filepath.Join(config.OutputDir, name))
}

// writeStill writes one averaged frame as a PNG under the output directory.
func writeStill(config *Config, frame pipeline.RenderedFrame, name string) error {
	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return err
	}

	return render.WritePNG(filepath.Join(config.OutputDir, name), frame.Image, config.Render.DPI)
}
