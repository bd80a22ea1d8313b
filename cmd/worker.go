package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/cache"
	"github.com/goesviz/goesviz/pkg/fetch"
	"github.com/goesviz/goesviz/pkg/worker"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the cache warming worker",
	Long: `The worker consumes queued warming tasks, fetching imagery through
the isolated fetch child and populating the sample cache, so rendering
runs find their samples locally.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	store, err := cache.NewStore(logger, &config.Cache)
	if err != nil {
		return err
	}

	runner, err := fetch.NewRunner(logger, &config.Fetch, config.Source)
	if err != nil {
		return err
	}

	redisOpt, err := config.Redis.Options()
	if err != nil {
		return err
	}

	svc, err := worker.NewService(logger, &config.Worker, store, runner, redisOpt)
	if err != nil {
		return err
	}

	if err := svc.Start(cmd.Context()); err != nil {
		return err
	}

	// Block until interrupted.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutting down")
	case <-cmd.Context().Done():
	}

	return svc.Stop()
}
