package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goesviz/goesviz/pkg/redis"
	"github.com/goesviz/goesviz/pkg/scheduler"
	"github.com/goesviz/goesviz/pkg/tasks"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var warmFlags struct {
	once bool
}

//nolint:gochecknoglobals // Cobra commands are typically global
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Schedule cache warming sweeps",
	Long: `Enqueues warming tasks for recent imagery on the configured cron
schedule. With --once a single sweep is enqueued and the command exits;
otherwise it keeps running and sweeps on every due tick.`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)

	warmCmd.Flags().BoolVar(&warmFlags.once, "once", false, "enqueue a single sweep and exit")
}

func runWarm(cmd *cobra.Command, _ []string) error {
	config, err := setup(cmd)
	if err != nil {
		return err
	}

	redisOpt, err := config.Redis.Options()
	if err != nil {
		return err
	}

	queue := tasks.NewQueueManager(redis.NewAsynqRedisOptions(redisOpt))
	defer func() { _ = queue.Close() }()

	svc, err := scheduler.NewService(logger, &config.Scheduler, &config.Source, redisOpt, queue)
	if err != nil {
		return err
	}

	if warmFlags.once {
		return svc.RunSweep(cmd.Context(), time.Now().UTC())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Start(cmd.Context()) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutting down")

		return svc.Stop()
	case err := <-errCh:
		return err
	}
}
