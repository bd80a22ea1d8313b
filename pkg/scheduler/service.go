package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/goes"
	"github.com/goesviz/goesviz/pkg/observability"
	"github.com/goesviz/goesviz/pkg/tasks"
)

// warmTaskID tracks the warming sweep as a single scheduled task
const warmTaskID = "warm:sweep"

// Service defines the public interface for the scheduler
type Service interface {
	// Start initializes and starts the scheduler service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler service
	Stop() error

	// RunSweep enqueues one warming sweep immediately
	RunSweep(ctx context.Context, now time.Time) error
}

// service enqueues warming sweeps on a cron interval
type service struct {
	log logrus.FieldLogger
	cfg *Config

	done chan struct{}
	wg   sync.WaitGroup

	source   *goes.Config
	queue    *tasks.QueueManager
	tracker  scheduleTracker
	interval time.Duration
}

// NewService creates a new scheduler service
func NewService(log logrus.FieldLogger, cfg *Config, source *goes.Config, redisOpt *redis.Options, queue *tasks.QueueManager) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval, err := parseScheduleInterval(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	return &service{
		log:      log.WithField("service", "scheduler"),
		cfg:      cfg,
		done:     make(chan struct{}),
		source:   source,
		queue:    queue,
		tracker:  newScheduleTracker(log, redis.NewClient(redisOpt)),
		interval: interval,
	}, nil
}

// Start begins the ticker loop. Blocks until the context is canceled or
// Stop is called.
func (s *service) Start(ctx context.Context) error {
	s.log.WithFields(logrus.Fields{
		"schedule": s.cfg.Schedule,
		"interval": s.interval,
		"lookback": s.cfg.Lookback,
	}).Info("Starting scheduler service")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	// Run a sweep check immediately rather than waiting a full tick.
	s.checkSchedule(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-ticker.C:
			s.checkSchedule(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler service
func (s *service) Stop() error {
	close(s.done)

	if err := s.tracker.Close(); err != nil {
		s.log.WithError(err).Error("Failed to close schedule tracker")
	}

	s.log.Info("Scheduler service stopped")

	return nil
}

func (s *service) checkSchedule(ctx context.Context) {
	now := time.Now().UTC()

	lastRun, err := s.tracker.GetLastRun(ctx, warmTaskID)
	if err != nil {
		s.log.WithError(err).Warn("Failed to get last run, will retry next tick")

		return
	}

	if now.Before(lastRun.Add(s.interval)) {
		return
	}

	if err := s.RunSweep(ctx, now); err != nil {
		s.log.WithError(err).Error("Warming sweep failed")

		return
	}

	if err := s.tracker.SetLastRun(ctx, warmTaskID, now); err != nil {
		s.log.WithError(err).Error("Failed to update last run timestamp")
	}
}

// RunSweep enqueues warm tasks for every target in the lookback window.
// Timestamps already queued or running dedupe on the task ID.
func (s *service) RunSweep(ctx context.Context, now time.Time) error {
	satellite, err := goes.SatelliteNumber(s.source.Satellite)
	if err != nil {
		return err
	}

	targets := Targets(s.cfg, now)
	enqueued := 0

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload := tasks.WarmPayload{
			Satellite:  satellite,
			Domain:     s.source.Domain,
			Time:       target,
			Factor:     s.cfg.Factor,
			EnqueuedAt: now,
		}

		if err := s.queue.EnqueueWarm(payload); err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}

			return fmt.Errorf("failed to enqueue warm task: %w", err)
		}

		observability.RecordWarmEnqueued()

		enqueued++
	}

	s.log.WithFields(logrus.Fields{
		"targets":  len(targets),
		"enqueued": enqueued,
	}).Info("Enqueued warming sweep")

	return nil
}

// Targets expands the configured hours and minutes over every day of the
// lookback window, oldest first, excluding timestamps in the future.
func Targets(cfg *Config, now time.Time) []time.Time {
	now = now.UTC()
	minutes := cfg.minutes()

	first := now.Add(-cfg.Lookback)
	firstDay := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)

	var out []time.Time

	for day := firstDay; !day.After(now); day = day.AddDate(0, 0, 1) {
		for _, hour := range cfg.Hours {
			for _, minute := range minutes {
				target := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
				if target.Before(first) || target.After(now) {
					continue
				}

				out = append(out, target)
			}
		}
	}

	return out
}

// parseScheduleInterval converts a cron schedule string to a duration.
// Supports the @every form directly; standard five-field expressions are
// reduced to the gap between their next two firings.
func parseScheduleInterval(schedule string) (time.Duration, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	sched, err := parser.Parse(schedule)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule format: %w", err)
	}

	if strings.HasPrefix(schedule, "@every ") {
		duration, err := time.ParseDuration(strings.TrimPrefix(schedule, "@every "))
		if err != nil {
			return 0, fmt.Errorf("failed to parse @every duration: %w", err)
		}

		return duration, nil
	}

	now := time.Now()
	next1 := sched.Next(now)
	next2 := sched.Next(next1)

	return next2.Sub(next1), nil
}

// Verify interface compliance at compile time
var _ Service = (*service)(nil)
