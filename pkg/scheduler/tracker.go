package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const scheduleKeyPrefix = "goesviz:scheduler:task:"

// scheduleTracker manages execution timestamps for scheduled tasks in Redis
type scheduleTracker interface {
	// GetLastRun retrieves the last execution timestamp for a task.
	// Returns zero time if the task has never run.
	GetLastRun(ctx context.Context, taskID string) (time.Time, error)

	// SetLastRun updates the last execution timestamp for a task
	SetLastRun(ctx context.Context, taskID string, timestamp time.Time) error

	// Close releases resources held by the tracker
	Close() error
}

type redisScheduleTracker struct {
	log   logrus.FieldLogger
	redis *redis.Client
}

// newScheduleTracker creates a Redis-backed schedule tracker
func newScheduleTracker(log logrus.FieldLogger, redisClient *redis.Client) scheduleTracker {
	return &redisScheduleTracker{
		log:   log.WithField("component", "schedule_tracker"),
		redis: redisClient,
	}
}

func (r *redisScheduleTracker) GetLastRun(ctx context.Context, taskID string) (time.Time, error) {
	key := scheduleKeyPrefix + taskID

	val, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}

		return time.Time{}, fmt.Errorf("failed to get last run for task %s: %w", taskID, err)
	}

	timestamp, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp for task %s: %w", taskID, err)
	}

	return timestamp, nil
}

func (r *redisScheduleTracker) SetLastRun(ctx context.Context, taskID string, timestamp time.Time) error {
	key := scheduleKeyPrefix + taskID

	if err := r.redis.Set(ctx, key, timestamp.Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("failed to set last run for task %s: %w", taskID, err)
	}

	r.log.WithFields(logrus.Fields{
		"task_id":   taskID,
		"timestamp": timestamp,
	}).Debug("Updated last run for task")

	return nil
}

func (r *redisScheduleTracker) Close() error {
	if r.redis != nil {
		return r.redis.Close()
	}

	return nil
}

// Verify interface compliance at compile time
var _ scheduleTracker = (*redisScheduleTracker)(nil)
