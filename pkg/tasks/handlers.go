package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/accumulate"
	"github.com/goesviz/goesviz/pkg/fetch"
	"github.com/goesviz/goesviz/pkg/observability"
)

// TaskHandler executes cache warming tasks
type TaskHandler struct {
	cache   accumulate.SampleCache
	fetcher accumulate.Fetcher
	log     logrus.FieldLogger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(log logrus.FieldLogger, cache accumulate.SampleCache, fetcher accumulate.Fetcher) *TaskHandler {
	return &TaskHandler{
		cache:   cache,
		fetcher: fetcher,
		log:     log.WithField("component", "task-handler"),
	}
}

// HandleWarm fetches one sample into the cache. A timestamp with no
// upstream imagery is a completed task, not a failure: re-running it
// would produce the same nothing.
func (h *TaskHandler) HandleWarm(ctx context.Context, t *asynq.Task) error {
	var payload WarmPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		observability.RecordWarmTask("unmarshal_error")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	key := payload.Key()
	log := h.log.WithField("key", key.String())

	startTime := time.Now()

	if _, ok, err := h.cache.Get(key); err == nil && ok {
		observability.RecordWarmTask("cached")
		log.Debug("Sample already cached")

		return nil
	}

	grid, result, err := h.fetcher.Fetch(ctx, key)
	if err != nil {
		observability.RecordWarmTask("error")
		return fmt.Errorf("warm fetch failed: %w", err)
	}

	switch result.Status {
	case fetch.StatusOK:
		if err := h.cache.Put(key, grid); err != nil {
			observability.RecordWarmTask("error")
			return fmt.Errorf("failed to cache sample: %w", err)
		}

		observability.RecordWarmTask("ok")
		log.WithField("duration", time.Since(startTime)).Info("Warmed sample")
	case fetch.StatusNoData:
		observability.RecordWarmTask("no_data")
		log.Debug("No imagery for timestamp")
	case fetch.StatusSkipped:
		observability.RecordWarmTask("skipped")
		log.WithField("reason", result.Reason).Warn("Fetch skipped")
	}

	return nil
}

// Routes returns the task handler routes for Asynq
func (h *TaskHandler) Routes() map[string]asynq.HandlerFunc {
	return map[string]asynq.HandlerFunc{
		TypeSampleWarm: h.HandleWarm,
	}
}
