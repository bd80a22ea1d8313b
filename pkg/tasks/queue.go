package tasks

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// QueueManager manages warming task queuing
type QueueManager struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewQueueManager creates a new queue manager
func NewQueueManager(redisOpt *asynq.RedisClientOpt) *QueueManager {
	return &QueueManager{
		client:    asynq.NewClient(*redisOpt),
		inspector: asynq.NewInspector(*redisOpt),
	}
}

// EnqueueWarm enqueues a cache warming task. The task ID is the sample
// key, so re-enqueuing the same timestamp while a task is still queued
// is a no-op rather than duplicate work.
func (q *QueueManager) EnqueueWarm(payload WarmPayload, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeSampleWarm, data)

	// Default options; a failed fetch is retried on the next schedule
	// tick, not by the queue.
	defaultOpts := []asynq.Option{
		asynq.TaskID(payload.UniqueID()),
		asynq.Queue(payload.QueueName()),
		asynq.MaxRetry(0),
		asynq.Timeout(10 * time.Minute),
	}

	allOpts := defaultOpts
	allOpts = append(allOpts, opts...)

	_, err = q.client.Enqueue(task, allOpts...)
	return err
}

// IsPendingOrRunning checks if a warming task is pending or running
func (q *QueueManager) IsPendingOrRunning(payload WarmPayload) (bool, error) {
	info, err := q.inspector.GetTaskInfo(payload.QueueName(), payload.UniqueID())
	if err != nil {
		if strings.Contains(err.Error(), "NOT FOUND") || strings.Contains(err.Error(), "queue not found") || strings.Contains(err.Error(), "task not found") {
			return false, nil
		}
		return false, err
	}

	return info.State == asynq.TaskStatePending ||
		info.State == asynq.TaskStateActive ||
		info.State == asynq.TaskStateRetry, nil
}

// GetQueueStats returns queue statistics
func (q *QueueManager) GetQueueStats(queueName string) (*asynq.QueueInfo, error) {
	return q.inspector.GetQueueInfo(queueName)
}

// Close closes the queue manager
func (q *QueueManager) Close() error {
	return q.client.Close()
}
