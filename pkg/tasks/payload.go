// Package tasks provides cache warming task queuing using Asynq
package tasks

import (
	"time"

	"github.com/goesviz/goesviz/pkg/sample"
)

const (
	// TypeSampleWarm is the task type for cache warming fetches
	TypeSampleWarm = "sample:warm"
	// QueueWarm is the queue all warming tasks share
	QueueWarm = "warm"
)

// WarmPayload describes one sample to pre-fetch into the cache
type WarmPayload struct {
	Satellite  int       `json:"satellite"`
	Domain     string    `json:"domain"`
	Time       time.Time `json:"time"`
	Factor     int       `json:"factor"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Key returns the sample key this payload targets
func (p WarmPayload) Key() sample.Key {
	return sample.NewKey(p.Satellite, p.Domain, p.Time, p.Factor)
}

// UniqueID returns a unique identifier for this task
func (p WarmPayload) UniqueID() string {
	return p.Key().String()
}

// QueueName returns the queue name for this task payload
func (p WarmPayload) QueueName() string {
	return QueueWarm
}
