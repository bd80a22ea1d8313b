package tasks

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goesviz/goesviz/internal/testutil"
)

func newTestQueueManager(t *testing.T) *QueueManager {
	t.Helper()

	mr := testutil.NewMiniredis(t)
	qm := NewQueueManager(&asynq.RedisClientOpt{Addr: mr.Addr()})

	t.Cleanup(func() {
		if err := qm.Close(); err != nil {
			t.Logf("failed to close queue manager: %v", err)
		}
	})

	return qm
}

func warmPayloadAt(hour int) WarmPayload {
	return WarmPayload{
		Satellite:  16,
		Domain:     "F",
		Time:       time.Date(2020, 3, 15, hour, 0, 0, 0, time.UTC),
		Factor:     2,
		EnqueuedAt: time.Now().UTC(),
	}
}

func TestEnqueueWarm(t *testing.T) {
	qm := newTestQueueManager(t)
	payload := warmPayloadAt(17)

	require.NoError(t, qm.EnqueueWarm(payload))

	pending, err := qm.IsPendingOrRunning(payload)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestEnqueueWarmDeduplicates(t *testing.T) {
	qm := newTestQueueManager(t)
	payload := warmPayloadAt(17)

	require.NoError(t, qm.EnqueueWarm(payload))

	// Same sample key again while pending: asynq rejects the duplicate ID.
	err := qm.EnqueueWarm(payload)
	assert.ErrorIs(t, err, asynq.ErrTaskIDConflict)

	stats, err := qm.GetQueueStats(QueueWarm)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
}

func TestEnqueueWarmDistinctTimestamps(t *testing.T) {
	qm := newTestQueueManager(t)

	require.NoError(t, qm.EnqueueWarm(warmPayloadAt(16)))
	require.NoError(t, qm.EnqueueWarm(warmPayloadAt(17)))

	stats, err := qm.GetQueueStats(QueueWarm)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)
}

func TestIsPendingOrRunningUnknownTask(t *testing.T) {
	qm := newTestQueueManager(t)

	pending, err := qm.IsPendingOrRunning(warmPayloadAt(3))
	require.NoError(t, err)
	assert.False(t, pending)
}
