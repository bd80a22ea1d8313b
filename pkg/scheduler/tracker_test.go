package scheduler

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goesviz/goesviz/internal/testutil"
)

func newTestTracker(t *testing.T) scheduleTracker {
	t.Helper()

	_, client := testutil.NewMiniredisClient(t)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return &redisScheduleTracker{log: log, redis: client}
}

func TestTrackerNeverRun(t *testing.T) {
	tracker := newTestTracker(t)

	lastRun, err := tracker.GetLastRun(t.Context(), warmTaskID)
	require.NoError(t, err)
	assert.True(t, lastRun.IsZero())
}

func TestTrackerRoundTrip(t *testing.T) {
	tracker := newTestTracker(t)
	stamp := time.Date(2020, 3, 15, 20, 0, 0, 0, time.UTC)

	require.NoError(t, tracker.SetLastRun(t.Context(), warmTaskID, stamp))

	lastRun, err := tracker.GetLastRun(t.Context(), warmTaskID)
	require.NoError(t, err)
	assert.True(t, stamp.Equal(lastRun))
}

func TestTrackerTasksAreIndependent(t *testing.T) {
	tracker := newTestTracker(t)

	require.NoError(t, tracker.SetLastRun(t.Context(), "warm:sweep", time.Now().UTC()))

	other, err := tracker.GetLastRun(t.Context(), "warm:other")
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}
