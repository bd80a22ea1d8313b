package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goesviz/goesviz/pkg/fetch"
	"github.com/goesviz/goesviz/pkg/sample"
)

type fakeCache struct {
	entries map[string]*sample.Sample
	getErr  error
	putErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*sample.Sample{}}
}

func (c *fakeCache) Get(key sample.Key) (*sample.Sample, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	grid, ok := c.entries[key.String()]
	return grid, ok, nil
}

func (c *fakeCache) Put(key sample.Key, grid *sample.Sample) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[key.String()] = grid
	return nil
}

type fakeFetcher struct {
	grid   *sample.Sample
	result fetch.Result
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ sample.Key) (*sample.Sample, fetch.Result, error) {
	f.calls++
	return f.grid, f.result, f.err
}

func testHandler(cache *fakeCache, fetcher *fakeFetcher) *TaskHandler {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return NewTaskHandler(log, cache, fetcher)
}

func warmTask(t *testing.T) (*asynq.Task, WarmPayload) {
	t.Helper()

	payload := WarmPayload{
		Satellite: 16,
		Domain:    "F",
		Time:      time.Date(2020, 3, 15, 17, 0, 0, 0, time.UTC),
		Factor:    2,
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	return asynq.NewTask(TypeSampleWarm, data), payload
}

func constant(v float32) *sample.Sample {
	grid := sample.New(2, 2)
	for i := range grid.Data {
		grid.Data[i] = v
	}
	return grid
}

func TestHandleWarm_FetchesAndCaches(t *testing.T) {
	cache := newFakeCache()
	fetcher := &fakeFetcher{grid: constant(0.5), result: fetch.Result{Status: fetch.StatusOK}}
	task, payload := warmTask(t)

	require.NoError(t, testHandler(cache, fetcher).HandleWarm(t.Context(), task))

	cached, ok, err := cache.Get(payload.Key())
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5, cached.At(0, 0, 0), 1e-6)
}

func TestHandleWarm_CachedSampleSkipsFetch(t *testing.T) {
	cache := newFakeCache()
	fetcher := &fakeFetcher{grid: constant(0.5), result: fetch.Result{Status: fetch.StatusOK}}
	task, payload := warmTask(t)

	require.NoError(t, cache.Put(payload.Key(), constant(0.1)))
	require.NoError(t, testHandler(cache, fetcher).HandleWarm(t.Context(), task))

	assert.Zero(t, fetcher.calls)
}

func TestHandleWarm_NoDataCompletesTask(t *testing.T) {
	cache := newFakeCache()
	fetcher := &fakeFetcher{result: fetch.Result{Status: fetch.StatusNoData}}
	task, payload := warmTask(t)

	require.NoError(t, testHandler(cache, fetcher).HandleWarm(t.Context(), task))

	_, ok, _ := cache.Get(payload.Key())
	assert.False(t, ok)
}

func TestHandleWarm_SkippedCompletesTask(t *testing.T) {
	cache := newFakeCache()
	fetcher := &fakeFetcher{result: fetch.Result{Status: fetch.StatusSkipped, Reason: "fetch timed out"}}
	task, _ := warmTask(t)

	assert.NoError(t, testHandler(cache, fetcher).HandleWarm(t.Context(), task))
}

func TestHandleWarm_FetchErrorFailsTask(t *testing.T) {
	boom := errors.New("runner exploded")
	cache := newFakeCache()
	fetcher := &fakeFetcher{err: boom}
	task, _ := warmTask(t)

	err := testHandler(cache, fetcher).HandleWarm(t.Context(), task)
	assert.ErrorIs(t, err, boom)
}

func TestHandleWarm_MalformedPayload(t *testing.T) {
	task := asynq.NewTask(TypeSampleWarm, []byte("{not json"))

	err := testHandler(newFakeCache(), &fakeFetcher{}).HandleWarm(t.Context(), task)
	assert.Error(t, err)
}

func TestRoutes(t *testing.T) {
	routes := testHandler(newFakeCache(), &fakeFetcher{}).Routes()
	assert.Contains(t, routes, TypeSampleWarm)
}
