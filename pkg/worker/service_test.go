package worker

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goesviz/goesviz/internal/testutil"
	"github.com/goesviz/goesviz/pkg/fetch"
	"github.com/goesviz/goesviz/pkg/sample"
)

type nopCache struct{}

func (nopCache) Get(sample.Key) (*sample.Sample, bool, error) { return nil, false, nil }
func (nopCache) Put(sample.Key, *sample.Sample) error         { return nil }

type nopFetcher struct{}

func (nopFetcher) Fetch(context.Context, sample.Key) (*sample.Sample, fetch.Result, error) {
	return nil, fetch.Result{Status: fetch.StatusNoData}, nil
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "valid", config: Config{Concurrency: 1}},
		{name: "zero concurrency", config: Config{Concurrency: 0}, wantErr: ErrInvalidConcurrency},
		{name: "negative concurrency", config: Config{Concurrency: -3}, wantErr: ErrInvalidConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	log := logrus.New()

	_, err := NewService(log, &Config{Concurrency: 0}, nopCache{}, nopFetcher{}, &redis.Options{})
	assert.ErrorIs(t, err, ErrInvalidConcurrency)
}

func TestServiceLifecycle(t *testing.T) {
	mr := testutil.NewMiniredis(t)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	svc, err := NewService(log, &Config{
		Concurrency:     1,
		HealthCheckAddr: "127.0.0.1:0",
	}, nopCache{}, nopFetcher{}, &redis.Options{Addr: mr.Addr()})
	require.NoError(t, err)

	require.NoError(t, svc.Start(t.Context()))

	// Give the asynq server a beat to come up before tearing down.
	time.Sleep(100 * time.Millisecond)

	assert.NoError(t, svc.Stop())
}

func TestHealthEndpoints(t *testing.T) {
	mr := testutil.NewMiniredis(t)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	svc, err := NewService(log, &Config{
		Concurrency:     1,
		HealthCheckAddr: "127.0.0.1:18090",
	}, nopCache{}, nopFetcher{}, &redis.Options{Addr: mr.Addr()})
	require.NoError(t, err)

	require.NoError(t, svc.Start(t.Context()))
	defer func() { _ = svc.Stop() }()

	// The listener starts asynchronously.
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://127.0.0.1:18090/health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
