package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/accumulate"
	"github.com/goesviz/goesviz/pkg/observability"
	r "github.com/goesviz/goesviz/pkg/redis"
	"github.com/goesviz/goesviz/pkg/tasks"
)

// Service defines the public interface for the worker service
type Service interface {
	// Start initializes and starts the worker service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker service
	Stop() error
}

// service encapsulates the worker application logic
type service struct {
	config *Config
	log    logrus.FieldLogger

	done chan struct{}
	wg   sync.WaitGroup

	cache    accumulate.SampleCache
	fetcher  accumulate.Fetcher
	redisOpt *redis.Options

	server       *asynq.Server
	healthServer *http.Server
}

// NewService creates a new worker service
func NewService(log logrus.FieldLogger, cfg *Config, cache accumulate.SampleCache, fetcher accumulate.Fetcher, redisOpt *redis.Options) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &service{
		log:      log.WithField("service", "worker"),
		config:   cfg,
		done:     make(chan struct{}),
		cache:    cache,
		fetcher:  fetcher,
		redisOpt: redisOpt,
	}, nil
}

// Start initializes and starts the worker service
func (s *service) Start(_ context.Context) error {
	handler := tasks.NewTaskHandler(s.log, s.cache, s.fetcher)

	s.log.WithField("concurrency", s.config.Concurrency).Info("Starting worker service")

	srv := asynq.NewServer(r.NewAsynqRedisOptions(s.redisOpt), asynq.Config{
		Concurrency: s.config.Concurrency,
		Queues: map[string]int{
			tasks.QueueWarm: 10,
		},
	})

	mux := asynq.NewServeMux()
	for taskType, handlerFunc := range handler.Routes() {
		mux.HandleFunc(taskType, handlerFunc)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if runErr := srv.Run(mux); runErr != nil {
			s.log.WithError(runErr).Error("Worker server stopped with error")
		}
	}()

	s.server = srv

	if s.config.HealthCheckAddr != "" {
		s.startHealthCheck()
	}

	if s.config.MetricsAddr != "" {
		observability.StartMetricsServer(s.config.MetricsAddr)
	}

	s.log.Info("Worker service started successfully")

	return nil
}

// Stop gracefully shuts down the worker service
func (s *service) Stop() error {
	close(s.done)

	if s.server != nil {
		s.server.Shutdown()
	}

	if s.healthServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.healthServer.Shutdown(ctx); err != nil {
			s.log.WithError(err).Error("Failed to shutdown health check server")
		}
	}

	s.wg.Wait()

	s.log.Info("Worker service stopped successfully")

	return nil
}

func (s *service) startHealthCheck() {
	s.log.WithField("addr", s.config.HealthCheckAddr).Info("Starting health check server")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if s.server != nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("READY"))
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))
		}
	})

	s.healthServer = &http.Server{
		Addr:              s.config.HealthCheckAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Health check server failed")
		}
	}()
}

// Ensure service implements the interface
var _ Service = (*service)(nil)
