package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// SamplesFetchedTotal tracks fetch outcomes by status
	SamplesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goesviz_samples_fetched_total",
			Help: "Total number of sample fetches by outcome",
		},
		[]string{"status"}, // status: ok, no_data, skipped
	)

	// CacheRequestsTotal tracks cache lookups by result
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goesviz_cache_requests_total",
			Help: "Total number of sample cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	// FramesTotal tracks accumulated frames by outcome
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goesviz_frames_total",
			Help: "Total number of frames accumulated",
		},
		[]string{"status"}, // status: rendered, failed
	)

	// FrameAccumulateDuration measures per-frame accumulation time
	FrameAccumulateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goesviz_frame_accumulate_seconds",
			Help:    "Time spent accumulating one frame",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s to ~400s
		},
	)

	// FrameSampleRatio measures the share of requested timestamps that
	// were actually incorporated into a frame
	FrameSampleRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goesviz_frame_sample_ratio",
			Help:    "Used / requested timestamp ratio per frame",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// WarmTasksEnqueuedTotal counts cache warm tasks handed to the queue
	WarmTasksEnqueuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goesviz_warm_tasks_enqueued_total",
			Help: "Total number of cache warm tasks enqueued",
		},
	)

	// WarmTasksTotal counts warm task executions by outcome
	WarmTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goesviz_warm_tasks_total",
			Help: "Total number of cache warm tasks processed",
		},
		[]string{"status"}, // status: cached, fetched, no_data, skipped, failed
	)
)

// RecordFetch records one fetch outcome.
func RecordFetch(status string) {
	SamplesFetchedTotal.WithLabelValues(status).Inc()
}

// RecordCacheHit records a cache hit.
func RecordCacheHit() {
	CacheRequestsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	CacheRequestsTotal.WithLabelValues("miss").Inc()
}

// RecordFrame records one frame outcome and its accumulation stats.
func RecordFrame(status string, duration time.Duration, used, requested int) {
	FramesTotal.WithLabelValues(status).Inc()
	FrameAccumulateDuration.Observe(duration.Seconds())

	if requested > 0 {
		FrameSampleRatio.Observe(float64(used) / float64(requested))
	}
}

// RecordWarmEnqueued records one enqueued warm task.
func RecordWarmEnqueued() {
	WarmTasksEnqueuedTotal.Inc()
}

// RecordWarmTask records one processed warm task outcome.
func RecordWarmTask(status string) {
	WarmTasksTotal.WithLabelValues(status).Inc()
}
