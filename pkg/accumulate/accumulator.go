package accumulate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/fetch"
	"github.com/goesviz/goesviz/pkg/observability"
	"github.com/goesviz/goesviz/pkg/sample"
)

// SampleCache is the slice of the cache store the accumulator needs.
type SampleCache interface {
	Get(key sample.Key) (*sample.Sample, bool, error)
	Put(key sample.Key, grid *sample.Sample) error
}

// Fetcher resolves one key to one reduced grid, or a skip status.
type Fetcher interface {
	Fetch(ctx context.Context, key sample.Key) (*sample.Sample, fetch.Result, error)
}

// Params fix the source coordinates shared by every timestamp of a run.
type Params struct {
	Satellite int
	Domain    string
	Factor    int
}

// Outcome is one averaged image plus how much of the request actually
// went into it. Used < Requested means timestamps were silently excluded
// from both sum and count; callers decide whether the ratio is acceptable.
type Outcome struct {
	Image     *sample.Sample
	Used      int
	Requested int
}

// Accumulator turns an ordered set of selectors into one mean image.
type Accumulator struct {
	log     logrus.FieldLogger
	cache   SampleCache
	fetcher Fetcher
	params  Params
}

// New creates an accumulator over a cache and a fetcher.
func New(log logrus.FieldLogger, cache SampleCache, fetcher Fetcher, params Params) *Accumulator {
	return &Accumulator{
		log:     log.WithField("service", "accumulate"),
		cache:   cache,
		fetcher: fetcher,
		params:  params,
	}
}

// Average resolves every target timestamp to a sample (cache first, then
// an isolated fetch) and folds them into an elementwise arithmetic mean.
// Timestamps that yield nothing are excluded from both sum and count; only
// a fully empty result set is an error (ErrNoData).
func (a *Accumulator) Average(ctx context.Context, selectors []Selector) (*Outcome, error) {
	targets, err := Expand(selectors)
	if err != nil {
		return nil, err
	}

	var (
		sum    []float64
		height int
		width  int
		used   int
	)

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := sample.NewKey(a.params.Satellite, a.params.Domain, target, a.params.Factor)

		grid := a.resolve(ctx, key)
		if grid == nil {
			continue
		}

		if sum == nil {
			height, width = grid.Height, grid.Width
			sum = make([]float64, len(grid.Data))
		} else if grid.Height != height || grid.Width != width {
			a.log.WithFields(logrus.Fields{
				"key":  key.String(),
				"have": fmt.Sprintf("%dx%d", height, width),
				"got":  fmt.Sprintf("%dx%d", grid.Height, grid.Width),
			}).Warn("Skipping sample with mismatched dimensions")

			continue
		}

		// Accumulate at float64 so hundreds of additions do not lose
		// precision in float32.
		for i, v := range grid.Data {
			sum[i] += float64(v)
		}
		used++
	}

	if used == 0 {
		return nil, fmt.Errorf("%w: %d timestamps requested", ErrNoData, len(targets))
	}

	mean := sample.New(height, width)
	for i := range sum {
		mean.Data[i] = float32(sum[i] / float64(used))
	}

	a.log.WithFields(logrus.Fields{
		"used":      used,
		"requested": len(targets),
	}).Info("Computed average image")

	return &Outcome{Image: mean, Used: used, Requested: len(targets)}, nil
}

// resolve returns the grid for a key or nil when the timestamp must be
// skipped. Cache first; a hit never touches the fetcher.
func (a *Accumulator) resolve(ctx context.Context, key sample.Key) *sample.Sample {
	cached, ok, err := a.cache.Get(key)
	if err != nil {
		// An undecodable entry is treated as a miss and refetched;
		// the subsequent Put replaces it.
		a.log.WithError(err).WithField("key", key.String()).Warn("Ignoring unreadable cache entry")
	}
	if ok && err == nil {
		observability.RecordCacheHit()
		return cached
	}
	observability.RecordCacheMiss()

	grid, res, err := a.fetcher.Fetch(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		a.log.WithError(err).WithField("key", key.String()).Warn("Fetch failed, skipping timestamp")
		observability.RecordFetch(string(fetch.StatusSkipped))

		return nil
	}

	observability.RecordFetch(string(res.Status))

	switch res.Status {
	case fetch.StatusOK:
		if err := a.cache.Put(key, grid); err != nil {
			a.log.WithError(err).WithField("key", key.String()).Warn("Failed to cache sample")
		}
		return grid
	case fetch.StatusNoData:
		a.log.WithField("key", key.String()).Debug("No data for timestamp")
		return nil
	case fetch.StatusSkipped:
		a.log.WithFields(logrus.Fields{
			"key":    key.String(),
			"reason": res.Reason,
		}).Warn("Skipping timestamp")
		return nil
	default:
		a.log.WithField("status", string(res.Status)).Warn("Unknown fetch status, skipping")
		return nil
	}
}
