// Package pipeline drives frame sequences through the accumulator and
// collects the rendered images. A frame with no usable samples is skipped
// rather than aborting the sequence; only a fully empty sequence fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/accumulate"
	"github.com/goesviz/goesviz/pkg/observability"
	"github.com/goesviz/goesviz/pkg/sample"
	"github.com/goesviz/goesviz/pkg/sequence"
)

// ErrNoFrames is returned when every frame of a sequence came up empty
var ErrNoFrames = errors.New("no frames produced any data")

// Averager is the slice of the accumulator the pipeline needs.
type Averager interface {
	Average(ctx context.Context, selectors []accumulate.Selector) (*accumulate.Outcome, error)
}

// RenderedFrame pairs a frame label with its averaged image.
type RenderedFrame struct {
	Label     string
	Image     *sample.Sample
	Used      int
	Requested int
}

// Service runs frame sequences.
type Service struct {
	log      logrus.FieldLogger
	averager Averager
}

// New creates a pipeline service over an averager.
func New(log logrus.FieldLogger, averager Averager) *Service {
	return &Service{
		log:      log.WithField("service", "pipeline"),
		averager: averager,
	}
}

// Render averages each frame in order. Frames that resolve to no data are
// logged and dropped; the remaining frames keep their relative order. An
// empty result is ErrNoFrames.
func (s *Service) Render(ctx context.Context, frames []sequence.Frame) ([]RenderedFrame, error) {
	out := make([]RenderedFrame, 0, len(frames))

	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()

		outcome, err := s.averager.Average(ctx, frame.Selectors)
		if err != nil {
			if errors.Is(err, accumulate.ErrNoData) {
				observability.RecordFrame("no_data", time.Since(start), 0, 0)
				s.log.WithField("frame", frame.Label).Warn("No data for frame, skipping")

				continue
			}

			return nil, fmt.Errorf("failed to render frame %s: %w", frame.Label, err)
		}

		observability.RecordFrame("ok", time.Since(start), outcome.Used, outcome.Requested)

		s.log.WithFields(logrus.Fields{
			"frame":     frame.Label,
			"used":      outcome.Used,
			"requested": outcome.Requested,
		}).Info("Rendered frame")

		out = append(out, RenderedFrame{
			Label:     frame.Label,
			Image:     outcome.Image,
			Used:      outcome.Used,
			Requested: outcome.Requested,
		})
	}

	if len(out) == 0 {
		return nil, ErrNoFrames
	}

	return out, nil
}

// Images strips the labels off a rendered sequence for the video writer.
func Images(frames []RenderedFrame) []*sample.Sample {
	out := make([]*sample.Sample, len(frames))
	for i, f := range frames {
		out[i] = f.Image
	}

	return out
}
