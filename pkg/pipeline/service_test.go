package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goesviz/goesviz/pkg/accumulate"
	"github.com/goesviz/goesviz/pkg/sample"
	"github.com/goesviz/goesviz/pkg/sequence"
)

type fakeAverager struct {
	// outcomes maps a frame's first selector date to its result
	outcomes map[string]*accumulate.Outcome
	err      map[string]error
	calls    []string
}

func (f *fakeAverager) Average(_ context.Context, selectors []accumulate.Selector) (*accumulate.Outcome, error) {
	key := selectors[0].Date.Format("20060102")
	f.calls = append(f.calls, key)

	if err, ok := f.err[key]; ok {
		return nil, err
	}

	return f.outcomes[key], nil
}

func testService(averager Averager) *Service {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return New(log, averager)
}

func frameFor(label string, day int) sequence.Frame {
	return sequence.Frame{
		Label: label,
		Selectors: []accumulate.Selector{{
			Date:    time.Date(2020, 1, day, 0, 0, 0, 0, time.UTC),
			Hours:   []int{17},
			Minutes: []int{0},
		}},
	}
}

func outcomeOf(v float32) *accumulate.Outcome {
	grid := sample.New(2, 2)
	for i := range grid.Data {
		grid.Data[i] = v
	}

	return &accumulate.Outcome{Image: grid, Used: 1, Requested: 1}
}

func TestRender_AllFramesSucceed(t *testing.T) {
	averager := &fakeAverager{
		outcomes: map[string]*accumulate.Outcome{
			"20200101": outcomeOf(0.1),
			"20200102": outcomeOf(0.2),
		},
	}

	frames, err := testService(averager).Render(t.Context(), []sequence.Frame{
		frameFor("first", 1),
		frameFor("second", 2),
	})
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, "first", frames[0].Label)
	assert.Equal(t, "second", frames[1].Label)
	assert.InDelta(t, 0.1, frames[0].Image.At(0, 0, 0), 1e-6)
	assert.Equal(t, []string{"20200101", "20200102"}, averager.calls)
}

func TestRender_NoDataFrameSkipped(t *testing.T) {
	averager := &fakeAverager{
		outcomes: map[string]*accumulate.Outcome{
			"20200101": outcomeOf(0.1),
			"20200103": outcomeOf(0.3),
		},
		err: map[string]error{
			"20200102": accumulate.ErrNoData,
		},
	}

	frames, err := testService(averager).Render(t.Context(), []sequence.Frame{
		frameFor("first", 1),
		frameFor("empty", 2),
		frameFor("third", 3),
	})
	require.NoError(t, err)
	require.Len(t, frames, 2)

	// Surviving frames keep their relative order.
	assert.Equal(t, "first", frames[0].Label)
	assert.Equal(t, "third", frames[1].Label)
}

func TestRender_AllFramesEmpty(t *testing.T) {
	averager := &fakeAverager{
		err: map[string]error{
			"20200101": accumulate.ErrNoData,
			"20200102": accumulate.ErrNoData,
		},
	}

	_, err := testService(averager).Render(t.Context(), []sequence.Frame{
		frameFor("first", 1),
		frameFor("second", 2),
	})
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestRender_FatalErrorAborts(t *testing.T) {
	boom := errors.New("cache directory vanished")
	averager := &fakeAverager{
		outcomes: map[string]*accumulate.Outcome{
			"20200101": outcomeOf(0.1),
		},
		err: map[string]error{
			"20200102": boom,
		},
	}

	_, err := testService(averager).Render(t.Context(), []sequence.Frame{
		frameFor("first", 1),
		frameFor("broken", 2),
		frameFor("never", 3),
	})
	require.ErrorIs(t, err, boom)

	// The sequence stops at the fatal frame.
	assert.Equal(t, []string{"20200101", "20200102"}, averager.calls)
}

func TestRender_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	averager := &fakeAverager{}

	_, err := testService(averager).Render(ctx, []sequence.Frame{frameFor("first", 1)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, averager.calls)
}

func TestImages(t *testing.T) {
	frames := []RenderedFrame{
		{Label: "a", Image: sample.New(1, 1)},
		{Label: "b", Image: sample.New(2, 2)},
	}

	images := Images(frames)
	require.Len(t, images, 2)
	assert.Same(t, frames[0].Image, images[0])
	assert.Same(t, frames[1].Image, images[1])
}
