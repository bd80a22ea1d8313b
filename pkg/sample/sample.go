// Package sample defines the in-memory image grid shared by the fetcher,
// cache and accumulator, together with its deterministic cache key and the
// on-disk NPY codec.
package sample

import (
	"errors"
	"fmt"
	"time"
)

// Channels is the number of color channels in every grid (RGB).
const Channels = 3

// Static errors for sample construction
var (
	ErrDimensionMismatch = errors.New("data length does not match dimensions")
	ErrEmptySample       = errors.New("sample must have positive dimensions")
)

// Sample is a single reduced satellite image for one timestamp: an
// H x W x 3 float32 grid in row-major (HWC) order with values in [0, 1].
type Sample struct {
	Height int
	Width  int
	Data   []float32
}

// New allocates a zeroed sample with the given dimensions.
func New(height, width int) *Sample {
	return &Sample{
		Height: height,
		Width:  width,
		Data:   make([]float32, height*width*Channels),
	}
}

// NewFromData wraps an existing float32 slice as a sample, validating that
// the slice length matches the dimensions.
func NewFromData(height, width int, data []float32) (*Sample, error) {
	if height <= 0 || width <= 0 {
		return nil, ErrEmptySample
	}

	if len(data) != height*width*Channels {
		return nil, fmt.Errorf("%w: got %d values for %dx%dx%d", ErrDimensionMismatch, len(data), height, width, Channels)
	}

	return &Sample{Height: height, Width: width, Data: data}, nil
}

// At returns the value at row y, column x, channel c.
func (s *Sample) At(y, x, c int) float32 {
	return s.Data[(y*s.Width+x)*Channels+c]
}

// Set assigns the value at row y, column x, channel c.
func (s *Sample) Set(y, x, c int, v float32) {
	s.Data[(y*s.Width+x)*Channels+c] = v
}

// Key uniquely identifies one cached sample: satellite number, spatial
// domain code, timestamp truncated to the minute, and reduction factor.
// Because the factor is part of the key, a cache hit is always at the
// resolution the caller asked for.
type Key struct {
	Satellite int
	Domain    string
	Time      time.Time
	Factor    int
}

// NewKey builds a key with the timestamp normalized to UTC and truncated
// to the minute.
func NewKey(satellite int, domain string, t time.Time, factor int) Key {
	return Key{
		Satellite: satellite,
		Domain:    domain,
		Time:      t.UTC().Truncate(time.Minute),
		Factor:    factor,
	}
}

// String returns the deterministic cache stem, e.g.
// "goes16_F_20200101_1700_c2".
func (k Key) String() string {
	return fmt.Sprintf("goes%d_%s_%s_c%d", k.Satellite, k.Domain, k.Time.Format("20060102_1504"), k.Factor)
}

// Filename returns the cache file name for this key.
func (k Key) Filename() string {
	return k.String() + ".npy"
}
