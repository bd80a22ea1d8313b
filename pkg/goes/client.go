package goes

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/sample"
)

// cadence is the publishing interval of GeoColor imagery on the CDN.
const cadence = 10 * time.Minute

// Static client errors
var (
	// ErrNoData means no image exists near the requested time. Expected
	// and frequent; callers skip the timestamp.
	ErrNoData = errors.New("no image available near requested time")
	// ErrCorruptDownload means a downloaded artifact failed to decode.
	// Callers must purge the scratch directory and skip.
	ErrCorruptDownload = errors.New("downloaded image is corrupt")
)

// Client fetches GeoColor imagery from the NOAA STAR CDN. Repeated decodes
// accumulate memory the Go runtime is slow to hand back to the OS, so the
// pipeline never holds a client in its own process; each fetch gets a fresh
// client inside a disposable child.
type Client struct {
	log  logrus.FieldLogger
	cfg  *Config
	http *http.Client
}

// NewClient creates a CDN imagery client.
func NewClient(log logrus.FieldLogger, cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid imagery source configuration: %w", err)
	}

	return &Client{
		log:  log.WithField("service", "goes"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// NearestTime resolves a target timestamp to a single image: it probes the
// publishing slots nearest the target within the configured tolerance,
// downloads the first hit into scratchDir and decodes it as an RGB grid
// with values in [0, 1]. Returns ErrNoData when no slot has an image.
func (c *Client) NearestTime(ctx context.Context, target time.Time, scratchDir string) (*sample.Sample, error) {
	for _, slot := range c.candidateSlots(target) {
		path, err := c.download(ctx, slot, scratchDir)
		if err != nil {
			if errors.Is(err, ErrNoData) {
				continue
			}
			return nil, err
		}

		grid, err := decodeImage(path)
		if err != nil {
			return nil, err
		}

		c.log.WithFields(logrus.Fields{
			"target": target.Format(time.RFC3339),
			"slot":   slot.Format(time.RFC3339),
		}).Debug("Resolved image")

		return grid, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoData, target.Format(time.RFC3339))
}

// candidateSlots lists publishing slots ordered by distance from the
// target, alternating after and before, bounded by the tolerance.
func (c *Client) candidateSlots(target time.Time) []time.Time {
	base := target.UTC().Truncate(cadence)

	slots := []time.Time{base}
	for off := cadence; off <= c.cfg.Tolerance; off += cadence {
		slots = append(slots, base.Add(off), base.Add(-off))
	}

	return slots
}

// imageURL builds the CDN URL for one publishing slot, e.g.
// <base>/GOES16/ABI/FD/GEOCOLOR/20200011700_GOES16-ABI-FD-GEOCOLOR-1808x1808.jpg
func (c *Client) imageURL(slot time.Time) string {
	sat, _ := SatelliteNumber(c.cfg.Satellite)
	domain := domainPaths[c.cfg.Domain]
	stamp := fmt.Sprintf("%04d%03d%02d%02d", slot.Year(), slot.YearDay(), slot.Hour(), slot.Minute())

	return fmt.Sprintf("%s/GOES%d/ABI/%s/GEOCOLOR/%s_GOES%d-ABI-%s-GEOCOLOR-%s.jpg",
		c.cfg.BaseURL, sat, domain, stamp, sat, domain, c.cfg.ImageSize)
}

func (c *Client) download(ctx context.Context, slot time.Time, scratchDir string) (string, error) {
	url := c.imageURL(slot)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNoData
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	path := filepath.Join(scratchDir, filepath.Base(url))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to flush scratch file: %w", err)
	}

	return path, nil
}

func decodeImage(path string) (*sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open downloaded image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := jpeg.Decode(f)
	if err != nil {
		if isCorruptionError(err) {
			return nil, fmt.Errorf("%w: %v", ErrCorruptDownload, err)
		}
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	return toGrid(img), nil
}

// isCorruptionError classifies decode failures caused by truncated or
// mangled downloads, matched on the decoder's error text.
func isCorruptionError(err error) bool {
	msg := err.Error()

	return strings.Contains(msg, "unexpected EOF") ||
		strings.Contains(msg, "invalid JPEG format") ||
		strings.Contains(msg, "bad Huffman code") ||
		strings.Contains(msg, "truncated")
}

func toGrid(img image.Image) *sample.Sample {
	bounds := img.Bounds()
	out := sample.New(bounds.Dy(), bounds.Dx())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out.Data[i] = float32(r>>8) / 255
			out.Data[i+1] = float32(g>>8) / 255
			out.Data[i+2] = float32(b>>8) / 255
			i += sample.Channels
		}
	}

	return out
}
