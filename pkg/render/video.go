package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/sample"
)

// ErrNoFrames is returned when a video is requested with nothing to encode
var ErrNoFrames = errors.New("no frames to encode")

// VideoWriter assembles averaged grids into an MP4 by staging them as PNG
// frames and handing the directory to ffmpeg.
type VideoWriter struct {
	log logrus.FieldLogger
	cfg *Config
}

// NewVideoWriter creates a video writer.
func NewVideoWriter(log logrus.FieldLogger, cfg *Config) (*VideoWriter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render configuration: %w", err)
	}

	return &VideoWriter{
		log: log.WithField("service", "render"),
		cfg: cfg,
	}, nil
}

// FPS derives the frame rate so the video's total duration approximates
// the configured target. The rate is what the arithmetic says it is; any
// encoder quirk with a particular value is the encoder's bug to surface,
// not a reason for magic offsets here.
func (v *VideoWriter) FPS(frameCount int) float64 {
	return float64(frameCount) / v.cfg.TargetSeconds
}

// Write encodes the frames into an MP4 at path.
func (v *VideoWriter) Write(ctx context.Context, frames []*sample.Sample, path string) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	stage, err := os.MkdirTemp("", "goesviz-frames-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stage) }()

	for i, frame := range frames {
		name := filepath.Join(stage, fmt.Sprintf("frame_%04d.png", i))
		if err := WritePNG(name, frame, v.cfg.DPI); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fps := v.FPS(len(frames))

	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%.4f", fps),
		"-i", filepath.Join(stage, "frame_%04d.png"),
		// yuv420p needs even dimensions; crop a trailing pixel if needed
		"-vf", "crop=trunc(iw/2)*2:trunc(ih/2)*2",
		"-pix_fmt", "yuv420p",
		path,
	}

	cmd := exec.CommandContext(ctx, v.cfg.FFmpegBin, args...) //nolint:gosec // encoder binary comes from configuration
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, string(out))
	}

	v.log.WithFields(logrus.Fields{
		"path":   path,
		"frames": len(frames),
		"fps":    fps,
	}).Info("Encoded video")

	return nil
}
