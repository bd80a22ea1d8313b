package render

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ConvertGIF converts one MP4 into a GIF using ffmpeg's two-pass palette
// filter graph for decent colors at a small size.
func (v *VideoWriter) ConvertGIF(ctx context.Context, mp4Path, gifPath string) error {
	filter := fmt.Sprintf(
		"[0:v] fps=%d,scale=%d:-1:flags=lanczos,split [a][b];[a] palettegen [p];[b][p] paletteuse",
		v.cfg.GIF.FPS, v.cfg.GIF.Scale,
	)

	args := []string{"-y", "-i", mp4Path, "-filter_complex", filter, gifPath}

	cmd := exec.CommandContext(ctx, v.cfg.FFmpegBin, args...) //nolint:gosec // encoder binary comes from configuration
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed converting %s: %w: %s", mp4Path, err, string(out))
	}

	v.log.WithFields(logrus.Fields{
		"mp4": mp4Path,
		"gif": gifPath,
	}).Info("Converted video to GIF")

	return nil
}

// FindVideos walks a directory tree and returns every .mp4 file, sorted.
func FindVideos(root string) ([]string, error) {
	var out []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".mp4") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return out, nil
}

// GIFPath maps an MP4 path to its sibling GIF path.
func GIFPath(mp4Path string) string {
	return strings.TrimSuffix(mp4Path, filepath.Ext(mp4Path)) + ".gif"
}
