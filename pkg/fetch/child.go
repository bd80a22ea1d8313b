package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/goes"
	"github.com/goesviz/goesviz/pkg/sample"
)

// RunChild is the body of the hidden fetch-sample subcommand. It reads one
// Request from stdin, performs the fetch and reduction, writes the grid to
// the requested output path and prints exactly one Result line on stdout.
// The scratch directory is removed on every path, success or failure; that
// cleanup is part of the contract, not an optimization.
//
// Per-timestamp failures never escape as a non-zero exit: they are encoded
// in the Result status so the parent can tell a skip from a broken child.
func RunChild(ctx context.Context, log logrus.FieldLogger, stdin io.Reader, stdout io.Writer) error {
	var req Request
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return fmt.Errorf("failed to decode fetch request: %w", err)
	}

	res := execute(ctx, log, &req)

	return json.NewEncoder(stdout).Encode(res)
}

func execute(ctx context.Context, log logrus.FieldLogger, req *Request) Result {
	if err := os.MkdirAll(req.ScratchDir, 0o755); err != nil {
		return Result{Status: StatusSkipped, Reason: fmt.Sprintf("failed to create scratch dir: %v", err)}
	}
	defer func() { _ = os.RemoveAll(req.ScratchDir) }()

	client, err := goes.NewClient(log, &req.Source)
	if err != nil {
		return Result{Status: StatusSkipped, Reason: err.Error()}
	}

	grid, err := client.NearestTime(ctx, req.Time, req.ScratchDir)
	if err != nil {
		switch {
		case errors.Is(err, goes.ErrNoData):
			return Result{Status: StatusNoData}
		case errors.Is(err, goes.ErrCorruptDownload):
			// Scratch purge happens in the deferred cleanup
			return Result{Status: StatusSkipped, Reason: err.Error()}
		default:
			return Result{Status: StatusSkipped, Reason: err.Error()}
		}
	}

	reduced, err := sample.Reduce(grid, req.Factor)
	if err != nil {
		return Result{Status: StatusSkipped, Reason: err.Error()}
	}

	if err := writeGrid(req.OutputPath, reduced); err != nil {
		return Result{Status: StatusSkipped, Reason: err.Error()}
	}

	return Result{Status: StatusOK, OutputPath: req.OutputPath}
}

func writeGrid(path string, grid *sample.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := sample.WriteNPY(f, grid); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to serialize grid: %w", err)
	}

	return f.Close()
}
