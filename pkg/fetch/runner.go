package fetch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/goes"
	"github.com/goesviz/goesviz/pkg/sample"
)

// Runner starts one child process per fetch and joins it synchronously.
// Fetches never overlap unless the caller runs multiple Runners; the
// isolation exists for memory hygiene, not throughput.
type Runner struct {
	log    logrus.FieldLogger
	cfg    *Config
	source goes.Config
}

// NewRunner creates a fetch runner.
func NewRunner(log logrus.FieldLogger, cfg *Config, source goes.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fetch configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.ScratchRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch root: %w", err)
	}

	return &Runner{
		log:    log.WithField("service", "fetch"),
		cfg:    cfg,
		source: source,
	}, nil
}

// Fetch resolves one key to a reduced grid in a disposable child process.
// A nil error with a non-OK status is a skip; errors are reserved for the
// runner's own infrastructure failing.
func (r *Runner) Fetch(ctx context.Context, key sample.Key) (*sample.Sample, Result, error) {
	id := uuid.NewString()
	scratchDir := filepath.Join(r.cfg.ScratchRoot, id)
	outputPath := filepath.Join(r.cfg.ScratchRoot, "out-"+id+".npy")

	// Backstop cleanup in case the child died before its own
	defer func() {
		_ = os.RemoveAll(scratchDir)
		_ = os.Remove(outputPath)
	}()

	req := Request{
		Satellite:  key.Satellite,
		Domain:     key.Domain,
		Time:       key.Time,
		Factor:     key.Factor,
		ScratchDir: scratchDir,
		OutputPath: outputPath,
		Source:     r.source,
	}

	res, err := r.runChildProcess(ctx, &req)
	if err != nil {
		return nil, Result{}, err
	}

	if res.Status != StatusOK {
		return nil, res, nil
	}

	grid, err := readGrid(res.OutputPath)
	if err != nil {
		// The child claimed success but the handoff file is unusable;
		// treat it like a corrupt download and skip.
		r.log.WithError(err).WithField("key", key.String()).Warn("Discarding unreadable fetch result")
		return nil, Result{Status: StatusSkipped, Reason: err.Error()}, nil
	}

	return grid, res, nil
}

func (r *Runner) runChildProcess(ctx context.Context, req *Request) (Result, error) {
	bin, err := r.cfg.binary()
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve fetch binary: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode fetch request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, r.cfg.args()...) //nolint:gosec // binary path comes from configuration
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		r.log.WithField("key", req.Key().String()).Warn("Fetch child timed out, killed")
		return Result{Status: StatusSkipped, Reason: "fetch timed out"}, nil
	}

	if runErr != nil {
		// A crashed child is still a per-timestamp skip: the loop must
		// go on to the next timestamp.
		r.log.WithError(runErr).WithFields(logrus.Fields{
			"key":    req.Key().String(),
			"stderr": stderr.String(),
		}).Warn("Fetch child exited abnormally")

		return Result{Status: StatusSkipped, Reason: fmt.Sprintf("fetch child failed: %v", runErr)}, nil
	}

	res, ok := lastResultLine(stdout.Bytes())
	if !ok {
		return Result{Status: StatusSkipped, Reason: "fetch child produced no result"}, nil
	}

	return res, nil
}

// lastResultLine scans stdout for the last line that parses as a Result.
// The child prints exactly one, but anything wrapping the child (test
// harnesses, shells) may append noise after it.
func lastResultLine(out []byte) (Result, bool) {
	var (
		res   Result
		found bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var candidate Result
		if err := json.Unmarshal(line, &candidate); err == nil && candidate.Status != "" {
			res = candidate
			found = true
		}
	}

	return res, found
}

func readGrid(path string) (*sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fetch result: %w", err)
	}
	defer func() { _ = f.Close() }()

	return sample.ReadNPY(f)
}
