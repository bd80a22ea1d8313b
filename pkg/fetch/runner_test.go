package fetch

import (
	"context"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goesviz/goesviz/pkg/goes"
	"github.com/goesviz/goesviz/pkg/sample"
)

const helperEnv = "GOESVIZ_FETCH_CHILD_HELPER"

// TestFetchChildHelper is not a real test: the runner tests re-exec this
// test binary with -test.run pointed here so the child side runs in a true
// separate process, the same way the production runner re-execs goesviz.
func TestFetchChildHelper(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process for runner tests")
	}

	if err := RunChild(context.Background(), testLogger(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(0)
}

func helperRunner(t *testing.T, source goes.Config, timeout time.Duration) *Runner {
	t.Helper()

	t.Setenv(helperEnv, "1")

	cfg := &Config{
		BinPath:     os.Args[0],
		BinArgs:     []string{"-test.run=TestFetchChildHelper"},
		Timeout:     timeout,
		ScratchRoot: t.TempDir(),
	}

	runner, err := NewRunner(testLogger(), cfg, source)
	require.NoError(t, err)

	return runner
}

func helperSource(baseURL string) goes.Config {
	return goes.Config{
		BaseURL:   baseURL,
		Satellite: "east",
		Domain:    "F",
		ImageSize: "1808x1808",
		Tolerance: 10 * time.Minute,
		Timeout:   5 * time.Second,
	}
}

func TestRunner_FetchAcrossProcessBoundary(t *testing.T) {
	body := solidJPEG(t, 8, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	runner := helperRunner(t, helperSource(srv.URL), 30*time.Second)
	key := sample.NewKey(16, "F", time.Date(2020, 1, 1, 17, 0, 0, 0, time.UTC), 2)

	grid, res, err := runner.Fetch(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)
	require.NotNil(t, grid)
	assert.Equal(t, 4, grid.Height)
	assert.InDelta(t, 128.0/255, grid.At(1, 1, 1), 0.05)

	// The handoff file does not outlive the call
	entries, err := os.ReadDir(runner.cfg.ScratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunner_FetchNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	runner := helperRunner(t, helperSource(srv.URL), 30*time.Second)
	key := sample.NewKey(16, "F", time.Date(2020, 1, 1, 17, 0, 0, 0, time.UTC), 2)

	grid, res, err := runner.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Nil(t, grid)
	assert.Equal(t, StatusNoData, res.Status)
}

func TestRunner_HungChildIsKilledAndSkipped(t *testing.T) {
	cfg := &Config{
		BinPath:     "/bin/sleep",
		BinArgs:     []string{"30"},
		Timeout:     200 * time.Millisecond,
		ScratchRoot: t.TempDir(),
	}
	runner, err := NewRunner(testLogger(), cfg, helperSource("http://127.0.0.1:0"))
	require.NoError(t, err)

	key := sample.NewKey(16, "F", time.Date(2020, 1, 1, 17, 0, 0, 0, time.UTC), 2)

	start := time.Now()
	grid, res, err := runner.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Nil(t, grid)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Contains(t, res.Reason, "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunner_CrashedChildIsSkipped(t *testing.T) {
	cfg := &Config{
		BinPath:     "/bin/false",
		BinArgs:     []string{},
		Timeout:     5 * time.Second,
		ScratchRoot: t.TempDir(),
	}
	// Empty BinArgs falls back to the default subcommand, which /bin/false ignores
	runner, err := NewRunner(testLogger(), cfg, helperSource("http://127.0.0.1:0"))
	require.NoError(t, err)

	key := sample.NewKey(16, "F", time.Date(2020, 1, 1, 17, 0, 0, 0, time.UTC), 2)

	grid, res, err := runner.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Nil(t, grid)
	assert.Equal(t, StatusSkipped, res.Status)
}

func TestLastResultLine(t *testing.T) {
	tests := []struct {
		name      string
		out       string
		expect    Result
		expectHit bool
	}{
		{
			name:      "single result line",
			out:       `{"status":"ok","output_path":"/tmp/x.npy"}` + "\n",
			expect:    Result{Status: StatusOK, OutputPath: "/tmp/x.npy"},
			expectHit: true,
		},
		{
			name:      "noise after result",
			out:       `{"status":"no_data"}` + "\nPASS\nok  \t0.01s\n",
			expect:    Result{Status: StatusNoData},
			expectHit: true,
		},
		{
			name:      "noise before result",
			out:       "some log line\n" + `{"status":"skipped","reason":"boom"}` + "\n",
			expect:    Result{Status: StatusSkipped, Reason: "boom"},
			expectHit: true,
		},
		{
			name:      "no result at all",
			out:       "PASS\n",
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := lastResultLine([]byte(tt.out))
			assert.Equal(t, tt.expectHit, ok)
			if tt.expectHit {
				assert.Equal(t, tt.expect, res)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Timeout: time.Minute}
	assert.ErrorIs(t, cfg.Validate(), ErrScratchRootRequired)

	cfg = &Config{ScratchRoot: "/tmp/scratch"}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidTimeout)

	cfg = &Config{ScratchRoot: "/tmp/scratch", Timeout: time.Minute}
	assert.NoError(t, cfg.Validate())
}
