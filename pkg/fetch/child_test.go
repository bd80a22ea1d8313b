package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goesviz/goesviz/pkg/goes"
	"github.com/goesviz/goesviz/pkg/sample"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func solidJPEG(t *testing.T, size int, c color.RGBA) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))

	return buf.Bytes()
}

func childRequest(t *testing.T, baseURL string) Request {
	t.Helper()

	root := t.TempDir()

	return Request{
		Satellite:  16,
		Domain:     "F",
		Time:       time.Date(2020, 1, 1, 17, 0, 0, 0, time.UTC),
		Factor:     2,
		ScratchDir: filepath.Join(root, "scratch"),
		OutputPath: filepath.Join(root, "out.npy"),
		Source: goes.Config{
			BaseURL:   baseURL,
			Satellite: "east",
			Domain:    "F",
			ImageSize: "1808x1808",
			Tolerance: 10 * time.Minute,
			Timeout:   5 * time.Second,
		},
	}
}

func runChild(t *testing.T, req Request) Result {
	t.Helper()

	payload, err := json.Marshal(req)
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, RunChild(context.Background(), testLogger(), bytes.NewReader(payload), &stdout))

	var res Result
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &res))

	return res
}

func TestRunChild_FetchReduceAndHandOff(t *testing.T) {
	body := solidJPEG(t, 8, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	req := childRequest(t, srv.URL)
	res := runChild(t, req)

	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, req.OutputPath, res.OutputPath)

	f, err := os.Open(res.OutputPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	grid, err := sample.ReadNPY(f)
	require.NoError(t, err)
	// 8x8 source reduced by factor 2
	assert.Equal(t, 4, grid.Height)
	assert.Equal(t, 4, grid.Width)
	assert.InDelta(t, 200.0/255, grid.At(2, 2, 0), 0.05)

	// Scratch directory is gone on success
	_, err = os.Stat(req.ScratchDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunChild_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	req := childRequest(t, srv.URL)
	res := runChild(t, req)

	assert.Equal(t, StatusNoData, res.Status)
	_, err := os.Stat(req.OutputPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(req.ScratchDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunChild_CorruptDownloadPurgesScratch(t *testing.T) {
	body := solidJPEG(t, 8, color.RGBA{R: 200, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body[:len(body)/3])
	}))
	t.Cleanup(srv.Close)

	req := childRequest(t, srv.URL)
	res := runChild(t, req)

	assert.Equal(t, StatusSkipped, res.Status)
	assert.NotEmpty(t, res.Reason)

	// Scratch directory purged despite the corrupt artifact inside it
	_, err := os.Stat(req.ScratchDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunChild_MalformedRequest(t *testing.T) {
	var stdout bytes.Buffer
	err := RunChild(context.Background(), testLogger(), bytes.NewReader([]byte("not json")), &stdout)
	assert.Error(t, err)
}
