// Package fetch runs each image fetch in a disposable child process. The
// imagery client accumulates memory across repeated decodes, so a fetch is
// handed to a re-exec of our own binary: the child fetches, reduces and
// serializes one grid, reports a single JSON result line on stdout, and
// dies. Only plain data crosses the boundary, which bounds the parent's
// memory to O(1) regardless of how many samples a run touches.
package fetch

import (
	"time"

	"github.com/goesviz/goesviz/pkg/goes"
	"github.com/goesviz/goesviz/pkg/sample"
)

// Status classifies the outcome of one fetch. Skip-vs-fatal is part of the
// contract: only StatusOK carries a grid, and neither StatusNoData nor
// StatusSkipped is an error to the caller.
type Status string

const (
	// StatusOK means a grid was fetched, reduced and written.
	StatusOK Status = "ok"
	// StatusNoData means no image exists near the requested time.
	StatusNoData Status = "no_data"
	// StatusSkipped means the fetch failed in a recoverable way
	// (corrupt download, transient error, timeout).
	StatusSkipped Status = "skipped"
)

// Request is what the parent hands the child on stdin.
type Request struct {
	Satellite  int         `json:"satellite"`
	Domain     string      `json:"domain"`
	Time       time.Time   `json:"time"`
	Factor     int         `json:"factor"`
	ScratchDir string      `json:"scratch_dir"`
	OutputPath string      `json:"output_path"`
	Source     goes.Config `json:"source"`
}

// Key returns the sample key this request resolves.
func (r Request) Key() sample.Key {
	return sample.NewKey(r.Satellite, r.Domain, r.Time, r.Factor)
}

// Result is the single JSON line the child prints on stdout.
type Result struct {
	Status     Status `json:"status"`
	OutputPath string `json:"output_path,omitempty"`
	Reason     string `json:"reason,omitempty"`
}
