package accumulate

import "errors"

// Accumulator-specific errors
var (
	// ErrNoData means every requested timestamp failed to yield a
	// sample; there is no valid average of zero samples.
	ErrNoData = errors.New("no samples were successfully retrieved")
)
