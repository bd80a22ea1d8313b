// Package testutil provides shared test helpers.
//
// Miniredis helpers back the queue, worker and scheduler tests with an
// in-memory Redis so no Docker or external services are needed.
package testutil
