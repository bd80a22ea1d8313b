package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmPayloadUniqueID(t *testing.T) {
	payload := WarmPayload{
		Satellite: 16,
		Domain:    "F",
		Time:      time.Date(2020, 3, 15, 17, 30, 0, 0, time.UTC),
		Factor:    2,
	}

	assert.Equal(t, "goes16_F_20200315_1730_c2", payload.UniqueID())
	assert.Equal(t, QueueWarm, payload.QueueName())
}

func TestWarmPayloadUniqueIDIsStable(t *testing.T) {
	// Two payloads for the same sample must dedupe to the same task ID
	// even if the enqueue time differs.
	a := WarmPayload{Satellite: 17, Domain: "CONUS", Time: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Factor: 1, EnqueuedAt: time.Now()}
	b := WarmPayload{Satellite: 17, Domain: "CONUS", Time: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Factor: 1, EnqueuedAt: time.Now().Add(time.Hour)}

	assert.Equal(t, a.UniqueID(), b.UniqueID())
}

func TestWarmPayloadRoundTrip(t *testing.T) {
	payload := WarmPayload{
		Satellite:  16,
		Domain:     "F",
		Time:       time.Date(2020, 3, 15, 17, 30, 0, 0, time.UTC),
		Factor:     2,
		EnqueuedAt: time.Date(2020, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded WarmPayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, payload, decoded)
}
