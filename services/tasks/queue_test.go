package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampFireAt_FloorsElapsedInstants(t *testing.T) {
	now := time.Date(2025, 9, 19, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, now, clampFireAt(now, now.Add(-time.Minute)),
		"an elapsed fire time runs immediately")
	assert.Equal(t, now, clampFireAt(now, now.Add(-30*24*time.Hour)))
	assert.Equal(t, now, clampFireAt(now, now), "the exact instant is not delayed")
}

func TestClampFireAt_PassesNearFutureThrough(t *testing.T) {
	now := time.Date(2025, 9, 19, 9, 0, 0, 0, time.UTC)

	for _, lead := range []time.Duration{time.Second, time.Hour, 24 * time.Hour, 20 * 24 * time.Hour} {
		fireAt := now.Add(lead)
		assert.Equal(t, fireAt, clampFireAt(now, fireAt), "lead %s", lead)
	}
}

func TestClampFireAt_CapsAtTimerCeiling(t *testing.T) {
	now := time.Date(2025, 9, 19, 9, 0, 0, 0, time.UTC)
	ceiling := now.Add(maxTimerDelay)

	assert.Equal(t, ceiling, clampFireAt(now, now.Add(60*24*time.Hour)),
		"a ~60-day lead is capped at the ~24.8-day ceiling")
	assert.Equal(t, ceiling, clampFireAt(now, now.Add(maxTimerDelay+time.Millisecond)))
	assert.Equal(t, ceiling, clampFireAt(now, ceiling), "the ceiling itself passes through")
}
