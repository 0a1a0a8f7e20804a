package supervisor

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestAllowRestart_AllowsWithinIntensity(t *testing.T) {
	now := time.Now()
	limit := SupFlagsS{Intensity: 2, Period: 10}

	allowed, history := allowRestart(now, nil, limit)
	assert.Assert(t, allowed)
	assert.Equal(t, len(history), 1)

	allowed, history = allowRestart(now.Add(time.Second), history, limit)
	assert.Assert(t, allowed)
	assert.Equal(t, len(history), 2)
}

func TestAllowRestart_DeniesOnceIntensityExceeded(t *testing.T) {
	now := time.Now()
	limit := SupFlagsS{Intensity: 1, Period: 10}

	allowed, history := allowRestart(now, nil, limit)
	assert.Assert(t, allowed)

	allowed, history = allowRestart(now.Add(time.Second), history, limit)
	assert.Assert(t, !allowed)
	assert.Equal(t, len(history), 2)
}

func TestAllowRestart_PrunesEntriesOlderThanPeriod(t *testing.T) {
	now := time.Now()
	limit := SupFlagsS{Intensity: 1, Period: 5}

	old := []time.Time{now.Add(-10 * time.Second)}

	allowed, history := allowRestart(now, old, limit)
	assert.Assert(t, allowed, "an entry outside the window should not count toward intensity")
	assert.Equal(t, len(history), 1)
}

func TestAllowRestart_ZeroIntensityDeniesFirstRestart(t *testing.T) {
	now := time.Now()
	limit := SupFlagsS{Intensity: 0, Period: 10}

	allowed, _ := allowRestart(now, nil, limit)
	assert.Assert(t, !allowed)
}

func TestTrimHistory_DropsExpiredEntries(t *testing.T) {
	now := time.Now()
	history := []time.Time{
		now.Add(-20 * time.Second),
		now.Add(-3 * time.Second),
		now.Add(-1 * time.Second),
	}

	trimmed := trimHistory(now, history, 5)
	assert.Equal(t, len(trimmed), 2)
	assert.Assert(t, trimmed[0].Equal(history[1]))
}

func TestTrimHistory_ReturnsNilWhenAllExpired(t *testing.T) {
	now := time.Now()
	history := []time.Time{now.Add(-30 * time.Second)}

	trimmed := trimHistory(now, history, 5)
	assert.Assert(t, trimmed == nil)
}
