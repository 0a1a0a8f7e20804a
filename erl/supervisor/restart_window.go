package supervisor

import (
	"time"

	"golang.org/x/exp/slices"
)

// allowRestart implements the sliding-window restart intensity check: drop
// every history entry older than now-Period, append now, and compare the
// resulting count against Intensity. A false result means the caller's
// (max_restarts+1)-th attempt landed inside the window and the supervisor
// must escalate.
//
// Pure and stateless aside from its inputs, so it's tested directly without
// spinning up a supervisor actor.
func allowRestart(now time.Time, history []time.Time, limit SupFlagsS) (allowed bool, pruned []time.Time) {
	cutoff := now.Add(-time.Duration(limit.Period) * time.Second)

	kept := make([]time.Time, 0, len(history)+1)
	for _, r := range history {
		if r.After(cutoff) {
			kept = append(kept, r)
		}
	}
	kept = append(kept, now)

	if len(kept) > limit.Intensity {
		return false, kept
	}
	return true, kept
}

// trimHistory is a convenience used by tests and callers that just want the
// pruned-but-not-yet-appended view of a history.
func trimHistory(now time.Time, history []time.Time, period int) []time.Time {
	cutoff := now.Add(-time.Duration(period) * time.Second)
	idx := slices.IndexFunc(history, func(t time.Time) bool { return t.After(cutoff) })
	if idx == -1 {
		return nil
	}
	return history[idx:]
}
