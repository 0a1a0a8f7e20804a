package supervisor

import (
	"time"

	"github.com/elowen-systems/supervisor/chronos"
)

// supervisorState is the GenServer state threaded through every callback.
// The child registry itself lives in childSpecs (registry.go); this struct
// adds the restart-intensity history and the configuration the registry was
// built from.
type supervisorState struct {
	args       any
	callback   Supervisor
	childSpecs []ChildSpec
	children   *childSpecs

	flags    SupFlagsS
	restarts []time.Time
}

// addRestart records a restart attempt against the sliding window and
// returns errRestartsExceeded once the configured intensity is exceeded,
// signalling the supervisor actor to escalate (see restart_window.go).
func (s supervisorState) addRestart() (supervisorState, error) {
	now := chronos.Now("")

	allowed, pruned := allowRestart(now, s.restarts, s.flags)
	s.restarts = pruned

	if !allowed {
		return s, errRestartsExceeded
	}
	return s, nil
}
