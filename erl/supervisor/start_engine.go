package supervisor

import (
	"errors"
	"fmt"

	"github.com/elowen-systems/supervisor/erl"
	"github.com/elowen-systems/supervisor/erl/exitreason"
)

// startChild resolves and invokes a single child's factory — the closure
// stored in ChildSpec.Start, which the caller already arranged to link
// and, optionally, register under a name.
//
// Three outcomes:
//   - success: ref becomes RunningRef(pid).
//   - exitreason.Ignore: a Temporary child's spec is reported for removal
//     (removed=true); any other restart type is retained with
//     StartIgnoredRef.
//   - any other error (including a recovered panic): ref becomes
//     StartFailedRef(reason) and the error is returned so the caller can
//     decide whether to roll back (initial boot) or just report it
//     (dynamic StartChild/RestartChild).
func (s SupervisorS) startChild(self erl.PID, child ChildSpec) (updated ChildSpec, removed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				e = fmt.Errorf("panic starting child: %v", r)
			}
			reason := exitreason.Wrap(e)
			child.ref = StartFailedRef(reason)
			updated = child
			err = reason
		}
	}()

	childPID, startErr := child.Start(self)

	switch {
	case startErr == nil:
		child.ref = RunningRef(childPID)
		return child, false, nil
	case errors.Is(startErr, exitreason.Ignore):
		erl.DebugPrintf("Supervisor[%v]: child %s returned :ignore", self, child.ID)
		if child.Restart == Temporary {
			return child, true, nil
		}
		child.ref = StartIgnoredRef
		return child, false, nil
	default:
		reason := exitreason.Wrap(startErr)
		child.ref = StartFailedRef(reason)
		return child, false, reason
	}
}

// startChildren starts every child in the given order. If any fails (an
// error other than Ignore), every sibling already started in this call is
// stopped (in reverse order) and the error is returned — the rollback
// behavior used during supervisor Init.
func (s SupervisorS) startChildren(self erl.PID, children *childSpecs) error {
	for _, childSpec := range children.list() {
		child, removed, err := s.startChild(self, childSpec)
		if err != nil {
			erl.DebugPrintf("Supervisor[%v]: child returned an error: %v", self, err)
			s.stopChildren(self, children.reverse()) //nolint:errcheck
			return err
		}

		if removed {
			children.delete(childSpec.ID)
			continue
		}

		children.update(child) //nolint:errcheck
	}
	return nil
}
