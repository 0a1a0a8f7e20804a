package supervisor

import (
	"errors"

	"github.com/elowen-systems/supervisor/erl"
	"github.com/elowen-systems/supervisor/erl/exitreason"
)

// restartAction is the outcome of consulting a child's [Restart] policy
// against the reason it exited.
type restartAction int

const (
	// actionDrop removes the child's spec entirely; nothing is restarted
	// and nothing is retained. Only reached by [Temporary] children.
	actionDrop restartAction = iota
	// actionStop marks the child's ref [StoppedRef] but keeps its spec,
	// so it stays visible to [WhichChildren]/[LookupChild] and can be
	// brought back with [RestartChild]. Reached by a [Transient] child's
	// clean exit.
	actionStop
	// actionRestart restarts the child (possibly alongside siblings,
	// depending on [Strategy]).
	actionRestart
	// actionSupervisorExit propagates a clean [Intrinsic] exit to the
	// supervisor itself: the supervisor exits Normal along with the child,
	// after marking the child's ref [StoppedRef] and keeping its spec.
	actionSupervisorExit
)

// cleanExit reports whether reason represents a normal, non-error
// termination: [exitreason.Normal], any [exitreason.Shutdown] variant, or
// [exitreason.SupervisorShutdown].
func cleanExit(reason error) bool {
	return errors.Is(reason, exitreason.Normal) ||
		exitreason.IsShutdown(reason) ||
		errors.Is(reason, exitreason.SupervisorShutdown)
}

// restartDecision implements the restart-type/exit-reason matrix:
//
//	Permanent : always restart
//	Temporary : never restart, spec is dropped
//	Transient : a clean exit stops the child but keeps its spec; any other
//	            exit restarts it
//	Intrinsic : a clean exit stops the child, keeps its spec, and ends the
//	            supervisor itself; any other exit restarts the child
//	            exactly like Permanent
func restartDecision(restart Restart, reason error) restartAction {
	switch restart {
	case Temporary:
		return actionDrop
	case Permanent:
		return actionRestart
	case Intrinsic:
		if cleanExit(reason) {
			return actionSupervisorExit
		}
		return actionRestart
	case Transient:
		fallthrough
	default:
		if cleanExit(reason) {
			return actionStop
		}
		return actionRestart
	}
}

// restartGroup terminates and restarts every sibling in group, in the
// order and cadence selected by mode and dir, returning a fresh registry
// (always back in canonical [LeftToRight] order) with any [Temporary]
// siblings dropped rather than restarted.
//
//   - [RestartEach] terminates and immediately restarts one sibling before
//     touching the next.
//   - [RestartInOrder] terminates every sibling first, then starts every
//     surviving one — the original one_for_all behavior, generalized with
//     direction.
func (s SupervisorS) restartGroup(self erl.PID, group *childSpecs, mode RestartMode, dir Direction) *childSpecs {
	ordered := append([]ChildSpec(nil), group.ordered(dir)...)

	var result []ChildSpec
	switch mode {
	case RestartEach:
		for _, child := range ordered {
			oldPID := child.ref.PID()
			terminated, keep := s.terminateChild(self, child)
			if !keep {
				continue
			}
			terminated.ref = RestartingRef(oldPID)
			started, removed, _ := s.startChild(self, terminated)
			if removed {
				continue
			}
			result = append(result, started)
		}
	default:
		type pending struct {
			spec   ChildSpec
			oldPID erl.PID
		}
		terminated := make([]pending, 0, len(ordered))
		for _, child := range ordered {
			oldPID := child.ref.PID()
			c, keep := s.terminateChild(self, child)
			if keep {
				terminated = append(terminated, pending{spec: c, oldPID: oldPID})
			}
		}
		for _, p := range terminated {
			p.spec.ref = RestartingRef(p.oldPID)
			started, removed, _ := s.startChild(self, p.spec)
			if removed {
				continue
			}
			result = append(result, started)
		}
	}

	out := &childSpecs{specs: result}
	if dir == RightToLeft {
		out = out.reverse()
	}
	return out
}
