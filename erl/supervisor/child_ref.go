package supervisor

import (
	"fmt"

	"github.com/elowen-systems/supervisor/erl"
)

// refKind tags the runtime state a [ChildRef] carries. Mirrors the way
// [github.com/elowen-systems/supervisor/erl/exitreason] models an opaque
// tagged exit reason: a small unexported kind plus constructors and
// predicates, rather than an exported sum type.
type refKind string

const (
	refRunning      refKind = "running"
	refRestarting   refKind = "restarting"
	refStopped      refKind = "stopped"
	refStartIgnored refKind = "start_ignored"
	refStartFailed  refKind = "start_failed"
)

// ChildRef describes the current runtime state of a declared child: whether
// it is live, and if not, why. A [ChildSpec] always carries exactly one
// ChildRef, which is mutated in place by the start/termination/restart
// engines as the child's process comes up, goes down, or fails to start.
type ChildRef struct {
	kind refKind
	pid  erl.PID
	err  error
}

// RunningRef builds a ref for a live child identified by pid.
func RunningRef(pid erl.PID) ChildRef {
	return ChildRef{kind: refRunning, pid: pid}
}

// RestartingRef builds a ref for a child whose previous incarnation (pid)
// is being torn down in preparation for a restart. The pid is retained only
// for logging/correlation; it is no longer a live identity once the
// termination engine has observed its down notification.
func RestartingRef(pid erl.PID) ChildRef {
	return ChildRef{kind: refRestarting, pid: pid}
}

// StoppedRef is the ref of a child with a retained spec but no incarnation:
// never started, or gracefully terminated and not yet restarted.
var StoppedRef = ChildRef{kind: refStopped}

// StartIgnoredRef is the ref of a non-[Temporary] child whose factory
// signaled [exitreason.Ignore] on its most recent start attempt.
var StartIgnoredRef = ChildRef{kind: refStartIgnored}

// StartFailedRef builds a ref recording the reason the last start attempt
// failed.
func StartFailedRef(reason error) ChildRef {
	return ChildRef{kind: refStartFailed, err: reason}
}

// IsLive reports whether the ref corresponds to an in-flight process
// (Running or Restarting). Monitor references only exist for live refs.
func (r ChildRef) IsLive() bool {
	return r.kind == refRunning || r.kind == refRestarting
}

// IsRunning reports whether the ref is specifically Running (not mid-restart).
func (r ChildRef) IsRunning() bool {
	return r.kind == refRunning
}

// PID returns the ref's associated pid. Zero value ([erl.UndefinedPID]) for
// every non-live kind.
func (r ChildRef) PID() erl.PID {
	return r.pid
}

// StartFailure returns the reason the last start attempt failed, and
// whether the ref actually is a StartFailed ref.
func (r ChildRef) StartFailure() (error, bool) {
	if r.kind == refStartFailed {
		return r.err, true
	}
	return nil, false
}

// Status projects a ChildRef onto the public [ChildStatus] taxonomy
// reported by [WhichChildren].
func (r ChildRef) Status() ChildStatus {
	switch r.kind {
	case refRunning:
		return ChildRunning
	case refRestarting:
		return ChildRestarting
	case refStopped:
		return ChildTerminated
	case refStartFailed:
		return ChildStartFailed
	default:
		return ChildUndefined
	}
}

func (r ChildRef) String() string {
	switch r.kind {
	case refRunning:
		return fmt.Sprintf("Running(%v)", r.pid)
	case refRestarting:
		return fmt.Sprintf("Restarting(%v)", r.pid)
	case refStartFailed:
		return fmt.Sprintf("StartFailed(%v)", r.err)
	case refStartIgnored:
		return "StartIgnored"
	default:
		return "Stopped"
	}
}
