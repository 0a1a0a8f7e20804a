package supervisor

import (
	"errors"
	"fmt"
	"time"

	"github.com/elowen-systems/supervisor/chronos"
	"github.com/elowen-systems/supervisor/erl"
	"github.com/elowen-systems/supervisor/erl/exitreason"
)

type childKillerDoneMsg struct {
	err error
}

// stopChildren stops every child in the given order.
//
// Temporary children are removed from the registry entirely; every other
// restart type is kept (marked [StoppedRef]) for potential restart.
func (s SupervisorS) stopChildren(self erl.PID, children *childSpecs) (*childSpecs, error) {
	for _, child := range children.list() {
		c, keep := s.terminateChild(self, child)
		if keep {
			children.update(c) //nolint:errcheck
		} else {
			children.delete(child.ID)
		}
	}
	return children, nil
}

// terminateChild stops a single child process, spawning a [childKiller] to
// carry out the shutdown according to the child's [ShutdownOpt] without
// blocking the supervisor's own mailbox.
//
// Returns (spec, true) to keep the child's spec for potential restart, or
// (spec, false) if the caller should drop it ([Temporary] restart type).
func (s SupervisorS) terminateChild(self erl.PID, c ChildSpec) (ChildSpec, bool) {
	listen := make(chan childKillerDoneMsg, 1)
	if c.ref.IsLive() {
		erl.DebugPrintf("Supervisor[%v]: stopping child %v", self, c.ID)
		erl.SpawnLink(self, &childKiller{parent: listen, parentPID: self, child: c})
	} else {
		erl.DebugPrintf("Supervisor[%v] child %v is not started, mark as terminated", self, c.ID)
		listen <- childKillerDoneMsg{err: nil}
	}

	killResult := <-listen
	if killResult.err != nil {
		erl.Logger.Printf("Supervisor[%v] child %s exited with error: %v ", self, c.ID, killResult.err)
	}
	c.ref = StoppedRef
	if c.Restart == Temporary {
		return c, false
	}
	return c, true
}

// childKiller is a short-lived helper process spawned to terminate a single
// child according to its ShutdownOpt, without blocking the supervisor's own
// mailbox on the wait.
type childKiller struct {
	parent     chan<- childKillerDoneMsg
	parentPID  erl.PID
	child      ChildSpec
	monitorRef erl.Ref
}

func (ck *childKiller) Receive(self erl.PID, inbox <-chan any) error {
	pid := ck.child.ref.PID()
	erl.DebugPrintf("Supervisor %v is terminating %+v", ck.parentPID, ck.child)
	ck.monitorRef = erl.Monitor(self, pid)
	// unlink the supervisor so it doesn't get an ExitMsg
	erl.Unlink(ck.parentPID, pid)

	switch shutdown := ck.child.Shutdown; {
	case shutdown.BrutalKill:
		ck.handleBrutalKill(self, inbox)
		return exitreason.Normal
	case shutdown.Infinity:
		erl.Exit(self, pid, exitreason.SupervisorShutdown)
		for anyMsg := range inbox {
			switch msg := anyMsg.(type) {
			case erl.DownMsg:
				ck.handleDown(self, msg)
				return exitreason.Normal
			default:
				erl.DebugPrintf("childkiller[%s]: got a messsage that wasn't erl.DownMsg: %+v", ck.child.ID, msg)
			}
		}
	case shutdown.Timeout == 0:
		// no wait: kill immediately, the same as BrutalKill; no shutdown
		// signal is sent first.
		ck.handleBrutalKill(self, inbox)
		return exitreason.Normal
	default:
		ck.handleTimeout(self, inbox)
		return exitreason.Normal
	}
	return exitreason.Normal
}

func (ck *childKiller) handleBrutalKill(self erl.PID, inbox <-chan any) {
	pid := ck.child.ref.PID()
	erl.Exit(ck.parentPID, pid, exitreason.Kill)
	for anyMsg := range inbox {
		switch msg := anyMsg.(type) {
		case erl.DownMsg:
			if msg.Ref != ck.monitorRef {
				// ignore DownMsg if it is not for our monitor
				continue
			}
			switch {
			case errors.Is(msg.Reason, exitreason.Kill):
				ck.parent <- childKillerDoneMsg{}
			case exitreason.IsShutdown(msg.Reason) && ck.child.Restart != Permanent:
				ck.parent <- childKillerDoneMsg{}
			case errors.Is(msg.Reason, exitreason.Normal) && ck.child.Restart != Permanent:
				ck.parent <- childKillerDoneMsg{}
			default:
				ck.parent <- childKillerDoneMsg{err: msg.Reason}
			}
			return

		default:
			erl.DebugPrintf("childkiller[%s]: got a messsage that wasn't erl.DownMsg: %+v", ck.child.ID, msg)

		}
	}
}

func (ck *childKiller) handleTimeout(self erl.PID, inbox <-chan any) {
	pid := ck.child.ref.PID()
	erl.Exit(ck.parentPID, pid, exitreason.SupervisorShutdown)
	for {
		select {
		case anyMsg, ok := <-inbox:
			if !ok {
				return
			}
			switch msg := anyMsg.(type) {
			case erl.DownMsg:
				ck.handleDown(self, msg)
				return

			default:
				erl.DebugPrintf("childkiller[%s]: got a messsage that wasn't erl.DownMsg: %+v", ck.child.ID, msg)

			}
		case <-time.After(chronos.Dur(fmt.Sprintf("%dms", ck.child.Shutdown.Timeout))):
			erl.Exit(ck.parentPID, pid, exitreason.Kill)
			anyMsg := <-inbox
			switch msg := anyMsg.(type) {
			case erl.DownMsg:
				ck.handleDown(self, msg)

			default:
				erl.DebugPrintf("childkiller[%s]: got a messsage that wasn't erl.DownMsg: %+v", ck.child.ID, msg)
			}
		}
	}
}

func (ck *childKiller) handleDown(self erl.PID, msg erl.DownMsg) {
	if msg.Ref != ck.monitorRef {
		// ignore DownMsg if it is not for our monitor
		return
	}
	switch {
	case errors.Is(msg.Reason, exitreason.SupervisorShutdown):
		ck.parent <- childKillerDoneMsg{}
	case exitreason.IsShutdown(msg.Reason) && ck.child.Restart != Permanent:
		ck.parent <- childKillerDoneMsg{}
	case errors.Is(msg.Reason, exitreason.Normal) && ck.child.Restart != Permanent:
		ck.parent <- childKillerDoneMsg{}
	default:
		ck.parent <- childKillerDoneMsg{err: msg.Reason}
	}
}
