package supervisor

import (
	"github.com/elowen-systems/supervisor/erl"
	"github.com/elowen-systems/supervisor/erl/exitreason"
	"github.com/elowen-systems/supervisor/erl/genserver"
	"github.com/elowen-systems/supervisor/erl/timeout"
)

type linkOpts struct {
	name erl.Name
}

// LinkOpts is a functional option for configuring supervisor startup.
type LinkOpts func(flags linkOpts) linkOpts

// SetName registers the supervisor under the given name, allowing it to be
// looked up via [erl.WhereIs] or addressed by name instead of PID.
//
// Example:
//
//	supPID, err := supervisor.StartDefaultLink(self, children, flags,
//		supervisor.SetName("my_supervisor"))
//	// Later:
//	pid, ok := erl.WhereIs("my_supervisor")
func SetName(name erl.Name) LinkOpts {
	return func(flags linkOpts) linkOpts {
		flags.name = name
		return flags
	}
}

// StartDefaultLink starts a supervisor with a static list of children.
// This is the simplest way to create a supervisor when the children are known at compile time.
//
// The supervisor is linked to the calling process (self), meaning if the supervisor
// terminates abnormally, self will receive an exit signal (or an [erl.ExitMsg] if
// self has TrapExit enabled).
//
// Children are started in the order they appear in the slice. If any child fails to start,
// all previously started children are stopped and an error is returned.
//
// Returns the supervisor's PID on success. Returns an error if:
//   - A child spec has a duplicate ID
//   - Any child fails to start (and doesn't return exitreason.Ignore)
//   - The supervisor callback returns Ignore=true
//
// Example:
//
//	children := []supervisor.ChildSpec{
//		supervisor.NewChildSpec("worker", func(sup erl.PID) (erl.PID, error) {
//			return genserver.StartLink[State](sup, MyServer{}, nil)
//		}),
//	}
//	supFlags := supervisor.NewSupFlags(supervisor.SetStrategy(supervisor.OneForOne))
//	supPID, err := supervisor.StartDefaultLink(self, children, supFlags)
func StartDefaultLink(self erl.PID, children []ChildSpec, supFlags SupFlagsS, optFuns ...LinkOpts) (erl.PID, error) {
	ds := defaultSup{children: children, supflags: supFlags}
	return StartLink(self, ds, nil, optFuns...)
}

// StartLink starts a supervisor with a custom callback module.
// Use this when children need to be determined dynamically based on runtime arguments.
//
// The callback's Init method is invoked with the provided args to obtain the
// [ChildSpec] list and [SupFlagsS]. The supervisor is linked to the calling process (self).
//
// This is useful when:
//   - Children depend on configuration loaded at runtime
//   - The number or type of children varies based on arguments
//   - You need custom initialization logic before defining children
//
// Example:
//
//	type MySupervisor struct{}
//
//	func (s MySupervisor) Init(self erl.PID, args any) supervisor.InitResult {
//		config := args.(MyConfig)
//		children := make([]supervisor.ChildSpec, config.WorkerCount)
//		for i := range children {
//			id := fmt.Sprintf("worker_%d", i)
//			children[i] = supervisor.NewChildSpec(id, workerStartFn)
//		}
//		return supervisor.InitResult{
//			SupFlags:   supervisor.NewSupFlags(),
//			ChildSpecs: children,
//		}
//	}
//
//	supPID, err := supervisor.StartLink(self, MySupervisor{}, myConfig)
func StartLink(self erl.PID, callback Supervisor, args any, optFuns ...LinkOpts) (erl.PID, error) {
	opts := linkOpts{}

	for _, fn := range optFuns {
		opts = fn(opts)
	}

	gsOpts := make([]genserver.StartOpt, 0)

	if opts.name != "" {
		gsOpts = append(gsOpts, genserver.SetName(opts.name))
	}

	gsOpts = append(gsOpts, genserver.SetStartTimeout(timeout.Infinity))

	sup := SupervisorS{
		callback: callback,
	}

	return genserver.StartLink[supervisorState](self, sup, args, gsOpts...)
}

// AddChild registers spec with a running supervisor without starting it.
// The child stays dormant (StoppedRef) until [StartChild] or [RestartChild]
// starts it. Returns [ErrAlreadyPresent] if a spec with the same ID is
// already registered, running or not.
func AddChild(sup erl.Dest, spec ChildSpec) (ChildRef, error) {
	resp, err := genserver.Call(erl.RootPID(), sup, addChildRequest{spec: spec}, timeout.Default)
	if err != nil {
		return ChildRef{}, err
	}
	reply := resp.(addChildReply)
	return reply.ref, reply.err
}

// StartChild registers and starts a new child under a running supervisor.
//
// Returns [AlreadyStartedError] (wrapping [ErrAlreadyStarted]) if a child
// with the same ID is already running, or [ErrAlreadyPresent] if a spec
// with that ID exists but isn't running — use [RestartChild] for that case.
func StartChild(sup erl.Dest, spec ChildSpec) (erl.PID, error) {
	resp, err := genserver.Call(erl.RootPID(), sup, startChildRequest{spec: spec}, timeout.Default)
	if err != nil {
		return erl.UndefinedPID, err
	}
	reply := resp.(startChildReply)
	return reply.pid, reply.err
}

// TerminateChild stops the running child identified by id, keeping its
// spec for a future [RestartChild]; a [Temporary] child's spec is removed
// instead. Idempotent: terminating an already
// stopped child returns nil. Returns [ErrNotFound] if id is unknown.
func TerminateChild(sup erl.Dest, id string) error {
	resp, err := genserver.Call(erl.RootPID(), sup, terminateChildReq{id: id}, timeout.Default)
	if err != nil {
		return err
	}
	return resp.(terminateChildReply).err
}

// RestartChild starts a terminated (or never-started) child's spec again.
// Returns [ErrRunning] if the child is already live, or [ErrNotFound] if
// id is unknown.
func RestartChild(sup erl.Dest, id string) (erl.PID, error) {
	resp, err := genserver.Call(erl.RootPID(), sup, restartChildReq{id: id}, timeout.Default)
	if err != nil {
		return erl.UndefinedPID, err
	}
	reply := resp.(restartChildReply)
	return reply.pid, reply.err
}

// DeleteChild removes a terminated child's spec entirely. Returns
// [ErrRunning] if the child is still live (terminate it first), or
// [ErrNotFound] if id is unknown.
func DeleteChild(sup erl.Dest, id string) error {
	resp, err := genserver.Call(erl.RootPID(), sup, deleteChildReq{id: id}, timeout.Default)
	if err != nil {
		return err
	}
	return resp.(deleteChildReply).err
}

// LookupChild returns the [ChildInfo] for a single child by ID, or
// [ErrNotFound] if no spec with that ID is registered.
func LookupChild(sup erl.Dest, id string) (ChildInfo, error) {
	resp, err := genserver.Call(erl.RootPID(), sup, lookupChildReq{id: id}, timeout.Default)
	if err != nil {
		return ChildInfo{}, err
	}
	reply := resp.(lookupChildReply)
	return reply.info, reply.err
}

// WhichChildren returns a [ChildInfo] snapshot for every registered child,
// in start order. Equivalent to Erlang's supervisor:which_children/1.
func WhichChildren(sup erl.Dest) ([]ChildInfo, error) {
	resp, err := genserver.Call(erl.RootPID(), sup, whichChildrenRequest{}, timeout.Default)
	if err != nil {
		return nil, err
	}
	return resp.(whichChildrenReply).children, nil
}

// CountChildren returns aggregate counts of a supervisor's children.
// Equivalent to Erlang's supervisor:count_children/1.
func CountChildren(sup erl.Dest) (ChildCount, error) {
	resp, err := genserver.Call(erl.RootPID(), sup, countChildrenRequest{}, timeout.Default)
	if err != nil {
		return ChildCount{}, err
	}
	return resp.(countChildrenReply).count, nil
}

// Shutdown stops the supervisor and its entire child tree, waiting for
// [genserver.Stop] to confirm termination. A thin, named alias so callers
// don't have to rediscover genserver.Stop's exit-reason plumbing to shut
// a supervisor down cleanly.
func Shutdown(self erl.PID, sup erl.Dest) error {
	return genserver.Stop(self, sup, genserver.StopReason(exitreason.Normal))
}

