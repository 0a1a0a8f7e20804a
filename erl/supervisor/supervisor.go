package supervisor

import (
	"errors"
	"fmt"

	"github.com/elowen-systems/supervisor/erl"
	"github.com/elowen-systems/supervisor/erl/exitreason"
	"github.com/elowen-systems/supervisor/erl/genserver"
)

var errRestartsExceeded = errors.New("supervisor restart intensity exceeded")

var _ genserver.GenServer[supervisorState] = SupervisorS{}

// SupFlagsS configures supervisor behavior including restart strategy and intensity limits.
//
// Create using [NewSupFlags] with functional options:
//
//	flags := supervisor.NewSupFlags(
//		supervisor.SetStrategy(supervisor.OneForAll),
//		supervisor.SetIntensity(3),
//		supervisor.SetPeriod(10),
//	)
//
// The default values (Strategy=OneForOne, Period=5, Intensity=1) provide
// conservative restart protection suitable for most use cases.
type SupFlagsS struct {
	// Strategy determines which children to restart when one fails.
	//
	// Available strategies:
	//   - [OneForOne]: Only restart the failed child (default)
	//   - [OneForAll]: Restart all children when any fails
	//   - [RestForOne]: Restart failed child and all children started after it
	Strategy Strategy

	// Period is the time window in seconds for counting restarts.
	// Restarts older than Period seconds are not counted toward intensity.
	//
	// Works with Intensity to prevent infinite restart loops: if more than
	// Intensity restarts occur within Period seconds, the supervisor terminates.
	//
	// Default: 5 seconds
	Period int

	// Intensity is the maximum number of restarts allowed within Period seconds.
	// If this limit is exceeded, the supervisor terminates itself and all children,
	// propagating the failure up the supervision tree.
	//
	// This prevents infinite restart loops when a child has a persistent problem
	// that causes it to crash repeatedly.
	//
	// Set to 0 to terminate on the first child restart (very strict).
	// Set higher for children that may have transient startup issues.
	//
	// Default: 1
	Intensity int

	// Mode selects how [OneForAll] (and [RestForOne]) execute a group
	// restart: all terminations before any start ([RestartInOrder], the
	// default), or terminate-then-start one sibling at a time
	// ([RestartEach]). Ignored by [OneForOne].
	Mode RestartMode

	// Direction selects iteration order for a group restart: insertion
	// order ([LeftToRight], the default) or reverse insertion order
	// ([RightToLeft]). Ignored by [OneForOne].
	Direction Direction
}

// SupFlag is a functional option for configuring [SupFlagsS].
// Use with [NewSupFlags].
type SupFlag func(flags SupFlagsS) SupFlagsS

// SetStrategy sets the supervisor's restart strategy.
//
// Available strategies:
//   - [OneForOne]: Only restart the failed child (default)
//   - [OneForAll]: Restart all children when any fails
//   - [RestForOne]: Restart failed child and all children started after it
//
// Example:
//
//	flags := supervisor.NewSupFlags(
//		supervisor.SetStrategy(supervisor.RestForOne),
//	)
func SetStrategy(strategy Strategy) SupFlag {
	return func(flags SupFlagsS) SupFlagsS {
		flags.Strategy = strategy
		return flags
	}
}

// SetPeriod sets the restart evaluation window in seconds.
//
// The supervisor tracks restarts within this rolling window. Restarts older
// than Period seconds are forgotten and don't count toward intensity.
//
// Example: With Period=60 and Intensity=5, up to 5 restarts are allowed
// within any 60-second window.
//
// Default: 5 seconds
func SetPeriod(period int) SupFlag {
	return func(flags SupFlagsS) SupFlagsS {
		flags.Period = period
		return flags
	}
}

// SetIntensity sets the maximum number of restarts allowed within the period.
//
// If more than Intensity restarts occur within Period seconds, the supervisor
// terminates itself (and all children), propagating the failure up the supervision tree.
//
// This prevents infinite restart loops when a child has a persistent problem.
//
// Setting intensity to 0 means the supervisor terminates on the first child restart.
// This is very strict and typically only used when any child failure indicates
// a fundamental problem.
//
// Default: 1
//
// Example:
//
//	// Allow up to 10 restarts within 60 seconds
//	flags := supervisor.NewSupFlags(
//		supervisor.SetIntensity(10),
//		supervisor.SetPeriod(60),
//	)
func SetIntensity(intensity int) SupFlag {
	return func(flags SupFlagsS) SupFlagsS {
		flags.Intensity = intensity
		return flags
	}
}

// SetMode selects how a group restart executes under [OneForAll] (or
// [RestForOne]): [RestartInOrder] (terminate every sibling, then start every
// sibling) or [RestartEach] (terminate-then-start one sibling at a time).
//
// Has no effect with [OneForOne], since that strategy never touches a
// sibling.
func SetMode(mode RestartMode) SupFlag {
	return func(flags SupFlagsS) SupFlagsS {
		flags.Mode = mode
		return flags
	}
}

// SetDirection selects the iteration order ([LeftToRight] or [RightToLeft])
// used for group restarts under [OneForAll]/[RestForOne]. It does not affect
// the final shutdown-all-children pass, which always runs in reverse
// insertion order.
func SetDirection(dir Direction) SupFlag {
	return func(flags SupFlagsS) SupFlagsS {
		flags.Direction = dir
		return flags
	}
}

// NewSupFlags creates supervisor flags with the given options.
//
// Default values:
//   - Strategy: [OneForOne]
//   - Period: 5 seconds
//   - Intensity: 1 restart
//
// These defaults provide conservative restart protection: only the failed
// child restarts, and if it fails more than once within 5 seconds, the
// supervisor terminates.
//
// Examples:
//
//	// Use defaults (OneForOne, 1 restart per 5 seconds)
//	flags := supervisor.NewSupFlags()
//
//	// Custom configuration
//	flags := supervisor.NewSupFlags(
//		supervisor.SetStrategy(supervisor.OneForAll),
//		supervisor.SetIntensity(3),
//		supervisor.SetPeriod(10),
//	)
func NewSupFlags(flags ...SupFlag) SupFlagsS {
	f := SupFlagsS{
		Strategy:  OneForOne,
		Period:    5,
		Intensity: 1,
		Mode:      RestartInOrder,
		Direction: LeftToRight,
	}

	for _, x := range flags {
		f = x(f)
	}
	return f
}

// InitResult is returned by the [Supervisor.Init] callback to configure the supervisor.
//
// The ChildSpecs are started in order. If any child fails to start (returns an error
// other than [exitreason.Ignore]), previously started children are stopped and the
// supervisor fails to start.
type InitResult struct {
	// SupFlags configures the supervisor's restart strategy and intensity limits.
	// Use [NewSupFlags] to create with defaults and customize as needed.
	SupFlags SupFlagsS

	// ChildSpecs defines the children to start, in order.
	//
	// Children are started sequentially in slice order. The order matters for:
	//   - [RestForOne] strategy (later children depend on earlier ones)
	//   - Shutdown order (children are stopped in reverse start order)
	//
	// If any child fails to start, previously started children are stopped
	// (rollback) and the supervisor fails to start.
	ChildSpecs []ChildSpec

	// Ignore, if true, prevents the supervisor from starting: the start
	// function returns [exitreason.Ignore] as its error, and the supervisor
	// process exits with [exitreason.Normal], so a linked caller that traps
	// exits receives an [erl.ExitMsg] with a Normal reason.
	//
	// Use for conditional supervision based on configuration:
	//
	//	func (s MySup) Init(self erl.PID, args any) supervisor.InitResult {
	//		if !config.FeatureEnabled {
	//			return supervisor.InitResult{Ignore: true}
	//		}
	//		// ... normal initialization
	//	}
	Ignore bool
}

// Supervisor is the callback interface for dynamic supervisor configuration.
//
// Implement this interface when children need to be determined at runtime
// rather than at compile time. For static child lists known at compile time,
// use [StartDefaultLink] instead which doesn't require implementing this interface.
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
//	// Usage:
//	supPID, err := supervisor.StartLink(self, MySupervisor{}, myConfig)
type Supervisor interface {
	// Init is called when the supervisor starts to obtain configuration.
	//
	// Parameters:
	//   - self: The supervisor's own PID (can be used for registration or logging)
	//   - args: Arguments passed to [StartLink]
	//
	// Return the supervisor flags and child specifications in [InitResult].
	// Set Ignore=true to cancel supervisor startup without error propagation.
	//
	// Important: Do NOT start children directly in Init. Return them in ChildSpecs
	// and let the supervisor start them. This ensures proper linking and monitoring.
	Init(self erl.PID, args any) InitResult
}

// SupervisorS implements [genserver.GenServer] and manages child processes according
// to the configured strategy and restart rules.
//
// Users typically don't interact with this type directly. Use [StartDefaultLink]
// or [StartLink] to create and start supervisors.
//
// The supervisor:
//   - Sets TrapExit to receive exit signals as [erl.ExitMsg] messages
//   - Starts all children in order during Init
//   - Monitors children via links and handles their exits
//   - Restarts children according to strategy and restart type
//   - Tracks restart frequency and terminates if intensity exceeded
//   - Stops all children in reverse order during Terminate
type SupervisorS struct {
	callback Supervisor
}

// Init implements [genserver.GenServer.Init].
//
// Sets up the supervisor by:
//  1. Enabling TrapExit to receive child exit signals as messages
//  2. Calling the callback's Init to get configuration
//  3. Validating child specs (no duplicate IDs)
//  4. Starting all children in order
//
// If any child fails to start, previously started children are stopped
// and an error is returned, causing the supervisor to fail.
func (s SupervisorS) Init(self erl.PID, args any) (genserver.InitResult[supervisorState], error) {
	var err error
	erl.ProcessFlag(self, erl.TrapExit, true)
	initResult := s.callback.Init(self, args)
	if initResult.Ignore {
		return genserver.InitResult[supervisorState]{}, exitreason.Ignore
	}
	// checks for duplicate childIDs, which is an error
	children, err := newChildSpecs(initResult.ChildSpecs)
	if err != nil {
		return genserver.InitResult[supervisorState]{}, exitreason.Shutdown(err)
	}
	state := supervisorState{
		children:   children,
		childSpecs: initResult.ChildSpecs,
		flags:      initResult.SupFlags,
	}

	err = s.startChildren(self, state.children)
	if err != nil {
		erl.DebugPrintf("Supervisor[%v] error starting children: %v", self, err)
		if exitreason.IsShutdown(err) {
			return genserver.InitResult[supervisorState]{}, err
		} else {
			return genserver.InitResult[supervisorState]{}, exitreason.Shutdown(err)
		}
	}

	erl.DebugPrintf("Supervisor[%v] done initializing: %+v", self, state.children)
	return genserver.InitResult[supervisorState]{State: state}, nil
}

// Requests handled by [SupervisorS.HandleCall]. Unexported: callers reach
// these through the client functions in api.go, never by sending the
// request terms directly.
type (
	addChildRequest      struct{ spec ChildSpec }
	startChildRequest    struct{ spec ChildSpec }
	terminateChildReq    struct{ id string }
	restartChildReq      struct{ id string }
	deleteChildReq       struct{ id string }
	lookupChildReq       struct{ id string }
	whichChildrenRequest struct{}
	countChildrenRequest struct{}
)

type (
	addChildReply      struct{ ref ChildRef; err error }
	startChildReply    struct {
		pid erl.PID
		err error
	}
	terminateChildReply struct{ err error }
	restartChildReply   struct {
		pid erl.PID
		err error
	}
	deleteChildReply struct{ err error }
	lookupChildReply struct {
		info ChildInfo
		err  error
	}
	whichChildrenReply struct{ children []ChildInfo }
	countChildrenReply struct{ count ChildCount }
)

// HandleCall implements [genserver.GenServer.HandleCall].
//
// Dispatches the dynamic child management requests: addChild, startChild,
// terminateChild, restartChild, deleteChild, lookupChild, whichChildren,
// and countChildren. Domain errors (unknown id, already running, ...) are
// carried in the reply term rather than returned as the HandleCall error,
// since returning an error here would terminate the supervisor itself.
func (s SupervisorS) HandleCall(self erl.PID, request any, from genserver.From, state supervisorState) (genserver.CallResult[supervisorState], error) {
	switch req := request.(type) {
	case addChildRequest:
		if _, _, err := state.children.findByID(req.spec.ID); err == nil {
			return genserver.CallResult[supervisorState]{Msg: addChildReply{err: ErrAlreadyPresent}, State: state}, nil
		}
		spec := req.spec
		spec.ref = StoppedRef
		state.children.insert(spec) //nolint:errcheck
		return genserver.CallResult[supervisorState]{Msg: addChildReply{ref: spec.ref}, State: state}, nil

	case startChildRequest:
		if existing, _, err := state.children.findByID(req.spec.ID); err == nil {
			if existing.ref.IsLive() {
				return genserver.CallResult[supervisorState]{
					Msg:   startChildReply{err: AlreadyStartedError{PID: existing.ref.PID()}},
					State: state,
				}, nil
			}
			return genserver.CallResult[supervisorState]{Msg: startChildReply{err: ErrAlreadyPresent}, State: state}, nil
		}

		spec := req.spec
		spec.ref = StoppedRef
		state.children.insert(spec) //nolint:errcheck

		started, removed, err := s.startChild(self, spec)
		if removed {
			state.children.delete(spec.ID)
			return genserver.CallResult[supervisorState]{Msg: startChildReply{}, State: state}, nil
		}
		state.children.update(started) //nolint:errcheck
		return genserver.CallResult[supervisorState]{Msg: startChildReply{pid: started.ref.PID(), err: err}, State: state}, nil

	case terminateChildReq:
		_, spec, err := state.children.findByID(req.id)
		if err != nil {
			return genserver.CallResult[supervisorState]{Msg: terminateChildReply{err: ErrNotFound}, State: state}, nil
		}
		if !spec.ref.IsLive() {
			return genserver.CallResult[supervisorState]{Msg: terminateChildReply{}, State: state}, nil
		}
		terminated, keep := s.terminateChild(self, spec)
		if keep {
			state.children.update(terminated) //nolint:errcheck
		} else {
			state.children.delete(spec.ID)
		}
		return genserver.CallResult[supervisorState]{Msg: terminateChildReply{}, State: state}, nil

	case restartChildReq:
		_, spec, err := state.children.findByID(req.id)
		if err != nil {
			return genserver.CallResult[supervisorState]{Msg: restartChildReply{err: ErrNotFound}, State: state}, nil
		}
		if spec.ref.IsLive() {
			return genserver.CallResult[supervisorState]{Msg: restartChildReply{err: ErrRunning}, State: state}, nil
		}
		started, removed, err := s.startChild(self, spec)
		if removed {
			state.children.delete(spec.ID)
			return genserver.CallResult[supervisorState]{Msg: restartChildReply{}, State: state}, nil
		}
		state.children.update(started) //nolint:errcheck
		return genserver.CallResult[supervisorState]{Msg: restartChildReply{pid: started.ref.PID(), err: err}, State: state}, nil

	case deleteChildReq:
		_, spec, err := state.children.findByID(req.id)
		if err != nil {
			return genserver.CallResult[supervisorState]{Msg: deleteChildReply{err: ErrNotFound}, State: state}, nil
		}
		if spec.ref.IsLive() {
			return genserver.CallResult[supervisorState]{Msg: deleteChildReply{err: ErrRunning}, State: state}, nil
		}
		state.children.delete(req.id)
		return genserver.CallResult[supervisorState]{Msg: deleteChildReply{}, State: state}, nil

	case lookupChildReq:
		info, err := lookupChildInfo(state.children, req.id)
		return genserver.CallResult[supervisorState]{Msg: lookupChildReply{info: info, err: err}, State: state}, nil

	case whichChildrenRequest:
		return genserver.CallResult[supervisorState]{Msg: whichChildrenReply{children: whichChildrenInfo(state.children)}, State: state}, nil

	case countChildrenRequest:
		return genserver.CallResult[supervisorState]{Msg: countChildrenReply{count: countChildrenInfo(state.children)}, State: state}, nil

	default:
		erl.Logger.Printf("Supervisor[%v]: got unknown call request: %+v", self, request)
		return genserver.CallResult[supervisorState]{Msg: "not implemented", State: state}, nil
	}
}

func whichChildrenInfo(children *childSpecs) []ChildInfo {
	specs := children.list()
	infos := make([]ChildInfo, 0, len(specs))
	for _, c := range specs {
		infos = append(infos, ChildInfo{
			ID:      c.ID,
			PID:     c.ref.PID(),
			Type:    c.Type,
			Status:  c.ref.Status(),
			Restart: c.Restart,
		})
	}
	return infos
}

func lookupChildInfo(children *childSpecs, id string) (ChildInfo, error) {
	for _, info := range whichChildrenInfo(children) {
		if info.ID == id {
			return info, nil
		}
	}
	return ChildInfo{}, ErrNotFound
}

func countChildrenInfo(children *childSpecs) ChildCount {
	var count ChildCount
	for _, c := range children.list() {
		count.Specs++
		if c.ref.IsRunning() {
			count.Active++
		}
		switch c.Type {
		case SupervisorChild:
			count.Supervisors++
		default:
			count.Workers++
		}
	}
	return count
}

// HandleInfo implements [genserver.GenServer.HandleInfo].
//
// Handles [erl.ExitMsg] when children terminate. Delegates to restartChild
// to decide whether and how to restart based on:
//   - Child's restart type (Permanent, Transient, Temporary, Intrinsic)
//   - Exit reason (Normal, Shutdown, Exception, etc.)
//   - Supervisor's restart strategy
func (s SupervisorS) HandleInfo(self erl.PID, request any, state supervisorState) (genserver.InfoResult[supervisorState], error) {
	switch msg := request.(type) {
	case erl.ExitMsg:
		erl.Logger.Printf("GenServer %v got exit msg: %+v", self, msg)
		return s.restartChild(self, msg, state)
	default:
		erl.Logger.Printf("%v got unknown msg: %+v", self, msg)
	}

	return genserver.InfoResult[supervisorState]{State: state}, nil
}

// restartChild handles a child exit and decides whether to restart, per
// [restartDecision]: [Temporary] children are dropped, [Permanent] always
// restarts, [Transient] stops (keeping its spec) on a clean exit and
// restarts otherwise, and [Intrinsic] stops (keeping its spec) and ends the
// supervisor itself on a clean exit.
//
// Returns an error only when the restart window's intensity is exceeded or
// an [Intrinsic] child's clean exit propagates: either terminates the
// supervisor.
func (s SupervisorS) restartChild(self erl.PID, msg erl.ExitMsg, state supervisorState) (genserver.InfoResult[supervisorState], error) {
	childSpec, err := state.children.findByPID(msg.Proc)
	if err != nil {
		erl.DebugPrintf("Supervisor[%v]: no matching pid found", self, err)
		return genserver.InfoResult[supervisorState]{State: state}, nil
	}

	switch restartDecision(childSpec.Restart, msg.Reason) {
	case actionDrop:
		state.children.delete(childSpec.ID)
		return genserver.InfoResult[supervisorState]{State: state}, nil

	case actionStop:
		erl.DebugPrintf("Supervisor[%v]: transient child %v exited cleanly, keeping spec", self, childSpec.ID)
		state.children.updateRef(childSpec.ID, StoppedRef) //nolint:errcheck
		return genserver.InfoResult[supervisorState]{State: state}, nil

	case actionSupervisorExit:
		erl.DebugPrintf("Supervisor[%v]: intrinsic child %v exited cleanly, stopping supervisor", self, childSpec.ID)
		state.children.updateRef(childSpec.ID, StoppedRef) //nolint:errcheck
		return genserver.InfoResult[supervisorState]{State: state}, exitreason.Normal

	default:
		erl.DebugPrintf("Supervisor[%v] is restarting child: %+v", self, msg)
		newState, err := s.processChildRestart(self, childSpec, state)
		return genserver.InfoResult[supervisorState]{State: newState}, err
	}
}

// processChildRestart executes the restart according to strategy.
//
// First records the restart against the sliding window; if intensity is
// exceeded, returns an error to terminate the supervisor.
//
// Then dispatches by strategy:
//   - OneForOne: restart only the failed child
//   - OneForAll: run the whole registry through [SupervisorS.restartGroup]
//   - RestForOne: split at the failed child and run the tail through
//     [SupervisorS.restartGroup], keeping the untouched head as-is
func (s SupervisorS) processChildRestart(self erl.PID, childSpec ChildSpec, state supervisorState) (supervisorState, error) {
	erl.DebugPrintf("Supervisor[%v] restarting child: %+v", self, childSpec.ID)
	var err error
	state, err = state.addRestart()
	if err != nil {
		return state, err
	}

	switch state.flags.Strategy {
	case OneForOne:
		restarting := childSpec
		restarting.ref = RestartingRef(childSpec.ref.PID())
		state.children.updateRef(restarting.ID, restarting.ref) //nolint:errcheck

		started, _, _ := s.startChild(self, restarting)
		state.children.update(started) //nolint:errcheck

	case OneForAll:
		state.children = s.restartGroup(self, state.children, state.flags.Mode, state.flags.Direction)

	case RestForOne:
		keep, restart, err := state.children.split(childSpec.ID)
		if err != nil {
			return state, err
		}
		restarted := s.restartGroup(self, restart, state.flags.Mode, state.flags.Direction)
		keep.append(restarted) //nolint:errcheck
		state.children = keep

	default:
		return state, fmt.Errorf("should not have reached default case processChildRestart")
	}
	return state, nil
}

// HandleCast implements [genserver.GenServer.HandleCast].
//
// Currently not implemented. Future versions may support asynchronous
// supervisor operations.
func (s SupervisorS) HandleCast(self erl.PID, arg any, state supervisorState) (genserver.CastResult[supervisorState], error) {
	return genserver.CastResult[supervisorState]{State: state}, nil
}

// HandleContinue implements [genserver.GenServer.HandleContinue].
//
// Currently not implemented.
func (s SupervisorS) HandleContinue(self erl.PID, continuation any, state supervisorState) (supervisorState, any, error) {
	return state, nil, nil
}

// Terminate implements [genserver.GenServer.Terminate].
//
// Stops all children in reverse start order. Each child is terminated
// according to its [ShutdownOpt] configuration:
//   - Timeout: Wait up to N ms, then kill
//   - BrutalKill: Kill immediately
//   - Infinity: Wait forever
func (s SupervisorS) Terminate(self erl.PID, arg error, state supervisorState) {
	erl.Logger.Printf("stopping supervisor: %v", self)

	s.stopChildren(self, state.children.reverse())
}


