package supervisor

import (
	"github.com/elowen-systems/supervisor/erl"
	"github.com/elowen-systems/supervisor/erl/genserver"
)

func NewTestServerChildSpec[STATE any](id string, ts genserver.TestServer[STATE], gsOpts genserver.StartOpts, opts ...ChildSpecOpt) ChildSpec {
	return NewChildSpec(id, func(sup erl.PID) (erl.PID, error) {
		return genserver.StartLink[STATE](sup, ts, nil, genserver.InheritOpts(gsOpts))
	})
}
