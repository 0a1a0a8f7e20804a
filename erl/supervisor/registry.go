package supervisor

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/elowen-systems/supervisor/erl"
)

// childSpecs is the supervisor's child registry: an ordered sequence of
// ChildSpec keyed by ID. It is single-writer (only ever touched from inside
// the supervisor's own message handlers) so it needs no locking. Order is
// insertion order and is significant for group restarts and shutdown.
type childSpecs struct {
	specs []ChildSpec
}

func newChildSpecs(specs []ChildSpec) (*childSpecs, error) {
	cs := &childSpecs{specs: specs}

	if err := cs.checkDups(); err != nil {
		return cs, err
	}

	return cs, nil
}

// insert appends a new spec, failing if its ID already exists.
func (cs *childSpecs) insert(spec ChildSpec) error {
	if _, _, err := cs.findByID(spec.ID); err == nil {
		return fmt.Errorf("duplicate childspec id: %s", spec.ID)
	}
	cs.specs = append(cs.specs, spec)
	return nil
}

func (cs *childSpecs) findByID(childID string) (int, ChildSpec, error) {
	for idx, child := range cs.specs {
		if child.ID == childID {
			return idx, child, nil
		}
	}
	return 0, ChildSpec{}, fmt.Errorf("no child found by id: %v", childID)
}

func (cs *childSpecs) findByPID(pid erl.PID) (ChildSpec, error) {
	for _, childSpec := range cs.specs {
		if childSpec.ref.IsLive() && childSpec.ref.PID().Equals(pid) {
			return childSpec, nil
		}
	}
	return ChildSpec{}, fmt.Errorf("no child matched pid: %v", pid)
}

// updateRef replaces just the ChildRef portion of a spec, leaving the
// declared policy (Start/Restart/Shutdown/Type) untouched.
func (cs *childSpecs) updateRef(childID string, ref ChildRef) error {
	for idx, c := range cs.specs {
		if c.ID == childID {
			cs.specs[idx].ref = ref
			return nil
		}
	}
	return fmt.Errorf("no child found by id: %v", childID)
}

func (cs *childSpecs) update(child ChildSpec) error {
	for idx, c := range cs.specs {
		if c.ID == child.ID {
			cs.specs[idx] = child
			return nil
		}
	}
	return fmt.Errorf("no child found by id: %v", child.ID)
}

func (cs *childSpecs) list() []ChildSpec {
	return cs.specs
}

func (cs *childSpecs) delete(childID string) {
	cs.specs = slices.DeleteFunc(cs.specs, func(x ChildSpec) bool {
		return x.ID == childID
	})
}

// split partitions the registry around childID: the left half holds every
// sibling started before it, the right half holds childID and everything
// started after it. Used by RestForOne to isolate the dependents of a
// failed child.
func (cs *childSpecs) split(childID string) (*childSpecs, *childSpecs, error) {
	for idx, child := range cs.specs {
		if child.ID == childID {
			left := cs.specs[:idx]
			right := cs.specs[idx:]

			return &childSpecs{specs: left}, &childSpecs{specs: right}, nil
		}
	}
	return &childSpecs{}, &childSpecs{}, fmt.Errorf("could not split; no child id matched: %v", childID)
}

func (cs *childSpecs) append(in *childSpecs) error {
	cs.specs = append(cs.specs, in.specs...)

	return cs.checkDups()
}

func (cs *childSpecs) checkDups() error {
	seen := make(map[string]struct{}, len(cs.specs))

	for _, spec := range cs.specs {
		if _, ok := seen[spec.ID]; ok {
			return fmt.Errorf("duplicate childspec id found: %s", spec.ID)
		}
		seen[spec.ID] = struct{}{}
	}
	return nil
}

// reverse returns a new registry holding the same specs in reverse order.
func (cs *childSpecs) reverse() *childSpecs {
	reversed := make([]ChildSpec, len(cs.specs))
	copy(reversed, cs.specs)
	slices.Reverse(reversed)
	return &childSpecs{specs: reversed}
}

// ordered returns the registry's specs in the given [Direction]: a copy for
// RightToLeft, the underlying slice itself for LeftToRight.
func (cs *childSpecs) ordered(dir Direction) []ChildSpec {
	if dir == RightToLeft {
		return cs.reverse().specs
	}
	return cs.specs
}
