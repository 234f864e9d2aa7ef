// Package constraints provides two propagators for exercising the
// propagator contract end to end: a disequality constraint and a
// bounds-consistency linear sum. Neither is part of a global-constraint
// catalogue; they exist purely as test and demonstration fixtures for the
// variable/trigger substrate.
package constraints

import (
	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
)

// NotEqual enforces x != y. It subscribes to EventAssigned on both
// variables: as soon as one is pinned down, the value is removed from the
// other if it sits at the other's current min or max, which may itself
// trigger further propagation or a wipeout. A value strictly inside the
// other's bounds is not removed (see pruneAtBoundary).
type NotEqual struct {
	x, y fdvar.Var
}

// NewNotEqual builds a disequality propagator and registers its triggers
// against x and y.
func NewNotEqual(x, y fdvar.Var) *NotEqual {
	c := &NotEqual{x: x, y: y}
	x.AddDynamicTrigger(propagate.Trigger{Propagator: c, Event: propagate.EventAssigned, Opcode: 0})
	y.AddDynamicTrigger(propagate.Trigger{Propagator: c, Event: propagate.EventAssigned, Opcode: 1})
	return c
}

func (c *NotEqual) Name() string { return "not-equal" }

func (c *NotEqual) Propagate(ctx *propagate.EngineContext, t propagate.Trigger) error {
	if t.Opcode == 0 {
		if !c.x.IsAssigned() {
			fdvar.PanicContractViolation(c.Name(), "fired for x but x is not assigned")
		}
		return pruneAtBoundary(ctx, c.y, c.x.AssignedValue())
	}
	if !c.y.IsAssigned() {
		fdvar.PanicContractViolation(c.Name(), "fired for y but y is not assigned")
	}
	return pruneAtBoundary(ctx, c.x, c.y.AssignedValue())
}

// pruneAtBoundary removes val from v's domain only when that removal is
// representable by every variety, regardless of whether v can hold an
// interior hole: val absent, or val sitting at v's current min or max. An
// interior value is left alone rather than removed, since a Bounds variable
// cannot represent the resulting hole; the collision it would have pruned
// is still caught when the colliding side is itself assigned that value,
// at which point removing it is always a boundary case.
func pruneAtBoundary(ctx *propagate.EngineContext, v fdvar.Var, val int) error {
	if !v.InDomain(val) {
		return nil
	}
	if val == v.Min() || val == v.Max() {
		return v.RemoveFromDomain(ctx, val)
	}
	return nil
}
