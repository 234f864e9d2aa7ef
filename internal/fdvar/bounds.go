package fdvar

import (
	"fmt"
	"strconv"

	"github.com/cspkit/fdsearch/internal/propagate"
)

// BoundsVar is the Bounds variety: a variable whose domain is always a
// contiguous interval [min, max], with no hole tracking. Constraints that
// only ever reason about bounds (linear sums, difference constraints) use
// this variety because it never pays for hole bookkeeping it cannot use.
type BoundsVar struct {
	id       BaseVarID
	initMin  int
	initMax  int
	min, max int
	trig     triggerSet
}

// NewBoundsVar creates a Bounds variable with initial domain [lo, hi].
func NewBoundsVar(id BaseVarID, lo, hi int) *BoundsVar {
	return &BoundsVar{id: id, initMin: lo, initMax: hi, min: lo, max: hi}
}

func (v *BoundsVar) BaseVar() BaseVarID { return v.id }
func (v *BoundsVar) InitialMin() int    { return v.initMin }
func (v *BoundsVar) InitialMax() int    { return v.initMax }
func (v *BoundsVar) Min() int           { return v.min }
func (v *BoundsVar) Max() int           { return v.max }
func (v *BoundsVar) InDomain(val int) bool {
	return val >= v.min && val <= v.max
}
func (v *BoundsVar) DomSize() int {
	if v.min > v.max {
		return 0
	}
	return v.max - v.min + 1
}
func (v *BoundsVar) IsAssigned() bool { return v.min == v.max }
func (v *BoundsVar) AssignedValue() int {
	if !v.IsAssigned() {
		PanicContractViolation("BoundsVar.AssignedValue", "called on unassigned variable")
	}
	return v.min
}

func (v *BoundsVar) enqueue(ctx *propagate.EngineContext, d Delta) {
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventBoundsChanged, 0, false, d))
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventDomainChanged, 0, false, d))
	if v.IsAssigned() {
		ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventAssigned, 0, false, d))
	}
}

func (v *BoundsVar) SetMin(ctx *propagate.EngineContext, val int) error {
	if val <= v.min {
		return nil
	}
	old := v.min
	ctx.Trail.Record(trailRestoreBounds{v: v, min: old, max: v.max})
	v.min = val
	if v.min > v.max {
		return ErrWipeout
	}
	d := Delta{Kind: DeltaMinRaised, OldMin: old, NewMin: v.min, OldMax: v.max, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueue(ctx, d)
	return nil
}

func (v *BoundsVar) SetMax(ctx *propagate.EngineContext, val int) error {
	if val >= v.max {
		return nil
	}
	old := v.max
	ctx.Trail.Record(trailRestoreBounds{v: v, min: v.min, max: old})
	v.max = val
	if v.min > v.max {
		return ErrWipeout
	}
	d := Delta{Kind: DeltaMaxLowered, OldMin: v.min, NewMin: v.min, OldMax: old, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueue(ctx, d)
	return nil
}

// RemoveFromDomain on a Bounds variable can only narrow a bound: removing
// an interior value would punch a hole this variety cannot represent, so it
// is a ContractViolation rather than a silent no-op.
func (v *BoundsVar) RemoveFromDomain(ctx *propagate.EngineContext, val int) error {
	switch {
	case val == v.min:
		return v.SetMin(ctx, val+1)
	case val == v.max:
		return v.SetMax(ctx, val-1)
	case val > v.min && val < v.max:
		PanicContractViolation("BoundsVar.RemoveFromDomain", fmt.Sprintf("cannot remove interior value %s from a Bounds variable", strconv.Itoa(val)))
		return nil
	default:
		return nil
	}
}

func (v *BoundsVar) Assign(ctx *propagate.EngineContext, val int) error {
	if !v.InDomain(val) {
		return ErrWipeout
	}
	return v.UncheckedAssign(ctx, val)
}

func (v *BoundsVar) UncheckedAssign(ctx *propagate.EngineContext, val int) error {
	old := v.min
	oldMax := v.max
	if val == old && val == oldMax {
		return nil
	}
	ctx.Trail.Record(trailRestoreBounds{v: v, min: old, max: oldMax})
	v.min, v.max = val, val
	d := Delta{Kind: DeltaAssigned, OldMin: old, NewMin: val, OldMax: oldMax, NewMax: val}
	v.enqueue(ctx, d)
	return nil
}

func (v *BoundsVar) AddDynamicTrigger(t propagate.Trigger) { v.trig.add(t) }

func (v *BoundsVar) SeedInitialState(ctx *propagate.EngineContext) {
	d := Delta{Kind: DeltaMinRaised, OldMin: v.min, NewMin: v.min, OldMax: v.max, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueue(ctx, d)
}

func (v *BoundsVar) GetDomainChange(payload any) int {
	return domainChangeValue(payload.(Delta))
}

func (v *BoundsVar) GetMapperStack() []Mapper { return nil }

func (v *BoundsVar) PopOneMapper() Var {
	PanicContractViolation("BoundsVar.PopOneMapper", "called on a variable with no mapper stack")
	return nil
}

func (v *BoundsVar) String() string {
	if v.IsAssigned() {
		return strconv.Itoa(v.min)
	}
	return fmt.Sprintf("[%d,%d]", v.min, v.max)
}

type trailRestoreBounds struct {
	v        *BoundsVar
	min, max int
}

func (r trailRestoreBounds) Undo() { r.v.min, r.v.max = r.min, r.max }
