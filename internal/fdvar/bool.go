package fdvar

import (
	"fmt"

	"github.com/cspkit/fdsearch/internal/propagate"
)

// boolMask packs a Boolean variable's domain into two bits: bit 0 set means
// false is still possible, bit 1 set means true is still possible. A
// dedicated representation for the Boolean variety, since a general Bounds
// or Discrete variety would waste a whole int per value.
type boolMask uint8

const (
	maskFalse boolMask = 1 << 0
	maskTrue  boolMask = 1 << 1
	maskBoth  boolMask = maskFalse | maskTrue
)

// BoolVar is the Boolean finite-domain variety: a variable whose domain is
// a subset of {0, 1}.
type BoolVar struct {
	id   BaseVarID
	mask boolMask
	trig triggerSet
}

// NewBoolVar creates a fresh, unassigned Boolean variable.
func NewBoolVar(id BaseVarID) *BoolVar {
	return &BoolVar{id: id, mask: maskBoth}
}

func (v *BoolVar) BaseVar() BaseVarID { return v.id }
func (v *BoolVar) InitialMin() int    { return 0 }
func (v *BoolVar) InitialMax() int    { return 1 }

func (v *BoolVar) Min() int {
	if v.mask&maskFalse != 0 {
		return 0
	}
	return 1
}

func (v *BoolVar) Max() int {
	if v.mask&maskTrue != 0 {
		return 1
	}
	return 0
}

func (v *BoolVar) InDomain(val int) bool {
	switch val {
	case 0:
		return v.mask&maskFalse != 0
	case 1:
		return v.mask&maskTrue != 0
	default:
		return false
	}
}

func (v *BoolVar) DomSize() int {
	n := 0
	if v.mask&maskFalse != 0 {
		n++
	}
	if v.mask&maskTrue != 0 {
		n++
	}
	return n
}

func (v *BoolVar) IsAssigned() bool { return v.mask == maskFalse || v.mask == maskTrue }

func (v *BoolVar) AssignedValue() int {
	switch v.mask {
	case maskFalse:
		return 0
	case maskTrue:
		return 1
	default:
		PanicContractViolation("BoolVar.AssignedValue", fmt.Sprintf("called on unassigned variable (mask=%02b)", v.mask))
		return 0
	}
}

func (v *BoolVar) setMask(ctx *propagate.EngineContext, newMask boolMask) error {
	if newMask == v.mask {
		return nil
	}
	old := v.mask
	ctx.Trail.Record(trailRestoreMask{v: v, mask: old})
	v.mask = newMask
	if newMask == 0 {
		return ErrWipeout
	}

	removed := old &^ newMask
	var removedValue int
	if removed == maskFalse {
		removedValue = 0
	} else {
		removedValue = 1
	}
	delta := Delta{Kind: DeltaValueRemoved, Value: removedValue}
	if v.IsAssigned() {
		delta.Kind = DeltaAssigned
		delta.NewMin, delta.NewMax = v.Min(), v.Max()
	}
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventDomainChanged, removedValue, true, delta))
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventValueRemoved, removedValue, true, delta))
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventBoundsChanged, removedValue, true, delta))
	if v.IsAssigned() {
		ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventAssigned, removedValue, true, delta))
	}
	return nil
}

func (v *BoolVar) SetMin(ctx *propagate.EngineContext, val int) error {
	if val <= 0 {
		return nil
	}
	if val > 1 {
		return v.setMask(ctx, 0)
	}
	return v.setMask(ctx, v.mask&^maskFalse)
}

func (v *BoolVar) SetMax(ctx *propagate.EngineContext, val int) error {
	if val >= 1 {
		return nil
	}
	if val < 0 {
		return v.setMask(ctx, 0)
	}
	return v.setMask(ctx, v.mask&^maskTrue)
}

func (v *BoolVar) RemoveFromDomain(ctx *propagate.EngineContext, val int) error {
	switch val {
	case 0:
		return v.setMask(ctx, v.mask&^maskFalse)
	case 1:
		return v.setMask(ctx, v.mask&^maskTrue)
	default:
		return nil
	}
}

func (v *BoolVar) Assign(ctx *propagate.EngineContext, val int) error {
	if !v.InDomain(val) {
		return ErrWipeout
	}
	return v.UncheckedAssign(ctx, val)
}

func (v *BoolVar) UncheckedAssign(ctx *propagate.EngineContext, val int) error {
	if val == 0 {
		return v.setMask(ctx, maskFalse)
	}
	return v.setMask(ctx, maskTrue)
}

func (v *BoolVar) AddDynamicTrigger(t propagate.Trigger) { v.trig.add(t) }

func (v *BoolVar) SeedInitialState(ctx *propagate.EngineContext) {
	d := Delta{Kind: DeltaMinRaised, NewMin: v.Min(), NewMax: v.Max()}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventDomainChanged, 0, false, d))
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventBoundsChanged, 0, false, d))
	if v.IsAssigned() {
		ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventAssigned, 0, false, d))
	}
}

func (v *BoolVar) GetDomainChange(payload any) int {
	return domainChangeValue(payload.(Delta))
}

func (v *BoolVar) GetMapperStack() []Mapper { return nil }

func (v *BoolVar) PopOneMapper() Var {
	PanicContractViolation("BoolVar.PopOneMapper", "called on a variable with no mapper stack")
	return nil
}

func (v *BoolVar) String() string {
	switch v.mask {
	case maskFalse:
		return "0"
	case maskTrue:
		return "1"
	case maskBoth:
		return "{0,1}"
	default:
		return "{}"
	}
}

// trailRestoreMask undoes a BoolVar mask change.
type trailRestoreMask struct {
	v    *BoolVar
	mask boolMask
}

func (r trailRestoreMask) Undo() { r.v.mask = r.mask }
