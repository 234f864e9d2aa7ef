package fdvar

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cspkit/fdsearch/internal/propagate"
)

// DiscreteVar is the Discrete variety: a variable whose initial domain is
// an arbitrary finite set of ints, not necessarily contiguous, backed by a
// dense present/absent array so membership, iteration, and removal are all
// O(1) or O(domain width) rather than needing a sorted structure.
type DiscreteVar struct {
	id      BaseVarID
	initMin int
	initMax int
	offset  int
	present []bool
	min, max int
	domSize int
	trig    triggerSet
}

// NewDiscreteVar creates a Discrete variable whose initial domain is
// exactly the values in vs (deduplicated, order irrelevant).
func NewDiscreteVar(id BaseVarID, vs []int) *DiscreteVar {
	if len(vs) == 0 {
		PanicContractViolation("NewDiscreteVar", "initial domain must be non-empty")
	}
	sorted := append([]int(nil), vs...)
	sort.Ints(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	present := make([]bool, hi-lo+1)
	n := 0
	for _, x := range sorted {
		idx := x - lo
		if !present[idx] {
			present[idx] = true
			n++
		}
	}
	return &DiscreteVar{
		id: id, initMin: lo, initMax: hi, offset: lo,
		present: present, min: lo, max: hi, domSize: n,
	}
}

func (v *DiscreteVar) BaseVar() BaseVarID { return v.id }
func (v *DiscreteVar) InitialMin() int    { return v.initMin }
func (v *DiscreteVar) InitialMax() int    { return v.initMax }
func (v *DiscreteVar) Min() int           { return v.min }
func (v *DiscreteVar) Max() int           { return v.max }

func (v *DiscreteVar) InDomain(val int) bool {
	idx := val - v.offset
	if idx < 0 || idx >= len(v.present) {
		return false
	}
	return v.present[idx]
}

func (v *DiscreteVar) DomSize() int     { return v.domSize }
func (v *DiscreteVar) IsAssigned() bool { return v.domSize == 1 }
func (v *DiscreteVar) AssignedValue() int {
	if !v.IsAssigned() {
		PanicContractViolation("DiscreteVar.AssignedValue", "called on unassigned variable")
	}
	return v.min
}

func (v *DiscreteVar) advanceMin() {
	for v.min <= v.max && !v.present[v.min-v.offset] {
		v.min++
	}
}

func (v *DiscreteVar) advanceMax() {
	for v.max >= v.min && !v.present[v.max-v.offset] {
		v.max--
	}
}

func (v *DiscreteVar) enqueueBounds(ctx *propagate.EngineContext, d Delta) {
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventBoundsChanged, 0, false, d))
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventDomainChanged, 0, false, d))
	if v.IsAssigned() {
		ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventAssigned, 0, false, d))
	}
}

func (v *DiscreteVar) SetMin(ctx *propagate.EngineContext, val int) error {
	if val <= v.min {
		return nil
	}
	oldMin, oldMax := v.min, v.max
	ctx.Trail.Record(v.snapshot())
	for x := v.min; x < val && x <= v.max; x++ {
		if v.present[x-v.offset] {
			v.present[x-v.offset] = false
			v.domSize--
		}
	}
	v.min = val
	v.advanceMin()
	if v.min > v.max || v.domSize == 0 {
		return ErrWipeout
	}
	d := Delta{Kind: DeltaMinRaised, OldMin: oldMin, NewMin: v.min, OldMax: oldMax, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueueBounds(ctx, d)
	return nil
}

func (v *DiscreteVar) SetMax(ctx *propagate.EngineContext, val int) error {
	if val >= v.max {
		return nil
	}
	oldMin, oldMax := v.min, v.max
	ctx.Trail.Record(v.snapshot())
	for x := v.max; x > val && x >= v.min; x-- {
		if v.present[x-v.offset] {
			v.present[x-v.offset] = false
			v.domSize--
		}
	}
	v.max = val
	v.advanceMax()
	if v.min > v.max || v.domSize == 0 {
		return ErrWipeout
	}
	d := Delta{Kind: DeltaMaxLowered, OldMin: oldMin, NewMin: v.min, OldMax: oldMax, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueueBounds(ctx, d)
	return nil
}

func (v *DiscreteVar) RemoveFromDomain(ctx *propagate.EngineContext, val int) error {
	if !v.InDomain(val) {
		return nil
	}
	if val == v.min {
		return v.SetMin(ctx, val+1)
	}
	if val == v.max {
		return v.SetMax(ctx, val-1)
	}
	oldMin, oldMax := v.min, v.max
	ctx.Trail.Record(v.snapshot())
	v.present[val-v.offset] = false
	v.domSize--
	if v.domSize == 0 {
		return ErrWipeout
	}
	d := Delta{Kind: DeltaValueRemoved, OldMin: oldMin, NewMin: v.min, OldMax: oldMax, NewMax: v.max, Value: val}
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventDomainChanged, val, true, d))
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventValueRemoved, val, true, d))
	if v.IsAssigned() {
		ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventAssigned, val, true, d))
	}
	return nil
}

func (v *DiscreteVar) Assign(ctx *propagate.EngineContext, val int) error {
	if !v.InDomain(val) {
		return ErrWipeout
	}
	return v.UncheckedAssign(ctx, val)
}

func (v *DiscreteVar) UncheckedAssign(ctx *propagate.EngineContext, val int) error {
	if v.IsAssigned() && v.min == val {
		return nil
	}
	oldMin, oldMax := v.min, v.max
	ctx.Trail.Record(v.snapshot())
	for x := oldMin; x <= oldMax; x++ {
		if x != val {
			v.present[x-v.offset] = false
		}
	}
	v.min, v.max = val, val
	v.domSize = 1
	d := Delta{Kind: DeltaAssigned, OldMin: oldMin, NewMin: val, OldMax: oldMax, NewMax: val}
	v.enqueueBounds(ctx, d)
	return nil
}

func (v *DiscreteVar) AddDynamicTrigger(t propagate.Trigger) { v.trig.add(t) }

func (v *DiscreteVar) SeedInitialState(ctx *propagate.EngineContext) {
	d := Delta{Kind: DeltaMinRaised, OldMin: v.min, NewMin: v.min, OldMax: v.max, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueueBounds(ctx, d)
}

func (v *DiscreteVar) GetDomainChange(payload any) int {
	return domainChangeValue(payload.(Delta))
}

func (v *DiscreteVar) GetMapperStack() []Mapper { return nil }

func (v *DiscreteVar) PopOneMapper() Var {
	PanicContractViolation("DiscreteVar.PopOneMapper", "called on a variable with no mapper stack")
	return nil
}

func (v *DiscreteVar) String() string {
	if v.IsAssigned() {
		return strconv.Itoa(v.min)
	}
	return fmt.Sprintf("{%d values in [%d,%d]}", v.domSize, v.min, v.max)
}

func (v *DiscreteVar) snapshot() trailRestoreDiscrete {
	return trailRestoreDiscrete{
		v: v, min: v.min, max: v.max, domSize: v.domSize,
		present: append([]bool(nil), v.present...),
	}
}

type trailRestoreDiscrete struct {
	v        *DiscreteVar
	min, max int
	domSize  int
	present  []bool
}

func (r trailRestoreDiscrete) Undo() {
	r.v.min, r.v.max = r.min, r.max
	r.v.domSize = r.domSize
	r.v.present = r.present
}
