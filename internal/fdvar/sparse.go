package fdvar

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cspkit/fdsearch/internal/propagate"
)

// SparseBoundsVar is the Sparse-bounds variety: a variable that tracks
// [min, max] like BoundsVar, but additionally remembers interior holes
// punched out of that interval, so a constraint can both reason cheaply
// over bounds and ask InDomain for any interior value. Holes do not widen
// DomSize back out if min/max later move past them; once a value is gone
// it stays gone for the life of the branch.
type SparseBoundsVar struct {
	id          BaseVarID
	initMin     int
	initMax     int
	min, max    int
	holes       map[int]struct{}
	domSize     int
	trig        triggerSet
}

// NewSparseBoundsVar creates a Sparse-bounds variable with initial domain
// [lo, hi] and no holes.
func NewSparseBoundsVar(id BaseVarID, lo, hi int) *SparseBoundsVar {
	return &SparseBoundsVar{id: id, initMin: lo, initMax: hi, min: lo, max: hi, domSize: hi - lo + 1}
}

// NewSparseBoundsVarFromValues creates a Sparse-bounds variable whose initial
// domain is exactly the given value set, which need not be contiguous:
// {2,5,9,14} is a valid initial domain, not just a [lo,hi] range. Values are
// sorted and deduplicated; every integer in [min,max] absent from the set
// becomes an initial hole.
func NewSparseBoundsVarFromValues(id BaseVarID, values []int) *SparseBoundsVar {
	if len(values) == 0 {
		PanicContractViolation("NewSparseBoundsVarFromValues", "empty initial value set")
	}
	present := make(map[int]struct{}, len(values))
	for _, x := range values {
		present[x] = struct{}{}
	}
	uniq := make([]int, 0, len(present))
	for x := range present {
		uniq = append(uniq, x)
	}
	sort.Ints(uniq)

	lo, hi := uniq[0], uniq[len(uniq)-1]
	var holes map[int]struct{}
	for x := lo; x <= hi; x++ {
		if _, ok := present[x]; !ok {
			if holes == nil {
				holes = make(map[int]struct{})
			}
			holes[x] = struct{}{}
		}
	}
	return &SparseBoundsVar{id: id, initMin: lo, initMax: hi, min: lo, max: hi, holes: holes, domSize: len(uniq)}
}

func (v *SparseBoundsVar) BaseVar() BaseVarID { return v.id }
func (v *SparseBoundsVar) InitialMin() int    { return v.initMin }
func (v *SparseBoundsVar) InitialMax() int    { return v.initMax }
func (v *SparseBoundsVar) Min() int           { return v.min }
func (v *SparseBoundsVar) Max() int           { return v.max }

func (v *SparseBoundsVar) InDomain(val int) bool {
	if val < v.min || val > v.max {
		return false
	}
	if v.holes == nil {
		return true
	}
	_, removed := v.holes[val]
	return !removed
}

func (v *SparseBoundsVar) DomSize() int { return v.domSize }
func (v *SparseBoundsVar) IsAssigned() bool {
	return v.domSize == 1
}
func (v *SparseBoundsVar) AssignedValue() int {
	if !v.IsAssigned() {
		PanicContractViolation("SparseBoundsVar.AssignedValue", "called on unassigned variable")
	}
	return v.min
}

// advanceMin walks min forward past any holes now sitting at the boundary,
// so Min() never returns a value that is actually a hole.
func (v *SparseBoundsVar) advanceMin() {
	for v.holes != nil && v.min <= v.max {
		if _, removed := v.holes[v.min]; !removed {
			return
		}
		delete(v.holes, v.min)
		v.min++
	}
}

func (v *SparseBoundsVar) advanceMax() {
	for v.holes != nil && v.max >= v.min {
		if _, removed := v.holes[v.max]; !removed {
			return
		}
		delete(v.holes, v.max)
		v.max--
	}
}

func (v *SparseBoundsVar) enqueue(ctx *propagate.EngineContext, d Delta) {
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventBoundsChanged, 0, false, d))
	ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventDomainChanged, 0, false, d))
	if v.IsAssigned() {
		ctx.Queue.EnqueueAll(v.trig.firing(propagate.EventAssigned, 0, false, d))
	}
}

func (v *SparseBoundsVar) SetMin(ctx *propagate.EngineContext, val int) error {
	if val <= v.min {
		return nil
	}
	oldMin, oldMax := v.min, v.max
	ctx.Trail.Record(v.snapshot())
	v.removeBelow(val)
	v.advanceMin()
	if v.min > v.max {
		return ErrWipeout
	}
	d := Delta{Kind: DeltaMinRaised, OldMin: oldMin, NewMin: v.min, OldMax: oldMax, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueue(ctx, d)
	return nil
}

func (v *SparseBoundsVar) SetMax(ctx *propagate.EngineContext, val int) error {
	if val >= v.max {
		return nil
	}
	oldMin, oldMax := v.min, v.max
	ctx.Trail.Record(v.snapshot())
	v.removeAbove(val)
	v.advanceMax()
	if v.min > v.max {
		return ErrWipeout
	}
	d := Delta{Kind: DeltaMaxLowered, OldMin: oldMin, NewMin: v.min, OldMax: oldMax, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueue(ctx, d)
	return nil
}

// removeBelow deletes every currently-present value strictly below val from
// domSize's count and advances v.min to val; it does not call advanceMin.
func (v *SparseBoundsVar) removeBelow(val int) {
	n := 0
	for x := v.min; x < val && x <= v.max; x++ {
		if v.holes == nil {
			n++
			continue
		}
		if _, removed := v.holes[x]; !removed {
			n++
		} else {
			delete(v.holes, x)
		}
	}
	v.min = val
	v.domSize -= n
}

func (v *SparseBoundsVar) removeAbove(val int) {
	n := 0
	for x := v.max; x > val && x >= v.min; x-- {
		if v.holes == nil {
			n++
			continue
		}
		if _, removed := v.holes[x]; !removed {
			n++
		} else {
			delete(v.holes, x)
		}
	}
	v.max = val
	v.domSize -= n
}

func (v *SparseBoundsVar) RemoveFromDomain(ctx *propagate.EngineContext, val int) error {
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
	if v.holes == nil {
		v.holes = make(map[int]struct{})
	}
	v.holes[val] = struct{}{}
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

func (v *SparseBoundsVar) Assign(ctx *propagate.EngineContext, val int) error {
	if !v.InDomain(val) {
		return ErrWipeout
	}
	return v.UncheckedAssign(ctx, val)
}

func (v *SparseBoundsVar) UncheckedAssign(ctx *propagate.EngineContext, val int) error {
	if v.IsAssigned() && v.min == val {
		return nil
	}
	oldMin, oldMax := v.min, v.max
	ctx.Trail.Record(v.snapshot())
	v.min, v.max = val, val
	v.holes = nil
	v.domSize = 1
	d := Delta{Kind: DeltaAssigned, OldMin: oldMin, NewMin: val, OldMax: oldMax, NewMax: val}
	v.enqueue(ctx, d)
	return nil
}

func (v *SparseBoundsVar) AddDynamicTrigger(t propagate.Trigger) { v.trig.add(t) }

func (v *SparseBoundsVar) SeedInitialState(ctx *propagate.EngineContext) {
	d := Delta{Kind: DeltaMinRaised, OldMin: v.min, NewMin: v.min, OldMax: v.max, NewMax: v.max}
	if v.IsAssigned() {
		d.Kind = DeltaAssigned
	}
	v.enqueue(ctx, d)
}

func (v *SparseBoundsVar) GetDomainChange(payload any) int {
	return domainChangeValue(payload.(Delta))
}

func (v *SparseBoundsVar) GetMapperStack() []Mapper { return nil }

func (v *SparseBoundsVar) PopOneMapper() Var {
	PanicContractViolation("SparseBoundsVar.PopOneMapper", "called on a variable with no mapper stack")
	return nil
}

func (v *SparseBoundsVar) String() string {
	if v.IsAssigned() {
		return strconv.Itoa(v.min)
	}
	return fmt.Sprintf("[%d,%d]\\holes(%d)", v.min, v.max, len(v.holes))
}

// snapshot captures enough state to undo any single mutation above: full
// copy-on-write of the holes map keeps the trail record self-contained
// without needing per-hole undo records.
func (v *SparseBoundsVar) snapshot() trailRestoreSparse {
	var holesCopy map[int]struct{}
	if v.holes != nil {
		holesCopy = make(map[int]struct{}, len(v.holes))
		for k := range v.holes {
			holesCopy[k] = struct{}{}
		}
	}
	return trailRestoreSparse{v: v, min: v.min, max: v.max, holes: holesCopy, domSize: v.domSize}
}

type trailRestoreSparse struct {
	v       *SparseBoundsVar
	min, max int
	holes   map[int]struct{}
	domSize int
}

func (r trailRestoreSparse) Undo() {
	r.v.min, r.v.max = r.min, r.max
	r.v.holes = r.holes
	r.v.domSize = r.domSize
}
