// Package propagate implements the trigger queue and fixpoint engine: the
// event-driven substrate that drains constraint propagators to a fixpoint
// after every variable mutation, and the explicit engine context (trail +
// queue) threaded through the API instead of held as process-wide state.
package propagate

import "github.com/cspkit/fdsearch/internal/trail"

// EventKind enumerates the events a trigger can subscribe to.
type EventKind int

const (
	// EventAssigned fires when a variable becomes a singleton.
	EventAssigned EventKind = iota
	// EventBoundsChanged fires when min and/or max moves (including assignment).
	EventBoundsChanged
	// EventDomainChanged fires on any domain shrink, including an interior
	// hole removal that does not move either bound.
	EventDomainChanged
	// EventValueRemoved fires when a specific value is removed from the
	// domain as an interior hole (Sparse-bounds, Discrete) or from a Boolean
	// variable. Triggers of this kind carry the value they care about. Values
	// that leave a Bounds, Sparse-bounds or Discrete domain through a bound
	// move (SetMin, SetMax, Assign, or RemoveFromDomain at a bound) raise
	// EventBoundsChanged/EventDomainChanged only, not EventValueRemoved.
	EventValueRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventAssigned:
		return "assigned"
	case EventBoundsChanged:
		return "bounds-changed"
	case EventDomainChanged:
		return "domain-changed"
	case EventValueRemoved:
		return "value-removed"
	default:
		return "unknown-event"
	}
}

// Propagator is the contract every constraint implements. A constraint
// registers triggers against the variables it reads during setup, then
// Propagate is invoked once per matching event. Propagate may mutate any
// variable (which recursively enqueues further triggers) and may return a
// Wipeout-style error; the engine treats any non-nil error as a dead branch
// and stops draining the queue.
type Propagator interface {
	// Propagate runs the constraint's filtering logic for one firing. ctx
	// gives access to the trail and queue shared by the whole engine; t is
	// the trigger that caused this firing, letting the propagator recover
	// which variable/event fired without re-deriving it, and project the
	// domain delta that caused it via t.Payload.
	Propagate(ctx *EngineContext, t Trigger) error
	// Name identifies the propagator for diagnostics; it is not used for
	// dispatch.
	Name() string
}

// Trigger is a subscription: (propagator, event-kind, optional value,
// optional opcode). Value is meaningful only for EventValueRemoved; Opcode
// is an opaque payload a propagator can use to distinguish which of several
// variables it watches fired without re-deriving that from the variable
// itself. Payload carries the domain-change record (an fdvar.Delta) the
// firing mutation produced, consumed via the getDomainChange projection.
type Trigger struct {
	Propagator Propagator
	Event      EventKind
	Value      int
	HasValue   bool
	Opcode     int
	Payload    any
}

// Queue is a FIFO propagation queue. Triggers enqueued within one firing
// round preserve enqueue order; the engine makes no ordering guarantee
// across rounds of fixpoint computation.
type Queue struct {
	items []Trigger
	head  int
}

// Enqueue appends a trigger to the back of the queue.
func (q *Queue) Enqueue(t Trigger) {
	q.items = append(q.items, t)
}

// EnqueueAll appends every trigger in ts, preserving order.
func (q *Queue) EnqueueAll(ts []Trigger) {
	q.items = append(q.items, ts...)
}

// dequeue pops the trigger at the front of the queue, or reports empty.
func (q *Queue) dequeue() (Trigger, bool) {
	if q.head >= len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return Trigger{}, false
	}
	t := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return t, true
}

// Empty reports whether the queue has no pending triggers.
func (q *Queue) Empty() bool {
	return q.head >= len(q.items)
}

// EngineContext bundles the trail and the propagation queue: the single
// object every mutator, propagator, and search decision threads through the
// API instead of reaching into package-level state. One EngineContext backs
// exactly one active search tree.
type EngineContext struct {
	Trail *trail.Trail
	Queue *Queue

	// nextTriggerID is a backtrackable counter constraints may use to tag
	// triggers they register, mirroring the trail-registered id generator.
	nextTriggerID *trail.BacktrackableInt
}

// NewEngineContext creates a fresh engine context with an empty trail and
// queue.
func NewEngineContext() *EngineContext {
	tr := trail.New()
	return &EngineContext{
		Trail:         tr,
		Queue:         &Queue{},
		nextTriggerID: trail.NewBacktrackableInt(tr, 0),
	}
}

// NextTriggerID returns a fresh, trail-registered trigger id. Ids issued
// after a checkpoint roll back with the rest of that branch's state, so a
// propagator that stamps triggers with an id to detect staleness sees ids
// replayed identically on a later visit to the same branch.
func (e *EngineContext) NextTriggerID() int {
	return e.nextTriggerID.Next()
}

// RunToFixpoint drains the queue, invoking each trigger's propagator in
// turn, until the queue is empty (fixpoint) or a propagator reports failure.
// On failure the still-queued triggers are discarded without being run: the
// caller (a search decision) is expected to unwind via
// RestoreToLastCheckpoint, and those triggers describe mutations that the
// restore undoes, so running them later would fire propagators against state
// that no longer matches their events.
func (e *EngineContext) RunToFixpoint() error {
	for {
		t, ok := e.Queue.dequeue()
		if !ok {
			return nil
		}
		if err := t.Propagator.Propagate(e, t); err != nil {
			e.Queue.items = e.Queue.items[:0]
			e.Queue.head = 0
			return err
		}
	}
}
