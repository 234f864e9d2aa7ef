// Package trail implements the reversible-state substrate the rest of the
// engine backtracks through: an append-only log of undo records grouped into
// a stack of checkpoints.
package trail

// Record is a single undoable mutation. Any code that changes state which
// must be restored on backtrack appends a Record rather than mutating state
// that outlives the current search branch.
type Record interface {
	// Undo reverses the mutation this record was created for. Undo is called
	// at most once, in strict LIFO order relative to every other record
	// pushed since the same checkpoint.
	Undo()
}

// funcRecord adapts a plain closure to Record, for call sites where defining
// a named type would be pure ceremony.
type funcRecord func()

func (f funcRecord) Undo() { f() }

// RecordFunc wraps an undo closure as a Record.
func RecordFunc(undo func()) Record {
	return funcRecord(undo)
}

// Trail is a stack of checkpoints over an append-only log of Records. It is
// the single reversible-state substrate shared by every variable variety and
// by any process-wide backtrackable counter (e.g. a trigger-id generator).
//
// Trail is not safe for concurrent use; the engine is single-threaded and
// cooperative (see package propagate), so no internal locking is done.
type Trail struct {
	records     []Record
	checkpoints []int
}

// New returns an empty Trail.
func New() *Trail {
	return &Trail{}
}

// Push records a checkpoint boundary. O(1).
func (t *Trail) Push() {
	t.checkpoints = append(t.checkpoints, len(t.records))
}

// Record appends an undo record to the trail. Mutators call this once per
// domain-changing effect, before the effect becomes observable to a
// propagator that might itself throw a Wipeout.
func (t *Trail) Record(r Record) {
	t.records = append(t.records, r)
}

// Depth returns the number of checkpoints currently pushed.
func (t *Trail) Depth() int {
	return len(t.checkpoints)
}

// RestoreToLastCheckpoint pops every record appended since the most recent
// Push, in reverse (LIFO) order, and drops the checkpoint marker. Calling
// this with no outstanding checkpoint is a contract violation: it panics,
// since it can only happen from a bug in the caller's decision/backtrack
// bookkeeping.
func (t *Trail) RestoreToLastCheckpoint() {
	if len(t.checkpoints) == 0 {
		panic("trail: RestoreToLastCheckpoint called with no outstanding checkpoint")
	}
	mark := t.checkpoints[len(t.checkpoints)-1]
	t.checkpoints = t.checkpoints[:len(t.checkpoints)-1]

	for i := len(t.records) - 1; i >= mark; i-- {
		t.records[i].Undo()
		t.records[i] = nil
	}
	t.records = t.records[:mark]
}

// BacktrackableInt is a process-wide counter (e.g. a trigger-id generator)
// whose value must roll back on backtrack exactly like a variable's domain.
type BacktrackableInt struct {
	trail *Trail
	value int
}

// NewBacktrackableInt creates a counter registered with t, starting at initial.
func NewBacktrackableInt(t *Trail, initial int) *BacktrackableInt {
	return &BacktrackableInt{trail: t, value: initial}
}

// Get returns the current value.
func (b *BacktrackableInt) Get() int {
	return b.value
}

// Set records the prior value on the trail and installs v as the current one.
func (b *BacktrackableInt) Set(v int) {
	if v == b.value {
		return
	}
	prior := b.value
	b.trail.Record(RecordFunc(func() { b.value = prior }))
	b.value = v
}

// Next returns the current value and advances the counter by one.
func (b *BacktrackableInt) Next() int {
	v := b.value
	b.Set(v + 1)
	return v
}
