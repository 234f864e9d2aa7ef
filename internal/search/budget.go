package search

import "time"

// Budget bounds one Solve call. A zero value for any field means that
// dimension is unbounded; the search manager checks whichever fields are
// non-zero at each decision and at every propagation boundary.
type Budget struct {
	// NodeLimit caps the number of branching decisions taken (0 = unbounded).
	NodeLimit int
	// BacktrackLimit caps the number of failed decisions undone (0 = unbounded).
	BacktrackLimit int
	// TimeLimit caps wall-clock time spent inside Solve (0 = unbounded).
	TimeLimit time.Duration
}

// budgetTracker carries the mutable counters a Solve call advances against
// a fixed Budget, plus the deadline derived from TimeLimit at Solve entry.
type budgetTracker struct {
	budget     Budget
	deadline   time.Time
	hasDline   bool
	nodes      int
	backtracks int
}

func newBudgetTracker(b Budget, start time.Time) *budgetTracker {
	t := &budgetTracker{budget: b}
	if b.TimeLimit > 0 {
		t.deadline = start.Add(b.TimeLimit)
		t.hasDline = true
	}
	return t
}

func (t *budgetTracker) exhausted(now time.Time) bool {
	if t.budget.NodeLimit > 0 && t.nodes >= t.budget.NodeLimit {
		return true
	}
	if t.budget.BacktrackLimit > 0 && t.backtracks >= t.budget.BacktrackLimit {
		return true
	}
	if t.hasDline && !now.Before(t.deadline) {
		return true
	}
	return false
}

func (t *budgetTracker) recordNode()      { t.nodes++ }
func (t *budgetTracker) recordBacktrack() { t.backtracks++ }
