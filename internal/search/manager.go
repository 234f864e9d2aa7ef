// Package search implements the depth-first, chronologically-backtracking
// solver: pick a branching variable, pick a value, push a checkpoint,
// tentatively assign, propagate, and either recurse or unwind.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
)

// ValueOrder returns the values to try for v, in the order they should be
// attempted. The search manager calls it once per branching variable it
// visits; Ascending builds a fresh slice on each call.
type ValueOrder func(v fdvar.Var) []int

// Ascending is the default ValueOrder: try every value currently in v's
// domain from Min() to Max().
func Ascending(v fdvar.Var) []int {
	vals := make([]int, 0, v.DomSize())
	for x := v.Min(); x <= v.Max(); x++ {
		if v.InDomain(x) {
			vals = append(vals, x)
		}
	}
	return vals
}

// Callback is invoked once per complete assignment of the branching order.
// It returns whether the search should keep looking for further solutions;
// returning false after the first call implements first-solution search,
// always returning true enumerates every solution.
type Callback func() (keepGoing bool)

// OutcomeStatus classifies how a Solve call ended.
type OutcomeStatus int

const (
	// StatusSolved means the search tree was exhausted (or the callback
	// asked to stop) without the budget intervening.
	StatusSolved OutcomeStatus = iota
	// StatusInfeasible means the search tree was exhausted with zero
	// solutions found.
	StatusInfeasible
	// StatusBudgetExhausted means a node, backtrack, or time limit tripped
	// before the tree was fully explored.
	StatusBudgetExhausted
)

// Outcome reports how Solve ended.
type Outcome struct {
	Status         OutcomeStatus
	Solutions      int
	Nodes          int
	Backtracks     int
	Elapsed        time.Duration
}

// Manager runs one depth-first search over a fixed branching order,
// sharing an engine context with whatever propagators are registered
// against the model's variables.
type Manager struct {
	ctx     *propagate.EngineContext
	order   []fdvar.Var
	valueOf ValueOrder
}

// NewManager creates a search manager over order, using valueOf to decide
// per-variable value trial order. A nil valueOf defaults to Ascending.
func NewManager(ectx *propagate.EngineContext, order []fdvar.Var, valueOf ValueOrder) *Manager {
	if valueOf == nil {
		valueOf = Ascending
	}
	return &Manager{ctx: ectx, order: order, valueOf: valueOf}
}

// Solve runs the depth-first search to completion, to the caller-requested
// stopping point, or until budget runs out. cb is invoked once per complete
// assignment of m.order.
func (m *Manager) Solve(goCtx context.Context, budget Budget, cb Callback) (Outcome, error) {
	start := time.Now()
	bt := newBudgetTracker(budget, start)
	outcome := Outcome{Status: StatusInfeasible}

	// A propagator wired only to fire on mutation events never sees a
	// variable that is born already in its triggering state (e.g. assigned
	// before the first decision). Seed every variable's current state into
	// the queue once so the first fixpoint below also accounts for it.
	for _, v := range m.order {
		v.SeedInitialState(m.ctx)
	}

	keepGoing, budgetHit, err := m.solveFrom(goCtx, bt, 0, cb, &outcome)
	outcome.Nodes = bt.nodes
	outcome.Backtracks = bt.backtracks
	outcome.Elapsed = time.Since(start)
	if err != nil {
		return outcome, err
	}
	if budgetHit {
		outcome.Status = StatusBudgetExhausted
		return outcome, ErrBudgetExhausted
	}
	if outcome.Solutions > 0 {
		outcome.Status = StatusSolved
	}
	_ = keepGoing
	if outcome.Solutions == 0 {
		return outcome, ErrInfeasible
	}
	return outcome, nil
}

// solveFrom assigns m.order[idx:] recursively. It returns whether the
// caller should keep exploring sibling branches, whether the budget
// tripped, and any contract-level error (there are none on the happy path;
// wipeout is absorbed here, never returned).
func (m *Manager) solveFrom(goCtx context.Context, bt *budgetTracker, idx int, cb Callback, outcome *Outcome) (bool, bool, error) {
	if bt.exhausted(time.Now()) {
		return false, true, nil
	}
	select {
	case <-goCtx.Done():
		return false, true, nil
	default:
	}

	if err := m.ctx.RunToFixpoint(); err != nil {
		if errors.Is(err, fdvar.ErrWipeout) {
			return true, false, nil
		}
		return false, false, err
	}

	next := idx
	for next < len(m.order) && m.order[next].IsAssigned() {
		next++
	}
	if next == len(m.order) {
		outcome.Solutions++
		return cb(), false, nil
	}

	v := m.order[next]
	values := m.valueOf(v)
	for _, val := range values {
		if !v.InDomain(val) {
			continue
		}
		bt.recordNode()
		m.ctx.Trail.Push()
		err := v.Assign(m.ctx, val)
		if err == nil {
			keepGoing, budgetHit, cerr := m.solveFrom(goCtx, bt, next+1, cb, outcome)
			if cerr != nil {
				m.ctx.Trail.RestoreToLastCheckpoint()
				return false, false, cerr
			}
			if budgetHit {
				m.ctx.Trail.RestoreToLastCheckpoint()
				return false, true, nil
			}
			if !keepGoing {
				m.ctx.Trail.RestoreToLastCheckpoint()
				return false, false, nil
			}
		} else if !errors.Is(err, fdvar.ErrWipeout) {
			m.ctx.Trail.RestoreToLastCheckpoint()
			return false, false, err
		}
		m.ctx.Trail.RestoreToLastCheckpoint()
		bt.recordBacktrack()
		if bt.exhausted(time.Now()) {
			return false, true, nil
		}
		if rmErr := v.RemoveFromDomain(m.ctx, val); rmErr != nil {
			if errors.Is(rmErr, fdvar.ErrWipeout) {
				return true, false, nil
			}
			return false, false, rmErr
		}
		if perr := m.ctx.RunToFixpoint(); perr != nil {
			if errors.Is(perr, fdvar.ErrWipeout) {
				return true, false, nil
			}
			return false, false, perr
		}
	}
	return true, false, nil
}
