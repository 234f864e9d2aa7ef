package search

import (
	"context"
	"testing"

	"github.com/cspkit/fdsearch/constraints"
	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
)

func TestTrivialSatisfactionFirstSolutionAndCount(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 1, 3)
	y := fdvar.NewBoundsVar(2, 1, 3)
	constraints.NewNotEqual(x, y)

	mgr := NewManager(ctx, []fdvar.Var{x, y}, Ascending)

	var first [2]int
	count := 0
	_, err := mgr.Solve(context.Background(), Budget{}, func() bool {
		count++
		if count == 1 {
			first = [2]int{x.AssignedValue(), y.AssignedValue()}
		}
		return true
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if first != [2]int{1, 2} {
		t.Fatalf("first solution = %v, want [1 2]", first)
	}
	if count != 6 {
		t.Fatalf("solution count = %d, want 6", count)
	}
}

func TestBoundsPropagationDerivesSum(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 0, 10)
	y := fdvar.NewBoundsVar(2, 0, 10)
	z := fdvar.NewBoundsVar(3, 0, 10)
	// x + y = z, expressed directly as sum(coeffs*vars) == total.
	constraints.NewLinearSumEquals([]int{1, 1}, []fdvar.Var{x, y}, z)

	ctx.Trail.Push()
	if err := x.Assign(ctx, 5); err != nil {
		t.Fatalf("assign x: %v", err)
	}
	if err := y.Assign(ctx, 5); err != nil {
		t.Fatalf("assign y: %v", err)
	}
	if err := ctx.RunToFixpoint(); err != nil {
		t.Fatalf("RunToFixpoint: %v", err)
	}
	if !z.IsAssigned() || z.AssignedValue() != 10 {
		t.Fatalf("z assigned=%v value=%d, want assigned/10", z.IsAssigned(), z.Max())
	}
}

func TestInfeasibleModelReturnsErrInfeasible(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 1, 1)
	y := fdvar.NewBoundsVar(2, 1, 1)
	constraints.NewNotEqual(x, y)

	mgr := NewManager(ctx, []fdvar.Var{x, y}, Ascending)
	_, err := mgr.Solve(context.Background(), Budget{}, func() bool { return true })
	if err != ErrInfeasible {
		t.Fatalf("err = %v, want ErrInfeasible", err)
	}
}

func TestFirstSolutionStopsSearch(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 1, 3)
	y := fdvar.NewBoundsVar(2, 1, 3)
	constraints.NewNotEqual(x, y)

	mgr := NewManager(ctx, []fdvar.Var{x, y}, Ascending)
	count := 0
	_, err := mgr.Solve(context.Background(), Budget{}, func() bool {
		count++
		return false
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestNodeBudgetAbortsSearch(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 1, 100)
	y := fdvar.NewBoundsVar(2, 1, 100)
	constraints.NewNotEqual(x, y)

	mgr := NewManager(ctx, []fdvar.Var{x, y}, Ascending)
	outcome, err := mgr.Solve(context.Background(), Budget{NodeLimit: 1}, func() bool { return true })
	if err != ErrBudgetExhausted {
		t.Fatalf("err = %v, want ErrBudgetExhausted", err)
	}
	if outcome.Status != StatusBudgetExhausted {
		t.Fatalf("status = %v, want StatusBudgetExhausted", outcome.Status)
	}
}
