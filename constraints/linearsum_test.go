package constraints

import (
	"testing"

	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
)

func TestLinearSumEqualsTightensTotalFromTerms(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 0, 10)
	y := fdvar.NewBoundsVar(2, 0, 10)
	z := fdvar.NewBoundsVar(3, 0, 20)
	NewLinearSumEquals([]int{1, 1}, []fdvar.Var{x, y}, z)

	ctx.Trail.Push()
	if err := x.SetMin(ctx, 3); err != nil {
		t.Fatalf("SetMin x: %v", err)
	}
	if err := y.SetMin(ctx, 4); err != nil {
		t.Fatalf("SetMin y: %v", err)
	}
	if err := ctx.RunToFixpoint(); err != nil {
		t.Fatalf("RunToFixpoint: %v", err)
	}
	if z.Min() != 7 {
		t.Fatalf("z.Min() = %d, want 7", z.Min())
	}
}

func TestLinearSumEqualsTightensTermFromTotal(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 0, 10)
	y := fdvar.NewBoundsVar(2, 0, 10)
	z := fdvar.NewBoundsVar(3, 0, 20)
	NewLinearSumEquals([]int{1, 1}, []fdvar.Var{x, y}, z)

	ctx.Trail.Push()
	if err := z.SetMax(ctx, 5); err != nil {
		t.Fatalf("SetMax z: %v", err)
	}
	if err := y.SetMin(ctx, 0); err != nil {
		t.Fatalf("SetMin y: %v", err)
	}
	if err := ctx.RunToFixpoint(); err != nil {
		t.Fatalf("RunToFixpoint: %v", err)
	}
	if x.Max() > 5 {
		t.Fatalf("x.Max() = %d, want <= 5", x.Max())
	}
}

func TestLinearSumEqualsMismatchedLengthsIsContractViolation(t *testing.T) {
	x := fdvar.NewBoundsVar(1, 0, 10)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewLinearSumEquals([]int{1, 1}, []fdvar.Var{x}, x)
}
