package constraints

import (
	"testing"

	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
)

func TestNotEqualPrunesPeerAtBoundary(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 1, 3)
	y := fdvar.NewBoundsVar(2, 1, 3)
	NewNotEqual(x, y)

	ctx.Trail.Push()
	if err := x.Assign(ctx, 1); err != nil {
		t.Fatalf("assign x: %v", err)
	}
	if err := ctx.RunToFixpoint(); err != nil {
		t.Fatalf("RunToFixpoint: %v", err)
	}
	if y.InDomain(1) {
		t.Fatal("1 should have been removed from y's domain; it sat at y's min")
	}
	if y.Min() != 2 {
		t.Fatalf("y.Min() = %d, want 2", y.Min())
	}
}

// TestNotEqualLeavesInteriorValueOfPeerUntouched documents that assigning x
// to a value interior to y's domain does not prune it from y: a Bounds
// variable cannot represent the resulting hole, so NotEqual only prunes at
// a peer's boundary. The collision is still caught later, if y is ever
// assigned that same value, since removing a just-assigned variable's own
// value is always a boundary case.
func TestNotEqualLeavesInteriorValueOfPeerUntouched(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 1, 3)
	y := fdvar.NewBoundsVar(2, 1, 3)
	NewNotEqual(x, y)

	ctx.Trail.Push()
	if err := x.Assign(ctx, 2); err != nil {
		t.Fatalf("assign x: %v", err)
	}
	if err := ctx.RunToFixpoint(); err != nil {
		t.Fatalf("RunToFixpoint: %v", err)
	}
	if !y.InDomain(2) {
		t.Fatal("2 is interior to y's domain and should not have been removed")
	}

	if err := y.Assign(ctx, 2); err != nil {
		t.Fatalf("assign y: %v", err)
	}
	if err := ctx.RunToFixpoint(); err == nil {
		t.Fatal("expected wipeout once y is itself assigned the colliding value")
	}
}

func TestNotEqualWipeoutWhenBothAssignedSame(t *testing.T) {
	ctx := propagate.NewEngineContext()
	x := fdvar.NewBoundsVar(1, 1, 1)
	y := fdvar.NewBoundsVar(2, 1, 1)
	NewNotEqual(x, y)

	// Both variables are already singletons at construction, so nothing
	// will ever mutate them; a caller driving the engine directly (rather
	// than through search.Manager, which does this itself) must seed their
	// state before the first fixpoint to have the collision noticed at all.
	ctx.Trail.Push()
	x.SeedInitialState(ctx)
	y.SeedInitialState(ctx)
	err := ctx.RunToFixpoint()
	if err == nil {
		t.Fatal("expected wipeout when the only shared value collides")
	}
}
