package fdvar

import (
	"errors"
	"testing"

	"github.com/cspkit/fdsearch/internal/propagate"
)

func TestSparseBoundsVarRemoveInteriorHole(t *testing.T) {
	ctx := propagate.NewEngineContext()
	v := NewSparseBoundsVar(1, 1, 5)
	ctx.Trail.Push()
	if err := v.RemoveFromDomain(ctx, 3); err != nil {
		t.Fatalf("RemoveFromDomain(3): %v", err)
	}
	if v.InDomain(3) {
		t.Fatal("3 should no longer be in domain")
	}
	if v.Min() != 1 || v.Max() != 5 {
		t.Fatalf("bounds = [%d,%d], want [1,5] (hole removal must not move bounds)", v.Min(), v.Max())
	}
	if v.DomSize() != 4 {
		t.Fatalf("DomSize() = %d, want 4", v.DomSize())
	}
}

func TestSparseBoundsVarSetMinAdvancesPastExistingHole(t *testing.T) {
	ctx := propagate.NewEngineContext()
	v := NewSparseBoundsVar(1, 1, 5)
	ctx.Trail.Push()
	if err := v.RemoveFromDomain(ctx, 2); err != nil {
		t.Fatalf("RemoveFromDomain(2): %v", err)
	}
	if err := v.SetMin(ctx, 2); err != nil {
		t.Fatalf("SetMin(2): %v", err)
	}
	if v.Min() != 3 {
		t.Fatalf("Min() = %d, want 3 (must skip over the hole at 2)", v.Min())
	}
}

func TestSparseBoundsVarWipeoutWhenAllHolesPunched(t *testing.T) {
	ctx := propagate.NewEngineContext()
	v := NewSparseBoundsVar(1, 1, 2)
	ctx.Trail.Push()
	if err := v.RemoveFromDomain(ctx, 1); err != nil {
		t.Fatalf("RemoveFromDomain(1): %v", err)
	}
	if err := v.RemoveFromDomain(ctx, 2); !errors.Is(err, ErrWipeout) {
		t.Fatalf("RemoveFromDomain(2) = %v, want ErrWipeout", err)
	}
}

func TestNewSparseBoundsVarFromValuesBuildsHolesFromNonContiguousSet(t *testing.T) {
	v := NewSparseBoundsVarFromValues(1, []int{9, 2, 5, 2, 14})
	if v.Min() != 2 || v.Max() != 14 {
		t.Fatalf("bounds = [%d,%d], want [2,14]", v.Min(), v.Max())
	}
	if v.DomSize() != 4 {
		t.Fatalf("DomSize() = %d, want 4 (duplicates collapsed)", v.DomSize())
	}
	for _, present := range []int{2, 5, 9, 14} {
		if !v.InDomain(present) {
			t.Fatalf("%d should be in domain", present)
		}
	}
	for _, absent := range []int{3, 4, 6, 7, 8, 10, 13} {
		if v.InDomain(absent) {
			t.Fatalf("%d should be a hole", absent)
		}
	}
}

func TestSparseBoundsVarTrailRestoreRestoresHoles(t *testing.T) {
	ctx := propagate.NewEngineContext()
	v := NewSparseBoundsVar(1, 1, 5)
	ctx.Trail.Push()
	if err := v.RemoveFromDomain(ctx, 3); err != nil {
		t.Fatalf("RemoveFromDomain(3): %v", err)
	}
	ctx.Trail.RestoreToLastCheckpoint()
	if !v.InDomain(3) {
		t.Fatal("expected 3 back in domain after restore")
	}
	if v.DomSize() != 5 {
		t.Fatalf("DomSize() = %d, want 5", v.DomSize())
	}
}
