package fdvar

import (
	"errors"
	"testing"

	"github.com/cspkit/fdsearch/internal/propagate"
)

func TestBoolVarAssignNarrowsToSingleton(t *testing.T) {
	ctx := propagate.NewEngineContext()
	v := NewBoolVar(1)
	ctx.Trail.Push()
	if err := v.Assign(ctx, 1); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if !v.IsAssigned() || v.AssignedValue() != 1 {
		t.Fatalf("IsAssigned=%v AssignedValue=%d, want true/1", v.IsAssigned(), v.AssignedValue())
	}
}

func TestBoolVarRemoveBothValuesWipesOut(t *testing.T) {
	ctx := propagate.NewEngineContext()
	v := NewBoolVar(1)
	ctx.Trail.Push()
	if err := v.RemoveFromDomain(ctx, 0); err != nil {
		t.Fatalf("RemoveFromDomain(0): %v", err)
	}
	if err := v.RemoveFromDomain(ctx, 1); !errors.Is(err, ErrWipeout) {
		t.Fatalf("RemoveFromDomain(1) = %v, want ErrWipeout", err)
	}
}

func TestBoolVarAssignedValuePanicsWhenUnassigned(t *testing.T) {
	v := NewBoolVar(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	v.AssignedValue()
}

func TestBoolVarTrailRestore(t *testing.T) {
	ctx := propagate.NewEngineContext()
	v := NewBoolVar(1)
	ctx.Trail.Push()
	if err := v.Assign(ctx, 0); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	ctx.Trail.RestoreToLastCheckpoint()
	if v.IsAssigned() {
		t.Fatal("expected unassigned after restore")
	}
	if !v.InDomain(0) || !v.InDomain(1) {
		t.Fatal("expected both values back in domain after restore")
	}
}
