package trail

import "testing"

func TestRestoreToLastCheckpointUndoesInLIFOOrder(t *testing.T) {
	tr := New()
	var log []int

	tr.Push()
	tr.Record(RecordFunc(func() { log = append(log, 1) }))
	tr.Record(RecordFunc(func() { log = append(log, 2) }))
	tr.Record(RecordFunc(func() { log = append(log, 3) }))

	tr.RestoreToLastCheckpoint()

	want := []int{3, 2, 1}
	if len(log) != len(want) {
		t.Fatalf("got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("got %v, want %v", log, want)
		}
	}
}

func TestRestoreToLastCheckpointOnlyUndoesSinceMark(t *testing.T) {
	tr := New()
	x := 0

	tr.Push()
	tr.Record(RecordFunc(func() { x = 0 }))
	x = 1

	tr.Push()
	tr.Record(RecordFunc(func() { x = 1 }))
	x = 2

	tr.RestoreToLastCheckpoint()
	if x != 1 {
		t.Fatalf("x = %d, want 1", x)
	}

	tr.RestoreToLastCheckpoint()
	if x != 0 {
		t.Fatalf("x = %d, want 0", x)
	}
}

func TestRestoreWithNoCheckpointPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New().RestoreToLastCheckpoint()
}

func TestBacktrackableIntSurvivesRestore(t *testing.T) {
	tr := New()
	b := NewBacktrackableInt(tr, 0)

	tr.Push()
	b.Set(5)
	b.Set(7)
	if b.Get() != 7 {
		t.Fatalf("Get() = %d, want 7", b.Get())
	}
	tr.RestoreToLastCheckpoint()
	if b.Get() != 0 {
		t.Fatalf("Get() after restore = %d, want 0", b.Get())
	}
}

func TestBacktrackableIntNext(t *testing.T) {
	tr := New()
	b := NewBacktrackableInt(tr, 0)
	tr.Push()
	if v := b.Next(); v != 0 {
		t.Fatalf("Next() = %d, want 0", v)
	}
	if v := b.Next(); v != 1 {
		t.Fatalf("Next() = %d, want 1", v)
	}
	tr.RestoreToLastCheckpoint()
	if v := b.Next(); v != 0 {
		t.Fatalf("Next() after restore = %d, want 0", v)
	}
}

func TestDepth(t *testing.T) {
	tr := New()
	if tr.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", tr.Depth())
	}
	tr.Push()
	tr.Push()
	if tr.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", tr.Depth())
	}
	tr.RestoreToLastCheckpoint()
	if tr.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", tr.Depth())
	}
}
