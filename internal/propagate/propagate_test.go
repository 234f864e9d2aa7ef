package propagate

import "testing"

type countingProp struct {
	count *int
}

func (c countingProp) Propagate(*EngineContext, Trigger) error {
	*c.count++
	return nil
}
func (c countingProp) Name() string { return "counting" }

func TestRunToFixpointDrainsFIFOOrder(t *testing.T) {
	ctx := NewEngineContext()
	var order []int
	record := func(n int) Propagator {
		return orderingProp{n: n, order: &order}
	}
	ctx.Queue.Enqueue(Trigger{Propagator: record(1)})
	ctx.Queue.Enqueue(Trigger{Propagator: record(2)})
	ctx.Queue.Enqueue(Trigger{Propagator: record(3)})

	if err := ctx.RunToFixpoint(); err != nil {
		t.Fatalf("RunToFixpoint: %v", err)
	}
	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

type orderingProp struct {
	n     int
	order *[]int
}

func (p orderingProp) Propagate(*EngineContext, Trigger) error {
	*p.order = append(*p.order, p.n)
	return nil
}
func (p orderingProp) Name() string { return "ordering" }

func TestRunToFixpointStopsOnError(t *testing.T) {
	ctx := NewEngineContext()
	count := 0
	c := countingProp{count: &count}
	ctx.Queue.Enqueue(Trigger{Propagator: failingProp{}})
	ctx.Queue.Enqueue(Trigger{Propagator: c})

	if err := ctx.RunToFixpoint(); err == nil {
		t.Fatal("expected error")
	}
	if count != 0 {
		t.Fatalf("second propagator ran after failure, count = %d", count)
	}
}

type failingProp struct{}

func (failingProp) Propagate(*EngineContext, Trigger) error { return errTest }
func (failingProp) Name() string                             { return "failing" }

var errTest = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func TestNextTriggerIDRestoresOnBacktrack(t *testing.T) {
	ctx := NewEngineContext()
	ctx.Trail.Push()
	if id := ctx.NextTriggerID(); id != 0 {
		t.Fatalf("first id = %d, want 0", id)
	}
	if id := ctx.NextTriggerID(); id != 1 {
		t.Fatalf("second id = %d, want 1", id)
	}
	ctx.Trail.RestoreToLastCheckpoint()
	if id := ctx.NextTriggerID(); id != 0 {
		t.Fatalf("id after restore = %d, want 0", id)
	}
}

func TestQueueEmpty(t *testing.T) {
	q := &Queue{}
	if !q.Empty() {
		t.Fatal("fresh queue should be empty")
	}
	q.Enqueue(Trigger{})
	if q.Empty() {
		t.Fatal("queue with one item should not be empty")
	}
}
