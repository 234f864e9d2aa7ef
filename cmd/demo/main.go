// Command demo wires the variable substrate, the example propagators, and
// the base search manager together over a small two-variable model
// (x, y in [1,3] with x != y), printing every solution it finds.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cspkit/fdsearch/constraints"
	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
	"github.com/cspkit/fdsearch/internal/search"
)

func main() {
	ectx := propagate.NewEngineContext()

	x := fdvar.NewBoundsVar(1, 1, 3)
	y := fdvar.NewBoundsVar(2, 1, 3)
	constraints.NewNotEqual(x, y)

	order := []fdvar.Var{x, y}
	mgr := search.NewManager(ectx, order, search.Ascending)

	count := 0
	_, err := mgr.Solve(context.Background(), search.Budget{}, func() bool {
		count++
		fmt.Printf("solution %d: x=%d y=%d\n", count, x.AssignedValue(), y.AssignedValue())
		return true
	})
	if err != nil && !errors.Is(err, search.ErrInfeasible) {
		log.Fatalf("solve failed: %v", err)
	}
	fmt.Printf("total solutions: %d\n", count)
}
