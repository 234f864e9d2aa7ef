package neighbourhood

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"
)

// Result is what RunOptimisation returns on completion: the best solution
// found and its objective value. If the run never improved on the initial
// feasible solution, Result echoes it back unchanged.
type Result struct {
	Solution []int
	Value    int
}

// RunOptimisation is the top-level entry point for neighbourhood-based
// local search. It validates cfg (a ConfigError aborts before any search begins),
// builds the selector and the outer loop named by
// cfg.NeighbourhoodSearchStrategy, and runs it: HillClimbing stops when the
// climber declares a local optimum or ctx is done, MetaWithHillClimbing
// keeps climbing and hole-punching until ctx is done. It then reports the
// best solution found plus the accumulated statistics.
func RunOptimisation(ctx context.Context, container *Container, cfg NhConfig, direction Direction, runner IterationRunner, initialSolution []int, initialValue int) (Result, *SearchStats, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, nil, err
	}

	state := NewState(container, direction, initialSolution, initialValue)
	rng := rand.New(rand.NewSource(1))
	var interactive io.Reader = os.Stdin
	selector := NewSelector(cfg.NeighbourhoodSelectionStrategy, len(container.Combinations), rng, interactive)

	maxSize := 0
	for _, c := range container.Combinations {
		if s := c.MaxDeviation(); s > maxSize {
			maxSize = s
		}
	}
	if maxSize == 0 {
		maxSize = 1
	}
	stats := NewSearchStats(len(container.Combinations), maxSize, time.Now())

	switch cfg.NeighbourhoodSearchStrategy {
	case HillClimbing:
		climber := NewHillClimbingSearch(cfg, state, selector, runner, stats, rng)
		climber.Climb(ctx)
	case MetaWithHillClimbing:
		meta := NewMetaSearch(cfg, state, selector, runner, stats, rng)
		meta.Run(ctx)
	default:
		// Validate already rejected every other strategy value; reaching
		// here would mean Validate and this switch disagree.
		panic("neighbourhood: RunOptimisation reached an unimplemented strategy past validation")
	}

	return Result{Solution: state.BestSolution, Value: state.BestValue}, stats, nil
}
