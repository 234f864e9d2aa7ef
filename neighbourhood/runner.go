package neighbourhood

import (
	"context"
	"errors"
	"math/rand"

	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
	"github.com/cspkit/fdsearch/internal/search"
)

// Model bundles what a real IterationRunner needs on top of SearchParams:
// the full variable order the inner search branches over, and the function
// that scores a complete assignment. Vars is indexed in parallel with every
// incumbent/solution slice RunOptimisation passes around.
type Model struct {
	Vars      []fdvar.Var
	Objective func(solution []int) int
}

// NewRunner builds an IterationRunner wired to a real search.Manager over
// model.Vars. Each call fixes every variable outside the activated
// combination's neighbourhoods to its incumbent value and lets the inner
// search branch only over a free subset bounded by params.NeighbourhoodSize
// — solveFrom skips variables that are already assigned, so fixing the rest
// ahead of time is enough to bound the deviation without any special-cased
// search API. When the requested size finds no improving solution, the
// free set grows (up to the combination's declared deviation ceiling)
// before giving up, so the caller's next-iteration size, read back off the
// returned IterationStats, escalates the way a plain hill-climb without a
// meta-search wrapped around it expects. A nil Combination (the
// meta-search's random-restart case) leaves every variable free.
func NewRunner(ctx *propagate.EngineContext, model Model, rng *rand.Rand) IterationRunner {
	return func(goCtx context.Context, params SearchParams, incumbent []int) (IterationStats, []int, int) {
		if params.Combination == nil {
			return runAtSize(ctx, goCtx, model, params, incumbent, nil, 0)
		}

		candidates := candidatesOf(params.Combination)
		ceiling := len(candidates)
		if d := params.Combination.MaxDeviation(); d > 0 && d < ceiling {
			ceiling = d
		}
		size := atLeastOne(params.NeighbourhoodSize)
		if size > ceiling {
			size = ceiling
		}

		for {
			free := pickFree(candidates, size, rng)
			stats, best, bestVal := runAtSize(ctx, goCtx, model, params, incumbent, free, size)
			if best != nil || size >= ceiling {
				return stats, best, bestVal
			}
			size++
		}
	}
}

// runAtSize fixes every variable outside free to its incumbent value, runs
// the inner search over whatever remains, and reports the first solution
// that improves on the incumbent, if any. free is nil iff there is no
// neighbourhood bias (every variable is branched over). Every mutation this
// call makes is undone before it returns, win or lose.
func runAtSize(ctx *propagate.EngineContext, goCtx context.Context, model Model, params SearchParams, incumbent []int, free map[fdvar.BaseVarID]bool, size int) (IterationStats, []int, int) {
	stats := IterationStats{HighestNeighbourhoodSize: atLeastOne(size)}

	ctx.Trail.Push()
	defer ctx.Trail.RestoreToLastCheckpoint()

	for i, v := range model.Vars {
		if free == nil || free[v.BaseVar()] {
			continue
		}
		if err := v.Assign(ctx, incumbent[i]); err != nil {
			return stats, incumbent, 0
		}
	}
	if err := ctx.RunToFixpoint(); err != nil {
		return stats, incumbent, 0
	}

	budget := search.Budget{BacktrackLimit: params.BacktrackLimit}
	if !params.BacktrackIsBudget {
		budget.TimeLimit = params.TimeLimit
	}

	mgr := search.NewManager(ctx, model.Vars, search.Ascending)
	baseline := model.Objective(incumbent)

	var (
		foundAny bool
		best     []int
		bestVal  int
	)
	_, err := mgr.Solve(goCtx, budget, func() bool {
		foundAny = true
		solution := make([]int, len(model.Vars))
		for i, v := range model.Vars {
			solution[i] = v.AssignedValue()
		}
		value := model.Objective(solution)
		if betterThan(value, baseline, params.Direction) {
			best, bestVal = solution, value
			return false
		}
		return true
	})

	switch {
	case errors.Is(err, search.ErrBudgetExhausted):
		stats.TimeoutReached = true
	case errors.Is(err, search.ErrInfeasible):
		foundAny = false
	}
	stats.SolutionFound = foundAny

	if best == nil {
		return stats, incumbent, 0
	}
	stats.NewMinValue = bestVal
	return stats, best, bestVal
}

// candidatesOf collects the union of variables across combo's
// neighbourhoods, deduplicated by base identity.
func candidatesOf(combo *Combination) []fdvar.Var {
	seen := make(map[fdvar.BaseVarID]bool)
	var out []fdvar.Var
	for _, nh := range combo.Neighbourhoods {
		for _, v := range nh.Vars {
			if !seen[v.BaseVar()] {
				seen[v.BaseVar()] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// pickFree chooses size of candidates, at random, to leave unfixed. A size
// at or beyond the candidate count leaves every candidate free.
func pickFree(candidates []fdvar.Var, size int, rng *rand.Rand) map[fdvar.BaseVarID]bool {
	free := make(map[fdvar.BaseVarID]bool, size)
	if size >= len(candidates) {
		for _, v := range candidates {
			free[v.BaseVar()] = true
		}
		return free
	}
	for _, idx := range rng.Perm(len(candidates))[:size] {
		free[candidates[idx].BaseVar()] = true
	}
	return free
}

// betterThan reports whether value improves on baseline for direction.
func betterThan(value, baseline int, direction Direction) bool {
	if direction == Minimise {
		return value < baseline
	}
	return value > baseline
}

func atLeastOne(size int) int {
	if size < 1 {
		return 1
	}
	return size
}
