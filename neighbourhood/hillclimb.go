package neighbourhood

import (
	"context"
	"math/rand"
	"time"
)

// ExponentialIncrementer models a backtrack limit that grows as
// v := v*multiplier + increment each time it is advanced, starting from an
// initial value. This is the schedule both the hill-climber's own
// backtrack limit and the meta-search's hole-puncher backtrack limit use,
// the latter with increment pinned to zero — a separate exponential
// incrementer with no additive component.
type ExponentialIncrementer struct {
	value      int
	multiplier float64
	increment  int
}

// NewExponentialIncrementer creates an incrementer starting at initial.
func NewExponentialIncrementer(initial int, multiplier float64, increment int) *ExponentialIncrementer {
	return &ExponentialIncrementer{value: initial, multiplier: multiplier, increment: increment}
}

// Value returns the current backtrack limit.
func (e *ExponentialIncrementer) Value() int { return e.value }

// Advance applies the growth step and returns the new value.
func (e *ExponentialIncrementer) Advance() int {
	e.value = int(float64(e.value)*e.multiplier) + e.increment
	return e.value
}

// IterationRunner runs one inner-search iteration under the given
// SearchParams and returns its IterationStats. The meta-search and
// hill-climber are both generic over how the inner search is actually
// driven; the caller of RunOptimisation passes in the runner, and NewRunner
// builds the concrete one that wraps search.Manager.
type IterationRunner func(ctx context.Context, params SearchParams, incumbent []int) (IterationStats, []int, int)

// HillClimbingSearch repeatedly activates combinations chosen by a
// Selector, running one inner-search iteration each time, until either an
// improving solution path goes cold (a declared local optimum) or the
// caller's context is done.
type HillClimbingSearch struct {
	cfg      NhConfig
	state    *State
	selector Selector
	runner   IterationRunner
	stats    *SearchStats
	rng      *rand.Rand
	backtrackLimit *ExponentialIncrementer
}

// NewHillClimbingSearch builds a climber sharing state, a selector, a
// stats sink, and the inner-search runner with its caller (typically the
// controller or the meta-search).
func NewHillClimbingSearch(cfg NhConfig, state *State, selector Selector, runner IterationRunner, stats *SearchStats, rng *rand.Rand) *HillClimbingSearch {
	state.LocalMaxProbability = cfg.HillClimberInitialLocalMaxProbability
	return &HillClimbingSearch{
		cfg:            cfg,
		state:          state,
		selector:       selector,
		runner:         runner,
		stats:          stats,
		rng:            rng,
		backtrackLimit: NewExponentialIncrementer(cfg.InitialBacktrackLimit, cfg.BacktrackLimitMultiplier, cfg.BacktrackLimitIncrement),
	}
}

// Climb runs iterations until a local optimum is declared or ctx is done,
// then returns. The caller reads the resulting best solution/value off
// hc.state.
func (hc *HillClimbingSearch) Climb(ctx context.Context) {
	numCombos := len(hc.state.Container.Combinations)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		comboIdx := hc.selector.SelectCombination()
		combo := hc.state.Container.Combinations[comboIdx]

		params := SearchParams{
			Combination:       combo,
			Direction:         hc.state.Direction,
			BacktrackLimit:    hc.backtrackLimit.Value(),
			TimeLimit:         hc.cfg.IterationSearchTime,
			BacktrackIsBudget: hc.cfg.BacktrackInsteadOfTimeLimit,
			NeighbourhoodSize: hc.state.HighestNeighbourhoodSizes[comboIdx],
		}

		start := time.Now()
		stats, newSolution, newValue := hc.runner(ctx, params, hc.state.BestSolution)
		stats.TimeTaken = time.Since(start)

		improved := stats.SolutionFound && hc.isImprovement(newValue)

		if hc.cfg.IncreaseBacktrackOnlyOnFailure {
			if !stats.SolutionFound {
				hc.backtrackLimit.Advance()
			}
		} else {
			hc.backtrackLimit.Advance()
		}

		hc.selector.UpdateStats(comboIdx, stats, improved)
		if hc.stats != nil {
			hc.stats.RecordIteration(comboIdx, stats, improved)
		}

		if improved {
			hc.handleBetterSolution(newSolution, newValue)
			continue
		}

		hc.state.HighestNeighbourhoodSizes[comboIdx] = stats.HighestNeighbourhoodSize
		hc.state.LocalMaxProbability += (1.0 / float64(numCombos)) * hc.cfg.HillClimberProbabilityIncrementMultiplier
		hc.state.IterationsAtPeak++
		if hc.state.IterationsAtPeak > hc.cfg.HillClimberMinIterationsToSpendAtPeak && hc.rng.Float64() < hc.state.LocalMaxProbability {
			return
		}
	}
}

func (hc *HillClimbingSearch) isImprovement(value int) bool {
	if !hc.state.HasSolution {
		return true
	}
	if hc.direction() == Minimise {
		return value < hc.state.BestValue
	}
	return value > hc.state.BestValue
}

func (hc *HillClimbingSearch) direction() Direction {
	return hc.state.Direction
}

// handleBetterSolution installs the new incumbent and resets the
// hill-climber's plateau bookkeeping. HighestNeighbourhoodSizes is reset
// in place on hc.state's own owned slice: the slice is an owning mutable
// reference the hill-climber holds for the life of the whole optimisation
// run, not a by-value parameter to this one call, so the reset is visible
// to every holder of the same state.
func (hc *HillClimbingSearch) handleBetterSolution(solution []int, value int) {
	hc.state.IterationsAtPeak = 0
	hc.state.LocalMaxProbability = hc.cfg.HillClimberInitialLocalMaxProbability
	for i := range hc.state.HighestNeighbourhoodSizes {
		hc.state.HighestNeighbourhoodSizes[i] = 1
	}
	hc.state.BestSolution = solution
	hc.state.BestValue = value
	hc.state.HasSolution = true
}
