package neighbourhood

import (
	"context"
	"math/rand"
	"testing"

	"github.com/cspkit/fdsearch/internal/fdvar"
)

// plateauRunner never reports an improving solution, so the climber must
// exit once the plateau patience is exhausted.
func plateauRunner(ctx context.Context, params SearchParams, incumbent []int) (IterationStats, []int, int) {
	return IterationStats{SolutionFound: false, HighestNeighbourhoodSize: params.NeighbourhoodSize}, incumbent, 0
}

func singleCombinationContainer() *Container {
	dev := fdvar.NewBoundsVar(1, 1, 4)
	nh := &Neighbourhood{Name: "nh", Vars: nil, Deviation: dev}
	combo := &Combination{Name: "c0", Neighbourhoods: []*Neighbourhood{nh}}
	return NewContainer([]*Neighbourhood{nh}, []*Combination{combo})
}

func TestHillClimberExitsPlateauWithinOneIterationPastPatience(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HillClimberInitialLocalMaxProbability = 1.0
	cfg.HillClimberMinIterationsToSpendAtPeak = 3

	container := singleCombinationContainer()
	state := NewState(container, Minimise, []int{0}, 0)
	rng := rand.New(rand.NewSource(1))
	selector := NewRandomSelector(1, rng)

	climber := NewHillClimbingSearch(cfg, state, selector, plateauRunner, nil, rng)
	climber.Climb(context.Background())

	if state.IterationsAtPeak != cfg.HillClimberMinIterationsToSpendAtPeak+1 {
		t.Fatalf("IterationsAtPeak = %d, want exit at exactly %d (one iteration past patience)", state.IterationsAtPeak, cfg.HillClimberMinIterationsToSpendAtPeak+1)
	}
}

func TestHillClimberResetsOnImprovement(t *testing.T) {
	cfg := DefaultConfig()
	container := singleCombinationContainer()
	state := NewState(container, Minimise, []int{0}, 10)
	state.HighestNeighbourhoodSizes[0] = 3
	rng := rand.New(rand.NewSource(1))
	selector := NewRandomSelector(1, rng)

	calls := 0
	runner := func(ctx context.Context, params SearchParams, incumbent []int) (IterationStats, []int, int) {
		calls++
		if calls == 1 {
			return IterationStats{SolutionFound: true, NewMinValue: 5, HighestNeighbourhoodSize: 1}, []int{1}, 5
		}
		return IterationStats{SolutionFound: false, HighestNeighbourhoodSize: 1}, incumbent, 0
	}

	climber := NewHillClimbingSearch(cfg, state, selector, runner, nil, rng)
	climber.handleBetterSolution([]int{1}, 5)

	if state.HighestNeighbourhoodSizes[0] != 1 {
		t.Fatalf("HighestNeighbourhoodSizes[0] = %d, want reset to 1", state.HighestNeighbourhoodSizes[0])
	}
	if state.BestValue != 5 {
		t.Fatalf("BestValue = %d, want 5", state.BestValue)
	}
	if state.IterationsAtPeak != 0 {
		t.Fatalf("IterationsAtPeak = %d, want 0", state.IterationsAtPeak)
	}
}

func TestHillClimberThreadsDirectionIntoSearchParamsForMaximise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HillClimberInitialLocalMaxProbability = 1.0
	cfg.HillClimberMinIterationsToSpendAtPeak = 0

	container := singleCombinationContainer()
	state := NewState(container, Maximise, []int{0}, 0)
	rng := rand.New(rand.NewSource(1))
	selector := NewRandomSelector(1, rng)

	var seen Direction
	runner := func(ctx context.Context, params SearchParams, incumbent []int) (IterationStats, []int, int) {
		seen = params.Direction
		return IterationStats{SolutionFound: false, HighestNeighbourhoodSize: params.NeighbourhoodSize}, incumbent, 0
	}

	climber := NewHillClimbingSearch(cfg, state, selector, runner, nil, rng)
	climber.Climb(context.Background())

	if seen != Maximise {
		t.Fatalf("SearchParams.Direction = %v, want Maximise", seen)
	}
}
