package neighbourhood

import "time"

// Direction is the optimisation direction of the objective.
type Direction int

const (
	Minimise Direction = iota
	Maximise
)

// SearchParams is the per-iteration bundle the controller hands to the
// inner search: which combination to activate, which direction improves
// the objective, the backtrack budget, the optional wall-time budget,
// which of the two is authoritative, and the current neighbourhood size.
type SearchParams struct {
	Combination       *Combination
	Direction         Direction
	BacktrackLimit    int
	TimeLimit         time.Duration
	BacktrackIsBudget bool
	NeighbourhoodSize int
}

// State is the mutable record the controller threads through one
// optimisation run: the incumbent, the hill-climber's own bookkeeping, and
// whatever selection strategy is active. The incumbent is owned here and
// only ever mutated by the controller; the inner search and selection
// strategies read it.
type State struct {
	Container *Container
	Direction Direction

	BestSolution []int
	BestValue    int
	HasSolution  bool

	IterationsAtPeak     int
	LocalMaxProbability   float64
	HighestNeighbourhoodSizes []int // indexed by combination index, owned by the hill-climber
}

// NewState seeds a controller state from an initial feasible solution.
func NewState(container *Container, direction Direction, initialSolution []int, initialValue int) *State {
	sizes := make([]int, len(container.Combinations))
	for i := range sizes {
		sizes[i] = 1
	}
	return &State{
		Container:                 container,
		Direction:                 direction,
		BestSolution:              append([]int(nil), initialSolution...),
		BestValue:                 initialValue,
		HasSolution:                true,
		HighestNeighbourhoodSizes: sizes,
	}
}
