package neighbourhood

import (
	"fmt"
	"time"

	"github.com/cspkit/fdsearch/internal/fdvar"
)

// IterationStats is the per-iteration result record: what one inner-search
// call under one combination and one neighbourhood size produced.
type IterationStats struct {
	NewMinValue              int
	TimeTaken                time.Duration
	SolutionFound            bool
	TimeoutReached           bool
	HighestNeighbourhoodSize int
}

// outcome classifies one IterationStats for the per-neighbourhood counters
// below.
type outcome int

const (
	outcomePositive outcome = iota
	outcomeNegative
	outcomeNoSolution
	outcomeTimeout
)

func classify(s IterationStats, improved bool) outcome {
	if s.TimeoutReached {
		return outcomeTimeout
	}
	if !s.SolutionFound {
		return outcomeNoSolution
	}
	if improved {
		return outcomePositive
	}
	return outcomeNegative
}

// bestSolutionEntry is one entry in the improving-solution log.
type bestSolutionEntry struct {
	Value     int
	ElapsedMs int64
}

// explorationPhase is one entry in the exploration-phase timeline: the
// meta-search entering and leaving a given hole size.
type explorationPhase struct {
	Size    int
	StartMs int64
	EndMs   int64
}

// perNeighbourhoodCounters holds the activation/time/outcome tally for one
// combination, indexed in parallel with Container.Combinations.
type perNeighbourhoodCounters struct {
	activations int
	cumulative  time.Duration
	positive    int
	negative    int
	noSolution  int
	timeout     int
}

// SearchStats is the aggregated statistics record accumulated across an
// entire optimisation run and reported at termination.
type SearchStats struct {
	perCombination []perNeighbourhoodCounters
	bestSolutions  []bestSolutionEntry
	explorations   []explorationPhase

	// totalNeighbourhoodExplorations/Successes/Time are sized to
	// maxNeighbourhoodSize at construction. An out-of-range index is a
	// contract violation rather than a silent grow-or-clamp: it would hide
	// a caller bug that handed this statistics recorder a size its own
	// combinations never advertise.
	maxNeighbourhoodSize        int
	totalNeighbourhoodExplorations []int
	totalNeighbourhoodSuccesses    []int
	totalNeighbourhoodTime         []time.Duration

	startedAt time.Time

	exploring     bool
	exploringSize int
	exploringAt   int64
}

// NewSearchStats allocates a stats record for a container with
// maxNeighbourhoodSize as the largest neighbourhood size any combination
// can ever request, and pins the run timer.
func NewSearchStats(numCombinations, maxNeighbourhoodSize int, startedAt time.Time) *SearchStats {
	return &SearchStats{
		perCombination:                  make([]perNeighbourhoodCounters, numCombinations),
		maxNeighbourhoodSize:            maxNeighbourhoodSize,
		totalNeighbourhoodExplorations: make([]int, maxNeighbourhoodSize),
		totalNeighbourhoodSuccesses:    make([]int, maxNeighbourhoodSize),
		totalNeighbourhoodTime:         make([]time.Duration, maxNeighbourhoodSize),
		startedAt:                       startedAt,
	}
}

func (s *SearchStats) sizeIndex(size int) int {
	idx := size - 1
	if idx < 0 || idx >= s.maxNeighbourhoodSize {
		fdvar.PanicContractViolation("SearchStats", fmt.Sprintf("neighbourhood size %d out of range [1,%d]", size, s.maxNeighbourhoodSize))
	}
	return idx
}

// RecordIteration folds one IterationStats into the per-combination and
// per-size counters, and appends to the improving-solution log if improved.
func (s *SearchStats) RecordIteration(comboIdx int, st IterationStats, improved bool) {
	c := &s.perCombination[comboIdx]
	c.activations++
	c.cumulative += st.TimeTaken
	switch classify(st, improved) {
	case outcomePositive:
		c.positive++
	case outcomeNegative:
		c.negative++
	case outcomeNoSolution:
		c.noSolution++
	case outcomeTimeout:
		c.timeout++
	}

	idx := s.sizeIndex(st.HighestNeighbourhoodSize)
	s.totalNeighbourhoodExplorations[idx]++
	s.totalNeighbourhoodTime[idx] += st.TimeTaken
	if improved {
		s.totalNeighbourhoodSuccesses[idx]++
		s.bestSolutions = append(s.bestSolutions, bestSolutionEntry{
			Value:     st.NewMinValue,
			ElapsedMs: time.Since(s.startedAt).Milliseconds(),
		})
	}
}

// BeginExploration marks the start of an exploration phase at the given
// hole size. If a phase is already open (a new exploration starting before
// the previous one recorded a find), the open phase is closed at the
// current time first so its end is attributed correctly before the new
// one begins.
func (s *SearchStats) BeginExploration(size int, now time.Time) {
	if s.exploring {
		s.endExploration(now)
	}
	s.exploring = true
	s.exploringSize = size
	s.exploringAt = now.Sub(s.startedAt).Milliseconds()
}

// EndExploration closes the currently open exploration phase, if any.
func (s *SearchStats) EndExploration(now time.Time) {
	if !s.exploring {
		return
	}
	s.endExploration(now)
}

func (s *SearchStats) endExploration(now time.Time) {
	s.explorations = append(s.explorations, explorationPhase{
		Size:    s.exploringSize,
		StartMs: s.exploringAt,
		EndMs:   now.Sub(s.startedAt).Milliseconds(),
	})
	s.exploring = false
}

// BestSolutions returns the improving-solution log in recording order.
func (s *SearchStats) BestSolutions() []bestSolutionEntry { return s.bestSolutions }

// ExplorationPhases returns the exploration-phase timeline in recording
// order, implicitly closing any still-open phase as of now.
func (s *SearchStats) ExplorationPhases(now time.Time) []explorationPhase {
	if s.exploring {
		s.endExploration(now)
	}
	return s.explorations
}
