package neighbourhood

import (
	"context"
	"math/rand"
	"time"
)

// MetaSearch wraps a HillClimbingSearch to escape local optima by
// "hole-punching": forcing progressively larger deviations from the
// incumbent until some combination's exploratory search breaks out of the
// current basin of attraction.
type MetaSearch struct {
	cfg      NhConfig
	state    *State
	selector Selector
	runner   IterationRunner
	stats    *SearchStats
	rng      *rand.Rand

	minNeighbourhoodSize int
	sizeOffset           int
	holeLimit            *ExponentialIncrementer
}

// NewMetaSearch builds a meta-search sharing the same state, selector,
// runner, and stats sink the hill-climber inside it will use.
func NewMetaSearch(cfg NhConfig, state *State, selector Selector, runner IterationRunner, stats *SearchStats, rng *rand.Rand) *MetaSearch {
	return &MetaSearch{
		cfg:                  cfg,
		state:                state,
		selector:             selector,
		runner:               runner,
		stats:                stats,
		rng:                  rng,
		minNeighbourhoodSize: 1,
		holeLimit:            NewExponentialIncrementer(cfg.HolePuncherInitialBacktrackLimit, cfg.HolePuncherBacktrackLimitMultiplier, 0),
	}
}

// Run drives the outer loop: climb to a peak, then punch a hole and try
// again, until ctx is done.
func (m *MetaSearch) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		climber := NewHillClimbingSearch(m.cfg, m.state, m.selector, m.runner, m.stats, m.rng)
		climber.Climb(ctx)

		if m.runOneHolePunch(ctx) {
			// an improving exploratory find re-entered the hill-climber and
			// reset the hole size; loop back to climb again from the peak.
			m.minNeighbourhoodSize = 1
			m.sizeOffset = 0
			continue
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// runOneHolePunch finds the combinations eligible at the current hole
// size (min_neighbourhood_size + offset), explores them in random order,
// and returns true iff one produced an improving find (in which case the
// caller restarts the outer climb). If nothing is eligible at any size up
// to the maximum any combination's deviation domain can reach, it falls
// through to a random-restart search instead. Otherwise, on a clean miss,
// it doubles min_neighbourhood_size (the "hole" grows) so the caller's
// next call tries the next size up.
func (m *MetaSearch) runOneHolePunch(ctx context.Context) bool {
	size := m.minNeighbourhoodSize + m.sizeOffset
	maxSize := m.maxEligibleSize()
	if maxSize == 0 || size > maxSize {
		return m.randomRestart(ctx)
	}

	eligible := m.eligibleCombinations(size)
	if len(eligible) == 0 {
		m.minNeighbourhoodSize *= 2
		return false
	}

	m.rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	if m.stats != nil {
		m.stats.BeginExploration(size, time.Now())
	}
	for _, comboIdx := range eligible {
		if m.exploreOne(ctx, comboIdx, size) {
			if m.stats != nil {
				m.stats.EndExploration(time.Now())
			}
			return true
		}
	}
	if m.stats != nil {
		m.stats.EndExploration(time.Now())
	}
	m.minNeighbourhoodSize *= 2
	return false
}

func (m *MetaSearch) maxEligibleSize() int {
	max := 0
	for _, c := range m.state.Container.Combinations {
		if s := c.MaxDeviation(); s > max {
			max = s
		}
	}
	return max
}

func (m *MetaSearch) eligibleCombinations(size int) []int {
	var out []int
	for i, c := range m.state.Container.Combinations {
		if c.DeviationCovers(size) {
			out = append(out, i)
		}
	}
	return out
}

func (m *MetaSearch) exploreOne(ctx context.Context, comboIdx, size int) bool {
	combo := m.state.Container.Combinations[comboIdx]
	params := SearchParams{
		Combination:       combo,
		Direction:         m.state.Direction,
		BacktrackLimit:    m.holeLimit.Advance(),
		TimeLimit:         m.cfg.IterationSearchTime,
		BacktrackIsBudget: m.cfg.BacktrackInsteadOfTimeLimit,
		NeighbourhoodSize: size,
	}
	start := time.Now()
	stats, newSolution, newValue := m.runner(ctx, params, m.state.BestSolution)
	stats.TimeTaken = time.Since(start)

	improved := stats.SolutionFound && m.isImprovement(newValue)
	m.selector.UpdateStats(comboIdx, stats, improved)
	if m.stats != nil {
		m.stats.RecordIteration(comboIdx, stats, improved)
	}
	if !improved {
		return false
	}
	m.state.BestSolution = newSolution
	m.state.BestValue = newValue
	m.state.HasSolution = true
	return true
}

// randomRestart runs a plain exhaustive search (combination nil signals
// "no neighbourhood bias, search the whole model") until it finds any
// solution strictly better than the incumbent, returning true. It returns
// false without a better solution when an attempt reports TimeoutReached or
// ctx is done.
func (m *MetaSearch) randomRestart(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		params := SearchParams{
			Combination:       nil,
			Direction:         m.state.Direction,
			BacktrackLimit:    m.holeLimit.Advance(),
			TimeLimit:         m.cfg.IterationSearchTime,
			BacktrackIsBudget: m.cfg.BacktrackInsteadOfTimeLimit,
			NeighbourhoodSize: 0,
		}
		start := time.Now()
		stats, newSolution, newValue := m.runner(ctx, params, m.state.BestSolution)
		stats.TimeTaken = time.Since(start)
		if stats.SolutionFound && m.isImprovement(newValue) {
			m.state.BestSolution = newSolution
			m.state.BestValue = newValue
			m.state.HasSolution = true
			return true
		}
		if stats.TimeoutReached {
			return false
		}
	}
}

func (m *MetaSearch) isImprovement(value int) bool {
	if !m.state.HasSolution {
		return true
	}
	if m.state.Direction == Minimise {
		return value < m.state.BestValue
	}
	return value > m.state.BestValue
}
