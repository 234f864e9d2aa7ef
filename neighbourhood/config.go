// Package neighbourhood implements the optimisation-layer controller: the
// hill-climber, the hole-punching meta-search that wraps it, the
// neighbourhood selection strategies, and the statistics it all reports
// through.
package neighbourhood

import (
	"fmt"
	"time"
)

// SearchStrategy selects which outer optimisation loop RunOptimisation
// drives.
type SearchStrategy int

const (
	HillClimbing SearchStrategy = iota
	LAHC
	SimulatedAnnealing
	MetaWithHillClimbing
	MetaWithLAHC
	MetaWithSimulatedAnnealing
)

func (s SearchStrategy) String() string {
	switch s {
	case HillClimbing:
		return "hill-climbing"
	case LAHC:
		return "LAHC"
	case SimulatedAnnealing:
		return "simulated-annealing"
	case MetaWithHillClimbing:
		return "meta-with-hill-climbing"
	case MetaWithLAHC:
		return "meta-with-LAHC"
	case MetaWithSimulatedAnnealing:
		return "meta-with-simulated-annealing"
	default:
		return "unknown-strategy"
	}
}

// implemented reports whether this module actually implements the
// strategy. LAHC and simulated-annealing variants (plain or meta-wrapped)
// are declared as enum values but rejected at construction time, matching
// the original's fatal-abort behaviour rather than ever being silently
// built.
func (s SearchStrategy) implemented() bool {
	return s == HillClimbing || s == MetaWithHillClimbing
}

// SelectionStrategy selects which adaptive policy chooses a combination to
// activate each iteration.
type SelectionStrategy int

const (
	Random SelectionStrategy = iota
	UCB
	LearningAutomaton
	Interactive
)

func (s SelectionStrategy) String() string {
	switch s {
	case Random:
		return "random"
	case UCB:
		return "UCB"
	case LearningAutomaton:
		return "learning-automaton"
	case Interactive:
		return "interactive"
	default:
		return "unknown-selection-strategy"
	}
}

// ConfigError reports an invalid tunable or an unimplemented strategy
// choice, surfaced at construction time, before any search begins.
type ConfigError struct {
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("neighbourhood: invalid config field %q: %s", e.Field, e.Detail)
}

// NhConfig bundles every neighbourhood-search tunable. It is read-only once
// validated; overrides at call time go through functional Option values.
type NhConfig struct {
	IterationSearchTime time.Duration

	InitialBacktrackLimit    int
	BacktrackLimitMultiplier float64
	BacktrackLimitIncrement  int

	HolePuncherInitialBacktrackLimit    int
	HolePuncherBacktrackLimitMultiplier float64

	BacktrackInsteadOfTimeLimit bool

	HillClimberInitialLocalMaxProbability    float64
	HillClimberProbabilityIncrementMultiplier float64
	HillClimberMinIterationsToSpendAtPeak    int

	IncreaseBacktrackOnlyOnFailure bool

	NeighbourhoodSearchStrategy    SearchStrategy
	NeighbourhoodSelectionStrategy SelectionStrategy
}

// Option overrides one NhConfig field at call time.
type Option func(*NhConfig)

func WithIterationSearchTime(d time.Duration) Option {
	return func(c *NhConfig) { c.IterationSearchTime = d }
}

func WithBacktrackLimitSchedule(initial int, multiplier float64, increment int) Option {
	return func(c *NhConfig) {
		c.InitialBacktrackLimit = initial
		c.BacktrackLimitMultiplier = multiplier
		c.BacktrackLimitIncrement = increment
	}
}

func WithHolePuncherBacktrackLimitSchedule(initial int, multiplier float64) Option {
	return func(c *NhConfig) {
		c.HolePuncherInitialBacktrackLimit = initial
		c.HolePuncherBacktrackLimitMultiplier = multiplier
	}
}

func WithBacktrackInsteadOfTimeLimit(v bool) Option {
	return func(c *NhConfig) { c.BacktrackInsteadOfTimeLimit = v }
}

func WithHillClimberSchedule(initialLocalMaxProbability, probabilityIncrementMultiplier float64, minIterationsAtPeak int) Option {
	return func(c *NhConfig) {
		c.HillClimberInitialLocalMaxProbability = initialLocalMaxProbability
		c.HillClimberProbabilityIncrementMultiplier = probabilityIncrementMultiplier
		c.HillClimberMinIterationsToSpendAtPeak = minIterationsAtPeak
	}
}

func WithIncreaseBacktrackOnlyOnFailure(v bool) Option {
	return func(c *NhConfig) { c.IncreaseBacktrackOnlyOnFailure = v }
}

func WithSearchStrategy(s SearchStrategy) Option {
	return func(c *NhConfig) { c.NeighbourhoodSearchStrategy = s }
}

func WithSelectionStrategy(s SelectionStrategy) Option {
	return func(c *NhConfig) { c.NeighbourhoodSelectionStrategy = s }
}

// DefaultConfig returns a config with conservative, always-valid defaults;
// callers apply Options on top to tune it.
func DefaultConfig() NhConfig {
	return NhConfig{
		IterationSearchTime:                       100 * time.Millisecond,
		InitialBacktrackLimit:                      10,
		BacktrackLimitMultiplier:                   1.5,
		BacktrackLimitIncrement:                     5,
		HolePuncherInitialBacktrackLimit:            10,
		HolePuncherBacktrackLimitMultiplier:         1.5,
		BacktrackInsteadOfTimeLimit:                 false,
		HillClimberInitialLocalMaxProbability:       0.0,
		HillClimberProbabilityIncrementMultiplier:   1.0,
		HillClimberMinIterationsToSpendAtPeak:        10,
		IncreaseBacktrackOnlyOnFailure:               true,
		NeighbourhoodSearchStrategy:                  HillClimbing,
		NeighbourhoodSelectionStrategy:                Random,
	}
}

// NewConfig builds a validated config from the defaults plus opts, in one
// step. Construction validates every tunable and returns a ConfigError
// immediately rather than partway through a run.
func NewConfig(opts ...Option) (NhConfig, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return NhConfig{}, err
	}
	return c, nil
}

// Validate checks every tunable's constraints, returning the first
// violation found.
func (c *NhConfig) Validate() error {
	if c.IterationSearchTime <= 0 {
		return &ConfigError{Field: "IterationSearchTime", Detail: "must be positive"}
	}
	if c.InitialBacktrackLimit <= 0 {
		return &ConfigError{Field: "InitialBacktrackLimit", Detail: "must be positive"}
	}
	if c.BacktrackLimitMultiplier < 1.0 {
		return &ConfigError{Field: "BacktrackLimitMultiplier", Detail: "must be >= 1.0"}
	}
	if c.BacktrackLimitIncrement < 0 {
		return &ConfigError{Field: "BacktrackLimitIncrement", Detail: "must be >= 0"}
	}
	if c.HolePuncherInitialBacktrackLimit <= 0 {
		return &ConfigError{Field: "HolePuncherInitialBacktrackLimit", Detail: "must be positive"}
	}
	if c.HolePuncherBacktrackLimitMultiplier < 1.0 {
		return &ConfigError{Field: "HolePuncherBacktrackLimitMultiplier", Detail: "must be >= 1.0"}
	}
	if c.HillClimberInitialLocalMaxProbability < 0 || c.HillClimberInitialLocalMaxProbability > 1 {
		return &ConfigError{Field: "HillClimberInitialLocalMaxProbability", Detail: "must be in [0,1]"}
	}
	if c.HillClimberProbabilityIncrementMultiplier < 0 {
		return &ConfigError{Field: "HillClimberProbabilityIncrementMultiplier", Detail: "must be >= 0"}
	}
	if c.HillClimberMinIterationsToSpendAtPeak < 0 {
		return &ConfigError{Field: "HillClimberMinIterationsToSpendAtPeak", Detail: "must be >= 0"}
	}
	if !c.NeighbourhoodSearchStrategy.implemented() {
		return &ConfigError{Field: "NeighbourhoodSearchStrategy", Detail: fmt.Sprintf("%s is declared but not implemented; use HillClimbing or MetaWithHillClimbing", c.NeighbourhoodSearchStrategy)}
	}
	switch c.NeighbourhoodSelectionStrategy {
	case Random, UCB, LearningAutomaton, Interactive:
	default:
		return &ConfigError{Field: "NeighbourhoodSelectionStrategy", Detail: "unrecognised selection strategy"}
	}
	return nil
}
