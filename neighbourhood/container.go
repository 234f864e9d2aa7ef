package neighbourhood

import "github.com/cspkit/fdsearch/internal/fdvar"

// Neighbourhood is a named structural handle over a disjoint subset of the
// problem's variables plus a deviation variable whose domain bounds how
// many of them a move may alter.
type Neighbourhood struct {
	Name      string
	Vars      []fdvar.Var
	Deviation fdvar.Var
}

// Combination is an ordered tuple of neighbourhoods activated together
// within one inner search.
type Combination struct {
	Name            string
	Neighbourhoods  []*Neighbourhood
}

// Container owns the full set of neighbourhoods and the combinations built
// from them.
type Container struct {
	Neighbourhoods []*Neighbourhood
	Combinations   []*Combination
}

// NewContainer builds a container from pre-constructed neighbourhoods and
// combinations. The model loader (external to this module) is responsible
// for grouping variables into neighbourhoods; this constructor just owns
// the resulting slices.
func NewContainer(nhs []*Neighbourhood, combos []*Combination) *Container {
	return &Container{Neighbourhoods: nhs, Combinations: combos}
}

// DeviationCovers reports whether combination c's deviation domain (the
// union, across its neighbourhoods, of values their deviation variables
// can still take) contains size. The meta-search uses this to find which
// combinations are eligible at a given hole size.
func (c *Combination) DeviationCovers(size int) bool {
	for _, nh := range c.Neighbourhoods {
		if nh.Deviation.InDomain(size) {
			return true
		}
	}
	return false
}

// MaxDeviation returns the largest value any neighbourhood in c's
// deviation domain can still take, used to know when the meta-search has
// run out of sizes to grow into.
func (c *Combination) MaxDeviation() int {
	max := 0
	for _, nh := range c.Neighbourhoods {
		if nh.Deviation.Max() > max {
			max = nh.Deviation.Max()
		}
	}
	return max
}
