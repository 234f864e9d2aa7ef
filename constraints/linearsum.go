package constraints

import (
	"fmt"

	"github.com/cspkit/fdsearch/internal/fdvar"
	"github.com/cspkit/fdsearch/internal/propagate"
)

// LinearSumEquals enforces sum(coeffs[i] * vars[i]) == total, maintained as
// a bounds-consistency propagator: every variable's bounds are derived from
// the current bounds of every other term. It subscribes to EventBoundsChanged
// on every term, including total, since total's own bounds narrow the terms
// symmetrically.
type LinearSumEquals struct {
	coeffs []int
	vars   []fdvar.Var
	total  fdvar.Var
}

// NewLinearSumEquals builds the propagator and registers its triggers.
// len(coeffs) must equal len(vars); this is checked with a contract
// violation rather than an error because a mismatched model is a caller
// bug, not a runtime condition.
func NewLinearSumEquals(coeffs []int, vars []fdvar.Var, total fdvar.Var) *LinearSumEquals {
	if len(coeffs) != len(vars) {
		fdvar.PanicContractViolation("LinearSumEquals", fmt.Sprintf("len(coeffs)=%d != len(vars)=%d", len(coeffs), len(vars)))
	}
	c := &LinearSumEquals{coeffs: coeffs, vars: vars, total: total}
	for i, v := range vars {
		v.AddDynamicTrigger(propagate.Trigger{Propagator: c, Event: propagate.EventBoundsChanged, Opcode: i})
	}
	total.AddDynamicTrigger(propagate.Trigger{Propagator: c, Event: propagate.EventBoundsChanged, Opcode: -1})
	return c
}

func (c *LinearSumEquals) Name() string { return "linear-sum-equals" }

// termBounds returns the [min,max] range coeffs[i]*vars[i] can take given
// the variable's current bounds, accounting for a negative coefficient
// flipping which bound maps to which.
func termBounds(coeff int, v fdvar.Var) (lo, hi int) {
	a, b := coeff*v.Min(), coeff*v.Max()
	if a <= b {
		return a, b
	}
	return b, a
}

func (c *LinearSumEquals) Propagate(ctx *propagate.EngineContext, t propagate.Trigger) error {
	// Tighten total from the sum of every term's current bounds.
	lo, hi := 0, 0
	for i, v := range c.vars {
		tlo, thi := termBounds(c.coeffs[i], v)
		lo += tlo
		hi += thi
	}
	if err := c.total.SetMin(ctx, lo); err != nil {
		return err
	}
	if err := c.total.SetMax(ctx, hi); err != nil {
		return err
	}

	// Tighten each term from total's bounds minus every other term's
	// bounds: term_i in [total.min - sum(others.max), total.max - sum(others.min)].
	for i, v := range c.vars {
		othersMin, othersMax := 0, 0
		for j, other := range c.vars {
			if j == i {
				continue
			}
			olo, ohi := termBounds(c.coeffs[j], other)
			othersMin += olo
			othersMax += ohi
		}
		termLo := c.total.Min() - othersMax
		termHi := c.total.Max() - othersMin

		var newMin, newMax int
		if c.coeffs[i] > 0 {
			newMin = floorDivUp(termLo, c.coeffs[i])
			newMax = floorDiv(termHi, c.coeffs[i])
			if err := v.SetMin(ctx, newMin); err != nil {
				return err
			}
			if err := v.SetMax(ctx, newMax); err != nil {
				return err
			}
		} else if c.coeffs[i] < 0 {
			newMax = floorDiv(termLo, c.coeffs[i])
			newMin = floorDivUp(termHi, c.coeffs[i])
			if err := v.SetMin(ctx, newMin); err != nil {
				return err
			}
			if err := v.SetMax(ctx, newMax); err != nil {
				return err
			}
		}
	}
	return nil
}

// floorDiv divides rounding toward negative infinity, the bound direction
// needed when deriving an upper bound from a coefficient division.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorDivUp divides rounding toward positive infinity, for lower bounds.
func floorDivUp(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
