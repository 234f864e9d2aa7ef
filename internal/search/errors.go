package search

import "errors"

// ErrBudgetExhausted is returned when a search run aborts because a
// configured node, backtrack, or time budget was reached rather than the
// search tree being exhausted on its own.
var ErrBudgetExhausted = errors.New("search: budget exhausted")

// ErrInfeasible is returned by Solve when the branching order's variables
// cannot be consistently assigned: the search tree exhausted without a
// solution callback ever firing.
var ErrInfeasible = errors.New("search: no solution")
