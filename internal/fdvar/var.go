// Package fdvar implements the finite-domain variable varieties: tagged-
// variant polymorphism over Boolean, Bounds, Sparse-bounds, and Discrete
// domains, the algebraic mapper stack that lets a constraint view a base
// variable through an affine transform, and the dynamic-dispatch AnyVar
// fallback modeled on Minion's AnyVarRef for call sites that cannot be
// generic over the concrete variety at compile time.
package fdvar

import "github.com/cspkit/fdsearch/internal/propagate"

// Var is the capability every finite-domain variable handle implements,
// whether it is a concrete variety, a MappedVar wrapping one, or the AnyVar
// dynamic-dispatch wrapper. Mutators take the engine context explicitly
// rather than reaching into package-level state; every mutator
// enqueues the triggers a successful mutation wakes but does not itself
// drain the queue, so a propagator that calls several mutators in a row
// pays the fixpoint cost once, at the point it chooses to call
// ctx.RunToFixpoint.
type Var interface {
	// BaseVar identifies the underlying variety storage. Two handles with
	// the same BaseVar alias the same domain regardless of how many mappers
	// sit on top of either.
	BaseVar() BaseVarID

	InitialMin() int
	InitialMax() int

	Min() int
	Max() int
	InDomain(v int) bool
	DomSize() int
	IsAssigned() bool
	// AssignedValue panics with a ContractViolation if the variable is not
	// currently assigned; callers must guard with IsAssigned.
	AssignedValue() int

	// SetMin raises the lower bound to v, discarding every value below it.
	// A no-op (v <= Min()) returns nil without recording anything on the
	// trail. Returns ErrWipeout if the new bound leaves an empty domain.
	SetMin(ctx *propagate.EngineContext, v int) error
	// SetMax lowers the upper bound to v, mirroring SetMin.
	SetMax(ctx *propagate.EngineContext, v int) error
	// RemoveFromDomain removes a single value, which may or may not sit at
	// a bound. Returns ErrWipeout if v was the last remaining value.
	// BoundsVar accepts only a value at a bound (or outside the domain); an
	// interior value is a ContractViolation panic there.
	RemoveFromDomain(ctx *propagate.EngineContext, v int) error
	// Assign narrows the domain to the single value v. Returns ErrWipeout
	// if v is not currently in the domain.
	Assign(ctx *propagate.EngineContext, v int) error
	// UncheckedAssign assigns v without first checking InDomain(v); callers
	// that have already established v is in-domain (e.g. replaying a search
	// decision) use this to skip the redundant check. Behaviour is
	// undefined if v is not in the domain: no check is made, nothing panics
	// and no error is returned.
	UncheckedAssign(ctx *propagate.EngineContext, v int) error

	// AddDynamicTrigger registers t against this variable for the event
	// kind (and, for EventValueRemoved, the specific value) t carries. The
	// registration itself is not trailed: triggers are setup-time
	// structure, not search-time state, and survive backtracking.
	AddDynamicTrigger(t propagate.Trigger)

	// SeedInitialState enqueues triggers matching this variable's current
	// bounds/assignment, as if it had just been mutated into that state.
	// Propagation is otherwise driven purely by subsequent mutation events,
	// so a variable born already satisfying a registered trigger's
	// condition (e.g. assigned at construction) would never cause that
	// trigger to fire without this.
	SeedInitialState(ctx *propagate.EngineContext)

	// GetDomainChange projects a firing's payload down to the single
	// changed quantity (new bound or removed value) a propagator usually
	// wants, without needing to inspect the Delta's Kind itself.
	GetDomainChange(payload any) int

	// GetMapperStack returns the chain of mappers between this handle and
	// its base variety, outermost first. A concrete variety or AnyVar with
	// no mapper returns nil.
	GetMapperStack() []Mapper
	// PopOneMapper returns a handle to the next layer down: the wrapped Var
	// with its outermost mapper removed. Calling PopOneMapper on a variable
	// with no mapper is a ContractViolation.
	PopOneMapper() Var

	String() string
}
