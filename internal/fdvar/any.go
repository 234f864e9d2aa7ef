package fdvar

import "github.com/cspkit/fdsearch/internal/propagate"

// AnyVar is the dynamic-dispatch fallback variety, modeled on Minion's
// AnyVarRef: a single concrete type that can hold any variable — a
// concrete variety, a MappedVar, or another AnyVar — behind one vtable
// indirection. It has value semantics and forwards every operation
// straight to the wrapped handle. The constraints and the search manager in
// this module hold plain []Var slices rather than AnyVar values.
type AnyVar struct {
	v Var
}

// NewAnyVar boxes v. Passing an AnyVar back in is fine: GetMapperStack and
// PopOneMapper will see straight through to the real variety.
func NewAnyVar(v Var) AnyVar {
	if inner, ok := v.(AnyVar); ok {
		return inner
	}
	return AnyVar{v: v}
}

func (a AnyVar) Unwrap() Var { return a.v }

func (a AnyVar) BaseVar() BaseVarID { return a.v.BaseVar() }
func (a AnyVar) InitialMin() int    { return a.v.InitialMin() }
func (a AnyVar) InitialMax() int    { return a.v.InitialMax() }
func (a AnyVar) Min() int           { return a.v.Min() }
func (a AnyVar) Max() int           { return a.v.Max() }
func (a AnyVar) InDomain(val int) bool { return a.v.InDomain(val) }
func (a AnyVar) DomSize() int       { return a.v.DomSize() }
func (a AnyVar) IsAssigned() bool   { return a.v.IsAssigned() }
func (a AnyVar) AssignedValue() int { return a.v.AssignedValue() }

func (a AnyVar) SetMin(ctx *propagate.EngineContext, val int) error {
	return a.v.SetMin(ctx, val)
}
func (a AnyVar) SetMax(ctx *propagate.EngineContext, val int) error {
	return a.v.SetMax(ctx, val)
}
func (a AnyVar) RemoveFromDomain(ctx *propagate.EngineContext, val int) error {
	return a.v.RemoveFromDomain(ctx, val)
}
func (a AnyVar) Assign(ctx *propagate.EngineContext, val int) error {
	return a.v.Assign(ctx, val)
}
func (a AnyVar) UncheckedAssign(ctx *propagate.EngineContext, val int) error {
	return a.v.UncheckedAssign(ctx, val)
}

func (a AnyVar) AddDynamicTrigger(t propagate.Trigger) { a.v.AddDynamicTrigger(t) }

func (a AnyVar) SeedInitialState(ctx *propagate.EngineContext) { a.v.SeedInitialState(ctx) }

func (a AnyVar) GetDomainChange(payload any) int { return a.v.GetDomainChange(payload) }

func (a AnyVar) GetMapperStack() []Mapper { return a.v.GetMapperStack() }
func (a AnyVar) PopOneMapper() Var        { return a.v.PopOneMapper() }

func (a AnyVar) String() string { return a.v.String() }
