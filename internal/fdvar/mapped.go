package fdvar

import (
	"fmt"

	"github.com/cspkit/fdsearch/internal/propagate"
)

// MappedVar wraps an inner Var with one affine Mapper, presenting the
// base variable's domain through outer = Multiplier*base + Offset. A chain
// of MappedVar wrappers is how a constraint built against "y = -x" or
// "y = x + 3" reuses the inner variable's storage and trail entries without
// any of the varieties needing to know about the transform.
type MappedVar struct {
	inner  Var
	mapper Mapper
}

// NewMappedVar wraps inner with mapper, composing with any mapper stack
// inner already carries.
func NewMappedVar(inner Var, mapper Mapper) *MappedVar {
	return &MappedVar{inner: inner, mapper: mapper}
}

func (v *MappedVar) BaseVar() BaseVarID { return v.inner.BaseVar() }

func (v *MappedVar) InitialMin() int {
	if v.mapper.reversesOrder() {
		return v.mapper.Apply(v.inner.InitialMax())
	}
	return v.mapper.Apply(v.inner.InitialMin())
}

func (v *MappedVar) InitialMax() int {
	if v.mapper.reversesOrder() {
		return v.mapper.Apply(v.inner.InitialMin())
	}
	return v.mapper.Apply(v.inner.InitialMax())
}

func (v *MappedVar) Min() int {
	if v.mapper.reversesOrder() {
		return v.mapper.Apply(v.inner.Max())
	}
	return v.mapper.Apply(v.inner.Min())
}

func (v *MappedVar) Max() int {
	if v.mapper.reversesOrder() {
		return v.mapper.Apply(v.inner.Min())
	}
	return v.mapper.Apply(v.inner.Max())
}

func (v *MappedVar) InDomain(val int) bool {
	return v.inner.InDomain(v.mapper.Invert(val))
}

func (v *MappedVar) DomSize() int     { return v.inner.DomSize() }
func (v *MappedVar) IsAssigned() bool { return v.inner.IsAssigned() }
func (v *MappedVar) AssignedValue() int {
	return v.mapper.Apply(v.inner.AssignedValue())
}

func (v *MappedVar) SetMin(ctx *propagate.EngineContext, val int) error {
	if v.mapper.reversesOrder() {
		return v.inner.SetMax(ctx, v.mapper.Invert(val))
	}
	return v.inner.SetMin(ctx, v.mapper.Invert(val))
}

func (v *MappedVar) SetMax(ctx *propagate.EngineContext, val int) error {
	if v.mapper.reversesOrder() {
		return v.inner.SetMin(ctx, v.mapper.Invert(val))
	}
	return v.inner.SetMax(ctx, v.mapper.Invert(val))
}

func (v *MappedVar) RemoveFromDomain(ctx *propagate.EngineContext, val int) error {
	return v.inner.RemoveFromDomain(ctx, v.mapper.Invert(val))
}

func (v *MappedVar) Assign(ctx *propagate.EngineContext, val int) error {
	return v.inner.Assign(ctx, v.mapper.Invert(val))
}

func (v *MappedVar) UncheckedAssign(ctx *propagate.EngineContext, val int) error {
	return v.inner.UncheckedAssign(ctx, v.mapper.Invert(val))
}

// AddDynamicTrigger forwards registration to the base variable unchanged:
// triggers fire on base-space events, and it is the propagator's own
// responsibility to call GetDomainChange through the same mapped handle it
// registered with so the projected value comes back in outer space.
func (v *MappedVar) AddDynamicTrigger(t propagate.Trigger) { v.inner.AddDynamicTrigger(t) }

func (v *MappedVar) SeedInitialState(ctx *propagate.EngineContext) { v.inner.SeedInitialState(ctx) }

func (v *MappedVar) GetDomainChange(payload any) int {
	inner := v.inner.GetDomainChange(payload)
	return v.mapper.Apply(inner)
}

func (v *MappedVar) GetMapperStack() []Mapper {
	return append([]Mapper{v.mapper}, v.inner.GetMapperStack()...)
}

func (v *MappedVar) PopOneMapper() Var { return v.inner }

func (v *MappedVar) String() string {
	return fmt.Sprintf("map(%dx+%d, %s)", v.mapper.Multiplier, v.mapper.Offset, v.inner.String())
}
