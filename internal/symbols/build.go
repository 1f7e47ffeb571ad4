package symbols

import (
	"jsema/internal/types"
)

// typeBuilder turns parsed signatures into descriptors. Type variables are
// looked up through owner's lexical chain; classes through the registry,
// which falls back to unresolved references.
type typeBuilder struct {
	reg   *types.Registry
	owner types.TypeParamOwner
	// extra holds type variables not reachable from owner yet, such as the
	// method's own parameters while they are being declared.
	extra []*types.TypeVar
}

func (b *typeBuilder) lookupVar(name string) *types.TypeVar {
	for _, v := range b.extra {
		if v.Name() == name {
			return v
		}
	}
	if b.owner == nil {
		return nil
	}
	return types.FindTypeParam(b.owner, name)
}

func (b *typeBuilder) build(t *sigType) types.Type {
	switch t.kind {
	case sigBase:
		return b.reg.Primitive(t.base)
	case sigVoid:
		return b.reg.Void
	case sigTypeVar:
		if v := b.lookupVar(t.name); v != nil {
			return v
		}
		return b.reg.Error
	case sigArray:
		return b.reg.Array(b.build(t.elem))
	case sigWildcard:
		return b.reg.UnboundedWildcard()
	case sigExtendsBound:
		return b.reg.ExtendsWildcard(b.build(t.elem))
	case sigSuperBound:
		return b.reg.SuperWildcard(b.build(t.elem))
	case sigClass:
		return b.classType(t)
	}
	return b.reg.Error
}

func (b *typeBuilder) classType(t *sigType) *types.ClassType {
	args := make([]types.Type, len(t.args))
	for i, a := range t.args {
		args[i] = b.build(a)
	}
	sym := b.reg.ClassSymbolFor(t.name)
	if sym.IsUnresolved() && len(args) > 0 {
		sym = b.reg.Factory().UnresolvedReference(t.name, len(args))
	}
	if len(args) > 0 && !sym.IsUnresolved() && len(sym.TypeParameters()) != len(args) {
		// a stale index disagrees with the loaded class; keep the raw type
		args = nil
	}
	if t.outer != nil {
		return b.reg.SelectInner(b.classType(t.outer), sym, args)
	}
	return b.reg.Parameterize(sym, args)
}

func (b *typeBuilder) buildAll(ts []*sigType) []types.Type {
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		out[i] = b.build(t)
	}
	return out
}

// typeParamsOf declares the type variables of a signature on owner. Bounds
// are built on first access, so they may mention the variables themselves.
func typeParamsOf(reg *types.Registry, owner types.TypeParamOwner, params []*sigTypeParam) []*types.TypeVar {
	if len(params) == 0 {
		return nil
	}
	out := make([]*types.TypeVar, len(params))
	for i, tp := range params {
		tp := tp
		out[i] = types.NewTypeParam(owner, tp.name, i, func() types.Type {
			b := &typeBuilder{reg: reg, owner: owner, extra: out}
			var bounds []types.Type
			for _, bound := range tp.bounds {
				if bound != nil {
					bounds = append(bounds, b.build(bound))
				}
			}
			switch len(bounds) {
			case 0:
				return nil
			case 1:
				return bounds[0]
			}
			return reg.Intersect(bounds...)
		})
	}
	return out
}
