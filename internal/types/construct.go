package types

import (
	"errors"
	"fmt"
)

// ErrTypeArgCount is the panic value for a parameterization whose argument
// count does not match the declaration.
var ErrTypeArgCount = errors.New("types: wrong number of type arguments")

// Array returns component[].
func (r *Registry) Array(component Type) *ArrayType {
	return &ArrayType{reg: r, component: component}
}

// ArrayOf nests Array dims times. dims <= 0 returns the element unchanged.
func (r *Registry) ArrayOf(elem Type, dims int) Type {
	t := elem
	for i := 0; i < dims; i++ {
		t = r.Array(t)
	}
	return t
}

// TypeOf returns the type a symbol denotes when used without arguments: the
// primitive for primitive symbols, the generic declaration otherwise.
func (r *Registry) TypeOf(sym ClassSymbol) Type {
	if sym.IsPrimitive() {
		if p, ok := r.PrimitiveByName(sym.SimpleName()); ok {
			return p
		}
	}
	if comp := sym.ArrayComponent(); comp != nil {
		return r.Array(r.TypeOf(comp))
	}
	return r.Declaration(sym)
}

// Declaration returns the generic declaration C<T1..Tn> of sym: the class
// applied to its own type parameters, with the enclosing declaration for
// inner classes.
func (r *Registry) Declaration(sym ClassSymbol) *ClassType {
	ct := &ClassType{sym: sym}
	if params := sym.TypeParameters(); len(params) > 0 {
		ct.args = make([]Type, len(params))
		for i, p := range params {
			ct.args[i] = p
		}
	}
	if needsEnclosingType(sym) {
		ct.enclosing = r.Declaration(sym.EnclosingClass())
	}
	return ct
}

// RawType returns the raw use of sym. For a non-generic symbol this is the
// plain class type.
func (r *Registry) RawType(sym ClassSymbol) *ClassType {
	ct := &ClassType{sym: sym}
	if needsEnclosingType(sym) {
		ct.enclosing = r.RawType(sym.EnclosingClass())
	}
	return ct
}

// Parameterize applies sym to args. An empty args yields the raw type. For
// resolved symbols the count must match; unresolved symbols accept any count.
func (r *Registry) Parameterize(sym ClassSymbol, args []Type) *ClassType {
	if len(args) == 0 {
		return r.RawType(sym)
	}
	if n := len(sym.TypeParameters()); n != len(args) && !sym.IsUnresolved() {
		panic(fmt.Errorf("%w: %s expects %d, got %d", ErrTypeArgCount, sym.BinaryName(), n, len(args)))
	}
	ct := &ClassType{sym: sym, args: args}
	if needsEnclosingType(sym) {
		ct.enclosing = r.Declaration(sym.EnclosingClass())
	}
	return ct
}

// SelectInner returns outer.Inner<args>. The enclosing type is kept only when
// inner is an inner (non-static) class of a generic context.
func (r *Registry) SelectInner(outer *ClassType, inner ClassSymbol, args []Type) *ClassType {
	ct := r.Parameterize(inner, args)
	if outer != nil && needsEnclosingType(inner) {
		ct.enclosing = outer
	}
	return ct
}

func needsEnclosingType(sym ClassSymbol) bool {
	if !IsInnerClass(sym) || sym.IsLocal() || sym.IsAnonymous() {
		return false
	}
	encl := sym.EnclosingClass()
	return IsGeneric(encl) || needsEnclosingType(encl)
}

// UnboundedWildcard returns ?.
func (r *Registry) UnboundedWildcard() *Wildcard {
	return &Wildcard{upper: true, bound: r.Object()}
}

// ExtendsWildcard returns ? extends bound.
func (r *Registry) ExtendsWildcard(bound Type) *Wildcard {
	return &Wildcard{upper: true, bound: bound}
}

// SuperWildcard returns ? super bound.
func (r *Registry) SuperWildcard(bound Type) *Wildcard {
	return &Wildcard{upper: false, bound: bound}
}

// Wildcard returns ? extends bound when upper, ? super bound otherwise.
func (r *Registry) Wildcard(upper bool, bound Type) *Wildcard {
	if upper {
		return r.ExtendsWildcard(bound)
	}
	return r.SuperWildcard(bound)
}

// Intersect builds T1 & ... & Tn. Nested intersections are flattened,
// duplicates and Object dropped (unless it is the only component), and the
// class or type-variable component is moved first. A single remaining
// component is returned as is.
func (r *Registry) Intersect(components ...Type) Type {
	flat := make([]Type, 0, len(components))
	var add func(t Type)
	add = func(t Type) {
		if it, ok := t.(*Intersection); ok {
			for _, c := range it.components {
				add(c)
			}
			return
		}
		for _, seen := range flat {
			if Same(seen, t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, c := range components {
		if c != nil {
			add(c)
		}
	}
	if len(flat) > 1 {
		kept := flat[:0]
		for _, c := range flat {
			if !IsObject(c) {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			kept = append(kept, r.Object())
		}
		flat = kept
	}
	switch len(flat) {
	case 0:
		return r.Object()
	case 1:
		return flat[0]
	}
	primary := -1
	for i, c := range flat {
		if isPrimaryBound(c) {
			primary = i
			break
		}
	}
	if primary > 0 {
		p := flat[primary]
		copy(flat[1:primary+1], flat[:primary])
		flat[0] = p
	}
	var super *ClassType
	var itfs []*ClassType
	for i, c := range flat {
		ct, ok := c.(*ClassType)
		if !ok {
			if e, isErased := Erasure(c).(*ClassType); isErased && i == 0 {
				super = e
			}
			continue
		}
		if ct.sym.IsInterface() {
			itfs = append(itfs, ct)
		} else if super == nil {
			super = ct
		}
	}
	return &Intersection{
		components: flat,
		sym:        r.factory.IntersectionSymbol(super, itfs),
	}
}

func isPrimaryBound(t Type) bool {
	switch x := t.(type) {
	case *ClassType:
		return !x.sym.IsInterface()
	case *TypeVar, *ArrayType:
		return true
	}
	return false
}

// NewInferenceVar creates a fresh inference variable standing for origin.
func (r *Registry) NewInferenceVar(origin *TypeVar) *InferenceVar {
	return &InferenceVar{reg: r, id: r.nextID(), origin: origin}
}

// Box returns the wrapper class of a primitive; other types are unchanged.
func (r *Registry) Box(t Type) Type {
	if p, ok := t.(*Primitive); ok {
		return r.ClassType(p.kind.BoxName())
	}
	return t
}

// Unbox returns the primitive of a wrapper class type, following type
// variable and intersection bounds (JLS 5.1.8). Other types are unchanged.
func (r *Registry) Unbox(t Type) Type {
	switch x := t.(type) {
	case *ClassType:
		if k, ok := unboxedKind(x.sym.BinaryName()); ok {
			return r.Primitive(k)
		}
	case *TypeVar:
		if u := x.UpperBound(); u != nil {
			if p, ok := r.Unbox(u).(*Primitive); ok {
				return p
			}
		}
	case *Intersection:
		for _, c := range x.components {
			if p, ok := r.Unbox(c).(*Primitive); ok {
				return p
			}
		}
	}
	return t
}

func unboxedKind(binaryName string) (PrimitiveKind, bool) {
	for k := PrimBoolean; k <= PrimDouble; k++ {
		if k.BoxName() == binaryName {
			return k, true
		}
	}
	return 0, false
}

// IsBoxedPrimitive reports a wrapper class type.
func IsBoxedPrimitive(t Type) bool {
	ct, ok := t.(*ClassType)
	if !ok {
		return false
	}
	_, ok = unboxedKind(ct.sym.BinaryName())
	return ok
}
