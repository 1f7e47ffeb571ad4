package types

// Glb is the greatest lower bound of reference types (JLS 5.1.10): their
// intersection with every component that is a supertype of another one
// removed.
func (r *Registry) Glb(ts ...Type) Type {
	var flat []Type
	for _, t := range ts {
		if it, ok := t.(*Intersection); ok {
			flat = append(flat, it.components...)
			continue
		}
		if t != nil {
			flat = append(flat, t)
		}
	}
	for _, t := range flat {
		if IsErrorLike(t) {
			return t
		}
	}
	kept := make([]Type, 0, len(flat))
	for i, t := range flat {
		redundant := false
		for j, u := range flat {
			if i == j {
				continue
			}
			if IsSubtypeNoInfer(u, t) && (!IsSubtypeNoInfer(t, u) || j < i) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, t)
		}
	}
	return r.Intersect(kept...)
}

const maxLubDepth = 2

// Lub is the least upper bound of types (JLS 4.10.4), used for conditional
// expressions and inference lower bounds. Primitives are boxed first; the
// null type is ignored unless every input is null. Recursive
// parameterizations are cut at a fixed depth with an unbounded wildcard.
func (r *Registry) Lub(ts ...Type) Type {
	return r.lub(ts, 0)
}

func (r *Registry) lub(ts []Type, depth int) Type {
	var us []Type
	for _, t := range ts {
		if t == nil || IsSentinel(t, SentinelNull) {
			continue
		}
		if IsErrorLike(t) {
			return t
		}
		us = append(us, r.Box(t))
	}
	switch len(us) {
	case 0:
		return r.Null
	case 1:
		return us[0]
	}
	allSame := true
	for _, u := range us[1:] {
		if !Same(u, us[0]) {
			allSame = false
			break
		}
	}
	if allSame {
		return us[0]
	}
	for _, u := range us {
		if allSubtypeOf(us, u) {
			return u
		}
	}

	if comps, ok := arrayComponents(us); ok {
		return r.Array(r.lub(comps, depth))
	}

	// erased candidates: supertypes shared by every input
	var candidates []*ClassType
	for _, sup := range erasedSupertypes(us[0]) {
		shared := true
		for _, u := range us[1:] {
			if AsSuper(u, sup.sym) == nil {
				shared = false
				break
			}
		}
		if shared {
			candidates = append(candidates, sup)
		}
	}
	// minimal erased candidates
	var mec []*ClassType
	for i, c := range candidates {
		minimal := true
		for j, d := range candidates {
			if i != j && !SameSymbol(c.sym, d.sym) && AsSuper(r.RawType(d.sym), c.sym) != nil {
				minimal = false
				break
			}
		}
		if minimal {
			mec = append(mec, c)
		}
	}
	if len(mec) == 0 {
		return r.Object()
	}

	parts := make([]Type, 0, len(mec))
	for _, g := range mec {
		parts = append(parts, r.lcp(g.sym, us, depth))
	}
	return r.Intersect(parts...)
}

func allSubtypeOf(us []Type, sup Type) bool {
	for _, u := range us {
		if !IsSubtypeNoInfer(u, sup) {
			return false
		}
	}
	return true
}

func arrayComponents(us []Type) ([]Type, bool) {
	comps := make([]Type, len(us))
	for i, u := range us {
		a, ok := u.(*ArrayType)
		if !ok || IsPrimitive(a.component) {
			return nil, false
		}
		comps[i] = a.component
	}
	return comps, true
}

func erasedSupertypes(t Type) []*ClassType {
	switch x := t.(type) {
	case *ClassType:
		sups := Supertypes(x)
		out := make([]*ClassType, len(sups))
		for i, s := range sups {
			out[i] = Erasure(s).(*ClassType)
		}
		return out
	case *ArrayType:
		return []*ClassType{x.reg.Object(), x.reg.Cloneable(), x.reg.Serializable()}
	case *TypeVar:
		return erasedSupertypes(x.UpperBound())
	case *Intersection:
		var out []*ClassType
		for _, c := range x.components {
			out = append(out, erasedSupertypes(c)...)
		}
		return out
	}
	return nil
}

// lcp is the least containing parameterization of g over the relevant
// parameterizations of every input.
func (r *Registry) lcp(g ClassSymbol, us []Type, depth int) Type {
	if !IsGeneric(g) {
		return r.RawType(g)
	}
	var rel []*ClassType
	for _, u := range us {
		sup := AsSuper(u, g)
		if sup == nil || len(sup.args) == 0 {
			return r.RawType(g)
		}
		rel = append(rel, sup)
	}
	args := append([]Type(nil), rel[0].args...)
	for _, p := range rel[1:] {
		for i := range args {
			args[i] = r.lcta(args[i], p.args[i], depth)
		}
	}
	return r.Parameterize(g, args)
}

func (r *Registry) lcta(a, b Type, depth int) Type {
	aw, aWild := a.(*Wildcard)
	bw, bWild := b.(*Wildcard)
	switch {
	case !aWild && !bWild:
		if Same(a, b) {
			return a
		}
		return r.extendsLub(a, b, depth)
	case !aWild:
		return r.lcta(b, a, depth)
	case aw.IsUnbounded():
		return aw
	case aw.upper && !bWild:
		return r.extendsLub(aw.bound, b, depth)
	case aw.upper && bw.upper:
		return r.extendsLub(aw.bound, bw.bound, depth)
	case !aw.upper && !bWild:
		return r.SuperWildcard(r.Glb(aw.bound, b))
	case !aw.upper && !bw.upper:
		return r.SuperWildcard(r.Glb(aw.bound, bw.bound))
	default:
		// one extends, one super
		if Same(aw.bound, bw.bound) {
			return aw.bound
		}
	}
	return r.UnboundedWildcard()
}

func (r *Registry) extendsLub(a, b Type, depth int) Type {
	if depth >= maxLubDepth {
		return r.UnboundedWildcard()
	}
	l := r.lub([]Type{a, b}, depth+1)
	if IsObject(l) {
		return r.UnboundedWildcard()
	}
	return r.ExtendsWildcard(l)
}
