package types

// Substitution is an immutable mapping from type or inference variables to
// types. The zero value is the empty mapping.
type Substitution struct {
	m map[SubstVar]Type
}

// EmptySubst maps nothing.
var EmptySubst = Substitution{}

// NewSubst maps from[i] to to[i]. Extra entries on either side are ignored.
func NewSubst(from []*TypeVar, to []Type) Substitution {
	n := min(len(from), len(to))
	if n == 0 {
		return EmptySubst
	}
	m := make(map[SubstVar]Type, n)
	for i := 0; i < n; i++ {
		if to[i] != nil && to[i] != Type(from[i]) {
			m[from[i]] = to[i]
		}
	}
	return Substitution{m: m}
}

// IsEmpty reports a mapping with no entry.
func (s Substitution) IsEmpty() bool { return len(s.m) == 0 }

// Len is the number of entries.
func (s Substitution) Len() int { return len(s.m) }

// Lookup returns the replacement of v.
func (s Substitution) Lookup(v SubstVar) (Type, bool) {
	t, ok := s.m[v]
	return t, ok
}

// Plus returns a copy with v mapped to t.
func (s Substitution) Plus(v SubstVar, t Type) Substitution {
	m := make(map[SubstVar]Type, len(s.m)+1)
	for k, x := range s.m {
		m[k] = x
	}
	m[v] = t
	return Substitution{m: m}
}

// AndThen composes: applying the result equals applying s, then next.
func (s Substitution) AndThen(next Substitution) Substitution {
	if next.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return next
	}
	m := make(map[SubstVar]Type, len(s.m)+len(next.m))
	for k, x := range s.m {
		m[k] = Subst(x, next)
	}
	for k, x := range next.m {
		if _, done := m[k]; !done {
			m[k] = x
		}
	}
	return Substitution{m: m}
}

// Domain lists the mapped variables in no particular order.
func (s Substitution) Domain() []SubstVar {
	out := make([]SubstVar, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	return out
}

// Subst applies s to t. When no variable of the mapping's domain occurs in t,
// t itself is returned.
func Subst(t Type, s Substitution) Type {
	if t == nil || s.IsEmpty() {
		return t
	}
	return subst(t, s)
}

func subst(t Type, s Substitution) Type {
	switch x := t.(type) {
	case *TypeVar:
		if r, ok := s.m[x]; ok {
			return r
		}
		return x
	case *InferenceVar:
		if r, ok := s.m[x]; ok {
			return r
		}
		return x
	case *ClassType:
		if c := substClass(x, s); c != nil {
			return c
		}
		return x
	case *ArrayType:
		comp := subst(x.component, s)
		if comp == x.component {
			return x
		}
		return x.reg.Array(comp)
	case *Wildcard:
		b := subst(x.bound, s)
		if b == x.bound {
			return x
		}
		return &Wildcard{upper: x.upper, bound: b}
	case *Intersection:
		comps, changed := substList(x.components, s)
		if !changed {
			return x
		}
		return x.sym.Registry().Intersect(comps...)
	default:
		return t
	}
}

// substClass returns nil when nothing changed.
func substClass(ct *ClassType, s Substitution) *ClassType {
	args, changed := substList(ct.args, s)
	encl := ct.enclosing
	if encl != nil {
		if e := substClass(encl, s); e != nil {
			encl = e
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return &ClassType{sym: ct.sym, args: args, enclosing: encl}
}

func substList(ts []Type, s Substitution) ([]Type, bool) {
	var out []Type
	for i, t := range ts {
		r := subst(t, s)
		if r != t && out == nil {
			out = make([]Type, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out[i] = r
		}
	}
	if out == nil {
		return ts, false
	}
	return out, true
}

// SubstAll applies s to every element, sharing the slice when unchanged.
func SubstAll(ts []Type, s Substitution) []Type {
	if s.IsEmpty() {
		return ts
	}
	out, _ := substList(ts, s)
	return out
}

// SubstClassType applies s to a class type.
func SubstClassType(ct *ClassType, s Substitution) *ClassType {
	if ct == nil || s.IsEmpty() {
		return ct
	}
	if c := substClass(ct, s); c != nil {
		return c
	}
	return ct
}

// TypeParamSubst maps the type parameters of ct's declaration (and of its
// enclosing types) to ct's arguments. Raw types map nothing.
func TypeParamSubst(ct *ClassType) Substitution {
	var s Substitution
	for c := ct; c != nil; c = c.enclosing {
		if len(c.args) == 0 {
			continue
		}
		params := c.sym.TypeParameters()
		if len(params) != len(c.args) {
			continue
		}
		if s.m == nil {
			s.m = make(map[SubstVar]Type, len(params))
		}
		for i, p := range params {
			if _, shadowed := s.m[p]; !shadowed && c.args[i] != Type(p) {
				s.m[p] = c.args[i]
			}
		}
	}
	return s
}

// MentionsAny reports whether t mentions one of vars.
func MentionsAny(t Type, vars []SubstVar) bool {
	if len(vars) == 0 || t == nil {
		return false
	}
	set := make(map[SubstVar]struct{}, len(vars))
	for _, v := range vars {
		set[v] = struct{}{}
	}
	return mentions(t, set, nil)
}

// TypeVarsOf converts declared type parameters to substitution keys.
func TypeVarsOf(params []*TypeVar) []SubstVar {
	out := make([]SubstVar, len(params))
	for i, p := range params {
		out[i] = p
	}
	return out
}

func mentions(t Type, set map[SubstVar]struct{}, seen map[*TypeVar]bool) bool {
	switch x := t.(type) {
	case *TypeVar:
		if _, ok := set[x]; ok {
			return true
		}
		if x.IsCaptured() {
			if seen[x] {
				return false
			}
			if seen == nil {
				seen = make(map[*TypeVar]bool)
			}
			seen[x] = true
			return mentions(x.UpperBound(), set, seen) || mentions(x.LowerBound(), set, seen)
		}
		return false
	case *InferenceVar:
		_, ok := set[x]
		return ok
	case *ClassType:
		for _, a := range x.args {
			if mentions(a, set, seen) {
				return true
			}
		}
		return x.enclosing != nil && mentions(x.enclosing, set, seen)
	case *ArrayType:
		return mentions(x.component, set, seen)
	case *Wildcard:
		return mentions(x.bound, set, seen)
	case *Intersection:
		for _, c := range x.components {
			if mentions(c, set, seen) {
				return true
			}
		}
	}
	return false
}

// FreeInferenceVars collects the inference variables occurring in t.
func FreeInferenceVars(t Type) []*InferenceVar {
	var out []*InferenceVar
	var walk func(Type)
	walk = func(t Type) {
		switch x := t.(type) {
		case *InferenceVar:
			for _, v := range out {
				if v == x {
					return
				}
			}
			out = append(out, x)
		case *ClassType:
			for _, a := range x.args {
				walk(a)
			}
			if x.enclosing != nil {
				walk(x.enclosing)
			}
		case *ArrayType:
			walk(x.component)
		case *Wildcard:
			walk(x.bound)
		case *Intersection:
			for _, c := range x.components {
				walk(c)
			}
		}
	}
	walk(t)
	return out
}
