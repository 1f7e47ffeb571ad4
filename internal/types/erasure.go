package types

// RegistryOf finds the registry a type belongs to. Nil only for wildcards
// and intersections with no reachable owner, which do not occur in practice.
func RegistryOf(t Type) *Registry {
	switch x := t.(type) {
	case *Primitive:
		return x.reg
	case *Sentinel:
		return x.reg
	case *ClassType:
		return x.sym.Registry()
	case *ArrayType:
		return x.reg
	case *TypeVar:
		if x.param != nil {
			return x.param.owner.Registry()
		}
		return x.reg
	case *InferenceVar:
		return x.reg
	case *Wildcard:
		return RegistryOf(x.bound)
	case *Intersection:
		return x.sym.Registry()
	}
	return nil
}

// Erasure computes |t| (JLS 4.6): type arguments dropped, type variables
// replaced by the erasure of their leftmost bound.
func Erasure(t Type) Type {
	return erase(t, 0)
}

const maxBoundDepth = 32

func erase(t Type, depth int) Type {
	if depth > maxBoundDepth {
		return RegistryOf(t).Object()
	}
	switch x := t.(type) {
	case *ClassType:
		if len(x.args) == 0 && x.enclosing == nil {
			return x
		}
		ct := &ClassType{sym: x.sym}
		if x.enclosing != nil {
			ct.enclosing = erase(x.enclosing, depth).(*ClassType)
		}
		return ct
	case *ArrayType:
		comp := erase(x.component, depth)
		if comp == x.component {
			return x
		}
		return x.reg.Array(comp)
	case *TypeVar:
		return erase(x.UpperBound(), depth+1)
	case *Intersection:
		return erase(x.components[0], depth)
	case *Wildcard:
		if x.upper {
			return erase(x.bound, depth)
		}
		return RegistryOf(x.bound).Object()
	case *InferenceVar:
		if x.inst != nil {
			return erase(x.inst, depth+1)
		}
		return x.reg.Object()
	}
	return t
}

// ErasedClass returns the erasure as a class type, nil for primitives,
// arrays and sentinels.
func ErasedClass(t Type) *ClassType {
	ct, _ := Erasure(t).(*ClassType)
	return ct
}

// IsReifiable reports a type fully available at run time (JLS 4.7).
func IsReifiable(t Type) bool {
	switch x := t.(type) {
	case *Primitive:
		return true
	case *ClassType:
		if x.IsRaw() {
			return true
		}
		for _, a := range x.args {
			w, ok := a.(*Wildcard)
			if !ok || !w.IsUnbounded() {
				return false
			}
		}
		return x.enclosing == nil || IsReifiable(x.enclosing)
	case *ArrayType:
		return IsReifiable(x.component)
	}
	return false
}

// IsUnboundedWildcardParameterization reports C<?, ..., ?>.
func IsUnboundedWildcardParameterization(ct *ClassType) bool {
	if len(ct.args) == 0 {
		return false
	}
	for _, a := range ct.args {
		w, ok := a.(*Wildcard)
		if !ok || !w.IsUnbounded() {
			return false
		}
	}
	return true
}

// HasWildcardArgs reports whether some type argument of ct is a wildcard.
func HasWildcardArgs(ct *ClassType) bool {
	for _, a := range ct.args {
		if _, ok := a.(*Wildcard); ok {
			return true
		}
	}
	return false
}

// DirectSupertypes returns the superclass and superinterfaces of ct with the
// type arguments of ct substituted. Supertypes of raw types are erased.
// Interfaces and classes without a superclass report Object.
func DirectSupertypes(ct *ClassType) []*ClassType {
	sym := ct.sym
	reg := sym.Registry()
	raw := ct.IsRaw()
	s := EmptySubst
	if !raw {
		s = TypeParamSubst(ct)
	}
	var out []*ClassType
	super := sym.SuperclassType(s)
	if super == nil && !IsObject(ct) && !sym.IsPrimitive() {
		super = reg.Object()
	}
	if super != nil {
		out = append(out, super)
	}
	out = append(out, sym.SuperInterfaceTypes(s)...)
	if raw {
		for i, t := range out {
			out[i] = Erasure(t).(*ClassType)
		}
	}
	return out
}

// AsSuper returns the parameterization of sym among the supertypes of t,
// or nil when sym is not a supertype of t.
func AsSuper(t Type, sym ClassSymbol) *ClassType {
	return asSuper(t, sym, map[string]bool{}, 0)
}

func asSuper(t Type, sym ClassSymbol, visited map[string]bool, depth int) *ClassType {
	if depth > maxBoundDepth {
		return nil
	}
	switch x := t.(type) {
	case *ClassType:
		if SameSymbol(x.sym, sym) {
			return x
		}
		key := x.sym.BinaryName()
		if visited[key] {
			return nil
		}
		visited[key] = true
		for _, sup := range DirectSupertypes(x) {
			if r := asSuper(sup, sym, visited, depth+1); r != nil {
				return r
			}
		}
	case *TypeVar:
		return asSuper(x.UpperBound(), sym, visited, depth+1)
	case *Intersection:
		for _, c := range x.components {
			if r := asSuper(c, sym, visited, depth+1); r != nil {
				return r
			}
		}
	case *ArrayType:
		reg := x.reg
		for _, sup := range []*ClassType{reg.Object(), reg.Cloneable(), reg.Serializable()} {
			if SameSymbol(sup.sym, sym) {
				return sup
			}
		}
	case *InferenceVar:
		if x.inst != nil {
			return asSuper(x.inst, sym, visited, depth+1)
		}
	}
	return nil
}

// Supertypes lists t and all its class supertypes, each once, nearest
// first.
func Supertypes(t *ClassType) []*ClassType {
	var out []*ClassType
	seen := map[string]bool{}
	queue := []*ClassType{t}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		key := c.sym.BinaryName()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		queue = append(queue, DirectSupertypes(c)...)
	}
	return out
}
