package types

// MethodFilter selects signatures during member lookup.
type MethodFilter func(*MethodSig) bool

// AccessibleMethodFilter keeps methods named name that are accessible from
// the given class.
func AccessibleMethodFilter(name string, from ClassSymbol) MethodFilter {
	return func(m *MethodSig) bool {
		return m.Name() == name && m.IsAccessible(from)
	}
}

// StreamMethods lists the methods of t and of all its supertypes that pass
// filter, each viewed through the corresponding parameterization of its
// declaring class. Nearer declarations come first. Overridden methods are
// not removed; see OverloadSet.
func StreamMethods(t Type, filter MethodFilter) []*MethodSig {
	var out []*MethodSig
	for _, owner := range memberOwners(t) {
		for _, sym := range owner.sym.DeclaredMethods() {
			sig := newMethodSig(sym, owner, TypeParamSubst(owner))
			if filter == nil || filter(sig) {
				out = append(out, sig)
			}
		}
	}
	if arr, ok := t.(*ArrayType); ok {
		// T[].clone() returns T[]
		for i, m := range out {
			if m.Name() == "clone" && m.Arity() == 0 && m.sym.EnclosingClass().IsArray() {
				out[i] = m.WithReturnType(arr)
			}
		}
	}
	return out
}

func memberOwners(t Type) []*ClassType {
	switch x := t.(type) {
	case *ClassType:
		return Supertypes(x)
	case *ArrayType:
		sym := x.Symbol()
		if sym == nil {
			return nil
		}
		reg := x.reg
		owners := []*ClassType{{sym: sym}}
		return append(owners, Supertypes(reg.Object())...)
	case *TypeVar:
		return memberOwners(x.UpperBound())
	case *Intersection:
		var out []*ClassType
		seen := map[string]bool{}
		for _, c := range x.components {
			for _, o := range memberOwners(c) {
				if !seen[o.sym.BinaryName()] {
					seen[o.sym.BinaryName()] = true
					out = append(out, o)
				}
			}
		}
		return out
	case *InferenceVar:
		if x.inst != nil {
			return memberOwners(x.inst)
		}
	}
	return nil
}

// OverloadSet removes from sigs every method overridden by or
// override-equivalent to an earlier one. StreamMethods order makes the most
// specific declaration win.
func OverloadSet(sigs []*MethodSig) []*MethodSig {
	out := make([]*MethodSig, 0, len(sigs))
	for _, m := range sigs {
		hidden := false
		for i, k := range out {
			if !k.IsOverrideEquivalent(m) {
				continue
			}
			hidden = true
			// a concrete method beats an abstract one from an unrelated interface
			if k.IsAbstract() && !m.IsAbstract() && !m.sym.EnclosingClass().IsInterface() {
				out[i] = m
			}
			break
		}
		if !hidden {
			out = append(out, m)
		}
	}
	return out
}

// Constructors returns the constructors of a class type viewed through its
// arguments.
func Constructors(t *ClassType) []*MethodSig {
	ctors := t.sym.Constructors()
	out := make([]*MethodSig, 0, len(ctors))
	for _, c := range ctors {
		out = append(out, newMethodSig(c, t, TypeParamSubst(t)))
	}
	return out
}

// ArrayConstructor is the function type of T[]::new, int -> T[]. Nil for
// arrays without a symbol.
func ArrayConstructor(arr *ArrayType) *MethodSig {
	sym := arr.Symbol()
	if sym == nil {
		return nil
	}
	m := &synthMethod{
		owner:  sym,
		name:   "new",
		mods:   ModPublic,
		params: []Type{arr.reg.Int},
		ret:    func() Type { return arr },
	}
	return newMethodSig(m, &ClassType{sym: sym}, EmptySubst)
}

// FindField looks name up in t and its supertypes and returns the field and
// its type as seen from t.
func FindField(t Type, name string) (FieldSymbol, Type) {
	for _, owner := range memberOwners(t) {
		for _, f := range owner.sym.DeclaredFields() {
			if f.SimpleName() != name {
				continue
			}
			if owner.IsRaw() && !IsStatic(f) {
				return f, Erasure(f.Type(EmptySubst))
			}
			return f, f.Type(TypeParamSubst(owner))
		}
	}
	return nil, nil
}

// NonWildcardParameterization derives the function-type parameterization of
// a wildcard-parameterized functional interface (JLS 9.9). It returns nil
// when a wildcard's declared bound mentions the type parameters.
func NonWildcardParameterization(ct *ClassType) *ClassType {
	if !HasWildcardArgs(ct) {
		return ct
	}
	params := ct.sym.TypeParameters()
	if len(params) != len(ct.args) {
		return nil
	}
	reg := ct.sym.Registry()
	vars := TypeVarsOf(params)
	args := make([]Type, len(ct.args))
	for i, a := range ct.args {
		w, ok := a.(*Wildcard)
		if !ok {
			args[i] = a
			continue
		}
		bound := params[i].UpperBound()
		switch {
		case w.IsUnbounded():
			if MentionsAny(bound, vars) {
				return nil
			}
			args[i] = bound
		case w.upper:
			if MentionsAny(bound, vars) {
				return nil
			}
			args[i] = reg.Glb(w.bound, bound)
		default:
			args[i] = w.bound
		}
	}
	return &ClassType{sym: ct.sym, args: args, enclosing: ct.enclosing}
}

// FindFunctionalInterfaceMethod returns the single abstract method of a
// functional interface type, viewed through its non-wildcard
// parameterization. Nil when t is not a functional interface.
func FindFunctionalInterfaceMethod(t Type) *MethodSig {
	switch x := t.(type) {
	case *ClassType:
		if !x.sym.IsInterface() || x.sym.IsAnnotation() {
			return nil
		}
		nw := NonWildcardParameterization(x)
		if nw == nil {
			return nil
		}
		return singleAbstractMethod(nw)
	case *Intersection:
		var found *MethodSig
		for _, c := range x.components {
			if m := FindFunctionalInterfaceMethod(c); m != nil {
				if found != nil {
					return nil
				}
				found = m
			}
		}
		return found
	}
	return nil
}

// IsFunctionalInterface reports whether t has a function type.
func IsFunctionalInterface(t Type) bool {
	return FindFunctionalInterfaceMethod(t) != nil
}

func singleAbstractMethod(t *ClassType) *MethodSig {
	all := OverloadSet(StreamMethods(t, func(m *MethodSig) bool {
		return !m.IsStatic() && !overridesPublicObjectMethod(m)
	}))
	var found *MethodSig
	for _, m := range all {
		if !m.IsAbstract() || !m.sym.EnclosingClass().IsInterface() {
			// methods of Object and friends are never the function type
			continue
		}
		if found != nil && !found.IsOverrideEquivalent(m) {
			return nil
		}
		if found == nil {
			found = m
		}
	}
	return found
}

func overridesPublicObjectMethod(m *MethodSig) bool {
	switch m.Name() {
	case "equals":
		if m.Arity() != 1 {
			return false
		}
		return IsObject(Erasure(m.sym.FormalParameterTypes(EmptySubst)[0]))
	case "hashCode", "toString":
		return m.Arity() == 0
	}
	return false
}
