package infer

import (
	"jsema/internal/ast"
	"jsema/internal/types"
)

// mostSpecific picks among the applicable candidates of one phase (JLS
// 15.12.2.5). Several maximally specific candidates that are all
// override-equivalent resolve to a concrete one; otherwise the first is
// chosen and the rest are reported as rivals.
func (r *resolver) mostSpecific(site *CallSite, cs []*candidate) selection {
	if len(cs) == 1 {
		return selection{chosen: cs[0]}
	}
	var best []*candidate
	for _, c := range cs {
		maximal := true
		for _, o := range cs {
			if o == c {
				continue
			}
			if r.moreSpecific(site, o, c) && !r.moreSpecific(site, c, o) {
				maximal = false
				break
			}
		}
		if maximal {
			best = append(best, c)
		}
	}
	switch len(best) {
	case 0:
		best = cs
	case 1:
		return selection{chosen: best[0]}
	}
	if allOverrideEquivalent(best) {
		for _, c := range best {
			if !c.sig.IsAbstract() {
				return selection{chosen: c}
			}
		}
		return selection{chosen: best[0]}
	}
	return selection{chosen: best[0], rivals: best[1:]}
}

func allOverrideEquivalent(cs []*candidate) bool {
	for _, c := range cs[1:] {
		if !cs[0].sig.IsOverrideEquivalent(c.sig) {
			return false
		}
	}
	return true
}

// moreSpecific reports whether m1 is more specific than m2 for the
// arguments of site: each parameter type of m1 is a subtype of the
// corresponding one of m2, with m2's type parameters inferred. Lambda and
// method reference arguments compare function types instead.
func (r *resolver) moreSpecific(site *CallSite, m1, m2 *candidate) bool {
	k := len(site.Args)
	varargs := m1.phase == phaseVarargs
	n := k
	if varargs {
		n = max(k, m1.sig.Arity(), m2.sig.Arity())
	}
	s := expandFormals(m1.sig.FormalParameters(), n, varargs)
	ctx := newInferCtx(r.reg)
	view2 := m2.sig
	if m2.sig.IsGeneric() && len(site.TypeArgs) == 0 {
		view2 = m2.sig.SubstAll(ctx.freshVars(m2.sig.TypeParameters(), types.EmptySubst))
	}
	t := expandFormals(view2.FormalParameters(), n, varargs)
	if len(s) != len(t) {
		return false
	}
	for i := range s {
		var arg ast.Expr
		if i < k {
			arg = site.Args[i]
		}
		if !r.moreSpecificFormal(arg, s[i], t[i]) {
			return false
		}
	}
	return ctx.incorporate()
}

// expandFormals lists n parameter types; a varargs list repeats the
// component of its last parameter.
func expandFormals(formals []types.Type, n int, varargs bool) []types.Type {
	if !varargs {
		return formals
	}
	out := make([]types.Type, n)
	for i := range out {
		out[i] = formalAt(formals, i, true)
	}
	return out
}

func (r *resolver) moreSpecificFormal(arg ast.Expr, s, t types.Type) bool {
	if s == nil || t == nil {
		return false
	}
	if types.IsSubtype(s, t) {
		return true
	}
	switch arg.(type) {
	case *ast.Lambda, *ast.MethodRef:
	default:
		return false
	}
	if types.IsSubtypeNoInfer(types.Erasure(t), types.Erasure(s)) {
		return false
	}
	f1 := types.FindFunctionalInterfaceMethod(s)
	f2 := types.FindFunctionalInterfaceMethod(t)
	if f1 == nil || f2 == nil || f1.Arity() != f2.Arity() {
		return false
	}
	p1, p2 := f1.FormalParameters(), f2.FormalParameters()
	for i := range p1 {
		if !types.IsSameType(p1[i], p2[i]) {
			return false
		}
	}
	r1, r2 := f1.ReturnType(), f2.ReturnType()
	switch {
	case types.IsVoid(r2):
		return true
	case types.IsVoid(r1):
		return false
	case types.IsSubtype(r1, r2):
		return true
	case types.IsPrimitive(r1) && !types.IsPrimitive(r2):
		return r.primitiveResults(arg)
	case !types.IsPrimitive(r1) && types.IsPrimitive(r2):
		return !r.primitiveResults(arg)
	}
	return false
}

// primitiveResults reports a lambda whose results are all standalone
// expressions of primitive type, or an exact method reference with a
// primitive return.
func (r *resolver) primitiveResults(arg ast.Expr) bool {
	switch x := arg.(type) {
	case *ast.MethodRef:
		m := r.exactMethod(x)
		return m != nil && types.IsPrimitive(m.ReturnType())
	case *ast.Lambda:
		if !x.IsExplicitlyTyped() {
			return false
		}
		body := r
		for _, p := range x.Params {
			body = body.bind(p.Name, p.Type)
		}
		results := x.ResultExpressions()
		if len(results) == 0 {
			return false
		}
		for _, res := range results {
			if ast.IsPolyCapable(res) || !types.IsPrimitive(body.standalone(res)) {
				return false
			}
		}
		return true
	}
	return false
}
