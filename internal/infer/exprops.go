package infer

import (
	"jsema/internal/ast"
	"jsema/internal/trace"
	"jsema/internal/types"
)

// AdaptGetClass gives Object.getClass() its special result type:
// Class<? extends |E|> where E is the erased receiver type. Other methods
// pass through.
func AdaptGetClass(m *types.MethodSig, erasedReceiver types.Type) *types.MethodSig {
	if m == nil || erasedReceiver == nil || m.Name() != "getClass" || m.Arity() != 0 {
		return m
	}
	owner := m.Symbol().EnclosingClass()
	if owner == nil || owner.BinaryName() != "java.lang.Object" {
		return m
	}
	if !types.IsReference(erasedReceiver) || types.IsErrorLike(erasedReceiver) {
		return m
	}
	reg := owner.Registry()
	return m.WithReturnType(reg.ClassOf(reg.ExtendsWildcard(types.Erasure(erasedReceiver))))
}

func (r *resolver) isPotentiallyCompatible(m *types.MethodSig, arg ast.Expr, formal types.Type) bool {
	switch x := arg.(type) {
	case *ast.Conditional:
		return r.isPotentiallyCompatible(m, x.Then, formal) && r.isPotentiallyCompatible(m, x.Else, formal)
	case *ast.Switch:
		for _, res := range x.Results {
			if !r.isPotentiallyCompatible(m, res, formal) {
				return false
			}
		}
		return true
	case *ast.Lambda, *ast.MethodRef:
		switch f := formal.(type) {
		case *types.TypeVar:
			return isTypeParamOf(m, f, nil)
		case *types.ClassType:
			fun := types.FindFunctionalInterfaceMethod(f)
			if fun == nil {
				return false
			}
			lam, ok := arg.(*ast.Lambda)
			if !ok {
				return true
			}
			if fun.Arity() != lam.Arity() {
				return false
			}
			if types.IsVoid(fun.ReturnType()) {
				return lam.IsVoidCompatible()
			}
			return lam.IsValueCompatible()
		case nil:
			return false
		}
	}
	return true
}

// isTypeParamOf reports a type parameter of m, or of the class a diamond
// infers.
func isTypeParamOf(m *types.MethodSig, t types.Type, diamond *types.ClassType) bool {
	tv, ok := t.(*types.TypeVar)
	if !ok {
		return false
	}
	for _, p := range m.TypeParameters() {
		if p == tv {
			return true
		}
	}
	if diamond != nil {
		for _, p := range diamond.Symbol().TypeParameters() {
			if p == tv {
				return true
			}
		}
	}
	return false
}

// isPertinent implements JLS 15.12.2.2: implicitly typed lambdas, inexact
// method references and explicitly typed lambdas targeting a type
// parameter of a generic method are typed after applicability.
func (r *resolver) isPertinent(arg ast.Expr, m *types.MethodSig, formal types.Type, site *CallSite) bool {
	switch x := arg.(type) {
	case *ast.Lambda:
		if !x.IsExplicitlyTyped() {
			return false
		}
		for _, res := range x.ResultExpressions() {
			if !r.isPertinent(res, m, formal, site) {
				return false
			}
		}
		return !r.targetsTypeParam(m, formal, site)
	case *ast.MethodRef:
		if r.exactMethod(x) == nil {
			return false
		}
		return !r.targetsTypeParam(m, formal, site)
	case *ast.Conditional:
		return r.isPertinent(x.Then, m, formal, site) && r.isPertinent(x.Else, m, formal, site)
	case *ast.Switch:
		for _, res := range x.Results {
			if !r.isPertinent(res, m, formal, site) {
				return false
			}
		}
	}
	return true
}

func (r *resolver) targetsTypeParam(m *types.MethodSig, formal types.Type, site *CallSite) bool {
	if site != nil && len(site.TypeArgs) > 0 {
		return false
	}
	var diamond *types.ClassType
	if site != nil {
		diamond = site.Diamond
	}
	return isTypeParamOf(m, formal, diamond)
}

// typeToSearch is the type whose members a method reference names.
func (r *resolver) typeToSearch(ref *ast.MethodRef) types.Type {
	var t types.Type
	if ref.QualifierType != nil {
		t = ref.QualifierType
	} else if ref.Receiver != nil {
		t = r.standalone(ref.Receiver)
	}
	if t == nil || types.IsErrorLike(t) {
		return nil
	}
	return types.Capture(t)
}

// exactMethod returns the cached exact method of ref, computing it once.
func (r *resolver) exactMethod(ref *ast.MethodRef) *types.MethodSig {
	switch m, state := ref.Exact.Get(); state {
	case types.ComputedSome:
		return m
	case types.ComputedNone:
		return nil
	}
	m := r.computeExact(ref)
	if m == nil {
		ref.Exact.SetNone()
	} else {
		ref.Exact.SetSome(m)
	}
	return m
}

// computeExact implements JLS 15.13.1: a reference is exact when the type
// to search has exactly one accessible member of that name, which is not
// varargs and not generic unless type arguments are given.
func (r *resolver) computeExact(ref *ast.MethodRef) *types.MethodSig {
	r.e.exactSearches.Add(1)
	var search types.Type
	var found []*types.MethodSig
	if ref.IsConstructorRef() {
		switch lhs := ref.QualifierType.(type) {
		case *types.ArrayType:
			if !types.IsReifiable(lhs) {
				return nil
			}
			return types.ArrayConstructor(lhs)
		case *types.ClassType:
			if lhs.IsRaw() || lhs.Symbol().IsUnresolved() {
				return nil
			}
			search = lhs
			found = accessible(types.Constructors(lhs), ref.Context)
		default:
			return nil
		}
	} else {
		search = r.typeToSearch(ref)
		if search == nil {
			return nil
		}
		found = types.OverloadSet(types.StreamMethods(search, types.AccessibleMethodFilter(ref.Name, ref.Context)))
	}
	if len(found) != 1 {
		return nil
	}
	m := found[0]
	if m.IsVarargs() {
		return nil
	}
	if m.IsGeneric() {
		if len(ref.TypeArgs) != len(m.TypeParameters()) {
			return nil
		}
		m = m.Instantiate(types.NewSubst(m.TypeParameters(), ref.TypeArgs))
	}
	if lhs, ok := ref.QualifierType.(*types.ClassType); ok && lhs.IsRaw() && !m.IsStatic() {
		// a raw qualifier is exact only when erasure changes nothing
		decl := types.NewMethodSig(m.Symbol(), nil)
		owner := m.Symbol().EnclosingClass()
		vars := types.TypeVarsOf(owner.TypeParameters())
		if len(vars) > 0 {
			for _, f := range decl.FormalParameters() {
				if types.MentionsAny(f, vars) {
					return nil
				}
			}
			if types.MentionsAny(decl.ReturnType(), vars) {
				return nil
			}
		}
	}
	trace.Point(r.e.tracer, trace.ScopeNode, "infer.exact", ref.Name)
	return AdaptGetClass(m, types.Erasure(search))
}

// compileTimeDecl finds the compile-time declaration of ref for a function
// type with the given parameters (JLS 15.13.1). ret, when proper, is the
// target of the search. A ClassType::name reference searches twice: with
// all parameters, then with the first taken as receiver; a static result
// of the first search or an instance result of the second wins. Any other
// reference searches once and accepts only an instance method.
func (r *resolver) compileTimeDecl(ref *ast.MethodRef, params []types.Type, ret types.Type) *types.MethodSig {
	_, qualifiedByClass := ref.QualifierType.(*types.ClassType)
	acceptLowerArity := qualifiedByClass && !ref.IsConstructorRef()

	m1 := r.resolve(r.refSite(ref, params, ret, false))
	unresolved := r.reg.IsUnresolvedMethod
	if !acceptLowerArity {
		// expr::name never binds a static method; constructors are never static
		if unresolved(m1) || m1.IsStatic() {
			return nil
		}
		return m1
	}
	var m2 *types.MethodSig
	if len(params) > 0 {
		m2 = r.resolve(r.refSite(ref, params, ret, true))
	} else {
		m2 = r.reg.UnresolvedMethod()
	}
	switch {
	case !unresolved(m1) && m1.IsStatic() && (unresolved(m2) || m2.IsStatic()):
		return m1
	case !unresolved(m2) && !m2.IsStatic() && (unresolved(m1) || !m1.IsStatic()):
		return m2
	}
	return nil
}

// refSite builds the invocation a method reference stands for. With
// asInstance the first parameter is the receiver.
func (r *resolver) refSite(ref *ast.MethodRef, params []types.Type, ret types.Type, asInstance bool) *CallSite {
	args := params
	if asInstance && len(args) > 0 {
		args = args[1:]
	}
	exprs := make([]ast.Expr, len(args))
	for i, a := range args {
		exprs[i] = &ast.Typed{ExprBase: ast.ExprBase{Pos: ref.Span()}, Type: a}
	}
	site := &CallSite{
		Name:     ref.Name,
		Span:     ref.Span(),
		Args:     exprs,
		TypeArgs: ref.TypeArgs,
		Context:  ref.Context,
		Target:   ret,
		Quiet:    true,
	}
	if ref.IsConstructorRef() {
		site.Name = "<init>"
	}
	search := r.typeToSearch(ref)
	if search == nil {
		site.noReceiver = true
		return site
	}
	site.Receiver = types.Erasure(search)

	if exact := r.exactMethod(ref); exact != nil {
		site.Candidates = []*types.MethodSig{exact}
		return site
	}
	switch s := search.(type) {
	case *types.ArrayType:
		if ref.IsConstructorRef() {
			if c := types.ArrayConstructor(s); c != nil {
				site.Candidates = []*types.MethodSig{c}
			}
			return site
		}
	case *types.ClassType:
		if ref.IsConstructorRef() {
			owner := s
			if s.IsRaw() {
				// C::new with a generic C infers like new C<>(...)
				site.Diamond = r.reg.Declaration(s.Symbol())
				owner = site.Diamond
			}
			site.Candidates = accessible(types.Constructors(owner), ref.Context)
			return site
		}
		if asInstance && s.IsRaw() && len(params) > 0 {
			if sup := types.AsSuper(params[0], s.Symbol()); sup != nil && sup.IsParameterized() {
				search = types.Capture(sup)
			}
		}
	}
	site.Candidates = types.OverloadSet(types.StreamMethods(search, types.AccessibleMethodFilter(ref.Name, ref.Context)))
	return site
}
