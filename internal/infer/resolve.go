package infer

import (
	"fmt"
	"strings"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/trace"
	"jsema/internal/types"
)

// maxCandidateNotes caps the candidates listed under a resolution failure.
const maxCandidateNotes = 8

// phase is an applicability phase of JLS 15.12.2.
type phase uint8

const (
	phaseStrict phase = iota
	phaseLoose
	phaseVarargs
)

func (p phase) String() string {
	switch p {
	case phaseStrict:
		return "strict"
	case phaseLoose:
		return "loose"
	default:
		return "varargs"
	}
}

// resolver carries the state of one top-level resolution: the engine and
// the types of the lambda parameters and locals in scope.
type resolver struct {
	e   *Engine
	reg *types.Registry
	env *binding
}

type binding struct {
	name string
	typ  types.Type
	next *binding
}

// bind returns a resolver that also sees name with type t.
func (r *resolver) bind(name string, t types.Type) *resolver {
	sub := *r
	sub.env = &binding{name: name, typ: t, next: r.env}
	return &sub
}

func (r *resolver) lookup(name string) (types.Type, bool) {
	for b := r.env; b != nil; b = b.next {
		if b.name == name {
			return b.typ, true
		}
	}
	return nil, false
}

// candidate is a method found applicable in some phase, with the inference
// context its applicability check built.
type candidate struct {
	sig   *types.MethodSig
	view  *types.MethodSig
	phase phase
	ctx   *inferCtx
}

// selection is the outcome of overload selection.
type selection struct {
	chosen *candidate
	// rivals are the other maximally specific candidates of an ambiguous
	// invocation.
	rivals []*candidate
}

func (r *resolver) resolve(site *CallSite) *types.MethodSig {
	r.e.resolutions.Add(1)
	var span *trace.Span
	if r.e.tracer.Level() >= trace.LevelDebug {
		span = trace.Begin(r.e.tracer, trace.ScopeNode, "infer.resolve", 0)
		span.WithExtra("name", site.Name).WithExtra("args", fmt.Sprint(len(site.Args)))
	}

	sel := r.selectMethod(site)
	if sel.chosen == nil {
		r.fail(site)
		if span != nil {
			span.End("unresolved")
		}
		return r.reg.UnresolvedMethod()
	}
	if len(sel.rivals) > 0 {
		r.reportAmbiguous(site, sel)
	}

	sig, ok := r.finish(site, sel.chosen, site.Target)
	if !ok {
		// the target does not fit: type the invocation standalone
		trace.Point(r.e.tracer, trace.ScopeNode, "infer.retarget", site.Name)
		sig, ok = r.finish(site, r.selectMethod(site).chosen, nil)
	}
	if !ok {
		sig = r.reg.UnresolvedMethod()
		r.writeBack(site, sig, r.reg.Error)
	}
	if span != nil {
		span.End(sig.String())
	}
	return sig
}

// finish adds the target constraint, runs the deferred constraints and
// solves. On success the instantiated signature is written back with every
// deferred result. A nil target finishes even when the solution fails, with
// the unsolved variables grounded to ERROR.
func (r *resolver) finish(site *CallSite, c *candidate, target types.Type) (*types.MethodSig, bool) {
	if c == nil {
		return nil, false
	}
	ctx := c.ctx
	ret := site.resultType(c.view)
	if target != nil && !types.IsVoid(ret) && !types.IsVoid(target) {
		if !r.reg.IsConvertible(ret, target) && types.UncheckedConversionExists(ctx.partial(ret), target) == types.UncheckedNone {
			return nil, false
		}
	}
	ok := ctx.runJobs() && ctx.solve()
	if !ok && target != nil {
		return nil, false
	}
	if !ok && !site.Quiet {
		diag.ReportWarning(r.e.reporter, diag.InfUnsolvedVariable, site.Span,
			"cannot infer type arguments of "+c.sig.String()).Emit()
	}
	sig := r.finalSig(site, c)
	ctx.commit()
	r.writeBack(site, sig, site.resultTypeOf(sig))
	return sig, true
}

// finalSig instantiates the chosen candidate. An applicability check that
// needed an unchecked conversion erases the invocation type.
func (r *resolver) finalSig(site *CallSite, c *candidate) *types.MethodSig {
	sig := c.ctx.instantiated(c.view)
	if c.ctx.unchecked {
		sig = sig.Erasure()
		if !site.Quiet {
			diag.ReportWarning(r.e.reporter, diag.InfUncheckedConversion, site.Span,
				"unchecked method invocation: "+c.sig.String()).Emit()
		}
	}
	return AdaptGetClass(sig, site.Receiver)
}

func (site *CallSite) resultTypeOf(sig *types.MethodSig) types.Type {
	if site.result != nil {
		return site.result
	}
	return sig.ReturnType()
}

// fail records an invocation without applicable method: arguments are
// typed on their own so nested invocations still resolve, then the failure
// is reported unless the receiver already failed.
func (r *resolver) fail(site *CallSite) {
	r.e.unresolved.Add(1)
	for _, a := range site.Args {
		if a.ResolvedType() == nil {
			r.typeExpr(a, nil)
		}
	}
	r.writeBack(site, r.reg.UnresolvedMethod(), r.reg.Error)
	if site.Quiet || site.noReceiver {
		return
	}
	b := diag.ReportError(r.e.reporter, diag.InfNoApplicableMethod, site.Span,
		fmt.Sprintf("no applicable method for %s(%s)", site.displayName(), argList(site.Args)))
	for i, m := range site.Candidates {
		if i == maxCandidateNotes {
			b.WithNote(site.Span, fmt.Sprintf("and %d more", len(site.Candidates)-i))
			break
		}
		b.WithNote(site.Span, "candidate: "+m.String())
	}
	b.Emit()
}

func (r *resolver) reportAmbiguous(site *CallSite, sel selection) {
	r.e.ambiguous.Add(1)
	if site.Quiet {
		return
	}
	b := diag.ReportError(r.e.reporter, diag.InfAmbiguousMethod, site.Span,
		"ambiguous invocation of "+site.displayName())
	b.WithNote(site.Span, "chosen: "+sel.chosen.sig.String())
	for _, c := range sel.rivals {
		b.WithNote(site.Span, "also applicable: "+c.sig.String())
	}
	b.Emit()
}

func argList(args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = argLabel(a)
	}
	return strings.Join(parts, ", ")
}

func argLabel(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Lambda:
		return "<lambda>"
	case *ast.MethodRef:
		return "<method reference>"
	case *ast.Typed:
		if x.Type != nil {
			return x.Type.String()
		}
	}
	if t := x.ResolvedType(); t != nil {
		return t.String()
	}
	return "?"
}

// selectMethod runs the three applicability phases and picks the most
// specific method of the first phase that finds any.
func (r *resolver) selectMethod(site *CallSite) selection {
	var potential []*types.MethodSig
	for _, m := range site.Candidates {
		if r.isPotentiallyApplicable(m, site) {
			potential = append(potential, m)
		}
	}
	for p := phaseStrict; p <= phaseVarargs; p++ {
		var applicable []*candidate
		for _, m := range potential {
			if c := r.tryCandidate(site, m, p); c != nil {
				applicable = append(applicable, c)
			}
		}
		if len(applicable) > 0 {
			trace.Point(r.e.tracer, trace.ScopeNode, "infer.phase", site.Name+" "+p.String())
			return r.mostSpecific(site, applicable)
		}
	}
	return selection{}
}

func (r *resolver) isPotentiallyApplicable(m *types.MethodSig, site *CallSite) bool {
	n := len(site.Args)
	if n != m.Arity() && !(m.IsVarargs() && n >= m.Arity()-1) {
		return false
	}
	if len(site.TypeArgs) > 0 && m.IsGeneric() && len(site.TypeArgs) != len(m.TypeParameters()) {
		return false
	}
	formals := m.FormalParameters()
	expand := m.IsVarargs() && n != m.Arity()
	for i, a := range site.Args {
		if !r.isPotentiallyCompatible(m, a, formalAt(formals, i, expand)) {
			return false
		}
	}
	return true
}

// formalAt is the parameter type argument i is matched against; expand
// matches the trailing arguments with the varargs component.
func formalAt(formals []types.Type, i int, expand bool) types.Type {
	last := len(formals) - 1
	if last < 0 {
		return nil
	}
	if expand && i >= last {
		if arr, ok := formals[last].(*types.ArrayType); ok {
			return arr.Component()
		}
		return formals[last]
	}
	if i > last {
		return formals[last]
	}
	return formals[i]
}

// prepare views m through fresh inference variables for its type
// parameters, or through the explicit type arguments. A diamond also
// infers the class type arguments.
func (r *resolver) prepare(ctx *inferCtx, site *CallSite, m *types.MethodSig) *types.MethodSig {
	view := m
	if site.Diamond != nil && m.IsConstructor() {
		sym := site.Diamond.Symbol()
		s := ctx.freshVars(sym.TypeParameters(), types.EmptySubst)
		args := make([]types.Type, len(sym.TypeParameters()))
		for i, tv := range sym.TypeParameters() {
			args[i], _ = s.Lookup(tv)
		}
		view = m.WithOwner(r.reg.Parameterize(sym, args))
	}
	tparams := view.TypeParameters()
	if len(tparams) == 0 {
		return view
	}
	if len(site.TypeArgs) == len(tparams) {
		return view.Instantiate(types.NewSubst(tparams, site.TypeArgs))
	}
	return view.SubstAll(ctx.freshVars(tparams, types.EmptySubst))
}

// tryCandidate checks m for applicability in phase p and returns the
// candidate with its inference context, or nil.
func (r *resolver) tryCandidate(site *CallSite, m *types.MethodSig, p phase) *candidate {
	n := len(site.Args)
	expand := p == phaseVarargs
	if expand {
		if !m.IsVarargs() || n < m.Arity()-1 {
			return nil
		}
	} else if n != m.Arity() {
		return nil
	}
	ctx := newInferCtx(r.reg)
	view := r.prepare(ctx, site, m)
	formals := view.FormalParameters()
	declared := m.FormalParameters()
	for i, arg := range site.Args {
		f := formalAt(formals, i, expand)
		if !r.isPertinent(arg, m, formalAt(declared, i, expand), site) {
			r.deferArg(ctx, arg, f)
			continue
		}
		if !r.checkArg(ctx, arg, f, p) {
			return nil
		}
	}
	if !ctx.incorporate() {
		return nil
	}
	return &candidate{sig: m, view: view, phase: p, ctx: ctx}
}

// checkArg checks an argument pertinent to applicability against formal f.
func (r *resolver) checkArg(ctx *inferCtx, arg ast.Expr, f types.Type, p phase) bool {
	switch x := arg.(type) {
	case *ast.Lambda:
		return r.checkExplicitLambda(ctx, x, f)
	case *ast.MethodRef:
		return r.checkExactRef(ctx, x, f)
	case *ast.Conditional:
		if r.isPolyBranching(x.Then, x.Else) {
			r.typeExpr(x.Cond, r.reg.Boolean)
			if !r.checkArg(ctx, x.Then, f, p) || !r.checkArg(ctx, x.Else, f, p) {
				return false
			}
			ctx.commits = append(ctx.commits, func() { x.SetResolvedType(ctx.ground(f)) })
			return true
		}
	case *ast.Switch:
		if r.isPolyBranching(x.Results...) {
			if x.Selector != nil {
				r.standalone(x.Selector)
			}
			for _, res := range x.Results {
				if !r.checkArg(ctx, res, f, p) {
					return false
				}
			}
			ctx.commits = append(ctx.commits, func() { x.SetResolvedType(ctx.ground(f)) })
			return true
		}
	}
	return r.compatible(ctx, r.argType(ctx, arg), f, p)
}

// compatible checks an argument type against a formal in phase p. Strict
// invocation allows neither boxing nor unboxing.
func (r *resolver) compatible(ctx *inferCtx, t, f types.Type, p phase) bool {
	if t == nil || f == nil || types.IsErrorLike(t) || types.IsErrorLike(f) {
		return true
	}
	if types.IsVoid(t) {
		return false
	}
	var ok bool
	if p == phaseStrict {
		ok = types.IsPrimitive(t) == types.IsPrimitive(f) && types.IsSubtype(t, f)
	} else {
		ok = r.reg.IsConvertible(t, f)
	}
	if ok {
		return true
	}
	switch types.UncheckedConversionExists(t, ctx.partial(f)) {
	case types.UncheckedWarning:
		ctx.unchecked = true
		return true
	case types.UncheckedNoWarning:
		return true
	}
	return false
}

// argType types an argument for applicability. Nested invocations are
// selected without their target and their inference variables join ctx;
// everything else is typed standalone.
func (r *resolver) argType(ctx *inferCtx, arg ast.Expr) types.Type {
	switch x := arg.(type) {
	case *ast.MethodCall:
		if x.Method != nil && x.ResolvedType() != nil {
			return types.Capture(x.ResolvedType())
		}
		return r.partial(ctx, r.callSite(x))
	case *ast.New:
		if x.Method != nil && x.ResolvedType() != nil {
			return x.ResolvedType()
		}
		return r.partial(ctx, r.newSite(x))
	}
	t := r.standalone(arg)
	if t == nil {
		return r.reg.Error
	}
	return types.Capture(t)
}

// partial selects the method of a nested invocation and merges its
// inference into ctx. The result type keeps the nested variables free;
// write-back and diagnostics wait for the outer solution.
func (r *resolver) partial(ctx *inferCtx, site *CallSite) types.Type {
	sel := r.selectMethod(site)
	if sel.chosen == nil {
		ctx.commits = append(ctx.commits, func() { r.fail(site) })
		return r.reg.Error
	}
	c := sel.chosen
	ctx.absorb(c.ctx)
	ctx.commits = append(ctx.commits, func() {
		r.e.resolutions.Add(1)
		if len(sel.rivals) > 0 {
			r.reportAmbiguous(site, sel)
		}
		sig := r.finalSig(site, c)
		r.writeBack(site, sig, site.resultTypeOf(sig))
	})
	if c.ctx.unchecked {
		return types.Erasure(site.resultType(c.view))
	}
	return site.resultType(c.view)
}
