package infer

import (
	"fmt"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/types"
)

// checkExplicitLambda checks an explicitly typed lambda for applicability:
// its parameter types must equal those of the function type and its result
// expressions must be compatible with the function's return type.
func (r *resolver) checkExplicitLambda(ctx *inferCtx, lam *ast.Lambda, f types.Type) bool {
	fun := types.FindFunctionalInterfaceMethod(ctx.partial(f))
	if fun == nil || fun.Arity() != lam.Arity() {
		return false
	}
	params := fun.FormalParameters()
	body := r
	for i, p := range lam.Params {
		if !types.IsSameType(p.Type, params[i]) {
			return false
		}
		body = body.bind(p.Name, p.Type)
	}
	ret := fun.ReturnType()
	if types.IsVoid(ret) {
		if !lam.IsVoidCompatible() {
			return false
		}
	} else {
		if !lam.IsValueCompatible() {
			return false
		}
		body = body.declareLocals(lam)
		for _, res := range lam.ResultExpressions() {
			// returns are assignment contexts whatever the phase
			if !body.checkArg(ctx, res, ret, phaseLoose) {
				return false
			}
		}
	}
	r.deferArg(ctx, lam, f)
	return true
}

// checkExactRef checks an exact method reference for applicability
// against the function type of f (JLS 15.12.2.2).
func (r *resolver) checkExactRef(ctx *inferCtx, ref *ast.MethodRef, f types.Type) bool {
	fun := types.FindFunctionalInterfaceMethod(ctx.partial(f))
	if fun == nil {
		return false
	}
	exact := r.exactMethod(ref)
	params := fun.FormalParameters()
	eparams := exact.FormalParameters()
	switch {
	case len(params) == len(eparams):
	case len(params) == len(eparams)+1 && ref.QualifierType != nil && !exact.IsStatic() && !ref.IsConstructorRef():
		// ReferenceType::m with an unbound receiver
		if !types.IsSubtype(params[0], ref.QualifierType) {
			return false
		}
		params = params[1:]
	default:
		return false
	}
	for i := range params {
		if !r.compatible(ctx, params[i], eparams[i], phaseLoose) {
			return false
		}
	}
	if ret := fun.ReturnType(); !types.IsVoid(ret) {
		rt := exact.ReturnType()
		if types.IsVoid(rt) {
			return false
		}
		if !r.compatible(ctx, types.Capture(rt), ret, phaseLoose) {
			return false
		}
	}
	r.deferArg(ctx, ref, f)
	return true
}

// deferArg registers the typing of an argument that waits for inference:
// lambdas and method references, branches of poly conditionals and
// switches, and plain expressions found under them.
func (r *resolver) deferArg(ctx *inferCtx, arg ast.Expr, f types.Type) {
	switch x := arg.(type) {
	case *ast.Lambda:
		ctx.jobs = append(ctx.jobs, func(ctx *inferCtx) bool { return r.lambdaJob(ctx, x, f) })
	case *ast.MethodRef:
		ctx.jobs = append(ctx.jobs, func(ctx *inferCtx) bool { return r.methodRefJob(ctx, x, f) })
	case *ast.Conditional:
		r.typeExpr(x.Cond, r.reg.Boolean)
		r.deferArg(ctx, x.Then, f)
		r.deferArg(ctx, x.Else, f)
		ctx.commits = append(ctx.commits, func() { x.SetResolvedType(ctx.ground(f)) })
	case *ast.Switch:
		if x.Selector != nil {
			r.standalone(x.Selector)
		}
		for _, res := range x.Results {
			r.deferArg(ctx, res, f)
		}
		ctx.commits = append(ctx.commits, func() { x.SetResolvedType(ctx.ground(f)) })
	default:
		ctx.jobs = append(ctx.jobs, func(ctx *inferCtx) bool {
			return r.compatible(ctx, r.argType(ctx, x), f, phaseLoose)
		})
	}
}

// functionalTarget solves a bare inference variable standing for a
// function type, since its function type is needed to go on.
func (r *resolver) functionalTarget(ctx *inferCtx, f types.Type) types.Type {
	f = ctx.partial(f)
	if iv, ok := f.(*types.InferenceVar); ok {
		ctx.solveVars([]*types.InferenceVar{iv})
		return ctx.partial(iv)
	}
	return f
}

func (r *resolver) reportAt(x ast.Expr, code diag.Code, msg string) {
	diag.ReportError(r.e.reporter, code, x.Span(), msg).Emit()
}

// lambdaJob types a lambda against f once the inference variables of the
// function's parameter types can be solved: the parameters get their
// types and the result expressions constrain the return type.
func (r *resolver) lambdaJob(ctx *inferCtx, lam *ast.Lambda, f types.Type) bool {
	target := r.functionalTarget(ctx, f)
	fun := types.FindFunctionalInterfaceMethod(target)
	if fun == nil {
		ctx.commits = append(ctx.commits, func() {
			if !types.IsErrorLike(ctx.ground(target)) {
				r.reportAt(lam, diag.InfNotFunctionalInterface, "lambda target "+ctx.ground(target).String()+" is not a functional interface")
			}
			lam.SetResolvedType(r.reg.Error)
		})
		return true
	}
	if fun.Arity() != lam.Arity() {
		ctx.commits = append(ctx.commits, func() {
			r.reportAt(lam, diag.InfIncompatibleLambda,
				fmt.Sprintf("lambda has %d parameters, %s expects %d", lam.Arity(), fun.Name(), fun.Arity()))
			lam.SetResolvedType(r.reg.Error)
		})
		return true
	}
	formals := fun.FormalParameters()
	if !ctx.solveVars(ctx.freeVars(formals...)) {
		return false
	}
	ptypes := make([]types.Type, len(formals))
	body := r
	for i, p := range lam.Params {
		if p.Type != nil {
			ptypes[i] = p.Type
		} else {
			ptypes[i] = ctx.ground(formals[i])
		}
		body = body.bind(p.Name, ptypes[i])
	}
	body = body.declareLocals(lam)

	ret := fun.ReturnType()
	var mismatch string
	switch {
	case types.IsVoid(ret):
		if !lam.IsVoidCompatible() {
			mismatch = "lambda body is not compatible with a void function type"
		}
	case !lam.IsValueCompatible():
		mismatch = "lambda body must return a value"
	default:
		for _, res := range lam.ResultExpressions() {
			if !body.constrainResult(ctx, res, ret) && mismatch == "" {
				mismatch = "bad return type in lambda: " + argLabel(res) + " is not compatible with " + ctx.partial(ret).String()
			}
		}
	}

	ctx.commits = append(ctx.commits, func() {
		for i, p := range lam.Params {
			p.Resolved = ptypes[i]
		}
		gt := ctx.ground(target)
		lam.FunctionalMethod = types.FindFunctionalInterfaceMethod(gt)
		lam.SetResolvedType(gt)
		if mismatch != "" {
			r.reportAt(lam, diag.InfIncompatibleLambda, mismatch)
		}
		body.typeLambdaBody(lam, types.IsVoid(ret))
	})
	return true
}

// constrainResult adds the constraint of one result expression of a lambda.
func (r *resolver) constrainResult(ctx *inferCtx, res ast.Expr, ret types.Type) bool {
	switch x := res.(type) {
	case *ast.Lambda, *ast.MethodRef:
		r.deferArg(ctx, res, ret)
		return true
	case *ast.Conditional:
		if r.isPolyBranching(x.Then, x.Else) {
			r.deferArg(ctx, res, ret)
			return true
		}
	case *ast.Switch:
		if r.isPolyBranching(x.Results...) {
			r.deferArg(ctx, res, ret)
			return true
		}
	}
	return r.compatible(ctx, r.argType(ctx, res), ret, phaseLoose)
}

// methodRefJob finds the compile-time declaration of a method reference
// once the parameter types of the function type are known.
func (r *resolver) methodRefJob(ctx *inferCtx, ref *ast.MethodRef, f types.Type) bool {
	target := r.functionalTarget(ctx, f)
	fun := types.FindFunctionalInterfaceMethod(target)
	if fun == nil {
		ctx.commits = append(ctx.commits, func() {
			if !types.IsErrorLike(ctx.ground(target)) {
				r.reportAt(ref, diag.InfNotFunctionalInterface, "method reference target "+ctx.ground(target).String()+" is not a functional interface")
			}
			ref.SetResolvedType(r.reg.Error)
		})
		return true
	}
	formals := fun.FormalParameters()
	if !ctx.solveVars(ctx.freeVars(formals...)) {
		return false
	}
	params := make([]types.Type, len(formals))
	for i, p := range formals {
		params[i] = ctx.ground(p)
	}
	ret := fun.ReturnType()
	var retTarget types.Type
	if !types.IsVoid(ret) && ctx.proper(ret) {
		retTarget = ctx.partial(ret)
	}

	decl := r.compileTimeDecl(ref, params, retTarget)
	if decl == nil {
		ctx.commits = append(ctx.commits, func() {
			r.reportAt(ref, diag.InfNoCompileTimeDecl, "no compile-time declaration for method reference ::"+ref.Name)
			ref.CompileTimeDecl = r.reg.UnresolvedMethod()
			gt := ctx.ground(target)
			ref.FunctionalMethod = types.FindFunctionalInterfaceMethod(gt)
			ref.SetResolvedType(gt)
		})
		return true
	}
	if !types.IsVoid(ret) {
		if rt := decl.ReturnType(); !types.IsVoid(rt) {
			if !r.compatible(ctx, types.Capture(rt), ret, phaseLoose) {
				return false
			}
		}
	}
	ctx.commits = append(ctx.commits, func() {
		ref.CompileTimeDecl = decl
		gt := ctx.ground(target)
		ref.FunctionalMethod = types.FindFunctionalInterfaceMethod(gt)
		ref.SetResolvedType(gt)
	})
	return true
}

// typeFunctional types a lambda or method reference against a proper
// target outside any invocation.
func (r *resolver) typeFunctional(x ast.Expr, target types.Type) types.Type {
	if target == nil || types.IsErrorLike(target) {
		return r.reg.Error
	}
	ctx := newInferCtx(r.reg)
	r.deferArg(ctx, x, target)
	if ctx.runJobs() {
		ctx.solve()
	}
	ctx.commit()
	if t := x.ResolvedType(); t != nil {
		return t
	}
	return r.reg.Error
}

// declareLocals binds the local variables of a lambda block in order, so
// that result expressions see them. Initializers are typed on the way.
func (r *resolver) declareLocals(lam *ast.Lambda) *resolver {
	if lam.Block == nil {
		return r
	}
	out := r
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch x := s.(type) {
		case *ast.LocalVar:
			t := x.Type
			if x.Init != nil {
				it := x.Init.ResolvedType()
				if it == nil {
					it = out.typeExpr(x.Init, x.Type)
				}
				if t == nil {
					t = it
				}
			}
			if t == nil {
				t = r.reg.Error
			}
			out = out.bind(x.Name, t)
		case *ast.Block:
			for _, st := range x.Stmts {
				walk(st)
			}
		case *ast.If:
			walk(x.Then)
			if x.Else != nil {
				walk(x.Else)
			}
		case *ast.While:
			walk(x.Body)
		}
	}
	walk(lam.Block)
	return out
}

// typeLambdaBody types what the result constraints did not: statement
// expressions, conditions and the expression body of a void lambda.
func (r *resolver) typeLambdaBody(lam *ast.Lambda, void bool) {
	if lam.Block == nil {
		if void && lam.Body != nil && lam.Body.ResolvedType() == nil {
			r.typeExpr(lam.Body, nil)
		}
		return
	}
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch x := s.(type) {
		case *ast.ExprStmt:
			r.typeIfNeeded(x.X, nil)
		case *ast.Throw:
			r.typeIfNeeded(x.X, nil)
		case *ast.Return:
			if x.Value != nil {
				r.typeIfNeeded(x.Value, nil)
			}
		case *ast.Block:
			for _, st := range x.Stmts {
				walk(st)
			}
		case *ast.If:
			r.typeIfNeeded(x.Cond, r.reg.Boolean)
			walk(x.Then)
			if x.Else != nil {
				walk(x.Else)
			}
		case *ast.While:
			r.typeIfNeeded(x.Cond, r.reg.Boolean)
			walk(x.Body)
		}
	}
	walk(lam.Block)
}

func (r *resolver) typeIfNeeded(x ast.Expr, target types.Type) {
	if x != nil && x.ResolvedType() == nil {
		r.typeExpr(x, target)
	}
}
