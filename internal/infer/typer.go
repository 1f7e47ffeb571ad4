package infer

import (
	"jsema/internal/ast"
	"jsema/internal/types"
)

// typeExpr types x against target, nil for none, and records the type on
// the node.
func (r *resolver) typeExpr(x ast.Expr, target types.Type) types.Type {
	if x == nil {
		return r.reg.Error
	}
	t := r.typeOf(x, target)
	if t == nil {
		t = r.reg.Error
	}
	x.SetResolvedType(t)
	return t
}

// standalone types x without a target. A type recorded earlier is reused,
// so receivers and plain arguments are typed once per resolution.
func (r *resolver) standalone(x ast.Expr) types.Type {
	if x == nil {
		return r.reg.Error
	}
	if t := x.ResolvedType(); t != nil {
		return t
	}
	return r.typeExpr(x, nil)
}

func (r *resolver) typeOf(x ast.Expr, target types.Type) types.Type {
	reg := r.reg
	switch x := x.(type) {
	case *ast.Literal:
		return r.literalType(x)
	case *ast.Typed:
		return x.Type
	case *ast.Name:
		if x.Type != nil {
			return x.Type
		}
		if t, ok := r.lookup(x.Ident); ok {
			return t
		}
		return reg.Error
	case *ast.FieldAccess:
		recv := r.standalone(x.Receiver)
		if types.IsErrorLike(recv) {
			return recv
		}
		if _, ft := types.FindField(types.Capture(recv), x.Name); ft != nil {
			return ft
		}
		return reg.Error
	case *ast.Unary:
		t := r.standalone(x.X)
		switch x.Op {
		case "!":
			return reg.Boolean
		case "++", "--":
			return t
		}
		return reg.UnaryNumericPromotion(t)
	case *ast.Binary:
		return r.binaryType(x)
	case *ast.Assign:
		tt := r.standalone(x.Target)
		if x.Op != "" && x.Op != "=" {
			r.standalone(x.Value)
		} else {
			r.typeExpr(x.Value, tt)
		}
		return tt
	case *ast.Cast:
		r.typeExpr(x.X, x.Type)
		return x.Type
	case *ast.Conditional:
		r.typeExpr(x.Cond, reg.Boolean)
		return r.branchType(target, x.Then, x.Else)
	case *ast.Switch:
		if x.Selector != nil {
			r.standalone(x.Selector)
		}
		return r.branchType(target, x.Results...)
	case *ast.MethodCall:
		site := r.callSite(x)
		site.Target = target
		r.resolve(site)
		return x.ResolvedType()
	case *ast.New:
		site := r.newSite(x)
		site.Target = target
		r.resolve(site)
		return x.ResolvedType()
	case *ast.Lambda, *ast.MethodRef:
		return r.typeFunctional(x, target)
	}
	return reg.Error
}

func (r *resolver) literalType(x *ast.Literal) types.Type {
	reg := r.reg
	switch x.Kind {
	case ast.LitInt:
		return reg.Int
	case ast.LitLong:
		return reg.Long
	case ast.LitFloat:
		return reg.Float
	case ast.LitDouble:
		return reg.Double
	case ast.LitBool:
		return reg.Boolean
	case ast.LitChar:
		return reg.Char
	case ast.LitString:
		return reg.StringType()
	case ast.LitNull:
		return reg.Null
	}
	return reg.Error
}

func (r *resolver) binaryType(x *ast.Binary) types.Type {
	reg := r.reg
	lt := r.standalone(x.X)
	if x.Op == "instanceof" {
		return reg.Boolean
	}
	rt := r.standalone(x.Y)
	switch x.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return reg.Boolean
	case "+":
		if isString(lt) || isString(rt) {
			return reg.StringType()
		}
	case "<<", ">>", ">>>":
		return reg.UnaryNumericPromotion(lt)
	case "&", "|", "^":
		if types.IsPrimitiveKind(reg.Unbox(lt), types.PrimBoolean) && types.IsPrimitiveKind(reg.Unbox(rt), types.PrimBoolean) {
			return reg.Boolean
		}
	}
	return reg.BinaryNumericPromotion(lt, rt)
}

func isString(t types.Type) bool {
	c, ok := t.(*types.ClassType)
	return ok && c.Symbol().BinaryName() == "java.lang.String"
}

// isPolyBranching reports whether the branches of a conditional or switch
// make a reference (poly) expression: one of them is a lambda, a method
// reference, an invocation or of a reference type other than a boxed
// primitive.
func (r *resolver) isPolyBranching(branches ...ast.Expr) bool {
	for _, b := range branches {
		switch x := b.(type) {
		case *ast.Lambda, *ast.MethodRef, *ast.MethodCall, *ast.New:
			return true
		case *ast.Conditional:
			if r.isPolyBranching(x.Then, x.Else) {
				return true
			}
			continue
		case *ast.Switch:
			if r.isPolyBranching(x.Results...) {
				return true
			}
			continue
		}
		t := r.standalone(b)
		if types.IsReference(t) && !types.IsBoxedPrimitive(t) && !types.IsSentinel(t, types.SentinelNull) && !types.IsErrorLike(t) {
			return true
		}
	}
	return false
}

// branchType types the branches of a conditional or switch. A reference
// expression with a target takes the target; otherwise boolean and numeric
// branches unify by promotion and reference branches by lub.
func (r *resolver) branchType(target types.Type, branches ...ast.Expr) types.Type {
	if target != nil && !types.IsErrorLike(target) && r.isPolyBranching(branches...) {
		for _, b := range branches {
			r.typeExpr(b, target)
		}
		return target
	}
	ts := make([]types.Type, 0, len(branches))
	for _, b := range branches {
		ts = append(ts, r.standalone(b))
	}
	return r.unifyBranches(ts)
}

func (r *resolver) unifyBranches(ts []types.Type) types.Type {
	reg := r.reg
	if len(ts) == 0 {
		return reg.Error
	}
	same := true
	for _, t := range ts[1:] {
		if !types.Same(t, ts[0]) {
			same = false
			break
		}
	}
	if same {
		return ts[0]
	}
	for _, t := range ts {
		if types.IsErrorLike(t) {
			return t
		}
	}
	allBool, allNum := true, true
	for _, t := range ts {
		u := reg.Unbox(t)
		allBool = allBool && types.IsPrimitiveKind(u, types.PrimBoolean)
		allNum = allNum && types.IsNumeric(u)
	}
	switch {
	case allBool:
		return reg.Boolean
	case allNum:
		acc := ts[0]
		for _, t := range ts[1:] {
			acc = reg.BinaryNumericPromotion(acc, t)
		}
		return acc
	}
	return reg.Lub(ts...)
}
