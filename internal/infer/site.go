package infer

import (
	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/source"
	"jsema/internal/types"
)

// CallSite is one invocation to resolve: the candidate methods, the
// argument expressions and the context they are resolved in.
type CallSite struct {
	Name string
	Span source.Span
	Args []ast.Expr
	// TypeArgs are explicit method type arguments, empty when inferred.
	TypeArgs   []types.Type
	Candidates []*types.MethodSig
	// Context is the class the invocation occurs in.
	Context types.ClassSymbol
	// Receiver is the erased receiver type. getClass() results depend on it.
	Receiver types.Type
	// Target is the type the result must be compatible with, nil for none.
	Target types.Type
	// Diamond is the generic declaration whose type arguments a diamond
	// class instance creation infers.
	Diamond *types.ClassType
	// Node receives the resolved method and type when it is a
	// *ast.MethodCall or an *ast.New.
	Node ast.Expr
	// Quiet suppresses diagnostics.
	Quiet bool

	// result overrides the result type of a constructor, for anonymous
	// classes implementing an interface.
	result types.Type
	// noReceiver marks a receiver that failed to type; a diagnostic
	// about it already exists.
	noReceiver bool
}

func (s *CallSite) displayName() string {
	if s.Name != "<init>" {
		return s.Name
	}
	if n, ok := s.Node.(*ast.New); ok && n.Type != nil {
		return "new " + n.Type.Symbol().BinaryName()
	}
	if s.Receiver != nil {
		return "new " + s.Receiver.String()
	}
	return "constructor"
}

// callSite gathers the candidates of a method invocation.
func (r *resolver) callSite(call *ast.MethodCall) *CallSite {
	site := &CallSite{
		Name:     call.Name,
		Span:     call.Span(),
		Args:     call.Args,
		TypeArgs: call.TypeArgs,
		Context:  call.Context,
		Node:     call,
	}
	var recv types.Type
	switch {
	case call.Receiver != nil:
		recv = r.standalone(call.Receiver)
	case call.QualifierType != nil:
		recv = call.QualifierType
	default:
		site.Candidates, site.Receiver = r.lexicalCandidates(call.Name, call.Context)
		return site
	}
	if recv == nil || types.IsErrorLike(recv) {
		site.noReceiver = true
		return site
	}
	if types.IsPrimitive(recv) || types.IsVoid(recv) || types.IsSentinel(recv, types.SentinelNull) {
		if !site.Quiet {
			diag.ReportError(r.e.reporter, diag.InfUnresolvedReceiver, call.Span(),
				"cannot invoke "+call.Name+" on "+recv.String()).Emit()
		}
		site.noReceiver = true
		return site
	}
	site.Receiver = types.Erasure(recv)
	site.Candidates = types.OverloadSet(types.StreamMethods(types.Capture(recv), types.AccessibleMethodFilter(call.Name, call.Context)))
	return site
}

// lexicalCandidates searches the context class, then its enclosing
// classes, for methods named name. The innermost class declaring one wins.
func (r *resolver) lexicalCandidates(name string, ctx types.ClassSymbol) ([]*types.MethodSig, types.Type) {
	for c := ctx; c != nil; c = c.EnclosingClass() {
		decl := r.reg.Declaration(c)
		if decl == nil {
			continue
		}
		if ms := types.StreamMethods(decl, types.AccessibleMethodFilter(name, ctx)); len(ms) > 0 {
			return types.OverloadSet(ms), types.Erasure(decl)
		}
	}
	return nil, nil
}

// newSite gathers the constructors of a class instance creation.
func (r *resolver) newSite(n *ast.New) *CallSite {
	site := &CallSite{
		Name:     "<init>",
		Span:     n.Span(),
		Args:     n.Args,
		TypeArgs: n.TypeArgs,
		Context:  n.Context,
		Node:     n,
	}
	ct := n.Type
	if ct == nil || ct.Symbol().IsUnresolved() {
		site.noReceiver = true
		return site
	}
	site.Receiver = types.Erasure(ct)
	owner := ct
	if ct.IsInterface() {
		// an anonymous class implementing an interface extends Object
		site.result = ct
		owner = r.reg.Object()
	} else if n.Diamond && types.IsGeneric(ct.Symbol()) {
		site.Diamond = r.reg.Declaration(ct.Symbol())
		owner = site.Diamond
	}
	site.Candidates = accessible(types.Constructors(owner), n.Context)
	return site
}

func accessible(ms []*types.MethodSig, from types.ClassSymbol) []*types.MethodSig {
	out := ms[:0:0]
	for _, m := range ms {
		if m.IsAccessible(from) {
			out = append(out, m)
		}
	}
	return out
}

// resultType is the type an invocation of view produces at site.
func (site *CallSite) resultType(view *types.MethodSig) types.Type {
	if site.result != nil {
		return site.result
	}
	return view.ReturnType()
}

// writeBack records the outcome on the site's node.
func (r *resolver) writeBack(site *CallSite, sig *types.MethodSig, t types.Type) {
	switch n := site.Node.(type) {
	case *ast.MethodCall:
		n.Method = sig
		n.SetResolvedType(t)
	case *ast.New:
		n.Method = sig
		n.SetResolvedType(t)
	}
}
