package infer

import (
	"sync/atomic"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/trace"
	"jsema/internal/types"
)

// Option configures an Engine.
type Option func(*Engine)

// WithReporter routes diagnostics to r instead of the registry's reporter.
func WithReporter(r diag.Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithTracer attaches a tracer; the registry's tracer is used otherwise.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// Engine resolves invocations against one registry.
type Engine struct {
	reg      *types.Registry
	reporter diag.Reporter
	tracer   trace.Tracer

	resolutions   atomic.Int64
	exactSearches atomic.Int64
	unresolved    atomic.Int64
	ambiguous     atomic.Int64
}

// Stats counts the work of an engine since its creation.
type Stats struct {
	Resolutions   int64
	ExactSearches int64
	Unresolved    int64
	Ambiguous     int64
}

// NewEngine creates an engine over reg.
func NewEngine(reg *types.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:      reg,
		reporter: reg.Reporter(),
		tracer:   reg.Tracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = trace.Nop
	}
	return e
}

// Registry returns the registry the engine resolves against.
func (e *Engine) Registry() *types.Registry { return e.reg }

// Stats returns a snapshot of the counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Resolutions:   e.resolutions.Load(),
		ExactSearches: e.exactSearches.Load(),
		Unresolved:    e.unresolved.Load(),
		Ambiguous:     e.ambiguous.Load(),
	}
}

func (e *Engine) newResolver() *resolver {
	return &resolver{e: e, reg: e.reg}
}

// Resolve selects and instantiates the method a call site invokes. When no
// candidate is applicable it reports the failure (unless the site is quiet)
// and returns the registry's unresolved method.
func (e *Engine) Resolve(site *CallSite) *types.MethodSig {
	return e.newResolver().resolve(site)
}

// ResolveCall resolves a method invocation in an assignment or invocation
// context with the given target type, which may be nil.
func (e *Engine) ResolveCall(call *ast.MethodCall, target types.Type) *types.MethodSig {
	r := e.newResolver()
	site := r.callSite(call)
	site.Target = target
	return r.resolve(site)
}

// ResolveNew resolves the constructor of a class instance creation.
func (e *Engine) ResolveNew(n *ast.New, target types.Type) *types.MethodSig {
	r := e.newResolver()
	site := r.newSite(n)
	site.Target = target
	return r.resolve(site)
}

// TypeExpr types x against target (nil for a standalone expression) and
// records the result on the node.
func (e *Engine) TypeExpr(x ast.Expr, target types.Type) types.Type {
	return e.newResolver().typeExpr(x, target)
}

// IsPotentiallyCompatible reports whether arg may be compatible with formal,
// a parameter type of m, before any typing (JLS 15.12.2.1).
func (e *Engine) IsPotentiallyCompatible(m *types.MethodSig, arg ast.Expr, formal types.Type) bool {
	return e.newResolver().isPotentiallyCompatible(m, arg, formal)
}

// IsPertinentToApplicability reports whether arg takes part in the
// applicability check of m at site (JLS 15.12.2.2). formal is the declared
// parameter type the argument is matched against.
func (e *Engine) IsPertinentToApplicability(arg ast.Expr, m *types.MethodSig, formal types.Type, site *CallSite) bool {
	return e.newResolver().isPertinent(arg, m, formal, site)
}

// ExactMethod returns the exact method of a method reference (JLS
// 15.13.1), or nil when the reference is inexact. The answer is cached on
// the node.
func (e *Engine) ExactMethod(ref *ast.MethodRef) *types.MethodSig {
	return e.newResolver().exactMethod(ref)
}

// FindRefCompileTimeDecl finds the compile-time declaration of ref for the
// function type fn, or nil when there is none.
func (e *Engine) FindRefCompileTimeDecl(ref *ast.MethodRef, fn *types.MethodSig) *types.MethodSig {
	var ret types.Type
	if r := fn.ReturnType(); !types.IsVoid(r) && len(types.FreeInferenceVars(r)) == 0 {
		ret = r
	}
	return e.newResolver().compileTimeDecl(ref, fn.FormalParameters(), ret)
}
