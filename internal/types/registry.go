package types

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"jsema/internal/diag"
	"jsema/internal/source"
	"jsema/internal/trace"
)

// ClassResolver loads class symbols by binary name. It returns nil when the
// class is unknown; the registry then falls back to an unresolved reference.
type ClassResolver interface {
	ResolveClass(binaryName string) ClassSymbol
}

// Option configures a Registry.
type Option func(*Registry)

// WithReporter routes registry diagnostics (malformed signatures) to r.
func WithReporter(r diag.Reporter) Option {
	return func(reg *Registry) { reg.reporter = r }
}

// WithTracer attaches a tracer for node-level events.
func WithTracer(t trace.Tracer) Option {
	return func(reg *Registry) {
		if t != nil {
			reg.tracer = t
		}
	}
}

// WithResolver installs the class resolver up front.
func WithResolver(r ClassResolver) Option {
	return func(reg *Registry) { reg.resolver = r }
}

// Registry is the per-session type system. It owns the primitive and
// sentinel descriptors and the symbol factory, and is shared read-mostly by
// every compilation unit analysed in the session.
type Registry struct {
	id       uuid.UUID
	factory  *SymbolFactory
	tracer   trace.Tracer
	reporter diag.Reporter
	reportMu sync.Mutex

	resolverMu sync.RWMutex
	resolver   ClassResolver

	Boolean *Primitive
	Char    *Primitive
	Byte    *Primitive
	Short   *Primitive
	Int     *Primitive
	Long    *Primitive
	Float   *Primitive
	Double  *Primitive

	// Error marks a failed typing step, Unresolved a type that could not be
	// loaded.
	Error      *Sentinel
	Unresolved *Sentinel
	Null       *Sentinel
	Void       *Sentinel

	wellKnown        sync.Map // binary name -> *ClassType
	unresolvedMethod *Lazy[*MethodSig]
	fresh            atomic.Uint64
	closed           atomic.Bool
}

// NewRegistry creates a session registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		id:     uuid.New(),
		tracer: trace.Nop,
	}
	reg.Error = &Sentinel{reg: reg, kind: SentinelError}
	reg.Unresolved = &Sentinel{reg: reg, kind: SentinelUnresolved}
	reg.Null = &Sentinel{reg: reg, kind: SentinelNull}
	reg.Void = &Sentinel{reg: reg, kind: SentinelVoid}
	reg.factory = newSymbolFactory(reg)
	prim := func(k PrimitiveKind) *Primitive {
		return &Primitive{reg: reg, kind: k, sym: reg.factory.prims[k]}
	}
	reg.Boolean = prim(PrimBoolean)
	reg.Char = prim(PrimChar)
	reg.Byte = prim(PrimByte)
	reg.Short = prim(PrimShort)
	reg.Int = prim(PrimInt)
	reg.Long = prim(PrimLong)
	reg.Float = prim(PrimFloat)
	reg.Double = prim(PrimDouble)
	reg.unresolvedMethod = NewLazy(reg.makeUnresolvedMethod)
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// ID is the session identifier, used to correlate trace output.
func (r *Registry) ID() string { return r.id.String() }

// Factory returns the symbol factory.
func (r *Registry) Factory() *SymbolFactory { return r.factory }

// Tracer returns the attached tracer (trace.Nop when none).
func (r *Registry) Tracer() trace.Tracer { return r.tracer }

// SetResolver installs the class resolver. Loaders that need the registry to
// build their symbols call it once they exist.
func (r *Registry) SetResolver(res ClassResolver) {
	r.resolverMu.Lock()
	r.resolver = res
	r.resolverMu.Unlock()
}

func (r *Registry) classResolver() ClassResolver {
	r.resolverMu.RLock()
	defer r.resolverMu.RUnlock()
	return r.resolver
}

// Close ends the session. Later lookups of unknown classes still work but
// nothing is resolved through the loader anymore.
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.SetResolver(nil)
	r.tracePoint("registry.close", r.ID())
	return nil
}

// Closed reports whether Close was called.
func (r *Registry) Closed() bool { return r.closed.Load() }

// Primitive returns the singleton descriptor of a primitive kind.
func (r *Registry) Primitive(k PrimitiveKind) *Primitive {
	switch k {
	case PrimBoolean:
		return r.Boolean
	case PrimChar:
		return r.Char
	case PrimByte:
		return r.Byte
	case PrimShort:
		return r.Short
	case PrimInt:
		return r.Int
	case PrimLong:
		return r.Long
	case PrimFloat:
		return r.Float
	case PrimDouble:
		return r.Double
	}
	return nil
}

// PrimitiveByName maps "int", "boolean", ... to descriptors.
func (r *Registry) PrimitiveByName(name string) (*Primitive, bool) {
	for k := PrimBoolean; k <= PrimDouble; k++ {
		if k.String() == name {
			return r.Primitive(k), true
		}
	}
	return nil, false
}

// LookupClass resolves a class without creating unresolved references.
// name may be a binary name (a.B$C) or a canonical name (a.B.C).
func (r *Registry) LookupClass(name string) (ClassSymbol, bool) {
	if name == "" {
		return nil, false
	}
	if p, ok := r.PrimitiveByName(name); ok {
		return p.sym, true
	}
	res := r.classResolver()
	if res == nil {
		return nil, false
	}
	if sym := res.ResolveClass(name); sym != nil {
		return sym, true
	}
	// a.B.C may be the nested class a.B$C, or a$B$C for default packages
	for cand := name; ; {
		i := strings.LastIndexByte(cand, '.')
		if i < 0 {
			break
		}
		cand = cand[:i] + "$" + cand[i+1:]
		if sym := res.ResolveClass(cand); sym != nil {
			return sym, true
		}
	}
	return nil, false
}

// ClassSymbolFor returns the class named name, or an unresolved reference
// for it when no loader knows it. The arity of an existing unresolved
// reference is left untouched.
func (r *Registry) ClassSymbolFor(name string) ClassSymbol {
	if sym, ok := r.LookupClass(name); ok {
		return sym
	}
	return r.factory.unresolvedFor(name)
}

// ClassType returns the type of a well-known class: its generic declaration
// for non-generic classes, or the raw type for generic ones.
func (r *Registry) ClassType(name string) *ClassType {
	if v, ok := r.wellKnown.Load(name); ok {
		return v.(*ClassType)
	}
	ct := &ClassType{sym: r.ClassSymbolFor(name)}
	v, _ := r.wellKnown.LoadOrStore(name, ct)
	return v.(*ClassType)
}

// Object is java.lang.Object.
func (r *Registry) Object() *ClassType { return r.ClassType("java.lang.Object") }

// StringType is java.lang.String.
func (r *Registry) StringType() *ClassType { return r.ClassType("java.lang.String") }

// Cloneable is java.lang.Cloneable.
func (r *Registry) Cloneable() *ClassType { return r.ClassType("java.lang.Cloneable") }

// Serializable is java.io.Serializable.
func (r *Registry) Serializable() *ClassType { return r.ClassType("java.io.Serializable") }

// ClassOf returns Class<arg>.
func (r *Registry) ClassOf(arg Type) *ClassType {
	sym := r.ClassSymbolFor("java.lang.Class")
	if len(sym.TypeParameters()) != 1 {
		return &ClassType{sym: sym}
	}
	return &ClassType{sym: sym, args: []Type{arg}}
}

// UnresolvedMethod is the sentinel result of a failed invocation resolution.
func (r *Registry) UnresolvedMethod() *MethodSig { return r.unresolvedMethod.Get() }

// IsUnresolvedMethod reports the sentinel.
func (r *Registry) IsUnresolvedMethod(m *MethodSig) bool {
	return m == nil || m == r.UnresolvedMethod()
}

func (r *Registry) makeUnresolvedMethod() *MethodSig {
	owner := &unresolvedClass{synthBase: synthBase{reg: r}, canonical: "*unresolved*"}
	sym := &synthMethod{
		owner: owner,
		name:  "*unresolved*",
		mods:  ModPublic | ModStatic,
		ret:   func() Type { return r.Error },
	}
	return newMethodSig(sym, &ClassType{sym: owner}, EmptySubst)
}

func (r *Registry) nextID() uint64 { return r.fresh.Add(1) }

// Report forwards a diagnostic to the configured reporter. Safe for
// concurrent use.
func (r *Registry) Report(code diag.Code, sev diag.Severity, span source.Span, msg string) {
	if r.reporter == nil {
		return
	}
	r.reportMu.Lock()
	defer r.reportMu.Unlock()
	r.reporter.Report(code, sev, span, msg, nil, nil)
}

// Reporter returns a diag.Reporter that forwards to the registry's
// reporter under the same lock as Report, notes included.
func (r *Registry) Reporter() diag.Reporter { return registryReporter{reg: r} }

type registryReporter struct{ reg *Registry }

func (rr registryReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r := rr.reg
	if r.reporter == nil {
		return
	}
	r.reportMu.Lock()
	defer r.reportMu.Unlock()
	r.reporter.Report(code, sev, primary, msg, notes, fixes)
}

func (r *Registry) tracePoint(name, detail string) {
	trace.Point(r.tracer, trace.ScopeNode, name, detail)
}
