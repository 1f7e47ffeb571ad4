package symbols

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"jsema/internal/diag"
	"jsema/internal/source"
	"jsema/internal/types"
)

// ClassStub is a class symbol backed by a stub index record. Nothing is
// parsed until asked for: the class signature on the first type parameter
// or supertype query, each member's signature on the first query of that
// member.
type ClassStub struct {
	loader *Loader
	rec    *ClassRecord
	mods   types.Modifiers
	pkg    string
	simple string

	headerOnce sync.Once
	headerDone atomic.Bool
	header     *classSignature
	headerErr  error
	tparams    []*types.TypeVar

	superOnce sync.Once
	super     *types.ClassType
	itfs      []*types.ClassType

	membersOnce sync.Once
	fields      []types.FieldSymbol
	methods     []types.ExecutableSymbol
	ctors       []types.ExecutableSymbol
}

var _ types.ClassSymbol = (*ClassStub)(nil)

func newClassStub(l *Loader, rec *ClassRecord) *ClassStub {
	mods, unknown := ParseAccess(rec.Access)
	if len(unknown) > 0 {
		l.reg.Report(diag.SymBadAccessFlags, diag.SevWarning, rec.Span,
			"unknown access flags on "+rec.Name+": "+strings.Join(unknown, ", "))
	}
	switch rec.Kind {
	case "local", "anonymous":
		mods &^= types.ModStatic
	}
	pkg, _ := splitBinaryName(rec.Name)
	return &ClassStub{
		loader: l,
		rec:    rec,
		mods:   mods,
		pkg:    pkg,
		simple: simpleNameOf(rec.Name, rec.Outer),
	}
}

func (c *ClassStub) reg() *types.Registry { return c.loader.reg }

// Record returns the index record the stub was built from.
func (c *ClassStub) Record() *ClassRecord { return c.rec }

// HeaderParsed reports whether the class signature was parsed.
func (c *ClassStub) HeaderParsed() bool { return c.headerDone.Load() }

func (c *ClassStub) SimpleName() string                      { return c.simple }
func (c *ClassStub) SymbolKind() types.SymbolKind            { return types.SymClass }
func (c *ClassStub) Registry() *types.Registry               { return c.reg() }
func (c *ClassStub) Modifiers() types.Modifiers              { return c.mods }
func (c *ClassStub) BinaryName() string                      { return c.rec.Name }
func (c *ClassStub) PackageName() string                     { return c.pkg }
func (c *ClassStub) ArrayComponent() types.ClassSymbol       { return nil }
func (c *ClassStub) EnclosingMethod() types.ExecutableSymbol { return nil }

func (c *ClassStub) CanonicalName() string {
	if c.IsLocal() || c.IsAnonymous() {
		return ""
	}
	if c.rec.Outer == "" {
		return c.rec.Name
	}
	outer := c.EnclosingClass()
	if outer == nil || outer.CanonicalName() == "" {
		return ""
	}
	return outer.CanonicalName() + "." + c.simple
}

func (c *ClassStub) EnclosingClass() types.ClassSymbol {
	if c.rec.Outer == "" {
		return nil
	}
	return c.reg().ClassSymbolFor(c.rec.Outer)
}

func (c *ClassStub) IsInterface() bool  { return c.mods.Has(types.ModInterface) }
func (c *ClassStub) IsEnum() bool       { return c.mods.Has(types.ModEnum) }
func (c *ClassStub) IsRecord() bool     { return c.mods.Has(types.ModRecord) }
func (c *ClassStub) IsAnnotation() bool { return c.mods.Has(types.ModAnnotation) }
func (c *ClassStub) IsLocal() bool      { return c.rec.Kind == "local" }
func (c *ClassStub) IsAnonymous() bool  { return c.rec.Kind == "anonymous" }
func (*ClassStub) IsArray() bool        { return false }
func (*ClassStub) IsPrimitive() bool    { return false }
func (*ClassStub) IsUnresolved() bool   { return false }

func (c *ClassStub) parseHeader() {
	c.headerOnce.Do(func() {
		defer c.headerDone.Store(true)
		if c.rec.Signature == "" {
			return
		}
		c.header, c.headerErr = parseClassSignature(c.rec.Signature)
		if c.headerErr != nil {
			c.loader.reportMalformed(c.rec.SigSpan, c.rec.Name, c.headerErr)
			return
		}
		c.tparams = typeParamsOf(c.reg(), c, c.header.typeParams)
	})
}

// HeaderErr returns the class signature parse error, if any.
func (c *ClassStub) HeaderErr() error {
	c.parseHeader()
	return c.headerErr
}

func (c *ClassStub) TypeParameters() []*types.TypeVar {
	c.parseHeader()
	return c.tparams
}

func (c *ClassStub) supertypes() {
	c.superOnce.Do(func() {
		c.parseHeader()
		reg := c.reg()
		if c.header != nil {
			b := &typeBuilder{reg: reg, owner: c}
			if !c.IsInterface() && c.rec.Name != "java.lang.Object" {
				c.super = b.classType(c.header.super)
			}
			for _, it := range c.header.interfaces {
				c.itfs = append(c.itfs, b.classType(it))
			}
			return
		}
		if c.rec.Super != "" && !c.IsInterface() {
			c.super = reg.RawType(reg.ClassSymbolFor(c.rec.Super))
		} else if c.rec.Super == "" && !c.IsInterface() && c.rec.Name != "java.lang.Object" {
			c.super = reg.Object()
		}
		for _, name := range c.rec.Interfaces {
			c.itfs = append(c.itfs, reg.RawType(reg.ClassSymbolFor(name)))
		}
	})
}

func (c *ClassStub) SuperclassType(s types.Substitution) *types.ClassType {
	c.supertypes()
	if c.super == nil {
		return nil
	}
	return types.SubstClassType(c.super, s)
}

func (c *ClassStub) SuperInterfaceTypes(s types.Substitution) []*types.ClassType {
	c.supertypes()
	out := make([]*types.ClassType, len(c.itfs))
	for i, it := range c.itfs {
		out[i] = types.SubstClassType(it, s)
	}
	return out
}

func (c *ClassStub) DeclaredClasses() []types.ClassSymbol {
	return c.loader.nestedOf(c.rec.Name)
}

func (c *ClassStub) members() {
	c.membersOnce.Do(func() {
		for _, fr := range c.rec.Fields {
			c.fields = append(c.fields, newFieldStub(c, fr))
		}
		for _, mr := range c.rec.Methods {
			m := newMethodStub(c, mr)
			if mr.Name == "<init>" {
				c.ctors = append(c.ctors, m)
			} else if mr.Name != "<clinit>" {
				c.methods = append(c.methods, m)
			}
		}
	})
}

func (c *ClassStub) DeclaredMethods() []types.ExecutableSymbol {
	c.members()
	return c.methods
}

func (c *ClassStub) Constructors() []types.ExecutableSymbol {
	c.members()
	return c.ctors
}

func (c *ClassStub) DeclaredFields() []types.FieldSymbol {
	c.members()
	return c.fields
}

// FieldStub is a field of a ClassStub.
type FieldStub struct {
	owner *ClassStub
	rec   *FieldRecord
	mods  types.Modifiers

	once   sync.Once
	parsed atomic.Bool
	typ    types.Type
	err    error
}

func newFieldStub(owner *ClassStub, rec *FieldRecord) *FieldStub {
	mods, _ := ParseAccess(rec.Access)
	return &FieldStub{owner: owner, rec: rec, mods: mods}
}

func (f *FieldStub) SimpleName() string                { return f.rec.Name }
func (f *FieldStub) SymbolKind() types.SymbolKind      { return types.SymField }
func (f *FieldStub) Registry() *types.Registry         { return f.owner.reg() }
func (f *FieldStub) EnclosingClass() types.ClassSymbol { return f.owner }
func (f *FieldStub) Modifiers() types.Modifiers        { return f.mods }
func (f *FieldStub) IsEnumConstant() bool              { return f.mods.Has(types.ModEnum) }

func (f *FieldStub) load() {
	f.once.Do(func() {
		defer f.parsed.Store(true)
		reg := f.owner.reg()
		sig := f.rec.TypeSignature()
		if sig == "" {
			f.typ = reg.Error
			return
		}
		t, err := parseFieldSignature(sig)
		if err != nil {
			f.err = err
			f.typ = reg.Error
			f.owner.loader.reportMalformed(f.rec.Span, f.owner.rec.Name+"."+f.rec.Name, err)
			return
		}
		b := &typeBuilder{reg: reg, owner: f.owner}
		f.typ = b.build(t)
	})
}

// Parsed reports whether the signature was parsed.
func (f *FieldStub) Parsed() bool { return f.parsed.Load() }

// Err returns the signature parse error, if any.
func (f *FieldStub) Err() error {
	f.load()
	return f.err
}

func (f *FieldStub) Type(s types.Substitution) types.Type {
	f.load()
	return types.Subst(f.typ, s)
}

// MethodStub is a method or constructor of a ClassStub.
type MethodStub struct {
	owner *ClassStub
	rec   *MethodRecord
	mods  types.Modifiers

	once    sync.Once
	parsed  atomic.Bool
	tparams []*types.TypeVar
	formals []types.Type
	ret     types.Type
	throws  []types.Type
	err     error
}

func newMethodStub(owner *ClassStub, rec *MethodRecord) *MethodStub {
	mods, _ := ParseAccess(rec.Access)
	if owner.IsInterface() && mods&types.AccessMask == 0 {
		mods |= types.ModPublic
	}
	return &MethodStub{owner: owner, rec: rec, mods: mods}
}

func (m *MethodStub) SimpleName() string                { return m.rec.Name }
func (m *MethodStub) Registry() *types.Registry         { return m.owner.reg() }
func (m *MethodStub) EnclosingClass() types.ClassSymbol { return m.owner }
func (m *MethodStub) Modifiers() types.Modifiers        { return m.mods }
func (m *MethodStub) IsConstructor() bool               { return m.rec.Name == "<init>" }
func (m *MethodStub) IsVarargs() bool                   { return m.mods.Has(types.ModVarargs) }

func (m *MethodStub) SymbolKind() types.SymbolKind {
	if m.IsConstructor() {
		return types.SymConstructor
	}
	return types.SymMethod
}

// Span locates the method's signature in its index file.
func (m *MethodStub) Span() source.Span { return m.rec.Span }

func (m *MethodStub) load() {
	m.once.Do(func() {
		defer m.parsed.Store(true)
		reg := m.owner.reg()
		sig := m.rec.TypeSignature()
		if sig == "" {
			m.ret = reg.Error
			return
		}
		ms, err := parseMethodSignature(sig)
		if err != nil {
			m.err = err
			m.ret = reg.Error
			m.owner.loader.reportMalformed(m.rec.Span, m.owner.rec.Name+"#"+m.rec.Name, err)
			return
		}
		m.tparams = typeParamsOf(reg, m, ms.typeParams)
		// the method is not loaded yet, so its own variables go through extra
		b := &typeBuilder{reg: reg, owner: m.owner, extra: m.tparams}
		m.formals = b.buildAll(ms.params)
		m.ret = b.build(ms.ret)
		m.throws = b.buildAll(ms.throws)
	})
}

// Parsed reports whether the signature was parsed.
func (m *MethodStub) Parsed() bool { return m.parsed.Load() }

// Err returns the signature parse error, if any.
func (m *MethodStub) Err() error {
	m.load()
	return m.err
}

func (m *MethodStub) TypeParameters() []*types.TypeVar {
	m.load()
	return m.tparams
}

func (m *MethodStub) Arity() int {
	m.load()
	return len(m.formals)
}

func (m *MethodStub) ParameterNames() []string {
	m.load()
	names := make([]string, len(m.formals))
	for i := range names {
		if i < len(m.rec.Params) {
			names[i] = m.rec.Params[i]
		} else {
			names[i] = "arg" + strconv.Itoa(i)
		}
	}
	return names
}

func (m *MethodStub) FormalParameterTypes(s types.Substitution) []types.Type {
	m.load()
	return types.SubstAll(m.formals, s)
}

func (m *MethodStub) ReturnType(s types.Substitution) types.Type {
	m.load()
	if m.IsConstructor() {
		return m.owner.reg().Void
	}
	return types.Subst(m.ret, s)
}

func (m *MethodStub) ThrownExceptionTypes(s types.Substitution) []types.Type {
	m.load()
	return types.SubstAll(m.throws, s)
}
