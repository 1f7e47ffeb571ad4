package types

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"
)

// synthBase answers every ClassSymbol query with the "nothing declared"
// value. Synthesized variants embed it and override what they have.
type synthBase struct {
	reg *Registry
}

func (b *synthBase) Registry() *Registry { return b.reg }
func (*synthBase) SymbolKind() SymbolKind { return SymClass }
func (*synthBase) TypeParameters() []*TypeVar { return nil }
func (*synthBase) EnclosingClass() ClassSymbol { return nil }
func (*synthBase) EnclosingMethod() ExecutableSymbol { return nil }
func (*synthBase) Modifiers() Modifiers { return ModPublic }
func (*synthBase) DeclaredClasses() []ClassSymbol { return nil }
func (*synthBase) DeclaredMethods() []ExecutableSymbol { return nil }
func (*synthBase) Constructors() []ExecutableSymbol { return nil }
func (*synthBase) DeclaredFields() []FieldSymbol { return nil }
func (*synthBase) SuperclassType(Substitution) *ClassType { return nil }
func (*synthBase) SuperInterfaceTypes(Substitution) []*ClassType { return nil }
func (*synthBase) ArrayComponent() ClassSymbol { return nil }
func (*synthBase) IsInterface() bool { return false }
func (*synthBase) IsEnum() bool { return false }
func (*synthBase) IsRecord() bool { return false }
func (*synthBase) IsAnnotation() bool { return false }
func (*synthBase) IsLocal() bool { return false }
func (*synthBase) IsAnonymous() bool { return false }
func (*synthBase) IsArray() bool { return false }
func (*synthBase) IsPrimitive() bool { return false }
func (*synthBase) IsUnresolved() bool { return false }

type primitiveSymbol struct {
	synthBase
	kind PrimitiveKind
}

func (p *primitiveSymbol) SimpleName() string { return p.kind.String() }
func (p *primitiveSymbol) BinaryName() string { return p.kind.String() }
func (p *primitiveSymbol) CanonicalName() string { return p.kind.String() }
func (*primitiveSymbol) PackageName() string { return "" }
func (*primitiveSymbol) IsPrimitive() bool { return true }
func (*primitiveSymbol) Modifiers() Modifiers {
	return ModPublic | ModFinal | ModAbstract
}

type arraySymbol struct {
	synthBase
	component ClassSymbol

	once   sync.Once
	length FieldSymbol
	clone  ExecutableSymbol
}

func (a *arraySymbol) SimpleName() string { return a.component.SimpleName() + "[]" }
func (a *arraySymbol) BinaryName() string { return a.component.BinaryName() + "[]" }

func (a *arraySymbol) CanonicalName() string {
	cn := a.component.CanonicalName()
	if cn == "" {
		return ""
	}
	return cn + "[]"
}

func (a *arraySymbol) PackageName() string { return a.component.PackageName() }
func (a *arraySymbol) ArrayComponent() ClassSymbol { return a.component }
func (*arraySymbol) IsArray() bool { return true }

func (a *arraySymbol) Modifiers() Modifiers {
	return a.component.Modifiers()&AccessMask | ModFinal | ModAbstract
}

func (a *arraySymbol) SuperclassType(Substitution) *ClassType { return a.reg.Object() }

func (a *arraySymbol) SuperInterfaceTypes(Substitution) []*ClassType {
	return []*ClassType{a.reg.Cloneable(), a.reg.Serializable()}
}

func (a *arraySymbol) members() {
	a.once.Do(func() {
		a.length = &synthField{
			owner: a,
			name:  "length",
			mods:  ModPublic | ModFinal,
			typ:   a.reg.Int,
		}
		a.clone = &synthMethod{
			owner: a,
			name:  "clone",
			mods:  ModPublic,
			ret: func() Type {
				return a.reg.Array(a.reg.Declaration(a.component))
			},
		}
	})
}

func (a *arraySymbol) DeclaredFields() []FieldSymbol {
	a.members()
	return []FieldSymbol{a.length}
}

func (a *arraySymbol) DeclaredMethods() []ExecutableSymbol {
	a.members()
	return []ExecutableSymbol{a.clone}
}

type intersectionSymbol struct {
	synthBase
	name  string
	super *ClassType
	itfs  []*ClassType
}

func (s *intersectionSymbol) SimpleName() string { return s.name }
func (s *intersectionSymbol) BinaryName() string { return s.name }
func (*intersectionSymbol) CanonicalName() string { return "" }
func (*intersectionSymbol) PackageName() string { return "" }
func (s *intersectionSymbol) IsInterface() bool { return s.super == nil || IsObject(s.super) }

func (s *intersectionSymbol) Modifiers() Modifiers {
	m := ModPublic | ModAbstract
	if s.IsInterface() {
		m |= ModInterface
	}
	return m
}

func (s *intersectionSymbol) SuperclassType(Substitution) *ClassType {
	if s.IsInterface() {
		return nil
	}
	return s.super
}

func (s *intersectionSymbol) SuperInterfaceTypes(Substitution) []*ClassType { return s.itfs }

// unresolvedClass stands in for a class that could not be loaded. Its
// type-parameter count is overwritten by every request.
type unresolvedClass struct {
	synthBase
	canonical string
	arity     atomic.Int32

	mu      sync.Mutex
	tparams []*TypeVar
}

func (u *unresolvedClass) SimpleName() string {
	if i := strings.LastIndexByte(u.canonical, '.'); i >= 0 {
		return u.canonical[i+1:]
	}
	return u.canonical
}

func (u *unresolvedClass) BinaryName() string { return u.canonical }
func (u *unresolvedClass) CanonicalName() string { return u.canonical }

func (u *unresolvedClass) PackageName() string {
	if i := strings.LastIndexByte(u.canonical, '.'); i >= 0 {
		return u.canonical[:i]
	}
	return ""
}

func (*unresolvedClass) IsUnresolved() bool { return true }

// Arity is the type-parameter count recorded by the latest request.
func (u *unresolvedClass) Arity() int { return int(u.arity.Load()) }

func (u *unresolvedClass) setArity(n int) {
	if n < 0 {
		n = 0
	}
	a, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Errorf("unresolved arity overflow: %w", err))
	}
	u.arity.Store(a)
}

func (u *unresolvedClass) TypeParameters() []*TypeVar {
	n := u.Arity()
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.tparams) == n {
		return u.tparams
	}
	params := make([]*TypeVar, n)
	for i := range params {
		if i < len(u.tparams) {
			params[i] = u.tparams[i]
			continue
		}
		params[i] = NewTypeParam(u, "T"+strconv.Itoa(i), i, nil)
	}
	u.tparams = params
	return params
}

type synthField struct {
	owner ClassSymbol
	name  string
	mods  Modifiers
	typ   Type
}

func (f *synthField) SimpleName() string { return f.name }
func (*synthField) SymbolKind() SymbolKind { return SymField }
func (f *synthField) Registry() *Registry { return f.owner.Registry() }
func (f *synthField) EnclosingClass() ClassSymbol { return f.owner }
func (f *synthField) Modifiers() Modifiers { return f.mods }
func (*synthField) IsEnumConstant() bool { return false }
func (f *synthField) Type(s Substitution) Type { return Subst(f.typ, s) }

type synthMethod struct {
	owner  ClassSymbol
	name   string
	mods   Modifiers
	params []Type
	ret    func() Type
}

func (m *synthMethod) SimpleName() string { return m.name }
func (*synthMethod) SymbolKind() SymbolKind { return SymMethod }
func (m *synthMethod) Registry() *Registry { return m.owner.Registry() }
func (*synthMethod) TypeParameters() []*TypeVar { return nil }
func (m *synthMethod) EnclosingClass() ClassSymbol { return m.owner }
func (m *synthMethod) Modifiers() Modifiers { return m.mods }
func (*synthMethod) IsConstructor() bool { return false }
func (m *synthMethod) Arity() int { return len(m.params) }
func (*synthMethod) IsVarargs() bool { return false }
func (*synthMethod) ThrownExceptionTypes(Substitution) []Type { return nil }

func (m *synthMethod) ParameterNames() []string {
	names := make([]string, len(m.params))
	for i := range names {
		names[i] = "arg" + strconv.Itoa(i)
	}
	return names
}

func (m *synthMethod) FormalParameterTypes(s Substitution) []Type {
	return SubstAll(m.params, s)
}

func (m *synthMethod) ReturnType(s Substitution) Type {
	if m.ret == nil {
		return m.owner.Registry().Error
	}
	return Subst(m.ret(), s)
}
