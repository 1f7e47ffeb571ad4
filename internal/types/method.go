package types

import (
	"strings"
	"sync"
)

// MethodSig is the type of a method or constructor as seen from a receiver
// type: the declaration plus the substitution of the declaring type's
// arguments and, after inference, of the method's own type parameters.
type MethodSig struct {
	sym       ExecutableSymbol
	declaring *ClassType
	subst     Substitution
	erased    bool
	// instantiated signatures have their type parameters substituted away
	instantiated bool
	retOverride  Type
	original     *MethodSig

	once    sync.Once
	formals []Type
	ret     Type
	thrown  []Type
}

func newMethodSig(sym ExecutableSymbol, declaring *ClassType, s Substitution) *MethodSig {
	m := &MethodSig{sym: sym, declaring: declaring, subst: s}
	if declaring != nil && declaring.IsRaw() && !IsStatic(sym) {
		m.erased = true
	}
	return m
}

// NewMethodSig views sym as a member of declaring. declaring may be nil for
// the declaration's own view.
func NewMethodSig(sym ExecutableSymbol, declaring *ClassType) *MethodSig {
	if declaring == nil {
		declaring = sym.Registry().Declaration(sym.EnclosingClass())
	}
	return newMethodSig(sym, declaring, TypeParamSubst(declaring))
}

func (m *MethodSig) load() {
	m.once.Do(func() {
		if m.erased {
			for _, f := range m.sym.FormalParameterTypes(EmptySubst) {
				m.formals = append(m.formals, Erasure(f))
			}
			m.ret = Erasure(m.sym.ReturnType(EmptySubst))
			for _, th := range m.sym.ThrownExceptionTypes(EmptySubst) {
				m.thrown = append(m.thrown, Erasure(th))
			}
			return
		}
		m.formals = m.sym.FormalParameterTypes(m.subst)
		m.ret = m.sym.ReturnType(m.subst)
		m.thrown = m.sym.ThrownExceptionTypes(m.subst)
	})
}

// Symbol returns the declaration.
func (m *MethodSig) Symbol() ExecutableSymbol { return m.sym }

// Name is the method name, "<init>" for constructors.
func (m *MethodSig) Name() string {
	if m.sym.IsConstructor() {
		return "<init>"
	}
	return m.sym.SimpleName()
}

// Arity is the number of formal parameters.
func (m *MethodSig) Arity() int { return m.sym.Arity() }

// IsVarargs reports a variable arity method.
func (m *MethodSig) IsVarargs() bool { return m.sym.IsVarargs() }

// IsStatic reports a static method.
func (m *MethodSig) IsStatic() bool { return IsStatic(m.sym) }

// IsAbstract reports an abstract method.
func (m *MethodSig) IsAbstract() bool { return m.sym.Modifiers().Has(ModAbstract) }

// IsConstructor reports a constructor.
func (m *MethodSig) IsConstructor() bool { return m.sym.IsConstructor() }

// IsErased reports a member of a raw type.
func (m *MethodSig) IsErased() bool { return m.erased }

// TypeParameters returns the method's own type parameters; none for erased
// or instantiated signatures.
func (m *MethodSig) TypeParameters() []*TypeVar {
	if m.erased || m.instantiated {
		return nil
	}
	return m.sym.TypeParameters()
}

// IsGeneric reports declared method type parameters still to infer.
func (m *MethodSig) IsGeneric() bool { return len(m.TypeParameters()) > 0 }

// FormalParameters returns the parameter types.
func (m *MethodSig) FormalParameters() []Type {
	m.load()
	return m.formals
}

// ReturnType returns the result type. Constructors return the declaring type.
func (m *MethodSig) ReturnType() Type {
	if m.retOverride != nil {
		return m.retOverride
	}
	if m.sym.IsConstructor() {
		return m.declaring
	}
	m.load()
	return m.ret
}

// ThrownExceptions returns the throws clause.
func (m *MethodSig) ThrownExceptions() []Type {
	m.load()
	return m.thrown
}

// DeclaringType is the receiver view the signature was taken from.
func (m *MethodSig) DeclaringType() *ClassType { return m.declaring }

// Subst returns the substitution applied to the declaration.
func (m *MethodSig) Subst() Substitution { return m.subst }

// OriginalMethod returns the signature before instantiation or adaptation.
func (m *MethodSig) OriginalMethod() *MethodSig {
	if m.original != nil {
		return m.original
	}
	return m
}

func (m *MethodSig) derive() *MethodSig {
	return &MethodSig{
		sym:          m.sym,
		declaring:    m.declaring,
		subst:        m.subst,
		erased:       m.erased,
		instantiated: m.instantiated,
		retOverride:  m.retOverride,
		original:     m.OriginalMethod(),
	}
}

// Instantiate applies s (typically method type parameters to inferred
// types) on top of the current substitution. The result has no type
// parameters left.
func (m *MethodSig) Instantiate(s Substitution) *MethodSig {
	d := m.derive()
	d.subst = m.subst.AndThen(s)
	d.instantiated = true
	if m.sym.IsConstructor() && m.declaring != nil {
		d.declaring = SubstClassType(m.declaring, s)
	}
	if d.retOverride != nil {
		d.retOverride = Subst(d.retOverride, s)
	}
	if m.erased {
		d.erased = true
	}
	return d
}

// SubstAll applies s to the signature while keeping its type parameters.
// Used to view a generic method through inference variables.
func (m *MethodSig) SubstAll(s Substitution) *MethodSig {
	d := m.derive()
	d.subst = m.subst.AndThen(s)
	if m.sym.IsConstructor() && m.declaring != nil {
		d.declaring = SubstClassType(m.declaring, s)
	}
	if d.retOverride != nil {
		d.retOverride = Subst(d.retOverride, s)
	}
	return d
}

// WithReturnType replaces the result type.
func (m *MethodSig) WithReturnType(t Type) *MethodSig {
	d := m.derive()
	d.retOverride = t
	return d
}

// WithOwner views the same declaration through another declaring type.
func (m *MethodSig) WithOwner(owner *ClassType) *MethodSig {
	d := newMethodSig(m.sym, owner, TypeParamSubst(owner))
	d.original = m.OriginalMethod()
	return d
}

// Erasure returns the erased signature.
func (m *MethodSig) Erasure() *MethodSig {
	if m.erased {
		return m
	}
	d := m.derive()
	d.erased = true
	d.retOverride = nil
	if m.declaring != nil {
		d.declaring = Erasure(m.declaring).(*ClassType)
	}
	return d
}

// ErasedFormals returns the erasure of the declared parameter types.
func (m *MethodSig) ErasedFormals() []Type {
	decl := m.sym.FormalParameterTypes(EmptySubst)
	out := make([]Type, len(decl))
	for i, f := range decl {
		out[i] = Erasure(f)
	}
	return out
}

// IsAccessible reports whether the method may be referenced from code in
// class from (nil means "from anywhere", i.e. only public members).
func (m *MethodSig) IsAccessible(from ClassSymbol) bool {
	return IsAccessible(m.sym, from)
}

// IsOverrideEquivalent reports the same name and the same erased parameter
// types.
func (m *MethodSig) IsOverrideEquivalent(o *MethodSig) bool {
	if m.Name() != o.Name() || m.Arity() != o.Arity() {
		return false
	}
	return SameAll(m.ErasedFormals(), o.ErasedFormals())
}

func (m *MethodSig) String() string {
	var b strings.Builder
	if tps := m.TypeParameters(); len(tps) > 0 {
		b.WriteByte('<')
		for i, tp := range tps {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(tp.Name())
		}
		b.WriteString("> ")
	}
	if m.declaring != nil {
		b.WriteString(m.declaring.String())
	} else if c := m.sym.EnclosingClass(); c != nil {
		b.WriteString(displayName(c))
	}
	b.WriteByte('.')
	b.WriteString(m.Name())
	b.WriteByte('(')
	for i, f := range m.FormalParameters() {
		if i > 0 {
			b.WriteString(", ")
		}
		if i == m.Arity()-1 && m.IsVarargs() {
			if arr, ok := f.(*ArrayType); ok {
				b.WriteString(arr.component.String())
				b.WriteString("...")
				continue
			}
		}
		b.WriteString(f.String())
	}
	b.WriteString(") -> ")
	b.WriteString(m.ReturnType().String())
	return b.String()
}

// IsAccessible applies the access rules of JLS 6.6 to a member of a class.
// from nil only sees public members.
func IsAccessible(member interface {
	Modifiers() Modifiers
	EnclosingClass() ClassSymbol
}, from ClassSymbol) bool {
	mods := member.Modifiers()
	owner := member.EnclosingClass()
	if mods.Has(ModPublic) || owner == nil {
		return true
	}
	if owner.IsInterface() && !mods.Has(ModPrivate) {
		// interface members are implicitly public
		return true
	}
	if from == nil {
		return false
	}
	if mods.Has(ModPrivate) {
		return SameSymbol(NestRoot(owner), NestRoot(from))
	}
	if owner.PackageName() == from.PackageName() {
		return true
	}
	if mods.Has(ModProtected) {
		for c := from; c != nil; c = c.EnclosingClass() {
			if AsSuper(c.Registry().RawType(c), owner) != nil {
				return true
			}
		}
	}
	return false
}
