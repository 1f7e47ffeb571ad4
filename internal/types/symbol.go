package types

// Symbol is the identity of a declared entity.
type Symbol interface {
	SimpleName() string
	SymbolKind() SymbolKind
	Registry() *Registry
}

// TypeParamOwner is a symbol that may declare type parameters: a class, a
// method or a constructor.
type TypeParamOwner interface {
	Symbol
	// TypeParameters returns the declared type variables, in order.
	TypeParameters() []*TypeVar
	// EnclosingClass is the declaring class of a member, or the lexically
	// enclosing class of a nested class. Nil for top-level classes.
	EnclosingClass() ClassSymbol
	Modifiers() Modifiers
}

// ClassSymbol is the capability shared by every class-like symbol variant:
// source-backed, binary stub, array, intersection, primitive, unresolved.
type ClassSymbol interface {
	TypeParamOwner

	BinaryName() string
	// CanonicalName is empty for local and anonymous classes.
	CanonicalName() string
	PackageName() string
	// EnclosingMethod is set for local and anonymous classes declared in a body.
	EnclosingMethod() ExecutableSymbol

	DeclaredClasses() []ClassSymbol
	DeclaredMethods() []ExecutableSymbol
	Constructors() []ExecutableSymbol
	DeclaredFields() []FieldSymbol

	// SuperclassType is nil for Object, interfaces, primitives and
	// unresolved classes.
	SuperclassType(s Substitution) *ClassType
	SuperInterfaceTypes(s Substitution) []*ClassType

	// ArrayComponent is the component symbol of an array symbol, nil otherwise.
	ArrayComponent() ClassSymbol

	IsInterface() bool
	IsEnum() bool
	IsRecord() bool
	IsAnnotation() bool
	IsLocal() bool
	IsAnonymous() bool
	IsArray() bool
	IsPrimitive() bool
	IsUnresolved() bool
}

// ExecutableSymbol is a method or a constructor.
type ExecutableSymbol interface {
	TypeParamOwner

	IsConstructor() bool
	Arity() int
	IsVarargs() bool
	ParameterNames() []string
	FormalParameterTypes(s Substitution) []Type
	// ReturnType is Void for constructors; MethodSig reports the declaring type.
	ReturnType(s Substitution) Type
	ThrownExceptionTypes(s Substitution) []Type
}

// FieldSymbol is a field, an enum constant or a record component field.
type FieldSymbol interface {
	Symbol
	EnclosingClass() ClassSymbol
	Modifiers() Modifiers
	IsEnumConstant() bool
	Type(s Substitution) Type
}

// Superclass returns the symbol of the direct superclass, if any.
func Superclass(c ClassSymbol) ClassSymbol {
	sup := c.SuperclassType(EmptySubst)
	if sup == nil {
		return nil
	}
	return sup.Symbol()
}

// SuperInterfaces returns the symbols of the direct superinterfaces.
func SuperInterfaces(c ClassSymbol) []ClassSymbol {
	itfs := c.SuperInterfaceTypes(EmptySubst)
	out := make([]ClassSymbol, 0, len(itfs))
	for _, it := range itfs {
		if it != nil && it.Symbol() != nil {
			out = append(out, it.Symbol())
		}
	}
	return out
}

// IsGeneric reports whether the owner declares type parameters.
func IsGeneric(o TypeParamOwner) bool {
	return len(o.TypeParameters()) > 0
}

// IsClass reports a concrete class kind (not interface/enum/record/annotation/array/primitive).
func IsClass(c ClassSymbol) bool {
	return !c.IsInterface() && !c.IsEnum() && !c.IsRecord() && !c.IsAnnotation() &&
		!c.IsArray() && !c.IsPrimitive()
}

// IsStatic reports the static modifier.
func IsStatic(o interface{ Modifiers() Modifiers }) bool {
	return o.Modifiers().Has(ModStatic)
}

// IsInnerClass reports a non-static member, local or anonymous class: one
// that captures an enclosing instance and thus its type parameters.
func IsInnerClass(c ClassSymbol) bool {
	if c.EnclosingClass() == nil || c.IsInterface() || c.IsEnum() || c.IsRecord() {
		return false
	}
	return !c.Modifiers().Has(ModStatic)
}

// NestRoot returns the outermost enclosing class.
func NestRoot(c ClassSymbol) ClassSymbol {
	for c.EnclosingClass() != nil {
		c = c.EnclosingClass()
	}
	return c
}

// FindTypeParam looks a type variable up by name through the lexical chain
// of owners: the owner itself, then its enclosing method and classes.
func FindTypeParam(owner TypeParamOwner, name string) *TypeVar {
	for owner != nil {
		for _, tv := range owner.TypeParameters() {
			if tv.Name() == name {
				return tv
			}
		}
		if c, ok := owner.(ClassSymbol); ok {
			if m := c.EnclosingMethod(); m != nil {
				owner = m
				continue
			}
		}
		encl := owner.EnclosingClass()
		if encl == nil {
			return nil
		}
		owner = encl
	}
	return nil
}
