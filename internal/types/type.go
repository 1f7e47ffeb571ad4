package types

import (
	"fmt"
	"sync"
)

// Type describes a use of a declaration. The set of implementations is
// closed: *Primitive, *ClassType, *ArrayType, *TypeVar, *InferenceVar,
// *Wildcard, *Intersection and *Sentinel. Dispatch with a type switch.
type Type interface {
	fmt.Stringer
	// Symbol is the class symbol of the type, nil when there is none
	// (type variables, wildcards, sentinels, arrays of type variables).
	Symbol() ClassSymbol
	isType()
}

// Primitive is one of the eight primitive types. Singleton per registry.
type Primitive struct {
	reg  *Registry
	kind PrimitiveKind
	sym  *primitiveSymbol
}

func (*Primitive) isType() {}

// Kind returns the primitive kind.
func (p *Primitive) Kind() PrimitiveKind { return p.kind }

// Symbol returns the primitive's pseudo class symbol.
func (p *Primitive) Symbol() ClassSymbol { return p.sym }

func (p *Primitive) String() string { return p.kind.String() }

// IsNumeric reports whether the primitive is numeric (everything but boolean).
func (p *Primitive) IsNumeric() bool { return p.kind.IsNumeric() }

// Sentinel is a special descriptor: ERROR, UNRESOLVED, the null type or void.
type Sentinel struct {
	reg  *Registry
	kind SentinelKind
}

func (*Sentinel) isType() {}

// Kind returns the sentinel kind.
func (s *Sentinel) Kind() SentinelKind { return s.kind }

// Symbol always returns nil.
func (*Sentinel) Symbol() ClassSymbol { return nil }

func (s *Sentinel) String() string { return s.kind.String() }

// ClassType is a class or interface type, possibly parameterized or raw.
type ClassType struct {
	sym       ClassSymbol
	args      []Type
	enclosing *ClassType
}

func (*ClassType) isType() {}

// Symbol returns the declaration symbol.
func (c *ClassType) Symbol() ClassSymbol { return c.sym }

// TypeArgs returns the type arguments; empty for raw and non-generic types.
func (c *ClassType) TypeArgs() []Type { return c.args }

// Enclosing returns the enclosing type of an inner class type, if tracked.
func (c *ClassType) Enclosing() *ClassType { return c.enclosing }

// FormalTypeParams returns the type parameters of the declaration.
func (c *ClassType) FormalTypeParams() []*TypeVar { return c.sym.TypeParameters() }

// IsParameterized reports whether type arguments are present.
func (c *ClassType) IsParameterized() bool { return len(c.args) > 0 }

// IsRaw reports a use of a generic declaration without type arguments, or a
// member type selected from a raw enclosing type.
func (c *ClassType) IsRaw() bool {
	if len(c.args) == 0 && len(c.sym.TypeParameters()) > 0 {
		return true
	}
	return c.enclosing != nil && c.enclosing.IsRaw()
}

// IsGenericDeclaration reports whether the type is C<T1..Tn> over the
// declaration's own type parameters.
func (c *ClassType) IsGenericDeclaration() bool {
	params := c.sym.TypeParameters()
	if len(params) == 0 || len(params) != len(c.args) {
		return false
	}
	for i, p := range params {
		if c.args[i] != Type(p) {
			return false
		}
	}
	return true
}

// IsInterface forwards to the symbol.
func (c *ClassType) IsInterface() bool { return c.sym.IsInterface() }

// WithTypeArgs returns the same class applied to other arguments.
func (c *ClassType) WithTypeArgs(args []Type) *ClassType {
	return &ClassType{sym: c.sym, args: args, enclosing: c.enclosing}
}

func (c *ClassType) String() string { return typeString(c) }

// ArrayType is an array of a component type.
type ArrayType struct {
	reg       *Registry
	component Type

	once sync.Once
	sym  ClassSymbol
}

func (*ArrayType) isType() {}

// Component returns the component type (one dimension down).
func (a *ArrayType) Component() Type { return a.component }

// Element returns the innermost non-array component.
func (a *ArrayType) Element() Type {
	var t Type = a
	for {
		arr, ok := t.(*ArrayType)
		if !ok {
			return t
		}
		t = arr.component
	}
}

// Dimensions counts nested array levels.
func (a *ArrayType) Dimensions() int {
	n := 0
	var t Type = a
	for {
		arr, ok := t.(*ArrayType)
		if !ok {
			return n
		}
		n++
		t = arr.component
	}
}

// Symbol returns the array symbol. Arrays of type variables use the symbol
// of the erased component; arrays of sentinels have none.
func (a *ArrayType) Symbol() ClassSymbol {
	a.once.Do(func() {
		var comp ClassSymbol
		switch c := a.component.(type) {
		case *Primitive, *ClassType, *ArrayType:
			comp = c.Symbol()
		default:
			comp = Erasure(c).Symbol()
		}
		if comp != nil {
			a.sym = a.reg.factory.ArraySymbol(comp)
		}
	})
	return a.sym
}

func (a *ArrayType) String() string { return typeString(a) }

// TypeParam is the declaration of a type variable. It is a symbol in its own
// right, owned by a class or executable.
type TypeParam struct {
	name  string
	owner TypeParamOwner
	index int
	bound *Lazy[Type]
}

// SimpleName returns the parameter name.
func (p *TypeParam) SimpleName() string { return p.name }

// SymbolKind returns SymTypeParam.
func (p *TypeParam) SymbolKind() SymbolKind { return SymTypeParam }

// Registry returns the owner's registry.
func (p *TypeParam) Registry() *Registry { return p.owner.Registry() }

// Owner returns the declaring symbol.
func (p *TypeParam) Owner() TypeParamOwner { return p.owner }

// Index is the position in the owner's type parameter list.
func (p *TypeParam) Index() int { return p.index }

// TypeVar is a type variable: either declared (Param != nil) or produced by
// capture conversion (CapturedWildcard != nil).
type TypeVar struct {
	param *TypeParam

	// captured variables only
	reg      *Registry
	id       uint64
	captured *Wildcard
	mu       sync.RWMutex
	upper    Type
	lower    Type
}

func (*TypeVar) isType() {}

// NewTypeParam declares a type variable on owner. bound is evaluated lazily
// on first access so bounds may refer to the variable itself or to classes
// not loaded yet. A nil bound means Object.
func NewTypeParam(owner TypeParamOwner, name string, index int, bound func() Type) *TypeVar {
	p := &TypeParam{name: name, owner: owner, index: index}
	p.bound = NewLazy(func() Type {
		if bound == nil {
			return owner.Registry().Object()
		}
		b := bound()
		if b == nil {
			return owner.Registry().Object()
		}
		return b
	})
	return &TypeVar{param: p}
}

// Param returns the declaration, nil for captured variables.
func (v *TypeVar) Param() *TypeParam { return v.param }

// IsCaptured reports a variable produced by capture conversion.
func (v *TypeVar) IsCaptured() bool { return v.param == nil }

// CapturedWildcard returns the wildcard a captured variable stands for.
func (v *TypeVar) CapturedWildcard() *Wildcard { return v.captured }

// Name returns the declared name, or a synthetic capture name.
func (v *TypeVar) Name() string {
	if v.param != nil {
		return v.param.name
	}
	return fmt.Sprintf("capture#%d", v.id)
}

// UpperBound returns the declared bound (Object when absent).
func (v *TypeVar) UpperBound() Type {
	if v.param != nil {
		return v.param.bound.Get()
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.upper
}

// LowerBound returns the null type for declared variables.
func (v *TypeVar) LowerBound() Type {
	if v.param != nil {
		return v.param.owner.Registry().Null
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lower
}

func (v *TypeVar) setBounds(upper, lower Type) {
	v.mu.Lock()
	v.upper = upper
	v.lower = lower
	v.mu.Unlock()
}

// Symbol returns nil; use Param for the declaration.
func (*TypeVar) Symbol() ClassSymbol { return nil }

func (v *TypeVar) String() string { return typeString(v) }

// Wildcard is a type argument ?, ? extends B or ? super B.
type Wildcard struct {
	upper bool
	bound Type
}

func (*Wildcard) isType() {}

// IsUpperBound reports ? or ? extends B.
func (w *Wildcard) IsUpperBound() bool { return w.upper }

// IsUnbounded reports ? (equivalently ? extends Object).
func (w *Wildcard) IsUnbounded() bool {
	return w.upper && IsObject(w.bound)
}

// Bound returns B, or Object for ?.
func (w *Wildcard) Bound() Type { return w.bound }

// Symbol always returns nil.
func (*Wildcard) Symbol() ClassSymbol { return nil }

func (w *Wildcard) String() string { return typeString(w) }

// Intersection is T1 & ... & Tn. The primary bound is a class type or a
// type variable; the rest are interfaces.
type Intersection struct {
	components []Type
	sym        ClassSymbol
}

func (*Intersection) isType() {}

// Components returns all bounds, primary first.
func (it *Intersection) Components() []Type { return it.components }

// Primary returns the first bound.
func (it *Intersection) Primary() Type { return it.components[0] }

// Symbol returns the synthesized intersection symbol.
func (it *Intersection) Symbol() ClassSymbol { return it.sym }

func (it *Intersection) String() string { return typeString(it) }

// BoundKind classifies inference variable bounds.
type BoundKind uint8

const (
	BoundUpper BoundKind = iota
	BoundLower
	BoundEq
)

// InferenceVar is a placeholder solved during generic method inference.
// It is confined to one resolution and never shared across goroutines.
type InferenceVar struct {
	reg    *Registry
	id     uint64
	origin *TypeVar
	bounds [3][]Type
	inst   Type
}

func (*InferenceVar) isType() {}

// Origin is the type parameter the variable was created for.
func (v *InferenceVar) Origin() *TypeVar { return v.origin }

// Name is a unique display name.
func (v *InferenceVar) Name() string {
	if v.origin != nil {
		return fmt.Sprintf("α%d(%s)", v.id, v.origin.Name())
	}
	return fmt.Sprintf("α%d", v.id)
}

// Bounds returns the bounds of one kind.
func (v *InferenceVar) Bounds(kind BoundKind) []Type { return v.bounds[kind] }

// AddBound records a bound, ignoring duplicates and the variable itself.
func (v *InferenceVar) AddBound(kind BoundKind, t Type) {
	if t == nil || t == Type(v) {
		return
	}
	for _, b := range v.bounds[kind] {
		if Same(b, t) {
			return
		}
	}
	v.bounds[kind] = append(v.bounds[kind], t)
}

// Inst returns the solution, nil while unsolved.
func (v *InferenceVar) Inst() Type { return v.inst }

// SetInst records the solution.
func (v *InferenceVar) SetInst(t Type) { v.inst = t }

// Symbol always returns nil.
func (*InferenceVar) Symbol() ClassSymbol { return nil }

func (v *InferenceVar) String() string { return v.Name() }

// SubstVar is a type that can be the key of a substitution.
type SubstVar interface {
	Type
	substVar()
}

func (*TypeVar) substVar()      {}
func (*InferenceVar) substVar() {}

// IsPrimitive reports a primitive type.
func IsPrimitive(t Type) bool {
	_, ok := t.(*Primitive)
	return ok
}

// IsPrimitiveKind reports a primitive of the given kind.
func IsPrimitiveKind(t Type, k PrimitiveKind) bool {
	p, ok := t.(*Primitive)
	return ok && p.kind == k
}

// IsNumeric reports a numeric primitive.
func IsNumeric(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.IsNumeric()
}

// IsSentinel reports a sentinel of the given kind.
func IsSentinel(t Type, k SentinelKind) bool {
	s, ok := t.(*Sentinel)
	return ok && s.kind == k
}

// IsErrorLike reports ERROR or UNRESOLVED.
func IsErrorLike(t Type) bool {
	return IsSentinel(t, SentinelError) || IsSentinel(t, SentinelUnresolved)
}

// IsVoid reports the void pseudo type.
func IsVoid(t Type) bool { return IsSentinel(t, SentinelVoid) }

// IsObject reports java.lang.Object.
func IsObject(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.sym.BinaryName() == "java.lang.Object"
}

// IsTypeVariable reports a type variable (declared or captured).
func IsTypeVariable(t Type) bool {
	_, ok := t.(*TypeVar)
	return ok
}

// IsReference reports any non-primitive, non-void type.
func IsReference(t Type) bool {
	switch x := t.(type) {
	case *Primitive:
		return false
	case *Sentinel:
		return x.kind != SentinelVoid
	default:
		return true
	}
}
