package ast

import (
	"jsema/internal/source"
	"jsema/internal/types"
)

// Expr is an expression node. The set of variants is closed; dispatch with
// a type switch.
type Expr interface {
	Span() source.Span
	// ResolvedType is the type written back by resolution, nil before.
	ResolvedType() types.Type
	SetResolvedType(types.Type)
	exprNode()
}

// ExprBase carries the position and the resolved type slot.
type ExprBase struct {
	Pos      source.Span
	resolved types.Type
}

func (*ExprBase) exprNode() {}

// Span returns the source position.
func (e *ExprBase) Span() source.Span { return e.Pos }

// ResolvedType returns the written-back type.
func (e *ExprBase) ResolvedType() types.Type { return e.resolved }

// SetResolvedType records the type of the expression.
func (e *ExprBase) SetResolvedType(t types.Type) { e.resolved = t }

// LiteralKind classifies literals.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitLong
	LitFloat
	LitDouble
	LitBool
	LitChar
	LitString
	LitNull
)

// Literal is a literal constant.
type Literal struct {
	ExprBase
	Kind LiteralKind
	Text string
}

// Name is a simple name. Type is what the caller knows about the name
// (a local, a field, a parameter); names of implicitly typed lambda
// parameters leave it nil and are typed from the lambda's target.
type Name struct {
	ExprBase
	Ident string
	Type  types.Type
}

// FieldAccess is receiver.name.
type FieldAccess struct {
	ExprBase
	Receiver Expr
	Name     string
}

// Unary is a prefix or postfix operator: "-", "!", "~", "++", "--".
type Unary struct {
	ExprBase
	Op string
	X  Expr
}

// Binary is an infix operator.
type Binary struct {
	ExprBase
	Op   string
	X, Y Expr
}

// Assign is target = value, or a compound assignment when Op is set.
type Assign struct {
	ExprBase
	Op     string
	Target Expr
	Value  Expr
}

// Cast is (Type) X.
type Cast struct {
	ExprBase
	Type types.Type
	X    Expr
}

// Conditional is cond ? then : else.
type Conditional struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

// Switch is a switch expression reduced to its result expressions.
type Switch struct {
	ExprBase
	Selector Expr
	Results  []Expr
}

// LambdaParam is a lambda parameter. Type is nil for implicitly typed
// parameters; Resolved receives the type the parameter was given.
type LambdaParam struct {
	Name     string
	Type     types.Type
	Resolved types.Type
}

// Lambda is a lambda expression with either an expression body or a block.
type Lambda struct {
	ExprBase
	Params []*LambdaParam
	Body   Expr
	Block  *Block

	// FunctionalMethod receives the function type the lambda was typed against.
	FunctionalMethod *types.MethodSig
}

// MethodRef is Qualifier::Name. Exactly one of QualifierType and Receiver is
// set. Name is "new" for constructor references.
type MethodRef struct {
	ExprBase
	QualifierType types.Type
	Receiver      Expr
	Name          string
	TypeArgs      []types.Type
	// Context is the class the expression occurs in, for access checks.
	Context types.ClassSymbol

	// Exact caches the exact method of the reference (JLS 15.13.1).
	Exact types.Tri[*types.MethodSig]

	// CompileTimeDecl and FunctionalMethod receive the resolution result.
	CompileTimeDecl  *types.MethodSig
	FunctionalMethod *types.MethodSig
}

// IsConstructorRef reports C::new and T[]::new.
func (r *MethodRef) IsConstructorRef() bool { return r.Name == "new" }

// MethodCall is a method invocation. Receiver is the qualifying expression;
// QualifierType is set instead for Type.m(...) and super.m(...) forms. Both
// nil means an unqualified call resolved against Context.
type MethodCall struct {
	ExprBase
	Receiver      Expr
	QualifierType types.Type
	Name          string
	Args          []Expr
	TypeArgs      []types.Type
	Context       types.ClassSymbol

	// Method receives the chosen signature.
	Method *types.MethodSig
}

// New is a class instance creation. For the diamond form Type is the raw
// type and Diamond is set.
type New struct {
	ExprBase
	Type     *types.ClassType
	Diamond  bool
	Args     []Expr
	TypeArgs []types.Type
	Body     *ClassDecl
	Context  types.ClassSymbol

	Method *types.MethodSig
}

// Typed is an expression known only by its type. Method reference
// resolution uses it for the parameters of the function type.
type Typed struct {
	ExprBase
	Type types.Type
}

// IsPolyCapable reports whether an expression's type may depend on its
// target: lambdas, method references, conditionals and switches whose
// branches are, and generic invocations.
func IsPolyCapable(e Expr) bool {
	switch x := e.(type) {
	case *Lambda, *MethodRef:
		return true
	case *Conditional:
		return IsPolyCapable(x.Then) || IsPolyCapable(x.Else)
	case *Switch:
		for _, r := range x.Results {
			if IsPolyCapable(r) {
				return true
			}
		}
	case *MethodCall, *New:
		return true
	}
	return false
}

// IsStatementExpression reports the expressions allowed as an expression
// statement (JLS 14.8).
func IsStatementExpression(e Expr) bool {
	switch x := e.(type) {
	case *MethodCall, *New, *Assign:
		return true
	case *Unary:
		return x.Op == "++" || x.Op == "--"
	}
	return false
}
