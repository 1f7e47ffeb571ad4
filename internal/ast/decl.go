package ast

import (
	"jsema/internal/source"
	"jsema/internal/types"
)

// ClassKind distinguishes the forms of a type declaration.
type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindAnnotation:
		return "@interface"
	default:
		return "class"
	}
}

// Import is one import declaration.
type Import struct {
	Name     string // fully qualified name, or package name when OnDemand
	Static   bool
	OnDemand bool
	Span     source.Span
}

// Unit is a compilation unit.
type Unit struct {
	Path    string
	File    source.FileID
	Package string
	Imports []*Import
	Types   []*ClassDecl
}

// TypeParamDecl declares a type parameter with its bounds.
type TypeParamDecl struct {
	Name   string
	Bounds []*TypeRef
	Span   source.Span
}

// ClassDecl is a class, interface, enum, record or annotation declaration.
// Anonymous class bodies are ClassDecls with Anonymous set and the
// instantiated type in Extends. Interfaces list the interfaces they extend
// in Implements.
type ClassDecl struct {
	Name       string
	Kind       ClassKind
	Modifiers  types.Modifiers
	TypeParams []*TypeParamDecl
	Extends    *TypeRef
	Implements []*TypeRef
	Fields     []*FieldDecl
	Methods    []*MethodDecl
	Nested     []*ClassDecl

	Components    []*RecordComponent
	EnumConstants []*EnumConstant

	Local     bool
	Anonymous bool
	Span      source.Span
}

// IsInterface reports interface and annotation declarations.
func (d *ClassDecl) IsInterface() bool {
	return d.Kind == KindInterface || d.Kind == KindAnnotation
}

// HasConstructor reports an explicitly declared constructor.
func (d *ClassDecl) HasConstructor() bool {
	for _, m := range d.Methods {
		if m.Constructor {
			return true
		}
	}
	return false
}

// RecordComponent is one component of a record header.
type RecordComponent struct {
	Name    string
	Type    *TypeRef
	Varargs bool
	Span    source.Span
}

// EnumConstant is a constant of an enum; Body is its class body, if any.
type EnumConstant struct {
	Name string
	Body *ClassDecl
	Span source.Span
}

// FieldDecl is a field declaration with a single declarator.
type FieldDecl struct {
	Name      string
	Modifiers types.Modifiers
	Type      *TypeRef
	Span      source.Span
}

// ParamDecl is a formal parameter. The last parameter of a varargs method
// has Varargs set and Type holds the element type.
type ParamDecl struct {
	Name    string
	Type    *TypeRef
	Varargs bool
	Span    source.Span
}

// MethodDecl is a method or constructor. Result is nil for void methods and
// for constructors.
type MethodDecl struct {
	Name        string
	Constructor bool
	Modifiers   types.Modifiers
	TypeParams  []*TypeParamDecl
	Params      []*ParamDecl
	Result      *TypeRef
	Throws      []*TypeRef
	HasBody     bool

	// LocalClasses are the local and anonymous classes declared in the body.
	LocalClasses []*ClassDecl
	Span         source.Span
}

// IsVarargs reports a variable arity method.
func (m *MethodDecl) IsVarargs() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Varargs
}
