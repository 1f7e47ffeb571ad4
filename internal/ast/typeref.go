package ast

import (
	"strings"

	"jsema/internal/source"
)

// WildcardKind tells a type argument apart from a wildcard.
type WildcardKind uint8

const (
	NotWildcard WildcardKind = iota
	WildcardUnbounded
	WildcardExtends
	WildcardSuper
)

// TypeRef is a syntactic type: a primitive or class name with arguments and
// array dimensions, or a wildcard in argument position. Name is the text as
// written: "int", "List", "java.util.Map.Entry", "T".
type TypeRef struct {
	Name     string
	Args     []*TypeRef
	Dims     int
	Wildcard WildcardKind
	// Bound is the bound of an extends or super wildcard.
	Bound *TypeRef
	// Outer is set for Outer<A>.Inner<B>; Name is then the inner simple name.
	Outer *TypeRef
	Span  source.Span
}

// Named returns a non-generic reference to name.
func Named(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Name: name, Args: args}
}

// ArrayOf returns ref with dims extra dimensions.
func ArrayOf(ref *TypeRef, dims int) *TypeRef {
	cp := *ref
	cp.Dims += dims
	return &cp
}

func (r *TypeRef) String() string {
	var b strings.Builder
	r.write(&b)
	return b.String()
}

func (r *TypeRef) write(b *strings.Builder) {
	switch r.Wildcard {
	case WildcardUnbounded:
		b.WriteByte('?')
		return
	case WildcardExtends:
		b.WriteString("? extends ")
		r.Bound.write(b)
		return
	case WildcardSuper:
		b.WriteString("? super ")
		r.Bound.write(b)
		return
	}
	if r.Outer != nil {
		r.Outer.write(b)
		b.WriteByte('.')
	}
	b.WriteString(r.Name)
	if len(r.Args) > 0 {
		b.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
	for i := 0; i < r.Dims; i++ {
		b.WriteString("[]")
	}
}
