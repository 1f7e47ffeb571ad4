package types

import "strings"

// SymbolKey is the canonical identity of a symbol: kind plus the names along
// its enclosing chain. Two views of the same declaration (binary stub and
// source) have the same key.
func SymbolKey(sym Symbol) string {
	if sym == nil {
		return ""
	}
	var b strings.Builder
	writeSymbolKey(&b, sym)
	return b.String()
}

func writeSymbolKey(b *strings.Builder, sym Symbol) {
	switch s := sym.(type) {
	case ClassSymbol:
		b.WriteString(s.BinaryName())
	case ExecutableSymbol:
		writeSymbolKey(b, s.EnclosingClass())
		b.WriteByte('#')
		if s.IsConstructor() {
			b.WriteString("<init>")
		} else {
			b.WriteString(s.SimpleName())
		}
		b.WriteByte('(')
		for i, p := range s.FormalParameterTypes(EmptySubst) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Erasure(p).String())
		}
		b.WriteByte(')')
	case FieldSymbol:
		writeSymbolKey(b, s.EnclosingClass())
		b.WriteByte('.')
		b.WriteString(s.SimpleName())
	case *TypeParam:
		writeSymbolKey(b, s.owner)
		b.WriteByte('<')
		b.WriteString(s.name)
	default:
		b.WriteString(sym.SimpleName())
	}
}

// SameSymbol compares symbols by canonical identity.
func SameSymbol(a, b Symbol) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	if a.SymbolKind() != b.SymbolKind() {
		return false
	}
	if ca, ok := a.(ClassSymbol); ok {
		cb, ok := b.(ClassSymbol)
		return ok && ca.BinaryName() == cb.BinaryName()
	}
	return SymbolKey(a) == SymbolKey(b)
}

// Same is structural type equality. Primitives, sentinels, inference
// variables and captured type variables compare by identity; declared type
// variables by declaration.
func Same(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch x := a.(type) {
	case *Primitive:
		y, ok := b.(*Primitive)
		return ok && x.kind == y.kind
	case *Sentinel:
		y, ok := b.(*Sentinel)
		return ok && x.kind == y.kind
	case *ClassType:
		y, ok := b.(*ClassType)
		if !ok || !SameSymbol(x.sym, y.sym) || len(x.args) != len(y.args) {
			return false
		}
		for i := range x.args {
			if !Same(x.args[i], y.args[i]) {
				return false
			}
		}
		if x.enclosing == nil || y.enclosing == nil {
			return true
		}
		return Same(x.enclosing, y.enclosing)
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && Same(x.component, y.component)
	case *TypeVar:
		y, ok := b.(*TypeVar)
		if !ok || x.IsCaptured() || y.IsCaptured() {
			return false
		}
		return x.param.name == y.param.name && x.param.index == y.param.index &&
			SameSymbol(x.param.owner, y.param.owner)
	case *Wildcard:
		y, ok := b.(*Wildcard)
		return ok && x.upper == y.upper && Same(x.bound, y.bound)
	case *Intersection:
		y, ok := b.(*Intersection)
		if !ok || len(x.components) != len(y.components) {
			return false
		}
		for _, c := range x.components {
			found := false
			for _, d := range y.components {
				if Same(c, d) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

// SameAll compares two type lists pairwise.
func SameAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}
