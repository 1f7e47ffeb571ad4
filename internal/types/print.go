package types

import "strings"

func typeString(t Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t Type) {
	switch x := t.(type) {
	case nil:
		b.WriteString("<nil>")
	case *ClassType:
		if x.enclosing != nil {
			writeType(b, x.enclosing)
			b.WriteByte('.')
			b.WriteString(x.sym.SimpleName())
		} else {
			b.WriteString(displayName(x.sym))
		}
		if len(x.args) > 0 {
			b.WriteByte('<')
			for i, a := range x.args {
				if i > 0 {
					b.WriteString(", ")
				}
				writeType(b, a)
			}
			b.WriteByte('>')
		}
	case *ArrayType:
		writeType(b, x.component)
		b.WriteString("[]")
	case *TypeVar:
		b.WriteString(x.Name())
	case *Wildcard:
		switch {
		case x.IsUnbounded():
			b.WriteByte('?')
		case x.upper:
			b.WriteString("? extends ")
			writeType(b, x.bound)
		default:
			b.WriteString("? super ")
			writeType(b, x.bound)
		}
	case *Intersection:
		for i, c := range x.components {
			if i > 0 {
				b.WriteString(" & ")
			}
			writeType(b, c)
		}
	default:
		b.WriteString(t.String())
	}
}

func displayName(sym ClassSymbol) string {
	if cn := sym.CanonicalName(); cn != "" {
		return cn
	}
	return sym.BinaryName()
}
