package types

import "strings"

// SymbolKind classifies a declared entity.
type SymbolKind uint8

const (
	SymInvalid SymbolKind = iota
	SymClass
	SymMethod
	SymConstructor
	SymField
	SymTypeParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymClass:
		return "class"
	case SymMethod:
		return "method"
	case SymConstructor:
		return "constructor"
	case SymField:
		return "field"
	case SymTypeParam:
		return "type-param"
	default:
		return "invalid"
	}
}

// Modifiers mirrors class-file access flags. Source-backed symbols translate
// their modifiers into the same bit set so both backings answer alike.
type Modifiers uint32

const (
	ModPublic       Modifiers = 0x0001
	ModPrivate      Modifiers = 0x0002
	ModProtected    Modifiers = 0x0004
	ModStatic       Modifiers = 0x0008
	ModFinal        Modifiers = 0x0010
	ModSynchronized Modifiers = 0x0020
	ModBridge       Modifiers = 0x0040
	ModVarargs      Modifiers = 0x0080
	ModNative       Modifiers = 0x0100
	ModInterface    Modifiers = 0x0200
	ModAbstract     Modifiers = 0x0400
	ModStrict       Modifiers = 0x0800
	ModSynthetic    Modifiers = 0x1000
	ModAnnotation   Modifiers = 0x2000
	ModEnum         Modifiers = 0x4000
	ModRecord       Modifiers = 0x10000
	// ModDefault has no class-file counterpart; it marks default interface methods.
	ModDefault Modifiers = 0x100000
)

// Has reports whether all bits of m2 are set.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// AccessMask keeps only the visibility bits.
const AccessMask = ModPublic | ModPrivate | ModProtected

// Strings returns a slice of textual flag labels.
func (m Modifiers) Strings() []string {
	if m == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	add := func(flag Modifiers, label string) {
		if m&flag != 0 {
			labels = append(labels, label)
		}
	}
	add(ModPublic, "public")
	add(ModProtected, "protected")
	add(ModPrivate, "private")
	add(ModAbstract, "abstract")
	add(ModStatic, "static")
	add(ModFinal, "final")
	add(ModDefault, "default")
	add(ModSynchronized, "synchronized")
	add(ModNative, "native")
	return labels
}

func (m Modifiers) String() string {
	return strings.Join(m.Strings(), " ")
}

// PrimitiveKind enumerates the eight primitive types.
type PrimitiveKind uint8

const (
	PrimBoolean PrimitiveKind = iota + 1
	PrimChar
	PrimByte
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimBoolean:
		return "boolean"
	case PrimChar:
		return "char"
	case PrimByte:
		return "byte"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	default:
		return "?"
	}
}

// Descriptor returns the one-letter class-file descriptor.
func (k PrimitiveKind) Descriptor() byte {
	switch k {
	case PrimBoolean:
		return 'Z'
	case PrimChar:
		return 'C'
	case PrimByte:
		return 'B'
	case PrimShort:
		return 'S'
	case PrimInt:
		return 'I'
	case PrimLong:
		return 'J'
	case PrimFloat:
		return 'F'
	case PrimDouble:
		return 'D'
	default:
		return 0
	}
}

// BoxName is the binary name of the wrapper class.
func (k PrimitiveKind) BoxName() string {
	switch k {
	case PrimBoolean:
		return "java.lang.Boolean"
	case PrimChar:
		return "java.lang.Character"
	case PrimByte:
		return "java.lang.Byte"
	case PrimShort:
		return "java.lang.Short"
	case PrimInt:
		return "java.lang.Integer"
	case PrimLong:
		return "java.lang.Long"
	case PrimFloat:
		return "java.lang.Float"
	case PrimDouble:
		return "java.lang.Double"
	default:
		return ""
	}
}

// IsNumeric reports whether the kind takes part in numeric promotion.
func (k PrimitiveKind) IsNumeric() bool {
	return k != PrimBoolean && k != 0
}

// SentinelKind enumerates the special descriptors.
type SentinelKind uint8

const (
	SentinelError SentinelKind = iota + 1
	SentinelUnresolved
	SentinelNull
	SentinelVoid
)

func (k SentinelKind) String() string {
	switch k {
	case SentinelError:
		return "*error*"
	case SentinelUnresolved:
		return "*unresolved*"
	case SentinelNull:
		return "null"
	case SentinelVoid:
		return "void"
	default:
		return "?"
	}
}
