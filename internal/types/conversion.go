package types

// UncheckedConversion classifies a raw-to-parameterized conversion.
type UncheckedConversion uint8

const (
	// UncheckedNone means no unchecked conversion exists.
	UncheckedNone UncheckedConversion = iota
	// UncheckedWarning is an unchecked conversion the compiler warns about.
	UncheckedWarning
	// UncheckedNoWarning is an unchecked conversion to C<?, ..., ?> or to a
	// raw type, which is silent.
	UncheckedNoWarning
)

func (u UncheckedConversion) String() string {
	switch u {
	case UncheckedWarning:
		return "WARNING"
	case UncheckedNoWarning:
		return "NO_WARNING"
	default:
		return "NONE"
	}
}

// UncheckedConversionExists classifies the unchecked conversion from from
// to to. Array types compare their components.
func UncheckedConversionExists(from, to Type) UncheckedConversion {
	if fa, ok := from.(*ArrayType); ok {
		if ta, ok := to.(*ArrayType); ok {
			return UncheckedConversionExists(fa.component, ta.component)
		}
	}
	fc, ok := from.(*ClassType)
	if !ok || !fc.IsRaw() {
		return UncheckedNone
	}
	tc, ok := to.(*ClassType)
	if !ok {
		return UncheckedNone
	}
	if AsSuper(fc, tc.sym) == nil {
		return UncheckedNone
	}
	// raw targets have no arguments and land here too
	for _, a := range tc.args {
		w, isWild := a.(*Wildcard)
		if !isWild || !w.IsUnbounded() {
			return UncheckedWarning
		}
	}
	return UncheckedNoWarning
}

// UnaryNumericPromotion unboxes t and widens byte, short and char to int.
// Other numeric types and UNRESOLVED pass through; anything else is ERROR.
func (r *Registry) UnaryNumericPromotion(t Type) Type {
	t = r.Unbox(t)
	if p, ok := t.(*Primitive); ok {
		switch p.kind {
		case PrimByte, PrimShort, PrimChar:
			return r.Int
		}
		if p.IsNumeric() {
			return p
		}
	}
	if t == Type(r.Unresolved) {
		return t
	}
	return r.Error
}

// BinaryNumericPromotion unboxes both operands and picks double, float, long
// or int. A non-numeric operand yields ERROR, including UNRESOLVED.
func (r *Registry) BinaryNumericPromotion(t, s Type) Type {
	t1 := r.Unbox(t)
	s1 := r.Unbox(s)
	switch {
	case t1 == Type(r.Double) || s1 == Type(r.Double):
		return r.Double
	case t1 == Type(r.Float) || s1 == Type(r.Float):
		return r.Float
	case t1 == Type(r.Long) || s1 == Type(r.Long):
		return r.Long
	case IsNumeric(t1) && IsNumeric(s1):
		return r.Int
	}
	return r.Error
}

// IsConvertible reports whether t converts to s by identity, widening,
// boxing or unboxing. ERROR and UNRESOLVED sources always convert.
func (r *Registry) IsConvertible(t, s Type) bool {
	if IsErrorLike(t) {
		return true
	}
	_, tIvar := t.(*InferenceVar)
	_, sIvar := s.(*InferenceVar)
	if tIvar || sIvar {
		return IsSubtype(r.Box(t), r.Box(s))
	}
	if IsPrimitive(t) == IsPrimitive(s) {
		return IsSubtype(t, s)
	}
	if IsPrimitive(t) {
		return IsSubtype(r.Box(t), s)
	}
	return IsSubtype(r.Unbox(t), s)
}

// IsAssignable is assignment compatibility for inference: convertible, or an
// unchecked conversion exists.
func (r *Registry) IsAssignable(t, s Type) bool {
	return r.IsConvertible(t, s) || UncheckedConversionExists(t, s) != UncheckedNone
}
