package types

// IsSubtype reports t <: s (JLS 4.10). ERROR and UNRESOLVED are related to
// every type. When an inference variable is involved the relation is
// recorded as a bound on the variable and the answer is true.
func IsSubtype(t, s Type) bool {
	return subtyper{record: true}.sub(t, s, 0)
}

// IsSubtypeNoInfer is IsSubtype without bound recording: inference
// variables are only related to themselves.
func IsSubtypeNoInfer(t, s Type) bool {
	return subtyper{}.sub(t, s, 0)
}

// IsSameType is type equivalence, recording equality bounds on inference
// variables.
func IsSameType(t, s Type) bool {
	return subtyper{record: true}.same(t, s, 0)
}

// Contains reports that type argument s contains type argument t
// (JLS 4.5.1).
func Contains(s, t Type) bool {
	return subtyper{record: true}.contains(s, t, 0)
}

type subtyper struct {
	record bool
}

func (st subtyper) sub(t, s Type, depth int) bool {
	if t == s {
		return true
	}
	if depth > maxBoundDepth || t == nil || s == nil {
		return false
	}
	if IsErrorLike(t) || IsErrorLike(s) {
		return true
	}

	if sv, ok := s.(*InferenceVar); ok {
		if sv.inst != nil {
			return st.sub(t, sv.inst, depth+1)
		}
		if !st.record || !IsReference(t) {
			return false
		}
		if tv, ok := t.(*InferenceVar); ok {
			tv.AddBound(BoundUpper, sv)
		}
		sv.AddBound(BoundLower, t)
		return true
	}
	if tv, ok := t.(*InferenceVar); ok {
		if tv.inst != nil {
			return st.sub(tv.inst, s, depth+1)
		}
		if !st.record || !IsReference(s) {
			return false
		}
		tv.AddBound(BoundUpper, s)
		return true
	}

	switch x := t.(type) {
	case *Primitive:
		p, ok := s.(*Primitive)
		return ok && PrimitiveWidens(x.kind, p.kind)
	case *Sentinel:
		switch x.kind {
		case SentinelNull:
			return IsReference(s)
		case SentinelVoid:
			return IsVoid(s)
		}
		return false
	}
	if !IsReference(s) {
		return false
	}

	// lower bound of a captured variable
	if sv, ok := s.(*TypeVar); ok && sv.IsCaptured() {
		if lo := sv.LowerBound(); lo != nil && !IsSentinel(lo, SentinelNull) && st.sub(t, lo, depth+1) {
			return true
		}
	}
	if si, ok := s.(*Intersection); ok {
		for _, c := range si.components {
			if !st.sub(t, c, depth+1) {
				return false
			}
		}
		return true
	}

	switch x := t.(type) {
	case *TypeVar:
		if sv, ok := s.(*TypeVar); ok && Same(x, sv) {
			return true
		}
		return st.sub(x.UpperBound(), s, depth+1)
	case *Intersection:
		for _, c := range x.components {
			if st.sub(c, s, depth+1) {
				return true
			}
		}
		return false
	case *Wildcard:
		if x.upper {
			return st.sub(x.bound, s, depth+1)
		}
		return IsObject(s)
	}

	switch y := s.(type) {
	case *ClassType:
		return st.subClass(t, y, depth)
	case *ArrayType:
		ta, ok := t.(*ArrayType)
		if !ok {
			return false
		}
		tc, sc := ta.component, y.component
		if tp, ok := tc.(*Primitive); ok {
			sp, ok := sc.(*Primitive)
			return ok && tp.kind == sp.kind
		}
		if IsPrimitive(sc) {
			return false
		}
		return st.sub(tc, sc, depth+1)
	case *Wildcard:
		if y.upper {
			return st.sub(t, y.bound, depth+1)
		}
		return false
	}
	return false
}

func (st subtyper) subClass(t Type, s *ClassType, depth int) bool {
	if s.sym.IsUnresolved() {
		return true
	}
	if ct, ok := t.(*ClassType); ok && ct.sym.IsUnresolved() {
		return true
	}
	if IsObject(s) {
		return true
	}
	sup := AsSuper(t, s.sym)
	if sup == nil {
		return false
	}
	if len(s.args) == 0 {
		return true
	}
	if len(sup.args) == 0 {
		// raw to parameterized is an unchecked conversion, not subtyping
		return false
	}
	if len(sup.args) != len(s.args) {
		return false
	}
	for i := range s.args {
		if !st.contains(s.args[i], sup.args[i], depth+1) {
			return false
		}
	}
	if s.enclosing != nil && sup.enclosing != nil {
		return st.subClass(sup.enclosing, s.enclosing, depth+1)
	}
	return true
}

func (st subtyper) contains(s, t Type, depth int) bool {
	if depth > maxBoundDepth {
		return false
	}
	sw, sIsWild := s.(*Wildcard)
	tw, tIsWild := t.(*Wildcard)
	switch {
	case !sIsWild:
		return st.same(s, t, depth+1)
	case sw.upper:
		if sw.IsUnbounded() {
			return true
		}
		if tIsWild {
			if tw.upper {
				return st.sub(tw.bound, sw.bound, depth+1)
			}
			return IsObject(sw.bound)
		}
		return st.sub(t, sw.bound, depth+1)
	default:
		if tIsWild {
			return !tw.upper && st.sub(sw.bound, tw.bound, depth+1)
		}
		return st.sub(sw.bound, t, depth+1)
	}
}

func (st subtyper) same(t, s Type, depth int) bool {
	if t == s {
		return true
	}
	if depth > maxBoundDepth || t == nil || s == nil {
		return false
	}
	if IsErrorLike(t) || IsErrorLike(s) {
		return true
	}
	if sv, ok := s.(*InferenceVar); ok {
		if sv.inst != nil {
			return st.same(t, sv.inst, depth+1)
		}
		if !st.record {
			return false
		}
		sv.AddBound(BoundEq, t)
		if tv, ok := t.(*InferenceVar); ok {
			tv.AddBound(BoundEq, sv)
		}
		return true
	}
	if tv, ok := t.(*InferenceVar); ok {
		if tv.inst != nil {
			return st.same(tv.inst, s, depth+1)
		}
		if !st.record {
			return false
		}
		tv.AddBound(BoundEq, s)
		return true
	}
	switch x := t.(type) {
	case *ClassType:
		y, ok := s.(*ClassType)
		if !ok || !SameSymbol(x.sym, y.sym) || len(x.args) != len(y.args) {
			return false
		}
		for i := range x.args {
			if !st.same(x.args[i], y.args[i], depth+1) {
				return false
			}
		}
		return true
	case *ArrayType:
		y, ok := s.(*ArrayType)
		return ok && st.same(x.component, y.component, depth+1)
	case *Wildcard:
		y, ok := s.(*Wildcard)
		return ok && x.upper == y.upper && st.same(x.bound, y.bound, depth+1)
	case *Intersection:
		y, ok := s.(*Intersection)
		if !ok || len(x.components) != len(y.components) {
			return false
		}
		for i := range x.components {
			if !st.same(x.components[i], y.components[i], depth+1) {
				return false
			}
		}
		return true
	}
	return Same(t, s)
}

// PrimitiveWidens reports identity or widening primitive conversion from
// one kind to another (JLS 5.1.2).
func PrimitiveWidens(from, to PrimitiveKind) bool {
	if from == to {
		return true
	}
	switch from {
	case PrimByte:
		return to == PrimShort || to == PrimInt || to == PrimLong || to == PrimFloat || to == PrimDouble
	case PrimShort, PrimChar:
		return to == PrimInt || to == PrimLong || to == PrimFloat || to == PrimDouble
	case PrimInt:
		return to == PrimLong || to == PrimFloat || to == PrimDouble
	case PrimLong:
		return to == PrimFloat || to == PrimDouble
	case PrimFloat:
		return to == PrimDouble
	}
	return false
}

// IsStrictSubtype reports t <: s without t being the same type as s.
func IsStrictSubtype(t, s Type) bool {
	return !Same(t, s) && IsSubtypeNoInfer(t, s)
}
