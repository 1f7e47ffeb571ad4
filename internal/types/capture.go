package types

// Capture applies capture conversion (JLS 5.1.10). Anything but a class type
// with a wildcard argument is returned as is, which makes Capture idempotent
// on its own results.
func Capture(t Type) Type {
	ct, ok := t.(*ClassType)
	if !ok {
		return t
	}
	return CaptureClass(ct)
}

// CaptureClass is Capture for class types.
func CaptureClass(ct *ClassType) *ClassType {
	if ct == nil || !HasWildcardArgs(ct) {
		return ct
	}
	params := ct.sym.TypeParameters()
	if len(params) != len(ct.args) {
		return ct
	}
	reg := ct.sym.Registry()

	fresh := make([]Type, len(ct.args))
	for i, arg := range ct.args {
		if w, ok := arg.(*Wildcard); ok {
			fresh[i] = &TypeVar{reg: reg, id: reg.nextID(), captured: w}
			continue
		}
		fresh[i] = arg
	}
	// bounds may mention the fresh variables themselves, as in
	// <T extends Comparable<T>>
	s := NewSubst(params, fresh)
	for i, arg := range ct.args {
		w, ok := arg.(*Wildcard)
		if !ok {
			continue
		}
		v := fresh[i].(*TypeVar)
		declared := Subst(params[i].UpperBound(), s)
		switch {
		case w.IsUnbounded():
			v.setBounds(declared, reg.Null)
		case w.upper:
			v.setBounds(reg.Glb(declared, w.bound), reg.Null)
		default:
			v.setBounds(declared, w.bound)
		}
	}
	reg.tracePoint("capture", ct.String())
	return &ClassType{sym: ct.sym, args: fresh, enclosing: ct.enclosing}
}

// IsCaptureOf reports that t is a captured variable standing for w.
func IsCaptureOf(t Type, w *Wildcard) bool {
	v, ok := t.(*TypeVar)
	return ok && v.captured == w
}
