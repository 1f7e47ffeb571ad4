package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/infer"
)

func TestListOfInfersFromTarget(t *testing.T) {
	f, e := newEngine(t)
	list := f.Type(t, "java.util.List")
	target := f.Type(t, "java.util.List", f.String())

	call := static(list, "of", strLit("a"), strLit("b"))
	sig := e.ResolveCall(call, target)

	require.False(t, f.Reg.IsUnresolvedMethod(sig))
	assert.Equal(t, 2, sig.Arity(), "fixed arity overload wins over varargs")
	assert.Equal(t, "java.util.List<java.lang.String>", sig.ReturnType().String())
	assert.Same(t, sig, call.Method)
	assert.Equal(t, "java.util.List<java.lang.String>", call.ResolvedType().String())
	assert.Empty(t, f.Codes())
}

func TestListOfBoxesWithoutTarget(t *testing.T) {
	f, e := newEngine(t)
	call := static(f.Type(t, "java.util.List"), "of", intLit("1"), intLit("2"))

	sig := e.ResolveCall(call, nil)
	assert.Equal(t, "java.util.List<java.lang.Integer>", sig.ReturnType().String())

	empty := static(f.Type(t, "java.util.List"), "of")
	sig = e.ResolveCall(empty, nil)
	assert.Equal(t, "java.util.List<java.lang.Object>", sig.ReturnType().String())
}

func TestVarargsPhase(t *testing.T) {
	f, e := newEngine(t)

	three := static(f.Type(t, "java.util.List"), "of", intLit("1"), intLit("2"), intLit("3"))
	sig := e.ResolveCall(three, nil)
	require.True(t, sig.IsVarargs())
	assert.Equal(t, "java.util.List<java.lang.Integer>", sig.ReturnType().String())

	asList := static(f.Type(t, "java.util.Arrays"), "asList", strLit("a"))
	sig = e.ResolveCall(asList, nil)
	assert.Equal(t, "java.util.List<java.lang.String>", sig.ReturnType().String())

	ps := typed(f.Type(t, "java.io.PrintStream"))
	printf := on(ps, "printf", strLit("%d %d"), intLit("1"), intLit("2"))
	sig = e.ResolveCall(printf, nil)
	require.False(t, f.Reg.IsUnresolvedMethod(sig))
	assert.Equal(t, "java.io.PrintStream", sig.ReturnType().String())
	assert.Empty(t, f.Codes())
}

func TestMostSpecificPrimitive(t *testing.T) {
	f, e := newEngine(t)
	math := f.Type(t, "java.lang.Math")

	sig := e.ResolveCall(static(math, "max", intLit("1"), intLit("2")), nil)
	assert.Same(t, f.Reg.Int, sig.ReturnType())

	sig = e.ResolveCall(static(math, "max", intLit("1"), longLit("2")), nil)
	assert.Same(t, f.Reg.Long, sig.ReturnType())
	assert.Empty(t, f.Codes())
}

func TestAmbiguousNullArgument(t *testing.T) {
	f, e := newEngine(t)
	call := on(typed(f.Type(t, "java.io.PrintStream")), "println", nullLit())

	sig := e.ResolveCall(call, nil)
	require.False(t, f.Reg.IsUnresolvedMethod(sig), "ambiguity still picks a method")
	assert.Equal(t, 1, f.CountCode(diag.InfAmbiguousMethod))
	assert.Equal(t, int64(1), e.Stats().Ambiguous)

	// String is more specific than Object
	ok := on(typed(f.Type(t, "java.io.PrintStream")), "println", strLit("x"))
	sig = e.ResolveCall(ok, nil)
	assert.Equal(t, "java.lang.String", sig.FormalParameters()[0].String())
	assert.Equal(t, 1, f.CountCode(diag.InfAmbiguousMethod))
}

func TestNoApplicableMethod(t *testing.T) {
	f, e := newEngine(t)
	call := static(f.Type(t, "java.lang.Math"), "max", strLit("a"))

	sig := e.ResolveCall(call, nil)
	assert.True(t, f.Reg.IsUnresolvedMethod(sig))
	assert.Same(t, f.Reg.Error, call.ResolvedType())
	assert.Equal(t, 1, f.CountCode(diag.InfNoApplicableMethod))
	assert.Equal(t, int64(1), e.Stats().Unresolved)

	ds := f.Bag.Items()
	require.NotEmpty(t, ds)
	assert.NotEmpty(t, ds[0].Notes, "candidates are listed")
}

func TestErrorReceiverIsQuiet(t *testing.T) {
	f, e := newEngine(t)
	call := on(typed(f.Reg.Error), "foo")

	sig := e.ResolveCall(call, nil)
	assert.True(t, f.Reg.IsUnresolvedMethod(sig))
	assert.Empty(t, f.Codes())
}

func TestPrimitiveReceiver(t *testing.T) {
	f, e := newEngine(t)
	call := on(intLit("1"), "foo")

	e.ResolveCall(call, nil)
	assert.Equal(t, []diag.Code{diag.InfUnresolvedReceiver}, f.Codes())
}

func TestNestedGenericCall(t *testing.T) {
	f, e := newEngine(t)
	inner := static(f.Type(t, "java.util.List"), "of", strLit("a"))
	outer := static(f.Type(t, "java.util.Objects"), "requireNonNull", inner)

	sig := e.ResolveCall(outer, nil)
	assert.Equal(t, "java.util.List<java.lang.String>", sig.ReturnType().String())
	require.NotNil(t, inner.Method, "nested invocation is written back")
	assert.Equal(t, "java.util.List<java.lang.String>", inner.ResolvedType().String())
}

func TestDiamondFromTarget(t *testing.T) {
	f, e := newEngine(t)
	n := &ast.New{Type: f.Type(t, "java.util.ArrayList"), Diamond: true}
	target := f.Type(t, "java.util.List", f.String())

	sig := e.ResolveNew(n, target)
	require.False(t, f.Reg.IsUnresolvedMethod(sig))
	assert.True(t, sig.IsConstructor())
	assert.Equal(t, "java.util.ArrayList<java.lang.String>", n.ResolvedType().String())
}

func TestDiamondFromArgument(t *testing.T) {
	f, e := newEngine(t)
	src := static(f.Type(t, "java.util.List"), "of", strLit("x"))
	n := &ast.New{Type: f.Type(t, "java.util.ArrayList"), Diamond: true, Args: exprs(src)}

	e.ResolveNew(n, nil)
	assert.Equal(t, "java.util.ArrayList<java.lang.String>", n.ResolvedType().String())
	assert.Empty(t, f.Codes())
}

func TestUncheckedInvocation(t *testing.T) {
	f, e := newEngine(t)
	raw := typed(f.Type(t, "java.util.List"))
	call := static(f.Type(t, "java.util.Collections"), "sort", raw)

	sig := e.ResolveCall(call, nil)
	require.False(t, f.Reg.IsUnresolvedMethod(sig))
	assert.True(t, sig.IsErased(), "unchecked invocations are erased")
	assert.Equal(t, 1, f.CountCode(diag.InfUncheckedConversion))
}

func TestGetClassAdaptsToReceiver(t *testing.T) {
	f, e := newEngine(t)
	call := on(typed(f.String()), "getClass")

	sig := e.ResolveCall(call, nil)
	assert.Equal(t, "java.lang.Class<? extends java.lang.String>", sig.ReturnType().String())
	assert.Equal(t, "java.lang.Class<? extends java.lang.String>", call.ResolvedType().String())

	list := on(typed(f.Type(t, "java.util.List", f.String())), "getClass")
	sig = e.ResolveCall(list, nil)
	assert.Equal(t, "java.lang.Class<? extends java.util.List>", sig.ReturnType().String(), "erased receiver")
}

func TestCallSiteQuiet(t *testing.T) {
	f, e := newEngine(t)
	site := &infer.CallSite{Name: "nothing", Quiet: true}

	sig := e.Resolve(site)
	assert.True(t, f.Reg.IsUnresolvedMethod(sig))
	assert.Empty(t, f.Codes())
}
