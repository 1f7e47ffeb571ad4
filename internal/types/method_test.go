package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/testkit"
	"jsema/internal/types"
)

func listOf(t *testing.T, f *testkit.Fixture, arity int) *types.MethodSig {
	t.Helper()
	for _, m := range types.StreamMethods(f.Reg.Declaration(f.Class(t, "java.util.List")), types.AccessibleMethodFilter("of", nil)) {
		if m.Arity() == arity && !m.IsVarargs() {
			return m
		}
	}
	t.Fatalf("no List.of/%d", arity)
	return nil
}

func TestInstantiateGenericMethod(t *testing.T) {
	f := testkit.NewFixture(t)
	of := listOf(t, f, 1)
	require.True(t, of.IsGeneric())
	require.True(t, of.IsStatic())

	tparams := of.TypeParameters()
	inst := of.Instantiate(types.NewSubst(tparams, []types.Type{f.String()}))
	assert.False(t, inst.IsGeneric())
	assert.Equal(t, "java.lang.String", inst.FormalParameters()[0].String())
	assert.Equal(t, "java.util.List<java.lang.String>", inst.ReturnType().String())
	assert.Same(t, of, inst.OriginalMethod())
	assert.True(t, inst.IsOverrideEquivalent(of))

	// the declaration view is untouched
	assert.Equal(t, "E", of.FormalParameters()[0].String())
}

func TestSubstAllKeepsTypeParameters(t *testing.T) {
	f := testkit.NewFixture(t)
	of := listOf(t, f, 2)
	tparams := of.TypeParameters()
	ivar := f.Reg.NewInferenceVar(tparams[0])

	viewed := of.SubstAll(types.NewSubst(tparams, []types.Type{ivar}))
	assert.True(t, viewed.IsGeneric())
	formals := viewed.FormalParameters()
	require.Len(t, formals, 2)
	assert.Same(t, ivar, formals[0])
	assert.Contains(t, viewed.ReturnType().String(), ivar.Name())
}

func TestWithReturnTypeAndOwner(t *testing.T) {
	f := testkit.NewFixture(t)
	list := f.Type(t, "java.util.List", f.String())
	get := types.StreamMethods(list, types.AccessibleMethodFilter("get", nil))[0]

	adapted := get.WithReturnType(f.Reg.Object())
	assert.True(t, types.IsObject(adapted.ReturnType()))
	assert.Same(t, get, adapted.OriginalMethod())

	other := get.WithOwner(f.Type(t, "java.util.List", f.Type(t, "java.lang.Integer")))
	assert.Equal(t, "java.lang.Integer", other.ReturnType().String())

	erased := get.Erasure()
	assert.True(t, erased.IsErased())
	assert.True(t, types.IsObject(erased.ReturnType()))
	assert.Equal(t, "java.util.List", erased.DeclaringType().String())
}

func TestVarargsSignatureString(t *testing.T) {
	f := testkit.NewFixture(t)
	var varargs *types.MethodSig
	for _, m := range types.StreamMethods(f.Reg.Declaration(f.Class(t, "java.util.List")), types.AccessibleMethodFilter("of", nil)) {
		if m.IsVarargs() {
			varargs = m
		}
	}
	require.NotNil(t, varargs)
	assert.Equal(t, "<E> java.util.List<E>.of(E...) -> java.util.List<E>", varargs.String())
}

func TestSymbolIdentity(t *testing.T) {
	f := testkit.NewFixture(t)
	list := f.Class(t, "java.util.List")
	assert.Equal(t, "java.util.List", types.SymbolKey(list))
	get := types.StreamMethods(f.Reg.Declaration(list), types.AccessibleMethodFilter("get", nil))[0]
	assert.Equal(t, "java.util.List#get(int)", types.SymbolKey(get.Symbol()))
	assert.True(t, types.SameSymbol(list, f.Class(t, "java.util.List")))
	assert.False(t, types.SameSymbol(list, f.Class(t, "java.util.Set")))

	a := f.Type(t, "java.util.List", f.String())
	b := f.Reg.Parameterize(list, []types.Type{f.Reg.StringType()})
	assert.True(t, types.Same(a, b))
	assert.False(t, types.Same(a, f.Type(t, "java.util.List", f.Reg.Object())))
	assert.False(t, types.Same(a, f.Type(t, "java.util.List")))
}
