package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/diag"
	"jsema/internal/symbols"
	"jsema/internal/testkit"
	"jsema/internal/types"
)

const lazyIndex = `
schema = 1

[[class]]
name = "demo.Box"
access = ["public"]
signature = "<T:Ljava/lang/Number;>Ljava/lang/Object;Ljava/lang/Comparable<Ldemo/Box<TT;>;>;"

  [[class.field]]
  name = "value"
  access = ["public"]
  signature = "TT;"

  [[class.field]]
  name = "broken"
  access = ["public"]
  descriptor = "Q"

  [[class.method]]
  name = "<init>"
  access = ["public"]
  signature = "(TT;)V"
  params = ["value"]

  [[class.method]]
  name = "map"
  access = ["public"]
  signature = "<R:Ljava/lang/Number;>(Ljava/util/function/Function<-TT;+TR;>;)Ldemo/Box<TR;>;"
  params = ["fn"]

  [[class.method]]
  name = "bad"
  access = ["public"]
  descriptor = "(I"

  [[class.method]]
  name = "<clinit>"
  access = ["static"]
  descriptor = "()V"

[[class]]
name = "demo.Plain"
access = ["public", "weird"]
super = "java.lang.Number"
interfaces = ["java.io.Serializable"]

[[class]]
name = "demo.Plain$Inner"
access = ["public"]
outer = "demo.Plain"
kind = "member"

[[class]]
name = "demo.Plain$1"
access = ["static"]
outer = "demo.Plain"
kind = "anonymous"

[[class]]
name = "demo.Shape"
access = ["public", "interface"]

  [[class.method]]
  name = "area"
  access = ["abstract"]
  descriptor = "()D"
`

func stub(t *testing.T, f *testkit.Fixture, name string) *symbols.ClassStub {
	t.Helper()
	s, err := f.Loader.Stub(name)
	require.NoError(t, err)
	return s
}

func TestStubParsesLazily(t *testing.T) {
	f := testkit.NewFixture(t, lazyIndex)
	box := stub(t, f, "demo.Box")

	assert.False(t, box.HeaderParsed())
	assert.Equal(t, "Box", box.SimpleName())
	assert.Equal(t, "demo", box.PackageName())
	assert.False(t, box.HeaderParsed(), "names come from the record")

	methods := box.DeclaredMethods()
	require.Len(t, methods, 2, "<clinit> is not a member")
	for _, m := range methods {
		assert.False(t, m.(*symbols.MethodStub).Parsed())
	}

	require.Len(t, box.TypeParameters(), 1)
	assert.True(t, box.HeaderParsed())
	assert.Equal(t, "java.lang.Number", box.TypeParameters()[0].UpperBound().String())

	m := methods[0]
	assert.Equal(t, "map", m.SimpleName())
	assert.Equal(t, "demo.Box<R>", m.ReturnType(types.EmptySubst).String())
	assert.True(t, m.(*symbols.MethodStub).Parsed())
	assert.False(t, methods[1].(*symbols.MethodStub).Parsed(), "querying one member leaves the others alone")
	assert.Empty(t, f.Bag.Items())
}

func TestStubGenericHeader(t *testing.T) {
	f := testkit.NewFixture(t, lazyIndex)
	box := stub(t, f, "demo.Box")

	assert.Equal(t, "java.lang.Object", box.SuperclassType(types.EmptySubst).String())
	itfs := box.SuperInterfaceTypes(types.EmptySubst)
	require.Len(t, itfs, 1)
	assert.Equal(t, "java.lang.Comparable<demo.Box<T>>", itfs[0].String())

	ctors := box.Constructors()
	require.Len(t, ctors, 1)
	assert.Equal(t, types.SymConstructor, ctors[0].SymbolKind())
	assert.True(t, types.IsVoid(ctors[0].ReturnType(types.EmptySubst)))
	assert.Equal(t, []string{"value"}, ctors[0].ParameterNames())

	// instantiate as seen from Box<Integer>
	integer := f.Type(t, "java.lang.Integer")
	boxInt := f.Reg.Parameterize(box, []types.Type{integer})
	fields := box.DeclaredFields()
	require.Len(t, fields, 2)
	assert.Equal(t, "java.lang.Integer", fields[0].Type(types.TypeParamSubst(boxInt)).String())
}

func TestStubMalformedMemberReportedOnce(t *testing.T) {
	f := testkit.NewFixture(t, lazyIndex)
	box := stub(t, f, "demo.Box")

	var bad *symbols.MethodStub
	for _, m := range box.DeclaredMethods() {
		if m.SimpleName() == "bad" {
			bad = m.(*symbols.MethodStub)
		}
	}
	require.NotNil(t, bad)

	for i := 0; i < 3; i++ {
		assert.Same(t, f.Reg.Error, bad.ReturnType(types.EmptySubst))
		assert.Zero(t, bad.Arity())
	}
	require.Error(t, bad.Err())
	assert.Equal(t, 1, f.CountCode(diag.SymMalformedSignature))

	d := f.Bag.Items()[0]
	assert.Contains(t, d.Message, "demo.Box#bad")
	assert.Contains(t, d.Message, "expected ')' at offset 2")

	broken := box.DeclaredFields()[1]
	assert.Same(t, f.Reg.Error, broken.Type(types.EmptySubst))
	assert.Equal(t, 2, f.CountCode(diag.SymMalformedSignature))

	// the span narrows to the offending character inside the literal
	d = f.Bag.Items()[1]
	assert.Equal(t, uint32(1), d.Primary.Len())
	file := f.Files.Get(d.Primary.File)
	assert.Equal(t, "Q", string(file.Content[d.Primary.Start:d.Primary.End]))
}

func TestStubErasedSupertypes(t *testing.T) {
	f := testkit.NewFixture(t, lazyIndex)
	plain := stub(t, f, "demo.Plain")

	assert.Equal(t, "java.lang.Number", plain.SuperclassType(types.EmptySubst).String())
	itfs := plain.SuperInterfaceTypes(types.EmptySubst)
	require.Len(t, itfs, 1)
	assert.Equal(t, "java.io.Serializable", itfs[0].String())
	assert.Equal(t, 1, f.CountCode(diag.SymBadAccessFlags))

	nested := plain.DeclaredClasses()
	require.Len(t, nested, 1, "anonymous classes are not members")
	assert.Equal(t, "demo.Plain.Inner", nested[0].CanonicalName())
	assert.Same(t, plain, nested[0].EnclosingClass())

	anon := stub(t, f, "demo.Plain$1")
	assert.True(t, anon.IsAnonymous())
	assert.Empty(t, anon.SimpleName())
	assert.Empty(t, anon.CanonicalName())
	assert.False(t, types.IsStatic(anon))
}

func TestStubInterfaceMethodsDefaultPublic(t *testing.T) {
	f := testkit.NewFixture(t, lazyIndex)
	shape := stub(t, f, "demo.Shape")

	assert.True(t, shape.IsInterface())
	assert.Nil(t, shape.SuperclassType(types.EmptySubst))
	area := shape.DeclaredMethods()[0]
	assert.True(t, area.Modifiers().Has(types.ModPublic))
	assert.True(t, area.Modifiers().Has(types.ModAbstract))
	assert.True(t, types.IsFunctionalInterface(f.Reg.Declaration(shape)))
}

func TestPlatformNestedNames(t *testing.T) {
	f := testkit.NewFixture(t)
	entry := f.Class(t, "java.util.Map.Entry")

	assert.Equal(t, "java.util.Map$Entry", entry.BinaryName())
	assert.Equal(t, "java.util.Map.Entry", entry.CanonicalName())
	assert.Equal(t, "Entry", entry.SimpleName())
	assert.True(t, types.IsStatic(entry))

	entries := f.Type(t, "java.util.Map").Symbol().DeclaredMethods()
	var ret types.Type
	for _, m := range entries {
		if m.SimpleName() == "entrySet" {
			ret = m.ReturnType(types.EmptySubst)
		}
	}
	require.NotNil(t, ret)
	assert.Equal(t, "java.util.Set<java.util.Map.Entry<K, V>>", ret.String())
}

func TestStubUnknownClassesBecomeUnresolved(t *testing.T) {
	f := testkit.NewFixture(t, `
[[class]]
name = "demo.Uses"
access = ["public"]

  [[class.method]]
  name = "get"
  access = ["public"]
  signature = "()Lcom/acme/Missing<Ljava/lang/String;>;"
`)
	uses := stub(t, f, "demo.Uses")
	ret := uses.DeclaredMethods()[0].ReturnType(types.EmptySubst)
	ct, ok := ret.(*types.ClassType)
	require.True(t, ok)
	assert.True(t, ct.Symbol().IsUnresolved())
	assert.Equal(t, "com.acme.Missing<java.lang.String>", ct.String())
	assert.Contains(t, f.Reg.Factory().UnresolvedNames(), "com.acme.Missing")
}

func TestLoaderStubNotFound(t *testing.T) {
	f := testkit.NewFixture(t)
	_, err := f.Loader.Stub("no.such.Thing")
	require.ErrorIs(t, err, symbols.ErrNotFound)
}
