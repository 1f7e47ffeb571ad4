package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/testkit"
	"jsema/internal/types"
)

func TestLub(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	str := f.String()
	integer := f.Type(t, "java.lang.Integer")

	assert.Same(t, str, reg.Lub(str, reg.Null))
	assert.Same(t, reg.Null, reg.Lub(reg.Null, reg.Null))
	assert.Equal(t, "java.lang.Integer", reg.Lub(reg.Int, reg.Int).String())
	assert.Equal(t, "java.lang.Integer", reg.Lub(reg.Int, integer).String())
	assert.Same(t, reg.Error, reg.Lub(str, reg.Error))

	list := f.Type(t, "java.util.List", str)
	assert.Same(t, list, reg.Lub(f.Type(t, "java.util.ArrayList", str), list))

	arrays := reg.Lub(reg.Array(integer), reg.Array(f.Type(t, "java.lang.Long")))
	arr, ok := arrays.(*types.ArrayType)
	require.True(t, ok)
	assert.True(t, types.IsSubtype(arr.Component(), f.Type(t, "java.lang.Number")))
}

func TestLubOfSiblingsIsIntersection(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	integer := f.Type(t, "java.lang.Integer")
	long := f.Type(t, "java.lang.Long")

	lub := reg.Lub(integer, long)
	it, ok := lub.(*types.Intersection)
	require.True(t, ok, "got %s", lub)
	assert.Equal(t, "java.lang.Number", it.Primary().String())
	assert.True(t, types.IsSubtype(integer, lub))
	assert.True(t, types.IsSubtype(long, lub))

	var cmp *types.ClassType
	for _, c := range it.Components()[1:] {
		if ct, ok := c.(*types.ClassType); ok && ct.Symbol().BinaryName() == "java.lang.Comparable" {
			cmp = ct
		}
	}
	require.NotNil(t, cmp)
	w, ok := cmp.TypeArgs()[0].(*types.Wildcard)
	require.True(t, ok)
	assert.True(t, w.IsUpperBound(), "recursive parameterizations are cut with wildcards")
}

func TestLubFallsBackToObject(t *testing.T) {
	f := testkit.NewFixture(t, `
[[class]]
name = "demo.A"
access = ["public", "final"]

[[class]]
name = "demo.B"
access = ["public", "final"]
`)
	lub := f.Reg.Lub(f.Type(t, "demo.A"), f.Type(t, "demo.B"))
	assert.True(t, types.IsObject(lub))
}

func TestGlb(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	str := f.String()
	assert.Same(t, str, reg.Glb(reg.Object(), str))
	assert.Same(t, str, reg.Glb(str, f.Type(t, "java.lang.CharSequence")))

	both := reg.Glb(f.Type(t, "java.lang.Number"), f.Type(t, "java.lang.Runnable"))
	_, ok := both.(*types.Intersection)
	assert.True(t, ok)
	assert.Same(t, reg.Unresolved, reg.Glb(str, reg.Unresolved))
}
