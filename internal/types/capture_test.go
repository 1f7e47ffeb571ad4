package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/testkit"
	"jsema/internal/types"
)

func TestCaptureExtendsWildcard(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	num := f.Type(t, "java.lang.Number")
	w := reg.ExtendsWildcard(num)
	list := f.Type(t, "java.util.List", w)

	captured := types.CaptureClass(list)
	require.NotSame(t, list, captured)
	v, ok := captured.TypeArgs()[0].(*types.TypeVar)
	require.True(t, ok)
	assert.True(t, v.IsCaptured())
	assert.True(t, types.IsCaptureOf(v, w))
	assert.Equal(t, "java.lang.Number", v.UpperBound().String())
	assert.Same(t, reg.Null, v.LowerBound())

	assert.True(t, types.IsSubtype(captured, list))
	assert.True(t, types.IsSubtype(v, num))
	assert.False(t, types.IsSubtype(f.Type(t, "java.lang.Integer"), v))
}

func TestCaptureSuperWildcard(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	integer := f.Type(t, "java.lang.Integer")
	list := f.Type(t, "java.util.List", reg.SuperWildcard(integer))

	captured := types.CaptureClass(list)
	v := captured.TypeArgs()[0].(*types.TypeVar)
	assert.True(t, types.IsObject(v.UpperBound()))
	assert.Same(t, integer, v.LowerBound())
	assert.True(t, types.IsSubtype(integer, v), "a lower bound flows into the capture")
}

func TestCaptureIsIdentityWithoutWildcards(t *testing.T) {
	f := testkit.NewFixture(t)
	list := f.Type(t, "java.util.List", f.String())
	assert.Same(t, list, types.CaptureClass(list))
	assert.Same(t, f.String(), types.Capture(f.String()))
	assert.Same(t, f.Reg.Int, types.Capture(f.Reg.Int))

	captured := types.CaptureClass(f.Type(t, "java.util.List", f.Reg.UnboundedWildcard()))
	assert.Same(t, captured, types.CaptureClass(captured))
}

func TestCaptureUsesDeclaredBound(t *testing.T) {
	f := testkit.NewFixture(t, `
[[class]]
name = "demo.Sorted"
access = ["public"]
signature = "<T::Ljava/lang/Comparable<TT;>;>Ljava/lang/Object;"
`)
	sorted := f.Type(t, "demo.Sorted", f.Reg.UnboundedWildcard())
	v := types.CaptureClass(sorted).TypeArgs()[0].(*types.TypeVar)
	bound, ok := v.UpperBound().(*types.ClassType)
	require.True(t, ok)
	assert.Equal(t, "java.lang.Comparable", bound.Symbol().BinaryName())
	assert.Same(t, v, bound.TypeArgs()[0], "the bound refers to the capture itself")
}
