package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jsema/internal/testkit"
	"jsema/internal/types"
)

func TestUncheckedConversion(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	rawList := f.Type(t, "java.util.ArrayList")
	listOf := func(arg types.Type) types.Type { return f.Type(t, "java.util.List", arg) }

	assert.Equal(t, types.UncheckedWarning, types.UncheckedConversionExists(rawList, listOf(f.String())))
	assert.Equal(t, types.UncheckedNoWarning, types.UncheckedConversionExists(rawList, listOf(reg.UnboundedWildcard())))
	assert.Equal(t, types.UncheckedNoWarning, types.UncheckedConversionExists(rawList, f.Type(t, "java.util.List")))
	assert.Equal(t, types.UncheckedNone, types.UncheckedConversionExists(listOf(f.String()), listOf(f.String())))
	assert.Equal(t, types.UncheckedNone, types.UncheckedConversionExists(listOf(f.String()), listOf(f.Type(t, "java.lang.Integer"))))
	assert.Equal(t, types.UncheckedNone, types.UncheckedConversionExists(rawList, f.Type(t, "java.util.Map", f.String(), f.String())))
	assert.Equal(t, types.UncheckedWarning, types.UncheckedConversionExists(reg.Array(rawList), reg.Array(listOf(f.String()))))
	assert.Equal(t, "WARNING", types.UncheckedWarning.String())

	assert.True(t, reg.IsAssignable(rawList, listOf(f.String())))
	assert.False(t, types.IsSubtype(rawList, listOf(f.String())))
}

func TestNumericPromotion(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	integer := f.Type(t, "java.lang.Integer")
	double := f.Type(t, "java.lang.Double")

	assert.Same(t, reg.Int, reg.UnaryNumericPromotion(reg.Char))
	assert.Same(t, reg.Int, reg.UnaryNumericPromotion(reg.Byte))
	assert.Same(t, reg.Long, reg.UnaryNumericPromotion(reg.Long))
	assert.Same(t, reg.Double, reg.UnaryNumericPromotion(reg.Double))
	assert.Same(t, reg.Double, reg.UnaryNumericPromotion(double))
	assert.Same(t, reg.Int, reg.UnaryNumericPromotion(integer))
	assert.Same(t, reg.Error, reg.UnaryNumericPromotion(reg.Boolean))
	assert.Same(t, reg.Error, reg.UnaryNumericPromotion(f.String()))
	assert.Equal(t, types.Type(reg.Unresolved), reg.UnaryNumericPromotion(reg.Unresolved))

	assert.Same(t, reg.Int, reg.BinaryNumericPromotion(reg.Byte, reg.Short))
	assert.Same(t, reg.Double, reg.BinaryNumericPromotion(reg.Int, double))
	assert.Same(t, reg.Float, reg.BinaryNumericPromotion(reg.Float, reg.Long))
	assert.Same(t, reg.Long, reg.BinaryNumericPromotion(integer, reg.Long))
	assert.Same(t, reg.Error, reg.BinaryNumericPromotion(reg.Boolean, reg.Int))
	assert.Same(t, reg.Error, reg.BinaryNumericPromotion(reg.Unresolved, reg.Int))
}

func TestConvertible(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	integer := f.Type(t, "java.lang.Integer")
	long := f.Type(t, "java.lang.Long")

	cases := []struct {
		name string
		t, s types.Type
		want bool
	}{
		{"identity", reg.Int, reg.Int, true},
		{"widening", reg.Int, reg.Double, true},
		{"narrowing", reg.Double, reg.Int, false},
		{"boxing", reg.Int, integer, true},
		{"boxing then widening reference", reg.Int, f.Type(t, "java.lang.Number"), true},
		{"boxing to another box", reg.Int, long, false},
		{"unboxing then widening", integer, reg.Long, true},
		{"unboxing non-box", f.String(), reg.Int, false},
		{"error source", reg.Error, f.String(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reg.IsConvertible(tc.t, tc.s))
		})
	}
}

func TestBoxing(t *testing.T) {
	f := testkit.NewFixture(t)
	reg := f.Reg
	boxed := reg.Box(reg.Char)
	assert.Equal(t, "java.lang.Character", boxed.String())
	assert.Same(t, reg.Char, reg.Unbox(boxed))
	assert.Same(t, f.String(), reg.Box(f.String()))
	assert.True(t, types.IsBoxedPrimitive(boxed))
	assert.False(t, types.IsBoxedPrimitive(f.String()))
}
