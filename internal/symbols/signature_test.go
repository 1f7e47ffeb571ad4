package symbols

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/types"
)

func TestParseMethodDescriptor(t *testing.T) {
	ms, err := parseMethodSignature("(I[Ljava/lang/String;J)V")
	require.NoError(t, err)
	require.Len(t, ms.params, 3)
	assert.Equal(t, sigBase, ms.params[0].kind)
	assert.Equal(t, types.PrimInt, ms.params[0].base)
	assert.Equal(t, sigArray, ms.params[1].kind)
	assert.Equal(t, "java.lang.String", ms.params[1].elem.name)
	assert.Equal(t, types.PrimLong, ms.params[2].base)
	assert.Equal(t, sigVoid, ms.ret.kind)
	assert.Empty(t, ms.typeParams)
}

func TestParseGenericMethodSignature(t *testing.T) {
	sig := "<T:Ljava/lang/Object;U::Ljava/lang/Comparable<-TU;>;>(Ljava/util/function/Function<-TT;+TU;>;)Ljava/util/Comparator<TT;>;^Ljava/io/IOException;"
	ms, err := parseMethodSignature(sig)
	require.NoError(t, err)
	require.Len(t, ms.typeParams, 2)
	assert.Equal(t, "T", ms.typeParams[0].name)
	require.Len(t, ms.typeParams[1].bounds, 2)
	assert.Nil(t, ms.typeParams[1].bounds[0], "U has no class bound")
	assert.Equal(t, "java.lang.Comparable", ms.typeParams[1].bounds[1].name)

	fn := ms.params[0]
	assert.Equal(t, "java.util.function.Function", fn.name)
	require.Len(t, fn.args, 2)
	assert.Equal(t, sigSuperBound, fn.args[0].kind)
	assert.Equal(t, sigExtendsBound, fn.args[1].kind)
	assert.Equal(t, "U", fn.args[1].elem.name)

	require.Len(t, ms.throws, 1)
	assert.Equal(t, "java.io.IOException", ms.throws[0].name)
}

func TestParseInnerClassSignature(t *testing.T) {
	typ, err := parseFieldSignature("Ljava/util/Outer<TK;>.Inner<*>;")
	require.NoError(t, err)
	assert.Equal(t, "java.util.Outer$Inner", typ.name)
	require.NotNil(t, typ.outer)
	assert.Equal(t, "java.util.Outer", typ.outer.name)
	require.Len(t, typ.args, 1)
	assert.Equal(t, sigWildcard, typ.args[0].kind)
}

func TestParseClassSignature(t *testing.T) {
	cs, err := parseClassSignature("<E:Ljava/lang/Enum<TE;>;>Ljava/lang/Object;Ljava/lang/Comparable<TE;>;Ljava/io/Serializable;")
	require.NoError(t, err)
	require.Len(t, cs.typeParams, 1)
	assert.Equal(t, "java.lang.Object", cs.super.name)
	require.Len(t, cs.interfaces, 2)
	assert.Equal(t, "java.io.Serializable", cs.interfaces[1].name)
}

func TestMalformedSignatures(t *testing.T) {
	cases := []struct {
		sig      string
		pos      int
		expected string
	}{
		{"(I", 2, "')'"},
		{"(Q)V", 1, "type"},
		{"Ljava/lang/String", 17, "';'"},
		{"Ljava/util/List<>;", 17, "type argument"},
		{"(I)VX", 4, "end of signature"},
		{"<T>()V", 2, "':'"},
	}
	for _, tc := range cases {
		t.Run(tc.sig, func(t *testing.T) {
			var err error
			if strings.HasPrefix(tc.sig, "(") || strings.HasPrefix(tc.sig, "<") {
				_, err = parseMethodSignature(tc.sig)
			} else {
				_, err = parseFieldSignature(tc.sig)
			}
			var mse *MalformedSignatureError
			require.True(t, errors.As(err, &mse), "got %v", err)
			assert.Equal(t, tc.pos, mse.Pos)
			assert.Equal(t, tc.expected, mse.Expected)
		})
	}
}

func TestMalformedSignatureRendering(t *testing.T) {
	_, err := parseMethodSignature("(Q)V")
	require.Error(t, err)
	want := "Expected type:\n    (Q)V\n     ^"
	assert.Equal(t, want, err.Error())
}

func TestEmptyDescriptorPanics(t *testing.T) {
	assert.PanicsWithValue(t, ErrEmptyDescriptor, func() {
		_, _ = parseFieldSignature("")
	})
}

func TestValidateSignature(t *testing.T) {
	assert.NoError(t, ValidateSignature(ClassSignature, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;"))
	assert.NoError(t, ValidateSignature(MethodSignature, "<T:Ljava/lang/Object;>(TT;)Ljava/util/List<TT;>;"))
	assert.NoError(t, ValidateSignature(FieldSignature, "[Ljava/lang/String;"))
	assert.ErrorIs(t, ValidateSignature(FieldSignature, ""), ErrEmptyDescriptor)

	var mse *MalformedSignatureError
	require.ErrorAs(t, ValidateSignature(MethodSignature, "(I"), &mse)
	assert.Equal(t, 2, mse.Pos)
	require.ErrorAs(t, ValidateSignature(ClassSignature, "Ljava/lang/Object"), &mse)
	assert.Equal(t, "';'", mse.Expected)
}
