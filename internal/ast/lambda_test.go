package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func call(name string) *MethodCall { return &MethodCall{Name: name} }
func ret(x Expr) *Return           { return &Return{Value: x} }
func block(s ...Stmt) *Block       { return &Block{Stmts: s} }
func trueLit() *Literal            { return &Literal{Kind: LitBool, Text: "true"} }

func TestExpressionBodyCompatibility(t *testing.T) {
	stmtBody := &Lambda{Body: call("run")}
	assert.True(t, stmtBody.IsVoidCompatible())
	assert.True(t, stmtBody.IsValueCompatible())

	valueBody := &Lambda{Body: &Literal{Kind: LitInt, Text: "1"}}
	assert.False(t, valueBody.IsVoidCompatible())
	assert.True(t, valueBody.IsValueCompatible())

	incr := &Lambda{Body: &Unary{Op: "++", X: &Name{Ident: "i"}}}
	assert.True(t, incr.IsVoidCompatible())
}

func TestBlockBodyCompatibility(t *testing.T) {
	empty := &Lambda{Block: block()}
	assert.True(t, empty.IsVoidCompatible())
	assert.False(t, empty.IsValueCompatible(), "completes normally")

	returns := &Lambda{Block: block(ret(call("get")))}
	assert.False(t, returns.IsVoidCompatible())
	assert.True(t, returns.IsValueCompatible())
	assert.Len(t, returns.ResultExpressions(), 1)

	throws := &Lambda{Block: block(&Throw{X: call("error")})}
	assert.True(t, throws.IsVoidCompatible())
	assert.True(t, throws.IsValueCompatible(), "cannot complete normally")

	mixed := &Lambda{Block: block(&If{Cond: call("ok"), Then: ret(call("a")), Else: ret(nil)})}
	assert.False(t, mixed.IsVoidCompatible())
	assert.False(t, mixed.IsValueCompatible())
}

func TestCanCompleteNormally(t *testing.T) {
	assert.True(t, CanCompleteNormally(&If{Cond: call("c"), Then: ret(nil)}), "if without else")
	assert.False(t, CanCompleteNormally(&If{Cond: call("c"), Then: ret(nil), Else: &Throw{X: call("e")}}))
	assert.False(t, CanCompleteNormally(&While{Cond: trueLit(), Body: block()}))
	assert.True(t, CanCompleteNormally(&While{Cond: call("more"), Body: block()}))
}

func TestReturnsSkipNestedLambdas(t *testing.T) {
	inner := &Lambda{Block: block(ret(call("inner")))}
	outer := block(
		&ExprStmt{X: inner},
		&While{Cond: call("more"), Body: block(ret(call("a")))},
		ret(call("b")),
	)
	assert.Len(t, Returns(outer), 2)
}

func TestExplicitTyping(t *testing.T) {
	assert.True(t, (&Lambda{}).IsExplicitlyTyped(), "no parameters")
	lam := &Lambda{Params: []*LambdaParam{{Name: "a"}, {Name: "b"}}}
	assert.False(t, lam.IsExplicitlyTyped())
	assert.Equal(t, 2, lam.Arity())
	assert.Same(t, lam.Params[1], lam.Param("b"))
	assert.Nil(t, lam.Param("c"))
}

func TestTypeRefString(t *testing.T) {
	ref := Named("Map", Named("String"), &TypeRef{Wildcard: WildcardExtends, Bound: Named("Number")})
	assert.Equal(t, "Map<String, ? extends Number>", ref.String())
	assert.Equal(t, "Map<String, ? extends Number>[][]", ArrayOf(ref, 2).String())
	assert.Equal(t, 0, ref.Dims, "ArrayOf copies")

	inner := &TypeRef{Name: "Entry", Outer: Named("Map"), Args: []*TypeRef{{Wildcard: WildcardUnbounded}}}
	assert.Equal(t, "Map.Entry<?>", inner.String())
	assert.Equal(t, "? super T", (&TypeRef{Wildcard: WildcardSuper, Bound: Named("T")}).String())
}
