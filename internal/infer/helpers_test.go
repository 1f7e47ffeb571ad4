package infer_test

import (
	"testing"

	"jsema/internal/ast"
	"jsema/internal/infer"
	"jsema/internal/testkit"
	"jsema/internal/types"
)

func newEngine(t *testing.T, indexes ...string) (*testkit.Fixture, *infer.Engine) {
	t.Helper()
	f := testkit.NewFixture(t, indexes...)
	return f, infer.NewEngine(f.Reg)
}

func intLit(text string) *ast.Literal  { return &ast.Literal{Kind: ast.LitInt, Text: text} }
func longLit(text string) *ast.Literal { return &ast.Literal{Kind: ast.LitLong, Text: text} }
func strLit(text string) *ast.Literal  { return &ast.Literal{Kind: ast.LitString, Text: text} }
func nullLit() *ast.Literal            { return &ast.Literal{Kind: ast.LitNull, Text: "null"} }
func typed(t types.Type) *ast.Typed    { return &ast.Typed{Type: t} }
func name(id string) *ast.Name         { return &ast.Name{Ident: id} }
func exprs(xs ...ast.Expr) []ast.Expr  { return xs }

// static is Qualifier.name(args).
func static(qualifier types.Type, name string, args ...ast.Expr) *ast.MethodCall {
	return &ast.MethodCall{QualifierType: qualifier, Name: name, Args: args}
}

// on is recv.name(args).
func on(recv ast.Expr, name string, args ...ast.Expr) *ast.MethodCall {
	return &ast.MethodCall{Receiver: recv, Name: name, Args: args}
}

func implicitLambda(body ast.Expr, params ...string) *ast.Lambda {
	lam := &ast.Lambda{Body: body}
	for _, p := range params {
		lam.Params = append(lam.Params, &ast.LambdaParam{Name: p})
	}
	return lam
}
