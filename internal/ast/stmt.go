package ast

import "jsema/internal/types"

// Stmt is a statement of a lambda block body.
type Stmt interface {
	stmtNode()
}

type (
	// ExprStmt is an expression statement.
	ExprStmt struct{ X Expr }
	// Return is return or return value.
	Return struct{ Value Expr }
	// Throw is throw X.
	Throw struct{ X Expr }
	// Block is { stmts }.
	Block struct{ Stmts []Stmt }
	// If is if/else; Else may be nil.
	If struct {
		Cond       Expr
		Then, Else Stmt
	}
	// While is a while loop.
	While struct {
		Cond Expr
		Body Stmt
	}
	// LocalVar declares a local; Type nil means var.
	LocalVar struct {
		Name string
		Type types.Type
		Init Expr
	}
)

func (*ExprStmt) stmtNode() {}
func (*Return) stmtNode()   {}
func (*Throw) stmtNode()    {}
func (*Block) stmtNode()    {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*LocalVar) stmtNode() {}

// Returns collects the return statements of a body. Nested lambdas are
// expressions and are not entered.
func Returns(s Stmt) []*Return {
	var out []*Return
	var walk func(Stmt)
	walk = func(s Stmt) {
		switch x := s.(type) {
		case *Return:
			out = append(out, x)
		case *Block:
			for _, st := range x.Stmts {
				walk(st)
			}
		case *If:
			walk(x.Then)
			if x.Else != nil {
				walk(x.Else)
			}
		case *While:
			walk(x.Body)
		}
	}
	if s != nil {
		walk(s)
	}
	return out
}

// CanCompleteNormally is a conservative reading of JLS 14.22 for the
// statements above: there is no break, so while (true) never completes.
func CanCompleteNormally(s Stmt) bool {
	switch x := s.(type) {
	case *Return, *Throw:
		return false
	case *Block:
		for _, st := range x.Stmts {
			if !CanCompleteNormally(st) {
				return false
			}
		}
		return true
	case *If:
		if x.Else == nil {
			return true
		}
		return CanCompleteNormally(x.Then) || CanCompleteNormally(x.Else)
	case *While:
		lit, ok := x.Cond.(*Literal)
		return !ok || lit.Kind != LitBool || lit.Text != "true"
	}
	return true
}
