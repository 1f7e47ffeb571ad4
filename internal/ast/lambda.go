package ast

// IsExplicitlyTyped reports a lambda whose parameters all declare a type.
// A lambda without parameters counts as explicitly typed.
func (l *Lambda) IsExplicitlyTyped() bool {
	for _, p := range l.Params {
		if p.Type == nil {
			return false
		}
	}
	return true
}

// Arity is the number of parameters.
func (l *Lambda) Arity() int { return len(l.Params) }

// IsVoidCompatible reports a body usable with a void function type: a
// statement expression, or a block whose returns carry no value.
func (l *Lambda) IsVoidCompatible() bool {
	if l.Block == nil {
		return IsStatementExpression(l.Body)
	}
	for _, r := range Returns(l.Block) {
		if r.Value != nil {
			return false
		}
	}
	return true
}

// IsValueCompatible reports a body usable with a non-void function type: any
// expression, or a block that cannot complete normally and whose returns
// all carry a value.
func (l *Lambda) IsValueCompatible() bool {
	if l.Block == nil {
		return l.Body != nil
	}
	if CanCompleteNormally(l.Block) {
		return false
	}
	for _, r := range Returns(l.Block) {
		if r.Value == nil {
			return false
		}
	}
	return true
}

// ResultExpressions returns the expression body, or the values of the
// block's return statements.
func (l *Lambda) ResultExpressions() []Expr {
	if l.Block == nil {
		if l.Body == nil {
			return nil
		}
		return []Expr{l.Body}
	}
	var out []Expr
	for _, r := range Returns(l.Block) {
		if r.Value != nil {
			out = append(out, r.Value)
		}
	}
	return out
}

// Param returns the parameter named name, or nil.
func (l *Lambda) Param(name string) *LambdaParam {
	for _, p := range l.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}
