// Package ast is the node model the semantic core consumes: type
// declarations with their members and type references, and the expression
// forms that matter to overload resolution. A parser populates it; the
// symbols and infer packages read it and write resolved types and methods
// back into the expression nodes.
//
// Nodes are plain pointers. Declarations carry unresolved TypeRefs, which
// the symbol layer resolves lazily against the enclosing scope. Expressions
// carry types.Type values for what the caller already knows (locals, casts,
// qualifiers) and receive inference results through their Resolved slots.
package ast
