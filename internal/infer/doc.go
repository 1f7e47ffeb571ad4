// Package infer resolves method and constructor invocations: overload
// selection in the strict, loose and varargs phases, generic method type
// inference with target typing, and the typing of lambdas and method
// references against functional interfaces.
//
// An Engine is stateless between resolutions and may be shared. Each
// resolution owns its inference variables; results are written back to the
// AST nodes (Method, CompileTimeDecl, FunctionalMethod and resolved types).
// Two goroutines must not resolve the same node concurrently.
package infer
