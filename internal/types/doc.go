// Package types is the type system of a Java-like language: symbol
// capability interfaces, the per-session Registry, type descriptors,
// substitution, capture conversion, subtyping and conversion rules, and
// method signatures as seen from a receiver type.
//
// Descriptors form a closed set (see Type). Primitives and sentinels are
// singletons of their Registry; every other descriptor compares with Same.
// Symbols coming from source or from binary stubs live in package symbols;
// this package only synthesizes the degenerate ones (arrays, intersections,
// primitives and unresolved references) through the SymbolFactory.
//
// A Registry is safe for concurrent use. Inference variables are not and
// must stay confined to one resolution.
package types
