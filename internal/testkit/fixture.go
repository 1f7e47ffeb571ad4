// Package testkit builds type-system fixtures for package tests: a registry
// wired to a loader over the embedded platform index, plus helpers to add
// stub indexes and compilation units.
package testkit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/source"
	"jsema/internal/symbols"
	"jsema/internal/types"
)

// Fixture is one analysis session.
type Fixture struct {
	Files  *source.FileSet
	Bag    *diag.Bag
	Reg    *types.Registry
	Loader *symbols.Loader
}

// NewFixture creates a session over the platform index and the given extra
// index documents.
func NewFixture(tb testing.TB, indexes ...string) *Fixture {
	tb.Helper()
	f := &Fixture{
		Files: source.NewFileSet(),
		Bag:   diag.NewBag(1000),
	}
	f.Reg = types.NewRegistry(types.WithReporter(diag.BagReporter{Bag: f.Bag}))
	platform, err := symbols.PlatformIndexes(f.Files)
	require.NoError(tb, err)
	f.Loader = symbols.NewLoader(f.Reg, platform...)
	for i, doc := range indexes {
		f.Index(tb, "extra"+string(rune('0'+i))+".toml", doc)
	}
	return f
}

// Index decodes doc as a stub index and adds it to the loader.
func (f *Fixture) Index(tb testing.TB, name, doc string) *symbols.Index {
	tb.Helper()
	id := f.Files.AddVirtual(name, []byte(doc))
	idx, err := symbols.DecodeIndex(f.Files, id)
	require.NoError(tb, err)
	require.NoError(tb, CheckIndexSpans(idx, f.Files.Get(id)))
	f.Loader.AddIndex(idx)
	return idx
}

// Unit registers a compilation unit and returns its top-level classes.
func (f *Fixture) Unit(tb testing.TB, u *ast.Unit) []*symbols.SourceClass {
	tb.Helper()
	if u.Path == "" {
		u.Path = "Test.java"
	}
	return f.Loader.AddUnit(u)
}

// Class returns a class that must resolve.
func (f *Fixture) Class(tb testing.TB, name string) types.ClassSymbol {
	tb.Helper()
	sym, ok := f.Reg.LookupClass(name)
	require.Truef(tb, ok, "class %s not found", name)
	return sym
}

// Type parameterizes a class that must resolve; no args yields its raw
// type for generic classes.
func (f *Fixture) Type(tb testing.TB, name string, args ...types.Type) *types.ClassType {
	tb.Helper()
	return f.Reg.Parameterize(f.Class(tb, name), args)
}

// String is java.lang.String.
func (f *Fixture) String() *types.ClassType { return f.Reg.StringType() }

// Codes lists the codes of all reported diagnostics, in report order.
func (f *Fixture) Codes() []diag.Code {
	items := f.Bag.Items()
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

// CountCode counts diagnostics with code c.
func (f *Fixture) CountCode(c diag.Code) int {
	n := 0
	for _, d := range f.Bag.Items() {
		if d.Code == c {
			n++
		}
	}
	return n
}
