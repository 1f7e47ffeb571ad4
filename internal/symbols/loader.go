package symbols

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/source"
	"jsema/internal/trace"
	"jsema/internal/types"
)

// Loader resolves classes for a registry: source classes registered from
// compilation units first, then stub index records. A stub is created once
// per name; concurrent callers get the same symbol.
type Loader struct {
	reg   *types.Registry
	names *source.Interner

	mu      sync.Mutex
	records map[source.StringID]*ClassRecord
	nested  map[source.StringID][]string
	stubs   map[source.StringID]*ClassStub
	sources map[source.StringID]*SourceClass
	units   []*ast.Unit
}

var _ types.ClassResolver = (*Loader)(nil)

// NewLoader creates a loader over the given indexes and installs it as the
// registry's class resolver. A class listed by several indexes is taken from
// the first.
func NewLoader(reg *types.Registry, indexes ...*Index) *Loader {
	l := &Loader{
		reg:     reg,
		names:   source.NewInterner(),
		records: map[source.StringID]*ClassRecord{},
		nested:  map[source.StringID][]string{},
		stubs:   map[source.StringID]*ClassStub{},
		sources: map[source.StringID]*SourceClass{},
	}
	for _, idx := range indexes {
		l.AddIndex(idx)
	}
	reg.SetResolver(l)
	return l
}

// Registry returns the registry the loader resolves for.
func (l *Loader) Registry() *types.Registry { return l.reg }

// AddIndex makes the records of idx loadable.
func (l *Loader) AddIndex(idx *Index) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range idx.Classes {
		id := l.names.Intern(nameKey(rec.Name))
		if _, dup := l.records[id]; dup {
			continue
		}
		l.records[id] = rec
		if rec.Outer != "" && rec.Kind != "local" && rec.Kind != "anonymous" {
			outer := l.names.Intern(nameKey(rec.Outer))
			l.nested[outer] = append(l.nested[outer], rec.Name)
		}
	}
}

// AddUnit declares the classes of a compilation unit, nested, local and
// anonymous ones included. A binary name declared twice keeps its first
// declaration and reports the second.
func (l *Loader) AddUnit(u *ast.Unit) []*SourceClass {
	var top []*SourceClass
	for _, d := range u.Types {
		top = append(top, newSourceClass(l, u, d, nil, nil))
	}

	l.mu.Lock()
	l.units = append(l.units, u)
	var dups []*SourceClass
	var walk func(c *SourceClass)
	walk = func(c *SourceClass) {
		id := l.names.Intern(nameKey(c.binary))
		if _, dup := l.sources[id]; dup {
			dups = append(dups, c)
		} else {
			l.sources[id] = c
		}
		for _, n := range c.nested {
			walk(n.(*SourceClass))
		}
		for _, lc := range c.locals {
			walk(lc)
		}
	}
	for _, c := range top {
		walk(c)
	}
	l.mu.Unlock()

	for _, c := range dups {
		l.reg.Report(diag.SymDuplicateClass, diag.SevError, c.decl.Span, "duplicate class "+c.binary)
	}
	return top
}

// Units returns the registered compilation units in order.
func (l *Loader) Units() []*ast.Unit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*ast.Unit(nil), l.units...)
}

// ResolveClass implements types.ClassResolver.
func (l *Loader) ResolveClass(name string) types.ClassSymbol {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.names.Find(nameKey(name))
	if !ok {
		return nil
	}
	if c, ok := l.sources[id]; ok {
		return c
	}
	if s, ok := l.stubs[id]; ok {
		return s
	}
	rec, ok := l.records[id]
	if !ok {
		return nil
	}
	s := newClassStub(l, rec)
	l.stubs[id] = s
	trace.Point(l.reg.Tracer(), trace.ScopeNode, "stub", name)
	return s
}

// Source returns the source class of a binary name.
func (l *Loader) Source(name string) (*SourceClass, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.names.Find(nameKey(name))
	if !ok {
		return nil, false
	}
	c, ok := l.sources[id]
	return c, ok
}

// Stub returns the stub of a binary name, creating it when needed.
func (l *Loader) Stub(name string) (*ClassStub, error) {
	sym := l.ResolveClass(name)
	s, ok := sym.(*ClassStub)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s, nil
}

// StubNames lists the binary names known from indexes, sorted.
func (l *Loader) StubNames() []string {
	l.mu.Lock()
	out := make([]string, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, rec.Name)
	}
	l.mu.Unlock()
	sort.Strings(out)
	return out
}

// SourceNames lists the binary names of source classes, sorted.
func (l *Loader) SourceNames() []string {
	l.mu.Lock()
	out := make([]string, 0, len(l.sources))
	for _, c := range l.sources {
		out = append(out, c.binary)
	}
	l.mu.Unlock()
	sort.Strings(out)
	return out
}

func (l *Loader) nestedOf(outer string) []types.ClassSymbol {
	l.mu.Lock()
	id, ok := l.names.Find(nameKey(outer))
	var names []string
	if ok {
		names = append(names, l.nested[id]...)
	}
	l.mu.Unlock()
	out := make([]types.ClassSymbol, 0, len(names))
	for _, n := range names {
		if sym := l.ResolveClass(n); sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

func (l *Loader) reportMalformed(span source.Span, what string, err error) {
	var mse *MalformedSignatureError
	if errors.As(err, &mse) {
		if !span.Empty() {
			span = span.Sub(offset32(mse.Pos), 1)
		}
		l.reg.Report(diag.SymMalformedSignature, diag.SevError, span, what+": "+mse.Summary())
		return
	}
	l.reg.Report(diag.SymMalformedSignature, diag.SevError, span, what+": "+err.Error())
}

// MaterializeStats counts what Materialize forced.
type MaterializeStats struct {
	Classes   int
	Members   int
	Malformed int
}

// Materialize forces every stub and source class: headers, supertypes and
// member types. Work is spread over at most workers goroutines (all CPUs
// when workers <= 0). Malformed signatures are reported, not returned.
func (l *Loader) Materialize(ctx context.Context, workers int) (MaterializeStats, error) {
	names := append(l.StubNames(), l.SourceNames()...)
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	var mu sync.Mutex
	var stats MaterializeStats
	for _, name := range names {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sym := l.ResolveClass(name)
			if sym == nil {
				return fmt.Errorf("%w: %s", ErrNotFound, name)
			}
			members, malformed := ForceClass(sym)
			mu.Lock()
			stats.Classes++
			stats.Members += members
			stats.Malformed += malformed
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return stats, err
}

// ForceClass materializes the header and member types of one class and
// counts the members and the malformed signatures among them.
func ForceClass(sym types.ClassSymbol) (members, malformed int) {
	for _, tv := range sym.TypeParameters() {
		tv.UpperBound()
	}
	sym.SuperclassType(types.EmptySubst)
	sym.SuperInterfaceTypes(types.EmptySubst)
	if s, ok := sym.(*ClassStub); ok && s.HeaderErr() != nil {
		malformed++
	}
	for _, f := range sym.DeclaredFields() {
		members++
		f.Type(types.EmptySubst)
		if fs, ok := f.(*FieldStub); ok && fs.Err() != nil {
			malformed++
		}
	}
	force := func(m types.ExecutableSymbol) {
		members++
		for _, tv := range m.TypeParameters() {
			tv.UpperBound()
		}
		m.FormalParameterTypes(types.EmptySubst)
		m.ReturnType(types.EmptySubst)
		m.ThrownExceptionTypes(types.EmptySubst)
		if ms, ok := m.(*MethodStub); ok && ms.Err() != nil {
			malformed++
		}
	}
	for _, m := range sym.DeclaredMethods() {
		force(m)
	}
	for _, m := range sym.Constructors() {
		force(m)
	}
	return members, malformed
}

// PackageOf returns the package part of a binary name.
func PackageOf(binary string) string {
	pkg, _ := splitBinaryName(binary)
	return pkg
}

// IsNestedName reports a binary name with a '$' after its package.
func IsNestedName(binary string) bool {
	_, local := splitBinaryName(binary)
	return strings.Contains(local, "$")
}
