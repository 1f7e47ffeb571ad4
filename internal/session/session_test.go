package session_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/project"
	"jsema/internal/session"
	"jsema/internal/trace"
	"jsema/internal/types"
)

const pointIndex = `
schema = 1

[[class]]
name = "geo.Point"
access = ["public"]
signature = "Ljava/lang/Object;"

  [[class.method]]
  name = "<init>"
  access = ["public"]
  descriptor = "(II)V"

  [[class.method]]
  name = "norm"
  access = ["public"]
  descriptor = "()D"
`

func newSession(t *testing.T, ctx context.Context, cfg *project.Config) *session.Session {
	t.Helper()
	s, err := session.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func class(reg *types.Registry, name string, args ...types.Type) *types.ClassType {
	sym, ok := reg.LookupClass(name)
	if !ok {
		return nil
	}
	return reg.Parameterize(sym, args)
}

func strLit(s string) *ast.Literal { return &ast.Literal{Kind: ast.LitString, Text: s} }

func TestRunOrdersProvidersFirst(t *testing.T) {
	ring := trace.NewRingTracer(1024, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	cfg := project.Default()
	cfg.Session.Workers = 2
	s := newSession(t, ctx, cfg)
	reg := s.Registry()

	_, err := s.AddUnit(&ast.Unit{
		Path:    "app/Main.java",
		Package: "app",
		Types: []*ast.ClassDecl{{
			Name:    "Main",
			Extends: ast.Named("lib.Base"),
		}},
	})
	require.NoError(t, err)
	_, err = s.AddUnit(&ast.Unit{
		Path:    "lib/Base.java",
		Package: "lib",
		Types:   []*ast.ClassDecl{{Name: "Base", Modifiers: types.ModPublic}},
	})
	require.NoError(t, err)

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Batches)
	assert.False(t, res.Cyclic)
	assert.Empty(t, res.Diagnostics)

	var order []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin && strings.HasPrefix(ev.Name, "unit:") {
			order = append(order, ev.Name)
		}
	}
	assert.Equal(t, []string{"unit:lib/Base.java", "unit:app/Main.java"}, order)

	main, ok := reg.LookupClass("app.Main")
	require.True(t, ok)
	assert.Equal(t, "lib.Base", main.SuperclassType(types.EmptySubst).String())
}

func TestRunTypesChecks(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, ctx, project.Default())
	reg := s.Registry()

	list := class(reg, "java.util.List")
	good := &ast.MethodCall{QualifierType: list, Name: "of", Args: []ast.Expr{strLit("a")}}
	bad := &ast.MethodCall{QualifierType: class(reg, "java.lang.Math"), Name: "max", Args: []ast.Expr{strLit("a")}}
	_, err := s.AddUnit(&ast.Unit{Path: "Checks.java"},
		session.Check{X: good, Target: class(reg, "java.util.List", reg.StringType())},
		session.Check{X: bad},
	)
	require.NoError(t, err)

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "java.util.List<java.lang.String>", good.ResolvedType().String())
	assert.Same(t, reg.Error, bad.ResolvedType())
	assert.GreaterOrEqual(t, res.Stats.Resolutions, int64(2))
	assert.Equal(t, int64(1), res.Stats.Unresolved)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.InfNoApplicableMethod, res.Diagnostics[0].Code)
	assert.True(t, res.HasErrors())

	report := s.Timer().Report()
	var names []string
	for _, p := range report.Phases {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "index")
	assert.Contains(t, names, "resolve")
	assert.Contains(t, names, "unit:Checks.java")
}

func TestIndexCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geo.toml"), []byte(pointIndex), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.ConfigFileName), []byte(`
[classpath]
indexes = ["geo.toml"]
cache = "cache"
`), 0o600))
	cfg, err := project.LoadConfig(filepath.Join(dir, project.ConfigFileName))
	require.NoError(t, err)

	ctx := context.Background()
	first := newSession(t, ctx, cfg)
	point, ok := first.Registry().LookupClass("geo.Point")
	require.True(t, ok)
	assert.Len(t, point.Constructors(), 1)
	assert.Contains(t, first.Timer().Report().Phases[0].Note, "0 cached")

	second := newSession(t, ctx, cfg)
	_, ok = second.Registry().LookupClass("geo.Point")
	assert.True(t, ok)
	assert.Contains(t, second.Timer().Report().Phases[0].Note, "1 cached")

	entries, err := os.ReadDir(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMissingIndexFails(t *testing.T) {
	cfg := project.Default()
	cfg.Classpath.Indexes = []string{filepath.Join(t.TempDir(), "absent.toml")}
	_, err := session.New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestCancelledRun(t *testing.T) {
	s := newSession(t, context.Background(), project.Default())
	_, err := s.AddUnit(&ast.Unit{Path: "A.java", Types: []*ast.ClassDecl{{Name: "A"}}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClosedSession(t *testing.T) {
	s, err := session.New(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = s.AddUnit(&ast.Unit{Path: "A.java"})
	assert.ErrorIs(t, err, session.ErrClosed)
	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, session.ErrClosed)
}

type recorder struct {
	mu     sync.Mutex
	events []session.Event
}

func (r *recorder) OnEvent(ev session.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) final(item string) session.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last session.Status
	for _, ev := range r.events {
		if ev.Item == item {
			last = ev.Status
		}
	}
	return last
}

func TestMaterializeReportsProgress(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "geo.toml")
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(good, []byte(pointIndex), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte(`
schema = 1

[[class]]
name = "geo.Broken"
access = ["public"]

  [[class.method]]
  name = "size"
  access = ["public"]
  descriptor = "(Q)I"
`), 0o600))

	cfg := project.Default()
	cfg.Classpath.Indexes = []string{good, bad}
	rec := &recorder{}
	s, err := session.New(context.Background(), cfg, session.WithProgress(rec))
	require.NoError(t, err)
	defer s.Close()
	indexes := s.Indexes()
	require.Greater(t, len(indexes), 2)
	geo, broken := indexes[len(indexes)-2], indexes[len(indexes)-1]
	assert.Equal(t, session.StatusDone, rec.final(geo.Path), "loaded")

	stats, err := s.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Malformed)
	assert.Greater(t, stats.Classes, 2)
	assert.Equal(t, session.StatusDone, rec.final(geo.Path))
	assert.Equal(t, session.StatusError, rec.final(broken.Path))

	var codes []diag.Code
	for _, d := range s.Diagnostics() {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, diag.SymMalformedSignature)

	_, err = s.AddUnit(&ast.Unit{Path: "A.java", Types: []*ast.ClassDecl{{Name: "A"}}})
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StatusDone, rec.final("A.java"))
}
