// Package session drives one analysis: it builds a registry from a
// jsema.toml configuration, loads the stub indexes, registers compilation
// units and resolves their expressions concurrently, units that provide
// classes to others first.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/observ"
	"jsema/internal/project"
	"jsema/internal/source"
	"jsema/internal/symbols"
	"jsema/internal/trace"
	"jsema/internal/types"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session: closed")

// Check is one expression to type, against Target or standalone when
// Target is nil.
type Check struct {
	X      ast.Expr
	Target types.Type
}

// Unit is a registered compilation unit with the expressions to check.
type Unit struct {
	AST     *ast.Unit
	Classes []*symbols.SourceClass
	Checks  []Check
}

// Session owns the registry and everything loaded into it.
type Session struct {
	cfg      *project.Config
	files    *source.FileSet
	bag      *diag.Bag
	reporter *diag.SyncReporter
	reg      *types.Registry
	loader   *symbols.Loader
	cache    *symbols.IndexCache
	tracer   trace.Tracer
	timer    *observ.Timer
	progress ProgressSink
	indexes  []*symbols.Index
	units    []*Unit

	// cacheHits counts indexes served from the cache.
	cacheHits int
}

// Option configures New.
type Option func(*Session)

// WithTimer records the session phases on t.
func WithTimer(t *observ.Timer) Option {
	return func(s *Session) { s.timer = t }
}

// WithFileSet shares files with the caller, so diagnostics can be rendered
// against them.
func WithFileSet(fs *source.FileSet) Option {
	return func(s *Session) { s.files = fs }
}

// New creates a session for cfg and loads its indexes. The tracer is taken
// from ctx.
func New(ctx context.Context, cfg *project.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = project.Default()
	}
	s := &Session{
		cfg:    cfg,
		bag:    diag.NewBag(bagLimit(cfg)),
		tracer: trace.FromContext(ctx),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.files == nil {
		s.files = source.NewFileSet()
	}
	if s.timer == nil {
		s.timer = observ.NewTimer()
	}
	s.reporter = diag.NewSyncReporter(diag.BagReporter{Bag: s.bag}, diag.DropDuplicates())
	s.reg = types.NewRegistry(types.WithReporter(s.reporter), types.WithTracer(s.tracer))

	span := trace.Begin(s.tracer, trace.ScopeDriver, "session", trace.CurrentSpan(ctx).SpanID).
		WithExtra("registry", s.reg.ID())
	defer span.End("")

	if dir := cfg.CacheDir(); dir != "" {
		cache, err := symbols.OpenIndexCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open index cache: %w", err)
		}
		s.cache = cache
	}

	err := s.timer.Time("index", func() (string, error) {
		sp := trace.Begin(s.tracer, trace.ScopePass, "index", span.ID())
		defer sp.End("")
		var err error
		s.indexes, err = s.loadIndexes()
		return fmt.Sprintf("%d indexes, %d cached", len(s.indexes), s.cacheHits), err
	})
	if err != nil {
		return nil, err
	}
	s.loader = symbols.NewLoader(s.reg, s.indexes...)
	return s, nil
}

func (s *Session) loadIndexes() ([]*symbols.Index, error) {
	var out []*symbols.Index
	if !s.cfg.Classpath.NoPlatform {
		platform, err := symbols.PlatformIndexes(s.files)
		if err != nil {
			return nil, fmt.Errorf("load platform index: %w", err)
		}
		out = append(out, platform...)
	}
	for _, path := range s.cfg.IndexPaths() {
		start := time.Now()
		s.emit(path, StageIndex, StatusWorking, nil, 0)
		idx, hit, err := symbols.LoadIndex(s.files, path, s.cache)
		if err != nil {
			s.emit(path, StageIndex, StatusError, err, time.Since(start))
			return nil, fmt.Errorf("load index %s: %w", path, err)
		}
		if hit {
			s.cacheHits++
		}
		trace.Point(s.tracer, trace.ScopeUnit, "index:"+path, strconv.Itoa(len(idx.Classes))+" classes")
		s.emit(path, StageIndex, StatusDone, nil, time.Since(start))
		out = append(out, idx)
	}
	return out, nil
}

// bagLimit maps session.max_diagnostics to a bag capacity; 0 means no
// limit.
func bagLimit(cfg *project.Config) int {
	if cfg.Session.MaxDiagnostics <= 0 {
		return math.MaxUint16
	}
	return cfg.Session.MaxDiagnostics
}

// Registry returns the session registry.
func (s *Session) Registry() *types.Registry { return s.reg }

// Loader returns the class loader of the session.
func (s *Session) Loader() *symbols.Loader { return s.loader }

// Files returns the file set holding the index and unit sources.
func (s *Session) Files() *source.FileSet { return s.files }

// Timer returns the phase timer.
func (s *Session) Timer() *observ.Timer { return s.timer }

// Diagnostics returns what the registry and the loader reported outside
// Run, sorted. Run folds these into its result.
func (s *Session) Diagnostics() []diag.Diagnostic {
	out := diag.NewBag(bagLimit(s.cfg))
	s.reporter.Locked(func() { out.Merge(s.bag) })
	out.Sort()
	out.Dedup()
	return out.Items()
}

// Indexes returns the loaded stub indexes, the platform ones first.
func (s *Session) Indexes() []*symbols.Index { return s.indexes }

// Units returns the registered units in registration order.
func (s *Session) Units() []*Unit { return s.units }

// AddUnit declares the classes of u and queues checks for Run. Units are
// added before Run and never concurrently.
func (s *Session) AddUnit(u *ast.Unit, checks ...Check) (*Unit, error) {
	if s.reg.Closed() {
		return nil, ErrClosed
	}
	unit := &Unit{AST: u, Checks: checks}
	unit.Classes = s.loader.AddUnit(u)
	s.units = append(s.units, unit)
	return unit, nil
}

// Close releases the registry. The session is unusable afterwards.
func (s *Session) Close() error {
	return s.reg.Close()
}
