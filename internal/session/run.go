package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"jsema/internal/diag"
	"jsema/internal/infer"
	"jsema/internal/project"
	"jsema/internal/project/dag"
	"jsema/internal/symbols"
	"jsema/internal/trace"
	"jsema/internal/types"
)

// UnitResult is the outcome of one compilation unit.
type UnitResult struct {
	Path    string
	Bag     *diag.Bag
	Stats   infer.Stats
	Classes int
	Members int
}

// Result is the outcome of Run.
type Result struct {
	Units []UnitResult
	// Diagnostics holds the session and unit diagnostics, sorted and
	// deduplicated, capped at session.max_diagnostics.
	Diagnostics []diag.Diagnostic
	Stats       infer.Stats
	Batches     int
	Cyclic      bool
}

// HasErrors reports an error among the diagnostics.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Run materializes the classes of every unit and types its checks. Units
// are scheduled in dependency waves; within a wave at most
// session.workers units run at once. Cancellation is observed between
// units.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if s.reg.Closed() {
		return nil, ErrClosed
	}
	span := trace.Begin(s.tracer, trace.ScopePass, "resolve", trace.CurrentSpan(ctx).SpanID).
		WithExtra("units", strconv.Itoa(len(s.units)))
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	byPath := make(map[string]int, len(s.units))
	metas := make([]project.UnitMeta, 0, len(s.units))
	for i, u := range s.units {
		meta := project.DescribeUnit(u.AST)
		if meta.Path == "" {
			meta.Path = "unit" + strconv.Itoa(i)
		}
		if _, dup := byPath[meta.Path]; dup {
			meta.Path += "#" + strconv.Itoa(i)
		}
		byPath[meta.Path] = i
		metas = append(metas, meta)
	}
	for _, meta := range metas {
		s.emit(meta.Path, StageResolve, StatusQueued, nil, 0)
	}
	idx := dag.BuildIndex(metas)
	g, _ := dag.BuildGraph(idx, metas)
	topo := dag.ToposortKahn(g)
	schedule := topo.Schedule()

	res := &Result{
		Units:   make([]UnitResult, len(s.units)),
		Batches: len(schedule),
		Cyclic:  topo.Cyclic,
	}
	err := s.timer.Time("resolve", func() (string, error) {
		for _, batch := range schedule {
			if err := s.runBatch(ctx, idx, batch, byPath, res); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%d units in %d batches", len(s.units), len(schedule)), nil
	})
	span.End("")
	if err != nil {
		return nil, err
	}

	merged := diag.NewBag(bagLimit(s.cfg))
	s.reporter.Locked(func() { merged.Merge(s.bag) })
	for i := range res.Units {
		ur := &res.Units[i]
		if ur.Bag != nil {
			merged.Merge(ur.Bag)
		}
		res.Stats.Resolutions += ur.Stats.Resolutions
		res.Stats.ExactSearches += ur.Stats.ExactSearches
		res.Stats.Unresolved += ur.Stats.Unresolved
		res.Stats.Ambiguous += ur.Stats.Ambiguous
	}
	merged.Sort()
	merged.Dedup()
	items := merged.Items()
	if limit := s.cfg.Session.MaxDiagnostics; limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	res.Diagnostics = items
	return res, nil
}

func (s *Session) runBatch(ctx context.Context, idx dag.UnitIndex, batch []dag.UnitID, byPath map[string]int, res *Result) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.cfg.WorkerCount(), max(len(batch), 1)))
	for _, id := range batch {
		path := idx.IDToPath[int(id)]
		i := byPath[path]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// results are indexed per unit, no lock needed
			res.Units[i] = s.runUnit(gctx, path, s.units[i])
			return nil
		})
	}
	return g.Wait()
}

func (s *Session) runUnit(ctx context.Context, path string, u *Unit) UnitResult {
	start := time.Now()
	phase := s.timer.Begin("unit:" + path)
	span := trace.Begin(s.tracer, trace.ScopeUnit, "unit:"+path, trace.CurrentSpan(ctx).SpanID)
	s.emit(path, StageMaterialize, StatusWorking, nil, 0)

	out := UnitResult{Path: path, Bag: diag.NewBag(bagLimit(s.cfg))}
	for _, c := range u.Classes {
		classes, members := forceTree(c)
		out.Classes += classes
		out.Members += members
	}
	s.emit(path, StageResolve, StatusWorking, nil, 0)
	engine := infer.NewEngine(s.reg, infer.WithReporter(diag.BagReporter{Bag: out.Bag}))
	for _, c := range u.Checks {
		engine.TypeExpr(c.X, c.Target)
	}
	out.Stats = engine.Stats()

	note := fmt.Sprintf("%d classes, %d checks", out.Classes, len(u.Checks))
	span.WithExtra("resolutions", strconv.FormatInt(out.Stats.Resolutions, 10)).End(note)
	s.timer.End(phase, note)
	status := StatusDone
	if out.Bag.HasErrors() {
		status = StatusError
	}
	s.emit(path, StageResolve, status, nil, time.Since(start))
	return out
}

// forceTree materializes a source class and its nested classes.
func forceTree(c types.ClassSymbol) (classes, members int) {
	m, _ := symbols.ForceClass(c)
	classes, members = 1, m
	for _, n := range c.DeclaredClasses() {
		nc, nm := forceTree(n)
		classes += nc
		members += nm
	}
	return classes, members
}
