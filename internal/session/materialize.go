package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jsema/internal/symbols"
	"jsema/internal/trace"
)

// Materialize forces every class of every loaded index: headers, supertypes
// and member types. Indexes are processed one after another with at most
// session.workers classes in flight; progress is reported per index.
// Malformed signatures are reported to the registry, not returned.
func (s *Session) Materialize(ctx context.Context) (symbols.MaterializeStats, error) {
	var total symbols.MaterializeStats
	if s.reg.Closed() {
		return total, ErrClosed
	}
	for _, idx := range s.indexes {
		s.emit(idx.Path, StageMaterialize, StatusQueued, nil, 0)
	}
	span := trace.Begin(s.tracer, trace.ScopePass, "materialize", trace.CurrentSpan(ctx).SpanID).
		WithExtra("indexes", strconv.Itoa(len(s.indexes)))
	defer span.End("")

	err := s.timer.Time("materialize", func() (string, error) {
		for _, idx := range s.indexes {
			start := time.Now()
			s.emit(idx.Path, StageMaterialize, StatusWorking, nil, 0)
			stats, err := s.materializeIndex(ctx, idx)
			total.Classes += stats.Classes
			total.Members += stats.Members
			total.Malformed += stats.Malformed

			status := StatusDone
			if err != nil || stats.Malformed > 0 {
				status = StatusError
			}
			s.emit(idx.Path, StageMaterialize, status, err, time.Since(start))
			if err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%d classes, %d members, %d malformed", total.Classes, total.Members, total.Malformed), nil
	})
	return total, err
}

func (s *Session) materializeIndex(ctx context.Context, idx *symbols.Index) (symbols.MaterializeStats, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.WorkerCount())
	var (
		mu    sync.Mutex
		stats symbols.MaterializeStats
	)
	for _, name := range idx.Names() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sym := s.loader.ResolveClass(name)
			if sym == nil {
				return fmt.Errorf("%w: %s", symbols.ErrNotFound, name)
			}
			members, malformed := symbols.ForceClass(sym)
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
