// Package trace is the logging layer of jsema: structured events for
// session passes, compilation units and type system steps.
//
// Трассировка включается флагами CLI:
//
//	jsema index check --trace=- --trace-level=detail
//	jsema sig java.util.List --trace=run.json --trace-level=debug
//
// Levels filter by scope: LevelPhase lets driver and pass events through,
// LevelDetail adds units and LevelDebug adds node events such as the
// interning of unresolved classes or an overload retry.
//
// Tracers travel in the context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "resolve", 0)
//	defer span.End("")
//
// Every output starts with the run id from Config.RunID so several runs can
// share one file.
package trace
