package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// SpanContext is the span a context runs under.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// WithTracer returns ctx carrying t; nil stands for Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return lookup(ctx, tracerKey{}, Nop)
}

// WithSpanContext returns ctx running under sc.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanKey{}, sc)
}

// CurrentSpan returns the span ctx runs under; the zero value means a root.
func CurrentSpan(ctx context.Context) SpanContext {
	return lookup(ctx, spanKey{}, SpanContext{})
}

func lookup[T any](ctx context.Context, key any, def T) T {
	if ctx == nil {
		return def
	}
	if v, ok := ctx.Value(key).(T); ok {
		return v
	}
	return def
}
