package trace

import (
	"io"
	"sync"
)

// StreamTracer writes each accepted event as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	owned  io.Closer // closed by Close; nil for writers we did not open
	enc    encoder
	level  Level
	wrote  bool
	closed bool
}

// NewStreamTracer writes events to w in format. The writer stays open on
// Close unless the tracer opened it itself.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return newStream(w, nil, level, format, "")
}

func newStream(w io.Writer, owned io.Closer, level Level, format Format, run string) *StreamTracer {
	t := &StreamTracer{w: w, owned: owned, enc: newEncoder(format, run), level: level}
	t.write(t.enc.header())
	t.wrote = t.enc.primed()
	return t
}

// write ignores errors: a broken trace output never fails the analysis.
func (t *StreamTracer) write(p []byte) {
	if len(p) > 0 {
		_, _ = t.w.Write(p) //nolint:errcheck
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	ev.Seq = nextSeq()
	if t.wrote {
		t.write(t.enc.separator())
	}
	t.wrote = true
	t.write(t.enc.event(ev))
}

// Flush flushes writers that buffer, such as *bufio.Writer.
func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close writes the format footer and closes an owned output.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.write(t.enc.footer())
	t.mu.Unlock()

	err := t.Flush()
	if t.owned != nil {
		if cerr := t.owned.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
