package diag

import (
	"sync"

	"jsema/internal/source"
)

// Reporter — минимальный контракт получения диагностик.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// ReportBuilder collects notes and fixes for one diagnostic until Emit.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: NewError(code, primary, msg)}
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(SevWarning, code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithNote(sp, msg)
	}
	return b
}

func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithFix(title, edits...)
	}
	return b
}

// Emit reports the diagnostic; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter != nil {
		d := b.diag
		b.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
}

// Diagnostic returns what has been built so far.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter — адаптер, который пишет в *Bag. Сам по себе он не
// потокобезопасен.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	d := New(sev, code, primary, msg)
	d.Notes, d.Fixes = notes, fixes
	r.Bag.Add(d)
}

// SyncReporter serializes reports to next, optionally dropping repeats of
// the same finding. Sessions share one across the goroutines that force
// stubs and type units, and several of them may hit the same broken
// signature.
type SyncReporter struct {
	mu   sync.Mutex
	next Reporter
	seen map[findingKey]struct{} // nil when duplicates pass
}

type findingKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// SyncOption configures NewSyncReporter.
type SyncOption func(*SyncReporter)

// DropDuplicates suppresses reports equal in code, severity, primary span
// and message to an earlier one.
func DropDuplicates() SyncOption {
	return func(r *SyncReporter) { r.seen = make(map[findingKey]struct{}) }
}

func NewSyncReporter(next Reporter, opts ...SyncOption) *SyncReporter {
	r := &SyncReporter{next: next}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SyncReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil || r.next == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen != nil {
		key := findingKey{code: code, sev: sev, span: primary, msg: msg}
		if _, dup := r.seen[key]; dup {
			return
		}
		r.seen[key] = struct{}{}
	}
	r.next.Report(code, sev, primary, msg, notes, fixes)
}

// Locked runs fn while holding the reporter's lock, so fn can read what
// next collected without racing a report.
func (r *SyncReporter) Locked(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}
