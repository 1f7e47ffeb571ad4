package diag

import "jsema/internal/source"

// Severity orders findings; comparisons like sev >= SevError are meaningful.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in one-line output.
func (s Severity) Label() string {
	switch {
	case s >= SevError:
		return "error"
	case s == SevWarning:
		return "warning"
	}
	return "info"
}

// Note points at related context, e.g. a candidate method.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the text under Span.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a titled group of edits.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one finding. A zero Primary span means the finding has no
// location, e.g. a missing index file.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// IsError reports whether d fails a run.
func (d Diagnostic) IsError() bool { return d.Severity >= SevError }

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
