package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"jsema/internal/source"
)

// PlatformPathPrefix marks virtual files holding the embedded platform index.
const PlatformPathPrefix = "<platform>/"

// line is one rendered entry: a diagnostic or one of its notes.
type line struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

func (l line) compare(o line) int {
	return cmp.Or(
		cmp.Compare(l.path, o.path),
		cmp.Compare(l.pos.Line, o.pos.Line),
		cmp.Compare(l.pos.Col, o.pos.Col),
		cmp.Compare(l.sev, o.sev),
		cmp.Compare(l.code, o.code),
		cmp.Compare(l.msg, o.msg),
	)
}

// FormatGoldenDiagnostics renders one line per diagnostic (and per note
// when includeNotes) for golden files. Entries inside the embedded platform
// index are dropped, so golden files do not churn when it changes.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return render(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics is the CLI short form; platform entries are kept.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return render(diags, fs, includeNotes, false)
}

func render(diags []*Diagnostic, fs *source.FileSet, includeNotes, skipPlatform bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var lines []line
	add := func(sev string, code Code, sp source.Span, msg string) {
		path, pos, ok := locate(fs, sp)
		if !ok || (skipPlatform && strings.HasPrefix(path, PlatformPathPrefix)) {
			return
		}
		lines = append(lines, line{sev: sev, code: code.ID(), path: path, pos: pos, msg: oneLine(msg)})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}
	slices.SortStableFunc(lines, line.compare)

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
	return b.String()
}

// locate resolves sp to a display path and position. Spans of files not in
// fs and spans past the end of their file do not resolve.
func locate(fs *source.FileSet, sp source.Span) (string, source.LineCol, bool) {
	if int(sp.File) >= fs.Len() {
		return "", source.LineCol{}, false
	}
	f := fs.Get(sp.File)
	if int(sp.Start) > len(f.Content) {
		return "", source.LineCol{}, false
	}
	start, _ := fs.Resolve(sp)
	path := f.Path
	if f.Flags&source.FileVirtual == 0 {
		path = f.DisplayPath(source.PathRelative, fs.BaseDir())
	}
	path = filepath.ToSlash(path)
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return path, start, true
}

func oneLine(msg string) string {
	msg = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
