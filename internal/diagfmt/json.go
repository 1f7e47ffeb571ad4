package diagfmt

import (
	"encoding/json"
	"io"

	"jsema/internal/diag"
	"jsema/internal/source"
)

// Position is a 1-based line and column.
type Position struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location points into a source file. Byte offsets are always present; line
// and column only with JSONOpts.IncludePositions.
type Location struct {
	File      string    `json:"file,omitempty"`
	StartByte uint32    `json:"start_byte"`
	EndByte   uint32    `json:"end_byte"`
	Start     *Position `json:"start,omitempty"`
	End       *Position `json:"end,omitempty"`
}

type Note struct {
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
}

type Edit struct {
	Location *Location `json:"location,omitempty"`
	NewText  string    `json:"new_text"`
}

type Fix struct {
	Title string `json:"title"`
	Edits []Edit `json:"edits,omitempty"`
}

// Entry is one diagnostic.
type Entry struct {
	Severity string    `json:"severity"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
	Notes    []Note    `json:"notes,omitempty"`
	Fixes    []Fix     `json:"fixes,omitempty"`
}

// Document is the root of the JSON output. Errors and Warnings count every
// input diagnostic, Truncated the ones cut by JSONOpts.Max.
type Document struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	Truncated   int     `json:"truncated,omitempty"`
}

type locator struct {
	fs   *source.FileSet
	opts JSONOpts
}

// at returns nil for spans without a file (synthetic nodes).
func (l locator) at(span source.Span) *Location {
	if !hasLocation(l.fs, span) {
		return nil
	}
	loc := &Location{
		File:      formatPath(l.fs, l.fs.Get(span.File), l.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if l.opts.IncludePositions {
		start, end := l.fs.Resolve(span)
		loc.Start = &Position{Line: start.Line, Col: start.Col}
		loc.End = &Position{Line: end.Line, Col: end.Col}
	}
	return loc
}

func (l locator) notes(d *diag.Diagnostic) []Note {
	// timing reports carry their payload in notes
	if !(l.opts.IncludeNotes || d.Code == diag.ObsTimings) || len(d.Notes) == 0 {
		return nil
	}
	out := make([]Note, len(d.Notes))
	for i, n := range d.Notes {
		out[i] = Note{Message: n.Msg, Location: l.at(n.Span)}
	}
	return out
}

func (l locator) fixes(d *diag.Diagnostic) []Fix {
	if !l.opts.IncludeFixes || len(d.Fixes) == 0 {
		return nil
	}
	out := make([]Fix, len(d.Fixes))
	for i, f := range d.Fixes {
		out[i].Title = f.Title
		for _, e := range f.Edits {
			out[i].Edits = append(out[i].Edits, Edit{Location: l.at(e.Span), NewText: e.NewText})
		}
	}
	return out
}

// Build converts items to the JSON document without encoding it.
func Build(items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) Document {
	shown := items
	if opts.Max > 0 && opts.Max < len(items) {
		shown = items[:opts.Max]
	}
	l := locator{fs: fs, opts: opts}
	doc := Document{
		Diagnostics: make([]Entry, len(shown)),
		Count:       len(shown),
		Truncated:   len(items) - len(shown),
	}
	doc.Errors, doc.Warnings, _ = diag.CountItems(items)
	for i := range shown {
		d := &shown[i]
		doc.Diagnostics[i] = Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: l.at(d.Primary),
			Notes:    l.notes(d),
			Fixes:    l.fixes(d),
		}
	}
	return doc
}

// JSON writes items as an indented JSON document.
func JSON(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(items, fs, opts))
}
