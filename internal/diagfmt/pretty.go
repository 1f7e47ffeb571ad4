package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jsema/internal/diag"
	"jsema/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку источника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	PrettyItems(w, bag.Items(), fs, opts)
}

// PrettyItems is Pretty over an already collected slice.
func PrettyItems(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range items {
		d := &items[i]
		loc := location(fs, d.Primary, opts.PathMode)
		header := fmt.Sprintf("%s %s: %s",
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if loc != "" {
			header = p.path.Sprint(loc) + ": " + header
		}
		fmt.Fprintln(w, clip(header, opts.Width))
		writeSnippet(w, fs, d.Primary, p)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				line := p.note.Sprint("note") + ": " + n.Msg
				if nl := location(fs, n.Span, opts.PathMode); nl != "" {
					line = p.note.Sprint("note") + ": " + p.path.Sprint(nl) + ": " + n.Msg
				}
				fmt.Fprintln(w, "  "+clip(line, opts.Width))
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(w, "  %s: %s\n", p.fix.Sprint("fix"), f.Title)
				for _, e := range f.Edits {
					fmt.Fprintf(w, "    %s %q\n", p.fix.Sprint("+"), e.NewText)
				}
			}
		}
	}
}

// hasLocation reports whether span points into a known file. The zero span
// stands for synthetic nodes.
func hasLocation(fs *source.FileSet, span source.Span) bool {
	if fs == nil || span.IsZero() {
		return false
	}
	return int(span.File) < fs.Len()
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	if !hasLocation(fs, span) {
		return ""
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.DisplayPath(mode, base)
}

func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, p palette) {
	if !hasLocation(fs, span) {
		return
	}
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	text := strings.TrimRight(f.Line(start.Line), "\r")
	if text == "" {
		return
	}
	num := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), expandTabs(text))

	// колонки в байтах, ширина в ячейках терминала
	col := min(int(start.Col)-1, len(text))
	endCol := len(text)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, col), len(text))
	}
	lead := runewidth.StringWidth(expandTabs(text[:col]))
	width := max(runewidth.StringWidth(text[col:endCol]), 1)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", lead), p.caret.Sprint(marker))
}

func expandTabs(s string) string { return strings.ReplaceAll(s, "\t", "    ") }

// clip shortens s to width cells; 0 keeps it whole.
func clip(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
