package diag

import (
	"testing"

	"jsema/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/stubs/sample.toml", []byte("a\nb\n"), 0)
	platformFile := fs.AddVirtual(PlatformPathPrefix+"java.lang.toml", []byte("x\n"))

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     SymMalformedSignature,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: platformFile, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     InfUncheckedConversion,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "error SYM1001 testdata/stubs/sample.toml:1:1 first line second\n" +
		"note SYM1001 testdata/stubs/sample.toml:2:1 note line\n" +
		"warning INF2006 testdata/stubs/sample.toml:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsPlatformEntries(t *testing.T) {
	fs := source.NewFileSet()
	platformFile := fs.AddVirtual(PlatformPathPrefix+"java.util.toml", []byte("x\ny\n"))

	diags := []*Diagnostic{{
		Severity: SevError,
		Code:     SymMalformedSignature,
		Message:  "bad",
		Primary:  source.Span{File: platformFile, Start: 2, End: 3},
	}}

	want := "error SYM1001 <platform>/java.util.toml:2:1 bad"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got := FormatGoldenDiagnostics(diags, fs, false); got != "" {
		t.Fatalf("platform entries must be skipped in golden output, got %q", got)
	}
}

func TestBagSortDedupAndLimit(t *testing.T) {
	bag := NewBag(3)
	sp := source.Span{File: 0, Start: 5, End: 6}
	bag.Add(NewError(InfAmbiguousMethod, sp, "b"))
	bag.Add(New(SevWarning, InfUncheckedConversion, source.Span{Start: 1, End: 2}, "a"))
	bag.Add(NewError(InfAmbiguousMethod, sp, "b"))
	if bag.Add(NewError(InfNoApplicableMethod, sp, "dropped")) {
		t.Fatalf("bag must refuse items past its limit")
	}

	bag.Dedup()
	bag.Sort()
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", len(items))
	}
	if items[0].Code != InfUncheckedConversion || items[1].Code != InfAmbiguousMethod {
		t.Fatalf("unexpected order: %v, %v", items[0].Code, items[1].Code)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	if errs, warns, infos := bag.Counts(); errs != 1 || warns != 1 || infos != 0 {
		t.Fatalf("unexpected counts %d/%d/%d", errs, warns, infos)
	}
}

func TestSyncReporterDropsRepeats(t *testing.T) {
	bag := NewBag(10)
	r := NewSyncReporter(BagReporter{Bag: bag}, DropDuplicates())
	sp := source.Span{Start: 1, End: 4}
	for i := 0; i < 3; i++ {
		ReportError(r, SymMalformedSignature, sp, "Expected type").Emit()
	}
	r.Report(SymMalformedSignature, SevError, sp, "other message", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}

	// без DropDuplicates повторы проходят
	plain := NewBag(10)
	pr := NewSyncReporter(BagReporter{Bag: plain})
	ReportWarning(pr, InfUncheckedConversion, sp, "unchecked").WithNote(sp, "here").Emit()
	ReportWarning(pr, InfUncheckedConversion, sp, "unchecked").Emit()
	if plain.Len() != 2 {
		t.Fatalf("expected repeats without dedup, got %d", plain.Len())
	}
	if len(plain.Items()[0].Notes) != 1 {
		t.Fatalf("notes must be forwarded")
	}
}

func TestFormatSkipsUnknownSpans(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.AddVirtual("a.toml", []byte("ab\n"))
	diags := []*Diagnostic{
		{Severity: SevError, Code: IOIndexDecode, Message: "gone", Primary: source.Span{File: 7}},
		{Severity: SevError, Code: IOIndexDecode, Message: "past end", Primary: source.Span{File: f, Start: 40, End: 41}},
	}
	if got := FormatShortDiagnostics(diags, fs, false); got != "" {
		t.Fatalf("expected nothing, got %q", got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SymMalformedSignature: "SYM1001",
		InfNoApplicableMethod: "INF2001",
		IOIndexDecode:         "IO4002",
		ProjInvalidConfig:     "PRJ5001",
		Code(9999):            "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: want %s, got %s", code, want, got)
		}
	}
	if Code(1999).Title() != "Unknown error" {
		t.Errorf("unknown codes fall back to the generic title")
	}
}
