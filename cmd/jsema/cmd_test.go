package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jsema/internal/diag"
	"jsema/internal/diagfmt"
	"jsema/internal/observ"
	"jsema/internal/project"
	"jsema/internal/session"
	"jsema/internal/symbols"
	"jsema/internal/version"
)

func TestSignatureKind(t *testing.T) {
	cases := []struct {
		flag, sig string
		want      symbols.SignatureKind
	}{
		{"auto", "(I)V", symbols.MethodSignature},
		{"auto", "<T:Ljava/lang/Object;>(TT;)TT;", symbols.MethodSignature},
		{"auto", "Ljava/lang/String;", symbols.FieldSignature},
		{"class", "Ljava/lang/Object;", symbols.ClassSignature},
	}
	for _, tc := range cases {
		got, err := signatureKind(tc.flag, tc.sig)
		if err != nil {
			t.Fatalf("signatureKind(%q, %q) error: %v", tc.flag, tc.sig, err)
		}
		if got != tc.want {
			t.Fatalf("signatureKind(%q, %q) = %d, want %d", tc.flag, tc.sig, got, tc.want)
		}
	}
	if _, err := signatureKind("module", "X"); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}

func TestPrintClass(t *testing.T) {
	s, err := session.New(context.Background(), project.Default())
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	defer s.Close()

	sym, ok := s.Registry().LookupClass("java.util.function.Function")
	if !ok {
		t.Fatal("Function not in the platform index")
	}
	var buf bytes.Buffer
	printClass(&buf, sym, true, false)
	out := buf.String()

	for _, want := range []string{
		"public abstract interface java.util.function.Function<T, R>\n",
		"  methods:\n",
		"apply(T t)",
		"<V> java.util.function.Function<T, V>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	printClass(&buf, sym, false, false)
	if strings.Contains(buf.String(), "methods:") {
		t.Errorf("header only output lists members:\n%s", buf.String())
	}
}

func TestRunSigCheck(t *testing.T) {
	var out, errOut bytes.Buffer
	sigCheckCmd.SetOut(&out)
	sigCheckCmd.SetErr(&errOut)
	t.Cleanup(func() {
		sigCheckCmd.SetOut(nil)
		sigCheckCmd.SetErr(nil)
	})

	if err := runSigCheck(sigCheckCmd, []string{"(ILjava/lang/String;)V"}); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}
	if out.String() != "ok\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	err := runSigCheck(sigCheckCmd, []string{"(Q)V"})
	if err == nil {
		t.Fatal("expected malformed descriptor to fail")
	}
	if !strings.Contains(err.Error(), "offset 1") {
		t.Errorf("unexpected error %v", err)
	}
	if !strings.Contains(errOut.String(), "     ^") {
		t.Errorf("expected caret rendering, got %q", errOut.String())
	}
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp", "b.mp", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := clearCache(dir)
	if err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed %d entries, want 2", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Fatalf("unrelated file removed: %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("fancy"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
	if shouldUseTUI(uiModeOff) || !shouldUseTUI(uiModeOn) {
		t.Fatal("explicit modes must win over terminal detection")
	}
}

func TestTimingsDiagnosticKeepsNotesInJSON(t *testing.T) {
	tm := observ.NewTimer()
	tm.End(tm.Begin("index"), "2 indexes, 0 cached")
	tm.End(tm.Begin("resolve"), "")

	d := timingsDiagnostic(tm.Report())
	if d.Severity != diag.SevInfo || d.IsError() {
		t.Fatalf("timings must not count as an error: %+v", d)
	}
	doc := diagfmt.Build([]diag.Diagnostic{d}, nil, diagfmt.JSONOpts{})
	entry := doc.Diagnostics[0]
	if entry.Code != diag.ObsTimings.ID() || len(entry.Notes) != 2 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if !strings.HasPrefix(entry.Notes[0].Message, "index: ") || !strings.HasSuffix(entry.Notes[0].Message, "(2 indexes, 0 cached)") {
		t.Errorf("unexpected note %q", entry.Notes[0].Message)
	}
	if entry.Location != nil {
		t.Errorf("timings have no location, got %+v", entry.Location)
	}
}

func TestVersionReport(t *testing.T) {
	b := version.Build{Version: "1.2.3", Commit: "0123456789abcdef", Date: "2025-03-01"}
	short := newVersionReport(b, false)
	if short.Commit != "" || short.Platform != nil {
		t.Fatalf("short report carries details: %+v", short)
	}

	full := newVersionReport(b, true)
	if full.Commit != "0123456789ab" || full.CacheSchema != symbols.CacheSchema() {
		t.Fatalf("unexpected full report %+v", full)
	}
	if len(full.Platform) == 0 || !strings.HasSuffix(full.Platform[0], ".toml") {
		t.Fatalf("platform index not listed: %v", full.Platform)
	}

	var buf bytes.Buffer
	writeVersion(&buf, full, true)
	for _, want := range []string{"jsema ", "commit:   0123456789ab", "message:  unknown", "java_lang.toml"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in:\n%s", want, buf.String())
		}
	}
}
