package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"jsema/internal/diag"
	"jsema/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("name = \"demo.Box\"\nsignature = \"<T:>Ljava/lang/Object;\"\n")
	fileID := fs.AddVirtual("/home/user/project/stubs/demo.toml", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.SymMalformedSignature,
		source.Span{File: fileID, Start: 31, End: 32},
		"malformed signature",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/stubs/demo.toml:2:14"},
		{"Relative path", PathModeRelative, "stubs/demo.toml:2:14"},
		{"Basename only", PathModeBasename, "demo.toml:2:14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SYM1001: malformed signature") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("Main.java", []byte("class Main {\n\tint x = max(\"a\");\n}\n"))

	bag := diag.NewBag(2)
	// max("a") на второй строке
	bag.Add(diag.NewError(diag.InfNoApplicableMethod, source.Span{File: fileID, Start: 22, End: 30}, "no applicable method"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, source and caret lines, got:\n%s", buf.String())
	}
	if lines[1] != " 2 |     int x = max(\"a\");" {
		t.Errorf("unexpected source line %q", lines[1])
	}
	if lines[2] != "   |             ^~~~~~~~" {
		t.Errorf("unexpected caret line %q", lines[2])
	}
}

func TestPrettySyntheticSpan(t *testing.T) {
	bag := diag.NewBag(2)
	bag.Add(diag.NewError(diag.InfNoApplicableMethod, source.Span{}, "no applicable method"))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if got := buf.String(); got != "ERROR INF2001: no applicable method\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("List<String> xs = List.of(1)\n")
	fileID := fs.AddVirtual("test.java", content)

	primary := source.Span{File: fileID, Start: 18, End: 28}
	d := diag.New(diag.SevWarning, diag.InfUncheckedConversion, primary, "unchecked conversion")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 12}, "target declared here")
	d = d.WithNote(source.Span{}, "candidate List.of(E)")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: source.Span{File: fileID, Start: 28, End: 28}, NewText: ";"})

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	output := buf.String()

	for _, want := range []string{
		"test.java:1:19: WARNING INF2006: unchecked conversion",
		"note: test.java:1:1: target declared here",
		"note: candidate List.of(E)",
		"fix: insert semicolon",
		`+ ";"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyColorAndWidth(t *testing.T) {
	bag := diag.NewBag(2)
	bag.Add(diag.NewError(diag.InfAmbiguousMethod, source.Span{}, strings.Repeat("x", 80)))

	var plain bytes.Buffer
	Pretty(&plain, bag, nil, PrettyOpts{Width: 20})
	line := strings.TrimRight(plain.String(), "\n")
	if !strings.HasSuffix(line, "…") || len([]rune(line)) != 20 {
		t.Errorf("expected line clipped to 20 cells, got %q", line)
	}

	var colored bytes.Buffer
	Pretty(&colored, bag, nil, PrettyOpts{Color: true})
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("expected escape sequences, got %q", colored.String())
	}
}
