package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jsema/internal/ast"
	"jsema/internal/trace"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "src", "main", "java")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := FindConfig(nested)
	if err != nil || !ok {
		t.Fatalf("FindConfig = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Fatalf("FindConfig = %q, want %q", got, want)
	}
}

func TestFindConfigStopsAtRepository(t *testing.T) {
	outer := t.TempDir()
	writeConfig(t, outer, "")
	repo := filepath.Join(outer, "checkout")
	nested := filepath.Join(repo, "pkg")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if ok {
		t.Fatalf("config outside the repository must be ignored, got %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[session]
workers = 3
max_diagnostics = 20

[trace]
level = "detail"
mode = "ring"

[classpath]
indexes = ["stubs/guava.toml", "/abs/jdk.toml"]
cache = ".jsema/cache"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.WorkerCount() != 3 || cfg.Session.MaxDiagnostics != 20 {
		t.Fatalf("session = %+v", cfg.Session)
	}
	paths := cfg.IndexPaths()
	if paths[0] != filepath.Join(dir, "stubs", "guava.toml") || paths[1] != "/abs/jdk.toml" {
		t.Fatalf("index paths = %v", paths)
	}
	if cfg.CacheDir() != filepath.Join(dir, ".jsema", "cache") {
		t.Fatalf("cache dir = %q", cfg.CacheDir())
	}
	tc, err := cfg.TracerConfig()
	if err != nil {
		t.Fatalf("TracerConfig: %v", err)
	}
	if tc.Level != trace.LevelDetail || tc.Mode != trace.ModeRing {
		t.Fatalf("tracer config = %+v", tc)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[session]\nwrokers = 2\n")
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigValidates(t *testing.T) {
	cases := map[string]string{
		"negative workers": "[session]\nworkers = -1\n",
		"bad level":        "[trace]\nlevel = \"loud\"\n",
		"bad mode":         "[trace]\nmode = \"disk\"\n",
		"empty index":      "[classpath]\nindexes = [\"\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, t.TempDir(), body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDiscoverFallsBackToDefault(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" || cfg.Session.MaxDiagnostics != defaultMaxDiagnostics {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.CacheDir() != "" {
		t.Fatalf("cache enabled by default: %q", cfg.CacheDir())
	}
}

func TestDescribeUnit(t *testing.T) {
	u := &ast.Unit{
		Path:    "p/Box.java",
		Package: "p",
		Imports: []*ast.Import{{Name: "java.util.List"}, {Name: "java.util", OnDemand: true}},
		Types: []*ast.ClassDecl{{
			Name:       "Box",
			Extends:    ast.Named("Base", ast.Named("q.Item")),
			Implements: []*ast.TypeRef{ast.Named("java.io.Serializable")},
			Nested:     []*ast.ClassDecl{{Name: "Inner"}},
		}},
	}

	meta := DescribeUnit(u)
	if len(meta.Declares) != 2 || meta.Declares[0].Name != "p.Box" || meta.Declares[1].Name != "p.Box$Inner" {
		t.Fatalf("declares = %+v", meta.Declares)
	}
	var uses []string
	for _, use := range meta.Uses {
		uses = append(uses, use.Name)
	}
	want := []string{"java.io.Serializable", "java.util.List", "p.Base", "q.Item"}
	if len(uses) != len(want) {
		t.Fatalf("uses = %v, want %v", uses, want)
	}
	for i := range want {
		if uses[i] != want[i] {
			t.Fatalf("uses = %v, want %v", uses, want)
		}
	}
}
