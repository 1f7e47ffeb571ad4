package fuzztests

import (
	"testing"

	"jsema/internal/source"
	"jsema/internal/symbols"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// platformIndexes decodes the embedded platform index once per harness.
func platformIndexes(tb testing.TB) []*symbols.Index {
	tb.Helper()
	idxs, err := symbols.PlatformIndexes(source.NewFileSet())
	if err != nil {
		tb.Fatalf("platform index: %v", err)
	}
	return idxs
}

// addSignatureSeeds adds every signature of the platform index with the
// grammar it is parsed with.
func addSignatureSeeds(f *testing.F) {
	for _, idx := range platformIndexes(f) {
		for _, c := range idx.Classes {
			if c.Signature != "" {
				f.Add(uint8(symbols.ClassSignature), c.Signature)
			}
			for _, fld := range c.Fields {
				f.Add(uint8(symbols.FieldSignature), fld.TypeSignature())
			}
			for _, m := range c.Methods {
				f.Add(uint8(symbols.MethodSignature), m.TypeSignature())
			}
		}
	}
	// битые примеры, чтобы мутатор начинал с путей ошибок
	f.Add(uint8(symbols.MethodSignature), "(Q)I")
	f.Add(uint8(symbols.ClassSignature), "<T:>Ljava/lang/Object;")
	f.Add(uint8(symbols.FieldSignature), "Ljava/util/List<")
	f.Add(uint8(symbols.FieldSignature), "[[[")
}

// addIndexSeeds adds small hand-written documents plus the platform files,
// clamped to maxSeedBytes.
func addIndexSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("schema = 1\n"))
	f.Add([]byte(`schema = 1
[[class]]
name = "demo.Box"
access = ["public"]
signature = "<T:Ljava/lang/Object;>Ljava/lang/Object;"
[[class.method]]
name = "get"
access = ["public"]
signature = "()TT;"
[[class.method]]
name = "<init>"
access = ["public"]
descriptor = "(Ljava/lang/Object;)V"
params = ["value"]
`))
	f.Add([]byte(`[[class]]
name = "demo.Bad"
super = "java.lang.Object"
[[class.field]]
name = "x"
descriptor = "Q"
`))
	files := source.NewFileSet()
	idxs, err := symbols.PlatformIndexes(files)
	if err != nil {
		f.Fatalf("platform index: %v", err)
	}
	for _, idx := range idxs {
		f.Add(clampSeed(files.Get(idx.File).Content))
	}
}

func clampSeed(data []byte) []byte {
	if len(data) <= maxSeedBytes {
		return data
	}
	return data[:maxSeedBytes]
}
