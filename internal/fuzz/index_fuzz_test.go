package fuzztests

import (
	"testing"

	"jsema/internal/diag"
	"jsema/internal/source"
	"jsema/internal/symbols"
	"jsema/internal/testkit"
	"jsema/internal/types"
)

func FuzzDecodeIndex(f *testing.F) {
	addIndexSeeds(f)

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > maxSeedBytes {
			t.Skip()
		}
		files := source.NewFileSet()
		id := files.AddVirtual("fuzz.toml", data)
		idx, err := symbols.DecodeIndex(files, id)
		if err != nil {
			return
		}
		if err := testkit.CheckIndexSpans(idx, files.Get(id)); err != nil {
			t.Fatalf("span invariants: %v", err)
		}

		// загрузчик не должен паниковать на любом декодированном индексе
		bag := diag.NewBag(64)
		reg := types.NewRegistry(types.WithReporter(diag.BagReporter{Bag: bag}))
		platform, err := symbols.PlatformIndexes(files)
		if err != nil {
			t.Fatalf("platform index: %v", err)
		}
		loader := symbols.NewLoader(reg, platform...)
		loader.AddIndex(idx)
		for _, name := range idx.Names() {
			sym := loader.ResolveClass(name)
			if sym == nil {
				continue
			}
			symbols.ForceClass(sym)
		}
	})
}
