package symbols_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/source"
	"jsema/internal/symbols"
	"jsema/internal/testkit"
	"jsema/internal/types"
)

func TestConcurrentResolveReturnsOneSymbol(t *testing.T) {
	f := testkit.NewFixture(t)
	const workers = 16
	got := make([]types.ClassSymbol, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sym := f.Loader.ResolveClass("java.util.ArrayList")
			sym.TypeParameters()
			sym.SuperclassType(types.EmptySubst)
			got[i] = sym
		}(i)
	}
	wg.Wait()
	for _, sym := range got[1:] {
		assert.Same(t, got[0], sym)
	}
}

func TestMaterializePlatform(t *testing.T) {
	f := testkit.NewFixture(t)
	stats, err := f.Loader.Materialize(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, len(f.Loader.StubNames()), stats.Classes)
	assert.Greater(t, stats.Members, stats.Classes)
	assert.Zero(t, stats.Malformed)
	assert.Empty(t, f.Bag.Items(), "the platform index resolves on its own")
	assert.Zero(t, f.Reg.Factory().UnresolvedCount())
}

func TestMaterializeCountsMalformed(t *testing.T) {
	f := testkit.NewFixture(t, lazyIndex)
	f.Unit(t, &ast.Unit{Package: "demo", Types: []*ast.ClassDecl{{Name: "Src"}}})

	stats, err := f.Loader.Materialize(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, len(f.Loader.StubNames())+1, stats.Classes)
	assert.Equal(t, 2, stats.Malformed)
	assert.Equal(t, 2, f.CountCode(diag.SymMalformedSignature))
}

func TestMaterializeCanceled(t *testing.T) {
	f := testkit.NewFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Loader.Materialize(ctx, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlatformIndexes(t *testing.T) {
	files := source.NewFileSet()
	idxs, err := symbols.PlatformIndexes(files)
	require.NoError(t, err)
	require.Len(t, idxs, len(symbols.PlatformFiles()))
	for _, idx := range idxs {
		assert.Empty(t, idx.Warnings, idx.Path)
		assert.Contains(t, idx.Path, diag.PlatformPathPrefix)
		require.NoError(t, testkit.CheckIndexSpans(idx, files.Get(idx.File)))
	}
}

func TestIndexNamesAndLookup(t *testing.T) {
	f := testkit.NewFixture(t)
	idx := f.Index(t, "names.toml", lazyIndex)
	assert.Equal(t, []string{"demo.Box", "demo.Plain", "demo.Plain$1", "demo.Plain$Inner", "demo.Shape"}, idx.Names())
	rec, ok := idx.Lookup("demo.Shape")
	require.True(t, ok)
	assert.Equal(t, "area", rec.Methods[0].Name)
	assert.Equal(t, "()D", rec.Methods[0].TypeSignature())
}

func TestDecodeIndexRejects(t *testing.T) {
	cases := map[string]string{
		"schema":   "schema = 7\n",
		"nameless": "[[class]]\naccess = [\"public\"]\n",
		"syntax":   "[[class]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			files := source.NewFileSet()
			id := files.AddVirtual(name+".toml", []byte(doc))
			_, err := symbols.DecodeIndex(files, id)
			require.Error(t, err)
		})
	}
}

func TestDecodeIndexWarnsOnUnknownKeys(t *testing.T) {
	files := source.NewFileSet()
	id := files.AddVirtual("extra.toml", []byte("[[class]]\nname = \"a.B\"\ncolour = \"red\"\n"))
	idx, err := symbols.DecodeIndex(files, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"class.colour"}, idx.Warnings)
}

func TestParseAccess(t *testing.T) {
	mods, unknown := symbols.ParseAccess([]string{"public", " Static ", "annotation", "sealed"})
	assert.True(t, mods.Has(types.ModPublic|types.ModStatic|types.ModAnnotation|types.ModInterface|types.ModAbstract))
	assert.Equal(t, []string{"sealed"}, unknown)
}

func TestBinaryNameHelpers(t *testing.T) {
	assert.Equal(t, "java.util", symbols.PackageOf("java.util.Map$Entry"))
	assert.Equal(t, "", symbols.PackageOf("Top"))
	assert.True(t, symbols.IsNestedName("java.util.Map$Entry"))
	assert.False(t, symbols.IsNestedName("java.util.Map"))
}

func TestResolveNormalizesUnicodeNames(t *testing.T) {
	// "Cafe" + combining acute accent, as a decomposing file system writes it
	f := testkit.NewFixture(t, "[[class]]\nname = \"demo.Cafe\u0301\"\naccess = [\"public\"]\nsuper = \"java.lang.Object\"\n")

	composed := f.Loader.ResolveClass("demo.Caf\u00e9")
	require.NotNil(t, composed)
	assert.Same(t, composed, f.Loader.ResolveClass("demo.Cafe\u0301"))
}
