package symbols_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsema/internal/source"
	"jsema/internal/symbols"
)

func decode(t *testing.T, files *source.FileSet, name, doc string) *symbols.Index {
	t.Helper()
	id := files.AddVirtual(name, []byte(doc))
	idx, err := symbols.DecodeIndex(files, id)
	require.NoError(t, err)
	return idx
}

func TestIndexCacheRoundTrip(t *testing.T) {
	files := source.NewFileSet()
	idx := decode(t, files, "lazy.toml", lazyIndex)
	sum := symbols.DigestOf([]byte(lazyIndex))

	var buf bytes.Buffer
	require.NoError(t, symbols.WriteIndexCache(&buf, idx, sum))

	other := files.AddVirtual("copy.toml", []byte(lazyIndex))
	got, err := symbols.ReadIndexCache(bytes.NewReader(buf.Bytes()), sum, other)
	require.NoError(t, err)

	assert.Equal(t, idx.Names(), got.Names())
	box, ok := got.Lookup("demo.Box")
	require.True(t, ok)
	want, _ := idx.Lookup("demo.Box")
	assert.Equal(t, want.Signature, box.Signature)
	assert.Equal(t, other, box.Span.File, "spans are rebound to the given file")
	assert.Equal(t, want.Span.Start, box.Span.Start)
	assert.Equal(t, other, box.Methods[1].Span.File)
}

func TestIndexCacheStaleDigest(t *testing.T) {
	files := source.NewFileSet()
	idx := decode(t, files, "lazy.toml", lazyIndex)

	var buf bytes.Buffer
	require.NoError(t, symbols.WriteIndexCache(&buf, idx, symbols.DigestOf([]byte("old"))))
	_, err := symbols.ReadIndexCache(&buf, symbols.DigestOf([]byte(lazyIndex)), idx.File)
	require.ErrorIs(t, err, symbols.ErrStaleCache)
}

func TestIndexCacheOnDisk(t *testing.T) {
	dir := t.TempDir()
	cache, err := symbols.OpenIndexCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	path := filepath.Join(dir, "lib.toml")
	require.NoError(t, os.WriteFile(path, []byte(lazyIndex), 0o600))

	files := source.NewFileSet()
	first, hit, err := symbols.LoadIndex(files, path, cache)
	require.NoError(t, err)
	assert.False(t, hit)

	entries, err := os.ReadDir(cache.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are renamed or removed")
	assert.Equal(t, symbols.DigestOf([]byte(lazyIndex)).String()+".mp", entries[0].Name())

	second, hit, err := symbols.LoadIndex(source.NewFileSet(), path, cache)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Names(), second.Names())
	assert.Equal(t, first.Path, second.Path)

	// a changed file misses and is decoded again
	require.NoError(t, os.WriteFile(path, []byte("[[class]]\nname = \"x.Y\"\n"), 0o600))
	third, hit, err := symbols.LoadIndex(source.NewFileSet(), path, cache)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"x.Y"}, third.Names())
}

func TestLoadIndexWithoutCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.toml")
	require.NoError(t, os.WriteFile(path, []byte(lazyIndex), 0o600))
	idx, hit, err := symbols.LoadIndex(source.NewFileSet(), path, nil)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, idx.Classes, 5)
}
