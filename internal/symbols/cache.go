package symbols

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"jsema/internal/source"
)

// cacheSchemaVersion must change whenever cachePayload or the index records
// change shape.
const cacheSchemaVersion uint16 = 1

// CacheSchema is the schema version this build writes into cache entries.
func CacheSchema() uint16 { return cacheSchemaVersion }

// ErrStaleCache reports a cache entry written by another schema or for other
// index content.
var ErrStaleCache = errors.New("symbols: stale index cache")

// Digest is the SHA-256 of an index file's content.
type Digest [sha256.Size]byte

// DigestOf hashes index content.
func DigestOf(content []byte) Digest { return sha256.Sum256(content) }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

type cachePayload struct {
	Schema      uint16
	IndexSchema int
	Content     Digest
	Index       *Index
}

// WriteIndexCache encodes idx for content hash sum.
func WriteIndexCache(w io.Writer, idx *Index, sum Digest) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&cachePayload{
		Schema:      cacheSchemaVersion,
		IndexSchema: IndexSchema,
		Content:     sum,
		Index:       idx,
	})
}

// ReadIndexCache decodes an index written by WriteIndexCache and rebinds its
// spans to file. A payload for other content or another schema yields
// ErrStaleCache.
func ReadIndexCache(r io.Reader, want Digest, file source.FileID) (*Index, error) {
	var p cachePayload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode index cache: %w", err)
	}
	if p.Schema != cacheSchemaVersion || p.IndexSchema != IndexSchema || p.Content != want || p.Index == nil {
		return nil, ErrStaleCache
	}
	idx := p.Index
	idx.File = file
	for _, c := range idx.Classes {
		c.Span.File = file
		c.SigSpan.File = file
		for _, f := range c.Fields {
			f.Span.File = file
		}
		for _, m := range c.Methods {
			m.Span.File = file
		}
	}
	idx.reindex()
	return idx, nil
}

// IndexCache stores decoded indexes on disk keyed by content digest.
// Safe for concurrent use.
type IndexCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenIndexCache uses dir, or the user cache directory when dir is empty.
func OpenIndexCache(dir string) (*IndexCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "jsema", "index")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &IndexCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *IndexCache) Dir() string { return c.dir }

func (c *IndexCache) pathFor(sum Digest) string {
	return filepath.Join(c.dir, sum.String()+".mp")
}

// Put writes idx under sum, replacing any older entry atomically.
func (c *IndexCache) Put(sum Digest, idx *Index) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err := WriteIndexCache(f, idx, sum); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), c.pathFor(sum))
}

// Get reads the entry of sum. A missing or stale entry reports false.
func (c *IndexCache) Get(sum Digest, file source.FileID) (*Index, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(sum))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	idx, err := ReadIndexCache(f, sum, file)
	if errors.Is(err, ErrStaleCache) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return idx, true, nil
}

// LoadIndex decodes the index file at path through the cache: a hit skips
// TOML decoding. The file is added to fs either way so spans resolve.
func LoadIndex(fs *source.FileSet, path string, cache *IndexCache) (*Index, bool, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, false, err
	}
	f := fs.Get(id)
	sum := DigestOf(f.Content)
	if idx, ok, err := cache.Get(sum, id); err != nil {
		return nil, false, err
	} else if ok {
		idx.Path = f.Path
		return idx, true, nil
	}
	idx, err := DecodeIndex(fs, id)
	if err != nil {
		return nil, false, err
	}
	if err := cache.Put(sum, idx); err != nil {
		return nil, false, fmt.Errorf("write index cache: %w", err)
	}
	return idx, false, nil
}
