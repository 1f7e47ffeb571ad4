package source

import (
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns every file a span can point into: stub indexes read from
// disk, the embedded platform index and in-memory units. Adding a path twice
// keeps both versions; lookups by path see the newest.
// Safe for concurrent use.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	byPath  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// SetBaseDir sets the directory relative display paths start from.
func (s *FileSet) SetBaseDir(dir string) {
	s.mu.Lock()
	s.baseDir = dir
	s.mu.Unlock()
}

// BaseDir returns the base directory, falling back to the working directory.
func (s *FileSet) BaseDir() string {
	s.mu.RLock()
	dir := s.baseDir
	s.mu.RUnlock()
	if dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add stores content under path and returns its new FileID.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	f.ID = FileID(n)
	s.files = append(s.files, f)
	s.byPath[f.Path] = f.ID
	return f.ID
}

// AddVirtual adds an in-memory file.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Load reads path from disk. A UTF-8 BOM is dropped and CRLF line endings
// become LF; both are recorded in the file's flags.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- index paths come from the user's config or command line
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	var flags FileFlags
	content, bom := removeBOM(raw)
	if bom {
		flags |= FileHadBOM
	}
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return s.Add(path, content, flags), nil
}

// Get panics on an id this set did not hand out.
func (s *FileSet) Get(id FileID) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[id]
}

func (s *FileSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Lookup returns the newest file added under path.
func (s *FileSet) Lookup(path string) (FileID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPath[normalizePath(path)]
	return id, ok
}

// Resolve converts both ends of span to line and column.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := s.Get(span.File).LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}

// Line returns the 1-based line n without its newline; "" when out of range.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return string(f.Content[start:end])
}
