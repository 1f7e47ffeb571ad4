package source

type (
	// FileID indexes a file within its FileSet.
	FileID uint32
	FileFlags uint8
)

const (
	// FileVirtual marks files added from memory (embedded index, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded file. Content is already normalized.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Flags   FileFlags
}

// LineCol is a 1-based position; columns count bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
