package source

import "fmt"

// Span is a half-open byte range in one file. The zero Span marks synthetic
// nodes and findings without a location.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

// IsZero reports whether s is the synthetic span.
func (s Span) IsZero() bool { return s == Span{} }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Sub narrows s to [off, off+n) relative to its start, clamped to s. The
// loader uses it to point at the offending byte of a signature literal.
func (s Span) Sub(off, n uint32) Span {
	start := min(s.Start+off, s.End)
	return Span{File: s.File, Start: start, End: min(start+n, s.End)}
}

// Contains reports whether the byte at off lies in s.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}
