package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"jsema/internal/source"
	"jsema/internal/symbols"
)

// CheckIndexSpans runs a minimal set of span invariants on a decoded index:
// 1) every located span points into sf and lies within its content
// 2) a located span covers exactly the text it was found for
// 3) member spans come after the span of their class name
func CheckIndexSpans(idx *symbols.Index, sf *source.File) error {
	if idx == nil || sf == nil {
		return fmt.Errorf("nil index or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	check := func(sp source.Span, want string) error {
		if sp.Empty() {
			// not located; records without the literal keep an empty span
			return nil
		}
		if sp.File != sf.ID {
			return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent || sp.Start > sp.End {
			return fmt.Errorf("span %v beyond content (%d bytes)", sp, lenContent)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != want {
			return fmt.Errorf("span %v covers %q, want %q", sp, got, want)
		}
		return nil
	}
	for _, c := range idx.Classes {
		if err := check(c.Span, c.Name); err != nil {
			return fmt.Errorf("class %s: %w", c.Name, err)
		}
		if err := check(c.SigSpan, c.Signature); err != nil {
			return fmt.Errorf("class %s signature: %w", c.Name, err)
		}
		for _, f := range c.Fields {
			if err := check(f.Span, f.TypeSignature()); err != nil {
				return fmt.Errorf("field %s.%s: %w", c.Name, f.Name, err)
			}
			if !f.Span.Empty() && f.Span.Start < c.Span.End {
				return fmt.Errorf("field %s.%s located before its class", c.Name, f.Name)
			}
		}
		for _, m := range c.Methods {
			if err := check(m.Span, m.TypeSignature()); err != nil {
				return fmt.Errorf("method %s.%s: %w", c.Name, m.Name, err)
			}
			if !m.Span.Empty() && m.Span.Start < c.Span.End {
				return fmt.Errorf("method %s.%s located before its class", c.Name, m.Name)
			}
		}
	}
	return nil
}
