package source

import (
	"fmt"
	"strings"
	"sync"

	"fortio.org/safecast"
)

type StringID uint32

// NoStringID is the empty string.
const NoStringID StringID = 0

// Interner hands out dense IDs for class names. Indexes are decoded on
// several goroutines, so every method locks.
type Interner struct {
	mu   sync.RWMutex
	strs []string
	ids  map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{strs: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

// Intern returns the ID of s, adding it on first sight. The interner keeps
// its own copy of s, not a slice of the index file it came from.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.Find(s); ok {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[s]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.strs))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	s = strings.Clone(s)
	in.strs = append(in.strs, s)
	in.ids[s] = StringID(n)
	return StringID(n)
}

// Find returns the ID of s without interning it.
func (in *Interner) Find(s string) (StringID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.ids[s]
	return id, ok
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.strs) {
		return "", false
	}
	return in.strs[id], true
}

// MustLookup panics on an ID this interner did not hand out.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("unknown string id %d", id))
	}
	return s
}

// Len counts interned strings, the empty one included.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strs)
}
