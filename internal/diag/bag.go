package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag создаёт Bag с лимитом max; лимит больше 65535 обрезается, а
// отрицательный даёт пустой Bag.
func NewBag(max int) *Bag {
	return &Bag{max: clampLimit(max)}
}

func clampLimit(n int) uint16 {
	limit, err := safecast.Conv[uint16](n)
	if err == nil {
		return limit
	}
	if n < 0 {
		return 0
	}
	return math.MaxUint16
}

// Add appends d and reports false once the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, Diagnostic.IsError)
}

// Merge appends everything from other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > int(b.max) {
		b.max = clampLimit(total)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file, span, severity (errors first), code and message.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
			cmp.Compare(x.Message, y.Message),
		)
	})
}

// Dedup keeps the first of every group with equal code, primary span and
// message. Severity is ignored: an inference retry may report the same
// finding once as a warning and once as an error.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span [3]uint32
		msg  string
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, [3]uint32{uint32(d.Primary.File), d.Primary.Start, d.Primary.End}, d.Message}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}

// Counts returns the number of diagnostics per severity.
func (b *Bag) Counts() (errors, warnings, infos int) {
	return CountItems(b.items)
}

// CountItems counts items per severity.
func CountItems(items []Diagnostic) (errors, warnings, infos int) {
	for i := range items {
		switch sev := items[i].Severity; {
		case sev >= SevError:
			errors++
		case sev == SevWarning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}
