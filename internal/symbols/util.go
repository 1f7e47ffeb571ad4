package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// nameKey is the form binary names are interned under. Identifiers may be
// any Unicode letters, and an index written on another platform can carry
// them decomposed; both spellings must name one class.
func nameKey(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}

func offset32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

// splitBinaryName splits a.b.C$D into the package "a.b" and "C$D".
func splitBinaryName(binary string) (pkg, local string) {
	if i := strings.LastIndexByte(binary, '.'); i >= 0 {
		return binary[:i], binary[i+1:]
	}
	return "", binary
}

// simpleNameOf returns the simple name of a nested binary name relative to
// its outer class: a.Outer$Inner -> Inner. Anonymous classes (a.Outer$1)
// have an empty simple name; local ones drop their numeric prefix.
func simpleNameOf(binary, outer string) string {
	_, local := splitBinaryName(binary)
	if outer != "" && strings.HasPrefix(binary, outer+"$") {
		local = binary[len(outer)+1:]
	} else if i := strings.LastIndexByte(local, '$'); i >= 0 {
		local = local[i+1:]
	}
	return strings.TrimLeft(local, "0123456789")
}
