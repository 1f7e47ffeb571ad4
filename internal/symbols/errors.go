package symbols

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDescriptor is the panic value for an empty signature string. Stub
// records without a descriptor never reach the parser, so an empty one is a
// bug in the caller.
var ErrEmptyDescriptor = errors.New("symbols: empty descriptor")

// ErrNotFound reports a class missing from every index.
var ErrNotFound = errors.New("symbols: class not found")

// MalformedSignatureError describes a signature the parser rejected.
type MalformedSignatureError struct {
	Signature string
	Pos       int
	Expected  string
}

func (e *MalformedSignatureError) Error() string {
	return fmt.Sprintf("Expected %s:\n    %s\n    %s^", e.Expected, e.Signature, strings.Repeat(" ", e.Pos))
}

// Summary is the one-line form used in diagnostics.
func (e *MalformedSignatureError) Summary() string {
	return fmt.Sprintf("malformed signature %q: expected %s at offset %d", e.Signature, e.Expected, e.Pos)
}
