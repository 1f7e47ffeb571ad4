package fuzztests

import (
	"errors"
	"testing"

	"jsema/internal/symbols"
)

func FuzzValidateSignature(f *testing.F) {
	addSignatureSeeds(f)

	f.Fuzz(func(t *testing.T, kind uint8, sig string) {
		if len(sig) > maxSeedBytes {
			t.Skip()
		}
		k := symbols.SignatureKind(kind % 3)
		err := symbols.ValidateSignature(k, sig)
		if err == nil {
			return
		}
		if sig == "" {
			if !errors.Is(err, symbols.ErrEmptyDescriptor) {
				t.Fatalf("empty signature: got %v", err)
			}
			return
		}
		var mse *symbols.MalformedSignatureError
		if !errors.As(err, &mse) {
			t.Fatalf("unexpected error type %T: %v", err, err)
		}
		if mse.Signature != sig {
			t.Fatalf("error reports %q, want %q", mse.Signature, sig)
		}
		if mse.Pos < 0 || mse.Pos > len(sig) {
			t.Fatalf("offset %d outside [0,%d]", mse.Pos, len(sig))
		}
		if mse.Expected == "" {
			t.Fatal("rejection without an expectation")
		}
	})
}
