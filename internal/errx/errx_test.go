package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestE(t *testing.T) {
	if E("op", Validation, nil) != nil {
		t.Fatal("E with nil err should return nil")
	}

	base := errors.New("boom")
	err := E("ingest.Ingest", PersistenceFailed, base)

	if got := err.Error(); got != "ingest.Ingest: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to base")
	}
	if KindOf(err) != PersistenceFailed {
		t.Errorf("KindOf = %v, want PersistenceFailed", KindOf(err))
	}
	if OpOf(err) != "ingest.Ingest" {
		t.Errorf("OpOf = %q", OpOf(err))
	}
}

func TestIsSentinels(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{Validation, ErrValidation},
		{UpstreamContract, ErrUpstreamContract},
		{StorageUnavailable, ErrStorageUnavailable},
		{PersistenceFailed, ErrPersistenceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("outer: %w", E("op", tt.kind, errors.New("x")))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v) = false", tt.sentinel)
			}
			for _, other := range tests {
				if other.kind != tt.kind && errors.Is(err, other.sentinel) {
					t.Errorf("%v unexpectedly matches %v", tt.kind, other.sentinel)
				}
			}
		})
	}
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("plain")
	if KindOf(err) != Unknown {
		t.Errorf("KindOf(plain) = %v, want Unknown", KindOf(err))
	}
	if OpOf(err) != "" {
		t.Errorf("OpOf(plain) = %q, want empty", OpOf(err))
	}
	if Kind(42).String() != "Kind(42)" {
		t.Errorf("unknown kind String() = %q", Kind(42).String())
	}
}
