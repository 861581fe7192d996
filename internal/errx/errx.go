// Package errx tags pipeline failures with a Kind so callers can tell
// "nothing new" apart from "something broke".
package errx

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Unknown Kind = iota
	// Validation: a candidate failed shape checks during normalization.
	Validation
	// UpstreamContract: the suggestion service response was absent, malformed or wrongly sized.
	UpstreamContract
	// StorageUnavailable: the known-URL read failed.
	StorageUnavailable
	// PersistenceFailed: the batch commit failed.
	PersistenceFailed
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case Validation:
		return "Validation"
	case UpstreamContract:
		return "UpstreamContract"
	case StorageUnavailable:
		return "StorageUnavailable"
	case PersistenceFailed:
		return "PersistenceFailed"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Sentinels for errors.Is checks. An *Error matches the sentinel of its Kind.
var (
	ErrValidation         = errors.New("validation error")
	ErrUpstreamContract   = errors.New("upstream contract violation")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPersistenceFailed  = errors.New("persistence failed")
)

type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// E wraps err with an operation name and kind. A nil err yields nil.
func E(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == Validation
	case ErrUpstreamContract:
		return e.Kind == UpstreamContract
	case ErrStorageUnavailable:
		return e.Kind == StorageUnavailable
	case ErrPersistenceFailed:
		return e.Kind == PersistenceFailed
	}
	return false
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}
