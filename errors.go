package wbaes

import "fmt"

// Kind classifies an Error so callers, and the CLI in particular, can map it
// to a specific response without parsing messages.
type Kind int

const (
	// KindInvalidArgument marks a bad caller-supplied argument: wrong key
	// length, malformed hex, a plaintext whose length isn't a positive
	// multiple of 32, or decrypting an instance with an output encoding.
	KindInvalidArgument Kind = iota + 1
	// KindIO marks a read/write/seek failure on an underlying stream.
	KindIO
	// KindMalformed marks a corrupted or unsupported serialized instance:
	// bad magic, truncated stream, unsupported version, a declared-present
	// output encoding that is actually missing.
	KindMalformed
	// KindDomain marks a linear-algebra domain error: a non-invertible
	// matrix handed to Invert. Indicates a programmer error or corrupted
	// data, never a normal runtime condition.
	KindDomain
	// KindMismatch marks a correctness mismatch, e.g. the check subcommand
	// finding a wide-state input whose white-box output disagrees with the
	// reference AES encryption of its halves.
	KindMismatch
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindIO:
		return "I/O failure"
	case KindMalformed:
		return "malformed instance"
	case KindDomain:
		return "linear algebra domain error"
	case KindMismatch:
		return "correctness mismatch"
	default:
		return "unknown error"
	}
}

// Error is the error type every exported entry point in this package
// returns. The CLI in cmd/wbaes maps Kind to one of its exit codes.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func wrapErr(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}
