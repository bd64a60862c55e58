package verify

import (
	"errors"
	"fmt"
)

// Kinds of validation failure. Every error returned by Validate, ReportSignature and
// RawReport is a *ValidationError matching exactly one of these with errors.Is.
var (
	// ErrDecode means the input does not have the shape of an attestation report.
	ErrDecode = errors.New("attestation report could not be decoded")
	// ErrTCBInconsistent means the reported TCB differs from the committed TCB.
	ErrTCBInconsistent = errors.New("reported TCB does not match committed TCB")
	// ErrSignatureInvalid means the signature was evaluated and does not match.
	ErrSignatureInvalid = errors.New("attestation report signature is not valid")
	// ErrCryptoBackend means a key, a signature encoding or the crypto provider itself
	// was defective, so no verdict on the signature could be reached.
	ErrCryptoBackend = errors.New("cryptographic operation failed")
)

// ValidationError is a rejected attestation report. Callers must treat every
// ValidationError as "do not trust this report".
type ValidationError struct {
	// Kind is one of ErrDecode, ErrTCBInconsistent, ErrSignatureInvalid or ErrCryptoBackend.
	Kind error
	// Err is the underlying cause, if any.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Is matches the error's kind.
func (e *ValidationError) Is(target error) bool {
	return target == e.Kind
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newError(kind error, format string, args ...interface{}) error {
	return &ValidationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
