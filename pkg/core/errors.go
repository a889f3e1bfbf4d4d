package core

import (
	"errors"
	"fmt"
)

// Caller faults. They always reach the caller wrapped in a *RejectError.
var (
	ErrInvalidEntry   = errors.New("invalid entry")
	ErrNotFound       = errors.New("entry not found")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrInvalidData    = errors.New("invalid data")
	ErrUsage          = errors.New("usage")
)

// System faults with a stable identity.
var (
	ErrNotDirectory = errors.New("base path is not a directory")
	ErrUnsupported  = errors.New("operation not supported by repository")
)

// RejectError is a caller fault: bad input or a missing record.
// It is expected and recoverable; anything that is not a RejectError is a system fault.
type RejectError struct {
	Err    error  // one of the caller-fault sentinels
	Input  string // the offending entry, pattern or payload description
	Reason string // human readable detail, may be empty
}

func (e *RejectError) Error() string {
	msg := e.Err.Error()
	if e.Input != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Input)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *RejectError) Unwrap() error { return e.Err }

// Reject builds a caller fault for sentinel err.
func Reject(err error, input, reason string) error {
	return &RejectError{Err: err, Input: input, Reason: reason}
}

// IsReject reports whether err (or anything it wraps) is a caller fault.
func IsReject(err error) bool {
	var rej *RejectError
	return errors.As(err, &rej)
}
