package accessor

import (
	"fmt"

	"emperror.dev/errors"
	"github.com/apex/log"
)

type ErrorCode string

const (
	ErrCodeNotOpen          ErrorCode = "E_NOTOPEN"
	ErrCodeAccessDenied     ErrorCode = "E_ACCESS"
	ErrCodeEndOfStream      ErrorCode = "E_EOF"
	ErrCodeTransferFailed   ErrorCode = "E_TRANSFER"
	ErrCodeTargetNotReached ErrorCode = "E_NOTFOUND"
	ErrCodeAllocationFailed ErrorCode = "E_ALLOC"
	ErrCodeSeekFailed       ErrorCode = "E_SEEK"
	ErrCodeOpenFailed       ErrorCode = "E_OPEN"
	ErrCodeCloseFailed      ErrorCode = "E_CLOSE"
	ErrCodeRemoveFailed     ErrorCode = "E_REMOVE"
)

type Error struct {
	code ErrorCode
	// Contains the path of the file the failed operation was working on.
	path string
	// Set when the access mode rejected the operation.
	mode AccessMode
	op   string
	err  error
}

// newAccessorError returns a new error instance with a stack trace attached.
func newAccessorError(code ErrorCode, path string, err error) error {
	return errors.WithStackDepth(&Error{code: code, path: path, err: err}, 1)
}

// Code returns the ErrorCode for this specific error instance.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Returns a human-readable error string to identify the Error by.
func (e *Error) Error() string {
	switch e.code {
	case ErrCodeNotOpen:
		return "accessor: no file is open"
	case ErrCodeAccessDenied:
		return fmt.Sprintf("accessor: cannot %s a file opened with mode \"%s\": %s", e.op, e.mode, e.path)
	case ErrCodeEndOfStream:
		return fmt.Sprintf("accessor: end of stream already reached: %s", e.path)
	case ErrCodeTargetNotReached:
		return fmt.Sprintf("accessor: stream ended before the requested line: %s", e.path)
	case ErrCodeAllocationFailed:
		return fmt.Sprintf("accessor: could not allocate buffer: %s", e.cause())
	}
	r := e.path
	if r == "" {
		r = "<empty>"
	}
	return fmt.Sprintf("accessor: %s operation failed for [%s]: %s", codeVerbs[e.code], r, e.cause())
}

// Unwrap returns the underlying cause of this error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) cause() string {
	if e.err == nil {
		return "unknown cause"
	}
	return e.err.Error()
}

var codeVerbs = map[ErrorCode]string{
	ErrCodeTransferFailed: "transfer",
	ErrCodeSeekFailed:     "seek",
	ErrCodeOpenFailed:     "open",
	ErrCodeCloseFailed:    "close",
	ErrCodeRemoveFailed:   "remove",
}

// IsErrorCode checks if "err" is an accessor Error type. If so, it will then
// drop in and check that the error code is the same as the provided ErrorCode
// passed in "code".
func IsErrorCode(err error, code ErrorCode) bool {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.code == code
	}
	return false
}

// Generates an error logger instance with some basic information.
func (a *Accessor) error(err error) *log.Entry {
	return a.log().WithField("error", err)
}

// denied returns the error for an operation the access mode does not permit.
func (a *Accessor) denied(op string) error {
	return errors.WithStackDepth(&Error{code: ErrCodeAccessDenied, path: a.path, mode: a.mode, op: op}, 1)
}
