package vybiumzkvm

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
)

// ErrorCode represents a vybium-zkvm error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrAlignmentFault represents a memory operand that is not word aligned
	ErrAlignmentFault

	// ErrMissingAccessRecord represents an unbalanced memory access log
	ErrMissingAccessRecord

	// ErrUnknownSyscall represents a syscall code with no precompile
	ErrUnknownSyscall

	// ErrUnexpectedPendingAccess represents a pending memory access that
	// does not belong where it was found
	ErrUnexpectedPendingAccess

	// ErrInvalidInput represents an invalid syscall argument or input
	ErrInvalidInput

	// ErrAborted represents an operation on an executor that already failed
	ErrAborted

	// ErrTableGeneration represents a byte table generation or commitment error
	ErrTableGeneration

	// ErrSerialization represents a record encoding error
	ErrSerialization

	// ErrMemoryInconsistent represents access records that do not chain
	ErrMemoryInconsistent
)

// String returns the name of the error code
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "invalid_config"
	case ErrAlignmentFault:
		return "alignment_fault"
	case ErrMissingAccessRecord:
		return "missing_access_record"
	case ErrUnknownSyscall:
		return "unknown_syscall"
	case ErrUnexpectedPendingAccess:
		return "unexpected_pending_access"
	case ErrInvalidInput:
		return "invalid_input"
	case ErrAborted:
		return "aborted"
	case ErrTableGeneration:
		return "table_generation"
	case ErrSerialization:
		return "serialization"
	case ErrMemoryInconsistent:
		return "memory_inconsistent"
	default:
		return "unknown"
	}
}

// VMError represents a vybium-zkvm error
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-zkvm error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-zkvm error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *VMError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// newError wraps err with the public code matching its kind
func newError(message string, err error) *VMError {
	return &VMError{Code: codeOf(err), Message: message, Cause: err}
}

func codeOf(err error) ErrorCode {
	var (
		alignErr   *executor.AlignmentError
		missingErr *executor.MissingAccessRecordError
		unknownErr *executor.UnknownSyscallError
		pendingErr *executor.UnexpectedPendingAccessError
		argErr     *executor.InvalidArgumentError
	)

	switch {
	case errors.As(err, &alignErr):
		return ErrAlignmentFault
	case errors.As(err, &missingErr):
		return ErrMissingAccessRecord
	case errors.As(err, &unknownErr):
		return ErrUnknownSyscall
	case errors.As(err, &pendingErr):
		return ErrUnexpectedPendingAccess
	case errors.As(err, &argErr):
		return ErrInvalidInput
	case errors.Is(err, executor.ErrAborted):
		return ErrAborted
	default:
		return ErrUnknown
	}
}
