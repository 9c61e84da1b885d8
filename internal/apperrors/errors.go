package apperrors

import (
	"errors"
	"fmt"
)

// RetryableError marks a per-file failure that a later run may get past
// (store hiccup, unreadable file). The importer force-archives the file anyway.
type RetryableError struct {
	Err error
}

// Error implements the error interface.
func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.Err)
}

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryable wraps the given error as a RetryableError, adding a message.
func NewRetryable(err error, message string, args ...interface{}) error {
	format := message + ": %w"
	allArgs := append(args, err)
	return &RetryableError{Err: fmt.Errorf(format, allArgs...)}
}

// FatalError aborts the whole run before any file is touched.
type FatalError struct {
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

// Unwrap returns the wrapped error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// NewFatal wraps the given error as a FatalError, adding a message.
func NewFatal(err error, message string, args ...interface{}) error {
	format := message + ": %w"
	allArgs := append(args, err)
	return &FatalError{Err: fmt.Errorf(format, allArgs...)}
}

// --- Standard Error Definitions ---

var (
	// ErrNotFound indicates a requested row was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation indicates failure during data validation.
	ErrValidation = errors.New("validation failed")
	// ErrDatabase indicates a general database interaction error.
	ErrDatabase = errors.New("database error")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate resource")
	// ErrBadRequest indicates data the store refused (FK, not-null, truncation).
	ErrBadRequest = errors.New("bad request")
	// ErrTimeout indicates a file stopped by its per-file deadline.
	ErrTimeout = errors.New("operation timeout")
	// ErrInterrupted indicates a file stopped because the run was cancelled.
	ErrInterrupted = errors.New("run interrupted")
	// ErrConfig indicates missing or invalid configuration.
	ErrConfig = errors.New("invalid configuration")
	// ErrLockHeld indicates another instance owns the lock file.
	ErrLockHeld = errors.New("another instance is already running")
	// ErrFilenamePattern indicates an upload whose name does not follow
	// <digits>_skipAI_<digits>_<name>.csv.
	ErrFilenamePattern = errors.New("filename pattern mismatch")
	// ErrIncompleteSchema indicates a CSV header missing required columns.
	ErrIncompleteSchema = errors.New("missing required columns")
)

// IsRetryable checks if the error is a RetryableError or wraps one.
func IsRetryable(err error) bool {
	var target *RetryableError
	return errors.As(err, &target)
}

// IsFatal checks if the error is a FatalError or wraps one.
func IsFatal(err error) bool {
	var target *FatalError
	return errors.As(err, &target)
}

// IsDuplicateError checks if the error is or wraps ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsPermanentFileError reports whether a file was rejected for its name or
// header. Such files are archived without import and never retried.
func IsPermanentFileError(err error) bool {
	return errors.Is(err, ErrFilenamePattern) || errors.Is(err, ErrIncompleteSchema)
}
