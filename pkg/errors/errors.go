package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad            ErrorCode = "CONFIG_LOAD"
	ErrConfigParse           ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid         ErrorCode = "CONFIG_INVALID"
	ErrCyclicDependency      ErrorCode = "CYCLIC_DEPENDENCY"
	ErrTargetUnsupported     ErrorCode = "TARGET_UNSUPPORTED"
	ErrStandaloneUnsupported ErrorCode = "STANDALONE_UNSUPPORTED"

	// Filter errors
	ErrFilterNotFound ErrorCode = "FILTER_NOT_FOUND"
	ErrFilterInvalid  ErrorCode = "FILTER_INVALID"
	ErrFilterExecute  ErrorCode = "FILTER_EXECUTE"

	// Action errors
	ErrActionNotFound ErrorCode = "ACTION_NOT_FOUND"
	ErrActionInvalid  ErrorCode = "ACTION_INVALID"
	ErrActionExecute  ErrorCode = "ACTION_EXECUTE"
	ErrActionConflict ErrorCode = "ACTION_CONFLICT"

	// Template errors
	ErrTemplateRender ErrorCode = "TEMPLATE_RENDER"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
)

// DosortError represents a structured error with code and details
type DosortError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DosortError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DosortError) Unwrap() error {
	return e.Wrapped
}

// Is matches any DosortError carrying the same code
func (e *DosortError) Is(target error) bool {
	var targetErr *DosortError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DosortError with the given code and message
func New(code ErrorCode, message string) *DosortError {
	return &DosortError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DosortError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DosortError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *DosortError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DosortError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *DosortError) WithDetail(key string, value interface{}) *DosortError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether any DosortError in the chain carries code
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var dosortErr *DosortError
		if !errors.As(err, &dosortErr) {
			return false
		}
		if dosortErr.Code == code {
			return true
		}
		err = dosortErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if not a DosortError
func GetErrorCode(err error) ErrorCode {
	var dosortErr *DosortError
	if errors.As(err, &dosortErr) {
		return dosortErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DosortError
func GetErrorDetails(err error) map[string]interface{} {
	var dosortErr *DosortError
	if errors.As(err, &dosortErr) {
		return dosortErr.Details
	}
	return nil
}
