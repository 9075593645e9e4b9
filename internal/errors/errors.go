package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category so callers and tests can match on it
// without comparing messages.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Environment
	ErrDirNotFound ErrorCode = "DIR_NOT_FOUND"
	ErrNoMatches   ErrorCode = "NO_MATCHES"
	ErrFileRead    ErrorCode = "FILE_READ"
	ErrFileWrite   ErrorCode = "FILE_WRITE"

	// Configuration
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// External tools
	ErrGit ErrorCode = "GIT"
)

// CodedError is a structured error with a code and optional details.
type CodedError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *CodedError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Wrapped
}

// Is matches any CodedError with the same code.
func (e *CodedError) Is(target error) bool {
	var targetErr *CodedError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

func New(code ErrorCode, message string) *CodedError {
	return &CodedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *CodedError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns nil when err is nil so it can wrap call results directly.
func Wrap(err error, code ErrorCode, message string) *CodedError {
	if err == nil {
		return nil
	}
	return &CodedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CodedError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *CodedError) WithDetail(key string, value interface{}) *CodedError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetCode extracts the code from anywhere in err's chain.
func GetCode(err error) ErrorCode {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrUnknown
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// GetDetail returns a detail value from the first CodedError in err's chain.
func GetDetail(err error, key string) (interface{}, bool) {
	var coded *CodedError
	if errors.As(err, &coded) && coded.Details != nil {
		v, ok := coded.Details[key]
		return v, ok
	}
	return nil, false
}

// UserMessage returns the message of the first CodedError in err's chain,
// without code or wrapped cause, falling back to err.Error().
func UserMessage(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Message
	}
	return err.Error()
}
