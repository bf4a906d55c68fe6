package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Archive API errors
	ErrCodeAPIUnavailable ErrorCode = "API_UNAVAILABLE"
	ErrCodeAPIStatus      ErrorCode = "API_STATUS"
	ErrCodeAPIDecode      ErrorCode = "API_DECODE"
	ErrCodeItemNotFound   ErrorCode = "ITEM_NOT_FOUND"

	// Query errors
	ErrCodeEmptyQuery   ErrorCode = "EMPTY_QUERY"
	ErrCodeQueryTimeout ErrorCode = "QUERY_TIMEOUT"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeCancelled    ErrorCode = "CANCELLED"
)

// ArchiveError represents a structured error with context
type ArchiveError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ArchiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *ArchiveError) WithDetail(key string, value interface{}) *ArchiveError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *ArchiveError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new ArchiveError
func New(code ErrorCode, message string) *ArchiveError {
	return &ArchiveError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an ArchiveError
func Wrap(err error, code ErrorCode, message string) *ArchiveError {
	return &ArchiveError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first ArchiveError in err's chain.
func As(err error) (*ArchiveError, bool) {
	for err != nil {
		if archiveErr, ok := err.(*ArchiveError); ok {
			return archiveErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific ArchiveError code
func Is(err error, code ErrorCode) bool {
	archiveErr, ok := As(err)
	if !ok {
		return false
	}
	return archiveErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	archiveErr, ok := As(err)
	if !ok {
		return ""
	}
	return archiveErr.Code
}
