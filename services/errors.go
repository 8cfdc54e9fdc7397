package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"
	ErrorTypeProviderFailure ErrorType = "provider_failure"
	ErrorTypeInternal        ErrorType = "internal"
)

// DomainError represents a structured error with additional context.
// Message is static and safe to show to API consumers; Err never is.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Validation Errors
	ErrInvalidInput = NewDomainError(ErrorTypeValidation, "invalid input", nil)

	// Backend output failed the parse or schema check, after the adapter's single retry
	ErrInvalidResponse = NewDomainError(ErrorTypeInvalidResponse, "model returned invalid or malformed response", nil)

	// Every configured provider failed
	ErrProviderFailure = NewDomainError(ErrorTypeProviderFailure, "triage service temporarily unavailable", nil)

	// Internal Errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// Stable, human-readable messages for callers of the triage service. They never
// carry backend output, so every transport can show them as-is.
const (
	MessageValidationFailed   = "Validation failed"
	MessageInvalidLLMResponse = "Triage could not be completed: model returned invalid response"
	MessageProviderFailure    = "Triage service temporarily unavailable"
	MessageInternalError      = "Internal server error"
)

// NewValidationError creates an invalid input error carrying one detail per field
func NewValidationError(fields map[string]string) *DomainError {
	err := NewDomainError(ErrorTypeValidation, ErrInvalidInput.Message, nil)
	for field, msg := range fields {
		err.WithDetail(field, msg)
	}
	return err
}

// NewInvalidResponseError creates an invalid response error with a static reason.
// The offending backend output must never be passed in.
func NewInvalidResponseError(reason string) *DomainError {
	return NewDomainError(ErrorTypeInvalidResponse, reason, nil)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsInvalidResponseError checks if an error is an invalid backend response error
func IsInvalidResponseError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInvalidResponse
	}
	return false
}

// IsProviderFailureError checks if an error is the aggregate provider failure
func IsProviderFailureError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeProviderFailure
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
