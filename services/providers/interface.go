package providers

import (
	"context"
	"time"

	"github.com/upb/ticket-triage/models"
)

// Backend is one external text-generation service able to classify a ticket.
// It returns the raw model text and the token counts it reported.
type Backend interface {
	// Name returns the backend name (e.g., "openai", "gemini")
	Name() string

	// Classify performs a single classification call
	Classify(ctx context.Context, subject, body string) (*Completion, error)
}

// Triager is the capability shared by every provider adapter and by the
// fallback chain composing them.
type Triager interface {
	Name() string
	Triage(ctx context.Context, subject, body string) (*models.TriageResult, error)
}

// Completion is the raw result of a single backend call
type Completion struct {
	// Text is the unparsed model output
	Text string

	// InputTokens consumed by the prompt
	InputTokens int

	// OutputTokens produced by the model
	OutputTokens int
}

// ProviderConfig holds common configuration for backends
type ProviderConfig struct {
	// APIKey for authentication
	APIKey string

	// BaseURL for the API (optional override)
	BaseURL string

	// Model is the backend's own model identifier
	Model string

	// PricingModel is the identifier used for cost estimation.
	// Defaults to Model when empty.
	PricingModel string

	// Timeout for requests
	Timeout time.Duration

	// Additional headers
	Headers map[string]string
}

// ProviderError represents a backend failure (network, auth, quota, bad status).
// It is never retried by the adapter and never shown to API consumers.
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}
