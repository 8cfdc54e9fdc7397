package providers

import (
	"context"
	"errors"

	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
	"go.uber.org/zap"
)

// FallbackChainName is the name reported by a FallbackChain
const FallbackChainName = "fallback-chain"

// ErrNoProviders is returned when a chain is built without any provider
var ErrNoProviders = errors.New("at least one provider is required")

// FallbackChain implements Triager by trying its providers strictly in order.
// The first success is returned and later providers are never called.
type FallbackChain struct {
	providers []Triager
	logger    *zap.Logger
}

// NewFallbackChain creates a chain over the ordered providers
func NewFallbackChain(providers []Triager, logger *zap.Logger) (*FallbackChain, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	for _, p := range providers {
		if p == nil {
			return nil, errors.New("provider cannot be nil")
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ordered := make([]Triager, len(providers))
	copy(ordered, providers)

	return &FallbackChain{
		providers: ordered,
		logger:    logger,
	}, nil
}

// Name returns the chain name
func (c *FallbackChain) Name() string {
	return FallbackChainName
}

// Providers returns the provider names in the order they are tried
func (c *FallbackChain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Triage tries each provider in order until one succeeds. When all fail it
// returns services.ErrProviderFailure; per-provider detail only reaches the log.
func (c *FallbackChain) Triage(ctx context.Context, subject, body string) (*models.TriageResult, error) {
	for i, p := range c.providers {
		c.logger.Info("attempting triage with provider",
			zap.String("provider", p.Name()),
			zap.Int("position", i))

		result, err := p.Triage(ctx, subject, body)
		if err == nil {
			return result, nil
		}

		c.logger.Warn("provider failed, trying next fallback",
			zap.String("provider", p.Name()),
			zap.String("error_type", classifyFailure(err)),
			zap.Error(err))
	}

	c.logger.Error("all LLM providers failed", zap.Int("providers", len(c.providers)))
	return nil, services.ErrProviderFailure
}

// classifyFailure names the kind of a provider failure for logging
func classifyFailure(err error) string {
	var provErr *ProviderError
	switch {
	case services.IsInvalidResponseError(err):
		return string(services.ErrorTypeInvalidResponse)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &provErr):
		if provErr.Code != "" {
			return "backend_error:" + provErr.Code
		}
		return "backend_error"
	default:
		return "unexpected"
	}
}
