package providers

import (
	"context"

	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
	"go.uber.org/zap"
)

// maxAttempts is the first call plus a single retry on invalid output
const maxAttempts = 2

// reasonRetryFailed is reported when the backend fails outright on the retry
const reasonRetryFailed = "retry after invalid response failed"

// Adapter wraps a Backend with output validation, the single retry on invalid
// output, and cost estimation. It implements Triager.
type Adapter struct {
	backend      Backend
	pricingModel string
	logger       *zap.Logger
}

// NewAdapter creates a new adapter for the given backend. pricingModel is the
// identifier reported in usage and used for cost estimation.
func NewAdapter(backend Backend, pricingModel string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		backend:      backend,
		pricingModel: pricingModel,
		logger:       logger.With(zap.String("provider", backend.Name())),
	}
}

// Name returns the backend name
func (a *Adapter) Name() string {
	return a.backend.Name()
}

// PricingModel returns the identifier used for cost estimation
func (a *Adapter) PricingModel() string {
	return a.pricingModel
}

// Triage classifies a ticket. Invalid output is retried exactly once; a backend
// failure on the first call is returned immediately, one on the retry is
// reported as an invalid response.
func (a *Adapter) Triage(ctx context.Context, subject, body string) (*models.TriageResult, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			a.logger.Warn("invalid LLM response, retrying once", zap.Int("attempt", attempt))
		}

		completion, err := a.backend.Classify(ctx, subject, body)
		if err != nil {
			a.logger.Error("provider call failed",
				zap.Int("attempt", attempt),
				zap.String("outcome", "backend_error"),
				zap.Error(err))
			if attempt > 1 {
				// a failed retry keeps the invalid-output outcome
				return nil, services.NewInvalidResponseError(reasonRetryFailed)
			}
			return nil, err
		}
		if completion == nil {
			completion = &Completion{}
		}

		output, err := ValidateOutput(completion.Text)
		if err != nil {
			a.logger.Warn("provider returned invalid response",
				zap.Int("attempt", attempt),
				zap.String("outcome", "invalid_response"),
				zap.Error(err))
			lastErr = err
			continue
		}

		inputTokens := max(completion.InputTokens, 0)
		outputTokens := max(completion.OutputTokens, 0)

		a.logger.Info("provider triage succeeded",
			zap.Int("attempt", attempt),
			zap.String("outcome", "success"),
			zap.Int("input_tokens", inputTokens),
			zap.Int("output_tokens", outputTokens))

		return &models.TriageResult{
			TriageOutput: *output,
			Usage: models.UsageRecord{
				InputTokens:  inputTokens,
				OutputTokens: outputTokens,
				CostUSD:      EstimateCost(a.pricingModel, inputTokens, outputTokens),
				Model:        a.pricingModel,
			},
		}, nil
	}

	a.logger.Error("retry after invalid response failed")
	if services.IsInvalidResponseError(lastErr) {
		return nil, lastErr
	}
	return nil, services.ErrInvalidResponse
}
