package triage

import (
	"context"
	"errors"

	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
	"github.com/upb/ticket-triage/services/providers"
	"github.com/upb/ticket-triage/utils"
	"go.uber.org/zap"
)

var errNoResult = errors.New("provider returned no result")

// TriageService is the single entry point the transport layer depends on.
// It delegates to the configured provider, normally a providers.FallbackChain.
type TriageService struct {
	provider providers.Triager
	logger   *zap.Logger
}

// NewTriageService creates a new triage service
func NewTriageService(provider providers.Triager, logger *zap.Logger) *TriageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{
		provider: provider,
		logger:   logger,
	}
}

// TriageTicket validates the ticket and classifies it. Retries and fallback live in the provider.
func (s *TriageService) TriageTicket(ctx context.Context, input models.TicketInput) (*models.TriageResult, error) {
	if err := utils.ValidateStruct(&input); err != nil {
		s.logger.Debug("ticket rejected", zap.Error(err))
		return nil, services.NewValidationError(utils.GetValidationFields(err))
	}

	s.logger.Debug("triaging ticket",
		zap.String("provider", s.provider.Name()),
		zap.Int("subject_length", len(input.Subject)),
		zap.Int("body_length", len(input.Body)))

	result, err := s.provider.Triage(ctx, input.Subject, input.Body)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, services.WrapInternal(services.ErrInternal.Message, errNoResult)
	}
	return result, nil
}
