package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/upb/ticket-triage/middleware"
	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
	"github.com/upb/ticket-triage/utils"
	"go.uber.org/zap"
)

// maxRequestBodyBytes bounds the size of an inbound ticket
const maxRequestBodyBytes = 1 << 20

// TriageService defines the interface for triage operations
type TriageService interface {
	TriageTicket(ctx context.Context, input models.TicketInput) (*models.TriageResult, error)
}

// TriageHandler handles ticket triage HTTP requests
type TriageHandler struct {
	service TriageService
	logger  *zap.Logger
}

// NewTriageHandler creates a new TriageHandler
func NewTriageHandler(service TriageService, logger *zap.Logger) *TriageHandler {
	return &TriageHandler{
		service: service,
		logger:  logger,
	}
}

// HandleTriage handles POST /triage-ticket
func (h *TriageHandler) HandleTriage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var input models.TicketInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&input); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, services.MessageValidationFailed, nil)
		return
	}

	result, err := h.service.TriageTicket(ctx, input)
	if err != nil {
		HandleServiceError(w, requestID, err, h.logger)
		return
	}

	h.logger.Info("ticket triaged",
		zap.String("request_id", requestID),
		zap.String("category", string(result.Category)),
		zap.String("priority", string(result.Priority)),
		zap.String("model", result.Usage.Model),
		zap.Int("input_tokens", result.Usage.InputTokens),
		zap.Int("output_tokens", result.Usage.OutputTokens),
		zap.Float64("cost_usd", result.Usage.CostUSD))

	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
