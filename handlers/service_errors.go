package handlers

import (
	"net/http"

	"github.com/upb/ticket-triage/services"
	"github.com/upb/ticket-triage/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. Only the error kind
// and a static message are written; the cause goes to the log.
func HandleServiceError(w http.ResponseWriter, requestID string, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var writeErr error
	switch {
	case services.IsValidationError(err):
		logger.Warn("validation error", zap.String("request_id", requestID), zap.Error(err))
		writeErr = utils.WriteBadRequest(w, services.MessageValidationFailed, services.GetErrorDetails(err))

	case services.IsInvalidResponseError(err):
		logger.Warn("invalid LLM response", zap.String("request_id", requestID))
		writeErr = utils.WriteServiceUnavailable(w, "invalid_llm_response", services.MessageInvalidLLMResponse, requestID)

	case services.IsProviderFailureError(err):
		logger.Error("provider failure", zap.String("request_id", requestID), zap.Error(err))
		writeErr = utils.WriteServiceUnavailable(w, "provider_failure", services.MessageProviderFailure, requestID)

	default:
		logger.Error("unhandled error",
			zap.String("request_id", requestID),
			zap.String("error_type", string(services.GetErrorType(err))),
			zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, services.MessageInternalError, requestID)
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.String("request_id", requestID), zap.Error(writeErr))
	}
}
