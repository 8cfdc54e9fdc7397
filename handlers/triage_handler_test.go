package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/ticket-triage/middleware"
	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
	"github.com/upb/ticket-triage/services/triage"
	"github.com/upb/ticket-triage/utils"
	"go.uber.org/zap"
)

// MockTriageService is a mock implementation of TriageService
type MockTriageService struct {
	mock.Mock
}

func (m *MockTriageService) TriageTicket(ctx context.Context, input models.TicketInput) (*models.TriageResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TriageResult), args.Error(1)
}

// countingTriager records how often the triage core reached the provider
type countingTriager struct {
	name  string
	calls int
}

func (c *countingTriager) Name() string { return c.name }

func (c *countingTriager) Triage(ctx context.Context, subject, body string) (*models.TriageResult, error) {
	c.calls++
	return &models.TriageResult{}, nil
}

func newTriageRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/triage-ticket", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithRequestID(req.Context(), "req-123"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleTriage(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful triage", func(t *testing.T) {
		mockService := new(MockTriageService)
		handler := NewTriageHandler(mockService, logger)

		mockService.On("TriageTicket", mock.Anything, models.TicketInput{
			Subject: "Site is down",
			Body:    "All of our users see a 500 error",
		}).Return(&models.TriageResult{
			TriageOutput: models.TriageOutput{
				Category: models.CategoryTechnical,
				Priority: models.PriorityUrgent,
				Flags:    models.TriageFlags{RequiresHuman: true},
			},
			Usage: models.UsageRecord{InputTokens: 1000, OutputTokens: 500, CostUSD: 0.00045, Model: "gpt-4o-mini"},
		}, nil)

		body, _ := json.Marshal(models.TicketInput{Subject: "Site is down", Body: "All of our users see a 500 error"})
		rec := httptest.NewRecorder()
		handler.HandleTriage(rec, newTriageRequest(t, string(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "technical", resp["category"])
		assert.Equal(t, "urgent", resp["priority"])
		assert.Equal(t, map[string]interface{}{
			"requires_human":  true,
			"is_abusive":      false,
			"missing_info":    false,
			"is_vip_customer": false,
		}, resp["flags"])
		assert.Equal(t, map[string]interface{}{
			"inputTokens":  float64(1000),
			"outputTokens": float64(500),
			"costUSD":      0.00045,
			"model":        "gpt-4o-mini",
		}, resp["usage"])

		mockService.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockService := new(MockTriageService)
		handler := NewTriageHandler(mockService, logger)

		rec := httptest.NewRecorder()
		handler.HandleTriage(rec, newTriageRequest(t, `{"subject":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "bad_request", resp.Error)
		assert.Equal(t, services.MessageValidationFailed, resp.Message)
		assert.Nil(t, resp.Details)
		mockService.AssertNotCalled(t, "TriageTicket", mock.Anything, mock.Anything)
	})

	t.Run("missing fields", func(t *testing.T) {
		provider := &countingTriager{name: "openai"}
		handler := NewTriageHandler(triage.NewTriageService(provider, logger), logger)

		rec := httptest.NewRecorder()
		handler.HandleTriage(rec, newTriageRequest(t, `{"subject":""}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "bad_request", resp.Error)
		assert.Equal(t, services.MessageValidationFailed, resp.Message)
		assert.Equal(t, "subject is required", resp.Details["subject"])
		assert.Equal(t, "body is required", resp.Details["body"])
		assert.Zero(t, provider.calls)
	})

	t.Run("body too large", func(t *testing.T) {
		mockService := new(MockTriageService)
		handler := NewTriageHandler(mockService, logger)

		large := `{"subject":"s","body":"` + strings.Repeat("x", maxRequestBodyBytes) + `"}`
		rec := httptest.NewRecorder()
		handler.HandleTriage(rec, newTriageRequest(t, large))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "TriageTicket", mock.Anything, mock.Anything)
	})

	t.Run("invalid LLM response", func(t *testing.T) {
		mockService := new(MockTriageService)
		handler := NewTriageHandler(mockService, logger)
		mockService.On("TriageTicket", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidResponse)

		rec := httptest.NewRecorder()
		handler.HandleTriage(rec, newTriageRequest(t, `{"subject":"s","body":"b"}`))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "invalid_llm_response", resp.Error)
		assert.Equal(t, services.MessageInvalidLLMResponse, resp.Message)
		assert.Equal(t, "req-123", resp.RequestID)
	})

	t.Run("all providers failed", func(t *testing.T) {
		mockService := new(MockTriageService)
		handler := NewTriageHandler(mockService, logger)
		mockService.On("TriageTicket", mock.Anything, mock.Anything).Return(nil, services.ErrProviderFailure)

		rec := httptest.NewRecorder()
		handler.HandleTriage(rec, newTriageRequest(t, `{"subject":"s","body":"b"}`))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "provider_failure", resp.Error)
		assert.Equal(t, services.MessageProviderFailure, resp.Message)
	})

	t.Run("unexpected error does not leak detail", func(t *testing.T) {
		mockService := new(MockTriageService)
		handler := NewTriageHandler(mockService, logger)
		mockService.On("TriageTicket", mock.Anything, mock.Anything).
			Return(nil, errors.New("dial tcp 10.0.0.1:443: connection refused"))

		rec := httptest.NewRecorder()
		handler.HandleTriage(rec, newTriageRequest(t, `{"subject":"s","body":"b"}`))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.1")
		resp := decodeError(t, rec)
		assert.Equal(t, "internal_error", resp.Error)
		assert.Equal(t, "req-123", resp.RequestID)
	})
}

func TestHandleTriage_BodyIsForwardedVerbatim(t *testing.T) {
	mockService := new(MockTriageService)
	handler := NewTriageHandler(mockService, zap.NewNop())

	input := models.TicketInput{Subject: "Ünïcode ✓", Body: "line one\nline two"}
	mockService.On("TriageTicket", mock.Anything, input).Return(&models.TriageResult{}, nil)

	body, _ := json.Marshal(input)
	req := httptest.NewRequest(http.MethodPost, "/triage-ticket", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleTriage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}
