package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
	"go.uber.org/zap"
)

// MockTriager is a mock implementation of providers.Triager
type MockTriager struct {
	mock.Mock
}

func (m *MockTriager) Name() string {
	return "mock"
}

func (m *MockTriager) Triage(ctx context.Context, subject, body string) (*models.TriageResult, error) {
	args := m.Called(ctx, subject, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TriageResult), args.Error(1)
}

func TestTriageTicket(t *testing.T) {
	t.Run("delegates to provider", func(t *testing.T) {
		provider := new(MockTriager)
		expected := &models.TriageResult{
			TriageOutput: models.TriageOutput{Category: models.CategoryAccount, Priority: models.PriorityNormal},
			Usage:        models.UsageRecord{InputTokens: 10, OutputTokens: 2, CostUSD: 0.000003, Model: "gpt-4o-mini"},
		}
		provider.On("Triage", mock.Anything, "Reset password", "I forgot it").Return(expected, nil)

		service := NewTriageService(provider, zap.NewNop())
		result, err := service.TriageTicket(context.Background(), models.TicketInput{
			Subject: "Reset password",
			Body:    "I forgot it",
		})

		require.NoError(t, err)
		assert.Same(t, expected, result)
		provider.AssertExpectations(t)
	})

	t.Run("returns provider errors unchanged", func(t *testing.T) {
		provider := new(MockTriager)
		provider.On("Triage", mock.Anything, mock.Anything, mock.Anything).Return(nil, services.ErrProviderFailure)

		service := NewTriageService(provider, nil)
		result, err := service.TriageTicket(context.Background(), models.TicketInput{Subject: "s", Body: "b"})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, services.ErrProviderFailure)
		provider.AssertNumberOfCalls(t, "Triage", 1)
	})

	t.Run("nil result without error is internal", func(t *testing.T) {
		provider := new(MockTriager)
		provider.On("Triage", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

		service := NewTriageService(provider, nil)
		result, err := service.TriageTicket(context.Background(), models.TicketInput{Subject: "s", Body: "b"})

		assert.Nil(t, result)
		assert.True(t, services.IsInternalError(err))
	})

	t.Run("rejects empty fields before calling the provider", func(t *testing.T) {
		provider := new(MockTriager)

		service := NewTriageService(provider, nil)
		result, err := service.TriageTicket(context.Background(), models.TicketInput{Subject: "Refund"})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, services.ErrInvalidInput)
		assert.Equal(t, map[string]interface{}{"body": "body is required"}, services.GetErrorDetails(err))
		provider.AssertNotCalled(t, "Triage", mock.Anything, mock.Anything, mock.Anything)
	})
}
