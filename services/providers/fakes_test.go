package providers

import (
	"context"
	"sync"

	"github.com/upb/ticket-triage/models"
)

// scriptedBackend returns its responses in order and records every call
type scriptedBackend struct {
	name      string
	responses []backendResponse

	mu    sync.Mutex
	calls int
}

type backendResponse struct {
	completion *Completion
	err        error
}

func newScriptedBackend(name string, responses ...backendResponse) *scriptedBackend {
	return &scriptedBackend{name: name, responses: responses}
}

func (b *scriptedBackend) Name() string { return b.name }

func (b *scriptedBackend) Classify(ctx context.Context, subject, body string) (*Completion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.calls
	b.calls++
	if i >= len(b.responses) {
		i = len(b.responses) - 1
	}
	r := b.responses[i]
	return r.completion, r.err
}

func (b *scriptedBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func text(s string, in, out int) backendResponse {
	return backendResponse{completion: &Completion{Text: s, InputTokens: in, OutputTokens: out}}
}

func failure(err error) backendResponse {
	return backendResponse{err: err}
}

// stubTriager is a Triager with a fixed outcome
type stubTriager struct {
	name   string
	result *models.TriageResult
	err    error
	calls  int
}

func (s *stubTriager) Name() string { return s.name }

func (s *stubTriager) Triage(ctx context.Context, subject, body string) (*models.TriageResult, error) {
	s.calls++
	return s.result, s.err
}
