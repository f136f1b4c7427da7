package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

var _ driven.TextGenerator = (*MockTextGenerator)(nil)

// MockTextGenerator returns canned JSON responses.
// Responses are consumed in order; the last one repeats.
type MockTextGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []domain.GenerationRequest

	// GenerateFn overrides the canned responses when set
	GenerateFn func(req domain.GenerationRequest) (json.RawMessage, error)
}

// NewMockTextGenerator creates a generator that answers with responses in order
func NewMockTextGenerator(responses ...string) *MockTextGenerator {
	return &MockTextGenerator{responses: responses}
}

func (m *MockTextGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if m.GenerateFn != nil {
		return m.GenerateFn(req)
	}

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	if len(m.responses) == 0 {
		return nil, domain.ErrGenerationFailed
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	if !json.Valid([]byte(resp)) {
		return nil, domain.ErrMalformedResponse
	}
	return json.RawMessage(resp), nil
}

func (m *MockTextGenerator) Provider() domain.AIProvider {
	return domain.AIProviderOpenAI
}

func (m *MockTextGenerator) Model() string {
	return "mock-generator"
}

func (m *MockTextGenerator) Close() error {
	return nil
}

// Helper methods for testing

// QueueErrors makes the next calls fail in order. A nil entry lets that call succeed.
func (m *MockTextGenerator) QueueErrors(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, errs...)
}

// Calls returns the number of Generate calls
func (m *MockTextGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request
func (m *MockTextGenerator) LastRequest() domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return domain.GenerationRequest{}
	}
	return m.requests[len(m.requests)-1]
}
