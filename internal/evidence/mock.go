package evidence

import (
	"context"

	"github.com/factlock/factlock/internal/domain"
)

// MockProvider is a configurable evidence provider for testing. Set the
// response fields to control what FetchEvidence returns.
type MockProvider struct {
	Response *domain.Evidence
	Err      error

	// Call tracking for assertions
	Calls []domain.EvidenceRequest
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Response: &domain.Evidence{
			Text: "Yes. Mock evidence text. [Mock Source](https://example.com/mock)",
		},
	}
}

func (p *MockProvider) Name() string { return ProviderMock }

func (p *MockProvider) FetchEvidence(ctx context.Context, req domain.EvidenceRequest) (*domain.Evidence, error) {
	p.Calls = append(p.Calls, req)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Response, nil
}
