// Package evidence adapts pluggable web-evidence providers behind one
// interface. Providers return unstructured prose plus whatever citations
// they can supply out-of-band; structure is recovered downstream.
package evidence

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/factlock/factlock/internal/domain"
)

// Provider constants
const (
	ProviderPerplexity = "perplexity"
	ProviderNewsAPI    = "newsapi"
	ProviderMock       = "mock"
)

var (
	// ErrUnavailable means the provider returned nothing usable. The
	// evaluation layer decides whether to degrade or propagate.
	ErrUnavailable = errors.New("evidence unavailable")
	// ErrMalformedResponse means the provider responded but the expected
	// fields were missing.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// statusError classifies a non-200 provider status. Server-side failures
// and rate limiting are outages the evaluation layer may degrade on;
// anything else (bad key, bad request) is a configuration problem and
// surfaces as-is.
func statusError(provider string, status int, body []byte) error {
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s API returned status %d: %s", ErrUnavailable, provider, status, string(body))
	}
	return fmt.Errorf("%s API returned status %d: %s", provider, status, string(body))
}

// NewProvider creates an evidence provider by name. The newsapi provider
// needs an OpenAI key on top of its own, since it synthesizes an answer
// from raw articles.
func NewProvider(provider, apiKey, openAIKey string) (domain.EvidenceProvider, error) {
	switch provider {
	case ProviderPerplexity:
		if apiKey == "" {
			return nil, fmt.Errorf("PERPLEXITY_API_KEY is required for the perplexity provider")
		}
		return NewPerplexityClient(apiKey), nil

	case ProviderNewsAPI:
		if apiKey == "" {
			return nil, fmt.Errorf("NEWS_API_KEY is required for the newsapi provider")
		}
		if openAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the newsapi provider")
		}
		return NewNewsClient(apiKey, openAIKey), nil

	case ProviderMock:
		return NewMockProvider(), nil

	default:
		return nil, fmt.Errorf("unknown evidence provider: %s (valid options: perplexity, newsapi, mock)", provider)
	}
}
