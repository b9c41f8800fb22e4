package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/factlock/factlock/internal/domain"
)

const (
	perplexityChatURL = "https://api.perplexity.ai/chat/completions"
	perplexityModel   = "sonar"
)

// PerplexityClient fetches evidence through a web-search-augmented chat
// completion. The API returns prose plus search results out-of-band, so
// this provider usually satisfies the extractor's first tier.
type PerplexityClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewPerplexityClient(apiKey string) *PerplexityClient {
	return &PerplexityClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

func (c *PerplexityClient) Name() string { return ProviderPerplexity }

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityRequest struct {
	Model    string              `json:"model"`
	Messages []perplexityMessage `json:"messages"`
}

type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	SearchResults []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"search_results"`
	Citations []string `json:"citations"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *PerplexityClient) FetchEvidence(ctx context.Context, req domain.EvidenceRequest) (*domain.Evidence, error) {
	prompt := SupportPrompt(req.Question, req.MinSources)
	if req.Stance == domain.StanceRefute {
		prompt = RefutePrompt(req.Question, req.PriorAnswer, req.MinSources)
	}

	body, err := json.Marshal(perplexityRequest{
		Model:    perplexityModel,
		Messages: []perplexityMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal perplexity request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, perplexityChatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create perplexity request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read perplexity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ProviderPerplexity, resp.StatusCode, respBody)
	}

	var result perplexityResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("perplexity API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return &domain.Evidence{
		Text:      text,
		Citations: c.citations(result),
	}, nil
}

// citations normalizes the out-of-band citation data. Newer API versions
// return titled search results; older ones only a list of URLs.
func (c *PerplexityClient) citations(result perplexityResponse) []domain.EvidenceItem {
	if len(result.SearchResults) > 0 {
		items := make([]domain.EvidenceItem, 0, len(result.SearchResults))
		for _, sr := range result.SearchResults {
			items = append(items, domain.EvidenceItem{Title: sr.Title, URL: sr.URL})
		}
		return items
	}

	if len(result.Citations) > 0 {
		items := make([]domain.EvidenceItem, 0, len(result.Citations))
		for _, u := range result.Citations {
			items = append(items, domain.EvidenceItem{Title: hostTitle(u), URL: u})
		}
		return items
	}

	return nil
}

func hostTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
