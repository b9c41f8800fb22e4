package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/factlock/factlock/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	newsAPIBaseURL = "https://newsapi.org/v2"
	newsPageSize   = 5
	newsChatModel  = openai.GPT4oMini
)

const searchTermsPrompt = `Extract 2-3 key search terms from this yes/no question for searching news articles: %q

Respond with ONLY the search terms, space-separated. No explanation.`

// NewsClient gathers evidence from recent news articles and synthesizes a
// yes/no answer over them with a chat completion. Unlike the perplexity
// provider the article list itself is the citation set, so the extractor's
// first tier always applies when any articles were found.
type NewsClient struct {
	apiKey     string
	httpClient *http.Client
	llm        *openai.Client
}

func NewNewsClient(apiKey, openAIKey string) *NewsClient {
	return &NewsClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		llm:        openai.NewClient(openAIKey),
	}
}

func (c *NewsClient) Name() string { return ProviderNewsAPI }

type newsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type newsResponse struct {
	Status   string        `json:"status"`
	Message  string        `json:"message"`
	Articles []newsArticle `json:"articles"`
}

func (c *NewsClient) FetchEvidence(ctx context.Context, req domain.EvidenceRequest) (*domain.Evidence, error) {
	terms, err := c.complete(ctx, fmt.Sprintf(searchTermsPrompt, req.Question))
	if err != nil {
		return nil, fmt.Errorf("extract search terms: %w", err)
	}

	articles, err := c.searchArticles(ctx, terms)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: no relevant articles for %q", ErrUnavailable, terms)
	}

	var sb strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&sb, "Title: %s\nDescription: %s\nSource: %s\n\n", a.Title, a.Description, a.Source.Name)
	}

	prompt := SupportPrompt(req.Question, req.MinSources)
	if req.Stance == domain.StanceRefute {
		prompt = RefutePrompt(req.Question, req.PriorAnswer, req.MinSources)
	}
	prompt = fmt.Sprintf("%s\n\nBase your answer only on these recent news articles:\n\n%s", prompt, sb.String())

	answer, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesize answer: %w", err)
	}
	if answer == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	citations := make([]domain.EvidenceItem, 0, len(articles))
	for _, a := range articles {
		citations = append(citations, domain.EvidenceItem{Title: a.Title, URL: a.URL})
	}

	return &domain.Evidence{Text: answer, Citations: citations}, nil
}

func (c *NewsClient) searchArticles(ctx context.Context, query string) ([]newsArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", fmt.Sprintf("%d", newsPageSize))
	params.Set("apiKey", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBaseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create news request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ProviderNewsAPI, resp.StatusCode, respBody)
	}

	var result newsResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("news API error: %s", result.Message)
	}

	return result.Articles, nil
}

func (c *NewsClient) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: newsChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", ErrMalformedResponse)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
