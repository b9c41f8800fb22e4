package evidence

import (
	"errors"
	"testing"
)

func TestNewProvider_CredentialChecks(t *testing.T) {
	if _, err := NewProvider(ProviderPerplexity, "", ""); err == nil {
		t.Error("perplexity without an API key should fail")
	}
	if _, err := NewProvider(ProviderNewsAPI, "news-key", ""); err == nil {
		t.Error("newsapi without an OpenAI key should fail")
	}
	if _, err := NewProvider("bogus", "k", "k"); err == nil {
		t.Error("unknown provider should fail")
	}
	if _, err := NewProvider(ProviderMock, "", ""); err != nil {
		t.Errorf("mock provider should need no credentials, got %v", err)
	}
}

func TestStatusError_Classification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		unavailable bool
	}{
		{"internal server error", 500, true},
		{"bad gateway", 502, true},
		{"service unavailable", 503, true},
		{"gateway timeout", 504, true},
		{"rate limited", 429, true},
		{"bad request", 400, false},
		{"unauthorized", 401, false},
		{"forbidden", 403, false},
		{"not found", 404, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(ProviderPerplexity, tt.status, []byte("upstream detail"))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrUnavailable); got != tt.unavailable {
				t.Errorf("status %d: errors.Is(ErrUnavailable) = %v, want %v", tt.status, got, tt.unavailable)
			}
			if errors.Is(err, ErrMalformedResponse) {
				t.Errorf("status %d should never classify as malformed", tt.status)
			}
		})
	}
}
