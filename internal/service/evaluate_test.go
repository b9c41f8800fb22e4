package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/factlock/factlock/internal/domain"
	"github.com/factlock/factlock/internal/evidence"
	"go.uber.org/zap"
)

func TestEvaluate_EndToEnd(t *testing.T) {
	provider := evidence.NewMockProvider()
	provider.Response = &domain.Evidence{
		Text: "Yes, Bitcoin is trading at $52,300 according to multiple exchanges. Sources: - [CoinDesk](https://coindesk.com/x)",
	}
	svc := NewEvaluationService(provider, PolicyFail, zap.NewNop())

	verdict, err := svc.Evaluate(context.Background(), "Is Bitcoin trading above $50,000?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !verdict.Answer {
		t.Error("expected answer true")
	}
	if len(verdict.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(verdict.Sources))
	}
	if verdict.Sources[0].Title != "CoinDesk" || verdict.Sources[0].URL != "https://coindesk.com/x" {
		t.Errorf("unexpected source: %+v", verdict.Sources[0])
	}

	if len(provider.Calls) != 1 {
		t.Fatalf("expected 1 evidence fetch, got %d", len(provider.Calls))
	}
	if provider.Calls[0].Stance != domain.StanceSupport {
		t.Errorf("evaluation must fetch with support stance, got %q", provider.Calls[0].Stance)
	}
}

func TestEvaluate_EmptyQuestion(t *testing.T) {
	svc := NewEvaluationService(evidence.NewMockProvider(), PolicyFail, zap.NewNop())

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Evaluate(context.Background(), q); !errors.Is(err, ErrQuestionEmpty) {
			t.Errorf("Evaluate(%q) error = %v, want ErrQuestionEmpty", q, err)
		}
	}
}

func TestEvaluate_PlaceholderWhenNoCitations(t *testing.T) {
	provider := evidence.NewMockProvider()
	provider.Response = &domain.Evidence{Text: "Yes, but no sources were given."}
	svc := NewEvaluationService(provider, PolicyFail, zap.NewNop())

	verdict, err := svc.Evaluate(context.Background(), "Is it raining in Lisbon?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(verdict.Sources) != 1 {
		t.Fatalf("expected one synthetic source, got %d", len(verdict.Sources))
	}
	if !strings.Contains(verdict.Sources[0].URL, "Is+it+raining+in+Lisbon") {
		t.Errorf("synthetic source should link a search for the question, got %q", verdict.Sources[0].URL)
	}
}

func TestEvaluate_UnavailablePolicies(t *testing.T) {
	unavailable := fmt.Errorf("%w: upstream down", evidence.ErrUnavailable)

	t.Run("fail propagates", func(t *testing.T) {
		provider := evidence.NewMockProvider()
		provider.Err = unavailable
		svc := NewEvaluationService(provider, PolicyFail, zap.NewNop())

		if _, err := svc.Evaluate(context.Background(), "q?"); !errors.Is(err, evidence.ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("degrade returns false verdict", func(t *testing.T) {
		provider := evidence.NewMockProvider()
		provider.Err = unavailable
		svc := NewEvaluationService(provider, PolicyDegrade, zap.NewNop())

		verdict, err := svc.Evaluate(context.Background(), "q?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if verdict.Answer {
			t.Error("degraded verdict must be false")
		}
		if len(verdict.Sources) != 1 {
			t.Errorf("degraded verdict should carry one placeholder source, got %d", len(verdict.Sources))
		}
	})

	t.Run("non-availability errors always propagate", func(t *testing.T) {
		provider := evidence.NewMockProvider()
		provider.Err = fmt.Errorf("%w: missing fields", evidence.ErrMalformedResponse)
		svc := NewEvaluationService(provider, PolicyDegrade, zap.NewNop())

		if _, err := svc.Evaluate(context.Background(), "q?"); !errors.Is(err, evidence.ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})
}
