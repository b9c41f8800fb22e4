package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/factlock/factlock/internal/classify"
	"github.com/factlock/factlock/internal/domain"
	"github.com/factlock/factlock/internal/evidence"
	"github.com/factlock/factlock/internal/extract"
	"go.uber.org/zap"
)

var ErrQuestionEmpty = errors.New("question is required")

// EvidencePolicy decides what happens when the evidence provider returns
// nothing usable.
type EvidencePolicy string

const (
	// PolicyDegrade returns a degenerate false verdict with a synthetic
	// placeholder source.
	PolicyDegrade EvidencePolicy = "degrade"
	// PolicyFail propagates the provider failure to the caller.
	PolicyFail EvidencePolicy = "fail"
)

// DefaultMinSources is the citation count evaluation prompts ask for.
const DefaultMinSources = 3

// EvaluationService turns a yes/no question into a verdict: one evidence
// fetch, then citation extraction and polarity classification run
// independently over the returned text. No retries at this layer.
type EvaluationService struct {
	provider   domain.EvidenceProvider
	classifier *classify.Classifier
	policy     EvidencePolicy
	minSources int
	logger     *zap.Logger
}

func NewEvaluationService(provider domain.EvidenceProvider, policy EvidencePolicy, logger *zap.Logger) *EvaluationService {
	if policy == "" {
		policy = PolicyFail
	}
	return &EvaluationService{
		provider:   provider,
		classifier: classify.New(),
		policy:     policy,
		minSources: DefaultMinSources,
		logger:     logger,
	}
}

func (s *EvaluationService) Evaluate(ctx context.Context, question string) (*domain.Verdict, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionEmpty
	}

	ev, err := s.provider.FetchEvidence(ctx, domain.EvidenceRequest{
		Question:   question,
		Stance:     domain.StanceSupport,
		MinSources: s.minSources,
	})
	if err != nil {
		if errors.Is(err, evidence.ErrUnavailable) && s.policy == PolicyDegrade {
			s.logger.Warn("evidence unavailable, degrading to false verdict",
				zap.String("question", question),
				zap.Error(err))
			return &domain.Verdict{
				Question: question,
				Sources:  []domain.EvidenceItem{extract.Placeholder(question)},
				Answer:   false,
			}, nil
		}
		return nil, fmt.Errorf("evaluate %q: %w", question, err)
	}

	verdict := &domain.Verdict{
		Question: question,
		Sources:  extract.CitationsOrPlaceholder(question, ev.Text, ev.Citations),
		Answer:   s.classifier.Classify(ev.Text),
	}

	s.logger.Info("question evaluated",
		zap.String("question", question),
		zap.Bool("answer", verdict.Answer),
		zap.Int("source_count", len(verdict.Sources)),
		zap.String("provider", s.provider.Name()))

	return verdict, nil
}
