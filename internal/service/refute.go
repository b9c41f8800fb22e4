package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/factlock/factlock/internal/domain"
	"github.com/factlock/factlock/internal/extract"
	"go.uber.org/zap"
)

var (
	ErrInsufficientEvidence = errors.New("insufficient refutation evidence")
	ErrPriorNotFound        = errors.New("prior record not found")
	ErrPriorMissing         = errors.New("original evaluation or transaction hash is required")
)

// RefutationMode controls how a failed evidentiary bar surfaces.
type RefutationMode string

const (
	// ModeStrict rejects a refutation that does not out-cite the original.
	ModeStrict RefutationMode = "strict"
	// ModeLenient returns the best-effort result with RefuteAnswer forced
	// to false when the bar is not cleared.
	ModeLenient RefutationMode = "lenient"
)

// PriorInput carries one of the two accepted references to a prior
// verdict: the verdict inline, or the ledger transaction that holds it.
type PriorInput struct {
	Evaluation      *domain.Verdict
	TransactionHash string
}

// RefutationService re-evaluates a prior verdict from the opposite stance.
// The counter-verdict is accepted only when it cites strictly more sources
// than the original.
type RefutationService struct {
	provider domain.EvidenceProvider
	ledger   domain.LedgerClient
	mode     RefutationMode
	logger   *zap.Logger
}

// NewRefutationService wires a refutation pipeline. ledger may be nil when
// no ledger is configured; resolving by transaction hash then fails with
// ErrPriorNotFound.
func NewRefutationService(provider domain.EvidenceProvider, ledger domain.LedgerClient, mode RefutationMode, logger *zap.Logger) *RefutationService {
	if mode == "" {
		mode = ModeStrict
	}
	return &RefutationService{
		provider: provider,
		ledger:   ledger,
		mode:     mode,
		logger:   logger,
	}
}

// ResolvePrior normalizes the two accepted input shapes into a verdict.
func (s *RefutationService) ResolvePrior(ctx context.Context, input PriorInput) (*domain.Verdict, error) {
	if input.Evaluation != nil {
		if strings.TrimSpace(input.Evaluation.Question) == "" {
			return nil, ErrPriorMissing
		}
		return input.Evaluation, nil
	}

	if input.TransactionHash == "" {
		return nil, ErrPriorMissing
	}
	if s.ledger == nil {
		return nil, fmt.Errorf("%w: no ledger configured", ErrPriorNotFound)
	}

	raw, err := s.ledger.Fetch(ctx, input.TransactionHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriorNotFound, err)
	}

	var record domain.LedgerRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: decode ledger payload: %v", ErrPriorNotFound, err)
	}
	if record.Question == "" {
		return nil, fmt.Errorf("%w: ledger payload has no question", ErrPriorNotFound)
	}

	return &domain.Verdict{
		Question: record.Question,
		Sources:  record.Sources,
		Answer:   record.Answer,
	}, nil
}

// Refute gathers opposite-stance evidence against a prior verdict and
// applies the evidentiary bar: strictly more citations than the original.
// Zero extracted citations is a failure here, never a placeholder occasion.
func (s *RefutationService) Refute(ctx context.Context, prior *domain.Verdict) (*domain.Refutation, error) {
	originalCount := len(prior.Sources)
	required := originalCount + 1

	ev, err := s.provider.FetchEvidence(ctx, domain.EvidenceRequest{
		Question:    prior.Question,
		Stance:      domain.StanceRefute,
		PriorAnswer: prior.Answer,
		MinSources:  required,
	})
	if err != nil {
		return nil, fmt.Errorf("refute %q: %w", prior.Question, err)
	}

	sources := extract.Citations(ev.Text, ev.Citations)
	refuteCount := len(sources)
	barCleared := refuteCount > originalCount

	if !barCleared && s.mode == ModeStrict {
		return nil, fmt.Errorf("%w: found %d sources, need at least %d",
			ErrInsufficientEvidence, refuteCount, required)
	}

	// An accepted refutation always takes the opposite polarity. In
	// lenient mode a failed bar is reported as refuteAnswer=false rather
	// than an error.
	refuteAnswer := !prior.Answer
	if !barCleared {
		refuteAnswer = false
	}

	s.logger.Info("refutation completed",
		zap.String("question", prior.Question),
		zap.Bool("original_answer", prior.Answer),
		zap.Bool("refute_answer", refuteAnswer),
		zap.Int("original_sources", originalCount),
		zap.Int("refute_sources", refuteCount),
		zap.Bool("bar_cleared", barCleared))

	return &domain.Refutation{
		OriginalQuestion:    prior.Question,
		OriginalAnswer:      prior.Answer,
		RefuteAnswer:        refuteAnswer,
		Sources:             sources,
		OriginalSourceCount: originalCount,
		RefuteSourceCount:   refuteCount,
	}, nil
}
