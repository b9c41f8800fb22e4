package ledger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/factlock/factlock/internal/domain"
	"go.uber.org/zap"
)

// SubmitResult reports the outcome of a submission. Success is only set
// after the written record has been read back and verified, so a true
// value is a durability proof rather than an optimistic return.
type SubmitResult struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Submitter drives the write-retry-verify state machine over a ledger
// client. Transient failures burn retry attempts with a fixed backoff in
// between; any other failure propagates immediately as an error.
type Submitter struct {
	client domain.LedgerClient
	policy RetryPolicy
	logger *zap.Logger
}

func NewSubmitter(client domain.LedgerClient, policy RetryPolicy, logger *zap.Logger) *Submitter {
	return &Submitter{client: client, policy: policy, logger: logger}
}

// Submit writes payload to the ledger. The returned result distinguishes
// three outcomes: verified success; retries exhausted (Success false,
// Error set, err nil); and a non-retryable failure (err non-nil).
func (s *Submitter) Submit(ctx context.Context, payload []byte) (*SubmitResult, error) {
	var lastErr error

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		id, err := s.client.Submit(ctx, payload)
		if err == nil {
			return s.verify(ctx, id, payload), nil
		}

		if !s.policy.IsRetryable(err) {
			return nil, fmt.Errorf("submit to ledger: %w", err)
		}

		lastErr = err
		s.logger.Warn("transient ledger failure",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.policy.MaxAttempts),
			zap.Error(err))

		if attempt < s.policy.MaxAttempts {
			if err := sleep(ctx, s.policy.Backoff); err != nil {
				return nil, err
			}
		}
	}

	return &SubmitResult{
		Success: false,
		Error:   fmt.Sprintf("submission failed after %d attempts: %v", s.policy.MaxAttempts, lastErr),
	}, nil
}

// verify reads the just-written record back and compares it byte-for-byte
// against what was sent.
func (s *Submitter) verify(ctx context.Context, id string, payload []byte) *SubmitResult {
	stored, err := s.client.Fetch(ctx, id)
	if err != nil {
		return &SubmitResult{
			Success:         false,
			TransactionHash: id,
			Error:           fmt.Sprintf("read-back failed: %v", err),
		}
	}

	if !bytes.Equal(stored, payload) {
		return &SubmitResult{
			Success:         false,
			TransactionHash: id,
			Error:           "read-back mismatch: stored payload differs from submission",
		}
	}

	return &SubmitResult{Success: true, TransactionHash: id}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
