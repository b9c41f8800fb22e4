package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedClient fails its first failures submissions, then succeeds and
// serves reads from what it stored.
type scriptedClient struct {
	failures   int
	failWith   error
	submits    int
	fetches    int
	stored     map[string][]byte
	fetchErr   error
	corruptPay []byte
}

func newScriptedClient(failures int, failWith error) *scriptedClient {
	return &scriptedClient{failures: failures, failWith: failWith, stored: make(map[string][]byte)}
}

func (c *scriptedClient) Submit(ctx context.Context, payload []byte) (string, error) {
	c.submits++
	if c.submits <= c.failures {
		return "", c.failWith
	}
	id := fmt.Sprintf("0x%04d", c.submits)
	if c.corruptPay != nil {
		c.stored[id] = c.corruptPay
	} else {
		c.stored[id] = payload
	}
	return id, nil
}

func (c *scriptedClient) Fetch(ctx context.Context, id string) ([]byte, error) {
	c.fetches++
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	raw, ok := c.stored[id]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond, IsRetryable: IsTransient}
}

func TestSubmitter_SuccessWithReadBack(t *testing.T) {
	client := newScriptedClient(0, nil)
	s := NewSubmitter(client, fastPolicy(), zap.NewNop())

	payload := []byte(`{"question":"q","answer":true}`)
	result, err := s.Submit(context.Background(), payload)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.TransactionHash)
	assert.Equal(t, 1, client.fetches, "success requires a read-back")
}

func TestSubmitter_RetriesTransientFailures(t *testing.T) {
	client := newScriptedClient(2, fmt.Errorf("%w: rpc 503", ErrTransient))
	s := NewSubmitter(client, fastPolicy(), zap.NewNop())

	result, err := s.Submit(context.Background(), []byte("x"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, client.submits, "two transient failures then success")
}

func TestSubmitter_ExhaustedRetriesReportFailure(t *testing.T) {
	client := newScriptedClient(99, fmt.Errorf("%w: rpc 503", ErrTransient))
	s := NewSubmitter(client, fastPolicy(), zap.NewNop())

	result, err := s.Submit(context.Background(), []byte("x"))
	require.NoError(t, err, "exhaustion is a structured failure, not an error")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "after 3 attempts")
	assert.Equal(t, 3, client.submits)
}

func TestSubmitter_PermanentFailurePropagatesImmediately(t *testing.T) {
	permanent := errors.New("invalid payload")
	client := newScriptedClient(99, permanent)
	s := NewSubmitter(client, fastPolicy(), zap.NewNop())

	_, err := s.Submit(context.Background(), []byte("x"))
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, client.submits, "permanent failures must not consume retries")
}

func TestSubmitter_ReadBackFailureIsNotSuccess(t *testing.T) {
	client := newScriptedClient(0, nil)
	client.fetchErr = errors.New("node lagging")
	s := NewSubmitter(client, fastPolicy(), zap.NewNop())

	result, err := s.Submit(context.Background(), []byte("x"))
	require.NoError(t, err)

	assert.False(t, result.Success, "unverified write must not claim success")
	assert.NotEmpty(t, result.TransactionHash, "the identifier is still reported")
	assert.Contains(t, result.Error, "read-back")
}

func TestSubmitter_ReadBackMismatchIsNotSuccess(t *testing.T) {
	client := newScriptedClient(0, nil)
	client.corruptPay = []byte("garbage")
	s := NewSubmitter(client, fastPolicy(), zap.NewNop())

	result, err := s.Submit(context.Background(), []byte("x"))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "mismatch")
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", ErrTransient)))
	assert.False(t, IsTransient(errors.New("bad request")))
	assert.False(t, IsTransient(nil))
}
