package ledger

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// ErrTransient tags a failure as retryable. The Ethereum client wraps
// server-class RPC failures with it; tests wrap it directly.
var ErrTransient = errors.New("transient ledger error")

// RetryPolicy is a finite retry budget with fixed-interval backoff. Only
// errors IsRetryable accepts consume an attempt; everything else
// propagates immediately.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	IsRetryable func(error) bool
}

// DefaultRetryPolicy mirrors the submission behavior this service has
// always had: three attempts, two seconds apart, retrying only on
// transient server errors. The backoff is deliberately fixed, not
// exponential.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     2 * time.Second,
		IsRetryable: IsTransient,
	}
}

// IsTransient reports whether an error is a server-class failure worth
// retrying: anything tagged ErrTransient, or an RPC transport error with
// a 5xx status.
func IsTransient(err error) bool {
	if errors.Is(err, ErrTransient) {
		return true
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	return false
}
