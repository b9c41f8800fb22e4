package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Error("burst of 2 should admit two immediate requests")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third immediate request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("a different client should have its own budget")
	}
}

func TestRateLimiter_StopEndsCleanupLoop(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	exited := make(chan struct{})
	go func() {
		rl.cleanupLoop(time.Hour)
		close(exited)
	}()

	rl.Stop()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not exit after Stop")
	}

	// Stop is idempotent.
	rl.Stop()
}
