// ABOUTME: Exponential backoff with jitter for optional model-call retries
// ABOUTME: Used by the OpenAI backend when STAGEWISE_MAX_RETRIES is above zero
package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// MaxBackoff caps any single wait
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns base * 2^attempt, capped at MaxBackoff, with +/-25% jitter.
// Attempt 0 (the first try) never waits.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay << uint(attempt)
	if backoff <= 0 || backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	quarter := backoff / 4
	if quarter == 0 {
		return backoff
	}
	return backoff - quarter + time.Duration(rand.Int64N(int64(2*quarter)))
}

// Sleep waits for d or until ctx is done, whichever comes first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
