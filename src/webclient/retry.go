package webclient

import (
	"context"
	"math/rand"
	"time"
)

const maxDelay = 32 * time.Second

type AttemptFunc func() (status int, body []byte, err error)

// SleepFunc is swapped out in tests to avoid real backoff waits.
var SleepFunc = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DoWithRetry retries the attempt function on transient errors (429/5xx) or non-nil errors.
// Backoff doubles per attempt with +-15% jitter and never exceeds maxDelay.
func DoWithRetry(ctx context.Context, attempts int, initialDelay time.Duration, fn AttemptFunc) (int, []byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	if initialDelay <= 0 {
		initialDelay = 2 * time.Second
	}
	delay := initialDelay
	for i := 0; i < attempts; i++ {
		status, body, err := fn()
		if err == nil && status != 429 && status < 500 {
			return status, body, nil
		}
		if i == attempts-1 {
			return status, body, err
		}
		if err := SleepFunc(ctx, jitter(delay)); err != nil {
			return status, body, err
		}
		if delay < maxDelay {
			delay *= 2
		}
	}
	return 0, nil, context.DeadlineExceeded
}

// jitter spreads a delay over [0.85d, 1.15d] so synchronized callers
// don't hammer a recovering upstream in lockstep.
func jitter(d time.Duration) time.Duration {
	f := 0.85 + 0.30*rand.Float64()
	j := time.Duration(float64(d) * f)
	if j > maxDelay {
		j = maxDelay
	}
	return j
}
