package recognizer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// maxRetryAfter caps provider Retry-After hints so a scan stays within an HTTP request.
const maxRetryAfter = 20 * time.Second

// RetryPolicy retries an operation while it keeps failing with a rate-limit
// error. The delay before attempt n+1 is BaseDelay×n, or the provider's
// Retry-After hint when that is longer.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns the policy used in production: 3 attempts, 2s base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// Do runs fn until it succeeds, fails with a non-rate-limit error, or the
// attempt cap is reached.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRateLimited(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		delay := p.Delay(attempt, lastErr)
		logrus.WithFields(logrus.Fields{
			"component": "recognizer.RetryPolicy",
			"attempt":   attempt,
			"delay":     delay.String(),
		}).Warnf("rate limited, retrying: %v", lastErr)

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return &RetryExhaustedError{Attempts: attempts, Err: lastErr}
}

// Delay returns the wait before the attempt following attempt n.
func (p RetryPolicy) Delay(n int, err error) time.Duration {
	d := p.BaseDelay * time.Duration(n)
	if rl := asRateLimit(err); rl != nil {
		d = max(d, min(rl.RetryAfter, maxRetryAfter))
	}
	return d
}

// WithSleep returns a copy of the policy that waits through fn. Used by tests.
func (p RetryPolicy) WithSleep(fn func(ctx context.Context, d time.Duration) error) RetryPolicy {
	p.sleep = fn
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
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
