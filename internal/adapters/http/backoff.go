package http

import (
	"context"
	"time"

	"github.com/bft-labs/gelfhub/internal/domain"
)

// backoff advances the retry delay schedule for one delivery cycle:
// base * multiplier^attempt, capped at max. One backoff instance covers one
// message; it is never shared across deliveries.
type backoff struct {
	policy  domain.RetryPolicy
	current time.Duration
}

// newBackoff creates a backoff at the start of its schedule.
func newBackoff(policy domain.RetryPolicy) *backoff {
	return &backoff{
		policy:  policy,
		current: policy.Base,
	}
}

// Next returns the delay to apply before the upcoming retry and advances the
// schedule.
func (b *backoff) Next() time.Duration {
	d := b.current
	if b.policy.Max > 0 && d > b.policy.Max {
		d = b.policy.Max
	}
	b.current = time.Duration(float64(b.current) * b.policy.Multiplier)
	if b.policy.Max > 0 && b.current > b.policy.Max {
		b.current = b.policy.Max
	}
	return d
}

// Sleep blocks for the next scheduled delay. It returns early with the
// context error if ctx is canceled, so a shutdown never waits out a backoff.
func (b *backoff) Sleep(ctx context.Context) error {
	d := b.Next()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
