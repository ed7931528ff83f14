package domain

import "time"

// Outcome is the terminal classification of one delivery cycle.
type Outcome int

const (
	// OutcomeSuccess means the destination acknowledged the message (2xx).
	OutcomeSuccess Outcome = iota

	// OutcomeFatal means the destination rejected the message with a
	// non-retryable status. The message is dropped, the connection continues.
	OutcomeFatal

	// OutcomeExhausted means every permitted attempt failed with a retryable
	// error. The message is dropped.
	OutcomeExhausted
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFatal:
		return "fatal"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// RetryPolicy bounds delivery attempts and the backoff schedule between them.
// The delay before retry n (zero-based) is Base * Multiplier^n, capped at Max.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts per message, including the
	// first. Must be at least 1.
	MaxAttempts int

	// Base is the delay before the first retry.
	Base time.Duration

	// Multiplier scales the delay after each retryable failure.
	Multiplier float64

	// Max caps the per-retry delay. Zero means uncapped.
	Max time.Duration
}

// DefaultRetryPolicy returns the retry policy used when none is configured:
// three attempts with 500ms base delay doubling up to 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Base:        500 * time.Millisecond,
		Multiplier:  2.0,
		Max:         10 * time.Second,
	}
}

// Validate checks the policy for errors.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return ErrInvalidConfig
	}
	if p.Base < 0 || p.Max < 0 {
		return ErrInvalidConfig
	}
	if p.Multiplier < 1 {
		return ErrInvalidConfig
	}
	return nil
}
