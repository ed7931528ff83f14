package domain

import "errors"

// Domain errors represent error conditions in the gelfhub domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrFrameTooLarge is returned when a connection accumulates more than the
	// configured maximum frame size without a terminator. The connection must
	// be closed; no partial message is emitted.
	ErrFrameTooLarge = errors.New("gelfhub: frame exceeds maximum size")

	// ErrTruncatedFrame is returned when the stream ends with unterminated
	// trailing bytes. The trailing data is discarded and counted as a
	// protocol anomaly, never forwarded.
	ErrTruncatedFrame = errors.New("gelfhub: truncated frame at end of stream")

	// ErrDeliveryExhausted is returned when a delivery cycle has used all
	// permitted attempts without a successful or fatal response.
	ErrDeliveryExhausted = errors.New("gelfhub: delivery attempts exhausted")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("gelfhub: invalid configuration")
)
