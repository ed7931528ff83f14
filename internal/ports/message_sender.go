package ports

import (
	"context"

	"github.com/bft-labs/gelfhub/internal/domain"
)

// MessageSender delivers one message to the configured destination.
// Implementations own the full retry cycle: the call returns only when the
// delivery reaches a terminal outcome. The returned outcome is always valid;
// err is non-nil for fatal and exhausted outcomes and describes the last
// failure.
type MessageSender interface {
	// Send delivers msg and blocks through retries until success, a fatal
	// rejection, or attempt exhaustion. Cancelling ctx aborts the cycle
	// between attempts and during backoff sleeps.
	Send(ctx context.Context, msg domain.Message) (domain.Outcome, error)
}
