// Package http implements the outbound delivery client: one POST per
// message to the configured destination, with bounded per-attempt timeouts
// and exponential backoff between retries.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/gelfhub/internal/domain"
	"github.com/bft-labs/gelfhub/internal/metrics"
	"github.com/bft-labs/gelfhub/internal/ports"
)

// attemptClass classifies the result of a single delivery attempt.
type attemptClass int

const (
	classSuccess attemptClass = iota
	classRetryable
	classFatal
)

// Sender implements ports.MessageSender against a single HTTP destination.
//
// Delivery is at-most-effectively-once: if an attempt succeeds remotely but
// the response is lost, the retry causes a duplicate remote receipt. The
// destination must deduplicate if that matters.
type Sender struct {
	client   ports.HTTPClient
	logger   ports.Logger
	registry *metrics.Registry
	url      string
	policy   domain.RetryPolicy
	compress bool
}

// NewSender creates a delivery client for the given destination URL.
// The per-attempt timeout is owned by the injected HTTP client.
func NewSender(client ports.HTTPClient, logger ports.Logger, registry *metrics.Registry, url string, policy domain.RetryPolicy) *Sender {
	return &Sender{
		client:   client,
		logger:   logger,
		registry: registry,
		url:      url,
		policy:   policy,
	}
}

// WithCompression enables gzip encoding of the outbound request body.
func (s *Sender) WithCompression() *Sender {
	s.compress = true
	return s
}

// Send delivers msg, blocking through the full retry cycle. Every terminal
// outcome increments exactly one metrics counter. A canceled context aborts
// the cycle between attempts and is not a terminal outcome.
func (s *Sender) Send(ctx context.Context, msg domain.Message) (domain.Outcome, error) {
	body, encoding, err := s.encode(msg.Payload)
	if err != nil {
		return domain.OutcomeFatal, fmt.Errorf("encode payload: %w", err)
	}

	back := newBackoff(s.policy)
	var lastErr error

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := back.Sleep(ctx); err != nil {
				return domain.OutcomeExhausted, err
			}
		}

		class, err := s.attempt(ctx, body, encoding)
		switch class {
		case classSuccess:
			s.registry.IncMessagesForwarded()
			return domain.OutcomeSuccess, nil

		case classFatal:
			s.registry.IncDeliveryFatal()
			s.logger.Error("destination rejected message",
				ports.Int("attempt", attempt),
				ports.Err(err),
			)
			return domain.OutcomeFatal, err

		case classRetryable:
			lastErr = err
			if ctx.Err() != nil {
				return domain.OutcomeExhausted, ctx.Err()
			}
			s.logger.Warn("delivery attempt failed",
				ports.Int("attempt", attempt),
				ports.Int("max_attempts", s.policy.MaxAttempts),
				ports.Err(err),
			)
		}
	}

	s.registry.IncDeliveryExhausted()
	return domain.OutcomeExhausted,
		fmt.Errorf("%w after %d attempts: last error: %v", domain.ErrDeliveryExhausted, s.policy.MaxAttempts, lastErr)
}

// attempt issues a single POST and classifies the result.
func (s *Sender) attempt(ctx context.Context, body []byte, encoding string) (attemptClass, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return classFatal, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// Timeouts, refused connections, and resets all land here.
		return classRetryable, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	// Only the status code matters; drain so the connection is reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck

	return classify(resp.StatusCode), statusError(resp.StatusCode)
}

// encode prepares the request body, compressing it when enabled.
func (s *Sender) encode(payload []byte) ([]byte, string, error) {
	if !s.compress {
		return payload, "", nil
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, "", err
	}
	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "gzip", nil
}

// classify maps an HTTP status to an attempt class: 2xx is success; 408,
// 429, and 5xx are retryable; every other status is a non-retryable
// rejection of this one message.
func classify(status int) attemptClass {
	switch {
	case status >= 200 && status < 300:
		return classSuccess
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return classRetryable
	case status >= 500:
		return classRetryable
	default:
		return classFatal
	}
}

func statusError(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return fmt.Errorf("destination returned %d", status)
}
