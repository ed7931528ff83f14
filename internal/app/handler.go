package app

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/bft-labs/gelfhub/internal/domain"
	"github.com/bft-labs/gelfhub/internal/gelf"
	"github.com/bft-labs/gelfhub/internal/metrics"
	"github.com/bft-labs/gelfhub/internal/ports"
)

// handler owns one accepted TCP connection: it pulls frames off the stream
// and hands each to the delivery client, blocking on the full retry cycle
// before reading the next frame. Concurrency comes from one handler per
// connection, never from pipelining within one.
type handler struct {
	conn     net.Conn
	sender   ports.MessageSender
	registry *metrics.Registry
	logger   ports.Logger
	idle     time.Duration
	maxBytes int
}

// run reads frames until the connection ends, then closes it. Every exit
// path is connection-scoped; nothing here can take down the listener.
func (h *handler) run(ctx context.Context) {
	defer h.conn.Close()

	// Unblock a pending read when the listener shuts down.
	stop := context.AfterFunc(ctx, func() {
		h.conn.SetReadDeadline(time.Now()) //nolint:errcheck
	})
	defer stop()

	remote := h.conn.RemoteAddr().String()
	reader := gelf.NewReader(h.conn, h.maxBytes)

	for {
		// The idle deadline is extended by every complete frame.
		if h.idle > 0 {
			h.conn.SetReadDeadline(time.Now().Add(h.idle)) //nolint:errcheck
		}

		payload, err := reader.Next()
		if err != nil {
			h.closeWith(err, remote)
			return
		}

		msg := domain.Message{
			Payload:    payload,
			Received:   time.Now(),
			RemoteAddr: remote,
		}
		h.registry.IncMessagesReceived(msg.Size())

		outcome, err := h.sender.Send(ctx, msg)
		if ctx.Err() != nil {
			h.logger.Debug("connection closed during shutdown", ports.String("remote", remote))
			return
		}
		if err != nil {
			// Terminal failures are counted by the sender; the connection
			// continues with the next frame.
			h.logger.Debug("message dropped",
				ports.String("remote", remote),
				ports.String("outcome", outcome.String()),
			)
		}
	}
}

// closeWith logs and counts the reason the stream ended. Idle timeouts and
// peer closes are lifecycle events, not errors.
func (h *handler) closeWith(err error, remote string) {
	switch {
	case errors.Is(err, io.EOF):
		h.logger.Debug("connection closed by peer", ports.String("remote", remote))

	case errors.Is(err, domain.ErrFrameTooLarge):
		h.registry.IncFramingErrors()
		h.logger.Warn("closing connection: frame exceeds maximum size",
			ports.String("remote", remote),
			ports.Int("max_bytes", h.maxBytes),
		)

	case errors.Is(err, domain.ErrTruncatedFrame):
		h.registry.IncFramingErrors()
		h.logger.Warn("discarding truncated frame at end of stream",
			ports.String("remote", remote),
		)

	case errors.Is(err, os.ErrDeadlineExceeded):
		h.logger.Info("closing idle connection",
			ports.String("remote", remote),
			ports.Duration("idle_timeout", h.idle),
		)

	default:
		// Resets and broken pipes are ordinary disconnects.
		h.logger.Debug("connection error",
			ports.String("remote", remote),
			ports.Err(err),
		)
	}
}
