// Package app wires the forwarding pipeline together: a TCP listener that
// accepts GELF streams and a handler per connection feeding the delivery
// client.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/gelfhub/internal/metrics"
	"github.com/bft-labs/gelfhub/internal/ports"
)

// ListenerConfig holds the ingestion-side settings.
type ListenerConfig struct {
	// Addr is the host:port to bind.
	Addr string

	// IdleTimeout closes a connection that produces no complete frame for
	// this long. Zero disables the deadline.
	IdleTimeout time.Duration

	// MaxMessageBytes bounds a single frame's payload.
	MaxMessageBytes int
}

// Listener accepts TCP connections and dispatches one handler goroutine per
// connection. It owns no per-connection state; the metrics registry is the
// only resource shared across handlers.
type Listener struct {
	cfg      ListenerConfig
	sender   ports.MessageSender
	registry *metrics.Registry
	logger   ports.Logger

	mu        sync.Mutex
	ln        net.Listener
	listening atomic.Bool
	wg        sync.WaitGroup
}

// NewListener creates a listener. Serve must be called to bind and accept.
func NewListener(cfg ListenerConfig, sender ports.MessageSender, registry *metrics.Registry, logger ports.Logger) *Listener {
	return &Listener{
		cfg:      cfg,
		sender:   sender,
		registry: registry,
		logger:   logger,
	}
}

// Serve binds the configured endpoint and accepts connections until ctx is
// canceled, then drains active handlers. A bind failure is returned to the
// caller and is fatal at startup. Transient accept errors are logged and the
// loop continues.
func (l *Listener) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", l.cfg.Addr, err)
	}

	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
	l.listening.Store(true)
	defer l.listening.Store(false)

	l.logger.Info("listening",
		ports.String("addr", ln.Addr().String()),
		ports.Duration("idle_timeout", l.cfg.IdleTimeout),
		ports.Int("max_message_bytes", l.cfg.MaxMessageBytes),
	)

	stop := context.AfterFunc(ctx, func() {
		ln.Close() //nolint:errcheck
	})
	defer stop()

	var acceptDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			// Transient OS-level failure: log, back off briefly, keep accepting.
			if acceptDelay == 0 {
				acceptDelay = 5 * time.Millisecond
			} else if acceptDelay *= 2; acceptDelay > time.Second {
				acceptDelay = time.Second
			}
			l.logger.Warn("accept error",
				ports.Err(err),
				ports.Duration("retry_in", acceptDelay),
			)
			time.Sleep(acceptDelay)
			continue
		}
		acceptDelay = 0

		l.registry.IncConnectionsAccepted()
		l.logger.Debug("accepted connection", ports.String("remote", conn.RemoteAddr().String()))

		h := &handler{
			conn:     conn,
			sender:   l.sender,
			registry: l.registry,
			logger:   l.logger,
			idle:     l.cfg.IdleTimeout,
			maxBytes: l.cfg.MaxMessageBytes,
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			h.run(ctx)
		}()
	}

	l.wg.Wait()
	l.logger.Info("listener stopped")
	return nil
}

// Listening reports whether the TCP endpoint is currently bound and
// accepting. This is the health signal consumed by process supervisors.
func (l *Listener) Listening() bool {
	return l.listening.Load()
}

// BoundAddr returns the bound address, or nil before Serve binds.
func (l *Listener) BoundAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}
