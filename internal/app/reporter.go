package app

import (
	"context"
	"time"

	"github.com/bft-labs/gelfhub/internal/metrics"
	"github.com/bft-labs/gelfhub/internal/ports"
)

// Reporter periodically logs a throughput summary from the metrics registry:
// message rate, totals, and failure rate since the previous report.
type Reporter struct {
	registry *metrics.Registry
	logger   ports.Logger
	interval time.Duration
}

// NewReporter creates a reporter. An interval of zero disables reporting.
func NewReporter(registry *metrics.Registry, logger ports.Logger, interval time.Duration) *Reporter {
	return &Reporter{
		registry: registry,
		logger:   logger,
		interval: interval,
	}
}

// Run emits a summary every interval until ctx is canceled.
func (r *Reporter) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	prev := r.registry.Snapshot()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cur := r.registry.Snapshot()
			elapsed := now.Sub(last)

			received := cur.MessagesReceived - prev.MessagesReceived
			forwarded := cur.MessagesForwarded - prev.MessagesForwarded
			failed := cur.FailedTotal() - prev.FailedTotal()

			rate := float64(received) / elapsed.Seconds()
			var failureRate float64
			if forwarded+failed > 0 {
				failureRate = float64(failed) / float64(forwarded+failed) * 100
			}

			r.logger.Info("throughput",
				ports.Float64("messages_per_second", rate),
				ports.Float64("failure_rate_pct", failureRate),
				ports.Uint64("received_total", cur.MessagesReceived),
				ports.Uint64("forwarded_total", cur.MessagesForwarded),
				ports.Uint64("failed_total", cur.FailedTotal()),
				ports.Uint64("connections_total", cur.ConnectionsAccepted),
			)

			prev = cur
			last = now
		}
	}
}
