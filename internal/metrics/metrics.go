// Package metrics tracks process-wide forwarding counters.
//
// The Registry is the only mutable state shared across connection handlers.
// Counters are monotonic and updated atomically, so handlers never contend
// on a lock and readers get an eventually-consistent snapshot.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the forwarding pipeline counters. It is injected into every
// connection handler at construction; there is no package-level singleton.
//
// Registry implements prometheus.Collector so the same counters back both
// the health snapshot and the /metrics endpoint.
type Registry struct {
	connectionsAccepted atomic.Uint64
	messagesReceived    atomic.Uint64
	messagesForwarded   atomic.Uint64
	deliveryFatal       atomic.Uint64
	deliveryExhausted   atomic.Uint64
	framingErrors       atomic.Uint64
	bytesProcessed      atomic.Uint64

	descConnections *prometheus.Desc
	descReceived    *prometheus.Desc
	descForwarded   *prometheus.Desc
	descFailed      *prometheus.Desc
	descFraming     *prometheus.Desc
	descBytes       *prometheus.Desc
}

// Snapshot is a point-in-time read of all counters. Individual counters are
// read atomically; no ordering is guaranteed across them.
type Snapshot struct {
	ConnectionsAccepted uint64 `json:"connections_accepted"`
	MessagesReceived    uint64 `json:"messages_received"`
	MessagesForwarded   uint64 `json:"messages_forwarded"`
	DeliveryFatal       uint64 `json:"delivery_fatal"`
	DeliveryExhausted   uint64 `json:"delivery_exhausted"`
	FramingErrors       uint64 `json:"framing_errors"`
	BytesProcessed      uint64 `json:"bytes_processed"`
}

// FailedTotal returns the number of messages that reached a terminal failure.
func (s Snapshot) FailedTotal() uint64 {
	return s.DeliveryFatal + s.DeliveryExhausted
}

// NewRegistry creates a Registry with all counters at zero.
func NewRegistry() *Registry {
	return &Registry{
		descConnections: prometheus.NewDesc(
			"gelfhub_connections_accepted_total",
			"TCP connections accepted by the listener.", nil, nil),
		descReceived: prometheus.NewDesc(
			"gelfhub_messages_received_total",
			"Complete frames decoded from client streams.", nil, nil),
		descForwarded: prometheus.NewDesc(
			"gelfhub_messages_forwarded_total",
			"Messages acknowledged by the destination.", nil, nil),
		descFailed: prometheus.NewDesc(
			"gelfhub_messages_failed_total",
			"Messages dropped after a terminal delivery failure.",
			[]string{"reason"}, nil),
		descFraming: prometheus.NewDesc(
			"gelfhub_framing_errors_total",
			"Protocol violations: oversize or truncated frames.", nil, nil),
		descBytes: prometheus.NewDesc(
			"gelfhub_bytes_processed_total",
			"Payload bytes decoded from client streams.", nil, nil),
	}
}

// IncConnectionsAccepted records one accepted TCP connection.
func (r *Registry) IncConnectionsAccepted() { r.connectionsAccepted.Add(1) }

// IncMessagesReceived records one decoded frame of size bytes.
func (r *Registry) IncMessagesReceived(size int) {
	r.messagesReceived.Add(1)
	r.bytesProcessed.Add(uint64(size))
}

// IncMessagesForwarded records one successful delivery.
func (r *Registry) IncMessagesForwarded() { r.messagesForwarded.Add(1) }

// IncDeliveryFatal records one message rejected with a non-retryable status.
func (r *Registry) IncDeliveryFatal() { r.deliveryFatal.Add(1) }

// IncDeliveryExhausted records one message dropped after exhausting retries.
func (r *Registry) IncDeliveryExhausted() { r.deliveryExhausted.Add(1) }

// IncFramingErrors records one framing protocol violation.
func (r *Registry) IncFramingErrors() { r.framingErrors.Add(1) }

// Snapshot returns the current counter values without blocking writers.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		ConnectionsAccepted: r.connectionsAccepted.Load(),
		MessagesReceived:    r.messagesReceived.Load(),
		MessagesForwarded:   r.messagesForwarded.Load(),
		DeliveryFatal:       r.deliveryFatal.Load(),
		DeliveryExhausted:   r.deliveryExhausted.Load(),
		FramingErrors:       r.framingErrors.Load(),
		BytesProcessed:      r.bytesProcessed.Load(),
	}
}

// Describe implements prometheus.Collector.
func (r *Registry) Describe(ch chan<- *prometheus.Desc) {
	ch <- r.descConnections
	ch <- r.descReceived
	ch <- r.descForwarded
	ch <- r.descFailed
	ch <- r.descFraming
	ch <- r.descBytes
}

// Collect implements prometheus.Collector.
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	s := r.Snapshot()
	ch <- prometheus.MustNewConstMetric(r.descConnections, prometheus.CounterValue, float64(s.ConnectionsAccepted))
	ch <- prometheus.MustNewConstMetric(r.descReceived, prometheus.CounterValue, float64(s.MessagesReceived))
	ch <- prometheus.MustNewConstMetric(r.descForwarded, prometheus.CounterValue, float64(s.MessagesForwarded))
	ch <- prometheus.MustNewConstMetric(r.descFailed, prometheus.CounterValue, float64(s.DeliveryFatal), "fatal")
	ch <- prometheus.MustNewConstMetric(r.descFailed, prometheus.CounterValue, float64(s.DeliveryExhausted), "exhausted")
	ch <- prometheus.MustNewConstMetric(r.descFraming, prometheus.CounterValue, float64(s.FramingErrors))
	ch <- prometheus.MustNewConstMetric(r.descBytes, prometheus.CounterValue, float64(s.BytesProcessed))
}
