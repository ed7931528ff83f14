// Package health exposes the operational surface of the forwarder: a
// liveness/readiness endpoint reporting whether the TCP listener is bound,
// plus the Prometheus metrics endpoint. Both are served on a separate admin
// listener so the GELF port stays protocol-pure.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/gelfhub/internal/metrics"
	"github.com/bft-labs/gelfhub/internal/ports"
)

// Status represents the health status of the forwarder.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Response is the JSON body returned by the health endpoint.
type Response struct {
	Status    Status           `json:"status"`
	Listening bool             `json:"listening"`
	Counters  metrics.Snapshot `json:"counters"`
	Timestamp string           `json:"timestamp"`
}

// Server serves /healthz and /metrics on the admin address.
type Server struct {
	addr      string
	logger    ports.Logger
	registry  *metrics.Registry
	listening func() bool
	gatherer  prometheus.Gatherer
}

// NewServer creates an admin server. listening reports whether the TCP
// ingestion endpoint is bound and accepting; it is the signal a process
// supervisor keys off.
func NewServer(addr string, registry *metrics.Registry, listening func() bool, logger ports.Logger) *Server {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(registry)

	return &Server{
		addr:      addr,
		logger:    logger,
		registry:  registry,
		listening: listening,
		gatherer:  promReg,
	}
}

// Handler returns the admin HTTP mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthz)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Run serves the admin endpoints until ctx is canceled. An empty address
// disables the admin surface.
func (s *Server) Run(ctx context.Context) error {
	if s.addr == "" {
		return nil
	}

	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin endpoints available", ports.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// healthz returns 200 while the TCP listener is accepting, 503 otherwise.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	listening := s.listening()

	resp := Response{
		Status:    StatusUp,
		Listening: listening,
		Counters:  s.registry.Snapshot(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK
	if !listening {
		resp.Status = StatusDown
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("write health response", ports.Err(err))
	}
}
