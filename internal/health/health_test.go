package health

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logadapter "github.com/bft-labs/gelfhub/internal/adapters/log"
	"github.com/bft-labs/gelfhub/internal/metrics"
)

func TestHealthz_Listening(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.IncConnectionsAccepted()
	reg.IncMessagesReceived(10)
	reg.IncMessagesForwarded()

	s := NewServer("127.0.0.1:0", reg, func() bool { return true }, logadapter.NewNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != StatusUp {
		t.Errorf("status = %s, want up", resp.Status)
	}
	if !resp.Listening {
		t.Error("listening = false, want true")
	}
	if resp.Counters.MessagesForwarded != 1 {
		t.Errorf("counters.messages_forwarded = %d, want 1", resp.Counters.MessagesForwarded)
	}
	if resp.Counters.ConnectionsAccepted != 1 {
		t.Errorf("counters.connections_accepted = %d, want 1", resp.Counters.ConnectionsAccepted)
	}
}

func TestHealthz_NotListening(t *testing.T) {
	reg := metrics.NewRegistry()
	s := NewServer("127.0.0.1:0", reg, func() bool { return false }, logadapter.NewNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != StatusDown {
		t.Errorf("status = %s, want down", resp.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.IncMessagesReceived(128)
	reg.IncMessagesForwarded()

	s := NewServer("127.0.0.1:0", reg, func() bool { return true }, logadapter.NewNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"gelfhub_messages_received_total 1",
		"gelfhub_messages_forwarded_total 1",
		"gelfhub_bytes_processed_total 128",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
