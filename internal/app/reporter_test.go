package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/gelfhub/internal/metrics"
	"github.com/bft-labs/gelfhub/internal/ports"
)

// captureLogger records info-level messages for assertions.
type captureLogger struct {
	mu       sync.Mutex
	messages []string
	fields   []map[string]interface{}
}

func (l *captureLogger) record(msg string, fields []ports.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
	m := map[string]interface{}{}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.fields = append(l.fields, m)
}

func (l *captureLogger) Debug(msg string, fields ...ports.Field) { l.record(msg, fields) }
func (l *captureLogger) Info(msg string, fields ...ports.Field)  { l.record(msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...ports.Field)  { l.record(msg, fields) }
func (l *captureLogger) Error(msg string, fields ...ports.Field) { l.record(msg, fields) }

func (l *captureLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if m == msg {
			n++
		}
	}
	return n
}

func TestReporter_EmitsSummary(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.IncMessagesReceived(10)
	reg.IncMessagesForwarded()

	logger := &captureLogger{}
	r := NewReporter(reg, logger, 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for logger.count("throughput") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no throughput summary emitted")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-done

	logger.mu.Lock()
	defer logger.mu.Unlock()
	last := logger.fields[len(logger.fields)-1]
	if _, ok := last["messages_per_second"]; !ok {
		t.Error("summary missing messages_per_second")
	}
	if got := last["received_total"]; got != uint64(1) {
		t.Errorf("received_total = %v, want 1", got)
	}
}

func TestReporter_DisabledInterval(t *testing.T) {
	r := NewReporter(metrics.NewRegistry(), &captureLogger{}, 0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return with zero interval")
	}
}
