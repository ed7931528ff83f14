package gelf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bft-labs/gelfhub/internal/domain"
)

func TestNext_MultipleFrames(t *testing.T) {
	stream := "{\"short\":\"a\"}\x00{\"short\":\"b\"}\x00"
	r := NewReader(strings.NewReader(stream), 1024)

	first, err := r.Next()
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if string(first) != `{"short":"a"}` {
		t.Errorf("first = %q, want {\"short\":\"a\"}", first)
	}

	second, err := r.Next()
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if string(second) != `{"short":"b"}` {
		t.Errorf("second = %q, want {\"short\":\"b\"}", second)
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("after last frame err = %v, want io.EOF", err)
	}
	// Sticky.
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("repeated Next err = %v, want io.EOF", err)
	}
}

func TestNext_StreamOrder(t *testing.T) {
	var stream bytes.Buffer
	want := []string{"one", "two", "three", "four"}
	for _, p := range want {
		stream.WriteString(p)
		stream.WriteByte(0)
	}

	r := NewReader(&stream, 64)
	for i, p := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if string(got) != p {
			t.Errorf("frame %d = %q, want %q", i, got, p)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestNext_TrailingNewlineStripped(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{"newline", "{\"v\":1}\n\x00", `{"v":1}`},
		{"crlf", "{\"v\":1}\r\n\x00", `{"v":1}`},
		{"none", "{\"v\":1}\x00", `{"v":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.stream), 1024)
			got, err := r.Next()
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("payload = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNext_FrameTooLarge(t *testing.T) {
	const max = 16
	oversize := strings.Repeat("x", max+1) // no terminator at all

	r := NewReader(strings.NewReader(oversize), max)
	if _, err := r.Next(); !errors.Is(err, domain.ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
	// No further messages after a violation.
	if _, err := r.Next(); !errors.Is(err, domain.ErrFrameTooLarge) {
		t.Errorf("repeated Next err = %v, want ErrFrameTooLarge", err)
	}
}

func TestNext_FrameTooLargeWithTerminator(t *testing.T) {
	const max = 8
	stream := strings.Repeat("y", max+4) + "\x00" + "ok\x00"

	r := NewReader(strings.NewReader(stream), max)
	if _, err := r.Next(); !errors.Is(err, domain.ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
	if _, err := r.Next(); !errors.Is(err, domain.ErrFrameTooLarge) {
		t.Errorf("reader yielded after violation, want sticky error")
	}
}

func TestNext_LargeFrameSpanningBuffer(t *testing.T) {
	// Payload larger than the internal buffer but under the limit must be
	// reassembled across reads.
	payload := strings.Repeat("z", defaultBufSize*2+100)
	r := NewReader(strings.NewReader(payload+"\x00"), defaultBufSize*4)

	got, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Errorf("payload length = %d, want %d", len(got), len(payload))
	}
}

func TestNext_TruncatedTrailingData(t *testing.T) {
	r := NewReader(strings.NewReader("complete\x00partial"), 1024)

	if _, err := r.Next(); err != nil {
		t.Fatalf("complete frame: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, domain.ErrTruncatedFrame) {
		t.Fatalf("err = %v, want ErrTruncatedFrame", err)
	}
}

func TestNext_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""), 1024)
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestNext_SocketError(t *testing.T) {
	wantErr := errors.New("connection reset by peer")
	r := NewReader(failingReader{err: wantErr}, 1024)

	if _, err := r.Next(); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
}
