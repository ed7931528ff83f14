// Package gelf decodes GELF TCP framing: records are delimited by a null
// byte (0x00) on the stream, with an optional trailing newline before the
// terminator that some emitters add.
package gelf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/gelfhub/internal/domain"
)

const terminator = 0x00

// defaultBufSize is the read buffer size, matching the original forwarder's
// socket receive buffer.
const defaultBufSize = 8192

// Reader decodes discrete record frames from a byte stream, enforcing a
// maximum frame size. It is not safe for concurrent use; each connection
// owns exactly one Reader.
type Reader struct {
	src      *bufio.Reader
	maxBytes int
	err      error
}

// NewReader creates a Reader over src. maxBytes bounds the payload size of a
// single frame; accumulating more than maxBytes without finding a terminator
// fails the stream with domain.ErrFrameTooLarge.
func NewReader(src io.Reader, maxBytes int) *Reader {
	bufSize := defaultBufSize
	if maxBytes > 0 && maxBytes < bufSize {
		bufSize = maxBytes + 1
	}
	return &Reader{
		src:      bufio.NewReaderSize(src, bufSize),
		maxBytes: maxBytes,
	}
}

// Next returns the payload of the next frame in stream order, with the
// terminator and any trailing newline framing stripped.
//
// It returns io.EOF when the stream closes cleanly on a frame boundary,
// domain.ErrFrameTooLarge when the size limit is exceeded before a
// terminator, and domain.ErrTruncatedFrame when the stream ends mid-frame.
// Any error is sticky: once Next fails, it fails the same way forever.
func (r *Reader) Next() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	var frame []byte
	for {
		chunk, err := r.src.ReadSlice(terminator)
		frame = append(frame, chunk...)

		switch {
		case err == nil:
			// Terminator found; it is the last byte of frame.
			payload := trimFraming(frame[:len(frame)-1])
			if r.maxBytes > 0 && len(payload) > r.maxBytes {
				r.err = domain.ErrFrameTooLarge
				return nil, r.err
			}
			return payload, nil

		case errors.Is(err, bufio.ErrBufferFull):
			if r.maxBytes > 0 && len(frame) > r.maxBytes {
				r.err = domain.ErrFrameTooLarge
				return nil, r.err
			}
			// Keep accumulating.

		case errors.Is(err, io.EOF):
			if len(frame) == 0 {
				r.err = io.EOF
				return nil, r.err
			}
			r.err = domain.ErrTruncatedFrame
			return nil, r.err

		default:
			r.err = fmt.Errorf("read frame: %w", err)
			return nil, r.err
		}
	}
}

// trimFraming strips the optional trailing newline (and carriage return)
// that line-oriented GELF emitters place before the null terminator.
func trimFraming(payload []byte) []byte {
	payload = bytes.TrimSuffix(payload, []byte{'\n'})
	payload = bytes.TrimSuffix(payload, []byte{'\r'})
	return payload
}
