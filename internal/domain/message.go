package domain

import "time"

// Message is one validated GELF record after terminator stripping.
// The payload is opaque: gelfhub relays the bytes, it does not validate the
// GELF JSON schema. A Message is created by the frame reader, handed to the
// delivery client exactly once, and discarded after its delivery cycle.
type Message struct {
	// Payload is the raw record bytes, without the null terminator and
	// without any trailing newline framing bytes.
	Payload []byte

	// Received is when the terminator was found on the stream.
	Received time.Time

	// RemoteAddr is the peer address of the connection the message arrived
	// on. Used only for logging.
	RemoteAddr string
}

// Size returns the payload length in bytes.
func (m Message) Size() int {
	return len(m.Payload)
}
