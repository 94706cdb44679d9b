package base

import "errors"

// ErrNeedMoreData is returned by Unmarshal functions when the buffer does
// not contain a complete message yet. The caller should keep the buffer as
// is, append more bytes and retry.
var ErrNeedMoreData = errors.New("need more data")

// Message is a RTSP message (Request, Response or InterleavedFrame).
type Message interface {
	// MarshalSize returns the size of the wire form of the message.
	MarshalSize() int

	// MarshalTo writes the wire form of the message into buf.
	MarshalTo(buf []byte) (int, error)

	// Marshal writes the wire form of the message.
	Marshal() ([]byte, error)
}
