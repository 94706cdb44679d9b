// Package bytecounter contains an io.ReadWriter wrapper that counts read
// and written bytes.
package bytecounter

import (
	"io"
	"sync/atomic"
)

// ByteCounter is an io.ReadWriter wrapper that counts read and written bytes.
type ByteCounter struct {
	rw       io.ReadWriter
	received uint64
	sent     uint64
}

// New allocates a ByteCounter.
func New(rw io.ReadWriter) *ByteCounter {
	return &ByteCounter{
		rw: rw,
	}
}

// Read implements io.Reader.
func (bc *ByteCounter) Read(p []byte) (int, error) {
	n, err := bc.rw.Read(p)
	atomic.AddUint64(&bc.received, uint64(n))
	return n, err
}

// Write implements io.Writer.
func (bc *ByteCounter) Write(p []byte) (int, error) {
	n, err := bc.rw.Write(p)
	atomic.AddUint64(&bc.sent, uint64(n))
	return n, err
}

// BytesReceived returns the number of bytes received.
func (bc *ByteCounter) BytesReceived() uint64 {
	return atomic.LoadUint64(&bc.received)
}

// BytesSent returns the number of bytes sent.
func (bc *ByteCounter) BytesSent() uint64 {
	return atomic.LoadUint64(&bc.sent)
}
