// Package conn contains a RTSP connection implementation.
package conn

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/zrus/rtspconn/pkg/base"
	"github.com/zrus/rtspconn/pkg/liberrors"
)

const (
	readBufferSize = 4096
	maxDumpSize    = 128
)

// bufferDump returns a hexadecimal dump of buf, truncated to maxDumpSize.
func bufferDump(buf []byte) string {
	if len(buf) <= maxDumpSize {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("%s (%d more bytes)",
		hex.EncodeToString(buf[:maxDumpSize]), len(buf)-maxDumpSize)
}

// ReceivedMessage is a message read from a Conn, stamped with its position
// within the inbound stream.
type ReceivedMessage struct {
	Ctx base.MessageContext
	Msg base.Message
}

// codec turns a byte stream into RTSP messages.
// It keeps track of the position of each message within the stream.
type codec struct {
	readPos uint64
}

// decode extracts a message from the start of buf.
// It returns nil and a zero length when buf does not contain a full
// message yet; in that case no bytes are consumed and the next call
// restarts from the same position.
func (c *codec) decode(buf []byte) (*ReceivedMessage, int, error) {
	if len(buf) == 0 {
		return nil, 0, nil
	}

	msg, n, err := decodeMessage(buf)
	if err != nil {
		if errors.Is(err, base.ErrNeedMoreData) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("%v (buffer: %s)", err, bufferDump(buf))
	}

	ret := &ReceivedMessage{
		Ctx: base.MessageContext{
			Pos:      c.readPos,
			Received: time.Now(),
		},
		Msg: msg,
	}
	c.readPos += uint64(n)

	return ret, n, nil
}

func decodeMessage(buf []byte) (base.Message, int, error) {
	if buf[0] == base.InterleavedFrameMagicByte {
		var fr base.InterleavedFrame
		n, err := fr.Unmarshal(buf)
		if err != nil {
			return nil, 0, err
		}

		// the payload is a sub-slice of buf; copy it out before the buffer is reused
		fr.Payload = append([]byte(nil), fr.Payload...)
		return &fr, n, nil
	}

	if len(buf) < 2 {
		return nil, 0, base.ErrNeedMoreData
	}

	// no RTSP method begins with "RT"; this prefix identifies a response
	if buf[0] == 'R' && buf[1] == 'T' {
		var res base.Response
		n, err := res.Unmarshal(buf)
		if err != nil {
			return nil, 0, err
		}

		res.Body = append([]byte(nil), res.Body...)
		return &res, n, nil
	}

	var req base.Request
	n, err := req.Unmarshal(buf)
	if err != nil {
		return nil, 0, err
	}

	req.Body = append([]byte(nil), req.Body...)
	return &req, n, nil
}

// Conn is a RTSP connection.
type Conn struct {
	rw   io.ReadWriter
	cctx base.ConnectionContext
	dec  codec
	buf  []byte

	// writeMutex serializes writes, so that concurrent sends are queued
	// and never interleaved at byte level.
	writeMutex sync.Mutex
}

// NewConn allocates a Conn.
func NewConn(rw io.ReadWriter, cctx base.ConnectionContext) *Conn {
	return &Conn{
		rw:   rw,
		cctx: cctx,
		buf:  make([]byte, 0, readBufferSize),
	}
}

// Context returns the context of the connection.
func (c *Conn) Context() base.ConnectionContext {
	return c.cctx
}

// ReadMessage reads a Request, a Response or an InterleavedFrame.
func (c *Conn) ReadMessage() (*ReceivedMessage, error) {
	for {
		msg, n, err := c.dec.decode(c.buf)
		if err != nil {
			return nil, liberrors.ErrFraming{
				ConnCtx: c.cctx,
				MsgCtx: base.MessageContext{
					Pos:      c.dec.readPos,
					Received: time.Now(),
				},
				Description: err.Error(),
			}
		}

		if msg != nil {
			c.buf = c.buf[:copy(c.buf, c.buf[n:])]
			return msg, nil
		}

		if err := c.fill(); err != nil {
			return nil, err
		}
	}
}

// fill reads another chunk from the underlying stream, growing the buffer
// when needed. When the buffer starts with an interleaved frame prefix,
// capacity for the whole frame is reserved upfront.
func (c *Conn) fill() error {
	if len(c.buf) >= 4 && c.buf[0] == base.InterleavedFrameMagicByte {
		frameLen := 4 + int(binary.BigEndian.Uint16(c.buf[2:4]))
		if cap(c.buf) < frameLen {
			buf := make([]byte, len(c.buf), frameLen)
			copy(buf, c.buf)
			c.buf = buf
		}
	}

	if cap(c.buf) == len(c.buf) {
		buf := make([]byte, len(c.buf), cap(c.buf)+readBufferSize)
		copy(buf, c.buf)
		c.buf = buf
	}

	n, err := c.rw.Read(c.buf[len(c.buf):cap(c.buf)])
	c.buf = c.buf[:len(c.buf)+n]

	// process read bytes before the error; a persistent error
	// comes up again on the next call.
	if n > 0 || err == nil {
		return nil
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return liberrors.ErrTimeout{}
	}

	return liberrors.ErrRead{
		ConnCtx: c.cctx,
		MsgCtx: base.MessageContext{
			Pos:      c.dec.readPos + uint64(len(c.buf)),
			Received: time.Now(),
		},
		Err: err,
	}
}

// WriteRequest writes a request.
func (c *Conn) WriteRequest(req *base.Request) error {
	buf, _ := req.Marshal()
	return c.write(buf)
}

// WriteResponse writes a response.
func (c *Conn) WriteResponse(res *base.Response) error {
	buf, _ := res.Marshal()
	return c.write(buf)
}

// WriteInterleavedFrame writes an interleaved frame.
func (c *Conn) WriteInterleavedFrame(fr *base.InterleavedFrame, buf []byte) error {
	n, _ := fr.MarshalTo(buf)
	return c.write(buf[:n])
}

func (c *Conn) write(buf []byte) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()

	_, err := c.rw.Write(buf)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return liberrors.ErrTimeout{}
		}

		return liberrors.ErrWrite{
			ConnCtx: c.cctx,
			Err:     err,
		}
	}

	return nil
}
