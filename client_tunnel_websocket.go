package rtspconn

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsReader exposes a WebSocket connection as a byte stream.
// A read spanning message boundaries buffers the remainder.
type wsReader struct {
	wc *websocket.Conn

	buf []byte
}

func (r *wsReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		var msgType int
		var err error
		msgType, r.buf, err = r.wc.ReadMessage()
		if err != nil {
			return 0, err
		}

		if msgType != websocket.BinaryMessage {
			return 0, fmt.Errorf("unexpected message type %v", msgType)
		}
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]

	return n, nil
}

type wsWriter struct {
	wc *websocket.Conn

	mutex sync.Mutex
}

func (w *wsWriter) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	err := w.wc.WriteMessage(websocket.BinaryMessage, p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// clientTunnelWebSocket is a RTSP-over-WebSocket tunnel; each binary
// message carries raw RTSP bytes.
type clientTunnelWebSocket struct {
	wconn *websocket.Conn
	r     io.Reader
	w     io.Writer
}

func (tu *clientTunnelWebSocket) Read(b []byte) (int, error) {
	return tu.r.Read(b)
}

func (tu *clientTunnelWebSocket) Write(b []byte) (int, error) {
	return tu.w.Write(b)
}

func (tu *clientTunnelWebSocket) Close() error {
	return tu.wconn.Close()
}

func (tu *clientTunnelWebSocket) LocalAddr() net.Addr {
	return tu.wconn.LocalAddr()
}

func (tu *clientTunnelWebSocket) RemoteAddr() net.Addr {
	return tu.wconn.RemoteAddr()
}

func (tu *clientTunnelWebSocket) SetDeadline(_ time.Time) error {
	return nil
}

func (tu *clientTunnelWebSocket) SetReadDeadline(t time.Time) error {
	return tu.wconn.SetReadDeadline(t)
}

func (tu *clientTunnelWebSocket) SetWriteDeadline(t time.Time) error {
	return tu.wconn.SetWriteDeadline(t)
}

func newClientTunnelWebSocket(
	ctx context.Context,
	dialContext func(ctx context.Context, network, address string) (net.Conn, error),
	addr string,
) (net.Conn, error) {
	c := &clientTunnelWebSocket{}

	var err error
	c.wconn, _, err = (&websocket.Dialer{
		NetDialContext: dialContext,
		Subprotocols:   []string{"rtsp.onvif.org"},
	}).DialContext(ctx, "ws://"+addr+"/", nil) //nolint:bodyclose
	if err != nil {
		return nil, err
	}

	c.r = &wsReader{wc: c.wconn}
	c.w = &wsWriter{wc: c.wconn}

	return c, nil
}
