/*
Package rtspconn implements the transport and session layer of a RTSP 1.0
client: it connects to a server, frames RTSP messages and interleaved binary
data on a single connection, matches responses to requests and answers
authentication challenges.

Examples are available at https://github.com/zrus/rtspconn/tree/main/examples
*/
package rtspconn

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pion/sdp/v3"

	"github.com/zrus/rtspconn/pkg/auth"
	"github.com/zrus/rtspconn/pkg/base"
	"github.com/zrus/rtspconn/pkg/bytecounter"
	"github.com/zrus/rtspconn/pkg/conn"
	"github.com/zrus/rtspconn/pkg/liberrors"
)

// Tunnel is the transport that carries RTSP messages.
type Tunnel int

// tunnels.
const (
	// plain TCP connection.
	TunnelNone Tunnel = iota

	// RTSP-over-HTTP: a pair of HTTP connections, with the upstream
	// direction encoded in base64. Used to traverse proxies and firewalls.
	TunnelHTTP

	// RTSP-over-WebSocket, with the 'rtsp.onvif.org' subprotocol.
	TunnelWebSocket
)

var tunnelLabels = map[Tunnel]string{
	TunnelNone:      "none",
	TunnelHTTP:      "HTTP",
	TunnelWebSocket: "WebSocket",
}

// String implements fmt.Stringer.
func (t Tunnel) String() string {
	if l, ok := tunnelLabels[t]; ok {
		return l
	}
	return "unknown"
}

func getCSeq(res *base.Response) (uint32, bool) {
	v, ok := res.Header["CSeq"]
	if !ok || len(v) != 1 {
		return 0, false
	}

	cseq, err := strconv.ParseUint(v[0], 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(cseq), true
}

type doReq struct {
	req *base.Request
	res chan doRes
}

type doRes struct {
	mctx base.MessageContext
	cseq uint32
	res  *base.Response
	err  error
}

// ClientStats contains statistics of a Client.
type ClientStats struct {
	// number of bytes received from the server.
	BytesReceived uint64

	// number of bytes sent to the server.
	BytesSent uint64
}

// Client is a RTSP client.
type Client struct {
	//
	// RTSP parameters (all optional)
	//
	// credentials used to answer authentication challenges.
	// It defaults to nil (anonymous access).
	Credentials *Credentials
	// timeout of read operations.
	// It defaults to 10 seconds.
	ReadTimeout time.Duration
	// timeout of write operations.
	// It defaults to 10 seconds.
	WriteTimeout time.Duration
	// user agent header.
	// It defaults to "rtspconn".
	UserAgent string
	// tunnel used to carry RTSP messages.
	// It defaults to TunnelNone (plain TCP).
	Tunnel Tunnel

	//
	// system functions (all optional)
	//
	// function used to initialize the TCP connection.
	// It defaults to (&net.Dialer{}).DialContext.
	DialContext func(ctx context.Context, network, address string) (net.Conn, error)

	//
	// callbacks (all optional)
	//
	// called before every request is written.
	OnRequest func(*base.Request)
	// called after every response is read.
	OnResponse func(*base.Response)
	// called when an interleaved frame arrives while waiting for a response.
	OnDataFrame func(*base.InterleavedFrame)

	//
	// private
	//

	u         *base.URL
	ctx       context.Context
	ctxCancel func()
	nconn     net.Conn
	conn      *conn.Conn
	bc        *bytecounter.ByteCounter
	cseq      uint32
	sender    *auth.Sender

	// connCloser channels
	connCloserTerminate chan struct{}
	connCloserDone      chan struct{}

	// in
	chDo chan doReq

	// out
	done chan struct{}
}

// Start connects to a server.
func (c *Client) Start(u *base.URL) error {
	// validate the URL before any network activity
	if u == nil {
		return liberrors.ErrInvalidArgument{Message: "URL is nil"}
	}
	if u.Scheme != "rtsp" {
		return liberrors.ErrInvalidArgument{Message: fmt.Sprintf(
			"bad URL '%s'; only scheme rtsp is supported", u)}
	}
	if u.User != nil {
		return liberrors.ErrInvalidArgument{Message: "URL must not contain credentials"}
	}
	if u.Hostname() == "" {
		return liberrors.ErrInvalidArgument{Message: fmt.Sprintf(
			"host not specified in URL '%s'", u)}
	}

	// RTSP parameters
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "rtspconn"
	}

	// system functions
	if c.DialContext == nil {
		c.DialContext = (&net.Dialer{}).DialContext
	}

	// callbacks
	if c.OnRequest == nil {
		c.OnRequest = func(*base.Request) {
		}
	}
	if c.OnResponse == nil {
		c.OnResponse = func(*base.Response) {
		}
	}
	if c.OnDataFrame == nil {
		c.OnDataFrame = func(*base.InterleavedFrame) {
		}
	}

	ctx, ctxCancel := context.WithCancel(context.Background())

	c.u = u
	c.ctx = ctx
	c.ctxCancel = ctxCancel
	c.chDo = make(chan doReq)
	c.done = make(chan struct{})

	err := c.connOpen()
	if err != nil {
		ctxCancel()
		c.ctx = nil
		c.ctxCancel = nil
		return err
	}

	go c.run()

	return nil
}

// Close closes all client resources and waits for them to close.
func (c *Client) Close() error {
	if c.ctxCancel == nil {
		return liberrors.ErrFailedPrecondition{Message: "client not started"}
	}

	c.ctxCancel()
	<-c.done
	return nil
}

func (c *Client) connOpen() error {
	// add default port
	host := c.u.Host
	if c.u.Port() == "" {
		host = net.JoinHostPort(c.u.Hostname(), "554")
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.ReadTimeout)
	defer cancel()

	var nconn net.Conn
	var err error

	switch c.Tunnel {
	case TunnelHTTP:
		nconn, err = newClientTunnelHTTP(ctx, c.DialContext, host)

	case TunnelWebSocket:
		nconn, err = newClientTunnelWebSocket(ctx, c.DialContext, host)

	default:
		nconn, err = c.DialContext(ctx, "tcp", host)
	}
	if err != nil {
		return liberrors.ErrConnect{Err: err}
	}

	cctx := base.ConnectionContext{
		LocalAddr:   nconn.LocalAddr(),
		PeerAddr:    nconn.RemoteAddr(),
		Established: time.Now(),
	}

	c.nconn = nconn
	c.bc = bytecounter.New(c.nconn)
	c.conn = conn.NewConn(c.bc, cctx)

	c.connCloserStart()
	return nil
}

func (c *Client) connCloserStart() {
	c.connCloserTerminate = make(chan struct{})
	c.connCloserDone = make(chan struct{})

	go func() {
		defer close(c.connCloserDone)

		select {
		case <-c.ctx.Done():
			c.nconn.Close()

		case <-c.connCloserTerminate:
		}
	}()
}

func (c *Client) connCloserStop() {
	close(c.connCloserTerminate)
	<-c.connCloserDone
	c.connCloserDone = nil
}

func (c *Client) run() {
	defer close(c.done)

	c.runInner()

	c.ctxCancel()

	c.connCloserStop()
	c.nconn.Close()
}

func (c *Client) runInner() {
	for {
		select {
		case req := <-c.chDo:
			mctx, cseq, res, err := c.do(req.req)
			req.res <- doRes{mctx: mctx, cseq: cseq, res: res, err: err}

		case <-c.ctx.Done():
			return
		}
	}
}

// do performs a request/response exchange: it stamps the request with the
// next CSeq, sends it, waits for the matching response, and retries once
// when the server answers with an authentication challenge.
func (c *Client) do(req *base.Request) (base.MessageContext, uint32, *base.Response, error) {
	if req.Header == nil {
		req.Header = make(base.Header)
	}

	for {
		c.cseq++
		cseq := c.cseq
		req.Header["CSeq"] = base.HeaderValue{strconv.FormatUint(uint64(cseq), 10)}
		req.Header["User-Agent"] = base.HeaderValue{c.UserAgent}

		if c.sender != nil {
			c.sender.AddAuthorization(req)
		}

		c.OnRequest(req)

		c.nconn.SetWriteDeadline(time.Now().Add(c.WriteTimeout))
		err := c.conn.WriteRequest(req)
		if err != nil {
			return base.MessageContext{}, 0, nil, err
		}

		res, mctx, err := c.waitResponse(cseq)
		if err != nil {
			return base.MessageContext{}, 0, nil, err
		}

		c.OnResponse(res)

		newErr := func(description string) error {
			return liberrors.ErrResponse{
				ConnCtx:     c.conn.Context(),
				MsgCtx:      mctx,
				Method:      req.Method,
				CSeq:        cseq,
				Status:      res.StatusCode,
				Description: description,
			}
		}

		if res.StatusCode == base.StatusUnauthorized {
			if c.sender != nil {
				return base.MessageContext{}, 0, nil,
					newErr("received Unauthorized after trying digest auth")
			}

			challenge, ok := res.Header["WWW-Authenticate"]
			if !ok {
				return base.MessageContext{}, 0, nil,
					newErr("Unauthorized without WWW-Authenticate header")
			}

			if c.Credentials == nil {
				return base.MessageContext{}, 0, nil,
					newErr("authentication requested and no credentials supplied")
			}

			sender, err := auth.NewSender(challenge, c.Credentials.User, c.Credentials.Pass)
			if err != nil {
				return base.MessageContext{}, 0, nil,
					newErr(fmt.Sprintf("can't understand WWW-Authenticate header: %v", err))
			}
			c.sender = sender

			// the one permitted retry, with a fresh CSeq.
			continue
		}

		if res.StatusCode < base.StatusOK || res.StatusCode >= base.StatusMultipleChoices {
			return base.MessageContext{}, 0, nil, newErr("unexpected response status")
		}

		return mctx, cseq, res, nil
	}
}

// waitResponse reads incoming messages until a response with the given CSeq
// arrives. Everything else is noise: interleaved frames are handed to
// OnDataFrame, requests and responses with an absent, unparsable or
// different CSeq are discarded.
func (c *Client) waitResponse(cseq uint32) (*base.Response, base.MessageContext, error) {
	for {
		c.nconn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
		m, err := c.conn.ReadMessage()
		if err != nil {
			return nil, base.MessageContext{}, err
		}

		switch msg := m.Msg.(type) {
		case *base.Response:
			if rcseq, ok := getCSeq(msg); ok && rcseq == cseq {
				return msg, m.Ctx, nil
			}

		case *base.InterleavedFrame:
			c.OnDataFrame(msg)
		}
	}
}

// Do writes a request, waits for the matching response and returns it
// together with its message context and the CSeq the request was stamped
// with. When the server answers with an authentication challenge, the
// request is retried once with an Authorization header computed from
// Credentials.
func (c *Client) Do(req *base.Request) (base.MessageContext, uint32, *base.Response, error) {
	if c.ctx == nil {
		return base.MessageContext{}, 0, nil,
			liberrors.ErrFailedPrecondition{Message: "client not started"}
	}

	cres := make(chan doRes)
	select {
	case c.chDo <- doReq{req: req, res: cres}:
		res := <-cres
		return res.mctx, res.cseq, res.res, res.err

	case <-c.ctx.Done():
		return base.MessageContext{}, 0, nil,
			liberrors.ErrFailedPrecondition{Message: "terminated"}
	}
}

// Options writes an OPTIONS request and reads a response.
// When u is nil, the request is sent with the '*' URL, probing the server
// without referencing any resource.
func (c *Client) Options(u *base.URL) (*base.Response, error) {
	_, _, res, err := c.Do(&base.Request{
		Method: base.Options,
		URL:    u,
	})
	return res, err
}

// Describe writes a DESCRIBE request, reads a response and parses its body
// as a SDP session description.
func (c *Client) Describe(u *base.URL) (*sdp.SessionDescription, *base.Response, error) {
	_, _, res, err := c.Do(&base.Request{
		Method: base.Describe,
		URL:    u,
		Header: base.Header{
			"Accept": base.HeaderValue{"application/sdp"},
		},
	})
	if err != nil {
		return nil, nil, err
	}

	ct, ok := res.Header["Content-Type"]
	if !ok || len(ct) != 1 {
		return nil, nil, liberrors.ErrInternal{Err: fmt.Errorf("Content-Type header is missing")}
	}

	// strip encoding information from Content-Type header
	if mediaType := strings.Split(ct[0], ";")[0]; mediaType != "application/sdp" {
		return nil, nil, liberrors.ErrInternal{Err: fmt.Errorf("unsupported Content-Type '%s'", mediaType)}
	}

	var sd sdp.SessionDescription
	err = sd.Unmarshal(res.Body)
	if err != nil {
		return nil, nil, liberrors.ErrInternal{Err: err}
	}

	return &sd, res, nil
}

// Stats returns client statistics.
func (c *Client) Stats() *ClientStats {
	if c.bc == nil {
		return &ClientStats{}
	}

	return &ClientStats{
		BytesReceived: c.bc.BytesReceived(),
		BytesSent:     c.bc.BytesSent(),
	}
}
