// Package base contains the primitives of the RTSP protocol.
package base

import (
	"fmt"
	"strconv"
)

const (
	rtspProtocol10           = "RTSP/1.0"
	requestMaxMethodLength   = 64
	requestMaxURLLength      = 2048
	requestMaxProtocolLength = 64
)

// Method is the method of a RTSP request.
type Method string

// methods.
const (
	Announce     Method = "ANNOUNCE"
	Describe     Method = "DESCRIBE"
	GetParameter Method = "GET_PARAMETER"
	Options      Method = "OPTIONS"
	Pause        Method = "PAUSE"
	Play         Method = "PLAY"
	Record       Method = "RECORD"
	Setup        Method = "SETUP"
	SetParameter Method = "SET_PARAMETER"
	Teardown     Method = "TEARDOWN"
)

// Request is a RTSP request.
type Request struct {
	// request method
	Method Method

	// request url
	URL *URL

	// map of header values
	Header Header

	// optional body
	Body []byte
}

// Unmarshal reads a request from the beginning of buf, returning the number
// of consumed bytes. It returns ErrNeedMoreData when buf does not contain a
// complete request yet; in that case nothing is consumed.
func (req *Request) Unmarshal(buf []byte) (int, error) {
	pos := 0

	byts, err := readBytesLimited(buf[pos:], ' ', requestMaxMethodLength)
	if err != nil {
		return 0, err
	}
	req.Method = Method(byts[:len(byts)-1])
	pos += len(byts)

	if req.Method == "" {
		return 0, fmt.Errorf("empty method")
	}

	byts, err = readBytesLimited(buf[pos:], ' ', requestMaxURLLength)
	if err != nil {
		return 0, err
	}
	rawURL := string(byts[:len(byts)-1])
	pos += len(byts)

	if rawURL == "*" {
		// aggregate request URI, used by OPTIONS.
		req.URL = nil
	} else {
		ur, err2 := ParseURL(rawURL)
		if err2 != nil {
			return 0, fmt.Errorf("invalid URL (%v)", rawURL)
		}
		req.URL = ur
	}

	byts, err = readBytesLimited(buf[pos:], '\r', requestMaxProtocolLength)
	if err != nil {
		return 0, err
	}
	proto := string(byts[:len(byts)-1])
	pos += len(byts)

	if proto != rtspProtocol10 {
		return 0, fmt.Errorf("expected '%s', got '%s'", rtspProtocol10, proto)
	}

	n, err := readByteEqual(buf[pos:], '\n')
	if err != nil {
		return 0, err
	}
	pos += n

	n, err = req.Header.unmarshal(buf[pos:])
	if err != nil {
		return 0, err
	}
	pos += n

	n, err = (*body)(&req.Body).unmarshal(req.Header, buf[pos:])
	if err != nil {
		return 0, err
	}
	pos += n

	return pos, nil
}

func (req Request) urlString() string {
	if req.URL == nil {
		return "*"
	}
	return req.URL.CloneWithoutCredentials().String()
}

// MarshalSize returns the size of a Request.
func (req Request) MarshalSize() int {
	n := 0

	urStr := req.urlString()
	n += len(string(req.Method) + " " + urStr + " " + rtspProtocol10 + "\r\n")

	if len(req.Body) != 0 {
		req.Header["Content-Length"] = HeaderValue{strconv.FormatInt(int64(len(req.Body)), 10)}
	}

	n += req.Header.marshalSize()

	n += body(req.Body).marshalSize()

	return n
}

// MarshalTo writes a Request.
func (req Request) MarshalTo(buf []byte) (int, error) {
	pos := 0

	urStr := req.urlString()
	pos += copy(buf[pos:], string(req.Method)+" "+urStr+" "+rtspProtocol10+"\r\n")

	if len(req.Body) != 0 {
		req.Header["Content-Length"] = HeaderValue{strconv.FormatInt(int64(len(req.Body)), 10)}
	}

	pos += req.Header.marshalTo(buf[pos:])

	pos += body(req.Body).marshalTo(buf[pos:])

	return pos, nil
}

// Marshal writes a Request.
func (req Request) Marshal() ([]byte, error) {
	buf := make([]byte, req.MarshalSize())
	_, err := req.MarshalTo(buf)
	return buf, err
}

// String implements fmt.Stringer.
func (req Request) String() string {
	buf, _ := req.Marshal()
	return string(buf)
}
