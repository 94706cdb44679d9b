// Package auth contains utilities to perform RTSP authentication.
package auth

import (
	"fmt"

	"github.com/zrus/rtspconn/pkg/base"
	"github.com/zrus/rtspconn/pkg/headers"
)

// Sender computes the Authorization header of outgoing requests.
// It requires a WWW-Authenticate header (provided by the server)
// and a set of credentials.
type Sender struct {
	user       string
	pass       string
	authHeader *headers.Authenticate
}

// NewSender allocates a Sender.
// Among the challenges offered by the server, it picks the strongest
// supported one (Digest SHA-256, then Digest MD5, then Basic).
func NewSender(vals base.HeaderValue, user string, pass string) (*Sender, error) {
	se := &Sender{
		user: user,
		pass: pass,
	}

	for _, v := range vals {
		var auth headers.Authenticate
		err := auth.Unmarshal(base.HeaderValue{v})
		if err != nil {
			continue // ignore unrecognized headers
		}

		if se.authHeader == nil ||
			auth.Method == headers.AuthDigestSHA256 ||
			(auth.Method == headers.AuthDigestMD5 && se.authHeader.Method == headers.AuthBasic) {
			se.authHeader = &auth
		}
	}

	if se.authHeader == nil {
		return nil, fmt.Errorf("no authentication methods available")
	}

	return se, nil
}

// AddAuthorization adds the Authorization header to a request.
func (se *Sender) AddAuthorization(req *base.Request) {
	urStr := "*"
	if req.URL != nil {
		urStr = req.URL.CloneWithoutCredentials().String()
	}

	h := headers.Authorization{
		Method: se.authHeader.Method,
	}

	switch se.authHeader.Method {
	case headers.AuthBasic:
		h.BasicUser = se.user
		h.BasicPass = se.pass

	case headers.AuthDigestMD5:
		h.Username = se.user
		h.Realm = se.authHeader.Realm
		h.Nonce = se.authHeader.Nonce
		h.URI = urStr
		h.Response = md5Hex(md5Hex(se.user+":"+se.authHeader.Realm+":"+se.pass) + ":" +
			se.authHeader.Nonce + ":" + md5Hex(string(req.Method)+":"+urStr))

	default: // digest SHA-256
		h.Username = se.user
		h.Realm = se.authHeader.Realm
		h.Nonce = se.authHeader.Nonce
		h.URI = urStr
		h.Response = sha256Hex(sha256Hex(se.user+":"+se.authHeader.Realm+":"+se.pass) + ":" +
			se.authHeader.Nonce + ":" + sha256Hex(string(req.Method)+":"+urStr))
	}

	if req.Header == nil {
		req.Header = make(base.Header)
	}

	req.Header["Authorization"] = h.Marshal()
}
