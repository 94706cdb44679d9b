// Package headers contains the typed RTSP headers used by the library.
package headers

import (
	"fmt"
	"strings"

	"github.com/zrus/rtspconn/pkg/base"
)

// AuthMethod is an authentication method.
type AuthMethod int

const (
	// AuthBasic is the Basic authentication method
	AuthBasic AuthMethod = iota

	// AuthDigestMD5 is the Digest authentication method with the MD5 hash
	AuthDigestMD5

	// AuthDigestSHA256 is the Digest authentication method with the SHA-256 hash
	AuthDigestSHA256
)

func algorithmToMethod(v *string) (AuthMethod, error) {
	switch {
	case v == nil, strings.ToLower(*v) == "md5":
		return AuthDigestMD5, nil

	case strings.ToLower(*v) == "sha-256":
		return AuthDigestSHA256, nil

	default:
		return 0, fmt.Errorf("unrecognized algorithm: %v", *v)
	}
}

// Authenticate is a WWW-Authenticate header.
type Authenticate struct {
	// authentication method
	Method AuthMethod

	// realm
	Realm string

	//
	// Digest authentication fields
	//

	// nonce
	Nonce string

	// opaque
	Opaque *string

	// stale
	Stale *string
}

// Unmarshal decodes a WWW-Authenticate header.
func (h *Authenticate) Unmarshal(v base.HeaderValue) error {
	if len(v) == 0 {
		return fmt.Errorf("value not provided")
	}

	if len(v) > 1 {
		return fmt.Errorf("value provided multiple times (%v)", v)
	}

	method, params, ok := strings.Cut(v[0], " ")
	if !ok {
		return fmt.Errorf("unable to split between method and keys (%v)", v[0])
	}

	switch method {
	case "Basic":
		h.Method = AuthBasic
		return h.unmarshalBasic(params)

	case "Digest":
		return h.unmarshalDigest(params)
	}

	return fmt.Errorf("invalid method (%s)", method)
}

func (h *Authenticate) unmarshalBasic(params string) error {
	kvs, err := keyValParse(params, ',')
	if err != nil {
		return err
	}

	realm, ok := kvs["realm"]
	if !ok {
		return fmt.Errorf("realm is missing")
	}
	h.Realm = realm

	return nil
}

func (h *Authenticate) unmarshalDigest(params string) error {
	kvs, err := keyValParse(params, ',')
	if err != nil {
		return err
	}

	realmReceived := false
	nonceReceived := false
	var algorithm *string

	for k, rv := range kvs {
		v := rv

		switch k {
		case "realm":
			h.Realm = v
			realmReceived = true

		case "nonce":
			h.Nonce = v
			nonceReceived = true

		case "opaque":
			h.Opaque = &v

		case "stale":
			h.Stale = &v

		case "algorithm":
			algorithm = &v
		}
	}

	if !realmReceived || !nonceReceived {
		return fmt.Errorf("one or more digest fields are missing")
	}

	h.Method, err = algorithmToMethod(algorithm)
	return err
}

// Marshal encodes a WWW-Authenticate header.
func (h Authenticate) Marshal() base.HeaderValue {
	if h.Method == AuthBasic {
		return base.HeaderValue{"Basic " +
			"realm=\"" + h.Realm + "\""}
	}

	ret := "Digest realm=\"" + h.Realm + "\", nonce=\"" + h.Nonce + "\""

	if h.Opaque != nil {
		ret += ", opaque=\"" + *h.Opaque + "\""
	}

	if h.Stale != nil {
		ret += ", stale=\"" + *h.Stale + "\""
	}

	if h.Method == AuthDigestMD5 {
		ret += ", algorithm=\"MD5\""
	} else {
		ret += ", algorithm=\"SHA-256\""
	}

	return base.HeaderValue{ret}
}
