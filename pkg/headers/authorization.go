package headers

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/zrus/rtspconn/pkg/base"
)

// Authorization is an Authorization header.
type Authorization struct {
	// authentication method
	Method AuthMethod

	//
	// Basic authentication fields
	//

	// user
	BasicUser string

	// password
	BasicPass string

	//
	// Digest authentication fields
	//

	// username
	Username string

	// realm
	Realm string

	// nonce
	Nonce string

	// URI
	URI string

	// response
	Response string

	// opaque
	Opaque *string
}

// Unmarshal decodes an Authorization header.
func (h *Authorization) Unmarshal(v base.HeaderValue) error {
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

func (h *Authorization) unmarshalBasic(params string) error {
	tmp, err := base64.StdEncoding.DecodeString(params)
	if err != nil {
		return fmt.Errorf("invalid value")
	}

	tmp2 := strings.Split(string(tmp), ":")
	if len(tmp2) != 2 {
		return fmt.Errorf("invalid value")
	}

	h.BasicUser, h.BasicPass = tmp2[0], tmp2[1]
	return nil
}

func (h *Authorization) unmarshalDigest(params string) error {
	kvs, err := keyValParse(params, ',')
	if err != nil {
		return err
	}

	realmReceived := false
	usernameReceived := false
	nonceReceived := false
	uriReceived := false
	responseReceived := false
	var algorithm *string

	for k, rv := range kvs {
		v := rv

		switch k {
		case "username":
			h.Username = v
			usernameReceived = true

		case "realm":
			h.Realm = v
			realmReceived = true

		case "nonce":
			h.Nonce = v
			nonceReceived = true

		case "uri":
			h.URI = v
			uriReceived = true

		case "response":
			h.Response = v
			responseReceived = true

		case "opaque":
			h.Opaque = &v

		case "algorithm":
			algorithm = &v
		}
	}

	if !realmReceived || !usernameReceived || !nonceReceived || !uriReceived || !responseReceived {
		return fmt.Errorf("one or more digest fields are missing")
	}

	h.Method, err = algorithmToMethod(algorithm)
	return err
}

// Marshal encodes an Authorization header.
func (h Authorization) Marshal() base.HeaderValue {
	if h.Method == AuthBasic {
		return base.HeaderValue{"Basic " +
			base64.StdEncoding.EncodeToString([]byte(h.BasicUser+":"+h.BasicPass))}
	}

	ret := "Digest " +
		"username=\"" + h.Username + "\", realm=\"" + h.Realm + "\", " +
		"nonce=\"" + h.Nonce + "\", uri=\"" + h.URI + "\", response=\"" + h.Response + "\""

	if h.Opaque != nil {
		ret += ", opaque=\"" + *h.Opaque + "\""
	}

	if h.Method == AuthDigestMD5 {
		ret += ", algorithm=\"MD5\""
	} else {
		ret += ", algorithm=\"SHA-256\""
	}

	return base.HeaderValue{ret}
}
