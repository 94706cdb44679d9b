package auth

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zrus/rtspconn/pkg/base"
	"github.com/zrus/rtspconn/pkg/headers"
)

func md5Hex(in string) string {
	h := md5.New()
	h.Write([]byte(in))
	return hex.EncodeToString(h.Sum(nil))
}

func sha256Hex(in string) string {
	h := sha256.New()
	h.Write([]byte(in))
	return hex.EncodeToString(h.Sum(nil))
}

func contains(list []VerifyMethod, item VerifyMethod) bool {
	for _, i := range list {
		if i == item {
			return true
		}
	}
	return false
}

// VerifyMethod is a method that can be used to verify credentials.
type VerifyMethod int

// verify methods.
const (
	VerifyMethodBasic VerifyMethod = iota
	VerifyMethodDigestMD5
	VerifyMethodDigestSHA256
)

// GenerateWWWAuthenticate generates a WWW-Authenticate header.
func GenerateWWWAuthenticate(methods []VerifyMethod, realm string, nonce string) base.HeaderValue {
	if methods == nil {
		// disable SHA-256 unless explicitly set,
		// since it prevents FFmpeg from authenticating
		methods = []VerifyMethod{VerifyMethodBasic, VerifyMethodDigestMD5}
	}

	var ret base.HeaderValue

	for _, m := range methods {
		switch m {
		case VerifyMethodBasic:
			ret = append(ret, headers.Authenticate{
				Method: headers.AuthBasic,
				Realm:  realm,
			}.Marshal()...)

		case VerifyMethodDigestMD5:
			ret = append(ret, headers.Authenticate{
				Method: headers.AuthDigestMD5,
				Realm:  realm,
				Nonce:  nonce,
			}.Marshal()...)

		default: // digest SHA-256
			ret = append(ret, headers.Authenticate{
				Method: headers.AuthDigestSHA256,
				Realm:  realm,
				Nonce:  nonce,
			}.Marshal()...)
		}
	}

	return ret
}

// Verify verifies a request sent by a client.
func Verify(
	req *base.Request,
	user string,
	pass string,
	methods []VerifyMethod,
	realm string,
	nonce string,
) error {
	if methods == nil {
		methods = []VerifyMethod{VerifyMethodBasic, VerifyMethodDigestMD5}
	}

	var auth headers.Authorization
	err := auth.Unmarshal(req.Header["Authorization"])
	if err != nil {
		return err
	}

	switch {
	case auth.Method == headers.AuthDigestMD5 && contains(methods, VerifyMethodDigestMD5),
		auth.Method == headers.AuthDigestSHA256 && contains(methods, VerifyMethodDigestSHA256):
		if auth.Nonce != nonce {
			return fmt.Errorf("wrong nonce")
		}

		if auth.Realm != realm {
			return fmt.Errorf("wrong realm")
		}

		if auth.Username != user {
			return fmt.Errorf("authentication failed")
		}

		if auth.URI != req.URL.String() {
			return fmt.Errorf("wrong URL")
		}

		hashFn := md5Hex
		if auth.Method == headers.AuthDigestSHA256 {
			hashFn = sha256Hex
		}

		response := hashFn(hashFn(user+":"+realm+":"+pass) + ":" +
			nonce + ":" + hashFn(string(req.Method)+":"+auth.URI))

		if auth.Response != response {
			return fmt.Errorf("authentication failed")
		}

	case auth.Method == headers.AuthBasic && contains(methods, VerifyMethodBasic):
		if auth.BasicUser != user {
			return fmt.Errorf("authentication failed")
		}

		if auth.BasicPass != pass {
			return fmt.Errorf("authentication failed")
		}

	default:
		return fmt.Errorf("no supported authentication methods found")
	}

	return nil
}
