package base

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	headerMaxEntryCount  = 255
	headerMaxKeyLength   = 512
	headerMaxValueLength = 2048
)

func headerKeyNormalize(in string) string {
	switch strings.ToLower(in) {
	case "rtp-info":
		return "RTP-Info"

	case "www-authenticate":
		return "WWW-Authenticate"

	case "cseq":
		return "CSeq"
	}
	return http.CanonicalHeaderKey(in)
}

// HeaderValue is an header value.
type HeaderValue []string

// Header is a RTSP header, present in both Requests and Responses.
type Header map[string]HeaderValue

func (h *Header) unmarshal(buf []byte) (int, error) {
	*h = make(Header)
	pos := 0

	for {
		if pos >= len(buf) {
			return 0, ErrNeedMoreData
		}

		if buf[pos] == '\r' {
			pos++

			n, err := readByteEqual(buf[pos:], '\n')
			if err != nil {
				return 0, err
			}
			pos += n

			break
		}

		if len(*h) >= headerMaxEntryCount {
			return 0, fmt.Errorf("headers count exceeds %d (it's %d)",
				headerMaxEntryCount, len(*h))
		}

		byts, err := readBytesLimited(buf[pos:], ':', headerMaxKeyLength)
		if err != nil {
			return 0, err
		}
		key := headerKeyNormalize(string(byts[:len(byts)-1]))
		pos += len(byts)

		// https://tools.ietf.org/html/rfc2616
		// The field value MAY be preceded by any amount of spaces
		for {
			if pos >= len(buf) {
				return 0, ErrNeedMoreData
			}
			if buf[pos] != ' ' {
				break
			}
			pos++
		}

		byts, err = readBytesLimited(buf[pos:], '\r', headerMaxValueLength)
		if err != nil {
			return 0, err
		}
		val := string(byts[:len(byts)-1])
		pos += len(byts)

		if len(val) == 0 {
			return 0, fmt.Errorf("empty header value")
		}

		n, err := readByteEqual(buf[pos:], '\n')
		if err != nil {
			return 0, err
		}
		pos += n

		(*h)[key] = append((*h)[key], val)
	}

	return pos, nil
}

func (h Header) marshalSize() int {
	n := 0

	for key, vals := range h {
		for _, val := range vals {
			n += len(key + ": " + val + "\r\n")
		}
	}

	n += len("\r\n")

	return n
}

func (h Header) marshalTo(buf []byte) int {
	// sort headers by key
	// in order to obtain deterministic results
	var keys []string
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pos := 0

	for _, key := range keys {
		for _, val := range h[key] {
			pos += copy(buf[pos:], key+": "+val+"\r\n")
		}
	}

	pos += copy(buf[pos:], "\r\n")

	return pos
}
