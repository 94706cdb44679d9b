// Package base64streamreader contains a reader that decodes a stream of
// base64 chunks.
package base64streamreader

import (
	"bytes"
	"encoding/base64"
	"io"
)

const readSize = 1024

// decodableSpan returns the longest prefix of enc that can be decoded on
// its own: whole 4-byte groups, cut right after any padding.
func decodableSpan(enc []byte) []byte {
	span := enc[:(len(enc)/4)*4]

	if i := bytes.IndexByte(span, '='); i >= 0 {
		if len(span) > (i+1) && span[i+1] == '=' {
			i++
		}
		span = span[:i+1]
	}

	return span
}

// Reader decodes a byte stream made of concatenated base64 chunks, each
// independently padded, like the upstream direction of a RTSP-over-HTTP
// tunnel.
type Reader struct {
	r   io.Reader
	enc []byte
	dec []byte
}

// New allocates a Reader.
func New(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.dec) == 0 {
		span := decodableSpan(r.enc)

		if len(span) == 0 {
			buf := make([]byte, readSize)
			n, err := r.r.Read(buf)
			if err != nil && n == 0 {
				return 0, err
			}

			r.enc = append(r.enc, buf[:n]...)
			continue
		}

		out, err := base64.StdEncoding.DecodeString(string(span))
		if err != nil {
			return 0, err
		}

		r.enc = r.enc[len(span):]
		r.dec = append(r.dec, out...)
	}

	n := copy(p, r.dec)
	r.dec = r.dec[n:]

	return n, nil
}
