package base

import (
	"fmt"
	"strconv"
)

const rtspMaxContentLength = 4096

type body []byte

func (b *body) unmarshal(header Header, buf []byte) (int, error) {
	cls, ok := header["Content-Length"]
	if !ok || len(cls) != 1 {
		*b = nil
		return 0, nil
	}

	cl, err := strconv.ParseInt(cls[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid Content-Length")
	}

	if cl > rtspMaxContentLength {
		return 0, fmt.Errorf("Content-Length exceeds %d (it's %d)",
			rtspMaxContentLength, cl)
	}

	if int64(len(buf)) < cl {
		return 0, ErrNeedMoreData
	}

	// the body is a sub-slice of buf; whoever owns buf is in charge of
	// copying it before the buffer is reused
	*b = buf[:cl]

	return int(cl), nil
}

func (b body) marshalSize() int {
	return len(b)
}

func (b body) marshalTo(buf []byte) int {
	return copy(buf, b)
}
