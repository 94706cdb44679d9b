package base

import (
	"fmt"
)

func readByteEqual(buf []byte, cmp byte) (int, error) {
	if len(buf) < 1 {
		return 0, ErrNeedMoreData
	}

	if buf[0] != cmp {
		return 0, fmt.Errorf("expected '%c', got '%c'", cmp, buf[0])
	}

	return 1, nil
}

// readBytesLimited returns the prefix of buf up to and including the first
// occurrence of delim, scanning at most n bytes.
func readBytesLimited(buf []byte, delim byte, n int) ([]byte, error) {
	max := n
	if len(buf) < max {
		max = len(buf)
	}

	for i := 0; i < max; i++ {
		if buf[i] == delim {
			return buf[:i+1], nil
		}
	}

	if len(buf) < n {
		return nil, ErrNeedMoreData
	}
	return nil, fmt.Errorf("buffer length exceeds %d", n)
}
