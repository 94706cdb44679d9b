package base

import (
	"fmt"
)

const (
	// InterleavedFrameMagicByte is the first byte of an interleaved frame.
	InterleavedFrameMagicByte = 0x24
)

// InterleavedFrame is an interleaved frame, and allows to transfer binary data
// within RTSP/TCP connections. It is used to send and receive RTP and RTCP packets with TCP.
type InterleavedFrame struct {
	// channel ID
	Channel int

	// payload
	Payload []byte
}

// Unmarshal reads an interleaved frame from the beginning of buf, returning
// the number of consumed bytes. It returns ErrNeedMoreData when buf does not
// contain a complete frame yet; in that case nothing is consumed.
func (f *InterleavedFrame) Unmarshal(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, ErrNeedMoreData
	}

	if buf[0] != InterleavedFrameMagicByte {
		return 0, fmt.Errorf("invalid magic byte (0x%.2x)", buf[0])
	}

	// it's useless to validate payloadLen since it's limited to 65535
	payloadLen := int(uint16(buf[2])<<8 | uint16(buf[3]))

	if len(buf) < 4+payloadLen {
		return 0, ErrNeedMoreData
	}

	f.Channel = int(buf[1])
	f.Payload = buf[4 : 4+payloadLen]

	return 4 + payloadLen, nil
}

// MarshalSize returns the size of an InterleavedFrame.
func (f InterleavedFrame) MarshalSize() int {
	return 4 + len(f.Payload)
}

// MarshalTo writes an InterleavedFrame.
func (f InterleavedFrame) MarshalTo(buf []byte) (int, error) {
	pos := 0

	pos += copy(buf[pos:], []byte{InterleavedFrameMagicByte, byte(f.Channel)})

	payloadLen := len(f.Payload)
	buf[pos] = byte(payloadLen >> 8)
	buf[pos+1] = byte(payloadLen)
	pos += 2

	pos += copy(buf[pos:], f.Payload)

	return pos, nil
}

// Marshal writes an InterleavedFrame.
func (f InterleavedFrame) Marshal() ([]byte, error) {
	buf := make([]byte, f.MarshalSize())
	_, err := f.MarshalTo(buf)
	return buf, err
}
