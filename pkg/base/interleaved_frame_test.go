package base

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var casesInterleavedFrame = []struct {
	name string
	enc  []byte
	dec  InterleavedFrame
}{
	{
		"rtp",
		[]byte{0x24, 0x6, 0x0, 0x4, 0x1, 0x2, 0x3, 0x4},
		InterleavedFrame{
			Channel: 6,
			Payload: []byte{0x01, 0x02, 0x03, 0x04},
		},
	},
	{
		"rtcp",
		[]byte{0x24, 0xd, 0x0, 0x4, 0x5, 0x6, 0x7, 0x8},
		InterleavedFrame{
			Channel: 13,
			Payload: []byte{0x05, 0x06, 0x07, 0x08},
		},
	},
	{
		"empty payload",
		[]byte{0x24, 0x2, 0x0, 0x0},
		InterleavedFrame{
			Channel: 2,
			Payload: []byte{},
		},
	},
}

func TestInterleavedFrameUnmarshal(t *testing.T) {
	// keep f global to make sure that all its fields are overridden.
	var f InterleavedFrame

	for _, ca := range casesInterleavedFrame {
		t.Run(ca.name, func(t *testing.T) {
			n, err := f.Unmarshal(ca.enc)
			require.NoError(t, err)
			require.Equal(t, len(ca.enc), n)
			require.Equal(t, ca.dec, f)
		})
	}
}

func TestInterleavedFrameUnmarshalIncomplete(t *testing.T) {
	for _, ca := range []struct {
		name string
		byts []byte
	}{
		{
			"empty",
			[]byte{},
		},
		{
			"partial header",
			[]byte{0x24, 0x02, 0x00},
		},
		{
			"partial payload",
			[]byte{0x24, 0x00, 0x00, 0x05, 0x01, 0x02},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var f InterleavedFrame
			n, err := f.Unmarshal(ca.byts)
			require.ErrorIs(t, err, ErrNeedMoreData)
			require.Equal(t, 0, n)
		})
	}
}

func TestInterleavedFrameUnmarshalErrors(t *testing.T) {
	var f InterleavedFrame
	_, err := f.Unmarshal([]byte{0x55, 0x00, 0x00, 0x00})
	require.EqualError(t, err, "invalid magic byte (0x55)")
}

func TestInterleavedFrameMarshal(t *testing.T) {
	for _, ca := range casesInterleavedFrame {
		t.Run(ca.name, func(t *testing.T) {
			buf, err := ca.dec.Marshal()
			require.NoError(t, err)
			require.Equal(t, ca.enc, buf)
		})
	}
}

func TestInterleavedFrameRoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 255, 256, 65534, 65535} {
		payload := bytes.Repeat([]byte{0xfe}, size)

		buf, err := InterleavedFrame{
			Channel: 6,
			Payload: payload,
		}.Marshal()
		require.NoError(t, err)
		require.Equal(t, 4+size, len(buf))

		var f InterleavedFrame
		n, err := f.Unmarshal(buf)
		require.NoError(t, err)
		require.Equal(t, 4+size, n)
		require.Equal(t, 6, f.Channel)
		require.Equal(t, payload, f.Payload)
	}
}
