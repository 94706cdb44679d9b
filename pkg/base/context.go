package base

import (
	"fmt"
	"net"
	"time"
)

// ConnectionContext describes a connection.
// It is captured once, when the connection is established, and copied into
// errors that reference the connection.
type ConnectionContext struct {
	// local address of the connection
	LocalAddr net.Addr

	// remote address of the connection
	PeerAddr net.Addr

	// time at which the connection was established
	Established time.Time
}

// String implements fmt.Stringer.
func (cc ConnectionContext) String() string {
	return fmt.Sprintf("%v(me)->%v@%v",
		cc.LocalAddr, cc.PeerAddr, cc.Established.Format(time.RFC3339))
}

// MessageContext describes a single message received on a connection.
type MessageContext struct {
	// byte offset of the first byte of the message within the inbound
	// stream of the connection
	Pos uint64

	// time at which the message was received
	Received time.Time
}

// String implements fmt.Stringer.
func (mc MessageContext) String() string {
	return fmt.Sprintf("%d@%v", mc.Pos, mc.Received.Format(time.RFC3339))
}
