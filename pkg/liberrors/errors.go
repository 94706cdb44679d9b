// Package liberrors contains errors shared throughout the library.
package liberrors

import (
	"fmt"

	"github.com/zrus/rtspconn/pkg/base"
)

// ErrInvalidArgument is returned when an input of the caller is invalid.
type ErrInvalidArgument struct {
	Message string
}

// Error implements the error interface.
func (e ErrInvalidArgument) Error() string {
	return "invalid argument: " + e.Message
}

// ErrFraming is returned when the inbound byte stream cannot be parsed
// into RTSP messages.
type ErrFraming struct {
	ConnCtx     base.ConnectionContext
	MsgCtx      base.MessageContext
	Description string
}

// Error implements the error interface.
func (e ErrFraming) Error() string {
	return fmt.Sprintf("[%v, %v] RTSP framing error: %s",
		e.ConnCtx, e.MsgCtx, e.Description)
}

// ErrResponse is returned when a request/response exchange fails at the
// protocol level.
type ErrResponse struct {
	ConnCtx     base.ConnectionContext
	MsgCtx      base.MessageContext
	Method      base.Method
	CSeq        uint32
	Status      base.StatusCode
	Description string
}

// Error implements the error interface.
func (e ErrResponse) Error() string {
	return fmt.Sprintf("[%v, %v] RTSP response error: %s (method %s, CSeq %d, status %d)",
		e.ConnCtx, e.MsgCtx, e.Description, e.Method, e.CSeq, e.Status)
}

// ErrUnassignedChannel is returned when an interleaved frame arrives on a
// channel that no reader is registered for.
type ErrUnassignedChannel struct {
	ConnCtx base.ConnectionContext
	MsgCtx  base.MessageContext
	Channel int
}

// Error implements the error interface.
func (e ErrUnassignedChannel) Error() string {
	return fmt.Sprintf("[%v, %v] RTSP data frame on unassigned channel %d",
		e.ConnCtx, e.MsgCtx, e.Channel)
}

// ErrConnect is returned when the connection to the server cannot be
// established.
type ErrConnect struct {
	Err error
}

// Error implements the error interface.
func (e ErrConnect) Error() string {
	return fmt.Sprintf("unable to connect: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e ErrConnect) Unwrap() error {
	return e.Err
}

// ErrRead is returned when reading from the connection fails at the
// transport level.
type ErrRead struct {
	ConnCtx base.ConnectionContext
	MsgCtx  base.MessageContext
	Err     error
}

// Error implements the error interface.
func (e ErrRead) Error() string {
	return fmt.Sprintf("[%v, %v] read error: %v", e.ConnCtx, e.MsgCtx, e.Err)
}

// Unwrap returns the underlying error.
func (e ErrRead) Unwrap() error {
	return e.Err
}

// ErrWrite is returned when writing to the connection fails at the
// transport level.
type ErrWrite struct {
	ConnCtx base.ConnectionContext
	Err     error
}

// Error implements the error interface.
func (e ErrWrite) Error() string {
	return fmt.Sprintf("[%v] write error: %v", e.ConnCtx, e.Err)
}

// Unwrap returns the underlying error.
func (e ErrWrite) Unwrap() error {
	return e.Err
}

// ErrFailedPrecondition is returned when an operation is attempted in a
// state that does not allow it.
type ErrFailedPrecondition struct {
	Message string
}

// Error implements the error interface.
func (e ErrFailedPrecondition) Error() string {
	return "failed precondition: " + e.Message
}

// ErrInternal is returned in case of an internal error.
type ErrInternal struct {
	Err error
}

// Error implements the error interface.
func (e ErrInternal) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e ErrInternal) Unwrap() error {
	return e.Err
}

// ErrTimeout is returned when a read or write deadline expires before the
// operation completes.
type ErrTimeout struct{}

// Error implements the error interface.
func (e ErrTimeout) Error() string {
	return "timeout"
}
