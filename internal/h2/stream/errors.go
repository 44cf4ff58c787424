package stream

import (
	"fmt"

	"golang.org/x/net/http2"
)

// ConnError is a connection-fatal protocol violation. The engine answers it
// with GOAWAY, terminates every stream, and closes the transport.
type ConnError struct {
	Code  http2.ErrCode
	Cause string
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("connection error (%v): %s", e.Code, e.Cause)
}

// StreamErr is a protocol violation isolated to one stream. The engine
// answers it with RST_STREAM and keeps the connection.
type StreamErr struct {
	StreamID uint32
	Code     http2.ErrCode
	Cause    string
}

func (e *StreamErr) Error() string {
	return fmt.Sprintf("stream %d error (%v): %s", e.StreamID, e.Code, e.Cause)
}
