package stream

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/net/http2"
)

// State is the opaque per-stream handler state. The engine threads it
// through every handler invocation and never inspects it.
type State any

// Messenger delivers out-of-band messages to a stream. Worker tasks spawned
// by handlers use it to feed results back into the connection, which invokes
// the handler's Info callback on its own execution context. It must not be
// called from inside a handler callback; return commands instead.
type Messenger interface {
	Info(streamID uint32, msg any)
}

// Request carries everything a handler needs to process one stream. It is
// built once, when the stream's header block has been fully decoded.
type Request struct {
	// Conn lets worker tasks spawned by the handler message the stream
	// (see Messenger).
	Conn Messenger
	// Peer is the transport's remote address.
	Peer net.Addr

	StreamID uint32
	Version  string // always "HTTP/2"

	Method    string
	Scheme    string
	Authority string
	Host      string
	Port      int
	Path      string
	Qs        string

	// Headers holds the regular (non-pseudo) request headers. Values of a
	// repeated name are joined with ", ", except cookie which joins with
	// "; " per RFC 7540 §8.1.2.5.
	Headers map[string]string

	// HasBody is false when the request arrived with END_STREAM.
	HasBody bool
	// BodyLength is the declared content-length, 0 for bodyless requests,
	// or -1 when the request has a body of unknown length.
	BodyLength int64
}

// Handler is the pluggable request-processing module driven by the engine.
// All callbacks run on the connection's execution context and must not
// block; long work belongs in worker tasks registered via Spawn.
type Handler interface {
	// Init is invoked once per stream after its headers are decoded.
	Init(streamID uint32, req *Request, opts any) ([]Command, State, error)
	// Data is invoked per received DATA frame. bodyLength is the
	// cumulative byte count and is only meaningful when fin is true.
	// p is only valid for the duration of the call.
	Data(streamID uint32, fin bool, bodyLength int64, p []byte, st State) ([]Command, State, error)
	// Info is invoked for messages addressed to the stream.
	Info(streamID uint32, msg any, st State) ([]Command, State, error)
	// Terminate is invoked exactly once when the stream goes away.
	Terminate(streamID uint32, reason Reason, st State)
}

// Command is a directive produced by a handler and interpreted by the
// engine's command executor. The set is closed; the executor treats an
// unknown implementation as a programming error.
type Command interface{ isCommand() }

// Response sends a complete response: HEADERS plus body, finishing the
// stream. Ignored unless the stream's local state is Idle.
type Response struct {
	Status  int
	Headers [][2]string
	Body    []byte
}

// ErrorResponse is a Response that is silently dropped when a response is
// already underway, letting error reporting race normal output safely.
type ErrorResponse struct {
	Status  int
	Headers [][2]string
	Body    []byte
}

// Headers starts a streaming response: HEADERS without END_STREAM.
type Headers struct {
	Status  int
	Headers [][2]string
}

// Data sends one body chunk on a streaming response. Fin finishes the
// stream. Chunks larger than the peer's max frame size are split.
type Data struct {
	Fin   bool
	Chunk []byte
}

// SendFile streams a region of a file as DATA frames. Either Path names the
// file to open, or File supplies an open handle whose position is restored
// afterwards. Bytes is the region length; 0 with a Path means to EOF.
type SendFile struct {
	Fin    bool
	Offset int64
	Bytes  int64
	Path   string
	File   *os.File
}

// Push emits a PUSH_PROMISE on the current stream and initialises the
// promised stream, which the handler then serves like any other.
type Push struct {
	Method  string
	Scheme  string
	Host    string
	Port    int
	Path    string
	Qs      string
	Headers [][2]string
}

// Flow grants receive credit. Reserved for inbound flow-control
// management; accepted and ignored while the engine treats windows as
// unbounded.
type Flow struct {
	N int64
}

// Spawn registers a worker task against the stream. Stop is called when the
// stream or connection terminates.
type Spawn struct {
	Stop func()
}

// InternalError aborts the stream; remaining commands are discarded.
type InternalError struct {
	Err error
}

// SwitchProtocol is not supported on HTTP/2; the executor discards it and
// continues with the remaining commands.
type SwitchProtocol struct {
	Protocol string
}

// Stop terminates the stream gracefully; remaining commands are discarded.
type Stop struct{}

func (Response) isCommand()       {}
func (ErrorResponse) isCommand()  {}
func (Headers) isCommand()        {}
func (Data) isCommand()           {}
func (SendFile) isCommand()       {}
func (Push) isCommand()           {}
func (Flow) isCommand()           {}
func (Spawn) isCommand()          {}
func (InternalError) isCommand()  {}
func (SwitchProtocol) isCommand() {}
func (Stop) isCommand()           {}

// ReasonKind discriminates stream/connection termination reasons.
type ReasonKind int

const (
	// ReasonNormal is a graceful handler-requested stop.
	ReasonNormal ReasonKind = iota
	// ReasonStreamError is a protocol violation isolated to the stream,
	// or a peer-sent RST_STREAM.
	ReasonStreamError
	// ReasonConnError is a connection-fatal protocol violation.
	ReasonConnError
	// ReasonInternal is a handler exception or executor fault.
	ReasonInternal
	// ReasonStop is a peer-requested shutdown via GOAWAY.
	ReasonStop
	// ReasonSocket is a transport-level close or error.
	ReasonSocket
)

// Reason describes why a stream or the connection terminated.
type Reason struct {
	Kind ReasonKind
	Code http2.ErrCode // ReasonStreamError, ReasonConnError
	Err  error         // ReasonInternal, ReasonSocket
}

func (r Reason) String() string {
	switch r.Kind {
	case ReasonNormal:
		return "normal"
	case ReasonStreamError:
		return fmt.Sprintf("stream_error(%v)", r.Code)
	case ReasonConnError:
		return fmt.Sprintf("connection_error(%v)", r.Code)
	case ReasonInternal:
		return fmt.Sprintf("internal_error(%v)", r.Err)
	case ReasonStop:
		return "stop"
	case ReasonSocket:
		return fmt.Sprintf("socket_error(%v)", r.Err)
	}
	return fmt.Sprintf("Reason(%d)", int(r.Kind))
}
