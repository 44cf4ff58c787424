package cowboy

import (
	"github.com/potatosalad/cowboy/internal/h2/stream"
)

// The handler contract and command set are defined next to the engine; the
// aliases below are the public names for implementing a Handler outside
// this module.
type (
	// Request carries the decoded request of one stream.
	Request = stream.Request
	// State is the opaque per-stream handler state.
	State = stream.State
	// Command is a directive interpreted by the engine's executor.
	Command = stream.Command
	// Reason describes why a stream or connection terminated.
	Reason = stream.Reason
	// Messenger delivers out-of-band messages to a stream.
	Messenger = stream.Messenger

	// Response sends a complete response and finishes the stream.
	Response = stream.Response
	// ErrorResponse is a Response dropped once a response is underway.
	ErrorResponse = stream.ErrorResponse
	// Headers starts a streaming response.
	Headers = stream.Headers
	// Data sends one body chunk on a streaming response.
	Data = stream.Data
	// SendFile streams a file region as DATA frames.
	SendFile = stream.SendFile
	// Push emits a PUSH_PROMISE and initialises the promised stream.
	Push = stream.Push
	// Flow grants receive credit; reserved.
	Flow = stream.Flow
	// Spawn registers a worker task against the stream.
	Spawn = stream.Spawn
	// InternalError aborts the stream.
	InternalError = stream.InternalError
	// SwitchProtocol is unsupported on HTTP/2 and skipped.
	SwitchProtocol = stream.SwitchProtocol
	// Stop terminates the stream gracefully.
	Stop = stream.Stop
)

// Termination reason kinds.
const (
	ReasonNormal      = stream.ReasonNormal
	ReasonStreamError = stream.ReasonStreamError
	ReasonConnError   = stream.ReasonConnError
	ReasonInternal    = stream.ReasonInternal
	ReasonStop        = stream.ReasonStop
	ReasonSocket      = stream.ReasonSocket
)

// BodyLengthUnknown marks a request body of undeclared length.
const BodyLengthUnknown = stream.BodyLengthUnknown
