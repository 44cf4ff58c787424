// Package transport implements the HTTP/2 server connection engine: preface
// validation, SETTINGS exchange, frame dispatch, HEADERS/CONTINUATION
// reassembly, per-stream lifecycle, and command execution. The gnet event
// server in this package feeds accepted connections into the engine.
package transport

import (
	"bytes"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/potatosalad/cowboy/internal/h2/frame"
	"github.com/potatosalad/cowboy/internal/h2/stream"
)

// verboseLogging controls hot-path logging for performance-sensitive
// operations. Keep false for production runs.
const verboseLogging = false

// http2Preface is the fixed 24-byte client connection preface, RFC 7540 §3.5.
const http2Preface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// Default timer values per the engine's configuration contract.
const (
	DefaultPrefaceTimeout  = 5 * time.Second
	DefaultSettingsTimeout = 5 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
)

// Transport is the byte-level contract the engine drives. Sends are
// synchronous with respect to frame boundaries: every Send call carries
// whole frames.
type Transport interface {
	Send(p []byte) error
	Close() error
	RemoteAddr() net.Addr
}

// Options configures one engine connection.
type Options struct {
	// Settings is emitted in the initial SETTINGS frame.
	Settings []http2.Setting
	// PrefaceTimeout bounds how long the peer has to complete the preface
	// sequence and its first SETTINGS frame.
	PrefaceTimeout time.Duration
	// SettingsTimeout bounds how long the peer has to acknowledge our
	// SETTINGS frames.
	SettingsTimeout time.Duration
	// IdleTimeout terminates connections with no traffic or messages.
	IdleTimeout time.Duration
	// HandlerOpts is passed through to the stream handler's Init.
	HandlerOpts any
	// Logger receives lifecycle and error events.
	Logger *log.Logger
}

func (o *Options) withDefaults() {
	if o.PrefaceTimeout == 0 {
		o.PrefaceTimeout = DefaultPrefaceTimeout
	}
	if o.SettingsTimeout == 0 {
		o.SettingsTimeout = DefaultSettingsTimeout
	}
	if o.IdleTimeout == 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// parseMode is the engine's position in the inbound byte stream.
type parseMode int

const (
	modePrefaceSequence parseMode = iota
	modePrefaceSettings
	modeNormal
	modeContinuation
)

// timerHandle identifies one armed timer. Expiries whose handle no longer
// matches the currently expected one are stale and silently dropped.
type timerHandle uint64

// pendingSettings is one locally-sent SETTINGS frame awaiting the peer's
// acknowledgement, queued in FIFO order.
type pendingSettings struct {
	timer    timerHandle
	settings []http2.Setting
}

// Conn is the engine state for one HTTP/2 connection. A mutex serializes
// all entry points (inbound bytes, timer expiries, stream messages,
// shutdown) so the engine runs as a single cooperative execution context.
type Conn struct {
	mu        sync.Mutex
	transport Transport
	handler   stream.Handler
	opts      Options
	logger    *log.Logger

	buffer     bytes.Buffer
	parser     *frame.Parser
	writer     *frame.Writer
	encoder    *frame.Encoder
	decoder    *frame.Decoder
	parseNeeds int
	mode       parseMode

	// Continuation reassembly; valid while mode == modeContinuation.
	contStreamID uint32
	contFin      bool
	contFragment []byte

	streams *stream.Manager
	tracing *streamTracer

	localSettings  map[http2.SettingID]uint32
	remoteSettings map[http2.SettingID]uint32
	pending        []pendingSettings
	localMaxFrame  uint32

	timerGen     timerHandle
	prefaceTimer timerHandle
	lastActivity time.Time

	goAwaySent bool
	closed     bool
}

// NewConn starts the engine for an accepted, already-negotiated connection.
// The server preface (our SETTINGS frame) is sent immediately and both the
// preface and settings-ack timers are armed.
func NewConn(t Transport, h stream.Handler, opts Options) *Conn {
	opts.withDefaults()
	c := &Conn{
		transport:      t,
		handler:        h,
		opts:           opts,
		logger:         opts.Logger,
		mode:           modePrefaceSequence,
		parseNeeds:     len(http2Preface),
		streams:        stream.NewManager(),
		tracing:        newStreamTracer(),
		localSettings:  map[http2.SettingID]uint32{},
		remoteSettings: map[http2.SettingID]uint32{},
		localMaxFrame:  frame.DefaultMaxFrameSize,
		lastActivity:   time.Now(),
	}
	c.parser = frame.NewParser(&c.buffer)
	c.writer = frame.NewWriter(transportWriter{c})
	c.encoder = frame.NewEncoder()
	c.decoder = frame.NewDecoder()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range opts.Settings {
		if s.ID == http2.SettingMaxFrameSize {
			c.localMaxFrame = s.Val
		}
	}

	c.sendSettings(opts.Settings)
	c.prefaceTimer = c.armTimer(opts.PrefaceTimeout, c.onPrefaceTimeout)
	c.armIdleTimer(opts.IdleTimeout)

	metricConnectionsTotal.Inc()
	metricConnectionsActive.Inc()
	return c
}

// transportWriter adapts the Transport to the frame writer. The framer
// issues exactly one Write per emitted frame, so frame atomicity holds.
type transportWriter struct{ c *Conn }

func (w transportWriter) Write(p []byte) (int, error) {
	if err := w.c.transport.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Receive feeds freshly read bytes into the parse engine.
func (c *Conn) Receive(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.touch()
	c.buffer.Write(p)
	c.advance()
}

// Info delivers a message addressed to a stream. Safe to call from worker
// tasks; the handler's Info callback runs on the connection's context.
// Stream id 0 addresses the connection itself; the only understood
// connection message is graceful shutdown via Shutdown.
func (c *Conn) Info(streamID uint32, msg any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.touch()
	if streamID == 0 {
		if verboseLogging {
			c.logger.Printf("ignoring connection-level message %v", msg)
		}
		return
	}
	s, ok := c.streams.Get(streamID)
	if !ok {
		return
	}
	c.invoke(s, func() ([]stream.Command, stream.State, error) {
		return c.handler.Info(streamID, msg, s.HandlerState)
	})
}

// Shutdown initiates graceful connection termination: GOAWAY with
// NO_ERROR, terminate all streams, close the transport.
func (c *Conn) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.sendGoAway(http2.ErrCodeNo, "shutting down")
	c.terminateConn(stream.Reason{Kind: stream.ReasonStop})
}

// SocketClosed reports that the transport was closed underneath the engine.
// No further I/O is attempted.
func (c *Conn) SocketClosed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.terminateConn(stream.Reason{Kind: stream.ReasonSocket, Err: err})
}

// StreamCount reports the number of live streams, for shutdown draining.
func (c *Conn) StreamCount() int {
	return c.streams.Count()
}

// Closed reports whether the engine has terminated.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// touch records loop activity for the idle timeout.
func (c *Conn) touch() {
	c.lastActivity = time.Now()
}

// advance drives the parse engine until it runs out of buffered bytes or
// the connection terminates. It never parses past what is available.
func (c *Conn) advance() {
	for !c.closed {
		switch c.mode {
		case modePrefaceSequence:
			if !c.advancePreface() {
				return
			}
		case modePrefaceSettings, modeNormal, modeContinuation:
			if c.buffer.Len() < c.parseNeeds {
				return
			}
			// Reject oversized frames from the header alone, before the
			// payload is even buffered.
			if _, _, _, length, ok := c.parser.PeekHeader(); ok && length > c.localMaxFrame {
				c.connError(http2.ErrCodeFrameSize,
					fmt.Sprintf("frame of %d bytes exceeds advertised max frame size %d", length, c.localMaxFrame))
				return
			}
			res := c.parser.Next()
			switch res.Kind {
			case frame.KindNeed:
				c.parseNeeds = res.Needs
				return
			case frame.KindStreamError:
				c.parseNeeds = frame.HeaderLen
				c.resetStream(res.StreamID, res.Code, res.Cause)
			case frame.KindConnError:
				c.connError(res.Code, res.Cause)
				return
			case frame.KindFrame:
				c.parseNeeds = frame.HeaderLen
				c.dispatch(res.Frame)
			}
		}
	}
}

// advancePreface matches the 24-byte client preface. Any deviation, even
// before all 24 bytes have arrived, is a connection error. Returns false
// when more bytes are needed.
func (c *Conn) advancePreface() bool {
	have := c.buffer.Bytes()
	if len(have) < len(http2Preface) {
		if !bytes.HasPrefix([]byte(http2Preface), have) {
			c.connError(http2.ErrCodeProtocol, "invalid connection preface")
			return false
		}
		return false
	}
	if !bytes.Equal(have[:len(http2Preface)], []byte(http2Preface)) {
		c.connError(http2.ErrCodeProtocol, "invalid connection preface")
		return false
	}
	c.buffer.Next(len(http2Preface))
	c.mode = modePrefaceSettings
	c.parseNeeds = frame.HeaderLen
	return true
}

// dispatch applies per-frame-type semantics. In the two preface modes only
// a subset of frames is legal.
func (c *Conn) dispatch(f http2.Frame) {
	hdr := f.Header()
	metricFramesReceived.WithLabelValues(hdr.Type.String()).Inc()

	if c.mode == modePrefaceSettings {
		sf, ok := f.(*http2.SettingsFrame)
		if !ok || sf.IsAck() {
			c.connError(http2.ErrCodeProtocol, "expected SETTINGS as first frame")
			return
		}
		c.cancelPrefaceTimer()
		c.mode = modeNormal
	}

	if c.mode == modeContinuation {
		// The frame codec enforces that only CONTINUATION frames for the
		// open header block can reach this point.
		cf, ok := f.(*http2.ContinuationFrame)
		if !ok || cf.Header().StreamID != c.contStreamID {
			c.connError(http2.ErrCodeProtocol, "expected CONTINUATION for open header block")
			return
		}
		c.onContinuation(cf)
		return
	}

	switch f := f.(type) {
	case *http2.SettingsFrame:
		c.onSettings(f)
	case *http2.HeadersFrame:
		c.onHeaders(f)
	case *http2.DataFrame:
		c.onData(f)
	case *http2.PriorityFrame:
		// Parsed, no effect.
	case *http2.RSTStreamFrame:
		c.onRSTStream(f)
	case *http2.PushPromiseFrame:
		c.connError(http2.ErrCodeProtocol, "client sent PUSH_PROMISE")
	case *http2.PingFrame:
		c.onPing(f)
	case *http2.GoAwayFrame:
		c.sendGoAway(http2.ErrCodeNo, "peer requested shutdown")
		c.terminateConn(stream.Reason{Kind: stream.ReasonStop})
	case *http2.WindowUpdateFrame:
		// Flow control is not accounted; accepted and ignored.
	case *http2.ContinuationFrame:
		c.connError(http2.ErrCodeProtocol, "CONTINUATION without open header block")
	default:
		// Unknown extension frames are ignored per RFC 7540 §4.1.
	}
}

// onSettings handles both directions of the SETTINGS exchange.
func (c *Conn) onSettings(f *http2.SettingsFrame) {
	if f.IsAck() {
		if len(c.pending) == 0 {
			c.connError(http2.ErrCodeProtocol, "SETTINGS ack with no settings in flight")
			return
		}
		head := c.pending[0]
		c.pending = c.pending[1:]
		for _, s := range head.settings {
			c.localSettings[s.ID] = s.Val
			if s.ID == http2.SettingMaxFrameSize {
				c.localMaxFrame = s.Val
			}
		}
		return
	}

	var settingsErr error
	_ = f.ForeachSetting(func(s http2.Setting) error {
		switch s.ID {
		case http2.SettingEnablePush:
			if s.Val > 1 {
				settingsErr = fmt.Errorf("SETTINGS_ENABLE_PUSH must be 0 or 1, got %d", s.Val)
			}
		case http2.SettingMaxFrameSize:
			if s.Val < 16384 || s.Val > (1<<24)-1 {
				settingsErr = fmt.Errorf("SETTINGS_MAX_FRAME_SIZE out of range: %d", s.Val)
			}
		case http2.SettingInitialWindowSize:
			if s.Val > 0x7fffffff {
				settingsErr = fmt.Errorf("SETTINGS_INITIAL_WINDOW_SIZE too large: %d", s.Val)
			}
		}
		if settingsErr == nil {
			c.remoteSettings[s.ID] = s.Val
		}
		return settingsErr
	})
	if settingsErr != nil {
		c.connError(http2.ErrCodeProtocol, settingsErr.Error())
		return
	}

	if err := c.writer.WriteSettingsAck(); err != nil {
		c.socketError(err)
	}
}

// sendSettings emits a SETTINGS frame and queues it for acknowledgement
// with a fresh ack timer. Also used for the initial server preface.
func (c *Conn) sendSettings(settings []http2.Setting) {
	if err := c.writer.WriteSettings(settings...); err != nil {
		c.socketError(err)
		return
	}
	h := c.armTimer(c.opts.SettingsTimeout, func(h timerHandle) {
		for _, p := range c.pending {
			if p.timer == h {
				c.connError(http2.ErrCodeSettingsTimeout, "timeout waiting for SETTINGS ack")
				return
			}
		}
	})
	c.pending = append(c.pending, pendingSettings{timer: h, settings: settings})
}

// UpdateSettings sends a new SETTINGS frame mid-connection. The values take
// effect locally once the peer acknowledges, in FIFO order.
func (c *Conn) UpdateSettings(settings []http2.Setting) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.sendSettings(settings)
}

// onHeaders starts a stream or, with END_HEADERS unset, opens a header
// block and switches the parse engine to continuation mode. Priority fields
// are parsed by the codec and ignored here.
func (c *Conn) onHeaders(f *http2.HeadersFrame) {
	sid := f.Header().StreamID

	if _, exists := c.streams.Get(sid); exists {
		// A second HEADERS on a live stream is not supported.
		c.resetStream(sid, http2.ErrCodeProtocol, "unexpected HEADERS on existing stream")
		return
	}
	if err := c.streams.ObserveClientStream(sid); err != nil {
		c.connError(http2.ErrCodeProtocol, err.Error())
		return
	}

	fragment := f.HeaderBlockFragment()
	if !f.HeadersEnded() {
		// Copy: the codec reuses its buffers on the next parse.
		c.mode = modeContinuation
		c.contStreamID = sid
		c.contFin = f.StreamEnded()
		c.contFragment = append(c.contFragment[:0], fragment...)
		return
	}
	c.initStream(sid, f.StreamEnded(), fragment)
}

// onContinuation accumulates header block fragments until END_HEADERS.
func (c *Conn) onContinuation(f *http2.ContinuationFrame) {
	c.contFragment = append(c.contFragment, f.HeaderBlockFragment()...)
	if !f.HeadersEnded() {
		return
	}
	sid, fin, block := c.contStreamID, c.contFin, c.contFragment
	c.mode = modeNormal
	c.contStreamID = 0
	c.contFin = false
	c.initStream(sid, fin, block)
	c.contFragment = c.contFragment[:0]
}

// initStream decodes a complete header block, builds the request, inserts
// the stream into the table, and runs the handler's Init commands.
func (c *Conn) initStream(sid uint32, fin bool, block []byte) {
	fields, err := c.decoder.Decode(block)
	if err != nil {
		c.connError(http2.ErrCodeCompression, err.Error())
		return
	}

	req, err := stream.NewRequest(c, c.transport.RemoteAddr(), sid, fields, fin)
	if err != nil {
		// The stream never entered the table; reject it on the wire.
		var code = http2.ErrCodeProtocol
		if se, ok := err.(*stream.StreamErr); ok {
			code = se.Code
		}
		metricProtocolErrors.WithLabelValues("stream").Inc()
		if werr := c.writer.WriteRSTStream(sid, code); werr != nil {
			c.socketError(werr)
		}
		return
	}

	s := c.streams.Create(sid)
	if fin {
		s.Remote = stream.RemoteFin
	}
	metricStreamsTotal.Inc()
	metricStreamsActive.Inc()
	c.tracing.start(req)

	c.invoke(s, func() ([]stream.Command, stream.State, error) {
		return c.handler.Init(sid, req, c.opts.HandlerOpts)
	})
}

// onData enforces the remote-side state machine and feeds the handler.
func (c *Conn) onData(f *http2.DataFrame) {
	sid := f.Header().StreamID
	s, ok := c.streams.Get(sid)
	if !ok || s.Remote == stream.RemoteFin {
		c.resetStream(sid, http2.ErrCodeStreamClosed, "DATA on closed stream")
		return
	}

	data := f.Data()
	s.BodyLength += int64(len(data))
	fin := f.StreamEnded()
	if fin {
		s.Remote = stream.RemoteFin
	}
	bodyLength := int64(0)
	if fin {
		bodyLength = s.BodyLength
	}
	c.invoke(s, func() ([]stream.Command, stream.State, error) {
		return c.handler.Data(sid, fin, bodyLength, data, s.HandlerState)
	})
}

// onRSTStream terminates the stream the peer reset. No RST_STREAM goes back
// out; the peer already closed it.
func (c *Conn) onRSTStream(f *http2.RSTStreamFrame) {
	s, ok := c.streams.Get(f.Header().StreamID)
	if !ok {
		return
	}
	c.terminateStream(s, stream.Reason{Kind: stream.ReasonStreamError, Code: f.ErrCode})
}

// onPing echoes the opaque payload back with the ACK flag.
func (c *Conn) onPing(f *http2.PingFrame) {
	if f.IsAck() {
		return
	}
	if err := c.writer.WritePing(true, f.Data); err != nil {
		c.socketError(err)
	}
}

// invoke runs a handler callback with panic containment, installs the new
// handler state, and executes the returned commands. Handler faults reset
// the stream with internal_error.
func (c *Conn) invoke(s *stream.Stream, call func() ([]stream.Command, stream.State, error)) {
	cmds, st, err := func() (cmds []stream.Command, st stream.State, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return call()
	}()
	if err != nil {
		c.logger.Printf("stream %d handler error: %v", s.ID, err)
		c.streamInternalError(s, err)
		return
	}
	s.HandlerState = st
	c.runCommands(s, cmds)
}

// resetStream is the uniform anomalous-termination path: RST_STREAM on the
// wire, then terminate if the stream is in the table.
func (c *Conn) resetStream(sid uint32, code http2.ErrCode, cause string) {
	if c.closed {
		return
	}
	metricProtocolErrors.WithLabelValues("stream").Inc()
	if verboseLogging {
		c.logger.Printf("resetting stream %d (%v): %s", sid, code, cause)
	}
	if err := c.writer.WriteRSTStream(sid, code); err != nil {
		c.socketError(err)
		return
	}
	if s, ok := c.streams.Get(sid); ok {
		c.terminateStream(s, stream.Reason{Kind: stream.ReasonStreamError, Code: code})
	}
}

// streamInternalError resets a stream after a handler or executor fault.
func (c *Conn) streamInternalError(s *stream.Stream, err error) {
	if c.closed {
		return
	}
	if werr := c.writer.WriteRSTStream(s.ID, http2.ErrCodeInternal); werr != nil {
		c.socketError(werr)
		return
	}
	c.terminateStream(s, stream.Reason{Kind: stream.ReasonInternal, Err: err})
}

// terminateStream removes the stream, notifies the handler exactly once,
// and stops its worker tasks. Handler panics during Terminate are logged
// and swallowed.
func (c *Conn) terminateStream(s *stream.Stream, reason stream.Reason) {
	if _, ok := c.streams.Get(s.ID); !ok {
		return
	}
	c.streams.Delete(s.ID)
	metricStreamsActive.Dec()
	c.tracing.end(s.ID, reason)
	func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Printf("stream %d terminate panic: %v", s.ID, r)
			}
		}()
		c.handler.Terminate(s.ID, reason, s.HandlerState)
	}()
	c.streams.StopChildren(s.ID)
}

// connError handles a connection-fatal violation: GOAWAY, terminate every
// stream, close the transport.
func (c *Conn) connError(code http2.ErrCode, cause string) {
	if c.closed {
		return
	}
	metricProtocolErrors.WithLabelValues("connection").Inc()
	c.logger.Printf("connection error (%v): %s", code, cause)
	c.sendGoAway(code, cause)
	c.terminateConn(stream.Reason{Kind: stream.ReasonConnError, Code: code})
}

// socketError terminates after a transport write failure, without
// attempting further I/O.
func (c *Conn) socketError(err error) {
	if c.closed {
		return
	}
	c.logger.Printf("socket error: %v", err)
	c.terminateConn(stream.Reason{Kind: stream.ReasonSocket, Err: err})
}

// sendGoAway emits at most one GOAWAY, carrying the highest accepted
// client stream id.
func (c *Conn) sendGoAway(code http2.ErrCode, debug string) {
	if c.goAwaySent {
		return
	}
	c.goAwaySent = true
	_ = c.writer.WriteGoAway(c.streams.LastClientStream(), code, []byte(debug))
}

// terminateConn tears the whole connection down: every remaining stream is
// terminated exactly once, worker tasks are stopped, timers become stale,
// and the transport is closed unless the reason is a socket error.
func (c *Conn) terminateConn(reason stream.Reason) {
	if c.closed {
		return
	}
	c.closed = true
	for _, s := range c.streams.Snapshot() {
		c.streams.Delete(s.ID)
		metricStreamsActive.Dec()
		c.tracing.end(s.ID, reason)
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Printf("stream %d terminate panic: %v", s.ID, r)
				}
			}()
			c.handler.Terminate(s.ID, reason, s.HandlerState)
		}()
	}
	c.streams.StopAllChildren()
	if reason.Kind != stream.ReasonSocket {
		_ = c.transport.Close()
	}
	metricConnectionsActive.Dec()
}

// armTimer arms a one-shot timer whose callback runs inside the
// connection's critical section. The returned handle is what the callback
// receives; holders compare it against their expected outstanding handle
// and drop stale expiries.
func (c *Conn) armTimer(d time.Duration, fn func(timerHandle)) timerHandle {
	c.timerGen++
	h := c.timerGen
	time.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		fn(h)
	})
	return h
}

// onPrefaceTimeout fires when the peer has not completed the preface
// sequence and first SETTINGS in time.
func (c *Conn) onPrefaceTimeout(h timerHandle) {
	if c.prefaceTimer != h {
		return
	}
	if c.mode == modePrefaceSequence || c.mode == modePrefaceSettings {
		c.connError(http2.ErrCodeProtocol, "timeout waiting for connection preface")
	}
}

func (c *Conn) cancelPrefaceTimer() {
	c.prefaceTimer = 0
}

// armIdleTimer arms the inactivity watchdog. Each expiry either terminates
// the connection or re-arms for the remaining window.
func (c *Conn) armIdleTimer(d time.Duration) {
	c.armTimer(d, func(timerHandle) {
		idle := time.Since(c.lastActivity)
		if idle >= c.opts.IdleTimeout {
			c.logger.Printf("closing connection to %v: idle for %v", c.transport.RemoteAddr(), idle)
			c.sendGoAway(http2.ErrCodeInternal, "idle timeout")
			c.terminateConn(stream.Reason{
				Kind: stream.ReasonInternal,
				Err:  fmt.Errorf("idle timeout after %v", c.opts.IdleTimeout),
			})
			return
		}
		c.armIdleTimer(c.opts.IdleTimeout - idle)
	})
}

// peerMaxFrame is the outbound frame-size ceiling from the peer's SETTINGS.
func (c *Conn) peerMaxFrame() uint32 {
	if v, ok := c.remoteSettings[http2.SettingMaxFrameSize]; ok {
		return v
	}
	return frame.DefaultMaxFrameSize
}
