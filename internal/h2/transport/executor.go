package transport

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/net/http2"

	"github.com/potatosalad/cowboy/internal/h2/stream"
)

// runCommands executes a handler's command sequence in order. Stop and
// InternalError discard whatever follows them; everything else leaves the
// remainder of the sequence live.
func (c *Conn) runCommands(s *stream.Stream, cmds []stream.Command) {
	for _, cmd := range cmds {
		if c.closed {
			return
		}
		if _, live := c.streams.Get(s.ID); !live {
			return
		}
		switch cmd := cmd.(type) {
		case stream.Response:
			if s.Local == stream.LocalIdle {
				c.sendResponse(s, cmd.Status, cmd.Headers, cmd.Body)
			} else if verboseLogging {
				c.logger.Printf("stream %d: dropping response, one already sent", s.ID)
			}
		case stream.ErrorResponse:
			// Only reaches the wire while nothing else has been sent.
			if s.Local == stream.LocalIdle {
				c.sendResponse(s, cmd.Status, cmd.Headers, cmd.Body)
			}
		case stream.Headers:
			if s.Local == stream.LocalIdle {
				c.sendHeaders(s, cmd.Status, cmd.Headers)
			}
		case stream.Data:
			if s.Local == stream.LocalNoFin {
				c.sendData(s, cmd.Fin, cmd.Chunk)
			}
		case stream.SendFile:
			if s.Local == stream.LocalNoFin {
				c.sendFile(s, cmd)
			}
		case stream.Push:
			c.push(s, cmd)
		case stream.Flow:
			// Reserved for inbound flow-control credit.
		case stream.Spawn:
			c.streams.RegisterChild(s.ID, cmd.Stop)
		case stream.InternalError:
			c.streamInternalError(s, cmd.Err)
			return
		case stream.SwitchProtocol:
			// There is no protocol switching on HTTP/2; skip and continue.
			if verboseLogging {
				c.logger.Printf("stream %d: ignoring switch_protocol to %q", s.ID, cmd.Protocol)
			}
		case stream.Stop:
			c.stopStream(s)
			return
		default:
			// The command set is closed; anything else is a bug in the
			// handler wiring.
			c.streamInternalError(s, fmt.Errorf("unknown command %T", cmd))
			return
		}
	}
}

// statusField serialises the :status pseudo-header. Integer statuses become
// their decimal ASCII form.
func statusField(status int) [2]string {
	return [2]string{":status", strconv.Itoa(status)}
}

// sendResponse emits a complete response. An empty body finishes the stream
// on the HEADERS frame itself; otherwise HEADERS goes out without
// END_STREAM and the body follows as DATA frames ending with one.
func (c *Conn) sendResponse(s *stream.Stream, status int, headers [][2]string, body []byte) {
	fields := make([][2]string, 0, 1+len(headers))
	fields = append(fields, statusField(status))
	fields = append(fields, headers...)

	block, err := c.encoder.Encode(fields)
	if err != nil {
		c.streamInternalError(s, fmt.Errorf("encode response headers: %w", err))
		return
	}
	endStream := len(body) == 0
	if err := c.writer.WriteHeaders(s.ID, endStream, block, c.peerMaxFrame()); err != nil {
		c.socketError(err)
		return
	}
	if !endStream {
		if err := c.writer.SplitData(s.ID, true, body, c.peerMaxFrame()); err != nil {
			c.socketError(err)
			return
		}
	}
	s.Local = stream.LocalFin
}

// sendHeaders starts a streaming response.
func (c *Conn) sendHeaders(s *stream.Stream, status int, headers [][2]string) {
	fields := make([][2]string, 0, 1+len(headers))
	fields = append(fields, statusField(status))
	fields = append(fields, headers...)

	block, err := c.encoder.Encode(fields)
	if err != nil {
		c.streamInternalError(s, fmt.Errorf("encode response headers: %w", err))
		return
	}
	if err := c.writer.WriteHeaders(s.ID, false, block, c.peerMaxFrame()); err != nil {
		c.socketError(err)
		return
	}
	s.Local = stream.LocalNoFin
}

// sendData emits one body chunk, split against the peer's max frame size.
func (c *Conn) sendData(s *stream.Stream, fin bool, chunk []byte) {
	if err := c.writer.SplitData(s.ID, fin, chunk, c.peerMaxFrame()); err != nil {
		c.socketError(err)
		return
	}
	if fin {
		s.Local = stream.LocalFin
	}
}

// sendFile streams a file region as DATA frames of at most the peer's max
// frame size, then, when fin is set, an empty DATA frame carrying
// END_STREAM.
// A provided handle has its file position restored afterwards.
func (c *Conn) sendFile(s *stream.Stream, cmd stream.SendFile) {
	f := cmd.File
	var restore int64 = -1
	if f != nil {
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			c.streamInternalError(s, err)
			return
		}
		restore = pos
	} else {
		opened, err := os.Open(cmd.Path)
		if err != nil {
			c.streamInternalError(s, err)
			return
		}
		f = opened
		defer opened.Close()
	}
	if restore >= 0 {
		defer func() { _, _ = f.Seek(restore, io.SeekStart) }()
	}

	if _, err := f.Seek(cmd.Offset, io.SeekStart); err != nil {
		c.streamInternalError(s, err)
		return
	}

	maxFrame := int64(c.peerMaxFrame())
	buf := make([]byte, maxFrame)
	var sent int64
	for cmd.Bytes == 0 || sent < cmd.Bytes {
		want := maxFrame
		if cmd.Bytes > 0 && cmd.Bytes-sent < want {
			want = cmd.Bytes - sent
		}
		n, err := f.Read(buf[:want])
		if n > 0 {
			if werr := c.writer.WriteData(s.ID, false, buf[:n]); werr != nil {
				c.socketError(werr)
				return
			}
			sent += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			c.streamInternalError(s, err)
			return
		}
	}

	if cmd.Fin {
		if err := c.writer.WriteData(s.ID, true, nil); err != nil {
			c.socketError(err)
			return
		}
		s.Local = stream.LocalFin
	}
}

// push synthesises the request pseudo-headers, reserves an even stream id,
// emits PUSH_PROMISE on the current stream, and initialises the promised
// stream with its remote side already finished.
func (c *Conn) push(s *stream.Stream, cmd stream.Push) {
	authority := cmd.Host
	switch {
	case cmd.Scheme == "http" && cmd.Port == 80:
	case cmd.Scheme == "https" && cmd.Port == 443:
	default:
		authority = cmd.Host + ":" + strconv.Itoa(cmd.Port)
	}
	path := cmd.Path
	if cmd.Qs != "" {
		path = cmd.Path + "?" + cmd.Qs
	}

	fields := make([][2]string, 0, 4+len(cmd.Headers))
	fields = append(fields,
		[2]string{":method", cmd.Method},
		[2]string{":scheme", cmd.Scheme},
		[2]string{":authority", authority},
		[2]string{":path", path},
	)
	fields = append(fields, cmd.Headers...)

	block, err := c.encoder.Encode(fields)
	if err != nil {
		c.streamInternalError(s, fmt.Errorf("encode push headers: %w", err))
		return
	}

	promiseID := c.streams.ReservePromisedID()
	if err := c.writer.WritePushPromise(s.ID, promiseID, block); err != nil {
		c.socketError(err)
		return
	}

	req, err := stream.NewRequest(c, c.transport.RemoteAddr(), promiseID, fields, true)
	if err != nil {
		// Self-synthesised headers; a failure here is a programming error.
		c.streamInternalError(s, err)
		return
	}

	promised := c.streams.Create(promiseID)
	promised.Remote = stream.RemoteFin
	metricStreamsTotal.Inc()
	metricStreamsActive.Inc()
	c.tracing.start(req)

	c.invoke(promised, func() ([]stream.Command, stream.State, error) {
		return c.handler.Init(promiseID, req, c.opts.HandlerOpts)
	})
}

// stopStream finishes a stream gracefully: a bodyless 204 when nothing was
// sent yet, a closing empty DATA frame when a body was underway.
func (c *Conn) stopStream(s *stream.Stream) {
	switch s.Local {
	case stream.LocalIdle:
		block, err := c.encoder.Encode([][2]string{{":status", "204"}})
		if err != nil {
			c.streamInternalError(s, err)
			return
		}
		if err := c.writer.WriteHeaders(s.ID, true, block, c.peerMaxFrame()); err != nil {
			c.socketError(err)
			return
		}
		s.Local = stream.LocalFin
	case stream.LocalNoFin:
		if err := c.writer.WriteData(s.ID, true, nil); err != nil {
			c.socketError(err)
			return
		}
		s.Local = stream.LocalFin
	}
	c.terminateStream(s, stream.Reason{Kind: stream.ReasonNormal})
}

// WriteRSTStream is exposed for administrative cancellation of a stream
// from outside the engine, e.g. server shutdown policies.
func (c *Conn) WriteRSTStream(streamID uint32, code http2.ErrCode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection closed")
	}
	return c.writer.WriteRSTStream(streamID, code)
}
