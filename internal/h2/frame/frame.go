// Package frame wraps the golang.org/x/net/http2 framing layer behind the
// two codec contracts the connection engine consumes: a pull parser over a
// byte buffer and a set of frame emitters.
package frame

import (
	"bytes"
	"encoding/binary"
	"io"

	"golang.org/x/net/http2"
)

// HeaderLen is the fixed size of an HTTP/2 frame header.
const HeaderLen = 9

// DefaultMaxFrameSize is the SETTINGS_MAX_FRAME_SIZE default per RFC 7540.
const DefaultMaxFrameSize = 16384

// Kind discriminates the outcome of a Parser.Next call.
type Kind int

const (
	// KindFrame carries a fully parsed frame.
	KindFrame Kind = iota
	// KindNeed means the buffer holds fewer bytes than the next frame needs.
	KindNeed
	// KindStreamError means the frame was malformed in a way that only
	// poisons its stream; parsing may continue.
	KindStreamError
	// KindConnError means the connection is unrecoverable.
	KindConnError
)

// Result is the outcome of a single Parser.Next call. Frame is only valid
// until the following Next call; callers must copy any payload they retain.
type Result struct {
	Kind     Kind
	Frame    http2.Frame
	Needs    int           // KindNeed: bytes required before retrying
	StreamID uint32        // KindStreamError
	Code     http2.ErrCode // KindStreamError, KindConnError
	Cause    string
}

// Parser consumes frames from a connection's parse buffer. It keeps a
// persistent http2.Framer bound to the buffer so framer-internal state
// (header-block ordering checks) survives across calls.
type Parser struct {
	buf    *bytes.Buffer
	framer *http2.Framer
}

// NewParser binds a parser to the connection's parse buffer.
func NewParser(buf *bytes.Buffer) *Parser {
	p := &Parser{buf: buf}
	p.framer = http2.NewFramer(io.Discard, bufferReader{p})
	p.framer.SetMaxReadFrameSize(1 << 20)
	return p
}

// bufferReader drains the bound parse buffer. An empty buffer reports
// io.ErrUnexpectedEOF so the framer never treats exhaustion as a clean close.
type bufferReader struct{ p *Parser }

func (r bufferReader) Read(b []byte) (int, error) {
	if r.p.buf.Len() == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(b, r.p.buf.Bytes())
	r.p.buf.Next(n)
	return n, nil
}

// Next parses at most one frame. It never consumes a partial frame: the
// header is peeked first and KindNeed returned until header+payload are
// fully buffered.
func (p *Parser) Next() Result {
	if p.buf.Len() < HeaderLen {
		return Result{Kind: KindNeed, Needs: HeaderLen}
	}
	hdr := p.buf.Bytes()[:HeaderLen]
	length := int(uint32(hdr[0])<<16 | uint32(hdr[1])<<8 | uint32(hdr[2]))
	if p.buf.Len() < HeaderLen+length {
		return Result{Kind: KindNeed, Needs: HeaderLen + length}
	}

	f, err := p.framer.ReadFrame()
	if err != nil {
		switch e := err.(type) {
		case http2.StreamError:
			return Result{Kind: KindStreamError, StreamID: e.StreamID, Code: e.Code, Cause: e.Error()}
		case http2.ConnectionError:
			return Result{Kind: KindConnError, Code: http2.ErrCode(e), Cause: err.Error()}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// The availability check above should prevent this; ask for a
			// full header again rather than guessing.
			return Result{Kind: KindNeed, Needs: HeaderLen}
		}
		return Result{Kind: KindConnError, Code: http2.ErrCodeProtocol, Cause: err.Error()}
	}
	return Result{Kind: KindFrame, Frame: f}
}

// PeekHeader reports the type, flags, stream id and declared length of the
// next buffered frame without consuming it. ok is false with fewer than
// HeaderLen bytes available.
func (p *Parser) PeekHeader() (ftype http2.FrameType, flags http2.Flags, streamID uint32, length uint32, ok bool) {
	if p.buf.Len() < HeaderLen {
		return 0, 0, 0, 0, false
	}
	hdr := p.buf.Bytes()[:HeaderLen]
	length = uint32(hdr[0])<<16 | uint32(hdr[1])<<8 | uint32(hdr[2])
	ftype = http2.FrameType(hdr[3])
	flags = http2.Flags(hdr[4])
	streamID = binary.BigEndian.Uint32(hdr[5:9]) & 0x7fffffff
	return ftype, flags, streamID, length, true
}

// Writer emits HTTP/2 frames to an io.Writer. Callers serialize access; the
// engine holds its connection lock around every write.
type Writer struct {
	framer *http2.Framer
}

// NewWriter creates a frame writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{framer: http2.NewFramer(w, nil)}
}

// WriteSettings writes a SETTINGS frame.
func (w *Writer) WriteSettings(settings ...http2.Setting) error {
	return w.framer.WriteSettings(settings...)
}

// WriteSettingsAck writes a SETTINGS frame with the ACK flag.
func (w *Writer) WriteSettingsAck() error {
	return w.framer.WriteSettingsAck()
}

// WritePing writes a PING frame carrying the opaque payload.
func (w *Writer) WritePing(ack bool, data [8]byte) error {
	return w.framer.WritePing(ack, data)
}

// WriteRSTStream writes an RST_STREAM frame.
func (w *Writer) WriteRSTStream(streamID uint32, code http2.ErrCode) error {
	return w.framer.WriteRSTStream(streamID, code)
}

// WriteGoAway writes a GOAWAY frame.
func (w *Writer) WriteGoAway(lastStreamID uint32, code http2.ErrCode, debugData []byte) error {
	return w.framer.WriteGoAway(lastStreamID, code, debugData)
}

// WriteWindowUpdate writes a WINDOW_UPDATE frame.
func (w *Writer) WriteWindowUpdate(streamID uint32, increment uint32) error {
	return w.framer.WriteWindowUpdate(streamID, increment)
}

// WriteHeaders writes a header block as a HEADERS frame followed by as many
// CONTINUATION frames as the peer's max frame size requires. The engine never
// interleaves other frames inside the sequence; this method emits it whole.
func (w *Writer) WriteHeaders(streamID uint32, endStream bool, headerBlock []byte, maxFrameSize uint32) error {
	if maxFrameSize == 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	remaining := headerBlock
	first := true
	for {
		chunk := remaining
		if len(chunk) > int(maxFrameSize) {
			chunk = chunk[:maxFrameSize]
		}
		remaining = remaining[len(chunk):]
		last := len(remaining) == 0

		if first {
			var flags http2.Flags
			if endStream {
				flags |= http2.FlagHeadersEndStream
			}
			if last {
				flags |= http2.FlagHeadersEndHeaders
			}
			if err := w.framer.WriteRawFrame(http2.FrameHeaders, flags, streamID, chunk); err != nil {
				return err
			}
			first = false
		} else {
			var flags http2.Flags
			if last {
				flags |= http2.FlagContinuationEndHeaders
			}
			if err := w.framer.WriteRawFrame(http2.FrameContinuation, flags, streamID, chunk); err != nil {
				return err
			}
		}
		if last {
			return nil
		}
	}
}

// WritePushPromise writes a PUSH_PROMISE frame reserving promiseID.
func (w *Writer) WritePushPromise(streamID, promiseID uint32, headerBlock []byte) error {
	payload := make([]byte, 4+len(headerBlock))
	binary.BigEndian.PutUint32(payload, promiseID)
	copy(payload[4:], headerBlock)
	return w.framer.WriteRawFrame(http2.FramePushPromise, http2.FlagPushPromiseEndHeaders, streamID, payload)
}

// WriteData writes a single DATA frame. The payload must already fit the
// peer's max frame size; use SplitData when it may not.
func (w *Writer) WriteData(streamID uint32, endStream bool, data []byte) error {
	return w.framer.WriteData(streamID, endStream, data)
}

// SplitData writes payload as ceil(len/maxFrameSize) DATA frames, flagging
// END_STREAM on the final frame iff fin. An empty payload still produces one
// frame so a bare fin reaches the peer.
func (w *Writer) SplitData(streamID uint32, fin bool, payload []byte, maxFrameSize uint32) error {
	if maxFrameSize == 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	for {
		chunk := payload
		if len(chunk) > int(maxFrameSize) {
			chunk = chunk[:maxFrameSize]
		}
		payload = payload[len(chunk):]
		last := len(payload) == 0
		if err := w.framer.WriteData(streamID, last && fin, chunk); err != nil {
			return err
		}
		if last {
			return nil
		}
	}
}

// DataHeader returns the 9-byte frame header for a DATA frame of the given
// payload length, so a caller producing payload bytes out of band can send
// the header ahead of a raw body chunk. The engine's file streaming writes
// whole DATA frames and does not use it.
func DataHeader(streamID uint32, fin bool, length int) [HeaderLen]byte {
	var hdr [HeaderLen]byte
	hdr[0] = byte(length >> 16)
	hdr[1] = byte(length >> 8)
	hdr[2] = byte(length)
	hdr[3] = byte(http2.FrameData)
	if fin {
		hdr[4] = byte(http2.FlagDataEndStream)
	}
	binary.BigEndian.PutUint32(hdr[5:], streamID&0x7fffffff)
	return hdr
}
