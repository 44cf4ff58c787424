// Package stream holds the per-stream state machine, the stream table, and
// the handler-facing contract of the HTTP/2 connection engine: requests,
// commands, and termination reasons.
package stream

import (
	"fmt"
	"sync"
)

// LocalState tracks how far the engine has progressed sending the response
// for a stream. It only ever moves forward: Idle -> NoFin -> Fin.
type LocalState int

const (
	// LocalIdle means no response HEADERS have been sent.
	LocalIdle LocalState = iota
	// LocalNoFin means HEADERS are out but the body is not finished.
	LocalNoFin
	// LocalFin means the response is complete.
	LocalFin
)

func (s LocalState) String() string {
	switch s {
	case LocalIdle:
		return "idle"
	case LocalNoFin:
		return "nofin"
	case LocalFin:
		return "fin"
	}
	return fmt.Sprintf("LocalState(%d)", int(s))
}

// RemoteState tracks whether the peer has closed its send side.
type RemoteState int

const (
	// RemoteNoFin means the peer may still send DATA.
	RemoteNoFin RemoteState = iota
	// RemoteFin means the peer has sent END_STREAM.
	RemoteFin
)

// Stream is one entry in the connection's stream table. All fields are
// owned by the connection's execution context; no internal locking.
type Stream struct {
	ID           uint32
	Local        LocalState
	Remote       RemoteState
	BodyLength   int64 // cumulative DATA bytes received
	HandlerState State
}

// Manager indexes the active streams of one connection and the worker tasks
// handlers have registered against them.
type Manager struct {
	mu               sync.RWMutex
	streams          map[uint32]*Stream
	lastClientStream uint32
	nextPromisedID   uint32
	children         map[uint32][]func()
}

// NewManager creates an empty stream table. Server-initiated stream ids
// start at 2 per RFC 7540 §5.1.1.
func NewManager() *Manager {
	return &Manager{
		streams:        make(map[uint32]*Stream),
		nextPromisedID: 2,
		children:       make(map[uint32][]func()),
	}
}

// ObserveClientStream validates a client-initiated stream id: odd and
// strictly greater than every previously accepted client id. On success the
// high-water mark advances.
func (m *Manager) ObserveClientStream(id uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == 0 {
		return fmt.Errorf("stream id 0 is reserved")
	}
	if id%2 == 0 {
		return fmt.Errorf("client sent even-numbered stream id %d", id)
	}
	if id <= m.lastClientStream {
		return fmt.Errorf("stream id %d is not greater than last stream %d", id, m.lastClientStream)
	}
	m.lastClientStream = id
	return nil
}

// LastClientStream returns the highest accepted client-initiated stream id.
func (m *Manager) LastClientStream() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastClientStream
}

// ReservePromisedID returns the next server-initiated (even) stream id and
// advances the counter by two.
func (m *Manager) ReservePromisedID() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextPromisedID
	m.nextPromisedID += 2
	return id
}

// Create inserts a new stream into the table.
func (m *Manager) Create(id uint32) *Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Stream{ID: id}
	m.streams[id] = s
	return s
}

// Get returns the stream with the given id.
func (m *Manager) Get(id uint32) (*Stream, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.streams[id]
	return s, ok
}

// Delete removes a stream from the table.
func (m *Manager) Delete(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.streams, id)
}

// Count returns the number of streams in the table.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.streams)
}

// Snapshot returns the current streams in unspecified order. Used for
// whole-connection termination, where each stream is terminated exactly once.
func (m *Manager) Snapshot() []*Stream {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Stream, 0, len(m.streams))
	for _, s := range m.streams {
		out = append(out, s)
	}
	return out
}

// RegisterChild records a worker task stop function against a stream. The
// function runs when the stream or the connection terminates.
func (m *Manager) RegisterChild(streamID uint32, stop func()) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[streamID] = append(m.children[streamID], stop)
}

// StopChildren cancels and forgets the worker tasks of one stream.
func (m *Manager) StopChildren(streamID uint32) {
	m.mu.Lock()
	stops := m.children[streamID]
	delete(m.children, streamID)
	m.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

// StopAllChildren cancels every registered worker task. Called on
// connection shutdown.
func (m *Manager) StopAllChildren() {
	m.mu.Lock()
	all := m.children
	m.children = make(map[uint32][]func())
	m.mu.Unlock()
	for _, stops := range all {
		for _, stop := range stops {
			stop()
		}
	}
}
