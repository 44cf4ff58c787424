package transport

import (
	"context"
	"log"
	"net"
	"sync"
	"time"

	"github.com/panjf2000/gnet/v2"
	"golang.org/x/net/http2"

	"github.com/potatosalad/cowboy/internal/h2/stream"
)

// Server implements the gnet.EventHandler interface and feeds accepted
// connections into engine Conn instances.
type Server struct {
	gnet.BuiltinEventEngine
	handler      stream.Handler
	opts         Options
	addr         string
	multicore    bool
	numEventLoop int
	reusePort    bool
	logger       *log.Logger
	engine       gnet.Engine

	activeConns   []gnet.Conn
	activeConnsMu sync.Mutex
}

// Config defines the listener and engine configuration for the server.
type Config struct {
	Addr         string
	Multicore    bool
	NumEventLoop int
	ReusePort    bool
	Logger       *log.Logger
	Engine       Options
}

// NewServer creates an HTTP/2 server with a gnet transport engine.
func NewServer(handler stream.Handler, config Config) *Server {
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	config.Engine.Logger = config.Logger
	return &Server{
		handler:      handler,
		opts:         config.Engine,
		addr:         config.Addr,
		multicore:    config.Multicore,
		numEventLoop: config.NumEventLoop,
		reusePort:    config.ReusePort,
		logger:       config.Logger,
	}
}

// Start runs the gnet event loop. It blocks until the engine stops.
func (s *Server) Start() error {
	options := []gnet.Option{
		gnet.WithMulticore(s.multicore),
		gnet.WithReusePort(s.reusePort),
		gnet.WithTCPNoDelay(gnet.TCPNoDelay),
	}
	if s.numEventLoop > 0 {
		options = append(options, gnet.WithNumEventLoop(s.numEventLoop))
	}
	s.logger.Printf("Starting HTTP/2 server on %s", s.addr)
	return gnet.Run(s, "tcp://"+s.addr, options...)
}

// Stop gracefully stops the server: GOAWAY to every live connection, a
// bounded drain, then engine shutdown.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Println("Initiating graceful shutdown...")

	s.activeConnsMu.Lock()
	conns := make([]gnet.Conn, len(s.activeConns))
	copy(conns, s.activeConns)
	s.activeConnsMu.Unlock()

	for _, gc := range conns {
		if conn, ok := gc.Context().(*Conn); ok {
			drainConn(ctx, conn)
		}
	}
	for _, gc := range conns {
		_ = gc.Close()
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := s.engine.Stop(stopCtx); err != nil {
		s.logger.Printf("Error stopping gnet engine: %v", err)
	}
	s.logger.Println("Server shutdown complete")
	return nil
}

// drainConn sends GOAWAY, waits briefly for a connection's streams to
// finish, then shuts it down.
func drainConn(ctx context.Context, conn *Conn) {
	conn.mu.Lock()
	if !conn.closed {
		conn.sendGoAway(http2.ErrCodeNo, "shutting down")
	}
	conn.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(time.Second)
	}
	for conn.StreamCount() > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			conn.Shutdown()
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
	conn.Shutdown()
}

// OnBoot is called when the server is ready to accept connections.
func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.engine = eng
	s.logger.Printf("HTTP/2 server is listening on %s (multicore: %v)", s.addr, s.multicore)
	return gnet.None
}

// OnOpen starts the engine for a newly accepted connection. The engine
// sends the server SETTINGS frame from its constructor.
func (s *Server) OnOpen(gc gnet.Conn) ([]byte, gnet.Action) {
	conn := NewConn(&gnetTransport{conn: gc}, s.handler, s.opts)
	gc.SetContext(conn)

	s.activeConnsMu.Lock()
	s.activeConns = append(s.activeConns, gc)
	s.activeConnsMu.Unlock()

	if verboseLogging {
		s.logger.Printf("New connection from %s", gc.RemoteAddr())
	}
	return nil, gnet.None
}

// OnClose is called when a connection is closed.
func (s *Server) OnClose(gc gnet.Conn, err error) gnet.Action {
	if conn, ok := gc.Context().(*Conn); ok {
		conn.SocketClosed(err)
	}

	s.activeConnsMu.Lock()
	for i, tracked := range s.activeConns {
		if tracked == gc {
			s.activeConns[i] = s.activeConns[len(s.activeConns)-1]
			s.activeConns = s.activeConns[:len(s.activeConns)-1]
			break
		}
	}
	s.activeConnsMu.Unlock()

	if err != nil {
		s.logger.Printf("Connection closed with error: %v", err)
	}
	return gnet.None
}

// OnTraffic feeds received bytes into the connection's parse engine.
func (s *Server) OnTraffic(gc gnet.Conn) gnet.Action {
	conn, ok := gc.Context().(*Conn)
	if !ok {
		s.logger.Printf("Connection context not found")
		return gnet.Close
	}
	buf, err := gc.Next(-1)
	if err != nil {
		s.logger.Printf("Error reading data: %v", err)
		return gnet.Close
	}
	conn.Receive(buf)
	if conn.Closed() {
		return gnet.Close
	}
	return gnet.None
}

// gnetTransport adapts a gnet.Conn to the engine's Transport contract.
// Sends copy the payload: gnet's async writer may outlive the caller's
// buffer.
type gnetTransport struct {
	conn gnet.Conn
}

func (t *gnetTransport) Send(p []byte) error {
	data := make([]byte, len(p))
	copy(data, p)
	return t.conn.AsyncWrite(data, nil)
}

func (t *gnetTransport) Close() error {
	return t.conn.Close()
}

func (t *gnetTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}
