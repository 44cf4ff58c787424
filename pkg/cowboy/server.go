package cowboy

import (
	"context"
	"fmt"

	"github.com/potatosalad/cowboy/internal/h2/stream"
	"github.com/potatosalad/cowboy/internal/h2/transport"
)

// Handler is the stream handler contract the engine drives. See the stream
// package for the command set and request record.
type Handler = stream.Handler

// Server accepts HTTP/2 connections and drives them through the engine.
type Server struct {
	config    Config
	handler   Handler
	transport *transport.Server
}

// New creates a new Server with the provided configuration.
func New(config Config) *Server {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return &Server{config: config}
}

// NewWithDefaults creates a new Server with default configuration.
func NewWithDefaults() *Server {
	return New(DefaultConfig())
}

// Handler sets the stream handler and returns the server for chaining.
func (s *Server) Handler(handler Handler) *Server {
	s.handler = handler
	return s
}

// ListenAndServe sets the handler and starts the server.
func (s *Server) ListenAndServe(handler Handler) error {
	s.handler = handler
	return s.Start()
}

// Start begins accepting HTTP/2 connections. It blocks until Stop.
func (s *Server) Start() error {
	if s.handler == nil {
		return fmt.Errorf("handler not set")
	}
	s.transport = transport.NewServer(s.handler, transport.Config{
		Addr:         s.config.Addr,
		Multicore:    s.config.Multicore,
		NumEventLoop: s.config.NumEventLoop,
		ReusePort:    s.config.ReusePort,
		Logger:       s.config.Logger,
		Engine: transport.Options{
			Settings:        s.config.Settings,
			PrefaceTimeout:  s.config.PrefaceTimeout,
			SettingsTimeout: s.config.SettingsTimeout,
			IdleTimeout:     s.config.IdleTimeout,
			HandlerOpts:     s.config.HandlerOpts,
		},
	})
	return s.transport.Start()
}

// Stop gracefully shuts down the server, draining active streams.
func (s *Server) Stop(ctx context.Context) error {
	if s.transport != nil {
		return s.transport.Stop(ctx)
	}
	return nil
}
