// Package cowboy provides the public API of the HTTP/2 server connection
// engine: configuration, server lifecycle, and helpers for stream handlers.
package cowboy

import (
	"io"
	"log"
	"time"

	"golang.org/x/net/http2"
)

// Config holds the server configuration options.
type Config struct {
	Addr         string      // Server address to bind to
	Multicore    bool        // Enable multicore mode for better performance
	NumEventLoop int         // Number of event loops (0 for auto-detect)
	ReusePort    bool        // Enable SO_REUSEPORT for load balancing
	Logger       *log.Logger // Logger for server events

	// Settings is advertised in the initial SETTINGS frame.
	Settings []http2.Setting
	// PrefaceTimeout bounds the client's connection preface.
	PrefaceTimeout time.Duration
	// SettingsTimeout bounds the peer's SETTINGS acknowledgement.
	SettingsTimeout time.Duration
	// IdleTimeout closes connections with no traffic.
	IdleTimeout time.Duration
	// HandlerOpts is passed verbatim to every handler Init call.
	HandlerOpts any
}

// newSilentLogger creates a logger that discards all output.
func newSilentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Multicore:       true,
		NumEventLoop:    0, // Auto-detect
		ReusePort:       true,
		Logger:          newSilentLogger(),
		PrefaceTimeout:  5 * time.Second,
		SettingsTimeout: 5 * time.Second,
		IdleTimeout:     60 * time.Second,
		Settings: []http2.Setting{
			{ID: http2.SettingMaxConcurrentStreams, Val: 100},
			{ID: http2.SettingMaxFrameSize, Val: 16384},
		},
	}
}

// Validate checks and normalizes the configuration values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.PrefaceTimeout == 0 {
		c.PrefaceTimeout = 5 * time.Second
	}
	if c.SettingsTimeout == 0 {
		c.SettingsTimeout = 5 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	for i, s := range c.Settings {
		if s.ID != http2.SettingMaxFrameSize {
			continue
		}
		if s.Val < 16384 {
			c.Settings[i].Val = 16384
		}
		if s.Val > (1<<24)-1 {
			c.Settings[i].Val = (1 << 24) - 1
		}
	}
	return nil
}
