package cowboy

import (
	"testing"
	"time"

	"golang.org/x/net/http2"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Addr != ":8080" {
		t.Errorf("Expected default addr :8080, got %s", config.Addr)
	}

	if !config.Multicore {
		t.Error("Expected multicore to be true by default")
	}

	if !config.ReusePort {
		t.Error("Expected ReusePort to be true by default")
	}

	if config.PrefaceTimeout != 5*time.Second {
		t.Errorf("Expected PrefaceTimeout 5s, got %v", config.PrefaceTimeout)
	}

	if config.SettingsTimeout != 5*time.Second {
		t.Errorf("Expected SettingsTimeout 5s, got %v", config.SettingsTimeout)
	}

	if config.IdleTimeout != 60*time.Second {
		t.Errorf("Expected IdleTimeout 60s, got %v", config.IdleTimeout)
	}

	if config.Logger == nil {
		t.Error("Expected default logger to be set")
	}

	if len(config.Settings) == 0 {
		t.Error("Expected default SETTINGS to be advertised")
	}
}

func TestConfig_Validate(t *testing.T) {
	config := Config{}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if config.Addr != ":8080" {
		t.Errorf("Expected addr normalized to :8080, got %s", config.Addr)
	}
	if config.PrefaceTimeout != 5*time.Second {
		t.Errorf("Expected PrefaceTimeout normalized to 5s, got %v", config.PrefaceTimeout)
	}
	if config.IdleTimeout != 60*time.Second {
		t.Errorf("Expected IdleTimeout normalized to 60s, got %v", config.IdleTimeout)
	}
	if config.Logger == nil {
		t.Error("Expected logger to be set after Validate")
	}
}

func TestConfig_ValidateClampsMaxFrameSize(t *testing.T) {
	config := Config{
		Settings: []http2.Setting{
			{ID: http2.SettingMaxFrameSize, Val: 100},
		},
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if config.Settings[0].Val != 16384 {
		t.Errorf("Expected MaxFrameSize clamped to 16384, got %d", config.Settings[0].Val)
	}

	config = Config{
		Settings: []http2.Setting{
			{ID: http2.SettingMaxFrameSize, Val: 1 << 25},
		},
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if config.Settings[0].Val != (1<<24)-1 {
		t.Errorf("Expected MaxFrameSize clamped to 2^24-1, got %d", config.Settings[0].Val)
	}
}
