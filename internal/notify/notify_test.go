package notify

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("Expected Enabled to be true by default")
	}
	if !cfg.ShowDownloadComplete {
		t.Error("Expected ShowDownloadComplete to be true by default")
	}
	if !cfg.ShowDownloadFailed {
		t.Error("Expected ShowDownloadFailed to be true by default")
	}
}

func TestNewNotifier(t *testing.T) {
	// Nil config falls back to defaults
	n := NewNotifier(nil, nil)
	if n == nil {
		t.Fatal("NewNotifier returned nil")
	}
	if !n.IsEnabled() {
		t.Error("Expected notifier to be enabled by default")
	}

	cfg := &Config{Enabled: false}
	n2 := NewNotifier(cfg, nil)
	if n2.IsEnabled() {
		t.Error("Expected notifier to be disabled when config.Enabled=false")
	}
}

func TestSetEnabled(t *testing.T) {
	n := NewNotifier(nil, nil)

	if !n.IsEnabled() {
		t.Error("Expected initially enabled")
	}

	n.SetEnabled(false)
	if n.IsEnabled() {
		t.Error("Expected disabled after SetEnabled(false)")
	}

	n.SetEnabled(true)
	if !n.IsEnabled() {
		t.Error("Expected enabled after SetEnabled(true)")
	}
}

func TestNotifierDisabled_NoSend(t *testing.T) {
	// When disabled, every notification method must be a silent no-op.
	// None of these may reach the desktop or touch the nil logger.
	cfg := &Config{Enabled: false}
	n := NewNotifier(cfg, nil)

	n.DownloadComplete("Super Mario World.sfc", "/downloads/snes/Super Mario World.sfc")
	n.DownloadFailed("Super Mario World.sfc", "connection reset")
	n.BatchComplete(3, 5)
	n.Alert("test alert")
	n.Beep()
}

func TestNotifierPerKindGates(t *testing.T) {
	// Enabled overall but with both per-kind switches off: download
	// notifications must not fire. A send attempt would hit the nil
	// logger on failure, so surviving these calls proves the gate.
	cfg := &Config{
		Enabled:              true,
		ShowDownloadComplete: false,
		ShowDownloadFailed:   false,
	}
	n := NewNotifier(cfg, nil)

	n.DownloadComplete("game.iso", "/downloads/ps1/game.iso")
	n.DownloadFailed("game.iso", "stat failed")
	n.BatchComplete(2, 2)
}

func TestBatchCompleteSkipsSingleItem(t *testing.T) {
	// A one-item batch is just a download; the dedicated download
	// notification already covered it.
	cfg := &Config{Enabled: true, ShowDownloadComplete: true, ShowDownloadFailed: true}
	n := NewNotifier(cfg, nil)

	n.BatchComplete(1, 1)
	n.BatchComplete(0, 0)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a long string", 10, "this is..."},
		{"", 10, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

func TestShortenPath(t *testing.T) {
	tests := []struct {
		input string
		short bool // expect it to be shortened
	}{
		{"/downloads/snes/game.sfc", false},
		{"/a/very/long/destination/path/that/exceeds/the/maximum/length/for/notification/display/game.sfc", true},
	}

	for _, tt := range tests {
		result := shortenPath(tt.input)
		if tt.short && len(result) >= len(tt.input) {
			t.Errorf("shortenPath(%q) was not shortened: %q", tt.input, result)
		}
		if !tt.short && result != tt.input {
			t.Errorf("shortenPath(%q) changed a short path: %q", tt.input, result)
		}
	}
}
