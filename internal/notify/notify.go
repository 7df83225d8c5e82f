package notify

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/romferry/romferry/internal/logging"
)

// Notifier handles desktop notifications.
type Notifier struct {
	logger       *logging.Logger
	enabled      bool
	showComplete bool
	showFailed   bool
	mu           sync.RWMutex
}

// Config holds desktop notification configuration.
type Config struct {
	// Enabled determines if notifications are sent.
	Enabled bool

	// ShowDownloadComplete shows notifications for successful downloads.
	ShowDownloadComplete bool

	// ShowDownloadFailed shows notifications for failed downloads.
	ShowDownloadFailed bool
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:              true,
		ShowDownloadComplete: true,
		ShowDownloadFailed:   true,
	}
}

// NewNotifier creates a new notifier with the given configuration.
func NewNotifier(cfg *Config, logger *logging.Logger) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Notifier{
		logger:       logger,
		enabled:      cfg.Enabled,
		showComplete: cfg.ShowDownloadComplete,
		showFailed:   cfg.ShowDownloadFailed,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// DownloadComplete sends a notification for a successful download.
func (n *Notifier) DownloadComplete(name string, outputPath string) {
	if !n.IsEnabled() || !n.showComplete {
		return
	}

	title := "Download Complete"
	message := fmt.Sprintf("\"%s\" downloaded to:\n%s", truncate(name, 40), shortenPath(outputPath))

	if err := n.send(title, message); err != nil {
		n.logger.Warn().Err(err).Str("file", name).Msg("Failed to send download complete notification")
	}
}

// DownloadFailed sends a notification for a failed download.
func (n *Notifier) DownloadFailed(name string, errorMsg string) {
	if !n.IsEnabled() || !n.showFailed {
		return
	}

	title := "Download Failed"
	message := fmt.Sprintf("\"%s\" failed:\n%s", truncate(name, 40), truncate(errorMsg, 100))

	if err := n.send(title, message); err != nil {
		n.logger.Warn().Err(err).Str("file", name).Msg("Failed to send download failed notification")
	}
}

// BatchComplete sends a notification when a multi-file download finishes.
func (n *Notifier) BatchComplete(completed, total int) {
	if !n.IsEnabled() || !n.showComplete || total < 2 {
		return
	}

	title := "RomFerry"
	message := fmt.Sprintf("Batch finished: %d of %d file(s) downloaded.", completed, total)

	if err := n.send(title, message); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to send batch complete notification")
	}
}

// send is the internal method that actually sends the notification.
func (n *Notifier) send(title, message string) error {
	// beeep.Notify is cross-platform:
	// - Windows: Uses toast notifications
	// - macOS: Uses NSUserNotificationCenter
	// - Linux: Uses D-Bus notifications
	return beeep.Notify(title, message, "")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// shortenPath abbreviates a long path for display in notifications.
func shortenPath(path string) string {
	const maxLen = 60

	if len(path) <= maxLen {
		return path
	}

	// Try to show drive/root + ... + last 2 path components
	_, file := filepath.Split(path)
	parentDir := filepath.Base(filepath.Dir(path))

	// Build shortened path
	short := filepath.Join("...", parentDir, file)

	// Add volume/drive if there's room
	vol := filepath.VolumeName(path)
	if vol != "" && len(vol)+len(short)+1 <= maxLen {
		short = vol + string(filepath.Separator) + short
	}

	// If still too long, just truncate
	if len(short) > maxLen {
		return "..." + path[len(path)-(maxLen-3):]
	}

	return short
}

// Alert sends an alert notification (error level).
// This is for critical issues that require user attention.
func (n *Notifier) Alert(message string) {
	if !n.IsEnabled() {
		return
	}

	title := "RomFerry Alert"

	// Use beeep.Alert which shows a more prominent notification on some platforms
	if err := beeep.Alert(title, message, ""); err != nil {
		// Fall back to regular notify
		if err := n.send(title, message); err != nil {
			n.logger.Error().Err(err).Str("message", message).Msg("Failed to send alert notification")
		}
	}
}

// Beep sends an audible beep notification.
// Useful for drawing attention without a visual notification.
func (n *Notifier) Beep() {
	if !n.IsEnabled() {
		return
	}

	// beeep.Beep() plays a system beep sound
	_ = beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}
