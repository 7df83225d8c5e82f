// Package notify delivers user-facing notifications: a timed on-screen
// feed rendered by the TUI, plus optional desktop notifications via
// github.com/gen2brain/beeep.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/logging"
)

// Level classifies a notification for presentation.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// String returns the level name for logging.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a single timed on-screen message.
type Notification struct {
	Message   string
	Level     Level
	CreatedAt time.Time
}

// Age returns how long the notification has been alive at the given instant.
func (n Notification) Age(now time.Time) time.Duration {
	return now.Sub(n.CreatedAt)
}

// Alpha returns the display opacity (0-255) at the given instant.
// Notifications render fully opaque until the fade window at the end of
// their lifetime, then fade linearly to zero.
func (n Notification) Alpha(now time.Time) int {
	elapsed := n.Age(now)
	lifetime := constants.NotificationLifetime
	fade := constants.NotificationFadeWindow

	if elapsed <= lifetime-fade {
		return 255
	}
	remaining := lifetime - elapsed
	alpha := int(255 * float64(remaining) / float64(fade))
	if alpha < 0 {
		return 0
	}
	if alpha > 255 {
		return 255
	}
	return alpha
}

// Bus collects notifications for display. All methods are safe to call
// from any goroutine; the download worker reports errors through the same
// bus the render loop reads from.
type Bus struct {
	mu       sync.Mutex
	items    []Notification
	lifetime time.Duration
	now      func() time.Time
	logger   *logging.Logger
}

// NewBus creates a bus with the standard lifetime and wall clock.
func NewBus() *Bus {
	return NewBusWithClock(constants.NotificationLifetime, time.Now)
}

// NewBusWithClock creates a bus with an explicit lifetime and clock.
// Tests use this to control expiry deterministically.
func NewBusWithClock(lifetime time.Duration, now func() time.Time) *Bus {
	return &Bus{
		lifetime: lifetime,
		now:      now,
	}
}

// SetLogger attaches a logger that mirrors every pushed notification.
// On-screen messages vanish after a few seconds; the mirror keeps them
// in the log file.
func (b *Bus) SetLogger(logger *logging.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
}

// Push appends a notification stamped with the current time.
func (b *Bus) Push(level Level, message string) {
	b.mu.Lock()
	b.items = append(b.items, Notification{
		Message:   message,
		Level:     level,
		CreatedAt: b.now(),
	})
	logger := b.logger
	b.mu.Unlock()

	if logger != nil {
		evt := logger.Info()
		if level == LevelError {
			evt = logger.Error()
		}
		evt.Str("notify", level.String()).Msg(message)
	}
}

// Info pushes an info-level notification.
func (b *Bus) Info(message string) {
	b.Push(LevelInfo, message)
}

// Infof pushes a formatted info-level notification.
func (b *Bus) Infof(format string, args ...interface{}) {
	b.Push(LevelInfo, fmt.Sprintf(format, args...))
}

// Success pushes a success-level notification.
func (b *Bus) Success(message string) {
	b.Push(LevelSuccess, message)
}

// Successf pushes a formatted success-level notification.
func (b *Bus) Successf(format string, args ...interface{}) {
	b.Push(LevelSuccess, fmt.Sprintf(format, args...))
}

// Error pushes an error-level notification.
func (b *Bus) Error(message string) {
	b.Push(LevelError, message)
}

// Errorf pushes a formatted error-level notification.
func (b *Bus) Errorf(format string, args ...interface{}) {
	b.Push(LevelError, fmt.Sprintf(format, args...))
}

// Active drops expired notifications and returns a snapshot of the
// survivors, oldest first. A notification is live while its age is at
// most the bus lifetime. The render loop works from the returned copy,
// so the bus is never held locked while drawing.
func (b *Bus) Active() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	live := b.items[:0]
	for _, n := range b.items {
		if now.Sub(n.CreatedAt) <= b.lifetime {
			live = append(live, n)
		}
	}
	b.items = live

	out := make([]Notification, len(b.items))
	copy(out, b.items)
	return out
}

// Len reports the number of notifications currently stored, including
// any that have expired but not yet been swept.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
