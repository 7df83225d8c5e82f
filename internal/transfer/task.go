// Package transfer implements the download engine: single-file transfers
// with progress telemetry, cooperative cancellation, partial-file cleanup
// and strictly sequential batch execution over one SFTP session.
package transfer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/trace"
)

// TaskState represents the current state of a transfer task.
type TaskState string

const (
	TaskPending   TaskState = "pending"   // Created, not yet started
	TaskRunning   TaskState = "running"   // Transferring bytes
	TaskSucceeded TaskState = "succeeded" // Completed fully
	TaskFailed    TaskState = "failed"    // Failed, partial file cleaned up
	TaskCancelled TaskState = "cancelled" // Cancelled by user
)

// Task is one download in flight. The worker goroutine updates it, the
// render loop snapshots it, so every field lives behind the mutex.
// A task is discarded once it reaches a terminal state; it never
// outlives its progress screen.
type Task struct {
	ID         string // Unique task ID
	Label      string // Display label (result-list entry)
	RemotePath string // Absolute path on the server
	LocalPath  string // Destination path on disk

	// State tracking
	State      TaskState
	BytesRead  int64
	TotalBytes int64
	Speed      float64       // bytes/sec over the rolling window
	ETA        time.Duration // advisory, derived from Speed
	Error      error

	// Rolling speed window internals
	windowStart time.Time // last window anchor
	windowBytes int64     // bytes read at the anchor

	// Timestamps
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	traceID int64
	nowFn   func() time.Time
	mu      sync.RWMutex
}

// NewTask creates a pending task for one remote file.
func NewTask(label, remotePath, localPath string) *Task {
	t := &Task{
		ID:         generateTaskID(),
		Label:      label,
		RemotePath: remotePath,
		LocalPath:  localPath,
		State:      TaskPending,
		CreatedAt:  time.Now(),
		traceID:    trace.NewTraceID(),
		nowFn:      time.Now,
	}
	trace.Log(t.traceID, label, "download", "pending", "queued")
	return t
}

// TraceID returns the task's trace correlation ID.
func (t *Task) TraceID() int64 {
	return t.traceID
}

// Start moves the task to running, records the total size and anchors
// the speed window at the transfer start.
func (t *Task) Start(totalBytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.State = TaskRunning
	t.TotalBytes = totalBytes
	now := t.nowFn()
	t.StartedAt = now
	t.windowStart = now
	t.windowBytes = 0
}

// UpdateProgress records the running byte count and, once at least half
// a second has passed since the window anchor, recomputes speed and ETA
// and re-anchors the window. Between anchors the previous telemetry
// values persist; they are advisory only and drive no control decisions.
func (t *Task) UpdateProgress(bytesRead int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.BytesRead = bytesRead

	now := t.nowFn()
	elapsed := now.Sub(t.windowStart)
	if elapsed < constants.SpeedWindowMin {
		return
	}

	t.Speed = float64(bytesRead-t.windowBytes) / elapsed.Seconds()
	remaining := t.TotalBytes - bytesRead
	if remaining < 0 {
		remaining = 0
	}
	etaSec := float64(remaining) / math.Max(t.Speed, constants.SpeedEpsilon)
	t.ETA = time.Duration(etaSec * float64(time.Second))
	t.windowStart = now
	t.windowBytes = bytesRead
}

// GetState returns the current state (thread-safe).
func (t *Task) GetState() TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// SetState updates the task state, stamping terminal transitions.
func (t *Task) SetState(state TaskState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.State = state
	if state == TaskSucceeded || state == TaskFailed || state == TaskCancelled {
		t.CompletedAt = t.nowFn()
		trace.Log(t.traceID, t.Label, "download", string(state), tracePhase(state))
	}
}

// SetError records the error and moves the task to failed.
func (t *Task) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Error = err
	t.State = TaskFailed
	t.CompletedAt = t.nowFn()
	trace.Log(t.traceID, t.Label, "download", err.Error(), "failed")
}

// GetError returns the error if any (thread-safe).
func (t *Task) GetError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Error
}

// Progress returns completion as 0.0-1.0. A zero-byte file reports 0
// until it succeeds.
func (t *Task) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := t.TotalBytes
	if total < 1 {
		total = 1
	}
	return float64(t.BytesRead) / float64(total)
}

// IsTerminal returns true once the task has succeeded, failed or been
// cancelled.
func (t *Task) IsTerminal() bool {
	state := t.GetState()
	return state == TaskSucceeded || state == TaskFailed || state == TaskCancelled
}

// Snapshot returns a copy of the task's observable fields for rendering.
// The copy is detached: mutating it has no effect on the live task.
func (t *Task) Snapshot() Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Task{
		ID:          t.ID,
		Label:       t.Label,
		RemotePath:  t.RemotePath,
		LocalPath:   t.LocalPath,
		State:       t.State,
		BytesRead:   t.BytesRead,
		TotalBytes:  t.TotalBytes,
		Speed:       t.Speed,
		ETA:         t.ETA,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

func tracePhase(state TaskState) string {
	switch state {
	case TaskSucceeded:
		return "completed"
	case TaskFailed:
		return "failed"
	case TaskCancelled:
		return "cancelled"
	default:
		return "started"
	}
}

// ID generation
var (
	taskCounter uint64
	taskMu      sync.Mutex
)

func generateTaskID() string {
	taskMu.Lock()
	defer taskMu.Unlock()
	taskCounter++
	return fmt.Sprintf("task-%d-%d", time.Now().UnixNano(), taskCounter)
}
