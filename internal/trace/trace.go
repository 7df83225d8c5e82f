// Package trace records the lifecycle of every transfer in memory for
// post-mortem inspection. Line output is off by default; SetOutput
// routes it to stdout in verbose CLI runs or into the TUI log file.
package trace

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// TransferTrace tracks a download through the system
type TransferTrace struct {
	ID          int64
	Item        string
	Stage       string
	Status      string
	Timestamp   time.Time
	GoroutineID uint64
	Location    string
	Phase       string // "queued", "started", "completed", "failed", "cancelled"
}

var (
	traces      sync.Map // map[int64][]TransferTrace
	transferSeq int64
	traceActive int32 = 1 // Set to 0 to disable tracing
	output            = log.New(io.Discard, "", log.LstdFlags)
)

// NewTraceID creates a new transfer trace ID
func NewTraceID() int64 {
	return atomic.AddInt64(&transferSeq, 1)
}

// SetEnabled toggles trace recording at runtime
func SetEnabled(on bool) {
	if on {
		atomic.StoreInt32(&traceActive, 1)
	} else {
		atomic.StoreInt32(&traceActive, 0)
	}
}

// SetOutput routes trace lines to the given writer. Traces keep
// accumulating in memory regardless.
func SetOutput(w io.Writer) {
	output = log.New(w, "", log.LstdFlags)
}

// Log records a trace point for a transfer
func Log(traceID int64, item, stage, status, phase string) {
	if atomic.LoadInt32(&traceActive) == 0 {
		return
	}

	t := TransferTrace{
		ID:          traceID,
		Item:        item,
		Stage:       stage,
		Status:      status,
		Timestamp:   time.Now(),
		GoroutineID: getGoroutineID(),
		Location:    getCaller(3),
		Phase:       phase,
	}

	var traceList []TransferTrace
	if existing, ok := traces.Load(traceID); ok {
		traceList = existing.([]TransferTrace)
	}
	traceList = append(traceList, t)
	traces.Store(traceID, traceList)

	output.Printf("[TRACE-%d] %s | item=%s stage=%s status=%s | goroutine=%d | %s",
		traceID, phase, item, stage, status, t.GoroutineID, t.Location)
}

// GetTrace retrieves all trace points for a transfer
func GetTrace(traceID int64) []TransferTrace {
	if val, ok := traces.Load(traceID); ok {
		return val.([]TransferTrace)
	}
	return nil
}

// DumpAll writes every recorded trace to w, one transfer per block.
// The crash handler calls it after the stack so a panic mid-transfer
// shows what the worker was doing.
func DumpAll(w io.Writer) {
	fmt.Fprintln(w, "=== TRANSFER TRACES ===")
	traces.Range(func(key, value interface{}) bool {
		traceID := key.(int64)
		traceList := value.([]TransferTrace)
		fmt.Fprintf(w, "transfer %d:\n", traceID)
		for _, t := range traceList {
			fmt.Fprintf(w, "  [%s] %s - item=%s stage=%s status=%s (goroutine %d)\n",
				t.Timestamp.Format("15:04:05.000"), t.Phase, t.Item, t.Stage, t.Status, t.GoroutineID)
		}
		return true
	})
	fmt.Fprintln(w, "=== END TRACES ===")
}

// GetStats returns statistics about traced transfers
func GetStats() map[string]int {
	stats := make(map[string]int)
	traces.Range(func(key, value interface{}) bool {
		traceList := value.([]TransferTrace)
		stats["total_transfers"]++

		phases := make(map[string]bool)
		for _, t := range traceList {
			phases[t.Phase] = true
		}

		if phases["queued"] {
			stats["queued"]++
		}
		if phases["started"] {
			stats["started"]++
		}
		if phases["completed"] {
			stats["completed"]++
		}
		if phases["failed"] {
			stats["failed"]++
		}
		if phases["cancelled"] {
			stats["cancelled"]++
		}

		return true
	})
	return stats
}

// Stack returns the current goroutine's stack, for the crash handler.
func Stack() string {
	buf := make([]byte, 64<<10)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Parse goroutine ID from stack trace like "goroutine 123 [running]:"
	var id uint64
	fmt.Sscanf(string(buf[:n]), "goroutine %d", &id)
	return id
}

func getCaller(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return fmt.Sprintf("%s:%d", fn.Name(), line)
}
