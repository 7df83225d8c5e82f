package transfer

import (
	"context"
	"errors"
)

// BatchItem is one queued download: a display label plus the resolved
// remote and local paths.
type BatchItem struct {
	Label      string
	RemotePath string
	LocalPath  string
}

// BatchOutcome summarizes a finished batch run.
type BatchOutcome struct {
	Total     int
	Attempted int
	Succeeded int
	Cancelled bool
}

// Batch runs a slice of downloads strictly in order on the calling
// goroutine. One item transfers at a time; cancellation abandons the
// rest of the queue, any other per-item failure moves on to the next.
type Batch struct {
	engine  *Engine
	flag    *Flag
	items   []BatchItem
	onStart func(index, total int, task *Task)
}

// NewBatch creates a batch over the given items. The slice is used as
// given; ordering is the caller's.
func NewBatch(engine *Engine, flag *Flag, items []BatchItem) *Batch {
	return &Batch{
		engine: engine,
		flag:   flag,
		items:  items,
	}
}

// OnStart registers a callback invoked before each item begins, with a
// 1-based index and the batch total. The UI uses it to retitle the
// progress screen.
func (b *Batch) OnStart(fn func(index, total int, task *Task)) {
	b.onStart = fn
}

// Run executes the batch. The cancel flag is cleared when Run returns,
// whatever the outcome, so a stale request can never leak into the
// next transfer.
func (b *Batch) Run(ctx context.Context) BatchOutcome {
	defer b.flag.Reset()

	out := BatchOutcome{Total: len(b.items)}
	for i, item := range b.items {
		if ctx.Err() != nil {
			out.Cancelled = true
			return out
		}

		task := NewTask(item.Label, item.RemotePath, item.LocalPath)
		if b.onStart != nil {
			b.onStart(i+1, out.Total, task)
		}

		out.Attempted++
		err := b.engine.Download(ctx, task, b.flag)
		switch {
		case err == nil:
			out.Succeeded++
		case errors.Is(err, ErrCancelled):
			out.Cancelled = true
			return out
		default:
			// Already reported by the engine; the queue keeps going.
		}
	}

	if b.engine.notifier != nil {
		b.engine.notifier.BatchComplete(out.Succeeded, out.Total)
	}
	return out
}

// Start runs the batch on its own goroutine and returns a channel that
// delivers the outcome exactly once.
func (b *Batch) Start(ctx context.Context) <-chan BatchOutcome {
	done := make(chan BatchOutcome, 1)
	go func() {
		done <- b.Run(ctx)
	}()
	return done
}
