package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/diskspace"
	"github.com/romferry/romferry/internal/logging"
	"github.com/romferry/romferry/internal/notify"
	"github.com/romferry/romferry/internal/trace"
)

// Source is the remote side of a transfer. remote.Client satisfies it;
// tests substitute in-memory fakes.
type Source interface {
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
}

// Engine downloads single files from a Source to the local disk. One
// transfer runs at a time; the engine owns the cancel-flag lifecycle
// for the duration of each download.
type Engine struct {
	source     Source
	bus        *notify.Bus
	notifier   *notify.Notifier
	logger     *logging.Logger
	checkSpace bool
	blockSize  int
}

// NewEngine creates a download engine over the given source.
func NewEngine(source Source, bus *notify.Bus, logger *logging.Logger) *Engine {
	return &Engine{
		source:     source,
		bus:        bus,
		logger:     logger,
		checkSpace: true,
		blockSize:  constants.DownloadBlockSize,
	}
}

// SetNotifier attaches a desktop notifier. Nil disables desktop
// notifications; the in-app bus is unaffected.
func (e *Engine) SetNotifier(n *notify.Notifier) {
	e.notifier = n
}

// SetVerifyFreeSpace toggles the pre-transfer disk space check.
func (e *Engine) SetVerifyFreeSpace(enabled bool) {
	e.checkSpace = enabled
}

// Download transfers one remote file to task.LocalPath, updating the
// task as it goes. The flag is reset on entry, then polled between
// blocks; a set flag cancels the transfer and removes the partial file.
//
// The return value is nil on success, ErrCancelled on cancellation and
// a *DownloadError otherwise. Whatever the outcome, no partial file is
// left on disk.
func (e *Engine) Download(ctx context.Context, task *Task, flag *Flag) error {
	flag.Reset()
	trace.Log(task.TraceID(), task.Label, "download", "starting", "started")

	info, err := e.source.Stat(task.RemotePath)
	if err != nil {
		return e.fail(task, err)
	}
	total := info.Size()
	task.Start(total)

	if err := os.MkdirAll(filepath.Dir(task.LocalPath), 0o755); err != nil {
		return e.fail(task, err)
	}

	if e.checkSpace {
		if err := diskspace.CheckAvailableSpace(task.LocalPath, total, 1+constants.DiskSpaceBufferPercent); err != nil {
			return e.fail(task, err)
		}
	}

	src, err := e.source.Open(task.RemotePath)
	if err != nil {
		return e.fail(task, err)
	}

	dst, err := os.Create(task.LocalPath)
	if err != nil {
		src.Close()
		return e.fail(task, err)
	}

	e.logger.Info().
		Str("remote", task.RemotePath).
		Str("local", task.LocalPath).
		Int64("bytes", total).
		Msg("download started")

	var (
		read      int64
		cancelled bool
		loopErr   error
	)

	buf := make([]byte, e.blockSize)
	for {
		// Cancellation is observed between blocks, never mid-read.
		if flag.IsSet() {
			e.bus.Info("Download aborted by user")
			cancelled = true
			break
		}
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				loopErr = werr
				break
			}
			read += int64(n)
			task.UpdateProgress(read)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			loopErr = rerr
			break
		}
	}

	// Both ends close before any cleanup so the partial file is
	// removable on every platform.
	src.Close()
	if cerr := dst.Close(); cerr != nil && loopErr == nil {
		loopErr = cerr
	}

	if loopErr != nil {
		return e.fail(task, loopErr)
	}

	if cancelled {
		task.SetState(TaskCancelled)
		e.logger.Info().Str("remote", task.RemotePath).Int64("bytes", read).Msg("download cancelled")
		e.removePartial(task, false)
		return ErrCancelled
	}

	if total == 0 || read >= total {
		task.SetState(TaskSucceeded)
		e.bus.Successf("Download complete: %s", filepath.Base(task.LocalPath))
		if e.notifier != nil {
			e.notifier.DownloadComplete(task.Label, task.LocalPath)
		}
		e.logger.Info().Str("local", task.LocalPath).Int64("bytes", read).Msg("download complete")
		return nil
	}

	// Short read: EOF arrived before the declared size. Treated like a
	// failure for state and cleanup, but without the failure alert.
	derr := &DownloadError{
		Path: task.RemotePath,
		Err:  fmt.Errorf("incomplete transfer: %d of %d bytes", read, total),
	}
	task.SetError(derr)
	e.logger.Error().
		Str("remote", task.RemotePath).
		Int64("read", read).
		Int64("expected", total).
		Msg("download truncated")
	e.removePartial(task, false)
	return derr
}

// Start runs Download on its own goroutine and returns a channel that
// delivers the result exactly once. The channel is buffered so the
// worker never blocks if the receiver is gone by completion time.
func (e *Engine) Start(ctx context.Context, task *Task, flag *Flag) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- e.Download(ctx, task, flag)
	}()
	return done
}

// fail handles every error path: mark the task failed, surface the
// error in-app and on the desktop, then clean up whatever reached disk.
func (e *Engine) fail(task *Task, err error) error {
	derr := &DownloadError{Path: task.RemotePath, Err: err}
	task.SetError(derr)
	e.bus.Errorf("Download failed: %v", err)
	e.logger.Error().Err(err).Str("remote", task.RemotePath).Msg("download failed")
	if e.notifier != nil {
		e.notifier.DownloadFailed(task.Label, err.Error())
	}
	e.removePartial(task, true)
	return derr
}

// removePartial deletes whatever exists at the task's local path. A
// removal failure is surfaced on the bus and logged but never changes
// the task's terminal state.
func (e *Engine) removePartial(task *Task, afterError bool) {
	if _, err := os.Stat(task.LocalPath); err != nil {
		return
	}
	if err := os.Remove(task.LocalPath); err != nil {
		cerr := &CleanupError{Path: task.LocalPath, Err: err}
		e.bus.Errorf("Failed to remove partial file: %v", err)
		e.logger.Error().Err(cerr).Msg("partial file cleanup failed")
		return
	}
	if afterError {
		e.bus.Info("Removed partial file after error")
	} else {
		e.bus.Info("Removed partial file")
	}
}
