package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// FetchUI renders one progress bar per file for the fetch command.
// On a terminal it uses an mpb multi-bar; otherwise it degrades to
// plain start/finish lines so logs stay readable.
type FetchUI struct {
	progress   *mpb.Progress
	isTerminal bool
	totalFiles int
}

// FileBar is the progress handle for one file in a fetch run.
type FileBar struct {
	bar        *mpb.Bar
	ui         *FetchUI
	index      int
	remoteName string
	localPath  string
	size       int64
	startTime  time.Time
	lastUpdate time.Time
	lastBytes  int64
}

// NewFetchUI creates a fetch UI sized for the given number of files.
func NewFetchUI(totalFiles int) *FetchUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		enableVirtualTerminal(os.Stderr)

		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(100),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &FetchUI{
		progress:   p,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// AddFileBar creates the progress bar for one file download.
func (u *FetchUI) AddFileBar(index int, remoteName, localPath string, size int64) *FileBar {
	destPath := truncatePath(localPath, 2)

	fb := &FileBar{
		ui:         u,
		index:      index,
		remoteName: remoteName,
		localPath:  localPath,
		size:       size,
		startTime:  time.Now(),
		lastUpdate: time.Now(),
	}

	if u.isTerminal {
		fb.bar = u.progress.New(size,
			mpb.BarStyle().
				Lbound("[").
				Filler("█").
				Tip("█").
				Padding("░").
				Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("[%d/%d] %s (%.1f MiB) ← %s",
					index, u.totalFiles,
					destPath,
					float64(size)/(1024*1024),
					remoteName), decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				decor.Name("  "),
				decor.Any(func(s decor.Statistics) string {
					pct := float64(s.Current) / float64(s.Total) * 100
					if s.Total == 0 {
						pct = 0
					}
					return fmt.Sprintf("%6.2f%%", pct)
				}, decor.WCSyncSpace),
				decor.Name("  "),
				decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 60, decor.WCSyncSpace),
				decor.Name("  "),
				decor.Name("ETA ", decor.WCSyncWidth),
				decor.EwmaETA(decor.ET_STYLE_GO, 60),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		fmt.Printf("Downloading [%d/%d]: %s (%.1f MiB) ← %s\n",
			index, u.totalFiles,
			destPath,
			float64(size)/(1024*1024),
			remoteName)
	}

	return fb
}

// UpdateProgress moves the bar to the given completion fraction. The
// caller drives it from a ticker; mpb needs the call even when no bytes
// moved so the EWMA speed keeps tracking elapsed time. Updates are
// throttled to one per refresh interval.
func (f *FileBar) UpdateProgress(fraction float64) {
	if f.bar == nil {
		return
	}

	now := time.Now()
	elapsed := now.Sub(f.lastUpdate)

	const updateInterval = 300 * time.Millisecond
	if elapsed < updateInterval {
		return
	}

	currentBytes := int64(fraction * float64(f.size))
	f.bar.EwmaIncrBy(int(currentBytes-f.lastBytes), elapsed)
	f.lastBytes = currentBytes
	f.lastUpdate = now
}

// Complete finishes the bar and prints the per-file summary line.
// A nil error completes the bar; anything else aborts it in place so
// the failure stays visible.
func (f *FileBar) Complete(err error) {
	elapsed := time.Since(f.startTime)
	speed := float64(f.size) / elapsed.Seconds() / (1024 * 1024)

	var msg string
	if err == nil {
		if f.bar != nil {
			// Settle on exactly 100% so rounding never leaves a bar at 99%
			f.bar.SetCurrent(f.size)
			f.bar.SetTotal(f.size, true)
		}
		msg = fmt.Sprintf("✓ %s ← %s (%.1f MiB, %s, %.1f MiB/s)\n",
			truncatePath(f.localPath, 2),
			f.remoteName,
			float64(f.size)/(1024*1024),
			elapsed.Round(time.Second),
			speed)
	} else {
		if f.bar != nil {
			f.bar.Abort(false)
		}
		msg = fmt.Sprintf("✗ %s ← %s: %v\n",
			truncatePath(f.localPath, 2),
			f.remoteName,
			err)
	}

	// Summaries go through mpb's writer so they print above the live
	// bars instead of tearing them
	if f.ui.isTerminal && f.ui.progress != nil {
		f.ui.progress.Write([]byte(msg))
	} else {
		fmt.Print(msg)
	}
}

// Skip prints the skip line for a file that needs no transfer. No bar
// is created for skipped files.
func (u *FetchUI) Skip(index int, remoteName, localPath, reason string) {
	msg := fmt.Sprintf("⊘ [%d/%d] %s ← %s (%s)\n",
		index, u.totalFiles,
		truncatePath(localPath, 2),
		remoteName,
		reason)
	if u.isTerminal && u.progress != nil {
		u.progress.Write([]byte(msg))
	} else {
		fmt.Print(msg)
	}
}

// Wait blocks until every bar has rendered its final state.
func (u *FetchUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// truncatePath shortens a path to its last maxComponents components
// for display.
func truncatePath(path string, maxComponents int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= maxComponents {
		return filepath.Base(path)
	}
	relevant := parts[len(parts)-maxComponents:]
	return "…/" + strings.Join(relevant, "/")
}
