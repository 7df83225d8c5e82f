package session

import (
	"fmt"
	"path"

	"github.com/romferry/romferry/internal/progress"
)

// View is one frame's worth of render state. The drawing layer reads
// it and nothing else, so session stays terminal-free and the renderer
// stays logic-free.
type View struct {
	State State

	// Menu screens
	Title   string
	Options []string
	Cursor  int
	Scroll  int
	Footer  string

	// Multi-select decoration on the results screen. Marked is nil
	// unless multi-select is on.
	MultiOn     bool
	Marked      *Selection
	MarkedCount int

	// Query input screen
	Prompt string
	Input  string
	Keys   [][]string
	KeyRow int
	KeyCol int

	// Transfer screens
	ProgressTitle string
	Fraction      float64
	Percent       float64
	SpeedMBps     float64
	ETA           string
}

// View builds the render state for the current screen. visibleRows is
// how many menu entries fit on screen; the scroll window follows the
// cursor so it always stays visible.
func (o *Orchestrator) View(visibleRows int) View {
	v := View{State: o.state, MultiOn: o.multiOn}

	switch o.state {
	case StatePlatformSelect:
		v.Title = "Select Platform"
		o.fillMenu(&v, visibleRows, true)

	case StateConfirmExit:
		v.Title = "Are you sure you want to exit the Downloader?"
		o.fillMenu(&v, visibleRows, false)

	case StateQueryInput:
		v.Prompt = fmt.Sprintf("Search in %s (ENTER to confirm)", o.platform)
		v.Input = o.keyboard.Text()
		v.Keys = o.keyboard.Rows()
		v.KeyRow, v.KeyCol = o.keyboard.Cursor()
		v.Footer = "Arrows = Move | Enter = Select | Esc = Back"

	case StateNoResults:
		v.Title = "No results. What next?"
		o.fillMenu(&v, visibleRows, false)

	case StateResultsList:
		v.Title = "Results"
		o.fillMenu(&v, visibleRows, true)
		v.Footer += " | M = Toggle Multi-Select | R = Start Multi-Select Download"
		if o.multiOn {
			v.Marked = o.selection
			v.MarkedCount = o.selection.Len()
			v.Footer += fmt.Sprintf(" | Multi: ON (%d selected)", v.MarkedCount)
		} else {
			v.Footer += " | Multi: OFF"
		}

	case StateConfirmSingle:
		v.Title = fmt.Sprintf("Download '%s'?", o.pendingLabel)
		o.fillMenu(&v, visibleRows, false)

	case StateDownloading, StateBatchRunning:
		o.fillProgress(&v)

	case StatePostAction:
		v.Title = "What next?"
		o.fillMenu(&v, visibleRows, false)
	}

	return v
}

func (o *Orchestrator) fillMenu(v *View, visibleRows int, allowBack bool) {
	v.Options = o.options()
	v.Cursor = o.cursor

	if visibleRows > 0 {
		if o.cursor < o.scroll {
			o.scroll = o.cursor
		} else if o.cursor >= o.scroll+visibleRows {
			o.scroll = o.cursor - visibleRows + 1
		}
	}
	v.Scroll = o.scroll

	v.Footer = "Arrows = Navigate | Enter = Select"
	if allowBack {
		v.Footer += " | Esc = Back"
	}
}

func (o *Orchestrator) fillProgress(v *View) {
	o.mu.Lock()
	task := o.current
	index, total := o.batchIndex, o.batchTotal
	o.mu.Unlock()

	v.Footer = "Press Esc to cancel download"
	if task == nil {
		// The worker has not reached its first item yet.
		v.ProgressTitle = "Preparing download..."
		return
	}

	snap := task.Snapshot()
	name := path.Base(snap.Label)
	if o.state == StateBatchRunning && total > 0 {
		v.ProgressTitle = fmt.Sprintf("Downloading %d/%d: %s", index, total, name)
	} else {
		v.ProgressTitle = fmt.Sprintf("Downloading: %s", name)
	}

	totalBytes := snap.TotalBytes
	if totalBytes < 1 {
		totalBytes = 1
	}
	v.Fraction = float64(snap.BytesRead) / float64(totalBytes)
	v.Percent = v.Fraction * 100
	v.SpeedMBps = snap.Speed / (1024 * 1024)
	v.ETA = progress.FormatETA(snap.ETA)
}
