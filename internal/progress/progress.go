// Package progress renders transfer feedback for the headless fetch
// mode: a spinner while the remote tree is enumerated, an mpb
// multi-bar for the downloads, and the ETA formatting shared with the
// TUI progress screen.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ScanSpinner shows an indeterminate spinner on stderr while a remote
// platform tree is enumerated. stderr keeps it out of piped output; on
// a non-terminal it degrades to a single line. A nil spinner is valid
// and silent, so callers that already know the file set pass nil.
type ScanSpinner struct {
	platform string
	bar      *progressbar.ProgressBar
}

// NewScanSpinner starts a spinner for the given platform.
func NewScanSpinner(platform string) *ScanSpinner {
	s := &ScanSpinner{platform: platform}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", platform)
		return s
	}
	s.bar = progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Scanning %s", platform)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return s
}

// Found updates the running match count shown next to the spinner.
func (s *ScanSpinner) Found(n int) {
	if s == nil || s.bar == nil {
		return
	}
	s.bar.Describe(fmt.Sprintf("Scanning %s: %d file(s)", s.platform, n))
}

// Done stops the spinner and clears its line.
func (s *ScanSpinner) Done() {
	if s == nil || s.bar == nil {
		return
	}
	_ = s.bar.Finish()
}
