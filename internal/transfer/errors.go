package transfer

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when a transfer is cancelled by the user.
var ErrCancelled = errors.New("transfer cancelled by user")

// DownloadError wraps a non-fatal failure of a single download: a stat,
// open, read or write that went wrong. The batch keeps going after one.
type DownloadError struct {
	Path string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for %s: %v", e.Path, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// IsDownloadError checks if an error is a DownloadError.
func IsDownloadError(err error) bool {
	var de *DownloadError
	return errors.As(err, &de)
}

// CleanupError records a failure to delete a partial file after an
// unsuccessful download. It is reported but never changes the task's
// terminal state.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("failed to remove partial file %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}
