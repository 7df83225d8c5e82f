package remote

import (
	"errors"
	"fmt"
)

// ConnectionError wraps a failure to establish the SSH transport or the
// SFTP session on top of it. Connection errors are fatal to an
// interactive session; everything else in this package is recoverable.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("SFTP connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError checks if an error is a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// ListError wraps a failed directory listing. The affected subtree is
// skipped; siblings keep being traversed.
type ListError struct {
	Path string
	Err  error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// IsListError checks if an error is a ListError.
func IsListError(err error) bool {
	var le *ListError
	return errors.As(err, &le)
}
