// Package diskspace provides utilities for checking available disk space
// across different operating systems and file systems.
package diskspace

import (
	"fmt"
)

// InsufficientSpaceError indicates that there is not enough disk space available.
type InsufficientSpaceError struct {
	Path           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	requiredMB := float64(e.RequiredBytes) / (1024 * 1024)
	availableMB := float64(e.AvailableBytes) / (1024 * 1024)
	return fmt.Sprintf("insufficient disk space for %s: need %.2f MB, have %.2f MB available",
		e.Path, requiredMB, availableMB)
}

// CheckAvailableSpace checks if there is sufficient disk space available
// for a file operation. It checks the filesystem where the target path
// will be created.
//
// Parameters:
//   - targetPath: The path where the file will be created (can be non-existent)
//   - requiredBytes: The number of bytes needed
//   - safetyMargin: Multiplier for safety (e.g., 1.05 for 5% buffer)
//
// Returns an InsufficientSpaceError if there is not enough space. If the
// filesystem cannot be statted at all (network mounts, virtual
// filesystems) the check passes so the operation can fail naturally.
func CheckAvailableSpace(targetPath string, requiredBytes int64, safetyMargin float64) error {
	availableBytes := GetAvailableSpace(targetPath)
	if availableBytes == 0 {
		return nil
	}

	// Apply safety margin to required bytes
	requiredWithMargin := int64(float64(requiredBytes) * safetyMargin)

	if availableBytes < requiredWithMargin {
		return &InsufficientSpaceError{
			Path:           targetPath,
			RequiredBytes:  requiredWithMargin,
			AvailableBytes: availableBytes,
		}
	}

	return nil
}

// IsInsufficientSpaceError checks if an error is an InsufficientSpaceError
func IsInsufficientSpaceError(err error) bool {
	_, ok := err.(*InsufficientSpaceError)
	return ok
}
