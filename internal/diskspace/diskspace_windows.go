//go:build windows

package diskspace

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

// GetAvailableSpace returns the available space in bytes for the filesystem
// containing the given path. Returns 0 if unable to determine.
func GetAvailableSpace(path string) int64 {
	// Stat the containing directory; the target itself may not exist yet
	dir := filepath.Dir(path)

	pathPtr, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0
	}

	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0
	}

	return int64(freeBytesAvailable)
}
