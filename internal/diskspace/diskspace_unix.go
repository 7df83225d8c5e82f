//go:build !windows

package diskspace

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// GetAvailableSpace returns the available space in bytes for the filesystem
// containing the given path. Returns 0 if unable to determine.
func GetAvailableSpace(path string) int64 {
	// Stat the containing directory; the target itself may not exist yet
	dir := filepath.Dir(path)

	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0
	}

	// Bavail = blocks available to non-root users
	return int64(stat.Bavail) * int64(stat.Bsize)
}
