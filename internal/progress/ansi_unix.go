//go:build !windows
// +build !windows

package progress

import "os"

// enableVirtualTerminal is a no-op where ANSI sequences work natively.
func enableVirtualTerminal(*os.File) {}
