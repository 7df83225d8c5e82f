//go:build windows
// +build windows

package progress

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableVirtualTerminal switches the console into virtual terminal
// mode so the bar's ANSI sequences render instead of printing raw.
// Failure to read the mode leaves the console untouched.
func enableVirtualTerminal(f *os.File) {
	handle := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return
	}
	_ = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
