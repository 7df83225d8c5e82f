// Package session holds the navigation state machine driving the TUI:
// which screen is showing, what the cursor points at, which results and
// selections are live, and when transfer workers start and finish. It
// consumes abstract commands from internal/ui and exposes a View for
// rendering, so it never touches the terminal itself.
package session

// Command is one discrete navigation action. The input layer has
// already debounced and auto-repeated raw key events by the time a
// Command reaches the orchestrator.
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdLeft
	CmdRight
	CmdConfirm
	CmdBack
	CmdToggleMulti
	CmdStartBatch
	CmdQuit
)

// String returns the command name for logging.
func (c Command) String() string {
	switch c {
	case CmdNone:
		return "none"
	case CmdUp:
		return "up"
	case CmdDown:
		return "down"
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdConfirm:
		return "confirm"
	case CmdBack:
		return "back"
	case CmdToggleMulti:
		return "toggle-multi"
	case CmdStartBatch:
		return "start-batch"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}
