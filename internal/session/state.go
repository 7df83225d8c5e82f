package session

// State identifies the screen the session is currently on.
type State int

const (
	// StatePlatformSelect shows the platform directories on the server.
	StatePlatformSelect State = iota

	// StateConfirmExit asks before leaving from the platform screen.
	StateConfirmExit

	// StateQueryInput collects a search query on the virtual keyboard.
	StateQueryInput

	// StateNoResults offers next steps after a search matched nothing.
	StateNoResults

	// StateResultsList shows search matches, with optional multi-select.
	StateResultsList

	// StateConfirmSingle asks before downloading one file.
	StateConfirmSingle

	// StateDownloading renders a single transfer in flight.
	StateDownloading

	// StateBatchRunning renders a multi-select batch in flight.
	StateBatchRunning

	// StatePostAction asks what to do after a transfer finishes.
	StatePostAction
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StatePlatformSelect:
		return "platform-select"
	case StateConfirmExit:
		return "confirm-exit"
	case StateQueryInput:
		return "query-input"
	case StateNoResults:
		return "no-results"
	case StateResultsList:
		return "results-list"
	case StateConfirmSingle:
		return "confirm-single"
	case StateDownloading:
		return "downloading"
	case StateBatchRunning:
		return "batch-running"
	case StatePostAction:
		return "post-action"
	default:
		return "unknown"
	}
}
