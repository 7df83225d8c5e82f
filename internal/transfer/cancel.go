package transfer

import (
	"sync/atomic"
)

// Flag is the level-triggered cancellation signal shared by the UI and
// the download worker. The UI sets it; the worker polls it between
// blocks, so cancellation latency is bounded by one in-flight block
// read. It stays set until explicitly reset, which happens at the start
// of every download and unconditionally at batch end.
type Flag struct {
	set atomic.Bool
}

// Set requests cancellation.
func (f *Flag) Set() {
	f.set.Store(true)
}

// IsSet reports whether cancellation has been requested.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Reset clears the flag so later transfers start unaffected.
func (f *Flag) Reset() {
	f.set.Store(false)
}
