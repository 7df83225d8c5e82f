package ui

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/session"
)

// repeater paces one axis of directional input. A direction change or a
// gap longer than the hold window starts a fresh hold, which moves
// immediately; inside a hold, events are swallowed for the initial
// delay and then pass at most one per repeat interval.
type repeater struct {
	held      session.Command
	holdStart time.Time
	lastSeen  time.Time
	lastEmit  time.Time
}

func (r *repeater) press(cmd session.Command, now time.Time) bool {
	if cmd != r.held || now.Sub(r.lastSeen) > constants.HoldGap {
		r.held = cmd
		r.holdStart = now
		r.lastSeen = now
		r.lastEmit = now
		return true
	}
	r.lastSeen = now
	if now.Sub(r.holdStart) < constants.RepeatDelay {
		return false
	}
	if now.Sub(r.lastEmit) < constants.RepeatRate {
		return false
	}
	r.lastEmit = now
	return true
}

// Mapper turns terminal key events into navigation commands, applying
// directional repeat pacing and per-command debounce. One Mapper serves
// the whole session; it is not safe for concurrent use.
type Mapper struct {
	now        func() time.Time
	vertical   repeater
	horizontal repeater
	lastPress  map[session.Command]time.Time
}

// NewMapper creates a mapper on the given clock. Production passes
// time.Now; tests pass a controlled clock.
func NewMapper(now func() time.Time) *Mapper {
	return &Mapper{
		now:       now,
		lastPress: make(map[session.Command]time.Time),
	}
}

// Map translates one key event. CmdNone means the event was swallowed:
// an unbound key, a debounced button, or a paced-out repeat.
func (m *Mapper) Map(ev *tcell.EventKey) session.Command {
	now := m.now()

	switch ev.Key() {
	case tcell.KeyUp:
		return m.direction(&m.vertical, session.CmdUp, now)
	case tcell.KeyDown:
		return m.direction(&m.vertical, session.CmdDown, now)
	case tcell.KeyLeft:
		return m.direction(&m.horizontal, session.CmdLeft, now)
	case tcell.KeyRight:
		return m.direction(&m.horizontal, session.CmdRight, now)
	case tcell.KeyEnter:
		return m.button(session.CmdConfirm, now)
	case tcell.KeyEsc:
		return m.button(session.CmdBack, now)
	case tcell.KeyCtrlC:
		return session.CmdQuit
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'w':
			return m.direction(&m.vertical, session.CmdUp, now)
		case 's':
			return m.direction(&m.vertical, session.CmdDown, now)
		case 'a':
			return m.direction(&m.horizontal, session.CmdLeft, now)
		case 'd':
			return m.direction(&m.horizontal, session.CmdRight, now)
		case 'm':
			return m.button(session.CmdToggleMulti, now)
		case 'r':
			return m.button(session.CmdStartBatch, now)
		case 'q':
			return session.CmdQuit
		}
	}
	return session.CmdNone
}

func (m *Mapper) direction(r *repeater, cmd session.Command, now time.Time) session.Command {
	if r.press(cmd, now) {
		return cmd
	}
	return session.CmdNone
}

func (m *Mapper) button(cmd session.Command, now time.Time) session.Command {
	if last, ok := m.lastPress[cmd]; ok && now.Sub(last) < constants.ButtonDebounce {
		return session.CmdNone
	}
	m.lastPress[cmd] = now
	return cmd
}
