package ui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/session"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func keyEvent(key tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(key, r, tcell.ModNone)
}

func TestMapperKeyBindings(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		want session.Command
	}{
		{"arrow up", keyEvent(tcell.KeyUp, 0), session.CmdUp},
		{"arrow down", keyEvent(tcell.KeyDown, 0), session.CmdDown},
		{"arrow left", keyEvent(tcell.KeyLeft, 0), session.CmdLeft},
		{"arrow right", keyEvent(tcell.KeyRight, 0), session.CmdRight},
		{"w", keyEvent(tcell.KeyRune, 'w'), session.CmdUp},
		{"s", keyEvent(tcell.KeyRune, 's'), session.CmdDown},
		{"a", keyEvent(tcell.KeyRune, 'a'), session.CmdLeft},
		{"d", keyEvent(tcell.KeyRune, 'd'), session.CmdRight},
		{"upper W", keyEvent(tcell.KeyRune, 'W'), session.CmdUp},
		{"enter", keyEvent(tcell.KeyEnter, 0), session.CmdConfirm},
		{"escape", keyEvent(tcell.KeyEsc, 0), session.CmdBack},
		{"m", keyEvent(tcell.KeyRune, 'm'), session.CmdToggleMulti},
		{"upper M", keyEvent(tcell.KeyRune, 'M'), session.CmdToggleMulti},
		{"r", keyEvent(tcell.KeyRune, 'r'), session.CmdStartBatch},
		{"q", keyEvent(tcell.KeyRune, 'q'), session.CmdQuit},
		{"ctrl-c", keyEvent(tcell.KeyCtrlC, 0), session.CmdQuit},
		{"unbound rune", keyEvent(tcell.KeyRune, 'z'), session.CmdNone},
		{"unbound key", keyEvent(tcell.KeyTab, 0), session.CmdNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMapper(newFakeClock().now)
			if got := m.Map(tc.ev); got != tc.want {
				t.Errorf("Map(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestMapperRepeatPacing(t *testing.T) {
	clock := newFakeClock()
	m := NewMapper(clock.now)
	up := keyEvent(tcell.KeyUp, 0)

	if got := m.Map(up); got != session.CmdUp {
		t.Fatalf("first press = %v, want CmdUp", got)
	}

	// Events inside the initial delay are swallowed.
	clock.advance(30 * time.Millisecond)
	if got := m.Map(up); got != session.CmdNone {
		t.Fatalf("press at 30ms = %v, want CmdNone", got)
	}
	clock.advance(30 * time.Millisecond)
	if got := m.Map(up); got != session.CmdNone {
		t.Fatalf("press at 60ms = %v, want CmdNone", got)
	}

	// Past the delay, the stream passes at the repeat rate.
	clock.advance(70 * time.Millisecond)
	if got := m.Map(up); got != session.CmdUp {
		t.Fatalf("press at 130ms = %v, want CmdUp", got)
	}
	clock.advance(30 * time.Millisecond)
	if got := m.Map(up); got != session.CmdNone {
		t.Fatalf("press 30ms after repeat = %v, want CmdNone", got)
	}
	clock.advance(20 * time.Millisecond)
	if got := m.Map(up); got != session.CmdUp {
		t.Fatalf("press 50ms after repeat = %v, want CmdUp", got)
	}
}

func TestMapperDirectionChangeRestartsHold(t *testing.T) {
	clock := newFakeClock()
	m := NewMapper(clock.now)

	if got := m.Map(keyEvent(tcell.KeyUp, 0)); got != session.CmdUp {
		t.Fatalf("up = %v", got)
	}
	clock.advance(30 * time.Millisecond)
	if got := m.Map(keyEvent(tcell.KeyDown, 0)); got != session.CmdDown {
		t.Fatalf("down after up = %v, want immediate CmdDown", got)
	}
	clock.advance(30 * time.Millisecond)
	if got := m.Map(keyEvent(tcell.KeyUp, 0)); got != session.CmdUp {
		t.Fatalf("up after down = %v, want immediate CmdUp", got)
	}
}

func TestMapperHoldGapEndsHold(t *testing.T) {
	clock := newFakeClock()
	m := NewMapper(clock.now)
	down := keyEvent(tcell.KeyDown, 0)

	if got := m.Map(down); got != session.CmdDown {
		t.Fatalf("first press = %v", got)
	}
	clock.advance(30 * time.Millisecond)
	if got := m.Map(down); got != session.CmdNone {
		t.Fatalf("held press = %v, want CmdNone", got)
	}

	// A silence longer than the hold window means the key was released;
	// the next press is a fresh tap.
	clock.advance(constants.HoldGap + 50*time.Millisecond)
	if got := m.Map(down); got != session.CmdDown {
		t.Fatalf("press after gap = %v, want CmdDown", got)
	}
}

func TestMapperAxesAreIndependent(t *testing.T) {
	clock := newFakeClock()
	m := NewMapper(clock.now)

	if got := m.Map(keyEvent(tcell.KeyUp, 0)); got != session.CmdUp {
		t.Fatalf("up = %v", got)
	}
	clock.advance(10 * time.Millisecond)
	if got := m.Map(keyEvent(tcell.KeyRight, 0)); got != session.CmdRight {
		t.Fatalf("right during vertical hold = %v, want CmdRight", got)
	}
	clock.advance(10 * time.Millisecond)
	if got := m.Map(keyEvent(tcell.KeyUp, 0)); got != session.CmdNone {
		t.Fatalf("held up = %v, want CmdNone", got)
	}
	if got := m.Map(keyEvent(tcell.KeyRight, 0)); got != session.CmdNone {
		t.Fatalf("held right = %v, want CmdNone", got)
	}
}

func TestMapperButtonDebounce(t *testing.T) {
	clock := newFakeClock()
	m := NewMapper(clock.now)
	enter := keyEvent(tcell.KeyEnter, 0)

	if got := m.Map(enter); got != session.CmdConfirm {
		t.Fatalf("first enter = %v", got)
	}
	clock.advance(100 * time.Millisecond)
	if got := m.Map(enter); got != session.CmdNone {
		t.Fatalf("enter inside debounce = %v, want CmdNone", got)
	}
	clock.advance(150 * time.Millisecond)
	if got := m.Map(enter); got != session.CmdConfirm {
		t.Fatalf("enter after debounce = %v, want CmdConfirm", got)
	}
}

func TestMapperDebouncePerCommand(t *testing.T) {
	clock := newFakeClock()
	m := NewMapper(clock.now)

	if got := m.Map(keyEvent(tcell.KeyEnter, 0)); got != session.CmdConfirm {
		t.Fatalf("enter = %v", got)
	}
	// A different button is not held back by enter's debounce window.
	if got := m.Map(keyEvent(tcell.KeyEsc, 0)); got != session.CmdBack {
		t.Fatalf("escape right after enter = %v, want CmdBack", got)
	}
}
