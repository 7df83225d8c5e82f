// Package ui is the terminal frontend: it owns the tcell screen, maps
// key events to navigation commands, and renders the session's view on
// a fixed tick. All session logic stays in internal/session; this
// package only draws and forwards input.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/logging"
	"github.com/romferry/romferry/internal/notify"
	"github.com/romferry/romferry/internal/session"
)

// UI drives one interactive session on a terminal.
type UI struct {
	orch   *session.Orchestrator
	bus    *notify.Bus
	logger *logging.Logger
}

// New creates the frontend for an orchestrator that has already been
// started.
func New(orch *session.Orchestrator, bus *notify.Bus, logger *logging.Logger) *UI {
	return &UI{
		orch:   orch,
		bus:    bus,
		logger: logger,
	}
}

// Run opens the terminal and blocks until the session ends. The
// terminal is restored before it returns, whatever the exit path.
func (u *UI) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return u.run(ctx, screen)
}

// run is the foreground loop, split from Run so tests can drive it on a
// simulation screen. It selects over the frame ticker, the input event
// stream, and the completion channel of whichever worker is in flight;
// a nil completion channel is never ready, so both cases are always in
// the select.
func (u *UI) run(ctx context.Context, screen tcell.Screen) error {
	screen.SetStyle(styleBG)
	screen.HideCursor()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	mapper := NewMapper(time.Now)
	ticker := time.NewTicker(constants.FrameInterval)
	defer ticker.Stop()

	u.render(screen)
	for !u.orch.ShouldQuit() {
		select {
		case <-ctx.Done():
			u.orch.Handle(ctx, session.CmdQuit)

		case <-ticker.C:
			u.render(screen)

		case err := <-u.orch.DownloadDone():
			u.orch.FinishDownload(err)
			u.render(screen)

		case out := <-u.orch.BatchDone():
			u.orch.FinishBatch(out)
			u.render(screen)

		case ev, ok := <-events:
			if !ok {
				u.orch.Handle(ctx, session.CmdQuit)
				continue
			}
			switch tev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				u.render(screen)
			case *tcell.EventKey:
				if cmd := mapper.Map(tev); cmd != session.CmdNone {
					u.orch.Handle(ctx, cmd)
					u.render(screen)
				}
			}
		}
	}

	// The worker must stop touching the connection before the caller
	// closes it.
	u.orch.Drain()
	return u.orch.Err()
}

func (u *UI) render(screen tcell.Screen) {
	_, h := screen.Size()
	v := u.orch.View(menuVisibleRows(h))
	draw(screen, v, u.bus.Active(), time.Now())
}
