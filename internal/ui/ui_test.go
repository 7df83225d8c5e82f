package ui

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/romferry/romferry/internal/logging"
	"github.com/romferry/romferry/internal/notify"
	"github.com/romferry/romferry/internal/session"
	"github.com/romferry/romferry/internal/transfer"
)

type fakeRemote struct {
	platforms []string
}

func (f *fakeRemote) Platforms(root string) ([]string, error) {
	return f.platforms, nil
}

func (f *fakeRemote) Search(ctx context.Context, baseDir, query string, limit int, onError func(path string, err error)) []string {
	return nil
}

type fakeTransfers struct{}

func (f *fakeTransfers) StartSingle(ctx context.Context, task *transfer.Task) <-chan error {
	ch := make(chan error, 1)
	ch <- nil
	return ch
}

func (f *fakeTransfers) StartBatch(ctx context.Context, items []transfer.BatchItem, onStart func(index, total int, task *transfer.Task)) <-chan transfer.BatchOutcome {
	ch := make(chan transfer.BatchOutcome, 1)
	ch <- transfer.BatchOutcome{}
	return ch
}

func newTestUI(t *testing.T) *UI {
	t.Helper()
	logger := logging.NewDefaultCLILogger()
	logger.SetOutput(io.Discard)
	bus := notify.NewBus()
	flag := &transfer.Flag{}

	orch := session.New(&fakeRemote{platforms: []string{"snes"}}, &fakeTransfers{}, flag, bus, logger,
		session.Config{RemoteRoot: "/roms", DestDir: "downloads"})
	if err := orch.Start(); err != nil {
		t.Fatalf("start session: %v", err)
	}
	return New(orch, bus, logger)
}

func runOnSimScreen(t *testing.T, ctx context.Context, u *UI, prime func(tcell.SimulationScreen)) error {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(80, 24)
	if prime != nil {
		prime(screen)
	}

	done := make(chan error, 1)
	go func() { done <- u.run(ctx, screen) }()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not exit")
		return nil
	}
}

func TestRunQuitsOnQ(t *testing.T) {
	u := newTestUI(t)
	err := runOnSimScreen(t, context.Background(), u, func(s tcell.SimulationScreen) {
		s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	})
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	u := newTestUI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runOnSimScreen(t, ctx, u, nil); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}
