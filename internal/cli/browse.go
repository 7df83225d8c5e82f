package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/romferry/romferry/internal/config"
	"github.com/romferry/romferry/internal/logging"
	"github.com/romferry/romferry/internal/notify"
	"github.com/romferry/romferry/internal/pathutil"
	"github.com/romferry/romferry/internal/remote"
	"github.com/romferry/romferry/internal/session"
	"github.com/romferry/romferry/internal/trace"
	"github.com/romferry/romferry/internal/transfer"
	"github.com/romferry/romferry/internal/ui"
)

// runBrowse wires the full interactive stack: config, SFTP session,
// download engine, session orchestrator and the terminal frontend.
func runBrowse() (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ep, err := config.ParseConnectionString(cfg.Connection.URI)
	if err != nil {
		return err
	}
	dest, err := pathutil.ResolveAbsolutePath(cfg.Download.DestDir)
	if err != nil {
		return fmt.Errorf("resolve destination %q: %w", cfg.Download.DestDir, err)
	}

	// The terminal belongs to the browser from here on; logs and trace
	// lines go to the cache file instead of stdout.
	tlog := logging.NewLogger(logging.ModeTUI)
	defer tlog.Close()
	if f := tlog.File(); f != nil {
		trace.SetOutput(f)
	} else {
		trace.SetOutput(io.Discard)
	}

	// Panic recovery: the alternate screen is already restored when
	// this fires, so the trace stays readable.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, trace.Stack())
			trace.DumpAll(os.Stderr)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	fmt.Printf("Connecting to %s...\n", ep.Redacted())
	client, err := remote.Connect(ep, cfg.Connection.Proxy, tlog)
	if err != nil {
		return err
	}
	defer client.Close()

	bus := notify.NewBus()
	engine := transfer.NewEngine(client, bus, tlog)
	engine.SetVerifyFreeSpace(cfg.Download.VerifyFreeSpace)
	if cfg.Notifications.Enabled {
		engine.SetNotifier(notify.NewNotifier(&notify.Config{
			Enabled:              true,
			ShowDownloadComplete: cfg.Notifications.ShowDownloadComplete,
			ShowDownloadFailed:   cfg.Notifications.ShowDownloadFailed,
		}, tlog))
	}

	flag := &transfer.Flag{}
	orch := session.New(client, session.EngineTransfers{Engine: engine, Flag: flag}, flag, bus, tlog, session.Config{
		RemoteRoot: cfg.Connection.RemoteRoot,
		DestDir:    dest,
	})
	if err := orch.Start(); err != nil {
		return err
	}

	err = ui.New(orch, bus, tlog).Run(GetContext())
	tlog.Info().Interface("transfers", trace.GetStats()).Msg("session finished")
	return err
}
