package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/logging"
	"github.com/romferry/romferry/internal/notify"
	"github.com/romferry/romferry/internal/pathutil"
	"github.com/romferry/romferry/internal/transfer"
)

// Remote is the server surface the orchestrator drives. remote.Client
// satisfies it; tests substitute fakes.
type Remote interface {
	Platforms(root string) ([]string, error)
	Search(ctx context.Context, baseDir, query string, limit int, onError func(path string, err error)) []string
}

// Transfers starts download workers and hands back their completion
// channels. EngineTransfers is the production implementation.
type Transfers interface {
	StartSingle(ctx context.Context, task *transfer.Task) <-chan error
	StartBatch(ctx context.Context, items []transfer.BatchItem, onStart func(index, total int, task *transfer.Task)) <-chan transfer.BatchOutcome
}

// EngineTransfers adapts a transfer.Engine and its shared cancel flag
// to the Transfers surface.
type EngineTransfers struct {
	Engine *transfer.Engine
	Flag   *transfer.Flag
}

func (e EngineTransfers) StartSingle(ctx context.Context, task *transfer.Task) <-chan error {
	return e.Engine.Start(ctx, task, e.Flag)
}

func (e EngineTransfers) StartBatch(ctx context.Context, items []transfer.BatchItem, onStart func(index, total int, task *transfer.Task)) <-chan transfer.BatchOutcome {
	b := transfer.NewBatch(e.Engine, e.Flag, items)
	b.OnStart(onStart)
	return b.Start(ctx)
}

// Config carries the two paths the orchestrator resolves against.
type Config struct {
	RemoteRoot string
	DestDir    string
}

// Menu entries shared between handlers and the view.
const (
	optNo             = "No"
	optYes            = "Yes"
	optNewSearch      = "New Search"
	optChangePlatform = "Change Platform"
	optExit           = "Exit"
	optChooseAnother  = "Choose Another File"
)

// Orchestrator is the session state machine. All methods except the
// worker-invoked progress callback run on the foreground loop, so the
// navigation state needs no locking; only the fields the worker writes
// live behind the mutex.
type Orchestrator struct {
	remote    Remote
	transfers Transfers
	flag      *transfer.Flag
	bus       *notify.Bus
	logger    *logging.Logger

	remoteRoot string
	destDir    string

	state     State
	platforms []string
	platform  string
	keyboard  *Keyboard
	results   *ResultSet
	selection *Selection
	multiOn   bool

	cursor int
	scroll int

	pendingLabel string

	// Written by the worker through the batch OnStart callback, read
	// by the render loop.
	mu         sync.Mutex
	current    *transfer.Task
	batchIndex int
	batchTotal int

	downloadDone <-chan error
	batchDone    <-chan transfer.BatchOutcome

	quit bool
	err  error
}

// New creates an orchestrator. Call Start before handling commands.
func New(remote Remote, transfers Transfers, flag *transfer.Flag, bus *notify.Bus, logger *logging.Logger, cfg Config) *Orchestrator {
	return &Orchestrator{
		remote:     remote,
		transfers:  transfers,
		flag:       flag,
		bus:        bus,
		logger:     logger,
		remoteRoot: cfg.RemoteRoot,
		destDir:    cfg.DestDir,
		keyboard:   NewKeyboard(),
		selection:  NewSelection(),
		state:      StatePlatformSelect,
	}
}

// Start lists the platforms and enters the first screen. An empty or
// unlistable platform directory is fatal.
func (o *Orchestrator) Start() error {
	o.enterPlatformSelect()
	return o.err
}

// Handle applies one navigation command to the current state. Runs on
// the foreground loop only.
func (o *Orchestrator) Handle(ctx context.Context, cmd Command) {
	if cmd == CmdQuit {
		o.requestQuit()
		return
	}

	switch o.state {
	case StatePlatformSelect:
		o.handlePlatformSelect(cmd)
	case StateConfirmExit:
		o.handleConfirmExit(cmd)
	case StateQueryInput:
		o.handleQueryInput(ctx, cmd)
	case StateNoResults:
		o.handleNoResults(cmd)
	case StateResultsList:
		o.handleResultsList(ctx, cmd)
	case StateConfirmSingle:
		o.handleConfirmSingle(ctx, cmd)
	case StateDownloading, StateBatchRunning:
		o.handleTransferring(cmd)
	case StatePostAction:
		o.handlePostAction(cmd)
	}
}

func (o *Orchestrator) handlePlatformSelect(cmd Command) {
	switch cmd {
	case CmdUp:
		o.moveMenu(-1)
	case CmdDown:
		o.moveMenu(1)
	case CmdConfirm:
		if len(o.platforms) == 0 {
			return
		}
		o.platform = o.platforms[o.cursor]
		if o.results != nil && o.results.Platform == o.platform {
			o.toMenu(StateResultsList)
			return
		}
		o.enterQueryInput()
	case CmdBack:
		o.toMenu(StateConfirmExit)
	}
}

func (o *Orchestrator) handleConfirmExit(cmd Command) {
	switch cmd {
	case CmdUp:
		o.moveMenu(-1)
	case CmdDown:
		o.moveMenu(1)
	case CmdConfirm:
		if o.options()[o.cursor] == optYes {
			o.quit = true
			return
		}
		o.enterPlatformSelect()
	}
}

func (o *Orchestrator) handleQueryInput(ctx context.Context, cmd Command) {
	switch cmd {
	case CmdUp, CmdDown, CmdLeft, CmdRight:
		o.keyboard.Move(cmd)
	case CmdConfirm:
		if query, done := o.keyboard.Press(); done {
			o.runSearch(ctx, query)
		}
	case CmdBack:
		o.platform = ""
		o.enterPlatformSelect()
	}
}

func (o *Orchestrator) handleNoResults(cmd Command) {
	switch cmd {
	case CmdUp:
		o.moveMenu(-1)
	case CmdDown:
		o.moveMenu(1)
	case CmdConfirm:
		switch o.options()[o.cursor] {
		case optNewSearch:
			o.enterQueryInput()
		case optChangePlatform:
			o.enterPlatformSelect()
		case optExit:
			o.quit = true
		}
	}
}

func (o *Orchestrator) handleResultsList(ctx context.Context, cmd Command) {
	switch cmd {
	case CmdUp:
		o.moveMenu(-1)
	case CmdDown:
		o.moveMenu(1)
	case CmdConfirm:
		label := o.options()[o.cursor]
		if label == BackEntry {
			o.backToQuery()
			return
		}
		if o.multiOn {
			if o.selection.Toggle(label) {
				o.bus.Infof("Selected: %s", label)
			} else {
				o.bus.Infof("Unselected: %s", label)
			}
			return
		}
		if _, ok := o.results.RemoteFor(label); !ok {
			o.bus.Error("Invalid selection.")
			return
		}
		o.pendingLabel = label
		o.toMenu(StateConfirmSingle)
	case CmdBack:
		o.backToQuery()
	case CmdToggleMulti:
		o.multiOn = !o.multiOn
		if o.multiOn {
			o.bus.Info("Multi Select ON — choose entries, press R to start")
		} else {
			o.selection.Clear()
			o.bus.Info("Multi Select OFF — selections cleared")
		}
	case CmdStartBatch:
		if !o.multiOn {
			return
		}
		if o.selection.Len() == 0 {
			o.bus.Info("No entries selected")
			return
		}
		o.startBatch(ctx)
	}
}

func (o *Orchestrator) handleConfirmSingle(ctx context.Context, cmd Command) {
	switch cmd {
	case CmdUp:
		o.moveMenu(-1)
	case CmdDown:
		o.moveMenu(1)
	case CmdConfirm:
		if o.options()[o.cursor] == optYes {
			o.startSingle(ctx)
			return
		}
		o.toMenu(StatePostAction)
	}
}

func (o *Orchestrator) handleTransferring(cmd Command) {
	if cmd == CmdBack {
		o.flag.Set()
	}
}

func (o *Orchestrator) handlePostAction(cmd Command) {
	switch cmd {
	case CmdUp:
		o.moveMenu(-1)
	case CmdDown:
		o.moveMenu(1)
	case CmdConfirm:
		switch o.options()[o.cursor] {
		case optChooseAnother:
			o.toMenu(StateResultsList)
		case optNewSearch:
			o.invalidateResults()
			o.enterQueryInput()
		case optChangePlatform:
			o.enterPlatformSelect()
		case optExit:
			o.quit = true
		}
	}
}

// enterPlatformSelect resets the chosen platform, drops any cached
// results and selections, and relists the platform directories.
func (o *Orchestrator) enterPlatformSelect() {
	o.invalidateResults()
	o.platform = ""

	names, err := o.remote.Platforms(o.remoteRoot)
	if err != nil {
		o.fatal(fmt.Errorf("list platforms: %w", err))
		return
	}
	if len(names) == 0 {
		o.fatal(errors.New("no platforms found on the server"))
		return
	}
	o.platforms = names
	o.toMenu(StatePlatformSelect)
}

func (o *Orchestrator) enterQueryInput() {
	o.keyboard.Reset()
	o.state = StateQueryInput
}

func (o *Orchestrator) backToQuery() {
	o.invalidateResults()
	o.enterQueryInput()
}

// runSearch executes the query synchronously on the foreground loop.
// Unreadable directories surface as notifications without aborting the
// walk; an empty outcome moves to the no-results menu.
func (o *Orchestrator) runSearch(ctx context.Context, query string) {
	base := pathutil.RemoteJoin(o.remoteRoot, o.platform)
	o.logger.Info().Str("platform", o.platform).Str("query", query).Msg("search started")

	paths := o.remote.Search(ctx, base, query, constants.MaxSearchResults, func(path string, err error) {
		o.bus.Errorf("Cannot access %s: %v", path, err)
	})
	if len(paths) == 0 {
		o.bus.Info("No results found.")
		o.toMenu(StateNoResults)
		return
	}

	o.results = NewResultSet(o.platform, query, base, paths)
	o.selection.Clear()
	o.multiOn = false
	o.logger.Info().Int("matches", len(paths)).Msg("search finished")
	o.toMenu(StateResultsList)
}

func (o *Orchestrator) startSingle(ctx context.Context) {
	remotePath, ok := o.results.RemoteFor(o.pendingLabel)
	if !ok {
		o.bus.Error("Invalid selection.")
		o.toMenu(StateResultsList)
		return
	}
	localPath, err := pathutil.SafeLocalPath(o.destDir, o.platform, o.pendingLabel)
	if err != nil {
		o.bus.Errorf("Failed to start download: %v", err)
		o.toMenu(StatePostAction)
		return
	}

	task := transfer.NewTask(o.pendingLabel, remotePath, localPath)
	o.setCurrent(0, 0, task)
	o.downloadDone = o.transfers.StartSingle(ctx, task)
	o.state = StateDownloading
}

func (o *Orchestrator) startBatch(ctx context.Context) {
	labels := o.selection.Ordered(o.results.Labels)
	items := make([]transfer.BatchItem, 0, len(labels))
	for _, label := range labels {
		remotePath, ok := o.results.RemoteFor(label)
		if !ok {
			o.bus.Errorf("Missing remote path for %s", label)
			continue
		}
		localPath, err := pathutil.SafeLocalPath(o.destDir, o.platform, label)
		if err != nil {
			o.bus.Errorf("Failed to start download: %v", err)
			continue
		}
		items = append(items, transfer.BatchItem{
			Label:      label,
			RemotePath: remotePath,
			LocalPath:  localPath,
		})
	}
	if len(items) == 0 {
		o.bus.Info("No entries selected")
		return
	}

	o.batchDone = o.transfers.StartBatch(ctx, items, o.setCurrent)
	o.state = StateBatchRunning
}

// FinishDownload consumes a single download's outcome. The engine has
// already reported and cleaned up; only the screen moves on.
func (o *Orchestrator) FinishDownload(err error) {
	o.downloadDone = nil
	o.setCurrent(0, 0, nil)
	if err != nil && !errors.Is(err, transfer.ErrCancelled) {
		o.logger.Debug().Err(err).Msg("download worker finished with error")
	}
	if o.quit {
		return
	}
	o.toMenu(StatePostAction)
}

// FinishBatch consumes a batch outcome. Selections are cleared and
// multi-select disabled whatever the outcome was.
func (o *Orchestrator) FinishBatch(out transfer.BatchOutcome) {
	o.batchDone = nil
	o.setCurrent(0, 0, nil)
	o.selection.Clear()
	o.multiOn = false
	o.bus.Info("Multi Select OFF — selections cleared")
	o.logger.Info().
		Int("succeeded", out.Succeeded).
		Int("total", out.Total).
		Bool("cancelled", out.Cancelled).
		Msg("batch finished")
	if o.quit {
		return
	}
	o.toMenu(StatePostAction)
}

// DownloadDone returns the active single download's completion channel,
// nil when none is running. A nil channel is never ready in a select,
// so the render loop includes it unconditionally.
func (o *Orchestrator) DownloadDone() <-chan error {
	return o.downloadDone
}

// BatchDone returns the active batch's completion channel, nil when no
// batch is running.
func (o *Orchestrator) BatchDone() <-chan transfer.BatchOutcome {
	return o.batchDone
}

// Drain blocks until an in-flight worker delivers its outcome, so the
// SFTP session is closed only after the worker stops using it. The
// cancel flag is already set on the quit path, which bounds the wait
// to one block transfer.
func (o *Orchestrator) Drain() {
	if o.downloadDone != nil {
		<-o.downloadDone
		o.downloadDone = nil
	}
	if o.batchDone != nil {
		<-o.batchDone
		o.batchDone = nil
	}
	o.setCurrent(0, 0, nil)
}

// ShouldQuit reports whether the session is over.
func (o *Orchestrator) ShouldQuit() bool {
	return o.quit
}

// Err returns the fatal error that ended the session, if any.
func (o *Orchestrator) Err() error {
	return o.err
}

// State returns the current screen.
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) requestQuit() {
	o.flag.Set()
	o.quit = true
}

func (o *Orchestrator) fatal(err error) {
	o.err = err
	o.quit = true
	o.bus.Errorf("%v", err)
	o.logger.Error().Err(err).Msg("session cannot continue")
}

func (o *Orchestrator) invalidateResults() {
	o.results = nil
	o.selection.Clear()
	o.multiOn = false
}

// toMenu switches screens and rehomes the cursor.
func (o *Orchestrator) toMenu(s State) {
	o.state = s
	o.cursor = 0
	o.scroll = 0
	o.logger.Debug().Str("screen", s.String()).Msg("screen change")
}

// moveMenu moves the menu cursor with wraparound, matching held-key
// scrolling that runs off either end of the list.
func (o *Orchestrator) moveMenu(delta int) {
	n := len(o.options())
	if n == 0 {
		return
	}
	o.cursor = ((o.cursor+delta)%n + n) % n
}

func (o *Orchestrator) options() []string {
	switch o.state {
	case StatePlatformSelect:
		return o.platforms
	case StateConfirmExit, StateConfirmSingle:
		return []string{optNo, optYes}
	case StateNoResults:
		return []string{optNewSearch, optChangePlatform, optExit}
	case StateResultsList:
		return o.results.Options()
	case StatePostAction:
		return []string{optChooseAnother, optNewSearch, optChangePlatform, optExit}
	default:
		return nil
	}
}

// setCurrent records the task the progress screen renders. Matches the
// batch OnStart callback signature; the worker goroutine calls it.
func (o *Orchestrator) setCurrent(index, total int, task *transfer.Task) {
	o.mu.Lock()
	o.current = task
	o.batchIndex = index
	o.batchTotal = total
	o.mu.Unlock()
}
