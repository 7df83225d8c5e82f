package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/romferry/romferry/internal/config"
	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/logging"
	"github.com/romferry/romferry/internal/notify"
	"github.com/romferry/romferry/internal/pathutil"
	"github.com/romferry/romferry/internal/progress"
	"github.com/romferry/romferry/internal/remote"
	"github.com/romferry/romferry/internal/transfer"
)

// fetchRemote is the server surface the fetch command needs. The SFTP
// client satisfies it; tests substitute in-memory fakes.
type fetchRemote interface {
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	ReadDir(path string) ([]os.FileInfo, error)
	Search(ctx context.Context, baseDir, query string, limit int, onError func(path string, err error)) []string
}

// fetchItem is one planned download with its pre-checked remote size.
type fetchItem struct {
	label      string
	remotePath string
	localPath  string
	size       int64
}

// newFetchCmd creates the 'fetch' command.
func newFetchCmd() *cobra.Command {
	var first int
	var yes bool

	cmd := &cobra.Command{
		Use:   "fetch <platform> [query]",
		Short: "Download matching files without the UI",
		Long: `Search a platform directory and download every match sequentially.

With no query the whole platform directory is fetched. Files already
present locally with the right size are skipped.

Examples:
  # Everything under the snes platform
  romferry fetch snes

  # All entries containing "mario", no confirmation prompt
  romferry fetch snes mario --yes

  # Only the first three matches, into a specific directory
  romferry fetch gba zelda --first 3 --dest ~/roms`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			return runFetch(GetContext(), args[0], query, first, yes)
		},
	}

	cmd.Flags().IntVar(&first, "first", 0, "download only the first N matches (0 = all)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runFetch(ctx context.Context, platform, query string, first int, yes bool) error {
	logger := GetLogger()

	client, cfg, err := connect(logger)
	if err != nil {
		return err
	}
	defer client.Close()

	names, err := client.Platforms(cfg.Connection.RemoteRoot)
	if err != nil {
		return err
	}
	if !slices.Contains(names, platform) {
		return fmt.Errorf("unknown platform %q (server has: %s)", platform, strings.Join(names, ", "))
	}

	dest, err := pathutil.ResolveAbsolutePath(cfg.Download.DestDir)
	if err != nil {
		return fmt.Errorf("resolve destination %q: %w", cfg.Download.DestDir, err)
	}

	base := pathutil.RemoteJoin(cfg.Connection.RemoteRoot, platform)
	var scan *progress.ScanSpinner
	if query == "" {
		scan = progress.NewScanSpinner(platform)
	}
	matches := collectMatches(ctx, client, base, query, scan)
	scan.Done()
	if len(matches) == 0 {
		fmt.Println("No matching files.")
		return nil
	}
	if first > 0 && first < len(matches) {
		matches = matches[:first]
	}

	plan, totalBytes := planDownloads(client, logger, base, platform, dest, matches)
	if len(plan) == 0 {
		fmt.Println("Nothing to download.")
		return nil
	}

	fmt.Printf("%d file(s), %.1f MiB total → %s\n",
		len(plan), float64(totalBytes)/(1024*1024), dest)
	if !yes && !confirm(fmt.Sprintf("Download %d file(s)?", len(plan))) {
		fmt.Println("Aborted.")
		return nil
	}

	return downloadAll(ctx, client, cfg, logger, plan)
}

// collectMatches resolves the download set: a substring search when a
// query is given, the whole platform tree otherwise. The spinner may
// be nil. Unreadable directories are reported and skipped either way.
func collectMatches(ctx context.Context, r fetchRemote, base, query string, scan *progress.ScanSpinner) []string {
	onError := func(path string, err error) {
		fmt.Fprintf(os.Stderr, "warning: cannot access %s: %v\n", path, err)
	}

	if query != "" {
		return r.Search(ctx, base, query, constants.MaxSearchResults, onError)
	}

	var all []string
	w := remote.NewWalker(r, base)
	for {
		if ctx.Err() != nil {
			return all
		}
		v, ok := w.Next()
		if !ok {
			return all
		}
		if v.Err != nil {
			onError(v.Path, v.Err)
			continue
		}
		for _, name := range v.Files {
			all = append(all, pathutil.RemoteJoin(v.Path, name))
			if len(all) >= constants.MaxSearchResults {
				return all
			}
		}
		scan.Found(len(all))
	}
}

// planDownloads maps the matched remote paths onto local destinations
// and sizes them. Entries whose path would escape the destination or
// whose size cannot be read are dropped with a warning.
func planDownloads(r fetchRemote, logger *logging.Logger, base, platform, dest string, matches []string) ([]fetchItem, int64) {
	items := make([]fetchItem, 0, len(matches))
	var total int64

	for _, remotePath := range matches {
		rel, ok := pathutil.RelativeTo(base, remotePath)
		if !ok {
			continue
		}
		localPath, err := pathutil.SafeLocalPath(dest, platform, rel)
		if err != nil {
			logger.Warn().Str("entry", rel).Err(err).Msg("skipping entry")
			continue
		}
		info, err := r.Stat(remotePath)
		if err != nil {
			logger.Warn().Str("remote", remotePath).Err(err).Msg("cannot stat, skipping")
			continue
		}

		items = append(items, fetchItem{
			label:      rel,
			remotePath: remotePath,
			localPath:  localPath,
			size:       info.Size(),
		})
		total += info.Size()
	}
	return items, total
}

// downloadAll runs the plan strictly in order through the download
// engine, one progress bar per file. Files already on disk with the
// expected size are skipped; cancellation abandons the rest of the
// plan. Returns an error when any download failed.
func downloadAll(ctx context.Context, src fetchRemote, cfg *config.AppConfig, logger *logging.Logger, plan []fetchItem) error {
	bus := notify.NewBus()
	engine := transfer.NewEngine(src, bus, logger)
	engine.SetVerifyFreeSpace(cfg.Download.VerifyFreeSpace)
	if cfg.Notifications.Enabled {
		engine.SetNotifier(notify.NewNotifier(&notify.Config{
			Enabled:              true,
			ShowDownloadComplete: cfg.Notifications.ShowDownloadComplete,
			ShowDownloadFailed:   cfg.Notifications.ShowDownloadFailed,
		}, logger))
	}
	flag := &transfer.Flag{}

	fui := progress.NewFetchUI(len(plan))

	var downloaded, skipped, failed int
	cancelled := false

	for i, item := range plan {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		if info, err := os.Stat(item.localPath); err == nil && info.Size() == item.size {
			fui.Skip(i+1, item.label, item.localPath, "already exists")
			skipped++
			continue
		}

		task := transfer.NewTask(item.label, item.remotePath, item.localPath)
		fb := fui.AddFileBar(i+1, item.label, item.localPath, item.size)
		done := engine.Start(ctx, task, flag)

		ticker := time.NewTicker(constants.ProgressUpdateInterval)
		var derr error
	wait:
		for {
			select {
			case derr = <-done:
				break wait
			case <-ticker.C:
				fb.UpdateProgress(task.Progress())
			}
		}
		ticker.Stop()

		switch {
		case derr == nil:
			fb.Complete(nil)
			downloaded++
		case errors.Is(derr, transfer.ErrCancelled):
			fb.Complete(derr)
			cancelled = true
		default:
			fb.Complete(derr)
			failed++
		}
		if cancelled {
			break
		}
	}

	fui.Wait()

	fmt.Printf("\nDone: %d downloaded, %d skipped, %d failed (of %d)\n",
		downloaded, skipped, failed, len(plan))
	if cancelled {
		fmt.Println("Cancelled.")
		return nil
	}
	if failed > 0 {
		return fmt.Errorf("%d download(s) failed", failed)
	}
	return nil
}

// confirm asks a yes/no question on stdin, defaulting to no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}
