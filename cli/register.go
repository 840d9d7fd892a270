package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/report"
	"github.com/robinvdvleuten/ledger/telemetry"
)

type RegisterCmd struct {
	File FileOrStdin `help:"Journal filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`

	ReportFlags

	Watch bool `help:"Re-run the report whenever the journal file changes." short:"w"`
}

func (cmd *RegisterCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var registerTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				registerTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		registerTimer = collector.Start(fmt.Sprintf("register %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, registerTimer)

		defer reportTelemetry()
	}

	cfg := cmd.ReportFlags.Config(globals)

	if err := cmd.runOnce(runCtx, ctx, cfg); err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, RenderError(err))
		reportTelemetry()
		return NewCommandError(1)
	}

	if cmd.Watch {
		return cmd.watch(runCtx, ctx, cfg)
	}
	return nil
}

func (cmd *RegisterCmd) runOnce(runCtx context.Context, ctx *kong.Context, cfg *report.Config) error {
	ldr := loader.New()
	j, err := cmd.File.LoadJournal(runCtx, ldr)
	if err != nil {
		return err
	}

	writer := newRegisterWriter(ctx.Stdout)
	return report.New(j, cfg).Transactions(runCtx, writer)
}

const watchDebounce = 100 * time.Millisecond

// watch re-runs the report whenever the journal file is rewritten. The
// parent directory is watched rather than the file itself because editors
// commonly save atomically via rename, which drops a watch on the old inode.
func (cmd *RegisterCmd) watch(runCtx context.Context, ctx *kong.Context, cfg *report.Config) error {
	if cmd.File.Filename == "<stdin>" {
		return fmt.Errorf("cannot watch stdin")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target := cmd.File.GetAbsoluteFilename()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(target))

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	rerun := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			_, _ = fmt.Fprintln(ctx.Stdout)
			if err := cmd.runOnce(runCtx, ctx, cfg); err != nil {
				_, _ = fmt.Fprintln(ctx.Stderr, RenderError(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", err))
		}
	}
}
