package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/report"
	"github.com/robinvdvleuten/ledger/telemetry"
)

type BalanceCmd struct {
	File FileOrStdin `help:"Journal filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`

	ReportFlags
}

func (cmd *BalanceCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var balanceTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				balanceTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		balanceTimer = collector.Start(fmt.Sprintf("balance %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, balanceTimer)

		defer reportTelemetry()
	}

	ldr := loader.New()
	j, err := cmd.File.LoadJournal(runCtx, ldr)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, RenderError(err))
		reportTelemetry()
		return NewCommandError(1)
	}

	cfg := cmd.ReportFlags.Config(globals)
	writer := newBalanceWriter(ctx.Stdout)

	if err := report.New(j, cfg).Accounts(runCtx, writer, !cfg.ShowCollapsed); err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, RenderError(err))
		reportTelemetry()
		return NewCommandError(1)
	}

	return nil
}
