package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/loader"
	"github.com/robinvdvleuten/ledger/report"
)

type ReconcileCmd struct {
	File    FileOrStdin `help:"Journal filename (use '-' for stdin)." arg:""`
	Balance string      `help:"Target cleared balance, e.g. '100.00 USD'." arg:""`

	Account string `help:"Regex limiting candidate transactions to matching accounts." placeholder:"REGEX"`
	Date    string `help:"Reconcile as of this date (YYYY-MM-DD); defaults to today." placeholder:"DATE"`
}

func (cmd *ReconcileCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	ldr := loader.New()
	j, err := cmd.File.LoadJournal(runCtx, ldr)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, RenderError(err))
		return NewCommandError(1)
	}

	cfg := &report.Config{
		ReconcileBalance: cmd.Balance,
		ReconcileDate:    cmd.Date,
		Verify:           globals.Verify,
	}
	if cmd.Account != "" {
		cfg.DisplayPredicate = fmt.Sprintf("account =~ %q", cmd.Account)
	}

	writer := newRegisterWriter(ctx.Stdout)
	count := 0
	consumer := report.HandlerFunc(func(t *journal.Transaction) error {
		count++
		return writer.Accept(t)
	})

	if err := report.New(j, cfg).Transactions(runCtx, consumer); err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, RenderError(err))
		return NewCommandError(1)
	}

	if count == 0 {
		printInfof(ctx.Stdout, "No transactions to reconcile")
		return nil
	}

	confirmed, err := promptYesNo(ctx, fmt.Sprintf("Mark %d transaction(s) as cleared?", count))
	if err != nil {
		return err
	}
	if confirmed {
		printSuccess(ctx.Stdout, fmt.Sprintf("Reconciled %d transaction(s) to %s", count, cmd.Balance))
	} else {
		printInfof(ctx.Stdout, "Left unreconciled")
	}

	return nil
}
