package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/ledger/loader"
)

// DumpCmd prints the loaded journal's entries as Go values, for debugging
// loader and report behavior.
type DumpCmd struct {
	File FileOrStdin `help:"Journal filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	ldr := loader.New()
	j, err := cmd.File.LoadJournal(context.Background(), ldr)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, RenderError(err))
		return NewCommandError(1)
	}

	// Entries carry back-pointers, so dump a flattened view.
	for _, e := range j.Entries() {
		d := dumpEntry{Date: e.Date.String(), Payee: e.Payee, Code: e.Code}
		for _, t := range e.Transactions {
			d.Transactions = append(d.Transactions, dumpTransaction{
				Account: t.Account.FullName(),
				Amount:  t.Amount.String(),
			})
		}
		repr.Println(d)
	}
	return nil
}

type dumpEntry struct {
	Date         string
	Payee        string
	Code         string
	Transactions []dumpTransaction
}

type dumpTransaction struct {
	Account string
	Amount  string
}
