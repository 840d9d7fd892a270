package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
	Verify    bool `help:"Verify scratch-state cleanup after each report."`
}

type Commands struct {
	Globals

	Register  RegisterCmd  `cmd:"" help:"Show transactions with a running total."`
	Balance   BalanceCmd   `cmd:"" help:"Show account balances as a tree."`
	Reconcile ReconcileCmd `cmd:"" help:"Reconcile an account against a target balance."`
	Dump      DumpCmd      `cmd:"" help:"Dump the loaded journal as Go values."`
}
