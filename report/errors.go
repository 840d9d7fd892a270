package report

import (
	"fmt"

	"github.com/robinvdvleuten/ledger/journal"
)

// UnknownOptionError is returned by Config.Set for a name absent from the
// option table.
type UnknownOptionError struct {
	Name string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option: %s", e.Name)
}

// OptionValueError is returned by Config.Set when a value cannot be coerced
// to the option's type.
type OptionValueError struct {
	Value  string
	Reason string
}

func (e *OptionValueError) Error() string {
	return fmt.Sprintf("invalid option value %q: %s", e.Value, e.Reason)
}

// ReconcileError reports that no subset of the reconciliation candidates
// sums to the target balance.
type ReconcileError struct {
	Target journal.Amount
	Actual *journal.Balance
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("could not reconcile to %s (cleared balance is %s)", e.Target.String(), e.Actual.String())
}
