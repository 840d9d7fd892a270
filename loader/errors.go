package loader

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/journal"
)

// RecordError reports a malformed journal record.
type RecordError struct {
	Line int
	Msg  string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// UnbalancedEntryError reports an entry whose transactions do not sum to
// zero for some commodity.
type UnbalancedEntryError struct {
	Date      journal.Date
	Payee     string
	Commodity string
	Sum       decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry %s %q is unbalanced: %s %s left over",
		e.Date, e.Payee, e.Sum, e.Commodity)
}
