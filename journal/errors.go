package journal

import "fmt"

// InconsistencyError is returned by CheckClean when a scratch annotation
// survived a report that should have cleaned it. It indicates a defect in
// stage cleanup, not a normal runtime condition, and is never silently
// ignored by report drivers.
type InconsistencyError struct {
	// Kind is "transaction" or "account".
	Kind string

	// Element identifies the dirty store element (account name, or account
	// plus amount for a transaction).
	Element string

	// Date is set for transactions.
	Date Date
}

func (e *InconsistencyError) Error() string {
	if e.Kind == "transaction" {
		return fmt.Sprintf("store inconsistency: transaction %s on %s still carries scratch state", e.Element, e.Date)
	}
	return fmt.Sprintf("store inconsistency: account %s still carries scratch state", e.Element)
}
