package report

import "github.com/robinvdvleuten/ledger/journal"

// Handler is one node in a report chain. A stage consumes one transaction at
// a time, may transform, buffer or drop it, and forwards zero or more
// transactions to its sole successor.
//
// Flush signals end-of-stream. A stage must emit any buffered or aggregated
// output to its successor before flushing the successor, so draining
// propagates strictly head-to-tail and downstream buffering stages see
// everything before their own end-of-stream.
type Handler interface {
	Accept(t *journal.Transaction) error
	Flush() error
}

// AccountHandler is the per-account analogue of Handler used by
// account-summary reports.
type AccountHandler interface {
	Accept(a *journal.Account) error
	Flush() error
}

// HandlerFunc adapts a function to a Handler with a pass-through Flush.
// Useful for terminal consumers that just accumulate.
type HandlerFunc func(t *journal.Transaction) error

func (f HandlerFunc) Accept(t *journal.Transaction) error { return f(t) }
func (f HandlerFunc) Flush() error                        { return nil }

// AccountHandlerFunc adapts a function to an AccountHandler.
type AccountHandlerFunc func(a *journal.Account) error

func (f AccountHandlerFunc) Accept(a *journal.Account) error { return f(a) }
func (f AccountHandlerFunc) Flush() error                    { return nil }

// origin returns the stored transaction behind a possibly-synthetic copy,
// used as the deduplication key by set-expansion stages.
func origin(t *journal.Transaction) *journal.Transaction {
	if t.Origin != nil {
		return t.Origin
	}
	return t
}
