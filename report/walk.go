package report

import (
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/query"
)

// walkEntries pushes every entry's transactions through the handler in
// registration order.
func walkEntries(entries []*journal.Entry, h Handler) error {
	for _, e := range entries {
		if err := walkEntry(e, h); err != nil {
			return err
		}
	}
	return nil
}

// walkEntry pushes one entry's transactions through the handler.
func walkEntry(e *journal.Entry, h Handler) error {
	for _, t := range e.Transactions {
		if err := h.Accept(t); err != nil {
			return err
		}
	}
	return nil
}

// walkAccounts visits every descendant of root pre-order, children in name
// order. The root itself is not visited.
func walkAccounts(root *journal.Account, h AccountHandler) error {
	for _, child := range root.Children() {
		if err := h.Accept(child); err != nil {
			return err
		}
		if err := walkAccounts(child, h); err != nil {
			return err
		}
	}
	return nil
}

// walkAccountsSorted visits every descendant of root pre-order with siblings
// ordered by the sort key evaluated against their aggregate annotations.
func walkAccountsSorted(root *journal.Account, key *query.SortKey, h AccountHandler) error {
	children := root.Children()
	var sortErr error
	slices.SortStableFunc(children, func(a, b *journal.Account) int {
		cmp, err := key.Compare(query.AccountContext(a), query.AccountContext(b))
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return cmp
	})
	if sortErr != nil {
		return sortErr
	}
	for _, child := range children {
		if err := h.Accept(child); err != nil {
			return err
		}
		if err := walkAccountsSorted(child, key, h); err != nil {
			return err
		}
	}
	return nil
}
