// Package journal holds the in-memory double-entry journal that reports run
// against: entries of balanced postings, the hierarchical account tree, a
// table of dated commodity prices, and the transient per-report scratch
// annotations that stages stamp onto transactions and accounts.
//
// The journal is a passive store. It does not validate entry balance (the
// loader does that on the way in) and it does not know anything about
// reports; it only offers iteration, find-or-create account resolution, and
// the Clean/CheckClean pair that report drivers use to reset and verify
// scratch state between independent runs.
//
// Example usage:
//
//	j := journal.New()
//	e := journal.NewEntry(date, "Grocery Store")
//	e.Add(j.Account("Expenses:Food"), journal.NewAmount("23.50", "USD"))
//	e.Add(j.Account("Assets:Checking"), journal.NewAmount("-23.50", "USD"))
//	j.AddEntry(e)
package journal

import (
	"strings"
)

// Journal is the store a report pipeline runs against. Entries are kept in
// registration order; the account tree is rooted at an unnamed master node.
type Journal struct {
	entries []*Entry
	root    *Account
	prices  *PriceTable
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{
		root:   newAccount("", nil),
		prices: NewPriceTable(),
	}
}

// Root returns the master account node.
func (j *Journal) Root() *Account {
	return j.root
}

// Prices returns the journal's commodity price table.
func (j *Journal) Prices() *PriceTable {
	return j.prices
}

// Entries returns all entries in registration order.
func (j *Journal) Entries() []*Entry {
	return j.entries
}

// AddEntry appends an entry in registration order.
func (j *Journal) AddEntry(e *Entry) {
	j.entries = append(j.entries, e)
}

// Account resolves a hierarchical account name like "Expenses:Food:Coffee",
// creating intermediate nodes as needed. An empty name returns the root.
func (j *Journal) Account(name string) *Account {
	if name == "" {
		return j.root
	}
	acct := j.root
	for _, segment := range strings.Split(name, ":") {
		acct = acct.Child(segment)
	}
	return acct
}

// Clean drops all scratch annotations from every transaction and every
// account. Reports must run against a clean store; drivers call this once a
// report (and its optional verification) is done with the annotations.
func (j *Journal) Clean() {
	for _, e := range j.entries {
		for _, t := range e.Transactions {
			t.ClearXData()
		}
	}
	j.root.walk(func(a *Account) {
		a.ClearXData()
	})
}

// CheckClean verifies that no scratch annotations remain on the store.
// A leftover annotation means an earlier report was not cleaned up and any
// totals computed on top of it would be corrupt; the returned
// InconsistencyError names the offending element.
func (j *Journal) CheckClean() error {
	for _, e := range j.entries {
		for _, t := range e.Transactions {
			if t.HasXData() {
				return &InconsistencyError{
					Kind:    "transaction",
					Element: t.Account.FullName() + " " + t.Amount.String(),
					Date:    e.Date,
				}
			}
		}
	}
	var err error
	j.root.walk(func(a *Account) {
		if err == nil && a.HasXData() {
			err = &InconsistencyError{Kind: "account", Element: a.FullName()}
		}
	})
	return err
}
