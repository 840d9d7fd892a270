// Package loader reads journal files into a journal.Journal. The format is
// line-oriented CSV with a record type in the first field:
//
//	entry,DATE,CODE,PAYEE        starts a new entry (code may be empty)
//	txn,ACCOUNT,VALUE,COMMODITY  adds a transaction to the current entry
//	price,DATE,COMMODITY,VALUE,CURRENCY  records a market quote
//
// Blank lines and lines starting with # are skipped. Every completed entry
// is checked to sum to zero per commodity before it enters the journal; the
// report pipeline relies on that invariant without re-validating it.
//
// Example usage:
//
//	l := loader.New()
//	j, err := l.Load(ctx, "ledger.csv")
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/journal"
)

// Loader reads CSV journals. Configure it with functional options passed to
// New:
//
//	l := New(WithRelaxedBalance())
type Loader struct {
	// RelaxedBalance skips per-commodity zero-sum validation of entries.
	// Useful for loading fragments that only make sense joined with other
	// files; reports over an unbalanced journal are undefined.
	RelaxedBalance bool
}

// Option configures how journals are loaded.
type Option func(*Loader)

// WithRelaxedBalance disables the per-commodity zero-sum entry check.
func WithRelaxedBalance() Option {
	return func(l *Loader) {
		l.RelaxedBalance = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses a journal file.
func (l *Loader) Load(ctx context.Context, filename string) (*journal.Journal, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	j, err := l.Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("in file %s: %w", filename, err)
	}
	return j, nil
}

// Parse reads a journal from a reader.
func (l *Loader) Parse(ctx context.Context, r io.Reader) (*journal.Journal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	j := journal.New()
	var current *journal.Entry

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		switch record[0] {
		case "entry":
			if err := l.finish(current, line); err != nil {
				return nil, err
			}
			if len(record) != 4 {
				return nil, &RecordError{Line: line, Msg: "entry record needs DATE, CODE and PAYEE fields"}
			}
			date, err := journal.NewDate(record[1])
			if err != nil {
				return nil, &RecordError{Line: line, Msg: err.Error()}
			}
			current = journal.NewEntry(date, record[3])
			current.Code = record[2]
			j.AddEntry(current)

		case "txn":
			if current == nil {
				return nil, &RecordError{Line: line, Msg: "txn record before any entry record"}
			}
			if len(record) != 4 {
				return nil, &RecordError{Line: line, Msg: "txn record needs ACCOUNT, VALUE and COMMODITY fields"}
			}
			value, err := decimal.NewFromString(record[2])
			if err != nil {
				return nil, &RecordError{Line: line, Msg: fmt.Sprintf("invalid amount %q", record[2])}
			}
			account := j.Account(record[1])
			current.Add(account, journal.Amount{Commodity: record[3], Value: value})

		case "price":
			if len(record) != 5 {
				return nil, &RecordError{Line: line, Msg: "price record needs DATE, COMMODITY, VALUE and CURRENCY fields"}
			}
			date, err := journal.NewDate(record[1])
			if err != nil {
				return nil, &RecordError{Line: line, Msg: err.Error()}
			}
			value, err := decimal.NewFromString(record[3])
			if err != nil {
				return nil, &RecordError{Line: line, Msg: fmt.Sprintf("invalid price %q", record[3])}
			}
			j.Prices().Add(record[2], date, value, record[4])

		default:
			return nil, &RecordError{Line: line, Msg: fmt.Sprintf("unknown record type %q", record[0])}
		}
	}

	if err := l.finish(current, 0); err != nil {
		return nil, err
	}
	return j, nil
}

// finish validates the entry just completed, if any.
func (l *Loader) finish(e *journal.Entry, line int) error {
	if e == nil || l.RelaxedBalance {
		return nil
	}
	sum := journal.NewBalance()
	for _, t := range e.Transactions {
		sum.AddAmount(t.Amount)
	}
	for _, a := range sum.Amounts() {
		if !a.Value.IsZero() {
			return &UnbalancedEntryError{
				Date:      e.Date,
				Payee:     e.Payee,
				Commodity: a.Commodity,
				Sum:       a.Value,
			}
		}
	}
	return nil
}
