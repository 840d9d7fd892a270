package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a single-commodity decimal value. Multi-commodity values (running
// totals, account aggregates) are represented by Balance.
type Amount struct {
	Commodity string
	Value     decimal.Decimal
}

// NewAmount builds an amount from a decimal string and commodity code.
// It panics on an invalid value; use ParseAmount for untrusted input.
func NewAmount(value, commodity string) Amount {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return Amount{Commodity: commodity, Value: d}
}

// ParseAmount parses "VALUE COMMODITY" strings like "100.00 USD". A bare
// number is accepted and yields an amount with an empty commodity code.
func ParseAmount(s string) (Amount, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		d, err := decimal.NewFromString(fields[0])
		if err != nil {
			return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return Amount{Value: d}, nil
	case 2:
		d, err := decimal.NewFromString(fields[0])
		if err != nil {
			return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return Amount{Commodity: fields[1], Value: d}, nil
	default:
		return Amount{}, fmt.Errorf("invalid amount %q: expected VALUE or VALUE COMMODITY", s)
	}
}

// Neg returns the negated amount.
func (a Amount) Neg() Amount {
	return Amount{Commodity: a.Commodity, Value: a.Value.Neg()}
}

func (a Amount) String() string {
	if a.Commodity == "" {
		return a.Value.String()
	}
	return a.Value.String() + " " + a.Commodity
}

// Entry is a dated group of transactions whose amounts sum to zero per
// commodity. The pipeline relies on that invariant without re-checking it;
// the loader enforces it on the way into the store.
type Entry struct {
	Date         Date
	Payee        string
	Code         string
	Transactions []*Transaction
}

// NewEntry creates an entry with no transactions.
func NewEntry(date Date, payee string) *Entry {
	return &Entry{Date: date, Payee: payee}
}

// Add appends a transaction for the given account and amount and returns it.
func (e *Entry) Add(account *Account, amount Amount) *Transaction {
	t := &Transaction{Entry: e, Account: account, Amount: amount}
	e.Transactions = append(e.Transactions, t)
	return t
}

// Transaction is one account/amount line within an entry. Report stages may
// hang transient scratch state off it (running total, display overrides,
// handled flags); that state belongs to exactly one report and is removed by
// Journal.Clean.
type Transaction struct {
	Entry   *Entry
	Account *Account
	Amount  Amount

	// Origin points at the stored transaction a synthetic copy was derived
	// from (e.g. by the inversion stage). Nil for stored and aggregate
	// transactions. Deduplication downstream keys on Origin when set.
	Origin *Transaction

	xdata *TransactionXData
}

// Date returns the displayed date: the scratch override if a stage set one,
// otherwise the owning entry's date.
func (t *Transaction) Date() Date {
	if t.xdata != nil && !t.xdata.Date.IsZero() {
		return t.xdata.Date
	}
	if t.Entry != nil {
		return t.Entry.Date
	}
	return Date{}
}

// Payee returns the displayed payee: the scratch override if a stage set one,
// otherwise the owning entry's payee.
func (t *Transaction) Payee() string {
	if t.xdata != nil && t.xdata.Payee != "" {
		return t.xdata.Payee
	}
	if t.Entry != nil {
		return t.Entry.Payee
	}
	return ""
}

// DisplayAccount returns the account a consumer should render: the scratch
// override when an aggregating stage substituted one, otherwise the posting's
// account.
func (t *Transaction) DisplayAccount() *Account {
	if t.xdata != nil && t.xdata.Account != nil {
		return t.xdata.Account
	}
	return t.Account
}

// XData returns the transaction's scratch annotation, allocating it on first
// use.
func (t *Transaction) XData() *TransactionXData {
	if t.xdata == nil {
		t.xdata = &TransactionXData{}
	}
	return t.xdata
}

// HasXData reports whether a scratch annotation has been allocated.
func (t *Transaction) HasXData() bool {
	return t.xdata != nil
}

// ClearXData drops the scratch annotation.
func (t *Transaction) ClearXData() {
	t.xdata = nil
}
