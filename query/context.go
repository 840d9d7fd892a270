package query

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/journal"
)

// transactionContext resolves identifiers against a single transaction.
type transactionContext struct {
	t *journal.Transaction
}

// TransactionContext exposes a transaction to expression evaluation.
func TransactionContext(t *journal.Transaction) Context {
	return transactionContext{t: t}
}

func (c transactionContext) Resolve(name string) (Value, error) {
	switch name {
	case "date":
		return DateValue(c.t.Date()), nil
	case "payee":
		return String(c.t.Payee()), nil
	case "account":
		return String(c.t.DisplayAccount().FullName()), nil
	case "amount":
		return Number(c.t.Amount.Value), nil
	case "commodity":
		return String(c.t.Amount.Commodity), nil
	case "code":
		if c.t.Entry != nil {
			return String(c.t.Entry.Code), nil
		}
		return String(""), nil
	case "total":
		if c.t.HasXData() {
			return BalanceValue(c.t.XData().Total), nil
		}
		return Number(decimal.Zero), nil
	case "index":
		if c.t.HasXData() {
			return Number(decimal.NewFromInt(int64(c.t.XData().Index))), nil
		}
		return Number(decimal.Zero), nil
	case "weekday":
		return Number(decimal.NewFromInt(int64(c.t.Date().Weekday()))), nil
	default:
		return Value{}, fmt.Errorf("identifier %q is not defined for transactions", name)
	}
}

// accountContext resolves identifiers against an account node and its
// aggregate annotation.
type accountContext struct {
	a *journal.Account
}

// AccountContext exposes an account to expression evaluation. The total and
// count identifiers read the aggregate annotation computed by the account
// report's bottom-up sum.
func AccountContext(a *journal.Account) Context {
	return accountContext{a: a}
}

func (c accountContext) Resolve(name string) (Value, error) {
	switch name {
	case "account":
		return String(c.a.FullName()), nil
	case "amount":
		if c.a.HasXData() {
			return BalanceValue(c.a.XData().Value), nil
		}
		return Number(decimal.Zero), nil
	case "total":
		if c.a.HasXData() {
			return BalanceValue(c.a.XData().Total), nil
		}
		return Number(decimal.Zero), nil
	case "count":
		if c.a.HasXData() {
			return Number(decimal.NewFromInt(int64(c.a.XData().SubCount))), nil
		}
		return Number(decimal.Zero), nil
	default:
		return Value{}, fmt.Errorf("identifier %q is not defined for accounts", name)
	}
}
