package query

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/ledger/journal"
)

func testTransaction() *journal.Transaction {
	j := journal.New()
	e := journal.NewEntry(journal.MustDate("2024-01-05"), "Grocery Store")
	e.Code = "G1"
	txn := e.Add(j.Account("Expenses:Food"), journal.NewAmount("45.00", "USD"))
	e.Add(j.Account("Assets:Checking"), journal.NewAmount("-45.00", "USD"))
	return txn
}

func match(t *testing.T, src string, ctx Context) bool {
	t.Helper()
	expr, err := Compile(src)
	assert.NoError(t, err)
	ok, err := expr.Match(ctx)
	assert.NoError(t, err)
	return ok
}

func TestMatchIdentifiers(t *testing.T) {
	ctx := TransactionContext(testTransaction())

	tests := []struct {
		expr string
		want bool
	}{
		{`account =~ "Food"`, true},
		{`account =~ "Liabilities"`, false},
		{`account !~ "Liabilities"`, true},
		{`payee =~ "Grocery"`, true},
		{`commodity == "USD"`, true},
		{`code == "G1"`, true},
		{`amount > 40`, true},
		{`amount <= 40`, false},
		{`amount == 45`, true},
		{`date == [2024-01-05]`, true},
		{`date < [2024-01-06] and date >= [2024-01-01]`, true},
		{`weekday == 5`, true}, // a Friday
		{`not (amount < 0)`, true},
		{`amount < 0 or payee =~ "Store"`, true},
		{`amount * 2 == 90`, true},
		{`amount + 5 == 50 and amount - 5 == 40`, true},
		{`-amount == 0 - 45`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, match(t, tt.expr, ctx))
		})
	}
}

func TestEmptyExpressionMatchesEverything(t *testing.T) {
	assert.True(t, match(t, "", TransactionContext(testTransaction())))
	assert.True(t, match(t, "   ", TransactionContext(testTransaction())))
}

func TestTotalAndIndexReadScratchState(t *testing.T) {
	txn := testTransaction()
	ctx := TransactionContext(txn)

	// Without scratch state both resolve to zero.
	assert.False(t, match(t, `total > 0`, ctx))
	assert.True(t, match(t, `index == 0`, ctx))

	total := journal.NewBalance()
	total.AddAmount(journal.NewAmount("57.50", "USD"))
	txn.XData().Total = total
	txn.XData().Index = 4

	assert.True(t, match(t, `total == 57.5`, ctx))
	assert.True(t, match(t, `index == 4`, ctx))
}

func TestCompileErrors(t *testing.T) {
	tests := []string{
		`date >`,
		`(amount > 0`,
		`bogus == 1`,
		`amount =~ 45`,
		`account =~ "["`,
		`date == [not-a-date]`,
		`nonsuch(1)`,
		`amount > 0 extra`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Compile(src)
			var exprErr *ExpressionError
			if !errors.As(err, &exprErr) {
				t.Fatalf("expected ExpressionError, got %T: %v", err, err)
			}
			assert.Equal(t, src, exprErr.Expr)
		})
	}
}

func TestRegexCompiledOnce(t *testing.T) {
	// A malformed pattern fails at compile time, not at evaluation.
	_, err := Compile(`account =~ "(unclosed"`)
	assert.Error(t, err)
}

func TestUnknownIdentifierForContext(t *testing.T) {
	// count is a valid identifier but only account contexts resolve it.
	expr, err := Compile(`count > 0`)
	assert.NoError(t, err)

	_, err = expr.Eval(TransactionContext(testTransaction()))
	assert.Error(t, err)
}

func TestAccountContext(t *testing.T) {
	j := journal.New()
	a := j.Account("Expenses:Food")
	xd := a.XData()
	xd.Total.AddAmount(journal.NewAmount("57.50", "USD"))
	xd.SubCount = 3

	ctx := AccountContext(a)
	assert.True(t, match(t, `account == "Expenses:Food"`, ctx))
	assert.True(t, match(t, `total == 57.5`, ctx))
	assert.True(t, match(t, `count == 3`, ctx))
}

func TestAbbrev(t *testing.T) {
	ctx := TransactionContext(testTransaction())

	expr, err := Compile(`abbrev(account, 10)`)
	assert.NoError(t, err)
	v, err := expr.Eval(ctx)
	assert.NoError(t, err)
	assert.Equal(t, KindString, v.Kind)
	assert.True(t, len(v.Str) <= 10)
}

func TestAbbrevUsageError(t *testing.T) {
	tests := []string{
		`abbrev(account)`,
		`abbrev(account, "wide")`,
		`abbrev(1, 2, 3, 4, 5)`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			expr, err := Compile(src)
			assert.NoError(t, err)

			_, err = expr.Eval(TransactionContext(testTransaction()))
			var usage *UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("expected UsageError, got %T: %v", err, err)
			}
			assert.Contains(t, usage.Error(), "usage:")
		})
	}
}

func TestFtime(t *testing.T) {
	ctx := TransactionContext(testTransaction())

	expr, err := Compile(`ftime(date)`)
	assert.NoError(t, err)
	v, err := expr.Eval(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-05", v.Str)

	expr, err = Compile(`ftime(date, "Jan 2006")`)
	assert.NoError(t, err)
	v, err = expr.Eval(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Jan 2024", v.Str)

	expr, err = Compile(`ftime(amount)`)
	assert.NoError(t, err)
	_, err = expr.Eval(ctx)
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("expected UsageError, got %T: %v", err, err)
	}
}

func TestSortKey(t *testing.T) {
	j := journal.New()
	e := journal.NewEntry(journal.MustDate("2024-01-05"), "Store")
	a := e.Add(j.Account("Expenses:Food"), journal.NewAmount("45.00", "USD"))
	b := e.Add(j.Account("Assets:Checking"), journal.NewAmount("-45.00", "USD"))

	key, err := CompileSort("date, -amount")
	assert.NoError(t, err)

	// Same date, so the descending amount term decides.
	cmp, err := key.Compare(TransactionContext(a), TransactionContext(b))
	assert.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = key.Compare(TransactionContext(a), TransactionContext(a))
	assert.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestSortKeyErrors(t *testing.T) {
	_, err := CompileSort("date,,amount")
	assert.Error(t, err)

	_, err = CompileSort("date, bogus")
	assert.Error(t, err)
}
