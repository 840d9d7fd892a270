package journal

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestAccountTree(t *testing.T) {
	j := New()

	checking := j.Account("Assets:Bank:Checking")
	assert.Equal(t, "Checking", checking.Name)
	assert.Equal(t, "Assets:Bank:Checking", checking.FullName())

	// Resolving the same path returns the same node.
	assert.Equal(t, checking, j.Account("Assets:Bank:Checking"))

	bank := j.Account("Assets:Bank")
	assert.Equal(t, bank, checking.Parent)

	children := j.Root().Children()
	assert.Equal(t, 1, len(children))
	assert.Equal(t, "Assets", children[0].Name)
}

func TestSyntheticAccountStaysDetached(t *testing.T) {
	j := New()
	total := SyntheticAccount("<Total>")

	assert.Equal(t, "<Total>", total.FullName())
	assert.Zero(t, total.Parent)
	assert.Equal(t, 0, len(j.Root().Children()))
}

func TestBalanceArithmetic(t *testing.T) {
	b := NewBalance()
	b.AddAmount(NewAmount("100.00", "USD"))
	b.AddAmount(NewAmount("2", "BTC"))
	b.AddAmount(NewAmount("-40.00", "USD"))

	assert.Equal(t, "60", b.Get("USD").String())
	assert.Equal(t, []string{"BTC", "USD"}, b.Commodities())
	assert.Equal(t, "2 BTC, 60 USD", b.String())
	assert.False(t, b.IsZero())

	neg := b.Neg()
	neg.Merge(b)
	assert.True(t, neg.IsZero())

	// Copy is deep: mutating the copy leaves the original alone.
	c := b.Copy()
	c.Add("USD", decimal.NewFromInt(1))
	assert.Equal(t, "60", b.Get("USD").String())
	assert.True(t, b.Equal(b.Copy()))
	assert.False(t, b.Equal(c))
}

func TestBalanceZeroKeepsCommodity(t *testing.T) {
	b := NewBalance()
	b.AddAmount(NewAmount("10", "USD"))
	b.AddAmount(NewAmount("-10", "USD"))

	assert.True(t, b.IsZero())
	assert.Equal(t, []string{"USD"}, b.Commodities())
	assert.Equal(t, "0 USD", b.String())
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("100.00 USD")
	assert.NoError(t, err)
	assert.Equal(t, "USD", a.Commodity)
	assert.Equal(t, "100", a.Value.String())

	bare, err := ParseAmount("42")
	assert.NoError(t, err)
	assert.Equal(t, "", bare.Commodity)

	_, err = ParseAmount("one USD")
	assert.Error(t, err)

	_, err = ParseAmount("1 2 3")
	assert.Error(t, err)
}

func TestTransactionDisplayOverrides(t *testing.T) {
	j := New()
	e := NewEntry(MustDate("2024-01-05"), "Grocery Store")
	txn := e.Add(j.Account("Expenses:Food"), NewAmount("45.00", "USD"))

	assert.Equal(t, "2024-01-05", txn.Date().String())
	assert.Equal(t, "Grocery Store", txn.Payee())
	assert.Equal(t, "Expenses:Food", txn.DisplayAccount().FullName())

	xd := txn.XData()
	xd.Date = MustDate("2024-02-01")
	xd.Payee = "USD"
	xd.Account = SyntheticAccount("<Total>")

	assert.Equal(t, "2024-02-01", txn.Date().String())
	assert.Equal(t, "USD", txn.Payee())
	assert.Equal(t, "<Total>", txn.DisplayAccount().FullName())

	txn.ClearXData()
	assert.Equal(t, "Grocery Store", txn.Payee())
}

func TestCleanAndCheckClean(t *testing.T) {
	j := New()
	e := NewEntry(MustDate("2024-01-05"), "Grocery Store")
	txn := e.Add(j.Account("Expenses:Food"), NewAmount("45.00", "USD"))
	j.AddEntry(e)

	assert.NoError(t, j.CheckClean())

	txn.XData().Index = 3
	j.Account("Expenses:Food").XData().Count = 1

	err := j.CheckClean()
	var inconsistency *InconsistencyError
	if !errors.As(err, &inconsistency) {
		t.Fatalf("expected InconsistencyError, got %T: %v", err, err)
	}
	assert.Equal(t, "transaction", inconsistency.Kind)

	j.Clean()
	assert.NoError(t, j.CheckClean())
	assert.False(t, txn.HasXData())
	assert.False(t, j.Account("Expenses:Food").HasXData())
}

func TestCheckCleanReportsDirtyAccounts(t *testing.T) {
	j := New()
	j.Account("Assets:Checking").XData().Count = 2

	err := j.CheckClean()
	var inconsistency *InconsistencyError
	if !errors.As(err, &inconsistency) {
		t.Fatalf("expected InconsistencyError, got %T: %v", err, err)
	}
	assert.Equal(t, "account", inconsistency.Kind)
	assert.Equal(t, "Assets:Checking", inconsistency.Element)
}

func TestPriceTable(t *testing.T) {
	p := NewPriceTable()
	p.Add("BTC", MustDate("2024-02-01"), decimal.NewFromInt(150), "USD")
	p.Add("BTC", MustDate("2024-01-01"), decimal.NewFromInt(100), "USD")

	// Forward-fill: the most recent quote on or before the date wins.
	price, currency, ok := p.Price("BTC", MustDate("2024-01-15"))
	assert.True(t, ok)
	assert.Equal(t, "100", price.String())
	assert.Equal(t, "USD", currency)

	price, _, ok = p.Price("BTC", MustDate("2024-02-01"))
	assert.True(t, ok)
	assert.Equal(t, "150", price.String())

	_, _, ok = p.Price("BTC", MustDate("2023-12-31"))
	assert.False(t, ok)

	assert.True(t, p.HasQuotes("BTC"))
	assert.False(t, p.HasQuotes("ETH"))
}

func TestDates(t *testing.T) {
	d, err := NewDate("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = NewDate("2024-13-01")
	assert.Error(t, err)

	_, err = NewDate("01/02/2024")
	assert.Error(t, err)
}
