package report

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/query"
)

func TestTruncateHead(t *testing.T) {
	s := run(t, fixture(), &Config{HeadCount: 2})
	assert.Equal(t, []string{"45 USD", "-45 USD", "1000 USD", "-1000 USD"}, amounts(s.got))
}

func TestTruncateTail(t *testing.T) {
	s := run(t, fixture(), &Config{TailCount: 1})
	assert.Equal(t, []string{"12.5 USD", "-12.5 USD"}, amounts(s.got))
}

func TestTruncateHeadAndTail(t *testing.T) {
	s := run(t, fixture(), &Config{HeadCount: 1, TailCount: 1})
	assert.Equal(t, []string{"45 USD", "-45 USD", "12.5 USD", "-12.5 USD"}, amounts(s.got))
}

func TestTruncateOverlappingWindows(t *testing.T) {
	// Two entries, head=1 and tail=1: both entries pass, neither twice.
	j := journal.New()
	addEntry(j, "2024-01-05", "", "First",
		"Expenses:Food", "10.00", "Assets:Checking", "-10.00")
	addEntry(j, "2024-01-06", "", "Second",
		"Expenses:Food", "20.00", "Assets:Checking", "-20.00")

	s := run(t, j, &Config{HeadCount: 1, TailCount: 1})
	assert.Equal(t, []string{"10 USD", "-10 USD", "20 USD", "-20 USD"}, amounts(s.got))
}

func TestSortPreservesMultiset(t *testing.T) {
	unsorted := run(t, fixture(), &Config{})
	sorted := run(t, fixture(), &Config{SortKey: "-amount"})

	assert.Equal(t, []string{
		"1000 USD", "45 USD", "12.5 USD", "-12.5 USD", "-45 USD", "-1000 USD",
	}, amounts(sorted.got))

	a, b := amounts(unsorted.got), amounts(sorted.got)
	sort.Strings(a)
	sort.Strings(b)
	assert.Equal(t, a, b)
}

func TestSortIsIdempotent(t *testing.T) {
	first := run(t, fixture(), &Config{SortKey: "-amount"})

	// Feeding the sorted output through a fresh stage with the same key
	// must change nothing.
	key, err := query.CompileSort("-amount")
	assert.NoError(t, err)
	again := &sink{}
	stage := &sortStage{next: again, key: key}
	for _, tr := range first.got {
		assert.NoError(t, stage.Accept(tr))
	}
	assert.NoError(t, stage.Flush())
	assert.Equal(t, amounts(first.got), amounts(again.got))
}

func TestSortIsStable(t *testing.T) {
	// All fixture dates are distinct per entry, so sorting by date keeps
	// each entry's transactions in arrival order.
	s := run(t, fixture(), &Config{SortKey: "date"})
	assert.Equal(t, []string{
		"45 USD", "-45 USD", "1000 USD", "-1000 USD", "12.5 USD", "-12.5 USD",
	}, amounts(s.got))
}

func TestSortByEntryKeepsEntriesContiguous(t *testing.T) {
	s := run(t, fixture(), &Config{SortKey: "-amount", SortByEntry: true})

	// The employer entry leads on its 1000 USD transaction; each entry's
	// own transactions stay together and in order.
	assert.Equal(t, []string{
		"1000 USD", "-1000 USD", "45 USD", "-45 USD", "12.5 USD", "-12.5 USD",
	}, amounts(s.got))
}

func subtotalSums(ts []*journal.Transaction) map[string]string {
	sums := make(map[string]string)
	for _, tr := range ts {
		sums[tr.DisplayAccount().FullName()] = tr.Amount.String()
	}
	return sums
}

func TestSubtotal(t *testing.T) {
	s := run(t, fixture(), &Config{ShowSubtotal: true})

	assert.Equal(t, []string{
		"Assets:Checking", "Expenses:Food", "Income:Salary",
	}, accountNames(s.got))
	assert.Equal(t, map[string]string{
		"Assets:Checking": "942.5 USD",
		"Expenses:Food":   "57.5 USD",
		"Income:Salary":   "-1000 USD",
	}, subtotalSums(s.got))

	// One synthetic entry dated at the range start, labelled with the end.
	assert.Equal(t, "2024-01-05", s.got[0].Date().String())
	assert.Equal(t, "- 2024-02-02", s.got[0].Payee())
}

func TestSubtotalIsOrderInsensitive(t *testing.T) {
	straight := run(t, fixture(), &Config{ShowSubtotal: true})

	permuted := journal.New()
	addEntry(permuted, "2024-01-05", "G1", "Grocery Store",
		"Assets:Checking", "-45.00", "Expenses:Food", "45.00")
	addEntry(permuted, "2024-02-02", "C1", "Cafe",
		"Assets:Checking", "-12.50", "Expenses:Food", "12.50")
	addEntry(permuted, "2024-01-10", "S1", "Employer",
		"Income:Salary", "-1000.00", "Assets:Checking", "1000.00")
	shuffled := run(t, permuted, &Config{ShowSubtotal: true})

	assert.Equal(t, subtotalSums(straight.got), subtotalSums(shuffled.got))
}

func TestDayOfWeekBuckets(t *testing.T) {
	// 2024-01-10 is a Wednesday; the other two entries fall on Fridays.
	s := run(t, fixture(), &Config{DaysOfTheWeek: true})

	assert.Equal(t, []string{
		"Wednesdays", "Wednesdays", "Fridays", "Fridays",
	}, payees(s.got))
	assert.Equal(t, map[string]string{
		"Assets:Checking": "-57.5 USD",
		"Expenses:Food":   "57.5 USD",
	}, subtotalSums(s.got[2:]))
	assert.Equal(t, "2024-02-02", s.got[2].Date().String())
}

func TestByPayeeBuckets(t *testing.T) {
	s := run(t, fixture(), &Config{ByPayee: true})

	assert.Equal(t, []string{
		"Cafe", "Cafe", "Employer", "Employer", "Grocery Store", "Grocery Store",
	}, payees(s.got))
	assert.Equal(t, map[string]string{
		"Assets:Checking": "-12.5 USD",
		"Expenses:Food":   "12.5 USD",
	}, subtotalSums(s.got[:2]))
}

func TestIntervalMonthly(t *testing.T) {
	s := run(t, fixture(), &Config{ReportPeriod: "monthly"})

	// January: both entries folded; February: the cafe entry alone.
	assert.Equal(t, []string{
		"Assets:Checking", "Expenses:Food", "Income:Salary",
		"Assets:Checking", "Expenses:Food",
	}, accountNames(s.got))
	assert.Equal(t, "2024-01-01", s.got[0].Date().String())
	assert.Equal(t, "955 USD", s.got[0].Amount.String())
	assert.Equal(t, "2024-02-01", s.got[3].Date().String())
	assert.Equal(t, "-12.5 USD", s.got[3].Amount.String())
}

func TestCollapseZeroSumEntry(t *testing.T) {
	j := journal.New()
	addEntry(j, "2024-03-01", "", "Split",
		"Expenses:A", "10.00", "Expenses:B", "-3.00", "Expenses:C", "-7.00")

	s := run(t, j, &Config{ShowCollapsed: true})

	assert.Equal(t, 1, len(s.got))
	assert.True(t, s.got[0].Amount.Value.IsZero())
	assert.Equal(t, "<Total>", s.got[0].DisplayAccount().FullName())
	assert.Equal(t, 3, len(s.got[0].XData().Components))
	assert.Equal(t, "Split", s.got[0].Payee())
}

func TestCollapsePassesSingleTransactionEntries(t *testing.T) {
	s := run(t, fixture(), &Config{
		DisplayPredicate: `account =~ "Food"`,
		ShowCollapsed:    true,
	})

	// After filtering, each entry holds at most one transaction and
	// collapse must not manufacture totals for them.
	assert.Equal(t, []string{"Expenses:Food", "Expenses:Food"}, accountNames(s.got))
}

func TestRelatedNarrowEmitsOnlyMatches(t *testing.T) {
	s := run(t, fixture(), &Config{
		DisplayPredicate: `account =~ "Food" and date < [2024-01-06]`,
		ShowRelated:      true,
	})

	assert.Equal(t, []string{"45 USD"}, amounts(s.got))
}

func TestRelatedAllWidensToWholeEntry(t *testing.T) {
	s := run(t, fixture(), &Config{
		DisplayPredicate: `account =~ "Food" and date < [2024-01-06]`,
		ShowRelated:      true,
		ShowAllRelated:   true,
	})

	assert.Equal(t, []string{"45 USD", "-45 USD"}, amounts(s.got))
	assert.Equal(t, []string{"Expenses:Food", "Assets:Checking"}, accountNames(s.got))
}

func TestReconcileExactSum(t *testing.T) {
	s := run(t, fixture(), &Config{
		DisplayPredicate: `account =~ "Checking"`,
		ReconcileBalance: "942.50 USD",
		ReconcileDate:    "2024-02-10",
	})

	assert.Equal(t, []string{"-45 USD", "1000 USD", "-12.5 USD"}, amounts(s.got))
}

func TestReconcileExcludesAfterCutoff(t *testing.T) {
	s := run(t, fixture(), &Config{
		DisplayPredicate: `account =~ "Checking"`,
		ReconcileBalance: "955.00 USD",
		ReconcileDate:    "2024-01-31",
	})

	assert.Equal(t, []string{"-45 USD", "1000 USD"}, amounts(s.got))
}

func TestReconcileExcludesOneUncleared(t *testing.T) {
	// Candidates sum to 955; excluding the 1000 USD deposit reconciles
	// the remainder to the target.
	s := run(t, fixture(), &Config{
		DisplayPredicate: `account =~ "Checking"`,
		ReconcileBalance: "-45.00 USD",
		ReconcileDate:    "2024-01-31",
	})

	assert.Equal(t, []string{"-45 USD"}, amounts(s.got))
}

func TestReconcileFailure(t *testing.T) {
	err := New(fixture(), &Config{
		DisplayPredicate: `account =~ "Checking"`,
		ReconcileBalance: "5.00 USD",
		ReconcileDate:    "2024-01-31",
	}).Transactions(context.Background(), &sink{})

	var reconcileErr *ReconcileError
	if !errors.As(err, &reconcileErr) {
		t.Fatalf("expected ReconcileError, got %T: %v", err, err)
	}
}

func TestInvert(t *testing.T) {
	s := run(t, fixture(), &Config{ShowInverted: true, HeadCount: 1})

	assert.Equal(t, []string{"-45 USD", "45 USD"}, amounts(s.got))
	for _, tr := range s.got {
		assert.NotZero(t, tr.Origin)
	}
	assert.Equal(t, "45 USD", s.got[0].Origin.Amount.String())
}

func TestCommodityAsPayee(t *testing.T) {
	s := run(t, fixture(), &Config{CommAsPayee: true, HeadCount: 1})
	assert.Equal(t, []string{"USD", "USD"}, payees(s.got))
}

func TestCodeAsPayee(t *testing.T) {
	s := run(t, fixture(), &Config{CodeAsPayee: true, HeadCount: 1})
	assert.Equal(t, []string{"G1", "G1"}, payees(s.got))
}

func TestCommodityAsPayeeWinsOverCode(t *testing.T) {
	s := run(t, fixture(), &Config{CommAsPayee: true, CodeAsPayee: true, HeadCount: 1})
	assert.Equal(t, []string{"USD", "USD"}, payees(s.got))
}

func TestRevalue(t *testing.T) {
	j := journal.New()
	e := journal.NewEntry(journal.MustDate("2024-01-05"), "Buy")
	e.Add(j.Account("Assets:BTC"), journal.NewAmount("1", "BTC"))
	e.Add(j.Account("Equity:Opening"), journal.NewAmount("-1", "BTC"))
	j.AddEntry(e)
	addEntry(j, "2024-02-10", "", "Fee",
		"Expenses:Fees", "5.00", "Assets:Checking", "-5.00")

	j.Prices().Add("BTC", journal.MustDate("2024-01-01"), decimal.NewFromInt(100), "USD")
	j.Prices().Add("BTC", journal.MustDate("2024-02-01"), decimal.NewFromInt(150), "USD")

	s := run(t, j, &Config{
		DisplayPredicate: `account =~ "Assets"`,
		ShowRevalued:     true,
		Now:              journal.MustDate("2024-02-15"),
	})

	assert.Equal(t, []string{"1 BTC", "50 USD", "-5 USD"}, amounts(s.got))
	assert.Equal(t, "<Revalued>", s.got[1].DisplayAccount().FullName())
	assert.Equal(t, "Commodities revalued", s.got[1].Payee())
	assert.Equal(t, "2024-02-10", s.got[1].Date().String())

	only := run(t, j, &Config{
		DisplayPredicate: `account =~ "Assets"`,
		ShowRevalued:     true,
		ShowRevaluedOnly: true,
		Now:              journal.MustDate("2024-02-15"),
	})
	assert.Equal(t, []string{"50 USD"}, amounts(only.got))
}

func TestDescendFiltersAndSplitsSegments(t *testing.T) {
	// A trailing empty segment compiles to a match-everything stage.
	s := run(t, fixture(), &Config{DescendExpr: `account =~ "Food";`})
	assert.Equal(t, []string{"45 USD", "12.5 USD"}, amounts(s.got))
}

func TestComponentStageExpandsAggregates(t *testing.T) {
	j := fixture()
	entry := j.Entries()[0]
	a, b := entry.Transactions[0], entry.Transactions[1]

	total := journal.SyntheticAccount("<Total>")
	aggregate := &journal.Transaction{
		Entry:   entry,
		Account: total,
		Amount:  journal.NewAmount("0", "USD"),
	}
	aggregate.XData().Components = []*journal.Transaction{a, b}

	expr, err := query.Compile(`account =~ "Total"`)
	assert.NoError(t, err)

	out := &sink{}
	stage := &componentStage{next: out, pred: expr}
	assert.NoError(t, stage.Accept(aggregate))
	assert.NoError(t, stage.Flush())

	assert.Equal(t, []*journal.Transaction{a, b}, out.got)
}

func TestPeriodStart(t *testing.T) {
	d := journal.MustDate("2024-08-14") // a Wednesday

	assert.Equal(t, "2024-08-14", PeriodDaily.Start(d).String())
	assert.Equal(t, "2024-08-11", PeriodWeekly.Start(d).String())
	assert.Equal(t, "2024-08-01", PeriodMonthly.Start(d).String())
	assert.Equal(t, "2024-07-01", PeriodQuarterly.Start(d).String())
	assert.Equal(t, "2024-01-01", PeriodYearly.Start(d).String())
}
