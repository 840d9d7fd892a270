package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const sampleJournal = `# groceries and salary
entry,2024-01-05,G1,Grocery Store
txn,Expenses:Food,45.00,USD
txn,Assets:Checking,-45.00,USD

entry,2024-01-10,,Employer
txn,Assets:Checking,1000.00,USD
txn,Income:Salary,-1000.00,USD

price,2024-01-01,BTC,43000,USD
`

func TestParse(t *testing.T) {
	j, err := New().Parse(context.Background(), strings.NewReader(sampleJournal))
	assert.NoError(t, err)

	entries := j.Entries()
	assert.Equal(t, 2, len(entries))

	first := entries[0]
	assert.Equal(t, "2024-01-05", first.Date.String())
	assert.Equal(t, "G1", first.Code)
	assert.Equal(t, "Grocery Store", first.Payee)
	assert.Equal(t, 2, len(first.Transactions))
	assert.Equal(t, "Expenses:Food", first.Transactions[0].Account.FullName())
	assert.Equal(t, "45 USD", first.Transactions[0].Amount.String())

	assert.Equal(t, "", entries[1].Code)

	price, currency, ok := j.Prices().Price("BTC", first.Date)
	assert.True(t, ok)
	assert.Equal(t, "43000", price.String())
	assert.Equal(t, "USD", currency)
}

func TestParseSharesAccountNodes(t *testing.T) {
	j, err := New().Parse(context.Background(), strings.NewReader(sampleJournal))
	assert.NoError(t, err)

	a := j.Entries()[0].Transactions[1].Account
	b := j.Entries()[1].Transactions[0].Account
	assert.True(t, a == b)
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "ledger.csv")
	assert.NoError(t, os.WriteFile(file, []byte(sampleJournal), 0644))

	j, err := New().Load(context.Background(), file)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(j.Entries()))

	_, err = New().Load(context.Background(), filepath.Join(tmpDir, "missing.csv"))
	assert.Error(t, err)
}

func TestUnbalancedEntry(t *testing.T) {
	input := `entry,2024-01-05,,Broken
txn,Expenses:Food,45.00,USD
txn,Assets:Checking,-40.00,USD
`
	_, err := New().Parse(context.Background(), strings.NewReader(input))

	var unbalanced *UnbalancedEntryError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedEntryError, got %T: %v", err, err)
	}
	assert.Equal(t, "USD", unbalanced.Commodity)
	assert.Equal(t, "5", unbalanced.Sum.String())
	assert.Contains(t, unbalanced.Error(), "Broken")
}

func TestUnbalancedLastEntry(t *testing.T) {
	input := `entry,2024-01-05,,Tail
txn,Expenses:Food,1.00,USD
`
	_, err := New().Parse(context.Background(), strings.NewReader(input))
	var unbalanced *UnbalancedEntryError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedEntryError, got %T: %v", err, err)
	}
}

func TestRelaxedBalance(t *testing.T) {
	input := `entry,2024-01-05,,Fragment
txn,Expenses:Food,45.00,USD
`
	j, err := New(WithRelaxedBalance()).Parse(context.Background(), strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(j.Entries()))
}

func TestMixedCommodityEntry(t *testing.T) {
	// Balance is checked per commodity, not across them.
	input := `entry,2024-01-05,,Trade
txn,Assets:BTC,1,BTC
txn,Equity:BTC,-1,BTC
txn,Assets:Cash,100,USD
txn,Equity:Cash,-100,USD
`
	j, err := New().Parse(context.Background(), strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, 4, len(j.Entries()[0].Transactions))
}

func TestRecordErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown record type", "bogus,2024-01-05\n"},
		{"txn before entry", "txn,Expenses:Food,1.00,USD\n"},
		{"bad entry date", "entry,yesterday,,Store\n"},
		{"short entry record", "entry,2024-01-05\n"},
		{"bad amount", "entry,2024-01-05,,Store\ntxn,Expenses:Food,lots,USD\n"},
		{"short price record", "price,2024-01-05,BTC\n"},
		{"bad price value", "price,2024-01-05,BTC,cheap,USD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(context.Background(), strings.NewReader(tt.input))
			var recordErr *RecordError
			if !errors.As(err, &recordErr) {
				t.Fatalf("expected RecordError, got %T: %v", err, err)
			}
		})
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Parse(ctx, strings.NewReader(sampleJournal))
	assert.True(t, errors.Is(err, context.Canceled))
}
