package journal

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Balance represents a value across one or more commodities. It stores
// amounts in a slice sorted by commodity code for deterministic iteration,
// which keeps subtotal and account-report output stable.
type Balance struct {
	amounts []*Amount
}

// NewBalance creates an empty balance.
func NewBalance() *Balance {
	return &Balance{}
}

// Get returns the amount for a commodity, or zero if absent.
func (b *Balance) Get(commodity string) decimal.Decimal {
	for _, a := range b.amounts {
		if a.Commodity == commodity {
			return a.Value
		}
	}
	return decimal.Zero
}

// Add adds a value to a commodity's amount, inserting it if absent.
func (b *Balance) Add(commodity string, value decimal.Decimal) {
	for _, a := range b.amounts {
		if a.Commodity == commodity {
			a.Value = a.Value.Add(value)
			return
		}
	}
	b.amounts = append(b.amounts, &Amount{Commodity: commodity, Value: value})
	sort.Slice(b.amounts, func(i, j int) bool {
		return b.amounts[i].Commodity < b.amounts[j].Commodity
	})
}

// AddAmount adds a single-commodity amount to the balance.
func (b *Balance) AddAmount(a Amount) {
	b.Add(a.Commodity, a.Value)
}

// Merge adds every amount of another balance into this one.
func (b *Balance) Merge(other *Balance) {
	if other == nil {
		return
	}
	for _, a := range other.amounts {
		b.Add(a.Commodity, a.Value)
	}
}

// IsZero reports whether every amount is zero or the balance is empty.
func (b *Balance) IsZero() bool {
	for _, a := range b.amounts {
		if !a.Value.IsZero() {
			return false
		}
	}
	return true
}

// Equal reports whether two balances carry the same amounts per commodity.
func (b *Balance) Equal(other *Balance) bool {
	if other == nil {
		return b.IsZero()
	}
	for _, a := range b.amounts {
		if !a.Value.Equal(other.Get(a.Commodity)) {
			return false
		}
	}
	for _, a := range other.amounts {
		if !a.Value.Equal(b.Get(a.Commodity)) {
			return false
		}
	}
	return true
}

// Neg returns a new balance with every amount negated.
func (b *Balance) Neg() *Balance {
	neg := NewBalance()
	for _, a := range b.amounts {
		neg.Add(a.Commodity, a.Value.Neg())
	}
	return neg
}

// Copy creates a deep copy of this balance.
func (b *Balance) Copy() *Balance {
	if b == nil {
		return NewBalance()
	}
	c := &Balance{amounts: make([]*Amount, len(b.amounts))}
	for i, a := range b.amounts {
		c.amounts[i] = &Amount{Commodity: a.Commodity, Value: a.Value}
	}
	return c
}

// Commodities returns the commodity codes present, sorted.
func (b *Balance) Commodities() []string {
	codes := make([]string, len(b.amounts))
	for i, a := range b.amounts {
		codes[i] = a.Commodity
	}
	return codes
}

// Amounts returns the underlying sorted per-commodity amounts.
func (b *Balance) Amounts() []*Amount {
	return b.amounts
}

// String returns a human-readable representation like "100 USD, 2 BTC".
func (b *Balance) String() string {
	if len(b.amounts) == 0 {
		return "0"
	}
	parts := make([]string, len(b.amounts))
	for i, a := range b.amounts {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
