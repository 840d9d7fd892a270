package journal

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceTable stores dated market quotes per commodity. The revaluation stage
// uses it to compare what a held position was worth at two points in time.
//
// Quotes are kept sorted by date so lookups can forward-fill: asking for a
// commodity's price on a date returns the most recent quote on or before it.
type PriceTable struct {
	quotes map[string][]*quote
}

type quote struct {
	date     Date
	price    decimal.Decimal
	currency string
}

// NewPriceTable creates an empty price table.
func NewPriceTable() *PriceTable {
	return &PriceTable{quotes: make(map[string][]*quote)}
}

// Add records a quote: one unit of commodity was worth price currency on
// date. Quotes may arrive in any order.
func (p *PriceTable) Add(commodity string, date Date, price decimal.Decimal, currency string) {
	q := &quote{date: date, price: price, currency: currency}
	list := append(p.quotes[commodity], q)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].date.Before(list[j].date.Time)
	})
	p.quotes[commodity] = list
}

// Price returns the most recent quote for commodity on or before date. The
// boolean is false when no quote that old exists.
func (p *PriceTable) Price(commodity string, date Date) (decimal.Decimal, string, bool) {
	list := p.quotes[commodity]
	for i := len(list) - 1; i >= 0; i-- {
		if !list[i].date.After(date.Time) {
			return list[i].price, list[i].currency, true
		}
	}
	return decimal.Zero, "", false
}

// HasQuotes reports whether any quote exists for the commodity.
func (p *PriceTable) HasQuotes(commodity string) bool {
	return len(p.quotes[commodity]) > 0
}
