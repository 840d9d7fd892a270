package report

import "github.com/robinvdvleuten/ledger/journal"

// revalueStage reports unrealized gains and losses. It tracks the position
// held so far and, whenever time advances from one transaction to the next,
// compares what that position was worth at both dates using the price table.
// A change in market value produces a synthetic "Commodities revalued" entry
// against the <Revalued> account, one transaction per currency that moved.
// Commodities without quotes contribute nothing.
//
// At end-of-stream the position is revalued once more against the report's
// current date, so gains accrued since the last real transaction still show.
//
// With changedOnly set the real transactions are swallowed and only the
// revaluation lines come out.
type revalueStage struct {
	next        Handler
	prices      *journal.PriceTable
	changedOnly bool
	now         journal.Date

	position *journal.Balance
	last     *journal.Transaction
	revalued *journal.Account
}

func (s *revalueStage) Accept(t *journal.Transaction) error {
	if s.last != nil {
		if err := s.emitChange(t.Date()); err != nil {
			return err
		}
	}
	s.position.AddAmount(t.Amount)
	s.last = t
	if s.changedOnly {
		return nil
	}
	return s.next.Accept(t)
}

func (s *revalueStage) Flush() error {
	if s.last != nil {
		if err := s.emitChange(s.now); err != nil {
			return err
		}
	}
	return s.next.Flush()
}

func (s *revalueStage) emitChange(date journal.Date) error {
	diff := s.valueAt(date)
	for _, a := range s.valueAt(s.last.Date()).Amounts() {
		diff.Add(a.Commodity, a.Value.Neg())
	}
	if diff.IsZero() {
		return nil
	}

	if s.revalued == nil {
		s.revalued = journal.SyntheticAccount("<Revalued>")
	}
	entry := journal.NewEntry(date, "Commodities revalued")
	for _, a := range diff.Amounts() {
		if a.Value.IsZero() {
			continue
		}
		t := entry.Add(s.revalued, *a)
		total := journal.NewBalance()
		if s.last.HasXData() {
			total = s.last.XData().Total.Copy()
		}
		total.AddAmount(*a)
		t.XData().Total = total
		if err := s.next.Accept(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *revalueStage) valueAt(date journal.Date) *journal.Balance {
	value := journal.NewBalance()
	for _, a := range s.position.Amounts() {
		price, currency, ok := s.prices.Price(a.Commodity, date)
		if !ok {
			continue
		}
		value.Add(currency, a.Value.Mul(price))
	}
	return value
}
