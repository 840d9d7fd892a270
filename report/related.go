package report

import "github.com/robinvdvleuten/ledger/journal"

// invertStage negates amounts. It emits a synthetic copy carrying an Origin
// pointer back to the stored transaction rather than mutating it, so the
// store stays pristine and downstream deduplication still keys correctly.
// Scratch state computed upstream rides along on the copy.
type invertStage struct {
	next Handler
}

func (s *invertStage) Accept(t *journal.Transaction) error {
	inv := &journal.Transaction{
		Entry:   t.Entry,
		Account: t.Account,
		Amount:  t.Amount.Neg(),
		Origin:  origin(t),
	}
	if t.HasXData() {
		src := t.XData()
		xd := inv.XData()
		xd.Total = src.Total
		xd.Index = src.Index
		xd.Date = src.Date
		xd.Account = src.Account
		xd.Payee = src.Payee
		xd.Components = src.Components
	}
	return s.next.Accept(inv)
}

func (s *invertStage) Flush() error {
	return s.next.Flush()
}

// relatedStage is a set-expansion filter over entries. Plain mode re-emits
// the transactions it received, deduplicated by origin. All mode widens each
// to its whole entry: once any transaction of an entry arrives here, every
// sibling is emitted too, including ones an upstream filter dropped.
//
// The handled flag lives in scratch state so a sibling pulled in through
// one transaction is never emitted again through another.
type relatedStage struct {
	next Handler
	all  bool
	buf  []*journal.Transaction
}

func (s *relatedStage) Accept(t *journal.Transaction) error {
	s.buf = append(s.buf, t)
	return nil
}

func (s *relatedStage) Flush() error {
	buf := s.buf
	s.buf = nil
	for _, t := range buf {
		o := origin(t)
		if o.XData().Handled {
			continue
		}
		o.XData().Handled = true
		if err := s.next.Accept(t); err != nil {
			return err
		}
		if !s.all || t.Entry == nil {
			continue
		}
		for _, sibling := range t.Entry.Transactions {
			if sibling.XData().Handled {
				continue
			}
			sibling.XData().Handled = true
			if err := s.next.Accept(sibling); err != nil {
				return err
			}
		}
	}
	return s.next.Flush()
}
