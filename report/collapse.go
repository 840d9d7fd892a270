package report

import "github.com/robinvdvleuten/ledger/journal"

// collapseStage folds each entry's surviving transactions into a single line
// per commodity against the shared <Total> account. Entries that arrive with
// only one transaction pass through untouched. A group that nets to zero
// still produces its transaction with a zero amount, so the entry stays
// visible in the report.
//
// Collapsed transactions record the folded group as their components and
// inherit the group's final running total.
type collapseStage struct {
	next         Handler
	totalAccount *journal.Account

	entry *journal.Entry
	group []*journal.Transaction
}

func (s *collapseStage) Accept(t *journal.Transaction) error {
	if len(s.group) > 0 && t.Entry != s.entry {
		if err := s.emitGroup(); err != nil {
			return err
		}
	}
	s.entry = t.Entry
	s.group = append(s.group, t)
	return nil
}

func (s *collapseStage) Flush() error {
	if len(s.group) > 0 {
		if err := s.emitGroup(); err != nil {
			return err
		}
	}
	return s.next.Flush()
}

func (s *collapseStage) emitGroup() error {
	group := s.group
	s.group = nil

	if len(group) == 1 {
		return s.next.Accept(group[0])
	}

	sum := journal.NewBalance()
	for _, t := range group {
		sum.AddAmount(t.Amount)
	}
	last := group[len(group)-1]
	for _, a := range sum.Amounts() {
		t := &journal.Transaction{Entry: s.entry, Account: s.totalAccount, Amount: *a}
		xd := t.XData()
		xd.Components = group
		if last.HasXData() {
			xd.Total = last.XData().Total
		}
		if err := s.next.Accept(t); err != nil {
			return err
		}
	}
	return nil
}
