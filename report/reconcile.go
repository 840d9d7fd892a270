package report

import "github.com/robinvdvleuten/ledger/journal"

// reconcileStage works out which transactions on or before the cutoff date
// must have cleared for the account to show the target balance. When the
// candidates already sum to the target they all pass; otherwise the stage
// looks for a single candidate whose amount equals the surplus and excludes
// it, modelling the common case of one uncleared check. Anything more
// tangled is a reconciliation failure.
//
// Transactions dated after the cutoff never pass. Survivors are emitted in
// their original order at flush time.
type reconcileStage struct {
	next   Handler
	target journal.Amount
	cutoff journal.Date

	buf []*journal.Transaction
}

func (s *reconcileStage) Accept(t *journal.Transaction) error {
	s.buf = append(s.buf, t)
	return nil
}

func (s *reconcileStage) Flush() error {
	var candidates []*journal.Transaction
	cleared := journal.NewBalance()
	for _, t := range s.buf {
		if t.Date().After(s.cutoff.Time) {
			continue
		}
		candidates = append(candidates, t)
		cleared.AddAmount(t.Amount)
	}
	s.buf = nil

	if len(cleared.Amounts()) > 1 {
		return &ReconcileError{Target: s.target, Actual: cleared}
	}

	sum := cleared.Get(s.target.Commodity)
	if !sum.Equal(s.target.Value) {
		surplus := sum.Sub(s.target.Value)
		excluded := -1
		for i, t := range candidates {
			if t.Amount.Commodity == s.target.Commodity && t.Amount.Value.Equal(surplus) {
				excluded = i
				break
			}
		}
		if excluded < 0 {
			return &ReconcileError{Target: s.target, Actual: cleared}
		}
		candidates = append(candidates[:excluded], candidates[excluded+1:]...)
	}

	for _, t := range candidates {
		if err := s.next.Accept(t); err != nil {
			return err
		}
	}
	return s.next.Flush()
}
