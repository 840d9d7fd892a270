package report

import "github.com/robinvdvleuten/ledger/journal"

// calcStage maintains the report's running total and stamps every passing
// transaction with a snapshot of it plus its 0-based report index. Because
// the stage sits behind the display filter, the total reflects exactly the
// surviving subsequence, not the whole journal.
type calcStage struct {
	next  Handler
	total *journal.Balance
	count int
}

func (s *calcStage) Accept(t *journal.Transaction) error {
	s.total.AddAmount(t.Amount)
	xd := t.XData()
	xd.Total = s.total.Copy()
	xd.Index = s.count
	s.count++
	return s.next.Accept(t)
}

func (s *calcStage) Flush() error {
	return s.next.Flush()
}
