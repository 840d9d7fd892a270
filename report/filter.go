package report

import (
	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/query"
)

// filterStage forwards only transactions matching its predicate. Dropped
// transactions are gone for good; nothing downstream ever sees them.
type filterStage struct {
	next Handler
	pred *query.Expr
}

func (s *filterStage) Accept(t *journal.Transaction) error {
	ok, err := s.pred.Match(query.TransactionContext(t))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.next.Accept(t)
}

func (s *filterStage) Flush() error {
	return s.next.Flush()
}

// commodityPayeeStage overrides each transaction's displayed payee with its
// commodity code.
type commodityPayeeStage struct {
	next Handler
}

func (s *commodityPayeeStage) Accept(t *journal.Transaction) error {
	t.XData().Payee = t.Amount.Commodity
	return s.next.Accept(t)
}

func (s *commodityPayeeStage) Flush() error {
	return s.next.Flush()
}

// codePayeeStage overrides each transaction's displayed payee with its owning
// entry's code.
type codePayeeStage struct {
	next Handler
}

func (s *codePayeeStage) Accept(t *journal.Transaction) error {
	if t.Entry != nil {
		t.XData().Payee = t.Entry.Code
	}
	return s.next.Accept(t)
}

func (s *codePayeeStage) Flush() error {
	return s.next.Flush()
}
