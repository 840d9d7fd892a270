package report

import (
	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/query"
)

// componentStage drills into aggregates. A transaction matching the
// predicate is replaced by its recorded component transactions when it has
// any, and forwarded as-is when it has none. Non-matching transactions are
// dropped, which is what lets several chained componentStages descend level
// by level through nested aggregations.
type componentStage struct {
	next Handler
	pred *query.Expr
}

func (s *componentStage) Accept(t *journal.Transaction) error {
	ok, err := s.pred.Match(query.TransactionContext(t))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if t.HasXData() {
		if components := t.XData().Components; len(components) > 0 {
			for _, c := range components {
				if err := s.next.Accept(c); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return s.next.Accept(t)
}

func (s *componentStage) Flush() error {
	return s.next.Flush()
}
