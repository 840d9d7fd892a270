package report

import (
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/query"
)

// sortStage buffers the whole stream and emits it reordered by the sort key
// at flush. The sort is stable, so key-equal transactions keep their arrival
// order and re-sorting already sorted input changes nothing.
//
// In entry mode transactions are grouped by owning entry and the groups are
// ordered by their first transaction, keeping each entry's lines contiguous.
type sortStage struct {
	next    Handler
	key     *query.SortKey
	byEntry bool

	buf []*journal.Transaction
}

func (s *sortStage) Accept(t *journal.Transaction) error {
	s.buf = append(s.buf, t)
	return nil
}

func (s *sortStage) Flush() error {
	var sortErr error
	compare := func(a, b *journal.Transaction) int {
		cmp, err := s.key.Compare(query.TransactionContext(a), query.TransactionContext(b))
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return cmp
	}

	if s.byEntry {
		var groups [][]*journal.Transaction
		byEntry := make(map[*journal.Entry]int)
		for _, t := range s.buf {
			if i, ok := byEntry[t.Entry]; ok && t.Entry != nil {
				groups[i] = append(groups[i], t)
				continue
			}
			if t.Entry != nil {
				byEntry[t.Entry] = len(groups)
			}
			groups = append(groups, []*journal.Transaction{t})
		}
		slices.SortStableFunc(groups, func(a, b []*journal.Transaction) int {
			return compare(a[0], b[0])
		})
		if sortErr != nil {
			return sortErr
		}
		s.buf = nil
		for _, group := range groups {
			for _, t := range group {
				if err := s.next.Accept(t); err != nil {
					return err
				}
			}
		}
		return s.next.Flush()
	}

	slices.SortStableFunc(s.buf, compare)
	if sortErr != nil {
		return sortErr
	}
	sorted := s.buf
	s.buf = nil
	for _, t := range sorted {
		if err := s.next.Accept(t); err != nil {
			return err
		}
	}
	return s.next.Flush()
}
