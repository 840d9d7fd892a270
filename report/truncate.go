package report

import "github.com/robinvdvleuten/ledger/journal"

// truncateStage keeps the first head and last tail entries of the stream,
// counting entries in encounter order. A transaction passes when its entry
// falls in either window; an entry in both windows is emitted once.
//
// With only a head window the stage streams, forwarding until the window
// closes. A tail window forces full buffering since the total entry count is
// unknown until end-of-stream.
type truncateStage struct {
	next Handler
	head int
	tail int

	last *journal.Entry
	seen int
	buf  []*journal.Transaction
}

func (s *truncateStage) Accept(t *journal.Transaction) error {
	if s.tail > 0 {
		s.buf = append(s.buf, t)
		return nil
	}
	if t.Entry != s.last {
		s.last = t.Entry
		s.seen++
	}
	if s.seen <= s.head {
		return s.next.Accept(t)
	}
	return nil
}

func (s *truncateStage) Flush() error {
	if s.tail > 0 {
		// Number entries 1..n in encounter order, then pass everything
		// inside either window.
		index := make([]int, len(s.buf))
		var last *journal.Entry
		n := 0
		for i, t := range s.buf {
			if i == 0 || t.Entry != last {
				last = t.Entry
				n++
			}
			index[i] = n
		}
		for i, t := range s.buf {
			if index[i] <= s.head || n-index[i] < s.tail {
				if err := s.next.Accept(t); err != nil {
					return err
				}
			}
		}
		s.buf = nil
	}
	return s.next.Flush()
}
