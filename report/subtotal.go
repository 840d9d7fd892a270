package report

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/ledger/journal"
)

// subtotalAccumulator folds transactions into per-account balances and
// remembers the date range they span. The aggregating stages (subtotal,
// day-of-week, by-payee, interval) all share it and differ only in how many
// accumulators they keep and when they emit.
type subtotalAccumulator struct {
	accounts map[string]*accountBucket
	start    journal.Date
	end      journal.Date
}

type accountBucket struct {
	account    *journal.Account
	sum        *journal.Balance
	components []*journal.Transaction
}

func newSubtotalAccumulator() *subtotalAccumulator {
	return &subtotalAccumulator{accounts: make(map[string]*accountBucket)}
}

func (acc *subtotalAccumulator) add(t *journal.Transaction, remember bool) {
	account := t.DisplayAccount()
	name := account.FullName()
	bucket, ok := acc.accounts[name]
	if !ok {
		bucket = &accountBucket{account: account, sum: journal.NewBalance()}
		acc.accounts[name] = bucket
	}
	bucket.sum.AddAmount(t.Amount)
	if remember {
		bucket.components = append(bucket.components, t)
	}

	d := t.Date()
	if acc.start.IsZero() || d.Before(acc.start.Time) {
		acc.start = d
	}
	if acc.end.IsZero() || d.After(acc.end.Time) {
		acc.end = d
	}
}

func (acc *subtotalAccumulator) empty() bool {
	return len(acc.accounts) == 0
}

// emit writes one synthetic entry holding a transaction per account per
// commodity, accounts in full-name order. Zero per-commodity sums are kept.
func (acc *subtotalAccumulator) emit(next Handler, date journal.Date, payee string) error {
	names := make([]string, 0, len(acc.accounts))
	for name := range acc.accounts {
		names = append(names, name)
	}
	slices.Sort(names)

	entry := journal.NewEntry(date, payee)
	for _, name := range names {
		bucket := acc.accounts[name]
		for _, a := range bucket.sum.Amounts() {
			t := entry.Add(bucket.account, *a)
			if len(bucket.components) > 0 {
				t.XData().Components = bucket.components
			}
			if err := next.Accept(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// subtotalStage folds the whole stream into a single subtotal entry, emitted
// at end-of-stream dated at the range start and labelled with the range end.
type subtotalStage struct {
	next     Handler
	acc      *subtotalAccumulator
	remember bool
}

func (s *subtotalStage) Accept(t *journal.Transaction) error {
	s.acc.add(t, s.remember)
	return nil
}

func (s *subtotalStage) Flush() error {
	if !s.acc.empty() {
		if err := s.acc.emit(s.next, s.acc.start, "- "+s.acc.end.String()); err != nil {
			return err
		}
	}
	return s.next.Flush()
}

// dowStage subtotals by day of the week, answering "what do Saturdays cost".
// Buckets come out Sunday through Saturday at end-of-stream, each dated at
// the latest date seen on that weekday.
type dowStage struct {
	next     Handler
	remember bool
	buckets  [7]*subtotalAccumulator
}

func newDowStage(next Handler, remember bool) *dowStage {
	s := &dowStage{next: next, remember: remember}
	for i := range s.buckets {
		s.buckets[i] = newSubtotalAccumulator()
	}
	return s
}

func (s *dowStage) Accept(t *journal.Transaction) error {
	s.buckets[t.Date().Weekday()].add(t, s.remember)
	return nil
}

func (s *dowStage) Flush() error {
	for wd, acc := range s.buckets {
		if acc.empty() {
			continue
		}
		if err := acc.emit(s.next, acc.end, time.Weekday(wd).String()+"s"); err != nil {
			return err
		}
	}
	return s.next.Flush()
}

// byPayeeStage subtotals per payee, emitted at end-of-stream in payee order,
// each entry dated at the latest date seen for that payee.
type byPayeeStage struct {
	next     Handler
	remember bool
	buckets  map[string]*subtotalAccumulator
}

func (s *byPayeeStage) Accept(t *journal.Transaction) error {
	payee := t.Payee()
	acc, ok := s.buckets[payee]
	if !ok {
		acc = newSubtotalAccumulator()
		s.buckets[payee] = acc
	}
	acc.add(t, s.remember)
	return nil
}

func (s *byPayeeStage) Flush() error {
	payees := make([]string, 0, len(s.buckets))
	for payee := range s.buckets {
		payees = append(payees, payee)
	}
	slices.Sort(payees)
	for _, payee := range payees {
		acc := s.buckets[payee]
		if err := acc.emit(s.next, acc.end, payee); err != nil {
			return err
		}
	}
	return s.next.Flush()
}

// Period is a calendar bucketing granularity for interval reports.
type Period int

const (
	PeriodDaily Period = iota
	PeriodWeekly
	PeriodMonthly
	PeriodQuarterly
	PeriodYearly
)

func parsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return PeriodDaily, nil
	case "weekly", "week":
		return PeriodWeekly, nil
	case "monthly", "month":
		return PeriodMonthly, nil
	case "quarterly", "quarter":
		return PeriodQuarterly, nil
	case "yearly", "year", "annually":
		return PeriodYearly, nil
	default:
		return 0, &OptionValueError{Value: s, Reason: "expected daily, weekly, monthly, quarterly or yearly"}
	}
}

func (p Period) String() string {
	switch p {
	case PeriodDaily:
		return "daily"
	case PeriodWeekly:
		return "weekly"
	case PeriodMonthly:
		return "monthly"
	case PeriodQuarterly:
		return "quarterly"
	default:
		return "yearly"
	}
}

// Start returns the first date of the period containing d. Weeks start on
// Sunday.
func (p Period) Start(d journal.Date) journal.Date {
	t := d.Time
	switch p {
	case PeriodDaily:
		return d
	case PeriodWeekly:
		return journal.DateOf(t.AddDate(0, 0, -int(t.Weekday())))
	case PeriodMonthly:
		return journal.DateOf(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
	case PeriodQuarterly:
		month := time.Month((int(t.Month())-1)/3*3 + 1)
		return journal.DateOf(time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC))
	default:
		return journal.DateOf(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	}
}

// intervalStage subtotals per calendar period. A bucket is emitted as soon
// as a transaction for a later period arrives, so mostly chronological input
// streams out with bounded buffering; stragglers for past periods reopen
// their bucket and are emitted again at flush only if they arrived after the
// eager emission, which is why a date sort always follows this stage.
type intervalStage struct {
	next     Handler
	period   Period
	remember bool
	buckets  map[int64]*subtotalAccumulator
	current  int64
}

func (s *intervalStage) Accept(t *journal.Transaction) error {
	start := s.period.Start(t.Date())
	key := start.Unix()
	if key > s.current {
		if s.current != 0 {
			if err := s.emitBefore(key); err != nil {
				return err
			}
		}
		s.current = key
	}
	acc, ok := s.buckets[key]
	if !ok {
		acc = newSubtotalAccumulator()
		s.buckets[key] = acc
	}
	acc.add(t, s.remember)
	return nil
}

func (s *intervalStage) Flush() error {
	if err := s.emitBefore(1<<62 - 1); err != nil {
		return err
	}
	return s.next.Flush()
}

func (s *intervalStage) emitBefore(key int64) error {
	keys := make([]int64, 0, len(s.buckets))
	for k := range s.buckets {
		if k < key {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		acc := s.buckets[k]
		delete(s.buckets, k)
		start := journal.DateOf(time.Unix(k, 0).UTC())
		if err := acc.emit(s.next, start, "- "+acc.end.String()); err != nil {
			return err
		}
	}
	return nil
}
