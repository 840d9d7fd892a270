// Package report builds and runs the streaming pipelines behind every
// register, entry and balance view. A report is a linear chain of stages;
// transactions are pushed through one at a time and a final flush drains
// buffered aggregates head-to-tail. Stage selection and ordering are fixed
// policy owned by NewChain; callers only describe what they want in a Config
// and supply a terminal consumer.
package report

import (
	"context"

	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/query"
	"github.com/robinvdvleuten/ledger/telemetry"
)

// Session is the store surface a report run needs: iteration, the account
// tree, market prices and scratch-state lifecycle. *journal.Journal
// implements it; tests substitute doubles to exercise verification.
type Session interface {
	Entries() []*journal.Entry
	Root() *journal.Account
	Prices() *journal.PriceTable
	Clean()
	CheckClean() error
}

// Report runs configured pipelines against a session.
type Report struct {
	session Session
	config  *Config
}

// New creates a report runner. A nil config means all defaults.
func New(session Session, config *Config) *Report {
	if config == nil {
		config = &Config{}
	}
	return &Report{session: session, config: config}
}

// Transactions runs the individual-transaction report over the whole
// session, pushing surviving transactions into consumer in pipeline order.
func (r *Report) Transactions(ctx context.Context, consumer Handler) error {
	timer := telemetry.StartTimer(ctx, "report.transactions")
	defer timer.End()

	build := timer.Child("build")
	chain, err := NewChain(r.config, consumer, true, r.session)
	build.End()
	if err != nil {
		return err
	}

	walk := timer.Child("walk")
	err = walkEntries(r.session.Entries(), chain)
	walk.End()
	if err != nil {
		return err
	}

	flush := timer.Child("flush")
	err = chain.Flush()
	flush.End()
	if err != nil {
		return err
	}
	return r.verify(timer)
}

// Entry runs the individual-transaction pipeline over a single entry.
func (r *Report) Entry(ctx context.Context, e *journal.Entry, consumer Handler) error {
	timer := telemetry.StartTimer(ctx, "report.entry")
	defer timer.End()

	chain, err := NewChain(r.config, consumer, true, r.session)
	if err != nil {
		return err
	}
	if err := walkEntry(e, chain); err != nil {
		return err
	}
	if err := chain.Flush(); err != nil {
		return err
	}
	return r.verify(timer)
}

// Accounts runs the account-summary report. Transactions stream through the
// reduced chain into per-account value annotations, subtree totals are
// summed bottom-up, and the tree is walked into consumer with the display
// predicate and sort key applied per account. With showFinalTotal the root's
// grand total comes last.
func (r *Report) Accounts(ctx context.Context, consumer AccountHandler, showFinalTotal bool) error {
	timer := telemetry.StartTimer(ctx, "report.accounts")
	defer timer.End()

	chain, err := NewChain(r.config, &accountValueStage{}, false, r.session)
	if err != nil {
		return err
	}

	walk := timer.Child("walk")
	err = walkEntries(r.session.Entries(), chain)
	walk.End()
	if err != nil {
		return err
	}
	if err := chain.Flush(); err != nil {
		return err
	}

	sum := timer.Child("sum")
	root := r.session.Root()
	sumAccounts(root)
	sum.End()

	emit := consumer
	if r.config.DisplayPredicate != "" {
		pred, err := query.Compile(r.config.DisplayPredicate)
		if err != nil {
			return err
		}
		emit = &accountFilter{next: consumer, pred: pred}
	}
	if r.config.SortKey != "" {
		key, err := query.CompileSort(r.config.SortKey)
		if err != nil {
			return err
		}
		if err := walkAccountsSorted(root, key, emit); err != nil {
			return err
		}
	} else {
		if err := walkAccounts(root, emit); err != nil {
			return err
		}
	}

	// The grand total bypasses the display predicate.
	if showFinalTotal && root.HasXData() && root.XData().SubCount > 0 {
		if err := consumer.Accept(root); err != nil {
			return err
		}
	}
	if err := consumer.Flush(); err != nil {
		return err
	}
	return r.verify(timer)
}

func (r *Report) verify(timer telemetry.Timer) error {
	if !r.config.Verify {
		return nil
	}
	t := timer.Child("verify")
	defer t.End()
	r.session.Clean()
	return r.session.CheckClean()
}

// accountValueStage is the terminal stage of the account-summary chain. It
// folds each surviving transaction into its account's own value and posting
// count; subtree totals come later from sumAccounts.
type accountValueStage struct{}

func (accountValueStage) Accept(t *journal.Transaction) error {
	xd := t.Account.XData()
	xd.Value.AddAmount(t.Amount)
	xd.Count++
	return nil
}

func (accountValueStage) Flush() error { return nil }

// accountFilter forwards only accounts matching the display predicate.
type accountFilter struct {
	next AccountHandler
	pred *query.Expr
}

func (f *accountFilter) Accept(a *journal.Account) error {
	ok, err := f.pred.Match(query.AccountContext(a))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return f.next.Accept(a)
}

func (f *accountFilter) Flush() error { return f.next.Flush() }

// sumAccounts computes each account's subtree total and posting count
// bottom-up. Accounts with nothing to report are left unannotated so the
// verification pass and walkers can treat them as untouched.
func sumAccounts(a *journal.Account) {
	total := journal.NewBalance()
	count := 0
	if a.HasXData() {
		total.Merge(a.XData().Value)
		count = a.XData().Count
	}
	for _, child := range a.Children() {
		sumAccounts(child)
		if child.HasXData() {
			total.Merge(child.XData().Total)
			count += child.XData().SubCount
		}
	}
	if count > 0 || !total.IsZero() {
		xd := a.XData()
		xd.Total = total
		xd.SubCount = count
	}
}
