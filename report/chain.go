package report

import (
	"strings"

	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/query"
)

// NewChain assembles the stage chain for a report. It is a pure function of
// the configuration and the supplied terminal consumer: stages whose
// triggering option is absent or empty are omitted entirely, never replaced
// by a pass-through placeholder.
//
// The canonical source-to-sink order is the contract. Items flow through, in
// this order:
//
//	 1. truncate (head/tail entry window)
//	 2. display-predicate filter
//	 3. running-total accumulation
//	 4. component decomposition, one stage per descend expression,
//	    first expression nearest the source
//	 5. reconciliation against a target balance and cutoff date
//	 6. secondary-predicate filter
//	 7. sort (by entry or by transaction)
//	 8. revaluation
//	 9. collapse
//	10. one subtotal-family aggregator (subtotal, day-of-week or by-payee)
//	11. interval bucketing, followed by a forced date sort of its output
//	12. inversion
//	13. related-entry expansion
//	14. general-predicate filter
//	15. payee substitution (commodity wins over code)
//
// Stages 1-11 exist only in individual mode; 12-15 apply in both individual
// and account-summary mode. The chain is built by prepending onto the
// consumer, so construction walks this list backwards and the last stage
// prepended becomes the head.
//
// Malformed expressions abort construction before any item flows, so a
// report either runs against fully compiled expressions or not at all.
func NewChain(cfg *Config, consumer Handler, individual bool, session Session) (Handler, error) {
	rememberComponents := individual && cfg.DescendExpr != ""

	handler := consumer

	// 15. Payee substitution.
	if cfg.CommAsPayee {
		handler = &commodityPayeeStage{next: handler}
	} else if cfg.CodeAsPayee {
		handler = &codePayeeStage{next: handler}
	}

	// 14. General predicate.
	if cfg.Predicate != "" {
		expr, err := query.Compile(cfg.Predicate)
		if err != nil {
			return nil, err
		}
		handler = &filterStage{next: handler, pred: expr}
	}

	// 13. Related-entry expansion.
	if cfg.ShowRelated {
		handler = &relatedStage{next: handler, all: cfg.ShowAllRelated}
	}

	// 12. Inversion.
	if cfg.ShowInverted {
		handler = &invertStage{next: handler}
	}

	if individual {
		// 11. Interval bucketing. Bucket emission order is not
		// chronological, so a date sort is forced onto its output.
		if cfg.ReportPeriod != "" {
			period, err := parsePeriod(cfg.ReportPeriod)
			if err != nil {
				return nil, err
			}
			dateKey, err := query.CompileSort("date")
			if err != nil {
				return nil, err
			}
			handler = &sortStage{next: handler, key: dateKey}
			handler = &intervalStage{
				next:     handler,
				period:   period,
				remember: rememberComponents,
				buckets:  make(map[int64]*subtotalAccumulator),
			}
		}

		// 10. Exactly one subtotal-family aggregator.
		if cfg.ShowSubtotal {
			handler = &subtotalStage{next: handler, acc: newSubtotalAccumulator(), remember: rememberComponents}
		} else if cfg.DaysOfTheWeek {
			handler = newDowStage(handler, rememberComponents)
		} else if cfg.ByPayee {
			handler = &byPayeeStage{next: handler, remember: rememberComponents, buckets: make(map[string]*subtotalAccumulator)}
		}

		// 9. Collapse.
		if cfg.ShowCollapsed {
			handler = &collapseStage{next: handler, totalAccount: journal.SyntheticAccount("<Total>")}
		}

		// 8. Revaluation.
		if cfg.ShowRevalued {
			handler = &revalueStage{
				next:        handler,
				prices:      session.Prices(),
				changedOnly: cfg.ShowRevaluedOnly,
				now:         cfg.now(),
				position:    journal.NewBalance(),
			}
		}

		// 7. Sort.
		if cfg.SortKey != "" {
			key, err := query.CompileSort(cfg.SortKey)
			if err != nil {
				return nil, err
			}
			handler = &sortStage{next: handler, key: key, byEntry: cfg.SortByEntry}
		}

		// 6. Secondary predicate. Composes with the display predicate
		// as an independent sequential filter, not a merged expression.
		if cfg.SecondaryPredicate != "" {
			expr, err := query.Compile(cfg.SecondaryPredicate)
			if err != nil {
				return nil, err
			}
			handler = &filterStage{next: handler, pred: expr}
		}

		// 5. Reconciliation.
		if cfg.ReconcileBalance != "" {
			target, err := journal.ParseAmount(cfg.ReconcileBalance)
			if err != nil {
				return nil, err
			}
			cutoff := cfg.now()
			if cfg.ReconcileDate != "" {
				cutoff, err = journal.NewDate(cfg.ReconcileDate)
				if err != nil {
					return nil, err
				}
			}
			handler = &reconcileStage{next: handler, target: target, cutoff: cutoff}
		}

		// 4. Component decomposition. Splitting preserves trailing
		// empty segments as literal empty expressions. Prepending in
		// reverse puts the first expression nearest the source.
		if cfg.DescendExpr != "" {
			exprs := strings.Split(cfg.DescendExpr, ";")
			for i := len(exprs) - 1; i >= 0; i-- {
				expr, err := query.Compile(exprs[i])
				if err != nil {
					return nil, err
				}
				handler = &componentStage{next: handler, pred: expr}
			}
		}

		// 3. Running total.
		handler = &calcStage{next: handler, total: journal.NewBalance()}

		// 2. Display predicate.
		if cfg.DisplayPredicate != "" {
			expr, err := query.Compile(cfg.DisplayPredicate)
			if err != nil {
				return nil, err
			}
			handler = &filterStage{next: handler, pred: expr}
		}

		// 1. Truncation window.
		if cfg.HeadCount > 0 || cfg.TailCount > 0 {
			handler = &truncateStage{next: handler, head: cfg.HeadCount, tail: cfg.TailCount}
		}
	}

	return handler, nil
}
