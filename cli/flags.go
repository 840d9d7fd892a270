package cli

import "github.com/robinvdvleuten/ledger/report"

// ReportFlags exposes the report options shared by register-style commands.
type ReportFlags struct {
	Predicate string `help:"General predicate applied near the end of the pipeline." placeholder:"EXPR"`
	Display   string `help:"Display predicate applied before the running total." placeholder:"EXPR"`
	Only      string `help:"Secondary predicate applied after the running total." placeholder:"EXPR"`

	Sort        string `help:"Comma-separated sort keys, '-' prefix for descending." placeholder:"KEYS"`
	SortEntries bool   `help:"Sort whole entries instead of individual transactions."`

	Head int `help:"Show only the first N entries." placeholder:"N"`
	Tail int `help:"Show only the last N entries." placeholder:"N"`

	Subtotal bool   `help:"Fold the report into one subtotal per account."`
	Dow      bool   `help:"Subtotal by day of the week."`
	ByPayee  bool   `help:"Subtotal by payee."`
	Collapse bool   `help:"Collapse each entry to one line per commodity."`
	Period   string `help:"Subtotal per calendar period (daily, weekly, monthly, quarterly, yearly)." placeholder:"PERIOD"`

	Related     bool   `help:"Re-emit matching transactions deduplicated by entry."`
	RelatedAll  bool   `help:"Emit every transaction of any matching entry."`
	Invert      bool   `help:"Negate all amounts."`
	Revalue     bool   `help:"Insert unrealized gain/loss lines from market prices."`
	RevalueOnly bool   `help:"Show only the unrealized gain/loss lines."`
	Descend     string `help:"Semicolon-separated drill-down expressions." placeholder:"EXPRS"`

	PayeeAsCommodity bool `help:"Display the commodity as the payee."`
	PayeeAsCode      bool `help:"Display the entry code as the payee."`
}

// Config translates the flags into a report configuration.
func (f *ReportFlags) Config(globals *Globals) *report.Config {
	return &report.Config{
		Predicate:          f.Predicate,
		DisplayPredicate:   f.Display,
		SecondaryPredicate: f.Only,
		SortKey:            f.Sort,
		SortByEntry:        f.SortEntries,
		HeadCount:          f.Head,
		TailCount:          f.Tail,
		ShowSubtotal:       f.Subtotal,
		DaysOfTheWeek:      f.Dow,
		ByPayee:            f.ByPayee,
		ShowCollapsed:      f.Collapse,
		ReportPeriod:       f.Period,
		ShowRelated:        f.Related || f.RelatedAll,
		ShowAllRelated:     f.RelatedAll,
		ShowInverted:       f.Invert,
		ShowRevalued:       f.Revalue || f.RevalueOnly,
		ShowRevaluedOnly:   f.RevalueOnly,
		DescendExpr:        f.Descend,
		CommAsPayee:        f.PayeeAsCommodity,
		CodeAsPayee:        f.PayeeAsCode,
		Verify:             globals.Verify,
	}
}
