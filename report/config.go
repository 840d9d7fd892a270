package report

import (
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/ledger/journal"
)

// Config collects every knob a report run can be given. The zero value is a
// plain chronological report with no filtering, aggregation or verification.
type Config struct {
	// Predicates, each an expression in the query language.
	Predicate          string
	DisplayPredicate   string
	SecondaryPredicate string

	// Sorting.
	SortKey     string
	SortByEntry bool

	// Truncation window over entries.
	HeadCount int
	TailCount int

	// Aggregation.
	ShowSubtotal  bool
	DaysOfTheWeek bool
	ByPayee       bool
	ShowCollapsed bool
	ReportPeriod  string

	// Transformation.
	ShowRelated      bool
	ShowAllRelated   bool
	ShowInverted     bool
	ShowRevalued     bool
	ShowRevaluedOnly bool
	DescendExpr      string

	// Payee substitution.
	CommAsPayee bool
	CodeAsPayee bool

	// Reconciliation.
	ReconcileBalance string
	ReconcileDate    string

	// Verify re-checks journal cleanliness after every report run.
	Verify bool

	// Now anchors "current date" semantics (revaluation at flush,
	// reconcile cutoff default). Zero means today.
	Now journal.Date
}

func (c *Config) now() journal.Date {
	if c.Now.IsZero() {
		return journal.Today()
	}
	return c.Now
}

type optionKind int

const (
	optionString optionKind = iota
	optionInt
	optionBool
)

type option struct {
	kind optionKind
	set  func(*Config, string) error
}

func stringOption(f func(*Config, string)) option {
	return option{kind: optionString, set: func(c *Config, v string) error {
		f(c, v)
		return nil
	}}
}

func intOption(f func(*Config, int)) option {
	return option{kind: optionInt, set: func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &OptionValueError{Value: v, Reason: "expected an integer"}
		}
		f(c, n)
		return nil
	}}
}

func boolOption(f func(*Config, bool)) option {
	return option{kind: optionBool, set: func(c *Config, v string) error {
		switch v {
		case "", "true":
			f(c, true)
		case "false":
			f(c, false)
		default:
			return &OptionValueError{Value: v, Reason: "expected true or false"}
		}
		return nil
	}}
}

// options is the static, exhaustive name table. Lookup is exact match only;
// there is no prefix or fuzzy resolution, and an unknown name is an error
// rather than a silent no-op.
var options = map[string]option{
	"predicate":          stringOption(func(c *Config, v string) { c.Predicate = v }),
	"display":            stringOption(func(c *Config, v string) { c.DisplayPredicate = v }),
	"only":               stringOption(func(c *Config, v string) { c.SecondaryPredicate = v }),
	"sort":               stringOption(func(c *Config, v string) { c.SortKey = v }),
	"sort-entries":       boolOption(func(c *Config, v bool) { c.SortByEntry = v }),
	"head":               intOption(func(c *Config, v int) { c.HeadCount = v }),
	"tail":               intOption(func(c *Config, v int) { c.TailCount = v }),
	"subtotal":           boolOption(func(c *Config, v bool) { c.ShowSubtotal = v }),
	"dow":                boolOption(func(c *Config, v bool) { c.DaysOfTheWeek = v }),
	"by-payee":           boolOption(func(c *Config, v bool) { c.ByPayee = v }),
	"collapse":           boolOption(func(c *Config, v bool) { c.ShowCollapsed = v }),
	"period":             stringOption(func(c *Config, v string) { c.ReportPeriod = v }),
	"related":            boolOption(func(c *Config, v bool) { c.ShowRelated = v }),
	"related-all":        boolOption(func(c *Config, v bool) { c.ShowRelated = v; c.ShowAllRelated = v }),
	"invert":             boolOption(func(c *Config, v bool) { c.ShowInverted = v }),
	"revalue":            boolOption(func(c *Config, v bool) { c.ShowRevalued = v }),
	"revalue-only":       boolOption(func(c *Config, v bool) { c.ShowRevalued = v; c.ShowRevaluedOnly = v }),
	"descend":            stringOption(func(c *Config, v string) { c.DescendExpr = v }),
	"payee-as-commodity": boolOption(func(c *Config, v bool) { c.CommAsPayee = v }),
	"payee-as-code":      boolOption(func(c *Config, v bool) { c.CodeAsPayee = v }),
	"reconcile":          stringOption(func(c *Config, v string) { c.ReconcileBalance = v }),
	"reconcile-date":     stringOption(func(c *Config, v string) { c.ReconcileDate = v }),
	"verify":             boolOption(func(c *Config, v bool) { c.Verify = v }),
}

// Set applies a named option. The name must match a table entry exactly.
func (c *Config) Set(name, value string) error {
	opt, ok := options[name]
	if !ok {
		return &UnknownOptionError{Name: name}
	}
	return opt.set(c, value)
}

// OptionNames returns every option name the table knows, sorted.
func OptionNames() []string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
