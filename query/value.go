package query

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/journal"
)

// Kind discriminates the value union produced by expression evaluation.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating an expression or resolving an
// identifier.
type Value struct {
	Kind   Kind
	Bool   bool
	Number decimal.Decimal
	Str    string
	Date   journal.Date
}

// Bool, Number, String and Date construct values of the respective kinds.
func Bool(b bool) Value              { return Value{Kind: KindBool, Bool: b} }
func Number(d decimal.Decimal) Value { return Value{Kind: KindNumber, Number: d} }
func String(s string) Value          { return Value{Kind: KindString, Str: s} }
func DateValue(d journal.Date) Value { return Value{Kind: KindDate, Date: d} }

// BalanceValue converts a multi-commodity balance into a comparable value: a
// number when at most one commodity is present, otherwise its canonical
// string form (stable because Balance iterates commodities sorted).
func BalanceValue(b *journal.Balance) Value {
	if b == nil {
		return Number(decimal.Zero)
	}
	amounts := b.Amounts()
	switch len(amounts) {
	case 0:
		return Number(decimal.Zero)
	case 1:
		return Number(amounts[0].Value)
	default:
		return String(b.String())
	}
}

// Truthy coerces a value to a predicate result: false, zero, the empty
// string and the zero date are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return !v.Number.IsZero()
	case KindString:
		return v.Str != ""
	case KindDate:
		return !v.Date.IsZero()
	default:
		return false
	}
}

// Compare orders two values of the same kind, returning -1, 0 or 1.
// Comparing values of different kinds is an error.
func (v Value) Compare(other Value) (int, error) {
	if v.Kind != other.Kind {
		return 0, fmt.Errorf("cannot compare %s with %s", v.Kind, other.Kind)
	}
	switch v.Kind {
	case KindNumber:
		return v.Number.Cmp(other.Number), nil
	case KindString:
		switch {
		case v.Str < other.Str:
			return -1, nil
		case v.Str > other.Str:
			return 1, nil
		}
		return 0, nil
	case KindDate:
		switch {
		case v.Date.Before(other.Date.Time):
			return -1, nil
		case v.Date.After(other.Date.Time):
			return 1, nil
		}
		return 0, nil
	case KindBool:
		switch {
		case !v.Bool && other.Bool:
			return -1, nil
		case v.Bool && !other.Bool:
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot compare %s values", v.Kind)
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Number.String()
	case KindString:
		return v.Str
	case KindDate:
		return v.Date.String()
	default:
		return ""
	}
}
