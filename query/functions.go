package query

import (
	"github.com/mattn/go-runewidth"
)

// function is a report-exposed helper callable from expressions. Argument
// count and types are checked at call time; misuse yields a UsageError
// naming the expected signature.
type function struct {
	name      string
	signature string
	call      func(args []Value) (Value, error)
}

var functions = map[string]*function{}

func register(fn *function) {
	functions[fn.name] = fn
}

func init() {
	register(&function{
		name:      "abbrev",
		signature: "abbrev(STRING, WIDTH [, STYLE, ABBREV_LEN])",
		call:      fnAbbrev,
	})
	register(&function{
		name:      "ftime",
		signature: "ftime(DATE [, DATE_FORMAT])",
		call:      fnFtime,
	})
}

// fnAbbrev elides a string to a display width. STYLE and ABBREV_LEN are
// accepted for compatibility with the wider elision styles; only trailing
// elision is performed.
func fnAbbrev(args []Value) (Value, error) {
	usage := &UsageError{Signature: "abbrev(STRING, WIDTH [, STYLE, ABBREV_LEN])"}
	if len(args) < 2 || len(args) > 4 {
		return Value{}, usage
	}
	if args[0].Kind != KindString || args[1].Kind != KindNumber {
		return Value{}, usage
	}
	for _, extra := range args[2:] {
		if extra.Kind != KindNumber {
			return Value{}, usage
		}
	}
	width := int(args[1].Number.IntPart())
	if width <= 0 {
		return Value{}, &UsageError{Signature: usage.Signature, Reason: "WIDTH must be positive"}
	}
	return String(runewidth.Truncate(args[0].Str, width, "..")), nil
}

// fnFtime formats a date. DATE_FORMAT is a Go reference layout; the default
// is ISO 8601.
func fnFtime(args []Value) (Value, error) {
	usage := &UsageError{Signature: "ftime(DATE [, DATE_FORMAT])"}
	if len(args) < 1 || len(args) > 2 {
		return Value{}, usage
	}
	if args[0].Kind != KindDate {
		return Value{}, usage
	}
	layout := "2006-01-02"
	if len(args) == 2 {
		if args[1].Kind != KindString {
			return Value{}, usage
		}
		layout = args[1].Str
	}
	return String(args[0].Date.Format(layout)), nil
}
