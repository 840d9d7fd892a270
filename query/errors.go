package query

import "fmt"

// ExpressionError is returned when an expression string cannot be compiled.
// Report construction surfaces it before any item is processed, so a report
// either runs against fully valid expressions or not at all.
type ExpressionError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("invalid expression %q at position %d: %s", e.Expr, e.Pos, e.Msg)
}

// UsageError is returned when a report helper function is called with the
// wrong argument count or types. It aborts only that call and names the
// expected signature.
type UsageError struct {
	Signature string
	Reason    string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("usage: %s (%s)", e.Signature, e.Reason)
	}
	return "usage: " + e.Signature
}
