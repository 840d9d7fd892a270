package query

import "strings"

// SortKey is a compiled multi-key sort expression: comma-separated terms,
// each an expression with an optional leading '-' for descending order.
// "date, -amount" orders by date ascending, then amount descending.
type SortKey struct {
	terms []sortTerm
}

type sortTerm struct {
	expr *Expr
	desc bool
}

// CompileSort parses a multi-key sort expression. Malformed terms yield an
// *ExpressionError.
func CompileSort(src string) (*SortKey, error) {
	key := &SortKey{}
	for _, raw := range strings.Split(src, ",") {
		term := strings.TrimSpace(raw)
		if term == "" {
			return nil, &ExpressionError{Expr: src, Msg: "empty sort term"}
		}
		desc := false
		if strings.HasPrefix(term, "-") {
			desc = true
			term = strings.TrimSpace(term[1:])
		}
		expr, err := Compile(term)
		if err != nil {
			return nil, err
		}
		key.terms = append(key.terms, sortTerm{expr: expr, desc: desc})
	}
	return key, nil
}

// Compare orders two contexts by the key, returning -1, 0 or 1. Later terms
// break ties left by earlier ones.
func (k *SortKey) Compare(a, b Context) (int, error) {
	for _, term := range k.terms {
		av, err := term.expr.Eval(a)
		if err != nil {
			return 0, err
		}
		bv, err := term.expr.Eval(b)
		if err != nil {
			return 0, err
		}
		cmp, err := av.Compare(bv)
		if err != nil {
			return 0, err
		}
		if cmp != 0 {
			if term.desc {
				return -cmp, nil
			}
			return cmp, nil
		}
	}
	return 0, nil
}
