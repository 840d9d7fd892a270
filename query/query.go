// Package query compiles and evaluates the small expression language reports
// use for predicates, sort keys and descend expressions.
//
// Expressions operate over a transaction or account context exposing the
// identifiers date, payee, account, amount, commodity, code, total, index and
// weekday. The language has arithmetic (+ - * /), comparisons
// (== != < <= > >=), regular-expression matching (=~ and !~ against a string
// literal pattern), boolean connectives (and, or, not), parentheses, date
// literals in brackets ([2024-01-31]) and a few report helper functions.
//
// Compilation is strict: unknown identifiers, unknown functions and malformed
// syntax fail with an ExpressionError before any report item is processed.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledger/journal"
)

// Context resolves identifiers during evaluation.
type Context interface {
	Resolve(name string) (Value, error)
}

// Expr is a compiled expression.
type Expr struct {
	src  string
	root node
}

// Compile parses an expression string. Malformed input yields an
// *ExpressionError.
func Compile(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return &Expr{src: src}, nil
	}
	lex := &lexer{input: src}
	p := &parser{lex: lex, src: src}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !lex.isAtEnd() {
		return nil, &ExpressionError{Expr: src, Pos: lex.pos, Msg: "unexpected trailing input"}
	}
	return &Expr{src: src, root: root}, nil
}

// Source returns the original expression string.
func (e *Expr) Source() string {
	return e.src
}

// Eval evaluates the expression against a context.
func (e *Expr) Eval(ctx Context) (Value, error) {
	return e.root.eval(ctx)
}

// Match evaluates the expression as a predicate, coercing the result to a
// boolean. The empty expression matches everything.
func (e *Expr) Match(ctx Context) (bool, error) {
	if e.root == nil {
		return true, nil
	}
	v, err := e.root.eval(ctx)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// identifiers enumerates every name an expression may reference. Contexts
// resolve a subset of them; referencing one a context cannot supply is an
// evaluation error naming the identifier.
var identifiers = map[string]bool{
	"date":      true,
	"payee":     true,
	"account":   true,
	"amount":    true,
	"commodity": true,
	"code":      true,
	"total":     true,
	"index":     true,
	"weekday":   true,
	"count":     true,
}

// AST nodes.

type node interface {
	eval(ctx Context) (Value, error)
}

type literalNode struct{ value Value }

func (n *literalNode) eval(Context) (Value, error) { return n.value, nil }

type identNode struct{ name string }

func (n *identNode) eval(ctx Context) (Value, error) { return ctx.Resolve(n.name) }

type callNode struct {
	fn   *function
	args []node
}

func (n *callNode) eval(ctx Context) (Value, error) {
	args := make([]Value, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return n.fn.call(args)
}

type notNode struct{ operand node }

func (n *notNode) eval(ctx Context) (Value, error) {
	v, err := n.operand.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return Bool(!v.Truthy()), nil
}

type negNode struct{ operand node }

func (n *negNode) eval(ctx Context) (Value, error) {
	v, err := n.operand.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != KindNumber {
		return Value{}, fmt.Errorf("cannot negate %s value", v.Kind)
	}
	return Number(v.Number.Neg()), nil
}

type matchNode struct {
	left   node
	re     *regexp.Regexp
	negate bool
}

func (n *matchNode) eval(ctx Context) (Value, error) {
	v, err := n.left.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	matched := n.re.MatchString(v.String())
	if n.negate {
		matched = !matched
	}
	return Bool(matched), nil
}

type binaryNode struct {
	op          string
	left, right node
}

func (n *binaryNode) eval(ctx Context) (Value, error) {
	// Short-circuit boolean connectives.
	switch n.op {
	case "and":
		l, err := n.left.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		if !l.Truthy() {
			return Bool(false), nil
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return Bool(r.Truthy()), nil
	case "or":
		l, err := n.left.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		if l.Truthy() {
			return Bool(true), nil
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		return Bool(r.Truthy()), nil
	}

	l, err := n.left.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return Value{}, err
	}

	switch n.op {
	case "==", "!=", "<", "<=", ">", ">=":
		cmp, err := l.Compare(r)
		if err != nil {
			return Value{}, err
		}
		switch n.op {
		case "==":
			return Bool(cmp == 0), nil
		case "!=":
			return Bool(cmp != 0), nil
		case "<":
			return Bool(cmp < 0), nil
		case "<=":
			return Bool(cmp <= 0), nil
		case ">":
			return Bool(cmp > 0), nil
		default:
			return Bool(cmp >= 0), nil
		}
	case "+", "-", "*", "/":
		if l.Kind != KindNumber || r.Kind != KindNumber {
			return Value{}, fmt.Errorf("arithmetic requires numbers, got %s %s %s", l.Kind, n.op, r.Kind)
		}
		switch n.op {
		case "+":
			return Number(l.Number.Add(r.Number)), nil
		case "-":
			return Number(l.Number.Sub(r.Number)), nil
		case "*":
			return Number(l.Number.Mul(r.Number)), nil
		default:
			if r.Number.IsZero() {
				return Value{}, fmt.Errorf("division by zero")
			}
			return Number(l.Number.Div(r.Number)), nil
		}
	default:
		return Value{}, fmt.Errorf("unknown operator %q", n.op)
	}
}

// Parser. Precedence climbing over the token stream, in the manner of the
// arithmetic evaluator this grammar grew out of.

type parser struct {
	lex *lexer
	src string
}

func (p *parser) errorf(pos int, format string, args ...interface{}) error {
	return &ExpressionError{Expr: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// binding powers; unary operators bind tighter than any of these.
func precedenceOf(tok token) int {
	switch tok.kind {
	case tokOr:
		return 1
	case tokAnd:
		return 2
	case tokOp:
		switch tok.text {
		case "==", "!=", "=~", "!~":
			return 3
		case "<", "<=", ">", ">=":
			return 4
		case "+", "-":
			return 5
		case "*", "/":
			return 6
		}
	}
	return 0
}

func (p *parser) parseExpr(minPrec int) (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.lex.peek()
		prec := precedenceOf(tok)
		if prec == 0 || prec < minPrec {
			break
		}
		p.lex.next()

		if tok.kind == tokOp && (tok.text == "=~" || tok.text == "!~") {
			// The pattern must be a string literal so it can be
			// compiled once, here, and malformed patterns abort
			// construction.
			pat := p.lex.next()
			if pat.kind != tokString {
				return nil, p.errorf(pat.pos, "%s requires a string literal pattern", tok.text)
			}
			re, err := regexp.Compile(pat.text)
			if err != nil {
				return nil, p.errorf(pat.pos, "invalid pattern %q: %v", pat.text, err)
			}
			left = &matchNode{left: left, re: re, negate: tok.text == "!~"}
			continue
		}

		op := tok.text
		if tok.kind == tokAnd {
			op = "and"
		} else if tok.kind == tokOr {
			op = "or"
		}

		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}

	return left, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.lex.next()
	switch tok.kind {
	case tokNumber:
		d, err := decimal.NewFromString(tok.text)
		if err != nil {
			return nil, p.errorf(tok.pos, "invalid number %q", tok.text)
		}
		return &literalNode{value: Number(d)}, nil

	case tokString:
		return &literalNode{value: String(tok.text)}, nil

	case tokDate:
		d, err := journal.NewDate(tok.text)
		if err != nil {
			return nil, p.errorf(tok.pos, "invalid date literal %q", tok.text)
		}
		return &literalNode{value: DateValue(d)}, nil

	case tokNot:
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &notNode{operand: operand}, nil

	case tokIdent:
		if p.lex.peek().kind == tokLParen {
			return p.parseCall(tok)
		}
		if !identifiers[tok.text] {
			return nil, p.errorf(tok.pos, "unknown identifier %q", tok.text)
		}
		return &identNode{name: tok.text}, nil

	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		closing := p.lex.next()
		if closing.kind != tokRParen {
			return nil, p.errorf(closing.pos, "expected ')'")
		}
		return inner, nil

	case tokOp:
		if tok.text == "-" {
			operand, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return &negNode{operand: operand}, nil
		}
		return nil, p.errorf(tok.pos, "unexpected operator %q", tok.text)

	case tokEOF:
		return nil, p.errorf(tok.pos, "unexpected end of expression")

	default:
		return nil, p.errorf(tok.pos, "unexpected token %q", tok.text)
	}
}

func (p *parser) parseCall(name token) (node, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, p.errorf(name.pos, "unknown function %q", name.text)
	}
	p.lex.next() // consume '('

	var args []node
	if p.lex.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			sep := p.lex.peek()
			if sep.kind == tokComma {
				p.lex.next()
				continue
			}
			break
		}
	}
	closing := p.lex.next()
	if closing.kind != tokRParen {
		return nil, p.errorf(closing.pos, "expected ')' after arguments to %s", name.text)
	}
	return &callNode{fn: fn, args: args}, nil
}
