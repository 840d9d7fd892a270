package query

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokDate
	tokIdent
	tokOp
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokComma
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer scans expression source byte by byte with one token of lookahead.
type lexer struct {
	input  string
	pos    int
	peeked *token
}

func (l *lexer) peek() token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *lexer) next() token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

func (l *lexer) isAtEnd() bool {
	return l.peek().kind == tokEOF
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
}

func (l *lexer) scan() token {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch >= '0' && ch <= '9':
		return l.scanNumber(start)

	case ch == '"' || ch == '\'':
		return l.scanString(start, ch)

	case ch == '[':
		return l.scanDate(start)

	case isIdentStart(ch):
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.pos++
		}
		text := l.input[start:l.pos]
		switch text {
		case "and":
			return token{kind: tokAnd, text: text, pos: start}
		case "or":
			return token{kind: tokOr, text: text, pos: start}
		case "not":
			return token{kind: tokNot, text: text, pos: start}
		}
		return token{kind: tokIdent, text: text, pos: start}

	case ch == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}
	case ch == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}
	case ch == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}

	case ch == '=' || ch == '!' || ch == '<' || ch == '>':
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '=' || l.input[l.pos] == '~') {
			l.pos++
		}
		text := l.input[start:l.pos]
		switch text {
		case "==", "!=", "=~", "!~", "<", "<=", ">", ">=":
			return token{kind: tokOp, text: text, pos: start}
		}
		return token{kind: tokInvalid, text: text, pos: start}

	case ch == '+' || ch == '-' || ch == '*' || ch == '/':
		l.pos++
		return token{kind: tokOp, text: string(ch), pos: start}

	default:
		l.pos++
		return token{kind: tokInvalid, text: string(ch), pos: start}
	}
}

func (l *lexer) scanNumber(start int) token {
	foundDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch >= '0' && ch <= '9' {
			l.pos++
		} else if ch == '.' && !foundDot {
			foundDot = true
			l.pos++
		} else {
			break
		}
	}
	return token{kind: tokNumber, text: l.input[start:l.pos], pos: start}
}

func (l *lexer) scanString(start int, delim byte) token {
	l.pos++ // opening delimiter
	for l.pos < len(l.input) && l.input[l.pos] != delim {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokInvalid, text: l.input[start:], pos: start}
	}
	text := l.input[start+1 : l.pos]
	l.pos++ // closing delimiter
	return token{kind: tokString, text: text, pos: start}
}

func (l *lexer) scanDate(start int) token {
	l.pos++ // '['
	for l.pos < len(l.input) && l.input[l.pos] != ']' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokInvalid, text: l.input[start:], pos: start}
	}
	text := l.input[start+1 : l.pos]
	l.pos++ // ']'
	return token{kind: tokDate, text: text, pos: start}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
