// Package exprparse implements the standalone parser for embedded template
// expressions: the fragments that appear inside print commands, directive
// arguments, conditional guards, and the base part of css commands.
package exprparse

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/soybuild/soycompile/ir"
	"github.com/soybuild/soycompile/reporter"
)

type runeReader struct {
	data string
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRuneInString(rr.data[rr.pos:])
	if r == utf8.RuneError && sz == 1 {
		rr.err = fmt.Errorf("invalid UTF8 at offset %d: %x", rr.pos, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) offset() int {
	return rr.pos
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
	rr.err = nil
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return rr.data[rr.mark:rr.pos]
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenDollarIdent
	tokenInt
	tokenFloat
	tokenString
	tokenPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of expression"
	case tokenIdent:
		return "identifier"
	case tokenDollarIdent:
		return "variable"
	case tokenInt:
		return "integer"
	case tokenFloat:
		return "float"
	case tokenString:
		return "string"
	case tokenPunct:
		return "punctuation"
	default:
		return "token"
	}
}

type token struct {
	kind   tokenKind
	text   string // source text; for tokenString, the unescaped contents
	intVal int64
	fltVal float64
	offset int
}

func (t token) describe() string {
	switch t.kind {
	case tokenEOF:
		return "end of expression"
	case tokenDollarIdent:
		return strconv.Quote("$" + t.text)
	default:
		return strconv.Quote(t.text)
	}
}

type exprLexer struct {
	input *runeReader
	text  string
	base  ir.SourcePos
}

func newLexer(text string, base ir.SourcePos) *exprLexer {
	return &exprLexer{input: &runeReader{data: text}, text: text, base: base}
}

// posAt converts a byte offset within the fragment to a position within the
// enclosing source file.
func (l *exprLexer) posAt(offset int) ir.SourcePos {
	pos := l.base
	pos.Offset += offset
	if pos.Line <= 0 {
		pos.Line = 1
	}
	if pos.Col <= 0 {
		pos.Col = 1
	}
	for _, r := range l.text[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Col = 1
		} else {
			pos.Col++
		}
	}
	return pos
}

func (l *exprLexer) errf(offset int, format string, args ...any) error {
	return reporter.Errorf(l.posAt(offset), format, args...)
}

// next scans the next token. At the end of input it returns a tokenEOF
// token rather than an error.
func (l *exprLexer) next() (token, error) {
	for {
		start := l.input.offset()
		r, sz, err := l.input.readRune()
		if err == io.EOF {
			return token{kind: tokenEOF, offset: start}, nil
		}
		if err != nil {
			return token{}, l.errf(start, "%v", err)
		}

		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			continue

		case r == '$':
			l.input.setMark()
			if err := l.scanIdent(); err != nil {
				return token{}, err
			}
			name := l.input.getMark()
			if name == "" {
				return token{}, l.errf(start, "expected identifier after '$'")
			}
			return token{kind: tokenDollarIdent, text: name, offset: start}, nil

		case r == '_' || unicode.IsLetter(r):
			l.input.unreadRune(sz)
			l.input.setMark()
			if err := l.scanIdent(); err != nil {
				return token{}, err
			}
			return token{kind: tokenIdent, text: l.input.getMark(), offset: start}, nil

		case r >= '0' && r <= '9':
			l.input.unreadRune(sz)
			return l.scanNumber(start)

		case r == '\'':
			return l.scanString(start)

		default:
			return l.scanPunct(r, start)
		}
	}
}

func (l *exprLexer) scanIdent() error {
	for {
		r, sz, err := l.input.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return l.errf(l.input.offset(), "%v", err)
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.input.unreadRune(sz)
			return nil
		}
	}
}

// accept consumes the next rune if it equals want, reporting whether it did.
func (l *exprLexer) accept(want rune) bool {
	r, sz, err := l.input.readRune()
	if err != nil {
		return false
	}
	if r != want {
		l.input.unreadRune(sz)
		return false
	}
	return true
}

// acceptDigit consumes the next rune if isDigit accepts it, reporting
// whether it did.
func (l *exprLexer) acceptDigit(isDigit func(rune) bool) bool {
	r, sz, err := l.input.readRune()
	if err != nil {
		return false
	}
	if !isDigit(r) {
		l.input.unreadRune(sz)
		return false
	}
	return true
}

// acceptFraction consumes a '.' only when a decimal digit follows, so that
// a dot introducing a key access after a numeric index ("$boo.0.foo") is
// left for the parser.
func (l *exprLexer) acceptFraction() bool {
	if !l.accept('.') {
		return false
	}
	r, sz, err := l.input.readRune()
	if err == nil {
		l.input.unreadRune(sz)
		if r >= '0' && r <= '9' {
			return true
		}
	}
	l.input.unreadRune(1) // the '.'
	return false
}

func isDecimalDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool { return hexDigit(r) >= 0 }

func (l *exprLexer) scanNumber(start int) (token, error) {
	l.input.setMark()
	isFloat := false
	if l.accept('0') && (l.accept('x') || l.accept('X')) {
		for l.acceptDigit(isHexDigit) {
		}
	} else {
		for l.acceptDigit(isDecimalDigit) {
		}
		if l.acceptFraction() {
			isFloat = true
			for l.acceptDigit(isDecimalDigit) {
			}
		}
		if l.accept('e') || l.accept('E') {
			isFloat = true
			if !l.accept('+') {
				l.accept('-')
			}
			for l.acceptDigit(isDecimalDigit) {
			}
		}
	}
	text := l.input.getMark()
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, l.errf(start, "invalid float literal %q", text)
		}
		return token{kind: tokenFloat, text: text, fltVal: f, offset: start}, nil
	}
	i, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return token{}, l.errf(start, "invalid integer literal %q", text)
	}
	return token{kind: tokenInt, text: text, intVal: i, offset: start}, nil
}

func (l *exprLexer) scanString(start int) (token, error) {
	var sb strings.Builder
	for {
		r, _, err := l.input.readRune()
		if err == io.EOF {
			return token{}, l.errf(start, "unterminated string literal")
		}
		if err != nil {
			return token{}, l.errf(l.input.offset(), "%v", err)
		}
		switch r {
		case '\'':
			return token{kind: tokenString, text: sb.String(), offset: start}, nil
		case '\n':
			return token{}, l.errf(start, "unterminated string literal")
		case '\\':
			esc, _, err := l.input.readRune()
			if err != nil {
				return token{}, l.errf(start, "unterminated string literal")
			}
			switch esc {
			case '\\', '\'', '"':
				sb.WriteRune(esc)
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'u':
				var code rune
				for i := 0; i < 4; i++ {
					d, _, err := l.input.readRune()
					if err != nil {
						return token{}, l.errf(start, "unterminated string literal")
					}
					v := hexDigit(d)
					if v < 0 {
						return token{}, l.errf(l.input.offset(), `invalid \u escape in string literal`)
					}
					code = code<<4 | rune(v)
				}
				sb.WriteRune(code)
			default:
				return token{}, l.errf(l.input.offset(), "invalid escape sequence \\%c in string literal", esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *exprLexer) scanPunct(r rune, start int) (token, error) {
	mk := func(text string) (token, error) {
		return token{kind: tokenPunct, text: text, offset: start}, nil
	}
	peekEq := func() bool {
		r2, sz, err := l.input.readRune()
		if err == nil && r2 == '=' {
			return true
		}
		if err == nil {
			l.input.unreadRune(sz)
		}
		return false
	}
	switch r {
	case '(', ')', ',', '.', ':', '*', '/', '%', '+', '-':
		return mk(string(r))
	case '?':
		r2, sz, err := l.input.readRune()
		if err == nil && r2 == ':' {
			return mk("?:")
		}
		if err == nil {
			l.input.unreadRune(sz)
		}
		return mk("?")
	case '<':
		if peekEq() {
			return mk("<=")
		}
		return mk("<")
	case '>':
		if peekEq() {
			return mk(">=")
		}
		return mk(">")
	case '=':
		if peekEq() {
			return mk("==")
		}
		return token{}, l.errf(start, "unexpected character '=' (did you mean '=='?)")
	case '!':
		if peekEq() {
			return mk("!=")
		}
		return token{}, l.errf(start, "unexpected character '!' (did you mean '!=' or 'not'?)")
	default:
		return token{}, l.errf(start, "unexpected character %q in expression", r)
	}
}

func hexDigit(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}
