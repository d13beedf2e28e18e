package exprparse

import (
	"github.com/soybuild/soycompile/exprtree"
	"github.com/soybuild/soycompile/ir"
)

// Parse parses text as a single embedded template expression. The base
// position locates the start of the fragment within its enclosing source
// file and is used for diagnostics; ir.UnknownPos is acceptable when the
// fragment has no file context. Errors returned implement
// reporter.ErrorWithPos.
func Parse(text string, base ir.SourcePos) (exprtree.Expr, error) {
	p := &exprParser{lex: newLexer(text, base)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokenEOF {
		return nil, p.errHeref("unexpected %s after expression", p.cur.describe())
	}
	return expr, nil
}

type exprParser struct {
	lex *exprLexer
	cur token
}

func (p *exprParser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *exprParser) errHeref(format string, args ...any) error {
	return p.lex.errf(p.cur.offset, format, args...)
}

// eatPunct consumes the current token if it is the given punctuation,
// reporting whether it did.
func (p *exprParser) eatPunct(text string) (bool, error) {
	if p.cur.kind != tokenPunct || p.cur.text != text {
		return false, nil
	}
	return true, p.advance()
}

// eatIdent consumes the current token if it is the given identifier or
// keyword, reporting whether it did.
func (p *exprParser) eatIdent(text string) (bool, error) {
	if p.cur.kind != tokenIdent || p.cur.text != text {
		return false, nil
	}
	return true, p.advance()
}

// parseTernary parses "cond ? then : else". The ternary operator is
// right-associative and binds loosest of all operators.
func (p *exprParser) parseTernary() (exprtree.Expr, error) {
	cond, err := p.parseNullCoalesce()
	if err != nil {
		return nil, err
	}
	ok, err := p.eatPunct("?")
	if err != nil || !ok {
		return cond, err
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	ok, err = p.eatPunct(":")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.errHeref("expected ':' in ternary expression, found %s", p.cur.describe())
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &exprtree.ConditionalOpNode{Cond: cond, Then: then, Else: els}, nil
}

func (p *exprParser) parseNullCoalesce() (exprtree.Expr, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.eatPunct("?:")
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		lhs = &exprtree.BinaryOpNode{Op: exprtree.OpNullCoalesce, Lhs: lhs, Rhs: rhs}
	}
}

func (p *exprParser) parseOr() (exprtree.Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.eatIdent("or")
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &exprtree.BinaryOpNode{Op: exprtree.OpOr, Lhs: lhs, Rhs: rhs}
	}
}

func (p *exprParser) parseAnd() (exprtree.Expr, error) {
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.eatIdent("and")
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		lhs = &exprtree.BinaryOpNode{Op: exprtree.OpAnd, Lhs: lhs, Rhs: rhs}
	}
}

var equalityOps = map[string]exprtree.Operator{
	"==": exprtree.OpEquals,
	"!=": exprtree.OpNotEquals,
}

var relationalOps = map[string]exprtree.Operator{
	"<":  exprtree.OpLess,
	">":  exprtree.OpGreater,
	"<=": exprtree.OpLessEq,
	">=": exprtree.OpGreaterEq,
}

var additiveOps = map[string]exprtree.Operator{
	"+": exprtree.OpPlus,
	"-": exprtree.OpMinus,
}

var multiplicativeOps = map[string]exprtree.Operator{
	"*": exprtree.OpTimes,
	"/": exprtree.OpDivide,
	"%": exprtree.OpMod,
}

func (p *exprParser) parseEquality() (exprtree.Expr, error) {
	return p.parseBinary(equalityOps, p.parseRelational)
}

func (p *exprParser) parseRelational() (exprtree.Expr, error) {
	return p.parseBinary(relationalOps, p.parseAdditive)
}

func (p *exprParser) parseAdditive() (exprtree.Expr, error) {
	return p.parseBinary(additiveOps, p.parseMultiplicative)
}

func (p *exprParser) parseMultiplicative() (exprtree.Expr, error) {
	return p.parseBinary(multiplicativeOps, p.parseUnary)
}

// parseBinary parses a left-associative run of binary operators drawn from
// ops, with operands parsed by next.
func (p *exprParser) parseBinary(ops map[string]exprtree.Operator, next func() (exprtree.Expr, error)) (exprtree.Expr, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur.kind != tokenPunct {
			return lhs, nil
		}
		op, ok := ops[p.cur.text]
		if !ok {
			return lhs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = &exprtree.BinaryOpNode{Op: op, Lhs: lhs, Rhs: rhs}
	}
}

func (p *exprParser) parseUnary() (exprtree.Expr, error) {
	if ok, err := p.eatPunct("-"); err != nil {
		return nil, err
	} else if ok {
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		// Fold negation of numeric literals so that "-1" is a literal, not
		// a unary op.
		switch lit := arg.(type) {
		case *exprtree.IntNode:
			return &exprtree.IntNode{Value: -lit.Value}, nil
		case *exprtree.FloatNode:
			return &exprtree.FloatNode{Value: -lit.Value}, nil
		}
		return &exprtree.UnaryOpNode{Op: exprtree.OpNegative, Arg: arg}, nil
	}
	if ok, err := p.eatIdent("not"); err != nil {
		return nil, err
	} else if ok {
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &exprtree.UnaryOpNode{Op: exprtree.OpNot, Arg: arg}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (exprtree.Expr, error) {
	tok := p.cur
	switch tok.kind {
	case tokenInt:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &exprtree.IntNode{Value: tok.intVal}, nil

	case tokenFloat:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &exprtree.FloatNode{Value: tok.fltVal}, nil

	case tokenString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &exprtree.StringNode{Value: tok.text}, nil

	case tokenDollarIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseDataRefKeys(tok.text)

	case tokenIdent:
		return p.parseIdentExpr(tok)

	case tokenPunct:
		if tok.text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			ok, err := p.eatPunct(")")
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, p.errHeref("expected ')' to close parenthesized expression, found %s", p.cur.describe())
			}
			return inner, nil
		}
		return nil, p.errHeref("unexpected %s in expression", tok.describe())

	default:
		return nil, p.errHeref("unexpected %s in expression", tok.describe())
	}
}

// parseDataRefKeys parses the ".key" access chain after a "$name" data
// reference. Keys may be identifiers or decimal list indices.
func (p *exprParser) parseDataRefKeys(name string) (exprtree.Expr, error) {
	ref := &exprtree.DataRefNode{Name: name}
	for {
		ok, err := p.eatPunct(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return ref, nil
		}
		switch p.cur.kind {
		case tokenIdent:
			ref.Keys = append(ref.Keys, p.cur.text)
		case tokenInt:
			ref.Keys = append(ref.Keys, p.cur.text)
		default:
			return nil, p.errHeref("expected key or index after '.', found %s", p.cur.describe())
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseIdentExpr parses an expression starting with a plain identifier:
// the null/true/false keywords, a function call, or a dotted global.
func (p *exprParser) parseIdentExpr(tok token) (exprtree.Expr, error) {
	switch tok.text {
	case "null":
		return exprtree.NullNode{}, p.advance()
	case "true":
		return &exprtree.BoolNode{Value: true}, p.advance()
	case "false":
		return &exprtree.BoolNode{Value: false}, p.advance()
	case "and", "or", "not":
		return nil, p.errHeref("unexpected keyword %q in expression", tok.text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.kind == tokenPunct && p.cur.text == "(" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		fn := &exprtree.FunctionNode{Name: tok.text}
		if ok, err := p.eatPunct(")"); err != nil {
			return nil, err
		} else if ok {
			return fn, nil
		}
		for {
			arg, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)
			if ok, err := p.eatPunct(","); err != nil {
				return nil, err
			} else if ok {
				continue
			}
			ok, err := p.eatPunct(")")
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, p.errHeref("expected ',' or ')' in argument list, found %s", p.cur.describe())
			}
			return fn, nil
		}
	}

	// A dotted global, e.g. "my.app.CONSTANT".
	name := tok.text
	for {
		ok, err := p.eatPunct(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return &exprtree.GlobalNode{Name: name}, nil
		}
		if p.cur.kind != tokenIdent {
			return nil, p.errHeref("expected identifier after '.' in global name, found %s", p.cur.describe())
		}
		name += "." + p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}
