package jssrc

import "strings"

// Precedence is a level in the JavaScript operator-precedence table, used
// to decide when a generated expression must be parenthesized before being
// embedded in a larger one.
type Precedence int

const (
	precUnknown Precedence = iota
	// PrecConditional is the ternary operator "? :".
	PrecConditional
	// PrecNullish is the nullish-coalescing operator "??".
	PrecNullish
	// PrecOr is logical "||".
	PrecOr
	// PrecAnd is logical "&&".
	PrecAnd
	// PrecEquality is "==" and "!=".
	PrecEquality
	// PrecRelational is "<", ">", "<=", and ">=".
	PrecRelational
	// PrecAdditive is binary "+" and "-". String concatenation happens at
	// this level.
	PrecAdditive
	// PrecMultiplicative is "*", "/", and "%".
	PrecMultiplicative
	// PrecUnary is unary "-" and "!".
	PrecUnary
	// PrecAtomic marks text that never needs parenthesization: literals,
	// identifiers, member accesses, calls, and parenthesized groups.
	PrecAtomic
)

var precNames = map[Precedence]string{
	PrecConditional:    "conditional",
	PrecNullish:        "nullish",
	PrecOr:             "or",
	PrecAnd:            "and",
	PrecEquality:       "equality",
	PrecRelational:     "relational",
	PrecAdditive:       "additive",
	PrecMultiplicative: "multiplicative",
	PrecUnary:          "unary",
	PrecAtomic:         "atomic",
}

func (p Precedence) String() string {
	if name, ok := precNames[p]; ok {
		return name
	}
	return "unknown"
}

// JsExpr is a generated JavaScript expression fragment tagged with its
// operator precedence. The text is always a syntactically complete
// expression: embedding it unparenthesized in any context of the stated
// precedence or lower does not change its meaning.
type JsExpr struct {
	Text string
	Prec Precedence
}

// Atom returns a JsExpr that never needs parenthesization.
func Atom(text string) JsExpr {
	return JsExpr{Text: text, Prec: PrecAtomic}
}

// MaybeParen returns e's text, parenthesized if e's precedence is strictly
// lower than min.
func MaybeParen(e JsExpr, min Precedence) string {
	if e.Prec < min {
		return "(" + e.Text + ")"
	}
	return e.Text
}

// Concat collapses an ordered list of expression fragments into a single
// string-concatenation expression using the JS "+" operator. A single
// fragment is returned unchanged, preserving its original precedence; an
// empty list yields the empty-string literal. In a multi-fragment result,
// every fragment whose precedence is below PrecAdditive is parenthesized
// and the result is tagged PrecAdditive.
func Concat(exprs []JsExpr) JsExpr {
	switch len(exprs) {
	case 0:
		return Atom("''")
	case 1:
		return exprs[0]
	}
	var sb strings.Builder
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(MaybeParen(e, PrecAdditive))
	}
	return JsExpr{Text: sb.String(), Prec: PrecAdditive}
}
