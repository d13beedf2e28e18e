// Package exprtree defines the AST for embedded template expressions: the
// mini-language that appears inside print commands, directive arguments,
// conditional guards, and call data attributes.
package exprtree

import (
	"strconv"
	"strings"
)

// Expr is a node in an embedded-expression tree.
type Expr interface {
	// String renders the expression in its source form.
	String() string

	isExpr()
}

// NullNode is the literal "null".
type NullNode struct{}

func (NullNode) String() string { return "null" }
func (NullNode) isExpr()        {}

// BoolNode is the literal "true" or "false".
type BoolNode struct {
	Value bool
}

func (n *BoolNode) String() string { return strconv.FormatBool(n.Value) }
func (*BoolNode) isExpr()          {}

// IntNode is an integer literal.
type IntNode struct {
	Value int64
}

func (n *IntNode) String() string { return strconv.FormatInt(n.Value, 10) }
func (*IntNode) isExpr()          {}

// FloatNode is a floating-point literal.
type FloatNode struct {
	Value float64
}

func (n *FloatNode) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (*FloatNode) isExpr()          {}

// StringNode is a single-quoted string literal. Value holds the unescaped
// contents.
type StringNode struct {
	Value string
}

func (n *StringNode) String() string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range n.Value {
		switch r {
		case '\\', '\'':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
func (*StringNode) isExpr() {}

// DataRefNode is a reference to template data or a local variable, e.g.
// "$boo", "$boo.foo", "$boo.0". Keys holds the access chain after the
// initial name; each key is a non-empty identifier or decimal index, in
// any order.
type DataRefNode struct {
	Name string
	Keys []string
}

func (n *DataRefNode) String() string {
	var sb strings.Builder
	sb.WriteByte('$')
	sb.WriteString(n.Name)
	for _, k := range n.Keys {
		sb.WriteByte('.')
		sb.WriteString(k)
	}
	return sb.String()
}
func (*DataRefNode) isExpr() {}

// GlobalNode is a reference to a dotted global name, e.g. "my.app.CONSTANT".
type GlobalNode struct {
	Name string
}

func (n *GlobalNode) String() string { return n.Name }
func (*GlobalNode) isExpr()          {}

// FunctionNode is a function call, e.g. "length($items)".
type FunctionNode struct {
	Name string
	Args []Expr
}

func (n *FunctionNode) String() string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	sb.WriteByte('(')
	for i, arg := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
func (*FunctionNode) isExpr() {}

// UnaryOpNode applies a unary operator to its operand.
type UnaryOpNode struct {
	Op  Operator
	Arg Expr
}

func (n *UnaryOpNode) String() string {
	tok := n.Op.Token()
	if n.Op == OpNot {
		tok += " "
	}
	return tok + n.Arg.String()
}
func (*UnaryOpNode) isExpr() {}

// BinaryOpNode applies a binary operator to its operands.
type BinaryOpNode struct {
	Op  Operator
	Lhs Expr
	Rhs Expr
}

func (n *BinaryOpNode) String() string {
	return n.Lhs.String() + " " + n.Op.Token() + " " + n.Rhs.String()
}
func (*BinaryOpNode) isExpr() {}

// ConditionalOpNode is the ternary operator "cond ? then : else".
type ConditionalOpNode struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (n *ConditionalOpNode) String() string {
	return n.Cond.String() + " ? " + n.Then.String() + " : " + n.Else.String()
}
func (*ConditionalOpNode) isExpr() {}
