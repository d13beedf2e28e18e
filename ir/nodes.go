package ir

import (
	"strings"

	"github.com/soybuild/soycompile/exprtree"
)

// TemplateNode is the root of one template's body.
type TemplateNode struct {
	Pos SourcePos
	// Name is the full dotted template name, e.g. "my.app.helloWorld".
	Name string
	Body []Node
}

func (n *TemplateNode) SourceString() string { return "{template " + n.Name + "}" }
func (n *TemplateNode) Children() []Node     { return n.Body }

// RawTextNode is a run of literal template text.
type RawTextNode struct {
	Pos  SourcePos
	Text string
}

func (n *RawTextNode) SourceString() string { return n.Text }
func (n *RawTextNode) Children() []Node     { return nil }

// MsgRefNode is a reference to a translated message variable whose name was
// already resolved by the message-extraction pass, e.g. "MSG_UNNAMED_42".
type MsgRefNode struct {
	Pos     SourcePos
	MsgName string
}

func (n *MsgRefNode) SourceString() string { return n.MsgName }
func (n *MsgRefNode) Children() []Node     { return nil }

// MsgHtmlTagNode wraps the pieces of an HTML tag that appears inside a
// message placeholder.
type MsgHtmlTagNode struct {
	Pos  SourcePos
	Body []Node
}

func (n *MsgHtmlTagNode) SourceString() string {
	var sb strings.Builder
	for _, c := range n.Body {
		sb.WriteString(c.SourceString())
	}
	return sb.String()
}
func (n *MsgHtmlTagNode) Children() []Node { return n.Body }

// PrintNode is a print command: one embedded expression plus an ordered
// sequence of print directives.
type PrintNode struct {
	Pos  SourcePos
	Expr Expr
	// Directives are applied to the printed value in source order.
	Directives []*PrintDirectiveNode
}

func (n *PrintNode) SourceString() string {
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(n.Expr.Text)
	for _, d := range n.Directives {
		sb.WriteString(d.SourceString())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (n *PrintNode) Children() []Node {
	children := make([]Node, len(n.Directives))
	for i, d := range n.Directives {
		children[i] = d
	}
	return children
}

// PrintDirectiveNode is one directive invocation attached to a print
// command, e.g. "|truncate:8,false".
type PrintDirectiveNode struct {
	Pos  SourcePos
	Name string
	Args []Expr
}

func (n *PrintDirectiveNode) SourceString() string {
	var sb strings.Builder
	sb.WriteByte('|')
	sb.WriteString(n.Name)
	for i, arg := range n.Args {
		if i == 0 {
			sb.WriteByte(':')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(arg.Text)
	}
	return sb.String()
}
func (n *PrintDirectiveNode) Children() []Node { return nil }

// CssNode is a css command. CommandText is everything between the command
// name and the closing brace: either a literal class selector, or a base
// expression and a literal selector separated by the last comma.
type CssNode struct {
	Pos         SourcePos
	CommandText string
}

func (n *CssNode) SourceString() string { return "{css " + n.CommandText + "}" }
func (n *CssNode) Children() []Node     { return nil }

// IfNode is a conditional command: an ordered sequence of guarded branches
// plus an optional else branch.
type IfNode struct {
	Pos   SourcePos
	Conds []*IfCondNode
	Else  *IfElseNode
}

func (n *IfNode) SourceString() string {
	var sb strings.Builder
	for i, c := range n.Conds {
		if i == 0 {
			sb.WriteString("{if ")
		} else {
			sb.WriteString("{elseif ")
		}
		sb.WriteString(c.Guard.Text)
		sb.WriteByte('}')
		for _, child := range c.Body {
			sb.WriteString(child.SourceString())
		}
	}
	if n.Else != nil {
		sb.WriteString("{else}")
		for _, child := range n.Else.Body {
			sb.WriteString(child.SourceString())
		}
	}
	sb.WriteString("{/if}")
	return sb.String()
}

func (n *IfNode) Children() []Node {
	children := make([]Node, 0, len(n.Conds)+1)
	for _, c := range n.Conds {
		children = append(children, c)
	}
	if n.Else != nil {
		children = append(children, n.Else)
	}
	return children
}

// IfCondNode is one guarded branch of an IfNode.
type IfCondNode struct {
	Pos   SourcePos
	Guard Expr
	Body  []Node
}

func (n *IfCondNode) SourceString() string { return "{if " + n.Guard.Text + "}" }
func (n *IfCondNode) Children() []Node     { return n.Body }

// IfElseNode is the terminal else branch of an IfNode.
type IfElseNode struct {
	Pos  SourcePos
	Body []Node
}

func (n *IfElseNode) SourceString() string { return "{else}" }
func (n *IfElseNode) Children() []Node     { return n.Body }

// CallNode invokes another template. Exactly one of DataAll and DataExpr
// may be set; if neither is set and there are no params, the callee
// receives no data.
type CallNode struct {
	Pos SourcePos
	// Callee is the full dotted name of the called template.
	Callee string
	// DataAll passes the caller's entire data record to the callee.
	DataAll bool
	// DataExpr passes the value of an expression as the callee's data.
	DataExpr *Expr
	Params   []*CallParamNode
}

func (n *CallNode) SourceString() string {
	var sb strings.Builder
	sb.WriteString("{call ")
	sb.WriteString(n.Callee)
	if n.DataAll {
		sb.WriteString(` data="all"`)
	} else if n.DataExpr != nil {
		sb.WriteString(` data="` + n.DataExpr.Text + `"`)
	}
	if len(n.Params) == 0 {
		sb.WriteString(" /}")
		return sb.String()
	}
	sb.WriteByte('}')
	for _, p := range n.Params {
		sb.WriteString(p.SourceString())
	}
	sb.WriteString("{/call}")
	return sb.String()
}

func (n *CallNode) Children() []Node {
	children := make([]Node, len(n.Params))
	for i, p := range n.Params {
		children[i] = p
	}
	return children
}

// CallParamNode is one param of a CallNode. Exactly one of Value and
// Content is set: a value param passes the value of an expression, a
// content param passes the rendered output of its child block.
type CallParamNode struct {
	Pos     SourcePos
	Key     string
	Value   *Expr
	Content []Node
}

func (n *CallParamNode) SourceString() string {
	if n.Value != nil {
		return "{param " + n.Key + ": " + n.Value.Text + " /}"
	}
	var sb strings.Builder
	sb.WriteString("{param " + n.Key + "}")
	for _, c := range n.Content {
		sb.WriteString(c.SourceString())
	}
	sb.WriteString("{/param}")
	return sb.String()
}
func (n *CallParamNode) Children() []Node { return n.Content }

// LetNode binds a local variable for the remainder of the enclosing block.
// It is a statement-level construct and is never representable as a single
// expression.
type LetNode struct {
	Pos   SourcePos
	Name  string
	Value *Expr
	// Content is set instead of Value when the binding is a rendered block.
	Content []Node
}

func (n *LetNode) SourceString() string {
	if n.Value != nil {
		return "{let $" + n.Name + ": " + n.Value.Text + " /}"
	}
	return "{let $" + n.Name + "}"
}
func (n *LetNode) Children() []Node { return n.Content }

// ForeachNode iterates over a list value. It is a statement-level construct
// and is never representable as a single expression.
type ForeachNode struct {
	Pos  SourcePos
	Var  string
	List Expr
	Body []Node
}

func (n *ForeachNode) SourceString() string {
	return "{foreach $" + n.Var + " in " + n.List.Text + "}"
}
func (n *ForeachNode) Children() []Node { return n.Body }

// Expr pairs a parsed embedded expression with its original source text.
// The source text is carried for diagnostics; it may be empty when the
// expression was constructed programmatically.
type Expr struct {
	Node exprtree.Expr
	Text string
}

// NewExpr builds an Expr whose source text is the rendered form of the
// parsed tree.
func NewExpr(node exprtree.Expr) Expr {
	return Expr{Node: node, Text: node.String()}
}

func (n *TemplateNode) Position() SourcePos { return n.Pos }
func (n *RawTextNode) Position() SourcePos { return n.Pos }
func (n *MsgRefNode) Position() SourcePos { return n.Pos }
func (n *MsgHtmlTagNode) Position() SourcePos { return n.Pos }
func (n *PrintNode) Position() SourcePos { return n.Pos }
func (n *PrintDirectiveNode) Position() SourcePos { return n.Pos }
func (n *CssNode) Position() SourcePos { return n.Pos }
func (n *IfNode) Position() SourcePos { return n.Pos }
func (n *IfCondNode) Position() SourcePos { return n.Pos }
func (n *IfElseNode) Position() SourcePos { return n.Pos }
func (n *CallNode) Position() SourcePos { return n.Pos }
func (n *CallParamNode) Position() SourcePos { return n.Pos }
func (n *LetNode) Position() SourcePos { return n.Pos }
func (n *ForeachNode) Position() SourcePos { return n.Pos }
