package jssrc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/soybuild/soycompile/exprparse"
	"github.com/soybuild/soycompile/ir"
)

// maxNestingDepth bounds IR recursion so that pathological input depth
// fails cleanly instead of exhausting the goroutine stack.
const maxNestingDepth = 1000

// GenExprs generates the ordered sequence of JS expressions for the
// subtree rooted at node. The scope stack supplies replacement expressions
// for local variables; the registry supplies print directives.
//
// The caller must have verified IsComputableAsJsExprs(node); handing over
// a node that fails that check returns an error wrapping ErrNotComputable.
// GenExprs is pure: the same inputs always produce the same output, and no
// state is retained between invocations.
func GenExprs(node ir.Node, scope ScopeStack, registry *DirectiveRegistry) ([]JsExpr, error) {
	if !IsComputableAsJsExprs(node) {
		return nil, fmt.Errorf("%w (node %s)", ErrNotComputable, node.SourceString())
	}
	g := &exprGenerator{scope: scope, registry: registry}
	return g.gen(node)
}

// exprGenerator carries the read-only inputs of one GenExprs invocation
// down the recursive descent, plus the current nesting depth.
type exprGenerator struct {
	scope    ScopeStack
	registry *DirectiveRegistry
	depth    int
}

func (g *exprGenerator) gen(node ir.Node) ([]JsExpr, error) {
	if g.depth >= maxNestingDepth {
		return nil, ErrMaxNestingDepth
	}
	g.depth++
	defer func() { g.depth-- }()

	switch n := node.(type) {
	case *ir.TemplateNode:
		return g.genChildren(n.Body)

	case *ir.MsgHtmlTagNode:
		return g.genChildren(n.Body)

	case *ir.IfCondNode:
		return g.genChildren(n.Body)

	case *ir.IfElseNode:
		return g.genChildren(n.Body)

	case *ir.CallParamNode:
		return g.genChildren(n.Content)

	case *ir.RawTextNode:
		// {Hello} generates 'Hello'; see EscapeString for the extra
		// escaping of Unicode format characters.
		return []JsExpr{Atom(EscapeString(n.Text))}, nil

	case *ir.MsgRefNode:
		// The message-extraction pass already resolved the name, e.g.
		// MSG_UNNAMED_42; it is emitted verbatim.
		return []JsExpr{Atom(n.MsgName)}, nil

	case *ir.PrintNode:
		e, err := g.genPrint(n)
		if err != nil {
			return nil, err
		}
		return []JsExpr{e}, nil

	case *ir.CssNode:
		e, err := g.genCss(n)
		if err != nil {
			return nil, err
		}
		return []JsExpr{e}, nil

	case *ir.IfNode:
		e, err := g.genIf(n)
		if err != nil {
			return nil, err
		}
		return []JsExpr{e}, nil

	case *ir.CallNode:
		e, err := g.genCall(n)
		if err != nil {
			return nil, err
		}
		return []JsExpr{e}, nil

	default:
		return nil, fmt.Errorf("%w (node %s)", ErrNotComputable, node.SourceString())
	}
}

// genChildren generates each child's expressions in order and concatenates
// the sequences, without collapsing them into one fragment.
func (g *exprGenerator) genChildren(children []ir.Node) ([]JsExpr, error) {
	var result []JsExpr
	for _, child := range children {
		exprs, err := g.gen(child)
		if err != nil {
			return nil, err
		}
		result = append(result, exprs...)
	}
	return result, nil
}

// genPrint translates the printed expression and pipes it through the
// node's directives in source order: directive N's output is directive
// N+1's input.
//
// {$boo.foo} might generate opt_data.boo.foo.
func (g *exprGenerator) genPrint(node *ir.PrintNode) (JsExpr, error) {
	value, err := translateIR(node.Expr, g.scope)
	if err != nil {
		return JsExpr{}, err
	}

	for _, dn := range node.Directives {
		directive, ok := g.registry.Lookup(dn.Name)
		if !ok {
			return JsExpr{}, &UnknownDirectiveError{Name: dn.Name, Tag: node.SourceString()}
		}

		// Directive arguments are translated against the same scope stack
		// as the printed expression; they cannot see directive state.
		args := make([]JsExpr, len(dn.Args))
		for i, arg := range dn.Args {
			args[i], err = translateIR(arg, g.scope)
			if err != nil {
				return JsExpr{}, err
			}
		}

		valid := directive.ValidArgSizes()
		if !slices.Contains(valid, len(args)) {
			return JsExpr{}, &DirectiveArityError{
				Name:  dn.Name,
				Count: len(args),
				Valid: valid,
				Tag:   node.SourceString(),
			}
		}

		value = directive.Apply(value, args)
	}

	return value, nil
}

// genCss builds the class-renaming call for a css command.
//
// {css selected-option} generates goog.getCssName('selected-option');
// {css $base, selected-option} generates
// goog.getCssName(opt_data.base, 'selected-option').
func (g *exprGenerator) genCss(node *ir.CssNode) (JsExpr, error) {
	var sb strings.Builder
	sb.WriteString("goog.getCssName(")

	selector := node.CommandText
	if delim := strings.LastIndex(node.CommandText, ","); delim != -1 {
		baseText := strings.TrimSpace(node.CommandText[:delim])

		baseExpr, err := exprparse.Parse(baseText, node.Position())
		if err != nil {
			return JsExpr{}, &MalformedBaseExpressionError{Base: baseText, Err: err}
		}
		baseJs, err := TranslateExpr(baseExpr, baseText, g.scope)
		if err != nil {
			return JsExpr{}, err
		}

		sb.WriteString(baseJs.Text)
		sb.WriteString(", ")
		selector = node.CommandText[delim+1:]
	}

	sb.WriteString(EscapeString(strings.TrimSpace(selector)))
	sb.WriteString(")")
	return Atom(sb.String()), nil
}

// genIf synthesizes a ternary chain from a conditional command.
//
// {if $boo}AAA{elseif $foo}BBB{else}CCC{/if} generates
// (opt_data.boo) ? 'AAA' : (opt_data.foo) ? 'BBB' : 'CCC'. A conditional
// without an else branch falls back to the empty string.
func (g *exprGenerator) genIf(node *ir.IfNode) (JsExpr, error) {
	var sb strings.Builder

	for _, cond := range node.Conds {
		guard, err := translateIR(cond.Guard, g.scope)
		if err != nil {
			return JsExpr{}, err
		}
		body, err := g.gen(cond)
		if err != nil {
			return JsExpr{}, err
		}
		sb.WriteString("(")
		sb.WriteString(guard.Text)
		sb.WriteString(") ? ")
		sb.WriteString(Concat(body).Text)
		sb.WriteString(" : ")
	}

	if node.Else != nil {
		body, err := g.gen(node.Else)
		if err != nil {
			return JsExpr{}, err
		}
		sb.WriteString(Concat(body).Text)
	} else {
		sb.WriteString("''")
	}

	return JsExpr{Text: sb.String(), Prec: PrecConditional}, nil
}
