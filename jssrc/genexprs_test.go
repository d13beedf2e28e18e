package jssrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soybuild/soycompile/exprparse"
	"github.com/soybuild/soycompile/ir"
)

var testPos = ir.UnknownPos("test.soy")

// xp parses an embedded expression for use in IR literals.
func xp(t *testing.T, text string) ir.Expr {
	t.Helper()
	node, err := exprparse.Parse(text, testPos)
	require.NoError(t, err)
	return ir.Expr{Node: node, Text: text}
}

func genOne(t *testing.T, node ir.Node, scope ScopeStack) JsExpr {
	t.Helper()
	exprs, err := GenExprs(node, scope, NewDirectiveRegistry(BasicDirectives()...))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	return exprs[0]
}

func genErr(t *testing.T, node ir.Node) error {
	t.Helper()
	_, err := GenExprs(node, nil, NewDirectiveRegistry(BasicDirectives()...))
	require.Error(t, err)
	return err
}

func TestGenRawText(t *testing.T) {
	e := genOne(t, &ir.RawTextNode{Pos: testPos, Text: "Hello"}, nil)
	assert.Equal(t, Atom("'Hello'"), e)
}

func TestGenMsgRef(t *testing.T) {
	e := genOne(t, &ir.MsgRefNode{Pos: testPos, MsgName: "MSG_UNNAMED_42"}, nil)
	assert.Equal(t, Atom("MSG_UNNAMED_42"), e)
}

func TestGenTemplatePreservesOrder(t *testing.T) {
	tmpl := &ir.TemplateNode{Pos: testPos, Name: "my.app.test", Body: []ir.Node{
		&ir.RawTextNode{Pos: testPos, Text: "Hello "},
		&ir.PrintNode{Pos: testPos, Expr: xp(t, "$name")},
		&ir.RawTextNode{Pos: testPos, Text: "!"},
	}}

	exprs, err := GenExprs(tmpl, nil, NewDirectiveRegistry(BasicDirectives()...))
	require.NoError(t, err)
	require.Len(t, exprs, 3)
	assert.Equal(t, "'Hello '", exprs[0].Text)
	assert.Equal(t, "opt_data.name", exprs[1].Text)
	assert.Equal(t, "'!'", exprs[2].Text)
}

func TestGenMsgHtmlTag(t *testing.T) {
	tag := &ir.MsgHtmlTagNode{Pos: testPos, Body: []ir.Node{
		&ir.RawTextNode{Pos: testPos, Text: "<a href=\""},
		&ir.PrintNode{Pos: testPos, Expr: xp(t, "$url")},
		&ir.RawTextNode{Pos: testPos, Text: "\">"},
	}}

	exprs, err := GenExprs(tag, nil, NewDirectiveRegistry(BasicDirectives()...))
	require.NoError(t, err)
	require.Len(t, exprs, 3)
	assert.Equal(t, "opt_data.url", exprs[1].Text)
}

func TestGenPrint(t *testing.T) {
	e := genOne(t, &ir.PrintNode{Pos: testPos, Expr: xp(t, "$boo.foo")}, nil)
	assert.Equal(t, "opt_data.boo.foo", e.Text)
	assert.Equal(t, PrecAtomic, e.Prec)
}

func TestGenPrintDirectiveChain(t *testing.T) {
	// Directives apply in source order; each wraps the previous result.
	node := &ir.PrintNode{Pos: testPos, Expr: xp(t, "$x"), Directives: []*ir.PrintDirectiveNode{
		{Pos: testPos, Name: "escapeHtml"},
		{Pos: testPos, Name: "insertWordBreaks", Args: []ir.Expr{xp(t, "8")}},
	}}

	e := genOne(t, node, nil)
	assert.Equal(t, "soy.$$insertWordBreaks(soy.$$escapeHtml(opt_data.x), 8)", e.Text)
}

func TestGenPrintTruncate(t *testing.T) {
	one := &ir.PrintNode{Pos: testPos, Expr: xp(t, "$x"), Directives: []*ir.PrintDirectiveNode{
		{Pos: testPos, Name: "truncate", Args: []ir.Expr{xp(t, "8")}},
	}}
	assert.Equal(t, "soy.$$truncate(opt_data.x, 8, true)", genOne(t, one, nil).Text)

	two := &ir.PrintNode{Pos: testPos, Expr: xp(t, "$x"), Directives: []*ir.PrintDirectiveNode{
		{Pos: testPos, Name: "truncate", Args: []ir.Expr{xp(t, "8"), xp(t, "false")}},
	}}
	assert.Equal(t, "soy.$$truncate(opt_data.x, 8, false)", genOne(t, two, nil).Text)
}

func TestGenPrintUnknownDirective(t *testing.T) {
	node := &ir.PrintNode{Pos: testPos, Expr: xp(t, "$x"), Directives: []*ir.PrintDirectiveNode{
		{Pos: testPos, Name: "xyz"},
	}}

	err := genErr(t, node)
	var derr *UnknownDirectiveError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "xyz", derr.Name)
	assert.EqualError(t, err, "failed to find print directive with name 'xyz' (tag {$x|xyz})")
}

func TestGenPrintDirectiveArity(t *testing.T) {
	node := &ir.PrintNode{Pos: testPos, Expr: xp(t, "$x"), Directives: []*ir.PrintDirectiveNode{
		{Pos: testPos, Name: "insertWordBreaks"},
	}}

	err := genErr(t, node)
	var aerr *DirectiveArityError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "insertWordBreaks", aerr.Name)
	assert.Equal(t, 0, aerr.Count)
	assert.EqualError(t, err,
		"print directive 'insertWordBreaks' used with the wrong number of arguments: 0 (tag {$x|insertWordBreaks})")
}

func TestGenCss(t *testing.T) {
	e := genOne(t, &ir.CssNode{Pos: testPos, CommandText: "selected-option"}, nil)
	assert.Equal(t, Atom("goog.getCssName('selected-option')"), e)
}

func TestGenCssWithBase(t *testing.T) {
	e := genOne(t, &ir.CssNode{Pos: testPos, CommandText: "$base, selected-option"}, nil)
	assert.Equal(t, Atom("goog.getCssName(opt_data.base, 'selected-option')"), e)
}

func TestGenCssSplitsOnLastComma(t *testing.T) {
	// The base may itself contain commas; only the last one separates it
	// from the selector.
	e := genOne(t, &ir.CssNode{Pos: testPos, CommandText: "min($a, $b), option"}, nil)
	assert.Equal(t, "goog.getCssName(Math.min(opt_data.a, opt_data.b), 'option')", e.Text)
}

func TestGenCssMalformedBase(t *testing.T) {
	err := genErr(t, &ir.CssNode{Pos: testPos, CommandText: "$a $b, option"})
	var merr *MalformedBaseExpressionError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "$a $b", merr.Base)
}

func TestGenIfWithoutElse(t *testing.T) {
	node := &ir.IfNode{Pos: testPos, Conds: []*ir.IfCondNode{
		{Pos: testPos, Guard: xp(t, "$boo"), Body: []ir.Node{
			&ir.RawTextNode{Pos: testPos, Text: "AAA"},
		}},
	}}

	e := genOne(t, node, nil)
	assert.Equal(t, "(opt_data.boo) ? 'AAA' : ''", e.Text)
	assert.Equal(t, PrecConditional, e.Prec)
}

func TestGenIfChainWithElse(t *testing.T) {
	node := &ir.IfNode{
		Pos: testPos,
		Conds: []*ir.IfCondNode{
			{Pos: testPos, Guard: xp(t, "$boo"), Body: []ir.Node{
				&ir.RawTextNode{Pos: testPos, Text: "AAA"},
			}},
			{Pos: testPos, Guard: xp(t, "$foo"), Body: []ir.Node{
				&ir.RawTextNode{Pos: testPos, Text: "BBB"},
			}},
		},
		Else: &ir.IfElseNode{Pos: testPos, Body: []ir.Node{
			&ir.RawTextNode{Pos: testPos, Text: "CCC"},
		}},
	}

	e := genOne(t, node, nil)
	assert.Equal(t, "(opt_data.boo) ? 'AAA' : (opt_data.foo) ? 'BBB' : 'CCC'", e.Text)
}

func TestGenIfMultiFragmentBranch(t *testing.T) {
	node := &ir.IfNode{Pos: testPos, Conds: []*ir.IfCondNode{
		{Pos: testPos, Guard: xp(t, "$boo"), Body: []ir.Node{
			&ir.RawTextNode{Pos: testPos, Text: "Hi "},
			&ir.PrintNode{Pos: testPos, Expr: xp(t, "$name")},
		}},
	}}

	e := genOne(t, node, nil)
	assert.Equal(t, "(opt_data.boo) ? 'Hi ' + opt_data.name : ''", e.Text)
}

func TestGenIfNestedConditionalParenthesized(t *testing.T) {
	node := &ir.IfNode{Pos: testPos, Conds: []*ir.IfCondNode{
		{Pos: testPos, Guard: xp(t, "$boo"), Body: []ir.Node{
			&ir.RawTextNode{Pos: testPos, Text: "A"},
			&ir.IfNode{Pos: testPos, Conds: []*ir.IfCondNode{
				{Pos: testPos, Guard: xp(t, "$foo"), Body: []ir.Node{
					&ir.RawTextNode{Pos: testPos, Text: "B"},
				}},
			}},
		}},
	}}

	e := genOne(t, node, nil)
	assert.Equal(t, "(opt_data.boo) ? 'A' + ((opt_data.foo) ? 'B' : '') : ''", e.Text)
}

func TestGenNotComputable(t *testing.T) {
	node := &ir.LetNode{Pos: testPos, Name: "x", Content: []ir.Node{
		&ir.RawTextNode{Pos: testPos, Text: "Hello"},
	}}

	err := genErr(t, node)
	assert.ErrorIs(t, err, ErrNotComputable)
}

func TestGenNotComputableNested(t *testing.T) {
	tmpl := &ir.TemplateNode{Pos: testPos, Name: "my.app.test", Body: []ir.Node{
		&ir.RawTextNode{Pos: testPos, Text: "Hello"},
		&ir.ForeachNode{Pos: testPos, Var: "goo", List: xp(t, "$items")},
	}}

	err := genErr(t, tmpl)
	assert.ErrorIs(t, err, ErrNotComputable)
}

func TestGenMaxNestingDepth(t *testing.T) {
	var node ir.Node = &ir.RawTextNode{Pos: testPos, Text: "deep"}
	for i := 0; i < maxNestingDepth+100; i++ {
		node = &ir.MsgHtmlTagNode{Pos: testPos, Body: []ir.Node{node}}
	}

	err := genErr(t, node)
	assert.ErrorIs(t, err, ErrMaxNestingDepth)
}

func TestGenScopeReplacement(t *testing.T) {
	scope := ScopeStack{}.Push(map[string]JsExpr{"goo": Atom("gooData8")})
	node := &ir.PrintNode{Pos: testPos, Expr: xp(t, "$goo.moo")}

	exprs, err := GenExprs(node, scope, NewDirectiveRegistry(BasicDirectives()...))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, "gooData8.moo", exprs[0].Text)
}
