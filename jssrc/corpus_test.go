package jssrc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/soybuild/soycompile/exprparse"
	"github.com/soybuild/soycompile/internal/corpora"
	"github.com/soybuild/soycompile/ir"
)

// The corpus cases are YAML documents describing a template's IR plus an
// optional scope stack; the goldens record the generated fragments and any
// diagnostic.
func TestCorpus(t *testing.T) {
	corpus := corpora.Corpus{
		Root:      "testdata",
		Refresh:   "SOYCOMPILE_REFRESH",
		Extension: "yaml",
		Outputs: []corpora.Output{
			{Extension: "js"},
			{Extension: "err"},
		},
		Test: func(t *testing.T, path, text string) []string {
			var tc corpusCase
			require.NoError(t, yaml.Unmarshal([]byte(text), &tc), "invalid test case %q", path)

			scope := ScopeStack{}
			if len(tc.Scope) > 0 {
				frame := make(map[string]JsExpr, len(tc.Scope))
				for name, repl := range tc.Scope {
					frame[name] = Atom(repl)
				}
				scope = scope.Push(frame)
			}

			tmpl, err := tc.Template.toIR()
			require.NoError(t, err, "invalid test case %q", path)

			exprs, err := GenExprs(tmpl, scope, NewDirectiveRegistry(BasicDirectives()...))
			if err != nil {
				return []string{"", err.Error() + "\n"}
			}

			var sb strings.Builder
			for _, e := range exprs {
				sb.WriteString(e.Text)
				sb.WriteByte('\n')
			}
			return []string{sb.String(), ""}
		},
	}
	corpus.Run(t)
}

var corpusPos = ir.UnknownPos("test.soy")

type corpusCase struct {
	Scope    map[string]string `yaml:"scope"`
	Template corpusTemplate    `yaml:"template"`
}

type corpusTemplate struct {
	Name string       `yaml:"name"`
	Body []corpusNode `yaml:"body"`
}

// corpusNode is one IR node; exactly one field should be set.
type corpusNode struct {
	Raw     *string      `yaml:"raw"`
	MsgRef  *string      `yaml:"msgref"`
	Css     *string      `yaml:"css"`
	Print   *corpusPrint `yaml:"print"`
	If      *corpusIf    `yaml:"if"`
	Call    *corpusCall  `yaml:"call"`
	HtmlTag []corpusNode `yaml:"htmltag"`
}

type corpusPrint struct {
	Expr       string `yaml:"expr"`
	Directives []struct {
		Name string   `yaml:"name"`
		Args []string `yaml:"args"`
	} `yaml:"directives"`
}

type corpusIf struct {
	Branches []struct {
		Cond string       `yaml:"cond"`
		Body []corpusNode `yaml:"body"`
	} `yaml:"branches"`
	Else []corpusNode `yaml:"else"`
}

type corpusCall struct {
	Callee string `yaml:"callee"`
	// Data is empty for no data, "all", or a data expression.
	Data   string `yaml:"data"`
	Params []struct {
		Key     string       `yaml:"key"`
		Value   string       `yaml:"value"`
		Content []corpusNode `yaml:"content"`
	} `yaml:"params"`
}

func (c corpusTemplate) toIR() (*ir.TemplateNode, error) {
	body, err := corpusBody(c.Body)
	if err != nil {
		return nil, err
	}
	return &ir.TemplateNode{Pos: corpusPos, Name: c.Name, Body: body}, nil
}

func corpusBody(nodes []corpusNode) ([]ir.Node, error) {
	body := make([]ir.Node, len(nodes))
	for i, n := range nodes {
		node, err := n.toIR()
		if err != nil {
			return nil, err
		}
		body[i] = node
	}
	return body, nil
}

func corpusExpr(text string) (ir.Expr, error) {
	node, err := exprparse.Parse(text, corpusPos)
	if err != nil {
		return ir.Expr{}, err
	}
	return ir.Expr{Node: node, Text: text}, nil
}

func (n corpusNode) toIR() (ir.Node, error) {
	switch {
	case n.Raw != nil:
		return &ir.RawTextNode{Pos: corpusPos, Text: *n.Raw}, nil

	case n.MsgRef != nil:
		return &ir.MsgRefNode{Pos: corpusPos, MsgName: *n.MsgRef}, nil

	case n.Css != nil:
		return &ir.CssNode{Pos: corpusPos, CommandText: *n.Css}, nil

	case n.Print != nil:
		expr, err := corpusExpr(n.Print.Expr)
		if err != nil {
			return nil, err
		}
		node := &ir.PrintNode{Pos: corpusPos, Expr: expr}
		for _, d := range n.Print.Directives {
			dn := &ir.PrintDirectiveNode{Pos: corpusPos, Name: d.Name}
			for _, arg := range d.Args {
				argExpr, err := corpusExpr(arg)
				if err != nil {
					return nil, err
				}
				dn.Args = append(dn.Args, argExpr)
			}
			node.Directives = append(node.Directives, dn)
		}
		return node, nil

	case n.If != nil:
		node := &ir.IfNode{Pos: corpusPos}
		for _, b := range n.If.Branches {
			guard, err := corpusExpr(b.Cond)
			if err != nil {
				return nil, err
			}
			body, err := corpusBody(b.Body)
			if err != nil {
				return nil, err
			}
			node.Conds = append(node.Conds, &ir.IfCondNode{Pos: corpusPos, Guard: guard, Body: body})
		}
		if n.If.Else != nil {
			body, err := corpusBody(n.If.Else)
			if err != nil {
				return nil, err
			}
			node.Else = &ir.IfElseNode{Pos: corpusPos, Body: body}
		}
		return node, nil

	case n.Call != nil:
		node := &ir.CallNode{Pos: corpusPos, Callee: n.Call.Callee}
		switch n.Call.Data {
		case "":
		case "all":
			node.DataAll = true
		default:
			expr, err := corpusExpr(n.Call.Data)
			if err != nil {
				return nil, err
			}
			node.DataExpr = &expr
		}
		for _, p := range n.Call.Params {
			pn := &ir.CallParamNode{Pos: corpusPos, Key: p.Key}
			if p.Value != "" {
				expr, err := corpusExpr(p.Value)
				if err != nil {
					return nil, err
				}
				pn.Value = &expr
			} else {
				content, err := corpusBody(p.Content)
				if err != nil {
					return nil, err
				}
				pn.Content = content
			}
			node.Params = append(node.Params, pn)
		}
		return node, nil

	case n.HtmlTag != nil:
		body, err := corpusBody(n.HtmlTag)
		if err != nil {
			return nil, err
		}
		return &ir.MsgHtmlTagNode{Pos: corpusPos, Body: body}, nil

	default:
		return nil, fmt.Errorf("unrecognized node in test case")
	}
}
