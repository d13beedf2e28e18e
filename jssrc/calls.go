package jssrc

import (
	"strings"

	"github.com/soybuild/soycompile/ir"
)

// GenCallExpr builds the JS call expression for a template call.
//
//	{call some.func data="all" /}          some.func(opt_data)
//	{call some.func data="$boo.foo" /}     some.func(opt_data.boo.foo)
//	{call some.func}
//	  {param goo: $moo /}                  some.func({goo: opt_data.moo})
//	{/call}
//	{call some.func data="$boo"}
//	  {param goo}Blah{/param}              some.func(soy.$$augmentData(
//	{/call}                                    opt_data.boo, {goo: 'Blah'}))
//
// Content params must be computable as JS expressions; their child blocks
// are collapsed with the concatenation law.
func GenCallExpr(node *ir.CallNode, scope ScopeStack, registry *DirectiveRegistry) (JsExpr, error) {
	g := &exprGenerator{scope: scope, registry: registry}
	return g.genCall(node)
}

func (g *exprGenerator) genCall(node *ir.CallNode) (JsExpr, error) {
	var dataText string
	switch {
	case node.DataAll:
		dataText = "opt_data"
	case node.DataExpr != nil:
		data, err := translateIR(*node.DataExpr, g.scope)
		if err != nil {
			return JsExpr{}, err
		}
		dataText = data.Text
	}

	var argText string
	if len(node.Params) == 0 {
		argText = dataText
		if argText == "" {
			argText = "null"
		}
	} else {
		fields := make([]string, len(node.Params))
		for i, p := range node.Params {
			var value JsExpr
			var err error
			if p.Value != nil {
				value, err = translateIR(*p.Value, g.scope)
			} else {
				var body []JsExpr
				body, err = g.gen(p)
				value = Concat(body)
			}
			if err != nil {
				return JsExpr{}, err
			}
			fields[i] = p.Key + ": " + value.Text
		}
		argText = "{" + strings.Join(fields, ", ") + "}"
		if dataText != "" {
			argText = "soy.$$augmentData(" + dataText + ", " + argText + ")"
		}
	}

	return Atom(node.Callee + "(" + argText + ")"), nil
}
