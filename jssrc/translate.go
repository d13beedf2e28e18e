package jssrc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/soybuild/soycompile/exprtree"
	"github.com/soybuild/soycompile/internal/ext/mapsx"
	"github.com/soybuild/soycompile/ir"
)

// TranslateExpr translates an embedded expression tree to a JS expression.
// Data references resolve through the scope stack first and fall back to
// the template's data record. The exprText argument is the expression's
// original source text, carried into diagnostics; it may be empty.
func TranslateExpr(expr exprtree.Expr, exprText string, scope ScopeStack) (JsExpr, error) {
	result, err := translate(expr, scope)
	if err != nil {
		return JsExpr{}, &TranslationError{ExprText: exprText, Err: err}
	}
	return result, nil
}

func translateIR(e ir.Expr, scope ScopeStack) (JsExpr, error) {
	return TranslateExpr(e.Node, e.Text, scope)
}

func translate(expr exprtree.Expr, scope ScopeStack) (JsExpr, error) {
	switch n := expr.(type) {
	case exprtree.NullNode:
		return Atom("null"), nil

	case *exprtree.BoolNode:
		return Atom(strconv.FormatBool(n.Value)), nil

	case *exprtree.IntNode:
		if n.Value < 0 {
			return JsExpr{Text: strconv.FormatInt(n.Value, 10), Prec: PrecUnary}, nil
		}
		return Atom(strconv.FormatInt(n.Value, 10)), nil

	case *exprtree.FloatNode:
		text := strconv.FormatFloat(n.Value, 'g', -1, 64)
		if n.Value < 0 {
			return JsExpr{Text: text, Prec: PrecUnary}, nil
		}
		return Atom(text), nil

	case *exprtree.StringNode:
		return Atom(EscapeString(n.Value)), nil

	case *exprtree.GlobalNode:
		return Atom(n.Name), nil

	case *exprtree.DataRefNode:
		return translateDataRef(n, scope)

	case *exprtree.FunctionNode:
		return translateFunction(n, scope)

	case *exprtree.UnaryOpNode:
		return translateUnaryOp(n, scope)

	case *exprtree.BinaryOpNode:
		return translateBinaryOp(n, scope)

	case *exprtree.ConditionalOpNode:
		return translateConditionalOp(n, scope)

	default:
		return JsExpr{}, fmt.Errorf("internal: unexpected expression node %T", expr)
	}
}

func translateDataRef(n *exprtree.DataRefNode, scope ScopeStack) (JsExpr, error) {
	var sb strings.Builder
	if local, ok := scope.Lookup(n.Name); ok {
		sb.WriteString(MaybeParen(local, PrecAtomic))
	} else {
		sb.WriteString("opt_data.")
		sb.WriteString(n.Name)
	}
	for _, key := range n.Keys {
		if len(key) > 0 && key[0] >= '0' && key[0] <= '9' {
			sb.WriteString("[" + key + "]")
		} else {
			sb.WriteString("." + key)
		}
	}
	return Atom(sb.String()), nil
}

// loopFuncSuffixes maps the special loop functions to the scope-stack
// bookkeeping bindings that the statement-level generator pushes for each
// foreach variable.
var loopFuncSuffixes = map[string]string{
	"index":   "__index",
	"isFirst": "__isFirst",
	"isLast":  "__isLast",
}

type jsFunc struct {
	validArgSizes []int
	gen           func(args []JsExpr) JsExpr
}

var builtinFuncs = map[string]jsFunc{
	"length": {[]int{1}, func(args []JsExpr) JsExpr {
		return Atom(MaybeParen(args[0], PrecAtomic) + ".length")
	}},
	"keys": {[]int{1}, func(args []JsExpr) JsExpr {
		return soyCall("soy.$$getMapKeys", args[0])
	}},
	"round": {[]int{1, 2}, func(args []JsExpr) JsExpr {
		if len(args) == 2 {
			return soyCall("soy.$$round", args[0], args[1])
		}
		return soyCall("Math.round", args[0])
	}},
	"floor":   {[]int{1}, func(args []JsExpr) JsExpr { return soyCall("Math.floor", args[0]) }},
	"ceiling": {[]int{1}, func(args []JsExpr) JsExpr { return soyCall("Math.ceil", args[0]) }},
	"min":     {[]int{2}, func(args []JsExpr) JsExpr { return soyCall("Math.min", args[0], args[1]) }},
	"max":     {[]int{2}, func(args []JsExpr) JsExpr { return soyCall("Math.max", args[0], args[1]) }},
	"randomInt": {[]int{1}, func(args []JsExpr) JsExpr {
		return soyCall("Math.floor", JsExpr{
			Text: "Math.random() * " + MaybeParen(args[0], PrecMultiplicative),
			Prec: PrecMultiplicative,
		})
	}},
	"hasData": {[]int{0}, func([]JsExpr) JsExpr {
		return JsExpr{Text: "opt_data != null", Prec: PrecEquality}
	}},
}

func translateFunction(n *exprtree.FunctionNode, scope ScopeStack) (JsExpr, error) {
	if suffix, ok := loopFuncSuffixes[n.Name]; ok {
		if len(n.Args) != 1 {
			return JsExpr{}, fmt.Errorf("function '%s' takes exactly one argument", n.Name)
		}
		ref, ok := n.Args[0].(*exprtree.DataRefNode)
		if !ok || len(ref.Keys) != 0 {
			return JsExpr{}, fmt.Errorf("function '%s' must be applied to a foreach variable", n.Name)
		}
		local, ok := scope.Lookup(ref.Name + suffix)
		if !ok {
			return JsExpr{}, fmt.Errorf("function '%s' applied to '$%s', which is not a foreach variable in scope", n.Name, ref.Name)
		}
		return local, nil
	}

	fn, ok := builtinFuncs[n.Name]
	if !ok {
		return JsExpr{}, fmt.Errorf("unknown function '%s' (known functions: %s)",
			n.Name, strings.Join(mapsx.SortedKeys(builtinFuncs), ", "))
	}
	if !slices.Contains(fn.validArgSizes, len(n.Args)) {
		return JsExpr{}, fmt.Errorf("function '%s' used with the wrong number of arguments: %d", n.Name, len(n.Args))
	}
	args := make([]JsExpr, len(n.Args))
	for i, arg := range n.Args {
		translated, err := translate(arg, scope)
		if err != nil {
			return JsExpr{}, err
		}
		args[i] = translated
	}
	return fn.gen(args), nil
}

func translateUnaryOp(n *exprtree.UnaryOpNode, scope ScopeStack) (JsExpr, error) {
	arg, err := translate(n.Arg, scope)
	if err != nil {
		return JsExpr{}, err
	}
	var tok string
	switch n.Op {
	case exprtree.OpNegative:
		// The space avoids fusing into "--" when the operand is negative.
		tok = "- "
	case exprtree.OpNot:
		tok = "!"
	default:
		return JsExpr{}, fmt.Errorf("internal: operator %q is not unary", n.Op)
	}
	return JsExpr{Text: tok + MaybeParen(arg, PrecUnary), Prec: PrecUnary}, nil
}

var binaryOps = map[exprtree.Operator]struct {
	tok  string
	prec Precedence
}{
	exprtree.OpTimes:        {"*", PrecMultiplicative},
	exprtree.OpDivide:       {"/", PrecMultiplicative},
	exprtree.OpMod:          {"%", PrecMultiplicative},
	exprtree.OpPlus:         {"+", PrecAdditive},
	exprtree.OpMinus:        {"-", PrecAdditive},
	exprtree.OpLess:         {"<", PrecRelational},
	exprtree.OpGreater:      {">", PrecRelational},
	exprtree.OpLessEq:       {"<=", PrecRelational},
	exprtree.OpGreaterEq:    {">=", PrecRelational},
	exprtree.OpEquals:       {"==", PrecEquality},
	exprtree.OpNotEquals:    {"!=", PrecEquality},
	exprtree.OpAnd:          {"&&", PrecAnd},
	exprtree.OpOr:           {"||", PrecOr},
	exprtree.OpNullCoalesce: {"??", PrecNullish},
}

func translateBinaryOp(n *exprtree.BinaryOpNode, scope ScopeStack) (JsExpr, error) {
	op, ok := binaryOps[n.Op]
	if !ok {
		return JsExpr{}, fmt.Errorf("internal: operator %q is not binary", n.Op)
	}
	lhs, err := translate(n.Lhs, scope)
	if err != nil {
		return JsExpr{}, err
	}
	rhs, err := translate(n.Rhs, scope)
	if err != nil {
		return JsExpr{}, err
	}

	lhsText := MaybeParen(lhs, op.prec)
	rhsText := MaybeParen(rhs, op.prec+1) // left-associative: equal-level rhs needs parens
	if n.Op == exprtree.OpNullCoalesce {
		// JS makes it a syntax error to mix ?? with || or && without
		// parentheses, even though the precedence ordering would allow it.
		lhsText = maybeParenNullish(lhs, false)
		rhsText = maybeParenNullish(rhs, true)
	}
	return JsExpr{Text: lhsText + " " + op.tok + " " + rhsText, Prec: op.prec}, nil
}

func maybeParenNullish(e JsExpr, isRhs bool) string {
	if e.Prec == PrecOr || e.Prec == PrecAnd {
		return "(" + e.Text + ")"
	}
	min := PrecNullish
	if isRhs {
		min++
	}
	return MaybeParen(e, min)
}

func translateConditionalOp(n *exprtree.ConditionalOpNode, scope ScopeStack) (JsExpr, error) {
	cond, err := translate(n.Cond, scope)
	if err != nil {
		return JsExpr{}, err
	}
	then, err := translate(n.Then, scope)
	if err != nil {
		return JsExpr{}, err
	}
	els, err := translate(n.Else, scope)
	if err != nil {
		return JsExpr{}, err
	}
	// The ternary is right-associative: its branches may themselves be
	// unparenthesized ternaries, but its condition may not.
	text := MaybeParen(cond, PrecConditional+1) +
		" ? " + MaybeParen(then, PrecConditional) +
		" : " + MaybeParen(els, PrecConditional)
	return JsExpr{Text: text, Prec: PrecConditional}, nil
}
