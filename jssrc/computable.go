package jssrc

import "github.com/soybuild/soycompile/ir"

// IsComputableAsJsExprs reports whether the subtree rooted at node can be
// generated as JS expressions alone, with no intervening statements. The
// driver must check this before calling GenExprs; statement-level
// constructs (let, foreach) and anything containing them must go through
// full statement generation instead.
func IsComputableAsJsExprs(node ir.Node) bool {
	switch n := node.(type) {
	case *ir.RawTextNode, *ir.MsgRefNode, *ir.PrintNode, *ir.CssNode:
		return true

	case *ir.TemplateNode, *ir.MsgHtmlTagNode, *ir.IfCondNode, *ir.IfElseNode, *ir.CallParamNode:
		return childrenComputable(node)

	case *ir.IfNode:
		// Guards are expressions by construction; only branch bodies can
		// disqualify the conditional.
		return childrenComputable(node)

	case *ir.CallNode:
		// A call is one expression regardless of its own shape, but each
		// content param must collapse to an expression to build the
		// callee's data record inline.
		for _, p := range n.Params {
			if p.Value == nil && !childrenComputable(p) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func childrenComputable(node ir.Node) bool {
	for _, child := range node.Children() {
		if !IsComputableAsJsExprs(child) {
			return false
		}
	}
	return true
}
