package jssrc

import "slices"

// ScopeStack is the ordered stack of replacement JS expressions for the
// local variables (and loop bookkeeping bindings) currently in scope. The
// innermost frame is last. The stack is owned by the driver; this package
// only reads it.
type ScopeStack []map[string]JsExpr

// Push returns a new stack with frame as its innermost frame. The receiver
// is not modified.
func (s ScopeStack) Push(frame map[string]JsExpr) ScopeStack {
	return append(slices.Clip(s), frame)
}

// Lookup resolves name against the stack, innermost frame first.
func (s ScopeStack) Lookup(name string) (JsExpr, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if e, ok := s[i][name]; ok {
			return e, true
		}
	}
	return JsExpr{}, false
}
