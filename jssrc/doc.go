// Package jssrc generates JavaScript source from template IR.
//
// The central entry point is GenExprs, which compiles an
// expression-representable IR subtree into an ordered sequence of JsExpr
// fragments, each tagged with its operator precedence so callers can embed
// them without changing their meaning. Statement-level generation (loops,
// local variable declarations, output buffering) is the responsibility of
// a driver built on top of this package.
package jssrc
