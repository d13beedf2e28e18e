// Package soycompile provides the entry point for a native Go template
// compiler targeting JavaScript. "Compile" here means turning template IR
// into JS expression fragments that a statement-level generator can splice
// into the final program text.
//
// The various sub-packages represent the compile phases and contain models
// for the intermediate results:
//  1. Embedded expressions parse to an expression tree.
//     Also see: exprparse.Parse
//  2. Template IR subtrees that are representable as expressions generate
//     JS expression fragments.
//     Also see: jssrc.GenExprs
//  3. Drivers check representability before generating.
//     Also see: jssrc.IsComputableAsJsExprs
//
// The Compiler type in this package accepts a list of compilation units
// and produces each unit's fragment sequence. It is capable of taking
// advantage of multiple CPU cores, so a compilation involving thousands of
// templates can be done quickly by compiling units in parallel; the output
// order of fragments within a unit is always source order regardless of
// evaluation order.
package soycompile
