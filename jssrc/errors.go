package jssrc

import (
	"errors"
	"fmt"
)

// ErrNotComputable indicates that a node handed to GenExprs is not
// computable as JS expressions. The driver is required to check
// IsComputableAsJsExprs before invoking the generator, so this is an
// internal programming error, never a user diagnostic.
var ErrNotComputable = errors.New("internal: node is not computable as JS expressions")

// ErrMaxNestingDepth indicates that the IR tree exceeded the generator's
// recursion-depth limit.
var ErrMaxNestingDepth = errors.New("template nesting exceeds maximum supported depth")

// UnknownDirectiveError indicates a print directive whose name is not in
// the directive registry.
type UnknownDirectiveError struct {
	// Name is the directive name as written, without the leading '|'.
	Name string
	// Tag is the source text of the print command the directive appeared in.
	Tag string
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("failed to find print directive with name '%s' (tag %s)", e.Name, e.Tag)
}

// DirectiveArityError indicates a print directive invoked with an argument
// count outside its declared valid set.
type DirectiveArityError struct {
	Name string
	// Count is the number of arguments supplied.
	Count int
	// Valid is the directive's declared set of valid argument counts.
	Valid []int
	// Tag is the source text of the print command the directive appeared in.
	Tag string
}

func (e *DirectiveArityError) Error() string {
	return fmt.Sprintf("print directive '%s' used with the wrong number of arguments: %d (tag %s)",
		e.Name, e.Count, e.Tag)
}

// MalformedBaseExpressionError indicates that the base-expression fragment
// of a css command failed to parse.
type MalformedBaseExpressionError struct {
	// Base is the offending fragment: the command text before the last comma.
	Base string
	// Err is the underlying parser diagnostic.
	Err error
}

func (e *MalformedBaseExpressionError) Error() string {
	return fmt.Sprintf("invalid expression for base in 'css' command text %q: %v", e.Base, e.Err)
}

func (e *MalformedBaseExpressionError) Unwrap() error { return e.Err }

// TranslationError indicates that an embedded expression could not be
// translated to a JS expression. ExprText is the expression's original
// source text when it was available.
type TranslationError struct {
	ExprText string
	Err      error
}

func (e *TranslationError) Error() string {
	if e.ExprText == "" {
		return fmt.Sprintf("failed to translate expression: %v", e.Err)
	}
	return fmt.Sprintf("failed to translate expression \"%s\": %v", e.ExprText, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }
