package jssrc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/btree"
)

// Directive is a print directive: a named, arity-constrained transformation
// applied to a printed value after translation. Implementations must be
// pure; the same inputs always produce the same output.
type Directive interface {
	// Name returns the directive's name, without the leading '|'.
	Name() string
	// ValidArgSizes returns the set of argument counts the directive
	// accepts.
	ValidArgSizes() []int
	// Apply transforms the value, given the translated arguments.
	Apply(value JsExpr, args []JsExpr) JsExpr
}

// DirectiveRegistry maps directive names to their implementations. The
// registry is read-only once populated and safe for concurrent lookup.
type DirectiveRegistry struct {
	tree btree.Map[string, Directive]
}

// NewDirectiveRegistry builds a registry holding the given directives.
func NewDirectiveRegistry(dirs ...Directive) *DirectiveRegistry {
	r := &DirectiveRegistry{}
	for _, d := range dirs {
		r.tree.Set(d.Name(), d)
	}
	return r
}

// Lookup returns the directive registered under name, if any.
func (r *DirectiveRegistry) Lookup(name string) (Directive, bool) {
	return r.tree.Get(name)
}

// Names returns the registered directive names in ascending order.
func (r *DirectiveRegistry) Names() []string {
	names := make([]string, 0, r.tree.Len())
	r.tree.Scan(func(name string, _ Directive) bool {
		names = append(names, name)
		return true
	})
	return names
}

// funcDirective implements Directive with a transformation function.
type funcDirective struct {
	name  string
	sizes []int
	apply func(value JsExpr, args []JsExpr) JsExpr
}

func (d *funcDirective) Name() string         { return d.name }
func (d *funcDirective) ValidArgSizes() []int { return slices.Clone(d.sizes) }
func (d *funcDirective) Apply(value JsExpr, args []JsExpr) JsExpr {
	return d.apply(value, args)
}

// NewDirective builds a Directive from a transformation function.
func NewDirective(name string, sizes []int, apply func(value JsExpr, args []JsExpr) JsExpr) Directive {
	return &funcDirective{name: name, sizes: sizes, apply: apply}
}

// soyCall builds an atomic call to a runtime support function.
func soyCall(fn string, args ...JsExpr) JsExpr {
	texts := make([]string, len(args))
	for i, a := range args {
		texts[i] = a.Text
	}
	return Atom(fmt.Sprintf("%s(%s)", fn, strings.Join(texts, ", ")))
}

// BasicDirectives returns the built-in print directives.
func BasicDirectives() []Directive {
	identity := func(value JsExpr, _ []JsExpr) JsExpr { return value }
	return []Directive{
		// |id and |noAutoescape only affect the autoescape pass, which runs
		// before code generation; here they are identities.
		NewDirective("id", []int{0}, identity),
		NewDirective("noAutoescape", []int{0}, identity),

		NewDirective("escapeHtml", []int{0}, func(value JsExpr, _ []JsExpr) JsExpr {
			return soyCall("soy.$$escapeHtml", value)
		}),
		NewDirective("escapeUri", []int{0}, func(value JsExpr, _ []JsExpr) JsExpr {
			return soyCall("soy.$$escapeUri", value)
		}),
		NewDirective("escapeJs", []int{0}, func(value JsExpr, _ []JsExpr) JsExpr {
			return soyCall("soy.$$escapeJs", value)
		}),
		NewDirective("insertWordBreaks", []int{1}, func(value JsExpr, args []JsExpr) JsExpr {
			return soyCall("soy.$$insertWordBreaks", value, args[0])
		}),
		// |truncate:maxLen[,doAddEllipsis] — the ellipsis flag defaults to
		// true.
		NewDirective("truncate", []int{1, 2}, func(value JsExpr, args []JsExpr) JsExpr {
			ellipsis := Atom("true")
			if len(args) == 2 {
				ellipsis = args[1]
			}
			return soyCall("soy.$$truncate", value, args[0], ellipsis)
		}),
	}
}
