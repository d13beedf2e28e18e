package soycompile

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/soybuild/soycompile/ir"
	"github.com/soybuild/soycompile/jssrc"
	"github.com/soybuild/soycompile/reporter"
)

// Unit is one compilation unit: a template whose body has already been
// parsed to IR and classified as expression-representable, together with
// the scope stack the driver established for it.
type Unit struct {
	// Template is the unit's IR root.
	Template *ir.TemplateNode
	// Scope holds the replacement JS expressions for local variables in
	// scope at the template root. May be nil.
	Scope jssrc.ScopeStack
}

// Compiler generates JS expression fragments for template compilation
// units. The zero value is usable; all fields are optional.
type Compiler struct {
	// Registry supplies the print directives available to templates. If
	// nil, the built-in basic directives are used.
	Registry *jssrc.DirectiveRegistry

	// The maximum parallelism to use when compiling. If unspecified or set
	// to a non-positive value, then min(runtime.NumCPU(),
	// runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int

	// A custom error and warning reporter. If unspecified, a default
	// reporter is used, which fails the compilation on the first error.
	Reporter reporter.Reporter
}

// Compile generates the expression fragments for each unit. The returned
// slice is parallel to units and preserves their order regardless of the
// evaluation order. If any unit fails, the whole operation fails; there is
// no partial output.
func (c *Compiler) Compile(ctx context.Context, units ...Unit) ([][]jssrc.JsExpr, error) {
	if len(units) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := c.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}

	registry := c.Registry
	if registry == nil {
		registry = jssrc.NewDirectiveRegistry(jssrc.BasicDirectives()...)
	}

	h := reporter.NewHandler(c.Reporter)
	e := &executor{
		registry: registry,
		h:        h,
		s:        semaphore.NewWeighted(int64(par)),
		cancel:   cancel,
	}

	results := make([]*result, len(units))
	for i, u := range units {
		results[i] = e.compile(ctx, u)
	}

	exprs := make([][]jssrc.JsExpr, len(units))
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if r.err != nil {
			return nil, r.err
		}
		exprs[i] = r.exprs
	}

	if err := h.Error(); err != nil {
		return nil, err
	}
	return exprs, nil
}

type result struct {
	ready chan struct{}
	exprs []jssrc.JsExpr
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(exprs []jssrc.JsExpr) {
	r.exprs = exprs
	close(r.ready)
}

type executor struct {
	registry *jssrc.DirectiveRegistry
	h        *reporter.Handler
	s        *semaphore.Weighted
	cancel   context.CancelFunc
}

func (e *executor) compile(ctx context.Context, u Unit) *result {
	r := &result{ready: make(chan struct{})}
	go e.doCompile(ctx, u, r)
	return r
}

func (e *executor) doCompile(ctx context.Context, u Unit, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	exprs, err := jssrc.GenExprs(u.Template, u.Scope, e.registry)
	if err != nil {
		// Precondition violations are programming errors in the driver,
		// not template diagnostics; they abort without involving the
		// reporter. Everything else is reported at the template's
		// position, so a lenient reporter can collect errors across
		// units before the operation fails.
		if !isUserDiagnostic(err) {
			e.cancel()
			r.fail(err)
			return
		}
		if err := e.h.HandleError(reporter.Error(u.Template.Position(), err)); err != nil {
			e.cancel()
			r.fail(err)
			return
		}
		r.fail(reporter.ErrInvalidTemplate)
		return
	}
	r.complete(exprs)
}

func isUserDiagnostic(err error) bool {
	return !errors.Is(err, jssrc.ErrNotComputable) && !errors.Is(err, jssrc.ErrMaxNestingDepth)
}
