// Package reporter contains the types used for reporting errors and
// warnings encountered while compiling templates, and for aggregating them
// across a compile operation.
package reporter

import (
	"sync"

	"github.com/soybuild/soycompile/ir"
)

// ErrorReporter is responsible for reporting the given error. If the
// reporter returns a non-nil error, compilation will abort with that error.
// If the reporter returns nil, compilation will continue, allowing the
// compiler to try to report as many errors as it can find.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. This is
// used for indicating non-error messages to the calling program for things
// that do not cause compilation to fail but are considered bad practice.
// Though they are just warnings, the details are supplied to the reporter
// via an error type.
type WarningReporter func(ErrorWithPos)

// Reporter receives errors and warnings as the compiler encounters them.
type Reporter interface {
	Error(ErrorWithPos) error
	Warning(ErrorWithPos)
}

func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler wraps a Reporter and tracks whether any errors have been
// reported, so that a compile operation can decide whether to proceed and
// what final error to return.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf reports an error with the given source position, formatted
// from the given message and arguments.
func (h *Handler) HandleErrorf(pos ir.SourcePos, format string, args ...any) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// HandleError reports the given error. If the handler has already aborted,
// the previously returned error is returned unchanged.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning reports a warning at the given source position.
func (h *Handler) HandleWarning(pos ir.SourcePos, err error) {
	// no need for lock; warnings don't interact with mutable fields
	h.reporter.Warning(errorWithSourcePos{pos: pos, underlying: err})
}

// Error returns the handler's final disposition: nil if no errors were
// reported, the aborting error if one occurred, or ErrInvalidTemplate if
// errors were reported but the reporter swallowed them all.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidTemplate
	}
	return h.err
}

// ReporterError returns the error that aborted the compile operation, if
// any, without substituting ErrInvalidTemplate.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
