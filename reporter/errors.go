package reporter

import (
	"errors"
	"fmt"

	"github.com/soybuild/soycompile/ir"
)

// ErrInvalidTemplate is a sentinel error that is returned by compile
// operations in the event that errors are encountered, but the configured
// ErrorReporter always returns nil.
var ErrInvalidTemplate = errors.New("compile failed: invalid template")

// ErrorWithPos is an error about a template source file that includes
// information about the location in the file that caused the error.
//
// The value of Error() will contain both the SourcePos and the underlying
// error. The value of Unwrap() will only be the underlying error.
type ErrorWithPos interface {
	error
	GetPosition() ir.SourcePos
	Unwrap() error
}

// Error combines the given position and error into an ErrorWithPos. If err
// is already an ErrorWithPos, its position is replaced.
func Error(pos ir.SourcePos, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates an ErrorWithPos at the given position whose underlying
// error is created with fmt.Errorf.
func Errorf(pos ir.SourcePos, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        ir.SourcePos
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

// GetPosition implements the ErrorWithPos interface, supplying a location
// in template source that caused the error.
func (e errorWithSourcePos) GetPosition() ir.SourcePos {
	return e.pos
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}
