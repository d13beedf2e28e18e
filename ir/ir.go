// Package ir defines the intermediate representation of a parsed template:
// a tree of tagged nodes, one per template command, that the code
// generation packages consume. The IR is produced by a template parser
// (not part of this module) and is immutable once built.
package ir

import "fmt"

// SourcePos identifies a location in a template source file. The line and
// column numbers are one-based. Offset is the zero-based byte offset into
// the file.
type SourcePos struct {
	Filename string
	Line     int
	Col      int
	Offset   int
}

func (p SourcePos) String() string {
	if p.Line <= 0 {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// UnknownPos returns a placeholder position for the given file, used when a
// node was constructed without location information.
func UnknownPos(filename string) SourcePos {
	return SourcePos{Filename: filename}
}

// Node is one unit of template IR.
type Node interface {
	// Position returns the location of the node's command in the source file.
	Position() SourcePos
	// SourceString reconstructs the source form of the node's command, for
	// use in diagnostics. It is not guaranteed to be byte-identical to the
	// original source.
	SourceString() string
	// Children returns the node's direct children, in source order. The
	// returned slice must not be modified.
	Children() []Node
}
