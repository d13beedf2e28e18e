package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

// tabstopWidth is the size all tabstops are rendered as.
const tabstopWidth = 4

// Render writes a human-readable rendering of err to w, including the
// offending source line and a caret marking the error's column. The source
// argument is the full text of the file the error's position refers to; if
// it is empty, or the position does not fall within it, only the error
// message is written.
func Render(w io.Writer, err ErrorWithPos, source string) error {
	if _, werr := fmt.Fprintf(w, "%v\n", err); werr != nil {
		return werr
	}

	pos := err.GetPosition()
	line, ok := extractLine(source, pos.Line)
	if !ok {
		return nil
	}

	// Columns count runes, so the prefix boundary cannot be a byte index.
	prefix := prefixRunes(line, pos.Col-1)

	// The caret must line up with the column under a terminal font, so the
	// prefix is measured in display cells, not bytes or runes.
	if _, werr := fmt.Fprintf(w, "  %s\n", expandTabs(line)); werr != nil {
		return werr
	}
	_, werr := fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", displayWidth(prefix)))
	return werr
}

func extractLine(source string, lineno int) (string, bool) {
	if source == "" || lineno <= 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if lineno > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[lineno-1], "\r"), true
}

// prefixRunes returns the prefix of s that is at most n runes long.
func prefixRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabstopWidth))
}

// displayWidth returns the width of s in terminal cells, counting tabs as
// full tabstops.
func displayWidth(s string) int {
	var width int
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			width += tabstopWidth
			continue
		}
		width += w
	}
	return width
}
