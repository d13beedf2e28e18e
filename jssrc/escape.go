package jssrc

import (
	"fmt"
	"strings"
	"unicode"
)

// EscapeString returns a single-quoted JavaScript string literal whose
// value is s. Characters in the Unicode "format" category (Cf) are escaped
// as \uXXXX even though they are legal in a quoted literal, because some
// JS lexers require all Cf characters to be escaped.
func EscapeString(s string) string {
	return escapeUnicodeFormatChars(escapeString(s))
}

// escapeString builds the quoted literal with the standard JS escapes.
func escapeString(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\', '\'':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\u2028', '\u2029':
			// Legal in a string per the escaping rules above, but line
			// terminators as far as the JS lexer is concerned.
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// escapeUnicodeFormatChars rewrites every Unicode format-category (Cf) code
// point in s, e.g. a zero-width joiner, as a \uXXXX escape sequence.
func escapeUnicodeFormatChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Cf, r) {
			if r > 0xffff {
				for _, unit := range utf16Units(r) {
					fmt.Fprintf(&sb, `\u%04x`, unit)
				}
			} else {
				fmt.Fprintf(&sb, `\u%04x`, r)
			}
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// utf16Units returns the UTF-16 surrogate pair for a code point above the
// basic multilingual plane.
func utf16Units(r rune) [2]uint16 {
	r -= 0x10000
	return [2]uint16{
		0xd800 + uint16(r>>10),
		0xdc00 + uint16(r&0x3ff),
	}
}
