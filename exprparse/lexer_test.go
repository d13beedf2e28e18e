package exprparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soybuild/soycompile/ir"
)

func lexAll(t *testing.T, text string) []token {
	t.Helper()
	l := newLexer(text, ir.UnknownPos("test.soy"))
	var toks []token
	for {
		tok, err := l.next()
		require.NoError(t, err)
		if tok.kind == tokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexerTokens(t *testing.T) {
	toks := lexAll(t, "$boo.foo + fn(42, 'hi') ?: not true")

	kinds := make([]tokenKind, len(toks))
	texts := make([]string, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.kind
		texts[i] = tok.text
	}

	assert.Equal(t, []tokenKind{
		tokenDollarIdent, tokenPunct, tokenIdent, tokenPunct, tokenIdent,
		tokenPunct, tokenInt, tokenPunct, tokenString, tokenPunct,
		tokenPunct, tokenIdent, tokenIdent,
	}, kinds)
	assert.Equal(t, []string{
		"boo", ".", "foo", "+", "fn", "(", "42", ",", "hi", ")", "?:", "not", "true",
	}, texts)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		text  string
		kind  tokenKind
		int   int64
		float float64
	}{
		{"0", tokenInt, 0, 0},
		{"42", tokenInt, 42, 0},
		{"0x1A", tokenInt, 26, 0},
		{"3.5", tokenFloat, 0, 3.5},
		{"1.5e3", tokenFloat, 0, 1500},
		{"2e-2", tokenFloat, 0, 0.02},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			toks := lexAll(t, tc.text)
			require.Len(t, toks, 1)
			assert.Equal(t, tc.kind, toks[0].kind)
			if tc.kind == tokenInt {
				assert.Equal(t, tc.int, toks[0].intVal)
			} else {
				assert.Equal(t, tc.float, toks[0].fltVal)
			}
		})
	}
}

func TestLexerNumberStopsAtKeyAccess(t *testing.T) {
	// A '.' after a number only continues it when a digit follows, so a
	// numeric index in a data-ref chain does not swallow the next key.
	tests := []struct {
		text  string
		kinds []tokenKind
		texts []string
	}{
		{"0.foo", []tokenKind{tokenInt, tokenPunct, tokenIdent}, []string{"0", ".", "foo"}},
		{"$boo.0.foo", []tokenKind{tokenDollarIdent, tokenPunct, tokenInt, tokenPunct, tokenIdent}, []string{"boo", ".", "0", ".", "foo"}},
		{"3.5.foo", []tokenKind{tokenFloat, tokenPunct, tokenIdent}, []string{"3.5", ".", "foo"}},
		// Hex letters are only digits after a 0x prefix.
		{"26f", []tokenKind{tokenInt, tokenIdent}, []string{"26", "f"}},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			toks := lexAll(t, tc.text)
			kinds := make([]tokenKind, len(toks))
			texts := make([]string, len(toks))
			for i, tok := range toks {
				kinds[i] = tok.kind
				texts[i] = tok.text
			}
			assert.Equal(t, tc.kinds, kinds)
			assert.Equal(t, tc.texts, texts)
		})
	}
}

func TestLexerMultibyteIdent(t *testing.T) {
	toks := lexAll(t, "étage + $étage")
	require.Len(t, toks, 3)
	assert.Equal(t, tokenIdent, toks[0].kind)
	assert.Equal(t, "étage", toks[0].text)
	assert.Equal(t, tokenDollarIdent, toks[2].kind)
	assert.Equal(t, "étage", toks[2].text)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `'a\'b\\c\n\tA'`)
	require.Len(t, toks, 1)
	assert.Equal(t, tokenString, toks[0].kind)
	assert.Equal(t, "a'b\\c\n\tA", toks[0].text)
}

func TestLexerComparisonPunct(t *testing.T) {
	toks := lexAll(t, "< <= > >= == != ? ?: :")
	texts := make([]string, len(toks))
	for i, tok := range toks {
		texts[i] = tok.text
	}
	assert.Equal(t, []string{"<", "<=", ">", ">=", "==", "!=", "?", "?:", ":"}, texts)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		text string
		msg  string
	}{
		{"$", "expected identifier after '$'"},
		{"=", "unexpected character '=' (did you mean '=='?)"},
		{"!", "unexpected character '!' (did you mean '!=' or 'not'?)"},
		{"@", `unexpected character '@' in expression`},
		{"'abc", "unterminated string literal"},
		{"'a\nb'", "unterminated string literal"},
		{`'a\qb'`, `invalid escape sequence \q in string literal`},
		{`'a\u00zz'`, `invalid \u escape in string literal`},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			l := newLexer(tc.text, ir.UnknownPos("test.soy"))
			var err error
			for err == nil {
				var tok token
				tok, err = l.next()
				if err == nil && tok.kind == tokenEOF {
					t.Fatal("lexer accepted invalid input")
				}
			}
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestLexerErrorPosition(t *testing.T) {
	base := ir.SourcePos{Filename: "f.soy", Line: 3, Col: 10, Offset: 50}
	l := newLexer("$a $", base)

	tok, err := l.next()
	require.NoError(t, err)
	assert.Equal(t, tokenDollarIdent, tok.kind)

	_, err = l.next()
	require.Error(t, err)

	var pe interface{ GetPosition() ir.SourcePos }
	require.ErrorAs(t, err, &pe)
	pos := pe.GetPosition()
	assert.Equal(t, "f.soy", pos.Filename)
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 13, pos.Col)
	assert.Equal(t, 53, pos.Offset)
}
