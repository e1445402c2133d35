package scanner_test

import (
	"testing"

	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, *reporter.Reporter) {
	t.Helper()
	rep := reporter.New(nil)
	s := scanner.New([]byte(src), rep)
	return s.ScanTokens(), rep
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, rep := scanAll(t, `(){},.-+;/*?:!!====<<=>>=`)
	require.False(t, rep.HadError())

	want := []token.Type{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.MINUS, token.PLUS, token.SEMI, token.SLASH, token.STAR,
		token.QMARK, token.COLON, token.BANG, token.BANG_EQ, token.EQ_EQ,
		token.EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w, toks[i].Type, "token %d", i)
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, rep := scanAll(t, `"hello, world"`)
	require.False(t, rep.HadError())
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "hello, world", toks[0].Literal.Str)
}

func TestScanUnterminatedString(t *testing.T) {
	_, rep := scanAll(t, `"unterminated`)
	assert.True(t, rep.HadError())
}

func TestScanNumberLiteral(t *testing.T) {
	toks, rep := scanAll(t, `123 45.67`)
	require.False(t, rep.HadError())
	require.Len(t, toks, 3)
	assert.Equal(t, 123.0, toks[0].Literal.Number)
	assert.Equal(t, 45.67, toks[1].Literal.Number)
}

func TestScanTrailingDotIsNotPartOfNumber(t *testing.T) {
	// "123." has no digit after the dot, so the dot is its own token.
	toks, rep := scanAll(t, `123.`)
	require.False(t, rep.HadError())
	require.Len(t, toks, 3)
	assert.Equal(t, token.NUMBER, toks[0].Type)
	assert.Equal(t, token.DOT, toks[1].Type)
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, rep := scanAll(t, `var foo = class`)
	require.False(t, rep.HadError())
	require.Len(t, toks, 5)
	assert.Equal(t, token.VAR, toks[0].Type)
	assert.Equal(t, token.IDENT, toks[1].Type)
	assert.Equal(t, "foo", toks[1].Lexeme)
	assert.Equal(t, token.EQ, toks[2].Type)
	assert.Equal(t, token.CLASS, toks[3].Type)
}

func TestScanLineCommentsAreSkippedButRecorded(t *testing.T) {
	src := "var x = 1; // a trailing remark\nvar y = 2;"
	rep := reporter.New(nil)
	s := scanner.New([]byte(src), rep)
	toks := s.ScanTokens()
	require.False(t, rep.HadError())

	for _, tok := range toks {
		assert.NotContains(t, tok.Lexeme, "//")
	}
	require.Len(t, s.Comments, 1)
	assert.Equal(t, 1, s.Comments[0].Line)
	assert.Contains(t, s.Comments[0].Text, "a trailing remark")
}

func TestScanTracksLineNumbersAcrossNewlines(t *testing.T) {
	toks, rep := scanAll(t, "var x\n= 1\n;")
	require.False(t, rep.HadError())
	// var(1) x(1) =(2) 1(2) ;(3) EOF(3)
	require.Len(t, toks, 6)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 3, toks[4].Line)
}

func TestScanUnexpectedCharacterReportsAndSkips(t *testing.T) {
	toks, rep := scanAll(t, "@")
	assert.True(t, rep.HadError())
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Type)
}
