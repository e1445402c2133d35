// Package scanner turns Lox source text into a stream of tokens.
package scanner

import (
	"strconv"

	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/token"
)

// Scanner tokenizes a single chunk of source text. It is single-use: create
// a new Scanner for each file or REPL line scanned.
type Scanner struct {
	src []byte
	rep *reporter.Reporter

	start   int // start of the lexeme currently being scanned
	current int // offset of the next byte to read
	line    int

	// Comments accumulates every "//" line comment skipped while scanning.
	// Populated unconditionally (it's cheap); whether to surface them is a
	// decision left to the parser/printer layer (parser.Comments mode).
	Comments []token.Comment
}

// New returns a Scanner over src that reports scan errors to rep.
func New(src []byte, rep *reporter.Reporter) *Scanner {
	return &Scanner{src: src, rep: rep, line: 1}
}

// ScanTokens scans the entire source and returns the resulting tokens,
// always terminated by a single EOF token. Errors are reported to the
// Reporter supplied to New; scanning never stops early on error.
func (s *Scanner) ScanTokens() []token.Token {
	var toks []token.Token
	for {
		tok, ok := s.scanToken()
		if ok {
			toks = append(toks, tok)
		}
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) lexeme() string { return string(s.src[s.start:s.current]) }

func (s *Scanner) make(typ token.Type) token.Token {
	return token.Token{Type: typ, Lexeme: s.lexeme(), Line: s.line}
}

// scanToken scans and returns the next token. ok is false when the token
// was skipped (whitespace, comment) or was an error that produced no token.
func (s *Scanner) scanToken() (tok token.Token, ok bool) {
	s.skipWhitespaceAndComments()
	s.start = s.current
	if s.atEnd() {
		return token.Token{Type: token.EOF, Line: s.line}, true
	}

	c := s.advance()
	switch {
	case isDigit(c):
		return s.number(), true
	case isAlpha(c):
		return s.identifier(), true
	}

	switch c {
	case '(':
		return s.make(token.LPAREN), true
	case ')':
		return s.make(token.RPAREN), true
	case '{':
		return s.make(token.LBRACE), true
	case '}':
		return s.make(token.RBRACE), true
	case ',':
		return s.make(token.COMMA), true
	case '.':
		return s.make(token.DOT), true
	case '-':
		return s.make(token.MINUS), true
	case '+':
		return s.make(token.PLUS), true
	case ';':
		return s.make(token.SEMI), true
	case '*':
		return s.make(token.STAR), true
	case '?':
		return s.make(token.QMARK), true
	case ':':
		return s.make(token.COLON), true
	case '!':
		if s.match('=') {
			return s.make(token.BANG_EQ), true
		}
		return s.make(token.BANG), true
	case '=':
		if s.match('=') {
			return s.make(token.EQ_EQ), true
		}
		return s.make(token.EQ), true
	case '<':
		if s.match('=') {
			return s.make(token.LT_EQ), true
		}
		return s.make(token.LT), true
	case '>':
		if s.match('=') {
			return s.make(token.GT_EQ), true
		}
		return s.make(token.GT), true
	case '/':
		return s.make(token.SLASH), true
	case '"':
		tok := s.string()
		return tok, tok.Type == token.STRING
	default:
		s.rep.Error(s.line, "", "Unexpected character '"+string(c)+"'.")
		return token.Token{}, false
	}
}

// skipWhitespaceAndComments consumes whitespace and "//" line comments,
// tracking line numbers and leaving s.current positioned at the start of
// the next real token (or at EOF). "/" that is not part of a "//" line
// comment is left untouched for the caller to scan as token.SLASH.
func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch c := s.peek(); c {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				start := s.current
				line := s.line
				for !s.atEnd() && s.peek() != '\n' {
					s.advance()
				}
				s.Comments = append(s.Comments, token.Comment{Line: line, Text: string(s.src[start:s.current])})
				continue
			}
			return
		default:
			return
		}
	}
}

func (s *Scanner) string() token.Token {
	startLine := s.line
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.rep.Error(startLine, "", "Unterminated string.")
		return token.Token{}
	}
	s.advance() // closing quote
	val := string(s.src[s.start+1 : s.current-1])
	return token.Token{
		Type:    token.STRING,
		Lexeme:  s.lexeme(),
		Literal: token.Literal{Str: val},
		Line:    startLine,
	}
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	lit := s.lexeme()
	v, _ := strconv.ParseFloat(lit, 64)
	return token.Token{
		Type:    token.NUMBER,
		Lexeme:  lit,
		Literal: token.Literal{Number: v},
		Line:    s.line,
	}
}

func (s *Scanner) identifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lit := s.lexeme()
	return token.Token{Type: token.Lookup(lit), Lexeme: lit, Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
