package maincmd

import (
	"fmt"
	"io"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
)

// scan tokenizes src, reporting errors to rep.
func scan(src []byte, rep *reporter.Reporter) ([]token.Token, []token.Comment) {
	sc := scanner.New(src, rep)
	toks := sc.ScanTokens()
	return toks, sc.Comments
}

// parseMode returns the parser.Mode matching the CLI's --with-comments flag.
func (c *Cmd) parseMode() parser.Mode {
	var m parser.Mode
	if c.WithComments {
		m |= parser.Comments
	}
	return m
}

// resolverMode returns the resolver.Mode used for a whole-file run: Strict
// is always on outside the REPL's single-expression mode, which declares
// nothing and so has no same-scope redeclaration to flag.
func resolverMode() resolver.Mode {
	return resolver.Strict
}

func dumpTokens(w io.Writer, toks []token.Token) {
	for _, t := range toks {
		if t.Type == token.EOF {
			continue
		}
		if t.Type == token.NUMBER || t.Type == token.STRING {
			fmt.Fprintf(w, "%s %q %v (line %d)\n", t.Type, t.Lexeme, literalOf(t), t.Line)
			continue
		}
		fmt.Fprintf(w, "%s %q (line %d)\n", t.Type, t.Lexeme, t.Line)
	}
}

func literalOf(t token.Token) any {
	if t.Type == token.NUMBER {
		return t.Literal.Number
	}
	return t.Literal.Str
}

func dumpAST(w io.Writer, prog *ast.Program) error {
	p := &ast.Printer{Output: w}
	return p.Print(prog)
}

func dumpResolved(w io.Writer, prog *ast.Program, bindings *resolver.Bindings) error {
	p := &ast.Printer{Output: w, Bindings: bindings.Lookup}
	return p.Print(prog)
}
