// Package parser implements a recursive-descent parser with statement-
// boundary error recovery, turning a token stream into the ast package's
// node types.
package parser

import (
	"fmt"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/token"
)

// Mode is a set of bit flags that configures parsing, mirroring the
// teacher's parser.Mode bit-flag pattern.
type Mode uint

const (
	// Comments collects "//" line comments into a side table instead of
	// discarding them, for the --dump-ast --with-comments CLI output. Never
	// required for correct evaluation.
	Comments Mode = 1 << iota
)

const maxArgs = 255

// Parser turns a token slice into an AST. Create one Parser per chunk of
// source (one file, or one REPL line).
type Parser struct {
	toks []token.Token
	cur  int
	rep  *reporter.Reporter
	mode Mode

	comments []token.Comment
}

// New returns a Parser over toks (as produced by scanner.ScanTokens, always
// ending in an EOF token) that reports syntax errors to rep. comments, as
// collected by scanner.Scanner.Comments, is retained only when mode has the
// Comments bit set.
func New(toks []token.Token, comments []token.Comment, rep *reporter.Reporter, mode Mode) *Parser {
	p := &Parser{toks: toks, rep: rep, mode: mode}
	if mode&Comments != 0 {
		p.comments = comments
	}
	return p
}

// parseError is a sentinel panic value used to unwind to the nearest
// declaration() boundary on a syntax error, the same resync-via-panic/
// recover technique the standard library's go/parser uses.
type parseError struct{}

// ParseProgram parses a full program: zero or more declarations followed by
// EOF. Syntax errors are reported to the Reporter and the parser
// synchronizes at the next statement boundary, so a single malformed
// statement does not prevent the rest of the file from being parsed.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.atEnd() {
		if s := p.declarationRecovering(); s != nil {
			prog.Stmts = append(prog.Stmts, s)
		}
	}
	return prog
}

// ParseExpression attempts to parse a single expression followed by EOF,
// for the REPL's single-expression mode. It does not synchronize: on error
// it returns a nil Expr and does not report to the Reporter (the caller is
// expected to fall back to ParseProgram in that case, per the REPL's
// single-expression-mode contract).
func (p *Parser) ParseExpression() (e ast.Expr, ok bool) {
	saved := p.rep
	p.rep = reporter.New(nil)
	defer func() {
		hadErr := p.rep.HadError()
		p.rep = saved
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); isParseErr {
				e, ok = nil, false
				return
			}
			panic(r)
		}
		if hadErr {
			e, ok = nil, false
		}
	}()
	expr := p.expression()
	if !p.check(token.EOF) {
		return nil, false
	}
	return expr, true
}

// Comments returns the comments retained when Mode Comments is set, or nil
// otherwise.
func (p *Parser) Comments() []token.Comment { return p.comments }

func (p *Parser) declarationRecovering() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); isParseErr {
				p.synchronize()
				s = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDecl()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.IDENT, "Expect class name.")
	p.consume(token.LBRACE, "Expect '{' before class body.")

	var methods []*ast.FunctionDeclStmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RBRACE, "Expect '}' after class body.")
	return &ast.ClassStmt{Name: name, Methods: methods}
}

func (p *Parser) function(kind string) *ast.FunctionDeclStmt {
	name := p.consume(token.IDENT, "Expect "+kind+" name.")
	p.consume(token.LPAREN, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(token.IDENT, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")
	p.consume(token.LBRACE, "Expect '{' before "+kind+" body.")
	body := p.block()
	return &ast.FunctionDeclStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.IDENT, "Expect variable name.")
	var init ast.Expr
	if p.match(token.EQ) {
		init = p.expression()
	}
	p.consume(token.SEMI, "Expect ';' after variable declaration.")
	return &ast.VarStmt{Name: name, Initializer: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.LBRACE):
		return &ast.BlockStmt{Stmts: p.block()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.check(token.VAR):
		p.advance()
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMI) {
		cond = p.expression()
	}
	p.consume(token.SEMI, "Expect ';' after loop condition.")

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	p.consume(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()
	if incr != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{body, &ast.ExpressionStmt{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.LiteralExpr{Value: true, Tok: p.previous()}
	}
	body = &ast.WhileStmt{Cond: cond, Body: body}
	var stmts []ast.Stmt
	if initializer != nil {
		stmts = append(stmts, initializer)
	}
	return &ast.BlockStmt{Stmts: append(stmts, body)}
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LPAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RPAREN, "Expect ')' after if condition.")

	then := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseBranch}
}

func (p *Parser) printStmt() ast.Stmt {
	kw := p.previous()
	value := p.expression()
	p.consume(token.SEMI, "Expect ';' after value.")
	return &ast.PrintStmt{Keyword: kw, Expr: value}
}

func (p *Parser) returnStmt() ast.Stmt {
	kw := p.previous()
	var value ast.Expr
	if !p.check(token.SEMI) {
		value = p.expression()
	}
	p.consume(token.SEMI, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: kw, Value: value}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LPAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.WhileStmt{Cond: cond, Body: body}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		if s := p.declarationRecovering(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RBRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMI, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: expr}
}

// --- expressions, in ascending precedence ---
//
//	expression  → comma
//	comma       → ternary ( "," ternary )*
//	ternary     → assignment ( "?" assignment ":" assignment )*
//	assignment  → ( call "." IDENT | IDENT ) "=" assignment | logic_or
//	logic_or    → logic_and ( "or"  logic_and )*
//	logic_and   → equality  ( "and" equality )*
//	equality    → comparison ( ("==" | "!=") comparison )*
//	comparison  → term ( ("<" | "<=" | ">" | ">=") term )*
//	term        → factor ( ("-" | "+") factor )*
//	factor      → unary ( ("/" | "*") unary )*
//	unary       → ("-" | "!") unary | call
//	call        → primary ( "(" arguments? ")" | "." IDENT )*
//	arguments   → ternary ( "," ternary )*
//	primary     → NUMBER | STRING | "true" | "false" | "nil" | "this"
//	            | IDENT | "(" expression ")"

func (p *Parser) expression() ast.Expr { return p.comma() }

func (p *Parser) comma() ast.Expr {
	expr := p.ternary()
	for p.match(token.COMMA) {
		op := p.previous()
		right := p.ternary()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) ternary() ast.Expr {
	cond := p.assignment()
	if !p.check(token.QMARK) {
		return cond
	}

	var qmarks, colons []token.Token
	var thens, elses []ast.Expr
	for p.match(token.QMARK) {
		qmarks = append(qmarks, p.previous())
		thens = append(thens, p.assignment())
		colons = append(colons, p.consume(token.COLON, "Expect ':' in ternary expression."))
		elses = append(elses, p.assignment())
		if !p.check(token.QMARK) {
			break
		}
	}

	result := elses[len(elses)-1]
	for i := len(thens) - 1; i >= 0; i-- {
		c := cond
		if i > 0 {
			c = elses[i-1]
		}
		result = &ast.TernaryExpr{Cond: c, Then: thens[i], Else: result, QMark: qmarks[i], Colon: colons[i]}
	}
	return result
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.EQ) {
		equals := p.previous()
		value := p.assignment()

		switch e := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: e.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: e.Object, Name: e.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
		}
	}
	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQ, token.EQ_EQ) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GT, token.GT_EQ, token.LT, token.LT_EQ) {
		op := p.previous()
		right := p.term()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.UnaryExpr{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENT, "Expect property name after '.'.")
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			// arguments parse via ternary, not expression, so a top-level comma
			// inside a call is an argument separator, never the comma operator.
			args = append(args, p.ternary())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RPAREN, "Expect ')' after arguments.")
	return &ast.CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.LiteralExpr{Value: false, Tok: p.previous()}
	case p.match(token.TRUE):
		return &ast.LiteralExpr{Value: true, Tok: p.previous()}
	case p.match(token.NIL):
		return &ast.LiteralExpr{Value: nil, Tok: p.previous()}
	case p.match(token.NUMBER):
		tok := p.previous()
		return &ast.LiteralExpr{Value: tok.Literal.Number, Tok: tok}
	case p.match(token.STRING):
		tok := p.previous()
		return &ast.LiteralExpr{Value: tok.Literal.Str, Tok: tok}
	case p.match(token.THIS):
		return &ast.ThisExpr{Keyword: p.previous()}
	case p.match(token.IDENT):
		return &ast.VariableExpr{Name: p.previous()}
	case p.match(token.LPAREN):
		lparen := p.previous()
		expr := p.expression()
		p.consume(token.RPAREN, "Expect ')' after expression.")
		return &ast.GroupingExpr{Expr: expr, LParen: lparen}
	default:
		panic(p.errorAt(p.peek(), "Expect expression."))
	}
}

// --- token stream helpers ---

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	if p.atEnd() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) peek() token.Token { return p.toks[p.cur] }

func (p *Parser) previous() token.Token { return p.toks[p.cur-1] }

func (p *Parser) consume(t token.Type, msg string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), msg))
}

// errorAt reports a syntax error at tok and returns a parseError for the
// caller to panic with when the error is fatal to the current production
// (consume, primary); callers that can continue parsing after a non-fatal
// diagnostic (invalid assignment target, too many params/args) just report
// and fall through.
func (p *Parser) errorAt(tok token.Token, msg string) parseError {
	where := " at '" + tok.Lexeme + "'"
	if tok.Type == token.EOF {
		where = " at end"
	}
	p.rep.Error(tok.Line, where, msg)
	return parseError{}
}

// synchronize discards tokens until a statement boundary: just past a
// semicolon, or at the start of a token that begins a new declaration or
// statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == token.SEMI {
			return
		}
		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
