package parser_test

import (
	"testing"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseProgram(t *testing.T, src string) (*ast.Program, *reporter.Reporter) {
	t.Helper()
	rep := reporter.New(nil)
	s := scanner.New([]byte(src), rep)
	p := parser.New(s.ScanTokens(), s.Comments, rep, parser.Mode(0))
	return p.ParseProgram(), rep
}

func TestTernaryIsRightNestedIntoElse(t *testing.T) {
	prog, rep := parseProgram(t, `a ? b : c ? d : e;`)
	require.False(t, rep.HadError())
	require.Len(t, prog.Stmts, 1)

	exprStmt := prog.Stmts[0].(*ast.ExpressionStmt)
	outer, ok := exprStmt.Expr.(*ast.TernaryExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.VariableExpr{}, outer.Cond)
	assert.IsType(t, &ast.VariableExpr{}, outer.Then)

	inner, ok := outer.Else.(*ast.TernaryExpr)
	require.True(t, ok, "Else must itself be a TernaryExpr, not a flat chain")
	assert.IsType(t, &ast.VariableExpr{}, inner.Cond)
	assert.IsType(t, &ast.VariableExpr{}, inner.Then)
	assert.IsType(t, &ast.VariableExpr{}, inner.Else)
}

func TestCommaInCallArgumentsIsASeparatorNotAnOperator(t *testing.T) {
	prog, rep := parseProgram(t, `f(a, b, c);`)
	require.False(t, rep.HadError())
	require.Len(t, prog.Stmts, 1)

	call := prog.Stmts[0].(*ast.ExpressionStmt).Expr.(*ast.CallExpr)
	assert.Len(t, call.Args, 3)
	for _, a := range call.Args {
		assert.IsType(t, &ast.VariableExpr{}, a)
	}
}

func TestTopLevelCommaIsTheCommaOperator(t *testing.T) {
	prog, rep := parseProgram(t, `a, b;`)
	require.False(t, rep.HadError())
	require.Len(t, prog.Stmts, 1)

	bin := prog.Stmts[0].(*ast.ExpressionStmt).Expr.(*ast.BinaryExpr)
	assert.Equal(t, token.COMMA, bin.Op.Type)
}

func TestInvalidAssignmentTargetIsNonFatal(t *testing.T) {
	prog, rep := parseProgram(t, `
		1 + 2 = 3;
		print "still parsed";
	`)
	assert.True(t, rep.HadError())
	require.Len(t, prog.Stmts, 2)
	printStmt, ok := prog.Stmts[1].(*ast.PrintStmt)
	require.True(t, ok, "parsing must continue past the invalid assignment target")
	lit := printStmt.Expr.(*ast.LiteralExpr)
	assert.Equal(t, "still parsed", lit.Value)
}

func TestSyntaxErrorSynchronizesAtNextStatement(t *testing.T) {
	prog, rep := parseProgram(t, `
		var = 1;
		print "recovered";
	`)
	assert.True(t, rep.HadError())
	require.Len(t, prog.Stmts, 1)
	_, ok := prog.Stmts[0].(*ast.PrintStmt)
	assert.True(t, ok)
}

func TestForLoopDesugarsToWhile(t *testing.T) {
	prog, rep := parseProgram(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	require.False(t, rep.HadError())
	require.Len(t, prog.Stmts, 1)

	block := prog.Stmts[0].(*ast.BlockStmt)
	require.Len(t, block.Stmts, 2)
	assert.IsType(t, &ast.VarStmt{}, block.Stmts[0])

	whileStmt, ok := block.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok)
	bodyBlock := whileStmt.Body.(*ast.BlockStmt)
	require.Len(t, bodyBlock.Stmts, 2)
	assert.IsType(t, &ast.PrintStmt{}, bodyBlock.Stmts[0])
	assert.IsType(t, &ast.ExpressionStmt{}, bodyBlock.Stmts[1])
}

func TestForLoopWithNoConditionDefaultsToTrue(t *testing.T) {
	prog, rep := parseProgram(t, `for (;;) print 1;`)
	require.False(t, rep.HadError())
	block := prog.Stmts[0].(*ast.BlockStmt)
	whileStmt := block.Stmts[0].(*ast.WhileStmt)
	lit := whileStmt.Cond.(*ast.LiteralExpr)
	assert.Equal(t, true, lit.Value)
}

func TestDanglingElseBindsToNearestIf(t *testing.T) {
	prog, rep := parseProgram(t, `
		if (a) if (b) print 1; else print 2;
	`)
	require.False(t, rep.HadError())
	outer := prog.Stmts[0].(*ast.IfStmt)
	assert.Nil(t, outer.Else)
	inner := outer.Then.(*ast.IfStmt)
	assert.NotNil(t, inner.Else)
}

func TestParseExpressionSucceedsOnBareExpression(t *testing.T) {
	rep := reporter.New(nil)
	s := scanner.New([]byte(`1 + 2`), rep)
	p := parser.New(s.ScanTokens(), nil, rep, parser.Mode(0))

	expr, ok := p.ParseExpression()
	require.True(t, ok)
	require.False(t, rep.HadError())
	assert.IsType(t, &ast.BinaryExpr{}, expr)
}

func TestParseExpressionFailsOnStatement(t *testing.T) {
	rep := reporter.New(nil)
	s := scanner.New([]byte(`var x = 1;`), rep)
	p := parser.New(s.ScanTokens(), nil, rep, parser.Mode(0))

	_, ok := p.ParseExpression()
	assert.False(t, ok)
	assert.False(t, rep.HadError(), "ParseExpression must not report to the Reporter on failure")
}

func TestCommentsRetainedOnlyWithCommentsMode(t *testing.T) {
	src := "// a comment\nprint 1;"
	rep := reporter.New(nil)
	s := scanner.New([]byte(src), rep)

	p := parser.New(s.ScanTokens(), s.Comments, rep, parser.Mode(0))
	assert.Empty(t, p.Comments())

	p = parser.New(s.ScanTokens(), s.Comments, rep, parser.Comments)
	assert.Len(t, p.Comments(), 1)
}
