package ast

import (
	"fmt"
	"io"
)

// Printer renders a Program as an indented textual tree, one node per line,
// for the --dump-ast and --dump-resolved CLI flags. Bindings, when non-nil,
// is consulted to annotate VariableExpr/AssignExpr/ThisExpr nodes with their
// resolved hop count (or "global" if absent), for --dump-resolved.
type Printer struct {
	Output   io.Writer
	Bindings func(e Expr) (hop int, ok bool)
}

// Print writes prog's tree to p.Output.
func (p *Printer) Print(prog *Program) error {
	pr := &printVisitor{p: p, w: p.Output}
	for _, s := range prog.Stmts {
		Walk(pr, s)
	}
	return pr.err
}

type printVisitor struct {
	p     *Printer
	w     io.Writer
	depth int
	err   error
}

func (pv *printVisitor) Visit(n Node, dir Direction) Visitor {
	if dir == Exit {
		pv.depth--
		return pv
	}
	if pv.err != nil {
		return nil
	}

	label := describe(n)
	if pv.p.Bindings != nil {
		if e, ok := n.(Expr); ok {
			if hop, ok := pv.p.Bindings(e); ok {
				label += fmt.Sprintf(" [hop=%d]", hop)
			} else if isBindingExpr(e) {
				label += " [global]"
			}
		}
	}

	_, err := fmt.Fprintf(pv.w, "%*s%s (line %d)\n", pv.depth*2, "", label, n.Line())
	if err != nil {
		pv.err = err
		return nil
	}
	pv.depth++
	return pv
}

func isBindingExpr(e Expr) bool {
	switch e.(type) {
	case *VariableExpr, *AssignExpr, *ThisExpr:
		return true
	default:
		return false
	}
}

func describe(n Node) string {
	switch n := n.(type) {
	case *LiteralExpr:
		return fmt.Sprintf("literal %#v", n.Value)
	case *GroupingExpr:
		return "grouping"
	case *UnaryExpr:
		return "unary " + n.Op.Lexeme
	case *BinaryExpr:
		return "binary " + n.Op.Lexeme
	case *LogicalExpr:
		return "logical " + n.Op.Lexeme
	case *TernaryExpr:
		return "ternary"
	case *VariableExpr:
		return "variable " + n.Name.Lexeme
	case *AssignExpr:
		return "assign " + n.Name.Lexeme
	case *CallExpr:
		return fmt.Sprintf("call (%d args)", len(n.Args))
	case *GetExpr:
		return "get " + n.Name.Lexeme
	case *SetExpr:
		return "set " + n.Name.Lexeme
	case *ThisExpr:
		return "this"
	case *ExpressionStmt:
		return "expression stmt"
	case *PrintStmt:
		return "print stmt"
	case *VarStmt:
		return "var " + n.Name.Lexeme
	case *BlockStmt:
		return "block"
	case *IfStmt:
		return "if"
	case *WhileStmt:
		return "while"
	case *FunctionDeclStmt:
		return "fun " + n.Name.Lexeme
	case *ReturnStmt:
		return "return"
	case *ClassStmt:
		return "class " + n.Name.Lexeme
	default:
		return fmt.Sprintf("%T", n)
	}
}
