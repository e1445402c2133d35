// Package ast defines the syntax tree produced by the parser: expression
// and statement nodes, a generic Visitor for structural traversal, and a
// Printer that renders a tree for the --dump-ast/--dump-resolved CLI
// commands.
package ast

// Node is implemented by every expression and statement node.
type Node interface {
	// Line returns the source line the node starts on.
	Line() int
	// Walk visits the node's direct children, in evaluation order.
	Walk(v Visitor)
}

// Expr is implemented by every expression node. Expressions that can be the
// target of a variable binding (VariableExpr, AssignExpr, ThisExpr) are
// allocated exactly once as a pointer and that pointer's identity is used
// directly as the resolver's hop-map key — no separate id field is needed.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed chunk: an ordered list of top-level
// statements.
type Program struct {
	Stmts []Stmt
}
