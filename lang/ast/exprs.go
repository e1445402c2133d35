package ast

import "github.com/mna/lox/lang/token"

type (
	// LiteralExpr is a number, string, boolean or nil literal. Value holds
	// the already-parsed Go value: float64, string, bool, or nil.
	LiteralExpr struct {
		Value interface{}
		Tok   token.Token
	}

	// GroupingExpr is a parenthesized expression.
	GroupingExpr struct {
		Expr  Expr
		LParen token.Token
	}

	// UnaryExpr is a prefix "-" or "!" expression.
	UnaryExpr struct {
		Op    token.Token
		Right Expr
	}

	// BinaryExpr is a left-associative binary operator expression, including
	// the comma operator.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// LogicalExpr is a short-circuiting "and"/"or" expression.
	LogicalExpr struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// TernaryExpr is a "cond ? then : else" expression. Chained ternaries are
	// right-nested into Else by the parser.
	TernaryExpr struct {
		Cond, Then, Else Expr
		QMark, Colon     token.Token
	}

	// VariableExpr reads a variable by name. Its pointer identity is the hop
	// map key the resolver assigns a binding to.
	VariableExpr struct {
		Name token.Token
	}

	// AssignExpr assigns a value to a variable. Its pointer identity is the
	// hop map key the resolver assigns a binding to.
	AssignExpr struct {
		Name  token.Token
		Value Expr
	}

	// CallExpr is a function or method call.
	CallExpr struct {
		Callee Expr
		Paren  token.Token // used for error reporting (line of the call)
		Args   []Expr
	}

	// GetExpr reads a property or bound method off an instance.
	GetExpr struct {
		Object Expr
		Name   token.Token
	}

	// SetExpr assigns a field on an instance.
	SetExpr struct {
		Object Expr
		Name   token.Token
		Value  Expr
	}

	// ThisExpr is a "this" reference inside a method. Its pointer identity is
	// the hop map key the resolver assigns a binding to.
	ThisExpr struct {
		Keyword token.Token
	}
)

func (e *LiteralExpr) exprNode()  {}
func (e *GroupingExpr) exprNode() {}
func (e *UnaryExpr) exprNode()    {}
func (e *BinaryExpr) exprNode()   {}
func (e *LogicalExpr) exprNode()  {}
func (e *TernaryExpr) exprNode()  {}
func (e *VariableExpr) exprNode() {}
func (e *AssignExpr) exprNode()   {}
func (e *CallExpr) exprNode()     {}
func (e *GetExpr) exprNode()      {}
func (e *SetExpr) exprNode()      {}
func (e *ThisExpr) exprNode()     {}

func (e *LiteralExpr) Line() int  { return e.Tok.Line }
func (e *GroupingExpr) Line() int { return e.LParen.Line }
func (e *UnaryExpr) Line() int    { return e.Op.Line }
func (e *BinaryExpr) Line() int   { return e.Op.Line }
func (e *LogicalExpr) Line() int  { return e.Op.Line }
func (e *TernaryExpr) Line() int  { return e.QMark.Line }
func (e *VariableExpr) Line() int { return e.Name.Line }
func (e *AssignExpr) Line() int   { return e.Name.Line }
func (e *CallExpr) Line() int     { return e.Paren.Line }
func (e *GetExpr) Line() int      { return e.Name.Line }
func (e *SetExpr) Line() int      { return e.Name.Line }
func (e *ThisExpr) Line() int     { return e.Keyword.Line }

func (e *LiteralExpr) Walk(v Visitor) {}
func (e *GroupingExpr) Walk(v Visitor) {
	Walk(v, e.Expr)
}
func (e *UnaryExpr) Walk(v Visitor) {
	Walk(v, e.Right)
}
func (e *BinaryExpr) Walk(v Visitor) {
	Walk(v, e.Left)
	Walk(v, e.Right)
}
func (e *LogicalExpr) Walk(v Visitor) {
	Walk(v, e.Left)
	Walk(v, e.Right)
}
func (e *TernaryExpr) Walk(v Visitor) {
	Walk(v, e.Cond)
	Walk(v, e.Then)
	Walk(v, e.Else)
}
func (e *VariableExpr) Walk(v Visitor) {}
func (e *AssignExpr) Walk(v Visitor) {
	Walk(v, e.Value)
}
func (e *CallExpr) Walk(v Visitor) {
	Walk(v, e.Callee)
	for _, a := range e.Args {
		Walk(v, a)
	}
}
func (e *GetExpr) Walk(v Visitor) {
	Walk(v, e.Object)
}
func (e *SetExpr) Walk(v Visitor) {
	Walk(v, e.Object)
	Walk(v, e.Value)
}
func (e *ThisExpr) Walk(v Visitor) {}
