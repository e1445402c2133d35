package interp

import (
	"fmt"
	"io"
	"time"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/env"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/types"
)

// Interpreter walks a resolved program and executes it. It is long-lived
// across a REPL session: Globals and the current environment persist from
// one call to Run to the next, so a function or variable defined on one
// line is visible on the next.
type Interpreter struct {
	Globals     *env.Environment
	environment *env.Environment
	bindings    *resolver.Bindings
	rep         *reporter.Reporter
	out         io.Writer
	now         func() float64
}

// New returns an Interpreter that writes Print output to out and reports
// run-time errors to rep. now is the clock backing the clock() native
// function; a nil now defaults to the wall clock, in seconds. Tests inject a
// deterministic now to make clock()'s output reproducible.
func New(rep *reporter.Reporter, out io.Writer, now func() float64) *Interpreter {
	if now == nil {
		now = func() float64 { return float64(time.Now().UnixNano()) / 1e9 }
	}
	globals := env.New(nil)
	in := &Interpreter{Globals: globals, environment: globals, rep: rep, out: out, now: now}
	globals.Define("clock", &Native{
		NameStr: "clock",
		ArityN:  0,
		Fn: func(in *Interpreter, args []types.Value) (types.Value, error) {
			return types.Number(in.now()), nil
		},
	})
	return in
}

// SetBindings installs the hop-count map the resolver produced for the
// program about to be run. It must be called before Run; a REPL driver
// calls it once per line, passing the same accumulating Bindings returned
// by resolver.Resolve each time.
func (in *Interpreter) SetBindings(b *resolver.Bindings) {
	in.bindings = b
}

// Stringify renders v the way Print and the REPL's expression echo do. It
// exists mainly to have one place that tolerates a Go nil interface value
// (which should never happen in well-formed code, but would otherwise panic
// deep in a %s verb rather than surfacing a clear bug).
func Stringify(v types.Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}

// Run executes every statement in prog against the interpreter's persistent
// global/current environment, stopping at the first run-time error (which
// it reports to rep and returns).
func (in *Interpreter) Run(prog *ast.Program) error {
	for _, stmt := range prog.Stmts {
		if err := in.exec(stmt); err != nil {
			in.reportRuntimeError(err)
			return err
		}
	}
	return nil
}

// RunExpression evaluates a single expression (the REPL's no-trailing-
// semicolon mode) and returns its value without printing anything.
func (in *Interpreter) RunExpression(expr ast.Expr) (types.Value, error) {
	v, err := in.eval(expr)
	if err != nil {
		in.reportRuntimeError(err)
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) reportRuntimeError(err error) {
	type lineErr interface {
		error
		Line() int
	}
	if le, ok := err.(lineErr); ok {
		in.rep.RuntimeError(le.Line(), le.Error())
		return
	}
	in.rep.RuntimeError(0, err.Error())
}

func (in *Interpreter) exec(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := in.eval(s.Expr)
		return err

	case *ast.PrintStmt:
		v, err := in.eval(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, Stringify(v))
		return nil

	case *ast.VarStmt:
		if s.Initializer == nil {
			in.environment.DefineUninitialized(s.Name.Lexeme)
			return nil
		}
		v, err := in.eval(s.Initializer)
		if err != nil {
			return err
		}
		in.environment.Define(s.Name.Lexeme, v)
		return nil

	case *ast.BlockStmt:
		return in.executeBlock(s.Stmts, env.New(in.environment))

	case *ast.IfStmt:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return err
		}
		if types.Truthy(cond) {
			return in.exec(s.Then)
		}
		if s.Else != nil {
			return in.exec(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.eval(s.Cond)
			if err != nil {
				return err
			}
			if !types.Truthy(cond) {
				return nil
			}
			if err := in.exec(s.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionDeclStmt:
		fn := &Function{Decl: s, Closure: in.environment}
		in.environment.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.ReturnStmt:
		var v types.Value = types.Nil
		if s.Value != nil {
			var err error
			v, err = in.eval(s.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{Value: v}

	case *ast.ClassStmt:
		methods := make(map[string]*Function, len(s.Methods))
		for _, m := range s.Methods {
			methods[m.Name.Lexeme] = &Function{
				Decl:          m,
				Closure:       in.environment,
				IsInitializer: m.Name.Lexeme == "init",
			}
		}
		class := &Class{NameStr: s.Name.Lexeme, Methods: methods}
		in.environment.Define(s.Name.Lexeme, class)
		return nil

	default:
		panic("interp: unhandled statement type")
	}
}

// executeBlock runs stmts against blockEnv, restoring the interpreter's
// previous current environment on the way out (including when a statement
// returns an error or a non-local return signal), so a function call never
// leaks its call frame into the caller's environment.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, blockEnv *env.Environment) error {
	prev := in.environment
	in.environment = blockEnv
	defer func() { in.environment = prev }()

	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) eval(expr ast.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return literalValue(e.Value), nil

	case *ast.GroupingExpr:
		return in.eval(e.Expr)

	case *ast.UnaryExpr:
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op.Type {
		case token.BANG:
			return types.Bool(!types.Truthy(right)), nil
		case token.MINUS:
			n, ok := right.(types.Number)
			if !ok {
				return nil, runtimeErrorf(e.Op, "Operand must be a number.")
			}
			return -n, nil
		}
		panic("interp: unhandled unary operator")

	case *ast.BinaryExpr:
		left, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return in.evalBinary(e.Op, left, right)

	case *ast.LogicalExpr:
		left, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Type == token.OR {
			if types.Truthy(left) {
				return left, nil
			}
		} else { // AND
			if !types.Truthy(left) {
				return left, nil
			}
		}
		return in.eval(e.Right)

	case *ast.TernaryExpr:
		cond, err := in.eval(e.Cond)
		if err != nil {
			return nil, err
		}
		if types.Truthy(cond) {
			return in.eval(e.Then)
		}
		return in.eval(e.Else)

	case *ast.VariableExpr:
		return in.lookupVariable(e.Name, e)

	case *ast.AssignExpr:
		v, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if hop, ok := in.bindings.Lookup(e); ok {
			if err := in.environment.AssignAt(hop, e.Name, v); err != nil {
				return nil, err
			}
		} else if err := in.Globals.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.CallExpr:
		callee, err := in.eval(e.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]types.Value, len(e.Args))
		for i, a := range e.Args {
			v, err := in.eval(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		fn, ok := callee.(Callable)
		if !ok {
			return nil, runtimeErrorf(e.Paren, "Can only call functions and classes.")
		}
		if len(args) != fn.Arity() {
			return nil, runtimeErrorf(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
		}
		return fn.Call(in, args)

	case *ast.GetExpr:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, runtimeErrorf(e.Name, "Only instances have properties.")
		}
		return inst.Get(e.Name)

	case *ast.SetExpr:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, runtimeErrorf(e.Name, "Only instances have fields.")
		}
		v, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(e.Name, v)
		return v, nil

	case *ast.ThisExpr:
		return in.lookupVariable(e.Keyword, e)

	default:
		panic("interp: unhandled expression type")
	}
}

// lookupVariable resolves name either via the resolver's hop count for node
// (a *ast.VariableExpr or *ast.ThisExpr), or, if node was never resolved to
// a local, by dynamic lookup in Globals — the same fallback the resolver's
// design note describes for top-level/global references.
func (in *Interpreter) lookupVariable(name token.Token, node ast.Expr) (types.Value, error) {
	if hop, ok := in.bindings.Lookup(node); ok {
		return in.environment.GetAt(hop, name)
	}
	return in.Globals.Get(name)
}

func (in *Interpreter) evalBinary(op token.Token, left, right types.Value) (types.Value, error) {
	switch op.Type {
	case token.PLUS:
		ln, lok := left.(types.Number)
		rn, rok := right.(types.Number)
		if lok && rok {
			return ln + rn, nil
		}
		ls, lok := left.(types.Str)
		rs, rok := right.(types.Str)
		if lok && rok {
			return ls + rs, nil
		}
		return nil, runtimeErrorf(op, "Operands must be two numbers or two strings.")
	case token.MINUS:
		ln, rn, err := bothNumbers(op, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.STAR:
		ln, rn, err := bothNumbers(op, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.SLASH:
		ln, rn, err := bothNumbers(op, left, right)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case token.GT:
		ln, rn, err := bothNumbers(op, left, right)
		if err != nil {
			return nil, err
		}
		return types.Bool(ln > rn), nil
	case token.GT_EQ:
		ln, rn, err := bothNumbers(op, left, right)
		if err != nil {
			return nil, err
		}
		return types.Bool(ln >= rn), nil
	case token.LT:
		ln, rn, err := bothNumbers(op, left, right)
		if err != nil {
			return nil, err
		}
		return types.Bool(ln < rn), nil
	case token.LT_EQ:
		ln, rn, err := bothNumbers(op, left, right)
		if err != nil {
			return nil, err
		}
		return types.Bool(ln <= rn), nil
	case token.EQ_EQ:
		return types.Bool(types.Equal(left, right)), nil
	case token.BANG_EQ:
		return types.Bool(!types.Equal(left, right)), nil
	case token.COMMA:
		return right, nil
	}
	panic("interp: unhandled binary operator")
}

// literalValue converts the untyped Go value a LiteralExpr carries (from
// the scanner/parser's token.Literal) into the Value the interpreter
// operates on.
func literalValue(v interface{}) types.Value {
	switch v := v.(type) {
	case nil:
		return types.Nil
	case bool:
		return types.Bool(v)
	case float64:
		return types.Number(v)
	case string:
		return types.Str(v)
	default:
		panic("interp: literal of unexpected Go type")
	}
}

func bothNumbers(op token.Token, left, right types.Value) (types.Number, types.Number, error) {
	ln, lok := left.(types.Number)
	rn, rok := right.(types.Number)
	if !lok || !rok {
		return 0, 0, runtimeErrorf(op, "Operands must be numbers.")
	}
	return ln, rn, nil
}
