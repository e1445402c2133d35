package interp

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/env"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/types"
)

// RuntimeError is raised for every run-time failure: wrong operand types,
// undefined property, calling a non-callable value, wrong arity. Tok
// carries the source line to report.
type RuntimeError struct {
	Tok token.Token
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }
func (e *RuntimeError) Line() int     { return e.Tok.Line }

func runtimeErrorf(tok token.Token, format string, args ...any) error {
	return &RuntimeError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

// Callable is implemented by every value that can appear as the callee of
// a call expression: native functions, user functions and classes.
type Callable interface {
	types.Value
	Arity() int
	Call(in *Interpreter, args []types.Value) (types.Value, error)
}

// Native is a built-in function implemented in Go, such as clock().
type Native struct {
	NameStr string
	ArityN  int
	Fn      func(in *Interpreter, args []types.Value) (types.Value, error)
}

var _ Callable = (*Native)(nil)

func (n *Native) String() string { return "<native fn " + n.NameStr + ">" }
func (n *Native) Type() string   { return "native function" }
func (n *Native) Arity() int     { return n.ArityN }
func (n *Native) Call(in *Interpreter, args []types.Value) (types.Value, error) {
	return n.Fn(in, args)
}

// returnSignal is how Return statements unwind to the nearest enclosing
// function call without disturbing arbitrarily many nested blocks/loops/
// ifs in between — the non-local control-flow signal the design notes call
// for, implemented as an error value rather than a host exception, since Go
// has no built-in non-local-exit primitive that composes more simply here.
type returnSignal struct {
	Value types.Value
}

func (r *returnSignal) Error() string { return "return outside of a function call" }

// Function is a user-defined function or method, pairing its declaration
// with the environment captured at the point of declaration (its closure).
type Function struct {
	Decl          *ast.FunctionDeclStmt
	Closure       *env.Environment
	IsInitializer bool
}

var _ Callable = (*Function)(nil)

func (f *Function) String() string { return "<fn " + f.Decl.Name.Lexeme + ">" }
func (f *Function) Type() string   { return "function" }
func (f *Function) Arity() int     { return len(f.Decl.Params) }

func (f *Function) Call(in *Interpreter, args []types.Value) (types.Value, error) {
	callEnv := env.New(f.Closure)
	for i, p := range f.Decl.Params {
		callEnv.Define(p.Lexeme, args[i])
	}

	err := in.executeBlock(f.Decl.Body, callEnv)
	if f.IsInitializer {
		if err != nil {
			if _, ok := err.(*returnSignal); !ok {
				return nil, err
			}
		}
		this, _ := f.Closure.GetAtName(0, "this")
		return this, nil
	}
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return ret.Value, nil
		}
		return nil, err
	}
	return types.Nil, nil
}

// Bind returns a copy of f whose closure additionally binds "this" to
// instance, the mechanism by which Get on an instance yields a bound
// method.
func (f *Function) Bind(instance *Instance) *Function {
	boundEnv := env.New(f.Closure)
	boundEnv.Define("this", instance)
	return &Function{Decl: f.Decl, Closure: boundEnv, IsInitializer: f.IsInitializer}
}

// Class is a Lox class: a name and a method table. Calling it constructs a
// new Instance and runs init, if present.
type Class struct {
	NameStr string
	Methods map[string]*Function
}

var _ Callable = (*Class)(nil)

func (c *Class) String() string { return c.NameStr }
func (c *Class) Type() string   { return "class" }

func (c *Class) FindMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(in *Interpreter, args []types.Value) (types.Value, error) {
	inst := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Instance is an instance of a Lox class. Fields are created on first
// assignment; a field read that misses falls back to the class's method
// table, bound to this instance.
type Instance struct {
	Class  *Class
	Fields *swiss.Map[string, types.Value]
}

func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Fields: swiss.NewMap[string, types.Value](4)}
}

func (i *Instance) String() string { return i.Class.NameStr + " instance" }
func (i *Instance) Type() string   { return "instance" }

func (i *Instance) Get(name token.Token) (types.Value, error) {
	if v, ok := i.Fields.Get(name.Lexeme); ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(name.Lexeme); ok {
		return m.Bind(i), nil
	}
	return nil, runtimeErrorf(name, "Undefined property '%s'.", name.Lexeme)
}

func (i *Instance) Set(name token.Token, value types.Value) {
	i.Fields.Put(name.Lexeme, value)
}
