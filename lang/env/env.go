// Package env implements the chain of lexical environments the interpreter
// threads through statement and expression evaluation.
package env

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/types"
)

// uninitializedType is a sentinel Value stored for a variable that has been
// declared but not yet given a value (e.g. "var x;"). It is never returned
// to interpreted code: Get and GetAt translate it into a distinct runtime
// error.
type uninitializedType struct{}

func (uninitializedType) String() string { return "uninitialized" }
func (uninitializedType) Type() string   { return "uninitialized" }

var uninitialized types.Value = uninitializedType{}

// RuntimeError is returned by Get/Assign/GetAt/AssignAt on a binding
// failure. Tok is the offending identifier token, used to report the
// source line.
type RuntimeError struct {
	Tok token.Token
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }
func (e *RuntimeError) Line() int     { return e.Tok.Line }

// Environment is one frame of the lexical environment chain: a mapping from
// variable name to value-or-uninitialized, plus an optional parent link. A
// nil Enclosing marks the root (globals) environment.
type Environment struct {
	Enclosing *Environment
	vars      *swiss.Map[string, types.Value]
}

// New returns a fresh environment whose parent is enclosing (nil for the
// root globals environment).
func New(enclosing *Environment) *Environment {
	return &Environment{Enclosing: enclosing, vars: swiss.NewMap[string, types.Value](8)}
}

// Define binds name to value in this environment, overwriting any existing
// binding of the same name — re-declaration at this level always succeeds
// (this simplifies REPL re-definition, and matches var's allowed-at-global-
// scope redeclaration rule; the resolver is what rejects illegal local
// redeclarations before this ever runs).
func (e *Environment) Define(name string, value types.Value) {
	e.vars.Put(name, value)
}

// DefineUninitialized declares name in this environment without giving it a
// value yet, per "var x;" with no initializer.
func (e *Environment) DefineUninitialized(name string) {
	e.vars.Put(name, uninitialized)
}

// Get looks up name by walking the environment chain from this environment
// to the root. It fails if the name is undefined anywhere in the chain, or
// if it is declared but not yet initialized.
func (e *Environment) Get(name token.Token) (types.Value, error) {
	for env := e; env != nil; env = env.Enclosing {
		if v, ok := env.vars.Get(name.Lexeme); ok {
			if _, isUninit := v.(uninitializedType); isUninit {
				return nil, &RuntimeError{Tok: name, Msg: "Variable '" + name.Lexeme + "' is not initialized."}
			}
			return v, nil
		}
	}
	return nil, &RuntimeError{Tok: name, Msg: "Undefined variable '" + name.Lexeme + "'."}
}

// Assign walks the environment chain from this environment to the root and
// assigns value to the first existing binding of name. It fails if name is
// undefined anywhere in the chain.
func (e *Environment) Assign(name token.Token, value types.Value) error {
	for env := e; env != nil; env = env.Enclosing {
		if _, ok := env.vars.Get(name.Lexeme); ok {
			env.vars.Put(name.Lexeme, value)
			return nil
		}
	}
	return &RuntimeError{Tok: name, Msg: "Undefined variable '" + name.Lexeme + "'."}
}

// ancestor walks exactly hop links up the chain, without searching.
func (e *Environment) ancestor(hop int) *Environment {
	env := e
	for i := 0; i < hop; i++ {
		env = env.Enclosing
	}
	return env
}

// GetAt reads name directly from the environment hop links above this one,
// as resolved by the resolver's hop count. It panics if hop walks past the
// root, which would indicate a resolver/interpreter contract bug, not a
// user-facing error.
func (e *Environment) GetAt(hop int, name token.Token) (types.Value, error) {
	env := e.ancestor(hop)
	if env == nil {
		panic(fmt.Sprintf("env: GetAt(%d) walked past the root environment", hop))
	}
	v, ok := env.vars.Get(name.Lexeme)
	if !ok {
		return nil, &RuntimeError{Tok: name, Msg: "Undefined variable '" + name.Lexeme + "'."}
	}
	if _, isUninit := v.(uninitializedType); isUninit {
		return nil, &RuntimeError{Tok: name, Msg: "Variable '" + name.Lexeme + "' is not initialized."}
	}
	return v, nil
}

// GetAtName is like GetAt but takes a plain name instead of a token, for
// looking up "this" at hop 0 from a closure environment (the interpreter's
// init-always-returns-the-instance rule).
func (e *Environment) GetAtName(hop int, name string) (types.Value, bool) {
	env := e.ancestor(hop)
	if env == nil {
		return nil, false
	}
	v, ok := env.vars.Get(name)
	return v, ok
}

// AssignAt assigns value directly at the environment hop links above this
// one, as resolved by the resolver's hop count.
func (e *Environment) AssignAt(hop int, name token.Token, value types.Value) error {
	env := e.ancestor(hop)
	if env == nil {
		panic(fmt.Sprintf("env: AssignAt(%d) walked past the root environment", hop))
	}
	env.vars.Put(name.Lexeme, value)
	return nil
}
