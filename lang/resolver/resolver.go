// Package resolver implements the static variable-resolution pass: for
// every variable/assignment/this use, it computes how many enclosing
// scopes to skip to find the binding (the "hop count"), and flags a set of
// static errors the tree-walking interpreter should never have to check
// for at run time.
package resolver

import (
	"github.com/dolthub/swiss"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/token"
)

// Mode is a set of bit flags configuring the resolver, mirroring the
// teacher's resolver.Mode bit-flag pattern.
type Mode uint

const (
	// Strict enables the redeclaration-in-the-same-local-scope diagnostic.
	// The CLI always sets it; the REPL's single-expression mode (which never
	// declares anything) does not need it and leaves it unset.
	Strict Mode = 1 << iota
)

type functionKind int

const (
	noFunction functionKind = iota
	inFunction
	inMethod
	inInitializer
)

type classKind int

const (
	noClass classKind = iota
	inClass
)

type scope map[string]bool // name -> defined?

// Bindings is the hop-count map the resolver produces and the Interpreter
// consumes, keyed by the pointer identity of the Expr node (VariableExpr,
// AssignExpr or ThisExpr). It is an explicit value threaded from resolver
// to interpreter — never a global — so a REPL session can re-resolve a new
// line without disturbing bindings already baked into earlier closures.
type Bindings struct {
	hops *swiss.Map[ast.Expr, int]
}

// Lookup returns the hop count resolved for e, or (0, false) if e was never
// resolved to a local binding (the interpreter falls back to dynamic
// global lookup in that case).
func (b *Bindings) Lookup(e ast.Expr) (int, bool) {
	if b == nil || b.hops == nil {
		return 0, false
	}
	return b.hops.Get(e)
}

type resolver struct {
	rep  *reporter.Reporter
	mode Mode

	scopes  []scope
	hops    *swiss.Map[ast.Expr, int]
	curFn   functionKind
	curCls  classKind
}

// Resolve walks prog and returns the Bindings the Interpreter should use.
// Static errors are reported to rep; the compile-error flag on rep is set
// exactly as it is for scan/parse errors, so the caller can decide to skip
// interpretation per the error handling design.
//
// If into is non-nil, new hop counts are added to it in place rather than
// starting a fresh map — this is what lets a persistent REPL session
// re-resolve each new line without invalidating the hop counts already
// baked into closures created by earlier lines.
func Resolve(prog *ast.Program, rep *reporter.Reporter, mode Mode, into *Bindings) *Bindings {
	hops := into
	if hops == nil {
		hops = &Bindings{hops: swiss.NewMap[ast.Expr, int](16)}
	}
	r := &resolver{rep: rep, mode: mode, hops: hops.hops}
	r.resolveStmts(prog.Stmts)
	return hops
}

func (r *resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return // global scope: re-declaration is allowed
	}
	sc := r.scopes[len(r.scopes)-1]
	if r.mode&Strict != 0 {
		if _, ok := sc[name.Lexeme]; ok {
			r.rep.Error(name.Line, " at '"+name.Lexeme+"'", "Already a variable with this name in this scope.")
		}
	}
	sc[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.hops.Put(expr, len(r.scopes)-1-i)
			return
		}
	}
	// not found in any scope: treated as global, nothing recorded
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)
	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case *ast.FunctionDeclStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, inFunction)
	case *ast.ReturnStmt:
		if r.curFn == noFunction {
			r.rep.Error(s.Keyword.Line, " at 'return'", "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.curFn == inInitializer {
				r.rep.Error(s.Keyword.Line, " at 'return'", "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.ClassStmt:
		r.resolveClass(s)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *resolver) resolveFunction(fn *ast.FunctionDeclStmt, kind functionKind) {
	enclosingFn := r.curFn
	r.curFn = kind
	defer func() { r.curFn = enclosingFn }()

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *resolver) resolveClass(c *ast.ClassStmt) {
	enclosingCls := r.curCls
	r.curCls = inClass
	defer func() { r.curCls = enclosingCls }()

	r.declare(c.Name)
	r.define(c.Name)

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, m := range c.Methods {
		kind := inMethod
		if m.Name.Lexeme == "init" {
			kind = inInitializer
		}
		r.resolveFunction(m, kind)
	}
	r.endScope()
}

func (r *resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		// no sub-expressions, no bindings
	case *ast.GroupingExpr:
		r.resolveExpr(e.Expr)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Right)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.TernaryExpr:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.rep.Error(e.Name.Line, " at '"+e.Name.Lexeme+"'", "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.GetExpr:
		r.resolveExpr(e.Object)
	case *ast.SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.ThisExpr:
		if r.curCls == noClass {
			r.rep.Error(e.Keyword.Line, " at 'this'", "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	default:
		panic("resolver: unhandled expression type")
	}
}
