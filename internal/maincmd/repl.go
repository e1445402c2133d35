package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/mna/lox/internal/config"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/mainer"
)

// lineReader is the minimal surface runREPL needs, satisfied by both
// *readline.Instance (interactive sessions, with history and line editing)
// and a plain bufio.Scanner wrapper (piped stdin, e.g. in tests and
// scripted input).
type lineReader interface {
	Readline() (string, error)
}

type scannerLineReader struct{ s *bufio.Scanner }

func (r scannerLineReader) Readline() (string, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

// runREPL drives an interactive line-at-a-time session: each line gets its
// own Reporter (so one bad line's diagnostics never bleed into the next),
// but the Interpreter, its global environment, and the resolver's Bindings
// persist across lines, so a function or variable defined on one line is
// visible on the next. An empty line ends the session.
func (c *Cmd) runREPL(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	cfg := config.Default()
	if path := config.DefaultPath(); path != "" {
		if loaded, err := config.Load(path); err == nil {
			cfg = loaded
		}
	}

	interactive := isInteractive(stdio.Stdin)
	if interactive && !cfg.REPL.NoBanner {
		fmt.Fprintln(stdio.Stdout, "lox REPL — empty line to exit")
	}

	lr, closeLR := c.newLineReader(stdio, cfg, interactive)
	if closeLR != nil {
		defer closeLR()
	}

	noColor := c.NoColor || cfg.REPL.NoColor
	inRep := reporter.New(stdio.Stderr)
	inRep.NoColor = noColor
	in := interp.New(inRep, stdio.Stdout, nil)
	var bindings *resolver.Bindings

	for {
		if ctx.Err() != nil {
			return mainer.Success
		}
		line, err := lr.Readline()
		if err != nil || line == "" {
			return mainer.Success
		}

		rep := reporter.New(stdio.Stderr)
		rep.NoColor = noColor
		bindings = c.evalLine(in, rep, bindings, line, stdio.Stdout)
	}
}

// newLineReader picks readline for an interactive terminal (giving history
// and basic line editing) and a plain scanner otherwise — piping a script
// into stdin, or running under a test harness, never wants readline's
// terminal control codes.
func (c *Cmd) newLineReader(stdio mainer.Stdio, cfg config.Config, interactive bool) (lineReader, func()) {
	if !interactive {
		return scannerLineReader{s: bufio.NewScanner(stdio.Stdin)}, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.REPL.Prompt,
		Stdin:           io.NopCloser(stdio.Stdin),
		Stdout:          stdio.Stdout,
		Stderr:          stdio.Stderr,
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		// readline needs a real terminal underneath; fall back rather than fail
		// the whole session if it can't attach to one.
		return scannerLineReader{s: bufio.NewScanner(stdio.Stdin)}, nil
	}
	return rl, func() { rl.Close() }
}

// evalLine tokenizes, parses, resolves and runs a single REPL line, printing
// the value of a bare expression the way an interactive session is expected
// to. It returns the (possibly newly extended) Bindings to carry into the
// next line.
func (c *Cmd) evalLine(in *interp.Interpreter, rep *reporter.Reporter, bindings *resolver.Bindings, line string, out io.Writer) *resolver.Bindings {
	toks, comments := scan([]byte(line), rep)

	// Try the no-trailing-semicolon single-expression shortcut first: if the
	// whole line parses as one expression followed by EOF, evaluate and
	// print it without requiring a "print" statement or a ";" terminator.
	exprParser := parser.New(toks, comments, rep, c.parseMode())
	if expr, ok := exprParser.ParseExpression(); ok {
		exprProg := &ast.Program{Stmts: []ast.Stmt{&ast.ExpressionStmt{Expr: expr}}}
		bindings = resolver.Resolve(exprProg, rep, resolver.Mode(0), bindings)
		if rep.HadError() {
			return bindings
		}
		in.SetBindings(bindings)
		if v, err := in.RunExpression(expr); err == nil {
			fmt.Fprintln(out, interp.Stringify(v))
		}
		return bindings
	}

	p := parser.New(toks, comments, rep, c.parseMode())
	prog := p.ParseProgram()
	if rep.HadError() {
		return bindings
	}
	bindings = resolver.Resolve(prog, rep, resolver.Strict, bindings)
	if rep.HadError() {
		return bindings
	}
	in.SetBindings(bindings)
	_ = in.Run(prog)
	return bindings
}

func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
