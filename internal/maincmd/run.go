package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/mainer"
)

// Exit codes follow the convention the language's reference tooling has
// used since its earliest form: 64 for a usage error (bad arguments, or a
// script that cannot be read), 65 for a static (scan/parse/resolve) error,
// 70 for an uncaught runtime error, 0 otherwise.
const (
	exitDataErr    = mainer.ExitCode(65)
	exitSoftware   = mainer.ExitCode(70)
	exitUsageError = mainer.ExitCode(64)
)

func (c *Cmd) runFile(stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return exitUsageError
	}

	rep := reporter.New(stdio.Stderr)
	rep.NoColor = c.NoColor
	toks, comments := scan(src, rep)

	if c.DumpTokens {
		dumpTokens(stdio.Stdout, toks)
		return exitFromReporter(rep)
	}

	p := parser.New(toks, comments, rep, c.parseMode())
	prog := p.ParseProgram()
	if c.DumpAST {
		if err := dumpAST(stdio.Stdout, prog); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return exitSoftware
		}
		for _, cm := range p.Comments() {
			fmt.Fprintf(stdio.Stdout, "comment %q (line %d)\n", cm.Text, cm.Line)
		}
		return exitFromReporter(rep)
	}
	if rep.HadError() {
		return exitDataErr
	}

	bindings := resolver.Resolve(prog, rep, resolverMode(), nil)
	if c.DumpResolved {
		if err := dumpResolved(stdio.Stdout, prog, bindings); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return exitSoftware
		}
		for _, cm := range p.Comments() {
			fmt.Fprintf(stdio.Stdout, "comment %q (line %d)\n", cm.Text, cm.Line)
		}
		return exitFromReporter(rep)
	}
	if rep.HadError() {
		return exitDataErr
	}

	in := interp.New(rep, stdio.Stdout, nil)
	in.SetBindings(bindings)
	if err := in.Run(prog); err != nil {
		return exitSoftware
	}
	return mainer.Success
}

func exitFromReporter(rep *reporter.Reporter) mainer.ExitCode {
	if rep.HadError() {
		return exitDataErr
	}
	return mainer.Success
}
