// Package maincmd wires the lang packages into a runnable command-line
// tool: run a script file, or drop into an interactive REPL when no file
// is given.
package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "lox"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<script>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<script>]
       %[1]s -h|--help
       %[1]s -v|--version

Tree-walking interpreter for the Lox programming language.

With no <script>, starts an interactive REPL. With one <script>, runs it
and exits with a status reflecting whether it reported any error.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --dump-tokens             Print the scanned tokens instead of running.
       --dump-ast                Print the parsed syntax tree instead of running.
       --dump-resolved           Print the syntax tree annotated with
                                 resolved variable hop counts instead of
                                 running.
       --with-comments           Include "//" line comments in --dump-ast
                                 or --dump-resolved output.
       --no-color                Disable colored diagnostic output.
`, binName)
)

// Cmd is the CLI entry point, its exported fields bound to flags by
// mainer.Parser's struct-tag reflection.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	DumpTokens   bool `flag:"dump-tokens"`
	DumpAST      bool `flag:"dump-ast"`
	DumpResolved bool `flag:"dump-resolved"`
	WithComments bool `flag:"with-comments"`
	NoColor      bool `flag:"no-color"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

// Validate enforces the CLI's positional-argument contract: zero files
// starts the REPL, one file runs it, more than one is a usage error. At
// most one of the three dump flags may be set, and a dump flag requires
// a file — the REPL has no dump mode of its own.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("usage: %s [<option>...] [<script>]", binName)
	}
	dumpCount := 0
	for _, b := range []bool{c.DumpTokens, c.DumpAST, c.DumpResolved} {
		if b {
			dumpCount++
		}
	}
	if dumpCount > 1 {
		return fmt.Errorf("--dump-tokens, --dump-ast and --dump-resolved are mutually exclusive")
	}
	if dumpCount > 0 && len(c.args) == 0 {
		return fmt.Errorf("--dump-tokens, --dump-ast and --dump-resolved require a <script> argument")
	}
	if c.WithComments && !c.DumpAST && !c.DumpResolved {
		return fmt.Errorf("--with-comments requires --dump-ast or --dump-resolved")
	}
	return nil
}

// Main is the full CLI entry point, mirroring the teacher's flag-parse,
// validate, dispatch, exit-code shape.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsageError
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if len(c.args) == 0 {
		return c.runREPL(ctx, stdio)
	}
	return c.runFile(stdio, c.args[0])
}
