// Package reporter implements the diagnostics sink shared by every stage of
// the pipeline (scanner, parser, resolver, interpreter). It is intentionally
// not built on top of go/scanner.ErrorList: that stdlib type formats errors
// as "file:line:col: msg", which does not match the wire format this
// language's tooling expects ("[line L] Error<where>: <msg>" for compile
// errors, "<msg>\n[line L]" for runtime errors).
package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Diagnostic is a single reported problem, either at compile time (scan,
// parse or resolve) or at runtime.
type Diagnostic struct {
	Line    int
	Where   string // "" | " at end" | " at 'LEX'" — unused for runtime errors
	Message string
	Runtime bool
}

func (d Diagnostic) String() string {
	if d.Runtime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Reporter accumulates diagnostics produced while processing one chunk of
// source (one file, or one REPL line) and tracks whether any compile-time
// or runtime error has been seen, mirroring the compile-error / runtime-
// error flags from the error handling design.
type Reporter struct {
	Output io.Writer

	// NoColor disables ANSI coloring of diagnostics written to Output,
	// overriding the terminal-detection default color.NoColor normally
	// applies. Set by the CLI's --no-color flag.
	NoColor bool

	diags         []Diagnostic
	hadError      bool
	hadRuntimeErr bool
}

// New returns a Reporter that writes formatted diagnostics to w.
func New(w io.Writer) *Reporter {
	return &Reporter{Output: w}
}

var errColor = color.New(color.FgRed, color.Bold)

func (r *Reporter) colorize(s string) string {
	if r.NoColor || color.NoColor {
		return s
	}
	return errColor.Sprint(s)
}

// Error reports a compile-time error (scan, parse or resolve) at the given
// line. where is "" for scanner errors, " at end" at EOF, or " at 'LEX'"
// otherwise, per the diagnostic format.
func (r *Reporter) Error(line int, where, message string) {
	r.report(Diagnostic{Line: line, Where: where, Message: message})
	r.hadError = true
}

// RuntimeError reports a runtime error at the given line.
func (r *Reporter) RuntimeError(line int, message string) {
	r.report(Diagnostic{Line: line, Message: message, Runtime: true})
	r.hadRuntimeErr = true
}

func (r *Reporter) report(d Diagnostic) {
	r.diags = append(r.diags, d)
	if r.Output != nil {
		fmt.Fprintln(r.Output, r.colorize(d.String()))
	}
}

// HadError reports whether Error has been called since the Reporter was
// created or last Reset.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether RuntimeError has been called since the
// Reporter was created or last Reset.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeErr }

// Diagnostics returns the accumulated diagnostics, sorted by line.
func (r *Reporter) Diagnostics() []Diagnostic {
	sorted := make([]Diagnostic, len(r.diags))
	copy(sorted, r.diags)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })
	return sorted
}

// Reset clears accumulated diagnostics and error flags, ready for a new
// chunk of source — used by the REPL, which gives each input line its own
// diagnostics sink.
func (r *Reporter) Reset() {
	r.diags = r.diags[:0]
	r.hadError = false
	r.hadRuntimeErr = false
}

// Join renders every accumulated diagnostic, one per line.
func (r *Reporter) Join() string {
	var sb strings.Builder
	for _, d := range r.Diagnostics() {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
