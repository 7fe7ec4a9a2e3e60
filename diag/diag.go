package diag

import (
	"fmt"
	"io"
	"os"
)

// Severity ranks a diagnostic. Order matters: anything >= Error latches
// the engine and fails the build.
type Severity int

const (
	Note Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal error"
	default:
		return "unknown"
	}
}

// Kind buckets a diagnostic by the taxonomy in spec.md §7. It does not
// affect severity; a Kind can be reported at any Severity.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
	IO
	InvalidFormat
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case IO:
		return "io"
	case InvalidFormat:
		return "invalid-format"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported message.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Location Location
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Engine collects diagnostics in the order they are reported (it does
// not sort them by source position) and latches once
// any Severity >= Error has been recorded. It never panics; every report
// method is a plain append.
type Engine struct {
	diagnostics []Diagnostic
	latched     bool
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) Report(sev Severity, kind Kind, message string, loc Location) {
	e.diagnostics = append(e.diagnostics, Diagnostic{
		Severity: sev,
		Kind:     kind,
		Message:  message,
		Location: loc,
	})
	if sev >= Error {
		e.latched = true
	}
}

func (e *Engine) Note(kind Kind, message string, loc Location) {
	e.Report(Note, kind, message, loc)
}

func (e *Engine) Warning(kind Kind, message string, loc Location) {
	e.Report(Warning, kind, message, loc)
}

func (e *Engine) Error(kind Kind, message string, loc Location) {
	e.Report(Error, kind, message, loc)
}

func (e *Engine) Fatal(kind Kind, message string, loc Location) {
	e.Report(Fatal, kind, message, loc)
}

// HasDiagnostics reports whether anything has been recorded at all.
func (e *Engine) HasDiagnostics() bool {
	return len(e.diagnostics) > 0
}

// Latched reports whether a diagnostic of Severity >= Error was recorded.
// A parse that latches must not emit a Module (spec.md §7, §8 invariant 6).
func (e *Engine) Latched() bool {
	return e.latched
}

// Diagnostics returns the diagnostics recorded so far, in report order.
func (e *Engine) Diagnostics() []Diagnostic {
	return e.diagnostics
}

// Clear discards all recorded diagnostics and resets the latch.
func (e *Engine) Clear() {
	e.diagnostics = nil
	e.latched = false
}

// Print writes every diagnostic as one line, routing Note/Warning to out
// and Error/Fatal to errOut, per spec.md §7's user-visible format.
func (e *Engine) Print(out, errOut io.Writer) {
	for _, d := range e.diagnostics {
		dst := out
		if d.Severity >= Error {
			dst = errOut
		}
		fmt.Fprintln(dst, d.String())
	}
}

// PrintDefault calls Print with os.Stdout and os.Stderr.
func (e *Engine) PrintDefault() {
	e.Print(os.Stdout, os.Stderr)
}
