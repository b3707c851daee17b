// Package asm16 collects the error kinds and diagnostic sink shared by every
// stage of the assembler pipeline (symtab, section, equ, operand, lexer,
// assembler, object).
package asm16

import (
	"fmt"
	"log/slog"
)

// Error is a sentinel assembler error kind, reported through a Sink and
// wrapped with context via fmt.Errorf("%w: ...", ...).
type Error error

var (
	ErrMultipleDefinition  = Error(fmt.Errorf("multiple definition"))
	ErrExternConflict      = Error(fmt.Errorf("extern conflict"))
	ErrSectionNameConflict = Error(fmt.Errorf("section name conflict"))
	ErrNotInSection        = Error(fmt.Errorf("not in section"))
	ErrSectionNameInData   = Error(fmt.Errorf("section name in data directive"))
	ErrBadImmediateDest    = Error(fmt.Errorf("immediate addressing not allowed here"))
	ErrUndefinedSymbol     = Error(fmt.Errorf("undefined symbol"))
	ErrEquInvalidExpr      = Error(fmt.Errorf("invalid equ expression"))
	ErrEquCircular         = Error(fmt.Errorf("circular or invalid equ"))
	ErrSyntax              = Error(fmt.Errorf("syntax error"))
)

func wrap(err Error, message string, args ...any) error {
	return fmt.Errorf("%w: "+message, append([]any{err}, args...)...)
}

// NewMultipleDefinition reports that name was defined more than once.
func NewMultipleDefinition(name string, line int) error {
	return wrap(ErrMultipleDefinition, "%q (line %d)", name, line)
}

// NewExternConflict reports a .extern on an already-defined local symbol.
func NewExternConflict(name string, line int) error {
	return wrap(ErrExternConflict, "%q (line %d)", name, line)
}

// NewSectionNameConflict reports a .section name colliding with a non-section symbol.
func NewSectionNameConflict(name string, line int) error {
	return wrap(ErrSectionNameConflict, "%q (line %d)", name, line)
}

// NewNotInSection reports a label or memory directive appearing outside any section.
func NewNotInSection(line int) error {
	return wrap(ErrNotInSection, "line %d", line)
}

// NewSectionNameInData reports a section name used inside .byte/.word.
func NewSectionNameInData(name string, line int) error {
	return wrap(ErrSectionNameInData, "%q (line %d)", name, line)
}

// NewBadImmediateDest reports forbidden immediate addressing (two-operand
// destination, pop, or either xchg operand).
func NewBadImmediateDest(mnemonic string, line int) error {
	return wrap(ErrBadImmediateDest, "%q (line %d)", mnemonic, line)
}

// NewUndefinedSymbol reports a non-EQU, non-EXTERN symbol that was never defined.
func NewUndefinedSymbol(name string) error {
	return wrap(ErrUndefinedSymbol, "%q", name)
}

// NewEquInvalidExpr reports an EQU whose class table fails the linearity check.
func NewEquInvalidExpr(name string) error {
	return wrap(ErrEquInvalidExpr, "%q", name)
}

// NewEquCircular reports EQU symbols that Phase P2 could not resolve.
func NewEquCircular(names []string) error {
	return wrap(ErrEquCircular, "%v", names)
}

// NewSyntaxError reports a line the Line Classifier could not recognize.
func NewSyntaxError(line int, text string) error {
	return wrap(ErrSyntax, "line %d: %q", line, text)
}

// Diagnostic is one reported condition, with enough context to locate it.
type Diagnostic struct {
	Err  error
	Line int
}

// Sink collects diagnostics as the pass runs. By default assembly continues
// after each diagnosis so later diagnostics can surface, but no object is
// emitted if the sink is non-empty.
// When Strict is set, the driving loop checks Failed() after every line and
// stops the pass at the first diagnosed error instead of collecting further
// ones.
type Sink struct {
	Logger *slog.Logger
	Strict bool
	diags  []Diagnostic
}

// NewSink creates a Sink that also logs every diagnostic through logger.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{Logger: logger}
}

// Report records a diagnostic and logs it at error level.
func (s *Sink) Report(line int, err error) {
	s.diags = append(s.diags, Diagnostic{Err: err, Line: line})
	s.Logger.Error("assembler diagnostic", "line", line, "error", err)
}

// Diagnostics returns all diagnostics reported so far, in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}

// Failed reports whether any diagnostic was raised.
func (s *Sink) Failed() bool {
	return len(s.diags) > 0
}
