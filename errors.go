package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Kind names the pipeline stage that raised a diagnostic, rendered
// verbatim as spec §4.4 requires.
type Kind string

const (
	KindLexer    Kind = "Lexer Error"
	KindSyntax   Kind = "Syntax Error"
	KindSemantic Kind = "Semantic Error"
	KindRuntime  Kind = "Runtime Error"
)

// Entry is one recorded diagnostic.
type Entry struct {
	Kind    Kind
	Message string
	Loc     SourceLocation
	Hint    string
}

// Reporter is the compilation-scoped error sink described in spec
// §4.4. Unlike the source this spec was distilled from, it is not a
// process-wide singleton: callers construct one per compilation and
// thread it through the Lexer, Parser and CodeGen explicitly, which
// keeps concurrent compilations independent without any serialization
// contract (Design Note option (a)).
type Reporter struct {
	entries        []Entry
	currentFile    string
	hadError       bool
	hadRuntimeError bool
}

// NewReporter returns a fresh, empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Reset clears prior errors and both error flags.
func (r *Reporter) Reset() {
	r.entries = nil
	r.hadError = false
	r.hadRuntimeError = false
}

// SetCurrentFile associates subsequent locations with name.
func (r *Reporter) SetCurrentFile(name string) {
	r.currentFile = name
}

func (r *Reporter) append(kind Kind, line int, msg string, hint string) {
	r.entries = append(r.entries, Entry{
		Kind:    kind,
		Message: msg,
		Loc:     SourceLocation{Line: line, Filename: r.currentFile},
		Hint:    hint,
	})
	r.hadError = true
}

// LexerError records a lexical diagnostic.
func (r *Reporter) LexerError(line int, msg string, hint ...string) {
	r.append(KindLexer, line, msg, firstHint(hint))
}

// ParserError records a syntax diagnostic anchored at tok.
func (r *Reporter) ParserError(line int, tok Token, msg string, hint ...string) {
	r.append(KindSyntax, line, fmt.Sprintf("%s (near %q)", msg, tok.Lexeme), firstHint(hint))
}

// SemanticError records a diagnostic raised during IR generation.
func (r *Reporter) SemanticError(line int, msg string, hint ...string) {
	r.append(KindSemantic, line, msg, firstHint(hint))
}

// RuntimeError records a diagnostic from downstream execution. It sets
// a separate flag from the compile-time error flag, per spec §4.4.
func (r *Reporter) RuntimeError(msg string) {
	r.entries = append(r.entries, Entry{Kind: KindRuntime, Message: msg})
	r.hadRuntimeError = true
}

func firstHint(hint []string) string {
	if len(hint) == 0 {
		return ""
	}
	return hint[0]
}

// GetErrors returns all recorded entries in report order.
func (r *Reporter) GetErrors() []Entry { return r.entries }

// ErrorCount returns the number of recorded entries.
func (r *Reporter) ErrorCount() int { return len(r.entries) }

// HadError reports whether any compile-time error has been recorded.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether a runtime error has been recorded.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// PrintErrors writes every recorded entry to w, colorized when useColor
// is true.
func (r *Reporter) PrintErrors(w io.Writer, useColor bool) {
	kindColor := color.New(color.FgRed, color.Bold)
	hintColor := color.New(color.FgYellow)
	kindColor.EnableColor()
	hintColor.EnableColor()
	if !useColor {
		kindColor.DisableColor()
		hintColor.DisableColor()
	}
	for _, e := range r.entries {
		loc := ""
		if e.Loc.Line > 0 {
			loc = fmt.Sprintf(" [line %d]", e.Loc.Line)
		}
		fmt.Fprintf(w, "%s%s: %s\n", kindColor.Sprint(string(e.Kind)), loc, e.Message)
		if e.Hint != "" {
			fmt.Fprintf(w, "  %s %s\n", hintColor.Sprint("hint:"), e.Hint)
		}
	}
}
