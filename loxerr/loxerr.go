// Package loxerr defines the error types produced by each phase of the interpreter pipeline.
//
// Static errors (from the lexer, parser, or resolver) format as:
//
//	[line 1] Error at 'x': message
//
// Runtime errors (from the evaluator) format as:
//
//	message
//	[line 1]
//
// When stdout and stderr are both terminals (ansi.Enabled), either format is followed by a highlighted snippet of the
// offending source; otherwise the message is exactly as above, so the line a runtime error applies to can be
// recovered from the end of its message.
package loxerr

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"golox/ansi"
	"golox/token"
)

// StaticError describes an error found before any statement has been executed: a lexical, syntax, or resolution
// error.
type StaticError struct {
	Msg   string
	Where string // e.g. "at end" or "at 'foo'"
	Start token.Position
	End   token.Position
}

// NewStaticError creates a *StaticError positioned at tok, formatted from format and args as in fmt.Sprintf.
func NewStaticError(tok token.Token, format string, args ...any) *StaticError {
	where := "at end"
	if tok.Type != token.EOF {
		where = fmt.Sprintf("at '%s'", tok.Lexeme)
	}
	return &StaticError{
		Msg:   fmt.Sprintf(format, args...),
		Where: where,
		Start: tok.Start(),
		End:   tok.End(),
	}
}

// Error formats e as:
//
//	[line 1] Error at 'x': message
//
// followed by a highlighted source snippet, if the source is available and ansi.Enabled.
func (e *StaticError) Error() string {
	var b strings.Builder
	ansi.Fprintf(&b, "[line %d] ${BOLD}${RED}Error${DEFAULT} %s: %s${RESET_BOLD}", e.Start.Line, e.Where, e.Msg)
	if snippet := highlight(e.Start, e.End); snippet != "" {
		fmt.Fprint(&b, "\n", snippet)
	}
	return b.String()
}

// StaticErrors is a list of *StaticErrors.
type StaticErrors []*StaticError

// Add appends a *StaticError built from tok, format, and args.
func (e *StaticErrors) Add(tok token.Token, format string, args ...any) {
	*e = append(*e, NewStaticError(tok, format, args...))
}

// Sort sorts the errors by their start position.
func (e StaticErrors) Sort() {
	slices.SortFunc(e, func(e1, e2 *StaticError) int {
		return e1.Start.Compare(e2.Start)
	})
}

// Error concatenates the messages of every error in e, one per line, after sorting them by start position.
func (e StaticErrors) Error() string {
	e.Sort()
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns e unchanged if it's non-empty, otherwise nil. Use this to return a StaticErrors value as an error so
// that it becomes an untyped nil when empty.
func (e StaticErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// RuntimeError describes an error raised while evaluating a program: a type mismatch, an undefined name, a bad call,
// and so on.
type RuntimeError struct {
	Msg   string
	Start token.Position
	End   token.Position
}

// NewRuntimeError creates a *RuntimeError positioned at tok, formatted from format and args as in fmt.Sprintf.
func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...), Start: tok.Start(), End: tok.End()}
}

// Error formats e as:
//
//	message
//	[line 1]
//
// followed by a highlighted source snippet, if the source is available and ansi.Enabled.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s\n[line %d]", e.Msg, e.Start.Line)
	if snippet := highlight(e.Start, e.End); snippet != "" {
		msg += "\n" + snippet
	}
	return msg
}

// highlight renders the source line(s) spanned by [start, end) with that range underlined, for display on a
// terminal. It returns the empty string if ansi.Enabled is false, or if the source isn't available or isn't valid
// UTF-8.
func highlight(start, end token.Position) string {
	if !ansi.Enabled || start.File == nil {
		return ""
	}

	lines := make([]string, end.Line-start.Line+1)
	for i := start.Line; i <= end.Line; i++ {
		line := start.File.Line(i)
		if !utf8.Valid(line) {
			return ""
		}
		lines[i-start.Line] = string(line)
	}

	var b strings.Builder
	printLine := func(line string) { ansi.Fprint(&b, "${FAINT}", line, "${RESET_BOLD}\n") }
	printHighlight := func(line string, col, endCol int) {
		col = min(col, len(line))
		endCol = min(endCol, len(line))
		if endCol <= col {
			return
		}
		leading := strings.Repeat(" ", runewidth.StringWidth(line[:col]))
		tildes := strings.Repeat("~", runewidth.StringWidth(line[col:endCol]))
		ansi.Fprint(&b, leading, "${FAINT}${RED}", tildes, "${DEFAULT}${RESET_BOLD}\n")
	}

	printLine(lines[0])
	if start == end {
		return strings.TrimSuffix(b.String(), "\n")
	}
	if len(lines) == 1 {
		printHighlight(lines[0], start.Column, end.Column)
	} else {
		printHighlight(lines[0], start.Column, len(lines[0]))
		for _, line := range lines[1 : len(lines)-1] {
			printLine(line)
			printHighlight(line, 0, len(line))
		}
		if last := lines[len(lines)-1]; len(last) > 0 {
			printLine(last)
			printHighlight(last, 0, end.Column)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
