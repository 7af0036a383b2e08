// Package ansi implements formatting of output text using ANSI escape sequences by wrapping the [fmt] package.
//
// Format strings (or string arguments to functions which don't accept a format string) can contain placeholders of
// the form ${NAME}, where NAME is the name of an ANSI code. The placeholder is replaced with the corresponding ANSI
// escape sequence in the output, or with nothing at all if Enabled is false.
//
// The following ANSI codes are supported: RESET, BOLD, FAINT, RESET_BOLD, RED, YELLOW, CYAN, DEFAULT.
package ansi

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ansiCodes = map[string]int{
	"RESET":      0,
	"BOLD":       1,
	"FAINT":      2,
	"RESET_BOLD": 22,
	"RED":        31,
	"YELLOW":     33,
	"CYAN":       36,
	"DEFAULT":    39,
}

// Enabled determines whether ANSI escape sequences will be output by the functions in this package.
// It's true only when stdout and stderr are both connected to a terminal.
var Enabled = term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))

var ansiReplacer, emptyReplacer = func() (*strings.Replacer, *strings.Replacer) {
	var ansiOldnew, emptyOldnew []string
	for name, code := range ansiCodes {
		ansiOldnew = append(ansiOldnew, fmt.Sprintf("${%s}", name), fmt.Sprintf("\x1b[%dm", code))
		emptyOldnew = append(emptyOldnew, fmt.Sprintf("${%s}", name), "")
	}
	return strings.NewReplacer(ansiOldnew...), strings.NewReplacer(emptyOldnew...)
}()

func replace(s string) string {
	if Enabled {
		return ansiReplacer.Replace(s)
	}
	return emptyReplacer.Replace(s)
}

func replaceArgs(a []any) []any {
	for i, arg := range a {
		if s, ok := arg.(string); ok {
			a[i] = replace(s)
		}
	}
	return a
}

// Fprintf formats according to a format specifier, replaces ${NAME} placeholders, and writes to w.
func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return fmt.Fprint(w, replace(fmt.Sprintf(format, a...)))
}

// Sprintf formats according to a format specifier, replaces ${NAME} placeholders, and returns the result.
func Sprintf(format string, a ...any) string {
	return replace(fmt.Sprintf(format, a...))
}

// Fprint formats using the default formats for its operands, replaces ${NAME} placeholders in string operands, and
// writes to w.
func Fprint(w io.Writer, a ...any) (int, error) {
	return fmt.Fprint(w, replaceArgs(a)...)
}

// Sprint formats using the default formats for its operands, replaces ${NAME} placeholders in string operands, and
// returns the result.
func Sprint(a ...any) string {
	return fmt.Sprint(replaceArgs(a)...)
}

// Fprintln is like Fprint but appends a newline.
func Fprintln(w io.Writer, a ...any) (int, error) {
	return fmt.Fprintln(w, replaceArgs(a)...)
}
