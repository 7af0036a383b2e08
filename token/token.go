// Package token declares the type representing a lexical token of Lox code.
package token

import (
	"cmp"
	"fmt"

	"github.com/mattn/go-runewidth"

	"golox/ansi"
)

// Type is the type of a lexical token of Lox code.
type Type int

// The list of all token types.
const (
	Illegal Type = iota
	EOF

	// Literals
	Identifier
	String
	Number

	// Single-character tokens
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
	Break
)

var typeStrings = map[Type]string{
	Illegal:      "illegal",
	EOF:          "EOF",
	Identifier:   "identifier",
	String:       "string",
	Number:       "number",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	And:          "and",
	Class:        "class",
	Else:         "else",
	False:        "false",
	Fun:          "fun",
	For:          "for",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
	Break:        "break",
}

var keywordTypesByIdent = func() map[string]Type {
	keywords := []Type{
		And, Class, Else, False, Fun, For, If, Nil, Or,
		Print, Return, Super, This, True, Var, While, Break,
	}
	m := make(map[string]Type, len(keywords))
	for _, t := range keywords {
		m[typeStrings[t]] = t
	}
	return m
}()

// LookupIdent returns the type of the keyword with the given identifier, or Identifier if ident is not a keyword.
func LookupIdent(ident string) Type {
	if t, ok := keywordTypesByIdent[ident]; ok {
		return t
	}
	return Identifier
}

func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which formats the
// type for use in an error message.
func (t Type) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprintf(f, "'%s'", t.String())
	default:
		fmt.Fprint(f, t.String())
	}
}

// Token is a lexical token of Lox code.
type Token struct {
	Type     Type
	Lexeme   string
	Literal  any // float32 for Number, string for String, nil otherwise
	StartPos Position
	EndPos   Position
}

// Start returns the position of the first character of the token.
func (t Token) Start() Position { return t.StartPos }

// End returns the position of the character immediately after the token.
func (t Token) End() Position { return t.EndPos }

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool { return t == Token{} }

func (t Token) String() string {
	return fmt.Sprintf("%s: %q [%s]", t.StartPos, t.Lexeme, t.Type)
}

// Position is a position in a source file.
type Position struct {
	File   *File
	Line   int // 1-based line number
	Column int // 0-based byte offset from the start of the line
}

// Compare returns -1, 0 or 1 if p comes before, at, or after other, assuming both are in the same file.
func (p Position) Compare(other Position) int {
	if p.Line == other.Line {
		return cmp.Compare(p.Column, other.Column)
	}
	return cmp.Compare(p.Line, other.Line)
}

func (p Position) String() string {
	var prefix string
	if p.File != nil && p.File.name != "" {
		prefix = p.File.name + ":"
	}
	return fmt.Sprintf("%s%d:%d", prefix, p.Line, p.displayColumn())
}

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which formats the
// position for use in an error message, coloured when ansi.Enabled.
func (p Position) Format(f fmt.State, verb rune) {
	if verb != 'm' {
		fmt.Fprintf(f, fmt.FormatString(f, verb), p.String())
		return
	}
	var prefix string
	if p.File != nil && p.File.name != "" {
		prefix = ansi.Sprint("${CYAN}", p.File.name, "${DEFAULT}:")
	}
	ansi.Fprint(f, prefix, "${YELLOW}", p.Line, "${DEFAULT}:${YELLOW}", p.displayColumn(), "${DEFAULT}")
}

func (p Position) displayColumn() int {
	if p.File == nil {
		return p.Column + 1
	}
	line := p.File.Line(p.Line)
	if p.Column > len(line) {
		return runewidth.StringWidth(string(line)) + 1
	}
	return runewidth.StringWidth(string(line[:p.Column])) + 1
}

// Range describes a range of characters in the source code.
type Range interface {
	Start() Position
	End() Position
}

// File is a simple representation of a source file, used to recover source lines for error messages.
type File struct {
	name        string
	contents    []byte
	lineOffsets []int
}

// NewFile returns a new File with the given name and contents.
func NewFile(name string, contents []byte) *File {
	f := &File{name: name, contents: contents}
	f.lineOffsets = append(f.lineOffsets, 0)
	for i, b := range contents {
		if b == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// Name returns the name of the file.
func (f *File) Name() string { return f.name }

// Line returns the nth (1-based) line of the file, without its trailing newline.
func (f *File) Line(n int) []byte {
	if n < 1 || n > len(f.lineOffsets) {
		return nil
	}
	low := f.lineOffsets[n-1]
	high := len(f.contents)
	if n < len(f.lineOffsets) {
		high = f.lineOffsets[n] - 1
	}
	if high > len(f.contents) {
		high = len(f.contents)
	}
	if low > high {
		low = high
	}
	return f.contents[low:high]
}
