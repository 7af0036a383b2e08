// Package lexer converts Lox source code into a sequence of lexical tokens.
package lexer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golox/token"
)

const eof = -1

// ErrorHandler is the function which handles syntax errors encountered during lexing.
// It's passed the offending token and a message describing the error.
type ErrorHandler func(tok token.Token, msg string)

// Lexer converts Lox source code into lexical tokens.
// Tokens are read from the lexer using the Next method.
// Syntax errors are handled by calling the error handler function which can be set using SetErrorHandler. The
// default error handler is a no-op.
type Lexer struct {
	src        []byte
	errHandler ErrorHandler

	ch           rune
	pos          token.Position
	readOffset   int
	lastReadSize int
}

// New constructs a Lexer which will lex the source code read from r, associating positions with the given filename.
func New(r io.Reader, filename string) (*Lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("constructing lexer: %s", err)
	}
	l := &Lexer{
		src:        src,
		errHandler: func(token.Token, string) {},
		pos: token.Position{
			File:   token.NewFile(filename, src),
			Line:   1,
			Column: 0,
		},
	}
	l.next()
	return l, nil
}

// SetErrorHandler sets the error handler function which is called when a syntax error is encountered.
func (l *Lexer) SetErrorHandler(errHandler ErrorHandler) {
	l.errHandler = errHandler
}

// Next returns the next token. An EOF token is returned if the end of the source code has been reached.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()

	tok := token.Token{StartPos: l.pos}

	switch {
	case l.ch == eof:
		tok.Type = token.EOF
	case l.ch == '(':
		tok.Type = token.LeftParen
	case l.ch == ')':
		tok.Type = token.RightParen
	case l.ch == '{':
		tok.Type = token.LeftBrace
	case l.ch == '}':
		tok.Type = token.RightBrace
	case l.ch == ',':
		tok.Type = token.Comma
	case l.ch == '.':
		tok.Type = token.Dot
	case l.ch == '-':
		tok.Type = token.Minus
	case l.ch == '+':
		tok.Type = token.Plus
	case l.ch == ';':
		tok.Type = token.Semicolon
	case l.ch == '*':
		tok.Type = token.Star
	case l.ch == '/':
		tok.Type = token.Slash
	case l.ch == '!':
		tok.Type = token.Bang
		if l.peek() == '=' {
			l.next()
			tok.Type = token.BangEqual
		}
	case l.ch == '=':
		tok.Type = token.Equal
		if l.peek() == '=' {
			l.next()
			tok.Type = token.EqualEqual
		}
	case l.ch == '<':
		tok.Type = token.Less
		if l.peek() == '=' {
			l.next()
			tok.Type = token.LessEqual
		}
	case l.ch == '>':
		tok.Type = token.Greater
		if l.peek() == '=' {
			l.next()
			tok.Type = token.GreaterEqual
		}
	case l.ch == '"':
		lexeme, terminated := l.consumeString()
		tok.EndPos = l.pos
		if !terminated {
			tok.Type = token.Illegal
			tok.Lexeme = lexeme
			l.errHandler(tok, "unterminated string literal")
			return tok
		}
		tok.Type = token.String
		tok.Lexeme = lexeme
		tok.Literal = lexeme[1 : len(lexeme)-1] // strip surrounding quotes
		return tok
	case isDigit(l.ch):
		lexeme := l.consumeNumber()
		tok.EndPos = l.pos
		tok.Type = token.Number
		tok.Lexeme = lexeme
		value, err := strconv.ParseFloat(lexeme, 32)
		if err != nil {
			panic(fmt.Sprintf("unexpected error parsing number literal %q: %s", lexeme, err))
		}
		tok.Literal = float32(value)
		return tok
	case isAlpha(l.ch):
		ident := l.consumeIdent()
		tok.EndPos = l.pos
		tok.Type = token.LookupIdent(ident)
		tok.Lexeme = ident
		return tok
	default:
		ch := l.ch
		l.next()
		tok.EndPos = l.pos
		tok.Type = token.Illegal
		tok.Lexeme = string(ch)
		l.errHandler(tok, fmt.Sprintf("unexpected character %q", ch))
		return tok
	}

	l.next()
	tok.EndPos = l.pos
	tok.Lexeme = tok.Type.String()

	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(l.ch):
			l.next()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != '\n' && l.ch != eof {
				l.next()
			}
		default:
			return
		}
	}
}

func (l *Lexer) consumeNumber() string {
	var b strings.Builder
	for isDigit(l.ch) {
		b.WriteRune(l.ch)
		l.next()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		b.WriteRune(l.ch)
		l.next()
		for isDigit(l.ch) {
			b.WriteRune(l.ch)
			l.next()
		}
	}
	return b.String()
}

// consumeString consumes a string literal including its surrounding quotes. It returns the full lexeme (with quotes)
// and whether the string was properly terminated.
func (l *Lexer) consumeString() (lexeme string, terminated bool) {
	var b strings.Builder
	b.WriteRune(l.ch) // opening quote
	l.next()
	for {
		if l.ch == eof {
			return b.String(), false
		}
		ch := l.ch
		b.WriteRune(ch)
		l.next()
		if ch == '"' {
			return b.String(), true
		}
	}
}

func (l *Lexer) consumeIdent() string {
	var b strings.Builder
	for isAlphaNumeric(l.ch) {
		b.WriteRune(l.ch)
		l.next()
	}
	return b.String()
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\r', '\t', '\n':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isAlphaNumeric(r rune) bool { return isAlpha(r) || isDigit(r) }

// next reads the next character into l.ch and advances the lexer.
// If the end of the source code has been reached, l.ch is set to eof.
func (l *Lexer) next() {
	if l.ch == eof {
		return
	}

	if l.ch == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column += l.lastReadSize
	}

	if l.readOffset >= len(l.src) {
		l.ch = eof
		return
	}

	r, size := utf8.DecodeRune(l.src[l.readOffset:])
	l.lastReadSize = size
	l.readOffset += size
	l.ch = r
}

// peek returns the next character without advancing the lexer. If the end of the source code has been reached, eof
// is returned.
func (l *Lexer) peek() rune {
	if l.readOffset >= len(l.src) {
		return eof
	}
	return rune(l.src[l.readOffset])
}
