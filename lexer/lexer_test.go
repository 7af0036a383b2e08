package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golox/lexer"
	"golox/token"
)

func tokenTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	lex, err := lexer.New(strings.NewReader(src), "test.lox")
	require.NoError(t, err)

	var types []token.Type
	for {
		tok := lex.Next()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			return types
		}
	}
}

func TestLexerTokenTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Type
	}{
		{
			name: "operators",
			src:  "+ - * / == != <= >=",
			want: []token.Type{
				token.Plus, token.Minus, token.Star, token.Slash,
				token.EqualEqual, token.BangEqual, token.LessEqual, token.GreaterEqual,
				token.EOF,
			},
		},
		{
			name: "keywords and identifier",
			src:  "var class fun foo",
			want: []token.Type{token.Var, token.Class, token.Fun, token.Identifier, token.EOF},
		},
		{
			name: "string literal",
			src:  `"hello"`,
			want: []token.Type{token.String, token.EOF},
		},
		{
			name: "number literal",
			src:  "123.45",
			want: []token.Type{token.Number, token.EOF},
		},
		{
			name: "line comment is skipped",
			src:  "1 // a comment\n2",
			want: []token.Type{token.Number, token.Number, token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(t, tt.src))
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	lex, err := lexer.New(strings.NewReader(`"abc" 42`), "test.lox")
	require.NoError(t, err)

	str := lex.Next()
	require.Equal(t, token.String, str.Type)
	assert.Equal(t, "abc", str.Literal)

	num := lex.Next()
	require.Equal(t, token.Number, num.Type)
	assert.Equal(t, float32(42), num.Literal)
}

func TestLexerReportsIllegalCharacter(t *testing.T) {
	lex, err := lexer.New(strings.NewReader("@"), "test.lox")
	require.NoError(t, err)

	var gotMsg string
	lex.SetErrorHandler(func(_ token.Token, msg string) { gotMsg = msg })

	tok := lex.Next()
	assert.Equal(t, token.Illegal, tok.Type)
	assert.NotEmpty(t, gotMsg)
}
