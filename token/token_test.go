package token_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"golox/token"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  token.Type
	}{
		{"class", token.Class},
		{"break", token.Break},
		{"while", token.While},
		{"nope", token.Identifier},
		{"", token.Identifier},
	}
	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, token.LookupIdent(tt.ident))
		})
	}
}

func TestTypeFormat(t *testing.T) {
	assert.Equal(t, "if", fmt.Sprintf("%s", token.If))
	assert.Equal(t, "'if'", fmt.Sprintf("%m", token.If))
}

func TestPositionCompare(t *testing.T) {
	earlier := token.Position{Line: 1, Column: 5}
	later := token.Position{Line: 2, Column: 0}
	sameLine := token.Position{Line: 1, Column: 9}

	assert.Equal(t, -1, earlier.Compare(later))
	assert.Equal(t, 1, later.Compare(earlier))
	assert.Equal(t, -1, earlier.Compare(sameLine))
	assert.Equal(t, 0, earlier.Compare(earlier))
}

func TestFileLine(t *testing.T) {
	f := token.NewFile("test.lox", []byte("var a = 1;\nprint a;\n"))
	assert.Equal(t, "var a = 1;", string(f.Line(1)))
	assert.Equal(t, "print a;", string(f.Line(2)))
	assert.Equal(t, "", string(f.Line(3)))
	assert.Nil(t, f.Line(4))
	assert.Nil(t, f.Line(0))
}

func TestTokenIsZero(t *testing.T) {
	assert.True(t, token.Token{}.IsZero())
	assert.False(t, token.Token{Type: token.EOF}.IsZero())
}
