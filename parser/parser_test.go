package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golox/ast"
	"golox/loxerr"
	"golox/parser"
)

func parse(t *testing.T, src string) ast.Program {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src), "test.lox")
	require.NoError(t, err)
	return program
}

func TestParseExpressionPrecedence(t *testing.T) {
	program := parse(t, "1 + 2 * 3;")
	require.Len(t, program.Stmts, 1)

	exprStmt, ok := program.Stmts[0].(*ast.ExpressionStmt)
	require.True(t, ok)

	add, ok := exprStmt.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op.Lexeme)

	left, ok := add.Left.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "1", left.Token.Lexeme)

	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op.Lexeme)
}

func TestParseVarDecl(t *testing.T) {
	program := parse(t, "var a = 1;")
	require.Len(t, program.Stmts, 1)

	varStmt, ok := program.Stmts[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "a", varStmt.Name.Token.Lexeme)
	require.NotNil(t, varStmt.Initialiser)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	program := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, program.Stmts, 1)

	outer, ok := program.Stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Stmts, 2)

	_, ok = outer.Stmts[0].(*ast.VarStmt)
	require.True(t, ok)

	whileStmt, ok := outer.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok)

	body, ok := whileStmt.Body.(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
}

func TestParseClassDecl(t *testing.T) {
	program := parse(t, "class C { method() { return 1; } }")
	require.Len(t, program.Stmts, 1)

	classStmt, ok := program.Stmts[0].(*ast.ClassStmt)
	require.True(t, ok)
	assert.Equal(t, "C", classStmt.Name.Token.Lexeme)
	require.Len(t, classStmt.Methods, 1)
	assert.Equal(t, "method", classStmt.Methods[0].Name.Token.Lexeme)
}

func TestParseAssignmentTargetValidation(t *testing.T) {
	_, err := parser.Parse(strings.NewReader("1 = 2;"), "test.lox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid assignment target.")
}

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing expression", "1 +;", "Expected expression."},
		{"missing class name", "class {}", "Expected class name."},
		{"missing var name", "var = 1;", "Expected variable name."},
		{"too many params", paramOverflowSrc(), "Can't have more than 255 parameters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(strings.NewReader(tt.src), "test.lox")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func paramOverflowSrc() string {
	var b strings.Builder
	b.WriteString("fun f(")
	for i := 0; i < 256; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("a")
		b.WriteString(strings.Repeat("x", i%3+1))
		b.WriteString(string(rune('0' + i%10)))
	}
	b.WriteString(") {}")
	return b.String()
}

// TestParseCollectsAllSyntaxErrors checks that the parser synchronises far enough to report every syntax error in a
// single pass, not just the first, and that the messages it collects are exactly the ones expected (compared with
// cmp.Diff).
func TestParseCollectsAllSyntaxErrors(t *testing.T) {
	_, err := parser.Parse(strings.NewReader("var ; var b = ; class {}"), "test.lox")
	require.Error(t, err)

	staticErrs, ok := err.(loxerr.StaticErrors)
	require.True(t, ok)

	var got []string
	for _, e := range staticErrs {
		got = append(got, e.Msg)
	}
	want := []string{"Expected variable name.", "Expected expression.", "Expected class name."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("collected syntax errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSynchronisesAfterError(t *testing.T) {
	program, err := parser.Parse(strings.NewReader("var ; var b = 1;"), "test.lox")
	require.Error(t, err)
	require.Len(t, program.Stmts, 2)

	varB, ok := program.Stmts[1].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "b", varB.Name.Token.Lexeme)
}
