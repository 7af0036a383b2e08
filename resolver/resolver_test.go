package resolver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golox/ast"
	"golox/parser"
	"golox/resolver"
)

func resolve(t *testing.T, src string) (ast.Program, resolver.ResolutionMap, error) {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src), "test.lox")
	require.NoError(t, err)
	distances, err := resolver.Resolve(program)
	return program, distances, err
}

func TestResolveLocalVariableDistance(t *testing.T) {
	program, distances, err := resolve(t, `
		{
			var a = 1;
			{
				var b = 2;
				print a + b;
			}
		}
	`)
	require.NoError(t, err)

	outer := program.Stmts[0].(*ast.BlockStmt)
	block := outer.Stmts[1].(*ast.BlockStmt)
	printStmt := block.Stmts[1].(*ast.PrintStmt)
	add := printStmt.Expr.(*ast.BinaryExpr)

	aRef := add.Left.(*ast.VariableExpr)
	bRef := add.Right.(*ast.VariableExpr)

	// a is declared one scope out from the block print runs in.
	assert.Equal(t, 1, distances[aRef])
	// b is declared in the same scope the print statement runs in.
	assert.Equal(t, 0, distances[bRef])
}

func TestResolveUnresolvedGlobalIsOmitted(t *testing.T) {
	program, distances, err := resolve(t, `
		var g = 1;
		print g;
	`)
	require.NoError(t, err)

	printStmt := program.Stmts[1].(*ast.PrintStmt)
	ref := printStmt.Expr.(*ast.VariableExpr)

	_, ok := distances[ref]
	assert.False(t, ok, "reference to a global should not appear in the resolution map")
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate local declaration",
			src:  "{ var a = 1; var a = 2; }",
			want: "Already a variable with this name in this scope.",
		},
		{
			name: "self-referential initialiser",
			src:  "{ var a = a; }",
			want: "Can't read local variable in its own initializer.",
		},
		{
			name: "break outside loop",
			src:  "break;",
			want: "'break' statement outside of a loop.",
		},
		{
			name: "return outside function",
			src:  "return 1;",
			want: "Return statement outside of a function.",
		},
		{
			name: "this outside class",
			src:  "print this;",
			want: "Can't use 'this' outside of a class.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolve(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveBreakInsideLoopIsFine(t *testing.T) {
	_, _, err := resolve(t, "while (true) { break; }")
	assert.NoError(t, err)
}

func TestResolveThisInsideMethodIsFine(t *testing.T) {
	_, _, err := resolve(t, "class C { m() { print this; } }")
	assert.NoError(t, err)
}
