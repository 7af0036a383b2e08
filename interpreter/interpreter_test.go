package interpreter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golox/interpreter"
	"golox/parser"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src), "test.lox")
	require.NoError(t, err)

	var out bytes.Buffer
	interp := interpreter.New(interpreter.Stdout(&out))
	err = interp.Interpret(program)
	return out.String(), err
}

func TestPrintFormats(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"nil", `print nil;`, "nil\n"},
		{"true", `print true;`, "1\n"},
		{"false", `print false;`, "0\n"},
		{"whole number", `print 4.0;`, "4\n"},
		{"fractional number", `print 1.5;`, "1.5\n"},
		{"string", `print "hi";`, "hi\n"},
		{"native function", `print clock;`, "<native fn clock>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun counter() {
				count = count + 1;
				return count;
			}
			return counter;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestFibonacci(t *testing.T) {
	out, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestResolverFixesClosureOverShadowedGlobal(t *testing.T) {
	// Classic static-vs-dynamic-scope test case: printGlobal must always print "global",
	// because a is resolved against the scope where printGlobal is defined, not where it's called.
	out, err := run(t, `
		var a = "global";
		{
			fun printGlobal() {
				print a;
			}
			printGlobal();
			var a = "block";
			printGlobal();
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "global\nglobal\n", out)
}

func TestMethodCallBindsThis(t *testing.T) {
	out, err := run(t, `
		class Counter {
			init() {
				this.count = 0;
			}
			increment() {
				this.count = this.count + 1;
				return this.count;
			}
		}
		var c = Counter();
		print c.increment();
		print c.increment();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestInstanceStringFormat(t *testing.T) {
	out, err := run(t, `
		class Bagel {}
		print Bagel;
		print Bagel();
	`)
	require.NoError(t, err)
	assert.Equal(t, "<class Bagel>\nBagel instance\n", out)
}

func TestBreakExitsInnermostLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (true) {
			if (i == 3) break;
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"add number and string", `print 1 + "a";`, "Operands must be two numbers or two strings."},
		{"negate a string", `print -"a";`, "Operand must be a number."},
		{"call a non-callable", `var x = 1; x();`, "Can only call functions and classes."},
		{"wrong argument count", `fun f(a) {} f();`, "Expected 1 arguments but got 0."},
		{"undefined variable", `print x;`, "Undefined variable 'x'."},
		{"property on a non-instance", `var x = 1; print x.y;`, "Only instances have properties."},
		{"undefined property", `class C {} print C().y;`, "Undefined property 'y'."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTruthiness(t *testing.T) {
	out, err := run(t, `
		if (0) print "zero is truthy"; else print "zero is falsy";
		if ("") print "empty string is truthy"; else print "empty string is falsy";
		if (nil) print "nil is truthy"; else print "nil is falsy";
		if (false) print "false is truthy"; else print "false is falsy";
	`)
	require.NoError(t, err)
	assert.Equal(t, "zero is truthy\nempty string is truthy\nnil is falsy\nfalse is falsy\n", out)
}

func TestStaticErrorReportedBeforeAnyOutput(t *testing.T) {
	out, err := run(t, `
		print "this runs";
		break;
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'break' statement outside of a loop.")
	assert.Empty(t, out, "a static error should prevent any statement from executing")
}
