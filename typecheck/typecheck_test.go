package typecheck_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golox/parser"
	"golox/typecheck"
)

func check(t *testing.T, src string) []typecheck.Warning {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src), "test.lox")
	require.NoError(t, err)
	return typecheck.Check(program)
}

func TestBinaryOperandTypeMismatchWarns(t *testing.T) {
	warnings := check(t, `print 1 + "a";`)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Msg, "cannot use + between number and string")
}

func TestMatchingBinaryOperandsDontWarn(t *testing.T) {
	warnings := check(t, `print 1 + 2;`)
	assert.Empty(t, warnings)
}

func TestNonBooleanIfConditionWarns(t *testing.T) {
	warnings := check(t, `if (1) print "x";`)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Msg, "condition must be of boolean type")
}

func TestBooleanIfConditionDoesNotWarn(t *testing.T) {
	warnings := check(t, `if (true) print "x";`)
	assert.Empty(t, warnings)
}

func TestGroupingAndWhileBodiesAreNotWalked(t *testing.T) {
	// Grouping doesn't recurse into its inner expression, and while loops aren't walked at all,
	// matching the partial checker this pre-pass is modelled on: both mismatches go unreported.
	warnings := check(t, `
		print (1 + "a");
		while (1) { print 1 + "a"; }
	`)
	assert.Empty(t, warnings)
}

func TestUnclassifiedOperandsReportAsNil(t *testing.T) {
	// Variables aren't classified by this pre-pass and fall back to the Nil type, so comparing one
	// against a differently-typed literal still produces a (spurious) mismatch warning. This is the
	// source checker's own incompleteness, reproduced rather than fixed.
	warnings := check(t, `var x = 1; print x + "a";`)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Msg, "cannot use + between nil and string")
}
