// Package typecheck implements an optional pre-pass over a parsed program that reports soft warnings about operand
// and condition types. It mirrors the source interpreter's own partial type checker: it only validates binary
// operator operands and if-condition types, using a scope-free walk over literal types, and leaves every other node
// unvalidated. It never blocks evaluation; callers are free to run the program regardless of what it reports.
package typecheck

import (
	"fmt"

	"golox/ast"
	"golox/token"
)

// Type is the coarse value type a type-checked expression is inferred to have. Nil doubles as the type of every
// expression kind this pre-pass doesn't attempt to classify (variables, calls, assignments, groupings, and so on),
// mirroring how the checker's stub cases fall back to a default-constructed, NIL-valued result rather than an
// explicit "unknown". An unclassified operand can therefore still trigger a mismatch warning against a
// differently-typed sibling; that's inherited behaviour, not an oversight.
type Type int

const (
	Nil Type = iota
	Number
	String
	Boolean
)

func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	default:
		return "nil"
	}
}

// Warning is a single diagnostic produced by Check.
type Warning struct {
	Msg string
	Pos token.Position
}

func (w Warning) String() string {
	return fmt.Sprintf("[line %d] Warning: %s", w.Pos.Line, w.Msg)
}

// Check walks program's statements and returns the warnings produced by its two checks: that a binary operator's
// operands have the same inferred type, and that an if statement's condition is boolean. Coverage is intentionally
// incomplete: expressions and statements the checker doesn't classify (variables, calls, assignments, while loops,
// function and class bodies, grouping) are left as Nil rather than resolved, matching the partial checker this
// pre-pass is modelled on.
func Check(program ast.Program) []Warning {
	c := &checker{}
	for _, stmt := range program.Stmts {
		c.checkStmt(stmt)
	}
	return c.warnings
}

type checker struct {
	warnings []Warning
}

func (c *checker) warn(pos token.Position, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{Msg: fmt.Sprintf(format, args...), Pos: pos})
}

func (c *checker) checkStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.PrintStmt:
		c.checkExpr(stmt.Expr)
	case *ast.BlockStmt:
		for _, s := range stmt.Stmts {
			c.checkStmt(s)
		}
	case *ast.IfStmt:
		if condType := c.checkExpr(stmt.Condition); condType != Boolean {
			c.warn(stmt.Condition.Start(), "condition must be of boolean type")
		}
		c.checkStmt(stmt.Then)
		if stmt.Else != nil {
			c.checkStmt(stmt.Else)
		}
	}
}

func (c *checker) checkExpr(expr ast.Expr) Type {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		return literalType(expr.Token)
	case *ast.UnaryExpr:
		return c.checkExpr(expr.Operand)
	case *ast.BinaryExpr:
		left := c.checkExpr(expr.Left)
		right := c.checkExpr(expr.Right)
		if left != right {
			c.warn(expr.Op.Start(), "cannot use %s between %s and %s", expr.Op.Lexeme, left, right)
		}
		return Nil
	default:
		return Nil
	}
}

func literalType(tok token.Token) Type {
	switch tok.Type {
	case token.Number:
		return Number
	case token.String:
		return String
	case token.True, token.False:
		return Boolean
	case token.Nil:
		return Nil
	default:
		return Nil
	}
}
