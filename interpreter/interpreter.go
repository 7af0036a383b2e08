// Package interpreter tree-walks a resolved Lox AST and evaluates it.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"golox/ast"
	"golox/loxerr"
	"golox/resolver"
	"golox/token"
)

// Interpreter evaluates Lox programs, maintaining global state (variables, classes) across calls to Interpret so
// that a REPL session can build on what came before.
type Interpreter struct {
	globals    *environment
	resolution resolver.ResolutionMap
	stdout     io.Writer
	replMode   bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// Stdout redirects the output of print statements (and, in REPL mode, expression statements) to w instead of
// os.Stdout.
func Stdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// REPLMode makes the interpreter print the result of every expression statement, as a REPL does.
func REPLMode() Option {
	return func(i *Interpreter) { i.replMode = true }
}

// New constructs an Interpreter with its global environment populated with the built-in functions.
func New(opts ...Option) *Interpreter {
	globals := newEnvironment()
	for name, fn := range builtins {
		globals.Define(name, fn)
	}
	i := &Interpreter{globals: globals, resolution: resolver.ResolutionMap{}, stdout: os.Stdout}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret resolves and then evaluates program, reporting a static error if resolution fails, or a runtime error if
// evaluation fails. It can be called repeatedly with different programs parsed against the same Interpreter's
// globals, as in a REPL.
func (i *Interpreter) Interpret(program ast.Program) (err error) {
	resolution, err := resolver.Resolve(program)
	if err != nil {
		return err
	}
	for node, distance := range resolution {
		i.resolution[node] = distance
	}

	defer func() {
		if r := recover(); r != nil {
			if runtimeErr, ok := r.(*loxerr.RuntimeError); ok {
				err = runtimeErr
				return
			}
			panic(r)
		}
	}()
	for _, stmt := range program.Stmts {
		i.execStmt(i.globals, stmt)
	}
	return nil
}

// stmtResult propagates non-local control flow (break, return) up through nested statement execution.
type stmtResult interface{ stmtResult() }

type stmtResultNone struct{}

func (stmtResultNone) stmtResult() {}

type stmtResultBreak struct{}

func (stmtResultBreak) stmtResult() {}

type stmtResultReturn struct{ Value loxObject }

func (stmtResultReturn) stmtResult() {}

func (i *Interpreter) execStmt(env *environment, stmt ast.Stmt) stmtResult {
	switch stmt := stmt.(type) {
	case *ast.VarStmt:
		i.execVarStmt(env, stmt)
	case *ast.FunctionStmt:
		i.execFunctionStmt(env, stmt)
	case *ast.ClassStmt:
		i.execClassStmt(env, stmt)
	case *ast.ExpressionStmt:
		i.execExpressionStmt(env, stmt)
	case *ast.PrintStmt:
		i.execPrintStmt(env, stmt)
	case *ast.BlockStmt:
		return i.execBlock(env.Child(), stmt.Stmts)
	case *ast.IfStmt:
		return i.execIfStmt(env, stmt)
	case *ast.WhileStmt:
		return i.execWhileStmt(env, stmt)
	case *ast.BreakStmt:
		return stmtResultBreak{}
	case *ast.ReturnStmt:
		return i.execReturnStmt(env, stmt)
	default:
		panic(fmt.Sprintf("interpreter: unexpected statement type %T", stmt))
	}
	return stmtResultNone{}
}

func (i *Interpreter) execVarStmt(env *environment, stmt *ast.VarStmt) {
	var value loxObject = loxNil{}
	if stmt.Initialiser != nil {
		value = i.evalExpr(env, stmt.Initialiser)
	}
	env.Define(stmt.Name.Token.Lexeme, value)
}

func (i *Interpreter) execFunctionStmt(env *environment, stmt *ast.FunctionStmt) {
	env.Define(stmt.Name.Token.Lexeme, newLoxFunction(stmt, env, false))
}

func (i *Interpreter) execClassStmt(env *environment, stmt *ast.ClassStmt) {
	env.Define(stmt.Name.Token.Lexeme, nil)
	methods := make(map[string]*loxFunction, len(stmt.Methods))
	for _, methodDecl := range stmt.Methods {
		methods[methodDecl.Name.Token.Lexeme] = newLoxFunction(methodDecl, env, methodDecl.Name.Token.Lexeme == "init")
	}
	env.Define(stmt.Name.Token.Lexeme, newLoxClass(stmt.Name.Token.Lexeme, methods))
}

func (i *Interpreter) execExpressionStmt(env *environment, stmt *ast.ExpressionStmt) {
	value := i.evalExpr(env, stmt.Expr)
	if i.replMode {
		fmt.Fprintln(i.stdout, value.String())
	}
}

func (i *Interpreter) execPrintStmt(env *environment, stmt *ast.PrintStmt) {
	value := i.evalExpr(env, stmt.Expr)
	fmt.Fprintln(i.stdout, value.String())
}

// execBlock executes stmts in env, which the caller is expected to have already pushed as a child scope.
func (i *Interpreter) execBlock(env *environment, stmts []ast.Stmt) stmtResult {
	for _, stmt := range stmts {
		result := i.execStmt(env, stmt)
		if _, ok := result.(stmtResultNone); !ok {
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) execIfStmt(env *environment, stmt *ast.IfStmt) stmtResult {
	if isTruthy(i.evalExpr(env, stmt.Condition)) {
		return i.execStmt(env, stmt.Then)
	}
	if stmt.Else != nil {
		return i.execStmt(env, stmt.Else)
	}
	return stmtResultNone{}
}

func (i *Interpreter) execWhileStmt(env *environment, stmt *ast.WhileStmt) stmtResult {
	for isTruthy(i.evalExpr(env, stmt.Condition)) {
		switch result := i.execStmt(env, stmt.Body).(type) {
		case stmtResultBreak:
			return stmtResultNone{}
		case stmtResultReturn:
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) execReturnStmt(env *environment, stmt *ast.ReturnStmt) stmtResult {
	value := loxObject(loxNil{})
	if stmt.Value != nil {
		value = i.evalExpr(env, stmt.Value)
	}
	return stmtResultReturn{Value: value}
}

func (i *Interpreter) evalExpr(env *environment, expr ast.Expr) loxObject {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		return i.evalLiteralExpr(expr)
	case *ast.VariableExpr:
		return i.lookUpVariable(env, expr.Name.Token, expr)
	case *ast.ThisExpr:
		return i.lookUpVariable(env, expr.Keyword, expr)
	case *ast.AssignExpr:
		return i.evalAssignExpr(env, expr)
	case *ast.BinaryExpr:
		return i.evalBinaryExpr(env, expr)
	case *ast.LogicalExpr:
		return i.evalLogicalExpr(env, expr)
	case *ast.UnaryExpr:
		return i.evalUnaryExpr(env, expr)
	case *ast.GroupingExpr:
		return i.evalExpr(env, expr.Inner)
	case *ast.CallExpr:
		return i.evalCallExpr(env, expr)
	case *ast.GetExpr:
		return i.evalGetExpr(env, expr)
	case *ast.SetExpr:
		return i.evalSetExpr(env, expr)
	default:
		panic(fmt.Sprintf("interpreter: unexpected expression type %T", expr))
	}
}

func (i *Interpreter) evalLiteralExpr(expr *ast.LiteralExpr) loxObject {
	switch tok := expr.Token; tok.Type {
	case token.Number:
		return loxNumber(tok.Literal.(float32))
	case token.String:
		return loxString(tok.Literal.(string))
	case token.True:
		return loxBool(true)
	case token.False:
		return loxBool(false)
	case token.Nil:
		return loxNil{}
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal token type %s", tok.Type))
	}
}

// lookUpVariable resolves node (a VariableExpr or ThisExpr) against its statically-computed distance, falling back
// to the global environment if it wasn't resolved to a local scope.
func (i *Interpreter) lookUpVariable(env *environment, tok token.Token, node ast.Node) loxObject {
	if distance, ok := i.resolution[node]; ok {
		return env.GetAt(distance, tok)
	}
	return i.globals.Get(tok)
}

func (i *Interpreter) evalAssignExpr(env *environment, expr *ast.AssignExpr) loxObject {
	value := i.evalExpr(env, expr.Value)
	if distance, ok := i.resolution[expr]; ok {
		env.AssignAt(distance, expr.Name.Token, value)
	} else {
		i.globals.Assign(expr.Name.Token, value)
	}
	return value
}

func (i *Interpreter) evalLogicalExpr(env *environment, expr *ast.LogicalExpr) loxObject {
	left := i.evalExpr(env, expr.Left)
	if expr.Op.Type == token.Or {
		if isTruthy(left) {
			return left
		}
	} else {
		if !isTruthy(left) {
			return left
		}
	}
	return i.evalExpr(env, expr.Right)
}

func (i *Interpreter) evalUnaryExpr(env *environment, expr *ast.UnaryExpr) loxObject {
	operand := i.evalExpr(env, expr.Operand)
	switch expr.Op.Type {
	case token.Bang:
		return loxBool(!isTruthy(operand))
	case token.Minus:
		n, ok := operand.(loxNumber)
		if !ok {
			panic(loxerr.NewRuntimeError(expr.Op, "Operand must be a number."))
		}
		return -n
	default:
		panic(fmt.Sprintf("interpreter: unexpected unary operator %s", expr.Op.Type))
	}
}

func (i *Interpreter) evalBinaryExpr(env *environment, expr *ast.BinaryExpr) loxObject {
	left := i.evalExpr(env, expr.Left)
	right := i.evalExpr(env, expr.Right)

	switch expr.Op.Type {
	case token.EqualEqual:
		return loxBool(isEqual(left, right))
	case token.BangEqual:
		return loxBool(!isEqual(left, right))
	case token.Plus:
		if l, ok := left.(loxNumber); ok {
			if r, ok := right.(loxNumber); ok {
				return l + r
			}
		}
		if l, ok := left.(loxString); ok {
			if r, ok := right.(loxString); ok {
				return l + r
			}
		}
		panic(loxerr.NewRuntimeError(expr.Op, "Operands must be two numbers or two strings."))
	case token.Minus:
		l, r := i.numberOperands(expr.Op, left, right)
		return l - r
	case token.Star:
		l, r := i.numberOperands(expr.Op, left, right)
		return l * r
	case token.Slash:
		l, r := i.numberOperands(expr.Op, left, right)
		return l / r
	case token.Greater:
		l, r := i.numberOperands(expr.Op, left, right)
		return loxBool(l > r)
	case token.GreaterEqual:
		l, r := i.numberOperands(expr.Op, left, right)
		return loxBool(l >= r)
	case token.Less:
		l, r := i.numberOperands(expr.Op, left, right)
		return loxBool(l < r)
	case token.LessEqual:
		l, r := i.numberOperands(expr.Op, left, right)
		return loxBool(l <= r)
	default:
		panic(fmt.Sprintf("interpreter: unexpected binary operator %s", expr.Op.Type))
	}
}

func (i *Interpreter) numberOperands(op token.Token, left, right loxObject) (loxNumber, loxNumber) {
	l, lok := left.(loxNumber)
	r, rok := right.(loxNumber)
	if !lok || !rok {
		panic(loxerr.NewRuntimeError(op, "Operands must be numbers."))
	}
	return l, r
}

func (i *Interpreter) evalCallExpr(env *environment, expr *ast.CallExpr) loxObject {
	callee := i.evalExpr(env, expr.Callee)
	args := make([]loxObject, len(expr.Args))
	for idx, arg := range expr.Args {
		args[idx] = i.evalExpr(env, arg)
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		panic(loxerr.NewRuntimeError(expr.Paren, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(loxerr.NewRuntimeError(expr.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(i, args)
}

func (i *Interpreter) evalGetExpr(env *environment, expr *ast.GetExpr) loxObject {
	object := i.evalExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(loxerr.NewRuntimeError(expr.Name.Token, "Only instances have properties."))
	}
	return instance.Get(expr.Name)
}

func (i *Interpreter) evalSetExpr(env *environment, expr *ast.SetExpr) loxObject {
	object := i.evalExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(loxerr.NewRuntimeError(expr.Name.Token, "Only instances have fields."))
	}
	value := i.evalExpr(env, expr.Value)
	instance.Set(expr.Name, value)
	return value
}
