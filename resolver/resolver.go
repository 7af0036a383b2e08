// Package resolver performs static scope resolution over a Lox AST, computing how many environment links each
// variable and this reference must walk up to reach its declaration.
package resolver

import (
	"fmt"

	"golox/ast"
	"golox/loxerr"
	"golox/token"
)

// ResolutionMap maps a variable reference, assignment, or this expression to the number of environment links
// between the scope it appears in and the scope where the name it refers to was declared. A distance of 0 means the
// name was declared in the innermost scope, 1 means the parent scope, and so on. An expression missing from the map
// refers to a name that is resolved dynamically at runtime, in the global scope.
type ResolutionMap map[ast.Node]int

// Resolve resolves every variable and this reference in program, returning the distances needed to evaluate them
// against the right environment.
func Resolve(program ast.Program) (ResolutionMap, error) {
	r := newResolver()
	r.resolveProgram(program)
	return r.distances, r.errs.Err()
}

type identStatus int

const (
	undeclared identStatus = iota
	declared
	defined
)

// scope maps names visible in a lexical scope to their declaration status.
type scope map[string]identStatus

type functionKind int

const (
	noFunction functionKind = iota
	function
	method
)

type resolver struct {
	scopes          []scope
	distances       ResolutionMap
	currentFunction functionKind
	inClass         bool
	inLoop          bool

	errs loxerr.StaticErrors
}

func newResolver() *resolver {
	return &resolver{distances: ResolutionMap{}}
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peekScope() scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(ident *ast.Ident) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peekScope()
	if scope[ident.Token.Lexeme] != undeclared {
		r.errs.Add(ident.Token, "Already a variable with this name in this scope.")
		return
	}
	scope[ident.Token.Lexeme] = declared
}

func (r *resolver) define(ident *ast.Ident) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope()[ident.Token.Lexeme] = defined
}

// resolveLocal records the distance from the innermost scope to the scope in which name was declared, if any local
// scope declares it. node is the AST node (a VariableExpr, AssignExpr, or ThisExpr) that the distance is recorded
// against.
func (r *resolver) resolveLocal(node ast.Node, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.distances[node] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveProgram(program ast.Program) {
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.VarStmt:
		r.resolveVarStmt(stmt)
	case *ast.FunctionStmt:
		r.resolveFunctionStmt(stmt)
	case *ast.ClassStmt:
		r.resolveClassStmt(stmt)
	case *ast.ExpressionStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.BlockStmt:
		r.resolveBlockStmt(stmt)
	case *ast.IfStmt:
		r.resolveIfStmt(stmt)
	case *ast.WhileStmt:
		r.resolveWhileStmt(stmt)
	case *ast.BreakStmt:
		r.resolveBreakStmt(stmt)
	case *ast.ReturnStmt:
		r.resolveReturnStmt(stmt)
	default:
		panic(fmt.Sprintf("resolver: unexpected statement type %T", stmt))
	}
}

func (r *resolver) resolveVarStmt(stmt *ast.VarStmt) {
	r.declare(stmt.Name)
	if stmt.Initialiser != nil {
		r.resolveExpr(stmt.Initialiser)
	}
	r.define(stmt.Name)
}

func (r *resolver) resolveFunctionStmt(stmt *ast.FunctionStmt) {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt.Params, stmt.Body, function)
}

func (r *resolver) resolveFunction(params ast.Params, body *ast.BlockStmt, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	enclosingLoop := r.inLoop
	r.inLoop = false
	defer func() { r.inLoop = enclosingLoop }()

	r.beginScope()
	defer r.endScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	for _, s := range body.Stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveClassStmt(stmt *ast.ClassStmt) {
	r.declare(stmt.Name)
	r.define(stmt.Name)

	enclosingClass := r.inClass
	r.inClass = true
	defer func() { r.inClass = enclosingClass }()

	r.beginScope()
	defer r.endScope()
	r.peekScope()["this"] = defined

	for _, m := range stmt.Methods {
		r.resolveFunction(m.Params, m.Body, method)
	}
}

func (r *resolver) resolveBlockStmt(stmt *ast.BlockStmt) {
	r.beginScope()
	defer r.endScope()
	for _, s := range stmt.Stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveIfStmt(stmt *ast.IfStmt) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Then)
	if stmt.Else != nil {
		r.resolveStmt(stmt.Else)
	}
}

func (r *resolver) resolveWhileStmt(stmt *ast.WhileStmt) {
	r.resolveExpr(stmt.Condition)
	enclosingLoop := r.inLoop
	r.inLoop = true
	r.resolveStmt(stmt.Body)
	r.inLoop = enclosingLoop
}

func (r *resolver) resolveBreakStmt(stmt *ast.BreakStmt) {
	if !r.inLoop {
		r.errs.Add(stmt.Keyword, "'break' statement outside of a loop.")
	}
}

func (r *resolver) resolveReturnStmt(stmt *ast.ReturnStmt) {
	if r.currentFunction == noFunction {
		r.errs.Add(stmt.Keyword, "Return statement outside of a function.")
	}
	if stmt.Value != nil {
		r.resolveExpr(stmt.Value)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		// Nothing to resolve
	case *ast.VariableExpr:
		r.resolveVariableExpr(expr)
	case *ast.ThisExpr:
		r.resolveThisExpr(expr)
	case *ast.AssignExpr:
		r.resolveAssignExpr(expr)
	case *ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.UnaryExpr:
		r.resolveExpr(expr.Operand)
	case *ast.GroupingExpr:
		r.resolveExpr(expr.Inner)
	case *ast.CallExpr:
		r.resolveCallExpr(expr)
	case *ast.GetExpr:
		r.resolveExpr(expr.Object)
	case *ast.SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	default:
		panic(fmt.Sprintf("resolver: unexpected expression type %T", expr))
	}
}

func (r *resolver) resolveVariableExpr(expr *ast.VariableExpr) {
	name := expr.Name.Token.Lexeme
	if len(r.scopes) > 0 && r.peekScope()[name] == declared {
		r.errs.Add(expr.Name.Token, "Can't read local variable in its own initializer.")
		return
	}
	r.resolveLocal(expr, name)
}

func (r *resolver) resolveThisExpr(expr *ast.ThisExpr) {
	if !r.inClass {
		r.errs.Add(expr.Keyword, "Can't use 'this' outside of a class.")
		return
	}
	r.resolveLocal(expr, "this")
}

func (r *resolver) resolveAssignExpr(expr *ast.AssignExpr) {
	r.resolveExpr(expr.Value)
	r.resolveLocal(expr, expr.Name.Token.Lexeme)
}

func (r *resolver) resolveCallExpr(expr *ast.CallExpr) {
	r.resolveExpr(expr.Callee)
	for _, arg := range expr.Args {
		r.resolveExpr(arg)
	}
}
