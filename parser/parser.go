// Package parser implements a recursive-descent parser for Lox source code.
package parser

import (
	"fmt"
	"io"

	"golox/ast"
	"golox/lexer"
	"golox/loxerr"
	"golox/token"
)

const maxArgs = 255

// Parse parses the source code read from r, associating positions with the given filename in error messages.
// If an error is returned, an incomplete AST is still returned alongside it.
func Parse(r io.Reader, filename string) (ast.Program, error) {
	lex, err := lexer.New(r, filename)
	if err != nil {
		return ast.Program{}, fmt.Errorf("constructing parser: %s", err)
	}

	p := &parser{lexer: lex}
	lex.SetErrorHandler(func(tok token.Token, msg string) {
		p.errs.Add(tok, "%s", msg)
	})

	p.next()
	p.next()
	return p.parseProgram(), p.errs.Err()
}

// parser parses a stream of tokens into an AST using one token of lookahead.
type parser struct {
	lexer   *lexer.Lexer
	tok     token.Token // token currently being considered
	nextTok token.Token

	// prevMatched is the token consumed by the most recent successful call to match.
	prevMatched token.Token

	errs loxerr.StaticErrors
}

func (p *parser) parseProgram() ast.Program {
	var stmts []ast.Stmt
	for p.tok.Type != token.EOF {
		stmts = append(stmts, p.safelyParseDecl())
	}
	return ast.Program{Stmts: stmts}
}

// unwind is used as a panic value so the parser can recover from a parse error without checking for one after every
// call to a parsing method.
type unwind struct{}

func (p *parser) safelyParseDecl() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); !ok {
				panic(r)
			}
			p.sync()
			stmt = &ast.ExpressionStmt{}
		}
	}()
	return p.parseDecl()
}

// sync advances the parser to the start of the next statement, to recover from a parse error.
func (p *parser) sync() {
	for {
		switch p.tok.Type {
		case token.Semicolon:
			p.next()
			return
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return, token.EOF:
			return
		}
		p.next()
	}
}

func (p *parser) parseDecl() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.parseClassDecl()
	case p.match(token.Fun):
		return p.parseFunDecl()
	case p.match(token.Var):
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseClassDecl() ast.Stmt {
	classTok := p.prevMatched
	name := p.parseIdent("Expected class name.")
	p.expect(token.LeftBrace)
	var methods []*ast.FunctionStmt
	for p.tok.Type != token.RightBrace && p.tok.Type != token.EOF {
		methods = append(methods, p.parseFunction())
	}
	rightBrace := p.expect(token.RightBrace)
	return &ast.ClassStmt{Class: classTok, Name: name, Methods: methods, RightBrace: rightBrace}
}

func (p *parser) parseFunDecl() ast.Stmt {
	funTok := p.prevMatched
	return p.parseFunctionWithKeyword(funTok)
}

// parseFunction parses a method declaration: IDENT "(" params? ")" block.
func (p *parser) parseFunction() *ast.FunctionStmt {
	return p.parseFunctionWithKeyword(token.Token{})
}

func (p *parser) parseFunctionWithKeyword(funTok token.Token) *ast.FunctionStmt {
	name := p.parseIdent("Expected function name.")
	p.expect(token.LeftParen)
	var params ast.Params
	if p.tok.Type != token.RightParen {
		params = p.parseParams()
	}
	p.expect(token.RightParen)
	leftBrace := p.expect(token.LeftBrace)
	body := p.parseBlock(leftBrace)
	if funTok.IsZero() {
		funTok = name.Token
	}
	return &ast.FunctionStmt{Fun: funTok, Name: name, Params: params, Body: body}
}

func (p *parser) parseParams() ast.Params {
	var params ast.Params
	for {
		if len(params) >= maxArgs {
			p.addError(p.tok, "Can't have more than %d parameters.", maxArgs)
		}
		params = append(params, p.parseIdent("Expected parameter name."))
		if !p.match(token.Comma) {
			break
		}
	}
	return params
}

func (p *parser) parseVarDecl() ast.Stmt {
	varTok := p.prevMatched
	name := p.parseIdent("Expected variable name.")
	var initialiser ast.Expr
	if p.match(token.Equal) {
		initialiser = p.parseExpr()
	}
	semicolon := p.expect(token.Semicolon)
	return &ast.VarStmt{Var: varTok, Name: name, Initialiser: initialiser, Semicolon: semicolon}
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.parsePrintStmt()
	case p.match(token.LeftBrace):
		return p.parseBlock(p.prevMatched)
	case p.match(token.If):
		return p.parseIfStmt()
	case p.match(token.While):
		return p.parseWhileStmt()
	case p.match(token.For):
		return p.parseForStmt()
	case p.match(token.Break):
		return p.parseBreakStmt()
	case p.match(token.Return):
		return p.parseReturnStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	semicolon := p.expect(token.Semicolon)
	return &ast.ExpressionStmt{Expr: expr, Semicolon: semicolon}
}

func (p *parser) parsePrintStmt() ast.Stmt {
	printTok := p.prevMatched
	expr := p.parseExpr()
	semicolon := p.expect(token.Semicolon)
	return &ast.PrintStmt{Print: printTok, Expr: expr, Semicolon: semicolon}
}

func (p *parser) parseBlock(leftBrace token.Token) *ast.BlockStmt {
	var stmts []ast.Stmt
	for p.tok.Type != token.RightBrace && p.tok.Type != token.EOF {
		stmts = append(stmts, p.safelyParseDecl())
	}
	rightBrace := p.expect(token.RightBrace)
	return &ast.BlockStmt{LeftBrace: leftBrace, Stmts: stmts, RightBrace: rightBrace}
}

func (p *parser) parseIfStmt() ast.Stmt {
	ifTok := p.prevMatched
	p.expect(token.LeftParen)
	condition := p.parseExpr()
	p.expect(token.RightParen)
	then := p.parseStmt()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.parseStmt()
	}
	return &ast.IfStmt{If: ifTok, Condition: condition, Then: then, Else: els}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	whileTok := p.prevMatched
	p.expect(token.LeftParen)
	condition := p.parseExpr()
	p.expect(token.RightParen)
	body := p.parseStmt()
	return &ast.WhileStmt{While: whileTok, Condition: condition, Body: body}
}

// parseForStmt desugars a for loop into a block containing the initialiser followed by a while loop, whose body is
// itself a block containing the original body followed by the update expression.
func (p *parser) parseForStmt() ast.Stmt {
	forTok := p.prevMatched
	p.expect(token.LeftParen)

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		init = p.parseVarDecl()
	default:
		init = p.parseExprStmt()
	}

	var condition ast.Expr
	if p.tok.Type != token.Semicolon {
		condition = p.parseExpr()
	}
	p.expect(token.Semicolon)

	var update ast.Expr
	if p.tok.Type != token.RightParen {
		update = p.parseExpr()
	}
	p.expect(token.RightParen)

	body := p.parseStmt()

	if update != nil {
		body = &ast.BlockStmt{
			LeftBrace:  forTok,
			Stmts:      []ast.Stmt{body, &ast.ExpressionStmt{Expr: update, Semicolon: forTok}},
			RightBrace: forTok,
		}
	}
	if condition == nil {
		condition = &ast.LiteralExpr{Token: token.Token{Type: token.True, Lexeme: "true"}}
	}
	loop := ast.Stmt(&ast.WhileStmt{While: forTok, Condition: condition, Body: body})
	if init != nil {
		loop = &ast.BlockStmt{LeftBrace: forTok, Stmts: []ast.Stmt{init, loop}, RightBrace: forTok}
	}
	return loop
}

func (p *parser) parseBreakStmt() ast.Stmt {
	breakTok := p.prevMatched
	semicolon := p.expect(token.Semicolon)
	return &ast.BreakStmt{Keyword: breakTok, Semicolon: semicolon}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	returnTok := p.prevMatched
	var value ast.Expr
	if p.tok.Type != token.Semicolon {
		value = p.parseExpr()
	}
	semicolon := p.expect(token.Semicolon)
	return &ast.ReturnStmt{Keyword: returnTok, Value: value, Semicolon: semicolon}
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignmentExpr()
}

func (p *parser) parseAssignmentExpr() ast.Expr {
	expr := p.parseLogicalOrExpr()
	if p.match(token.Equal) {
		value := p.parseAssignmentExpr()
		switch left := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: left.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: left.Object, Name: left.Name, Value: value}
		default:
			p.addError(p.prevMatched, "Invalid assignment target.")
			return expr
		}
	}
	return expr
}

func (p *parser) parseLogicalOrExpr() ast.Expr {
	expr := p.parseLogicalAndExpr()
	for p.tok.Type == token.Or {
		op := p.tok
		p.next()
		right := p.parseLogicalAndExpr()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseLogicalAndExpr() ast.Expr {
	expr := p.parseEqualityExpr()
	for p.tok.Type == token.And {
		op := p.tok
		p.next()
		right := p.parseEqualityExpr()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseEqualityExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseComparisonExpr, token.EqualEqual, token.BangEqual)
}

func (p *parser) parseComparisonExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseTermExpr, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *parser) parseTermExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseFactorExpr, token.Plus, token.Minus)
}

func (p *parser) parseFactorExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseUnaryExpr, token.Star, token.Slash)
}

// parseBinaryExpr parses a left-associative binary expression whose operands are parsed by next and whose operators
// are any of types.
func (p *parser) parseBinaryExpr(next func() ast.Expr, types ...token.Type) ast.Expr {
	expr := next()
	for p.matchesAny(types...) {
		op := p.tok
		p.next()
		right := next()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseUnaryExpr() ast.Expr {
	if p.tok.Type == token.Bang || p.tok.Type == token.Minus {
		op := p.tok
		p.next()
		operand := p.parseUnaryExpr()
		return &ast.UnaryExpr{Op: op, Operand: operand}
	}
	return p.parseCallExpr()
}

func (p *parser) parseCallExpr() ast.Expr {
	expr := p.parsePrimaryExpr()
	for {
		switch {
		case p.match(token.LeftParen):
			var args []ast.Expr
			if p.tok.Type != token.RightParen {
				args = p.parseArgs()
			}
			paren := p.expect(token.RightParen)
			expr = &ast.CallExpr{Callee: expr, Paren: paren, Args: args}
		case p.match(token.Dot):
			name := p.parseIdent("Expected property name.")
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	for {
		if len(args) >= maxArgs {
			p.addError(p.tok, "Can't have more than %d arguments.", maxArgs)
		}
		args = append(args, p.parseExpr())
		if !p.match(token.Comma) {
			break
		}
	}
	return args
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	switch tok := p.tok; {
	case p.match(token.Number, token.String, token.True, token.False, token.Nil):
		return &ast.LiteralExpr{Token: tok}
	case p.match(token.This):
		return &ast.ThisExpr{Keyword: tok}
	case p.match(token.Identifier):
		return &ast.VariableExpr{Name: &ast.Ident{Token: tok}}
	case p.match(token.LeftParen):
		inner := p.parseExpr()
		rightParen := p.expect(token.RightParen)
		return &ast.GroupingExpr{LeftParen: tok, Inner: inner, RightParen: rightParen}
	default:
		p.addError(tok, "Expected expression.")
		panic(unwind{})
	}
}

func (p *parser) parseIdent(errMsg string) *ast.Ident {
	return &ast.Ident{Token: p.expectf(token.Identifier, "%s", errMsg)}
}

// match reports whether the current token is one of types, advancing the parser and recording it in prevMatched if
// so.
func (p *parser) match(types ...token.Type) bool {
	if !p.matchesAny(types...) {
		return false
	}
	p.prevMatched = p.tok
	p.next()
	return true
}

func (p *parser) matchesAny(types ...token.Type) bool {
	for _, t := range types {
		if p.tok.Type == t {
			return true
		}
	}
	return false
}

// expect returns the current token and advances the parser if it has type t. Otherwise it adds an "expected %m"
// error and panics to unwind the parse.
func (p *parser) expect(t token.Type) token.Token {
	return p.expectf(t, "Expected %m.", t)
}

func (p *parser) expectf(t token.Type, format string, args ...any) token.Token {
	if p.tok.Type == t {
		tok := p.tok
		p.next()
		return tok
	}
	p.addError(p.tok, format, args...)
	panic(unwind{})
}

func (p *parser) next() {
	p.tok = p.nextTok
	p.nextTok = p.lexer.Next()
}

func (p *parser) addError(tok token.Token, format string, args ...any) {
	p.errs.Add(tok, format, args...)
}
