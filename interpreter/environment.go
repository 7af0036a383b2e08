package interpreter

import (
	"golox/loxerr"
	"golox/token"
)

// environment is a lexical scope: a map of names to values, with a pointer to the enclosing scope it was created
// in. Variable lookups walk the chain of parents until a declaration is found.
type environment struct {
	parent *environment
	values map[string]loxObject
}

func newEnvironment() *environment {
	return &environment{values: make(map[string]loxObject)}
}

// Child creates a new environment enclosed by e.
func (e *environment) Child() *environment {
	return &environment{parent: e, values: make(map[string]loxObject)}
}

// Define binds name to value in this environment, overwriting any existing binding for name.
func (e *environment) Define(name string, value loxObject) {
	e.values[name] = value
}

// Assign updates the binding for tok's lexeme, searching this environment and its parents. It raises a runtime
// error if the name has never been declared.
func (e *environment) Assign(tok token.Token, value loxObject) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[tok.Lexeme]; ok {
			env.values[tok.Lexeme] = value
			return
		}
	}
	panic(loxerr.NewRuntimeError(tok, "Undefined variable '%s'.", tok.Lexeme))
}

// AssignAt updates the binding for tok's lexeme in the environment distance parents up from e.
func (e *environment) AssignAt(distance int, tok token.Token, value loxObject) {
	e.ancestor(distance).values[tok.Lexeme] = value
}

// Get returns the value bound to tok's lexeme, searching this environment and its parents. It raises a runtime
// error if the name has never been declared.
func (e *environment) Get(tok token.Token) loxObject {
	for env := e; env != nil; env = env.parent {
		if value, ok := env.values[tok.Lexeme]; ok {
			return value
		}
	}
	panic(loxerr.NewRuntimeError(tok, "Undefined variable '%s'.", tok.Lexeme))
}

// GetAt returns the value bound to tok's lexeme in the environment distance parents up from e.
func (e *environment) GetAt(distance int, tok token.Token) loxObject {
	return e.ancestor(distance).values[tok.Lexeme]
}

// GetNamedAt is like GetAt but looks up by name instead of by token, for looking up names (such as "this") that
// don't originate from source identifiers.
func (e *environment) GetNamedAt(distance int, name string) loxObject {
	return e.ancestor(distance).values[name]
}

func (e *environment) ancestor(distance int) *environment {
	env := e
	for range distance {
		env = env.parent
	}
	return env
}
