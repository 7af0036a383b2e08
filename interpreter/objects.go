package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"golox/ast"
	"golox/loxerr"
)

// loxType names a Lox value's type for use in error messages.
type loxType string

const (
	loxTypeNumber   loxType = "number"
	loxTypeString   loxType = "string"
	loxTypeBool     loxType = "boolean"
	loxTypeNil      loxType = "nil"
	loxTypeFunction loxType = "function"
)

// Format implements fmt.Formatter. All verbs have the default behaviour, except for 'm' (message) which formats the
// type for use in an error message.
func (t loxType) Format(f fmt.State, verb rune) {
	if verb == 'm' {
		fmt.Fprintf(f, "'%s'", string(t))
		return
	}
	fmt.Fprint(f, string(t))
}

// loxObject is the interface implemented by every runtime Lox value.
type loxObject interface {
	String() string
	Type() loxType
}

// loxCallable is implemented by values which can appear as the callee of a call expression: functions and classes.
type loxCallable interface {
	loxObject
	Arity() int
	Call(i *Interpreter, args []loxObject) loxObject
}

type loxNumber float32

var _ loxObject = loxNumber(0)

// String renders n in integer form when it has no fractional part, and with the platform's default float
// formatting otherwise.
func (n loxNumber) String() string {
	f := float64(n)
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 32)
	}
	return strconv.FormatFloat(f, 'g', -1, 32)
}
func (loxNumber) Type() loxType { return loxTypeNumber }

type loxString string

var _ loxObject = loxString("")

func (s loxString) String() string { return string(s) }
func (loxString) Type() loxType    { return loxTypeString }

type loxBool bool

var _ loxObject = loxBool(false)

// String renders b numerically ("1"/"0"), not as "true"/"false".
func (b loxBool) String() string {
	if b {
		return "1"
	}
	return "0"
}
func (loxBool) Type() loxType { return loxTypeBool }

type loxNil struct{}

var _ loxObject = loxNil{}

func (loxNil) String() string { return "nil" }
func (loxNil) Type() loxType  { return loxTypeNil }

// isTruthy implements Lox's truthiness rule: everything is truthy except nil and false.
func isTruthy(obj loxObject) bool {
	switch obj := obj.(type) {
	case loxNil:
		return false
	case loxBool:
		return bool(obj)
	default:
		return true
	}
}

// isEqual implements Lox's == semantics: values of different types are never equal, numbers/strings/booleans compare
// by value, and functions/classes/instances compare by identity.
func isEqual(a, b loxObject) bool {
	switch a := a.(type) {
	case loxNumber:
		b, ok := b.(loxNumber)
		return ok && a == b
	case loxString:
		b, ok := b.(loxString)
		return ok && a == b
	case loxBool:
		b, ok := b.(loxBool)
		return ok && a == b
	case loxNil:
		_, ok := b.(loxNil)
		return ok
	default:
		return a == b
	}
}

// loxBuiltin is a native function implemented in Go, such as clock.
type loxBuiltin struct {
	name  string
	arity int
	fn    func(args []loxObject) loxObject
}

var (
	_ loxObject   = &loxBuiltin{}
	_ loxCallable = &loxBuiltin{}
)

func (b *loxBuiltin) String() string   { return fmt.Sprintf("<native fn %s>", b.name) }
func (*loxBuiltin) Type() loxType      { return loxTypeFunction }
func (b *loxBuiltin) Arity() int       { return b.arity }
func (b *loxBuiltin) Call(_ *Interpreter, args []loxObject) loxObject {
	return b.fn(args)
}

// loxFunction is a user-defined function or method. Its closure is the environment it was declared in, which is
// what lets it see variables from enclosing scopes even after they've returned.
type loxFunction struct {
	decl          *ast.FunctionStmt
	closure       *environment
	isInitialiser bool
}

func newLoxFunction(decl *ast.FunctionStmt, closure *environment, isInitialiser bool) *loxFunction {
	return &loxFunction{decl: decl, closure: closure, isInitialiser: isInitialiser}
}

var (
	_ loxObject   = &loxFunction{}
	_ loxCallable = &loxFunction{}
)

func (f *loxFunction) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name) }
func (*loxFunction) Type() loxType    { return loxTypeFunction }
func (f *loxFunction) Arity() int     { return len(f.decl.Params) }

// Bind returns a copy of f whose closure is a child of its original closure with "this" bound to instance. This is
// how a method called as obj.method() ends up with the right receiver.
func (f *loxFunction) Bind(instance *loxInstance) *loxFunction {
	env := f.closure.Child()
	env.Define("this", instance)
	return &loxFunction{decl: f.decl, closure: env, isInitialiser: f.isInitialiser}
}

func (f *loxFunction) Call(i *Interpreter, args []loxObject) loxObject {
	env := f.closure.Child()
	for idx, param := range f.decl.Params {
		env.Define(param.Token.Lexeme, args[idx])
	}
	result := i.execBlock(env, f.decl.Body.Stmts)
	if f.isInitialiser {
		return f.closure.GetNamedAt(0, "this")
	}
	if ret, ok := result.(stmtResultReturn); ok {
		return ret.Value
	}
	return loxNil{}
}

// loxClass is a callable which constructs instances and a namespace of methods shared between them.
type loxClass struct {
	name    string
	methods map[string]*loxFunction
}

func newLoxClass(name string, methods map[string]*loxFunction) *loxClass {
	return &loxClass{name: name, methods: methods}
}

var (
	_ loxObject   = &loxClass{}
	_ loxCallable = &loxClass{}
)

func (c *loxClass) String() string { return fmt.Sprintf("<class %s>", c.name) }
func (*loxClass) Type() loxType    { return loxTypeFunction }

func (c *loxClass) findMethod(name string) (*loxFunction, bool) {
	m, ok := c.methods[name]
	return m, ok
}

func (c *loxClass) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *loxClass) Call(i *Interpreter, args []loxObject) loxObject {
	instance := newLoxInstance(c)
	if init, ok := c.findMethod("init"); ok {
		init.Bind(instance).Call(i, args)
	}
	return instance
}

// loxInstance is an instance of a loxClass: a class pointer plus its own field values.
type loxInstance struct {
	class  *loxClass
	fields map[string]loxObject
}

func newLoxInstance(class *loxClass) *loxInstance {
	return &loxInstance{class: class, fields: make(map[string]loxObject)}
}

var _ loxObject = &loxInstance{}

func (o *loxInstance) String() string { return fmt.Sprintf("%s instance", o.class.name) }
func (o *loxInstance) Type() loxType  { return loxType(o.class.name) }

// Get returns the value of the property name on o: an instance field if one is set, otherwise a method bound to o.
func (o *loxInstance) Get(name *ast.Ident) loxObject {
	if value, ok := o.fields[name.Token.Lexeme]; ok {
		return value
	}
	if method, ok := o.class.findMethod(name.Token.Lexeme); ok {
		return method.Bind(o)
	}
	panic(loxerr.NewRuntimeError(name.Token, "Undefined property '%s'.", name.Token.Lexeme))
}

// Set assigns value to the field name on o, creating it if it doesn't already exist.
func (o *loxInstance) Set(name *ast.Ident, value loxObject) {
	o.fields[name.Token.Lexeme] = value
}

