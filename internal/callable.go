package internal

import "fmt"

// callable is any value that can appear on the left of `(...)`:
// a user function, a bound method, a native builtin, or a class
// (construction).
type callable interface {
	arity() int
	call(in *interpreter, arguments []interface{}) interface{}
}

// function is a user-defined function or method value: the
// declaration AST node paired with the environment active at its
// declaration site.
type function struct {
	declaration   *functionExpr
	closure       *environment
	isInitializer bool
}

func (f *function) arity() int {
	return len(f.declaration.params)
}

// call binds parameters by position in a fresh child of the closure
// and executes the body, catching the Return control signal. An
// initializer always yields the receiver, regardless of what (if
// anything) its body explicitly returns.
func (f *function) call(in *interpreter, arguments []interface{}) (result interface{}) {
	env := newEnvironment(f.closure)
	for i, param := range f.declaration.params {
		env.define(param.lexeme, arguments[i])
	}

	defer func() {
		if r := recover(); r != nil {
			if ret, ok := r.(returnSignal); ok {
				if f.isInitializer {
					result, _ = f.closure.get("this")
				} else {
					result = ret.value
				}
				return
			}
			panic(r)
		}
	}()

	in.executeBlock(f.declaration.body, env)

	if f.isInitializer {
		result, _ = f.closure.get("this")
	}
	return result
}

// bind returns a function value whose closure is a one-slot child of
// the original closure binding `this` to receiver.
func (f *function) bind(receiver *instance) *function {
	env := newEnvironment(f.closure)
	env.define("this", receiver)
	return &function{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

func (f *function) String() string {
	if f.declaration.name != nil {
		return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
	}
	return "<fn anonymous>"
}

// nativeFn wraps a host-provided builtin, e.g. clock().
type nativeFn struct {
	name    string
	arityN  int
	callFn  func(in *interpreter, arguments []interface{}) interface{}
}

func (n *nativeFn) arity() int { return n.arityN }

func (n *nativeFn) call(in *interpreter, arguments []interface{}) interface{} {
	return n.callFn(in, arguments)
}

func (n *nativeFn) String() string {
	return fmt.Sprintf("<native fn %s>", n.name)
}
