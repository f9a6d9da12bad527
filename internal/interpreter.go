package internal

import (
	"fmt"
	"io"
)

// interpreter is the tree-walking evaluator. It holds a fixed globals
// environment, a current environment (equal to globals outside any
// call/block), and the resolution map produced by the resolver.
type interpreter struct {
	globals    *environment
	env        *environment
	resolution map[int]int
	sink       diagnosticSink
	out        io.Writer
}

func newInterpreter(out io.Writer, sink diagnosticSink) *interpreter {
	globals := newEnvironment(nil)
	defineGlobals(globals)
	return &interpreter{globals: globals, env: globals, sink: sink, out: out}
}

// interpret executes statements against the resolution map built for
// them, catching a runtime error at the top and reporting it through
// the sink. Control signals (Return/Break) are guaranteed by the
// resolver never to reach here; anything else that panics is
// rethrown.
func (in *interpreter) interpret(statements []stmt, resolution map[int]int) {
	in.resolution = resolution
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*runtimeErr); ok {
				in.sink.runtimeError(rerr)
				return
			}
			panic(r)
		}
	}()
	for _, s := range statements {
		in.execute(s)
	}
}

func (in *interpreter) execute(s stmt) interface{} {
	log.Debugf("executing %T", s)
	return s.accept(in)
}

func (in *interpreter) evaluate(e expr) interface{} {
	return e.accept(in)
}

func (in *interpreter) executeBlock(statements []stmt, env *environment) {
	previous := in.env
	defer func() { in.env = previous }()
	in.env = env
	for _, s := range statements {
		in.execute(s)
	}
}

func (in *interpreter) runtimeError(tok *token, message string) {
	panic(&runtimeErr{token: tok, message: message})
}

// lookupVariable consults the resolution map: an annotated expression
// fetches from the environment `depth` hops up; an unannotated one is
// global.
func (in *interpreter) lookupVariable(id int, name *token) interface{} {
	var value interface{}
	var found bool
	if depth, ok := in.resolution[id]; ok {
		value = in.env.getAt(depth, name.lexeme)
		found = true
	} else {
		value, found = in.globals.get(name.lexeme)
	}
	if !found {
		in.runtimeError(name, fmt.Sprintf("Undefined variable '%s'.", name.lexeme))
	}
	if _, ok := value.(uninitializedMarker); ok {
		in.runtimeError(name, fmt.Sprintf("Use of uninitialized variable '%s'.", name.lexeme))
	}
	return value
}

// --- statements ---

func (in *interpreter) visitExpressionStmt(s *expressionStmt) interface{} {
	in.evaluate(s.expression)
	return nil
}

func (in *interpreter) visitPrintStmt(s *printStmt) interface{} {
	value := in.evaluate(s.expression)
	fmt.Fprintln(in.out, stringify(value))
	return nil
}

func (in *interpreter) visitVarStmt(s *varStmt) interface{} {
	var value interface{} = uninitialized
	if s.initializer != nil {
		// A name not bound yet reads as uninitialized while its own
		// initializer runs, so a global `var a = a;` is a
		// use-of-uninitialized error rather than an undefined one.
		if _, exists := in.env.values[s.name.lexeme]; !exists {
			in.env.define(s.name.lexeme, uninitialized)
		}
		value = in.evaluate(s.initializer)
	}
	in.env.define(s.name.lexeme, value)
	return nil
}

func (in *interpreter) visitBlockStmt(s *blockStmt) interface{} {
	in.executeBlock(s.statements, newEnvironment(in.env))
	return nil
}

func (in *interpreter) visitIfStmt(s *ifStmt) interface{} {
	if isTruthy(in.evaluate(s.condition)) {
		in.execute(s.thenBranch)
	} else if s.elseBranch != nil {
		in.execute(s.elseBranch)
	}
	return nil
}

func (in *interpreter) visitWhileStmt(s *whileStmt) interface{} {
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(breakSignal); ok {
					return
				}
				panic(r)
			}
		}()
		for isTruthy(in.evaluate(s.condition)) {
			in.execute(s.body)
		}
	}()
	return nil
}

func (in *interpreter) visitBreakStmt(s *breakStmt) interface{} {
	panic(breakSignal{})
}

func (in *interpreter) visitReturnStmt(s *returnStmt) interface{} {
	var value interface{}
	if s.value != nil {
		value = in.evaluate(s.value)
	}
	panic(returnSignal{value: value})
}

func (in *interpreter) visitFunctionStmt(s *functionStmt) interface{} {
	fn := &function{declaration: s.function, closure: in.env}
	in.env.define(s.function.name.lexeme, fn)
	return nil
}

func (in *interpreter) visitClassStmt(s *classStmt) interface{} {
	var superclass *class
	if s.superclass != nil {
		superVal := in.evaluate(s.superclass)
		sc, ok := superVal.(*class)
		if !ok {
			in.runtimeError(s.superclass.name, "Superclass must be a class.")
		}
		superclass = sc
	}

	in.env.define(s.name.lexeme, nil)

	methodEnv := in.env
	if s.superclass != nil {
		methodEnv = newEnvironment(in.env)
		methodEnv.define("super", superclass)
	}

	methods := make(map[string]*function, len(s.methods))
	for _, m := range s.methods {
		methods[m.function.name.lexeme] = &function{
			declaration:   m.function,
			closure:       methodEnv,
			isInitializer: m.function.name.lexeme == "init",
		}
	}

	// Class methods are resolved inside the same this-scope as instance
	// methods but are never bound to a receiver via bind(), so there is
	// no call-time environment to supply "this". A synthetic env one
	// level below methodEnv stands in for that missing bind() layer so
	// the resolver's hop count for "this" still lands on a real binding
	// instead of reading past the top of the chain.
	classThisEnv := newEnvironment(methodEnv)
	classThisEnv.define("this", nil)

	classMethods := make(map[string]*function, len(s.classMethods))
	for _, m := range s.classMethods {
		classMethods[m.function.name.lexeme] = &function{
			declaration: m.function,
			closure:     classThisEnv,
		}
	}

	cls := newClass(s.name.lexeme, superclass, methods, classMethods)
	in.env.assign(s.name.lexeme, cls)
	return nil
}

// --- expressions ---

func (in *interpreter) visitLiteralExpr(e *literalExpr) interface{} {
	return e.value
}

func (in *interpreter) visitGroupingExpr(e *groupingExpr) interface{} {
	return in.evaluate(e.expression)
}

func (in *interpreter) visitVariableExpr(e *variableExpr) interface{} {
	return in.lookupVariable(e.exprID(), e.name)
}

func (in *interpreter) visitAssignExpr(e *assignExpr) interface{} {
	value := in.evaluate(e.value)
	if depth, ok := in.resolution[e.exprID()]; ok {
		in.env.assignAt(depth, e.name.lexeme, value)
	} else if !in.globals.assign(e.name.lexeme, value) {
		in.runtimeError(e.name, fmt.Sprintf("Undefined variable '%s'.", e.name.lexeme))
	}
	return value
}

func (in *interpreter) visitUnaryExpr(e *unaryExpr) interface{} {
	right := in.evaluate(e.right)
	switch e.operator.kind {
	case minus:
		n, ok := right.(float64)
		if !ok {
			in.runtimeError(e.operator, "Operand must be a number.")
		}
		return -n
	case bang:
		return !isTruthy(right)
	}
	return nil
}

func (in *interpreter) visitBinaryExpr(e *binaryExpr) interface{} {
	left := in.evaluate(e.left)
	right := in.evaluate(e.right)

	switch e.operator.kind {
	case plus:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs
			}
		}
		in.runtimeError(e.operator, "Operands must be two numbers or two strings.")
	case minus:
		ln, rn := in.numberOperands(e.operator, left, right)
		return ln - rn
	case star:
		ln, rn := in.numberOperands(e.operator, left, right)
		return ln * rn
	case slash:
		ln, rn := in.numberOperands(e.operator, left, right)
		return ln / rn
	case greater:
		ln, rn := in.numberOperands(e.operator, left, right)
		return ln > rn
	case greaterEqual:
		ln, rn := in.numberOperands(e.operator, left, right)
		return ln >= rn
	case less:
		ln, rn := in.numberOperands(e.operator, left, right)
		return ln < rn
	case lessEqual:
		ln, rn := in.numberOperands(e.operator, left, right)
		return ln <= rn
	case equalEqual:
		return valuesEqual(left, right)
	case bangEqual:
		return !valuesEqual(left, right)
	}
	return nil
}

func (in *interpreter) numberOperands(operator *token, left, right interface{}) (float64, float64) {
	ln, ok1 := left.(float64)
	rn, ok2 := right.(float64)
	if !ok1 || !ok2 {
		in.runtimeError(operator, "Operands must be numbers.")
	}
	return ln, rn
}

func (in *interpreter) visitLogicalExpr(e *logicalExpr) interface{} {
	left := in.evaluate(e.left)
	if e.operator.kind == or {
		if isTruthy(left) {
			return left
		}
	} else {
		if !isTruthy(left) {
			return left
		}
	}
	return in.evaluate(e.right)
}

func (in *interpreter) visitTernaryExpr(e *ternaryExpr) interface{} {
	if isTruthy(in.evaluate(e.cond)) {
		return in.evaluate(e.ifTrue)
	}
	return in.evaluate(e.ifFalse)
}

func (in *interpreter) visitCallExpr(e *callExpr) interface{} {
	callee := in.evaluate(e.callee)

	args := make([]interface{}, len(e.arguments))
	for i, arg := range e.arguments {
		args[i] = in.evaluate(arg)
	}

	c, ok := callee.(callable)
	if !ok {
		in.runtimeError(e.paren, "Can only call functions and classes.")
	}
	if len(args) != c.arity() {
		in.runtimeError(e.paren, fmt.Sprintf("Expected %d arguments but got %d.", c.arity(), len(args)))
	}
	return c.call(in, args)
}

func (in *interpreter) visitGetExpr(e *getExpr) interface{} {
	object := in.evaluate(e.object)
	switch obj := object.(type) {
	case *instance:
		v, ok := obj.get(e.name)
		if !ok {
			in.runtimeError(e.name, fmt.Sprintf("Undefined property '%s'.", e.name.lexeme))
		}
		return v
	case *class:
		v, ok := obj.get(e.name)
		if !ok {
			in.runtimeError(e.name, fmt.Sprintf("Undefined property '%s'.", e.name.lexeme))
		}
		return v
	default:
		in.runtimeError(e.name, "Only instances have properties.")
	}
	return nil
}

func (in *interpreter) visitSetExpr(e *setExpr) interface{} {
	object := in.evaluate(e.object)
	obj, ok := object.(*instance)
	if !ok {
		in.runtimeError(e.name, "Only instances have properties.")
	}
	value := in.evaluate(e.value)
	obj.set(e.name, value)
	return value
}

func (in *interpreter) visitThisExpr(e *thisExpr) interface{} {
	return in.lookupVariable(e.exprID(), e.keyword)
}

func (in *interpreter) visitSuperExpr(e *superExpr) interface{} {
	depth := in.resolution[e.exprID()]
	superclass := in.env.getAt(depth, "super").(*class)
	receiver := in.env.getAt(depth-1, "this").(*instance)

	method := superclass.findMethod(e.method.lexeme)
	if method == nil {
		in.runtimeError(e.method, fmt.Sprintf("Undefined property '%s'.", e.method.lexeme))
	}
	return method.bind(receiver)
}

func (in *interpreter) visitFunctionExpr(e *functionExpr) interface{} {
	return &function{declaration: e, closure: in.env}
}
