package internal

// varState is the three-state model a scope entry moves through.
// Collapsing this to a boolean loses the self-reference check and the
// unused-local warning, so it stays a sum type.
type varState int

const (
	stateDeclared varState = iota
	stateDefined
	stateUsed
)

type scopeEntry struct {
	name  string
	state varState
	line  int
}

type scope map[string]*scopeEntry

type functionType int

const (
	noFunction functionType = iota
	funcType
	methodType
	initializerType
)

type classType int

const (
	noClass classType = iota
	inClass
	inSubclass
)

// resolver is a single static pass annotating variable references
// with a hop count up the environment chain and enforcing
// scope-sensitive rules the grammar cannot express.
type resolver struct {
	scopes []scope
	sink   diagnosticSink

	resolution map[int]int

	currentFunction functionType
	currentClass    classType
	inLoop          bool
}

func newResolver(sink diagnosticSink) *resolver {
	return &resolver{sink: sink, resolution: make(map[int]int)}
}

func (r *resolver) resolve(statements []stmt) map[int]int {
	r.resolveStmts(statements)
	return r.resolution
}

func (r *resolver) resolveStmts(statements []stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s stmt) {
	s.accept(r)
}

func (r *resolver) resolveExpr(e expr) {
	e.accept(r)
}

// --- scope stack ---

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	top := r.scopes[len(r.scopes)-1]
	for _, entry := range top {
		if entry.state == stateDefined {
			r.sink.warningAt(entry.line, "Local variable "+entry.name+" not used.")
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[name.lexeme]; ok {
		r.sink.staticErrorAt(name, "Already a variable with this name in this scope.")
	}
	top[name.lexeme] = &scopeEntry{name: name.lexeme, state: stateDeclared, line: name.line}
}

func (r *resolver) define(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if entry, ok := top[name.lexeme]; ok {
		entry.state = stateDefined
		entry.line = name.line
		return
	}
	top[name.lexeme] = &scopeEntry{name: name.lexeme, state: stateDefined, line: name.line}
}

// declareDefineUsed puts name directly into Defined and Used state,
// for the synthetic `this`/`super` bindings, which must never trigger
// the unused-local warning and can never collide (a class installs
// each at most once per scope).
func (r *resolver) declareDefineUsed(name string, line int) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	top[name] = &scopeEntry{name: name, state: stateUsed, line: line}
}

// markUsed forces the top scope's entry for name into Used state
// without otherwise touching it, so a declared-and-defined binding
// (a parameter) never triggers the unused-local warning.
func (r *resolver) markUsed(name string) {
	if len(r.scopes) == 0 {
		return
	}
	if entry, ok := r.scopes[len(r.scopes)-1][name]; ok {
		entry.state = stateUsed
	}
}

// resolveRead walks the scope stack from innermost outward for a
// read reference. The first match records the hop distance and is
// marked Used; no match means the name is global and is left
// unannotated.
func (r *resolver) resolveRead(id int, name *token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		entry, ok := r.scopes[i][name.lexeme]
		if !ok {
			continue
		}
		if entry.state == stateDeclared {
			r.sink.staticErrorAt(name, "Can't read local variable in its own initializer.")
		}
		entry.state = stateUsed
		r.resolution[id] = len(r.scopes) - 1 - i
		return
	}
}

// resolveWrite walks the scope stack the same way for an assignment
// target. The target is marked Defined, not Used, so a write-only
// local is still reported as unused; an entry already Used by an
// earlier read stays Used.
func (r *resolver) resolveWrite(id int, name *token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		entry, ok := r.scopes[i][name.lexeme]
		if !ok {
			continue
		}
		if entry.state != stateUsed {
			entry.state = stateDefined
			entry.line = name.line
		}
		r.resolution[id] = len(r.scopes) - 1 - i
		return
	}
}

// --- statements ---

func (r *resolver) visitExpressionStmt(s *expressionStmt) interface{} {
	r.resolveExpr(s.expression)
	return nil
}

func (r *resolver) visitPrintStmt(s *printStmt) interface{} {
	r.resolveExpr(s.expression)
	return nil
}

func (r *resolver) visitVarStmt(s *varStmt) interface{} {
	r.declare(s.name)
	if s.initializer != nil {
		r.resolveExpr(s.initializer)
	}
	r.define(s.name)
	return nil
}

func (r *resolver) visitBlockStmt(s *blockStmt) interface{} {
	r.beginScope()
	r.resolveStmts(s.statements)
	r.endScope()
	return nil
}

func (r *resolver) visitIfStmt(s *ifStmt) interface{} {
	r.resolveExpr(s.condition)
	r.resolveStmt(s.thenBranch)
	if s.elseBranch != nil {
		r.resolveStmt(s.elseBranch)
	}
	return nil
}

func (r *resolver) visitWhileStmt(s *whileStmt) interface{} {
	r.resolveExpr(s.condition)
	previousInLoop := r.inLoop
	r.inLoop = true
	r.resolveStmt(s.body)
	r.inLoop = previousInLoop
	return nil
}

func (r *resolver) visitBreakStmt(s *breakStmt) interface{} {
	if !r.inLoop {
		r.sink.staticErrorAt(s.keyword, "Can't break outside of loop body.")
	}
	return nil
}

func (r *resolver) visitReturnStmt(s *returnStmt) interface{} {
	if r.currentFunction == noFunction {
		r.sink.staticErrorAt(s.keyword, "Can't return from top-level code.")
	}
	if s.value != nil {
		if r.currentFunction == initializerType {
			r.sink.staticErrorAt(s.keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.value)
	}
	return nil
}

func (r *resolver) visitFunctionStmt(s *functionStmt) interface{} {
	r.declare(s.function.name)
	r.define(s.function.name)
	r.resolveFunction(s.function, funcType)
	return nil
}

func (r *resolver) visitClassStmt(s *classStmt) interface{} {
	r.declare(s.name)
	r.define(s.name)

	previousClass := r.currentClass
	r.currentClass = inClass

	if s.superclass != nil {
		if s.superclass.name.lexeme == s.name.lexeme {
			r.sink.staticErrorAt(s.superclass.name, "A class can't inherit from itself.")
		}
		r.resolveExpr(s.superclass)
		r.currentClass = inSubclass
		r.beginScope()
		r.declareDefineUsed("super", s.name.line)
	}

	r.beginScope()
	r.declareDefineUsed("this", s.name.line)

	for _, method := range s.methods {
		kind := methodType
		if method.function.name.lexeme == "init" {
			kind = initializerType
		}
		r.resolveFunction(method.function, kind)
	}

	// Class methods are resolved inside the same this-scope installed
	// above. `this` therefore resolves successfully here at both
	// resolve time and run time even though the call site has no
	// receiver; this mirrors the source's own documented quirk rather
	// than forbidding it.
	for _, method := range s.classMethods {
		r.resolveFunction(method.function, methodType)
	}

	r.endScope()
	if s.superclass != nil {
		r.endScope()
	}

	r.currentClass = previousClass
	return nil
}

func (r *resolver) resolveFunction(function *functionExpr, kind functionType) {
	previousFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range function.params {
		r.declare(param)
		r.define(param)
		r.markUsed(param.lexeme)
	}
	r.resolveStmts(function.body)
	r.endScope()

	r.currentFunction = previousFunction
}

// --- expressions ---

func (r *resolver) visitLiteralExpr(e *literalExpr) interface{} { return nil }

func (r *resolver) visitVariableExpr(e *variableExpr) interface{} {
	r.resolveRead(e.exprID(), e.name)
	return nil
}

func (r *resolver) visitAssignExpr(e *assignExpr) interface{} {
	r.resolveExpr(e.value)
	r.resolveWrite(e.exprID(), e.name)
	return nil
}

func (r *resolver) visitUnaryExpr(e *unaryExpr) interface{} {
	r.resolveExpr(e.right)
	return nil
}

func (r *resolver) visitBinaryExpr(e *binaryExpr) interface{} {
	r.resolveExpr(e.left)
	r.resolveExpr(e.right)
	return nil
}

func (r *resolver) visitLogicalExpr(e *logicalExpr) interface{} {
	r.resolveExpr(e.left)
	r.resolveExpr(e.right)
	return nil
}

func (r *resolver) visitTernaryExpr(e *ternaryExpr) interface{} {
	r.resolveExpr(e.cond)
	r.resolveExpr(e.ifTrue)
	r.resolveExpr(e.ifFalse)
	return nil
}

func (r *resolver) visitGroupingExpr(e *groupingExpr) interface{} {
	r.resolveExpr(e.expression)
	return nil
}

func (r *resolver) visitCallExpr(e *callExpr) interface{} {
	r.resolveExpr(e.callee)
	for _, arg := range e.arguments {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *resolver) visitGetExpr(e *getExpr) interface{} {
	r.resolveExpr(e.object)
	return nil
}

func (r *resolver) visitSetExpr(e *setExpr) interface{} {
	r.resolveExpr(e.value)
	r.resolveExpr(e.object)
	return nil
}

func (r *resolver) visitThisExpr(e *thisExpr) interface{} {
	if r.currentClass == noClass {
		r.sink.staticErrorAt(e.keyword, "Can't use 'this' outside of a class.")
		return nil
	}
	r.resolveRead(e.exprID(), e.keyword)
	return nil
}

func (r *resolver) visitSuperExpr(e *superExpr) interface{} {
	if r.currentClass == noClass {
		r.sink.staticErrorAt(e.keyword, "Can't use 'super' outside of a class.")
	} else if r.currentClass != inSubclass {
		r.sink.staticErrorAt(e.keyword, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveRead(e.exprID(), e.keyword)
	return nil
}

func (r *resolver) visitFunctionExpr(e *functionExpr) interface{} {
	r.resolveFunction(e, funcType)
	return nil
}
