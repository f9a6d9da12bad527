package internal

// expr is the sum type of expression AST nodes. Every
// node carries a stable identity (exprID) used as the resolution
// map's key — assigned once, at parse time, and never reused.
type expr interface {
	accept(v exprVisitor) interface{}
	exprID() int
}

type exprVisitor interface {
	visitLiteralExpr(e *literalExpr) interface{}
	visitVariableExpr(e *variableExpr) interface{}
	visitAssignExpr(e *assignExpr) interface{}
	visitUnaryExpr(e *unaryExpr) interface{}
	visitBinaryExpr(e *binaryExpr) interface{}
	visitLogicalExpr(e *logicalExpr) interface{}
	visitTernaryExpr(e *ternaryExpr) interface{}
	visitGroupingExpr(e *groupingExpr) interface{}
	visitCallExpr(e *callExpr) interface{}
	visitGetExpr(e *getExpr) interface{}
	visitSetExpr(e *setExpr) interface{}
	visitThisExpr(e *thisExpr) interface{}
	visitSuperExpr(e *superExpr) interface{}
	visitFunctionExpr(e *functionExpr) interface{}
}

type exprBase struct {
	id int
}

func (b *exprBase) exprID() int { return b.id }

type literalExpr struct {
	exprBase
	value interface{}
}

func (e *literalExpr) accept(v exprVisitor) interface{} { return v.visitLiteralExpr(e) }

type variableExpr struct {
	exprBase
	name *token
}

func (e *variableExpr) accept(v exprVisitor) interface{} { return v.visitVariableExpr(e) }

type assignExpr struct {
	exprBase
	name  *token
	value expr
}

func (e *assignExpr) accept(v exprVisitor) interface{} { return v.visitAssignExpr(e) }

type unaryExpr struct {
	exprBase
	operator *token
	right    expr
}

func (e *unaryExpr) accept(v exprVisitor) interface{} { return v.visitUnaryExpr(e) }

type binaryExpr struct {
	exprBase
	left     expr
	operator *token
	right    expr
}

func (e *binaryExpr) accept(v exprVisitor) interface{} { return v.visitBinaryExpr(e) }

type logicalExpr struct {
	exprBase
	left     expr
	operator *token
	right    expr
}

func (e *logicalExpr) accept(v exprVisitor) interface{} { return v.visitLogicalExpr(e) }

// ternaryExpr is `cond ? ifTrue : ifFalse`.
type ternaryExpr struct {
	exprBase
	cond    expr
	ifTrue  expr
	ifFalse expr
}

func (e *ternaryExpr) accept(v exprVisitor) interface{} { return v.visitTernaryExpr(e) }

type groupingExpr struct {
	exprBase
	expression expr
}

func (e *groupingExpr) accept(v exprVisitor) interface{} { return v.visitGroupingExpr(e) }

type callExpr struct {
	exprBase
	callee    expr
	paren     *token
	arguments []expr
}

func (e *callExpr) accept(v exprVisitor) interface{} { return v.visitCallExpr(e) }

type getExpr struct {
	exprBase
	object expr
	name   *token
}

func (e *getExpr) accept(v exprVisitor) interface{} { return v.visitGetExpr(e) }

type setExpr struct {
	exprBase
	object expr
	name   *token
	value  expr
}

func (e *setExpr) accept(v exprVisitor) interface{} { return v.visitSetExpr(e) }

type thisExpr struct {
	exprBase
	keyword *token
}

func (e *thisExpr) accept(v exprVisitor) interface{} { return v.visitThisExpr(e) }

type superExpr struct {
	exprBase
	keyword *token
	method  *token
}

func (e *superExpr) accept(v exprVisitor) interface{} { return v.visitSuperExpr(e) }

// functionExpr is the lambda form. name is non-nil only when this
// node is embedded in a function/method declaration statement.
type functionExpr struct {
	exprBase
	name   *token
	params []*token
	body   []stmt
}

func (e *functionExpr) accept(v exprVisitor) interface{} { return v.visitFunctionExpr(e) }
