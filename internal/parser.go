package internal

// parserError is the panic value used to unwind out of a broken
// statement so the parser can resynchronize at the next boundary. The
// diagnostic has already been recorded in the sink by the time this
// is thrown; it carries no payload of its own.
type parserError struct{}

const maxArgs = 255

// parser is a recursive-descent, precedence-climbing parser producing
// a list of statements with panic-mode recovery at statement
// boundaries.
type parser struct {
	tokens  []*token
	current int
	sink    diagnosticSink

	nextID int
}

func newParser(tokens []*token, sink diagnosticSink) *parser {
	return &parser{tokens: tokens, sink: sink}
}

func (p *parser) id() int {
	id := p.nextID
	p.nextID++
	return id
}

func (p *parser) parse() []stmt {
	var statements []stmt
	for !p.isAtEnd() {
		s := p.declarationSync()
		if s != nil {
			statements = append(statements, s)
		}
	}
	return statements
}

// declarationSync wraps declaration() with panic-mode recovery.
func (p *parser) declarationSync() (s stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parserError); ok {
				p.synchronize()
				s = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

func (p *parser) declaration() stmt {
	if p.match(classTok) {
		return p.classDecl()
	}
	if p.match(fun) {
		return &functionStmt{function: p.function("function")}
	}
	if p.match(varTok) {
		return p.varDecl()
	}
	return p.statement()
}

func (p *parser) classDecl() stmt {
	name := p.consume(identifier, "Expect class name.")

	var superclass *variableExpr
	if p.match(less) {
		p.consume(identifier, "Expect superclass name.")
		superTok := p.previous()
		superclass = &variableExpr{exprBase: exprBase{id: p.id()}, name: superTok}
	}

	p.consume(leftBrace, "Expect '{' before class body.")

	var methods []*functionStmt
	var classMethods []*functionStmt
	for !p.check(rightBrace) && !p.isAtEnd() {
		if p.match(classTok) {
			classMethods = append(classMethods, &functionStmt{function: p.function("method")})
		} else {
			methods = append(methods, &functionStmt{function: p.function("method")})
		}
	}

	p.consume(rightBrace, "Expect '}' after class body.")

	return &classStmt{name: name, superclass: superclass, methods: methods, classMethods: classMethods}
}

// function parses the shared `IDENT "(" params? ")" block` production
// used by both fun decls and class methods; kind is "function" or
// "method", used only in error messages.
func (p *parser) function(kind string) *functionExpr {
	name := p.consume(identifier, "Expect "+kind+" name.")
	return p.functionBody(name, kind)
}

func (p *parser) functionBody(name *token, kind string) *functionExpr {
	p.consume(leftParen, "Expect '(' after "+kind+" name.")
	var params []*token
	if !p.check(rightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(identifier, "Expect parameter name."))
			if !p.match(comma) {
				break
			}
		}
	}
	p.consume(rightParen, "Expect ')' after parameters.")

	p.consume(leftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &functionExpr{exprBase: exprBase{id: p.id()}, name: name, params: params, body: body}
}

func (p *parser) varDecl() stmt {
	name := p.consume(identifier, "Expect variable name.")
	var initializer expr
	if p.match(equal) {
		initializer = p.expression()
	}
	p.consume(semicolon, "Expect ';' after variable declaration.")
	return &varStmt{name: name, initializer: initializer}
}

func (p *parser) statement() stmt {
	switch {
	case p.match(print):
		return p.printStatement()
	case p.match(leftBrace):
		return &blockStmt{statements: p.block()}
	case p.match(ifTok):
		return p.ifStatement()
	case p.match(whileTok):
		return p.whileStatement()
	case p.match(forTok):
		return p.forStatement()
	case p.match(returnTok):
		return p.returnStatement()
	case p.match(breakTok):
		return p.breakStatement()
	}
	return p.expressionStatement()
}

func (p *parser) printStatement() stmt {
	value := p.expression()
	p.consume(semicolon, "Expect ';' after value.")
	return &printStmt{expression: value}
}

func (p *parser) block() []stmt {
	var statements []stmt
	for !p.check(rightBrace) && !p.isAtEnd() {
		s := p.declarationSync()
		if s != nil {
			statements = append(statements, s)
		}
	}
	p.consume(rightBrace, "Expect '}' after block.")
	return statements
}

func (p *parser) ifStatement() stmt {
	p.consume(leftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(rightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch stmt
	if p.match(elseTok) {
		elseBranch = p.statement()
	}

	return &ifStmt{condition: condition, thenBranch: thenBranch, elseBranch: elseBranch}
}

func (p *parser) whileStatement() stmt {
	p.consume(leftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(rightParen, "Expect ')' after while condition.")
	body := p.statement()
	return &whileStmt{condition: condition, body: body}
}

// forStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }` at parse time.
func (p *parser) forStatement() stmt {
	p.consume(leftParen, "Expect '(' after 'for'.")

	var initializer stmt
	if p.match(semicolon) {
		initializer = nil
	} else if p.match(varTok) {
		initializer = p.varDecl()
	} else {
		initializer = p.expressionStatement()
	}

	var condition expr
	if !p.check(semicolon) {
		condition = p.expression()
	}
	p.consume(semicolon, "Expect ';' after loop condition.")

	var increment expr
	if !p.check(rightParen) {
		increment = p.expression()
	}
	p.consume(rightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &blockStmt{statements: []stmt{body, &expressionStmt{expression: increment}}}
	}

	if condition == nil {
		condition = &literalExpr{exprBase: exprBase{id: p.id()}, value: true}
	}
	body = &whileStmt{condition: condition, body: body}

	if initializer != nil {
		body = &blockStmt{statements: []stmt{initializer, body}}
	}

	return body
}

func (p *parser) returnStatement() stmt {
	keyword := p.previous()
	var value expr
	if !p.check(semicolon) {
		value = p.expression()
	}
	p.consume(semicolon, "Expect ';' after return value.")
	return &returnStmt{keyword: keyword, value: value}
}

func (p *parser) breakStatement() stmt {
	keyword := p.previous()
	p.consume(semicolon, "Expect ';' after 'break'.")
	return &breakStmt{keyword: keyword}
}

func (p *parser) expressionStatement() stmt {
	expression := p.expression()
	p.consume(semicolon, "Expect ';' after expression.")
	return &expressionStmt{expression: expression}
}

// --- expressions ---

func (p *parser) expression() expr {
	return p.assignment()
}

// assignment rewrites the left side of `=`:
// Variable -> Assign, Get -> Set, anything else -> reported error
// without aborting the parse.
func (p *parser) assignment() expr {
	e := p.ternary()

	if p.match(equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := e.(type) {
		case *variableExpr:
			return &assignExpr{exprBase: exprBase{id: p.id()}, name: target.name, value: value}
		case *getExpr:
			return &setExpr{exprBase: exprBase{id: p.id()}, object: target.object, name: target.name, value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return e
		}
	}

	return e
}

func (p *parser) ternary() expr {
	cond := p.or()
	if p.match(question) {
		ifTrue := p.expression()
		p.consume(colon, "Expect ':' in ternary expression.")
		ifFalse := p.ternary()
		return &ternaryExpr{exprBase: exprBase{id: p.id()}, cond: cond, ifTrue: ifTrue, ifFalse: ifFalse}
	}
	return cond
}

func (p *parser) or() expr {
	e := p.and()
	for p.match(or) {
		operator := p.previous()
		right := p.and()
		e = &logicalExpr{exprBase: exprBase{id: p.id()}, left: e, operator: operator, right: right}
	}
	return e
}

func (p *parser) and() expr {
	e := p.equality()
	for p.match(and) {
		operator := p.previous()
		right := p.equality()
		e = &logicalExpr{exprBase: exprBase{id: p.id()}, left: e, operator: operator, right: right}
	}
	return e
}

func (p *parser) equality() expr {
	e := p.comparison()
	for p.match(bangEqual, equalEqual) {
		operator := p.previous()
		right := p.comparison()
		e = &binaryExpr{exprBase: exprBase{id: p.id()}, left: e, operator: operator, right: right}
	}
	return e
}

func (p *parser) comparison() expr {
	e := p.term()
	for p.match(greater, greaterEqual, less, lessEqual) {
		operator := p.previous()
		right := p.term()
		e = &binaryExpr{exprBase: exprBase{id: p.id()}, left: e, operator: operator, right: right}
	}
	return e
}

func (p *parser) term() expr {
	e := p.factor()
	for p.match(minus, plus) {
		operator := p.previous()
		right := p.factor()
		e = &binaryExpr{exprBase: exprBase{id: p.id()}, left: e, operator: operator, right: right}
	}
	return e
}

func (p *parser) factor() expr {
	e := p.unary()
	for p.match(slash, star) {
		operator := p.previous()
		right := p.unary()
		e = &binaryExpr{exprBase: exprBase{id: p.id()}, left: e, operator: operator, right: right}
	}
	return e
}

func (p *parser) unary() expr {
	if p.match(bang, minus) {
		operator := p.previous()
		right := p.unary()
		return &unaryExpr{exprBase: exprBase{id: p.id()}, operator: operator, right: right}
	}
	return p.call()
}

func (p *parser) call() expr {
	e := p.primary()
	for {
		if p.match(leftParen) {
			e = p.finishCall(e)
		} else if p.match(dot) {
			name := p.consume(identifier, "Expect property name after '.'.")
			e = &getExpr{exprBase: exprBase{id: p.id()}, object: e, name: name}
		} else {
			break
		}
	}
	return e
}

func (p *parser) finishCall(callee expr) expr {
	var args []expr
	if !p.check(rightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(comma) {
				break
			}
		}
	}
	paren := p.consume(rightParen, "Expect ')' after arguments.")
	return &callExpr{exprBase: exprBase{id: p.id()}, callee: callee, paren: paren, arguments: args}
}

func (p *parser) primary() expr {
	switch {
	case p.match(falseTok):
		return &literalExpr{exprBase: exprBase{id: p.id()}, value: false}
	case p.match(trueTok):
		return &literalExpr{exprBase: exprBase{id: p.id()}, value: true}
	case p.match(nilTok):
		return &literalExpr{exprBase: exprBase{id: p.id()}, value: nil}
	case p.match(number, str):
		return &literalExpr{exprBase: exprBase{id: p.id()}, value: p.previous().literal}
	case p.match(super):
		keyword := p.previous()
		p.consume(dot, "Expect '.' after 'super'.")
		method := p.consume(identifier, "Expect superclass method name.")
		return &superExpr{exprBase: exprBase{id: p.id()}, keyword: keyword, method: method}
	case p.match(this):
		return &thisExpr{exprBase: exprBase{id: p.id()}, keyword: p.previous()}
	case p.match(identifier):
		return &variableExpr{exprBase: exprBase{id: p.id()}, name: p.previous()}
	case p.match(leftParen):
		e := p.expression()
		p.consume(rightParen, "Expect ')' after expression.")
		return &groupingExpr{exprBase: exprBase{id: p.id()}, expression: e}
	case p.match(fun):
		return p.lambda()
	}

	p.errorAt(p.peek(), "Expect expression.")
	panic(parserError{})
}

func (p *parser) lambda() expr {
	p.consume(leftParen, "Expect '(' after 'fun'.")
	var params []*token
	if !p.check(rightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(identifier, "Expect parameter name."))
			if !p.match(comma) {
				break
			}
		}
	}
	p.consume(rightParen, "Expect ')' after parameters.")
	p.consume(leftBrace, "Expect '{' before lambda body.")
	body := p.block()
	return &functionExpr{exprBase: exprBase{id: p.id()}, params: params, body: body}
}

// --- token stream helpers ---

func (p *parser) match(kinds ...tokenType) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(kind tokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().kind == kind
}

func (p *parser) advance() *token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) isAtEnd() bool {
	return p.peek().kind == eof
}

func (p *parser) peek() *token {
	return p.tokens[p.current]
}

func (p *parser) previous() *token {
	return p.tokens[p.current-1]
}

func (p *parser) consume(kind tokenType, message string) *token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	panic(parserError{})
}

func (p *parser) errorAt(tok *token, message string) {
	p.sink.staticErrorAt(tok, message)
}

// synchronize discards tokens until the next statement boundary: a
// consumed ';' or the next keyword starting a declaration/statement.
func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().kind == semicolon {
			return
		}
		switch p.peek().kind {
		case classTok, fun, varTok, forTok, ifTok, whileTok, print, returnTok:
			return
		}
		p.advance()
	}
}
