package internal

// tokenType is a closed enum over the grammar terminals.
type tokenType int

const (
	// Single-character tokens.
	leftParen tokenType = iota
	rightParen
	leftBrace
	rightBrace
	comma
	dot
	minus
	plus
	semicolon
	slash
	star
	question
	colon

	// One or two character tokens.
	bang
	bangEqual
	equal
	equalEqual
	greater
	greaterEqual
	less
	lessEqual

	// Literals.
	identifier
	str
	number

	// Keywords.
	and
	classTok
	elseTok
	falseTok
	fun
	forTok
	ifTok
	nilTok
	or
	print
	returnTok
	super
	this
	trueTok
	varTok
	whileTok
	breakTok

	eof
)

var keywords = map[string]tokenType{
	"and":    and,
	"class":  classTok,
	"else":   elseTok,
	"false":  falseTok,
	"for":    forTok,
	"fun":    fun,
	"if":     ifTok,
	"nil":    nilTok,
	"or":     or,
	"print":  print,
	"return": returnTok,
	"super":  super,
	"this":   this,
	"true":   trueTok,
	"var":    varTok,
	"while":  whileTok,
	"break":  breakTok,
}

// token is an immutable lexical unit produced by the lexer.
type token struct {
	kind    tokenType
	lexeme  string
	literal interface{}
	line    int
}

func (t *token) String() string {
	return t.lexeme
}
