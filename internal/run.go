package internal

import "io"

// Outcome is the result category of a Run call:
// run(source) -> {ok | syntax_errors | runtime_error}.
type Outcome int

const (
	Ok Outcome = iota
	SyntaxErrors
	RuntimeErrorOutcome
)

// Interpreter is a persistent handle that preserves global state
// across calls, for the REPL: each line is lexed, parsed, and resolved
// fresh, then executed against the same underlying interpreter and
// its globals.
type Interpreter struct {
	interp *interpreter
	sink   *stdSink
}

// NewInterpreter builds a fresh interpreter writing `print` output
// and diagnostics to out.
func NewInterpreter(out io.Writer) *Interpreter {
	sink := newStdSink(out)
	return &Interpreter{interp: newInterpreter(out, sink), sink: sink}
}

// Run lexes, parses, resolves, and — if no syntax or static error
// occurred — executes source against the persistent interpreter
// state. It is the core's entire externally consumed surface.
func (it *Interpreter) Run(source string) Outcome {
	it.sink.reset()

	lex := newLexer(source, it.sink)
	tokens := lex.scanTokens()
	if it.sink.hadError() {
		return SyntaxErrors
	}

	p := newParser(tokens, it.sink)
	statements := p.parse()
	if it.sink.hadError() {
		return SyntaxErrors
	}

	res := newResolver(it.sink)
	resolution := res.resolve(statements)
	if it.sink.hadError() {
		return SyntaxErrors
	}

	it.interp.interpret(statements, resolution)
	if it.sink.hadRuntimeError() {
		return RuntimeErrorOutcome
	}
	return Ok
}
