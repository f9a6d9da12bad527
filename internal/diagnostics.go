package internal

import (
	"fmt"
	"io"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"
)

// log is the ambient operational logger (REPL lifecycle, file-mode
// timing, statement tracing). It is distinct from the diagnostic sink
// below, which carries user-facing syntax/runtime errors.
var log = logrus.New()

func init() {
	log.SetLevel(logrus.WarnLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// EnableTrace raises the ambient logger to debug level, used by the
// CLI driver's -trace flag.
func EnableTrace() {
	log.SetLevel(logrus.DebugLevel)
}

// runtimeErr carries the token (for its line) and message of a
// runtime error. It unwinds active call frames and block scopes via
// panic/recover and must never be confused with the Return/Break
// control signals that share the same mechanism.
type runtimeErr struct {
	token   *token
	message string
}

func (e *runtimeErr) Error() string {
	return e.message
}

// diagnosticSink accumulates syntax, static, and runtime diagnostics
// and exposes the had-error flags the driver consults to decide
// whether execution should proceed.
type diagnosticSink interface {
	syntaxErrorAt(line int, where string, message string)
	staticErrorAt(tok *token, message string)
	warningAt(line int, message string)
	runtimeError(err *runtimeErr)

	hadError() bool
	hadRuntimeError() bool
	reset()
}

// stdSink writes diagnostics to a writer in the conventional
// "[line N] Error ...: message" shape, coloring output when attached
// to a terminal.
type stdSink struct {
	out io.Writer

	errored        bool
	runtimeErrored bool
}

func newStdSink(out io.Writer) *stdSink {
	return &stdSink{out: out}
}

func (s *stdSink) syntaxErrorAt(line int, where string, message string) {
	s.errored = true
	if where != "" {
		s.report(line, fmt.Sprintf(" at '%s'", where), message)
		return
	}
	s.report(line, "", message)
}

func (s *stdSink) staticErrorAt(tok *token, message string) {
	s.errored = true
	where := ""
	if tok.kind == eof {
		where = " at end"
	} else {
		where = fmt.Sprintf(" at '%s'", tok.lexeme)
	}
	s.report(tok.line, where, message)
}

func (s *stdSink) warningAt(line int, message string) {
	s.errored = true
	fmt.Fprintf(s.out, "%s\n", color.Yellow(fmt.Sprintf("[line %d] Error: %s", line, message)))
}

func (s *stdSink) runtimeError(err *runtimeErr) {
	s.runtimeErrored = true
	fmt.Fprintf(s.out, "%s\n", color.Red(fmt.Sprintf("%s\n[line %d]", err.message, err.token.line)))
}

func (s *stdSink) report(line int, where string, message string) {
	fmt.Fprintf(s.out, "%s\n", color.Red(fmt.Sprintf("[line %d] Error%s: %s", line, where, message)))
}

func (s *stdSink) hadError() bool        { return s.errored }
func (s *stdSink) hadRuntimeError() bool { return s.runtimeErrored }

func (s *stdSink) reset() {
	s.errored = false
	s.runtimeErrored = false
}
