package internal

import (
	"bytes"
	"strings"
	"testing"
)

func runForOutput(t *testing.T, source string) (string, Outcome) {
	t.Helper()
	var buf bytes.Buffer
	it := NewInterpreter(&buf)
	outcome := it.Run(source)
	return buf.String(), outcome
}

func expectOutput(t *testing.T, source, want string) {
	t.Helper()
	got, outcome := runForOutput(t, source)
	if outcome != Ok {
		t.Fatalf("source errored (%v):\n%s\ngot output:\n%s", outcome, source, got)
	}
	if got != want {
		t.Errorf("source:\n%s\nwant:\n%q\ngot:\n%q", source, want, got)
	}
}

// Closures capture the enclosing variable, not a snapshot of it.
func TestClosureCapturesVariableNotSnapshot(t *testing.T) {
	source := `
var a = "global";
{
	fun show() { print a; }
	show();
	var a = "block";
	show();
	print a;
}
`
	expectOutput(t, source, "global\nglobal\nblock\n")
}

// Inheritance and super.
func TestInheritanceAndSuper(t *testing.T) {
	source := `
class A {
	m() { print "A"; }
}
class B < A {
	m() { super.m(); print "B"; }
}
B().m();
`
	expectOutput(t, source, "A\nB\n")
}

// init always yields the receiver, regardless of an explicit bare
// return.
func TestInitializerReturnsReceiver(t *testing.T) {
	source := `
class C {
	init(x) { this.x = x; return; }
}
print C(3).x;
`
	expectOutput(t, source, "3\n")
}

// Class (static) methods.
func TestClassMethod(t *testing.T) {
	source := `
class Math {
	class square(n) { return n * n; }
}
print Math.square(4);
`
	expectOutput(t, source, "16\n")
}

// Class methods are not inherited: a subclass's metaclass chain is
// always empty, so a static method defined on a superclass is not
// reachable through the subclass.
func TestClassMethodsAreNotInherited(t *testing.T) {
	source := `
class A {
	class make() { return "made"; }
}
class B < A {}
print B.make();
`
	out, outcome := runForOutput(t, source)
	if outcome != RuntimeErrorOutcome {
		t.Fatalf("expected undefined-property runtime error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Undefined property 'make'.") {
		t.Errorf("unexpected message: %s", out)
	}
}

// for desugaring and break.
func TestForDesugaringAndBreak(t *testing.T) {
	source := `
for (var i = 0; i < 5; i = i + 1) {
	if (i == 3) break;
	print i;
}
`
	expectOutput(t, source, "0\n1\n2\n")
}

func TestTernary(t *testing.T) {
	expectOutput(t, `print true ? "yes" : "no";`, "yes\n")
	expectOutput(t, `print false ? "yes" : "no";`, "no\n")
}

func TestStringConcatenationAndNumberAddition(t *testing.T) {
	expectOutput(t, `print "a" + "b";`, "ab\n")
	expectOutput(t, `print 1 + 2;`, "3\n")
}

func TestMixedPlusOperandsIsRuntimeError(t *testing.T) {
	out, outcome := runForOutput(t, `print "a" + 1;`)
	if outcome != RuntimeErrorOutcome {
		t.Fatalf("expected runtime error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Operands must be two numbers or two strings.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestDivisionByZeroProducesInfNotError(t *testing.T) {
	expectOutput(t, `print 1 / 0;`, "+Inf\n")
}

// A global `var a = a;` reads the uninitialized marker at runtime
// instead of failing to resolve.
func TestGlobalSelfReferenceReadsUninitializedAtRuntime(t *testing.T) {
	out, outcome := runForOutput(t, `var a = a; print a;`)
	if outcome != RuntimeErrorOutcome {
		t.Fatalf("expected runtime error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Use of uninitialized variable 'a'.") {
		t.Errorf("unexpected message: %s", out)
	}
}

// The same pattern at local scope is a static error instead.
func TestLocalSelfReferenceIsStaticError(t *testing.T) {
	out, outcome := runForOutput(t, `{ var a = a; }`)
	if outcome != SyntaxErrors {
		t.Fatalf("expected syntax/static error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Can't read local variable in its own initializer.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestUnusedLocalWarning(t *testing.T) {
	out, outcome := runForOutput(t, `fun f() { var x = 1; }`)
	if outcome != SyntaxErrors {
		t.Fatalf("expected warning to set had-error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Local variable x not used.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestUsedLocalProducesNoWarning(t *testing.T) {
	out, outcome := runForOutput(t, `fun g() { var x = 1; print x; }`)
	if outcome != Ok {
		t.Fatalf("expected clean run, got %v (%s)", outcome, out)
	}
	if out != "" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestPersistentInterpreterKeepsGlobalsAcrossRuns(t *testing.T) {
	var buf bytes.Buffer
	it := NewInterpreter(&buf)

	if outcome := it.Run(`var counter = 0;`); outcome != Ok {
		t.Fatalf("first run failed: %v", outcome)
	}
	if outcome := it.Run(`counter = counter + 1; print counter;`); outcome != Ok {
		t.Fatalf("second run failed: %v", outcome)
	}
	if outcome := it.Run(`counter = counter + 1; print counter;`); outcome != Ok {
		t.Fatalf("third run failed: %v", outcome)
	}

	if buf.String() != "1\n2\n" {
		t.Errorf("globals did not persist across runs: %q", buf.String())
	}
}

func TestMoreThan255ArgumentsIsStaticErrorButParsingContinues(t *testing.T) {
	var args []string
	for i := 0; i < 256; i++ {
		args = append(args, "1")
	}
	source := "fun f() {}\nf(" + strings.Join(args, ",") + ");\nprint 1;\n"
	out, outcome := runForOutput(t, source)
	if outcome != SyntaxErrors {
		t.Fatalf("expected static error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Can't have more than 255 arguments.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestBreakOutsideLoopIsStaticError(t *testing.T) {
	out, outcome := runForOutput(t, `break;`)
	if outcome != SyntaxErrors {
		t.Fatalf("expected static error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Can't break outside of loop body.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestThisOutsideClassIsStaticError(t *testing.T) {
	out, outcome := runForOutput(t, `print this;`)
	if outcome != SyntaxErrors {
		t.Fatalf("expected static error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Can't use 'this' outside of a class.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestClassInheritingFromItselfIsStaticError(t *testing.T) {
	out, outcome := runForOutput(t, `class A < A {}`)
	if outcome != SyntaxErrors {
		t.Fatalf("expected static error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "A class can't inherit from itself.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestUndefinedPropertyIsRuntimeError(t *testing.T) {
	out, outcome := runForOutput(t, `class A {} print A().missing;`)
	if outcome != RuntimeErrorOutcome {
		t.Fatalf("expected runtime error, got %v (%s)", outcome, out)
	}
	if !strings.Contains(out, "Undefined property 'missing'.") {
		t.Errorf("unexpected message: %s", out)
	}
}

func TestFieldsShadowMethodsOnRead(t *testing.T) {
	source := `
class A {
	m() { return "method"; }
}
var a = A();
a.m = "field";
print a.m;
`
	expectOutput(t, source, "field\n")
}

func TestClockReturnsNumber(t *testing.T) {
	_, outcome := runForOutput(t, `var t = clock(); if (t < 0) { print "bad"; }`)
	if outcome != Ok {
		t.Fatalf("expected clean run, got %v", outcome)
	}
}
