package internal

import "testing"

func resolveSource(t *testing.T, source string) (map[int]int, *collectingSink) {
	t.Helper()
	sink := newCollectingSink()
	tokens := newLexer(source, sink).scanTokens()
	statements := newParser(tokens, sink).parse()
	if sink.hadError() {
		return nil, sink
	}
	resolution := newResolver(sink).resolve(statements)
	return resolution, sink
}

func TestResolverAnnotatesLocalNotGlobal(t *testing.T) {
	resolution, sink := resolveSource(t, `var g = 1; { var l = 2; print l; print g; }`)
	if sink.hadError() {
		t.Fatalf("unexpected error: %v", sink.messages)
	}
	if len(resolution) != 1 {
		t.Fatalf("expected exactly one annotated read (the local), got %d entries", len(resolution))
	}
}

func TestResolverRedeclarationInSameScopeIsError(t *testing.T) {
	_, sink := resolveSource(t, `{ var a = 1; var a = 2; }`)
	if !sink.hadError() {
		t.Fatal("expected redeclaration error")
	}
	if !containsMessage(sink.messages, "Already a variable with this name in this scope.") {
		t.Errorf("unexpected messages: %v", sink.messages)
	}
}

func TestResolverGlobalRedefinitionIsPermitted(t *testing.T) {
	_, sink := resolveSource(t, `var a = 1; var a = 2;`)
	if sink.hadError() {
		t.Errorf("global redefinition should not be a static error, got: %v", sink.messages)
	}
}

func TestResolverReturnFromTopLevelIsError(t *testing.T) {
	_, sink := resolveSource(t, `return 1;`)
	if !sink.hadError() {
		t.Fatal("expected top-level return error")
	}
	if !containsMessage(sink.messages, "Can't return from top-level code.") {
		t.Errorf("unexpected messages: %v", sink.messages)
	}
}

func TestResolverReturnValueFromInitializerIsError(t *testing.T) {
	_, sink := resolveSource(t, `class A { init() { return 1; } }`)
	if !sink.hadError() {
		t.Fatal("expected initializer-return-value error")
	}
	if !containsMessage(sink.messages, "Can't return a value from an initializer.") {
		t.Errorf("unexpected messages: %v", sink.messages)
	}
}

func TestResolverBareReturnFromInitializerIsFine(t *testing.T) {
	_, sink := resolveSource(t, `class A { init() { return; } }`)
	if sink.hadError() {
		t.Errorf("bare return from initializer should be fine, got: %v", sink.messages)
	}
}

func TestResolverSuperWithNoSuperclassIsError(t *testing.T) {
	_, sink := resolveSource(t, `class A { m() { super.m(); } }`)
	if !sink.hadError() {
		t.Fatal("expected super-with-no-superclass error")
	}
	if !containsMessage(sink.messages, "Can't use 'super' in a class with no superclass.") {
		t.Errorf("unexpected messages: %v", sink.messages)
	}
}

func TestResolverParametersNeverWarnUnused(t *testing.T) {
	_, sink := resolveSource(t, `fun f(x) { print 1; }`)
	if sink.hadError() {
		t.Errorf("unused parameter should never warn, got: %v", sink.messages)
	}
}

func TestResolverDuplicateParameterIsError(t *testing.T) {
	_, sink := resolveSource(t, `fun f(a, a) { print a; }`)
	if !sink.hadError() {
		t.Fatal("expected duplicate-parameter error")
	}
	if !containsMessage(sink.messages, "Already a variable with this name in this scope.") {
		t.Errorf("unexpected messages: %v", sink.messages)
	}
}

func TestResolverReresolutionIsIdempotent(t *testing.T) {
	source := `var g = 1; { var l = 2; fun f() { return l + g; } print f(); }`
	sink := newCollectingSink()
	tokens := newLexer(source, sink).scanTokens()
	statements := newParser(tokens, sink).parse()
	if sink.hadError() {
		t.Fatalf("unexpected parse error: %v", sink.messages)
	}

	first := newResolver(newCollectingSink()).resolve(statements)
	second := newResolver(newCollectingSink()).resolve(statements)

	if len(first) != len(second) {
		t.Fatalf("resolution map sizes differ: %d vs %d", len(first), len(second))
	}
	for id, depth := range first {
		if second[id] != depth {
			t.Errorf("depth for expr %d differs: %d vs %d", id, depth, second[id])
		}
	}
}

func containsMessage(messages []string, want string) bool {
	for _, m := range messages {
		if m == want {
			return true
		}
	}
	return false
}
