package siter

import "testing"

func TestBindingEnvironmentAddAndGet(t *testing.T) {
	env := NewBindingEnvironment()

	if env.Contains("greeting") {
		t.Fatal("fresh environment should not contain any bindings")
	}

	if err := env.AddVariable("greeting", TextCollection("hi"), false); err != nil {
		t.Fatalf("AddVariable() error: %v", err)
	}
	if !env.Contains("greeting") {
		t.Fatal("expected greeting to be bound")
	}
	if got := env.Get("greeting").Body.Resolve(); got != "hi" {
		t.Errorf("Get(greeting).Body.Resolve() = %q, want %q", got, "hi")
	}
}

func TestBindingEnvironmentProtectedCannotBeOverwritten(t *testing.T) {
	env := NewBindingEnvironment()
	if err := env.AddVariable("generated", TextCollection("2026-01-01"), true); err != nil {
		t.Fatalf("AddVariable() error: %v", err)
	}

	err := env.AddVariable("generated", TextCollection("2099-01-01"), false)
	if err == nil {
		t.Fatal("expected an error overwriting a protected binding")
	}

	siterErr, ok := err.(*Error)
	if !ok || siterErr.Kind != ErrOverwrite {
		t.Errorf("error = %v, want ErrOverwrite", err)
	}
}

func TestBindingEnvironmentPushPopIsolatesScope(t *testing.T) {
	env := NewBindingEnvironment()
	env.AddVariable("name", TextCollection("outer"), false)

	env.Push()
	env.AddVariable("name", TextCollection("inner"), false)
	if got := env.Get("name").Body.Resolve(); got != "inner" {
		t.Errorf("inner scope name = %q, want %q", got, "inner")
	}
	env.Pop()

	if got := env.Get("name").Body.Resolve(); got != "outer" {
		t.Errorf("outer scope name after Pop() = %q, want %q", got, "outer")
	}
}

func TestBindingEnvironmentPushCopyDoesNotAliasParent(t *testing.T) {
	env := NewBindingEnvironment()
	env.AddVariable("a", TextCollection("1"), false)

	env.Push()
	env.AddVariable("b", TextCollection("2"), false)
	env.Pop()

	if env.Contains("b") {
		t.Fatal("binding added in a child scope must not leak to the parent after Pop()")
	}
}
