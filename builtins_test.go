package siter

import (
	"strings"
	"testing"
)

func TestBuiltinAnchorLowercasesAndHyphenates(t *testing.T) {
	got, err := builtinAnchor(nil, []string{"My Great Title"})
	if err != nil {
		t.Fatalf("builtinAnchor error: %v", err)
	}
	if want := "my-great-title"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuiltinDatefmtReformatsIsoDate(t *testing.T) {
	got, err := builtinDatefmt(&Evaluator{}, []string{"2026-07-31", "%B %d, %Y"})
	if err != nil {
		t.Fatalf("builtinDatefmt error: %v", err)
	}
	if want := "July 31, 2026"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuiltinDatefmtWarnsAndPassesThroughOnMalformedDate(t *testing.T) {
	var warnings []*Warning
	ev := &Evaluator{Warn: func(w *Warning) { warnings = append(warnings, w) }}

	got, err := builtinDatefmt(ev, []string{"not-a-date", "%Y"})
	if err != nil {
		t.Fatalf("builtinDatefmt error: %v", err)
	}
	if want := "not-a-date"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(warnings) != 1 || warnings[0].Kind != ErrValue {
		t.Errorf("warnings = %v, want one ErrValue", warnings)
	}
}

func TestBuiltinMarkdownRendersToHtml(t *testing.T) {
	got, err := builtinMarkdown(nil, []string{"# Title\n\nSome *text*."})
	if err != nil {
		t.Fatalf("builtinMarkdown error: %v", err)
	}
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "<em>text</em>") {
		t.Errorf("got %q, want an <h1> heading and an <em> emphasis", got)
	}
}

func TestBuiltinCodeSingleLineEscapesAndWrapsInline(t *testing.T) {
	got, err := builtinCode(nil, []string{"a < b"})
	if err != nil {
		t.Fatalf("builtinCode error: %v", err)
	}
	if want := "<code>a &lt; b</code>"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuiltinCodeMultiLineHighlightsBlock(t *testing.T) {
	got, err := builtinCode(nil, []string{"go", "func main() {}\nreturn"})
	if err != nil {
		t.Fatalf("builtinCode error: %v", err)
	}
	if !strings.Contains(got, `<div class="siter_code">`) {
		t.Errorf("got %q, want a wrapping siter_code div", got)
	}
}

func TestBuiltinCodeWithHighlightedLines(t *testing.T) {
	got, err := builtinCode(nil, []string{"go", "1", "func main() {}\nreturn\nend"})
	if err != nil {
		t.Fatalf("builtinCode error: %v", err)
	}
	if !strings.Contains(got, `<div class="siter_code">`) {
		t.Errorf("got %q, want a wrapping siter_code div", got)
	}
}

func TestBuiltinDefDeclaresVariable(t *testing.T) {
	env := NewBindingEnvironment()
	ev := &Evaluator{Bindings: env}

	nameArg := &Token{Kind: KindBlock, Children: TextCollection("greeting")}
	valueArg := &Token{Kind: KindBlock, Children: TextCollection("hi")}

	result, err := builtinDef(ev, []*Token{nameArg, valueArg})
	if err != nil {
		t.Fatalf("builtinDef error: %v", err)
	}
	if result.Kind != KindBlock || len(result.Children) != 0 {
		t.Errorf("builtinDef result = %+v, want an empty block", result)
	}
	if !env.Contains("greeting") {
		t.Fatal("expected builtinDef to declare the 'greeting' binding")
	}
	if got := ev.EvaluateCollection(env.Get("greeting").Body).Resolve(); got != "hi" {
		t.Errorf("declared body resolved to %q, want %q", got, "hi")
	}
}

func TestBuiltinIfReturnsMatchingBranch(t *testing.T) {
	env := NewBindingEnvironment()
	env.AddVariable("known", nil, false)
	ev := &Evaluator{Bindings: env}

	clause := &Token{Kind: KindBlock, Children: TextCollection("known")}
	thenBranch := &Token{Kind: KindBlock, Children: TextCollection("yes")}
	elseBranch := &Token{Kind: KindBlock, Children: TextCollection("no")}

	got, err := builtinIf(ev, []*Token{clause, thenBranch, elseBranch})
	if err != nil {
		t.Fatalf("builtinIf error: %v", err)
	}
	if got != thenBranch {
		t.Errorf("builtinIf returned %v, want the then-branch", got)
	}

	clause2 := &Token{Kind: KindBlock, Children: TextCollection("unknown")}
	got2, err := builtinIf(ev, []*Token{clause2, thenBranch, elseBranch})
	if err != nil {
		t.Fatalf("builtinIf error: %v", err)
	}
	if got2 != elseBranch {
		t.Errorf("builtinIf returned %v, want the else-branch", got2)
	}
}
