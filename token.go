package siter

import (
	"fmt"
	"strings"
)

// TokenKind classifies the lexical role of a Token. Unlike pongo2's
// TokenType, which distinguishes Django-syntax grammar categories
// (identifier, string, number, symbol...), TokenKind distinguishes the
// much smaller set of roles siter's uniform {{ }} grammar needs.
type TokenKind int

const (
	// KindText is raw, opaque content: page prose, HTML, names, args.
	KindText TokenKind = iota

	// KindWhitespace is a run of space/tab/newline content. Kept distinct
	// from KindText so Trim and Capture can skip it without inspecting
	// the text itself.
	KindWhitespace

	// KindTagOpen is the literal "{{" delimiter.
	KindTagOpen

	// KindTagClose is the literal "}}" delimiter.
	KindTagClose

	// KindEval is the eval-hint marker ("!" by default) that opens a
	// block calling a binding rather than merely grouping tokens.
	KindEval

	// KindEscape is the backslash escape marker. When a marker token
	// follows it, the tokenizer folds the pair into one KindText token
	// holding the marker's literal text (the backslash is dropped); an
	// escape not followed by a marker stays and resolves to "\".
	KindEscape

	// KindBlock is a nested, fully-delimited {{ ... }} span. Its Children
	// field holds everything between the TagOpen and TagClose.
	KindBlock
)

func (k TokenKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindWhitespace:
		return "Whitespace"
	case KindTagOpen:
		return "TagOpen"
	case KindTagClose:
		return "TagClose"
	case KindEval:
		return "Eval"
	case KindEscape:
		return "Escape"
	case KindBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Token is a single element of a tokenized template. Blocks nest a full
// TokenCollection in Children; every other kind carries its literal text
// in Text (for KindEscape, the backslash itself).
type Token struct {
	Kind     TokenKind
	Text     string
	Children TokenCollection

	Line int
	Col  int
}

// String renders a short debug form, mirroring pongo2's Token.String()
// convention of a bracketed one-liner rather than a struct dump.
func (t *Token) String() string {
	if t.Kind == KindBlock {
		return fmt.Sprintf("<Token Kind=Block Line=%d Col=%d Children=%d>",
			t.Line, t.Col, len(t.Children))
	}
	val := t.Text
	if len(val) > 200 {
		val = val[:200] + "..."
	}
	return fmt.Sprintf("<Token Kind=%s Val=%q Line=%d Col=%d>", t.Kind, val, t.Line, t.Col)
}

// TokenCollection is an ordered sequence of tokens: a page body, a block's
// children, a macro body, an argument. It is the one container type every
// stage of the pipeline (tokenizer, evaluator, bindings) passes around.
type TokenCollection []*Token

// Append adds tokens to the end of the collection, returning the result
// (TokenCollection is a slice; Append exists so call sites read the same
// way regardless of whether a realloc happens).
func (c TokenCollection) Append(tokens ...*Token) TokenCollection {
	return append(c, tokens...)
}

// AddCollection appends every token of other to c.
func (c TokenCollection) AddCollection(other TokenCollection) TokenCollection {
	return append(c, other...)
}

// TextCollection constructs a single-token collection wrapping literal
// text, the way the original's CTokenizer.text() helper does for
// synthesized bindings (generated, root, ...).
func TextCollection(s string) TokenCollection {
	return TokenCollection{{Kind: KindText, Text: s}}
}

// Resolve serializes the collection back to source text. For KindBlock
// tokens this reproduces the original "{{ ... }}" wrapper around the
// resolved children, which is what lets an un-evaluated block round-trip
// losslessly and what lets an evaluated block's KindText result splice
// straight back into surrounding prose.
func (c TokenCollection) Resolve() string {
	var b strings.Builder
	for _, t := range c {
		switch t.Kind {
		case KindBlock:
			b.WriteString(markerTagOpen)
			b.WriteString(t.Children.Resolve())
			b.WriteString(markerTagClose)
		default:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// Filter returns, in order, every token in c whose Kind matches one of
// kinds. Used by the def builtin to pull the Text tokens out of a
// parameter-list block and by captureArgs to collect argument blocks.
func (c TokenCollection) Filter(kinds ...TokenKind) TokenCollection {
	want := make(map[TokenKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out TokenCollection
	for _, t := range c {
		if want[t.Kind] {
			out = append(out, t)
		}
	}
	return out
}

// Trim strips leading and trailing KindWhitespace tokens from c in place,
// mirroring CTokenCollection.trim(). Called after every block evaluation
// so that the whitespace used to separate a call from its arguments in
// source doesn't leak into rendered output.
func (c *TokenCollection) Trim() {
	tokens := *c
	start := 0
	for start < len(tokens) && tokens[start].Kind == KindWhitespace {
		start++
	}
	end := len(tokens)
	for end > start && tokens[end-1].Kind == KindWhitespace {
		end--
	}
	*c = append(TokenCollection{}, tokens[start:end]...)
}

// Capture scans c from the start, matching one token per element of
// kinds in order, skipping over (but not consuming past) interleaved
// whitespace. It returns the matched head tokens and the remaining tail
// as a fresh collection, or (nil, nil) if any element of kinds fails to
// match before a non-whitespace mismatch or the collection ends.
//
// This is the Go port of CTokenCollection.capture(*Args); it underlies
// both call-name detection (Capture(KindEval, KindText)) and the
// single-argument-sugar tail split used by capture_args.
func (c TokenCollection) Capture(kinds ...TokenKind) (head TokenCollection, tail TokenCollection) {
	i := 0
	for _, kind := range kinds {
		found := false
		for i < len(c) {
			tok := c[i]
			i++
			if tok.Kind == kind {
				found = true
				head = append(head, tok)
				break
			} else if tok.Kind != KindWhitespace {
				break
			}
		}
		if !found {
			return nil, nil
		}
	}
	tail = append(TokenCollection{}, c[i:]...)
	return head, tail
}
