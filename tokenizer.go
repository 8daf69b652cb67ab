package siter

import (
	"unicode/utf8"
)

// Default marker text for the four punctuation tokens stage A recognizes.
// siter's grammar is fixed (unlike pongo2's configurable TokenSymbols
// table) but the constants are still named so a future per-project
// override has somewhere to live.
const (
	markerTagOpen  = "{{"
	markerTagClose = "}}"
	markerEval     = "!"
	markerEscape   = `\`
)

// markerOrder fixes the suffix-match precedence: longer delimiters must
// be tried before shorter ones that could also match the tail of the
// same run, exactly as CTokenizer._make_flat_tokens checks TagOpen and
// TagClose ahead of Eval and Escape.
var markerOrder = []struct {
	kind TokenKind
	text string
}{
	{KindTagOpen, markerTagOpen},
	{KindTagClose, markerTagClose},
	{KindEval, markerEval},
	{KindEscape, markerEscape},
}

// tokenizer turns template source into a nested token tree in two passes:
// stage A produces a flat stream (text/whitespace runs plus punctuation
// markers), stage B folds TagOpen/TagClose pairs into KindBlock tokens.
// The split mirrors pongo2's lex-then-parse separation, generalized from
// pongo2's many token types down to siter's handful.
type tokenizer struct {
	input string
	pos   int // byte offset
	line  int
	col   int
}

// Tokenize is the package's single entry point for turning source text
// into a TokenCollection, equivalent to CTokenizer.tokenize(). The only
// error it can return is a ParseError for mismatched {{ }} delimiters.
func Tokenize(name, input string) (TokenCollection, error) {
	t := &tokenizer{input: input, line: 1, col: 1}
	flat := t.scanFlat()
	return buildBlocks(name, flat)
}

func (t *tokenizer) next() (rune, bool) {
	if t.pos >= len(t.input) {
		return 0, false
	}
	r, w := utf8.DecodeRuneInString(t.input[t.pos:])
	t.pos += w
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return r, true
}

// scanFlat implements stage A: CTokenizer._make_flat_tokens ported
// character-by-character. current holds the in-progress run (all
// whitespace, or all non-whitespace); every appended rune is re-checked
// against markerOrder so a marker that completes mid-run splits the run
// at the right point.
func (t *tokenizer) scanFlat() TokenCollection {
	var flat TokenCollection
	var current []rune
	var currentKind TokenKind
	haveCurrent := false
	startLine, startCol := t.line, t.col

	add := func(tok *Token) {
		if n := len(flat); n > 0 && flat[n-1].Kind == KindEscape && isMarkerKind(tok.Kind) {
			flat[n-1] = &Token{Kind: KindText, Text: tok.Text, Line: flat[n-1].Line, Col: flat[n-1].Col}
			return
		}
		flat = append(flat, tok)
	}

	flushRun := func() {
		if len(current) > 0 {
			add(&Token{Kind: currentKind, Text: string(current), Line: startLine, Col: startCol})
		}
		current = nil
		haveCurrent = false
	}

	for {
		lineBefore, colBefore := t.line, t.col
		r, ok := t.next()
		if !ok {
			break
		}

		kind := KindText
		if isSpaceRune(r) {
			kind = KindWhitespace
		}

		if haveCurrent && kind != currentKind {
			flushRun()
		}
		if !haveCurrent {
			startLine, startCol = lineBefore, colBefore
			currentKind = kind
			haveCurrent = true
		}
		current = append(current, r)

		if markerKind, markerText, ok := matchMarkerSuffix(current); ok {
			prefix := current[:len(current)-len([]rune(markerText))]
			if len(prefix) > 0 {
				add(&Token{Kind: currentKind, Text: string(prefix), Line: startLine, Col: startCol})
			}
			add(&Token{Kind: markerKind, Text: markerText, Line: t.line, Col: t.col - len([]rune(markerText))})
			current = nil
			haveCurrent = false
		}
	}
	flushRun()

	return flat
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isMarkerKind(k TokenKind) bool {
	switch k {
	case KindTagOpen, KindTagClose, KindEval, KindEscape:
		return true
	default:
		return false
	}
}

// matchMarkerSuffix checks, in markerOrder's precedence, whether the
// accumulated run ends with one of the marker strings.
func matchMarkerSuffix(run []rune) (TokenKind, string, bool) {
	for _, m := range markerOrder {
		mr := []rune(m.text)
		if len(run) < len(mr) {
			continue
		}
		if string(run[len(run)-len(mr):]) != m.text {
			continue
		}
		return m.kind, m.text, true
	}
	return 0, "", false
}

// buildBlocks implements stage B: CTokenizer._make_block_tokens. A
// TagOpen pushes a fresh block onto the stack; a TagClose pops it and
// appends it, as a KindBlock token, to whatever collection is now on
// top (the enclosing block, or the root collection).
func buildBlocks(name string, flat TokenCollection) (TokenCollection, error) {
	var stack []*Token
	var root TokenCollection

	for _, tok := range flat {
		switch tok.Kind {
		case KindTagOpen:
			stack = append(stack, &Token{Kind: KindBlock, Line: tok.Line, Col: tok.Col})
		case KindTagClose:
			if len(stack) == 0 {
				return nil, &Error{Sender: "tokenizer", Kind: ErrParse, Filename: name,
					Line: tok.Line, Col: tok.Col, Message: "found extra closing tag"}
			}
			block := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Children = top.Children.Append(block)
			} else {
				root = root.Append(block)
			}
		default:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Children = top.Children.Append(tok)
			} else {
				root = root.Append(tok)
			}
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &Error{Sender: "tokenizer", Kind: ErrParse, Filename: name,
			Line: top.Line, Col: top.Col, Message: "missing closing tag"}
	}

	return root, nil
}
