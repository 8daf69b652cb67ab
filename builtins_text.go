package siter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/russross/blackfriday/v2"
)

// builtinAnchor implements `anchor`: lowercases a heading's text and
// replaces spaces with hyphens, producing a stable id for in-page links.
// The Go port of CFunctions.anchor.
func builtinAnchor(_ *Evaluator, args []string) (string, error) {
	return strings.ReplaceAll(strings.ToLower(args[0]), " ", "-"), nil
}

// markdownExtensions mirrors the original's Python-Markdown extension
// set (CodeHiliteExtension, FencedCodeExtension, TocExtension) with
// blackfriday's closest equivalents: fenced code blocks, autogenerated
// heading IDs (TOC anchors), and tables, grounded on blackfriday's own
// Extensions bitmask API.
const markdownExtensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs

// builtinMarkdown implements `md`: renders the argument as Markdown to
// HTML. The Go port of CFunctions.markdown (Siter.md.reset().convert).
func builtinMarkdown(_ *Evaluator, args []string) (string, error) {
	html, err := RenderMarkdown(args[0])
	return html, err
}

// RenderMarkdown renders Markdown source to HTML. Exported so
// internal/site's driver can apply the same Markdown pass to a page's
// full body when binding content (see DESIGN.md's "content
// Markdown-ification timing" decision), without duplicating blackfriday
// wiring outside this file.
func RenderMarkdown(source string) (string, error) {
	output := blackfriday.Run([]byte(source), blackfriday.WithExtensions(markdownExtensions))
	return string(output), nil
}

// codeStyle is the chroma style used for highlighted code blocks,
// matching the css-class-driven approach of the original's Pygments
// HtmlFormatter(cssclass=siter_code) rather than inline styles, so a
// project's stylesheet controls the final colors.
const codeStyle = "github"

// builtinCode implements `code`: 1-arg is plain text, 2-arg is
// language-tagged, 3-arg additionally marks specific lines as
// highlighted. A single-line snippet renders as an escaped inline
// <code> element; anything with a newline goes through syntax
// highlighting as a full block. The Go port of CFunctions.highlight_code.
func builtinCode(_ *Evaluator, args []string) (string, error) {
	var lang, code string
	var highlightLines [][2]int

	switch len(args) {
	case 1:
		lang, code = "text", args[0]
	case 2:
		lang, code = strings.ToLower(args[0]), args[1]
	case 3:
		lang, code = strings.ToLower(args[0]), args[2]
		for _, field := range strings.Fields(args[1]) {
			n, err := strconv.Atoi(field)
			if err == nil {
				highlightLines = append(highlightLines, [2]int{n, n})
			}
		}
	}

	if !strings.Contains(code, "\n") {
		escaped := strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(code)
		return "<code>" + escaped + "</code>", nil
	}

	return highlightBlock(lang, code, highlightLines)
}

func highlightBlock(lang, code string, highlightLines [][2]int) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := html.New(
		html.WithLineNumbers(true),
		html.WithClasses(true),
		html.ClassPrefix(codeStyle+"-"),
		html.HighlightLines(highlightLines),
	)

	style := styles.Get(codeStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="` + PygmentsDivClass + `">`)
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	buf.WriteString(`</div>`)

	return buf.String(), nil
}

// PygmentsDivClass is the wrapping CSS class for highlighted code,
// carried over by name from the original's CSettings.PygmentsDiv so
// existing siter stylesheets keep working unchanged.
const PygmentsDivClass = "siter_code"
