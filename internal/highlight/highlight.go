// Package highlight turns snippet content into styled text using chroma.
// The syntax is chosen from the snippet name's extension.
package highlight

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// extensionAliases are consulted when no lexer claims an extension directly.
var extensionAliases = map[string]string{
	"ts":  "js",
	"tsx": "js",
	"jsx": "js",
	"yml": "yaml",
	"h":   "c",
}

// Segment is a run of text drawn in one style.
type Segment struct {
	// Color is a "#rrggbb" foreground, or empty for the terminal default.
	Color string
	Bold  bool
	Text  string
}

// Line is one source line. The segment texts concatenate to the source
// line, including its terminator.
type Line []Segment

// Text returns the line's text.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Highlighter renders content with a chroma style.
type Highlighter struct {
	style *chroma.Style
}

// New returns a Highlighter using the named chroma style. Unknown names fall
// back to chroma's default style.
func New(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &Highlighter{style: styles.Get(styleName)}
}

// Extension returns the text after the last '.' in name, or name itself
// when it has no dot.
func Extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// LexerFor picks the lexer for a snippet name. Plain text is the fallback.
func LexerFor(name string) chroma.Lexer {
	ext := strings.ToLower(Extension(name))

	lexer := lexers.Match("snippet." + ext)
	if lexer == nil {
		if alias, ok := extensionAliases[ext]; ok {
			lexer = lexers.Match("snippet." + alias)
		}
	}
	if lexer == nil {
		lexer = lexers.Match(name)
	}
	if lexer == nil {
		lexer = lexers.Get(ext)
	}
	if lexer == nil {
		lexer = lexers.Get("plaintext")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// SplitLines splits content into lines, keeping each line's terminator.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Lines highlights content line by line. A line whose tokens do not
// reproduce its source text is returned unstyled, so the output always
// matches the input.
func (h *Highlighter) Lines(name, content string) []Line {
	raw := SplitLines(content)
	out := make([]Line, len(raw))

	var tokenLines [][]chroma.Token
	if it, err := LexerFor(name).Tokenise(nil, content); err == nil {
		tokenLines = chroma.SplitTokensIntoLines(it.Tokens())
	}

	for i, text := range raw {
		if i < len(tokenLines) {
			if line, ok := h.convert(tokenLines[i], text); ok {
				out[i] = line
				continue
			}
		}
		out[i] = Line{{Text: text}}
	}
	return out
}

func (h *Highlighter) convert(tokens []chroma.Token, want string) (Line, bool) {
	line := make(Line, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Value == "" {
			continue
		}
		entry := h.style.Get(tok.Type)
		seg := Segment{Text: tok.Value, Bold: entry.Bold == chroma.Yes}
		if entry.Colour.IsSet() {
			seg.Color = entry.Colour.String()
		}
		line = append(line, seg)
	}

	got := line.Text()
	if got == want {
		return line, true
	}
	// Lexers append a newline to input that lacks one.
	if got == want+"\n" && len(line) > 0 {
		last := &line[len(line)-1]
		last.Text = strings.TrimSuffix(last.Text, "\n")
		if last.Text == "" {
			line = line[:len(line)-1]
		}
		return line, true
	}
	return nil, false
}

// HTML renders the whole document as a <pre> block with inline styles.
// If highlighting fails the escaped content is returned instead.
func (h *Highlighter) HTML(name, content string) template.HTML {
	it, err := LexerFor(name).Tokenise(nil, content)
	if err != nil {
		return plainHTML(content)
	}

	var buf bytes.Buffer
	formatter := html.New(html.WithClasses(false), html.TabWidth(4))
	if err := formatter.Format(&buf, h.style, it); err != nil {
		return plainHTML(content)
	}
	return template.HTML(buf.String())
}

func plainHTML(content string) template.HTML {
	return template.HTML("<pre>" + template.HTMLEscapeString(content) + "</pre>")
}
