package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/tessera-io/tessera/pkg/logger"
)

// Span is a run of text drawn with one style.
type Span struct {
	Text  string
	Style tcell.Style
}

// Line is one terminal row of styled spans.
type Line struct {
	Spans []Span
}

func plainLine(text string, style tcell.Style) Line {
	return Line{Spans: []Span{{Text: text, Style: style}}}
}

// String returns the line's text without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// MarkdownFormatter turns answer prose into styled terminal lines. Headings
// and blockquotes get light styling; fenced code blocks are highlighted with
// chroma.
type MarkdownFormatter struct {
	width int
}

// NewMarkdownFormatter creates a formatter wrapping at width columns
func NewMarkdownFormatter(width int) *MarkdownFormatter {
	if width <= 0 {
		width = 80
	}
	return &MarkdownFormatter{width: width}
}

// Format renders content into lines. Content may be a partial message; an
// unterminated code fence is treated as running to the end.
func (mf *MarkdownFormatter) Format(content string) []Line {
	var out []Line

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	var codeBuf []string
	codeLang := ""
	inCode := false

	flushCode := func() {
		out = append(out, mf.highlightCode(strings.Join(codeBuf, "\n"), codeLang)...)
		codeBuf = nil
		inCode = false
	}

	for _, raw := range lines {
		if strings.HasPrefix(strings.TrimSpace(raw), "```") {
			if inCode {
				flushCode()
			} else {
				inCode = true
				codeLang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "```"))
			}
			continue
		}
		if inCode {
			codeBuf = append(codeBuf, raw)
			continue
		}
		out = append(out, mf.formatProse(raw)...)
	}
	if inCode {
		flushCode()
	}

	return out
}

func (mf *MarkdownFormatter) formatProse(line string) []Line {
	style := StyleAnswerText
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "#"):
		style = StyleHeaderText
	case strings.HasPrefix(trimmed, ">"):
		style = StyleDimText
	}

	var out []Line
	for _, wrapped := range WrapText(line, mf.width) {
		out = append(out, plainLine(wrapped, style))
	}
	return out
}

// highlightCode tokenizes a fenced block and maps token classes onto the
// theme's code colors. Falls back to unstyled text when no lexer matches.
func (mf *MarkdownFormatter) highlightCode(code, lang string) []Line {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		logger.Debug("code highlight failed for lang %q: %v", lang, err)
		var out []Line
		for _, l := range strings.Split(code, "\n") {
			out = append(out, plainLine("  "+l, StyleDimText))
		}
		return out
	}

	var out []Line
	current := Line{Spans: []Span{{Text: "  ", Style: StyleDimText}}}
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style := tokenStyle(token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, current)
				current = Line{Spans: []Span{{Text: "  ", Style: StyleDimText}}}
			}
			if part != "" {
				current.Spans = append(current.Spans, Span{Text: part, Style: style})
			}
		}
	}
	if current.String() != "  " || len(out) == 0 {
		out = append(out, current)
	}
	return out
}

func tokenStyle(tt chroma.TokenType) tcell.Style {
	base := tcell.StyleDefault
	switch {
	case tt.InCategory(chroma.Keyword):
		return base.Foreground(ColorCodeKeyword)
	case tt.InCategory(chroma.Comment):
		return base.Foreground(ColorCodeComment)
	case tt == chroma.NameFunction || tt == chroma.NameClass:
		return base.Foreground(ColorCodeFunction)
	case tt.InSubCategory(chroma.LiteralString):
		return base.Foreground(ColorCodeString)
	case tt.InSubCategory(chroma.LiteralNumber):
		return base.Foreground(ColorCodeNumber)
	default:
		return base.Foreground(ColorCodeDefault)
	}
}

// WrapText breaks text into rows no wider than width display cells, on word
// boundaries where possible. Widths are measured in terminal cells, not
// bytes: CJK and other wide runes count as two.
func WrapText(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	current := words[0]
	currentWidth := runewidth.StringWidth(current)
	for _, word := range words[1:] {
		w := runewidth.StringWidth(word)
		if currentWidth+1+w <= width {
			current += " " + word
			currentWidth += 1 + w
			continue
		}
		lines = append(lines, current)
		current = word
		currentWidth = w
	}
	lines = append(lines, current)
	return lines
}
