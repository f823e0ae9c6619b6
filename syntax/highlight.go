// Package syntax 为代码块提供语法着色。
// 布局层把代码按源码行原样排版，渲染方用这里的结果给每行上色。
package syntax

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Span 是一段同色的代码文本。Color 为空表示使用默认前景色。
type Span struct {
	Text   string `json:"text"`
	Color  string `json:"color,omitempty"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

// Highlighter 按语言名对代码着色，语言未知时退回纯文本。
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter 使用默认配色创建着色器。
func NewHighlighter() *Highlighter {
	return NewHighlighterWithStyle("github")
}

// NewHighlighterWithStyle 使用指定配色创建着色器，配色未知时退回默认配色。
func NewHighlighterWithStyle(styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{style: style}
}

// HighlightLines 返回按源码行组织的着色片段。
// 行数与逐行排版结果对应：输出行的拼接文本等于去掉换行符的源码行。
func (h *Highlighter) HighlightLines(lang, code string) [][]Span {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainLines(code)
	}

	out := [][]Span{{}}
	for tok := it(); tok != chroma.EOF; tok = it() {
		entry := h.style.Get(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, []Span{})
			}
			if part == "" {
				continue
			}
			span := Span{
				Text:   part,
				Bold:   entry.Bold == chroma.Yes,
				Italic: entry.Italic == chroma.Yes,
			}
			if entry.Colour.IsSet() {
				span.Color = entry.Colour.String()
			}
			last := len(out) - 1
			out[last] = append(out[last], span)
		}
	}
	// Tokenise 会补出末尾换行产生的空行，裁到与逐行排版相同的行数
	want := lineCount(code)
	if want == 0 {
		return nil
	}
	for len(out) > want && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func lineCount(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(code, "\n"), "\n") + 1
}

func plainLines(code string) [][]Span {
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	out := make([][]Span, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = []Span{}
			continue
		}
		out[i] = []Span{{Text: strings.TrimSuffix(l, "\r")}}
	}
	return out
}
