package measure

import (
	"unicode/utf8"

	"github.com/go-text/typesetting/segmenter"
)

// LineBreaker 基于 UAX#14 计算折行机会。
// 返回的折行点是字节偏移，表示新行可以从该处开始。
// 内部复用 rune 缓冲，单个实例不可并发使用。
type LineBreaker struct {
	seg   segmenter.Segmenter
	runes []rune
}

// BreakPositions 返回 text 的全部折行点（升序字节偏移，含 len(text)）。
func (b *LineBreaker) BreakPositions(text string) []int {
	return b.BreakPositionsInto(text, nil)
}

// BreakPositionsInto 与 BreakPositions 相同，但将结果写入 out 以复用存储。
func (b *LineBreaker) BreakPositionsInto(text string, out []int) []int {
	out = out[:0]
	if text == "" {
		return out
	}
	b.runes = b.runes[:0]
	for _, r := range text {
		b.runes = append(b.runes, r)
	}
	b.seg.Init(b.runes)
	iter := b.seg.LineIterator()
	pos := 0
	for iter.Next() {
		line := iter.Line()
		for _, r := range line.Text {
			pos += utf8.RuneLen(r)
		}
		out = append(out, pos)
	}
	return out
}

// AdjustBreak 对候选折行点做禁则调整：
// 行末不能停在开括号后，行首不能落在闭标点上。
// 调整后的折行点仍位于 (start, len(text)] 区间内。
func AdjustBreak(text string, start, breakPos int) int {
	if breakPos <= start {
		return breakPos
	}
	if prev, size := utf8.DecodeLastRuneInString(text[:breakPos]); size > 0 {
		prevIdx := breakPos - size
		if IsForbiddenLineEnd(prev) && prevIdx > start {
			breakPos = prevIdx
		}
	}
	if breakPos < len(text) {
		next, size := utf8.DecodeRuneInString(text[breakPos:])
		if IsForbiddenLineStart(next) {
			breakPos += size
		}
	}
	return breakPos
}

// IsForbiddenLineStart 报告 r 是否禁止出现在行首（闭标点）。
func IsForbiddenLineStart(r rune) bool {
	switch r {
	case '，', '。', '！', '？', '；', '：', '、', '）', '】', '》', '〉', '」', '』', '”', '’',
		',', '.', '!', '?', ';', ':', ')', ']', '}':
		return true
	}
	return false
}

// IsForbiddenLineEnd 报告 r 是否禁止出现在行末（开括号）。
func IsForbiddenLineEnd(r rune) bool {
	switch r {
	case '（', '【', '《', '〈', '「', '『', '“', '‘', '〔', '［', '｛',
		'(', '[', '{':
		return true
	}
	return false
}
