// Package measure 提供文本宽度测量与折行点计算：
// 启发式测量器、字形测量器（带两级缓存）与 UAX#14 折行器。
package measure

import (
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Metrics 描述测量所需的字体参数。
type Metrics struct {
	FontSize   float64 `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
}

// DefaultMetrics 返回默认的字体参数。
func DefaultMetrics() Metrics {
	return Metrics{FontSize: 14.0, LineHeight: 1.6}
}

// TextMeasurer 计算文本在给定字体参数下的像素宽度。
// 实现必须满足：相同输入返回相同宽度，且可被多个 goroutine 并发调用。
type TextMeasurer interface {
	Measure(text string, m Metrics) float64
	MeasureRune(r rune, m Metrics) float64
}

// 启发式宽度系数：全角字符占一个字号宽，ASCII 占 0.6，其余占 0.7。
const (
	asciiFactor = 0.6
	otherFactor = 0.7
)

// Heuristic 是无字体数据时的估算测量器。
// 宽度只依赖字符类别，因此天然确定且无需任何缓存。
type Heuristic struct{}

// Measure 返回文本的估算宽度。纯 ASCII 文本走快速路径。
func (Heuristic) Measure(text string, m Metrics) float64 {
	if isASCII(text) {
		return float64(len(text)) * m.FontSize * asciiFactor
	}
	var w float64
	for _, r := range text {
		w += runeFactor(r) * m.FontSize
	}
	return w
}

// MeasureRune 返回单个字符的估算宽度。
func (Heuristic) MeasureRune(r rune, m Metrics) float64 {
	return runeFactor(r) * m.FontSize
}

func runeFactor(r rune) float64 {
	if r < utf8.RuneSelf {
		return asciiFactor
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 1.0
	default:
		return otherFactor
	}
}

// isASCII 按 8 字节一组检查高位，尾部逐字节处理。
func isASCII(s string) bool {
	i := 0
	for ; i+8 <= len(s); i += 8 {
		v := uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
			uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
		if v&0x8080808080808080 != 0 {
			return false
		}
	}
	for ; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
