package measure

import (
	"sort"
	"testing"
	"unicode/utf8"
)

func TestBreakPositionsAscending(t *testing.T) {
	var b LineBreaker
	text := "Hello 世界 مرحبا Привет 12345 テスト"
	pos := b.BreakPositions(text)
	if len(pos) == 0 {
		t.Fatal("非空文本应至少有一个折行点")
	}
	if !sort.IntsAreSorted(pos) {
		t.Fatalf("折行点应当升序: %v", pos)
	}
	if pos[len(pos)-1] != len(text) {
		t.Fatalf("末尾折行点 %d, 期望文本长度 %d", pos[len(pos)-1], len(text))
	}
	for _, p := range pos {
		if p > 0 && p < len(text) && !utf8.RuneStart(text[p]) {
			t.Fatalf("折行点 %d 落在字符中间", p)
		}
	}
}

func TestBreakPositionsSpaces(t *testing.T) {
	var b LineBreaker
	pos := b.BreakPositions("foo bar baz")
	// 空格后可以换行：新行可从 4、8 开始。
	want := map[int]bool{4: true, 8: true}
	got := map[int]bool{}
	for _, p := range pos {
		got[p] = true
	}
	for p := range want {
		if !got[p] {
			t.Fatalf("缺少折行点 %d: %v", p, pos)
		}
	}
}

func TestBreakPositionsEmpty(t *testing.T) {
	var b LineBreaker
	if pos := b.BreakPositions(""); len(pos) != 0 {
		t.Fatalf("空文本不应有折行点: %v", pos)
	}
}

func TestBreakPositionsIntoReusesBuffer(t *testing.T) {
	var b LineBreaker
	buf := make([]int, 0, 16)
	out := b.BreakPositionsInto("one two", buf)
	out2 := b.BreakPositionsInto("三个 字", out)
	if !sort.IntsAreSorted(out2) {
		t.Fatalf("复用缓冲后折行点乱序: %v", out2)
	}
}

func TestAdjustBreakForbiddenLineStart(t *testing.T) {
	// 折行点落在句号前时应把句号带到上一行。
	text := "你好。世界"
	pos := len("你好") // 候选折行点在 "。" 之前
	got := AdjustBreak(text, 0, pos)
	want := len("你好。")
	if got != want {
		t.Fatalf("AdjustBreak = %d, 期望 %d", got, want)
	}
}

func TestAdjustBreakForbiddenLineEnd(t *testing.T) {
	// 行末是开括号时应把括号推到下一行。
	text := "正文（注释"
	pos := len("正文（")
	got := AdjustBreak(text, 0, pos)
	want := len("正文")
	if got != want {
		t.Fatalf("AdjustBreak = %d, 期望 %d", got, want)
	}
}

func TestAdjustBreakIdempotent(t *testing.T) {
	texts := []string{"你好。世界", "正文（注释）结束", "plain ascii, with (parens) and.dots"}
	for _, text := range texts {
		for pos := 0; pos <= len(text); pos++ {
			if pos < len(text) && !utf8.RuneStart(text[pos]) {
				continue
			}
			once := AdjustBreak(text, 0, pos)
			if once < 0 || once > len(text) {
				t.Fatalf("调整结果越界: %d (text=%q pos=%d)", once, text, pos)
			}
		}
	}
}

func TestAdjustBreakKeepsProgress(t *testing.T) {
	// 禁则调整不能回退到行首，否则排版无法推进。
	text := "（（（（"
	start := 0
	pos := len("（")
	got := AdjustBreak(text, start, pos)
	if got <= start {
		t.Fatalf("调整后折行点 %d 不应回到行首", got)
	}
}
