package measure

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestHeuristicWidthClasses(t *testing.T) {
	m := Metrics{FontSize: 10, LineHeight: 1.6}
	h := Heuristic{}
	cases := []struct {
		text string
		want float64
	}{
		{"abc", 3 * 10 * 0.6},
		{"中文字", 3 * 10.0},
		{"é", 10 * 0.7},
		{"a中", 10*0.6 + 10},
		{"", 0},
	}
	for _, c := range cases {
		if got := h.Measure(c.text, m); !almostEqual(got, c.want) {
			t.Errorf("Measure(%q) = %v, 期望 %v", c.text, got, c.want)
		}
	}
}

func TestHeuristicFastPathMatchesRuneSum(t *testing.T) {
	m := DefaultMetrics()
	h := Heuristic{}
	text := strings.Repeat("hello world ", 40)
	var sum float64
	for _, r := range text {
		sum += h.MeasureRune(r, m)
	}
	if got := h.Measure(text, m); !almostEqual(got, sum) {
		t.Fatalf("快速路径结果 %v 与逐字符求和 %v 不一致", got, sum)
	}
}

func TestIsASCII(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"", true},
		{"hello", true},
		{strings.Repeat("x", 17), true},
		{"abcdefg中", false},
		{"中abcdefgh", false},
		{"01234567\x80", false},
	}
	for _, c := range cases {
		if got := isASCII(c.text); got != c.want {
			t.Errorf("isASCII(%q) = %v, 期望 %v", c.text, got, c.want)
		}
	}
}

func TestGlyphCachePromotesOnSecondHit(t *testing.T) {
	c := newGlyphCache(256)
	loads := 0
	load := func() float64 {
		loads++
		return 7.0
	}
	key := glyphKey{r: '字', size: 14}
	if w := c.getOrInsert(key, load); !almostEqual(w, 7.0) {
		t.Fatalf("首次载入宽度 %v", w)
	}
	if loads != 1 {
		t.Fatalf("首次访问应触发一次载入，实际 %d 次", loads)
	}
	if _, ok := c.hot.Get(key); ok {
		t.Fatal("新字形不应直接进入热区")
	}
	c.getOrInsert(key, load)
	if loads != 1 {
		t.Fatalf("第二次访问不应再载入，实际 %d 次", loads)
	}
	if _, ok := c.hot.Get(key); !ok {
		t.Fatal("第二次命中后字形应提升到热区")
	}
	if rate := c.hitRate(); !almostEqual(rate, 0.5) {
		t.Fatalf("命中率 %v, 期望 0.5", rate)
	}
}

func TestNewSystemMeasurerFallsBackToHeuristic(t *testing.T) {
	orig := FontPaths
	FontPaths = []string{"/nonexistent/font.ttf"}
	defer func() { FontPaths = orig }()

	m := NewSystemMeasurer("", 1024)
	if _, ok := m.(Heuristic); !ok {
		t.Fatalf("无可用字体时应退回启发式测量器，实际类型 %T", m)
	}
}
