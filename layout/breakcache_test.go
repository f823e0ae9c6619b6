package layout

import (
	"fmt"
	"strings"
	"testing"
)

func TestBreakCacheShortHitAndCounters(t *testing.T) {
	c := newBreakCache(16, 4)
	key := makeBreakKey("短文本", 100, 14)
	if _, ok := c.get(key, 9, nil); ok {
		t.Fatal("空缓存不应命中")
	}
	c.put(key, 9, []int{3, 6, 9})
	got, ok := c.get(key, 9, nil)
	if !ok {
		t.Fatal("写入后应命中")
	}
	if len(got) != 3 || got[2] != 9 {
		t.Fatalf("命中内容错误: %v", got)
	}
	if c.hits != 1 || c.misses != 1 {
		t.Fatalf("计数 hits=%d misses=%d, 期望 1/1", c.hits, c.misses)
	}
	if c.hitRate() != 0.5 {
		t.Fatalf("命中率 %v, 期望 0.5", c.hitRate())
	}
}

func TestBreakCacheShortOverflowClearsWholesale(t *testing.T) {
	c := newBreakCache(4, 4)
	for i := 0; i < 7; i++ {
		text := fmt.Sprintf("text-%02d", i)
		c.put(makeBreakKey(text, 100, 14), len(text), []int{len(text)})
	}
	// 超过容量时 map 被整体清空，而不是逐条淘汰
	if len(c.short) > 5 {
		t.Fatalf("短缓存超限未清空: %d 条", len(c.short))
	}
}

func TestBreakCacheLongUsesLRU(t *testing.T) {
	c := newBreakCache(16, 2)
	long := strings.Repeat("x", shortTextLimit+1)
	keys := make([]breakKey, 3)
	for i := range keys {
		text := fmt.Sprintf("%s-%d", long, i)
		keys[i] = makeBreakKey(text, 100, 14)
		c.put(keys[i], len(text), []int{i})
	}
	if _, ok := c.get(keys[0], shortTextLimit+3, nil); ok {
		t.Fatal("最旧的长文本条目应被淘汰")
	}
	if _, ok := c.get(keys[2], shortTextLimit+3, nil); !ok {
		t.Fatal("最新的长文本条目应保留")
	}
}

func TestBreakKeyQuantization(t *testing.T) {
	a := makeBreakKey("同一文本", 100.01, 14.2)
	b := makeBreakKey("同一文本", 100.04, 13.8)
	if a != b {
		t.Fatalf("量化后键应相同: %+v vs %+v", a, b)
	}
	cWide := makeBreakKey("同一文本", 101.0, 14.0)
	if a == cWide {
		t.Fatal("宽度相差 1px 的键不应相同")
	}
	if quantizeSize(0.2) != 1 {
		t.Fatalf("字号量化下限应为 1, 实际 %d", quantizeSize(0.2))
	}
	if quantizeWidth(-5) != 0 {
		t.Fatalf("负宽度应量化为 0, 实际 %d", quantizeWidth(-5))
	}
}

func TestBreakCacheCopiesResult(t *testing.T) {
	c := newBreakCache(16, 4)
	key := makeBreakKey("复制语义", 100, 14)
	src := []int{4, 8}
	c.put(key, 12, src)
	src[0] = 999 // 调用方修改自己的切片不应污染缓存
	got, _ := c.get(key, 12, nil)
	if got[0] != 4 {
		t.Fatalf("缓存内容被外部修改污染: %v", got)
	}
	got[1] = 777 // 命中返回的副本同样不应写回缓存
	again, _ := c.get(key, 12, nil)
	if again[1] != 8 {
		t.Fatalf("命中副本写回污染缓存: %v", again)
	}
}
