package layout

import (
	"github.com/DocInTardis/writing-agent/internal/lru"
)

// breakKey 以文本哈希加量化后的宽度与字号标识一次折行计算。
// 宽度按 0.1px 量化，字号取整到 1px。
type breakKey struct {
	textHash uint64
	widthQ   uint32
	sizeQ    uint16
}

func quantizeWidth(width float64) uint32 {
	if width < 0 {
		width = 0
	}
	return uint32(width*10 + 0.5)
}

func quantizeSize(size float64) uint16 {
	q := int(size + 0.5)
	if q < 1 {
		q = 1
	}
	return uint16(q)
}

// breakCache 缓存折行点序列，短文本与长文本分层：
// 短文本用普通 map，超容量时整体清空（重算便宜）；
// 长文本用 LRU，单次重算代价高，逐条淘汰。
type breakCache struct {
	short    map[breakKey][]int
	shortCap int
	long     *lru.Cache[breakKey, []int]
	hits     uint64
	misses   uint64
}

func newBreakCache(shortCap, longCap int) *breakCache {
	return &breakCache{
		short:    make(map[breakKey][]int, shortCap),
		shortCap: shortCap,
		long:     lru.New[breakKey, []int](longCap),
	}
}

func makeBreakKey(text string, width, fontSize float64) breakKey {
	return breakKey{
		textHash: hashText(text),
		widthQ:   quantizeWidth(width),
		sizeQ:    quantizeSize(fontSize),
	}
}

// get 将缓存的折行点复制进 buf 并返回；未命中时返回 nil, false。
func (c *breakCache) get(key breakKey, textLen int, buf []int) ([]int, bool) {
	if textLen <= shortTextLimit {
		if cached, ok := c.short[key]; ok {
			c.hits++
			return append(buf[:0], cached...), true
		}
	} else if cached, ok := c.long.Get(key); ok {
		c.hits++
		return append(buf[:0], cached...), true
	}
	c.misses++
	return nil, false
}

func (c *breakCache) put(key breakKey, textLen int, positions []int) {
	stored := append([]int(nil), positions...)
	if textLen <= shortTextLimit {
		if len(c.short) > c.shortCap {
			clear(c.short)
		}
		c.short[key] = stored
		return
	}
	c.long.Put(key, stored)
}

func (c *breakCache) hitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
