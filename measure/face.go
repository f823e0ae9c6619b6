package measure

import (
	"fmt"
	"os"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/DocInTardis/writing-agent/internal/lru"
)

// FontPaths 是查找系统字体的候选路径，按顺序尝试。
// 测试可以替换该列表以注入字体。
var FontPaths = []string{
	`C:\Windows\Fonts\segoeui.ttf`,
	`C:\Windows\Fonts\arial.ttf`,
	`C:\Windows\Fonts\msyh.ttf`,
	"/System/Library/Fonts/SFNS.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// NewSystemMeasurer 按 fontPath、FontPaths 的顺序加载第一份可用字体，
// 全部失败时静默退回启发式测量器。capacity 为字形缓存容量。
func NewSystemMeasurer(fontPath string, capacity int) TextMeasurer {
	paths := FontPaths
	if fontPath != "" {
		paths = append([]string{fontPath}, paths...)
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if gm, err := NewGlyphMeasurer(data, capacity); err == nil {
			return gm
		}
	}
	return Heuristic{}
}

type glyphKey struct {
	r    rune
	size uint16
}

// glyphCache 是两级（热/冷）advance 缓存。
// 新字形先进冷区，第二次命中才提升到热区，避免一次性扫描冲掉常用字形。
type glyphCache struct {
	hot    *lru.Cache[glyphKey, float64]
	cold   *lru.Cache[glyphKey, float64]
	hits   uint64
	misses uint64
}

func newGlyphCache(capacity int) *glyphCache {
	if capacity < 1 {
		capacity = 1
	}
	hotCap := capacity / 4
	if hotCap < 64 {
		hotCap = 64
	}
	coldCap := capacity - hotCap
	if coldCap < 64 {
		coldCap = 64
	}
	return &glyphCache{
		hot:  lru.New[glyphKey, float64](hotCap),
		cold: lru.New[glyphKey, float64](coldCap),
	}
}

func (c *glyphCache) getOrInsert(key glyphKey, load func() float64) float64 {
	if w, ok := c.hot.Get(key); ok {
		c.hits++
		return w
	}
	if w, ok := c.cold.Get(key); ok {
		c.hits++
		c.hot.Put(key, w)
		return w
	}
	w := load()
	c.cold.Put(key, w)
	c.misses++
	return w
}

func (c *glyphCache) hitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// GlyphMeasurer 用真实字体的 advance 宽度测量文本。
// 字形宽度按 (字符, 量化字号) 缓存；并发安全。
type GlyphMeasurer struct {
	family *canvas.FontFamily

	mu    sync.Mutex
	faces map[uint16]*canvas.FontFace
	cache *glyphCache
}

// NewGlyphMeasurer 从字体文件数据构造测量器。
func NewGlyphMeasurer(data []byte, capacity int) (*GlyphMeasurer, error) {
	family := canvas.NewFontFamily("measure")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	return &GlyphMeasurer{
		family: family,
		faces:  map[uint16]*canvas.FontFace{},
		cache:  newGlyphCache(capacity),
	}, nil
}

// Measure 返回文本宽度。短 ASCII 文本直接按 0.6em 估算，不触碰字形缓存。
func (g *GlyphMeasurer) Measure(text string, m Metrics) float64 {
	if len(text) < 128 && isASCII(text) {
		return float64(len(text)) * m.FontSize * asciiFactor
	}
	size := quantizeFontSize(m.FontSize)
	g.mu.Lock()
	defer g.mu.Unlock()
	var w float64
	for _, r := range text {
		w += g.advanceLocked(r, size)
	}
	return w
}

// MeasureRune 返回单个字符的宽度。
func (g *GlyphMeasurer) MeasureRune(r rune, m Metrics) float64 {
	size := quantizeFontSize(m.FontSize)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.advanceLocked(r, size)
}

// PrewarmRunes 预先载入一批字符的字形宽度，摊平文档首次排版的开销。
func (g *GlyphMeasurer) PrewarmRunes(runes []rune, m Metrics) {
	size := quantizeFontSize(m.FontSize)
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range runes {
		g.advanceLocked(r, size)
	}
}

// HitRate 返回字形缓存命中率。
func (g *GlyphMeasurer) HitRate() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cache.hitRate()
}

func (g *GlyphMeasurer) advanceLocked(r rune, size uint16) float64 {
	key := glyphKey{r: r, size: size}
	return g.cache.getOrInsert(key, func() float64 {
		face := g.faceLocked(size)
		w := face.TextWidth(string(r))
		if w < 0 {
			w = 0
		}
		return w
	})
}

func (g *GlyphMeasurer) faceLocked(size uint16) *canvas.FontFace {
	if face, ok := g.faces[size]; ok {
		return face
	}
	face := g.family.Face(float64(size), canvas.Black, canvas.FontRegular, canvas.FontNormal)
	g.faces[size] = face
	return face
}

func quantizeFontSize(size float64) uint16 {
	q := int(size + 0.5)
	if q < 1 {
		q = 1
	}
	return uint16(q)
}
