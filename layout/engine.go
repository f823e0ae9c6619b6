package layout

import (
	"log"

	"github.com/DocInTardis/writing-agent/document"
	"github.com/DocInTardis/writing-agent/measure"
)

// Engine 把文档排成分页的布局树。
// 引擎内部持有折行缓存与测量器，单个实例不可并发调用；
// 并行路径由引擎自己管理 worker。
type Engine struct {
	opts               EngineOptions
	lay                blockLayouter
	glyphs             *measure.GlyphMeasurer // 启发式测量时为 nil
	lastPrewarmVersion uint64
}

// NewEngine 创建引擎，按 opts.FontPath 与系统候选列表查找字体，
// 找不到时静默使用启发式测量。
func NewEngine(opts EngineOptions) *Engine {
	return NewEngineWithMeasurer(measure.NewSystemMeasurer(opts.FontPath, opts.glyphCap()), opts)
}

// NewEngineWithFont 用显式提供的字体数据创建引擎。
func NewEngineWithFont(fontData []byte, opts EngineOptions) (*Engine, error) {
	gm, err := measure.NewGlyphMeasurer(fontData, opts.glyphCap())
	if err != nil {
		return nil, err
	}
	return NewEngineWithMeasurer(gm, opts), nil
}

// NewEngineWithMeasurer 用指定测量器创建引擎。
func NewEngineWithMeasurer(m measure.TextMeasurer, opts EngineOptions) *Engine {
	e := &Engine{opts: opts}
	e.lay = blockLayouter{
		measurer: m,
		assets:   NewAssetCache(),
		breaks:   newBreakCache(opts.shortBreakCap(), opts.longBreakCap()),
	}
	if gm, ok := m.(*measure.GlyphMeasurer); ok {
		e.glyphs = gm
	}
	return e
}

// Assets 返回引擎使用的资源缓存，供外部注册或调整插图尺寸。
func (e *Engine) Assets() *AssetCache { return e.lay.assets }

// HitTester 返回与引擎共享测量器的命中测试器。
func (e *Engine) HitTester() *HitTester { return NewHitTester(e.lay.measurer) }

// Layout 全量排版：不读写任何缓存（字形与折行缓存除外）。
func (e *Engine) Layout(doc *document.Document, cfg *Config) *Tree {
	e.prewarmIfNeeded(doc, cfg.Metrics)
	var tree *Tree
	if e.opts.Parallel && len(doc.Blocks) > parallelThreshold {
		tree = e.layoutParallel(doc, cfg)
	} else {
		pag := newPaginator(cfg)
		for _, b := range doc.Blocks {
			pag.add(e.lay.layoutBlock(b, cfg, nil))
		}
		tree = pag.finish()
	}
	e.maybeLogStats()
	return tree
}

// LayoutCached 增量排版：干净块直接取缓存；脏块先比对内容签名，
// 签名一致视为误报仍然复用，否则重排并更新缓存。
func (e *Engine) LayoutCached(doc *document.Document, cfg *Config, cache *Cache) *Tree {
	e.prewarmIfNeeded(doc, cfg.Metrics)
	var tree *Tree
	if e.opts.Parallel && len(doc.Blocks) > parallelThreshold {
		tree = e.layoutCachedParallel(doc, cfg, cache)
	} else {
		pag := newPaginator(cfg)
		for _, b := range doc.Blocks {
			pag.add(e.cachedBlock(b, cfg, cache))
		}
		tree = pag.finish()
	}
	e.maybeLogStats()
	return tree
}

func (e *Engine) cachedBlock(b *document.Block, cfg *Config, cache *Cache) *Block {
	dirty := isEffectivelyDirty(b)
	sig := hashBlock(b)
	if hit, ok := cache.Get(b.ID); ok {
		if !dirty {
			return hit
		}
		if cachedSig, have := cache.Signature(b.ID); have && cachedSig == sig {
			return hit
		}
	}
	fresh := e.lay.layoutBlock(b, cfg, cache)
	cache.InsertWithSig(b.ID, fresh, sig)
	return fresh
}

// isEffectivelyDirty 报告块是否需要重排：自身脏，或引用块的任一子块脏。
func isEffectivelyDirty(b *document.Block) bool {
	if b.Dirty {
		return true
	}
	if b.Kind == document.KindQuote {
		for _, inner := range b.Children {
			if isEffectivelyDirty(inner) {
				return true
			}
		}
	}
	return false
}

// prewarmIfNeeded 在文档版本变化后预载入前 prewarmLimit 个不同字符的字形。
func (e *Engine) prewarmIfNeeded(doc *document.Document, m measure.Metrics) {
	if e.glyphs == nil || e.lastPrewarmVersion == doc.Version {
		return
	}
	runes := collectDocRunes(doc, prewarmLimit)
	if len(runes) > 0 {
		e.glyphs.PrewarmRunes(runes, m)
	}
	e.lastPrewarmVersion = doc.Version
}

// Stats 汇总缓存命中率。
type Stats struct {
	BreakCacheHits    uint64  `json:"breakCacheHits"`
	BreakCacheMisses  uint64  `json:"breakCacheMisses"`
	BreakCacheHitRate float64 `json:"breakCacheHitRate"`
	GlyphCacheHitRate float64 `json:"glyphCacheHitRate"`
}

// Stats 返回引擎当前的缓存统计。
func (e *Engine) Stats() Stats {
	s := Stats{
		BreakCacheHits:    e.lay.breaks.hits,
		BreakCacheMisses:  e.lay.breaks.misses,
		BreakCacheHitRate: e.lay.breaks.hitRate(),
	}
	if e.glyphs != nil {
		s.GlyphCacheHitRate = e.glyphs.HitRate()
	}
	return s
}

func (e *Engine) maybeLogStats() {
	if !e.opts.Diagnostics {
		return
	}
	s := e.Stats()
	if s.BreakCacheHits+s.BreakCacheMisses == 0 {
		return
	}
	log.Printf("[layout] break_cache hit_rate=%.2f hits=%d misses=%d", s.BreakCacheHitRate, s.BreakCacheHits, s.BreakCacheMisses)
	if e.glyphs != nil {
		log.Printf("[layout] glyph_cache hit_rate=%.2f", s.GlyphCacheHitRate)
	}
}

// paginator 按可用内容高度把块收集成页。
// 单块超高时独占一页：每页至少放一个块，保证排版总能推进。
type paginator struct {
	cfg     *Config
	pages   []Page
	current Page
}

func newPaginator(cfg *Config) *paginator {
	return &paginator{cfg: cfg, current: Page{Number: 1}}
}

func (p *paginator) add(b *Block) {
	if p.cfg.Paged && p.current.Height+b.Height > p.cfg.maxContentHeight() && len(p.current.Blocks) > 0 {
		p.pages = append(p.pages, p.current)
		p.current = Page{Number: len(p.pages) + 1}
	}
	b.retain()
	p.current.Height += b.Height
	p.current.Blocks = append(p.current.Blocks, b)
}

func (p *paginator) finish() *Tree {
	p.pages = append(p.pages, p.current)
	return &Tree{Pages: p.pages}
}

func paginate(blocks []*Block, cfg *Config) *Tree {
	pag := newPaginator(cfg)
	for _, b := range blocks {
		pag.add(b)
	}
	return pag.finish()
}

// collectDocRunes 按文档顺序收集最多 limit 个不同字符。
func collectDocRunes(doc *document.Document, limit int) []rune {
	seen := make(map[rune]struct{}, limit)
	out := make([]rune, 0, limit)
	for _, b := range doc.Blocks {
		out = collectBlockRunes(b, out, seen, limit)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func collectBlockRunes(b *document.Block, out []rune, seen map[rune]struct{}, limit int) []rune {
	if len(out) >= limit {
		return out
	}
	switch b.Kind {
	case document.KindHeading, document.KindParagraph:
		out = collectInlineRunes(b.Content, out, seen, limit)
	case document.KindList:
		for i := range b.Items {
			out = collectInlineRunes(b.Items[i].Content, out, seen, limit)
			if len(out) >= limit {
				break
			}
		}
	case document.KindQuote:
		for _, inner := range b.Children {
			out = collectBlockRunes(inner, out, seen, limit)
			if len(out) >= limit {
				break
			}
		}
	case document.KindCode:
		out = collectTextRunes(b.Code, out, seen, limit)
	case document.KindTable:
		for _, row := range b.Rows {
			for i := range row {
				out = collectInlineRunes(row[i].Content, out, seen, limit)
				if len(out) >= limit {
					return out
				}
			}
		}
	case document.KindFigure:
		out = collectTextRunes(b.Caption, out, seen, limit)
	}
	return out
}

func collectInlineRunes(inlines []document.Inline, out []rune, seen map[rune]struct{}, limit int) []rune {
	for i := range inlines {
		if len(out) >= limit {
			break
		}
		in := &inlines[i]
		switch in.Kind {
		case document.InlineText, document.InlineCodeSpan:
			out = collectTextRunes(in.Value, out, seen, limit)
		case document.InlineStyled, document.InlineLink:
			out = collectInlineRunes(in.Content, out, seen, limit)
		}
	}
	return out
}

func collectTextRunes(text string, out []rune, seen map[rune]struct{}, limit int) []rune {
	for _, r := range text {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
