package layout

import (
	"golang.org/x/sync/errgroup"

	"github.com/DocInTardis/writing-agent/document"
)

// 并行路径：大文档的块排版相互独立，按块并行后统一分页。
// worker 不碰引擎的折行缓存与行池，只共享线程安全的测量器与资源缓存。

func (e *Engine) newWorker() *blockLayouter {
	return &blockLayouter{
		measurer: e.lay.measurer,
		assets:   e.lay.assets,
	}
}

func (e *Engine) layoutParallel(doc *document.Document, cfg *Config) *Tree {
	blocks := make([]*Block, len(doc.Blocks))
	var g errgroup.Group
	g.SetLimit(e.opts.workers())
	for i, b := range doc.Blocks {
		g.Go(func() error {
			w := e.newWorker()
			blocks[i] = w.layoutBlock(b, cfg, nil)
			return nil
		})
	}
	_ = g.Wait()
	return paginate(blocks, cfg)
}

func (e *Engine) layoutCachedParallel(doc *document.Document, cfg *Config, cache *Cache) *Tree {
	n := len(doc.Blocks)
	reuse := make([]*Block, n)
	sigs := make([]uint64, n)
	var computeIdx []int
	for i, b := range doc.Blocks {
		dirty := isEffectivelyDirty(b)
		sigs[i] = hashBlock(b)
		if hit, ok := cache.Get(b.ID); ok {
			if !dirty {
				reuse[i] = hit
				continue
			}
			if cachedSig, have := cache.Signature(b.ID); have && cachedSig == sigs[i] {
				reuse[i] = hit
				continue
			}
		}
		computeIdx = append(computeIdx, i)
	}

	computed := make([]*Block, n)
	var g errgroup.Group
	g.SetLimit(e.opts.workers())
	for _, i := range computeIdx {
		g.Go(func() error {
			w := e.newWorker()
			computed[i] = w.layoutBlock(doc.Blocks[i], cfg, nil)
			return nil
		})
	}
	_ = g.Wait()

	blocks := make([]*Block, n)
	for i, b := range doc.Blocks {
		if reuse[i] != nil {
			blocks[i] = reuse[i]
			continue
		}
		cache.InsertWithSig(b.ID, computed[i], sigs[i])
		blocks[i] = computed[i]
	}
	return paginate(blocks, cfg)
}
