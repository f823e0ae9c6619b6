package layout

import (
	"github.com/google/uuid"
)

// 脏块占比超过该阈值时局部重绘不再划算，直接全量重绘。
const renderDirtyThreshold = 0.05

// RenderCache 跟踪自上次绘制以来内容变化的块，
// 帮助渲染方决定整页重绘还是只重绘脏块。
type RenderCache struct {
	dirty     map[uuid.UUID]struct{}
	threshold float64
}

// NewRenderCache 创建空的重绘跟踪器。
func NewRenderCache() *RenderCache {
	return &RenderCache{
		dirty:     map[uuid.UUID]struct{}{},
		threshold: renderDirtyThreshold,
	}
}

// MarkDirty 标记某块需要重绘。
func (c *RenderCache) MarkDirty(id uuid.UUID) {
	c.dirty[id] = struct{}{}
}

// Clear 在一帧绘制完成后清空脏集合。
func (c *RenderCache) Clear() {
	clear(c.dirty)
}

// IsDirty 报告某块是否被标记。
func (c *RenderCache) IsDirty(id uuid.UUID) bool {
	_, ok := c.dirty[id]
	return ok
}

// DirtyRatio 返回脏块占比；totalBlocks 为 0 时返回 0。
func (c *RenderCache) DirtyRatio(totalBlocks int) float64 {
	if totalBlocks == 0 {
		return 0
	}
	return float64(len(c.dirty)) / float64(totalBlocks)
}

// ShouldRender 报告某块这一帧是否需要绘制：
// 没有脏块时全部绘制（首帧），脏块占比低时只绘制脏块，占比高时全部绘制。
func (c *RenderCache) ShouldRender(id uuid.UUID, totalBlocks int) bool {
	ratio := c.DirtyRatio(totalBlocks)
	if ratio == 0 {
		return true
	}
	if ratio <= c.threshold {
		return c.IsDirty(id)
	}
	return true
}
