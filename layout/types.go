package layout

import (
	"github.com/google/uuid"

	"github.com/DocInTardis/writing-agent/document"
)

// 该文件定义布局结果：页面、布局块与视觉行，供排版、命中测试与调试 JSON 共用。

// Tree 是一次布局的完整结果。
type Tree struct {
	Pages []Page `json:"pages"`
}

// Page 记录页号、页内块与累计内容高度。页号从 1 开始。
type Page struct {
	Number int      `json:"number"`
	Blocks []*Block `json:"blocks"`
	Height float64  `json:"height"`
}

// Block 是一个排版完成的块：全部视觉行加总高度。
// 同一个 *Block 可能同时被缓存和多棵布局树引用，refs 记录引用数。
type Block struct {
	BlockID uuid.UUID          `json:"blockId"`
	Kind    document.BlockKind `json:"kind"`
	Level   int                `json:"level,omitempty"`
	Lines   []Line             `json:"lines"`
	Height  float64            `json:"height"`
	Meta    *Meta              `json:"meta,omitempty"`

	refs int32
}

// Meta 保存表格与插图的额外尺寸信息。
type Meta struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 是一条视觉行：折行后的文本片段与其测量宽度。
type Line struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

func (b *Block) retain() { b.refs++ }

// release 递减引用计数，归零时返回 true，表示调用方是最后一个持有者。
func (b *Block) release() bool {
	if b.refs > 0 {
		b.refs--
	}
	return b.refs == 0
}

// Recycle 释放布局树对所有块的引用。
// 若某个块不再被任何缓存持有，其行存储会归还给 cache 的行池；
// cache 为 nil 时仅释放引用。调用后布局树不可再使用。
func (t *Tree) Recycle(cache *Cache) {
	for pi := range t.Pages {
		for _, b := range t.Pages[pi].Blocks {
			if b.release() && cache != nil {
				cache.poolLines(b.Lines)
				b.Lines = nil
			}
		}
		t.Pages[pi].Blocks = nil
	}
	t.Pages = nil
}

// Placeholder 返回指定类型的占位块：零高度、一条空行。
// 供渲染方在布局完成前先行占位。
func Placeholder(kind document.BlockKind) *Block {
	return &Block{
		BlockID: uuid.Nil,
		Kind:    kind,
		Lines:   []Line{{}},
		Height:  0,
	}
}
