package layout

import (
	"github.com/google/uuid"
)

// Cache 记忆整块布局结果，并维护可复用的行存储池。
// 整块结果按块 ID 存取，签名用于在脏标记误报时避免重排；
// 列表项、引用段与表格行还各有独立签名的子项缓存，
// 块内局部编辑只重排变化的子项。非并发安全，与引擎同 goroutine 使用。
type Cache struct {
	blocks map[uuid.UUID]*Block
	sigs   map[uuid.UUID]uint64

	linePool [][]Line

	listItems  map[itemKey]itemEntry
	quoteItems map[itemKey]itemEntry
	tableRows  map[itemKey]itemEntry
}

type itemKey struct {
	id  uuid.UUID
	idx int
}

type itemEntry struct {
	sig   uint64
	lines []Line
}

// NewCache 创建空的布局缓存。
func NewCache() *Cache {
	return &Cache{
		blocks:     map[uuid.UUID]*Block{},
		sigs:       map[uuid.UUID]uint64{},
		listItems:  map[itemKey]itemEntry{},
		quoteItems: map[itemKey]itemEntry{},
		tableRows:  map[itemKey]itemEntry{},
	}
}

// Get 返回缓存的整块结果。
func (c *Cache) Get(id uuid.UUID) (*Block, bool) {
	b, ok := c.blocks[id]
	return b, ok
}

// Insert 存入整块结果并持有引用；被顶掉的旧块若无人引用则回收其行存储。
func (c *Cache) Insert(id uuid.UUID, b *Block) {
	old := c.blocks[id]
	b.retain()
	c.blocks[id] = b
	if old != nil {
		c.recycleBlock(old)
	}
}

// InsertWithSig 存入整块结果并记录内容签名。
func (c *Cache) InsertWithSig(id uuid.UUID, b *Block, sig uint64) {
	c.Insert(id, b)
	c.sigs[id] = sig
}

// Signature 返回某块缓存时的内容签名。
func (c *Cache) Signature(id uuid.UUID) (uint64, bool) {
	sig, ok := c.sigs[id]
	return sig, ok
}

// Clear 清空全部缓存，行存储尽量归还到池中。
func (c *Cache) Clear() {
	for id, b := range c.blocks {
		delete(c.blocks, id)
		c.recycleBlock(b)
	}
	clear(c.sigs)
	clear(c.listItems)
	clear(c.quoteItems)
	clear(c.tableRows)
}

// takeLines 从行池取出一段空的行存储，池空时返回 nil（append 会按需分配）。
func (c *Cache) takeLines() []Line {
	n := len(c.linePool)
	if n == 0 {
		return nil
	}
	out := c.linePool[n-1]
	c.linePool = c.linePool[:n-1]
	return out[:0]
}

func (c *Cache) poolLines(lines []Line) {
	if cap(lines) == 0 {
		return
	}
	c.linePool = append(c.linePool, lines[:0])
}

func (c *Cache) recycleBlock(b *Block) {
	if b.release() {
		c.poolLines(b.Lines)
		b.Lines = nil
	}
}

// GetListItem 返回签名一致的列表项行片段。
func (c *Cache) GetListItem(id uuid.UUID, idx int, sig uint64) ([]Line, bool) {
	return getItem(c.listItems, id, idx, sig)
}

// PutListItem 缓存列表项的行片段。
func (c *Cache) PutListItem(id uuid.UUID, idx int, sig uint64, lines []Line) {
	c.listItems[itemKey{id, idx}] = itemEntry{sig: sig, lines: lines}
}

// GetQuoteItem 返回签名一致的引用段行片段。
func (c *Cache) GetQuoteItem(id uuid.UUID, idx int, sig uint64) ([]Line, bool) {
	return getItem(c.quoteItems, id, idx, sig)
}

// PutQuoteItem 缓存引用段的行片段。
func (c *Cache) PutQuoteItem(id uuid.UUID, idx int, sig uint64, lines []Line) {
	c.quoteItems[itemKey{id, idx}] = itemEntry{sig: sig, lines: lines}
}

// GetTableRow 返回签名一致的表格行。
func (c *Cache) GetTableRow(id uuid.UUID, idx int, sig uint64) ([]Line, bool) {
	return getItem(c.tableRows, id, idx, sig)
}

// PutTableRow 缓存表格行。
func (c *Cache) PutTableRow(id uuid.UUID, idx int, sig uint64, lines []Line) {
	c.tableRows[itemKey{id, idx}] = itemEntry{sig: sig, lines: lines}
}

func getItem(m map[itemKey]itemEntry, id uuid.UUID, idx int, sig uint64) ([]Line, bool) {
	entry, ok := m[itemKey{id, idx}]
	if !ok || entry.sig != sig {
		return nil, false
	}
	return entry.lines, true
}
