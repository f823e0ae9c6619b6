package document

import (
	"time"

	"github.com/google/uuid"
)

// 该包定义布局引擎消费的文档模型：有序块、稳定块标识、
// 单调递增的版本号与由编辑层维护的脏标记。

// Document 是引擎的只读输入：有序块序列加元信息。
// Version 每次编辑后递增，驱动测量器的一次性字形预热。
type Document struct {
	ID       uuid.UUID `json:"id"`
	Version  uint64    `json:"version"`
	Blocks   []*Block  `json:"blocks"`
	Metadata Metadata  `json:"metadata"`
}

// Metadata 保存文档级的描述信息。
type Metadata struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// BlockKind 标记块的类型。
type BlockKind uint8

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindList
	KindQuote
	KindCode
	KindTable
	KindFigure
)

// String returns the wire name of the kind.
func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindQuote:
		return "quote"
	case KindCode:
		return "code"
	case KindTable:
		return "table"
	case KindFigure:
		return "figure"
	default:
		return "unknown"
	}
}

// Block 是顶层内容单元。Kind 决定哪些字段有效：
// 标题/段落使用 Content，列表使用 Items，引用嵌套 Children，
// 代码使用 Lang/Code，表格使用 Rows，插图使用 URL/Caption/Size。
// ID 在编辑过程中保持稳定；Dirty 由编辑层置位，仅作为重排提示。
type Block struct {
	ID    uuid.UUID `json:"id"`
	Kind  BlockKind `json:"type"`
	Dirty bool      `json:"dirty"`

	Level   int        `json:"level,omitempty"`
	Content []Inline   `json:"content,omitempty"`
	Ordered bool       `json:"ordered,omitempty"`
	Items   []ListItem `json:"items,omitempty"`
	Children []*Block  `json:"children,omitempty"`
	Lang    string     `json:"lang,omitempty"`
	Code    string     `json:"code,omitempty"`
	Rows    [][]Cell   `json:"rows,omitempty"`
	URL     string     `json:"url,omitempty"`
	Caption string     `json:"caption,omitempty"`
	Size    *FigureSize `json:"size,omitempty"`
}

// FigureSize 是插图的显式显示尺寸（像素）。
type FigureSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ListItem 是列表中的一项。
type ListItem struct {
	ID      uuid.UUID `json:"id"`
	Content []Inline  `json:"content"`
}

// Cell 是表格单元格。
type Cell struct {
	Content []Inline `json:"content"`
}

// InlineKind 标记行内单元的类型。
type InlineKind uint8

const (
	InlineText InlineKind = iota
	InlineStyled
	InlineLink
	InlineCodeSpan
)

// Inline 是块内的行内内容单元。
type Inline struct {
	Kind    InlineKind `json:"type"`
	Value   string     `json:"value,omitempty"`
	Style   Style      `json:"style,omitempty"`
	Content []Inline   `json:"content,omitempty"`
	URL     string     `json:"url,omitempty"`
}

// Style 描述行内样式开关。
type Style struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// Position 定位文档中的一个字符位置；Offset 为字符数而非字节数。
type Position struct {
	BlockID uuid.UUID `json:"blockId"`
	Offset  int       `json:"offset"`
}

// New 创建一个空文档，版本号从 1 开始。
func New() *Document {
	return &Document{
		ID:      uuid.New(),
		Version: 1,
	}
}

// Touch 递增版本号并刷新更新时间。
func (d *Document) Touch() {
	d.Version++
	d.Metadata.UpdatedAt = time.Now().Unix()
}

// ClearDirty 清除所有块（包括引用内嵌套块）的脏标记。
func (d *Document) ClearDirty() {
	for _, b := range d.Blocks {
		b.Dirty = false
		if b.Kind == KindQuote {
			for _, inner := range b.Children {
				inner.Dirty = false
			}
		}
	}
}

// Text 把行内序列压平为纯文本（忽略链接地址与样式）。
func Text(inlines []Inline) string {
	buf := make([]byte, 0, textLen(inlines))
	return string(appendText(buf, inlines))
}

// TextLen 返回行内序列压平后的字节长度，用于预分配。
func TextLen(inlines []Inline) int { return textLen(inlines) }

// AppendText 将行内序列的纯文本追加到 dst。
func AppendText(dst []byte, inlines []Inline) []byte { return appendText(dst, inlines) }

func textLen(inlines []Inline) int {
	n := 0
	for i := range inlines {
		switch inlines[i].Kind {
		case InlineText, InlineCodeSpan:
			n += len(inlines[i].Value)
		case InlineStyled, InlineLink:
			n += textLen(inlines[i].Content)
		}
	}
	return n
}

func appendText(dst []byte, inlines []Inline) []byte {
	for i := range inlines {
		switch inlines[i].Kind {
		case InlineText, InlineCodeSpan:
			dst = append(dst, inlines[i].Value...)
		case InlineStyled, InlineLink:
			dst = appendText(dst, inlines[i].Content)
		}
	}
	return dst
}

// PlainText 是构造纯文本行内序列的简写，测试与示例常用。
func PlainText(value string) []Inline {
	return []Inline{{Kind: InlineText, Value: value}}
}
