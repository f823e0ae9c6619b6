package layout

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"

	"github.com/DocInTardis/writing-agent/document"
)

// 内容签名：对块内容做 FNV-1a 哈希，用于脏标记的误报校验与子项缓存。
// 签名只覆盖影响布局的字段，不含块 ID 与脏标记。

func hashBlock(b *document.Block) uint64 {
	h := fnv.New64a()
	hashBlockInto(h, b)
	return h.Sum64()
}

func hashBlockInto(h hash.Hash64, b *document.Block) {
	writeUint64(h, uint64(b.Kind))
	switch b.Kind {
	case document.KindHeading:
		writeUint64(h, uint64(b.Level))
		hashInlines(h, b.Content)
	case document.KindParagraph:
		hashInlines(h, b.Content)
	case document.KindList:
		writeBool(h, b.Ordered)
		writeUint64(h, uint64(len(b.Items)))
		for i := range b.Items {
			hashInlines(h, b.Items[i].Content)
		}
	case document.KindQuote:
		writeUint64(h, uint64(len(b.Children)))
		for _, inner := range b.Children {
			hashBlockInto(h, inner)
		}
	case document.KindCode:
		writeString(h, b.Lang)
		writeString(h, b.Code)
	case document.KindTable:
		writeUint64(h, uint64(len(b.Rows)))
		for _, row := range b.Rows {
			writeUint64(h, uint64(len(row)))
			for i := range row {
				hashInlines(h, row[i].Content)
			}
		}
	case document.KindFigure:
		writeString(h, b.URL)
		writeString(h, b.Caption)
		if b.Size != nil {
			writeUint64(h, math.Float64bits(b.Size.Width))
			writeUint64(h, math.Float64bits(b.Size.Height))
		}
	}
}

func hashInlines(h hash.Hash64, inlines []document.Inline) {
	writeUint64(h, uint64(len(inlines)))
	for i := range inlines {
		in := &inlines[i]
		writeUint64(h, uint64(in.Kind))
		switch in.Kind {
		case document.InlineText, document.InlineCodeSpan:
			writeString(h, in.Value)
		case document.InlineStyled:
			writeBool(h, in.Style.Bold)
			writeBool(h, in.Style.Italic)
			writeBool(h, in.Style.Underline)
			writeBool(h, in.Style.Strikethrough)
			hashInlines(h, in.Content)
		case document.InlineLink:
			writeString(h, in.URL)
			hashInlines(h, in.Content)
		}
	}
}

// hashListItem 的签名包含有序标记：前缀随 ordered 变化，内容相同也不能复用。
func hashListItem(ordered bool, content []document.Inline) uint64 {
	h := fnv.New64a()
	writeBool(h, ordered)
	hashInlines(h, content)
	return h.Sum64()
}

func hashInlinesValue(inlines []document.Inline) uint64 {
	h := fnv.New64a()
	hashInlines(h, inlines)
	return h.Sum64()
}

func hashRow(row []document.Cell) uint64 {
	h := fnv.New64a()
	writeUint64(h, uint64(len(row)))
	for i := range row {
		hashInlines(h, row[i].Content)
	}
	return h.Sum64()
}

// hashText 是对 string 的免分配 FNV-1a，折行缓存的键每次排版都要算。
func hashText(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

func writeUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeString(h hash.Hash64, s string) {
	writeUint64(h, uint64(len(s)))
	h.Write([]byte(s))
}

func writeBool(h hash.Hash64, b bool) {
	if b {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}
